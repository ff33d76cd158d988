package descriptions

import (
	"context"
	"encoding/binary"

	"github.com/iron-fish/sapling-go/asset"
	"github.com/iron-fish/sapling-go/circuits"
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// MintSignatureBytesSize is the length of a mint description's
// signature-hash contribution, excluding the 64-byte authorizing signature:
// proof ∥ asset ∥ value_le64 ∥ cv. The optional new_owner field (transaction
// version 2 only, §4.G "mint-owner transfer") is appended separately.
const MintSignatureBytesSize = 192 + asset.WireSize + 8 + 32

// MintBuilder accumulates the state one mint needs to build a proof: the
// asset being issued, the amount, and (for version-2 transactions) a new
// owner address to transfer minting rights to.
type MintBuilder struct {
	assetDef asset.Asset
	value    uint64
	vc       primitives.ValueCommitment
	newOwner *keys.PublicAddress
}

// NewMintBuilder samples fresh value-commitment randomness for a mint of
// value units of a, issued against a's own generator.
func NewMintBuilder(a asset.Asset, value uint64) (*MintBuilder, error) {
	return newMintBuilder(a, value, nil)
}

// NewMintBuilderWithOwnerTransfer is the version-2 path: the mint also
// transfers future minting rights for this asset to newOwner (§4.G).
func NewMintBuilderWithOwnerTransfer(a asset.Asset, value uint64, newOwner keys.PublicAddress) (*MintBuilder, error) {
	return newMintBuilder(a, value, &newOwner)
}

func newMintBuilder(a asset.Asset, value uint64, newOwner *keys.PublicAddress) (*MintBuilder, error) {
	assetGen, err := a.Identifier().Generator()
	if err != nil {
		return nil, err
	}
	vc, err := primitives.NewValueCommitment(value, assetGen)
	if err != nil {
		return nil, err
	}
	return &MintBuilder{assetDef: a, value: value, vc: vc, newOwner: newOwner}, nil
}

func (b *MintBuilder) Value() uint64                            { return b.value }
func (b *MintBuilder) AssetID() primitives.AssetIdentifier       { return b.assetDef.Identifier() }
func (b *MintBuilder) ValueCommitmentRandomness() jubjub.Scalar { return b.vc.Randomness }

// UnsignedMintDescription is the output of MintBuilder.Build: a proof plus
// every public field a Mint description exposes, still missing its
// authorizing signature.
type UnsignedMintDescription struct {
	ProofData *circuits.ProofData
	Asset     asset.Asset
	Value     uint64
	Cv        jubjub.Point
	NewOwner  *keys.PublicAddress
}

// MintDescription is a fully signed mint, ready to be embedded in a
// transaction.
type MintDescription struct {
	UnsignedMintDescription
	Signature redjubjub.Signature
}

// Build produces a Mint proof for key's ownership of the asset's owner
// address, self-verifying it before returning. It rejects small-order cv
// and rk, and fails with InvalidSigningKey if key does not own the asset.
func (b *MintBuilder) Build(ctx context.Context, manager *circuits.Manager, key *keys.SaplingKey, rk RandomizedKey) (*UnsignedMintDescription, error) {
	if err := redjubjub.RejectSmallOrder(rk.Rk); err != nil {
		return nil, err
	}
	cv := b.vc.Commitment()
	if err := redjubjub.RejectSmallOrder(cv); err != nil {
		return nil, err
	}
	if !b.assetDef.Creator.Point.Equal(key.PublicAddress().Point) {
		return nil, ironerr.New(ironerr.InvalidSigningKey)
	}

	assignment, err := b.mintCircuitAssignment(key, rk)
	if err != nil {
		return nil, err
	}

	proofData, err := manager.GenerateProof(ctx, circuits.KindMint, assignment)
	if err != nil {
		return nil, err
	}
	if err := manager.VerifyProof(ctx, proofData); err != nil {
		return nil, err
	}

	return &UnsignedMintDescription{
		ProofData: proofData,
		Asset:     b.assetDef,
		Value:     b.value,
		Cv:        cv,
		NewOwner:  b.newOwner,
	}, nil
}

// mintCircuitAssignment computes the witness the Mint circuit needs to
// self-verify: owner = ivk*G_public and rk = ak + ar*G_spend. As in
// Spend/Output, ivk here is the circuit's MiMC stand-in (circuits.NativeIvk),
// not the Blake2s ivk behind key.PublicAddress(), since that stand-in is
// what the Mint circuit derives owner from.
func (b *MintBuilder) mintCircuitAssignment(key *keys.SaplingKey, rk RandomizedKey) (*circuits.MintCircuit, error) {
	ak := key.AuthorizingKey
	ivkField, err := circuits.NativeIvk(ak, key.NullifierDerivingKey)
	if err != nil {
		return nil, err
	}
	owner := jubjub.GPublic().ScalarMul(scalarFromField(ivkField))
	rkPoint := redjubjub.RandomizePublic(ak, jubjub.GSpend(), rk.Alpha)

	assignment := &circuits.MintCircuit{
		RkU:    circuits.FieldToBigInt(rkPoint.UCoordinate()),
		RkV:    circuits.FieldToBigInt(rkPoint.VCoordinate()),
		OwnerU: circuits.FieldToBigInt(owner.UCoordinate()),
		OwnerV: circuits.FieldToBigInt(owner.VCoordinate()),

		Nsk: circuits.FieldToBigInt(scalarFieldElement(key.ProofAuthorizingKey)),
		Ar:  circuits.FieldToBigInt(scalarFieldElement(rk.Alpha)),
	}
	assignment.Ak = generatorAssignment(ak)
	assignment.GSpend = generatorAssignment(jubjub.GSpend())
	assignment.GProofGen = generatorAssignment(jubjub.GProofGeneration())
	assignment.GPublic = generatorAssignment(jubjub.GPublic())
	return assignment, nil
}

// Sign re-derives the randomized spending key from key and rk, checks it
// actually produces rk.Rk, then signs rk ∥ signatureHash under G_spend.
func (u *UnsignedMintDescription) Sign(key *keys.SaplingKey, rk RandomizedKey, signatureHash [32]byte) (*MintDescription, error) {
	expectedRk := redjubjub.RandomizePublic(key.AuthorizingKey, jubjub.GSpend(), rk.Alpha)
	if !expectedRk.Equal(rk.Rk) {
		return nil, ironerr.New(ironerr.InvalidSigningKey)
	}
	sk := redjubjub.RandomizePrivate(key.SpendAuthorizingKey, rk.Alpha)

	msg := signingMessage(rk.Rk, signatureHash)
	sig, err := redjubjub.Sign(sk, jubjub.GSpend(), msg)
	if err != nil {
		return nil, err
	}
	return &MintDescription{UnsignedMintDescription: *u, Signature: sig}, nil
}

// VerifySignature checks this mint's authorizing signature against rk.
func (m *MintDescription) VerifySignature(rk jubjub.Point, signatureHash [32]byte) bool {
	msg := signingMessage(rk, signatureHash)
	return redjubjub.Verify(rk, jubjub.GSpend(), msg, m.Signature)
}

// SignatureBytes is the portion of the wire encoding the signature_hash
// covers: proof ∥ asset ∥ value_le64 ∥ cv, plus new_owner when present
// (version 2 only).
func (u *UnsignedMintDescription) SignatureBytes() []byte {
	size := MintSignatureBytesSize
	if u.NewOwner != nil {
		size += 32
	}
	out := make([]byte, size)
	offset := 0
	copy(out[offset:offset+192], u.ProofData.Proof)
	offset += 192
	assetBytes := u.Asset.Bytes()
	copy(out[offset:offset+asset.WireSize], assetBytes[:])
	offset += asset.WireSize
	binary.LittleEndian.PutUint64(out[offset:offset+8], u.Value)
	offset += 8
	cvBytes := u.Cv.CompressedBytes()
	copy(out[offset:offset+32], cvBytes[:])
	offset += 32
	if u.NewOwner != nil {
		ownerBytes := u.NewOwner.Bytes()
		copy(out[offset:offset+32], ownerBytes[:])
	}
	return out
}

// Bytes encodes the full signed mint description.
func (m *MintDescription) Bytes() []byte {
	sigBytes := m.SignatureBytes()
	out := make([]byte, len(sigBytes)+64)
	copy(out, sigBytes)
	sig := m.Signature.Bytes()
	copy(out[len(sigBytes):], sig[:])
	return out
}

// MintDescriptionFromBytes decodes a signed mint description off the wire.
// withOwnerTransfer must be set when the mint carries a new_owner field (the
// description's own bytes carry no length prefix distinguishing the two; in
// a version-2 transaction the per-mint presence byte that the transaction
// decoder reads before each mint supplies it). As with SpendDescriptionFromBytes, the resulting ProofData
// carries no PublicInputs blob and cannot be independently re-verified from
// wire bytes alone.
func MintDescriptionFromBytes(b []byte, withOwnerTransfer bool) (*MintDescription, error) {
	size := MintSignatureBytesSize
	if withOwnerTransfer {
		size += 32
	}
	if len(b) != size+64 {
		return nil, ironerr.New(ironerr.InvalidData)
	}

	offset := 0
	proofBytes := make([]byte, 192)
	copy(proofBytes, b[offset:offset+192])
	offset += 192

	var assetBytes [asset.WireSize]byte
	copy(assetBytes[:], b[offset:offset+asset.WireSize])
	offset += asset.WireSize
	a, err := asset.FromBytes(assetBytes)
	if err != nil {
		return nil, err
	}

	value := binary.LittleEndian.Uint64(b[offset : offset+8])
	offset += 8

	var cvBytes [32]byte
	copy(cvBytes[:], b[offset:offset+32])
	offset += 32
	cv, err := jubjub.PointFromCompressedBytes(cvBytes)
	if err != nil {
		return nil, err
	}

	var newOwner *keys.PublicAddress
	if withOwnerTransfer {
		var ownerBytes [32]byte
		copy(ownerBytes[:], b[offset:offset+32])
		offset += 32
		owner, err := keys.PublicAddressFromBytes(ownerBytes)
		if err != nil {
			return nil, err
		}
		newOwner = &owner
	}

	var sigBytes [64]byte
	copy(sigBytes[:], b[offset:offset+64])
	sig, err := redjubjub.FromBytes(sigBytes)
	if err != nil {
		return nil, err
	}

	return &MintDescription{
		UnsignedMintDescription: UnsignedMintDescription{
			ProofData: &circuits.ProofData{Kind: circuits.KindMint, Proof: proofBytes},
			Asset:     a,
			Value:     value,
			Cv:        cv,
			NewOwner:  newOwner,
		},
		Signature: sig,
	}, nil
}
