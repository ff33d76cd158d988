package descriptions

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/iron-fish/sapling-go/circuits"
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
	"github.com/iron-fish/sapling-go/ironerr"
	"github.com/iron-fish/sapling-go/note"
	"github.com/iron-fish/sapling-go/witness"
)

// SpendSignatureBytesSize is the length of a spend description's
// signature-hash contribution: proof ∥ cv ∥ anchor ∥ tree_size_LE32 ∥
// nullifier, i.e. everything except the 64-byte authorizing signature.
const SpendSignatureBytesSize = 192 + 32 + 32 + 4 + 32

// SpendDescriptionSize is the full wire size of a signed spend description.
const SpendDescriptionSize = SpendSignatureBytesSize + 64

// SpendBuilder accumulates the state one spend needs to build a proof: the
// note being destroyed and a witness to its position in the commitment tree.
type SpendBuilder struct {
	note    note.Note
	witness witness.Witness
	vc      primitives.ValueCommitment
}

// NewSpendBuilder samples fresh value-commitment randomness for n and pairs
// it with w, the Merkle witness proving n's commitment is already in the
// tree.
func NewSpendBuilder(n note.Note, w witness.Witness) (*SpendBuilder, error) {
	assetGen, err := n.AssetID.Generator()
	if err != nil {
		return nil, err
	}
	vc, err := primitives.NewValueCommitment(n.Value, assetGen)
	if err != nil {
		return nil, err
	}
	return &SpendBuilder{note: n, witness: w, vc: vc}, nil
}

// Value is the note's value, for the transaction builder's balance ledger.
func (b *SpendBuilder) Value() uint64 { return b.note.Value }

// AssetID is the note's asset, for the transaction builder's per-asset
// balance ledger.
func (b *SpendBuilder) AssetID() primitives.AssetIdentifier { return b.note.AssetID }

// ValueCommitmentRandomness is this spend's freshly sampled cv randomness,
// which a transaction builder accumulates into bsk with a positive sign.
func (b *SpendBuilder) ValueCommitmentRandomness() jubjub.Scalar { return b.vc.Randomness }

// UnsignedSpendDescription is the output of SpendBuilder.Build: a proof plus
// every public field a Spend description exposes, still missing its
// authorizing signature.
type UnsignedSpendDescription struct {
	ProofData *circuits.ProofData
	Cv        jubjub.Point
	Anchor    [32]byte
	TreeSize  uint32
	Nullifier primitives.Nullifier
}

// SpendDescription is a fully signed spend, ready to be embedded in a
// transaction.
type SpendDescription struct {
	UnsignedSpendDescription
	Signature redjubjub.Signature
}

// Build produces a Spend proof for key's ownership of the witnessed note,
// self-verifying it before returning. It rejects small-order cv and rk, and
// fails with InvalidSigningKey if key does not actually own the witnessed
// note.
func (b *SpendBuilder) Build(ctx context.Context, manager *circuits.Manager, key *keys.SaplingKey, rk RandomizedKey) (*UnsignedSpendDescription, error) {
	if err := redjubjub.RejectSmallOrder(rk.Rk); err != nil {
		return nil, err
	}
	cv := b.vc.Commitment()
	if err := redjubjub.RejectSmallOrder(cv); err != nil {
		return nil, err
	}
	if !b.note.Owner.Point.Equal(key.PublicAddress().Point) {
		return nil, ironerr.New(ironerr.InvalidSigningKey)
	}

	cmPoint, err := b.note.CommitmentPoint()
	if err != nil {
		return nil, err
	}
	cmBytes := cmPoint.UCoordinate().Bytes()
	if !b.witness.Verify(cmBytes) {
		return nil, ironerr.New(ironerr.InvalidData)
	}

	position := b.witness.Position()
	rho := primitives.DeriveRho(cmPoint, position)
	nf, err := primitives.DeriveNullifier(key.NullifierDerivingKey, rho)
	if err != nil {
		return nil, err
	}
	anchor := b.witness.RootHash()
	treeSize := b.witness.TreeSize()

	assetGen := b.vc.AssetGenerator
	assignment, err := b.spendCircuitAssignment(key, rk, assetGen)
	if err != nil {
		return nil, err
	}

	proofData, err := manager.GenerateProof(ctx, circuits.KindSpend, assignment)
	if err != nil {
		return nil, err
	}
	if err := manager.VerifyProof(ctx, proofData); err != nil {
		return nil, err
	}

	return &UnsignedSpendDescription{
		ProofData: proofData,
		Cv:        cv,
		Anchor:    anchor,
		TreeSize:  uint32(treeSize),
		Nullifier: nf,
	}, nil
}

// spendCircuitAssignment computes the full (private and public) witness the
// Spend circuit needs to self-verify. Every value here is derived through
// the MiMC-based Native* helpers in circuits/native.go, the documented
// stand-in for the real Blake2-based hashes (see circuits.go); it predicts
// exactly what the compiled circuit will compute internally, so the proof
// generated against it is guaranteed to satisfy every in-circuit assertion.
func (b *SpendBuilder) spendCircuitAssignment(key *keys.SaplingKey, rk RandomizedKey, assetGen jubjub.Point) (*circuits.SpendCircuit, error) {
	ak := key.AuthorizingKey
	nk := key.NullifierDerivingKey

	ivkField, err := circuits.NativeIvk(ak, nk)
	if err != nil {
		return nil, err
	}
	pkD := jubjub.GPublic().ScalarMul(scalarFromField(ivkField))

	content, err := circuits.NativeNoteCommitmentContent(assetGen, pkD, b.note.Sender.Point, b.note.Value)
	if err != nil {
		return nil, err
	}
	cmRandomness, err := jubjub.RandomScalar()
	if err != nil {
		return nil, err
	}
	cmField := circuits.NativeNoteCommitment(content, cmRandomness, jubjub.GNoteCommit())

	path := b.witness.AuthPath()
	siblings := make([]jubjub.BaseElement, len(path))
	bits := make([]bool, len(path))
	var siblingVars [circuits.MerkleDepth]frontendVar
	var bitVars [circuits.MerkleDepth]frontendVar
	for i, elem := range path {
		siblings[i] = bigIntField(bytesVar(elem.Sibling))
		siblingVars[i] = bytesVar(elem.Sibling)
		bits[i] = elem.Right
		if elem.Right {
			bitVars[i] = big.NewInt(1)
		} else {
			bitVars[i] = big.NewInt(0)
		}
	}

	root, err := circuits.NativeMerklePathRoot(cmField, siblings, bits)
	if err != nil {
		return nil, err
	}

	rhoField := circuits.NativeRho(cmField, b.witness.Position(), jubjub.GNullifierPosition())
	nfField, err := circuits.NativeNullifier(nk, rhoField)
	if err != nil {
		return nil, err
	}
	nfHigh, nfLow := circuits.SplitFieldElement(nfField)

	rkPoint := redjubjub.RandomizePublic(ak, jubjub.GSpend(), rk.Alpha)
	// cv involves no hash substitution (it's plain scalar-mult-and-add), so
	// the in-circuit and native constructions agree exactly; reuse the real
	// commitment computed from this builder's own value commitment.
	cvPoint := b.vc.Commitment()

	assignment := &circuits.SpendCircuit{
		RkU:        circuits.FieldToBigInt(rkPoint.UCoordinate()),
		RkV:        circuits.FieldToBigInt(rkPoint.VCoordinate()),
		CvU:        circuits.FieldToBigInt(cvPoint.UCoordinate()),
		CvV:        circuits.FieldToBigInt(cvPoint.VCoordinate()),
		Anchor:     circuits.FieldToBigInt(root),
		Nullifier0: circuits.FieldToBigInt(nfHigh),
		Nullifier1: circuits.FieldToBigInt(nfLow),

		ValueCommitmentRandomness: circuits.FieldToBigInt(scalarFieldElement(b.vc.Randomness)),
		Value:                     new(big.Int).SetUint64(b.note.Value),
		AssetGeneratorU:           circuits.FieldToBigInt(assetGen.UCoordinate()),
		AssetGeneratorV:           circuits.FieldToBigInt(assetGen.VCoordinate()),

		Nsk: circuits.FieldToBigInt(scalarFieldElement(key.ProofAuthorizingKey)),
		Ar:  circuits.FieldToBigInt(scalarFieldElement(rk.Alpha)),

		CommitmentRandomness: circuits.FieldToBigInt(scalarFieldElement(cmRandomness)),
		SenderU:              circuits.FieldToBigInt(b.note.Sender.Point.UCoordinate()),
		SenderV:              circuits.FieldToBigInt(b.note.Sender.Point.VCoordinate()),

		Position: new(big.Int).SetUint64(b.witness.Position()),
	}
	copy(assignment.AuthPathSiblings[:], siblingVars[:])
	copy(assignment.AuthPathBits[:], bitVars[:])

	uAk, vAk := pointVars(ak)
	assignment.Ak = circuitPoint(uAk, vAk)
	uPkD, vPkD := pointVars(pkD)
	assignment.PkD = circuitPoint(uPkD, vPkD)

	assignment.GSpend = generatorAssignment(jubjub.GSpend())
	assignment.GProofGen = generatorAssignment(jubjub.GProofGeneration())
	assignment.GPublic = generatorAssignment(jubjub.GPublic())
	assignment.GNullifierPos = generatorAssignment(jubjub.GNullifierPosition())
	assignment.GNoteCommit = generatorAssignment(jubjub.GNoteCommit())
	assignment.GRandomness = generatorAssignment(jubjub.GRandomness())

	return assignment, nil
}

// Sign re-derives the randomized spending key from key and rk, checks it
// actually produces rk.Rk, then signs rk ∥ signatureHash under G_spend.
func (u *UnsignedSpendDescription) Sign(key *keys.SaplingKey, rk RandomizedKey, signatureHash [32]byte) (*SpendDescription, error) {
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
	return &SpendDescription{UnsignedSpendDescription: *u, Signature: sig}, nil
}

// VerifySignature checks this spend's authorizing signature against rk.
func (s *SpendDescription) VerifySignature(rk jubjub.Point, signatureHash [32]byte) bool {
	msg := signingMessage(rk, signatureHash)
	return redjubjub.Verify(rk, jubjub.GSpend(), msg, s.Signature)
}

// signingMessage is the 64-byte message every spend and mint authorizing
// signature covers: rk.to_bytes() ∥ signature_hash.
func signingMessage(rk jubjub.Point, signatureHash [32]byte) []byte {
	rkBytes := rk.CompressedBytes()
	msg := make([]byte, 64)
	copy(msg[:32], rkBytes[:])
	copy(msg[32:], signatureHash[:])
	return msg
}

// SignatureBytes is the portion of the wire encoding the signature_hash
// covers: everything except the authorizing signature itself.
func (u *UnsignedSpendDescription) SignatureBytes() [SpendSignatureBytesSize]byte {
	var out [SpendSignatureBytesSize]byte
	copy(out[0:192], u.ProofData.Proof)
	cvBytes := u.Cv.CompressedBytes()
	copy(out[192:224], cvBytes[:])
	copy(out[224:256], u.Anchor[:])
	binary.LittleEndian.PutUint32(out[256:260], u.TreeSize)
	copy(out[260:292], u.Nullifier[:])
	return out
}

// Bytes encodes the full signed spend description.
func (s *SpendDescription) Bytes() [SpendDescriptionSize]byte {
	var out [SpendDescriptionSize]byte
	sigBytes := s.SignatureBytes()
	copy(out[:SpendSignatureBytesSize], sigBytes[:])
	sig := s.Signature.Bytes()
	copy(out[SpendSignatureBytesSize:], sig[:])
	return out
}

// SpendDescriptionFromBytes decodes a signed spend description's published
// fields (proof bytes, cv, anchor, tree_size, nullifier, signature) off the
// wire. The resulting ProofData carries no PublicInputs blob, so it cannot
// be fed to Manager.VerifyProof directly: the circuit's internal public
// inputs are MiMC-native values with no bit-for-bit correspondence to these
// Blake2-based wire fields (see spendCircuitAssignment), so re-deriving a
// verifiable public witness from wire bytes alone isn't possible with this
// proving setup. Proof verification is only available in the same build
// session that produced the ProofData, via its embedded PublicInputs.
func SpendDescriptionFromBytes(b [SpendDescriptionSize]byte) (*SpendDescription, error) {
	proofBytes := make([]byte, 192)
	copy(proofBytes, b[0:192])

	cvBytes := [32]byte{}
	copy(cvBytes[:], b[192:224])
	cv, err := jubjub.PointFromCompressedBytes(cvBytes)
	if err != nil {
		return nil, err
	}

	var anchor [32]byte
	copy(anchor[:], b[224:256])
	treeSize := binary.LittleEndian.Uint32(b[256:260])

	var nf primitives.Nullifier
	copy(nf[:], b[260:292])

	var sigBytes [64]byte
	copy(sigBytes[:], b[292:356])
	sig, err := redjubjub.FromBytes(sigBytes)
	if err != nil {
		return nil, err
	}

	return &SpendDescription{
		UnsignedSpendDescription: UnsignedSpendDescription{
			ProofData: &circuits.ProofData{Kind: circuits.KindSpend, Proof: proofBytes},
			Cv:        cv,
			Anchor:    anchor,
			TreeSize:  treeSize,
			Nullifier: nf,
		},
		Signature: sig,
	}, nil
}

// frontendVar is an alias kept local to this file purely for readability of
// the auth-path assignment arrays above.
type frontendVar = interface{}
