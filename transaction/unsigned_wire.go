package transaction

import (
	"encoding/binary"

	"github.com/iron-fish/sapling-go/asset"
	"github.com/iron-fish/sapling-go/circuits"
	"github.com/iron-fish/sapling-go/descriptions"
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// Bytes encodes an UnsignedTransaction. The layout mirrors Transaction.Bytes
// except that every spend and mint description is prefixed with the
// transaction's public_key_randomness (alpha), so a signer holding only one
// description can reconstruct rk = ak + alpha*G_spend without the rest of
// the transaction; outputs carry no authorizing signature and so need no
// alpha prefix, and burns carry neither proof nor signature at all. The
// binding signature is included as already computed by Build, unsigned only
// in the sense that spend/mint authorizing signatures are still placeholders.
func (u *UnsignedTransaction) Bytes() ([]byte, error) {
	if u.TransactionVersion != Version1 && u.TransactionVersion != Version2 {
		return nil, ironerr.New(ironerr.InvalidTransactionVersion)
	}

	out := make([]byte, 0, 256)
	out = append(out, byte(u.TransactionVersion))
	out = appendUint64(out, uint64(len(u.Spends)))
	out = appendUint64(out, uint64(len(u.Outputs)))
	out = appendUint64(out, uint64(len(u.Mints)))
	out = appendUint64(out, uint64(len(u.Burns)))
	out = appendUint64(out, uint64(u.Fee))
	out = appendUint32(out, u.Expiration)
	rkBytes := u.Rk.CompressedBytes()
	out = append(out, rkBytes[:]...)

	alphaBytes := u.Alpha.Bytes()

	for _, s := range u.Spends {
		out = append(out, alphaBytes[:]...)
		b := s.SignatureBytes()
		out = append(out, b[:]...)
	}
	for _, o := range u.Outputs {
		b := o.Bytes()
		out = append(out, b[:]...)
	}
	for _, m := range u.Mints {
		out = append(out, alphaBytes[:]...)
		if u.TransactionVersion == Version2 {
			if m.NewOwner != nil {
				out = append(out, 0x01)
			} else {
				out = append(out, 0x00)
			}
		}
		out = append(out, m.SignatureBytes()...)
	}
	for _, bn := range u.Burns {
		b := bn.Bytes()
		out = append(out, b[:]...)
	}

	sigBytes := u.BindingSignature.Bytes()
	out = append(out, sigBytes[:]...)

	return out, nil
}

// UnsignedTransactionFromBytes decodes an UnsignedTransaction produced by
// Bytes above. The signature hash is not recoverable from the wire form
// alone (it is recomputed by whichever signer finishes the transaction, the
// same way Builder.Build computes it), so the returned value's
// SignatureHash is zero until the caller recomputes it.
func UnsignedTransactionFromBytes(b []byte) (*UnsignedTransaction, error) {
	r := &byteReader{buf: b}

	versionByte, err := r.readByte()
	if err != nil {
		return nil, err
	}
	version := Version(versionByte)
	if version != Version1 && version != Version2 {
		return nil, ironerr.New(ironerr.InvalidTransactionVersion)
	}

	numSpends, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	numOutputs, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	numMints, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	numBurns, err := r.readUint64()
	if err != nil {
		return nil, err
	}

	feeRaw, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	fee := int64(feeRaw)

	expiration, err := r.readUint32()
	if err != nil {
		return nil, err
	}

	var rkBytes [32]byte
	if err := r.readFixed(rkBytes[:]); err != nil {
		return nil, err
	}
	rk, err := jubjub.PointFromCompressedBytes(rkBytes)
	if err != nil {
		return nil, err
	}

	var alpha jubjub.Scalar
	haveAlpha := false

	spends := make([]descriptions.UnsignedSpendDescription, 0, numSpends)
	for i := uint64(0); i < numSpends; i++ {
		var alphaBytes [32]byte
		if err := r.readFixed(alphaBytes[:]); err != nil {
			return nil, err
		}
		alpha = jubjub.ScalarFromBytes(alphaBytes)
		haveAlpha = true

		sigBytesPart, err := r.readN(descriptions.SpendSignatureBytesSize)
		if err != nil {
			return nil, err
		}
		d, err := decodeUnsignedSpend(sigBytesPart)
		if err != nil {
			return nil, err
		}
		spends = append(spends, *d)
	}

	outputs := make([]descriptions.UnsignedOutputDescription, 0, numOutputs)
	for i := uint64(0); i < numOutputs; i++ {
		var buf [descriptions.OutputDescriptionSize]byte
		if err := r.readFixed(buf[:]); err != nil {
			return nil, err
		}
		d, err := descriptions.OutputDescriptionFromBytes(buf)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, *d)
	}

	mints := make([]descriptions.UnsignedMintDescription, 0, numMints)
	for i := uint64(0); i < numMints; i++ {
		var alphaBytes [32]byte
		if err := r.readFixed(alphaBytes[:]); err != nil {
			return nil, err
		}
		alpha = jubjub.ScalarFromBytes(alphaBytes)
		haveAlpha = true

		withOwner := false
		if version == Version2 {
			flag, err := r.readByte()
			if err != nil {
				return nil, err
			}
			withOwner = flag == 0x01
		}
		size := descriptions.MintSignatureBytesSize
		if withOwner {
			size += 32
		}
		buf, err := r.readN(size)
		if err != nil {
			return nil, err
		}
		d, err := decodeUnsignedMint(buf, withOwner)
		if err != nil {
			return nil, err
		}
		mints = append(mints, *d)
	}

	burns := make([]descriptions.BurnDescription, 0, numBurns)
	for i := uint64(0); i < numBurns; i++ {
		var buf [descriptions.BurnDescriptionSize]byte
		if err := r.readFixed(buf[:]); err != nil {
			return nil, err
		}
		burns = append(burns, descriptions.BurnDescriptionFromBytes(buf))
	}

	var sigBytes [64]byte
	if err := r.readFixed(sigBytes[:]); err != nil {
		return nil, err
	}
	bindingSig, err := redjubjub.FromBytes(sigBytes)
	if err != nil {
		return nil, err
	}

	if !r.atEnd() {
		return nil, ironerr.New(ironerr.InvalidData)
	}
	if !haveAlpha {
		alpha = jubjub.Scalar{}
	}

	return &UnsignedTransaction{
		TransactionVersion: version,
		Spends:             spends,
		Outputs:            outputs,
		Mints:              mints,
		Burns:              burns,
		Fee:                fee,
		Expiration:         expiration,
		Rk:                 rk,
		Alpha:              alpha,
		BindingSignature:   bindingSig,
	}, nil
}

// decodeUnsignedSpend parses a spend's signature-hash contribution (proof ∥
// cv ∥ anchor ∥ tree_size_le32 ∥ nullifier), the same fields
// SpendDescriptionFromBytes reads before the trailing signature.
func decodeUnsignedSpend(b []byte) (*descriptions.UnsignedSpendDescription, error) {
	if len(b) != descriptions.SpendSignatureBytesSize {
		return nil, ironerr.New(ironerr.InvalidData)
	}
	proofBytes := make([]byte, 192)
	copy(proofBytes, b[0:192])

	var cvBytes [32]byte
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

	return &descriptions.UnsignedSpendDescription{
		ProofData: &circuits.ProofData{Kind: circuits.KindSpend, Proof: proofBytes},
		Cv:        cv,
		Anchor:    anchor,
		TreeSize:  treeSize,
		Nullifier: nf,
	}, nil
}

// decodeUnsignedMint parses a mint's signature-hash contribution (proof ∥
// asset ∥ value_le64 ∥ cv, plus new_owner when withOwner), the same fields
// MintDescriptionFromBytes reads before the trailing signature.
func decodeUnsignedMint(b []byte, withOwner bool) (*descriptions.UnsignedMintDescription, error) {
	expected := descriptions.MintSignatureBytesSize
	if withOwner {
		expected += 32
	}
	if len(b) != expected {
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
	if withOwner {
		var ownerBytes [32]byte
		copy(ownerBytes[:], b[offset:offset+32])
		owner, err := keys.PublicAddressFromBytes(ownerBytes)
		if err != nil {
			return nil, err
		}
		newOwner = &owner
	}

	return &descriptions.UnsignedMintDescription{
		ProofData: &circuits.ProofData{Kind: circuits.KindMint, Proof: proofBytes},
		Asset:     a,
		Value:     value,
		Cv:        cv,
		NewOwner:  newOwner,
	}, nil
}
