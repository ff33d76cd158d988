package transaction

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/iron-fish/sapling-go/descriptions"
	"github.com/iron-fish/sapling-go/internal/jubjub"
)

// signatureHashPersonalization keys the Blake2b-32 signature hash, following
// the same keyed-hash-as-personalization convention merklenote uses for its
// AEAD key derivation.
const signatureHashPersonalization = "Bnsighsh"

// signatureHash computes the Blake2b-32 digest every spend/mint authorizing
// signature and the binding signature cover: the fixed preamble byte,
// version, expiration, fee, rk, and each description's signature-bytes in
// the fixed order spends/outputs/mints/burns, in builder insertion order.
func signatureHash(
	version Version,
	expiration uint32,
	fee int64,
	rk jubjub.Point,
	spends []descriptions.UnsignedSpendDescription,
	outputs []descriptions.UnsignedOutputDescription,
	mints []descriptions.UnsignedMintDescription,
	burns []descriptions.BurnDescription,
) [32]byte {
	key := make([]byte, 64)
	copy(key, signatureHashPersonalization)
	h, err := blake2b.New(32, key)
	if err != nil {
		panic(err) // fixed-size key, cannot fail
	}

	h.Write([]byte{0x00})
	h.Write([]byte{byte(version)})

	var expBytes [4]byte
	binary.LittleEndian.PutUint32(expBytes[:], expiration)
	h.Write(expBytes[:])

	var feeBytes [8]byte
	binary.LittleEndian.PutUint64(feeBytes[:], uint64(fee))
	h.Write(feeBytes[:])

	rkBytes := rk.CompressedBytes()
	h.Write(rkBytes[:])

	for _, s := range spends {
		b := s.SignatureBytes()
		h.Write(b[:])
	}
	for _, o := range outputs {
		b := o.SignatureBytes()
		h.Write(b[:])
	}
	for _, m := range mints {
		h.Write(m.SignatureBytes())
	}
	for _, bn := range burns {
		b := bn.SignatureBytes()
		h.Write(b[:])
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// bindingMessage is the 64-byte message the binding signature covers:
// bvk.to_bytes() ∥ signature_hash.
func bindingMessage(bvk jubjub.Point, sigHash [32]byte) []byte {
	bvkBytes := bvk.CompressedBytes()
	msg := make([]byte, 64)
	copy(msg[:32], bvkBytes[:])
	copy(msg[32:], sigHash[:])
	return msg
}

// accumulateBindingKeys folds every description's value-commitment data into
// bsk (the binding signature's secret scalar) and bvk (its corresponding
// public point):
//
//	bsk = Σ spend.cv_randomness − Σ output.cv_randomness
//	bvk = Σ spend.cv − Σ output.cv − Σ mint_value·asset_gen + Σ burn_value·asset_gen − fee·asset_gen(native)
func accumulateBindingKeys(
	spends []descriptions.UnsignedSpendDescription,
	spendRandomness []jubjub.Scalar,
	outputs []descriptions.UnsignedOutputDescription,
	outputRandomness []jubjub.Scalar,
	mints []descriptions.UnsignedMintDescription,
	burns []descriptions.BurnDescription,
	fee int64,
) (jubjub.Scalar, jubjub.Point) {
	bsk := jubjub.Scalar{}
	bvk := jubjub.Identity()

	for i, s := range spends {
		bsk = bsk.Add(spendRandomness[i])
		bvk = bvk.Add(s.Cv)
	}
	for i, o := range outputs {
		bsk = bsk.Sub(outputRandomness[i])
		bvk = bvk.Add(o.MerkleNote.ValueCommitment.Neg())
	}
	for _, m := range mints {
		assetGen, err := m.Asset.Identifier().Generator()
		if err != nil {
			continue
		}
		bvk = bvk.Add(assetGen.ScalarMul(valueScalar(m.Value)).Neg())
	}
	for _, bn := range burns {
		id := bn.AssetID
		assetGen, err := id.Generator()
		if err != nil {
			continue
		}
		bvk = bvk.Add(assetGen.ScalarMul(valueScalar(bn.Value)))
	}

	nativeGen := jubjub.NativeAssetGenerator()
	feeTerm := nativeGen.ScalarMul(signedValueScalar(fee))
	bvk = bvk.Add(feeTerm.Neg())

	return bsk, bvk
}

func valueScalar(v uint64) jubjub.Scalar {
	var wide [32]byte
	for i := 0; i < 8; i++ {
		wide[i] = byte(v >> (8 * i))
	}
	return jubjub.ScalarFromBytes(wide)
}

// signedValueScalar reduces a signed fee (miner's-fee transactions carry a
// negative fee) into a scalar, representing a negative value as its
// subgroup-order complement so that scalar-multiplying by it and negating
// the result agree with multiplying by the unsigned magnitude.
func signedValueScalar(v int64) jubjub.Scalar {
	if v >= 0 {
		return valueScalar(uint64(v))
	}
	return jubjub.Scalar{}.Sub(valueScalar(uint64(-v)))
}
