package jubjub

import (
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/blake2s"

	"github.com/iron-fish/sapling-go/ironerr"
)

// MaxHashToPointAttempts bounds the rejection-sampling loop in HashToPoint.
// The same bound is reused for asset-identifier search (see
// asset.MaxNonceSearch) rather than looping forever.
const MaxHashToPointAttempts = 256

// valueCommitmentGeneratorPersonalization is the Blake2s personalization
// used both to derive the per-asset value-commitment generator and, with a
// nonce appended, to search for a valid asset identifier.
const valueCommitmentGeneratorPersonalization = "value-commitment-generator"

// HashToPoint implements a rejection-sampling hash-to-curve construction:
// Blake2s the input under the value-commitment personalization and attempt
// to decode the digest as a compressed Jubjub point; if the candidate is not
// on-curve or is small-order, retry with a counter suffix. Returns (Point{},
// false) if no valid point is found within MaxHashToPointAttempts, which
// callers must treat as an InvalidData condition rather than loop forever.
func HashToPoint(idBytes []byte) (Point, bool) {
	for attempt := 0; attempt < MaxHashToPointAttempts; attempt++ {
		h, err := blake2s.New256([]byte(personalize(valueCommitmentGeneratorPersonalization)))
		if err != nil {
			return Point{}, false
		}
		h.Write(idBytes)
		var ctr [4]byte
		binary.LittleEndian.PutUint32(ctr[:], uint32(attempt))
		h.Write(ctr[:])
		digest := h.Sum(nil)

		var candidate [32]byte
		copy(candidate[:], digest)

		pt, err := PointFromCompressedBytes(candidate)
		if err != nil {
			continue
		}
		if pt.IsSmallOrder() {
			continue
		}
		return pt, true
	}
	return Point{}, false
}

// personalize pads/truncates a domain tag to the 8 bytes Blake2s
// personalization requires, the way every fixed-generator and nullifier hash
// in this package does.
func personalize(tag string) string {
	b := make([]byte, 8)
	copy(b, tag)
	return string(b)
}

var (
	generatorsOnce sync.Once
	gSpend         Point
	gProofGen      Point
	gPublic        Point
	gValue         Point
	gRandomness    Point
	gNoteCommit    Point
	gNoteContent   Point
	gNullifierPos  Point
	nativeAssetGen Point
)

func initGenerators() {
	generatorsOnce.Do(func() {
		gSpend = derivedGenerator("Zcash_G_Spend")
		gProofGen = derivedGenerator("Zcash_G_Pgk_")
		gPublic = derivedGenerator("Zcash_G_Pub_")
		gValue = derivedGenerator("Zcash_G_Val_")
		gRandomness = derivedGenerator("Zcash_G_Rand")
		gNoteCommit = derivedGenerator("Zcash_G_NCm_")
		gNoteContent = derivedGenerator("Zcash_G_NCnt")
		gNullifierPos = derivedGenerator("Zcash_G_NPos")

		pt, ok := HashToPoint([]byte("Iron Fish native asset"))
		if !ok {
			// Unreachable for a fixed, pre-audited constant; a production
			// build would embed the precomputed point instead of searching
			// for it at init time.
			panic("native asset generator: hash-to-curve search exhausted")
		}
		nativeAssetGen = pt.ScalarMul(ScalarFromUint64(curve.Cofactor.Uint64()))
	})
}

// derivedGenerator finds the canonical fixed generator for a given domain
// tag by taking the first on-curve, non-small-order HashToPoint candidate
// for it, then clears the cofactor by scalar-multiplying by the curve's
// cofactor, so the result lies in the prime-order subgroup. The discrete
// log of these points is not known (they're derived, not chosen).
func derivedGenerator(tag string) Point {
	pt, ok := HashToPoint([]byte(tag))
	if !ok {
		panic("fixed generator search exhausted for " + tag)
	}
	return pt.ScalarMul(ScalarFromUint64(curve.Cofactor.Uint64()))
}

// GSpend is used to derive authorizing_key from spend_authorizing_key, and
// is the RedJubjub generator for spend/mint authorizing signatures and for
// rk = ak + ar*GSpend. The binding signature uses GRandomness instead.
func GSpend() Point { initGenerators(); return gSpend }

// GProofGeneration derives nullifier_deriving_key from proof_authorizing_key.
func GProofGeneration() Point { initGenerators(); return gProofGen }

// GPublic derives the public address from the incoming viewing key.
func GPublic() Point { initGenerators(); return gPublic }

// GValue is multiplied by value as the value term of a value commitment,
// when no custom asset generator is supplied.
func GValue() Point { initGenerators(); return gValue }

// GRandomness is the blinding generator for value commitments and the
// signature generator for the binding signature.
func GRandomness() Point { initGenerators(); return gRandomness }

// GNoteCommit is the blinding generator for note commitments: randomness *
// GNoteCommit is added to the hashed-content term to produce cm.
func GNoteCommit() Point { initGenerators(); return gNoteCommit }

// GNoteContent is the generator the hashed note content (asset generator,
// value, owner, sender) is multiplied against to form the non-blinded half
// of a note commitment.
func GNoteContent() Point { initGenerators(); return gNoteContent }

// GNullifierPosition blinds a note commitment by tree position when forming
// rho for nullifier derivation.
func GNullifierPosition() Point { initGenerators(); return gNullifierPos }

// NativeAssetGenerator is the fixed generator for Iron Fish's native asset,
// used whenever a value commitment or fee term needs "the native asset"
// without going through AssetIdentifier.Generator.
func NativeAssetGenerator() Point { initGenerators(); return nativeAssetGen }

// AssetGenerator is a pure function from a 32-byte asset identifier to its
// Jubjub generator point. There is no in-circuit counterpart of this
// hash-to-curve: the Output circuit binds its asset generator to a MiMC
// stand-in instead (see circuits/output.go and circuits.NativeMimcScalarBase).
func AssetGenerator(assetID [32]byte) (Point, error) {
	pt, ok := HashToPoint(assetID[:])
	if !ok {
		return Point{}, ironerr.New(ironerr.InvalidData)
	}
	return pt, nil
}
