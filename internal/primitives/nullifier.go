package primitives

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2s"

	"github.com/iron-fish/sapling-go/internal/jubjub"
)

// Nullifier is the 32-byte double-spend tag revealed when a note is spent.
type Nullifier [32]byte

// nullifierPersonalization is the exact 8-byte Blake2s personalization used
// to derive a nullifier: "Zcash_nf".
const nullifierPersonalization = "Zcash_nf"

// DeriveRho computes rho = cm + position*G_nullifier_position, the blinded
// commitment fed into the nullifier hash. Here rho is a curve-point addition
// between the note commitment point and position*G_nullifier_position, so
// callers must retain the commitment as a point (not just its u-coordinate)
// until nullifier derivation. The Spend circuit instead adds the
// u-coordinates as field elements (see circuits.NativeRho).
func DeriveRho(commitment jubjub.Point, position uint64) jubjub.Point {
	posScalar := uint64Scalar(position)
	return commitment.Add(jubjub.GNullifierPosition().ScalarMul(posScalar))
}

// DeriveNullifier computes nf = Blake2s("Zcash_nf", nk || rho).
func DeriveNullifier(nullifierDerivingKey jubjub.Point, rho jubjub.Point) (Nullifier, error) {
	h, err := blake2s.New256(personalizationBytes(nullifierPersonalization))
	if err != nil {
		return Nullifier{}, err
	}
	nkBytes := nullifierDerivingKey.CompressedBytes()
	rhoBytes := rho.CompressedBytes()
	h.Write(nkBytes[:])
	h.Write(rhoBytes[:])

	var out Nullifier
	copy(out[:], h.Sum(nil))
	return out, nil
}

func personalizationBytes(tag string) []byte {
	b := make([]byte, 8)
	copy(b, tag)
	return b
}

// positionBytes is kept for callers (e.g. circuit witness packing) that need
// the little-endian encoding of a leaf position.
func positionBytes(position uint64) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], position)
	return b
}
