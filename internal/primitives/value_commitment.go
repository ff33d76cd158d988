package primitives

import (
	"github.com/iron-fish/sapling-go/internal/jubjub"
)

// ValueCommitment is the Pedersen-style commitment to a value, hiding it
// under fresh randomness: cv = value*asset_generator + randomness*G_randomness.
// It is additively homomorphic, which is what the binding signature in the
// transaction package exploits to prove global balance without revealing
// any individual value.
type ValueCommitment struct {
	Value           uint64
	Randomness      jubjub.Scalar
	AssetGenerator  jubjub.Point
}

// NewValueCommitment samples fresh randomness and builds a value commitment
// for value units of the asset whose generator is assetGen.
func NewValueCommitment(value uint64, assetGen jubjub.Point) (ValueCommitment, error) {
	r, err := jubjub.RandomScalar()
	if err != nil {
		return ValueCommitment{}, err
	}
	return ValueCommitment{Value: value, Randomness: r, AssetGenerator: assetGen}, nil
}

// Commitment computes cv = value*asset_generator + randomness*G_randomness.
func (vc ValueCommitment) Commitment() jubjub.Point {
	valueScalar := uint64Scalar(vc.Value)
	term1 := vc.AssetGenerator.ScalarMul(valueScalar)
	term2 := jubjub.GRandomness().ScalarMul(vc.Randomness)
	return term1.Add(term2)
}

func uint64Scalar(v uint64) jubjub.Scalar {
	var wide [32]byte
	for i := 0; i < 8; i++ {
		wide[i] = byte(v >> (8 * i))
	}
	return jubjub.ScalarFromBytes(wide)
}
