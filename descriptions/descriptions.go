// Package descriptions builds the per-note SNARK proofs and authorizing
// signatures a transaction bundles together: Spend and Mint carry a
// RedJubjub authorizing signature, Output and Burn do not. Every builder
// follows the same two-step lifecycle — build (prove, self-verify, collect
// public fields) then sign (bind the result to a transaction's
// signature_hash) — mirroring the unsigned -> signed description split.
package descriptions

import (
	"math/big"

	"github.com/iron-fish/sapling-go/circuits"
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
)

// RandomizedKey is the one-time randomized spend-authorizing public key
// (`rk`) shared by every spend, output, and mint description inside a
// single transaction. A transaction builder derives exactly one per build
// and passes it to every description builder, so that reordering or mixing
// descriptions from two different spenders is detectable.
type RandomizedKey struct {
	Alpha jubjub.Scalar // public_key_randomness, "ar"
	Rk    jubjub.Point
}

// NewRandomizedKey samples a fresh ar and derives rk = ak + ar*G_spend.
func NewRandomizedKey(ak jubjub.Point) (RandomizedKey, error) {
	alpha, err := redjubjub.RandomAlpha()
	if err != nil {
		return RandomizedKey{}, err
	}
	return RandomizedKey{Alpha: alpha, Rk: redjubjub.RandomizePublic(ak, jubjub.GSpend(), alpha)}, nil
}

// scalarFromField reduces a circuit base-field element (big-endian
// canonical) into a Jubjub scalar (little-endian, reduced mod the subgroup
// order). Scalar multiplication by k and by (k mod order) agree on any point
// of that order, so this is the correct native counterpart of feeding the
// same field element directly into an in-circuit ScalarMul.
func scalarFromField(e jubjub.BaseElement) jubjub.Scalar {
	bi := circuits.FieldToBigInt(e)
	var be [32]byte
	bi.FillBytes(be[:])
	var le [32]byte
	for i, c := range be {
		le[31-i] = c
	}
	return jubjub.ScalarFromBytes(le)
}

// pointVars splits a Jubjub point into its two circuit-witness variables.
func pointVars(p jubjub.Point) (u, v *big.Int) {
	return circuits.FieldToBigInt(p.UCoordinate()), circuits.FieldToBigInt(p.VCoordinate())
}

// bytesVar reduces an arbitrary 32-byte value into a circuit witness
// variable the same way BytesToFieldBigInt does, for fields (Merkle
// siblings, anchors) that don't have a canonical field-element form.
func bytesVar(b [32]byte) *big.Int {
	return circuits.BytesToFieldBigInt(b)
}

// circuitPointT is the shape every circuit's point-valued witness fields
// (Ak, PkD, the fixed generators) expect, aliased from the circuits package
// so a literal built here is assignable directly into a circuit struct.
type circuitPointT = circuits.PointAssignment

func circuitPoint(u, v *big.Int) circuitPointT { return circuitPointT{U: u, V: v} }

// generatorAssignment packs a fixed Jubjub generator into the form every
// circuit's witness expects for it (the circuits in this package take their
// generators as witness fields rather than baked-in constants).
func generatorAssignment(p jubjub.Point) circuitPointT {
	u, v := pointVars(p)
	return circuitPoint(u, v)
}

// scalarFieldElement reinterprets a Jubjub scalar (mod the subgroup order)
// as a circuit base-field element (mod the larger Fr modulus) by reading the
// same integer value into the wider field, the inverse of scalarFromField.
func scalarFieldElement(s jubjub.Scalar) jubjub.BaseElement {
	var e jubjub.BaseElement
	b := s.Bytes()
	var be [32]byte
	for i, c := range b {
		be[31-i] = c
	}
	e.SetBytes(be[:])
	return e
}

func bigIntField(v *big.Int) jubjub.BaseElement {
	var e jubjub.BaseElement
	e.SetBigInt(v)
	return e
}

// uint64ToScalar encodes a value as a little-endian Jubjub scalar, the form
// value-commitment algebra multiplies a generator by.
func uint64ToScalar(v uint64) jubjub.Scalar {
	var wide [32]byte
	for i := 0; i < 8; i++ {
		wide[i] = byte(v >> (8 * i))
	}
	return jubjub.ScalarFromBytes(wide)
}
