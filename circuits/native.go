package circuits

import (
	"math/big"

	bls12_381fr "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	nativemimc "github.com/consensys/gnark-crypto/ecc/bls12-381/fr/mimc"

	"github.com/iron-fish/sapling-go/internal/jubjub"
)

// This file gives descriptions/transaction code a way to compute, outside
// any circuit, the exact values the Spend/Output/Mint circuits above
// compute inside one: gnark's std/hash/mimc gadget and gnark-crypto's
// fr/mimc package are built to agree bit-for-bit on the same inputs, which
// is what lets a builder know in advance what public inputs a proof will
// expose before the prover ever runs. It is the off-circuit half of the
// MiMC stand-in documented in circuits.go: everywhere the real protocol
// would hash with Blake2s/Blake2b (note commitments, nullifiers, ivk), the
// circuit and this file both use MiMC instead, since no Blake2 gadget is
// available in this dependency set. The genuine Blake2-based commitment
// and nullifier (note.Note.CommitmentPoint, primitives.DeriveNullifier)
// remain the values published on the wire and stored in the note
// commitment tree; these Native* functions only predict a proof's public
// inputs, they are not an alternate on-chain hash.
func mimcSum(elems ...jubjub.BaseElement) (jubjub.BaseElement, error) {
	h := nativemimc.NewMiMC()
	for _, e := range elems {
		b := e.Bytes()
		if _, err := h.Write(b[:]); err != nil {
			return jubjub.BaseElement{}, err
		}
	}
	var out bls12_381fr.Element
	out.SetBytes(h.Sum(nil))
	return out, nil
}

func uint64ToField(v uint64) jubjub.BaseElement {
	var e bls12_381fr.Element
	e.SetUint64(v)
	return e
}

// NativeIvk mirrors ivkFromKeys: folds (ak, nk) through MiMC the way the
// Spend/Output/Mint circuits derive a stand-in incoming viewing key.
func NativeIvk(ak, nk jubjub.Point) (jubjub.BaseElement, error) {
	return mimcSum(ak.UCoordinate(), ak.VCoordinate(), nk.UCoordinate(), nk.VCoordinate())
}

// NativeNoteCommitmentContent mirrors commitNoteContent: the hashed-content
// half of a note commitment, folding the asset generator, value, owner and
// sender coordinates through MiMC.
func NativeNoteCommitmentContent(assetGenerator, owner, sender jubjub.Point, value uint64) (jubjub.BaseElement, error) {
	return mimcSum(
		assetGenerator.UCoordinate(), assetGenerator.VCoordinate(),
		uint64ToField(value),
		owner.UCoordinate(), owner.VCoordinate(),
		sender.UCoordinate(), sender.VCoordinate(),
	)
}

// NativeNoteCommitment mirrors noteCommitment: content plus the x-coordinate
// of randomness*G_note_commit, added as field elements (the circuit's note
// commitment is a single field element, not a curve point).
func NativeNoteCommitment(content jubjub.BaseElement, randomness jubjub.Scalar, noteCommitGenerator jubjub.Point) jubjub.BaseElement {
	blinding := noteCommitGenerator.ScalarMul(randomness)
	var out bls12_381fr.Element
	out.Add(&content, blindingX(blinding))
	return out
}

func blindingX(p jubjub.Point) *bls12_381fr.Element {
	u := p.UCoordinate()
	return &u
}

// NativeRho mirrors the Spend circuit's rho computation: cm plus the
// x-coordinate of position*G_nullifier_position, added as field elements.
func NativeRho(cm jubjub.BaseElement, position uint64, nullifierPositionGenerator jubjub.Point) jubjub.BaseElement {
	posTerm := nullifierPositionGenerator.ScalarMul(jubjub.ScalarFromWideBytes(positionLE(position)))
	var out bls12_381fr.Element
	out.Add(&cm, blindingX(posTerm))
	return out
}

func positionLE(position uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(position >> (8 * i))
	}
	return b
}

// NativeNullifier mirrors the circuit's nullifier gadget: MiMC(nk, rho).
func NativeNullifier(nk jubjub.Point, rho jubjub.BaseElement) (jubjub.BaseElement, error) {
	return mimcSum(nk.UCoordinate(), nk.VCoordinate(), rho)
}

// NativeMerklePathRoot mirrors merklePathRoot: climbs siblings from leaf to
// root, MiMC-hashing (left, right) at each layer in witness order.
func NativeMerklePathRoot(leaf jubjub.BaseElement, siblings []jubjub.BaseElement, rightFlags []bool) (jubjub.BaseElement, error) {
	current := leaf
	for i, sibling := range siblings {
		var left, right jubjub.BaseElement
		if rightFlags[i] {
			left, right = sibling, current
		} else {
			left, right = current, sibling
		}
		sum, err := mimcSum(left, right)
		if err != nil {
			return jubjub.BaseElement{}, err
		}
		current = sum
	}
	return current, nil
}

// NativeMimcScalarBase mirrors the Output circuit's asset-generator stand-in
// (see OutputCircuit.Define): MiMC-hashes a single field element (the
// asset_id tag) into a scalar and multiplies a fixed base by it. Used in
// place of the real hash-to-curve asset generator, which has no gnark
// gadget available in this dependency set.
func NativeMimcScalarBase(tag jubjub.BaseElement, base jubjub.Point) (jubjub.Point, error) {
	scalarField, err := mimcSum(tag)
	if err != nil {
		return jubjub.Point{}, err
	}
	return base.ScalarMul(fieldToScalar(scalarField)), nil
}

// fieldToScalar reduces a circuit base-field element into a Jubjub scalar by
// reading its canonical big-endian bytes into a little-endian scalar
// buffer, reducing mod the Jubjub subgroup order. k*P == (k mod order)*P
// for any point P of that order, so this is the correct native counterpart
// of feeding the same field element into an in-circuit ScalarMul.
func fieldToScalar(e jubjub.BaseElement) jubjub.Scalar {
	bi := FieldToBigInt(e)
	var be [32]byte
	bi.FillBytes(be[:])
	var le [32]byte
	for i, c := range be {
		le[31-i] = c
	}
	return jubjub.ScalarFromBytes(le)
}

// SplitFieldElement mirrors splitFieldElement: bit-splits a field element
// into high/low halves at the midpoint of the scalar field's bit length,
// the same split the Spend circuit uses to pack a nullifier into two
// public inputs.
func SplitFieldElement(v jubjub.BaseElement) (high, low jubjub.BaseElement) {
	modBits := bls12_381fr.Modulus().BitLen()
	mid := modBits / 2

	asInt := v.BigInt(new(big.Int))
	lowMask := new(big.Int).Lsh(big.NewInt(1), uint(mid))
	lowMask.Sub(lowMask, big.NewInt(1))

	lowInt := new(big.Int).And(asInt, lowMask)
	highInt := new(big.Int).Rsh(asInt, uint(mid))

	var highElem, lowElem bls12_381fr.Element
	highElem.SetBigInt(highInt)
	lowElem.SetBigInt(lowInt)
	return highElem, lowElem
}

// FieldToBigInt exposes a base-field element's canonical big.Int
// representative, the form every circuit witness assignment in this
// package needs.
func FieldToBigInt(e jubjub.BaseElement) *big.Int {
	return e.BigInt(new(big.Int))
}

// BytesToFieldBigInt reduces an arbitrary 32-byte value (e.g. a Merkle
// sibling hash or anchor) modulo the scalar field, the same implicit
// reduction gnark applies when assigning a witness value.
func BytesToFieldBigInt(b [32]byte) *big.Int {
	var e bls12_381fr.Element
	e.SetBytes(b[:])
	return e.BigInt(new(big.Int))
}
