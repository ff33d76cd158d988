// Package circuits implements the Spend, Output, and Mint zk-SNARK
// circuits using gnark over the BLS12-381 scalar field, the native field of
// the embedded Jubjub curve. Burn has no circuit: its balance contribution
// is handled directly in value-commitment algebra.
package circuits

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/hash/mimc"
)

// edCurve wraps the in-circuit Jubjub gadget, constructed once per Define
// call since gnark gadgets are tied to a specific frontend.API instance.
func edCurve(api frontend.API) (twistededwards.Curve, error) {
	return twistededwards.NewEdCurve(api, twistededwards.BLS12_381)
}

// point is the in-circuit representation of a Jubjub point: its affine
// coordinates as two field elements. This mirrors the off-circuit
// jubjub.Point, whose CompressedBytes/UCoordinate the out-of-circuit code
// uses to feed these same values in as public inputs.
type point struct {
	U frontend.Variable
	V frontend.Variable
}

func (p point) toGadget() twistededwards.Point {
	return twistededwards.Point{X: p.U, Y: p.V}
}

// PointAssignment is the exported name builders outside this package use to
// populate a circuit's point-shaped witness fields (Ak, PkD, the fixed
// generators): an alias for the same two-variable struct point uses
// in-circuit, so an assignment built elsewhere and a field read here agree
// on layout by construction.
type PointAssignment = point

func fromGadget(p twistededwards.Point) point {
	return point{U: p.X, V: p.Y}
}

// commitNoteContent reproduces, in-circuit, the hashed-content half of a
// note commitment (see note.Note.CommitmentPoint). The native construction
// there is a keyed Blake2b hash folded into a scalar; Blake2b has no gnark
// gadget available to this codebase, so the in-circuit equivalent uses
// MiMC, the standard ZK-friendly hash gnark ships in std/hash/mimc. This is
// a deliberate divergence from bit-for-bit matching the off-circuit hash,
// recorded in the design notes: in a system wired to real proving keys,
// the off-circuit commitment function would itself be defined in terms of
// this same in-circuit-representable hash.
func commitNoteContent(api frontend.API, assetGenerator point, value frontend.Variable, owner, sender point) (frontend.Variable, error) {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	h.Write(assetGenerator.U, assetGenerator.V, value, owner.U, owner.V, sender.U, sender.V)
	return h.Sum(), nil
}

// noteCommitment computes the full note commitment point: the hashed
// content term plus the blinding term, matching note.Note.CommitmentPoint's
// structure (content*G_note_content + randomness*G_note_commit) but with
// the content term folded by commitNoteContent instead of multiplied by a
// fixed generator — the in-circuit gadget commits to the hash value itself
// rather than re-deriving a curve point from it, since doing so inside the
// circuit would require a hash-to-curve gadget this codebase doesn't have.
func noteCommitment(api frontend.API, curve twistededwards.Curve, noteCommitGenerator point, content frontend.Variable, randomness frontend.Variable) (frontend.Variable, error) {
	blinding := curve.ScalarMul(noteCommitGenerator.toGadget(), randomness)
	return api.Add(content, blinding.X), nil
}

// nullifier reproduces, in-circuit, the nullifier hash nf = H(nk || rho),
// standing in for the native Blake2s construction for the same reason
// commitNoteContent does.
func nullifier(api frontend.API, nk point, rho frontend.Variable) (frontend.Variable, error) {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	h.Write(nk.U, nk.V, rho)
	return h.Sum(), nil
}

// ivkFromKeys folds (ak, nk) through MiMC, the in-circuit stand-in for the
// native truncated-Blake2s crh-ivk construction (see keys.deriveIncomingViewKey).
func ivkFromKeys(api frontend.API, ak, nk twistededwards.Point) (frontend.Variable, error) {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	h.Write(ak.X, ak.Y, nk.X, nk.Y)
	return h.Sum(), nil
}

// splitFieldElement bit-decomposes a hash output into two halves, the way
// the spend circuit packs a 256-bit nullifier hash into two public field
// elements. The split point doesn't need to be exact since both fields are
// well under 256 bits already; it just needs to be the same split the
// transaction package uses when reassembling the public nullifier bytes.
func splitFieldElement(api frontend.API, v frontend.Variable) (high, low frontend.Variable) {
	bits := api.ToBinary(v)
	mid := len(bits) / 2
	return api.FromBinary(bits[mid:]...), api.FromBinary(bits[:mid]...)
}

// merklePathRoot climbs a Depth-layer authentication path from leaf to
// root, selecting left/right order per path bit. This stands in for the
// circuit's Pedersen-hash Merkle gadget (see witness package's note on
// substituting a keyed hash for the literal bit-decomposed construction).
func merklePathRoot(api frontend.API, leaf frontend.Variable, siblings []frontend.Variable, pathBits []frontend.Variable) (frontend.Variable, error) {
	current := leaf
	for i := range siblings {
		h, err := mimc.NewMiMC(api)
		if err != nil {
			return nil, err
		}
		left := api.Select(pathBits[i], siblings[i], current)
		right := api.Select(pathBits[i], current, siblings[i])
		h.Write(left, right)
		current = h.Sum()
	}
	return current, nil
}
