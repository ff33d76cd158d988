package circuits

import "github.com/consensys/gnark/frontend"

// MerkleDepth matches witness.Depth: the Spend circuit climbs 32 layers of
// the note commitment tree.
const MerkleDepth = 32

// SpendCircuit proves knowledge of a previously committed note, its
// ownership, and its position in the commitment tree, without revealing
// which note was spent.
type SpendCircuit struct {
	// Public inputs.
	RkU      frontend.Variable `gnark:",public"`
	RkV      frontend.Variable `gnark:",public"`
	CvU      frontend.Variable `gnark:",public"`
	CvV      frontend.Variable `gnark:",public"`
	Anchor   frontend.Variable `gnark:",public"`
	Nullifier0 frontend.Variable `gnark:",public"`
	Nullifier1 frontend.Variable `gnark:",public"`

	// Witnesses.
	ValueCommitmentRandomness frontend.Variable
	Value                     frontend.Variable
	AssetGeneratorU           frontend.Variable
	AssetGeneratorV           frontend.Variable

	Ak  point // authorizing_key
	Nsk frontend.Variable
	Ar  frontend.Variable

	PkD point // payment_address (owner's transmission key, pk_d)

	CommitmentRandomness frontend.Variable
	SenderU              frontend.Variable
	SenderV              frontend.Variable

	AuthPathSiblings [MerkleDepth]frontend.Variable
	AuthPathBits     [MerkleDepth]frontend.Variable
	Position         frontend.Variable

	GSpend        point
	GProofGen     point
	GPublic       point
	GNullifierPos point
	GNoteCommit   point
	GRandomness   point
}

func (c *SpendCircuit) Define(api frontend.API) error {
	curve, err := edCurve(api)
	if err != nil {
		return err
	}

	ak := c.Ak.toGadget()
	curve.AssertIsOnCurve(ak)

	// nk = nsk * G_proof_generation
	nkGadget := curve.ScalarMul(c.GProofGen.toGadget(), c.Nsk)
	nk := fromGadget(nkGadget)

	ivk, err := ivkFromKeys(api, ak, nkGadget)
	if err != nil {
		return err
	}

	// pk_d = ivk * G_public must equal the witnessed payment address.
	pkDComputed := curve.ScalarMul(c.GPublic.toGadget(), ivk)
	api.AssertIsEqual(pkDComputed.X, c.PkD.U)
	api.AssertIsEqual(pkDComputed.Y, c.PkD.V)

	// Rebuild the note commitment from (asset_generator, value, pk_d, sender).
	assetGen := point{U: c.AssetGeneratorU, V: c.AssetGeneratorV}
	content, err := commitNoteContent(api, assetGen, c.Value, c.PkD, point{U: c.SenderU, V: c.SenderV})
	if err != nil {
		return err
	}
	cm, err := noteCommitment(api, curve, c.GNoteCommit, content, c.CommitmentRandomness)
	if err != nil {
		return err
	}

	// Climb the Merkle path and enforce the anchor check, except for
	// zero-value notes, which escape it: (cur - anchor) * value = 0.
	root, err := merklePathRoot(api, cm, c.AuthPathSiblings[:], c.AuthPathBits[:])
	if err != nil {
		return err
	}
	api.AssertIsEqual(api.Mul(api.Sub(root, c.Anchor), c.Value), 0)

	// rho = cm + position * G_nullifier_position; nf = H(nk || rho).
	posTerm := curve.ScalarMul(c.GNullifierPos.toGadget(), c.Position)
	rhoU := api.Add(cm, posTerm.X)
	nf, err := nullifier(api, nk, rhoU)
	if err != nil {
		return err
	}
	// nf is packed as two public inputs since the native nullifier is 32
	// bytes, too wide for one circuit field element; split it into
	// high/low halves the same way the transaction package reassembles it.
	nfHigh, nfLow := splitFieldElement(api, nf)
	api.AssertIsEqual(c.Nullifier0, nfHigh)
	api.AssertIsEqual(c.Nullifier1, nfLow)

	// rk = ak + ar * G_spend.
	arTerm := curve.ScalarMul(c.GSpend.toGadget(), c.Ar)
	rk := curve.Add(ak, arTerm)
	api.AssertIsEqual(rk.X, c.RkU)
	api.AssertIsEqual(rk.Y, c.RkV)

	// cv = value * asset_generator + value_commitment_randomness * G_randomness
	cv := curve.Add(
		curve.ScalarMul(assetGen.toGadget(), c.Value),
		curve.ScalarMul(c.GRandomness.toGadget(), c.ValueCommitmentRandomness),
	)
	api.AssertIsEqual(cv.X, c.CvU)
	api.AssertIsEqual(cv.Y, c.CvV)

	return nil
}
