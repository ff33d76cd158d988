package circuits

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// OutputCircuit proves a new note was constructed correctly for its
// asserted asset and recipient, and exposes the ephemeral Diffie-Hellman
// public key so the recipient can derive the note's shared encryption
// secret.
type OutputCircuit struct {
	// Public inputs.
	RkU             frontend.Variable `gnark:",public"`
	RkV             frontend.Variable `gnark:",public"`
	CvU             frontend.Variable `gnark:",public"`
	CvV             frontend.Variable `gnark:",public"`
	EpkU            frontend.Variable `gnark:",public"`
	EpkV            frontend.Variable `gnark:",public"`
	NoteCommitment  frontend.Variable `gnark:",public"`

	// Witnesses.
	Value                frontend.Variable
	AssetIDTag           frontend.Variable // a field-encoded form of the 32-byte asset_id
	AssetGenerator       point
	ValueCommitmentRandomness frontend.Variable

	Ak  point
	Nsk frontend.Variable
	Ar  frontend.Variable

	SenderU frontend.Variable
	SenderV frontend.Variable

	CommitmentRandomness frontend.Variable
	Esk                  frontend.Variable

	GSpend      point
	GProofGen   point
	GPublic     point
	GRandomness point
	GNoteCommit point
	GAssetBase  point // stand-in base for the asset-generator binding check
}

func (c *OutputCircuit) Define(api frontend.API) error {
	curve, err := edCurve(api)
	if err != nil {
		return err
	}

	// The asset generator in the value commitment must agree with the
	// asserted asset_id. The real construction hashes asset_id to a curve
	// point by rejection sampling, which has no gnark gadget available
	// here; as a stand-in we bind the witnessed generator to a MiMC digest
	// of the asset tag via a fixed base (see design notes).
	tagHasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	tagHasher.Write(c.AssetIDTag)
	assetScalar := tagHasher.Sum()
	expectedAssetGen := curve.ScalarMul(c.GAssetBase.toGadget(), assetScalar)
	api.AssertIsEqual(expectedAssetGen.X, c.AssetGenerator.U)
	api.AssertIsEqual(expectedAssetGen.Y, c.AssetGenerator.V)

	ak := c.Ak.toGadget()
	curve.AssertIsOnCurve(ak)
	nkGadget := curve.ScalarMul(c.GProofGen.toGadget(), c.Nsk)

	ivk, err := ivkFromKeys(api, ak, nkGadget)
	if err != nil {
		return err
	}

	// The sender's own pk_d, derived the same way a recipient's is.
	pkD := curve.ScalarMul(c.GPublic.toGadget(), ivk)

	content, err := commitNoteContent(api, point{U: expectedAssetGen.X, V: expectedAssetGen.Y}, c.Value, fromGadget(pkD), point{U: c.SenderU, V: c.SenderV})
	if err != nil {
		return err
	}
	cm, err := noteCommitment(api, curve, c.GNoteCommit, content, c.CommitmentRandomness)
	if err != nil {
		return err
	}
	api.AssertIsEqual(cm, c.NoteCommitment)

	// epk = esk * G_public.
	epk := curve.ScalarMul(c.GPublic.toGadget(), c.Esk)
	api.AssertIsEqual(epk.X, c.EpkU)
	api.AssertIsEqual(epk.Y, c.EpkV)

	// rk = ak + ar * G_spend, shared with every other description in the
	// same transaction.
	arTerm := curve.ScalarMul(c.GSpend.toGadget(), c.Ar)
	rk := curve.Add(ak, arTerm)
	api.AssertIsEqual(rk.X, c.RkU)
	api.AssertIsEqual(rk.Y, c.RkV)

	// cv = value * asset_generator + randomness * G_randomness.
	cv := curve.Add(
		curve.ScalarMul(point{U: expectedAssetGen.X, V: expectedAssetGen.Y}.toGadget(), c.Value),
		curve.ScalarMul(c.GRandomness.toGadget(), c.ValueCommitmentRandomness),
	)
	api.AssertIsEqual(cv.X, c.CvU)
	api.AssertIsEqual(cv.Y, c.CvV)

	return nil
}
