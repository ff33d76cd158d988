package circuits

import "github.com/consensys/gnark/frontend"

// MintCircuit proves the signer controls the asset's declared owner
// address, authorizing new issuance of that asset.
type MintCircuit struct {
	// Public inputs.
	RkU      frontend.Variable `gnark:",public"`
	RkV      frontend.Variable `gnark:",public"`
	OwnerU   frontend.Variable `gnark:",public"`
	OwnerV   frontend.Variable `gnark:",public"`

	// Witnesses.
	Ak  point
	Nsk frontend.Variable
	Ar  frontend.Variable

	GSpend    point
	GProofGen point
	GPublic   point
}

func (c *MintCircuit) Define(api frontend.API) error {
	curve, err := edCurve(api)
	if err != nil {
		return err
	}

	ak := c.Ak.toGadget()
	curve.AssertIsOnCurve(ak)
	nk := curve.ScalarMul(c.GProofGen.toGadget(), c.Nsk)

	// Derive the owner's public address with the key hierarchy's shape:
	// ivk = H(ak || nk), owner = ivk * G_public, where H is ivkFromKeys's
	// MiMC stand-in for the native Blake2s crh-ivk.
	ivk, err := ivkFromKeys(api, ak, nk)
	if err != nil {
		return err
	}
	owner := curve.ScalarMul(c.GPublic.toGadget(), ivk)
	api.AssertIsEqual(owner.X, c.OwnerU)
	api.AssertIsEqual(owner.Y, c.OwnerV)

	arTerm := curve.ScalarMul(c.GSpend.toGadget(), c.Ar)
	rk := curve.Add(ak, arTerm)
	api.AssertIsEqual(rk.X, c.RkU)
	api.AssertIsEqual(rk.Y, c.RkV)

	return nil
}
