package frost

import (
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// Aggregate combines verified signature shares into a single RedJubjub
// signature over pkg.Rk, applying the FROST randomizer extension: the
// aggregator folds pkg.RkRandomizer into the final scalar so the result
// verifies against rk = group_verifying_key + RkRandomizer*G_spend exactly
// like a single-signer signature would. It self-verifies before returning.
func Aggregate(pub PublicKeyPackage, pkg SigningPackage, shares []SignatureShare) (redjubjub.Signature, error) {
	if len(shares) == 0 {
		return redjubjub.Signature{}, ironerr.New(ironerr.FailedSignatureAggregation)
	}
	for _, s := range shares {
		if !VerifySignatureShare(pub, pkg, s) {
			return redjubjub.Signature{}, ironerr.New(ironerr.FailedSignatureAggregation)
		}
	}

	rhos := bindingFactors(pkg)
	R := groupCommitment(pkg, rhos)
	c := challenge(R, pkg.Rk, pkg.Message)

	z := jubjub.ScalarFromUint64(0)
	for _, s := range shares {
		z = z.Add(s.Share)
	}
	// z*G = R + c*group_verifying_key; adding c*alpha shifts the right-hand
	// side to R + c*(group_verifying_key + alpha*G_spend) = R + c*rk.
	z = z.Add(c.Mul(pkg.RkRandomizer))

	sig := redjubjub.Signature{R: R, S: z}
	if !redjubjub.Verify(pkg.Rk, jubjub.GSpend(), pkg.Message, sig) {
		return redjubjub.Signature{}, ironerr.New(ironerr.FailedSignatureVerification)
	}
	return sig, nil
}
