package frost

import (
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// KeyPackage is one participant's share of a split spend_authorizing_key:
// their Shamir share, their own verifying share (share * G_spend), and the
// group's public key package (combined verifying key and every
// participant's verifying share). The threshold is not stored; round two
// computes Lagrange coefficients from the identifiers in the
// SigningPackage's commitments.
type KeyPackage struct {
	Identifier     Identifier
	SecretShare    jubjub.Scalar
	VerifyingShare jubjub.Point
	PublicKeys     PublicKeyPackage
}

// PublicKeyPackage is the group's public material: the combined verifying
// key (what descriptions.NewRandomizedKey rerandomizes into rk) and every
// participant's individual verifying share, used to check signature shares
// before aggregating them.
type PublicKeyPackage struct {
	VerifyingKey    jubjub.Point
	VerifyingShares map[Identifier]jubjub.Point
}

// TrustedDealerSplit splits an existing spend_authorizing_key into n shares
// of which any t reconstruct (via Lagrange interpolation) the original key.
// Keys can also be provisioned by a distributed key generation run instead
// of a trusted dealer; only the trusted-dealer path is implemented here,
// since DKG protocol details are better consumed from a dedicated library.
func TrustedDealerSplit(spendAuthorizingKey jubjub.Scalar, threshold, participants int) ([]KeyPackage, PublicKeyPackage, error) {
	if threshold < 1 || participants < threshold {
		return nil, PublicKeyPackage{}, ironerr.New(ironerr.InvalidRandomizer)
	}

	coeffs := make([]jubjub.Scalar, threshold)
	coeffs[0] = spendAuthorizingKey
	for i := 1; i < threshold; i++ {
		c, err := jubjub.RandomScalar()
		if err != nil {
			return nil, PublicKeyPackage{}, err
		}
		coeffs[i] = c
	}

	pub := PublicKeyPackage{
		VerifyingKey:    jubjub.GSpend().ScalarMul(spendAuthorizingKey),
		VerifyingShares: make(map[Identifier]jubjub.Point, participants),
	}

	packages := make([]KeyPackage, 0, participants)
	for i := 1; i <= participants; i++ {
		id := Identifier(i)
		share := evalPolynomial(coeffs, id.scalar())
		verifyingShare := jubjub.GSpend().ScalarMul(share)
		pub.VerifyingShares[id] = verifyingShare
		packages = append(packages, KeyPackage{
			Identifier:     id,
			SecretShare:    share,
			VerifyingShare: verifyingShare,
		})
	}
	for i := range packages {
		packages[i].PublicKeys = pub
	}
	return packages, pub, nil
}

// evalPolynomial evaluates the Shamir polynomial with the given coefficients
// (lowest degree first, coeffs[0] is the shared secret) at x.
func evalPolynomial(coeffs []jubjub.Scalar, x jubjub.Scalar) jubjub.Scalar {
	acc := jubjub.ScalarFromUint64(0)
	power := jubjub.ScalarFromUint64(1)
	for _, c := range coeffs {
		acc = acc.Add(c.Mul(power))
		power = power.Mul(x)
	}
	return acc
}
