package frost

import (
	"sort"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// SigningPackage is what a coordinator assembles and distributes to every
// participating signer for round two. Message is the same 64-byte
// rk||signature_hash every single-signer spend/mint authorization signs
// (see descriptions.signingMessage); RkRandomizer is the
// transaction's public_key_randomization (alpha), folded in at aggregation
// time as the FROST "randomizer" extension so the output signature
// verifies against rk rather than the bare group verifying key.
type SigningPackage struct {
	Message       []byte
	Commitments   []SigningCommitment
	RkRandomizer  jubjub.Scalar
	Rk            jubjub.Point
}

// SignatureShare is one signer's round-two contribution.
type SignatureShare struct {
	Identifier Identifier
	Share      jubjub.Scalar
}

func sortedIdentifiers(commitments []SigningCommitment) []Identifier {
	ids := make([]Identifier, len(commitments))
	for i, c := range commitments {
		ids[i] = c.Identifier
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func commitmentFor(commitments []SigningCommitment, id Identifier) (SigningCommitment, bool) {
	for _, c := range commitments {
		if c.Identifier == id {
			return c, true
		}
	}
	return SigningCommitment{}, false
}

// bindingFactors computes, per commitment, rho_i = H(Rk || msg || encoded
// commitment list || identifier_i): the FROST binding-factor construction,
// keyed to the rerandomized rk (rather than the raw group key) since that is
// the public value every signer and the coordinator already share.
func bindingFactors(pkg SigningPackage) map[Identifier]jubjub.Scalar {
	rkBytes := pkg.Rk.CompressedBytes()
	encodedList := encodeCommitmentList(pkg.Commitments)
	prefix := append(append([]byte{}, rkBytes[:]...), pkg.Message...)
	prefix = append(prefix, encodedList...)

	out := make(map[Identifier]jubjub.Scalar, len(pkg.Commitments))
	for _, c := range pkg.Commitments {
		idBytes := []byte{byte(c.Identifier >> 8), byte(c.Identifier)}
		out[c.Identifier] = wideHash(rhoTag, prefix, idBytes)
	}
	return out
}

func encodeCommitmentList(commitments []SigningCommitment) []byte {
	sorted := append([]SigningCommitment{}, commitments...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Identifier < sorted[j].Identifier })

	buf := make([]byte, 0, len(sorted)*(2+32+32))
	for _, c := range sorted {
		hb := c.Hiding.CompressedBytes()
		bb := c.Binding.CompressedBytes()
		buf = append(buf, byte(c.Identifier>>8), byte(c.Identifier))
		buf = append(buf, hb[:]...)
		buf = append(buf, bb[:]...)
	}
	return buf
}

// groupCommitment computes R = sum_i (hiding_i + rho_i * binding_i), the
// aggregate nonce commitment the final signature's R component reuses
// directly (no extra term for the randomizer: the randomizer only adjusts
// the scalar half, computed in Aggregate).
func groupCommitment(pkg SigningPackage, rhos map[Identifier]jubjub.Scalar) jubjub.Point {
	R := jubjub.Identity()
	for _, c := range pkg.Commitments {
		rho := rhos[c.Identifier]
		R = R.Add(c.Hiding).Add(c.Binding.ScalarMul(rho))
	}
	return R
}

// Sign runs round two for a single signer: given their nonces from round
// one and the coordinator's SigningPackage, produce this signer's
// signature share. The challenge is computed against pkg.Rk (not the raw
// group key) so the coordinator never needs to reveal RkRandomizer to
// signers who don't already know it.
func Sign(kp KeyPackage, nonces SigningNonces, pkg SigningPackage) (SignatureShare, error) {
	if _, ok := commitmentFor(pkg.Commitments, kp.Identifier); !ok {
		return SignatureShare{}, ironerr.New(ironerr.InvalidRandomizer)
	}

	rhos := bindingFactors(pkg)
	rho := rhos[kp.Identifier]
	R := groupCommitment(pkg, rhos)
	c := challenge(R, pkg.Rk, pkg.Message)

	participants := sortedIdentifiers(pkg.Commitments)
	lambda := lagrangeCoefficient(kp.Identifier, participants)

	share := nonces.Hiding.Add(nonces.Binding.Mul(rho)).Add(lambda.Mul(kp.SecretShare).Mul(c))
	return SignatureShare{Identifier: kp.Identifier, Share: share}, nil
}

// VerifySignatureShare lets a coordinator reject a bad share before
// aggregating, per the FROST draft's "Coordinator MUST validate each
// signature share" step: checks share*G_spend == comm_share +
// lambda_i*challenge*verifying_share_i.
func VerifySignatureShare(pub PublicKeyPackage, pkg SigningPackage, share SignatureShare) bool {
	commitment, ok := commitmentFor(pkg.Commitments, share.Identifier)
	if !ok {
		return false
	}
	verifyingShare, ok := pub.VerifyingShares[share.Identifier]
	if !ok {
		return false
	}

	rhos := bindingFactors(pkg)
	rho := rhos[share.Identifier]
	R := groupCommitment(pkg, rhos)
	c := challenge(R, pkg.Rk, pkg.Message)

	participants := sortedIdentifiers(pkg.Commitments)
	lambda := lagrangeCoefficient(share.Identifier, participants)

	commShare := commitment.Hiding.Add(commitment.Binding.ScalarMul(rho))
	lhs := jubjub.GSpend().ScalarMul(share.Share)
	rhs := commShare.Add(verifyingShare.ScalarMul(lambda.Mul(c)))
	return lhs.Equal(rhs)
}
