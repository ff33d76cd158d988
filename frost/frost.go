// Package frost implements the two-round FROST-style threshold signing
// protocol over the Jubjub group with the G_spend generator: a t-of-n set
// of signers holding Shamir shares of a spend_authorizing_key jointly
// produce one RedJubjub signature indistinguishable from a single-signer
// one. The construction follows the FROST internet-draft
// (commit/binding-factor/group-commitment/aggregate pipeline) over this
// module's jubjub.Point/jubjub.Scalar types, extended with a randomizer
// term: the aggregator folds the transaction's public-key randomization
// into the final scalar so the output verifies against rk exactly like a
// single-signer signature would.
package frost

import (
	"golang.org/x/crypto/blake2b"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// Identifier names a participant in a threshold group. FROST requires
// distinct non-zero identifiers; this module uses small sequential integers
// (1, 2, 3, ...) rather than arbitrary hashes, matching how a trusted dealer
// or DKG run would naturally number its participants.
type Identifier uint16

func (id Identifier) scalar() jubjub.Scalar { return jubjub.ScalarFromUint64(uint64(id)) }

// hiding/binding/rho/challenge personalizations domain-separate the four
// Blake2b-wide-reduce hashes the protocol needs, mirroring redjubjub's single
// sigHashPersonalization but split per use so a transcript replay in one
// role can't be confused for another.
const (
	nonceHidingTag   = "IFFrostHid______"
	nonceBindingTag  = "IFFrostBind_____"
	rhoTag           = "IFFrostRho______"
	commitmentListH  = "IFFrostCL_______"
	challengeTagFull = "IFSigHash_______" // matches redjubjub's Fiat-Shamir tag: the
	// final signature must verify under plain redjubjub.Verify, so the
	// challenge computation here must be bit-for-bit identical to
	// redjubjub.challenge(R, pk, msg).
)

func wideHash(personalization string, parts ...[]byte) jubjub.Scalar {
	h, err := blake2b.New512([]byte(personalization))
	if err != nil {
		panic(err) // fixed-size key, cannot fail
	}
	for _, p := range parts {
		h.Write(p)
	}
	return jubjub.ScalarFromWideBytes(h.Sum(nil))
}

// challenge reproduces redjubjub's Fiat-Shamir transform exactly, so that a
// FROST-aggregated (R, z) verifies under the same redjubjub.Verify used for
// single-signer signatures.
func challenge(R, publicKey jubjub.Point, message []byte) jubjub.Scalar {
	rb := R.CompressedBytes()
	pb := publicKey.CompressedBytes()
	return wideHash(challengeTagFull, rb[:], pb[:], message)
}

// lagrangeCoefficient computes participant id's Lagrange coefficient for
// interpolating the constant term of a Shamir polynomial at zero, given the
// full set of participating identifiers.
func lagrangeCoefficient(id Identifier, participants []Identifier) jubjub.Scalar {
	num := jubjub.ScalarFromUint64(1)
	den := jubjub.ScalarFromUint64(1)
	xi := id.scalar()
	for _, other := range participants {
		if other == id {
			continue
		}
		xj := other.scalar()
		num = num.Mul(xj)
		den = den.Mul(xj.Sub(xi))
	}
	return num.Mul(den.Inverse())
}

// errOf wraps a threshold-signing failure under its error kind.
func errOf(kind ironerr.Kind) error { return ironerr.New(kind) }
