// Package redjubjub implements the re-randomizable Schnorr signature scheme
// (RedDSA specialized to Jubjub) used for spend-authorization signatures,
// the binding signature, and message signatures. It is a two-term Schnorr
// signature parameterized by generator: R = r*G, S = r + H(R || pk || msg)*sk.
package redjubjub

import (
	"golang.org/x/crypto/blake2b"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// sigHashPersonalization domain-separates the Fiat-Shamir challenge used by
// every RedJubjub signature in this module, regardless of which generator it
// is keyed to.
const sigHashPersonalization = "IFSigHash_______"

// Signature is a RedJubjub signature: a 32-byte compressed commitment point
// R and a 32-byte scalar S, serialized as 64 bytes total (R || S).
type Signature struct {
	R jubjub.Point
	S jubjub.Scalar
}

// Bytes encodes the signature in the wire format used for spend
// authorization, binding, and message signatures: 64 bytes, R then S.
func (sig Signature) Bytes() [64]byte {
	var out [64]byte
	rb := sig.R.CompressedBytes()
	sb := sig.S.Bytes()
	copy(out[:32], rb[:])
	copy(out[32:], sb[:])
	return out
}

// FromBytes decodes a 64-byte RedJubjub signature.
func FromBytes(b [64]byte) (Signature, error) {
	var rb [32]byte
	var sb [32]byte
	copy(rb[:], b[:32])
	copy(sb[:], b[32:])
	r, err := jubjub.PointFromCompressedBytes(rb)
	if err != nil {
		return Signature{}, err
	}
	return Signature{R: r, S: jubjub.ScalarFromBytes(sb)}, nil
}

// Sign produces a RedJubjub signature of message under signingKey, using
// generator as the base point (G_spend for spend/mint authorization,
// G_public for message signatures, G_randomness for the binding signature).
func Sign(signingKey jubjub.Scalar, generator jubjub.Point, message []byte) (Signature, error) {
	r, err := jubjub.RandomScalar()
	if err != nil {
		return Signature{}, err
	}
	R := generator.ScalarMul(r)
	publicKey := generator.ScalarMul(signingKey)

	c, err := challenge(R, publicKey, message)
	if err != nil {
		return Signature{}, err
	}
	S := r.Add(c.Mul(signingKey))
	return Signature{R: R, S: S}, nil
}

// Verify checks a RedJubjub signature against publicKey under the same
// generator used to sign.
func Verify(publicKey, generator jubjub.Point, message []byte, sig Signature) bool {
	c, err := challenge(sig.R, publicKey, message)
	if err != nil {
		return false
	}
	// S*G =?= R + c*pk
	lhs := generator.ScalarMul(sig.S)
	rhs := sig.R.Add(publicKey.ScalarMul(c))
	return lhs.Equal(rhs)
}

// challenge computes c = Blake2b-wide-reduce(personalization || R || pk || msg),
// the Fiat-Shamir transform that turns the Sigma protocol into a signature.
func challenge(R, publicKey jubjub.Point, message []byte) (jubjub.Scalar, error) {
	h, err := blake2b.New512([]byte(sigHashPersonalization))
	if err != nil {
		return jubjub.Scalar{}, err
	}
	rb := R.CompressedBytes()
	pb := publicKey.CompressedBytes()
	h.Write(rb[:])
	h.Write(pb[:])
	h.Write(message)
	return jubjub.ScalarFromWideBytes(h.Sum(nil)), nil
}

// RandomizePrivate computes sk + alpha, the re-randomization used to derive
// a spend's one-time signing key from ask without revealing ask itself.
func RandomizePrivate(sk jubjub.Scalar, alpha jubjub.Scalar) jubjub.Scalar {
	return sk.Add(alpha)
}

// RandomizePublic computes pk + alpha*generator, the public counterpart of
// RandomizePrivate; this is how `rk` is derived from `ak` in every spend,
// output, and mint description.
func RandomizePublic(pk jubjub.Point, generator jubjub.Point, alpha jubjub.Scalar) jubjub.Point {
	return pk.Add(generator.ScalarMul(alpha))
}

// RandomAlpha draws a fresh randomizer for key re-randomization.
func RandomAlpha() (jubjub.Scalar, error) {
	return jubjub.RandomScalar()
}

// RejectSmallOrder flags a signing/verification key that must be rejected
// before use, since small-order points are never valid untrusted input.
func RejectSmallOrder(p jubjub.Point) error {
	if p.IsSmallOrder() {
		return ironerr.New(ironerr.IsSmallOrder)
	}
	return nil
}
