package keys

import (
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// messageSignatureVersion is the fixed version byte every MessageSignature
// wire encoding begins with (§6). It has no relation to TransactionVersion:
// arbitrary-message signing is a crypto-core capability the transaction
// format doesn't use.
const messageSignatureVersion = 0xa7

// MessageSignatureSize is the wire size of a MessageSignature: the version
// byte plus a 64-byte RedJubjub signature.
const MessageSignatureSize = 1 + 64

// MessageSignatureBytes encodes sig in the §6 MessageSignature wire format:
// version_u8 = 0xa7 ∥ signature.
func MessageSignatureBytes(sig redjubjub.Signature) [MessageSignatureSize]byte {
	var out [MessageSignatureSize]byte
	out[0] = messageSignatureVersion
	sigBytes := sig.Bytes()
	copy(out[1:], sigBytes[:])
	return out
}

// MessageSignatureFromBytes decodes a MessageSignature, rejecting any
// version byte other than 0xa7 as Unsupported.
func MessageSignatureFromBytes(b [MessageSignatureSize]byte) (redjubjub.Signature, error) {
	if b[0] != messageSignatureVersion {
		return redjubjub.Signature{}, ironerr.New(ironerr.Unsupported)
	}
	var sigBytes [64]byte
	copy(sigBytes[:], b[1:])
	return redjubjub.FromBytes(sigBytes)
}

// PublicAddress is the single 32-byte value `incoming_view_key * G_public`.
// Unlike the original Sapling construction there is no diversifier: one
// incoming viewing key maps to exactly one address.
type PublicAddress struct {
	Point jubjub.Point
}

func (a PublicAddress) Bytes() [32]byte { return a.Point.CompressedBytes() }

func PublicAddressFromBytes(b [32]byte) (PublicAddress, error) {
	pt, err := jubjub.PointFromCompressedBytes(b)
	if err != nil {
		return PublicAddress{}, err
	}
	return PublicAddress{Point: pt}, nil
}

// IncomingViewKey grants read-only access to notes received at the
// corresponding address; it cannot spend and cannot decrypt what its owner
// sent (that needs the OutgoingViewKey).
type IncomingViewKey struct {
	scalar jubjub.Scalar
}

func (ivk IncomingViewKey) Scalar() jubjub.Scalar { return ivk.scalar }

func (ivk IncomingViewKey) PublicAddress() PublicAddress {
	return PublicAddress{Point: jubjub.GPublic().ScalarMul(ivk.scalar)}
}

// SignMessage produces a RedJubjub signature over an arbitrary message
// using the incoming view key's scalar as the signing key and G_public as
// the signature generator, a crypto-core capability unrelated to
// transactions.
func (ivk IncomingViewKey) SignMessage(message []byte) (redjubjub.Signature, error) {
	return redjubjub.Sign(ivk.scalar, jubjub.GPublic(), message)
}

// VerifyMessage verifies a MessageSignature against this incoming view key's
// implied public key.
func (ivk IncomingViewKey) VerifyMessage(message []byte, sig redjubjub.Signature) bool {
	return redjubjub.Verify(ivk.PublicAddress().Point, jubjub.GPublic(), message, sig)
}

// OutgoingViewKey grants the ability to decrypt notes its owner created as
// a sender, auditing their own outgoing transactions.
type OutgoingViewKey struct {
	bytes [32]byte
}

func (ovk OutgoingViewKey) Bytes() [32]byte { return ovk.bytes }

func OutgoingViewKeyFromBytes(b [32]byte) OutgoingViewKey {
	return OutgoingViewKey{bytes: b}
}

// ViewKey bundles authorizing_key and nullifier_deriving_key; it's the
// minimal material needed to recompute the incoming viewing key and public
// address, and to derive nullifiers for notes one owns.
type ViewKey struct {
	AuthorizingKey       jubjub.Point
	NullifierDerivingKey jubjub.Point
}

func (vk ViewKey) IncomingViewKey() (IncomingViewKey, error) {
	return deriveIncomingViewKey(vk.AuthorizingKey, vk.NullifierDerivingKey)
}

func (vk ViewKey) PublicAddress() (PublicAddress, error) {
	ivk, err := vk.IncomingViewKey()
	if err != nil {
		return PublicAddress{}, ironerr.Wrap(ironerr.InvalidViewingKey, err)
	}
	return ivk.PublicAddress(), nil
}
