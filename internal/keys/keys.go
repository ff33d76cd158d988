// Package keys implements the seed-to-key derivation hierarchy: a 32-byte
// spending key deterministically yields the spend-authorizing,
// proof-authorizing, outgoing-view, incoming-view keys, and the public
// address, plus the independent IncomingViewKey/OutgoingViewKey/ViewKey
// value types that can be distributed without the spending key itself.
package keys

import (
	"crypto/rand"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// expandedSpendKeyTag domain-separates the three sub-keys derived from a
// 32-byte spending key (index 0 = ask, 1 = nsk, 2 = ovk). The tag is used
// as the Blake2b key (zero-padded), since golang.org/x/crypto/blake2b does
// not expose a Person field publicly.
const expandedSpendKeyTag = "IronFishExpSpend"

// crhIVKTag is the domain tag for deriving the incoming viewing key from
// (authorizing_key, nullifier_deriving_key).
const crhIVKTag = "crh-ivk"

// SaplingKey bundles a 32-byte seed with every key part derived from it.
type SaplingKey struct {
	SpendingKey          [32]byte
	SpendAuthorizingKey  jubjub.Scalar // ask
	ProofAuthorizingKey  jubjub.Scalar // nsk
	OutgoingViewKey      OutgoingViewKey
	AuthorizingKey       jubjub.Point // ak = ask * G_spend
	NullifierDerivingKey jubjub.Point // nk = nsk * G_pgk
	incomingViewKey      IncomingViewKey
}

// NewSaplingKey derives every key part from a 32-byte seed. It fails with
// InvalidViewingKey if the resulting incoming viewing key would be zero
// (probability ~2^-251, but callers must still handle the error).
func NewSaplingKey(seed [32]byte) (*SaplingKey, error) {
	ask := expandedSpendScalar(seed, 0)
	nsk := expandedSpendScalar(seed, 1)
	ovk := expandedSpendBytes(seed, 2)

	ak := jubjub.GSpend().ScalarMul(ask)
	nk := jubjub.GProofGeneration().ScalarMul(nsk)

	ivk, err := deriveIncomingViewKey(ak, nk)
	if err != nil {
		return nil, err
	}

	return &SaplingKey{
		SpendingKey:          seed,
		SpendAuthorizingKey:  ask,
		ProofAuthorizingKey:  nsk,
		OutgoingViewKey:      OutgoingViewKey{bytes: ovk},
		AuthorizingKey:       ak,
		NullifierDerivingKey: nk,
		incomingViewKey:      ivk,
	}, nil
}

// GenerateKey draws a fresh CSPRNG seed and retries until the derived
// incoming viewing key is valid.
func GenerateKey() (*SaplingKey, error) {
	for {
		var seed [32]byte
		if _, err := rand.Read(seed[:]); err != nil {
			return nil, err
		}
		key, err := NewSaplingKey(seed)
		if err == nil {
			return key, nil
		}
	}
}

// FromBytes constructs a key from an exact 32-byte seed.
func FromBytes(b []byte) (*SaplingKey, error) {
	if len(b) != 32 {
		return nil, ironerr.New(ironerr.InvalidSeed)
	}
	var seed [32]byte
	copy(seed[:], b)
	return NewSaplingKey(seed)
}

func (k *SaplingKey) IncomingViewKey() IncomingViewKey { return k.incomingViewKey }

func (k *SaplingKey) ViewKey() ViewKey {
	return ViewKey{AuthorizingKey: k.AuthorizingKey, NullifierDerivingKey: k.NullifierDerivingKey}
}

func (k *SaplingKey) PublicAddress() PublicAddress {
	return k.incomingViewKey.PublicAddress()
}

// expandedSpendScalar computes Fr(wide-reduce(Blake2b(seed || index))), the
// construction behind ask and nsk.
func expandedSpendScalar(seed [32]byte, index byte) jubjub.Scalar {
	return jubjub.ScalarFromWideBytes(expandedSpendDigest(seed, index))
}

// expandedSpendBytes truncates the same 64-byte digest to 32 bytes, the
// construction behind the outgoing viewing key.
func expandedSpendBytes(seed [32]byte, index byte) [32]byte {
	digest := expandedSpendDigest(seed, index)
	var out [32]byte
	copy(out[:], digest[:32])
	return out
}

func expandedSpendDigest(seed [32]byte, index byte) []byte {
	h, err := blake2b.New512([]byte(padKey(expandedSpendKeyTag, 64)))
	if err != nil {
		panic(err) // fixed-size key, cannot fail
	}
	h.Write(seed[:])
	h.Write([]byte{index})
	return h.Sum(nil)
}

// deriveIncomingViewKey computes ivk = Blake2s("crh-ivk", ak || nk), zeroes
// the top 5 bits to ensure the result is always a valid Fr element without
// rejection sampling, and fails if the reduced scalar is zero.
func deriveIncomingViewKey(ak, nk jubjub.Point) (IncomingViewKey, error) {
	h, err := blake2s.New256([]byte(padKey(crhIVKTag, 32)))
	if err != nil {
		return IncomingViewKey{}, err
	}
	akBytes := ak.CompressedBytes()
	nkBytes := nk.CompressedBytes()
	h.Write(akBytes[:])
	h.Write(nkBytes[:])
	digest := h.Sum(nil)

	// Zero the top 5 bits of the last byte (big-endian digest, little-endian
	// scalar encoding) so the value is always < the subgroup order.
	digest[31] &= 0x07

	var buf [32]byte
	copy(buf[:], digest)
	scalar := jubjub.ScalarFromBytes(buf)
	if scalar.IsZero() {
		return IncomingViewKey{}, ironerr.New(ironerr.InvalidViewingKey)
	}
	return IncomingViewKey{scalar: scalar}, nil
}

func padKey(tag string, size int) string {
	b := make([]byte, size)
	copy(b, tag)
	return string(b)
}
