// Package asset implements custom-asset definitions: the wire format
// creators publish when minting, and the nonce search that turns (creator,
// name, metadata) into a valid 32-byte AssetIdentifier.
package asset

import (
	"golang.org/x/crypto/blake2s"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/ironerr"
)

// NameSize, MetadataSize are the fixed, zero-padded UTF-8 field widths this
// wire format uses.
const (
	NameSize     = 32
	MetadataSize = 96
)

// WireSize is the fixed 161-byte asset wire format: creator_public_address
// (32) ∥ name (32) ∥ metadata (96) ∥ nonce (1). The identifier is derived,
// never serialized.
const WireSize = 32 + NameSize + MetadataSize + 1

// MaxNonceSearch bounds the asset-identifier nonce search, imposing an
// explicit bound and surfacing InvalidData on exhaustion rather than
// looping unboundedly.
const MaxNonceSearch = 256

// identifierPersonalization domain-separates the asset-identifier hash from
// every other Blake2s use in this module.
const identifierPersonalization = "IFAssetId_______"

// Asset is a custom-asset definition as published by its creator.
type Asset struct {
	Creator  keys.PublicAddress
	Name     [NameSize]byte
	Metadata [MetadataSize]byte
	Nonce    uint8
}

// New searches for a nonce, starting at 0, that makes this asset's
// identifier hash to a valid (on-curve, non-small-order) generator point.
// It fails with InvalidData if no nonce within MaxNonceSearch works, which
// is astronomically unlikely for any fixed (creator, name, metadata) triple.
func New(creator keys.PublicAddress, name [NameSize]byte, metadata [MetadataSize]byte) (Asset, primitives.AssetIdentifier, error) {
	for nonce := 0; nonce < MaxNonceSearch; nonce++ {
		a := Asset{Creator: creator, Name: name, Metadata: metadata, Nonce: uint8(nonce)}
		candidate := a.identifierBytes()
		if _, ok := jubjub.HashToPoint(candidate[:]); ok {
			return a, primitives.NewAssetIdentifier(candidate), nil
		}
	}
	return Asset{}, primitives.AssetIdentifier{}, ironerr.New(ironerr.InvalidData)
}

// Identifier recomputes this asset's 32-byte identifier from its fields; it
// does not re-run the nonce search, since Nonce is already fixed.
func (a Asset) Identifier() primitives.AssetIdentifier {
	return primitives.NewAssetIdentifier(a.identifierBytes())
}

func (a Asset) identifierBytes() [32]byte {
	h, err := blake2s.New256([]byte(padTag(identifierPersonalization)))
	if err != nil {
		panic(err) // fixed-size key, cannot fail
	}
	creatorBytes := a.Creator.Bytes()
	h.Write(creatorBytes[:])
	h.Write(a.Name[:])
	h.Write(a.Metadata[:])
	h.Write([]byte{a.Nonce})

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Bytes encodes the asset in its fixed 161-byte wire format.
func (a Asset) Bytes() [WireSize]byte {
	var out [WireSize]byte
	creatorBytes := a.Creator.Bytes()
	copy(out[0:32], creatorBytes[:])
	copy(out[32:32+NameSize], a.Name[:])
	copy(out[32+NameSize:32+NameSize+MetadataSize], a.Metadata[:])
	out[WireSize-1] = a.Nonce
	return out
}

// FromBytes decodes an asset from its fixed wire format.
func FromBytes(b [WireSize]byte) (Asset, error) {
	var creatorBytes [32]byte
	copy(creatorBytes[:], b[0:32])
	creator, err := keys.PublicAddressFromBytes(creatorBytes)
	if err != nil {
		return Asset{}, err
	}

	var a Asset
	a.Creator = creator
	copy(a.Name[:], b[32:32+NameSize])
	copy(a.Metadata[:], b[32+NameSize:32+NameSize+MetadataSize])
	a.Nonce = b[WireSize-1]
	return a, nil
}

// NameFromString truncates (or zero-pads) a UTF-8 name into the fixed field.
func NameFromString(s string) [NameSize]byte {
	var b [NameSize]byte
	copy(b[:], s)
	return b
}

// MetadataFromString truncates (or zero-pads) UTF-8 metadata into the fixed
// field.
func MetadataFromString(s string) [MetadataSize]byte {
	var b [MetadataSize]byte
	copy(b[:], s)
	return b
}

func padTag(tag string) string {
	b := make([]byte, 8)
	copy(b, tag)
	return string(b)
}
