// Package primitives implements the scalar/point wrappers, value
// commitments, nullifiers, and asset identifiers shared across the
// transaction core.
package primitives

import (
	"sync"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// AssetIdentifier is an opaque 32-byte tag identifying a custom asset (or
// the native asset). Its generator point is expensive to derive (a
// rejection-sampling hash-to-curve) so it is cached on first use.
type AssetIdentifier struct {
	bytes [32]byte

	mu    sync.Mutex
	gen   jubjub.Point
	ready bool
}

// NativeIdentifierBytes is the fixed, hard-coded identifier for Iron Fish's
// native asset.
var NativeIdentifierBytes = [32]byte{
	0x49, 0x72, 0x6f, 0x6e, 0x20, 0x46, 0x69, 0x73,
	0x68, 0x20, 0x6e, 0x61, 0x74, 0x69, 0x76, 0x65,
	0x20, 0x61, 0x73, 0x73, 0x65, 0x74, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
}

// Native returns the AssetIdentifier for Iron Fish's native asset.
func Native() AssetIdentifier {
	return NewAssetIdentifier(NativeIdentifierBytes)
}

func NewAssetIdentifier(b [32]byte) AssetIdentifier {
	return AssetIdentifier{bytes: b}
}

func (a AssetIdentifier) Bytes() [32]byte { return a.bytes }

func (a AssetIdentifier) IsNative() bool {
	return a.bytes == NativeIdentifierBytes
}

// Generator performs (and caches) the hash-to-curve that turns this 32-byte
// tag into the Jubjub generator used in value commitments for this asset.
// The Output circuit does not recompute this point; it uses a MiMC
// stand-in generator (see jubjub.AssetGenerator).
func (a *AssetIdentifier) Generator() (jubjub.Point, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return a.gen, nil
	}
	if a.IsNative() {
		a.gen = jubjub.NativeAssetGenerator()
		a.ready = true
		return a.gen, nil
	}
	pt, err := jubjub.AssetGenerator(a.bytes)
	if err != nil {
		return jubjub.Point{}, ironerr.Wrap(ironerr.InvalidData, err)
	}
	a.gen = pt
	a.ready = true
	return a.gen, nil
}
