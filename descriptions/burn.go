package descriptions

import (
	"encoding/binary"

	"github.com/iron-fish/sapling-go/internal/primitives"
)

// BurnDescriptionSize is the fixed wire size of a burn description:
// asset_id (32) ∥ value_le64 (8). A burn carries no proof and no
// authorizing signature — it destroys value under a known asset generator,
// which the binding signature alone accounts for.
const BurnDescriptionSize = 32 + 8

// BurnDescription permanently destroys value of a known asset. There is no
// proof to build and nothing to sign: a burn only needs its two public
// fields, verified solely by the transaction's binding signature balancing
// cv's homomorphically against it.
type BurnDescription struct {
	AssetID primitives.AssetIdentifier
	Value   uint64
}

// NewBurnDescription builds a burn of value units of the given asset.
func NewBurnDescription(assetID primitives.AssetIdentifier, value uint64) BurnDescription {
	return BurnDescription{AssetID: assetID, Value: value}
}

// Bytes encodes the burn description. This is also its entire
// signature_hash contribution, since burns carry no signature of their own.
func (b BurnDescription) Bytes() [BurnDescriptionSize]byte {
	var out [BurnDescriptionSize]byte
	idBytes := b.AssetID.Bytes()
	copy(out[0:32], idBytes[:])
	binary.LittleEndian.PutUint64(out[32:40], b.Value)
	return out
}

// SignatureBytes is an alias for Bytes, named to match the other
// description types' signature-hash-contribution accessor.
func (b BurnDescription) SignatureBytes() [BurnDescriptionSize]byte {
	return b.Bytes()
}

// BurnDescriptionFromBytes decodes a burn description from its fixed wire
// format.
func BurnDescriptionFromBytes(b [BurnDescriptionSize]byte) BurnDescription {
	var idBytes [32]byte
	copy(idBytes[:], b[0:32])
	value := binary.LittleEndian.Uint64(b[32:40])
	return BurnDescription{
		AssetID: primitives.NewAssetIdentifier(idBytes),
		Value:   value,
	}
}
