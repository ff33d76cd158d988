package descriptions

import (
	"testing"

	"github.com/iron-fish/sapling-go/asset"
	"github.com/iron-fish/sapling-go/circuits"
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
)

func TestBurnDescriptionRoundTrips(t *testing.T) {
	var assetBytes [32]byte
	for i := range assetBytes {
		assetBytes[i] = byte(i + 1)
	}
	id := primitives.NewAssetIdentifier(assetBytes)
	burn := NewBurnDescription(id, 12345)

	encoded := burn.Bytes()
	if encoded != burn.SignatureBytes() {
		t.Fatal("BurnDescription.SignatureBytes should alias Bytes")
	}

	decoded := BurnDescriptionFromBytes(encoded)
	if decoded.Value != burn.Value {
		t.Fatalf("value mismatch: got %d, want %d", decoded.Value, burn.Value)
	}
	if decoded.AssetID.Bytes() != id.Bytes() {
		t.Fatal("asset identifier mismatch after round trip")
	}
}

func TestSigningMessageLayout(t *testing.T) {
	rk := jubjub.GSpend().ScalarMul(jubjub.ScalarFromUint64(9))
	var sigHash [32]byte
	for i := range sigHash {
		sigHash[i] = byte(200 + i)
	}

	msg := signingMessage(rk, sigHash)
	if len(msg) != 64 {
		t.Fatalf("signing message should be 64 bytes, got %d", len(msg))
	}
	rkBytes := rk.CompressedBytes()
	if [32]byte(msg[:32]) != rkBytes {
		t.Fatal("first 32 bytes of signing message must be rk's compressed form")
	}
	if [32]byte(msg[32:]) != sigHash {
		t.Fatal("last 32 bytes of signing message must be the signature hash")
	}
}

func TestNewRandomizedKeyProducesDistinctAlphaEachCall(t *testing.T) {
	ak := jubjub.GSpend().ScalarMul(jubjub.ScalarFromUint64(3))

	a, err := NewRandomizedKey(ak)
	if err != nil {
		t.Fatalf("NewRandomizedKey: %v", err)
	}
	b, err := NewRandomizedKey(ak)
	if err != nil {
		t.Fatalf("NewRandomizedKey: %v", err)
	}
	if a.Alpha.BigInt().Cmp(b.Alpha.BigInt()) == 0 {
		t.Fatal("two independent calls produced the same alpha")
	}
	if a.Rk.Equal(b.Rk) {
		t.Fatal("two independent calls produced the same rk")
	}

	expectedRk := ak.Add(jubjub.GSpend().ScalarMul(a.Alpha))
	if !expectedRk.Equal(a.Rk) {
		t.Fatal("rk does not equal ak + alpha*G_spend")
	}
}

func TestMintSignatureBytesSizeWithAndWithoutOwnerTransfer(t *testing.T) {
	creator, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	recipient, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	var name [asset.NameSize]byte
	copy(name[:], "test-asset")
	var metadata [asset.MetadataSize]byte
	a, _, err := asset.New(creator.PublicAddress(), name, metadata)
	if err != nil {
		t.Fatalf("asset.New: %v", err)
	}

	cv := jubjub.GRandomness().ScalarMul(jubjub.ScalarFromUint64(5))
	proof := &circuits.ProofData{Kind: circuits.KindMint, Proof: make([]byte, 192)}

	withoutTransfer := &UnsignedMintDescription{ProofData: proof, Asset: a, Value: 10, Cv: cv}
	if got := len(withoutTransfer.SignatureBytes()); got != MintSignatureBytesSize {
		t.Fatalf("expected %d bytes without owner transfer, got %d", MintSignatureBytesSize, got)
	}

	owner := recipient.PublicAddress()
	withTransfer := &UnsignedMintDescription{ProofData: proof, Asset: a, Value: 10, Cv: cv, NewOwner: &owner}
	if got := len(withTransfer.SignatureBytes()); got != MintSignatureBytesSize+32 {
		t.Fatalf("expected %d bytes with owner transfer, got %d", MintSignatureBytesSize+32, got)
	}
}
