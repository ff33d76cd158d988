package asset

import (
	"testing"

	"github.com/iron-fish/sapling-go/internal/keys"
)

func TestNewFindsValidIdentifier(t *testing.T) {
	creator, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	a, id, err := New(creator.PublicAddress(), NameFromString("Testcoin"), MetadataFromString("test metadata"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if id.Bytes() != a.Identifier().Bytes() {
		t.Fatal("returned identifier does not match Asset.Identifier()")
	}
	if _, err := id.Generator(); err != nil {
		t.Fatalf("identifier generator should resolve: %v", err)
	}
}

func TestWireRoundTrip(t *testing.T) {
	creator, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	a, _, err := New(creator.PublicAddress(), NameFromString("Roundtrip"), MetadataFromString(""))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	encoded := a.Bytes()
	decoded, err := FromBytes(encoded)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if decoded.Bytes() != encoded {
		t.Fatal("asset did not survive byte round trip")
	}
	if decoded.Identifier().Bytes() != a.Identifier().Bytes() {
		t.Fatal("decoded asset has a different identifier")
	}
}

func TestDifferentNamesYieldDifferentIdentifiers(t *testing.T) {
	creator, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	a1, id1, err := New(creator.PublicAddress(), NameFromString("CoinA"), MetadataFromString(""))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a2, id2, err := New(creator.PublicAddress(), NameFromString("CoinB"), MetadataFromString(""))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = a1
	_ = a2
	if id1.Bytes() == id2.Bytes() {
		t.Fatal("different asset names produced the same identifier")
	}
}
