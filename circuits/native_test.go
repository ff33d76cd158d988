package circuits

import (
	"math/big"
	"testing"

	bls12_381fr "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/iron-fish/sapling-go/internal/jubjub"
)

func jubjubGenPoint(t *testing.T, seed uint64) jubjub.Point {
	t.Helper()
	return jubjub.GSpend().ScalarMul(jubjub.ScalarFromUint64(seed))
}

func TestSplitFieldElementRoundTrips(t *testing.T) {
	var v bls12_381fr.Element
	v.SetUint64(0x0102030405060708)

	high, low := SplitFieldElement(v)

	modBits := bls12_381fr.Modulus().BitLen()
	mid := modBits / 2

	reconstructed := new(big.Int).Lsh(FieldToBigInt(high), uint(mid))
	reconstructed.Add(reconstructed, FieldToBigInt(low))

	if reconstructed.Cmp(FieldToBigInt(v)) != 0 {
		t.Fatalf("split/reassemble mismatch: got %s, want %s", reconstructed, FieldToBigInt(v))
	}
}

func TestSplitFieldElementZero(t *testing.T) {
	var zero bls12_381fr.Element
	high, low := SplitFieldElement(zero)
	if FieldToBigInt(high).Sign() != 0 || FieldToBigInt(low).Sign() != 0 {
		t.Fatalf("splitting zero should yield zero halves, got high=%s low=%s", FieldToBigInt(high), FieldToBigInt(low))
	}
}

func TestBytesToFieldBigIntDeterministic(t *testing.T) {
	var b [32]byte
	for i := range b {
		b[i] = byte(i)
	}
	a := BytesToFieldBigInt(b)
	c := BytesToFieldBigInt(b)
	if a.Cmp(c) != 0 {
		t.Fatal("BytesToFieldBigInt is not deterministic for identical input")
	}
}

func TestNativeIvkMatchesAcrossCalls(t *testing.T) {
	ak := jubjubGenPoint(t, 7)
	nk := jubjubGenPoint(t, 11)

	a, err := NativeIvk(ak, nk)
	if err != nil {
		t.Fatalf("NativeIvk: %v", err)
	}
	b, err := NativeIvk(ak, nk)
	if err != nil {
		t.Fatalf("NativeIvk: %v", err)
	}
	if !a.Equal(&b) {
		t.Fatal("NativeIvk is not deterministic for identical inputs")
	}

	other, err := NativeIvk(nk, ak)
	if err != nil {
		t.Fatalf("NativeIvk: %v", err)
	}
	if a.Equal(&other) {
		t.Fatal("NativeIvk should depend on argument order")
	}
}
