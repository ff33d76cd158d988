package redjubjub

import (
	"testing"

	"github.com/iron-fish/sapling-go/internal/jubjub"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, err := jubjub.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	generator := jubjub.GSpend()
	publicKey := generator.ScalarMul(sk)

	msg := []byte("iron fish spend authorization")
	sig, err := Sign(sk, generator, msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(publicKey, generator, msg, sig) {
		t.Fatal("signature did not verify against matching key and message")
	}
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	sk, _ := jubjub.RandomScalar()
	generator := jubjub.GSpend()
	publicKey := generator.ScalarMul(sk)

	sig, err := Sign(sk, generator, []byte("original"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if Verify(publicKey, generator, []byte("tampered"), sig) {
		t.Fatal("signature verified against a different message")
	}
}

func TestSignatureBytesRoundTrip(t *testing.T) {
	sk, _ := jubjub.RandomScalar()
	generator := jubjub.GSpend()
	sig, err := Sign(sk, generator, []byte("round trip"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	decoded, err := FromBytes(sig.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !decoded.R.Equal(sig.R) || decoded.S.Bytes() != sig.S.Bytes() {
		t.Fatal("signature did not survive byte round trip")
	}
}

func TestRandomizedKeyStillVerifies(t *testing.T) {
	ask, _ := jubjub.RandomScalar()
	generator := jubjub.GSpend()
	ak := generator.ScalarMul(ask)

	alpha, err := RandomAlpha()
	if err != nil {
		t.Fatalf("RandomAlpha: %v", err)
	}
	rsk := RandomizePrivate(ask, alpha)
	rk := RandomizePublic(ak, generator, alpha)

	msg := []byte("spend signature hash")
	sig, err := Sign(rsk, generator, msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(rk, generator, msg, sig) {
		t.Fatal("signature under randomized key did not verify against randomized public key")
	}
}
