package note

import (
	"testing"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
)

func newTestAddress(t *testing.T) keys.PublicAddress {
	t.Helper()
	k, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return k.PublicAddress()
}

func TestCommitmentIsDeterministic(t *testing.T) {
	owner := newTestAddress(t)
	sender := newTestAddress(t)

	n, err := New(owner, 100, MemoFromString("hi"), primitives.Native(), sender)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cm1, err := n.Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	cm2, err := n.Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	if cm1 != cm2 {
		t.Fatal("commitment is not deterministic for the same note")
	}
	if err := n.VerifyCommitment(cm1); err != nil {
		t.Fatalf("VerifyCommitment: %v", err)
	}
}

func TestCommitmentChangesWithValue(t *testing.T) {
	owner := newTestAddress(t)
	sender := newTestAddress(t)

	n1, _ := New(owner, 100, MemoFromString(""), primitives.Native(), sender)
	n2 := n1
	n2.Value = 200

	cm1, _ := n1.Commitment()
	cm2, _ := n2.Commitment()
	if cm1 == cm2 {
		t.Fatal("commitment did not change when value changed")
	}
}

func TestEncryptDecryptRoundTripOwner(t *testing.T) {
	recipient, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	sender := newTestAddress(t)

	n, err := New(recipient.PublicAddress(), 42, MemoFromString("for you"), primitives.Native(), sender)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	esk, err := jubjub.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	epk := jubjub.GPublic().ScalarMul(esk)
	dh := recipient.PublicAddress().Point.ScalarMul(esk)
	secret, err := SharedSecret(dh, epk)
	if err != nil {
		t.Fatalf("SharedSecret: %v", err)
	}

	ciphertext, err := n.Encrypt(secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	restored, err := FromOwnerEncrypted(recipient.IncomingViewKey(), secret, ciphertext)
	if err != nil {
		t.Fatalf("FromOwnerEncrypted: %v", err)
	}

	if restored.Value != n.Value {
		t.Fatalf("value mismatch: got %d want %d", restored.Value, n.Value)
	}
	if restored.Memo != n.Memo {
		t.Fatal("memo mismatch")
	}
	if restored.Sender.Bytes() != n.Sender.Bytes() {
		t.Fatal("sender mismatch")
	}
	if restored.Randomness.Bytes() != n.Randomness.Bytes() {
		t.Fatal("randomness mismatch")
	}

	restoredCm, err := restored.Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	originalCm, _ := n.Commitment()
	if restoredCm != originalCm {
		t.Fatal("restored note has a different commitment than the original")
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	recipient, _ := keys.GenerateKey()
	sender := newTestAddress(t)
	n, _ := New(recipient.PublicAddress(), 7, MemoFromString(""), primitives.Native(), sender)

	var secret [32]byte
	copy(secret[:], []byte("0123456789abcdef0123456789abcdef"))

	ciphertext, err := n.Encrypt(secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	ciphertext[0] ^= 0xff

	if _, err := FromOwnerEncrypted(recipient.IncomingViewKey(), secret, ciphertext); err == nil {
		t.Fatal("expected InvalidDecryption for tampered ciphertext")
	}
}
