package keys

import "testing"

func TestGenerateKeyDerivesConsistentViewKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	vk := key.ViewKey()
	ivk, err := vk.IncomingViewKey()
	if err != nil {
		t.Fatalf("ViewKey.IncomingViewKey: %v", err)
	}
	if ivk.Scalar().Bytes() != key.IncomingViewKey().Scalar().Bytes() {
		t.Fatal("view key's derived incoming view key does not match the sapling key's own")
	}

	if key.PublicAddress().Bytes() != ivk.PublicAddress().Bytes() {
		t.Fatal("public address mismatch between SaplingKey and its ViewKey")
	}
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	if _, err := FromBytes(make([]byte, 16)); err == nil {
		t.Fatal("expected error for short seed")
	}
	if _, err := FromBytes(make([]byte, 33)); err == nil {
		t.Fatal("expected error for long seed")
	}
}

func TestFromBytesIsDeterministic(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i)
	}
	k1, err := FromBytes(seed[:])
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	k2, err := FromBytes(seed[:])
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if k1.PublicAddress().Bytes() != k2.PublicAddress().Bytes() {
		t.Fatal("same seed produced different public addresses")
	}
}

func TestPublicAddressRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	addrBytes := key.PublicAddress().Bytes()
	addr, err := PublicAddressFromBytes(addrBytes)
	if err != nil {
		t.Fatalf("PublicAddressFromBytes: %v", err)
	}
	if addr.Bytes() != addrBytes {
		t.Fatal("public address did not survive byte round trip")
	}
}

func TestMnemonicRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	words, err := key.ToWords("english")
	if err != nil {
		t.Fatalf("ToWords: %v", err)
	}
	recovered, err := FromWords(words, "english")
	if err != nil {
		t.Fatalf("FromWords: %v", err)
	}
	if recovered.PublicAddress().Bytes() != key.PublicAddress().Bytes() {
		t.Fatal("key recovered from mnemonic does not match original")
	}
}

func TestMnemonicRejectsUnknownLanguage(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if _, err := key.ToWords("klingon"); err == nil {
		t.Fatal("expected InvalidLanguage error")
	}
}

func TestMessageSignatureRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ivk := key.IncomingViewKey()
	msg := []byte("prove I control this address")
	sig, err := ivk.SignMessage(msg)
	if err != nil {
		t.Fatalf("SignMessage: %v", err)
	}
	if !ivk.VerifyMessage(msg, sig) {
		t.Fatal("message signature did not verify")
	}
	if ivk.VerifyMessage([]byte("different message"), sig) {
		t.Fatal("message signature verified against a different message")
	}
}

func TestMessageSignatureWireFormat(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ivk := key.IncomingViewKey()
	msg := []byte("prove I control this address")
	sig, err := ivk.SignMessage(msg)
	if err != nil {
		t.Fatalf("SignMessage: %v", err)
	}

	encoded := MessageSignatureBytes(sig)
	if encoded[0] != 0xa7 {
		t.Fatalf("expected version byte 0xa7, got 0x%x", encoded[0])
	}

	decoded, err := MessageSignatureFromBytes(encoded)
	if err != nil {
		t.Fatalf("MessageSignatureFromBytes: %v", err)
	}
	if !ivk.VerifyMessage(msg, decoded) {
		t.Fatal("decoded message signature did not verify")
	}

	encoded[0] = 0x01
	if _, err := MessageSignatureFromBytes(encoded); err == nil {
		t.Fatal("expected an unsupported version byte to be rejected")
	}
}
