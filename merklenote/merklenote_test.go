package merklenote

import (
	"testing"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/note"
)

func TestOwnerAndSpenderDecryptAgree(t *testing.T) {
	spender, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey spender: %v", err)
	}
	recipient, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey recipient: %v", err)
	}

	n, err := note.New(recipient.PublicAddress(), 17, note.MemoFromString("payment"), primitives.Native(), spender.PublicAddress())
	if err != nil {
		t.Fatalf("note.New: %v", err)
	}

	nativeAsset := primitives.Native()
	assetGen, err := nativeAsset.Generator()
	if err != nil {
		t.Fatalf("Generator: %v", err)
	}
	vc, err := primitives.NewValueCommitment(17, assetGen)
	if err != nil {
		t.Fatalf("NewValueCommitment: %v", err)
	}

	esk, err := jubjub.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}

	mn, err := New(spender, n, vc, esk)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ownerNote, err := mn.DecryptForOwner(recipient.IncomingViewKey())
	if err != nil {
		t.Fatalf("DecryptForOwner: %v", err)
	}
	if ownerNote.Value != 17 {
		t.Fatalf("owner decrypt: value = %d, want 17", ownerNote.Value)
	}

	spenderNote, err := mn.DecryptForSpender(spender.OutgoingViewKey)
	if err != nil {
		t.Fatalf("DecryptForSpender: %v", err)
	}
	if spenderNote.Value != 17 {
		t.Fatalf("spender decrypt: value = %d, want 17", spenderNote.Value)
	}
	if spenderNote.Owner.Bytes() != recipient.PublicAddress().Bytes() {
		t.Fatal("spender-decrypted note has the wrong owner")
	}
}

func TestMinersFeeUsesFixedEncryptionKeys(t *testing.T) {
	recipient, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	n, err := note.New(recipient.PublicAddress(), 0, note.MemoFromString(""), primitives.Native(), recipient.PublicAddress())
	if err != nil {
		t.Fatalf("note.New: %v", err)
	}

	nativeAsset := primitives.Native()
	assetGen, _ := nativeAsset.Generator()
	vc, err := primitives.NewValueCommitment(0, assetGen)
	if err != nil {
		t.Fatalf("NewValueCommitment: %v", err)
	}
	esk, err := jubjub.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}

	mn, err := NewForMinersFee(n, vc, esk)
	if err != nil {
		t.Fatalf("NewForMinersFee: %v", err)
	}
	if mn.NoteEncryptionKeys != minerKeys {
		t.Fatal("miner's-fee MerkleNote did not use the fixed note_encryption_keys constant")
	}
}
