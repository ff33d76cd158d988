package transaction

import (
	"bytes"
	"context"
	"testing"

	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/ironerr"
	"github.com/iron-fish/sapling-go/note"
	"github.com/iron-fish/sapling-go/params"
	"github.com/iron-fish/sapling-go/witness"
)

// TestTransactionSerializationRoundTrips builds and signs a real transaction,
// writes it, reads it back, and checks the two encodings agree byte-for-byte
// (spec §8's "Transaction::read(tx.write()) == tx" property).
func TestTransactionSerializationRoundTrips(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping circuit setup/prove/verify in short mode")
	}

	ctx := context.Background()
	_, manager, err := params.LocalSetup()
	if err != nil {
		t.Fatalf("LocalSetup: %v", err)
	}

	spender, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	receiver, err := keys.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	tree := witness.NewCommitmentTree()
	inputNote, err := note.New(spender.PublicAddress(), 42, note.Memo{}, primitives.Native(), spender.PublicAddress())
	if err != nil {
		t.Fatalf("note.New (input): %v", err)
	}
	inputCommitment, err := inputNote.Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	position, err := tree.Add(ctx, inputCommitment)
	if err != nil {
		t.Fatalf("tree.Add: %v", err)
	}
	w, err := tree.WitnessFor(position)
	if err != nil {
		t.Fatalf("WitnessFor: %v", err)
	}

	outputNote, err := note.New(receiver.PublicAddress(), 40, note.Memo{}, primitives.Native(), spender.PublicAddress())
	if err != nil {
		t.Fatalf("note.New (output): %v", err)
	}

	builder := NewBuilder()
	if err := builder.AddSpend(inputNote, w); err != nil {
		t.Fatalf("AddSpend: %v", err)
	}
	if err := builder.AddOutput(outputNote); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	unsigned, err := builder.Build(ctx, manager, spender, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tx, err := unsigned.Sign(spender)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if err := VerifyTransaction(ctx, manager, tx); err != nil {
		t.Fatalf("VerifyTransaction on original: %v", err)
	}

	encoded, err := tx.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	decoded, err := FromBytes(encoded)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}

	reencoded, err := decoded.Bytes()
	if err != nil {
		t.Fatalf("Bytes on decoded: %v", err)
	}
	if !bytes.Equal(encoded, reencoded) {
		t.Fatal("transaction did not round-trip byte-for-byte")
	}

	if err := VerifyTransaction(ctx, manager, decoded); err != nil {
		t.Fatalf("VerifyTransaction on round-tripped transaction: %v", err)
	}
}

// TestTransactionRejectsUnknownVersionByte checks spec §8's version
// enforcement property: any version byte outside {1, 2} is
// InvalidTransactionVersion, not best-effort parsed.
func TestTransactionRejectsUnknownVersionByte(t *testing.T) {
	buf := make([]byte, 1+8+8+8+8+8+4+32+64)
	buf[0] = 0x07 // not 1 or 2

	_, err := FromBytes(buf)
	if err == nil {
		t.Fatal("expected FromBytes to reject an unknown version byte")
	}
	ferr, ok := err.(*ironerr.Error)
	if !ok {
		t.Fatalf("expected *ironerr.Error, got %T", err)
	}
	if ferr.Kind != ironerr.InvalidTransactionVersion {
		t.Fatalf("expected InvalidTransactionVersion, got %v", ferr.Kind)
	}
}

// TestTransactionRejectsTrailingBytes checks that deserialization is strict:
// every trailing byte must be consumed or accounted for.
func TestTransactionRejectsTrailingBytes(t *testing.T) {
	buf := make([]byte, 1+8+8+8+8+8+4+32+64)
	buf[0] = 0x01
	buf = append(buf, 0xff)

	if _, err := FromBytes(buf); err == nil {
		t.Fatal("expected FromBytes to reject trailing bytes")
	}
}
