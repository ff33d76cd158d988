package transaction

import (
	"context"
	"testing"

	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/note"
	"github.com/iron-fish/sapling-go/params"
	"github.com/iron-fish/sapling-go/witness"
)

// TestBuildSignVerifyRoundTrip exercises the single-asset-transfer scenario
// end to end: one spend, one change output, Groth16 proving against a local
// (insecure) setup, signing, and full verification. This is the same shape
// cmd/ironfish-coreutil's demo command runs, kept here as a fast-running
// regression check (skipped in short mode, since Groth16 setup compiles and
// runs the trusted setup for all three circuits).
func TestBuildSignVerifyRoundTrip(t *testing.T) {
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
	if len(unsigned.Outputs) != 2 {
		t.Fatalf("expected 2 outputs (1 explicit + 1 change), got %d", len(unsigned.Outputs))
	}

	tx, err := unsigned.Sign(spender)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if err := VerifyTransaction(ctx, manager, tx); err != nil {
		t.Fatalf("VerifyTransaction: %v", err)
	}
}

// TestBuildRejectsUnbalancedTransaction checks that a builder spending less
// than it outputs (plus fee) fails at Build time with InvalidBalance, rather
// than producing a transaction whose binding signature silently fails later.
func TestBuildRejectsUnbalancedTransaction(t *testing.T) {
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

	tree := witness.NewCommitmentTree()
	inputNote, err := note.New(spender.PublicAddress(), 10, note.Memo{}, primitives.Native(), spender.PublicAddress())
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

	outputNote, err := note.New(spender.PublicAddress(), 100, note.Memo{}, primitives.Native(), spender.PublicAddress())
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

	if _, err := builder.Build(ctx, manager, spender, 0); err == nil {
		t.Fatal("expected Build to reject a transaction spending less than it outputs")
	}
}
