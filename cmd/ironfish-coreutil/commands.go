package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/note"
	"github.com/iron-fish/sapling-go/params"
	"github.com/iron-fish/sapling-go/transaction"
	"github.com/iron-fish/sapling-go/witness"
)

func cmdGenKey(args []string) error {
	key, err := keys.GenerateKey()
	if err != nil {
		return err
	}
	return printKey(key)
}

func cmdAddress(args []string) error {
	fs, seedHex := parseSeedFlag("address", args)
	if err := fs.Parse(args); err != nil {
		return err
	}
	key, err := keyFromSeedHex(*seedHex)
	if err != nil {
		return err
	}
	addr := key.PublicAddress().Bytes()
	fmt.Printf("address:  %s\n", hex.EncodeToString(addr[:]))
	return nil
}

func cmdWords(args []string) error {
	fs, seedHex := parseSeedFlag("words", args)
	language := fs.String("language", "english", "mnemonic language")
	if err := fs.Parse(args); err != nil {
		return err
	}
	key, err := keyFromSeedHex(*seedHex)
	if err != nil {
		return err
	}
	words, err := key.ToWords(*language)
	if err != nil {
		return err
	}
	fmt.Println(words)
	return nil
}

func keyFromSeedHex(seedHex string) (*keys.SaplingKey, error) {
	b, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decoding --seed: %w", err)
	}
	return keys.FromBytes(b)
}

func printKey(key *keys.SaplingKey) error {
	addr := key.PublicAddress().Bytes()
	words, err := key.ToWords("english")
	if err != nil {
		return err
	}
	fmt.Printf("seed:     %s\n", hex.EncodeToString(key.SpendingKey[:]))
	fmt.Printf("address:  %s\n", hex.EncodeToString(addr[:]))
	fmt.Printf("mnemonic: %s\n", words)
	return nil
}

// cmdDemo runs spec.md's scenario 1 (single-asset transfer) end to end
// against a locally generated, insecure circuit setup: it is meant to show
// the shape of the API, not to stand in for a real proving-parameter
// ceremony (see params.LocalSetup).
func cmdDemo(ctx context.Context, args []string) error {
	fmt.Println("compiling Spend/Output/Mint circuits and running local (insecure) Groth16 setup...")
	_, manager, err := params.LocalSetup()
	if err != nil {
		return fmt.Errorf("local circuit setup: %w", err)
	}

	spender, err := keys.GenerateKey()
	if err != nil {
		return err
	}
	receiver, err := keys.GenerateKey()
	if err != nil {
		return err
	}

	tree := witness.NewCommitmentTree()
	inputNote, err := note.New(spender.PublicAddress(), 42, note.Memo{}, primitives.Native(), spender.PublicAddress())
	if err != nil {
		return err
	}
	inputCommitment, err := inputNote.Commitment()
	if err != nil {
		return err
	}
	position, err := tree.Add(ctx, inputCommitment)
	if err != nil {
		return err
	}
	w, err := tree.WitnessFor(position)
	if err != nil {
		return err
	}

	outputNote, err := note.New(receiver.PublicAddress(), 40, note.Memo{}, primitives.Native(), spender.PublicAddress())
	if err != nil {
		return err
	}

	builder := transaction.NewBuilder()
	if err := builder.AddSpend(inputNote, w); err != nil {
		return err
	}
	if err := builder.AddOutput(outputNote); err != nil {
		return err
	}

	fmt.Println("proving spend and output descriptions (this takes real wall-clock time)...")
	unsigned, err := builder.Build(ctx, manager, spender, 1)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	tx, err := unsigned.Sign(spender)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	if err := transaction.VerifyTransaction(ctx, manager, tx); err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	encoded, err := tx.Bytes()
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	decoded, err := transaction.FromBytes(encoded)
	if err != nil {
		return fmt.Errorf("deserialize: %w", err)
	}
	if err := transaction.VerifyTransaction(ctx, manager, decoded); err != nil {
		return fmt.Errorf("verify round-tripped transaction: %w", err)
	}

	fmt.Printf("ok: %d spend(s), %d output(s) (1 change note), fee 1, %d wire bytes\n",
		len(tx.Spends), len(tx.Outputs), len(encoded))
	return nil
}
