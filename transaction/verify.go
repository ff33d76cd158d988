package transaction

import (
	"context"

	"github.com/iron-fish/sapling-go/circuits"
	"github.com/iron-fish/sapling-go/descriptions"
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// VerifyTransaction verifies a single transaction; it is defined as batch
// verification of a one-element batch.
func VerifyTransaction(ctx context.Context, manager *circuits.Manager, tx *Transaction) error {
	return BatchVerifyTransactions(ctx, manager, []*Transaction{tx})
}

// BatchVerifyTransactions verifies a batch of transactions: recomputes each
// signature_hash and bvk, checks the binding signature, checks every spend's
// authorizing signature, runs the fast rolling-filter nullifier-collision
// pre-check (a hint, never itself a failure), and proof-verifies every
// spend/output/mint. It returns the first failure's error kind.
func BatchVerifyTransactions(ctx context.Context, manager *circuits.Manager, txs []*Transaction) error {
	var allNullifiers [][32]byte

	for _, tx := range txs {
		if err := verifySingle(ctx, manager, tx); err != nil {
			return err
		}
		for _, s := range tx.Spends {
			allNullifiers = append(allNullifiers, [32]byte(s.Nullifier))
		}
	}

	// A collision here is only a cue to fall through to the authoritative,
	// consensus-level double-spend guard; it is never itself a verification
	// failure for this batch (see dedupeNullifiers).
	dedupeNullifiers(allNullifiers)

	return nil
}

func verifySingle(ctx context.Context, manager *circuits.Manager, tx *Transaction) error {
	unsignedSpends := make([]descriptions.UnsignedSpendDescription, len(tx.Spends))
	for i, s := range tx.Spends {
		unsignedSpends[i] = s.UnsignedSpendDescription
	}
	unsignedMints := make([]descriptions.UnsignedMintDescription, len(tx.Mints))
	for i, m := range tx.Mints {
		unsignedMints[i] = m.UnsignedMintDescription
	}

	sigHash := signatureHash(tx.TransactionVersion, tx.Expiration, tx.Fee, tx.Rk, unsignedSpends, tx.Outputs, unsignedMints, tx.Burns)

	_, bvk := accumulateBindingKeysFromTransaction(tx, unsignedSpends, unsignedMints)
	msg := bindingMessage(bvk, sigHash)
	if !redjubjub.Verify(bvk, jubjub.GRandomness(), msg, tx.BindingSignature) {
		return ironerr.New(ironerr.InvalidBindingSignature)
	}

	for _, s := range tx.Spends {
		if err := redjubjub.RejectSmallOrder(s.Cv); err != nil {
			return err
		}
		if !s.VerifySignature(tx.Rk, sigHash) {
			return ironerr.New(ironerr.InvalidSpendSignature)
		}
		if err := manager.VerifyProof(ctx, s.ProofData); err != nil {
			return err
		}
	}
	for _, o := range tx.Outputs {
		if err := redjubjub.RejectSmallOrder(o.MerkleNote.ValueCommitment); err != nil {
			return err
		}
		if err := manager.VerifyProof(ctx, o.ProofData); err != nil {
			return err
		}
	}
	for _, m := range tx.Mints {
		if err := redjubjub.RejectSmallOrder(m.Cv); err != nil {
			return err
		}
		if !m.VerifySignature(tx.Rk, sigHash) {
			return ironerr.New(ironerr.InvalidSpendSignature)
		}
		if err := manager.VerifyProof(ctx, m.ProofData); err != nil {
			return err
		}
	}

	return nil
}

// accumulateBindingKeysFromTransaction re-derives bvk the same way
// accumulateBindingKeys does at build time, from the public value
// commitments, mint/burn values and fee of the already-signed transaction.
// The returned scalar is always zero: bsk is not recoverable from a signed
// transaction, and isn't needed here, since only bvk is checked against the
// binding signature.
func accumulateBindingKeysFromTransaction(tx *Transaction, spends []descriptions.UnsignedSpendDescription, mints []descriptions.UnsignedMintDescription) (jubjub.Scalar, jubjub.Point) {
	bvk := jubjub.Identity()

	for _, s := range spends {
		bvk = bvk.Add(s.Cv)
	}
	for _, o := range tx.Outputs {
		bvk = bvk.Add(o.MerkleNote.ValueCommitment.Neg())
	}
	for _, m := range mints {
		assetGen, err := m.Asset.Identifier().Generator()
		if err != nil {
			continue
		}
		bvk = bvk.Add(assetGen.ScalarMul(valueScalar(m.Value)).Neg())
	}
	for _, bn := range tx.Burns {
		assetGen, err := bn.AssetID.Generator()
		if err != nil {
			continue
		}
		bvk = bvk.Add(assetGen.ScalarMul(valueScalar(bn.Value)))
	}

	nativeGen := jubjub.NativeAssetGenerator()
	feeTerm := nativeGen.ScalarMul(signedValueScalar(tx.Fee))
	bvk = bvk.Add(feeTerm.Neg())

	return jubjub.Scalar{}, bvk
}
