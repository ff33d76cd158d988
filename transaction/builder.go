package transaction

import (
	"context"

	"github.com/iron-fish/sapling-go/asset"
	"github.com/iron-fish/sapling-go/circuits"
	"github.com/iron-fish/sapling-go/descriptions"
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
	"github.com/iron-fish/sapling-go/ironerr"
	"github.com/iron-fish/sapling-go/note"
	"github.com/iron-fish/sapling-go/witness"
)

// Builder accumulates spend, output, mint, and burn descriptions and the
// per-asset value ledger, in the order they were added — that order
// becomes part of the signed signature_hash, so it must be preserved
// rather than, say, sorted for convenience.
type Builder struct {
	version Version

	spends  []*descriptions.SpendBuilder
	outputs []*descriptions.OutputBuilder
	mints   []*descriptions.MintBuilder
	burns   []descriptions.BurnDescription

	balances   map[[32]byte]int64
	assetByID  map[[32]byte]primitives.AssetIdentifier
	expiration uint32
	minersFee  bool
}

// NewBuilder starts a version-1 transaction builder.
func NewBuilder() *Builder {
	return newBuilder(Version1)
}

// NewBuilderVersion2 starts a builder whose mints may carry an owner
// transfer (version-2 format).
func NewBuilderVersion2() *Builder {
	return newBuilder(Version2)
}

func newBuilder(v Version) *Builder {
	return &Builder{
		version:   v,
		balances:  make(map[[32]byte]int64),
		assetByID: make(map[[32]byte]primitives.AssetIdentifier),
	}
}

func (b *Builder) credit(id primitives.AssetIdentifier, delta int64) {
	key := id.Bytes()
	b.assetByID[key] = id
	b.balances[key] += delta
}

// AddSpend records a note being destroyed, updating its asset's balance
// upward by the note's value.
func (b *Builder) AddSpend(n note.Note, w witness.Witness) error {
	sb, err := descriptions.NewSpendBuilder(n, w)
	if err != nil {
		return err
	}
	b.spends = append(b.spends, sb)
	b.credit(n.AssetID, int64(n.Value))
	return nil
}

// AddOutput records a new note being created, updating its asset's balance
// downward by the note's value.
func (b *Builder) AddOutput(n note.Note) error {
	ob, err := descriptions.NewOutputBuilder(n)
	if err != nil {
		return err
	}
	b.outputs = append(b.outputs, ob)
	b.credit(n.AssetID, -int64(n.Value))
	return nil
}

// AddMint records an asset issuance, updating the issued asset's balance
// upward by value.
func (b *Builder) AddMint(a asset.Asset, value uint64) error {
	mb, err := descriptions.NewMintBuilder(a, value)
	if err != nil {
		return err
	}
	b.mints = append(b.mints, mb)
	b.credit(a.Identifier(), int64(value))
	return nil
}

// AddMintWithOwnerTransfer is the version-2 mint path, transferring future
// minting rights for a to newOwner in the same description.
func (b *Builder) AddMintWithOwnerTransfer(a asset.Asset, value uint64, newOwner keys.PublicAddress) error {
	if b.version != Version2 {
		return ironerr.New(ironerr.InvalidTransactionVersion)
	}
	mb, err := descriptions.NewMintBuilderWithOwnerTransfer(a, value, newOwner)
	if err != nil {
		return err
	}
	b.mints = append(b.mints, mb)
	b.credit(a.Identifier(), int64(value))
	return nil
}

// AddBurn records value of an existing asset being destroyed, updating its
// balance downward.
func (b *Builder) AddBurn(assetID primitives.AssetIdentifier, value uint64) {
	b.burns = append(b.burns, descriptions.NewBurnDescription(assetID, value))
	b.credit(assetID, -int64(value))
}

// SetExpiration sets the block height after which this transaction can no
// longer be included; zero means never.
func (b *Builder) SetExpiration(expiration uint32) {
	b.expiration = expiration
}

// markMinersFee flags this builder as building a miner's-fee transaction,
// used only by BuildMinersFee below to select the alternate change/fee
// rules a miner's-fee transaction follows.
func (b *Builder) markMinersFee() {
	b.minersFee = true
}

// Build runs the finalize protocol: derive rk, synthesize change outputs,
// prove every description, compute and verify the binding signature, and
// return an UnsignedTransaction. fee is the declared transaction fee in the
// native asset; spender is both the signer whose descriptions are proven
// here and, for ordinary (non-miner's-fee) transactions, the recipient of
// any change.
func (b *Builder) Build(ctx context.Context, manager *circuits.Manager, spender *keys.SaplingKey, fee int64) (*UnsignedTransaction, error) {
	rk, err := descriptions.NewRandomizedKey(spender.AuthorizingKey)
	if err != nil {
		return nil, err
	}

	if b.minersFee {
		if len(b.spends) != 0 || len(b.mints) != 0 || len(b.burns) != 0 || len(b.outputs) != 1 {
			return nil, ironerr.New(ironerr.InvalidMinersFeeTransaction)
		}
	} else {
		if err := b.synthesizeChangeOutputs(spender, fee); err != nil {
			return nil, err
		}
	}

	unsignedSpends := make([]descriptions.UnsignedSpendDescription, 0, len(b.spends))
	spendRandomness := make([]jubjub.Scalar, 0, len(b.spends))
	for _, sb := range b.spends {
		d, err := sb.Build(ctx, manager, spender, rk)
		if err != nil {
			return nil, err
		}
		unsignedSpends = append(unsignedSpends, *d)
		spendRandomness = append(spendRandomness, sb.ValueCommitmentRandomness())
	}

	unsignedOutputs := make([]descriptions.UnsignedOutputDescription, 0, len(b.outputs))
	outputRandomness := make([]jubjub.Scalar, 0, len(b.outputs))
	for _, ob := range b.outputs {
		d, err := ob.Build(ctx, manager, spender, rk)
		if err != nil {
			return nil, err
		}
		unsignedOutputs = append(unsignedOutputs, *d)
		outputRandomness = append(outputRandomness, ob.ValueCommitmentRandomness())
	}

	unsignedMints := make([]descriptions.UnsignedMintDescription, 0, len(b.mints))
	for _, mb := range b.mints {
		d, err := mb.Build(ctx, manager, spender, rk)
		if err != nil {
			return nil, err
		}
		unsignedMints = append(unsignedMints, *d)
	}

	sigHash := signatureHash(b.version, b.expiration, fee, rk.Rk, unsignedSpends, unsignedOutputs, unsignedMints, b.burns)

	bsk, bvk := accumulateBindingKeys(unsignedSpends, spendRandomness, unsignedOutputs, outputRandomness, unsignedMints, b.burns, fee)
	expected := jubjub.GRandomness().ScalarMul(bsk)
	if !expected.Equal(bvk) {
		return nil, ironerr.New(ironerr.InvalidBalance)
	}

	msg := bindingMessage(bvk, sigHash)
	bindingSig, err := redjubjub.Sign(bsk, jubjub.GRandomness(), msg)
	if err != nil {
		return nil, err
	}

	return &UnsignedTransaction{
		TransactionVersion: b.version,
		Spends:             unsignedSpends,
		Outputs:            unsignedOutputs,
		Mints:              unsignedMints,
		Burns:              b.burns,
		Fee:                fee,
		Expiration:         b.expiration,
		Rk:                 rk.Rk,
		Alpha:              rk.Alpha,
		BindingSignature:   bindingSig,
		SignatureHash:      sigHash,
	}, nil
}

// BuildMinersFee is the dedicated miner's-fee path: exactly one output, no
// spends/mints/burns, fee is forced to -value.
func BuildMinersFee(ctx context.Context, manager *circuits.Manager, spender *keys.SaplingKey, n note.Note) (*UnsignedTransaction, error) {
	b := newBuilder(Version1)
	b.markMinersFee()

	ob, err := descriptions.NewMinersFeeOutputBuilder(n)
	if err != nil {
		return nil, err
	}
	b.outputs = append(b.outputs, ob)

	return b.Build(ctx, manager, spender, -int64(n.Value))
}

// synthesizeChangeOutputs emits one change note per asset whose balance
// still exceeds what's owed (the declared fee, native asset only), then
// folds that emission back into the ledger. A negative surplus for any
// asset is InvalidBalance.
func (b *Builder) synthesizeChangeOutputs(spender *keys.SaplingKey, fee int64) error {
	nativeKey := primitives.Native().Bytes()
	owed := make(map[[32]byte]int64, len(b.balances))
	owed[nativeKey] = fee

	for key, surplus := range b.balances {
		due := surplus - owed[key]
		if due < 0 {
			return ironerr.New(ironerr.InvalidBalance)
		}
		if due == 0 {
			continue
		}
		assetID := b.assetByID[key]
		changeNote, err := note.New(spender.PublicAddress(), uint64(due), note.Memo{}, assetID, spender.PublicAddress())
		if err != nil {
			return err
		}
		ob, err := descriptions.NewOutputBuilder(changeNote)
		if err != nil {
			return err
		}
		b.outputs = append(b.outputs, ob)
		b.credit(assetID, -int64(due))
	}
	return nil
}
