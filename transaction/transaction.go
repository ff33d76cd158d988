// Package transaction assembles spend, output, mint, and burn descriptions
// into a single balanced, binding-signed transaction, and verifies one
// back. A transaction is built in two steps, mirroring the description
// lifecycle: Builder.Build produces an UnsignedTransaction (every proof
// generated, the binding signature already computed and verified), and
// UnsignedTransaction.Sign produces the final Transaction by signing every
// spend and mint under the shared rk.
package transaction

import (
	"github.com/iron-fish/sapling-go/descriptions"
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
)

// Version enumerates the transaction wire formats this package understands.
// Version2 additionally allows MintDescription.NewOwner to be set.
type Version uint8

const (
	Version1 Version = 1
	Version2 Version = 2
)

// Transaction is a fully assembled, signed, balance-proven bundle of
// descriptions, ready for broadcast or storage.
type Transaction struct {
	TransactionVersion Version
	Spends             []descriptions.SpendDescription
	Outputs            []descriptions.UnsignedOutputDescription
	Mints              []descriptions.MintDescription
	Burns              []descriptions.BurnDescription
	Fee                int64
	Expiration         uint32
	Rk                 jubjub.Point
	BindingSignature   redjubjub.Signature
}

// UnsignedTransaction is the product of Builder.Build: every proof has been
// generated and self-verified, the binding signature is already computed
// and checked, but spend and mint descriptions still carry a placeholder
// signature until Sign is called.
type UnsignedTransaction struct {
	TransactionVersion Version
	Spends             []descriptions.UnsignedSpendDescription
	Outputs            []descriptions.UnsignedOutputDescription
	Mints              []descriptions.UnsignedMintDescription
	Burns              []descriptions.BurnDescription
	Fee                int64
	Expiration         uint32
	Rk                 jubjub.Point
	Alpha              jubjub.Scalar // public_key_randomness, needed by Sign
	BindingSignature   redjubjub.Signature
	SignatureHash      [32]byte
}
