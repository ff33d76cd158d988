package transaction

import (
	"github.com/iron-fish/sapling-go/descriptions"
	"github.com/iron-fish/sapling-go/frost"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
)

// SigningMessage reconstructs the 64-byte message every spend and mint
// authorizing signature covers for this transaction: rk.to_bytes() ∥
// signature_hash. A FROST coordinator needs this to build the
// frost.SigningPackage distributed to round-two signers.
func (u *UnsignedTransaction) SigningMessage() []byte {
	rkBytes := u.Rk.CompressedBytes()
	msg := make([]byte, 64)
	copy(msg[:32], rkBytes[:])
	copy(msg[32:], u.SignatureHash[:])
	return msg
}

// NewSigningPackage assembles the frost.SigningPackage a coordinator sends
// to every round-two signer: this transaction's signing message, the
// collected round-one commitments, this transaction's rk, and its
// public_key_randomization as the FROST randomizer.
func (u *UnsignedTransaction) NewSigningPackage(commitments []frost.SigningCommitment) frost.SigningPackage {
	return frost.SigningPackage{
		Message:      u.SigningMessage(),
		Commitments:  commitments,
		RkRandomizer: u.Alpha,
		Rk:           u.Rk,
	}
}

// AggregateSignatureShares is the FROST threshold-signing counterpart of
// Sign: it aggregates round-two signature shares into a single RedJubjub
// signature over rk, self-verifying it, and
// substitutes that one signature into every spend and mint description —
// since every spend and mint in a transaction signs the exact same message
// (rk ∥ signature_hash), one FROST run produces the signature for all of
// them, exactly like a single sign(spending_key, signature_hash) call would
// have.
func (u *UnsignedTransaction) AggregateSignatureShares(pub frost.PublicKeyPackage, pkg frost.SigningPackage, shares []frost.SignatureShare) (*Transaction, error) {
	sig, err := frost.Aggregate(pub, pkg, shares)
	if err != nil {
		return nil, err
	}
	return u.substituteSignature(sig), nil
}

func (u *UnsignedTransaction) substituteSignature(sig redjubjub.Signature) *Transaction {
	spends := make([]descriptions.SpendDescription, len(u.Spends))
	for i, s := range u.Spends {
		spends[i] = descriptions.SpendDescription{UnsignedSpendDescription: s, Signature: sig}
	}
	mints := make([]descriptions.MintDescription, len(u.Mints))
	for i, m := range u.Mints {
		mints[i] = descriptions.MintDescription{UnsignedMintDescription: m, Signature: sig}
	}

	return &Transaction{
		TransactionVersion: u.TransactionVersion,
		Spends:             spends,
		Outputs:            u.Outputs,
		Mints:              mints,
		Burns:              u.Burns,
		Fee:                u.Fee,
		Expiration:         u.Expiration,
		Rk:                 u.Rk,
		BindingSignature:   u.BindingSignature,
	}
}
