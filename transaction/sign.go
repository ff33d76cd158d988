package transaction

import (
	"github.com/iron-fish/sapling-go/descriptions"
	"github.com/iron-fish/sapling-go/internal/keys"
)

// Sign produces the final Transaction: every spend and mint description is
// signed under the shared rk derived during Build. This is the single-key
// signing path; the FROST threshold path produces the same spend/mint
// authorizing signature via UnsignedTransaction.AggregateSignatureShares
// instead of this function. Both keep the BindingSignature computed by Build.
func (u *UnsignedTransaction) Sign(spender *keys.SaplingKey) (*Transaction, error) {
	rk := descriptions.RandomizedKey{Alpha: u.Alpha, Rk: u.Rk}

	spends := make([]descriptions.SpendDescription, 0, len(u.Spends))
	for _, s := range u.Spends {
		signed, err := s.Sign(spender, rk, u.SignatureHash)
		if err != nil {
			return nil, err
		}
		spends = append(spends, *signed)
	}

	mints := make([]descriptions.MintDescription, 0, len(u.Mints))
	for _, m := range u.Mints {
		signed, err := m.Sign(spender, rk, u.SignatureHash)
		if err != nil {
			return nil, err
		}
		mints = append(mints, *signed)
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
	}, nil
}
