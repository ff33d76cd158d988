// Package ironerr defines the single error type used across the shielded
// transaction core. Every fallible operation returns a *Error carrying a
// Kind so callers can branch with errors.Is against the Kind sentinels.
package ironerr

import "fmt"

// Kind enumerates every way an operation in this module can fail.
type Kind uint8

const (
	_ Kind = iota

	// Balance / assembly
	InvalidBalance
	InvalidMinersFeeTransaction

	// Proof verification
	InvalidSpendProof
	InvalidOutputProof
	InvalidMintProof

	// Signatures
	InvalidSpendSignature
	InvalidBindingSignature
	InvalidSigningKey

	// Untrusted input
	IsSmallOrder

	// Deserialization
	InvalidTransactionVersion
	InvalidData

	// Threshold signing
	InvalidRandomizer
	FailedSignatureAggregation
	FailedSignatureVerification

	// AEAD
	InvalidDecryption

	// Key derivation
	InvalidSeed
	InvalidViewingKey
	InvalidLanguage

	// Extensibility
	Unsupported
)

var kindNames = map[Kind]string{
	InvalidBalance:              "invalid balance",
	InvalidMinersFeeTransaction: "invalid miners fee transaction",
	InvalidSpendProof:           "invalid spend proof",
	InvalidOutputProof:          "invalid output proof",
	InvalidMintProof:            "invalid mint proof",
	InvalidSpendSignature:       "invalid spend signature",
	InvalidBindingSignature:     "invalid binding signature",
	InvalidSigningKey:           "invalid signing key",
	IsSmallOrder:                "point is small-order",
	InvalidTransactionVersion:   "invalid transaction version",
	InvalidData:                 "invalid data",
	InvalidRandomizer:           "invalid randomizer",
	FailedSignatureAggregation:  "failed signature aggregation",
	FailedSignatureVerification: "failed signature verification",
	InvalidDecryption:           "invalid decryption",
	InvalidSeed:                 "invalid seed",
	InvalidViewingKey:           "invalid viewing key",
	InvalidLanguage:             "invalid language",
	Unsupported:                 "unsupported",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown error"
}

// Error is the sole error type returned from this module's public API.
type Error struct {
	Kind  Kind
	Cause error
}

func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ironerr.New(SomeKind)) work without needing the
// Cause to match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
