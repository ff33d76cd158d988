// Package params defines the Parameters collaborator the spend/output/mint
// circuits load their proving and verifying keys from. The underlying
// Powers-of-Tau ceremony and the Groth16 setup it feeds are out of scope;
// this package only describes the shape callers depend on and supplies an
// in-memory double useful for tests and local development.
package params

import (
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/iron-fish/sapling-go/circuits"
)

// Parameters exposes the six keys a trusted setup produces: one proving key
// and one verifying key per circuit kind. Implementations backed by a real
// ceremony transcript load these once at process start and hold them
// immutably, since each is typically a multi-hundred-MB read-only blob.
type Parameters interface {
	SpendProvingKey() groth16.ProvingKey
	SpendVerifyingKey() groth16.VerifyingKey
	OutputProvingKey() groth16.ProvingKey
	OutputVerifyingKey() groth16.VerifyingKey
	MintProvingKey() groth16.ProvingKey
	MintVerifyingKey() groth16.VerifyingKey
}

// inMemory is the simplest possible Parameters: keys held directly in Go
// struct fields, no serialization, no ceremony. LocalSetup returns one.
type inMemory struct {
	spendPK, outputPK, mintPK groth16.ProvingKey
	spendVK, outputVK, mintVK groth16.VerifyingKey
}

func (p *inMemory) SpendProvingKey() groth16.ProvingKey    { return p.spendPK }
func (p *inMemory) SpendVerifyingKey() groth16.VerifyingKey { return p.spendVK }
func (p *inMemory) OutputProvingKey() groth16.ProvingKey    { return p.outputPK }
func (p *inMemory) OutputVerifyingKey() groth16.VerifyingKey { return p.outputVK }
func (p *inMemory) MintProvingKey() groth16.ProvingKey    { return p.mintPK }
func (p *inMemory) MintVerifyingKey() groth16.VerifyingKey { return p.mintVK }

// LocalSetup runs Groth16's (insecure, single-party) trusted setup for the
// three circuits and returns both the resulting Parameters and a
// *circuits.Manager already loaded from them. This is the path tests and
// local development use; production code must instead obtain Parameters
// from a real multi-party ceremony transcript (see LoadInto) rather than
// calling this function, since a locally generated toxic-waste scalar is
// never discarded the way a real ceremony's is.
func LocalSetup() (Parameters, *circuits.Manager, error) {
	manager := circuits.NewManager()

	if err := manager.Compile(circuits.KindSpend, &circuits.SpendCircuit{}); err != nil {
		return nil, nil, err
	}
	if err := manager.Compile(circuits.KindOutput, &circuits.OutputCircuit{}); err != nil {
		return nil, nil, err
	}
	if err := manager.Compile(circuits.KindMint, &circuits.MintCircuit{}); err != nil {
		return nil, nil, err
	}

	spendVK, _ := manager.VerifyingKey(circuits.KindSpend)
	outputVK, _ := manager.VerifyingKey(circuits.KindOutput)
	mintVK, _ := manager.VerifyingKey(circuits.KindMint)

	p := &inMemory{spendVK: spendVK, outputVK: outputVK, mintVK: mintVK}
	return p, manager, nil
}

// LoadInto compiles the circuit templates (deterministic: gnark's R1CS
// compilation of a fixed circuit definition always produces the same
// constraint system) and pairs them with the supplied Parameters' keys,
// installing the result into manager. This is how a real ceremony's output
// gets wired up: the ceremony only ever produces keys, never a constraint
// system, since the constraint system is derivable from the circuit source
// itself.
func LoadInto(manager *circuits.Manager, p Parameters) error {
	spendCCS, err := frontend.Compile(circuits.ScalarField, r1cs.NewBuilder, &circuits.SpendCircuit{})
	if err != nil {
		return err
	}
	manager.LoadKeys(circuits.KindSpend, spendCCS, p.SpendProvingKey(), p.SpendVerifyingKey())

	outputCCS, err := frontend.Compile(circuits.ScalarField, r1cs.NewBuilder, &circuits.OutputCircuit{})
	if err != nil {
		return err
	}
	manager.LoadKeys(circuits.KindOutput, outputCCS, p.OutputProvingKey(), p.OutputVerifyingKey())

	mintCCS, err := frontend.Compile(circuits.ScalarField, r1cs.NewBuilder, &circuits.MintCircuit{})
	if err != nil {
		return err
	}
	manager.LoadKeys(circuits.KindMint, mintCCS, p.MintProvingKey(), p.MintVerifyingKey())

	return nil
}
