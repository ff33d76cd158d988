package circuits

import (
	"context"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/iron-fish/sapling-go/ironerr"
)

// ScalarField is the field every circuit in this package is compiled over:
// the BLS12-381 scalar field, which is also Jubjub's base field.
var ScalarField = ecc.BLS12_381.ScalarField()

// Kind identifies which of the three circuits a proof belongs to.
type Kind uint8

const (
	KindSpend Kind = iota
	KindOutput
	KindMint
)

func (k Kind) errorKind() ironerr.Kind {
	switch k {
	case KindSpend:
		return ironerr.InvalidSpendProof
	case KindOutput:
		return ironerr.InvalidOutputProof
	case KindMint:
		return ironerr.InvalidMintProof
	default:
		return ironerr.InvalidData
	}
}

// compiledCircuit bundles a circuit's constraint system with its proving
// and verifying keys, one entry per Kind since each kind compiles once.
type compiledCircuit struct {
	ccs frontend.CompiledConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// Manager compiles the Spend/Output/Mint circuits and holds their
// proving/verifying keys.
type Manager struct {
	mu       sync.RWMutex
	compiled map[Kind]*compiledCircuit
}

func NewManager() *Manager {
	return &Manager{compiled: make(map[Kind]*compiledCircuit)}
}

// Compile builds the R1CS for circuit and runs Groth16's trusted setup,
// storing the resulting keys under kind. This local setup path is for
// tests and development; production keys come from an external
// params.Parameters provider backed by a real multi-party ceremony, loaded
// with LoadKeys instead.
func (m *Manager) Compile(kind Kind, circuit frontend.Circuit) error {
	ccs, err := frontend.Compile(ScalarField, r1cs.NewBuilder, circuit)
	if err != nil {
		return err
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.compiled[kind] = &compiledCircuit{ccs: ccs, pk: pk, vk: vk}
	return nil
}

// LoadKeys installs an externally supplied constraint system and key pair,
// e.g. ones a params.Parameters implementation loaded from a real ceremony.
func (m *Manager) LoadKeys(kind Kind, ccs frontend.CompiledConstraintSystem, pk groth16.ProvingKey, vk groth16.VerifyingKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compiled[kind] = &compiledCircuit{ccs: ccs, pk: pk, vk: vk}
}

// ProofData is a serialized proof plus the public inputs it was generated
// against, the unit descriptions carries inside a signed transaction.
type ProofData struct {
	Kind         Kind
	Proof        []byte
	PublicInputs []byte
}

// GenerateProof proves witness against kind's compiled circuit.
func (m *Manager) GenerateProof(ctx context.Context, kind Kind, witness frontend.Circuit) (*ProofData, error) {
	m.mu.RLock()
	entry, ok := m.compiled[kind]
	m.mu.RUnlock()
	if !ok {
		return nil, ironerr.New(ironerr.Unsupported)
	}

	w, err := frontend.NewWitness(witness, ScalarField)
	if err != nil {
		return nil, err
	}

	proof, err := groth16.Prove(entry.ccs, entry.pk, w)
	if err != nil {
		return nil, ironerr.Wrap(kind.errorKind(), err)
	}
	proofBytes, err := proof.MarshalBinary()
	if err != nil {
		return nil, err
	}

	publicWitness, err := w.Public()
	if err != nil {
		return nil, err
	}
	publicBytes, err := publicWitness.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return &ProofData{Kind: kind, Proof: proofBytes, PublicInputs: publicBytes}, nil
}

// VerifyProof checks a serialized proof against its embedded public inputs.
func (m *Manager) VerifyProof(ctx context.Context, data *ProofData) error {
	m.mu.RLock()
	entry, ok := m.compiled[data.Kind]
	m.mu.RUnlock()
	if !ok {
		return ironerr.New(ironerr.Unsupported)
	}

	proof := groth16.NewProof(ecc.BLS12_381)
	if err := proof.UnmarshalBinary(data.Proof); err != nil {
		return ironerr.Wrap(ironerr.InvalidData, err)
	}

	publicWitness, err := frontend.NewWitness(nil, ScalarField, frontend.PublicOnly())
	if err != nil {
		return err
	}
	if err := publicWitness.UnmarshalBinary(data.PublicInputs); err != nil {
		return ironerr.Wrap(ironerr.InvalidData, err)
	}

	if err := groth16.Verify(proof, entry.vk, publicWitness); err != nil {
		return ironerr.Wrap(data.Kind.errorKind(), err)
	}
	return nil
}

// VerifyingKey exposes a compiled circuit's verifying key, e.g. for
// embedding in a params.Parameters implementation.
func (m *Manager) VerifyingKey(kind Kind) (groth16.VerifyingKey, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.compiled[kind]
	if !ok {
		return nil, false
	}
	return entry.vk, true
}
