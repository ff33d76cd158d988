// Package witness defines the Witness collaborator interface the Spend
// circuit consumes: the commitment tree itself lives outside the circuit
// package, and is described here purely through this interface, plus a
// reference in-memory commitment-tree implementation.
package witness

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/blake2s"
)

// Depth is the fixed depth of the note commitment tree the Spend circuit
// climbs: 32 layers of Merkle path.
const Depth = 32

var (
	ErrTreeFull        = errors.New("commitment tree is full")
	ErrInvalidPosition = errors.New("invalid leaf position")
)

// AuthPathElement is one layer of a Merkle authentication path: the sibling hash
// and whether the witnessed node is the right-hand child at that layer.
type AuthPathElement struct {
	Sibling [32]byte
	Right   bool
}

// Witness is the external collaborator a Spend description needs: given a
// note commitment already in the tree, it supplies everything the circuit's
// Merkle-path gadget asserts against.
type Witness interface {
	// Verify checks that this witness's auth path, applied to leaf,
	// reproduces root_hash.
	Verify(leaf [32]byte) bool
	// AuthPath returns the Depth-length sibling path from this leaf to the
	// tree root.
	AuthPath() []AuthPathElement
	// RootHash returns the tree root this witness was generated against.
	RootHash() [32]byte
	// TreeSize returns the number of leaves in the tree when this witness
	// was generated (used to compute the leaf's position).
	TreeSize() uint64
	// Position returns the witnessed leaf's index in the tree. The spend
	// builder needs this to derive rho (rho = cm + position *
	// G_nullifier_position) and to populate the Spend circuit's Position
	// witness.
	Position() uint64
}

// hashPair combines two sibling nodes into their parent. The Spend circuit
// climbs this tree with a MiMC hash gadget standing in for a bit-decomposed
// Pedersen hash; this package mirrors that off-circuit with a keyed Blake2s
// hash, consistent with the note package's commitment construction.
func hashPair(left, right [32]byte) [32]byte {
	h, err := blake2s.New256([]byte(padTag("IFMerklePair")))
	if err != nil {
		panic(err)
	}
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func padTag(tag string) string {
	b := make([]byte, 8)
	copy(b, tag)
	return string(b)
}

var emptyHashes = func() [Depth + 1][32]byte {
	var levels [Depth + 1][32]byte
	for level := 1; level <= Depth; level++ {
		levels[level] = hashPair(levels[level-1], levels[level-1])
	}
	return levels
}()

// CommitmentTree is an in-memory, append-only Merkle tree over note
// commitments. It exists to be a usable reference Witness provider, not a
// persistence layer, so node storage is kept in-process rather than backed
// by external storage.
type CommitmentTree struct {
	mu    sync.RWMutex
	size  uint64
	nodes map[uint64]map[uint64][32]byte // level -> index -> hash
	root  [32]byte
}

func NewCommitmentTree() *CommitmentTree {
	return &CommitmentTree{
		nodes: make(map[uint64]map[uint64][32]byte),
		root:  emptyHashes[Depth],
	}
}

func (t *CommitmentTree) getNode(level int, index uint64) [32]byte {
	levelMap, ok := t.nodes[uint64(level)]
	if !ok {
		return emptyHashes[level]
	}
	h, ok := levelMap[index]
	if !ok {
		return emptyHashes[level]
	}
	return h
}

func (t *CommitmentTree) setNode(level int, index uint64, hash [32]byte) {
	if t.nodes[uint64(level)] == nil {
		t.nodes[uint64(level)] = make(map[uint64][32]byte)
	}
	t.nodes[uint64(level)][index] = hash
}

// Add appends a new leaf commitment, returning its position.
func (t *CommitmentTree) Add(ctx context.Context, commitment [32]byte) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	maxLeaves := uint64(1) << Depth
	if t.size >= maxLeaves {
		return 0, ErrTreeFull
	}

	position := t.size
	t.size++
	t.setNode(0, position, commitment)

	current := commitment
	index := position
	for level := 0; level < Depth; level++ {
		siblingIndex := index ^ 1
		sibling := t.getNode(level, siblingIndex)

		var parent [32]byte
		if index%2 == 0 {
			parent = hashPair(current, sibling)
		} else {
			parent = hashPair(sibling, current)
		}
		index /= 2
		current = parent
		t.setNode(level+1, index, current)
	}

	t.root = current
	return position, nil
}

func (t *CommitmentTree) RootHash() [32]byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

func (t *CommitmentTree) Size() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// WitnessFor builds a Witness for the leaf at position, capturing the
// current root and size so the witness remains valid even if the tree grows
// afterward.
func (t *CommitmentTree) WitnessFor(position uint64) (Witness, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if position >= t.size {
		return nil, ErrInvalidPosition
	}

	path := make([]AuthPathElement, Depth)
	index := position
	for level := 0; level < Depth; level++ {
		siblingIndex := index ^ 1
		path[level] = AuthPathElement{
			Sibling: t.getNode(level, siblingIndex),
			Right:   index%2 == 1,
		}
		index /= 2
	}

	return &treeWitness{
		path:     path,
		root:     t.root,
		size:     t.size,
		position: position,
	}, nil
}

type treeWitness struct {
	path     []AuthPathElement
	root     [32]byte
	size     uint64
	position uint64
}

func (w *treeWitness) Verify(leaf [32]byte) bool {
	current := leaf
	for _, elem := range w.path {
		if elem.Right {
			current = hashPair(elem.Sibling, current)
		} else {
			current = hashPair(current, elem.Sibling)
		}
	}
	return current == w.root
}

func (w *treeWitness) AuthPath() []AuthPathElement { return w.path }
func (w *treeWitness) RootHash() [32]byte          { return w.root }
func (w *treeWitness) TreeSize() uint64            { return w.size }
func (w *treeWitness) Position() uint64            { return w.position }
