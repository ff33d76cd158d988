package witness

import (
	"context"
	"testing"
)

func leaf(b byte) [32]byte {
	var l [32]byte
	l[0] = b
	return l
}

func TestWitnessVerifiesAgainstRoot(t *testing.T) {
	tree := NewCommitmentTree()
	ctx := context.Background()

	positions := make([]uint64, 0, 5)
	for i := byte(0); i < 5; i++ {
		pos, err := tree.Add(ctx, leaf(i))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		positions = append(positions, pos)
	}

	for i, pos := range positions {
		w, err := tree.WitnessFor(pos)
		if err != nil {
			t.Fatalf("WitnessFor(%d): %v", pos, err)
		}
		if !w.Verify(leaf(byte(i))) {
			t.Fatalf("witness for leaf %d did not verify", i)
		}
		if w.RootHash() != tree.RootHash() {
			t.Fatalf("witness root does not match tree root")
		}
		if len(w.AuthPath()) != Depth {
			t.Fatalf("auth path length = %d, want %d", len(w.AuthPath()), Depth)
		}
	}
}

func TestWitnessRejectsWrongLeaf(t *testing.T) {
	tree := NewCommitmentTree()
	ctx := context.Background()
	pos, err := tree.Add(ctx, leaf(1))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	w, err := tree.WitnessFor(pos)
	if err != nil {
		t.Fatalf("WitnessFor: %v", err)
	}
	if w.Verify(leaf(2)) {
		t.Fatal("witness verified against the wrong leaf")
	}
}

func TestTreeSizeTracksAdds(t *testing.T) {
	tree := NewCommitmentTree()
	ctx := context.Background()
	for i := byte(0); i < 3; i++ {
		if _, err := tree.Add(ctx, leaf(i)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if tree.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", tree.Size())
	}
}
