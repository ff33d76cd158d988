// Package note implements the plaintext note data model: value, owner,
// memo, asset, and sender, together with its Pedersen-style commitment, its
// nullifier, and its ChaCha20-Poly1305 encrypted wire form.
package note

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/ironerr"
)

// Memo is a 32-byte free-form annotation transmitted alongside a note.
type Memo [32]byte

// MemoFromString truncates (or zero-pads) a UTF-8 string into a Memo.
func MemoFromString(s string) Memo {
	var m Memo
	copy(m[:], s)
	return m
}

func (m Memo) String() string {
	end := len(m)
	for end > 0 && m[end-1] == 0 {
		end--
	}
	return string(m[:end])
}

// noteCommitPersonalization domain-separates the hashed-content term of a
// note commitment from every other Blake2b use in this module.
const noteCommitPersonalization = "IFNoteCommit____"

// Note is a shielded note: owner, value, memo, asset, sender, and a
// uniformly sampled blinding randomness.
type Note struct {
	Owner      keys.PublicAddress
	Value      uint64
	Memo       Memo
	AssetID    primitives.AssetIdentifier
	Sender     keys.PublicAddress
	Randomness jubjub.Scalar
}

// New constructs a note with a freshly sampled randomness, as every newly
// created output (or change note) must have.
func New(owner keys.PublicAddress, value uint64, memo Memo, assetID primitives.AssetIdentifier, sender keys.PublicAddress) (Note, error) {
	r, err := jubjub.RandomScalar()
	if err != nil {
		return Note{}, err
	}
	return Note{
		Owner:      owner,
		Value:      value,
		Memo:       memo,
		AssetID:    assetID,
		Sender:     sender,
		Randomness: r,
	}, nil
}

// CommitmentPoint computes cm = Hash(asset_generator || value || owner ||
// sender) * G_note_content + randomness * G_note_commit. A full
// bit-decomposed Pedersen hash across many fixed segment generators has no
// off-the-shelf gnark gadget in this codebase's dependency set, so the
// content is folded into one scalar via a keyed hash instead, with an
// additive blinding term keeping the commitment hiding and binding.
func (n Note) CommitmentPoint() (jubjub.Point, error) {
	assetGen, err := n.AssetID.Generator()
	if err != nil {
		return jubjub.Point{}, err
	}

	h, err := blake2b.New512([]byte(noteCommitPersonalization))
	if err != nil {
		return jubjub.Point{}, err
	}
	assetGenBytes := assetGen.CompressedBytes()
	ownerBytes := n.Owner.Bytes()
	senderBytes := n.Sender.Bytes()
	h.Write(assetGenBytes[:])
	var valueBytes [8]byte
	binary.LittleEndian.PutUint64(valueBytes[:], n.Value)
	h.Write(valueBytes[:])
	h.Write(ownerBytes[:])
	h.Write(senderBytes[:])

	contentScalar := jubjub.ScalarFromWideBytes(h.Sum(nil))
	contentTerm := jubjub.GNoteContent().ScalarMul(contentScalar)
	blindingTerm := jubjub.GNoteCommit().ScalarMul(n.Randomness)
	return contentTerm.Add(blindingTerm), nil
}

// Commitment returns the published 32-byte u-coordinate of the commitment
// point; this is the leaf value stored in the note commitment tree.
func (n Note) Commitment() ([32]byte, error) {
	pt, err := n.CommitmentPoint()
	if err != nil {
		return [32]byte{}, err
	}
	return pt.UCoordinate().Bytes(), nil
}

// Nullifier computes the note's double-spend tag, given the spending key
// that owns it and the note's position in the commitment tree.
func (n Note) Nullifier(k *keys.SaplingKey, position uint64) (primitives.Nullifier, error) {
	cm, err := n.CommitmentPoint()
	if err != nil {
		return primitives.Nullifier{}, err
	}
	rho := primitives.DeriveRho(cm, position)
	return primitives.DeriveNullifier(k.NullifierDerivingKey, rho)
}

// VerifyCommitment checks that this note's own commitment matches an
// externally supplied u-coordinate, e.g. one read back off the chain.
func (n Note) VerifyCommitment(commitment [32]byte) error {
	cm, err := n.Commitment()
	if err != nil {
		return err
	}
	if cm != commitment {
		return ironerr.New(ironerr.InvalidData)
	}
	return nil
}
