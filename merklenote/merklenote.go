// Package merklenote implements the on-chain form of a note: the value
// commitment, note commitment, ephemeral Diffie-Hellman public key, the
// encrypted note itself, and the doubly-wrapped note_encryption_keys that
// let a sender audit notes they created.
package merklenote

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/ironerr"
	"github.com/iron-fish/sapling-go/note"
)

// sharedKeyPersonalization domain-separates the key used to wrap
// note_encryption_keys from every other Blake2b use in this module.
const sharedKeyPersonalization = "IronFishKeyenc__"

// EncryptedSharedKeySize is the plaintext size of note_encryption_keys
// before AEAD sealing: the recipient's public address plus the ephemeral
// secret key.
const EncryptedSharedKeySize = 32 + 32

// NoteEncryptionKeysSize is EncryptedSharedKeySize plus the AEAD tag: the
// fixed 80-byte note_encryption_keys field width.
const NoteEncryptionKeysSize = EncryptedSharedKeySize + chacha20poly1305.Overhead

// minerKeys is the fixed, non-recoverable note_encryption_keys value used
// for miner's-fee outputs, which have no meaningful spender to audit them.
var minerKeys = func() [NoteEncryptionKeysSize]byte {
	var b [NoteEncryptionKeysSize]byte
	copy(b[:], "Iron Fish note encryption miner key")
	return b
}()

var zeroNonce [chacha20poly1305.NonceSize]byte

// MerkleNote is the leaf-adjacent, publicly transmitted form of an output.
type MerkleNote struct {
	ValueCommitment    jubjub.Point
	NoteCommitment     [32]byte
	EphemeralPublicKey jubjub.Point
	EncryptedNote      [note.EncryptedSize]byte
	NoteEncryptionKeys [NoteEncryptionKeysSize]byte
}

// New builds a MerkleNote for a genuine (non-miner's-fee) output: the
// sender's outgoing view key is used to wrap the note_encryption_keys field
// so they can later audit this note themselves.
func New(spender *keys.SaplingKey, n note.Note, vc primitives.ValueCommitment, esk jubjub.Scalar) (MerkleNote, error) {
	epk := jubjub.GPublic().ScalarMul(esk)

	dh := n.Owner.Point.ScalarMul(esk)
	sharedSecret, err := note.SharedSecret(dh, epk)
	if err != nil {
		return MerkleNote{}, err
	}
	encryptedNote, err := n.Encrypt(sharedSecret)
	if err != nil {
		return MerkleNote{}, err
	}

	cm, err := n.Commitment()
	if err != nil {
		return MerkleNote{}, err
	}
	cv := vc.Commitment()

	encryptionKeys, err := sealNoteEncryptionKeys(spender.OutgoingViewKey, cv, cm, epk, n.Owner, esk)
	if err != nil {
		return MerkleNote{}, err
	}

	return MerkleNote{
		ValueCommitment:    cv,
		NoteCommitment:     cm,
		EphemeralPublicKey: epk,
		EncryptedNote:      encryptedNote,
		NoteEncryptionKeys: encryptionKeys,
	}, nil
}

// NewForMinersFee builds a MerkleNote whose note_encryption_keys is the
// fixed constant, since a miner's-fee output has no real spender to audit
// it later.
func NewForMinersFee(n note.Note, vc primitives.ValueCommitment, esk jubjub.Scalar) (MerkleNote, error) {
	epk := jubjub.GPublic().ScalarMul(esk)
	dh := n.Owner.Point.ScalarMul(esk)
	sharedSecret, err := note.SharedSecret(dh, epk)
	if err != nil {
		return MerkleNote{}, err
	}
	encryptedNote, err := n.Encrypt(sharedSecret)
	if err != nil {
		return MerkleNote{}, err
	}
	cm, err := n.Commitment()
	if err != nil {
		return MerkleNote{}, err
	}

	return MerkleNote{
		ValueCommitment:    vc.Commitment(),
		NoteCommitment:     cm,
		EphemeralPublicKey: epk,
		EncryptedNote:      encryptedNote,
		NoteEncryptionKeys: minerKeys,
	}, nil
}

// DecryptForOwner recovers the note addressed to ownerViewKey, verifying
// that its commitment matches this MerkleNote's published note_commitment.
func (m MerkleNote) DecryptForOwner(ownerViewKey keys.IncomingViewKey) (note.Note, error) {
	dh := m.EphemeralPublicKey.ScalarMul(ownerViewKey.Scalar())
	sharedSecret, err := note.SharedSecret(dh, m.EphemeralPublicKey)
	if err != nil {
		return note.Note{}, err
	}
	n, err := note.FromOwnerEncrypted(ownerViewKey, sharedSecret, m.EncryptedNote)
	if err != nil {
		return note.Note{}, err
	}
	if err := n.VerifyCommitment(m.NoteCommitment); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

// DecryptForSpender recovers the note using the sender's outgoing view key,
// unwrapping note_encryption_keys first. Miner's-fee outputs cannot be
// recovered this way since their note_encryption_keys is a fixed constant,
// not a real wrapped key.
func (m MerkleNote) DecryptForSpender(spenderViewKey keys.OutgoingViewKey) (note.Note, error) {
	encryptionKey, err := encryptionKeysAEADKey(spenderViewKey, m.ValueCommitment, m.NoteCommitment, m.EphemeralPublicKey)
	if err != nil {
		return note.Note{}, err
	}

	aead, err := chacha20poly1305.New(encryptionKey[:])
	if err != nil {
		return note.Note{}, err
	}
	plaintext, err := aead.Open(nil, zeroNonce[:], m.NoteEncryptionKeys[:], nil)
	if err != nil {
		return note.Note{}, ironerr.New(ironerr.InvalidDecryption)
	}

	var ownerBytes [32]byte
	copy(ownerBytes[:], plaintext[:32])
	owner, err := keys.PublicAddressFromBytes(ownerBytes)
	if err != nil {
		return note.Note{}, err
	}
	var eskBytes [32]byte
	copy(eskBytes[:], plaintext[32:64])
	esk := jubjub.ScalarFromBytes(eskBytes)

	dh := owner.Point.ScalarMul(esk)
	sharedSecret, err := note.SharedSecret(dh, m.EphemeralPublicKey)
	if err != nil {
		return note.Note{}, err
	}
	n, err := note.FromSpenderEncrypted(owner, sharedSecret, m.EncryptedNote)
	if err != nil {
		return note.Note{}, err
	}
	if err := n.VerifyCommitment(m.NoteCommitment); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

func sealNoteEncryptionKeys(ovk keys.OutgoingViewKey, cv jubjub.Point, cm [32]byte, epk jubjub.Point, owner keys.PublicAddress, esk jubjub.Scalar) ([NoteEncryptionKeysSize]byte, error) {
	var out [NoteEncryptionKeysSize]byte

	key, err := encryptionKeysAEADKey(ovk, cv, cm, epk)
	if err != nil {
		return out, err
	}
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return out, err
	}

	var plaintext [EncryptedSharedKeySize]byte
	ownerBytes := owner.Bytes()
	copy(plaintext[:32], ownerBytes[:])
	eskBytes := esk.Bytes()
	copy(plaintext[32:], eskBytes[:])

	sealed := aead.Seal(nil, zeroNonce[:], plaintext[:], nil)
	copy(out[:], sealed)
	return out, nil
}

// encryptionKeysAEADKey derives the key used to wrap note_encryption_keys:
// a hash of the spender's outgoing view key bound to this specific output's
// value commitment, note commitment, and ephemeral public key, so the
// wrapped key can't be replayed against a different output.
func encryptionKeysAEADKey(ovk keys.OutgoingViewKey, cv jubjub.Point, cm [32]byte, epk jubjub.Point) ([32]byte, error) {
	key := make([]byte, 64)
	copy(key, sharedKeyPersonalization)
	h, err := blake2b.New(32, key)
	if err != nil {
		return [32]byte{}, err
	}
	ovkBytes := ovk.Bytes()
	cvBytes := cv.CompressedBytes()
	epkBytes := epk.CompressedBytes()
	h.Write(ovkBytes[:])
	h.Write(cvBytes[:])
	h.Write(cm[:])
	h.Write(epkBytes[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}
