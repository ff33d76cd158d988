package note

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/keys"
	"github.com/iron-fish/sapling-go/internal/primitives"
	"github.com/iron-fish/sapling-go/ironerr"
)

// PlaintextSize is the fixed layout encrypted to the recipient: randomness
// (32) ∥ value_LE64 (8) ∥ memo (32) ∥ sender (32) ∥ asset_id (32).
const PlaintextSize = 32 + 8 + 32 + 32 + 32

// EncryptedSize is PlaintextSize plus the 16-byte Poly1305 authentication
// tag; this is the ENC constant the on-chain MerkleNote form embeds.
const EncryptedSize = PlaintextSize + chacha20poly1305.Overhead

// sharedSecretPersonalization domain-separates the Diffie-Hellman shared
// secret used to key note encryption from every other Blake2b use here.
const sharedSecretPersonalization = "shared-key"

// zeroNonce is safe because every shared secret is used to encrypt exactly
// one note: it is derived from a fresh ephemeral key chosen per output, so
// the (key, nonce) pair never repeats.
var zeroNonce [chacha20poly1305.NonceSize]byte

// SharedSecret computes Blake2b-32("shared-key", dhPoint || reference), the
// Diffie-Hellman shared secret between an ephemeral secret key and a
// recipient's public address, with the ephemeral public key mixed in as
// "reference" to prevent key-commitment attacks.
func SharedSecret(dhPoint, reference jubjub.Point) ([32]byte, error) {
	key := make([]byte, 64)
	copy(key, sharedSecretPersonalization)
	h, err := blake2b.New(32, key)
	if err != nil {
		return [32]byte{}, err
	}
	dhBytes := dhPoint.CompressedBytes()
	refBytes := reference.CompressedBytes()
	h.Write(dhBytes[:])
	h.Write(refBytes[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Encrypt seals this note's plaintext fields under sharedSecret, producing
// the fixed-size ciphertext stored on a MerkleNote.
func (n Note) Encrypt(sharedSecret [32]byte) ([EncryptedSize]byte, error) {
	var out [EncryptedSize]byte

	aead, err := chacha20poly1305.New(sharedSecret[:])
	if err != nil {
		return out, err
	}

	var plaintext [PlaintextSize]byte
	randBytes := n.Randomness.Bytes()
	copy(plaintext[0:32], randBytes[:])
	binary.LittleEndian.PutUint64(plaintext[32:40], n.Value)
	copy(plaintext[40:72], n.Memo[:])
	senderBytes := n.Sender.Bytes()
	copy(plaintext[72:104], senderBytes[:])
	assetBytes := n.AssetID.Bytes()
	copy(plaintext[104:136], assetBytes[:])

	sealed := aead.Seal(nil, zeroNonce[:], plaintext[:], nil)
	copy(out[:], sealed)
	return out, nil
}

// decryptParts opens the AEAD ciphertext and splits the plaintext into its
// constituent fields, shared by FromOwnerEncrypted and FromSpenderEncrypted.
func decryptParts(sharedSecret [32]byte, ciphertext [EncryptedSize]byte) (jubjub.Scalar, uint64, Memo, keys.PublicAddress, primitives.AssetIdentifier, error) {
	aead, err := chacha20poly1305.New(sharedSecret[:])
	if err != nil {
		return jubjub.Scalar{}, 0, Memo{}, keys.PublicAddress{}, primitives.AssetIdentifier{}, err
	}

	plaintext, err := aead.Open(nil, zeroNonce[:], ciphertext[:], nil)
	if err != nil {
		return jubjub.Scalar{}, 0, Memo{}, keys.PublicAddress{}, primitives.AssetIdentifier{}, ironerr.New(ironerr.InvalidDecryption)
	}

	var randBytes [32]byte
	copy(randBytes[:], plaintext[0:32])
	randomness := jubjub.ScalarFromBytes(randBytes)

	value := binary.LittleEndian.Uint64(plaintext[32:40])

	var memo Memo
	copy(memo[:], plaintext[40:72])

	var senderBytes [32]byte
	copy(senderBytes[:], plaintext[72:104])
	sender, err := keys.PublicAddressFromBytes(senderBytes)
	if err != nil {
		return jubjub.Scalar{}, 0, Memo{}, keys.PublicAddress{}, primitives.AssetIdentifier{}, err
	}

	var assetBytes [32]byte
	copy(assetBytes[:], plaintext[104:136])
	assetID := primitives.NewAssetIdentifier(assetBytes)

	return randomness, value, memo, sender, assetID, nil
}

// FromOwnerEncrypted reconstructs a note from its ciphertext using the
// recipient's own incoming view key, as the owner does when scanning the
// chain for notes addressed to them.
func FromOwnerEncrypted(ownerViewKey keys.IncomingViewKey, sharedSecret [32]byte, ciphertext [EncryptedSize]byte) (Note, error) {
	randomness, value, memo, sender, assetID, err := decryptParts(sharedSecret, ciphertext)
	if err != nil {
		return Note{}, err
	}
	return Note{
		Owner:      ownerViewKey.PublicAddress(),
		Value:      value,
		Memo:       memo,
		AssetID:    assetID,
		Sender:     sender,
		Randomness: randomness,
	}, nil
}

// FromSpenderEncrypted reconstructs a note from its ciphertext using the
// owner's public address as recorded at construction time, the path a
// sender takes to audit notes they themselves created.
func FromSpenderEncrypted(owner keys.PublicAddress, sharedSecret [32]byte, ciphertext [EncryptedSize]byte) (Note, error) {
	randomness, value, memo, sender, assetID, err := decryptParts(sharedSecret, ciphertext)
	if err != nil {
		return Note{}, err
	}
	return Note{
		Owner:      owner,
		Value:      value,
		Memo:       memo,
		AssetID:    assetID,
		Sender:     sender,
		Randomness: randomness,
	}, nil
}
