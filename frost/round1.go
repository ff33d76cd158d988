package frost

import (
	"github.com/iron-fish/sapling-go/internal/jubjub"
)

// SigningNonces is the secret pair a signer draws for one signing attempt: a
// hiding nonce and a binding nonce, per the FROST draft. It must never be
// reused across two different SigningPackages and must be discarded after
// round two.
type SigningNonces struct {
	Hiding  jubjub.Scalar
	Binding jubjub.Scalar
}

// SigningCommitment is the public commitment a signer publishes in round
// one: their identifier plus the two nonce commitments, deterministically
// derived from the KeyPackage, the transaction's signature hash, and the
// ordered participant list so a coordinator can detect replay.
type SigningCommitment struct {
	Identifier Identifier
	Hiding     jubjub.Point
	Binding    jubjub.Point
}

// Commit runs round one for a single signer: derive nonces deterministically
// from the key share, the message this signature will eventually cover, and
// the participant set, then publish their public commitments.
func Commit(kp KeyPackage, signatureHash [32]byte, participants []Identifier) (SigningNonces, SigningCommitment, error) {
	transcript := commitTranscript(kp.Identifier, signatureHash, participants)

	shareBytes := kp.SecretShare.Bytes()
	hiding := deterministicNonce(nonceHidingTag, shareBytes[:], transcript)
	binding := deterministicNonce(nonceBindingTag, shareBytes[:], transcript)

	nonces := SigningNonces{Hiding: hiding, Binding: binding}
	commitment := SigningCommitment{
		Identifier: kp.Identifier,
		Hiding:     jubjub.GSpend().ScalarMul(hiding),
		Binding:    jubjub.GSpend().ScalarMul(binding),
	}
	return nonces, commitment, nil
}

// deterministicNonce hashes the secret share together with the commitment
// transcript, so a nonce is reproducible from the same inputs and is not a
// pure function of public data.
func deterministicNonce(tag string, secretShare, transcript []byte) jubjub.Scalar {
	return wideHash(tag, secretShare, transcript)
}

// commitTranscript binds a commitment to the exact message it will help
// sign and the exact set of co-signers, so a commitment generated for one
// transaction or participant set can't be replayed against another.
func commitTranscript(id Identifier, signatureHash [32]byte, participants []Identifier) []byte {
	buf := make([]byte, 0, 32+2*len(participants)+2)
	buf = append(buf, signatureHash[:]...)
	for _, p := range participants {
		buf = append(buf, byte(p>>8), byte(p))
	}
	buf = append(buf, byte(id>>8), byte(id))
	return buf
}
