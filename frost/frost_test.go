package frost

import (
	"errors"
	"testing"

	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

func TestThresholdSigningTwoOfThreeMatchesSingleSigner(t *testing.T) {
	ask, err := jubjub.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}

	packages, pub, err := TrustedDealerSplit(ask, 2, 3)
	if err != nil {
		t.Fatalf("TrustedDealerSplit: %v", err)
	}
	if len(packages) != 3 {
		t.Fatalf("expected 3 key packages, got %d", len(packages))
	}

	alpha, err := jubjub.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	rk := redjubjub.RandomizePublic(pub.VerifyingKey, jubjub.GSpend(), alpha)

	var signatureHash [32]byte
	copy(signatureHash[:], []byte("two of three threshold signature test vector!"))

	// Signers 0 and 1 (identifiers 1 and 2) participate; signer 2 sits out.
	signers := []KeyPackage{packages[0], packages[1]}
	participants := []Identifier{signers[0].Identifier, signers[1].Identifier}

	var commitments []SigningCommitment
	nonces := make(map[Identifier]SigningNonces)
	for _, kp := range signers {
		n, c, err := Commit(kp, signatureHash, participants)
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
		nonces[kp.Identifier] = n
		commitments = append(commitments, c)
	}

	msg := make([]byte, 64)
	rkBytes := rk.CompressedBytes()
	copy(msg[:32], rkBytes[:])
	copy(msg[32:], signatureHash[:])

	pkg := SigningPackage{Message: msg, Commitments: commitments, RkRandomizer: alpha, Rk: rk}

	var shares []SignatureShare
	for _, kp := range signers {
		share, err := Sign(kp, nonces[kp.Identifier], pkg)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		if !VerifySignatureShare(pub, pkg, share) {
			t.Fatalf("signature share for participant %d failed to verify", share.Identifier)
		}
		shares = append(shares, share)
	}

	sig, err := Aggregate(pub, pkg, shares)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !redjubjub.Verify(rk, jubjub.GSpend(), msg, sig) {
		t.Fatal("aggregated threshold signature does not verify against rk")
	}

	singleSig, err := redjubjub.Sign(ask.Add(alpha), jubjub.GSpend(), msg)
	if err != nil {
		t.Fatalf("redjubjub.Sign: %v", err)
	}
	if !redjubjub.Verify(rk, jubjub.GSpend(), msg, singleSig) {
		t.Fatal("single-signer reference signature does not verify against rk")
	}
}

func TestAggregateFailsWithOnlyOneShareBelowThreshold(t *testing.T) {
	ask, err := jubjub.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	packages, pub, err := TrustedDealerSplit(ask, 2, 3)
	if err != nil {
		t.Fatalf("TrustedDealerSplit: %v", err)
	}

	alpha, err := jubjub.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	rk := redjubjub.RandomizePublic(pub.VerifyingKey, jubjub.GSpend(), alpha)

	var signatureHash [32]byte
	copy(signatureHash[:], []byte("single signer insufficient test"))

	kp := packages[0]
	participants := []Identifier{kp.Identifier}
	nonces, commitment, err := Commit(kp, signatureHash, participants)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	msg := make([]byte, 64)
	rkBytes := rk.CompressedBytes()
	copy(msg[:32], rkBytes[:])
	copy(msg[32:], signatureHash[:])

	pkg := SigningPackage{Message: msg, Commitments: []SigningCommitment{commitment}, RkRandomizer: alpha, Rk: rk}
	share, err := Sign(kp, nonces, pkg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	// With only one of two required shares present, the Lagrange coefficient
	// for that lone signer no longer reconstructs the group key: the
	// resulting signature does not verify against rk, so Aggregate's own
	// self-verification rejects it.
	_, err = Aggregate(pub, pkg, []SignatureShare{share})
	if err == nil {
		t.Fatal("expected Aggregate to reject a below-threshold share set")
	}
	if !errors.Is(err, ironerr.New(ironerr.FailedSignatureVerification)) {
		t.Fatalf("expected FailedSignatureVerification, got %v", err)
	}
}
