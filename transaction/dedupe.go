package transaction

import (
	"crypto/rand"
	"encoding/binary"
	"math"

	"golang.org/x/crypto/blake2s"
)

// rollingNullifierFilter is a fast, non-consensus pre-check a batch verifier
// runs before spending the work of a full signature/proof pass: a probabilistic
// duplicate-nullifier guard, not a membership set. A positive here only means
// "maybe seen before, go check properly"; a negative is certain. It ages out
// old entries by rotating through generations rather than growing forever, so
// memory stays bounded across a long-running verifier.
//
// There is no cross-transaction or cross-block state kept here: this exists
// purely to catch the cheap case (two descriptions in the same batch spending
// the same note) before falling through to consensus-level nullifier checks
// elsewhere.
type rollingNullifierFilter struct {
	slots      []byte // one generation tag (0-3) per (slot, hash-function) cell
	numHashes  uint32
	numSlots   uint32
	limit      uint32
	entries    uint32
	generation byte
	tweak      uint32
}

// newRollingNullifierFilter sizes a filter for expectedItems entries at the
// given false-positive rate, mirroring from_rate in the original rolling
// filter this is ported from.
func newRollingNullifierFilter(expectedItems uint32, falsePositiveRate float64) *rollingNullifierFilter {
	if expectedItems == 0 {
		expectedItems = 1
	}
	logRate := math.Log(falsePositiveRate)

	numHashes := uint32(math.Round(logRate / math.Log(0.5)))
	if numHashes < 1 {
		numHashes = 1
	}
	if numHashes > 50 {
		numHashes = 50
	}

	limit := (expectedItems + 1) / 2
	if limit == 0 {
		limit = 1
	}
	maxEntries := limit * 3

	size := uint32(math.Ceil(-1.0 * float64(numHashes) * float64(maxEntries) /
		math.Log(1.0-math.Exp(logRate/float64(numHashes)))))
	if size < 1 {
		size = 1
	}

	var tweakBuf [4]byte
	_, _ = rand.Read(tweakBuf[:])

	return &rollingNullifierFilter{
		slots:      make([]byte, size*numHashes),
		numHashes:  numHashes,
		numSlots:   size,
		limit:      limit,
		generation: 1,
		tweak:      binary.LittleEndian.Uint32(tweakBuf[:]),
	}
}

// slotHash keys blake2s with the hash-function index and the filter's random
// tweak, the same role the original's per-call murmur seed plays: each of the
// numHashes rounds must land on an independent slot.
func (f *rollingNullifierFilter) slotHash(value []byte, round uint32) uint32 {
	seed := round*0xfba4c795 + f.tweak
	var key [8]byte
	binary.LittleEndian.PutUint32(key[:4], seed)
	h, _ := blake2s.New256(nil)
	h.Write(key[:])
	h.Write(value)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint32(sum[:4]) % f.numSlots
}

// add marks value as seen, rotating the active generation (and aging out the
// oldest one) once the filter has absorbed limit entries.
func (f *rollingNullifierFilter) add(value []byte) {
	if f.entries == f.limit {
		f.entries = 0
		f.generation++
		if f.generation == 4 {
			f.generation = 1
		}
		stale := (f.generation + 2) % 4
		for i, g := range f.slots {
			if g == stale {
				f.slots[i] = 0
			}
		}
	}
	f.entries++

	for round := uint32(0); round < f.numHashes; round++ {
		slot := f.slotHash(value, round)
		f.slots[slot*f.numHashes+round] = f.generation
	}
}

// test reports whether value has probably been added before. False negatives
// never happen; false positives occur at roughly the configured rate.
func (f *rollingNullifierFilter) test(value []byte) bool {
	if f.entries == 0 {
		return false
	}
	for round := uint32(0); round < f.numHashes; round++ {
		slot := f.slotHash(value, round)
		if f.slots[slot*f.numHashes+round] == 0 {
			return false
		}
	}
	return true
}

// dedupeNullifiers is the batch-verifier entry point: it reports the index of
// the first spend description whose nullifier collided with an earlier one in
// the same batch, or -1 if none did. A collision reported here is only ever a
// reason to fall through to the authoritative per-spend check; it is never
// itself treated as proof of a double-spend.
func dedupeNullifiers(nullifiers [][32]byte) int {
	if len(nullifiers) < 2 {
		return -1
	}
	filter := newRollingNullifierFilter(uint32(len(nullifiers)), 0.0001)
	for i, nf := range nullifiers {
		if filter.test(nf[:]) {
			return i
		}
		filter.add(nf[:])
	}
	return -1
}
