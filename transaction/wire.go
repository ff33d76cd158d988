package transaction

import (
	"encoding/binary"

	"github.com/iron-fish/sapling-go/descriptions"
	"github.com/iron-fish/sapling-go/internal/jubjub"
	"github.com/iron-fish/sapling-go/internal/redjubjub"
	"github.com/iron-fish/sapling-go/ironerr"
)

// Bytes encodes a fully signed Transaction per §6's wire format:
//
//	version | num_spends | num_outputs | num_mints | num_burns |
//	fee | expiration | rk |
//	spends[...] | outputs[...] | mints[...] | burns[...] |
//	binding_signature
//
// Mint descriptions in a Version2 transaction are each prefixed with a
// single presence byte (0x01/0x00) marking whether NewOwner follows: the
// spec allows mint-owner transfer per mint, not per transaction, so a
// transaction-wide flag can't disambiguate which mints carry it.
func (t *Transaction) Bytes() ([]byte, error) {
	if t.TransactionVersion != Version1 && t.TransactionVersion != Version2 {
		return nil, ironerr.New(ironerr.InvalidTransactionVersion)
	}
	for _, m := range t.Mints {
		if m.NewOwner != nil && t.TransactionVersion != Version2 {
			return nil, ironerr.New(ironerr.InvalidTransactionVersion)
		}
	}

	out := make([]byte, 0, 256)
	out = append(out, byte(t.TransactionVersion))
	out = appendUint64(out, uint64(len(t.Spends)))
	out = appendUint64(out, uint64(len(t.Outputs)))
	out = appendUint64(out, uint64(len(t.Mints)))
	out = appendUint64(out, uint64(len(t.Burns)))
	out = appendUint64(out, uint64(t.Fee))
	out = appendUint32(out, t.Expiration)
	rkBytes := t.Rk.CompressedBytes()
	out = append(out, rkBytes[:]...)

	for _, s := range t.Spends {
		b := s.Bytes()
		out = append(out, b[:]...)
	}
	for _, o := range t.Outputs {
		b := o.Bytes()
		out = append(out, b[:]...)
	}
	for _, m := range t.Mints {
		if t.TransactionVersion == Version2 {
			if m.NewOwner != nil {
				out = append(out, 0x01)
			} else {
				out = append(out, 0x00)
			}
		}
		out = append(out, m.Bytes()...)
	}
	for _, bn := range t.Burns {
		b := bn.Bytes()
		out = append(out, b[:]...)
	}

	sigBytes := t.BindingSignature.Bytes()
	out = append(out, sigBytes[:]...)

	return out, nil
}

// FromBytes decodes a Transaction per §6's wire format. Any version byte
// outside {1, 2} is rejected as InvalidTransactionVersion before any other
// field is parsed. Every byte of b must be consumed; trailing or missing
// bytes are InvalidData.
func FromBytes(b []byte) (*Transaction, error) {
	r := &byteReader{buf: b}

	versionByte, err := r.readByte()
	if err != nil {
		return nil, err
	}
	version := Version(versionByte)
	if version != Version1 && version != Version2 {
		return nil, ironerr.New(ironerr.InvalidTransactionVersion)
	}

	numSpends, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	numOutputs, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	numMints, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	numBurns, err := r.readUint64()
	if err != nil {
		return nil, err
	}

	feeRaw, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	fee := int64(feeRaw)

	expiration, err := r.readUint32()
	if err != nil {
		return nil, err
	}

	var rkBytes [32]byte
	if err := r.readFixed(rkBytes[:]); err != nil {
		return nil, err
	}
	rk, err := jubjub.PointFromCompressedBytes(rkBytes)
	if err != nil {
		return nil, err
	}

	spends := make([]descriptions.SpendDescription, 0, numSpends)
	for i := uint64(0); i < numSpends; i++ {
		var buf [descriptions.SpendDescriptionSize]byte
		if err := r.readFixed(buf[:]); err != nil {
			return nil, err
		}
		d, err := descriptions.SpendDescriptionFromBytes(buf)
		if err != nil {
			return nil, err
		}
		spends = append(spends, *d)
	}

	outputs := make([]descriptions.UnsignedOutputDescription, 0, numOutputs)
	for i := uint64(0); i < numOutputs; i++ {
		var buf [descriptions.OutputDescriptionSize]byte
		if err := r.readFixed(buf[:]); err != nil {
			return nil, err
		}
		d, err := descriptions.OutputDescriptionFromBytes(buf)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, *d)
	}

	mints := make([]descriptions.MintDescription, 0, numMints)
	for i := uint64(0); i < numMints; i++ {
		withOwner := false
		if version == Version2 {
			flag, err := r.readByte()
			if err != nil {
				return nil, err
			}
			withOwner = flag == 0x01
		}
		size := descriptions.MintSignatureBytesSize + 64
		if withOwner {
			size += 32
		}
		buf, err := r.readN(size)
		if err != nil {
			return nil, err
		}
		d, err := descriptions.MintDescriptionFromBytes(buf, withOwner)
		if err != nil {
			return nil, err
		}
		mints = append(mints, *d)
	}

	burns := make([]descriptions.BurnDescription, 0, numBurns)
	for i := uint64(0); i < numBurns; i++ {
		var buf [descriptions.BurnDescriptionSize]byte
		if err := r.readFixed(buf[:]); err != nil {
			return nil, err
		}
		burns = append(burns, descriptions.BurnDescriptionFromBytes(buf))
	}

	var sigBytes [64]byte
	if err := r.readFixed(sigBytes[:]); err != nil {
		return nil, err
	}
	sig, err := redjubjub.FromBytes(sigBytes)
	if err != nil {
		return nil, err
	}

	if !r.atEnd() {
		return nil, ironerr.New(ironerr.InvalidData)
	}

	return &Transaction{
		TransactionVersion: version,
		Spends:             spends,
		Outputs:            outputs,
		Mints:              mints,
		Burns:              burns,
		Fee:                fee,
		Expiration:         expiration,
		Rk:                 rk,
		BindingSignature:   sig,
	}, nil
}

func appendUint64(out []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(out, b[:]...)
}

func appendUint32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

// byteReader is a minimal cursor over a byte slice that fails closed:
// reading past the end, or leaving bytes unconsumed, is always InvalidData.
type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) readN(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, ironerr.New(ironerr.InvalidData)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *byteReader) readFixed(dst []byte) error {
	b, err := r.readN(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func (r *byteReader) readByte() (byte, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) readUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) readUint64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *byteReader) atEnd() bool {
	return r.pos == len(r.buf)
}
