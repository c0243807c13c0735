package ordtree

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/zeebo/xxh3"
)

// Magic values identifying the two on-disk encodings. A Load call rejects a
// payload carrying the other façade's magic.
const (
	MagicBP    uint32 = 0x42505431 // "BPT1"
	MagicLOUDS uint32 = 0x4c445331 // "LDS1"

	formatVersion uint32 = 1
)

// LabelCodec lets a façade persist an arbitrary comparable label type: the
// façade itself only ever deals in bits and node handles, so it asks the
// caller how to read and write one label.
type LabelCodec[L any] struct {
	Encode func(w io.Writer, label L) error
	Decode func(r io.Reader) (L, error)
}

func packBits(bits []bool) []uint64 {
	words := make([]uint64, (len(bits)+63)/64)
	for i, b := range bits {
		if b {
			words[i/64] |= 1 << uint(i%64)
		}
	}
	return words
}

func unpackBits(words []uint64, n uint64) []bool {
	out := make([]bool, n)
	for i := uint64(0); i < n; i++ {
		out[i] = words[i/64]&(1<<(i%64)) != 0
	}
	return out
}

// SaveFramed writes magic, version, the bit sequence packed into 64-bit
// words, a label count, and the labels themselves (via writeLabels),
// followed by an xxh3 checksum of everything preceding it.
func SaveFramed(w io.Writer, magic uint32, bits []bool, labelCount uint64, writeLabels func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, magic); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(bits))); err != nil {
		return err
	}
	words := packBits(bits)
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(words))); err != nil {
		return err
	}
	for _, word := range words {
		if err := binary.Write(&buf, binary.LittleEndian, word); err != nil {
			return err
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, labelCount); err != nil {
		return err
	}
	if err := writeLabels(&buf); err != nil {
		return err
	}
	sum := xxh3.Hash(buf.Bytes())
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, sum)
}

// LoadFramed verifies the checksum, the magic, and returns the decoded bit
// sequence, the label count, and a reader positioned at the start of the
// label payload for the caller to decode with its own LabelCodec.
func LoadFramed(r io.Reader, wantMagic uint32) (bits []bool, labelCount uint64, body io.Reader, err error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, nil, err
	}
	if len(all) < 8 {
		return nil, 0, nil, ErrDeserialize
	}
	payload := all[:len(all)-8]
	wantSum := binary.LittleEndian.Uint64(all[len(all)-8:])
	if xxh3.Hash(payload) != wantSum {
		return nil, 0, nil, ErrDeserialize
	}

	br := bytes.NewReader(payload)
	var magic, version uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, 0, nil, ErrDeserialize
	}
	if magic != wantMagic {
		return nil, 0, nil, ErrDeserialize
	}
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil || version != formatVersion {
		return nil, 0, nil, ErrDeserialize
	}
	var n uint64
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return nil, 0, nil, ErrDeserialize
	}
	var numWords uint64
	if err := binary.Read(br, binary.LittleEndian, &numWords); err != nil {
		return nil, 0, nil, ErrDeserialize
	}
	words := make([]uint64, numWords)
	for i := range words {
		if err := binary.Read(br, binary.LittleEndian, &words[i]); err != nil {
			return nil, 0, nil, ErrDeserialize
		}
	}
	bits = unpackBits(words, n)
	if err := binary.Read(br, binary.LittleEndian, &labelCount); err != nil {
		return nil, 0, nil, ErrDeserialize
	}
	return bits, labelCount, br, nil
}
