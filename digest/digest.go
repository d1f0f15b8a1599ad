// Package digest provides a streaming implementation of Photon-Beetle-Hash.
package digest

import (
	"encoding"
	"encoding/binary"
	"errors"
	"hash"

	"github.com/codahale/photonbeetle/internal/duplex"
)

const (
	// Size is the size, in bytes, of the hash's digest.
	Size = 32

	// BlockSize is the hash's rate, in bytes, after the first HashInitialRate bytes of the message.
	BlockSize = duplex.HashRate
)

// New returns a new hash.Hash which computes Photon-Beetle-Hash digests. Its output is identical to
// photonbeetle.Sum256 for the concatenation of everything written to it.
//
// The returned value also implements encoding.BinaryMarshaler, encoding.BinaryAppender, and
// encoding.BinaryUnmarshaler to allow its state to be saved and restored.
func New() hash.Hash {
	d := new(digest)
	d.Reset()
	return d
}

type digest struct {
	s duplex.State

	// initial holds the first bytes of the message, which are loaded into the state without a permutation once it
	// is known that the message is longer than HashInitialRate bytes.
	initial [duplex.HashInitialRate]byte

	// block holds a partial block of the remainder of the message.
	block [duplex.HashRate]byte

	n uint64
}

func (d *digest) Write(p []byte) (n int, err error) {
	n = len(p)

	if d.n <= duplex.HashInitialRate {
		k := copy(d.initial[d.n:], p)
		d.n += uint64(k) //nolint:gosec // k is always >= 0
		p = p[k:]
		if len(p) == 0 {
			return n, nil
		}
		d.s.XOR(d.initial[:])
	}

	pending := int((d.n - duplex.HashInitialRate) % duplex.HashRate) //nolint:gosec // always < HashRate
	d.n += uint64(len(p))
	if pending > 0 {
		k := copy(d.block[pending:], p)
		p = p[k:]
		if pending+k < duplex.HashRate {
			return n, nil
		}
		d.s.AbsorbBlock(d.block[:], duplex.HashRate)
	}

	for len(p) >= duplex.HashRate {
		d.s.AbsorbBlock(p[:duplex.HashRate], duplex.HashRate)
		p = p[duplex.HashRate:]
	}
	copy(d.block[:], p)

	return n, nil
}

func (d *digest) Sum(b []byte) []byte {
	s := d.s
	if d.n <= duplex.HashInitialRate {
		if d.n > 0 {
			s.XOR(d.initial[:d.n])
		}
		if 0 < d.n && d.n < duplex.HashInitialRate {
			s.Pad(int(d.n)) //nolint:gosec // d.n < HashInitialRate
		}
	} else if pending := (d.n - duplex.HashInitialRate) % duplex.HashRate; pending > 0 {
		s.AbsorbBlock(d.block[:pending], duplex.HashRate)
	}
	s.Fold(duplex.ForHash(d.n))

	var out [Size]byte
	s.Squeeze(out[:])
	s.Clear()
	return append(b, out[:]...)
}

func (d *digest) Reset() {
	d.s.Clear()
	clear(d.initial[:])
	clear(d.block[:])
	d.n = 0
}

func (d *digest) Size() int {
	return Size
}

func (d *digest) BlockSize() int {
	return BlockSize
}

const (
	magic         = "pbhash\x01"
	marshaledSize = len(magic) + duplex.Width + duplex.HashInitialRate + duplex.HashRate + 8
)

var errInvalidState = errors.New("photonbeetle/digest: invalid hash state")

func (d *digest) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, magic...)
	b, err := d.s.AppendBinary(b)
	if err != nil {
		return nil, err
	}
	b = append(b, d.initial[:]...)
	b = append(b, d.block[:]...)
	return binary.BigEndian.AppendUint64(b, d.n), nil
}

func (d *digest) MarshalBinary() ([]byte, error) {
	return d.AppendBinary(make([]byte, 0, marshaledSize))
}

func (d *digest) UnmarshalBinary(b []byte) error {
	if len(b) != marshaledSize || string(b[:len(magic)]) != magic {
		return errInvalidState
	}
	b = b[len(magic):]

	if err := d.s.UnmarshalBinary(b[:duplex.Width]); err != nil {
		return err
	}
	b = b[duplex.Width:]

	b = b[copy(d.initial[:], b):]
	b = b[copy(d.block[:], b):]
	d.n = binary.BigEndian.Uint64(b)
	return nil
}

var (
	_ hash.Hash                  = (*digest)(nil)
	_ encoding.BinaryAppender    = (*digest)(nil)
	_ encoding.BinaryMarshaler   = (*digest)(nil)
	_ encoding.BinaryUnmarshaler = (*digest)(nil)
)
