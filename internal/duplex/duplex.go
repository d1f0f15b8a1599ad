// Package duplex implements the Beetle sponge and duplex over the PHOTON-256 permutation, sans the choice of rates and
// domain separation constants made by each Photon-Beetle scheme.
//
// Every absorbed or processed block is preceded by a permutation. A block shorter than the rate is padded by XORing
// 0x01 into the byte which follows it. Domain separation constants are folded into the three most significant bits of
// the last byte of the capacity.
package duplex

import (
	"encoding"
	"encoding/hex"
	"errors"

	"github.com/codahale/photonbeetle/internal/mem"
	"github.com/codahale/photonbeetle/internal/photon256"
)

const (
	// Width is the width of the duplex's state in bytes.
	Width = photon256.Width

	// MaxRate is the widest rate used by any Photon-Beetle scheme, in bytes. It is also the number of bytes squeezed
	// per permutation.
	MaxRate = 16
)

// A State is the 256-bit state of a Beetle duplex. The zero value is the all-zero state.
type State struct {
	state [Width]byte
}

// Init sets the state to nonce || key, each of which must be 16 bytes long.
func (d *State) Init(nonce, key []byte) {
	copy(d.state[:MaxRate], nonce)
	copy(d.state[MaxRate:], key)
}

// Permute applies the PHOTON-256 permutation to the state.
func (d *State) Permute() {
	photon256.Permute(&d.state)
}

// XOR XORs b into the leading bytes of the state without permuting it.
func (d *State) XOR(b []byte) {
	mem.XOR(d.state[:len(b)], d.state[:len(b)], b)
}

// Pad applies the one-then-zeros padding to a block of n bytes, n being less than the rate.
func (d *State) Pad(n int) {
	d.state[n] ^= 0x01
}

// Fold XORs the domain separation constant c into the capacity.
func (d *State) Fold(c Domain) {
	d.state[Width-1] ^= byte(c) << 5
}

// AbsorbBlock permutes the state and XORs the block into its rate, padding the block if it is shorter than rate.
func (d *State) AbsorbBlock(block []byte, rate int) {
	d.Permute()
	d.XOR(block)
	if len(block) < rate {
		d.Pad(len(block))
	}
}

// Absorb splits data into blocks of rate bytes, the last of which may be partial, and absorbs each of them. It does
// not fold a domain separation constant. Data must not be empty.
func (d *State) Absorb(data []byte, rate int) {
	for len(data) > rate {
		d.AbsorbBlock(data[:rate], rate)
		data = data[rate:]
	}
	d.AbsorbBlock(data, rate)
}

// Encrypt processes plaintext in blocks of rate bytes with ρ, writing the ciphertext to dst. Each block is preceded by
// a permutation; the state then absorbs the plaintext block, padded if partial. Dst and plaintext may overlap
// exactly.
func (d *State) Encrypt(dst, plaintext []byte, rate int) {
	for len(plaintext) > 0 {
		n := min(len(plaintext), rate)
		d.Permute()

		// C = Shuffle(S) ^ M; S = S ^ M
		ks := d.shuffle(rate)
		for i, m := range plaintext[:n] {
			dst[i] = ks[i] ^ m
			d.state[i] ^= m
		}
		if n < rate {
			d.Pad(n)
		}

		plaintext = plaintext[n:]
		dst = dst[n:]
	}
}

// Decrypt processes ciphertext in blocks of rate bytes with the inverse of ρ, writing the plaintext to dst and
// absorbing it exactly as Encrypt does. Dst and ciphertext may overlap exactly.
func (d *State) Decrypt(dst, ciphertext []byte, rate int) {
	for len(ciphertext) > 0 {
		n := min(len(ciphertext), rate)
		d.Permute()

		// M = Shuffle(S) ^ C; S = S ^ M
		ks := d.shuffle(rate)
		for i, c := range ciphertext[:n] {
			m := ks[i] ^ c
			dst[i] = m
			d.state[i] ^= m
		}
		if n < rate {
			d.Pad(n)
		}

		ciphertext = ciphertext[n:]
		dst = dst[n:]
	}
}

// shuffle returns S2 || (S1 >>> 1), where S1 and S2 are the two halves of the rate and S1 is rotated right by one bit
// as a little-endian integer.
func (d *State) shuffle(rate int) [MaxRate]byte {
	var out [MaxRate]byte
	half := rate / 2
	s1 := d.state[:half]
	copy(out[:half], d.state[half:rate])
	for i := range half {
		out[half+i] = s1[i]>>1 | s1[(i+1)%half]<<7
	}
	return out
}

// Squeeze fills out with output from the state, permuting it before each block of MaxRate bytes.
func (d *State) Squeeze(out []byte) {
	for len(out) > 0 {
		d.Permute()
		n := copy(out, d.state[:MaxRate])
		out = out[n:]
	}
}

// Clear zeros out the state.
func (d *State) Clear() {
	clear(d.state[:])
}

// String returns the state as hex, with the 128-bit outer part separated from the inner part by a bar.
func (d *State) String() string {
	return hex.EncodeToString(d.state[:MaxRate]) + "|" + hex.EncodeToString(d.state[MaxRate:])
}

// UnmarshalBinary restores the state from the given binary representation. It implements encoding.BinaryUnmarshaler.
func (d *State) UnmarshalBinary(data []byte) error {
	if len(data) != len(d.state) {
		return errors.New("photonbeetle: invalid state length")
	}
	copy(d.state[:], data)
	return nil
}

// AppendBinary appends the binary representation of the state to the given slice. It implements
// encoding.BinaryAppender.
func (d *State) AppendBinary(b []byte) ([]byte, error) {
	return append(b, d.state[:]...), nil
}

var (
	_ encoding.BinaryAppender    = (*State)(nil)
	_ encoding.BinaryUnmarshaler = (*State)(nil)
)
