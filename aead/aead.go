// Package aead provides cipher.AEAD implementations of Photon-Beetle-AEAD[32] and Photon-Beetle-AEAD[128].
//
// Seal appends the ciphertext followed by the 16-byte tag to dst. Nonces are always 16 bytes long.
package aead

import (
	"crypto/cipher"
	"crypto/subtle"
	"errors"

	"github.com/codahale/photonbeetle"
	"github.com/codahale/photonbeetle/internal/duplex"
	"github.com/codahale/photonbeetle/internal/mem"
)

// ErrOpen is returned when a ciphertext cannot be authenticated.
var ErrOpen = errors.New("photonbeetle/aead: message authentication failed")

// New32 returns a cipher.AEAD which uses Photon-Beetle-AEAD[32] with the given 16-byte key.
func New32(key []byte) (cipher.AEAD, error) {
	return New(photonbeetle.Rate32, key)
}

// New128 returns a cipher.AEAD which uses Photon-Beetle-AEAD[128] with the given 16-byte key.
func New128(key []byte) (cipher.AEAD, error) {
	return New(photonbeetle.Rate128, key)
}

// New returns a cipher.AEAD which uses the given Photon-Beetle-AEAD variant and 16-byte key.
func New(rate photonbeetle.Rate, key []byte) (cipher.AEAD, error) {
	if !rate.Valid() {
		return nil, photonbeetle.ErrInvalidRate
	}

	if len(key) != photonbeetle.KeySize {
		return nil, photonbeetle.ErrInvalidKeyLength
	}

	a := &aead{rate: int(rate)}
	copy(a.key[:], key)
	return a, nil
}

type aead struct {
	key  [photonbeetle.KeySize]byte
	rate int
}

func (a *aead) NonceSize() int {
	return photonbeetle.NonceSize
}

func (a *aead) Overhead() int {
	return photonbeetle.TagSize
}

func (a *aead) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) != photonbeetle.NonceSize {
		panic("photonbeetle/aead: invalid nonce size")
	}

	ret, out := mem.SliceForAppend(dst, len(plaintext)+photonbeetle.TagSize)
	if mem.InexactOverlap(out, plaintext) {
		panic("photonbeetle/aead: invalid buffer overlap")
	}

	var tag [duplex.TagSize]byte
	duplex.Seal(a.rate, a.key[:], nonce, additionalData, out, plaintext, &tag)
	copy(out[len(plaintext):], tag[:])
	return ret
}

func (a *aead) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != photonbeetle.NonceSize {
		panic("photonbeetle/aead: invalid nonce size")
	}

	if len(ciphertext) < photonbeetle.TagSize {
		return nil, ErrOpen
	}

	ciphertext, receivedTag := ciphertext[:len(ciphertext)-photonbeetle.TagSize], ciphertext[len(ciphertext)-photonbeetle.TagSize:]
	ret, out := mem.SliceForAppend(dst, len(ciphertext))
	if mem.InexactOverlap(out, ciphertext) {
		panic("photonbeetle/aead: invalid buffer overlap")
	}

	var expectedTag [duplex.TagSize]byte
	duplex.Unseal(a.rate, a.key[:], nonce, additionalData, out, ciphertext, &expectedTag)
	if subtle.ConstantTimeCompare(expectedTag[:], receivedTag) == 0 {
		clear(out)
		return nil, ErrOpen
	}

	return ret, nil
}

var _ cipher.AEAD = (*aead)(nil)
