package photonbeetle

import (
	"crypto/subtle"

	"github.com/codahale/photonbeetle/internal/duplex"
)

// Encrypt encrypts and authenticates plaintext and authenticates ad with the given variant, key, and nonce. It returns
// a ciphertext of the same length as plaintext and a TagSize-byte tag.
//
// A nonce must never be used twice with the same key.
func Encrypt(rate Rate, key, nonce, ad, plaintext []byte) (ciphertext, tag []byte, err error) {
	if err := checkParams(rate, key, nonce); err != nil {
		return nil, nil, err
	}

	var t [TagSize]byte
	ciphertext = make([]byte, len(plaintext))
	duplex.Seal(int(rate), key, nonce, ad, ciphertext, plaintext, &t)
	return ciphertext, t[:], nil
}

// Decrypt decrypts ciphertext and verifies tag over it and ad with the given variant, key, and nonce.
//
// The plaintext is always returned, but it is authentic only if ok is true. If ok is false, the plaintext must be
// discarded.
func Decrypt(rate Rate, key, nonce, tag, ad, ciphertext []byte) (ok bool, plaintext []byte, err error) {
	if err := checkParams(rate, key, nonce); err != nil {
		return false, nil, err
	}

	if len(tag) != TagSize {
		return false, nil, ErrInvalidTagLength
	}

	var t [TagSize]byte
	plaintext = make([]byte, len(ciphertext))
	duplex.Unseal(int(rate), key, nonce, ad, plaintext, ciphertext, &t)
	return subtle.ConstantTimeCompare(t[:], tag) == 1, plaintext, nil
}

func checkParams(rate Rate, key, nonce []byte) error {
	switch {
	case !rate.Valid():
		return ErrInvalidRate
	case len(key) != KeySize:
		return ErrInvalidKeyLength
	case len(nonce) != NonceSize:
		return ErrInvalidNonceLength
	default:
		return nil
	}
}
