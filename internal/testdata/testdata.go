// Package testdata provides a deterministic source of test inputs.
package testdata

import "crypto/sha3"

// A DRBG is a deterministic random bit generator for tests, fuzz seeds, and benchmarks. It is not suitable for
// generating secrets.
type DRBG struct {
	shake *sha3.SHAKE
}

// New returns a DRBG seeded with the given domain string.
func New(domain string) *DRBG {
	shake := sha3.NewSHAKE128()
	_, _ = shake.Write([]byte(domain))
	return &DRBG{shake: shake}
}

// Data returns the next n bytes of output.
func (d *DRBG) Data(n int) []byte {
	b := make([]byte, n)
	_, _ = d.shake.Read(b)
	return b
}
