// Package photonbeetle implements the [Photon-Beetle] family of lightweight authenticated encryption and hash
// algorithms: Photon-Beetle-Hash, a 256-bit hash function, and two AEAD schemes, Photon-Beetle-AEAD[32] and
// Photon-Beetle-AEAD[128], which differ only in how many bytes of state they process per permutation.
//
// All three are built on the [PHOTON-256] permutation, operating on a 256-bit state with the Beetle mode of
// operation. By default, the permutation uses a table-driven implementation which works on packed rows of the state. If
// the purego build tag is used, it instead uses a much-slower nibble-at-a-time implementation which mirrors the
// algorithm's description.
//
// [Photon-Beetle]: https://csrc.nist.gov/projects/lightweight-cryptography/finalists
// [PHOTON-256]: https://eprint.iacr.org/2011/609.pdf
package photonbeetle

import (
	"errors"
	"fmt"
)

const (
	// KeySize is the size of an AEAD key in bytes.
	KeySize = 16

	// NonceSize is the size of an AEAD nonce in bytes.
	NonceSize = 16

	// TagSize is the size of an AEAD authentication tag in bytes.
	TagSize = 16

	// DigestSize is the size of a Photon-Beetle-Hash digest in bytes.
	DigestSize = 32
)

var (
	// ErrInvalidKeyLength is returned when a key is not KeySize bytes long.
	ErrInvalidKeyLength = errors.New("photonbeetle: invalid key length")

	// ErrInvalidNonceLength is returned when a nonce is not NonceSize bytes long.
	ErrInvalidNonceLength = errors.New("photonbeetle: invalid nonce length")

	// ErrInvalidTagLength is returned when a tag is not TagSize bytes long.
	ErrInvalidTagLength = errors.New("photonbeetle: invalid tag length")

	// ErrInvalidRate is returned when a Rate is neither Rate32 nor Rate128.
	ErrInvalidRate = errors.New("photonbeetle: invalid rate")
)

// A Rate selects one of the two Photon-Beetle-AEAD variants by the number of bytes of state absorbed per permutation.
type Rate int

const (
	// Rate32 selects Photon-Beetle-AEAD[32], which processes 4 bytes per permutation.
	Rate32 Rate = 4

	// Rate128 selects Photon-Beetle-AEAD[128], which processes 16 bytes per permutation.
	Rate128 Rate = 16
)

// ParseRate returns the Rate with the given width in bits, either 32 or 128.
func ParseRate(bits int) (Rate, error) {
	switch bits {
	case 32:
		return Rate32, nil
	case 128:
		return Rate128, nil
	default:
		return 0, fmt.Errorf("%w: %d bits", ErrInvalidRate, bits)
	}
}

// Bits returns the width of the rate in bits.
func (r Rate) Bits() int {
	return int(r) * 8
}

func (r Rate) String() string {
	switch r {
	case Rate32:
		return "Photon-Beetle-AEAD[32]"
	case Rate128:
		return "Photon-Beetle-AEAD[128]"
	default:
		return fmt.Sprintf("Rate(%d)", int(r))
	}
}

// Valid reports whether r is Rate32 or Rate128.
func (r Rate) Valid() bool {
	return r == Rate32 || r == Rate128
}
