// Package photon256 provides an implementation of the PHOTON-256 permutation, as used by [Photon-Beetle].
//
// The 256-bit state is an 8x8 grid of 4-bit cells stored as 32 bytes: row r occupies bytes 4r..4r+3, and cell c of a
// row is the low nibble of byte 4r+c/2 when c is even and the high nibble when c is odd.
//
// By default, the permutation works on rows packed into 32-bit words and uses an 8-bit S-box and a precomputed
// mixing matrix. If the purego build tag is used, it runs the cell-by-cell reference implementation instead.
//
// [Photon-Beetle]: https://csrc.nist.gov/CSRC/media/Projects/lightweight-cryptography/documents/finalist-round/updated-spec-doc/photon-beetle-spec-final.pdf
package photon256

const (
	// Width is the permutation's width in bytes.
	Width = 32

	// Rounds is the number of rounds in the full permutation.
	Rounds = 12
)

// Permute applies the 12-round PHOTON-256 permutation to a 256-bit state.
func Permute(state *[Width]byte) {
	permute(state)
}
