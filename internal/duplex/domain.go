package duplex

// A Domain is a domain separation constant, folded into the capacity after the last block of an input stream.
type Domain byte

// Empty is the constant folded when there is no input at all: an empty hash message, or an AEAD call with neither
// associated data nor a message.
const Empty Domain = 1

// A Stream is one of the two inputs to the AEAD scheme.
type Stream int

const (
	AssociatedData Stream = iota // The associated data, absorbed first.
	Message                      // The plaintext or ciphertext, processed with ρ.
)

// aeadDomains holds the AEAD constants, indexed by stream, by whether the other stream is empty, and by whether the
// stream's last block is full.
var aeadDomains = [2][2][2]Domain{ //nolint:gochecknoglobals // constant table
	AssociatedData: {
		{2, 1}, // message present: partial, full
		{4, 3}, // no message: partial, full
	},
	Message: {
		{2, 1}, // associated data present: partial, full
		{6, 5}, // no associated data: partial, full
	},
}

// Select returns the constant folded after the last block of a non-empty stream of n bytes, given the length of the
// other stream and the rate.
func Select(stream Stream, n, other, rate int) Domain {
	return aeadDomains[stream][index(other == 0)][index(n%rate == 0)]
}

// ForHash returns the constant folded after a hash message of n bytes has been absorbed. A message of up to
// HashInitialRate bytes fills the state directly; anything after that is absorbed HashRate bytes at a time.
func ForHash(n uint64) Domain {
	switch {
	case n == 0:
		return Empty
	case n < HashInitialRate:
		return 1
	case n == HashInitialRate:
		return 2
	case (n-HashInitialRate)%HashRate == 0:
		return 1
	default:
		return 2
	}
}

func index(b bool) int {
	if b {
		return 1
	}
	return 0
}
