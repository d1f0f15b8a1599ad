package duplex

const (
	// HashInitialRate is the number of message bytes loaded into the state before the first hash permutation.
	HashInitialRate = 16

	// HashRate is the rate, in bytes, at which the remainder of a hash message is absorbed.
	HashRate = 4

	// TagSize is the size of an AEAD tag in bytes.
	TagSize = 16
)

// Hash writes the Photon-Beetle-Hash digest of message to digest.
func Hash(digest *[2 * MaxRate]byte, message []byte) {
	var d State
	switch n := len(message); {
	case n == 0:
	case n <= HashInitialRate:
		d.XOR(message)
		if n < HashInitialRate {
			d.Pad(n)
		}
	default:
		d.XOR(message[:HashInitialRate])
		d.Absorb(message[HashInitialRate:], HashRate)
	}
	d.Fold(ForHash(uint64(len(message))))
	d.Squeeze(digest[:])
	d.Clear()
}

// Seal encrypts plaintext to dst with the Beetle duplex at the given rate and writes the tag to tag. Dst must be at
// least as long as plaintext.
func Seal(rate int, key, nonce, ad, dst, plaintext []byte, tag *[TagSize]byte) {
	var d State
	d.Init(nonce, key)
	d.associate(ad, len(plaintext), rate)
	if len(plaintext) > 0 {
		d.Encrypt(dst, plaintext, rate)
		d.Fold(Select(Message, len(plaintext), len(ad), rate))
	}
	d.Squeeze(tag[:])
	d.Clear()
}

// Unseal decrypts ciphertext to dst with the Beetle duplex at the given rate and writes the tag it recomputes to tag.
// Dst must be at least as long as ciphertext. The caller compares the tags.
func Unseal(rate int, key, nonce, ad, dst, ciphertext []byte, tag *[TagSize]byte) {
	var d State
	d.Init(nonce, key)
	d.associate(ad, len(ciphertext), rate)
	if len(ciphertext) > 0 {
		d.Decrypt(dst, ciphertext, rate)
		d.Fold(Select(Message, len(ciphertext), len(ad), rate))
	}
	d.Squeeze(tag[:])
	d.Clear()
}

// associate absorbs the associated data, or folds the empty constant if there is neither associated data nor a
// message.
func (d *State) associate(ad []byte, messageLen, rate int) {
	switch {
	case len(ad) > 0:
		d.Absorb(ad, rate)
		d.Fold(Select(AssociatedData, len(ad), messageLen, rate))
	case messageLen == 0:
		d.Fold(Empty)
	}
}
