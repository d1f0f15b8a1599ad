package kat

import "fmt"

// A HashFunc returns the digest of a message.
type HashFunc func(msg []byte) []byte

// A SealFunc encrypts pt and returns the ciphertext followed by the tag. It returns an error if the parameters are
// unusable, such as a key or nonce of the wrong length.
type SealFunc func(key, nonce, ad, pt []byte) ([]byte, error)

// An OpenFunc decrypts ct, which ends with the tag, and reports whether it is authentic. As with SealFunc, an error
// means the parameters are unusable, not that the ciphertext is inauthentic.
type OpenFunc func(key, nonce, ad, ct []byte) ([]byte, bool, error)

// GenerateHash returns records for every message length from 0 to maxLen inclusive. Each message is 00 01 02 ...
func GenerateHash(maxLen int, hash HashFunc) []HashRecord {
	records := make([]HashRecord, 0, maxLen+1)
	for n := range maxLen + 1 {
		msg := counter(n)
		records = append(records, HashRecord{
			Count: n + 1,
			Msg:   msg,
			MD:    hash(msg),
		})
	}
	return records
}

// GenerateAEAD returns records for every combination of plaintext length from 0 to maxPT and associated data length
// from 0 to maxAD, with plaintext length varying slowest. The key and nonce are 00 01 ... 0f, as are the leading bytes
// of the plaintext and associated data. It stops at the first error returned by seal.
func GenerateAEAD(maxPT, maxAD int, seal SealFunc) ([]AEADRecord, error) {
	records := make([]AEADRecord, 0, (maxPT+1)*(maxAD+1))
	key, nonce := counter(16), counter(16)
	for ptLen := range maxPT + 1 {
		for adLen := range maxAD + 1 {
			pt, ad := counter(ptLen), counter(adLen)
			ct, err := seal(key, nonce, ad, pt)
			if err != nil {
				return nil, fmt.Errorf("count %d: %w", len(records)+1, err)
			}

			records = append(records, AEADRecord{
				Count: len(records) + 1,
				Key:   key,
				Nonce: nonce,
				PT:    pt,
				AD:    ad,
				CT:    ct,
			})
		}
	}
	return records, nil
}

func counter(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}
