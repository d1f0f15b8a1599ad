package kat

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// VerifyHash checks hash against every record and returns an error listing every mismatch, or nil.
func VerifyHash(records []HashRecord, hash HashFunc) error {
	var result *multierror.Error
	for _, rec := range records {
		if got := hash(rec.Msg); !bytes.Equal(got, rec.MD) {
			result = multierror.Append(result, fmt.Errorf("count %d: MD = %X, want %X", rec.Count, got, rec.MD))
		}
	}
	return result.ErrorOrNil()
}

// VerifyAEAD checks seal and open against every record and returns an error listing every mismatch, or nil. Besides
// the forward direction, it checks that open recovers the plaintext and rejects the ciphertext with its last byte
// flipped.
func VerifyAEAD(records []AEADRecord, seal SealFunc, open OpenFunc) error {
	var result *multierror.Error
	for _, rec := range records {
		switch got, err := seal(rec.Key, rec.Nonce, rec.AD, rec.PT); {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("count %d: seal: %w", rec.Count, err))
		case !bytes.Equal(got, rec.CT):
			result = multierror.Append(result, fmt.Errorf("count %d: CT = %X, want %X", rec.Count, got, rec.CT))
		}

		pt, ok, err := open(rec.Key, rec.Nonce, rec.AD, rec.CT)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("count %d: open: %w", rec.Count, err))
			continue
		case !ok:
			result = multierror.Append(result, fmt.Errorf("count %d: authentic ciphertext rejected", rec.Count))
		case !bytes.Equal(pt, rec.PT):
			result = multierror.Append(result, fmt.Errorf("count %d: PT = %X, want %X", rec.Count, pt, rec.PT))
		}

		if len(rec.CT) == 0 {
			continue
		}

		forged := bytes.Clone(rec.CT)
		forged[len(forged)-1] ^= 1
		if _, ok, _ := open(rec.Key, rec.Nonce, rec.AD, forged); ok {
			result = multierror.Append(result, fmt.Errorf("count %d: forged ciphertext accepted", rec.Count))
		}
	}
	return result.ErrorOrNil()
}
