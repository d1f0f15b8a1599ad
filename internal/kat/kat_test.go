package kat_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/codahale/photonbeetle"
	"github.com/codahale/photonbeetle/internal/kat"
)

const (
	hashFile    = "../../testdata/photon-beetle-hash/LWC_HASH_KAT_256.txt"
	aead32File  = "../../testdata/photon-beetle-aead32/LWC_AEAD_KAT_128_128.txt"
	aead128File = "../../testdata/photon-beetle-aead128/LWC_AEAD_KAT_128_128.txt"
)

func TestReadHash(t *testing.T) {
	records := readHash(t)
	require.Len(t, records, 65)

	first := records[0]
	require.Equal(t, 1, first.Count)
	require.Empty(t, first.Msg)
	require.Equal(t, "44A99882FEA033566856A27E7F0C94DC84FAC7E411B08B890A4A574E3DB75D4A", upperHex(first.MD))

	last := records[64]
	require.Equal(t, 65, last.Count)
	require.Len(t, last.Msg, 64)
}

func TestReadAEAD(t *testing.T) {
	records := readAEAD(t, aead32File)
	require.Len(t, records, 625)

	first := records[0]
	require.Equal(t, 1, first.Count)
	require.Equal(t, "000102030405060708090A0B0C0D0E0F", upperHex(first.Key))
	require.Equal(t, "000102030405060708090A0B0C0D0E0F", upperHex(first.Nonce))
	require.Empty(t, first.PT)
	require.Empty(t, first.AD)
	require.Equal(t, "DF4E0BAC1162408098FA5CF084D8F464", upperHex(first.CT))

	// Plaintext length varies slowest.
	require.Len(t, records[1].AD, 1)
	require.Empty(t, records[1].PT)
	require.Len(t, records[25].PT, 1)
	require.Empty(t, records[25].AD)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing separator", "Count = 1\nMsg\n", "line 2"},
		{"missing field", "Count = 1\nMsg = 00\n\n", "missing field: MD"},
		{"bad hex", "Count = 1\nMsg = 0G\nMD = 00\n", "invalid Msg"},
		{"bad count", "Count = one\nMsg = 00\nMD = 00\n", "invalid Count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := kat.ReadHash(strings.NewReader(tt.input))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("missing AEAD field", func(t *testing.T) {
		_, err := kat.ReadAEAD(strings.NewReader("Count = 1\nKey = 00\nNonce = 00\nPT = \nAD = \n"))
		require.ErrorIs(t, err, kat.ErrMissingField)
	})
}

func TestWriteHash_RoundTrip(t *testing.T) {
	want, err := os.ReadFile(hashFile)
	require.NoError(t, err)

	records, err := kat.ReadHash(bytes.NewReader(want))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, kat.WriteHash(&buf, records))
	require.Equal(t, string(want), buf.String())
}

func TestGenerateHash(t *testing.T) {
	want, err := os.ReadFile(hashFile)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, kat.WriteHash(&buf, kat.GenerateHash(64, sum)))
	require.Equal(t, string(want), buf.String())
}

func TestGenerateAEAD(t *testing.T) {
	for _, tt := range []struct {
		file string
		rate photonbeetle.Rate
	}{
		{aead32File, photonbeetle.Rate32},
		{aead128File, photonbeetle.Rate128},
	} {
		t.Run(filepath.Base(filepath.Dir(tt.file)), func(t *testing.T) {
			want, err := os.ReadFile(tt.file)
			require.NoError(t, err)

			records, err := kat.GenerateAEAD(24, 24, seal(tt.rate))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, kat.WriteAEAD(&buf, records))
			require.Equal(t, string(want), buf.String())
		})
	}
}

func TestVerifyHash(t *testing.T) {
	records := readHash(t)
	require.NoError(t, kat.VerifyHash(records, sum))

	records[3].MD[0] ^= 1
	records[9].MD[0] ^= 1

	err := kat.VerifyHash(records, sum)
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
	require.Contains(t, merr.Errors[0].Error(), "count 4")
	require.Contains(t, merr.Errors[1].Error(), "count 10")
}

func TestVerifyAEAD(t *testing.T) {
	records := readAEAD(t, aead128File)
	require.NoError(t, kat.VerifyAEAD(records, seal(photonbeetle.Rate128), open(photonbeetle.Rate128)))

	t.Run("wrong variant", func(t *testing.T) {
		err := kat.VerifyAEAD(records[:30], seal(photonbeetle.Rate32), open(photonbeetle.Rate32))
		require.Error(t, err)
	})

	t.Run("accepts forgeries", func(t *testing.T) {
		lax := func(key, nonce, ad, ct []byte) ([]byte, bool, error) {
			pt, _, err := open(photonbeetle.Rate128)(key, nonce, ad, ct)
			return pt, true, err
		}

		err := kat.VerifyAEAD(records[:1], seal(photonbeetle.Rate128), lax)
		require.ErrorContains(t, err, "forged ciphertext accepted")
	})

	t.Run("bad key length", func(t *testing.T) {
		bad := []kat.AEADRecord{records[0], records[1]}
		bad[1].Key = bad[1].Key[:15]

		err := kat.VerifyAEAD(bad, seal(photonbeetle.Rate128), open(photonbeetle.Rate128))
		require.ErrorIs(t, err, photonbeetle.ErrInvalidKeyLength)

		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		require.Len(t, merr.Errors, 2)
		require.Contains(t, merr.Errors[0].Error(), "count 2: seal")
		require.Contains(t, merr.Errors[1].Error(), "count 2: open")
	})
}

func TestGenerateAEAD_SealError(t *testing.T) {
	failing := func(key, nonce, ad, pt []byte) ([]byte, error) {
		if len(pt) == 1 && len(ad) == 2 {
			return nil, photonbeetle.ErrInvalidNonceLength
		}
		return seal(photonbeetle.Rate32)(key, nonce, ad, pt)
	}

	records, err := kat.GenerateAEAD(2, 2, failing)
	require.ErrorIs(t, err, photonbeetle.ErrInvalidNonceLength)
	require.ErrorContains(t, err, "count 6")
	require.Nil(t, records)
}

func readHash(t *testing.T) []kat.HashRecord {
	t.Helper()

	f, err := os.Open(hashFile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	records, err := kat.ReadHash(f)
	require.NoError(t, err)
	return records
}

func readAEAD(t *testing.T, name string) []kat.AEADRecord {
	t.Helper()

	f, err := os.Open(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	records, err := kat.ReadAEAD(f)
	require.NoError(t, err)
	return records
}

func upperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func sum(msg []byte) []byte {
	d := photonbeetle.Sum256(msg)
	return d[:]
}

func seal(rate photonbeetle.Rate) kat.SealFunc {
	return func(key, nonce, ad, pt []byte) ([]byte, error) {
		ct, tag, err := photonbeetle.Encrypt(rate, key, nonce, ad, pt)
		if err != nil {
			return nil, err
		}
		return append(ct, tag...), nil
	}
}

func open(rate photonbeetle.Rate) kat.OpenFunc {
	return func(key, nonce, ad, ct []byte) ([]byte, bool, error) {
		if len(ct) < photonbeetle.TagSize {
			return nil, false, nil
		}
		n := len(ct) - photonbeetle.TagSize
		ok, pt, err := photonbeetle.Decrypt(rate, key, nonce, ct[n:], ad, ct[:n])
		return pt, ok, err
	}
}
