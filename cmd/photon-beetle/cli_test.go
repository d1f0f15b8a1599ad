package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// run runs the app with the given arguments and returns what it wrote to stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := CLI()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.Run(append([]string{"photon-beetle"}, args...))
	return out.String(), errOut.String(), err
}

func TestHash(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		out, _, err := run(t, "hello world", "hash")
		require.NoError(t, err)
		require.Equal(t, "9a17493b10e20ec4c424c4fe8a0c246cd2e67ff7113eb349076eb6a1f7b4e62c\n", out)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		out, _, err := run(t, "", "hash", path)
		require.NoError(t, err)
		require.Equal(t, "44a99882fea033566856a27e7f0c94dc84fac7e411b08b890a4a574e3db75d4a\n", out)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "", "hash", filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
	})
}

func TestEncryptDecrypt(t *testing.T) {
	key := hexOf("a 16-byte secret")
	nonce := hexOf("a 16-byte nonce!")
	ad := hexOf("some additional data")
	pt := hexOf("hello world")

	tests := []struct {
		rate string
		want string
	}{
		{"32", "1b82998e6ea026be0d917fef39d1ad29ed2c8560498380845c63d9"},
		{"128", "60a47e44415cb6a146ac3cf8e97b4d00b0e31d7099e1dd8591ed65"},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			out, _, err := run(t, "", "encrypt", "--rate", tt.rate, "--key", key, "--nonce", nonce, "--ad", ad, "--pt", pt)
			require.NoError(t, err)
			require.Equal(t, tt.want+"\n", out)

			out, _, err = run(t, "", "decrypt", "--rate", tt.rate, "--key", key, "--nonce", nonce, "--ad", ad, "--ct", tt.want)
			require.NoError(t, err)
			require.Equal(t, pt+"\n", out)

			forged := "00" + tt.want[2:]
			out, stderr, err := run(t, "", "decrypt", "--rate", tt.rate, "--key", key, "--nonce", nonce, "--ad", ad, "--ct", forged)
			require.ErrorContains(t, err, "message authentication failed")
			require.Empty(t, out)
			require.Contains(t, stderr, "verification failed")
		})
	}

	t.Run("default rate", func(t *testing.T) {
		out, _, err := run(t, "", "encrypt", "--key", key, "--nonce", nonce, "--ad", ad, "--pt", pt)
		require.NoError(t, err)
		require.Equal(t, tests[1].want+"\n", out)
	})

	t.Run("configured rate", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("rate = 32\n"), 0o600))

		out, _, err := run(t, "", "--config", path, "encrypt", "--key", key, "--nonce", nonce, "--ad", ad, "--pt", pt)
		require.NoError(t, err)
		require.Equal(t, tests[0].want+"\n", out)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, _, err := run(t, "", "encrypt", "--rate", "64", "--key", key, "--nonce", nonce)
		require.ErrorContains(t, err, "invalid rate")

		_, _, err = run(t, "", "encrypt", "--key", key[:30], "--nonce", nonce)
		require.ErrorContains(t, err, "invalid key length")

		_, _, err = run(t, "", "encrypt", "--key", key, "--nonce", "zz")
		require.ErrorContains(t, err, "invalid --nonce")

		_, _, err = run(t, "", "decrypt", "--key", key, "--nonce", nonce, "--ct", "00")
		require.ErrorContains(t, err, "at least 16 bytes")
	})
}

func TestGenKAT(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := run(t, "", "--json-logs", "genkat", "--out", dir, "--max-message", "64", "--max-plaintext", "24", "--max-ad", "24")
	require.NoError(t, err)
	require.Contains(t, stderr, `"records":625`)

	for _, name := range []string{
		"photon-beetle-hash/LWC_HASH_KAT_256.txt",
		"photon-beetle-aead32/LWC_AEAD_KAT_128_128.txt",
		"photon-beetle-aead128/LWC_AEAD_KAT_128_128.txt",
	} {
		want, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
		require.NoError(t, err)

		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		require.Equal(t, string(want), string(got), name)
	}
}

func TestCheckKAT(t *testing.T) {
	testdata := filepath.Join("..", "..", "testdata")

	t.Run("passing", func(t *testing.T) {
		out, _, err := run(t, "", "checkkat", "--kind", "aead128",
			filepath.Join(testdata, "photon-beetle-aead128", "LWC_AEAD_KAT_128_128.txt"))
		require.NoError(t, err)
		require.Contains(t, out, "ok (625 records)")
	})

	t.Run("wrong kind", func(t *testing.T) {
		_, stderr, err := run(t, "", "checkkat", "--kind", "aead32",
			filepath.Join(testdata, "photon-beetle-aead128", "LWC_AEAD_KAT_128_128.txt"))
		require.ErrorContains(t, err, "1 of 1 KAT files failed")
		require.Contains(t, stderr, "KAT failed")
	})

	t.Run("corrupted", func(t *testing.T) {
		b, err := os.ReadFile(filepath.Join(testdata, "photon-beetle-hash", "LWC_HASH_KAT_256.txt"))
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "hash.txt")
		corrupted := strings.Replace(string(b), "MD = 44A9", "MD = 45A9", 1)
		require.NoError(t, os.WriteFile(path, []byte(corrupted), 0o600))

		_, stderr, err := run(t, "", "checkkat", "--kind", "hash", path)
		require.Error(t, err)
		require.Contains(t, stderr, "count 1")
	})

	t.Run("short key", func(t *testing.T) {
		b, err := os.ReadFile(filepath.Join(testdata, "photon-beetle-aead32", "LWC_AEAD_KAT_128_128.txt"))
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "aead.txt")
		short := strings.Replace(string(b), "Key = 000102030405060708090A0B0C0D0E0F", "Key = 000102030405060708090A0B0C0D0E", 1)
		require.NoError(t, os.WriteFile(path, []byte(short), 0o600))

		_, stderr, err := run(t, "", "checkkat", "--kind", "aead32", path)
		require.Error(t, err)
		require.Contains(t, stderr, "count 1: seal: photonbeetle: invalid key length")
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := run(t, "", "checkkat", "--kind", "xof", "file")
		require.ErrorContains(t, err, "unknown KAT kind")
	})
}

func TestVerbose(t *testing.T) {
	_, stderr, err := run(t, "hello", "--verbose", "hash")
	require.NoError(t, err)
	require.Contains(t, stderr, "DEBUG")
	require.Contains(t, stderr, "hashed")

	_, stderr, err = run(t, "hello", "hash")
	require.NoError(t, err)
	require.NotContains(t, stderr, "DEBUG")
}

func hexOf(s string) string {
	return hex.EncodeToString([]byte(s))
}
