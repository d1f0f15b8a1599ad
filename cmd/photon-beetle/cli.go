package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/codahale/photonbeetle"
	"github.com/codahale/photonbeetle/digest"
	"github.com/codahale/photonbeetle/internal/config"
	"github.com/codahale/photonbeetle/internal/kat"
	"github.com/codahale/photonbeetle/internal/log"
)

// Automatically set through -ldflags
// Example: go install -ldflags "-X main.version=`git describe --tags`"
var version = "master" //nolint:gochecknoglobals // set by the linker

const (
	hashKATFile = "LWC_HASH_KAT_256.txt"
	aeadKATFile = "LWC_AEAD_KAT_128_128.txt"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Usage:   "Load settings from the TOML file at `PATH`.",
	EnvVars: []string{"PHOTON_BEETLE_CONFIG"},
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "If set, verbosity is at the debug level",
}

var jsonLogsFlag = &cli.BoolFlag{
	Name:  "json-logs",
	Usage: "If set, log statements are written as JSON objects",
}

var rateFlag = &cli.IntFlag{
	Name:  "rate",
	Usage: "The AEAD variant, by rate in bits: 32 or 128. Defaults to the configured rate.",
}

var keyFlag = &cli.StringFlag{
	Name:     "key",
	Usage:    "The 16-byte key, in hex.",
	Required: true,
}

var nonceFlag = &cli.StringFlag{
	Name:     "nonce",
	Usage:    "The 16-byte nonce, in hex.",
	Required: true,
}

var adFlag = &cli.StringFlag{
	Name:  "ad",
	Usage: "The associated data, in hex.",
}

var ptFlag = &cli.StringFlag{
	Name:  "pt",
	Usage: "The plaintext, in hex.",
}

var ctFlag = &cli.StringFlag{
	Name:     "ct",
	Usage:    "The ciphertext followed by the tag, in hex.",
	Required: true,
}

var outFlag = &cli.StringFlag{
	Name:  "out",
	Value: ".",
	Usage: "Write the KAT files into subdirectories of `DIR`.",
}

var maxMessageFlag = &cli.IntFlag{
	Name:  "max-message",
	Usage: "The longest hash message, in bytes. Defaults to the configured bound.",
}

var maxPlaintextFlag = &cli.IntFlag{
	Name:  "max-plaintext",
	Usage: "The longest AEAD plaintext, in bytes. Defaults to the configured bound.",
}

var maxADFlag = &cli.IntFlag{
	Name:  "max-ad",
	Usage: "The longest AEAD associated data, in bytes. Defaults to the configured bound.",
}

var kindFlag = &cli.StringFlag{
	Name:     "kind",
	Usage:    "The kind of KAT file: hash, aead32, or aead128.",
	Required: true,
}

// app holds the state shared by every command once the global flags have been processed.
type app struct {
	cfg config.Config
	log log.Logger
}

// CLI returns the photon-beetle app.
func CLI() *cli.App {
	a := new(app)
	return &cli.App{
		Name:    "photon-beetle",
		Version: version,
		Usage:   "Photon-Beetle hashing, authenticated encryption, and test vectors",
		Flags:   toArray(configFlag, verboseFlag, jsonLogsFlag),
		Before:  a.setup,
		After:   a.teardown,
		// Errors are returned from Run instead of exiting, so tests can run several commands.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:      "hash",
				Usage:     "Print the Photon-Beetle-Hash digest of a file, or of standard input.",
				ArgsUsage: "[FILE]",
				Action:    a.hash,
			},
			{
				Name:   "encrypt",
				Usage:  "Encrypt a plaintext and print the ciphertext followed by the tag, in hex.",
				Flags:  toArray(rateFlag, keyFlag, nonceFlag, adFlag, ptFlag),
				Action: a.encrypt,
			},
			{
				Name:   "decrypt",
				Usage:  "Decrypt and verify a ciphertext and print the plaintext, in hex.",
				Flags:  toArray(rateFlag, keyFlag, nonceFlag, adFlag, ctFlag),
				Action: a.decrypt,
			},
			{
				Name:   "genkat",
				Usage:  "Write Known-Answer-Test files for the hash and both AEAD variants.",
				Flags:  toArray(outFlag, maxMessageFlag, maxPlaintextFlag, maxADFlag),
				Action: a.genkat,
			},
			{
				Name:      "checkkat",
				Usage:     "Verify Known-Answer-Test files and report every mismatch.",
				ArgsUsage: "FILE...",
				Flags:     toArray(kindFlag),
				Action:    a.checkkat,
			},
		},
	}
}

func (a *app) setup(c *cli.Context) error {
	a.cfg = config.Default()
	if c.IsSet(configFlag.Name) {
		cfg, err := config.Load(c.String(configFlag.Name))
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	if c.Bool(verboseFlag.Name) {
		a.cfg.LogLevel = "debug"
	}

	if c.Bool(jsonLogsFlag.Name) {
		a.cfg.JSONLogs = true
	}

	level, err := log.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}

	a.log = log.New(zapcore.AddSync(c.App.ErrWriter), level, a.cfg.JSONLogs).Named("photon-beetle")
	a.log.Debugw("configured", "rate", a.cfg.Rate, "level", a.cfg.LogLevel)
	return nil
}

func (a *app) teardown(*cli.Context) error {
	if a.log == nil {
		return nil
	}
	_ = a.log.Sync()
	return nil
}

func (a *app) hash(c *cli.Context) error {
	in := c.App.Reader
	name := "-"
	if c.Args().Present() {
		name = c.Args().First()
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	h := digest.New()
	n, err := io.Copy(h, in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	a.log.Debugw("hashed", "input", name, "bytes", n)
	_, err = fmt.Fprintf(c.App.Writer, "%x\n", h.Sum(nil))
	return err
}

func (a *app) encrypt(c *cli.Context) error {
	rate, key, nonce, ad, err := a.aeadParams(c)
	if err != nil {
		return err
	}

	pt, err := hexFlag(c, ptFlag)
	if err != nil {
		return err
	}

	ct, tag, err := photonbeetle.Encrypt(rate, key, nonce, ad, pt)
	if err != nil {
		return err
	}

	a.log.Debugw("encrypted", "variant", rate, "ad", len(ad), "pt", len(pt))
	_, err = fmt.Fprintf(c.App.Writer, "%x%x\n", ct, tag)
	return err
}

func (a *app) decrypt(c *cli.Context) error {
	rate, key, nonce, ad, err := a.aeadParams(c)
	if err != nil {
		return err
	}

	sealed, err := hexFlag(c, ctFlag)
	if err != nil {
		return err
	}

	if len(sealed) < photonbeetle.TagSize {
		return fmt.Errorf("--%s must be at least %d bytes long", ctFlag.Name, photonbeetle.TagSize)
	}

	n := len(sealed) - photonbeetle.TagSize
	ok, pt, err := photonbeetle.Decrypt(rate, key, nonce, sealed[n:], ad, sealed[:n])
	if err != nil {
		return err
	}

	if !ok {
		a.log.Warnw("verification failed", "variant", rate)
		return cli.Exit("message authentication failed", 1)
	}

	a.log.Debugw("decrypted", "variant", rate, "ad", len(ad), "ct", n)
	_, err = fmt.Fprintf(c.App.Writer, "%x\n", pt)
	return err
}

func (a *app) aeadParams(c *cli.Context) (rate photonbeetle.Rate, key, nonce, ad []byte, err error) {
	rate = a.cfg.AEADRate()
	if c.IsSet(rateFlag.Name) {
		if rate, err = photonbeetle.ParseRate(c.Int(rateFlag.Name)); err != nil {
			return 0, nil, nil, nil, err
		}
	}

	if key, err = hexFlag(c, keyFlag); err != nil {
		return 0, nil, nil, nil, err
	}

	if nonce, err = hexFlag(c, nonceFlag); err != nil {
		return 0, nil, nil, nil, err
	}

	if ad, err = hexFlag(c, adFlag); err != nil {
		return 0, nil, nil, nil, err
	}

	return rate, key, nonce, ad, nil
}

func (a *app) genkat(c *cli.Context) error {
	bounds := a.cfg.KAT
	if c.IsSet(maxMessageFlag.Name) {
		bounds.MaxMessage = c.Int(maxMessageFlag.Name)
	}
	if c.IsSet(maxPlaintextFlag.Name) {
		bounds.MaxPlaintext = c.Int(maxPlaintextFlag.Name)
	}
	if c.IsSet(maxADFlag.Name) {
		bounds.MaxAD = c.Int(maxADFlag.Name)
	}
	if bounds.MaxMessage < 0 || bounds.MaxPlaintext < 0 || bounds.MaxAD < 0 {
		return errors.New("KAT bounds must not be negative")
	}

	out := c.String(outFlag.Name)

	hashRecords := kat.GenerateHash(bounds.MaxMessage, sum)
	if err := writeKAT(filepath.Join(out, "photon-beetle-hash", hashKATFile), func(w io.Writer) error {
		return kat.WriteHash(w, hashRecords)
	}); err != nil {
		return err
	}
	a.log.Infow("wrote hash KAT", "records", len(hashRecords))

	for _, rate := range []photonbeetle.Rate{photonbeetle.Rate32, photonbeetle.Rate128} {
		records, err := kat.GenerateAEAD(bounds.MaxPlaintext, bounds.MaxAD, seal(rate))
		if err != nil {
			return fmt.Errorf("generating %s KAT: %w", rate, err)
		}

		dir := fmt.Sprintf("photon-beetle-aead%d", rate.Bits())
		if err := writeKAT(filepath.Join(out, dir, aeadKATFile), func(w io.Writer) error {
			return kat.WriteAEAD(w, records)
		}); err != nil {
			return err
		}
		a.log.Infow("wrote AEAD KAT", "variant", rate, "records", len(records))
	}

	return nil
}

func (a *app) checkkat(c *cli.Context) error {
	if !c.Args().Present() {
		return errors.New("checkkat expects at least one FILE")
	}

	var check func([]byte) (int, error)
	switch kind := c.String(kindFlag.Name); kind {
	case "hash":
		check = func(b []byte) (int, error) {
			records, err := kat.ReadHash(bytes.NewReader(b))
			if err != nil {
				return 0, err
			}
			return len(records), kat.VerifyHash(records, sum)
		}
	case "aead32", "aead128":
		rate := photonbeetle.Rate32
		if kind == "aead128" {
			rate = photonbeetle.Rate128
		}
		check = func(b []byte) (int, error) {
			records, err := kat.ReadAEAD(bytes.NewReader(b))
			if err != nil {
				return 0, err
			}
			return len(records), kat.VerifyAEAD(records, seal(rate), open(rate))
		}
	default:
		return fmt.Errorf("unknown KAT kind %q", kind)
	}

	var failed []string
	for _, name := range c.Args().Slice() {
		b, err := os.ReadFile(name)
		if err != nil {
			return err
		}

		n, err := check(b)
		if err != nil {
			a.log.Errorw("KAT failed", "file", name, "err", err)
			failed = append(failed, name)
			continue
		}

		a.log.Infow("KAT passed", "file", name, "records", n)
		_, _ = fmt.Fprintf(c.App.Writer, "%s: ok (%d records)\n", name, n)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d KAT files failed: %v", len(failed), c.NArg(), failed)
	}
	return nil
}

func writeKAT(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // KAT files are public
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func hexFlag(c *cli.Context, flag *cli.StringFlag) ([]byte, error) {
	b, err := hex.DecodeString(c.String(flag.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag.Name, err)
	}
	return b, nil
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

func toArray(flags ...cli.Flag) []cli.Flag {
	return flags
}
