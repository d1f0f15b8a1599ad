// Package config loads the TOML configuration file of the photon-beetle command.
//
// Every field is optional. A configuration file looks like this:
//
//	rate = 128
//	log_level = "debug"
//	json_logs = false
//
//	[kat]
//	max_message = 1024
//	max_plaintext = 32
//	max_ad = 32
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/codahale/photonbeetle"
	"github.com/codahale/photonbeetle/internal/log"
)

// Config holds the settings of the photon-beetle command.
type Config struct {
	// Rate is the width in bits of the default AEAD variant, either 32 or 128.
	Rate int `toml:"rate"`

	// LogLevel is the minimum level of log statements, e.g. "info" or "debug".
	LogLevel string `toml:"log_level"`

	// JSONLogs selects JSON-formatted log statements.
	JSONLogs bool `toml:"json_logs"`

	// KAT bounds the Known-Answer-Test files written by genkat.
	KAT KAT `toml:"kat"`
}

// KAT holds the input length bounds of generated Known-Answer-Test files.
type KAT struct {
	MaxMessage   int `toml:"max_message"`
	MaxPlaintext int `toml:"max_plaintext"`
	MaxAD        int `toml:"max_ad"`
}

// Default returns the configuration used when no file is given. Its KAT bounds match the NIST reference genkat
// programs.
func Default() Config {
	return Config{
		Rate:     128,
		LogLevel: "info",
		KAT: KAT{
			MaxMessage:   1024,
			MaxPlaintext: 32,
			MaxAD:        32,
		},
	}
}

// Load reads the configuration file at path on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(b), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate returns an error if any setting is out of range.
func (c *Config) Validate() error {
	if _, err := photonbeetle.ParseRate(c.Rate); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	if c.KAT.MaxMessage < 0 || c.KAT.MaxPlaintext < 0 || c.KAT.MaxAD < 0 {
		return errors.New("KAT bounds must not be negative")
	}
	return nil
}

// AEADRate returns the configured AEAD variant.
func (c *Config) AEADRate() photonbeetle.Rate {
	r, _ := photonbeetle.ParseRate(c.Rate)
	return r
}
