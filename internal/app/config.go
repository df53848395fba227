package app

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"yacen/internal/crypto"
	"yacen/internal/rpcauth"
)

// ConfigFilename is the name of the config file inside the home directory.
const ConfigFilename = "config.yaml"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home          string       `yaml:"-"`              // config directory, e.g. $HOME/.yacen
	DirectoryAddr string       `yaml:"directory_addr"` // directory gRPC target, e.g. 127.0.0.1:7070
	DirectoryKey  string       `yaml:"directory_key"`  // pinned directory public key, base58
	LogLevel      string       `yaml:"log_level"`
	LogFormat     string       `yaml:"log_format"` // "text" or "json"
	KDF           KDFConfig    `yaml:"kdf"`
	Headers       HeaderConfig `yaml:"headers"`
}

// KDFConfig sets the passphrase work factor for newly written files.
type KDFConfig struct {
	Iterations int `yaml:"iterations"`
}

// HeaderConfig names the metadata headers carrying signatures and keys.
type HeaderConfig struct {
	Signature string `yaml:"signature"`
	PublicKey string `yaml:"public_key"`
}

// DefaultHome returns $HOME/.yacen.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".yacen"), nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig(home string) Config {
	return Config{
		Home:      home,
		LogLevel:  "info",
		LogFormat: "text",
		KDF:       KDFConfig{Iterations: crypto.DefaultIterations},
		Headers: HeaderConfig{
			Signature: rpcauth.DefaultSignatureHeader,
			PublicKey: rpcauth.DefaultPublicKeyHeader,
		},
	}
}

// LoadConfig reads <home>/config.yaml over the defaults. A missing file
// yields the defaults; unknown keys are an error.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig(home)

	path := filepath.Join(home, ConfigFilename)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "read %s", path)
	}

	if len(bytes.TrimSpace(b)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}

// Save writes cfg to <home>/config.yaml.
func (c Config) Save() error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.Home, ConfigFilename), b, 0o600)
}

// Validate checks that cfg can be used to build the app.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.New("config: home must be set")
	}
	if c.KDF.Iterations < 1 {
		return errors.Wrapf(crypto.ErrInvalidIterations, "config: kdf.iterations = %d", c.KDF.Iterations)
	}
	sig, err := rpcauth.ValidateHeader(c.Headers.Signature)
	if err != nil {
		return errors.Wrap(err, "config: headers.signature")
	}
	pub, err := rpcauth.ValidateHeader(c.Headers.PublicKey)
	if err != nil {
		return errors.Wrap(err, "config: headers.public_key")
	}
	if sig == pub {
		return errors.Wrap(rpcauth.ErrHeaderName, "config: signature and public key headers must differ")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "config: log_level")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	}
	if c.DirectoryKey != "" {
		if _, err := crypto.DecodePublicKey(c.DirectoryKey); err != nil {
			return errors.Wrap(err, "config: directory_key")
		}
	}
	return nil
}
