package configs

import (
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/eyaml/internal/utils"
)

// ErrConfigExists is returned by Init when the file is already present.
var ErrConfigExists = errors.New("config file already exists")

// Config is the on-disk eyaml configuration.
type Config struct {
	Keys   KeysConfig   `toml:"keys"`
	Output OutputConfig `toml:"output"`

	// Unknown lists keys in the file that eyaml does not recognise.
	Unknown []string `toml:"-"`
}

type KeysConfig struct {
	PublicKey  string `toml:"public_key"`
	PrivateKey string `toml:"private_key"`
}

type OutputConfig struct {
	// Format is one of string, block or yaml.
	Format string `toml:"format"`
	// Label is the default key for yaml output.
	Label string `toml:"label,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Keys: KeysConfig{
			PublicKey:  DefaultPublicKeyPath,
			PrivateKey: DefaultPrivateKeyPath,
		},
		Output: OutputConfig{
			Format: "string",
		},
	}
}

// Load reads the config at path. A missing file yields DefaultConfig.
// Empty fields in the file fall back to their defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	unknown, err := LoadTOML(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	config.Unknown = unknown

	defaults := DefaultConfig()
	if config.Keys.PublicKey == "" {
		config.Keys.PublicKey = defaults.Keys.PublicKey
	}
	if config.Keys.PrivateKey == "" {
		config.Keys.PrivateKey = defaults.Keys.PrivateKey
	}
	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}
	return config, nil
}

// Save writes config to path.
func Save(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Init writes DefaultConfig to path. It refuses to overwrite an existing
// file unless force is set.
func Init(path string, force bool) (*Config, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return nil, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	config := DefaultConfig()
	if err := Save(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// PublicKeyPath returns override if set, otherwise the configured path,
// with ~ expanded.
func (c *Config) PublicKeyPath(override string) (string, error) {
	if override != "" {
		return utils.ExpandHome(override)
	}
	return utils.ExpandHome(c.Keys.PublicKey)
}

// PrivateKeyPath returns override if set, otherwise the configured path,
// with ~ expanded.
func (c *Config) PrivateKeyPath(override string) (string, error) {
	if override != "" {
		return utils.ExpandHome(override)
	}
	return utils.ExpandHome(c.Keys.PrivateKey)
}
