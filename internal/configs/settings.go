package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName        = "eyaml"
	configFileName = "config.toml"

	// DefaultPublicKeyPath and DefaultPrivateKeyPath are where keys live
	// when neither a flag nor the config file names them.
	DefaultPublicKeyPath  = "~/.eyaml/public_key.pkcs7.pem"
	DefaultPrivateKeyPath = "~/.eyaml/private_key.pkcs7.pem"

	// ConfigEnv overrides the config file location.
	ConfigEnv = "EYAML_CONFIG"
)

// DefaultConfigPath returns $EYAML_CONFIG if set, otherwise
// <user config dir>/eyaml/config.toml.
func DefaultConfigPath() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting config directory: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}
