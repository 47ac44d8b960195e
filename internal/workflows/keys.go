package workflows

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/PolarWolf314/eyaml/internal/configs"
	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
	"github.com/PolarWolf314/eyaml/internal/secrets"
)

// KeyOptions selects the keys a workflow uses.
type KeyOptions struct {
	// ConfigPath is the config file to read. Empty means the default location.
	ConfigPath string

	// PublicKeyPath and PrivateKeyPath override the configured key paths.
	PublicKeyPath  string
	PrivateKeyPath string

	// PrivateKeyData holds a private key read from stdin. When set,
	// PrivateKeyPath and the config are ignored for the private key.
	PrivateKeyData []byte

	// Passphrase unlocks an encrypted private key.
	Passphrase []byte

	// PromptPassphrase is called once when the private key turns out to be
	// encrypted and Passphrase is empty. Nil disables prompting.
	PromptPassphrase func(prompt string) ([]byte, error)
}

func loadConfig(path string) (*configs.Config, error) {
	if path == "" {
		var err error
		if path, err = configs.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	return configs.Load(path)
}

// loadPublicKey resolves the public key path (flag, config, default) and
// loads it. The resolved path is returned for messages.
func loadPublicKey(opts KeyOptions) (*rsa.PublicKey, string, error) {
	config, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, "", err
	}
	path, err := config.PublicKeyPath(opts.PublicKeyPath)
	if err != nil {
		return nil, "", err
	}
	key, err := secrets.LoadPublicKey(path)
	if err != nil {
		return nil, path, err
	}
	return key, path, nil
}

// loadPrivateKey resolves and loads the private key, prompting for a
// passphrase once if the key is encrypted.
func loadPrivateKey(opts KeyOptions) (*rsa.PrivateKey, string, error) {
	var data []byte
	path := "stdin"

	if len(opts.PrivateKeyData) > 0 {
		data = opts.PrivateKeyData
	} else {
		config, err := loadConfig(opts.ConfigPath)
		if err != nil {
			return nil, "", err
		}
		if path, err = config.PrivateKeyPath(opts.PrivateKeyPath); err != nil {
			return nil, "", err
		}
		if data, err = secrets.ReadPrivateKeyFile(path); err != nil {
			return nil, path, err
		}
	}

	key, err := secrets.ParsePrivateKey(data, opts.Passphrase)
	if errors.Is(err, kerrors.ErrPassphraseRequired) && opts.PromptPassphrase != nil {
		passphrase, promptErr := opts.PromptPassphrase(fmt.Sprintf("Enter passphrase for %s: ", path))
		if promptErr != nil {
			return nil, path, fmt.Errorf("%w: %v", kerrors.ErrPassphraseRequired, promptErr)
		}
		key, err = secrets.ParsePrivateKey(data, passphrase)
	}
	if err != nil {
		return nil, path, err
	}
	return key, path, nil
}
