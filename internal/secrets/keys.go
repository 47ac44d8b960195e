package secrets

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"

	"golang.org/x/crypto/ssh"
)

// PEM block types understood by ParsePublicKey and ParsePrivateKey.
const (
	pemRSAPublicKey   = "RSA PUBLIC KEY"
	pemPublicKey      = "PUBLIC KEY"
	pemCertificate    = "CERTIFICATE"
	pemRSAPrivateKey  = "RSA PRIVATE KEY"
	pemPrivateKey     = "PRIVATE KEY"
	pemOpenSSHPrivate = "OPENSSH PRIVATE KEY"
	pemEncryptedPKCS8 = "ENCRYPTED PRIVATE KEY"
)

// LoadPublicKey loads an RSA public key from disk.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrPublicKeyNotFound, path)
		}
		return nil, fmt.Errorf("failed to read public key %s: %w", path, err)
	}
	return ParsePublicKey(data)
}

// LoadPrivateKey loads an RSA private key from disk. passphrase may be nil
// for unencrypted keys.
func LoadPrivateKey(path string, passphrase []byte) (*rsa.PrivateKey, error) {
	data, err := ReadPrivateKeyFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(data, passphrase)
}

// ReadPrivateKeyFile returns the raw contents of a private key file, so a
// caller can retry ParsePrivateKey with a passphrase without reading twice.
func ReadPrivateKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrPrivateKeyNotFound, path)
		}
		return nil, fmt.Errorf("failed to read private key %s: %w", path, err)
	}
	return data, nil
}

// ParsePublicKey parses an RSA public key from a PKCS#1 or PKIX PEM block,
// an X.509 certificate, or an OpenSSH authorized_keys line.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return parseAuthorizedKey(data)
	}

	var pub any
	var err error
	switch block.Type {
	case pemRSAPublicKey:
		pub, err = x509.ParsePKCS1PublicKey(block.Bytes)
	case pemPublicKey:
		pub, err = x509.ParsePKIXPublicKey(block.Bytes)
	case pemCertificate:
		var cert *x509.Certificate
		if cert, err = x509.ParseCertificate(block.Bytes); err == nil {
			pub = cert.PublicKey
		}
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", kerrors.ErrInvalidPublicKey, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPublicKey, err)
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA public key", kerrors.ErrInvalidPublicKey)
	}
	return rsaPub, nil
}

func parseAuthorizedKey(data []byte) (*rsa.PublicKey, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey(bytes.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("%w: no PEM block or authorized key found", kerrors.ErrInvalidPublicKey)
	}
	cryptoPub, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported ssh key", kerrors.ErrInvalidPublicKey)
	}
	rsaPub, ok := cryptoPub.CryptoPublicKey().(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an RSA key", kerrors.ErrInvalidPublicKey, pub.Type())
	}
	return rsaPub, nil
}

// ParsePrivateKey parses an RSA private key from a PKCS#1, PKCS#8 or
// OpenSSH PEM block. Encrypted OpenSSH keys and legacy encrypted PEM keys
// need a passphrase; without one ErrPassphraseRequired is returned.
// Encrypted PKCS#8 keys are not supported.
func ParsePrivateKey(data, passphrase []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: failed to decode PEM block containing private key", kerrors.ErrInvalidPrivateKey)
	}

	if block.Type == pemOpenSSHPrivate || isLegacyEncrypted(block) {
		return parseOpenSSHPrivateKey(data, passphrase)
	}

	var key any
	var err error
	switch block.Type {
	case pemRSAPrivateKey:
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case pemPrivateKey:
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	case pemEncryptedPKCS8:
		return nil, fmt.Errorf("%w: encrypted PKCS#8 keys are not supported, convert with 'openssl pkey -traditional' or 'ssh-keygen -p'", kerrors.ErrInvalidPrivateKey)
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", kerrors.ErrInvalidPrivateKey, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPrivateKey, err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", kerrors.ErrInvalidPrivateKey)
	}
	return rsaKey, nil
}

func isLegacyEncrypted(block *pem.Block) bool {
	return strings.Contains(block.Headers["Proc-Type"], "ENCRYPTED")
}

// parseOpenSSHPrivateKey parses keys x/crypto/ssh knows how to decrypt.
func parseOpenSSHPrivateKey(data, passphrase []byte) (*rsa.PrivateKey, error) {
	var key any
	var err error
	if len(passphrase) == 0 {
		key, err = ssh.ParseRawPrivateKey(data)
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, kerrors.ErrPassphraseRequired
		}
	} else {
		key, err = ssh.ParseRawPrivateKeyWithPassphrase(data, passphrase)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPrivateKey, err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", kerrors.ErrInvalidPrivateKey)
	}
	return rsaKey, nil
}
