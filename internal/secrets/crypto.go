package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
)

const (
	// SessionKeySize is the AES-256 session key length.
	SessionKeySize = 32
	// IVSize is the AES-CBC initialization vector length.
	IVSize = aes.BlockSize
)

// Sealed holds the three values an envelope carries.
type Sealed struct {
	// EncryptedKey is the session key encrypted to the recipient with
	// RSA PKCS#1 v1.5. Its length equals the recipient modulus size.
	EncryptedKey []byte
	// IV is the random AES-CBC initialization vector.
	IV []byte
	// EncryptedContent is the padded plaintext encrypted with AES-256-CBC.
	EncryptedContent []byte
}

// CreateSessionKey generates a random session key and IV.
func CreateSessionKey() (key, iv []byte, err error) {
	key = make([]byte, SessionKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	iv = make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate IV: %w", err)
	}
	return key, iv, nil
}

// Encrypt seals plaintext for the holder of the private half of pub, using
// a fresh session key and IV.
func Encrypt(plaintext []byte, pub *rsa.PublicKey) (*Sealed, error) {
	key, iv, err := CreateSessionKey()
	if err != nil {
		return nil, err
	}
	return EncryptWithSessionKey(plaintext, pub, key, iv)
}

// EncryptWithSessionKey seals plaintext with a caller-chosen session key and
// IV. Reusing a key/IV pair across plaintexts leaks information; this exists
// for reproducible output in tests and tooling.
func EncryptWithSessionKey(plaintext []byte, pub *rsa.PublicKey, sessionKey, iv []byte) (*Sealed, error) {
	if pub == nil {
		return nil, fmt.Errorf("no public key: %w", kerrors.ErrInvalidPublicKey)
	}
	if len(sessionKey) != SessionKeySize {
		return nil, fmt.Errorf("session key must be %d bytes, got %d", SessionKeySize, len(sessionKey))
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("IV must be %d bytes, got %d", IVSize, len(iv))
	}

	encryptedKey, err := EncryptWithPublicKey(sessionKey, pub)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt session key: %w", err)
	}

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	padded := Pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return &Sealed{
		EncryptedKey:     encryptedKey,
		IV:               append([]byte(nil), iv...),
		EncryptedContent: ciphertext,
	}, nil
}

// Decrypt recovers the plaintext sealed by Encrypt.
//
// A wrong key or corrupted key block yields ErrKeyUnwrap without detail.
// CBC has no integrity check: a modified ciphertext yields ErrPadding or a
// different plaintext.
func Decrypt(encryptedKey, iv, encryptedContent []byte, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("no private key: %w", kerrors.ErrInvalidPrivateKey)
	}
	if len(iv) != IVSize {
		return nil, kerrors.Format("IV must be %d bytes, got %d", IVSize, len(iv))
	}
	if len(encryptedContent) == 0 || len(encryptedContent)%aes.BlockSize != 0 {
		return nil, kerrors.CiphertextLength(len(encryptedContent))
	}

	sessionKey, err := DecryptWithPrivateKey(encryptedKey, priv)
	if err != nil || len(sessionKey) != SessionKeySize {
		return nil, kerrors.KeyUnwrap()
	}

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return nil, kerrors.KeyUnwrap()
	}
	padded := make([]byte, len(encryptedContent))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, encryptedContent)

	return Unpad(padded)
}

// DecryptWithPrivateKey decrypts data using an RSA private key.
func DecryptWithPrivateKey(ciphertext []byte, privateKey *rsa.PrivateKey) ([]byte, error) {
	return rsa.DecryptPKCS1v15(rand.Reader, privateKey, ciphertext)
}

// EncryptWithPublicKey encrypts data using an RSA public key.
func EncryptWithPublicKey(plaintext []byte, publicKey *rsa.PublicKey) ([]byte, error) {
	return rsa.EncryptPKCS1v15(rand.Reader, publicKey, plaintext)
}
