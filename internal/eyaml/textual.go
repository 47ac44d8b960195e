package eyaml

import (
	"crypto/rsa"
	"encoding/base64"
	"strings"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
	"github.com/PolarWolf314/eyaml/internal/pkcs7"
	"github.com/PolarWolf314/eyaml/internal/secrets"
)

const (
	// Prefix opens every encrypted value.
	Prefix = "ENC[PKCS7,"
	// Suffix closes every encrypted value.
	Suffix = "]"
)

// Wrap returns the printable form of a DER envelope.
func Wrap(der []byte) string {
	return Prefix + base64.StdEncoding.EncodeToString(der) + Suffix
}

// Unwrap returns the DER bytes carried by text. A value without the
// ENC[PKCS7,...] frame is decoded as bare base64. Whitespace inside the
// base64 is ignored so folded YAML values can be passed as they are.
func Unwrap(text string) ([]byte, error) {
	body := text
	if strings.HasPrefix(text, Prefix) && strings.HasSuffix(text, Suffix) {
		body = text[len(Prefix) : len(text)-len(Suffix)]
	}
	body = strings.Join(strings.Fields(body), "")

	der, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, kerrors.WrapFormat("invalid base64 in encrypted value", err)
	}
	return der, nil
}

// Encode builds an envelope from the three per-encryption values and
// returns its printable form.
func Encode(encryptedKey, iv, encryptedContent []byte) (string, error) {
	env, err := pkcs7.BuildEnvelope(encryptedKey, iv, encryptedContent)
	if err != nil {
		return "", err
	}
	der, err := pkcs7.Marshal(env)
	if err != nil {
		return "", err
	}
	return Wrap(der), nil
}

// Decode reverses Encode. When the DER envelope is followed by extra bytes
// the returned error is a *errors.ResidualError carrying those bytes and
// the decoded *pkcs7.Envelope, and no values are returned.
func Decode(text string) (encryptedKey, iv, encryptedContent []byte, err error) {
	der, err := Unwrap(text)
	if err != nil {
		return nil, nil, nil, err
	}
	env, _, err := pkcs7.Unmarshal(der)
	if err != nil {
		return nil, nil, nil, err
	}
	return pkcs7.ParseEnvelope(env)
}

// EncryptBytes encrypts plaintext for pub and returns an ENC[PKCS7,...] value.
func EncryptBytes(plaintext []byte, pub *rsa.PublicKey) (string, error) {
	sealed, err := secrets.Encrypt(plaintext, pub)
	if err != nil {
		return "", err
	}
	return Encode(sealed.EncryptedKey, sealed.IV, sealed.EncryptedContent)
}

// EncryptString is EncryptBytes for UTF-8 text.
func EncryptString(plaintext string, pub *rsa.PublicKey) (string, error) {
	return EncryptBytes([]byte(plaintext), pub)
}

// DecryptBytes decrypts an ENC[PKCS7,...] value (or bare base64 envelope)
// with priv.
func DecryptBytes(text string, priv *rsa.PrivateKey) ([]byte, error) {
	encryptedKey, iv, encryptedContent, err := Decode(text)
	if err != nil {
		return nil, err
	}
	return secrets.Decrypt(encryptedKey, iv, encryptedContent, priv)
}

// DecryptString is DecryptBytes for values known to hold text.
func DecryptString(text string, priv *rsa.PrivateKey) (string, error) {
	plaintext, err := DecryptBytes(text, priv)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
