package eyaml

import (
	"encoding/hex"
	"errors"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
	"github.com/PolarWolf314/eyaml/internal/pkcs7"
)

// Info describes the envelope inside an encrypted value without
// decrypting it.
type Info struct {
	ContentType            string      `yaml:"content_type"`
	Version                int64       `yaml:"version"`
	Recipients             []Recipient `yaml:"recipients"`
	DataType               string      `yaml:"data_type"`
	ContentEncryption      string      `yaml:"content_encryption"`
	IV                     string      `yaml:"iv"`
	EncryptedContentLength int         `yaml:"encrypted_content_length"`
	ResidualBytes          int         `yaml:"residual_bytes,omitempty"`
	Valid                  bool        `yaml:"valid"`
	Problem                string      `yaml:"problem,omitempty"`
}

// Recipient describes one RecipientInfo.
type Recipient struct {
	Version            int64  `yaml:"version"`
	IssuerAttributes   int    `yaml:"issuer_attributes"`
	SerialNumber       string `yaml:"serial_number"`
	KeyEncryption      string `yaml:"key_encryption"`
	EncryptedKeyLength int    `yaml:"encrypted_key_length"`
}

// Inspect decodes text and reports the envelope fields. Envelopes that
// decode but fail validation, or that carry residual bytes, are still
// reported with Valid set to false. Input that is not DER at all is an
// error.
func Inspect(text string) (*Info, error) {
	der, err := Unwrap(text)
	if err != nil {
		return nil, err
	}

	env, rest, err := pkcs7.Unmarshal(der)
	var residual *kerrors.ResidualError
	if err != nil && !errors.As(err, &residual) {
		return nil, err
	}

	info := describe(env)
	info.ResidualBytes = len(rest)
	if residual != nil {
		info.Problem = residual.Error()
		return info, nil
	}
	if _, _, _, err := pkcs7.ParseEnvelope(env); err != nil {
		info.Problem = err.Error()
		return info, nil
	}
	info.Valid = true
	return info, nil
}

func describe(env *pkcs7.Envelope) *Info {
	eci := env.Content.ContentInfo
	info := &Info{
		ContentType:            env.ContentType.String(),
		Version:                env.Content.Version,
		DataType:               eci.ContentType.String(),
		ContentEncryption:      eci.Algorithm.Algorithm.String(),
		IV:                     hex.EncodeToString(eci.Algorithm.IV),
		EncryptedContentLength: len(eci.EncryptedContent),
	}
	for _, ri := range env.Content.Recipients {
		r := Recipient{
			Version:            ri.Version,
			KeyEncryption:      ri.KeyEncryptionAlgorithm.Algorithm.String(),
			EncryptedKeyLength: len(ri.EncryptedKey),
		}
		for _, rdn := range ri.IssuerAndSerial.Issuer {
			r.IssuerAttributes += len(rdn)
		}
		if ri.IssuerAndSerial.SerialNumber != nil {
			r.SerialNumber = ri.IssuerAndSerial.SerialNumber.String()
		}
		info.Recipients = append(info.Recipients, r)
	}
	return info
}
