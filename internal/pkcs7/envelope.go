package pkcs7

import (
	"bytes"
	"math/big"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
)

const (
	// IVSize is the length of the AES-CBC initialization vector.
	IVSize = 16
	// BlockSize is the AES block size; encrypted content is a multiple of it.
	BlockSize = 16
)

// placeholderSerial is written into the unused issuerAndSerialNumber field.
var placeholderSerial = big.NewInt(1)

// BuildEnvelope assembles the envelope carrying one recipient. All
// identifiers and versions are fixed; only the three byte fields vary.
func BuildEnvelope(encryptedKey, iv, encryptedContent []byte) (*Envelope, error) {
	if len(encryptedKey) == 0 {
		return nil, kerrors.Format("encrypted key is empty")
	}
	if len(iv) != IVSize {
		return nil, kerrors.Format("IV must be %d bytes, got %d", IVSize, len(iv))
	}
	if len(encryptedContent)%BlockSize != 0 {
		return nil, kerrors.Format("encrypted content must be a multiple of %d bytes, got %d", BlockSize, len(encryptedContent))
	}

	return &Envelope{
		ContentType: RoleEnvelopedData.OID(),
		Content: EnvelopeData{
			Version: 0,
			Recipients: []RecipientInfo{{
				Version: 0,
				IssuerAndSerial: IssuerAndSerial{
					Issuer:       Name{},
					SerialNumber: new(big.Int).Set(placeholderSerial),
				},
				KeyEncryptionAlgorithm: KeyEncryptionAlgorithm{Algorithm: RoleKeyEncryption.OID()},
				EncryptedKey:           bytes.Clone(encryptedKey),
			}},
			ContentInfo: EncryptedContentInfo{
				ContentType: RoleData.OID(),
				Algorithm: ContentEncryptionAlgorithm{
					Algorithm: RoleContentEncryption.OID(),
					IV:        bytes.Clone(iv),
				},
				EncryptedContent: bytes.Clone(encryptedContent),
			},
		},
	}, nil
}

// ParseEnvelope validates the fixed fields of env and returns the wrapped
// session key of the first recipient, the IV and the ciphertext. Further
// recipients are ignored.
func ParseEnvelope(env *Envelope) (encryptedKey, iv, encryptedContent []byte, err error) {
	if env == nil {
		return nil, nil, nil, kerrors.Format("nil envelope")
	}
	if err := expect(RoleEnvelopedData, env.ContentType); err != nil {
		return nil, nil, nil, err
	}

	data := &env.Content
	if len(data.Recipients) == 0 {
		return nil, nil, nil, kerrors.Format("envelope has no recipients")
	}
	recipient := &data.Recipients[0]
	if err := expect(RoleKeyEncryption, recipient.KeyEncryptionAlgorithm.Algorithm); err != nil {
		return nil, nil, nil, err
	}
	if len(recipient.EncryptedKey) == 0 {
		return nil, nil, nil, kerrors.Format("encrypted key is empty")
	}

	info := &data.ContentInfo
	if err := expect(RoleData, info.ContentType); err != nil {
		return nil, nil, nil, err
	}
	if err := expect(RoleContentEncryption, info.Algorithm.Algorithm); err != nil {
		return nil, nil, nil, err
	}
	if len(info.Algorithm.IV) != IVSize {
		return nil, nil, nil, kerrors.Format("IV must be %d bytes, got %d", IVSize, len(info.Algorithm.IV))
	}
	if len(info.EncryptedContent)%BlockSize != 0 {
		return nil, nil, nil, kerrors.CiphertextLength(len(info.EncryptedContent))
	}

	return bytes.Clone(recipient.EncryptedKey),
		bytes.Clone(info.Algorithm.IV),
		bytes.Clone(info.EncryptedContent),
		nil
}

func expect(role Role, got OID) error {
	if !role.Matches(got) {
		return kerrors.Format("unexpected %s %s, want %s", role, got, role.OID())
	}
	return nil
}
