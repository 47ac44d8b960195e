package pkcs7

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKey     = []byte{0x01, 0x02, 0x03, 0x04}
	testIV      = mustHex("000102030405060708090a0b0c0d0e0f")
	testContent = bytes.Repeat([]byte{0xaa}, 16)
)

// goldenDER is the envelope for testKey, testIV and testContent, assembled
// by hand from the schema.
var goldenDER = mustHex(strings.Join([]string{
	"3073",                     // Envelope SEQUENCE
	"06092a864886f70d010703",   //   envelopedData OID
	"a066",                     //   [0] EXPLICIT
	"3064",                     //     EnvelopeData SEQUENCE
	"020100",                   //       version 0
	"3121",                     //       SET OF RecipientInfo
	"301f",                     //         RecipientInfo SEQUENCE
	"020100",                   //           version 0
	"3005" + "3000" + "020101", //           issuer {} serial 1
	"300d",                     //           keyEncryptionAlgorithm
	"06092a864886f70d010101",   //             rsaEncryption
	"0500",                     //             NULL
	"040401020304",             //           encryptedKey
	"303c",                     //       EncryptedContentInfo SEQUENCE
	"06092a864886f70d010701",   //         data OID
	"301d",                     //         contentEncryptionAlgorithm
	"060960864801650304012a",   //           aes256-CBC
	// iv
	"0410000102030405060708090a0b0c0d0e0f",
	// encryptedContent, [0] IMPLICIT constructed
	"a010" + strings.Repeat("aa", 16),
}, ""))

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestMarshalMatchesGolden(t *testing.T) {
	env, err := BuildEnvelope(testKey, testIV, testContent)
	require.NoError(t, err)

	der, err := Marshal(env)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(goldenDER), hex.EncodeToString(der))
}

func TestUnmarshalGolden(t *testing.T) {
	env, rest, err := Unmarshal(goldenDER)
	require.NoError(t, err)
	assert.Empty(t, rest)

	assert.True(t, env.ContentType.Equal(OIDEnvelopedData))
	assert.Equal(t, int64(0), env.Content.Version)
	require.Len(t, env.Content.Recipients, 1)

	ri := env.Content.Recipients[0]
	assert.Equal(t, int64(0), ri.Version)
	assert.Empty(t, ri.IssuerAndSerial.Issuer)
	assert.Equal(t, 0, ri.IssuerAndSerial.SerialNumber.Cmp(big.NewInt(1)))
	assert.True(t, ri.KeyEncryptionAlgorithm.Algorithm.Equal(OIDRSAEncryption))
	assert.Equal(t, testKey, ri.EncryptedKey)

	eci := env.Content.ContentInfo
	assert.True(t, eci.ContentType.Equal(OIDData))
	assert.True(t, eci.Algorithm.Algorithm.Equal(OIDAES256CBC))
	assert.Equal(t, testIV, eci.Algorithm.IV)
	assert.Equal(t, testContent, eci.EncryptedContent)
}

func TestUnmarshalReportsResidualBytes(t *testing.T) {
	input := append(bytes.Clone(goldenDER), 0xde, 0xad, 0xbe, 0xef)

	env, rest, err := Unmarshal(input)
	require.Error(t, err)
	assert.ErrorIs(t, err, kerrors.ErrFormat)

	var residual *kerrors.ResidualError
	require.True(t, errors.As(err, &residual))
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, residual.Rest)
	assert.Equal(t, residual.Rest, rest)
	assert.Same(t, env, residual.Partial)
	assert.Equal(t, testKey, env.Content.Recipients[0].EncryptedKey)
}

func TestUnmarshalAcceptsPrimitiveContentTag(t *testing.T) {
	// OpenSSL writes encryptedContent as a primitive [0].
	input := bytes.Clone(goldenDER)
	idx := bytes.LastIndex(input, mustHex("a010"))
	require.Positive(t, idx)
	input[idx] = 0x80

	env, _, err := Unmarshal(input)
	require.NoError(t, err)
	assert.Equal(t, testContent, env.Content.ContentInfo.EncryptedContent)
}

func TestUnmarshalRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"not a sequence", []byte{0x04, 0x01, 0x00}},
		{"truncated", goldenDER[:len(goldenDER)-1]},
		{"truncated header", goldenDER[:1]},
		{"indefinite length", append([]byte{0x30, 0x80}, goldenDER[2:]...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _, err := Unmarshal(tt.input)
			assert.Nil(t, env)
			assert.ErrorIs(t, err, kerrors.ErrFormat)
		})
	}
}

func TestUnmarshalRejectsWrongInnerTag(t *testing.T) {
	input := bytes.Clone(goldenDER)
	// Replace the [0] EXPLICIT tag with [1].
	input[13] = 0xa1

	_, _, err := Unmarshal(input)
	assert.ErrorIs(t, err, kerrors.ErrFormat)
}

func TestMarshalRoundTripsIssuerName(t *testing.T) {
	env, err := BuildEnvelope(testKey, testIV, testContent)
	require.NoError(t, err)

	// commonName = "eyaml", as a PrintableString.
	cn := OID{0x55, 0x04, 0x03}
	env.Content.Recipients[0].IssuerAndSerial.Issuer = Name{
		RDN{{Type: cn, Value: mustHex("13056579616d6c")}},
	}
	env.Content.Recipients[0].IssuerAndSerial.SerialNumber = big.NewInt(4242)

	der, err := Marshal(env)
	require.NoError(t, err)

	decoded, rest, err := Unmarshal(der)
	require.NoError(t, err)
	assert.Empty(t, rest)

	ias := decoded.Content.Recipients[0].IssuerAndSerial
	require.Len(t, ias.Issuer, 1)
	require.Len(t, ias.Issuer[0], 1)
	assert.True(t, ias.Issuer[0][0].Type.Equal(cn))
	assert.Equal(t, mustHex("13056579616d6c"), ias.Issuer[0][0].Value)
	assert.Equal(t, int64(4242), ias.SerialNumber.Int64())
}

func TestUnmarshalKeepsAdditionalRecipients(t *testing.T) {
	env, err := BuildEnvelope(testKey, testIV, testContent)
	require.NoError(t, err)
	second := env.Content.Recipients[0]
	second.EncryptedKey = []byte{0x09}
	env.Content.Recipients = append(env.Content.Recipients, second)

	der, err := Marshal(env)
	require.NoError(t, err)

	decoded, _, err := Unmarshal(der)
	require.NoError(t, err)
	require.Len(t, decoded.Content.Recipients, 2)

	key, _, _, err := ParseEnvelope(decoded)
	require.NoError(t, err)
	assert.Equal(t, testKey, key)
}

func TestMarshalRejectsEmptyOID(t *testing.T) {
	env, err := BuildEnvelope(testKey, testIV, testContent)
	require.NoError(t, err)
	env.ContentType = nil

	_, err = Marshal(env)
	assert.ErrorIs(t, err, kerrors.ErrFormat)
}

func TestOIDString(t *testing.T) {
	assert.Equal(t, "1.2.840.113549.1.7.3", OIDEnvelopedData.String())
	assert.Equal(t, "1.2.840.113549.1.7.1", OIDData.String())
	assert.Equal(t, "1.2.840.113549.1.1.1", OIDRSAEncryption.String())
	assert.Equal(t, "2.16.840.1.101.3.4.1.42", OIDAES256CBC.String())
}
