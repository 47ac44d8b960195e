package eyaml

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
	"github.com/PolarWolf314/eyaml/internal/pkcs7"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyOnce sync.Once
	testRSA *rsa.PrivateKey
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("failed to generate RSA key: %v", err)
		}
		testRSA = k
	})
	require.NotNil(t, testRSA)
	return testRSA
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "ENC[PKCS7,aGVsbG8=]", Wrap([]byte("hello")))
	assert.Equal(t, "ENC[PKCS7,]", Wrap(nil))
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"framed", "ENC[PKCS7,aGVsbG8=]", []byte("hello")},
		{"bare base64", "aGVsbG8=", []byte("hello")},
		{"folded", "ENC[PKCS7,aGVs\n    bG8=]", []byte("hello")},
		{"empty frame", "ENC[PKCS7,]", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unwrap(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnwrapRejectsInvalidBase64(t *testing.T) {
	for _, input := range []string{"ENC[PKCS7,not*base64]", "ENC[PKCS7,aGVsbG8", "!!!"} {
		_, err := Unwrap(input)
		assert.ErrorIs(t, err, kerrors.ErrFormat, input)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 256)
	iv := bytes.Repeat([]byte{0x22}, 16)
	content := bytes.Repeat([]byte{0x33}, 48)

	text, err := Encode(key, iv, content)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, Prefix))
	assert.True(t, strings.HasSuffix(text, Suffix))

	gotKey, gotIV, gotContent, err := Decode(text)
	require.NoError(t, err)
	assert.Equal(t, key, gotKey)
	assert.Equal(t, iv, gotIV)
	assert.Equal(t, content, gotContent)
}

func TestEncodeValidatesLengths(t *testing.T) {
	_, err := Encode([]byte{1}, make([]byte, 15), make([]byte, 16))
	assert.ErrorIs(t, err, kerrors.ErrFormat)

	_, err = Encode([]byte{1}, make([]byte, 16), make([]byte, 17))
	assert.ErrorIs(t, err, kerrors.ErrFormat)
}

func TestDecodeReportsResidualBytes(t *testing.T) {
	env, err := pkcs7.BuildEnvelope([]byte{1, 2, 3}, make([]byte, 16), make([]byte, 16))
	require.NoError(t, err)
	der, err := pkcs7.Marshal(env)
	require.NoError(t, err)

	text := Wrap(append(der, 0xde, 0xad))
	k, iv, c, err := Decode(text)
	require.Error(t, err)
	assert.Nil(t, k)
	assert.Nil(t, iv)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, kerrors.ErrFormat)

	var residual *kerrors.ResidualError
	require.True(t, errors.As(err, &residual))
	assert.Equal(t, []byte{0xde, 0xad}, residual.Rest)
	partial, ok := residual.Partial.(*pkcs7.Envelope)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, partial.Content.Recipients[0].EncryptedKey)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, _, err := Decode(Wrap([]byte("hello")))
	assert.ErrorIs(t, err, kerrors.ErrFormat)

	_, _, _, err = Decode("")
	assert.ErrorIs(t, err, kerrors.ErrFormat)
}

func TestEncryptDecryptString(t *testing.T) {
	key := testKey(t)

	text, err := EncryptString("hello world", &key.PublicKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, Prefix))

	got, err := DecryptString(text, key)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	bare := strings.TrimSuffix(strings.TrimPrefix(text, Prefix), Suffix)
	got, err = DecryptString(bare, key)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestEncryptDecryptBytes(t *testing.T) {
	key := testKey(t)

	for _, n := range []int{0, 1, 16, 1000} {
		plaintext := make([]byte, n)
		_, err := rand.Read(plaintext)
		require.NoError(t, err)

		text, err := EncryptBytes(plaintext, &key.PublicKey)
		require.NoError(t, err)

		der, err := base64.StdEncoding.DecodeString(text[len(Prefix) : len(text)-len(Suffix)])
		require.NoError(t, err)
		assert.Equal(t, byte(0x30), der[0])

		got, err := DecryptBytes(text, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got, "n=%d", n)
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	key := testKey(t)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	text, err := EncryptString("secret", &key.PublicKey)
	require.NoError(t, err)

	_, err = DecryptString(text, other)
	assert.ErrorIs(t, err, kerrors.ErrKeyUnwrap)
}
