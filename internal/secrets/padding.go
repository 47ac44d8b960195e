package secrets

import (
	"crypto/aes"
	"crypto/subtle"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
)

// Pad appends PKCS#7 padding for the AES block size. It always adds
// between 1 and 16 bytes; input already on a block boundary gets a full
// block.
func Pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// Unpad validates and strips PKCS#7 padding.
func Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 || len(b)%aes.BlockSize != 0 {
		return nil, kerrors.CiphertextLength(len(b))
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize {
		return nil, kerrors.Padding("invalid padding length")
	}

	want := make([]byte, n)
	for i := range want {
		want[i] = byte(n)
	}
	if subtle.ConstantTimeCompare(b[len(b)-n:], want) != 1 {
		return nil, kerrors.Padding("inconsistent padding bytes")
	}
	return b[:len(b)-n], nil
}
