package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := Format("bad oid %s", "1.2.3")
	assert.True(t, errors.Is(err, ErrFormat))
	assert.False(t, errors.Is(err, ErrPadding))

	wrapped := fmt.Errorf("decoding value: %w", err)
	assert.True(t, errors.Is(wrapped, ErrFormat))
	assert.Contains(t, wrapped.Error(), "bad oid 1.2.3")
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("illegal base64 data")
	err := WrapFormat("decoding base64", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "format error: decoding base64: illegal base64 data", err.Error())
}

func TestKeyUnwrapIsOpaque(t *testing.T) {
	err := KeyUnwrap()
	assert.Nil(t, err.Cause)
	assert.ErrorIs(t, err, ErrKeyUnwrap)
}

func TestResidualErrorMatchesFormat(t *testing.T) {
	var err error = &ResidualError{Rest: []byte{0xde, 0xad}}
	assert.ErrorIs(t, err, ErrFormat)
	assert.NotErrorIs(t, err, ErrPadding)

	var residual *ResidualError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &residual))
	assert.Equal(t, []byte{0xde, 0xad}, residual.Rest)
	assert.Contains(t, err.Error(), "2 residual bytes")
}

func TestCiphertextLengthMessage(t *testing.T) {
	err := CiphertextLength(17)
	assert.ErrorIs(t, err, ErrCiphertextLength)
	assert.Contains(t, err.Error(), "17 bytes")
}
