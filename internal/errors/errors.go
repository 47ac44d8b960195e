package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an envelope or crypto failure.
type Kind int

const (
	// KindFormat covers malformed DER, unexpected OIDs, wrong field lengths
	// and residual bytes after decode.
	KindFormat Kind = iota + 1
	// KindKeyUnwrap covers any failure to recover the session key with RSA.
	KindKeyUnwrap
	// KindPadding covers invalid PKCS#7 padding found while decrypting.
	KindPadding
	// KindCiphertextLength covers ciphertext that is not a whole number of blocks.
	KindCiphertextLength
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format error"
	case KindKeyUnwrap:
		return "key unwrap error"
	case KindPadding:
		return "padding error"
	case KindCiphertextLength:
		return "ciphertext length error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by the envelope codec and the hybrid crypto engine.
// errors.Is matches any *Error of the same Kind, so callers can test
// against the Err* sentinels regardless of message or cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Envelope and crypto error kinds, for use with errors.Is.
var (
	// ErrFormat indicates the input is not a well-formed eyaml envelope.
	ErrFormat = &Error{Kind: KindFormat}

	// ErrKeyUnwrap indicates the session key could not be decrypted with the
	// supplied private key. It never says why.
	ErrKeyUnwrap = &Error{Kind: KindKeyUnwrap}

	// ErrPadding indicates the decrypted payload carries invalid PKCS#7 padding.
	ErrPadding = &Error{Kind: KindPadding}

	// ErrCiphertextLength indicates the ciphertext is empty or not a multiple
	// of the AES block size.
	ErrCiphertextLength = &Error{Kind: KindCiphertextLength}
)

// Format returns a KindFormat error with a formatted message.
func Format(format string, args ...any) *Error {
	return &Error{Kind: KindFormat, Message: fmt.Sprintf(format, args...)}
}

// WrapFormat returns a KindFormat error wrapping cause.
func WrapFormat(msg string, cause error) *Error {
	return &Error{Kind: KindFormat, Message: msg, Cause: cause}
}

// Padding returns a KindPadding error.
func Padding(msg string) *Error {
	return &Error{Kind: KindPadding, Message: msg}
}

// CiphertextLength returns a KindCiphertextLength error for n bytes of ciphertext.
func CiphertextLength(n int) *Error {
	return &Error{Kind: KindCiphertextLength, Message: fmt.Sprintf("%d bytes is not a positive multiple of 16", n)}
}

// KeyUnwrap returns the opaque KindKeyUnwrap error.
func KeyUnwrap() *Error {
	return &Error{Kind: KindKeyUnwrap, Message: "could not decrypt session key"}
}

// ResidualError is the diagnostic outcome of decoding DER input that has
// bytes left over once the envelope has been read. It carries the leftover
// bytes and the record decoded before them. It matches ErrFormat.
type ResidualError struct {
	Rest    []byte
	Partial any
}

func (e *ResidualError) Error() string {
	return fmt.Sprintf("format error: %d residual bytes after envelope", len(e.Rest))
}

func (e *ResidualError) Is(target error) bool {
	return target == ErrFormat
}

// Key provider errors indicate a key could not be located or parsed.
var (
	// ErrPrivateKeyNotFound indicates the private key file does not exist.
	ErrPrivateKeyNotFound = errors.New("private key not found")

	// ErrPublicKeyNotFound indicates the public key file does not exist.
	ErrPublicKeyNotFound = errors.New("public key not found")

	// ErrInvalidPrivateKey indicates the private key is malformed or not RSA.
	ErrInvalidPrivateKey = errors.New("invalid or unsupported private key format")

	// ErrInvalidPublicKey indicates the public key is malformed or not RSA.
	ErrInvalidPublicKey = errors.New("invalid or unsupported public key format")

	// ErrPassphraseRequired indicates the private key is encrypted and no
	// passphrase was supplied.
	ErrPassphraseRequired = errors.New("private key is passphrase protected")
)

// Input errors are raised by workflows before any crypto runs.
var (
	// ErrNoInput indicates no string, file or stdin input was provided.
	ErrNoInput = errors.New("no input provided")

	// ErrNotEncrypted indicates the input holds no ENC[PKCS7,...] value.
	ErrNotEncrypted = errors.New("input contains no encrypted values")

	// ErrNoFilesFound indicates no files matched the given paths or patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrMarkerTerminator indicates a plaintext contains "]!" and so cannot
	// be written as a DEC::PKCS7[...]! marker.
	ErrMarkerTerminator = errors.New(`plaintext contains the marker terminator "]!"`)
)
