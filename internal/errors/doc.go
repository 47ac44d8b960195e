// Package errors provides typed error values for eyaml.
//
// Callers handle specific conditions with errors.Is() and errors.As()
// rather than string matching.
//
// # Error Kinds
//
// Envelope and crypto failures are *Error values carrying a Kind:
//
//   - ErrFormat: malformed DER, wrong OID, wrong field length, not base64
//   - ErrKeyUnwrap: the RSA step failed (wrong key or corrupt key block)
//   - ErrPadding: PKCS#7 padding was invalid after AES-CBC decryption
//   - ErrCiphertextLength: ciphertext is not a whole number of AES blocks
//
// Decoding DER with trailing bytes yields a *ResidualError carrying the
// leftover bytes and the partially decoded envelope. It also matches ErrFormat.
//
// # Usage
//
//	plaintext, err := eyaml.DecryptString(value, key)
//	var residual *errors.ResidualError
//	switch {
//	case errors.As(err, &residual):
//	    // inspect residual.Rest
//	case errors.Is(err, errors.ErrKeyUnwrap):
//	    // wrong key
//	}
//
// Sentinel errors (ErrPrivateKeyNotFound, ErrNoInput, ...) cover key
// loading and CLI input problems. Wrap them with context:
//
//	return fmt.Errorf("loading %s: %w", path, errors.ErrPrivateKeyNotFound)
package errors
