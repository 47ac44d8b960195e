// Package secrets provides the cryptographic operations behind eyaml values.
//
// # Encryption Architecture
//
// eyaml uses a hybrid encryption scheme:
//
//  1. A random 256-bit session key and 128-bit IV are drawn from crypto/rand
//  2. The recipient's RSA public key encrypts the session key (PKCS#1 v1.5)
//  3. The plaintext is PKCS#7 padded once and encrypted with AES-256-CBC
//
// Encrypt returns the three resulting values as a Sealed; package pkcs7
// turns them into a DER envelope. Decrypt reverses the steps and validates
// the padding.
//
// # Key Management
//
// Keys are never generated here. LoadPublicKey and LoadPrivateKey read keys
// produced elsewhere. Accepted formats:
//   - Public: PKCS#1 or PKIX PEM, X.509 certificate PEM, ssh-rsa authorized key
//   - Private: PKCS#1 or PKCS#8 PEM, OpenSSH, legacy encrypted PEM
//
// Passphrase-protected keys return errors.ErrPassphraseRequired when no
// passphrase is supplied, so the caller can prompt and retry.
//
// # Security Considerations
//
// Any failure while unwrapping the session key is reported as
// errors.ErrKeyUnwrap with no further detail. CBC mode has no integrity
// protection: a modified ciphertext either fails padding validation or
// decrypts to different bytes.
package secrets
