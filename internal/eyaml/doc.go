// Package eyaml converts between plaintext and printable ENC[PKCS7,...]
// values.
//
// Wrap and Unwrap handle the text frame around a DER envelope. Encode and
// Decode add the envelope itself. EncryptString and DecryptString run the
// whole pipeline:
//
//	encrypt: secrets.Encrypt -> pkcs7.BuildEnvelope -> pkcs7.Marshal -> Wrap
//	decrypt: Unwrap -> pkcs7.Unmarshal -> pkcs7.ParseEnvelope -> secrets.Decrypt
//
// The document helpers operate on whole files: DecryptDocument replaces
// every value with its plaintext, MarkDocument replaces every value with an
// editable DEC(n)::PKCS7[...]! marker, and EncryptDocument turns markers
// back into values.
package eyaml
