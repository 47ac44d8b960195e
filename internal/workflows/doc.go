// Package workflows provides high-level orchestration for eyaml commands.
//
// Workflows resolve configuration and keys, then call the eyaml package.
// They know nothing about flags, spinners or output colors; the cmd
// package parses flags, calls one workflow and prints its result.
//
//   - Encrypt / Decrypt: a single value
//   - EncryptFiles: DEC::PKCS7[...]! markers in documents become values
//   - DecryptFiles: values in documents become plaintext
//   - MarkFiles: values become editable DEC(n)::PKCS7[...]! markers
//   - Inspect: envelope structure, no key needed
//
// Key paths resolve in order: KeyOptions override, config file, default.
// An encrypted private key triggers KeyOptions.PromptPassphrase once.
//
// Errors come from internal/errors and are matched with errors.Is:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrKeyUnwrap) {
//	    // wrong private key for this value
//	}
//
// Every workflow takes a context.Context and checks it between files.
package workflows
