package workflows

import (
	"context"
	"crypto/rsa"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
	"github.com/PolarWolf314/eyaml/internal/eyaml"
)

// DecryptOptions configures decrypting text from a flag or stdin.
type DecryptOptions struct {
	Keys KeyOptions

	// Value is an ENC[PKCS7,...] token, a bare base64 envelope, or a
	// document holding any number of tokens.
	Value string
}

// DecryptResult contains the outcome of decrypting text.
type DecryptResult struct {
	// Plaintext is the decrypted value, or the whole document with every
	// token replaced when the input was a document.
	Plaintext []byte

	// Values is the number of tokens decrypted.
	Values int

	PrivateKeyPath string
}

// Decrypt decrypts a single value or every value in a document. Input that
// is exactly one token (surrounding whitespace aside) or bare base64 yields
// the raw plaintext.
//
// Returns ErrPrivateKeyNotFound if the key file does not exist.
// Returns ErrPassphraseRequired if the key is encrypted and no passphrase
// could be obtained.
// Returns ErrKeyUnwrap if the key does not match the value.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value := strings.TrimSpace(opts.Value)
	if value == "" {
		return nil, kerrors.ErrNoInput
	}
	matches := eyaml.FindValues(value)
	single := len(matches) == 0 || (len(matches) == 1 && matches[0].Start == 0 && matches[0].End == len(value))

	priv, path, err := loadPrivateKey(opts.Keys)
	if err != nil {
		return nil, err
	}

	result := &DecryptResult{PrivateKeyPath: path, Values: len(matches)}
	if single {
		if len(matches) == 1 {
			value = matches[0].Value
		}
		if result.Plaintext, err = eyaml.DecryptBytes(value, priv); err != nil {
			return nil, err
		}
		result.Values = 1
		return result, nil
	}

	doc, err := eyaml.DecryptDocument(opts.Value, priv)
	if err != nil {
		return nil, err
	}
	result.Plaintext = []byte(doc)
	return result, nil
}

// DecryptFilesOptions configures decrypting every value in documents.
type DecryptFilesOptions struct {
	Keys KeyOptions

	// FilePatterns lists files, directories or globs to process.
	FilePatterns []string

	// BaseDir resolves relative patterns. Empty means the working directory.
	BaseDir string

	// InPlace writes the decrypted documents back to disk.
	InPlace bool
}

// DecryptFiles replaces every ENC[PKCS7,...] value in the matching
// documents with its plaintext. Documents are returned in FileResult.Output
// and only written when InPlace is set.
//
// Returns ErrNoFilesFound if no files match the specified patterns.
// Returns ErrNotEncrypted if none of the files hold an encrypted value.
func DecryptFiles(ctx context.Context, opts DecryptFilesOptions) (*FilesResult, error) {
	return transformFiles(ctx, opts.Keys, opts.FilePatterns, opts.BaseDir, opts.InPlace, eyaml.DecryptDocument)
}

// MarkFilesOptions configures rewriting values as editable markers.
type MarkFilesOptions struct {
	Keys KeyOptions

	// FilePatterns lists files, directories or globs to process.
	FilePatterns []string

	// BaseDir resolves relative patterns. Empty means the working directory.
	BaseDir string
}

// MarkFiles rewrites every ENC[PKCS7,...] value in the matching documents
// as a DEC(n)::PKCS7[plaintext]! marker, in place, so the plaintext can be
// edited and then re-encrypted with EncryptFiles.
//
// Returns ErrNoFilesFound if no files match the specified patterns.
// Returns ErrNotEncrypted if none of the files hold an encrypted value.
func MarkFiles(ctx context.Context, opts MarkFilesOptions) (*FilesResult, error) {
	return transformFiles(ctx, opts.Keys, opts.FilePatterns, opts.BaseDir, true, eyaml.MarkDocument)
}

type documentTransform func(doc string, priv *rsa.PrivateKey) (string, error)

func transformFiles(ctx context.Context, keys KeyOptions, patterns []string, baseDir string, write bool, transform documentTransform) (*FilesResult, error) {
	files, err := resolveWithBase(patterns, baseDir)
	if err != nil {
		return nil, err
	}

	type document struct {
		path   string
		data   string
		values int
	}
	docs := make([]document, 0, len(files))
	total := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		n := len(eyaml.FindValues(string(data)))
		total += n
		docs = append(docs, document{path: path, data: string(data), values: n})
	}
	if total == 0 {
		return nil, kerrors.ErrNotEncrypted
	}

	priv, _, err := loadPrivateKey(keys)
	if err != nil {
		return nil, err
	}

	result := &FilesResult{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fr := FileResult{Path: doc.path, Values: doc.values, Output: doc.data}
		if doc.values > 0 {
			out, err := transform(doc.data, priv)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", doc.path, err)
			}
			fr.Output = out
		}
		result.Files = append(result.Files, fr)
	}

	if write {
		if err := writeResults(ctx, result.Files); err != nil {
			return nil, err
		}
	}
	return result, nil
}
