package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/eyaml/internal/eyaml"
	"github.com/PolarWolf314/eyaml/internal/utils"
)

// EncryptOptions configures the encrypt workflow for a single value.
type EncryptOptions struct {
	Keys KeyOptions

	// Plaintext is the value to encrypt. It may be empty.
	Plaintext []byte

	// Format selects the output rendering. Empty uses the configured format.
	Format string

	// Label is the mapping key for yaml output. Empty uses the configured
	// label, then eyaml.DefaultLabel.
	Label string
}

// EncryptResult contains the outcome of encrypting a single value.
type EncryptResult struct {
	// Token is the ENC[PKCS7,...] value.
	Token string

	// Output is Token rendered in the requested format.
	Output string

	// PublicKeyPath is the key the value was encrypted for.
	PublicKeyPath string
}

// Encrypt encrypts one value for the configured public key.
//
// Returns ErrPublicKeyNotFound if the key file does not exist.
// Returns ErrInvalidPublicKey if the key cannot be parsed or is not RSA.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, err := loadConfig(opts.Keys.ConfigPath)
	if err != nil {
		return nil, err
	}

	formatName := opts.Format
	if formatName == "" {
		formatName = config.Output.Format
	}
	format, err := eyaml.ParseOutputFormat(formatName)
	if err != nil {
		return nil, err
	}

	label := opts.Label
	if label == "" {
		label = config.Output.Label
	}
	if label != "" && !utils.IsValidLabel(label) {
		return nil, fmt.Errorf("invalid label %q", label)
	}

	pub, path, err := loadPublicKey(opts.Keys)
	if err != nil {
		return nil, err
	}

	token, err := eyaml.EncryptBytes(opts.Plaintext, pub)
	if err != nil {
		return nil, fmt.Errorf("encrypting value: %w", err)
	}

	return &EncryptResult{
		Token:         token,
		Output:        eyaml.FormatValue(token, format, label),
		PublicKeyPath: path,
	}, nil
}

// EncryptFilesOptions configures encrypting DEC::PKCS7[...]! markers in
// documents.
type EncryptFilesOptions struct {
	Keys KeyOptions

	// FilePatterns lists files, directories or globs to process.
	FilePatterns []string

	// BaseDir resolves relative patterns. Empty means the working directory.
	BaseDir string

	// DryRun counts markers without writing any file.
	DryRun bool
}

// FileResult describes one processed document.
type FileResult struct {
	Path string

	// Values is the number of markers or encrypted values replaced.
	Values int

	// Output is the processed document.
	Output string

	// Written reports whether Path was rewritten.
	Written bool
}

// FilesResult contains the outcome of a multi-file workflow.
type FilesResult struct {
	Files  []FileResult
	DryRun bool
}

// Total returns the number of values replaced across all files.
func (r *FilesResult) Total() int {
	n := 0
	for _, f := range r.Files {
		n += f.Values
	}
	return n
}

// EncryptFiles replaces every DEC::PKCS7[...]! and DEC(n)::PKCS7[...]!
// marker in the matching documents with an encrypted value, rewriting each
// file that contained markers. Files without markers are reported with
// Values set to zero and left untouched.
//
// Returns ErrNoFilesFound if no files match the specified patterns.
func EncryptFiles(ctx context.Context, opts EncryptFilesOptions) (*FilesResult, error) {
	files, err := resolveWithBase(opts.FilePatterns, opts.BaseDir)
	if err != nil {
		return nil, err
	}

	pub, _, err := loadPublicKey(opts.Keys)
	if err != nil {
		return nil, err
	}

	result := &FilesResult{DryRun: opts.DryRun}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		out, n, err := eyaml.EncryptDocument(string(data), pub)
		if err != nil {
			return nil, fmt.Errorf("encrypting %s: %w", path, err)
		}
		result.Files = append(result.Files, FileResult{Path: path, Values: n, Output: out})
	}

	if opts.DryRun {
		return result, nil
	}
	if err := writeResults(ctx, result.Files); err != nil {
		return nil, err
	}
	return result, nil
}

// writeResults writes every file that had values replaced. It runs only
// after all documents were transformed, so a failing file leaves the whole
// set untouched.
func writeResults(ctx context.Context, files []FileResult) error {
	for i := range files {
		if files[i].Values == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := utils.WriteFileAtomic(files[i].Path, []byte(files[i].Output), 0600); err != nil {
			return err
		}
		files[i].Written = true
	}
	return nil
}

func resolveWithBase(patterns []string, baseDir string) ([]string, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}
	return ResolveFiles(patterns, baseDir)
}
