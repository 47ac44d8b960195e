// Package utils provides small helpers shared by the workflows and commands.
//
// # Filesystem
//   - ExpandHome: expands a leading ~ in key paths
//   - WriteFileAtomic: replaces a file in place, keeping its mode
//
// # Strings
//   - FormatPaths: formats file paths for human-readable output
//   - IsValidLabel: checks a YAML label given to encrypt
//
// # I/O and terminal
//   - ReadStdin, ReadAll: read piped input
//   - ReadPassphrase: prompts for a key passphrase without echo
package utils
