package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/eyaml/internal/errors"
	"github.com/PolarWolf314/eyaml/internal/ui"
	"github.com/PolarWolf314/eyaml/internal/utils"
	"github.com/PolarWolf314/eyaml/internal/workflows"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// PassphraseEnv supplies the private key passphrase without a prompt.
const PassphraseEnv = "EYAML_PASSPHRASE"

// startSpinner creates and starts a spinner on the command's stderr with the given message
// when not in verbose or debug mode. Stdout is left for values and
// documents so output can be piped.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// calls ui.EnsureNewline() on the final message and prints it to the
// command's stderr.
func startSpinner(cmd *cobra.Command, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Cleared so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(cmd.ErrOrStderr(), finalMsg)
		}
	}

	return s, cleanup
}

// keyOptions builds the key selection shared by all commands from the
// global --config flag, the passphrase environment variable and the
// terminal.
func keyOptions(publicKey, privateKey string) workflows.KeyOptions {
	opts := workflows.KeyOptions{
		ConfigPath:     configPath,
		PublicKeyPath:  publicKey,
		PrivateKeyPath: privateKey,
	}
	if p, ok := os.LookupEnv(PassphraseEnv); ok {
		opts.Passphrase = []byte(p)
	}
	if utils.IsTerminal() || utils.IsTTYAvailable() {
		opts.PromptPassphrase = utils.ReadPassphrase
	}
	return opts
}

// readInput returns the input selected by exactly one of -s, -f or --stdin.
func readInput(cmd *cobra.Command, value string, file string, stdin bool) ([]byte, error) {
	sources := 0
	if cmd.Flags().Changed("string") {
		sources++
	}
	if file != "" {
		sources++
	}
	if stdin {
		sources++
	}
	switch {
	case sources == 0:
		return nil, fmt.Errorf("%w: use -s, -f or --stdin", kerrors.ErrNoInput)
	case sources > 1:
		return nil, fmt.Errorf("only one of -s, -f or --stdin may be used")
	}

	switch {
	case file != "":
		Logger.Debugf("Reading input from %s", file)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		return data, nil
	case stdin:
		Logger.Debugf("Reading input from stdin")
		return readStdin(cmd)
	default:
		return []byte(value), nil
	}
}

func readStdin(cmd *cobra.Command) ([]byte, error) {
	if cmd.InOrStdin() == os.Stdin {
		return utils.ReadStdin()
	}
	return utils.ReadAll(cmd.InOrStdin())
}

// FormatError renders err for the terminal with a hint for known failures.
func FormatError(err error) string {
	msg := ui.Error.Sprint("✗") + " " + err.Error()
	if hint := errorHint(err); hint != "" {
		msg += "\n" + ui.Info.Sprint("→") + " " + hint
	}
	return msg
}

func errorHint(err error) string {
	var residual *kerrors.ResidualError
	switch {
	case errors.Is(err, kerrors.ErrPublicKeyNotFound):
		return "Pass " + ui.Flag.Sprint("--public-key") + " or set keys.public_key with " + ui.Code.Sprint("eyaml config init")
	case errors.Is(err, kerrors.ErrPrivateKeyNotFound):
		return "Pass " + ui.Flag.Sprint("--private-key") + " or set keys.private_key with " + ui.Code.Sprint("eyaml config init")
	case errors.Is(err, kerrors.ErrPassphraseRequired):
		return "Set " + ui.Code.Sprint(PassphraseEnv) + " or run from a terminal to be prompted"
	case errors.Is(err, kerrors.ErrKeyUnwrap):
		return "The value was encrypted for a different key pair"
	case errors.Is(err, kerrors.ErrPadding), errors.Is(err, kerrors.ErrCiphertextLength):
		return "The encrypted value is corrupted"
	case errors.As(err, &residual):
		return "The value has extra data after the envelope; it may have been concatenated with something else"
	case errors.Is(err, kerrors.ErrFormat):
		return "The input is not a valid " + ui.Token.Sprint("ENC[PKCS7,...]") + " value"
	case errors.Is(err, kerrors.ErrMarkerTerminator):
		return "That value cannot be edited as a marker; replace it with " + ui.Code.Sprint("eyaml encrypt") + " instead"
	case errors.Is(err, kerrors.ErrNoFilesFound):
		return "Check the file paths or glob patterns"
	case errors.Is(err, kerrors.ErrNotEncrypted):
		return "Nothing to decrypt; the files hold no " + ui.Token.Sprint("ENC[PKCS7,...]") + " values"
	}
	return ""
}

// changedPaths returns the paths of files that held at least one value.
func changedPaths(files []workflows.FileResult) []string {
	var paths []string
	for _, f := range files {
		if f.Values > 0 {
			paths = append(paths, f.Path)
		}
	}
	return paths
}
