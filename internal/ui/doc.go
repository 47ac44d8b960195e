// Package ui provides semantic text formatting for CLI output.
//
// Formatters colorize content by type. When NO_COLOR is set or the
// terminal has no color support, some formatters fall back to text
// decorations instead:
//
//	ui.Code.Sprint("eyaml decrypt -f hiera.yaml") // `backticks`
//	ui.Path.Sprint("~/.eyaml/public_key.pkcs7.pem")
//	ui.Token.Sprint("ENC[PKCS7,...]")
//	ui.Highlight.Sprint("db_password")            // 'single quotes'
//	ui.Muted.Sprint("3 values")                   // (parentheses)
//
// Success, Error, Warning and Info only color their text.
package ui
