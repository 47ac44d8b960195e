// Package configs manages the eyaml configuration file.
//
// The file is TOML, stored at <user config dir>/eyaml/config.toml unless
// $EYAML_CONFIG or --config says otherwise:
//
//	[keys]
//	public_key = "~/.eyaml/public_key.pkcs7.pem"
//	private_key = "~/.eyaml/private_key.pkcs7.pem"
//
//	[output]
//	format = "string"
//
// Key paths resolve in order: command-line flag, config file, default.
// A missing file is not an error; Load returns DefaultConfig.
package configs
