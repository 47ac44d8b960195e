// Package logger provides leveled logging for eyaml commands.
//
// Two flags control verbosity:
//
//   - --verbose: info and warning messages
//   - --debug: everything, including debug details and errors as they are
//     returned
//
// Without flags only WarnfAlways and Errorf output is shown.
//
//	Logger.Infof()           // --verbose or --debug
//	Logger.Debugf()          // --debug
//	Logger.Warnf()           // --verbose or --debug
//	Logger.WarnfAlways()     // always
//	Logger.Errorf()          // always
//	Logger.ErrorfAndReturn() // wraps an error, logs it with --debug
//
// The root command builds a Logger in PersistentPreRun and hands it to the
// workflows. The core packages never log.
package logger
