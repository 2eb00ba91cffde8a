// Package config loads gdlookup settings.
//
// Sources, lowest precedence first: built-in defaults, a CUE config file
// validated against the embedded #Config schema, GDLOOKUP_* environment
// variables, then command-line flags.
//
// The config file is --config when given, else config.cue in ConfigDir.
// A missing default file is not an error; a missing --config file is.
package config
