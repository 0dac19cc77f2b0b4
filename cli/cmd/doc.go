// Package cmd implements the jtl subcommands: render, check, complete,
// hover, fmt, schema, init, and repl.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// ([WithContext]) and the host configuration shared by all commands
// ([WithHost]). Output goes to the writer installed with [WithOutput], and
// the source "-" reads the reader installed with [WithInput].
package cmd

//nolint:gochecknoglobals
var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
