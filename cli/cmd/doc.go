// Package cmd implements the vex subcommands: eval, check, fmt, init and
// repl.
//
// Commands read their inputs from the context prepared by package cli:
// the parsed [kong.Context] ([WithContext]), the --source files
// ([WithSourceFiles]), the binding environment ([WithBindings]) and the
// output writer ([WithOutput]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
