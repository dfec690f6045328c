// Package cmd implements the ftmpl subcommands.
//
// Commands read their shared state (feature registry, compiler options,
// output writer) from the [context.Context] passed to Run; see [WithEnv].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
