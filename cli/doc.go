// Package cli contains the command line interface for ftmpl.
//
// # Usage
//
// The default command compiles templates given as arguments or files:
//
//	ftmpl 'n(0){m(1) m(2)}'
//	ftmpl -f features.tmpl -o json -i 2
//
// Other commands inspect templates without compiling them (ast, count),
// list the feature registry (features), apply compiled templates to token
// sequences (extract), and start an interactive session (repl).
//
// # Feature Registry
//
// Feature names are resolved against a registry file given with --registry
// or the FTMPL_REGISTRY environment variable. Without one, a small built-in
// demo registry is used. "ftmpl init --write-registry" writes the active
// registry next to the configuration file as a starting point.
//
// # Configuration
//
// Flag defaults are read from config.yaml (or config.json) in the user
// configuration directory; see "ftmpl init". Keys are flag names:
//
//	log-level: debug
//	max-instances: 100000
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize and indent log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/ftmpl/pprof)
package cli
