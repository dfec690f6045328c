// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is immutable once made. Time formatting, caller information,
// level, output format and terminal styling are fixed at creation time
// using functional options; [Logger.Wrap] derives a reconfigured copy.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("compiled", slog.Int("instances", n))
//	logger.Error("parse failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level are
// discarded. The zero [Logger] discards everything.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. With [WithPretty], text output is unquoted and JSON output
// is indented, and both are colored when the output is a terminal.
//
// # Default Logger
//
// The package-level functions log through a default logger writing to
// standard error. Replace it with [SetDefault] or reconfigure it with
// [Config].
package log
