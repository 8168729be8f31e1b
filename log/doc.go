// Package log provides leveled structured logging based on [log/slog].
//
// A [Logger] is an immutable value configured at creation time with
// functional options. Deriving a logger with [Logger.Wrap] or [Logger.With]
// never affects the original, so loggers can be shared between goroutines
// and stored in other values without synchronization. The zero Logger
// discards everything.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Info("evaluated", slog.String("source", src))
//
// # Levels
//
// In addition to the four [log/slog] levels, the package defines
// [LevelTrace] below [LevelDebug] for per-evaluation detail. Levels are
// parsed case-insensitively with [ParseLevel].
//
// # Output
//
// Records are written as key=value text ([FormatText]) or JSON
// ([FormatJSON]). With [WithPretty] enabled, text is rendered on one line and
// JSON is indented, both styled for a terminal. Styling is dropped when the
// output is not a terminal.
//
// Timestamps use [WithTimeLayout]; the layout "none" omits them.
//
// # Package Logger
//
// Package-level functions such as [Info] and [TraceContext] write through a
// default logger that [Config] reconfigures. Functions without a context use
// [DefaultContextProvider].
package log
