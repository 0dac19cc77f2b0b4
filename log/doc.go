// Package log is a small leveled logger built on [log/slog].
//
// A [Logger] is an immutable value configured with functional options when
// it is made:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
//	logger.Info("rendered", slog.String("file", name))
//
// Every level has a context-aware variant (InfoContext, ...). The others use
// [DefaultContextProvider]. The zero Logger discards everything, so
// components may hold one without a nil check.
//
// The package-level functions log through a shared default Logger that
// writes to standard error and is reconfigured with [Config].
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-token and
// per-call detail. Level names are printed upper-case in log output.
//
// # Pretty output
//
// With [WithPretty], records are written by a handler that styles keys and
// values with lipgloss. Styling is detected from the output writer, so
// redirected output stays plain. Groups are flattened to dotted keys.
package log
