package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jtl/log"
)

// logFormat is the value of --log-format. Parsing it reconfigures the
// package logger.
type logFormat string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is the value of --log-level. Parsing it reconfigures the package
// logger, so a level given on the command line already applies to errors
// kong reports while parsing the rest.
type logLevel string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logConfig is the "log" flag group, embedded with prefix "log-".
type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"RFC3339"                                     help:"Set timestamp format."`
	Caller     bool      `default:"false"                                       help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                        help:"Enable colorized pretty printing." negatable:""`
}

// vars derives the level and format enums from the log package.
func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelDefault":  log.DefaultLevel.String(),
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies the parsed configuration to the package-level logger. The
// returned function logs the end of the run.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {
		log.TraceContext(ctx, "logger stopped")
	}
}

// scan applies the logger flags found in args before kong parses them, so
// the logger is configured for messages emitted during parsing no matter
// where the flags appear. Scanning stops at "--".
//
// The level and format flags also configure the logger while kong parses
// them (see [logLevel.UnmarshalText]), but kong never hands the boolean flags
// or the time layout to such a hook.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		switch name {
		case "--log-level", "--log-format", "--log-time-layout":
			if !assigned {
				if i+1 >= len(args) || args[i+1] == "" || args[i+1][0] == '-' {
					continue
				}

				i++
				value = args[i]
			}
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(value))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(value))

		case "--log-time-layout":
			f.TimeLayout = value
			log.Config(log.WithTimeLayout(value))

		default:
			f.scanSwitch(name, value, assigned)
		}
	}
}

// scanSwitch applies a --log-NAME or --no-log-NAME boolean flag. An
// assigned value that is not a boolean is ignored.
func (f *logConfig) scanSwitch(name, value string, assigned bool) {
	key, ok := strings.CutPrefix(name, "--log-")

	negate := false
	if !ok {
		key, ok = strings.CutPrefix(name, "--no-log-")
		negate = true
	}

	if !ok {
		return
	}

	enable := true

	if assigned {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return
		}

		enable = v
	}

	enable = enable != negate

	switch key {
	case "pretty":
		f.Pretty = enable
		log.Config(log.WithPretty(enable))

	case "caller":
		f.Caller = enable
		log.Config(log.WithCaller(enable))
	}
}
