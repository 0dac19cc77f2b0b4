package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_Defaults(t *testing.T) {
	logger := Make(nil)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.caller != DefaultCaller || logger.pretty != DefaultPretty {
		t.Errorf("unexpected defaults: %+v", logger.config)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name   string
		log    func(Logger, string, ...slog.Attr)
		min    Level
		logged bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at error", Logger.Error, LevelError, true},
		{"error at trace", Logger.Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.min)), "message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v: %q", got, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithLevel(LevelTrace))
	logger.With(slog.String("component", "test")).
		TraceContext(context.Background(), "hello", slog.Int("n", 3))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	want := map[string]any{
		"level":     "TRACE",
		"msg":       "hello",
		"component": "test",
		"n":         float64(3),
	}

	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}

	if _, ok := entry["time"]; !ok {
		t.Error("time missing")
	}

	if _, ok := entry["source"]; ok {
		t.Error("source present without caller")
	}
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(false), WithTimeLayout("none"))
	logger.Warn("careful", slog.String("key", "value"))

	got := strings.TrimSpace(buf.String())
	if want := "level=WARN msg=careful key=value"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithCaller(true)).
		Info("where")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("source is not the caller: %s", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError), WithPretty(false))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	base.Info("dropped")
	wrapped.Debug("kept")

	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	if base.Level() != LevelError || wrapped.Level() != LevelDebug {
		t.Error("Wrap modified the original logger")
	}
}

func TestLogger_Enabled(t *testing.T) {
	ctx := context.Background()
	logger := Make(nil, WithLevel(LevelWarn))

	if logger.Enabled(ctx, LevelInfo) || !logger.Enabled(ctx, LevelError) {
		t.Error("Enabled does not follow the level")
	}

	if (Logger{}).Enabled(ctx, LevelError) {
		t.Error("zero logger reports enabled")
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")
	l.InfoContext(context.Background(), "test")

	if l.With(slog.String("key", "value")).Logger != nil {
		t.Error("With on zero logger created a logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero logger does not report defaults")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true))

	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			logger.Info("concurrent", slog.Int("id", i))
		}()
	}

	wg.Wait()

	if lines := strings.Count(buf.String(), "\n"); lines != 100 {
		t.Errorf("got %d lines, want 100", lines)
	}
}

func TestPretty_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithTimeLayout("none"), WithLevel(LevelTrace))
	logger.With(slog.String("uri", "a.jtl")).Trace("parsed",
		slog.Int("tokens", 4),
		slog.Bool("ok", true),
		slog.Group("pos", slog.Int("row", 1), slog.Int("col", 2)),
		slog.String("text", "two\nlines"),
	)

	got := strings.TrimSpace(buf.String())
	want := `level=TRACE msg=parsed uri=a.jtl tokens=4 ok=true pos.row=1 pos.col=2 text="two\nlines"`

	if got != want {
		t.Errorf("output:\n got %q\nwant %q", got, want)
	}
}

func TestPretty_Object(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithFormat(FormatJSON), WithTimeLayout(""))
	logger.Error("failed", slog.Any("error", errors.New("boom")))

	want := "{\n  level: ERROR,\n  msg: failed,\n  error: boom\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("output:\n got %q\nwant %q", got, want)
	}
}

func TestPretty_Group(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithTimeLayout("none"))
	grouped := Logger{config: logger.config, Logger: logger.WithGroup("req")}
	grouped.Info("ok", slog.String("id", "7"))

	if got := buf.String(); !strings.Contains(got, "req.id=7") {
		t.Errorf("group not applied: %q", got)
	}
}

func TestPackage_Functions(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithFormat(FormatJSON), WithPretty(false)))
	Config(WithLevel(LevelDebug))

	ctx := context.Background()

	tests := []struct {
		name  string
		log   func(string, ...slog.Attr)
		level string
	}{
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"DebugContext", func(m string, a ...slog.Attr) { DebugContext(ctx, m, a...) }, "DEBUG"},
		{"InfoContext", func(m string, a ...slog.Attr) { InfoContext(ctx, m, a...) }, "INFO"},
		{"WarnContext", func(m string, a ...slog.Attr) { WarnContext(ctx, m, a...) }, "WARN"},
		{"ErrorContext", func(m string, a ...slog.Attr) { ErrorContext(ctx, m, a...) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log("package message", slog.String("key", "value"))

			out := buf.String()
			for _, want := range []string{"package message", tt.level, `"key":"value"`} {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
		})
	}

	buf.Reset()
	Trace("hidden")

	if buf.Len() > 0 {
		t.Errorf("trace written at debug level: %q", buf.String())
	}

	buf.Reset()
	With(slog.String("scope", "pkg")).Info("scoped")

	if !strings.Contains(buf.String(), `"scope":"pkg"`) {
		t.Errorf("With attrs missing: %q", buf.String())
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false))

	for b.Loop() {
		buf.Reset()
		logger.Info("benchmark", slog.Int("n", 1))
	}
}
