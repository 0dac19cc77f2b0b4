package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// styles colors the parts of a record. The renderer is bound to the output,
// so styling is dropped when the output is not a color terminal.
type styles struct {
	key      lipgloss.Style
	str      lipgloss.Style
	num      lipgloss.Style
	yes      lipgloss.Style
	no       lipgloss.Style
	time     lipgloss.Style
	duration lipgloss.Style
	null     lipgloss.Style
	trace    lipgloss.Style
	debug    lipgloss.Style
	info     lipgloss.Style
	warn     lipgloss.Style
	error    lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &styles{
		key:      fg("8"),
		str:      fg("6"),
		num:      fg("3"),
		yes:      fg("2"),
		no:       fg("1"),
		time:     fg("4"),
		duration: fg("5"),
		null:     fg("8"),
		trace:    fg("4").Faint(true),
		debug:    fg("4"),
		info:     fg("2"),
		warn:     fg("3").Bold(true),
		error:    fg("1").Bold(true),
	}
}

func (s *styles) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return s.error
	case l >= slog.LevelWarn:
		return s.warn
	case l >= slog.LevelInfo:
		return s.info
	case l >= slog.LevelDebug:
		return s.debug
	default:
		return s.trace
	}
}

// prettyHandler writes records as styled key=value lines (FormatText) or as
// indented objects with one field per line (FormatJSON).
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	styles *styles
	mu     *sync.Mutex
	w      io.Writer
	prefix string      // dotted group path for attrs added later
	attrs  []slog.Attr // attrs added with WithAttrs, already qualified
}

func newPrettyHandler(w io.Writer, format Format, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		styles: newStyles(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = h.builtin(fields, slog.Time(slog.TimeKey, r.Time))
	}

	fields = h.builtin(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := frames.Next()
		fields = h.builtin(fields, slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", f.File, f.Line)))
	}

	fields = h.builtin(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.prefix, a)

		return true
	})

	buf := new(bytes.Buffer)

	switch h.format {
	case FormatJSON:
		h.writeObject(buf, fields, r.Level)
	default:
		h.writeLine(buf, fields, r.Level)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(c.attrs, h.attrs)

	for _, a := range attrs {
		c.attrs = flatten(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = join(h.prefix, name)

	return &c
}

// builtin appends a record field after passing it through ReplaceAttr.
func (h *prettyHandler) builtin(fields []slog.Attr, a slog.Attr) []slog.Attr {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Key == "" {
		return fields
	}

	return append(fields, a)
}

// flatten appends a to fields, expanding groups into dotted keys.
func flatten(fields []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			fields = flatten(fields, join(prefix, a.Key), g)
		}

		return fields
	}

	a.Key = join(prefix, a.Key)

	return append(fields, a)
}

func join(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []slog.Attr, level slog.Level) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.styles.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(a, level))
	}
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, fields []slog.Attr, level slog.Level) {
	buf.WriteString("{\n")

	for i, a := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.styles.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.value(a, level))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteByte('}')
}

// value renders the value of a, styled by kind.
func (h *prettyHandler) value(a slog.Attr, level slog.Level) string {
	v := a.Value

	if a.Key == slog.LevelKey {
		return h.styles.level(level).Render(v.String())
	}

	switch v.Kind() {
	case slog.KindString:
		return h.styles.str.Render(quote(v.String()))

	case slog.KindInt64:
		return h.styles.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return h.styles.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return h.styles.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return h.styles.yes.Render("true")
		}

		return h.styles.no.Render("false")

	case slog.KindDuration:
		return h.styles.duration.Render(v.Duration().String())

	case slog.KindTime:
		return h.styles.time.Render(v.Time().Format(time.RFC3339))

	case slog.KindAny:
		if v.Any() == nil {
			return h.styles.null.Render("null")
		}

		if err, ok := v.Any().(error); ok {
			return h.styles.no.Render(quote(err.Error()))
		}
	}

	return h.styles.str.Render(quote(v.String()))
}

// quote quotes s if it would break the line or contains control characters.
func quote(s string) string {
	if strings.ContainsFunc(s, unicode.IsControl) {
		return strconv.Quote(s)
	}

	return s
}
