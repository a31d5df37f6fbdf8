package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// systemKey is lifted out of the attribute list and rendered as a bracket.
const systemKey = "system"

// MavenHandler is a slog.Handler that formats logs in Maven-style:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value key=value
//
// Groups opened with WithGroup prefix the keys that follow them
// (group.key=value). Values containing spaces are quoted.
type MavenHandler struct {
	w         io.Writer
	level     slog.Leveler
	mu        *sync.Mutex
	system    string // e.g. "api", "fetch"
	useColors bool
	prefix    string // dotted group path, with trailing dot
	attrs     []slog.Attr
}

// NewMavenHandler creates a new Maven-style handler
func NewMavenHandler(w io.Writer, opts *slog.HandlerOptions) *MavenHandler {
	h := &MavenHandler{
		w:         w,
		level:     slog.LevelInfo,
		mu:        &sync.Mutex{},
		useColors: isTerminal(w),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// isTerminal checks if the writer is a terminal (for color output)
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the handler handles records at the given level.
func (h *MavenHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes a log record
func (h *MavenHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	h.bracket(&buf, levelString(r.Level), levelColor(r.Level))
	if h.system != "" {
		buf.WriteByte(' ')
		h.bracket(&buf, h.system, "")
	}
	if !r.Time.IsZero() {
		buf.WriteByte(' ')
		h.bracket(&buf, r.Time.Format("15:04:05"), colorGray)
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		appendAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != systemKey {
			appendAttr(&buf, h.prefix, a)
		}
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *MavenHandler) bracket(buf *strings.Builder, text, color string) {
	if h.useColors && color != "" {
		buf.WriteString(color)
	}
	buf.WriteByte('[')
	buf.WriteString(text)
	buf.WriteByte(']')
	if h.useColors && color != "" {
		buf.WriteString(colorReset)
	}
}

// appendAttr writes " key=value", flattening nested groups and LogValuers.
func appendAttr(buf *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(buf, groupPrefix, ga)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')

	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"") {
		val = strconv.Quote(val)
	}
	buf.WriteString(val)
}

// WithAttrs returns a new handler with the given attributes added.
// A "system" attribute becomes the bracketed system label instead.
func (h *MavenHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)

	for _, a := range attrs {
		if a.Key == systemKey && h.prefix == "" {
			clone.system = a.Value.String()
			continue
		}
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup returns a new handler whose subsequent keys are prefixed by name.
func (h *MavenHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// levelColor returns the ANSI color code for a log level (Maven-style)
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorCyan
	default:
		return colorGray
	}
}

// levelString returns a short, uppercase string for the log level
func levelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return level.String()
	}
}
