package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/trier/internal/ui/output"
	"go.trai.ch/trier/internal/ui/style"
)

// pathKeys are attribute keys whose values are file system paths.
var pathKeys = map[string]bool{
	"script":   true,
	"path":     true,
	"manifest": true,
	"root":     true,
	"output":   true,
}

// PrettyHandler is a slog.Handler producing short, coloured lines for terminals.
// Paths below the working directory are shown relative to it, and a "script"
// attribute with optional "line" and "column" leads the line as a location.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
	base  string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	base, _ := os.Getwd()

	return &PrettyHandler{
		out:   output.New(w),
		level: levelVar,
		base:  base,
	}
}

// WithBase returns a copy of h that shows paths relative to dir. An empty dir keeps paths as logged.
func (h *PrettyHandler) WithBase(dir string) *PrettyHandler {
	c := *h
	c.base = filepath.Clean(dir)
	if dir == "" {
		c.base = ""
	}
	return &c
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, h.qualify(attr))
		return true
	})

	msg := h.relative(r.Message)
	loc, rest := h.location(attrs)
	if loc != "" {
		msg = loc + ": " + msg
	}

	var color termenv.Color
	switch {
	case r.Level >= slog.LevelError:
		msg = style.Cross + " " + msg
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		msg = style.Warning + " " + msg
		color = termenv.RGBColor(string(style.Yellow))
	default:
		color = termenv.RGBColor(string(style.Slate))
	}

	attrParts := make([]string, 0, len(rest))
	for _, attr := range rest {
		attrParts = append(attrParts, h.formatAttr(attr))
	}
	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	_, err := h.out.WriteString(h.out.String(msg).Foreground(color).String() + "\n")
	return err
}

// location renders "script[:line[:column]]" from ungrouped attributes and returns the others.
func (h *PrettyHandler) location(attrs []slog.Attr) (string, []slog.Attr) {
	var script, line, column string
	rest := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		switch attr.Key {
		case "script":
			script = h.relative(attr.Value.String())
		case "line":
			line = attr.Value.String()
		case "column":
			column = attr.Value.String()
		default:
			rest = append(rest, attr)
		}
	}
	if script == "" {
		return "", attrs
	}

	loc := script
	if line != "" {
		loc += ":" + line
		if column != "" {
			loc += ":" + column
		}
	}
	return loc, rest
}

// relative strips the working directory prefix from every path in s.
func (h *PrettyHandler) relative(s string) string {
	if h.base == "" || h.base == string(filepath.Separator) {
		return s
	}
	return strings.ReplaceAll(s, h.base+string(filepath.Separator), "")
}

func (h *PrettyHandler) qualify(attr slog.Attr) slog.Attr {
	if h.group != "" {
		attr.Key = h.group + "." + attr.Key
	}
	return attr
}

func (h *PrettyHandler) formatAttr(attr slog.Attr) string {
	value := attr.Value.String()
	if pathKeys[attr.Key[strings.LastIndex(attr.Key, ".")+1:]] {
		value = h.relative(value)
	}
	return attr.Key + "=" + value
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	for _, attr := range attrs {
		newAttrs = append(newAttrs, h.qualify(attr))
	}

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
		base:  h.base,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
		base:  h.base,
	}
}
