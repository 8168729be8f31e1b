package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to render one output stream.
// Styles are bound to a renderer for that stream, so they reduce to plain
// text when the stream is not a terminal.
type palette struct {
	key     lipgloss.Style
	punct   lipgloss.Style
	str     lipgloss.Style
	num     lipgloss.Style
	boolean lipgloss.Style
	null    lipgloss.Style
	levels  map[string]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:     fg("8"),
		punct:   fg("8"),
		str:     fg("6"),
		num:     fg("3"),
		boolean: fg("5"),
		null:    fg("8").Italic(true),
		levels: map[string]lipgloss.Style{
			"TRACE": fg("8"),
			"DEBUG": fg("4"),
			"INFO":  fg("2"),
			"WARN":  fg("3").Bold(true),
			"ERROR": fg("1").Bold(true),
		},
	}
}

// field is a resolved attribute, or a named group of them.
type field struct {
	key    string
	value  slog.Value
	fields []field
	group  bool
}

// prettyHandler renders records either as a single key=value line or as an
// indented JSON object.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  *palette
	attrs  []slog.Attr
	groups []string
	json   bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	asJSON bool,
) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
		json:  asJSON,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = append(slices.Clip(h.attrs), nest(h.groups, attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []field

	if !r.Time.IsZero() {
		fields = h.collect(fields, nil, slog.Time(slog.TimeKey, r.Time))
	}

	fields = h.collect(fields, nil, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = h.collect(fields, nil, slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = h.collect(fields, nil, slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		fields = h.collect(fields, nil, a)
	}

	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	for _, a := range nest(h.groups, attrs) {
		fields = h.collect(fields, nil, a)
	}

	var buf bytes.Buffer

	if h.json {
		h.writeJSON(&buf, 0, fields)
	} else {
		h.writeText(&buf, "", fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// nest wraps attrs in the named groups, outermost first.
func nest(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(attrs) == 0 {
		return nil
	}

	for i := len(groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: groups[i], Value: slog.GroupValue(attrs...)}}
	}

	return attrs
}

// collect resolves a and appends it to dst, merging groups that share a key.
func (h *prettyHandler) collect(
	dst []field,
	groups []string,
	a slog.Attr,
) []field {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if len(members) == 0 {
			return dst
		}

		if a.Key == "" {
			for _, m := range members {
				dst = h.collect(dst, groups, m)
			}

			return dst
		}

		i := slices.IndexFunc(dst, func(f field) bool {
			return f.group && f.key == a.Key
		})
		if i < 0 {
			dst = append(dst, field{key: a.Key, group: true})
			i = len(dst) - 1
		}

		sub := append(slices.Clip(groups), a.Key)
		for _, m := range members {
			dst[i].fields = h.collect(dst[i].fields, sub, m)
		}

		return dst
	}

	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}

	if a.Key == "" {
		return dst
	}

	return append(dst, field{key: a.Key, value: a.Value})
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, prefix string, fields []field) {
	for _, f := range fields {
		key := prefix + f.key

		if f.group {
			h.writeText(buf, key+".", f.fields)

			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(key))
		buf.WriteString(h.style.punct.Render("="))
		buf.WriteString(h.value(f.value, prefix == "" && f.key == slog.LevelKey))
	}
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, depth int, fields []field) {
	buf.WriteString(h.style.punct.Render("{"))

	n := 0

	for _, f := range fields {
		if f.group && len(f.fields) == 0 {
			continue
		}

		if n > 0 {
			buf.WriteString(h.style.punct.Render(","))
		}

		n++

		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth+1))
		buf.WriteString(h.style.key.Render(jsonString(f.key)))
		buf.WriteString(h.style.punct.Render(":"))
		buf.WriteByte(' ')

		if f.group {
			h.writeJSON(buf, depth+1, f.fields)
		} else {
			buf.WriteString(h.value(f.value, depth == 0 && f.key == slog.LevelKey))
		}
	}

	if n > 0 {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth))
	}

	buf.WriteString(h.style.punct.Render("}"))
}

// value renders a resolved leaf value.
func (h *prettyHandler) value(v slog.Value, level bool) string {
	quote := textString
	if h.json {
		quote = jsonString
	}

	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if st, ok := h.style.levels[s]; ok && level {
			return st.Render(quote(s))
		}

		return h.style.str.Render(quote(s))

	case slog.KindInt64, slog.KindUint64:
		return h.style.num.Render(v.String())

	case slog.KindFloat64:
		f := v.Float64()
		if h.json && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return h.style.str.Render(quote(v.String()))
		}

		return h.style.num.Render(v.String())

	case slog.KindBool:
		return h.style.boolean.Render(v.String())

	case slog.KindDuration:
		return h.style.num.Render(quote(v.Duration().String()))

	case slog.KindTime:
		return h.style.str.Render(quote(v.Time().Format(time.RFC3339Nano)))

	default:
		switch a := v.Any().(type) {
		case nil:
			return h.style.null.Render("null")

		case error:
			return h.style.str.Render(quote(a.Error()))

		case fmt.Stringer:
			return h.style.str.Render(quote(a.String()))

		default:
			if h.json {
				if b, err := json.Marshal(a); err == nil {
					return h.style.str.Render(string(b))
				}
			}

			return h.style.str.Render(quote(fmt.Sprint(a)))
		}
	}
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}

	return string(b)
}

// textString quotes s only when it could not be read back as a single
// key=value token.
func textString(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool {
		return r == '=' || r == '"' || unicode.IsSpace(r) || !unicode.IsPrint(r)
	}) {
		return strconv.Quote(s)
	}

	return s
}
