// Package jsonout writes JSON text. Values are written compactly unless
// pretty printing is enabled, maps and sets are written in sorted order and
// floats use six fraction digits, so equal values always serialize to the
// same bytes.
package jsonout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedValue = errors.New("unsupported value")
	ErrUnsupportedType  = errors.New("unsupported type")
	ErrUnbalanced       = errors.New("unbalanced container")
)

// Writable is implemented by types that serialize themselves
type Writable interface {
	Serialize(w *Writer)
}

// Writer accumulates JSON text. The first error sticks: once set, later
// calls are no-ops and Err returns it.
type Writer struct {
	buf    bytes.Buffer
	pretty bool
	indent string

	// one entry per open container; true once it has an element
	stack     []bool
	needComma bool
	afterName bool
	err       error
}

// Option configures a Writer
type Option func(*Writer)

// WithPrettyPrint enables multi-line output indented by indent per level
func WithPrettyPrint(indent string) Option {
	return func(w *Writer) {
		w.pretty = true
		w.indent = indent
	}
}

// NewWriter creates an empty Writer
func NewWriter(opts ...Option) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Err returns the first error encountered
func (w *Writer) Err() error {
	if w.err == nil && len(w.stack) != 0 {
		return fmt.Errorf("%w: %d containers still open", ErrUnbalanced, len(w.stack))
	}
	return w.err
}

// Bytes returns the text written so far
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// String returns the text written so far
func (w *Writer) String() string {
	return w.buf.String()
}

// WriteTo copies the written text to dst
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	if err := w.Err(); err != nil {
		return 0, err
	}
	return w.buf.WriteTo(dst)
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) newline() {
	w.buf.WriteByte('\n')
	w.buf.WriteString(strings.Repeat(w.indent, len(w.stack)))
}

// beginValue writes whatever has to precede a value at this point
func (w *Writer) beginValue() {
	if w.afterName {
		w.afterName = false
		return
	}
	if w.needComma {
		w.buf.WriteByte(',')
	}
	if n := len(w.stack); n > 0 {
		w.stack[n-1] = true
		if w.pretty {
			w.newline()
		}
	}
}

func (w *Writer) endValue() {
	w.needComma = true
}

func (w *Writer) open(c byte) {
	if w.err != nil {
		return
	}
	w.beginValue()
	w.buf.WriteByte(c)
	w.stack = append(w.stack, false)
	w.needComma = false
}

func (w *Writer) close(c byte) {
	if w.err != nil {
		return
	}
	n := len(w.stack)
	if n == 0 {
		w.fail(fmt.Errorf("%w: '%c' without a matching opener", ErrUnbalanced, c))
		return
	}
	filled := w.stack[n-1]
	w.stack = w.stack[:n-1]
	if w.pretty && filled {
		w.newline()
	}
	w.buf.WriteByte(c)
	w.endValue()
}

// StartObject writes '{'
func (w *Writer) StartObject() { w.open('{') }

// EndObject writes '}'
func (w *Writer) EndObject() { w.close('}') }

// StartArray writes '['
func (w *Writer) StartArray() { w.open('[') }

// EndArray writes ']'
func (w *Writer) EndArray() { w.close(']') }

// Member writes an object key. The next value written belongs to it.
func (w *Writer) Member(name string) {
	if w.err != nil {
		return
	}
	w.beginValue()
	writeQuoted(&w.buf, name)
	w.buf.WriteByte(':')
	if w.pretty {
		w.buf.WriteByte(' ')
	}
	w.needComma = false
	w.afterName = true
}

// MemberValue writes a key and its value
func (w *Writer) MemberValue(name string, v any) {
	w.Member(name)
	w.Write(v)
}

// MemberDefault writes a key and its value unless the value equals def
func (w *Writer) MemberDefault(name string, v, def any) {
	if equalValues(v, def) {
		return
	}
	w.MemberValue(name, v)
}

func (w *Writer) raw(s string) {
	if w.err != nil {
		return
	}
	w.beginValue()
	w.buf.WriteString(s)
	w.endValue()
}

// WriteString writes a quoted, escaped string
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	w.beginValue()
	writeQuoted(&w.buf, s)
	w.endValue()
}

// WriteInt writes a signed integer
func (w *Writer) WriteInt(n int64) { w.raw(strconv.FormatInt(n, 10)) }

// WriteUint writes an unsigned integer
func (w *Writer) WriteUint(n uint64) { w.raw(strconv.FormatUint(n, 10)) }

// WriteFloat writes f with six fraction digits. NaN and infinities have
// no JSON form and fail the writer.
func (w *Writer) WriteFloat(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.fail(fmt.Errorf("%w: %v cannot be written as JSON", ErrUnsupportedValue, f))
		return
	}
	w.raw(strconv.FormatFloat(f, 'f', 6, 64))
}

// WriteBool writes true or false
func (w *Writer) WriteBool(b bool) { w.raw(strconv.FormatBool(b)) }

// WriteNull writes null
func (w *Writer) WriteNull() { w.raw("null") }

// WriteNumber writes a numeric literal exactly as given
func (w *Writer) WriteNumber(literal string) {
	if !validNumber(literal) {
		w.fail(fmt.Errorf("%w: %q is not a number", ErrUnsupportedValue, literal))
		return
	}
	w.raw(literal)
}

func validNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	digits := func() bool {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i > start
	}
	if !digits() {
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if !digits() {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if !digits() {
			return false
		}
	}
	return i == len(s)
}

const hexDigits = "0123456789abcdef"

func writeQuoted(b *bytes.Buffer, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0xF])
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
}

// Marshal writes v and returns the text
func Marshal(v any, opts ...Option) ([]byte, error) {
	w := NewWriter(opts...)
	w.Write(v)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
