// Package jsonin decodes JSON text into Go values one token at a time and
// reports fatal problems as positioned *ParseError values.
package jsonin

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/clickworkorange/catajson/diagnostic"
	"github.com/clickworkorange/catajson/position"
	"github.com/clickworkorange/catajson/settings"
	"github.com/clickworkorange/catajson/tokenizer"
)

// Readable is implemented by types that decode themselves from a Reader
type Readable interface {
	Deserialize(r *Reader) error
}

// Reader decodes values from an in-memory JSON source.
// A Reader is not safe for concurrent use.
type Reader struct {
	cursor       *tokenizer.Cursor
	source       diagnostic.Source
	settings     settings.Settings
	sink         diagnostic.Sink
	log          logr.Logger
	ateSeparator bool
}

// Option configures a Reader
type Option func(*Reader)

// WithSourceName sets the name shown in diagnostics
func WithSourceName(name string) Option {
	return func(r *Reader) {
		r.source.Name = name
	}
}

// WithSettings replaces the settings snapshot taken from settings.Current
func WithSettings(s settings.Settings) Option {
	return func(r *Reader) {
		r.settings = s
	}
}

// WithSink sets where warnings are delivered
func WithSink(sink diagnostic.Sink) Option {
	return func(r *Reader) {
		r.sink = sink
	}
}

// WithLogger sets the logger. Without WithSink, warnings are logged here too.
func WithLogger(log logr.Logger) Option {
	return func(r *Reader) {
		r.log = log
	}
}

// NewReader creates a Reader over src
func NewReader(src []byte, opts ...Option) *Reader {
	r := &Reader{
		cursor:   tokenizer.NewCursor(src),
		source:   diagnostic.Source{Text: src},
		settings: settings.Current(),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sink == nil {
		r.sink = diagnostic.NewLogSink(r.log)
	}

	return r
}

// Settings returns the settings this reader validates with
func (r *Reader) Settings() settings.Settings {
	return r.settings
}

// Logger returns the reader's logger
func (r *Reader) Logger() logr.Logger {
	return r.log
}

// Source returns the named source buffer
func (r *Reader) Source() diagnostic.Source {
	return r.source
}

// Tell returns the current byte offset
func (r *Reader) Tell() int {
	return r.cursor.Offset()
}

// Position returns the current line and column
func (r *Reader) Position() position.Position {
	return r.cursor.Position()
}

// Seek moves to an absolute byte offset
func (r *Reader) Seek(offset int) error {
	r.ateSeparator = false
	return r.cursor.Seek(offset)
}

// Mark is a saved reader state
type Mark struct {
	cursor       tokenizer.Mark
	ateSeparator bool
}

// Offset returns the byte offset the mark was taken at
func (m Mark) Offset() int {
	return m.cursor.Offset()
}

// Mark saves the reader state
func (r *Reader) Mark() Mark {
	return Mark{cursor: r.cursor.Mark(), ateSeparator: r.ateSeparator}
}

// Reset restores a state saved with Mark
func (r *Reader) Reset(m Mark) {
	r.cursor.Reset(m.cursor)
	r.ateSeparator = m.ateSeparator
}

// EOF skips whitespace and reports whether the input is exhausted
func (r *Reader) EOF() bool {
	r.cursor.SkipWhitespace()
	return r.cursor.AtEOF()
}

// PeekType skips whitespace and classifies the next value
func (r *Reader) PeekType() tokenizer.TokenType {
	r.cursor.SkipWhitespace()
	return r.cursor.PeekType()
}

// TestNull reports whether the next value is null
func (r *Reader) TestNull() bool { return r.PeekType() == tokenizer.NULL }

// TestBool reports whether the next value is true or false
func (r *Reader) TestBool() bool {
	t := r.PeekType()
	return t == tokenizer.TRUE || t == tokenizer.FALSE
}

// TestNumber reports whether the next value is a number
func (r *Reader) TestNumber() bool { return r.PeekType() == tokenizer.NUMBER }

// TestString reports whether the next value is a string
func (r *Reader) TestString() bool { return r.PeekType() == tokenizer.STRING }

// TestArray reports whether the next value is an array
func (r *Reader) TestArray() bool { return r.PeekType() == tokenizer.OPENED_BRACKET }

// TestObject reports whether the next value is an object
func (r *Reader) TestObject() bool { return r.PeekType() == tokenizer.OPENED_BRACE }

// ErrorAt returns a fatal error for the byte at offset
func (r *Reader) ErrorAt(offset int, cause error, message string) *ParseError {
	parseErrorsTotal.Inc()

	e := &ParseError{
		Source:  r.source.DisplayName(),
		Offset:  offset,
		AtEOF:   offset >= len(r.source.Text),
		Message: message,
		Err:     cause,
		text:    diagnostic.Render(r.source, offset, message, r.settings),
	}
	if !e.AtEOF {
		e.Position = position.Resolve(r.source.Text, offset)
	}

	return e
}

// Error returns a fatal error at the current position
func (r *Reader) Error(cause error, message string) *ParseError {
	return r.ErrorAt(r.cursor.Offset(), cause, message)
}

func (r *Reader) errorf(cause error, format string, args ...any) *ParseError {
	return r.Error(cause, fmt.Sprintf(format, args...))
}

// StringError returns a fatal error that points n decoded characters into
// the string literal whose opening quote is at quote. n == 0 points at the
// quote itself.
func (r *Reader) StringError(quote, n int, message string) *ParseError {
	return r.ErrorAt(position.SkipChars(r.source.Text, quote, n), ErrInvalidValue, message)
}

// WarnAt reports a non-fatal diagnostic for the byte at offset
func (r *Reader) WarnAt(kind diagnostic.Kind, offset int, message string) {
	diagnostic.Emit(r.sink, diagnostic.NewWarning(kind, r.source, offset, message, r.settings))
}

// Warn reports a non-fatal diagnostic at the current position
func (r *Reader) Warn(kind diagnostic.Kind, message string) {
	r.WarnAt(kind, r.cursor.Offset(), message)
}

// StringWarning is the non-fatal counterpart of StringError
func (r *Reader) StringWarning(kind diagnostic.Kind, quote, n int, message string) {
	r.WarnAt(kind, position.SkipChars(r.source.Text, quote, n), message)
}

// expected builds a type mismatch error describing the byte at the cursor
func (r *Reader) expected(what string) *ParseError {
	c := r.cursor.Peek()
	if c == tokenizer.EndOfInput {
		return r.errorf(ErrUnexpectedEOF, "expected %s but reached EOF", what)
	}
	return r.errorf(ErrTypeMismatch, "expected %s but got %s", what, r.describeNext())
}

func (r *Reader) describeNext() string {
	src := r.source.Text[r.cursor.Offset():]
	ch, size := utf8.DecodeRune(src)
	if ch == utf8.RuneError && size <= 1 {
		return fmt.Sprintf("'\\x%02X'", src[0])
	}
	return fmt.Sprintf("'%c'", ch)
}

// skipSeparator consumes whitespace and at most one ',' after a value
func (r *Reader) skipSeparator() error {
	r.cursor.SkipWhitespace()

	switch c := r.cursor.Peek(); c {
	case ',':
		r.cursor.Next()
		r.ateSeparator = true
		r.cursor.SkipWhitespace()
	case ']', '}', ':', tokenizer.EndOfInput:
		r.ateSeparator = false
	default:
		return r.errorf(ErrSyntax, "expected ',' but got %s", r.describeNext())
	}

	return nil
}

// StartArray consumes '['
func (r *Reader) StartArray() error {
	r.cursor.SkipWhitespace()
	if r.cursor.Peek() != '[' {
		return r.expected("array")
	}
	r.cursor.Next()
	r.ateSeparator = false

	return nil
}

// EndArray consumes ']' and reports true if the array ends here
func (r *Reader) EndArray() (bool, error) {
	return r.end(']', "array")
}

// StartObject consumes '{'
func (r *Reader) StartObject() error {
	r.cursor.SkipWhitespace()
	if r.cursor.Peek() != '{' {
		return r.expected("object")
	}
	r.cursor.Next()
	r.ateSeparator = false

	return nil
}

// EndObject consumes '}' and reports true if the object ends here
func (r *Reader) EndObject() (bool, error) {
	return r.end('}', "object")
}

func (r *Reader) end(closer byte, what string) (bool, error) {
	r.cursor.SkipWhitespace()

	switch c := r.cursor.Peek(); {
	case c == tokenizer.EndOfInput:
		return false, r.errorf(ErrUnexpectedEOF, "couldn't find end of %s, reached EOF.", what)
	case c != int(closer):
		return false, nil
	case r.ateSeparator:
		return false, r.errorf(ErrSyntax, "unexpected '%c' after ','", closer)
	}

	r.cursor.Next()

	return true, r.skipSeparator()
}

// ReadArray calls fn once per element of the next array
func (r *Reader) ReadArray(fn func(r *Reader) error) error {
	if err := r.StartArray(); err != nil {
		return err
	}

	for {
		end, err := r.EndArray()
		if err != nil {
			return err
		}
		if end {
			return nil
		}
		if err := fn(r); err != nil {
			return err
		}
	}
}

// ReadNull consumes null
func (r *Reader) ReadNull() error {
	r.cursor.SkipWhitespace()
	if !r.cursor.ConsumeWord("null") {
		return r.expected("null")
	}
	return r.skipSeparator()
}

// ReadBool reads true or false
func (r *Reader) ReadBool() (bool, error) {
	r.cursor.SkipWhitespace()

	var b bool
	switch {
	case r.cursor.ConsumeWord("true"):
		b = true
	case r.cursor.ConsumeWord("false"):
		b = false
	default:
		return false, r.expected("bool")
	}

	return b, r.skipSeparator()
}

// ReadMemberName reads an object key and the ':' that follows it
func (r *Reader) ReadMemberName() (string, error) {
	r.cursor.SkipWhitespace()
	if r.cursor.Peek() != '"' && r.cursor.Peek() != tokenizer.EndOfInput {
		return "", r.expected("member name")
	}

	name, _, err := r.readString()
	if err != nil {
		return "", err
	}

	r.cursor.SkipWhitespace()
	if r.cursor.Peek() != ':' {
		return "", r.expected("':'")
	}
	r.cursor.Next()
	r.ateSeparator = false

	return name, nil
}

// SkipValue consumes the next value, validating it structurally
func (r *Reader) SkipValue() error {
	switch r.PeekType() {
	case tokenizer.STRING:
		_, err := r.ReadString()
		return err
	case tokenizer.NUMBER:
		_, err := r.ReadNumber()
		return err
	case tokenizer.TRUE, tokenizer.FALSE:
		_, err := r.ReadBool()
		return err
	case tokenizer.NULL:
		return r.ReadNull()
	case tokenizer.OPENED_BRACKET:
		return r.ReadArray(func(r *Reader) error {
			return r.SkipValue()
		})
	case tokenizer.OPENED_BRACE:
		if err := r.StartObject(); err != nil {
			return err
		}
		for {
			end, err := r.EndObject()
			if err != nil {
				return err
			}
			if end {
				return nil
			}
			if _, err := r.ReadMemberName(); err != nil {
				return err
			}
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
	default:
		return r.expected("value")
	}
}
