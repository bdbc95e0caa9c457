package jsonin

import (
	"errors"

	"github.com/clickworkorange/catajson/position"
)

// Sentinel errors. Every *ParseError unwraps to one of these.
var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrInvalidString   = errors.New("invalid string")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrOutOfRange      = errors.New("number out of range")
	ErrInvalidValue    = errors.New("invalid value")
	ErrMissingMember   = errors.New("missing member")
	ErrDuplicateMember = errors.New("duplicate member")
	ErrUnsupportedForm = errors.New("unsupported form")

	// ErrUnsupportedType is returned (unwrapped, without a position) when
	// Read is asked to decode a Go type it has no rule for.
	ErrUnsupportedType = errors.New("unsupported type")
)

// ParseError is a fatal, positioned error. Error returns the fully
// rendered diagnostic.
type ParseError struct {
	Source   string
	Offset   int
	Position position.Position
	AtEOF    bool
	Message  string
	Err      error

	text string
}

// Error returns the rendered diagnostic
func (e *ParseError) Error() string {
	return e.text
}

// Unwrap returns the sentinel cause
func (e *ParseError) Unwrap() error {
	return e.Err
}

// AsParseError returns err as a *ParseError if it is one
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
