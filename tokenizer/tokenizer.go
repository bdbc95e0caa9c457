package tokenizer

import (
	"fmt"

	"github.com/clickworkorange/catajson/position"
)

// Cursor is the character reader over an in-memory JSON source.
// A Cursor belongs to exactly one reader and is not safe for concurrent use.
type Cursor struct {
	input    []byte
	position int
	line     int
	column   int
}

// Mark is a saved cursor state that can be restored with Reset
type Mark struct {
	position int
	line     int
	column   int
}

// Offset returns the byte offset the mark was taken at
func (m Mark) Offset() int {
	return m.position
}

// NewCursor creates a new Cursor positioned at the start of input
func NewCursor(input []byte) *Cursor {
	return &Cursor{
		input:  input,
		line:   1,
		column: 1,
	}
}

// Source returns the underlying buffer
func (c *Cursor) Source() []byte {
	return c.input
}

// Peek returns the next byte without consuming it, or EndOfInput
func (c *Cursor) Peek() int {
	return c.PeekAt(0)
}

// PeekAt returns the byte n positions ahead without consuming it, or EndOfInput
func (c *Cursor) PeekAt(n int) int {
	if c.position+n >= len(c.input) {
		return EndOfInput
	}
	return int(c.input[c.position+n])
}

// PeekType classifies the value that starts at the cursor
func (c *Cursor) PeekType() TokenType {
	return Classify(c.input, c.position)
}

// Next consumes and returns the next byte, or EndOfInput
func (c *Cursor) Next() int {
	if c.position >= len(c.input) {
		return EndOfInput
	}

	ch := c.input[c.position]
	c.position++

	if ch == '\n' {
		c.line++
		c.column = 1
	} else {
		c.column++
	}

	return int(ch)
}

// SkipWhitespace consumes spaces, tabs and line breaks
func (c *Cursor) SkipWhitespace() {
	for {
		switch c.Peek() {
		case ' ', '\t', '\r', '\n':
			c.Next()
		default:
			return
		}
	}
}

// AtEOF reports whether the input is exhausted
func (c *Cursor) AtEOF() bool {
	return c.position >= len(c.input)
}

// Offset returns the current byte offset
func (c *Cursor) Offset() int {
	return c.position
}

// Position returns the current line and column
func (c *Cursor) Position() position.Position {
	return position.Position{
		Offset: c.position,
		Line:   c.line,
		Column: c.column,
	}
}

// Mark saves the cursor state
func (c *Cursor) Mark() Mark {
	return Mark{position: c.position, line: c.line, column: c.column}
}

// Reset restores a state saved with Mark
func (c *Cursor) Reset(m Mark) {
	c.position = m.position
	c.line = m.line
	c.column = m.column
}

// Seek moves the cursor to an absolute offset.
// Offsets equal to the input length are allowed and leave the cursor at EOF.
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.input) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrSeekOutOfRange, offset, len(c.input))
	}

	pos := position.Resolve(c.input, offset)
	c.position = offset
	c.line = pos.Line
	c.column = pos.Column

	return nil
}

// Expect consumes the next byte if it equals want
func (c *Cursor) Expect(want byte) error {
	got := c.Peek()
	if got != int(want) {
		if got == EndOfInput {
			return fmt.Errorf("%w: expected '%c' but reached end of input at line %d, column %d", ErrUnexpectedCharacter, want, c.line, c.column)
		}
		return fmt.Errorf("%w: expected '%c' but got '%c' at line %d, column %d", ErrUnexpectedCharacter, want, got, c.line, c.column)
	}

	c.Next()

	return nil
}

// ConsumeWord consumes word if the input continues with it
func (c *Cursor) ConsumeWord(word string) bool {
	if !hasWord(c.input, c.position, word) {
		return false
	}

	for range len(word) {
		c.Next()
	}

	return true
}
