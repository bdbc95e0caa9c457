package jsonin

import (
	"strings"
	"unicode/utf8"

	"github.com/clickworkorange/catajson/position"
	"github.com/clickworkorange/catajson/tokenizer"
)

// smallest code point that needs n continuation bytes
var minCodePoint = [...]rune{0, 0x80, 0x800, 0x10000, 0x200000, 0x4000000}

// ReadString reads a string value
func (r *Reader) ReadString() (string, error) {
	s, _, err := r.ReadStringPos()
	return s, err
}

// ReadStringPos reads a string value and also returns the offset of its
// opening quote, for use with StringError and StringWarning.
func (r *Reader) ReadStringPos() (string, int, error) {
	s, quote, err := r.readString()
	if err != nil {
		return "", quote, err
	}

	return s, quote, r.skipSeparator()
}

func (r *Reader) eofInString() *ParseError {
	return r.ErrorAt(len(r.source.Text), ErrUnexpectedEOF, "couldn't find end of string, reached EOF.")
}

func (r *Reader) readString() (string, int, error) {
	r.cursor.SkipWhitespace()
	quote := r.cursor.Offset()

	switch r.cursor.Peek() {
	case '"':
		r.cursor.Next()
	case tokenizer.EndOfInput:
		return "", quote, r.eofInString()
	default:
		return "", quote, r.errorf(ErrTypeMismatch, "expected string but got %s", r.describeNext())
	}

	var b strings.Builder
	for {
		offset := r.cursor.Offset()
		c := r.cursor.Next()

		switch {
		case c == tokenizer.EndOfInput:
			return "", quote, r.eofInString()
		case c == '"':
			return b.String(), quote, nil
		case c == '\\':
			if err := r.readEscape(&b); err != nil {
				return "", quote, err
			}
		case c == '\n' || c == '\r':
			return "", quote, r.ErrorAt(offset, ErrInvalidString, "reached end of line without closing string")
		case c < utf8.RuneSelf:
			b.WriteByte(byte(c))
		default:
			if err := r.readUTF8(&b, offset, byte(c)); err != nil {
				return "", quote, err
			}
		}
	}
}

func (r *Reader) readEscape(b *strings.Builder) error {
	offset := r.cursor.Offset()

	switch c := r.cursor.Next(); c {
	case tokenizer.EndOfInput:
		return r.eofInString()
	case '"', '\\', '/':
		b.WriteByte(byte(c))
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		cp, err := r.readHex4()
		if err != nil {
			return err
		}
		last := r.cursor.Offset() - 1

		switch {
		case cp >= 0xD800 && cp <= 0xDBFF:
			if r.cursor.Peek() == tokenizer.EndOfInput || (r.cursor.Peek() == '\\' && r.cursor.PeekAt(1) == tokenizer.EndOfInput) {
				return r.eofInString()
			}
			if r.cursor.Peek() != '\\' || r.cursor.PeekAt(1) != 'u' {
				return r.ErrorAt(last, ErrInvalidString, "invalid surrogate pair")
			}
			r.cursor.Next()
			r.cursor.Next()
			lo, err := r.readHex4()
			if err != nil {
				return err
			}
			if lo < 0xDC00 || lo > 0xDFFF {
				return r.ErrorAt(r.cursor.Offset()-1, ErrInvalidString, "invalid surrogate pair")
			}
			cp = 0x10000 + (cp-0xD800)<<10 + (lo - 0xDC00)
		case cp >= 0xDC00 && cp <= 0xDFFF:
			return r.ErrorAt(last, ErrInvalidString, "invalid surrogate pair")
		}
		b.WriteRune(cp)
	default:
		return r.ErrorAt(offset, ErrInvalidString, "invalid escape sequence")
	}

	return nil
}

func (r *Reader) readHex4() (rune, error) {
	var cp rune
	for range 4 {
		offset := r.cursor.Offset()
		c := r.cursor.Next()
		if c == tokenizer.EndOfInput {
			return 0, r.eofInString()
		}
		v, ok := position.HexValue(byte(c))
		if !ok {
			return 0, r.ErrorAt(offset, ErrInvalidString, "expected hex digit")
		}
		cp = cp<<4 | v
	}

	return cp, nil
}

// readUTF8 decodes a multi-byte sequence whose lead byte at offset has
// already been consumed. Legacy five and six byte forms are decoded so that
// they can be reported as invalid code points.
func (r *Reader) readUTF8(b *strings.Builder, offset int, lead byte) error {
	var n int
	var cp rune

	switch {
	case lead < 0xC0:
		return r.ErrorAt(offset, ErrInvalidString, "invalid utf8 sequence")
	case lead < 0xE0:
		n, cp = 1, rune(lead&0x1F)
	case lead < 0xF0:
		n, cp = 2, rune(lead&0x0F)
	case lead < 0xF8:
		n, cp = 3, rune(lead&0x07)
	case lead < 0xFC:
		n, cp = 4, rune(lead&0x03)
	case lead < 0xFE:
		n, cp = 5, rune(lead&0x01)
	default:
		return r.ErrorAt(offset, ErrInvalidString, "invalid utf8 sequence")
	}

	last := offset
	for range n {
		last = r.cursor.Offset()
		c := r.cursor.Peek()
		if c == tokenizer.EndOfInput {
			return r.eofInString()
		}
		if c&0xC0 != 0x80 {
			return r.ErrorAt(last, ErrInvalidString, "invalid utf8 sequence")
		}
		r.cursor.Next()
		cp = cp<<6 | rune(c&0x3F)
	}

	if cp < minCodePoint[n] || cp > utf8.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
		return r.ErrorAt(last, ErrInvalidString, "invalid unicode codepoint")
	}
	b.WriteRune(cp)

	return nil
}
