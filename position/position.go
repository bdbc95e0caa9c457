// Package position maps byte offsets in a JSON source to line and column
// numbers, and maps decoded string offsets back to raw source offsets.
//
// Columns count bytes from the start of the line, starting at 1. Both the
// reader's running position and the validator's back-mapping go through
// this package so the two never disagree.
package position

import (
	"bytes"
	"fmt"
)

// Position represents a location in a source buffer
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineStart returns the offset of the first byte of the line containing offset
func LineStart(src []byte, offset int) int {
	offset = clamp(src, offset)
	return bytes.LastIndexByte(src[:offset], '\n') + 1
}

// Resolve converts a byte offset into a Position
func Resolve(src []byte, offset int) Position {
	offset = clamp(src, offset)

	return Position{
		Offset: offset,
		Line:   bytes.Count(src[:offset], []byte{'\n'}) + 1,
		Column: offset - LineStart(src, offset) + 1,
	}
}

// CharWidth returns how many raw bytes at src[i] make up one decoded
// character of a string literal: a backslash escape, a \u escape (a
// surrogate pair counts as one character), or one UTF-8 sequence.
func CharWidth(src []byte, i int) int {
	if i >= len(src) {
		return 0
	}

	width := 1
	switch c := src[i]; {
	case c == '\\':
		if i+1 < len(src) && src[i+1] == 'u' {
			width = 6
			if hi, ok := hex4(src, i+2); ok && hi >= 0xD800 && hi <= 0xDBFF &&
				i+7 < len(src) && src[i+6] == '\\' && src[i+7] == 'u' {
				if lo, ok := hex4(src, i+8); ok && lo >= 0xDC00 && lo <= 0xDFFF {
					width = 12
				}
			}
		} else {
			width = 2
		}
	case c >= 0xFC:
		width = 6
	case c >= 0xF8:
		width = 5
	case c >= 0xF0:
		width = 4
	case c >= 0xE0:
		width = 3
	case c >= 0xC0:
		width = 2
	}

	if i+width > len(src) {
		width = len(src) - i
	}

	return width
}

// SkipChars returns the offset of the last raw byte of the n-th decoded
// character of the string literal whose opening quote is at quote. For n == 0
// the quote itself is returned.
func SkipChars(src []byte, quote int, n int) int {
	p := quote + 1
	for k := 0; k < n && p < len(src); k++ {
		p += CharWidth(src, p)
	}

	return p - 1
}

func hex4(src []byte, i int) (rune, bool) {
	if i+4 > len(src) {
		return 0, false
	}

	var r rune
	for _, c := range src[i : i+4] {
		v, ok := HexValue(c)
		if !ok {
			return 0, false
		}
		r = r<<4 | v
	}

	return r, true
}

// HexValue returns the numeric value of a hexadecimal digit
func HexValue(c byte) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0'), true
	case c >= 'a' && c <= 'f':
		return rune(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return rune(c-'A') + 10, true
	default:
		return 0, false
	}
}

func clamp(src []byte, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(src) {
		return len(src)
	}
	return offset
}
