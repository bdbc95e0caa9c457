package jsonin

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a numeric literal kept as written
type Number string

// IsInteger reports whether the literal has no fraction and no exponent
func (n Number) IsInteger() bool {
	return !strings.ContainsAny(string(n), ".eE")
}

// String returns the literal
func (n Number) String() string {
	return string(n)
}

// Int64 parses the literal as an integer
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Float64 parses the literal as a float
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Decimal parses the literal without loss of precision
func (n Number) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(string(n))
}

// scanNumber consumes -?digits[.digits][(e|E)[+-]digits]
func (r *Reader) scanNumber() (Number, int, error) {
	r.cursor.SkipWhitespace()
	mark := r.Mark()
	start := r.cursor.Offset()

	if r.cursor.Peek() == '-' {
		r.cursor.Next()
	}
	if !r.digits() {
		r.Reset(mark)
		return "", start, r.expected("number")
	}

	if r.cursor.Peek() == '.' {
		r.cursor.Next()
		if !r.digits() {
			return "", start, r.expected("digit after '.'")
		}
	}

	if c := r.cursor.Peek(); c == 'e' || c == 'E' {
		r.cursor.Next()
		if c := r.cursor.Peek(); c == '+' || c == '-' {
			r.cursor.Next()
		}
		if !r.digits() {
			return "", start, r.expected("digit in exponent")
		}
	}

	return Number(r.source.Text[start:r.cursor.Offset()]), start, nil
}

func (r *Reader) digits() bool {
	found := false
	for {
		c := r.cursor.Peek()
		if c < '0' || c > '9' {
			return found
		}
		r.cursor.Next()
		found = true
	}
}

// ReadNumber reads a number literal without converting it
func (r *Reader) ReadNumber() (Number, error) {
	n, _, err := r.scanNumber()
	if err != nil {
		return "", err
	}

	return n, r.skipSeparator()
}

// readInteger reads an integer literal. A positive exponent is allowed as
// long as the value stays integral.
func (r *Reader) readInteger() (decimal.Decimal, int, error) {
	n, start, err := r.scanNumber()
	if err != nil {
		return decimal.Decimal{}, start, err
	}

	s := string(n)
	if strings.Contains(s, ".") || strings.Contains(s, "e-") || strings.Contains(s, "E-") {
		return decimal.Decimal{}, start, r.ErrorAt(start, ErrTypeMismatch, "Integers cannot have a decimal point or negative exponent.")
	}

	d, err := n.Decimal()
	if err != nil {
		return decimal.Decimal{}, start, r.ErrorAt(start, ErrSyntax, err.Error())
	}
	if d.Exponent() > 20 && !d.IsZero() {
		return decimal.Decimal{}, start, r.ErrorAt(start, ErrOutOfRange, "integer value "+s+" out of range")
	}

	return d, start, r.skipSeparator()
}

// ReadInt reads a signed integer
func (r *Reader) ReadInt() (int64, error) {
	d, start, err := r.readInteger()
	if err != nil {
		return 0, err
	}

	bi := d.BigInt()
	if !bi.IsInt64() {
		return 0, r.ErrorAt(start, ErrOutOfRange, "integer value "+d.String()+" out of range")
	}

	return bi.Int64(), nil
}

// ReadUint reads an unsigned integer
func (r *Reader) ReadUint() (uint64, error) {
	d, start, err := r.readInteger()
	if err != nil {
		return 0, err
	}

	if d.IsNegative() {
		return 0, r.ErrorAt(start, ErrOutOfRange, "expected unsigned integer but got "+d.String())
	}

	bi := d.BigInt()
	if !bi.IsUint64() {
		return 0, r.ErrorAt(start, ErrOutOfRange, "integer value "+d.String()+" out of range")
	}

	return bi.Uint64(), nil
}

// ReadFloat reads a floating point number
func (r *Reader) ReadFloat() (float64, error) {
	n, start, err := r.scanNumber()
	if err != nil {
		return 0, err
	}

	f, err := n.Float64()
	if err != nil {
		return 0, r.ErrorAt(start, ErrOutOfRange, "number "+n.String()+" out of range")
	}

	return f, r.skipSeparator()
}
