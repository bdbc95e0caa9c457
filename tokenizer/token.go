package tokenizer

import "errors"

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrSeekOutOfRange      = errors.New("seek offset out of range")
)

// EndOfInput is returned by Peek and Next when the input is exhausted.
// It never collides with a byte value.
const EndOfInput = -1

// TokenType represents the type of the next value in the stream
type TokenType int

const (
	// Structural tokens
	EOF TokenType = iota
	WHITESPACE
	OPENED_BRACE   // {
	CLOSED_BRACE   // }
	OPENED_BRACKET // [
	CLOSED_BRACKET // ]
	COMMA          // ,
	COLON          // :

	// Scalars
	STRING // "..."
	NUMBER // -?digits
	TRUE   // true
	FALSE  // false
	NULL   // null

	OTHER
)

// String returns the string representation of the token type
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case OPENED_BRACE:
		return "OPENED_BRACE"
	case CLOSED_BRACE:
		return "CLOSED_BRACE"
	case OPENED_BRACKET:
		return "OPENED_BRACKET"
	case CLOSED_BRACKET:
		return "CLOSED_BRACKET"
	case COMMA:
		return "COMMA"
	case COLON:
		return "COLON"
	case STRING:
		return "STRING"
	case NUMBER:
		return "NUMBER"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case NULL:
		return "NULL"
	default:
		return "OTHER"
	}
}

// IsValueStart reports whether a token of this type can begin a value
func (t TokenType) IsValueStart() bool {
	switch t {
	case OPENED_BRACE, OPENED_BRACKET, STRING, NUMBER, TRUE, FALSE, NULL:
		return true
	default:
		return false
	}
}

// Classify returns the token type that begins at src[offset]
func Classify(src []byte, offset int) TokenType {
	if offset >= len(src) {
		return EOF
	}

	switch c := src[offset]; c {
	case ' ', '\t', '\r', '\n':
		return WHITESPACE
	case '{':
		return OPENED_BRACE
	case '}':
		return CLOSED_BRACE
	case '[':
		return OPENED_BRACKET
	case ']':
		return CLOSED_BRACKET
	case ',':
		return COMMA
	case ':':
		return COLON
	case '"':
		return STRING
	case '-':
		return NUMBER
	case 't':
		if hasWord(src, offset, "true") {
			return TRUE
		}
	case 'f':
		if hasWord(src, offset, "false") {
			return FALSE
		}
	case 'n':
		if hasWord(src, offset, "null") {
			return NULL
		}
	default:
		if c >= '0' && c <= '9' {
			return NUMBER
		}
	}

	return OTHER
}

func hasWord(src []byte, offset int, word string) bool {
	return len(src)-offset >= len(word) && string(src[offset:offset+len(word)]) == word
}
