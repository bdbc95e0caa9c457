// Package diagnostic renders positioned JSON errors and delivers non-fatal
// warnings to a Sink.
package diagnostic

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/clickworkorange/catajson/position"
	"github.com/clickworkorange/catajson/settings"
)

// UnknownSource is the name used when a source has no name
const UnknownSource = "<unknown source file>"

// Source is a named source buffer
type Source struct {
	Name string
	Text []byte
}

// DisplayName returns the source name used in diagnostics
func (s Source) DisplayName() string {
	if s.Name == "" {
		return UnknownSource
	}
	return s.Name
}

// Render formats message for the byte at offset in src.
//
// Human readable output is a header line followed by the preceding context,
// a caret line and the text following the offending byte:
//
//	Json error: <name>:<line>:<col>: <message>
//
//	<context>
//	<caret>
//	<remainder>
//
// An offset at or past the end of the source renders as "<name>:EOF" with
// no excerpt.
func Render(src Source, offset int, message string, s settings.Settings) string {
	if s.ErrorLogFormat == settings.GithubAction {
		return renderGithubAction(src, offset, message)
	}

	if offset < 0 || offset >= len(src.Text) {
		return fmt.Sprintf("Json error: %s:EOF: %s", src.DisplayName(), message)
	}

	pos := position.Resolve(src.Text, offset)

	var b strings.Builder
	fmt.Fprintf(&b, "Json error: %s:%d:%d: %s", src.DisplayName(), pos.Line, pos.Column, message)
	b.WriteString("\n\n")

	// context up to and including the offending byte
	b.Write(before(src.Text, offset, s.ContextLines, s.ContextBytes))
	if c := src.Text[offset]; !isSpace(c) {
		b.WriteByte(c)
	}
	b.WriteByte('\n')

	b.WriteString(strings.Repeat(" ", pos.Column-1))
	b.WriteString("^\n")

	b.WriteString(after(src.Text, offset, pos.Column, s.ContextLines, s.ContextBytes))

	return b.String()
}

func renderGithubAction(src Source, offset int, message string) string {
	message = escapeWorkflowData(message)
	if offset < 0 || offset >= len(src.Text) {
		return fmt.Sprintf("::error file=%s::%s", src.DisplayName(), message)
	}

	pos := position.Resolve(src.Text, offset)

	return fmt.Sprintf("::error file=%s,line=%d,col=%d::%s", src.DisplayName(), pos.Line, pos.Column, message)
}

var workflowEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

func escapeWorkflowData(s string) string {
	return workflowEscaper.Replace(s)
}

// before returns at most maxLines preceding lines (and maxBytes bytes) of
// context ending just before offset.
func before(src []byte, offset, maxLines, maxBytes int) []byte {
	begin := offset
	lines := 0
	for begin > 0 && offset-begin < maxBytes {
		if src[begin-1] == '\n' {
			lines++
			if lines > maxLines {
				break
			}
		}
		begin--
	}

	context := bytes.TrimLeft(src[begin:offset], "\r\n")

	return normalizeNewlines(context)
}

// after returns the text following offset, indented so it lines up after
// the caret. A line break at offset is not repeated.
func after(src []byte, offset, column, maxLines, maxBytes int) string {
	start := offset + 1
	pad := column
	if c := src[offset]; c == '\n' || c == '\r' {
		pad = 0
		if c == '\r' && start < len(src) && src[start] == '\n' {
			start++
		}
	}

	rest := src[start:]
	if len(rest) > maxBytes {
		rest = rest[:maxBytes]
	}

	lines := 0
	for i, c := range rest {
		if c == '\n' {
			lines++
			if lines == maxLines {
				rest = rest[:i+1]
				break
			}
		}
	}

	if len(rest) == 0 {
		return ""
	}

	out := strings.Repeat(" ", pad) + string(normalizeNewlines(rest))
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	return out
}

func normalizeNewlines(b []byte) []byte {
	if bytes.IndexByte(b, '\r') < 0 {
		return b
	}

	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))

	return bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}
