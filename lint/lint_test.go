package lint

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/go-logr/logr"

	"github.com/clickworkorange/catajson/diagnostic"
	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/settings"
)

func newLinter(reportUnvisited bool) *Linter {
	return New(Options{
		TranslatableFields: []string{"description"},
		PluralFields:       []string{"name"},
		ReportUnvisited:    reportUnvisited,
	}, settings.Default(), logr.Discard())
}

func kinds(ws []diagnostic.Warning) []diagnostic.Kind {
	var out []diagnostic.Kind
	for _, w := range ws {
		out = append(out, w.Kind)
	}
	return out
}

func TestLintDocument(t *testing.T) {
	src := `[
  { "id": "rag", "name": { "str": "rag" }, "description": "A rag. Useful." },
  { "id": "box", "name": "box", "description": { "str_sp": "x" } },
  { "id": "ok", "name": { "str_sp": "sheep" }, "messages": ["a. b"] }
]`

	result := newLinter(true).Lint("items.json", []byte(src))
	assert.True(t, result.Failed())
	assert.Equal(t, "items.json", result.Source)

	assert.Equal(t, 1, len(result.Errors))
	assert.True(t, errors.Is(result.Errors[0], jsonin.ErrUnsupportedForm))
	assert.Equal(t, "str_sp not supported here", result.Errors[0].Message)
	assert.Equal(t, 3, result.Errors[0].Position.Line)

	assert.Equal(t, []diagnostic.Kind{diagnostic.KindTextStyle, diagnostic.KindPlural}, kinds(result.Warnings))
	assert.Equal(t, 2, result.Warnings[0].Position.Line)
	assert.Equal(t, "items.json", result.Warnings[0].Source)
}

func TestLintRecoversFromFieldErrors(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		errors   int
		warnings []diagnostic.Kind
	}{
		{name: "clean", json: `{"name": "bar", "description": "Fine.  Sentence."}`},
		{name: "wrong type", json: `{"description": 42, "name": "box"}`, errors: 1, warnings: []diagnostic.Kind{diagnostic.KindPlural}},
		{name: "missing str", json: `{"description": {"ctxt": "x"}, "nested": {"description": "a. b"}}`, errors: 1, warnings: []diagnostic.Kind{diagnostic.KindTextStyle}},
		{name: "arrays of text", json: `{"description": ["Fine.  Sentence.", "Bad. Sentence."]}`, warnings: []diagnostic.Kind{diagnostic.KindTextStyle}},
		{name: "nolint", json: `{"description": {"str": "a. b", "//NOLINT(cata-text-style)": ""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newLinter(true).Lint("a.json", []byte(tt.json))
			assert.Equal(t, tt.errors, len(result.Errors))
			assert.Equal(t, tt.warnings, kinds(result.Warnings))
		})
	}
}

func TestLintStructuralErrorsStop(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		cause error
	}{
		{name: "trailing comma", json: `[{"name": "bar",}, {"name": "box"}]`, cause: jsonin.ErrSyntax},
		{name: "two documents", json: `{} {}`, cause: jsonin.ErrSyntax},
		{name: "empty", json: ``, cause: jsonin.ErrUnexpectedEOF},
		{name: "unterminated", json: `{"name": "bar"`, cause: jsonin.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newLinter(true).Lint("a.json", []byte(tt.json))
			assert.Equal(t, 1, len(result.Errors))
			assert.True(t, errors.Is(result.Errors[0], tt.cause))
			assert.Equal(t, 0, len(result.Warnings))
		})
	}
}

func TestReportUnvisited(t *testing.T) {
	src := `{"description": {"str": "x", "bogus": 1}}`

	result := newLinter(false).Lint("a.json", []byte(src))
	assert.Equal(t, 0, len(result.Warnings))

	result = newLinter(true).Lint("a.json", []byte(src))
	assert.Equal(t, []diagnostic.Kind{diagnostic.KindUnvisitedMember}, kinds(result.Warnings))
}
