package celmerge

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
	"github.com/clickworkorange/catajson/rle"
	"github.com/clickworkorange/catajson/settings"
	"github.com/clickworkorange/catajson/value"
)

func parse(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := value.Parse([]byte(src), jsonin.WithSettings(settings.Default()))
	assert.NoError(t, err)
	return v
}

func TestCompileSame(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		a, b     string
		expected bool
	}{
		{name: "empty means equal", expr: "", a: `{"id": "x", "n": 1}`, b: `{"n": 1.0, "id": "x"}`, expected: true},
		{name: "empty means equal differs", expr: "", a: `{"id": "x", "n": 1}`, b: `{"id": "x", "n": 2}`, expected: false},
		{name: "member", expr: "a.id == b.id", a: `{"id": "x", "n": 1}`, b: `{"id": "x", "n": 2}`, expected: true},
		{name: "member differs", expr: "a.id == b.id", a: `{"id": "x"}`, b: `{"id": "y"}`, expected: false},
		{name: "missing member", expr: "a.id == b.id", a: `{"id": "x"}`, b: `{}`, expected: false},
		{name: "whole value", expr: "a == b", a: `[1, "two"]`, b: `[1, "two"]`, expected: true},
		{name: "has macro", expr: "!has(a.charges) && !has(b.charges)", a: `{"id": "x"}`, b: `{"id": "y"}`, expected: true},
		{name: "dyn result that is not bool", expr: "a.id", a: `{"id": "x"}`, b: `{}`, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			same, err := CompileSame(tt.expr)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, same(parse(t, tt.a), parse(t, tt.b)))
		})
	}
}

func TestCompileSameErrors(t *testing.T) {
	_, err := CompileSame("a ==")
	assert.True(t, errors.Is(err, ErrCompile))

	_, err = CompileSame("1 + 1")
	assert.True(t, errors.Is(err, ErrNotBoolean))

	_, err = CompileSame("c == a")
	assert.True(t, errors.Is(err, ErrCompile))
}

func TestCodecRoundTrip(t *testing.T) {
	same, err := CompileSame("a.id == b.id")
	assert.NoError(t, err)
	codec := Codec(same)

	items := []value.Value{
		parse(t, `{"id": "x", "hp": 1}`),
		parse(t, `{"id": "x", "hp": 2}`),
		parse(t, `{"id": "y"}`),
	}

	w := jsonout.NewWriter()
	rle.Encode(w, items, codec)
	assert.NoError(t, w.Err())
	assert.Equal(t, `[[{"id":"x","hp":1},2],{"id":"y"}]`, w.String())

	read, skipped, err := rle.Decode(jsonin.NewReader(w.Bytes(), jsonin.WithSettings(settings.Default())), codec)
	assert.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 3, len(read))
	assert.True(t, read[0].Equal(items[0]))
	assert.True(t, read[1].Equal(items[0]))
	assert.True(t, read[2].Equal(items[2]))
}
