package jsonin_test

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/clickworkorange/catajson/containers"
	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
	"github.com/clickworkorange/catajson/settings"
)

type statType int

const (
	statHunger statType = iota + 1
	statThirst
)

var statNames = map[statType]string{statHunger: "HUNGER", statThirst: "THIRST"}

func (s statType) MarshalText() ([]byte, error) {
	if name, ok := statNames[s]; ok {
		return []byte(name), nil
	}
	return nil, fmt.Errorf("invalid stat %d", int(s))
}

func (s *statType) UnmarshalText(text []byte) error {
	for k, name := range statNames {
		if name == string(text) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("invalid stat %q", text)
}

type itypeID string

func roundTrip[T any](t *testing.T, v T, expected string) {
	t.Helper()

	out, err := jsonout.Marshal(v)
	assert.NoError(t, err)
	assert.Equal(t, expected, string(out))

	got, err := jsonin.ReadAs[T](jsonin.NewReader(out, jsonin.WithSettings(settings.Default())))
	assert.NoError(t, err)
	assert.Equal(t, v, got)
}

func intPtr(n int) *int { return &n }

func TestSerialization(t *testing.T) {
	t.Run("strings", func(t *testing.T) {
		roundTrip(t, "foo", `"foo"`)
		roundTrip(t, "a\"b\n\tc", `"a\"b\n\tc"`)
		roundTrip(t, "héllo", `"héllo"`)
	})

	t.Run("numbers", func(t *testing.T) {
		roundTrip(t, -42, `-42`)
		roundTrip(t, uint64(18446744073709551615), `18446744073709551615`)
		roundTrip(t, 1.5, `1.500000`)
		roundTrip(t, -0.25, `-0.250000`)
	})

	t.Run("optional", func(t *testing.T) {
		roundTrip[*int](t, nil, `null`)
		roundTrip(t, intPtr(7), `7`)
	})

	t.Run("sequences", func(t *testing.T) {
		roundTrip(t, []string{"foo", "bar"}, `["foo","bar"]`)
		roundTrip(t, []*int{nil, nil, nil}, `[null,null,null]`)
		roundTrip(t, []*int{intPtr(1), nil}, `[1,null]`)
		roundTrip(t, [2]string{"x", "y"}, `["x","y"]`)
		roundTrip(t, [][]int{{1, 2}, {3}}, `[[1,2],[3]]`)
	})

	t.Run("sets", func(t *testing.T) {
		roundTrip(t, map[string]struct{}{"foo": {}, "bar": {}}, `["bar","foo"]`)
		roundTrip(t, map[statType]struct{}{statThirst: {}, statHunger: {}}, `["HUNGER","THIRST"]`)
		roundTrip(t, map[int]struct{}{10: {}, 2: {}}, `[2,10]`)
	})

	t.Run("maps", func(t *testing.T) {
		roundTrip(t, map[string]int{"foo": 1, "bar": 2}, `{"bar":2,"foo":1}`)
		roundTrip(t, map[itypeID]string{"rock": "y", "rag": "x"}, `{"rag":"x","rock":"y"}`)
		roundTrip(t, map[statType]string{statHunger: "foo_val"}, `{"HUNGER":"foo_val"}`)
		roundTrip(t, map[int]string{10: "x", 2: "y"}, `{"2":"y","10":"x"}`)
		roundTrip(t, map[string][]*int{"a": {nil, intPtr(3)}}, `{"a":[null,3]}`)
	})

	t.Run("pair", func(t *testing.T) {
		roundTrip(t, containers.MakePair("foo", 42), `["foo",42]`)
		roundTrip(t, []containers.Pair[itypeID, int]{containers.MakePair[itypeID]("rag", 2)}, `[["rag",2]]`)
	})
}
