package rle

import (
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/go-logr/logr/funcr"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/clickworkorange/catajson/containers"
	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
	"github.com/clickworkorange/catajson/settings"
)

type testItem struct {
	typeID string
	vars   map[string]string
	flags  containers.Set[string]
}

func (i *testItem) Deserialize(r *jsonin.Reader) error {
	obj, err := r.ReadObject()
	if err != nil {
		return err
	}
	if err := obj.Require("typeid", &i.typeID); err != nil {
		return err
	}
	if _, err := obj.Read("item_vars", &i.vars); err != nil {
		return err
	}
	if _, err := obj.Read("item_tags", &i.flags); err != nil {
		return err
	}
	return nil
}

func (i *testItem) Serialize(w *jsonout.Writer) {
	w.StartObject()
	w.MemberValue("typeid", i.typeID)
	if len(i.vars) > 0 {
		w.MemberValue("item_vars", i.vars)
	}
	if i.flags.Len() > 0 {
		w.MemberValue("item_tags", &i.flags)
	}
	w.EndObject()
}

func (i *testItem) SameForRLE(o testItem) bool {
	return i.typeID == o.typeID && maps.Equal(i.vars, o.vars) && i.flags.Equal(&o.flags)
}

func rag() testItem {
	return testItem{typeID: "test_rag", vars: map[string]string{"magazine_converted": "1"}}
}

func newReader(src string, opts ...jsonin.Option) *jsonin.Reader {
	opts = append([]jsonin.Option{jsonin.WithSettings(settings.Default())}, opts...)
	return jsonin.NewReader([]byte(src), opts...)
}

func TestIdenticalItemsAreCollapsed(t *testing.T) {
	col := NewColony[testItem]()
	for range 10 {
		col.Insert(rag())
	}
	assert.Equal(t, 10, col.Len())

	out, err := jsonout.Marshal(col)
	assert.NoError(t, err)
	assert.Equal(t, `[[{"typeid":"test_rag","item_vars":{"magazine_converted":"1"}},10]]`, string(out))
	assert.Equal(t, 1, strings.Count(string(out), `"typeid":"test_rag"`))

	var read Colony[testItem, *testItem]
	assert.NoError(t, read.Deserialize(newReader(string(out))))
	assert.Equal(t, 10, read.Len())
	assert.Equal(t, 0, read.Skipped())
	for _, item := range read.Items() {
		assert.True(t, item.SameForRLE(rag()))
	}
}

func TestDifferentItemsAreSavedIndividually(t *testing.T) {
	dirty := testItem{typeID: "test_rag"}
	dirty.flags.Add("DIRTY")
	col := NewColony(testItem{typeID: "test_rag"}, dirty)

	items := col.Items()
	assert.False(t, items[0].SameForRLE(items[1]))
	assert.True(t, items[1].SameForRLE(items[1]))

	out, err := jsonout.Marshal(col)
	assert.NoError(t, err)
	assert.Equal(t, `[{"typeid":"test_rag"},{"typeid":"test_rag","item_tags":["DIRTY"]}]`, string(out))

	read, err := jsonin.ReadAs[*Colony[testItem, *testItem]](newReader(string(out)))
	assert.NoError(t, err)
	assert.Equal(t, 2, read.Len())
	assert.True(t, read.Items()[0].SameForRLE(items[0]))
	assert.True(t, read.Items()[1].SameForRLE(items[1]))
}

func TestIncorrectEntriesAreSkipped(t *testing.T) {
	src := `[[{"typeid":"test_rag","item_vars":{"magazine_converted":"1"}}],` + "\n" +
		`    {"typeid":"test_rag","item_vars":{"magazine_converted":"1"}}]`

	before := testutil.ToFloat64(skippedTotal)

	var logged []string
	log := funcr.New(func(prefix, args string) {
		logged = append(logged, args)
	}, funcr.Options{Verbosity: 1})

	var col Colony[testItem, *testItem]
	assert.NoError(t, col.Deserialize(newReader(src, jsonin.WithLogger(log), jsonin.WithSourceName("save.json"))))
	assert.Equal(t, 1, col.Len())
	assert.Equal(t, 1, col.Skipped())
	assert.Equal(t, "test_rag", col.Items()[0].typeID)

	assert.Equal(t, before+1, testutil.ToFloat64(skippedTotal))
	assert.Equal(t, 1, len(logged))
	assert.Contains(t, logged[0], `"msg"="skipped malformed run-length entry"`)
	assert.Contains(t, logged[0], `"source"="save.json"`)
	assert.Contains(t, logged[0], `"line"=1`)
	assert.Contains(t, logged[0], `"column"=2`)
}

func TestDecodeSkipsEveryMalformedShape(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		ids     []string
		skipped int
	}{
		{name: "zero count", json: `[[{"typeid":"a"}, 0], {"typeid":"b"}]`, ids: []string{"b"}, skipped: 1},
		{name: "negative count", json: `[[{"typeid":"a"}, -3]]`, skipped: 1},
		{name: "extra element", json: `[[{"typeid":"a"}, 2, 3], {"typeid":"b"}]`, ids: []string{"b"}, skipped: 1},
		{name: "fractional count", json: `[[{"typeid":"a"}, 1.5]]`, skipped: 1},
		{name: "missing member", json: `[{"type":"a"}, [{"typeid":"b"}, 2]]`, ids: []string{"b", "b"}, skipped: 1},
		{name: "wrong member type", json: `[{"typeid":1}, "junk", {"typeid":"c"}]`, ids: []string{"c"}, skipped: 2},
		{name: "empty", json: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, skipped, err := Decode(newReader(tt.json), Of[testItem]())
			assert.NoError(t, err)
			assert.Equal(t, tt.skipped, skipped)

			var ids []string
			for _, item := range items {
				ids = append(ids, item.typeID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestDecodeOuterErrorsAreFatal(t *testing.T) {
	_, _, err := Decode(newReader(`{"typeid":"a"}`), Of[testItem]())
	assert.True(t, errors.Is(err, jsonin.ErrTypeMismatch))

	_, _, err = Decode(newReader(`[{"typeid":"a"}`), Of[testItem]())
	assert.True(t, errors.Is(err, jsonin.ErrUnexpectedEOF))

	_, _, err = Decode(newReader(`[{"typeid":"a"},]`), Of[testItem]())
	assert.True(t, errors.Is(err, jsonin.ErrSyntax))

	_, _, err = Decode(newReader(`[{"typeid":"a"`), Of[testItem]())
	assert.Error(t, err)
}

func TestRunsAndExpand(t *testing.T) {
	same := func(a, b int) bool { return a/10 == b/10 }

	runs := Runs([]int{1, 2, 3, 11, 12, 4}, same)
	assert.Equal(t, []Run[int]{
		{Value: 1, Count: 3},
		{Value: 11, Count: 2},
		{Value: 4, Count: 1},
	}, runs)
	assert.Equal(t, []int{1, 1, 1, 11, 11, 4}, Expand(runs))

	assert.Equal(t, 0, len(Runs(nil, same)))
	assert.Equal(t, []int{}, Expand[int](nil))
}

func TestEncodeCountsMergedElements(t *testing.T) {
	before := testutil.ToFloat64(mergedTotal)

	w := jsonout.NewWriter()
	Encode(w, []testItem{rag(), rag(), rag()}, Of[testItem]())
	assert.NoError(t, w.Err())
	assert.Equal(t, `[[{"typeid":"test_rag","item_vars":{"magazine_converted":"1"}},3]]`, w.String())

	assert.Equal(t, before+2, testutil.ToFloat64(mergedTotal))
}

func TestDecodeLimit(t *testing.T) {
	codec := Of[testItem]()
	codec.Limit = 3

	items, skipped, err := Decode(newReader(`[[{"typeid":"a"},2],[{"typeid":"b"},2],{"typeid":"c"}]`), codec)
	assert.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 3, len(items))
	assert.Equal(t, "c", items[2].typeID)

	items, skipped, err = Decode(newReader(`[[{"typeid":"a"},2147483647]]`), Of[testItem]())
	assert.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 0, len(items))
}
