package celmerge

import (
	"fmt"
	"slices"

	"github.com/go-logr/logr"

	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
	"github.com/clickworkorange/catajson/rle"
	"github.com/clickworkorange/catajson/value"
)

// Fields rewrites the arrays stored under the named members anywhere in a
// document
type Fields struct {
	names []string
	codec rle.Codec[value.Value]
	log   logr.Logger
}

// NewFields returns a Fields for names, merging runs with same
func NewFields(names []string, same func(a, b value.Value) bool, log logr.Logger) *Fields {
	return &Fields{names: names, codec: Codec(same), log: log}
}

// Compact run-length encodes every matching array in place and returns the
// number of arrays rewritten. Array elements are always written as runs so
// the result expands back unchanged.
func (f *Fields) Compact(doc value.Value) (int, error) {
	return f.rewrite(doc, func(items []value.Value) (value.Value, error) {
		w := jsonout.NewWriter()
		rle.Encode(w, items, f.codec)
		if err := w.Err(); err != nil {
			return value.Value{}, err
		}

		encoded, err := value.Parse(w.Bytes())
		if err != nil {
			return value.Value{}, err
		}

		return encoded, nil
	})
}

// Expand decodes every matching array in place and returns the number of
// malformed entries that were dropped
func (f *Fields) Expand(doc value.Value) (int, error) {
	skipped := 0

	_, err := f.rewrite(doc, func(items []value.Value) (value.Value, error) {
		w := jsonout.NewWriter()
		value.Array(items...).Serialize(w)
		if err := w.Err(); err != nil {
			return value.Value{}, err
		}

		r := jsonin.NewReader(w.Bytes(), jsonin.WithSourceName("rle"), jsonin.WithLogger(f.log))
		expanded, n, err := rle.Decode(r, f.codec)
		if err != nil {
			return value.Value{}, err
		}
		skipped += n

		return value.Array(expanded...), nil
	})

	return skipped, err
}

type rewriteFunc func(items []value.Value) (value.Value, error)

func (f *Fields) rewrite(v value.Value, fn rewriteFunc) (int, error) {
	count := 0

	switch v.Kind() {
	case value.KindArray:
		items, _ := v.AsArray()
		for _, item := range items {
			n, err := f.rewrite(item, fn)
			if err != nil {
				return count, err
			}
			count += n
		}

	case value.KindObject:
		obj, _ := v.AsObject()
		for _, name := range obj.Keys() {
			member, _ := obj.Get(name)

			n, err := f.rewrite(member, fn)
			if err != nil {
				return count, err
			}
			count += n

			items, ok := member.AsArray()
			if !ok || !slices.Contains(f.names, name) {
				continue
			}

			replaced, err := fn(items)
			if err != nil {
				return count, fmt.Errorf("failed to rewrite member %q: %w", name, err)
			}
			obj.Set(name, replaced)
			count++
		}
	}

	return count, nil
}
