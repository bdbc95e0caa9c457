// Package rle writes runs of mergeable elements as a single
// [value,count] entry and expands them again on read.
//
// An encoded sequence is an array whose entries are either a bare value
// (a run of one) or a two-element array holding the value and its repeat
// count. An element that is itself encoded as an array cannot be told
// apart from a run, so a codec handling such elements sets Wrap and they
// are always written as [value,1].
package rle

import (
	"fmt"
	"math"

	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
	"github.com/clickworkorange/catajson/position"
)

// Codec reads, writes and compares elements of type T
type Codec[T any] struct {
	Read  func(r *jsonin.Reader) (T, error)
	Write func(w *jsonout.Writer, v T)
	// Same reports whether b can be stored as a repeat of a. It is a
	// domain-specific predicate and need not be full equality.
	Same func(a, b T) bool
	// Limit caps the number of elements Decode expands to. Zero means
	// DefaultLimit.
	Limit int
	// Wrap reports whether v must be written as a run even when it is not
	// repeated. Nil means never.
	Wrap func(v T) bool
}

// DefaultLimit is the decoded length cap used when Codec.Limit is zero
const DefaultLimit = 1 << 20

func (c Codec[T]) limit() int {
	if c.Limit > 0 {
		return c.Limit
	}
	return DefaultLimit
}

// Mergeable is implemented by element types that know when two values
// can share one run
type Mergeable[T any] interface {
	SameForRLE(other T) bool
}

// Element is the pointer-side constraint used by Of and Colony
type Element[T any] interface {
	*T
	jsonin.Readable
	jsonout.Writable
	Mergeable[T]
}

// Of builds a codec from T's own Deserialize, Serialize and SameForRLE
func Of[T any, P Element[T]]() Codec[T] {
	return Codec[T]{
		Read: func(r *jsonin.Reader) (T, error) {
			var v T
			err := P(&v).Deserialize(r)
			return v, err
		},
		Write: func(w *jsonout.Writer, v T) {
			P(&v).Serialize(w)
		},
		Same: func(a, b T) bool {
			return P(&a).SameForRLE(b)
		},
	}
}

// Run is a value and how many times it repeats
type Run[T any] struct {
	Value T
	Count int
}

// Runs partitions items into maximal runs. Each run is compared against
// its first element.
func Runs[T any](items []T, same func(a, b T) bool) []Run[T] {
	var runs []Run[T]
	for _, item := range items {
		if n := len(runs); n > 0 && same(runs[n-1].Value, item) {
			runs[n-1].Count++
			continue
		}
		runs = append(runs, Run[T]{Value: item, Count: 1})
	}
	return runs
}

// Expand repeats every run's value Count times
func Expand[T any](runs []Run[T]) []T {
	total := 0
	for _, run := range runs {
		total += run.Count
	}

	items := make([]T, 0, total)
	for _, run := range runs {
		for range run.Count {
			items = append(items, run.Value)
		}
	}
	return items
}

// Encode writes items as an array of runs
func Encode[T any](w *jsonout.Writer, items []T, c Codec[T]) {
	runs := Runs(items, c.Same)

	w.StartArray()
	for _, run := range runs {
		if run.Count == 1 && (c.Wrap == nil || !c.Wrap(run.Value)) {
			c.Write(w, run.Value)
			continue
		}
		w.StartArray()
		c.Write(w, run.Value)
		w.WriteInt(int64(run.Count))
		w.EndArray()
		mergedTotal.Add(float64(run.Count - 1))
	}
	w.EndArray()
}

// Decode reads an array of runs. An entry that fails to decode, or that
// would expand the sequence past the codec's limit, is skipped and counted
// instead of failing the whole array. Only errors in the enclosing array
// itself are returned.
func Decode[T any](r *jsonin.Reader, c Codec[T]) ([]T, int, error) {
	var runs []Run[T]
	skipped, total, limit := 0, 0, c.limit()

	err := r.ReadArray(func(r *jsonin.Reader) error {
		mark := r.Mark()

		run, err := readRun(r, c)
		if err == nil && run.Count > limit-total {
			err = r.ErrorAt(mark.Offset(), jsonin.ErrOutOfRange,
				fmt.Sprintf("run of %d elements exceeds the limit of %d decoded elements", run.Count, limit))
		}
		if err == nil {
			runs = append(runs, run)
			total += run.Count
			return nil
		}

		r.Reset(mark)
		if err := r.SkipValue(); err != nil {
			return err
		}
		skipped++
		skippedTotal.Inc()

		pos := position.Resolve(r.Source().Text, mark.Offset())
		r.Logger().V(1).Info("skipped malformed run-length entry",
			"source", r.Source().DisplayName(),
			"line", pos.Line,
			"column", pos.Column,
			"error", errorMessage(err))

		return nil
	})
	if err != nil {
		return nil, skipped, err
	}

	return Expand(runs), skipped, nil
}

func readRun[T any](r *jsonin.Reader, c Codec[T]) (Run[T], error) {
	if !r.TestArray() {
		v, err := c.Read(r)
		return Run[T]{Value: v, Count: 1}, err
	}

	if err := r.StartArray(); err != nil {
		return Run[T]{}, err
	}
	v, err := c.Read(r)
	if err != nil {
		return Run[T]{}, err
	}

	countOffset := r.Tell()
	count, err := r.ReadInt()
	if err != nil {
		return Run[T]{}, err
	}
	if count < 1 || count > math.MaxInt32 {
		return Run[T]{}, r.ErrorAt(countOffset, jsonin.ErrOutOfRange, fmt.Sprintf("invalid run length %d", count))
	}

	end, err := r.EndArray()
	if err != nil {
		return Run[T]{}, err
	}
	if !end {
		return Run[T]{}, r.Error(jsonin.ErrSyntax, "expected end of array after run length")
	}

	return Run[T]{Value: v, Count: int(count)}, nil
}

func errorMessage(err error) string {
	if pe, ok := jsonin.AsParseError(err); ok {
		return pe.Message
	}
	return err.Error()
}
