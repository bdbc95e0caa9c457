// Package containers holds the small generic containers that read and
// write themselves as JSON arrays.
package containers

import (
	"cmp"

	"github.com/emirpasic/gods/v2/trees/redblacktree"

	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
)

// Pair is written as a two element array
type Pair[A, B any] struct {
	First  A
	Second B
}

// MakePair creates a Pair
func MakePair[A, B any](first A, second B) Pair[A, B] {
	return Pair[A, B]{First: first, Second: second}
}

// Serialize writes [first,second]
func (p Pair[A, B]) Serialize(w *jsonout.Writer) {
	w.StartArray()
	w.Write(p.First)
	w.Write(p.Second)
	w.EndArray()
}

// Deserialize reads a two element array
func (p *Pair[A, B]) Deserialize(r *jsonin.Reader) error {
	start := r.Tell()
	if err := r.StartArray(); err != nil {
		return err
	}
	if end, err := r.EndArray(); err != nil || end {
		return pairError(r, start, err)
	}
	if err := r.Read(&p.First); err != nil {
		return err
	}
	if end, err := r.EndArray(); err != nil || end {
		return pairError(r, start, err)
	}
	if err := r.Read(&p.Second); err != nil {
		return err
	}

	end, err := r.EndArray()
	if err != nil {
		return err
	}
	if !end {
		return r.Error(jsonin.ErrTypeMismatch, "expected end of array after two elements")
	}

	return nil
}

func pairError(r *jsonin.Reader, start int, err error) error {
	if err != nil {
		return err
	}
	return r.ErrorAt(start, jsonin.ErrTypeMismatch, "expected an array of two elements")
}

// Set is an ordered set. The zero value is an empty set ready to use.
type Set[T cmp.Ordered] struct {
	tree *redblacktree.Tree[T, struct{}]
}

// NewSet creates a set holding values
func NewSet[T cmp.Ordered](values ...T) *Set[T] {
	s := &Set[T]{}
	s.Add(values...)
	return s
}

func (s *Set[T]) init() {
	if s.tree == nil {
		s.tree = redblacktree.New[T, struct{}]()
	}
}

// Add inserts values
func (s *Set[T]) Add(values ...T) {
	s.init()
	for _, v := range values {
		s.tree.Put(v, struct{}{})
	}
}

// Remove deletes values
func (s *Set[T]) Remove(values ...T) {
	if s.tree == nil {
		return
	}
	for _, v := range values {
		s.tree.Remove(v)
	}
}

// Contains reports whether v is in the set
func (s *Set[T]) Contains(v T) bool {
	if s == nil || s.tree == nil {
		return false
	}
	_, found := s.tree.Get(v)
	return found
}

// Len returns the number of elements
func (s *Set[T]) Len() int {
	if s == nil || s.tree == nil {
		return 0
	}
	return s.tree.Size()
}

// Values returns the elements in ascending order
func (s *Set[T]) Values() []T {
	if s == nil || s.tree == nil {
		return nil
	}
	return s.tree.Keys()
}

// Equal reports whether both sets hold the same elements
func (s *Set[T]) Equal(o *Set[T]) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, v := range s.Values() {
		if !o.Contains(v) {
			return false
		}
	}
	return true
}

// Serialize writes the elements as a sorted array
func (s *Set[T]) Serialize(w *jsonout.Writer) {
	w.StartArray()
	for _, v := range s.Values() {
		w.Write(v)
	}
	w.EndArray()
}

// Deserialize replaces the contents with the elements of an array.
// Repeated elements are stored once.
func (s *Set[T]) Deserialize(r *jsonin.Reader) error {
	s.tree = redblacktree.New[T, struct{}]()
	return r.ReadArray(func(r *jsonin.Reader) error {
		var v T
		if err := r.Read(&v); err != nil {
			return err
		}
		s.tree.Put(v, struct{}{})
		return nil
	})
}
