package rle

import (
	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
)

// Colony is an unordered bag of elements stored run-length encoded.
// P is the pointer type of T, as in Colony[Item, *Item].
type Colony[T any, P Element[T]] struct {
	items   []T
	skipped int
}

// NewColony returns a colony holding items
func NewColony[T any, P Element[T]](items ...T) *Colony[T, P] {
	return &Colony[T, P]{items: items}
}

// Insert appends items
func (c *Colony[T, P]) Insert(items ...T) {
	c.items = append(c.items, items...)
}

// Len returns the number of elements
func (c *Colony[T, P]) Len() int {
	return len(c.items)
}

// Items returns the elements. The slice is shared with the colony.
func (c *Colony[T, P]) Items() []T {
	return c.items
}

// Skipped returns how many entries the last Deserialize dropped
func (c *Colony[T, P]) Skipped() int {
	return c.skipped
}

// Deserialize replaces the contents with the decoded elements
func (c *Colony[T, P]) Deserialize(r *jsonin.Reader) error {
	items, skipped, err := Decode(r, Of[T, P]())
	if err != nil {
		return err
	}
	c.items, c.skipped = items, skipped
	return nil
}

// Serialize writes the elements as runs
func (c Colony[T, P]) Serialize(w *jsonout.Writer) {
	Encode(w, c.items, Of[T, P]())
}
