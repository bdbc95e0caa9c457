package value

import (
	"fmt"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"

	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
)

// Object is an insertion-ordered set of members
type Object struct {
	members *linkedhashmap.Map[string, Value]
}

// NewObject returns an empty object
func NewObject() *Object {
	return &Object{members: linkedhashmap.New[string, Value]()}
}

// Set adds or replaces a member. A replaced member keeps its position.
func (o *Object) Set(name string, v Value) {
	o.members.Put(name, v)
}

// Get returns the member value
func (o *Object) Get(name string) (Value, bool) {
	return o.members.Get(name)
}

// Remove deletes a member
func (o *Object) Remove(name string) {
	o.members.Remove(name)
}

// Len returns the number of members
func (o *Object) Len() int {
	return o.members.Size()
}

// Keys returns the member names in order
func (o *Object) Keys() []string {
	return o.members.Keys()
}

// Each calls fn for every member in order
func (o *Object) Each(fn func(name string, v Value)) {
	o.members.Each(fn)
}

// Equal compares members regardless of order
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	return o.members.All(func(name string, v Value) bool {
		ov, found := other.Get(name)
		return found && v.Equal(ov)
	})
}

// Deserialize reads an object, keeping member order
func (o *Object) Deserialize(r *jsonin.Reader) error {
	if o.members == nil {
		o.members = linkedhashmap.New[string, Value]()
	}
	if err := r.StartObject(); err != nil {
		return err
	}

	for {
		end, err := r.EndObject()
		if err != nil {
			return err
		}
		if end {
			return nil
		}

		nameOffset := r.Tell()
		name, err := r.ReadMemberName()
		if err != nil {
			return err
		}
		if _, found := o.members.Get(name); found {
			return r.ErrorAt(nameOffset, jsonin.ErrDuplicateMember, fmt.Sprintf("duplicate entry in json object: %q", name))
		}

		var v Value
		if err := v.Deserialize(r); err != nil {
			return err
		}
		o.members.Put(name, v)
	}
}

// Serialize writes the members in insertion order
func (o *Object) Serialize(w *jsonout.Writer) {
	w.StartObject()
	o.members.Each(func(name string, v Value) {
		w.Member(name)
		v.Serialize(w)
	})
	w.EndObject()
}
