package jsonin

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"

	"github.com/clickworkorange/catajson/diagnostic"
)

// Object is an object that has been scanned but whose members are decoded
// on demand. Member access seeks the reader to the member value and puts
// the cursor back where it was afterwards.
type Object struct {
	reader  *Reader
	start   int
	members *linkedhashmap.Map[string, int]
	visited map[string]bool
}

// ReadObject scans the next object, recording where each member value
// starts (just after its ':'). On return the cursor is after the object.
func (r *Reader) ReadObject() (*Object, error) {
	r.cursor.SkipWhitespace()

	obj := &Object{
		reader:  r,
		start:   r.cursor.Offset(),
		members: linkedhashmap.New[string, int](),
		visited: map[string]bool{},
	}

	if err := r.StartObject(); err != nil {
		return nil, err
	}

	for {
		end, err := r.EndObject()
		if err != nil {
			return nil, err
		}
		if end {
			return obj, nil
		}

		r.cursor.SkipWhitespace()
		keyOffset := r.cursor.Offset()
		name, err := r.ReadMemberName()
		if err != nil {
			return nil, err
		}
		if _, found := obj.members.Get(name); found {
			return nil, r.ErrorAt(keyOffset, ErrDuplicateMember, fmt.Sprintf("duplicate entry in json object: %q", name))
		}
		obj.members.Put(name, r.cursor.Offset())

		if err := r.SkipValue(); err != nil {
			return nil, err
		}
	}
}

// Offset returns the offset of the opening brace
func (o *Object) Offset() int {
	return o.start
}

// Len returns the number of members
func (o *Object) Len() int {
	return o.members.Size()
}

// Names returns the member names in source order
func (o *Object) Names() []string {
	return o.members.Keys()
}

// Has reports whether the object has a member called name
func (o *Object) Has(name string) bool {
	_, found := o.members.Get(name)
	return found
}

// MemberOffset returns the offset just after the member's ':'
func (o *Object) MemberOffset(name string) (int, bool) {
	return o.members.Get(name)
}

// Visit marks members as used without reading them
func (o *Object) Visit(names ...string) {
	for _, name := range names {
		o.visited[name] = true
	}
}

// At positions the reader on the member value, calls fn and restores the
// cursor. It reports false if the member does not exist.
func (o *Object) At(name string, fn func(r *Reader) error) (bool, error) {
	offset, found := o.members.Get(name)
	if !found {
		return false, nil
	}
	o.visited[name] = true

	mark := o.reader.Mark()
	defer o.reader.Reset(mark)

	if err := o.reader.Seek(offset); err != nil {
		return true, err
	}

	return true, fn(o.reader)
}

// Read decodes member name into v. It reports false if the member does not
// exist, in which case v is left untouched.
func (o *Object) Read(name string, v any) (bool, error) {
	return o.At(name, func(r *Reader) error {
		return r.Read(v)
	})
}

func (o *Object) missing(name string) *ParseError {
	return o.reader.ErrorAt(o.start, ErrMissingMember, fmt.Sprintf("missing required member %q", name))
}

// Require decodes a member that must be present
func (o *Object) Require(name string, v any) error {
	found, err := o.Read(name, v)
	if err != nil {
		return err
	}
	if !found {
		return o.missing(name)
	}
	return nil
}

// ReadString reads a required string member
func (o *Object) ReadString(name string) (string, error) {
	s, _, err := o.ReadStringPos(name)
	return s, err
}

// ReadStringPos reads a required string member and the offset of its quote
func (o *Object) ReadStringPos(name string) (string, int, error) {
	var s string
	quote := -1

	found, err := o.At(name, func(r *Reader) error {
		var err error
		s, quote, err = r.ReadStringPos()
		return err
	})
	if err != nil {
		return "", quote, err
	}
	if !found {
		return "", quote, o.missing(name)
	}

	return s, quote, nil
}

// ReadObject reads a required nested object member
func (o *Object) ReadObject(name string) (*Object, error) {
	var nested *Object

	found, err := o.At(name, func(r *Reader) error {
		var err error
		nested, err = r.ReadObject()
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, o.missing(name)
	}

	return nested, nil
}

// Error returns a fatal error positioned at the opening brace
func (o *Object) Error(cause error, message string) *ParseError {
	return o.reader.ErrorAt(o.start, cause, message)
}

// MemberError returns a fatal error positioned at the member value, or at
// the opening brace if the member does not exist
func (o *Object) MemberError(name string, cause error, message string) *ParseError {
	offset, found := o.members.Get(name)
	if !found {
		offset = o.start
	}
	return o.reader.ErrorAt(offset, cause, message)
}

// MemberWarning reports a non-fatal diagnostic at the member value
func (o *Object) MemberWarning(name string, kind diagnostic.Kind, message string) {
	offset, found := o.members.Get(name)
	if !found {
		offset = o.start
	}
	o.reader.WarnAt(kind, offset, message)
}

// ReportUnvisited warns about every member that was never read or visited.
// Members whose name starts with "//" are comments and never reported.
func (o *Object) ReportUnvisited() {
	for _, name := range o.members.Keys() {
		if o.visited[name] || strings.HasPrefix(name, "//") {
			continue
		}
		o.MemberWarning(name, diagnostic.KindUnvisitedMember,
			fmt.Sprintf("Invalid or misplaced field name %q in JSON data", name))
	}
}
