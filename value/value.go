// Package value is a generic JSON document model. Numbers keep their
// literal text and objects keep their member order, so a document read
// into a Value is written back without reordering or reformatting.
package value

import (
	"fmt"
	"strconv"

	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
	"github.com/clickworkorange/catajson/tokenizer"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Number is a numeric literal as written in the source
type Number = jsonin.Number

// Value is one JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  Number
	str  string
	arr  []Value
	obj  *Object
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Int(i int64) Value { return Value{kind: KindNumber, num: Number(strconv.FormatInt(i, 10))} }

func Float(f float64) Value {
	return Value{kind: KindNumber, num: Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// NumberOf wraps a literal. It is not validated until written.
func NumberOf(n Number) Value { return Value{kind: KindNumber, num: n} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// ObjectOf wraps o. A nil o is an empty object.
func ObjectOf(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind returns the variant
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether v is one
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the literal and whether v is a number
func (v Value) AsNumber() (Number, bool) { return v.num, v.kind == KindNumber }

// AsString returns the string and whether v is one
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsArray returns the elements and whether v is an array. The slice is
// shared with v.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the object and whether v is one
func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// Deserialize reads any JSON value. Duplicate object members are fatal.
func (v *Value) Deserialize(r *jsonin.Reader) error {
	switch r.PeekType() {
	case tokenizer.NULL:
		*v = Null()
		return r.ReadNull()
	case tokenizer.TRUE, tokenizer.FALSE:
		b, err := r.ReadBool()
		*v = Bool(b)
		return err
	case tokenizer.NUMBER:
		n, err := r.ReadNumber()
		*v = NumberOf(n)
		return err
	case tokenizer.STRING:
		s, err := r.ReadString()
		*v = String(s)
		return err
	case tokenizer.OPENED_BRACKET:
		items := []Value{}
		err := r.ReadArray(func(r *jsonin.Reader) error {
			var item Value
			if err := item.Deserialize(r); err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
		*v = Array(items...)
		return err
	case tokenizer.OPENED_BRACE:
		o := NewObject()
		*v = ObjectOf(o)
		return o.Deserialize(r)
	default:
		// reports the unexpected token
		return r.SkipValue()
	}
}

// Serialize writes v. Number literals are written as they were read.
func (v Value) Serialize(w *jsonout.Writer) {
	switch v.kind {
	case KindNull:
		w.WriteNull()
	case KindBool:
		w.WriteBool(v.b)
	case KindNumber:
		w.WriteNumber(string(v.num))
	case KindString:
		w.WriteString(v.str)
	case KindArray:
		w.StartArray()
		for _, item := range v.arr {
			item.Serialize(w)
		}
		w.EndArray()
	case KindObject:
		v.obj.Serialize(w)
	}
}

// Equal reports structural equality. Numbers compare by value, so 1 and
// 1.0 are equal, and object member order is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return numbersEqual(v.num, o.num)
	case KindString:
		return v.str == o.str
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(o.obj)
	}

	return false
}

func numbersEqual(a, b Number) bool {
	if a == b {
		return true
	}
	da, err := a.Decimal()
	if err != nil {
		return false
	}
	db, err := b.Decimal()
	if err != nil {
		return false
	}
	return da.Equal(db)
}

// Native converts v to plain Go values: nil, bool, int64 or float64,
// string, []any and map[string]any.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if v.num.IsInteger() {
			if i, err := v.num.Int64(); err == nil {
				return i
			}
		}
		f, _ := v.num.Float64()
		return f
	case KindString:
		return v.str
	case KindArray:
		list := make([]any, len(v.arr))
		for i, item := range v.arr {
			list[i] = item.Native()
		}
		return list
	case KindObject:
		m := make(map[string]any, v.obj.Len())
		v.obj.Each(func(name string, item Value) {
			m[name] = item.Native()
		})
		return m
	default:
		return nil
	}
}

// Parse reads a single document from src
func Parse(src []byte, opts ...jsonin.Option) (Value, error) {
	r := jsonin.NewReader(src, opts...)

	var v Value
	if err := v.Deserialize(r); err != nil {
		return Value{}, err
	}
	if !r.EOF() {
		return Value{}, r.Error(jsonin.ErrSyntax, "expected end of input after the document")
	}

	return v, nil
}
