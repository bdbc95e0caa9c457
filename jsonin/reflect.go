package jsonin

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/clickworkorange/catajson/tokenizer"
)

var (
	readableType        = reflect.TypeFor[Readable]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Read decodes the next value into the value pointed to by v.
//
// Types implementing Readable decode themselves. Types implementing
// encoding.TextUnmarshaler are read from a string, which is how enum and
// identifier types plug in. Otherwise the Go kind decides:
//
//   - pointers are optional values: null leaves a nil pointer
//   - bool, integer, float and string kinds read the matching literal
//   - slices and arrays read arrays; an array's length must match
//   - map[K]struct{} reads an array as a set
//   - other maps read objects; keys may be strings, integers or TextUnmarshalers
//   - an empty interface receives nil, bool, int64, float64, string, []any or map[string]any
func (r *Reader) Read(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: Read needs a non-nil pointer, got %T", ErrUnsupportedType, v)
	}

	return r.readValue(rv.Elem())
}

// ReadAs decodes the next value as a T
func ReadAs[T any](r *Reader) (T, error) {
	var v T
	err := r.Read(&v)
	return v, err
}

func (r *Reader) readValue(v reflect.Value) error {
	if v.CanAddr() {
		pt := v.Addr().Type()
		switch {
		case pt.Implements(readableType):
			return v.Addr().Interface().(Readable).Deserialize(r)
		case pt.Implements(textUnmarshalerType):
			return r.readText(v.Addr().Interface().(encoding.TextUnmarshaler))
		}
	}

	switch v.Kind() {
	case reflect.Pointer:
		if r.TestNull() {
			v.SetZero()
			return r.ReadNull()
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return r.readValue(v.Elem())

	case reflect.Bool:
		b, err := r.ReadBool()
		if err != nil {
			return err
		}
		v.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		start := r.valueOffset()
		n, err := r.ReadInt()
		if err != nil {
			return err
		}
		if v.OverflowInt(n) {
			return r.ErrorAt(start, ErrOutOfRange, fmt.Sprintf("integer value %d out of range for %s", n, v.Type()))
		}
		v.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		start := r.valueOffset()
		n, err := r.ReadUint()
		if err != nil {
			return err
		}
		if v.OverflowUint(n) {
			return r.ErrorAt(start, ErrOutOfRange, fmt.Sprintf("integer value %d out of range for %s", n, v.Type()))
		}
		v.SetUint(n)

	case reflect.Float32, reflect.Float64:
		start := r.valueOffset()
		f, err := r.ReadFloat()
		if err != nil {
			return err
		}
		if v.OverflowFloat(f) {
			return r.ErrorAt(start, ErrOutOfRange, fmt.Sprintf("number %g out of range for %s", f, v.Type()))
		}
		v.SetFloat(f)

	case reflect.String:
		s, err := r.ReadString()
		if err != nil {
			return err
		}
		v.SetString(s)

	case reflect.Slice:
		return r.readSlice(v)

	case reflect.Array:
		return r.readArray(v)

	case reflect.Map:
		if v.Type().Elem().Kind() == reflect.Struct && v.Type().Elem().NumField() == 0 {
			return r.readSet(v)
		}
		return r.readMap(v)

	case reflect.Interface:
		if v.NumMethod() != 0 {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
		}
		a, err := r.readAny()
		if err != nil {
			return err
		}
		if a == nil {
			v.SetZero()
		} else {
			v.Set(reflect.ValueOf(a))
		}

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
	}

	return nil
}

func (r *Reader) valueOffset() int {
	r.cursor.SkipWhitespace()
	return r.cursor.Offset()
}

func (r *Reader) readText(u encoding.TextUnmarshaler) error {
	s, quote, err := r.ReadStringPos()
	if err != nil {
		return err
	}
	if err := u.UnmarshalText([]byte(s)); err != nil {
		return r.ErrorAt(quote, ErrInvalidValue, err.Error())
	}
	return nil
}

func (r *Reader) readSlice(v reflect.Value) error {
	s := reflect.MakeSlice(v.Type(), 0, 0)
	err := r.ReadArray(func(r *Reader) error {
		elem := reflect.New(v.Type().Elem()).Elem()
		if err := r.readValue(elem); err != nil {
			return err
		}
		s = reflect.Append(s, elem)
		return nil
	})
	if err != nil {
		return err
	}

	v.Set(s)

	return nil
}

func (r *Reader) readArray(v reflect.Value) error {
	start := r.valueOffset()
	i := 0
	err := r.ReadArray(func(r *Reader) error {
		if i >= v.Len() {
			return r.Error(ErrTypeMismatch, fmt.Sprintf("array has more than %d elements", v.Len()))
		}
		if err := r.readValue(v.Index(i)); err != nil {
			return err
		}
		i++
		return nil
	})
	if err != nil {
		return err
	}
	if i != v.Len() {
		return r.ErrorAt(start, ErrTypeMismatch, fmt.Sprintf("expected %d elements but got %d", v.Len(), i))
	}

	return nil
}

func (r *Reader) readSet(v reflect.Value) error {
	m := reflect.MakeMap(v.Type())
	present := reflect.New(v.Type().Elem()).Elem()
	err := r.ReadArray(func(r *Reader) error {
		key := reflect.New(v.Type().Key()).Elem()
		if err := r.readValue(key); err != nil {
			return err
		}
		m.SetMapIndex(key, present)
		return nil
	})
	if err != nil {
		return err
	}

	v.Set(m)

	return nil
}

func (r *Reader) readMap(v reflect.Value) error {
	if err := r.StartObject(); err != nil {
		return err
	}

	m := reflect.MakeMap(v.Type())
	for {
		end, err := r.EndObject()
		if err != nil {
			return err
		}
		if end {
			break
		}

		keyOffset := r.valueOffset()
		name, err := r.ReadMemberName()
		if err != nil {
			return err
		}
		key, err := r.mapKey(v.Type().Key(), name, keyOffset)
		if err != nil {
			return err
		}

		if m.MapIndex(key).IsValid() {
			return r.ErrorAt(keyOffset, ErrDuplicateMember, fmt.Sprintf("duplicate entry in json object: %q", name))
		}

		elem := reflect.New(v.Type().Elem()).Elem()
		if err := r.readValue(elem); err != nil {
			return err
		}
		m.SetMapIndex(key, elem)
	}

	v.Set(m)

	return nil
}

func (r *Reader) mapKey(t reflect.Type, name string, offset int) (reflect.Value, error) {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		key := reflect.New(t)
		if err := key.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(name)); err != nil {
			return reflect.Value{}, r.ErrorAt(offset, ErrInvalidValue, err.Error())
		}
		return key.Elem(), nil
	}

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(name).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(name, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, r.ErrorAt(offset, ErrInvalidValue, fmt.Sprintf("invalid integer key %q", name))
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(name, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, r.ErrorAt(offset, ErrInvalidValue, fmt.Sprintf("invalid integer key %q", name))
		}
		return reflect.ValueOf(n).Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: map key %s", ErrUnsupportedType, t)
	}
}

// readAny decodes the next value into plain Go values
func (r *Reader) readAny() (any, error) {
	switch r.PeekType() {
	case tokenizer.NULL:
		return nil, r.ReadNull()
	case tokenizer.TRUE, tokenizer.FALSE:
		return r.ReadBool()
	case tokenizer.STRING:
		return r.ReadString()
	case tokenizer.NUMBER:
		n, err := r.ReadNumber()
		if err != nil {
			return nil, err
		}
		if n.IsInteger() {
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
		}
		f, _ := n.Float64()
		return f, nil
	case tokenizer.OPENED_BRACKET:
		var list []any
		err := r.ReadArray(func(r *Reader) error {
			a, err := r.readAny()
			list = append(list, a)
			return err
		})
		return list, err
	case tokenizer.OPENED_BRACE:
		m := map[string]any{}
		if err := r.StartObject(); err != nil {
			return nil, err
		}
		for {
			end, err := r.EndObject()
			if err != nil || end {
				return m, err
			}
			name, err := r.ReadMemberName()
			if err != nil {
				return nil, err
			}
			a, err := r.readAny()
			if err != nil {
				return nil, err
			}
			m[name] = a
		}
	default:
		return nil, r.expected("value")
	}
}
