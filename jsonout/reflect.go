package jsonout

import (
	"cmp"
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strconv"
)

var (
	writableType      = reflect.TypeFor[Writable]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Write serializes v.
//
// Writable values serialize themselves and TextMarshalers are written as
// strings. Nil pointers and interfaces become null. Slices and arrays
// become arrays, map[K]struct{} becomes a sorted array, and other maps
// become objects with sorted keys.
func (w *Writer) Write(v any) {
	if w.err != nil {
		return
	}
	if v == nil {
		w.WriteNull()
		return
	}
	w.writeValue(reflect.ValueOf(v))
}

func (w *Writer) writeValue(v reflect.Value) {
	if w.err != nil {
		return
	}

	switch {
	case v.Type().Implements(writableType):
		if v.Kind() == reflect.Pointer && v.IsNil() {
			w.WriteNull()
			return
		}
		v.Interface().(Writable).Serialize(w)
		return
	case v.CanAddr() && v.Addr().Type().Implements(writableType):
		v.Addr().Interface().(Writable).Serialize(w)
		return
	case v.Type().Implements(textMarshalerType):
		if v.Kind() == reflect.Pointer && v.IsNil() {
			w.WriteNull()
			return
		}
		w.writeText(v.Interface().(encoding.TextMarshaler))
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			w.WriteNull()
			return
		}
		w.writeValue(v.Elem())
	case reflect.Bool:
		w.WriteBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.WriteInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		w.WriteUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		w.WriteFloat(v.Float())
	case reflect.String:
		w.WriteString(v.String())
	case reflect.Slice, reflect.Array:
		w.StartArray()
		for i := range v.Len() {
			w.writeValue(v.Index(i))
		}
		w.EndArray()
	case reflect.Map:
		if isSet(v.Type()) {
			w.writeSet(v)
		} else {
			w.writeMap(v)
		}
	default:
		w.fail(fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type()))
	}
}

func isSet(t reflect.Type) bool {
	return t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

func (w *Writer) writeText(m encoding.TextMarshaler) {
	text, err := m.MarshalText()
	if err != nil {
		w.fail(fmt.Errorf("%w: %w", ErrUnsupportedValue, err))
		return
	}
	w.WriteString(string(text))
}

func (w *Writer) writeSet(v reflect.Value) {
	keys := sortedKeys(v)
	w.StartArray()
	for _, k := range keys {
		w.writeValue(k)
	}
	w.EndArray()
}

func (w *Writer) writeMap(v reflect.Value) {
	keys := sortedKeys(v)
	w.StartObject()
	for _, k := range keys {
		name, err := keyName(k)
		if err != nil {
			w.fail(err)
			return
		}
		w.Member(name)
		w.writeValue(v.MapIndex(k))
	}
	w.EndObject()
}

func keyName(k reflect.Value) (string, error) {
	if k.Type().Implements(textMarshalerType) {
		text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
		}
		return string(text), nil
	}

	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	default:
		return "", fmt.Errorf("%w: map key %s", ErrUnsupportedType, k.Type())
	}
}

// sortedKeys orders map keys numerically for numbers and by text for
// everything else
func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b reflect.Value) int {
	if a.Type().Implements(textMarshalerType) {
		ta, _ := a.Interface().(encoding.TextMarshaler).MarshalText()
		tb, _ := b.Interface().(encoding.TextMarshaler).MarshalText()
		return cmp.Compare(string(ta), string(tb))
	}

	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Bool:
		return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
	default:
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func equalValues(v, def any) bool {
	return reflect.DeepEqual(v, def)
}
