package cfgtree

import (
	"encoding"
	"reflect"
	"time"
)

// Node is implemented by configuration types that describe their own fields
// instead of being read through struct reflection. ConfigFields must return
// the fields in declaration order; the formatter never reorders them within
// their group.
type Node interface {
	ConfigName() string
	ConfigFields() []Field
}

// Field is one declared field of a Node.
type Field struct {
	Name   string
	Value  any
	NoRepr bool // Excluded from the text form.
}

// valueKind is the closed set of shapes a field value can take.
type valueKind uint8

const (
	kindPrimitive valueKind = iota
	kindCollection
	kindNested
)

var (
	nodeType          = reflect.TypeOf((*Node)(nil)).Elem()
	durationType      = reflect.TypeOf((*time.Duration)(nil)).Elem()
	timeType          = reflect.TypeOf((*time.Time)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// classifyValue decides which group a field value belongs to and returns the
// value the formatter should work with. An invalid result means the value is
// absent.
func classifyValue(v reflect.Value) (valueKind, reflect.Value) {
	v, ok := indirect(v)
	if !ok {
		return kindPrimitive, reflect.Value{}
	}
	if _, isNode := asNode(v); isNode {
		return kindNested, v
	}
	if isOpaque(v.Type()) {
		return kindPrimitive, v
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return kindCollection, v
	case reflect.Struct:
		return kindNested, v
	}
	return kindPrimitive, v
}

// indirect unwraps interfaces and pointers until it reaches a concrete value,
// a Node or an opaque scalar. It reports false for absent values.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for {
		if !v.IsValid() {
			return v, false
		}
		if v.Kind() != reflect.Interface && v.Kind() != reflect.Pointer {
			return addressable(v), true
		}
		if v.IsNil() {
			return reflect.Value{}, false
		}
		if v.Kind() == reflect.Pointer {
			if _, isNode := asNode(v); isNode {
				return v, true
			}
			if isOpaque(v.Type()) {
				return v, true
			}
		}
		v = v.Elem()
	}
}

// addressable copies a struct whose Node methods have pointer receivers into
// fresh storage so that asNode can take its address. Other values are
// returned as is.
func addressable(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Struct || v.CanAddr() || !v.CanInterface() {
		return v
	}
	t := v.Type()
	if t.Implements(nodeType) || !reflect.PointerTo(t).Implements(nodeType) {
		return v
	}
	cp := reflect.New(t).Elem()
	cp.Set(v)
	return cp
}

func asNode(v reflect.Value) (Node, bool) {
	if !v.IsValid() {
		return nil, false
	}
	t := v.Type()
	if t.Implements(nodeType) && t.Kind() != reflect.Interface {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Map || v.Kind() == reflect.Slice) && v.IsNil() {
			return nil, false
		}
		if v.CanInterface() {
			return v.Interface().(Node), true
		}
	}
	if v.CanAddr() && reflect.PointerTo(t).Implements(nodeType) {
		if pv := v.Addr(); pv.CanInterface() {
			return pv.Interface().(Node), true
		}
	}
	return nil, false
}

// isOpaque reports whether values of t are rendered as scalars even when the
// underlying kind is a struct or a slice.
func isOpaque(t reflect.Type) bool {
	if t == durationType || t == timeType {
		return true
	}
	if t.Kind() == reflect.Interface {
		return false
	}
	return t.Implements(textMarshalerType)
}

// opaqueText returns the scalar text of an opaque value.
func opaqueText(v reflect.Value) (string, bool) {
	if !isOpaque(v.Type()) || !v.CanInterface() {
		return "", false
	}
	switch x := v.Interface().(type) {
	case time.Duration:
		return x.String(), true
	case time.Time:
		return x.String(), true
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return "", false
		}
		return string(text), true
	}
	return "", false
}
