// Package cfgtree renders configuration trees as indented, brace-delimited
// text for logs and debugging.
//
// A configuration node is a struct (or a pointer to one), or any value that
// implements Node. Within a node, primitive and collection fields are written
// first, one per line, followed by nested nodes as indented blocks:
//
//	SampleConfig: {
//	  model_name: Qwen3-Coder
//	  tags: ['a', 'b']
//	  optional_field: None
//	  InnerConfig: {
//	    block_size: 64
//	  }
//	}
//
// Struct fields are read in declaration order. The `cfg` struct tag renames a
// field; `cfg:"-"` and the norepr option leave it out.
package cfgtree

import (
	"bytes"
	"errors"
	"reflect"
)

// ErrNotNode is returned when the value passed to Marshal or Encode is not a
// configuration node.
var ErrNotNode = errors.New("value is not a configuration node")

// Format returns the text form of v. It never fails: a v that is not a
// configuration node is rendered the way a field value would be.
func Format(v interface{}, opts ...Option) string {
	e := getEncoder(newFormatOptions(opts))
	defer putEncoder(e)
	rv := reflect.ValueOf(v)
	if err := e.encodeRoot(rv); err != nil {
		e.buf.Reset()
		e.writeText(rv)
	}
	return e.buf.String()
}

// Marshal returns the text form of v, without a trailing newline.
func Marshal(v interface{}, opts ...Option) ([]byte, error) {
	e := getEncoder(newFormatOptions(opts))
	defer putEncoder(e)
	if err := e.encodeRoot(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return bytes.Clone(e.buf.Bytes()), nil
}
