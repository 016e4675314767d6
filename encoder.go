package cfgtree

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sync"
)

var encoderPool = sync.Pool{
	New: func() interface{} {
		return &internalEncoder{
			buf:    &bytes.Buffer{},
			active: make(map[visitKey]struct{}),
		}
	},
}

// fieldCache caches processed field information for a given struct type and
// tag name.
var fieldCache sync.Map // map[cacheKey][]cachedField

type cacheKey struct {
	t       reflect.Type
	tagName string
}

func getEncoder(opts FormatOptions) *internalEncoder {
	e := encoderPool.Get().(*internalEncoder)
	e.opts = opts
	return e
}

func putEncoder(e *internalEncoder) {
	e.buf.Reset()
	e.indent = 0
	clear(e.active)
	encoderPool.Put(e)
}

// Encoder writes the text form of configuration nodes to an output stream.
// Every Encode call writes one block terminated by a newline.
type Encoder struct {
	w    io.Writer
	opts FormatOptions
}

func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: newFormatOptions(opts)}
}

func (enc *Encoder) Encode(v interface{}) error {
	e := getEncoder(enc.opts)
	defer putEncoder(e)
	if err := e.encodeRoot(reflect.ValueOf(v)); err != nil {
		return err
	}
	e.buf.WriteByte('\n')
	_, err := enc.w.Write(e.buf.Bytes())
	return err
}

type internalEncoder struct {
	buf    *bytes.Buffer
	indent int
	opts   FormatOptions
	// active holds the nodes on the current path.
	active map[visitKey]struct{}
}

type visitKey struct {
	ptr uintptr
	t   reflect.Type
	n   int // Length of a slice; subslices sharing an array are distinct.
}

type fieldInfo struct {
	name  string
	label string // Display name for anonymous struct values.
	value reflect.Value
	kind  valueKind
}

type cachedField struct {
	name  string
	label string
	named bool
	index []int
}

func (e *internalEncoder) encodeRoot(v reflect.Value) error {
	kind, rv := classifyValue(v)
	if kind != kindNested {
		return fmt.Errorf("cfgtree: cannot format %s: %w", describe(v), ErrNotNode)
	}
	e.encodeNode(rv, "")
	return nil
}

func (e *internalEncoder) encodeNode(v reflect.Value, label string) {
	name := nodeName(v, label)
	e.writeIndent()
	e.buf.WriteString(name)

	key, tracked := visitKeyOf(v)
	if tracked {
		if _, seen := e.active[key]; seen {
			e.buf.WriteString(": {...}")
			return
		}
		e.active[key] = struct{}{}
		defer delete(e.active, key)
	}

	e.buf.WriteString(": {")
	e.writeNewLine()
	fields := e.gatherFields(v)

	e.indent++
	for _, f := range fields {
		if f.kind == kindNested {
			continue
		}
		e.writeIndent()
		e.buf.WriteString(f.name)
		e.buf.WriteString(": ")
		e.writeText(f.value)
		e.writeNewLine()
	}
	for _, f := range fields {
		if f.kind != kindNested {
			continue
		}
		e.encodeNode(f.value, f.label)
		e.writeNewLine()
	}
	e.indent--

	e.writeIndent()
	e.buf.WriteString("}")
}

func (e *internalEncoder) writeIndent() {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString(e.opts.Indent)
	}
}

func (e *internalEncoder) writeNewLine() {
	e.buf.WriteString("\n")
}

// gatherFields returns the included fields of v in declaration order, each
// classified once.
func (e *internalEncoder) gatherFields(v reflect.Value) []fieldInfo {
	if n, ok := asNode(v); ok {
		declared := n.ConfigFields()
		fields := make([]fieldInfo, 0, len(declared))
		for _, df := range declared {
			if df.NoRepr {
				continue
			}
			kind, value := classifyValue(reflect.ValueOf(df.Value))
			fields = append(fields, fieldInfo{
				name:  df.Name,
				label: df.Name,
				value: value,
				kind:  kind,
			})
		}
		return fields
	}

	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return nil
	}
	cachedFields := cachedFieldsFor(v.Type(), e.opts.TagName)
	fields := make([]fieldInfo, 0, len(cachedFields))
	for _, cf := range cachedFields {
		// A nil embedded pointer leaves its promoted fields unreadable; they
		// render as absent.
		fieldVal, err := v.FieldByIndexErr(cf.index)
		if err != nil {
			fieldVal = reflect.Value{}
		}
		kind, value := classifyValue(fieldVal)
		fields = append(fields, fieldInfo{
			name:  cf.name,
			label: cf.label,
			value: value,
			kind:  kind,
		})
	}
	return fields
}

func cachedFieldsFor(t reflect.Type, tagName string) []cachedField {
	key := cacheKey{t: t, tagName: tagName}
	cached, ok := fieldCache.Load(key)
	if !ok {
		fields := cacheStructInfo(t, tagName, nil, map[reflect.Type]bool{})
		cached, _ = fieldCache.LoadOrStore(key, visibleFields(fields))
	}
	return cached.([]cachedField)
}

// cacheStructInfo lists the fields of t in declaration order. Untagged
// embedded structs contribute their own fields in place.
func cacheStructInfo(t reflect.Type, tagName string, prefix []int, visiting map[reflect.Type]bool) []cachedField {
	visiting[t] = true
	defer delete(visiting, t)

	var cachedFields []cachedField
	for i := 0; i < t.NumField(); i++ {
		fieldType := t.Field(i)
		tagInfo := parseCfgTag(fieldType.Tag.Get(tagName), fieldType.Name)
		if tagInfo.NoRepr {
			continue
		}
		index := make([]int, len(prefix)+1)
		copy(index, prefix)
		index[len(prefix)] = i

		if fieldType.Anonymous && !tagInfo.Named {
			ft := fieldType.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if isEmbeddedRecord(ft) && !visiting[ft] {
				cachedFields = append(cachedFields, cacheStructInfo(ft, tagName, index, visiting)...)
				continue
			}
		}
		if !fieldType.IsExported() {
			continue
		}
		cachedFields = append(cachedFields, cachedField{
			name:  tagInfo.Name,
			label: fieldType.Name,
			named: tagInfo.Named,
			index: index,
		})
	}
	return cachedFields
}

// visibleFields applies Go's promotion rules to a flattened field list: a
// field hides promoted fields of the same name at a deeper level. Among
// fields tied at the shallowest level only a single tagged one survives;
// otherwise the name is ambiguous and dropped.
func visibleFields(fields []cachedField) []cachedField {
	byName := make(map[string][]int, len(fields))
	for i, f := range fields {
		byName[f.name] = append(byName[f.name], i)
	}
	if len(byName) == len(fields) {
		return fields
	}

	keep := make([]bool, len(fields))
	for _, candidates := range byName {
		if i, ok := dominantField(fields, candidates); ok {
			keep[i] = true
		}
	}
	visible := make([]cachedField, 0, len(byName))
	for i, f := range fields {
		if keep[i] {
			visible = append(visible, f)
		}
	}
	return visible
}

func dominantField(fields []cachedField, candidates []int) (int, bool) {
	if len(candidates) == 1 {
		return candidates[0], true
	}
	depth := len(fields[candidates[0]].index)
	for _, i := range candidates[1:] {
		depth = min(depth, len(fields[i].index))
	}

	shallowest, tagged := -1, -1
	count, taggedCount := 0, 0
	for _, i := range candidates {
		if len(fields[i].index) != depth {
			continue
		}
		shallowest = i
		count++
		if fields[i].named {
			tagged = i
			taggedCount++
		}
	}
	switch {
	case count == 1:
		return shallowest, true
	case taggedCount == 1:
		return tagged, true
	}
	return 0, false
}

func isEmbeddedRecord(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || isOpaque(t) {
		return false
	}
	return !t.Implements(nodeType) && !reflect.PointerTo(t).Implements(nodeType)
}

func nodeName(v reflect.Value, label string) string {
	if n, ok := asNode(v); ok {
		return n.ConfigName()
	}
	t := v.Type()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	if label != "" {
		return label
	}
	return "struct"
}

// visitKeyOf identifies nodes that can be reached again through a pointer.
func visitKeyOf(v reflect.Value) (visitKey, bool) {
	switch {
	case v.Kind() == reflect.Pointer, v.Kind() == reflect.Map, v.Kind() == reflect.Slice:
		if v.IsNil() {
			return visitKey{}, false
		}
		return visitKey{ptr: v.Pointer(), t: v.Type()}, true
	case v.CanAddr():
		return visitKey{ptr: v.Addr().Pointer(), t: reflect.PointerTo(v.Type())}, true
	}
	return visitKey{}, false
}

func describe(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}
	return v.Type().String()
}
