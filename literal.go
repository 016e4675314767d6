package cfgtree

import (
	"bytes"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// writeText writes the value of a field line. Strings and opaque scalars are
// written raw, everything else uses its literal form.
func (e *internalEncoder) writeText(v reflect.Value) {
	v, ok := indirect(v)
	if !ok {
		e.buf.WriteString("None")
		return
	}
	if s, ok := opaqueText(v); ok {
		e.buf.WriteString(s)
		return
	}
	if v.Kind() == reflect.String {
		e.buf.WriteString(v.String())
		return
	}
	e.writeLiteral(v)
}

// writeLiteral writes v on a single line the way it appears inside a
// collection: strings quoted, records as Name(field=value, ...).
func (e *internalEncoder) writeLiteral(v reflect.Value) {
	v, ok := indirect(v)
	if !ok {
		e.buf.WriteString("None")
		return
	}
	if s, ok := opaqueText(v); ok {
		e.buf.WriteString(quote(s))
		return
	}
	if _, ok := asNode(v); ok {
		e.writeRecord(v)
		return
	}
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			e.buf.WriteString("True")
		} else {
			e.buf.WriteString("False")
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32:
		e.buf.WriteString(formatFloat(v.Float(), 32))
	case reflect.Float64:
		e.buf.WriteString(formatFloat(v.Float(), 64))
	case reflect.Complex64:
		e.buf.WriteString(formatComplex(v.Complex(), 32))
	case reflect.Complex128:
		e.buf.WriteString(formatComplex(v.Complex(), 64))
	case reflect.String:
		e.buf.WriteString(quote(v.String()))
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			e.buf.WriteString(quoteBytes(v.Bytes()))
			return
		}
		e.writeSequence(v)
	case reflect.Array:
		e.writeSequence(v)
	case reflect.Map:
		e.writeMap(v)
	case reflect.Struct:
		e.writeRecord(v)
	default:
		e.buf.WriteString("<" + v.Type().String() + ">")
	}
}

func (e *internalEncoder) writeSequence(v reflect.Value) {
	if v.Kind() == reflect.Slice && v.Len() > 0 {
		key := visitKey{ptr: v.Pointer(), t: v.Type(), n: v.Len()}
		if _, seen := e.active[key]; seen {
			e.buf.WriteString("[...]")
			return
		}
		e.active[key] = struct{}{}
		defer delete(e.active, key)
	}

	e.buf.WriteString("[")
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		e.writeLiteral(v.Index(i))
	}
	e.buf.WriteString("]")
}

type mapEntry struct {
	key     reflect.Value
	keyText string
	value   reflect.Value
}

// writeMap writes map entries in a stable key order: numbers numerically,
// strings lexically, anything else by the text of the key.
func (e *internalEncoder) writeMap(v reflect.Value) {
	if !v.IsNil() {
		key := visitKey{ptr: v.Pointer(), t: v.Type()}
		if _, seen := e.active[key]; seen {
			e.buf.WriteString("{...}")
			return
		}
		e.active[key] = struct{}{}
		defer delete(e.active, key)
	}

	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, mapEntry{
			key:     iter.Key(),
			keyText: e.literalString(iter.Key()),
			value:   iter.Value(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return compareKeys(entries[i], entries[j]) < 0
	})

	e.buf.WriteString("{")
	for i, entry := range entries {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		e.buf.WriteString(entry.keyText)
		e.buf.WriteString(": ")
		e.writeLiteral(entry.value)
	}
	e.buf.WriteString("}")
}

func (e *internalEncoder) writeRecord(v reflect.Value) {
	e.buf.WriteString(nodeName(v, ""))

	key, tracked := visitKeyOf(v)
	if tracked {
		if _, seen := e.active[key]; seen {
			e.buf.WriteString("(...)")
			return
		}
		e.active[key] = struct{}{}
		defer delete(e.active, key)
	}

	e.buf.WriteString("(")
	for i, f := range e.gatherFields(v) {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		e.buf.WriteString(f.name)
		e.buf.WriteString("=")
		e.writeLiteral(f.value)
	}
	e.buf.WriteString(")")
}

// literalString renders v into a scratch buffer that shares the cycle state.
func (e *internalEncoder) literalString(v reflect.Value) string {
	scratch := &internalEncoder{
		buf:    &bytes.Buffer{},
		opts:   e.opts,
		active: e.active,
	}
	scratch.writeLiteral(v)
	return scratch.buf.String()
}

func compareKeys(a, b mapEntry) int {
	ak, aok := indirect(a.key)
	bk, bok := indirect(b.key)
	if aok && bok && ak.Kind() == bk.Kind() {
		switch ak.Kind() {
		case reflect.String:
			return strings.Compare(ak.String(), bk.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return compareOrdered(ak.Int(), bk.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return compareOrdered(ak.Uint(), bk.Uint())
		case reflect.Float32, reflect.Float64:
			if c := compareOrdered(ak.Float(), bk.Float()); c != 0 {
				return c
			}
		}
	}
	return strings.Compare(a.keyText, b.keyText)
}

func compareOrdered[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// formatFloat returns the shortest text that round-trips f. Fixed notation is
// used while the decimal exponent is in [-4, 16), otherwise exponent notation
// with a signed exponent of at least two digits.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'e', -1, bitSize)
	mantissa, expText, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expText)
	if exp < -4 || exp >= 16 {
		sign := "+"
		if exp < 0 {
			sign = "-"
			exp = -exp
		}
		expText = strconv.Itoa(exp)
		if len(expText) < 2 {
			expText = "0" + expText
		}
		return mantissa + "e" + sign + expText
	}
	s = strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatComplex writes c as (re+imj), or imj alone when the real part is a
// positive zero.
func formatComplex(c complex128, bitSize int) string {
	re, im := real(c), imag(c)
	imText := strings.TrimSuffix(formatFloat(im, bitSize), ".0") + "j"
	if re == 0 && !math.Signbit(re) {
		return imText
	}
	reText := strings.TrimSuffix(formatFloat(re, bitSize), ".0")
	if im >= 0 || math.IsNaN(im) {
		imText = "+" + imText
	}
	return "(" + reText + imText + ")"
}

func quoteChar(hasSingle, hasDouble bool) byte {
	if hasSingle && !hasDouble {
		return '"'
	}
	return '\''
}

// quote returns s as a string literal. Single quotes are preferred; double
// quotes are used when s contains a single quote and no double quote.
func quote(s string) string {
	q := quoteChar(strings.ContainsRune(s, '\''), strings.ContainsRune(s, '"'))
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(`\x`)
			writeHex(&b, uint32(s[i]), 2)
			i++
			continue
		}
		i += size
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			b.WriteString(`\x`)
			writeHex(&b, uint32(r), 2)
		case r < 0x10000:
			b.WriteString(`\u`)
			writeHex(&b, uint32(r), 4)
		default:
			b.WriteString(`\U`)
			writeHex(&b, uint32(r), 8)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// quoteBytes returns p as a bytes literal, b'...'.
func quoteBytes(p []byte) string {
	q := quoteChar(bytes.IndexByte(p, '\'') >= 0, bytes.IndexByte(p, '"') >= 0)
	var b strings.Builder
	b.Grow(len(p) + 3)
	b.WriteByte('b')
	b.WriteByte(q)
	for _, c := range p {
		switch {
		case c == q || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		default:
			b.WriteString(`\x`)
			writeHex(&b, uint32(c), 2)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func writeHex(b *strings.Builder, n uint32, width int) {
	const digits = "0123456789abcdef"
	for shift := (width - 1) * 4; shift >= 0; shift -= 4 {
		b.WriteByte(digits[(n>>uint(shift))&0xf])
	}
}
