// Package pdfwrite serializes a laid-out document into PDF 1.7 bytes
// (§4.6): indirect objects addressed by a classic cross-reference table,
// content streams built from LayoutElement trees, standard-14 and
// whole-font embedded TrueType fonts, image XObjects, link annotations, and a
// flat bookmark outline. It builds its object graph on the ir/raw object
// model, adapted here from reading PDFs to writing them.
package pdfwrite

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/pageflow/pageflow/ir/raw"
)

// objectGraph accumulates indirect objects in allocation order; the slice
// index (plus 1) is the PDF object number.
type objectGraph struct {
	objects []raw.Object
}

func (g *objectGraph) alloc(o raw.Object) raw.RefObj {
	g.objects = append(g.objects, o)
	return raw.RefObj{R: raw.ObjectRef{Num: len(g.objects), Gen: 0}}
}

// set replaces an already-allocated object's body, used when a dict needs
// to reference an object allocated after it (e.g. a Page referencing its
// own Contents stream built from content that itself references the
// Page's Resources).
func (g *objectGraph) set(ref raw.RefObj, o raw.Object) {
	g.objects[ref.R.Num-1] = o
}

func name(n string) raw.NameObj               { return raw.NameLiteral(n) }
func integer(n int) raw.NumberObj             { return raw.NumberInt(int64(n)) }
func real(f float64) raw.NumberObj            { return raw.NumberFloat(f) }
func str(s string) raw.StringObj              { return raw.Str([]byte(s)) }
func array(items ...raw.Object) *raw.ArrayObj { return raw.NewArray(items...) }

func dict(kv map[string]raw.Object) *raw.DictObj {
	d := raw.Dict()
	for k, v := range kv {
		d.Set(name(k), v)
	}
	return d
}

// serializeObject writes one top-level "N 0 obj ... endobj" entry and
// returns its bytes; the caller records the byte offset for the xref
// table.
func serializeObject(num int, o raw.Object) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d 0 obj\n", num)
	writeValue(&buf, o)
	buf.WriteString("\nendobj\n")
	return buf.Bytes()
}

func writeValue(buf *bytes.Buffer, o raw.Object) {
	switch v := o.(type) {
	case raw.NameObj:
		buf.WriteByte('/')
		buf.WriteString(escapeName(v.Value()))
	case raw.NumberObj:
		if v.IsInteger() {
			buf.WriteString(strconv.FormatInt(v.Int(), 10))
		} else {
			buf.WriteString(formatFloat(v.Float()))
		}
	case raw.BoolObj:
		if v.Value() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case raw.NullObj:
		buf.WriteString("null")
	case raw.StringObj:
		writeLiteralString(buf, v.Value())
	case *raw.ArrayObj:
		buf.WriteString("[ ")
		for i := 0; i < v.Len(); i++ {
			item, _ := v.Get(i)
			writeValue(buf, item)
			buf.WriteByte(' ')
		}
		buf.WriteByte(']')
	case *raw.DictObj:
		writeDict(buf, v)
	case *raw.StreamObj:
		writeDict(buf, v.Dict)
		buf.WriteString("\nstream\n")
		buf.Write(v.Data)
		buf.WriteString("\nendstream")
	case raw.RefObj:
		fmt.Fprintf(buf, "%d %d R", v.R.Num, v.R.Gen)
	default:
		buf.WriteString("null")
	}
}

// writeDict emits keys in sorted order so the same object graph always
// serializes to identical bytes.
func writeDict(buf *bytes.Buffer, d *raw.DictObj) {
	keys := make([]string, 0, len(d.KV))
	for k := range d.KV {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	buf.WriteString("<< ")
	for _, k := range keys {
		buf.WriteByte('/')
		buf.WriteString(escapeName(k))
		buf.WriteByte(' ')
		writeValue(buf, d.KV[k])
		buf.WriteByte(' ')
	}
	buf.WriteString(">>")
}

func escapeName(n string) string {
	var b bytes.Buffer
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c <= 0x20 || c >= 0x7f || c == '/' || c == '(' || c == ')' || c == '<' || c == '>' || c == '#' {
			fmt.Fprintf(&b, "#%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func writeLiteralString(buf *bytes.Buffer, s []byte) {
	buf.WriteByte('(')
	for _, c := range s {
		switch c {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteByte(c)
		}
	}
	buf.WriteByte(')')
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = trimTrailingZeros(s)
	return s
}

func trimTrailingZeros(s string) string {
	if !bytes.ContainsRune([]byte(s), '.') {
		return s
	}
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
