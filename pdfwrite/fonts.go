package pdfwrite

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pageflow/pageflow/filters"
	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/ir/raw"
)

// buildFontResource allocates the PDF font dictionary for face: a plain
// Type1 reference for a standard-14 face (§4.6 step "no embedding"), or a
// whole-font Type0/CIDFontType2 embedding for a custom TrueType face
// (§4.6 Font embedding).
func buildFontResource(g *objectGraph, face fontreg.Face) raw.RefObj {
	if face.IsStandard14() {
		return g.alloc(dict(map[string]raw.Object{
			"Type":     name("Font"),
			"Subtype":  name("Type1"),
			"BaseFont": name(string(face.Standard14Name())),
			"Encoding": name("WinAnsiEncoding"),
		}))
	}
	return buildEmbeddedFont(g, face)
}

// buildEmbeddedFont implements §4.6 Font embedding: collect the runes
// actually rendered (Face.UsedRunes, populated during layout), map them to
// an Identity-H CIDFontType2 with a CIDToGIDMap and a ToUnicode CMap so
// extracted text stays meaningful, and embed the source TrueType bytes as
// a whole font in FontFile2 (no glyf/loca subset rewrite: this is
// whole-font embedding, not true glyph subsetting).
func buildEmbeddedFont(g *objectGraph, face fontreg.Face) raw.RefObj {
	used := sortedRunes(face.UsedRunes())

	fontFile := g.alloc(&raw.StreamObj{
		Dict: dict(map[string]raw.Object{
			"Length1": integer(len(face.RawTrueType())),
		}),
		Data: face.RawTrueType(),
	})
	compressFontFileStream(g, fontFile)

	descriptor := g.alloc(dict(map[string]raw.Object{
		"Type":        name("FontDescriptor"),
		"FontName":    name(face.PostScriptName()),
		"Flags":       integer(fontFlags(face)),
		"FontBBox":    array(integer(-200), integer(int(face.Descent(1000))), integer(1000), integer(int(face.Ascent(1000)))),
		"ItalicAngle": integer(0),
		"Ascent":      real(face.Ascent(1000)),
		"Descent":     real(face.Descent(1000)),
		"CapHeight":   real(face.Ascent(1000)),
		"StemV":       integer(80),
		"FontFile2":   fontFile,
	}))

	maxGid := uint16(0)
	for _, r := range used {
		if gid := face.GlyphIndex(r); gid > maxGid {
			maxGid = gid
		}
	}
	cidToGid := make([]byte, (int(maxGid)+1)*2)
	wArray := raw.NewArray()
	for _, r := range used {
		gid := face.GlyphIndex(r)
		wArray.Append(integer(int(gid)))
		wArray.Append(array(real(face.Advance(r, 1000))))
		cidToGid[int(gid)*2] = byte(gid >> 8)
		cidToGid[int(gid)*2+1] = byte(gid)
	}

	cidToGidStream := g.alloc(&raw.StreamObj{Dict: dict(map[string]raw.Object{}), Data: cidToGid})
	compressFontFileStream(g, cidToGidStream)

	cidFont := g.alloc(dict(map[string]raw.Object{
		"Type":           name("Font"),
		"Subtype":        name("CIDFontType2"),
		"BaseFont":       name(face.PostScriptName()),
		"CIDSystemInfo":  dict(map[string]raw.Object{"Registry": str("Adobe"), "Ordering": str("Identity"), "Supplement": integer(0)}),
		"FontDescriptor": descriptor,
		"DW":             integer(int(face.Advance('m', 1000))),
		"W":              wArray,
		"CIDToGIDMap":    cidToGidStream,
	}))

	toUnicode := g.alloc(&raw.StreamObj{Dict: dict(map[string]raw.Object{}), Data: buildToUnicodeCMap(face, used)})
	compressFontFileStream(g, toUnicode)

	return g.alloc(dict(map[string]raw.Object{
		"Type":            name("Font"),
		"Subtype":         name("Type0"),
		"BaseFont":        name(face.PostScriptName()),
		"Encoding":        name("Identity-H"),
		"DescendantFonts": array(cidFont),
		"ToUnicode":       toUnicode,
	}))
}

// compressFontFileStream Flate-compresses an already-allocated stream
// object's data in place and marks it with /Filter /FlateDecode and the
// correct /Length (§4.6: content and embedded font streams are DEFLATE
// compressed).
func compressFontFileStream(g *objectGraph, ref raw.RefObj) {
	obj := g.objects[ref.R.Num-1].(*raw.StreamObj)
	compressed := filters.FlateEncode(obj.Data)
	obj.Data = compressed
	obj.Dict.Set(name("Filter"), name("FlateDecode"))
	obj.Dict.Set(name("Length"), integer(len(compressed)))
}

func fontFlags(face fontreg.Face) int {
	flags := 32 // Nonsymbolic
	if face.Italic() {
		flags |= 64
	}
	return flags
}

func sortedRunes(used map[rune]bool) []rune {
	out := make([]rune, 0, len(used))
	for r := range used {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// buildToUnicodeCMap emits a minimal bfchar CMap mapping each used glyph
// id back to its source rune, so text extracted from the PDF recovers the
// original characters despite the Identity-H glyph-id encoding.
func buildToUnicodeCMap(face fontreg.Face, used []rune) []byte {
	var buf bytes.Buffer
	buf.WriteString("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n")
	buf.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	fmt.Fprintf(&buf, "%d beginbfchar\n", len(used))
	for _, r := range used {
		gid := face.GlyphIndex(r)
		fmt.Fprintf(&buf, "<%04X> <%04X>\n", gid, r)
	}
	buf.WriteString("endbfchar\nendcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	return buf.Bytes()
}
