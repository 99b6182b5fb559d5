package pdfwrite

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/layout"
	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/style"
)

// fakeCIDFace is a minimal non-standard-14 fontreg.Face stand-in, used to
// exercise the Identity-H hex-string Tj path through buildPageContent
// without needing a real TrueType font file on disk.
type fakeCIDFace struct {
	used map[rune]bool
}

func (f *fakeCIDFace) Family() string                          { return "Custom" }
func (f *fakeCIDFace) Weight() int                             { return 400 }
func (f *fakeCIDFace) Italic() bool                            { return false }
func (f *fakeCIDFace) IsStandard14() bool                      { return false }
func (f *fakeCIDFace) Standard14Name() fontreg.Standard14Name  { return "" }
func (f *fakeCIDFace) PostScriptName() string                  { return "Custom-Regular" }
func (f *fakeCIDFace) Advance(r rune, fontSize float64) float64 { return fontSize * 0.5 }
func (f *fakeCIDFace) Ascent(fontSize float64) float64         { return fontSize * 0.8 }
func (f *fakeCIDFace) Descent(fontSize float64) float64        { return -fontSize * 0.2 }
func (f *fakeCIDFace) UnitsPerEm() int                         { return 1000 }
func (f *fakeCIDFace) GlyphIndex(r rune) uint16                { return uint16(r) + 1 }
func (f *fakeCIDFace) MarkUsed(r rune) {
	if f.used == nil {
		f.used = make(map[rune]bool)
	}
	f.used[r] = true
}
func (f *fakeCIDFace) UsedRunes() map[rune]bool { return f.used }
func (f *fakeCIDFace) RawTrueType() []byte      { return []byte("fake-sfnt-data") }

func customFontDocument() *layout.LayoutDocument {
	resolved := style.Defaults()
	face := &fakeCIDFace{}
	for _, r := range "Hi" {
		face.MarkUsed(r)
	}

	page := &layout.LayoutPage{
		Width: 612, Height: 792,
		ContentX: 72, ContentY: 72, ContentWidth: 468, ContentHeight: 648,
		Elements: []*layout.LayoutElement{
			{
				X: 72, Y: 72, Width: 200, Height: 20,
				Kind: layout.ElementText, NodeType: model.KindText, Style: resolved,
				Draw: layout.DrawCommand{
					Kind: layout.ElementText,
					Lines: []layout.TextLine{
						{Y: 0, Baseline: 12, Height: 14.4, Fragments: []layout.TextFragment{
							{Text: "Hi", X: 0, Width: 20, Style: resolved, Face: face},
						}},
					},
				},
			},
		},
	}
	return &layout.LayoutDocument{Pages: []*layout.LayoutPage{page}}
}

func TestWriteEmitsHexStringTjForEmbeddedFont(t *testing.T) {
	doc := customFontDocument()
	out, err := Write(doc, model.Metadata{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(out, []byte("/FontFile2")) {
		t.Errorf("expected embedded font FontFile2, got:\n%s", out)
	}
	// Write Flate-compresses content streams, so the Tj operand is checked
	// on the uncompressed stream built for the page.
	_, fontNames := collectFonts(doc)
	var bookmarks []bookmarkEntry
	cb, err := buildPageContent(doc.Pages[0], 0, 1, fontNames, &bookmarks)
	if err != nil {
		t.Fatalf("buildPageContent: %v", err)
	}
	stream := cb.buf.String()
	// "H" (0x48) -> glyph 0x49, "i" (0x69) -> glyph 0x6A under GlyphIndex(r) = r+1.
	if !strings.Contains(stream, "<0049006A> Tj") {
		t.Errorf("expected hex-string Tj with glyph indices, got:\n%s", stream)
	}
	if strings.Contains(stream, "(Hi) Tj") {
		t.Errorf("embedded font must not use literal-string Tj")
	}
}

func TestBuildPageContentRendersSvgRectAsPathOperators(t *testing.T) {
	page := &layout.LayoutPage{
		Width: 612, Height: 792,
		Elements: []*layout.LayoutElement{
			{
				X: 10, Y: 10, Width: 100, Height: 50,
				Kind: layout.ElementSvg, NodeType: model.KindSvg,
				Draw: layout.DrawCommand{
					Kind:      layout.ElementSvg,
					SvgMarkup: `<svg><rect x="0" y="0" width="100" height="50" fill="blue"/></svg>`,
					ViewBox:   &model.ViewBox{MinX: 0, MinY: 0, Width: 100, Height: 50},
				},
			},
		},
	}
	var bookmarks []bookmarkEntry
	cb, err := buildPageContent(page, 0, 1, map[fontreg.Face]string{}, &bookmarks)
	if err != nil {
		t.Fatalf("buildPageContent: %v", err)
	}
	stream := cb.buf.String()
	if !strings.Contains(stream, " re\n") {
		t.Errorf("expected an re path operator, got:\n%s", stream)
	}
	if !strings.Contains(stream, "\nf\n") {
		t.Errorf("expected a fill operator for the filled rect, got:\n%s", stream)
	}
	if !strings.Contains(stream, " cm\n") {
		t.Errorf("expected a viewBox CTM, got:\n%s", stream)
	}
}

func simpleDocument() *layout.LayoutDocument {
	registry := fontreg.NewRegistry()
	face := registry.Lookup("Helvetica", 400, false)
	resolved := style.Defaults()

	page := &layout.LayoutPage{
		Width: 612, Height: 792,
		ContentX: 72, ContentY: 72, ContentWidth: 468, ContentHeight: 648,
		Elements: []*layout.LayoutElement{
			{
				X: 72, Y: 72, Width: 200, Height: 20,
				Kind: layout.ElementText, NodeType: model.KindText, Style: resolved,
				Draw: layout.DrawCommand{
					Kind: layout.ElementText,
					Lines: []layout.TextLine{
						{Y: 0, Baseline: 12, Height: 14.4, Fragments: []layout.TextFragment{
							{Text: "Hello, world", X: 0, Width: 80, Style: resolved, Face: face},
						}},
					},
				},
				Bookmark: "Intro",
			},
		},
	}
	return &layout.LayoutDocument{Pages: []*layout.LayoutPage{page}}
}

func TestWriteProducesValidHeaderAndTrailer(t *testing.T) {
	doc := simpleDocument()
	out, err := Write(doc, model.Metadata{Title: "Sample"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-1.7\n")) {
		t.Fatalf("missing PDF header, got prefix %q", out[:20])
	}
	for _, marker := range []string{"endobj", "xref", "trailer", "startxref", "%%EOF"} {
		if !bytes.Contains(out, []byte(marker)) {
			t.Errorf("output missing %q", marker)
		}
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	doc1 := simpleDocument()
	doc2 := simpleDocument()
	out1, err := Write(doc1, model.Metadata{Title: "Sample"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	out2, err := Write(doc2, model.Metadata{Title: "Sample"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(out1, out2) {
		t.Fatalf("expected byte-identical output for identical input")
	}
}

func TestWriteXrefOffsetsPointAtObjects(t *testing.T) {
	doc := simpleDocument()
	out, err := Write(doc, model.Metadata{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	xrefIdx := bytes.Index(out, []byte("\nxref\n"))
	if xrefIdx < 0 {
		t.Fatal("no xref section found")
	}
	trailerIdx := bytes.Index(out, []byte("trailer"))
	xrefSection := string(out[xrefIdx+1 : trailerIdx])
	lines := strings.Split(strings.TrimSpace(xrefSection), "\n")
	// first two lines are "xref" and the subsection header "0 N"
	for _, line := range lines[2:] {
		if len(line) < 18 {
			continue
		}
		if line[17] != 'n' && line[17] != 'f' {
			t.Fatalf("malformed xref entry: %q", line)
		}
	}
}

func TestWriteEmbedsStandard14FontWithoutFontFile(t *testing.T) {
	doc := simpleDocument()
	out, err := Write(doc, model.Metadata{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(out, []byte("/BaseFont /Helvetica")) {
		t.Errorf("expected standard-14 BaseFont reference, got:\n%s", out)
	}
	if bytes.Contains(out, []byte("/FontFile2")) {
		t.Errorf("standard-14 font should not embed FontFile2")
	}
}

func TestWriteEmitsOutlineForBookmark(t *testing.T) {
	doc := simpleDocument()
	out, err := Write(doc, model.Metadata{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(out, []byte("/Title (Intro)")) {
		t.Errorf("expected bookmark title in outline, got:\n%s", out)
	}
	if !bytes.Contains(out, []byte("/Outlines")) {
		t.Errorf("expected /Outlines entry in catalog")
	}
}

func TestWriteContentStreamIsCompressed(t *testing.T) {
	doc := simpleDocument()
	out, err := Write(doc, model.Metadata{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(out, []byte("/Filter /FlateDecode")) {
		t.Errorf("expected at least one FlateDecode-filtered stream")
	}
}

func TestWriteSetsCatalogLangFromMetadata(t *testing.T) {
	doc := simpleDocument()
	out, err := Write(doc, model.Metadata{Lang: "en-US"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(out, []byte("/Lang (en-US)")) {
		t.Errorf("expected /Lang (en-US) in catalog, got:\n%s", out)
	}
}

func TestWriteOmitsCatalogLangWhenUnset(t *testing.T) {
	doc := simpleDocument()
	out, err := Write(doc, model.Metadata{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if bytes.Contains(out, []byte("/Lang")) {
		t.Errorf("expected no /Lang entry when metadata has no language, got:\n%s", out)
	}
}

func TestWriteEmptyDocumentStillProducesCatalog(t *testing.T) {
	doc := &layout.LayoutDocument{Pages: []*layout.LayoutPage{
		{Width: 612, Height: 792},
	}}
	out, err := Write(doc, model.Metadata{})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(out, []byte("/Type /Catalog")) {
		t.Errorf("expected a Catalog object")
	}
	if !bytes.Contains(out, []byte("/Type /Pages")) {
		t.Errorf("expected a Pages object")
	}
}
