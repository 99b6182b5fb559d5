package fontreg

import (
	"fmt"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face abstracts over a standard-14 font and a parsed TrueType/OpenType
// font, giving text measurement and PDF font embedding a single interface
// (§4.3, §4.7).
type Face interface {
	// Family/Weight/Italic identify the font's registry key.
	Family() string
	Weight() int
	Italic() bool

	// IsStandard14 reports whether this face is one of the 14 PDF base
	// fonts (no embedding, referenced by name only, §4.6).
	IsStandard14() bool
	Standard14Name() Standard14Name
	PostScriptName() string

	// Advance returns r's glyph advance width in points at fontSize.
	Advance(r rune, fontSize float64) float64
	// Ascent/Descent return font-space vertical metrics in points at
	// fontSize (used only as descriptor metadata; layout uses the
	// baseline-offset constant from §4.3, not these).
	Ascent(fontSize float64) float64
	Descent(fontSize float64) float64
	UnitsPerEm() int

	// GlyphIndex maps a rune to a glyph id for CID/Identity-H encoding of
	// embedded fonts. Standard-14 faces return 0 (unused: they are
	// single-byte named fonts, not CID fonts).
	GlyphIndex(r rune) uint16

	// MarkUsed records that r was rendered, for glyph-subset planning
	// (§4.6 Font embedding step 1). UsedRunes returns the accumulated set.
	MarkUsed(r rune)
	UsedRunes() map[rune]bool

	// RawTrueType returns the original font file bytes for embedding, or
	// nil for a standard-14 face.
	RawTrueType() []byte
}

type standard14Face struct {
	name Standard14Name
	mu   sync.Mutex
	used map[rune]bool
}

func newStandard14Face(name Standard14Name) *standard14Face {
	return &standard14Face{name: name, used: make(map[rune]bool)}
}

func (f *standard14Face) Family() string {
	switch f.name {
	case Helvetica, HelveticaBold, HelveticaOblique, HelveticaBoldOblique:
		return "Helvetica"
	case TimesRoman, TimesBold, TimesItalic, TimesBoldItalic:
		return "Times"
	case Courier, CourierBold, CourierOblique, CourierBoldOblique:
		return "Courier"
	case Symbol:
		return "Symbol"
	case ZapfDingbats:
		return "ZapfDingbats"
	}
	return string(f.name)
}

func (f *standard14Face) Weight() int {
	switch f.name {
	case HelveticaBold, TimesBold, CourierBold, HelveticaBoldOblique, TimesBoldItalic, CourierBoldOblique:
		return 700
	}
	return 400
}

func (f *standard14Face) Italic() bool {
	switch f.name {
	case HelveticaOblique, HelveticaBoldOblique, TimesItalic, TimesBoldItalic, CourierOblique, CourierBoldOblique:
		return true
	}
	return false
}

func (f *standard14Face) IsStandard14() bool          { return true }
func (f *standard14Face) Standard14Name() Standard14Name { return f.name }
func (f *standard14Face) PostScriptName() string      { return string(f.name) }
func (f *standard14Face) UnitsPerEm() int             { return 1000 }
func (f *standard14Face) GlyphIndex(rune) uint16      { return 0 }
func (f *standard14Face) RawTrueType() []byte         { return nil }

func (f *standard14Face) Advance(r rune, fontSize float64) float64 {
	return float64(advance1000(f.name, r)) / 1000.0 * fontSize
}
func (f *standard14Face) Ascent(fontSize float64) float64 {
	return standard14[f.name].ascent / 1000.0 * fontSize
}
func (f *standard14Face) Descent(fontSize float64) float64 {
	return standard14[f.name].descent / 1000.0 * fontSize
}
func (f *standard14Face) MarkUsed(r rune) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.used[r] = true
}
func (f *standard14Face) UsedRunes() map[rune]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[rune]bool, len(f.used))
	for r := range f.used {
		out[r] = true
	}
	return out
}

// truetypeFace wraps a parsed embedded font (§4.3 Custom fonts, §4.7).
// Grounded on wudi-pdfkit/fonts/fonts.go's use of golang.org/x/image/font/sfnt
// to read hmtx/cmap/head/hhea/OS2 metrics.
type truetypeFace struct {
	family string
	weight int
	italic bool

	raw        []byte
	font       *sfnt.Font
	unitsPerEm int
	psName     string

	mu       sync.Mutex
	buf      sfnt.Buffer
	advCache map[rune]float64
	giCache  map[rune]uint16
	used     map[rune]bool
}

func newTrueTypeFace(family string, weight int, italic bool, data []byte) (*truetypeFace, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("truetype font data is empty")
	}
	parsed, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype font %q: %w", family, err)
	}
	upm := int(parsed.UnitsPerEm())
	if upm == 0 {
		return nil, fmt.Errorf("truetype font %q: invalid unitsPerEm", family)
	}
	f := &truetypeFace{
		family:     family,
		weight:     weight,
		italic:     italic,
		raw:        data,
		font:       parsed,
		unitsPerEm: upm,
		advCache:   make(map[rune]float64),
		giCache:    make(map[rune]uint16),
		used:       make(map[rune]bool),
	}
	var nameBuf sfnt.Buffer
	if ps, err := parsed.Name(&nameBuf, sfnt.NameIDPostScript); err == nil && ps != "" {
		f.psName = ps
	} else {
		f.psName = family
	}
	return f, nil
}

func (f *truetypeFace) Family() string               { return f.family }
func (f *truetypeFace) Weight() int                  { return f.weight }
func (f *truetypeFace) Italic() bool                 { return f.italic }
func (f *truetypeFace) IsStandard14() bool           { return false }
func (f *truetypeFace) Standard14Name() Standard14Name { return "" }
func (f *truetypeFace) PostScriptName() string       { return f.psName }
func (f *truetypeFace) UnitsPerEm() int              { return f.unitsPerEm }
func (f *truetypeFace) RawTrueType() []byte          { return f.raw }

func (f *truetypeFace) glyphIndex(r rune) uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gi, ok := f.giCache[r]; ok {
		return gi
	}
	gid, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil {
		gid = 0
	}
	f.giCache[r] = uint16(gid)
	return uint16(gid)
}

func (f *truetypeFace) GlyphIndex(r rune) uint16 { return f.glyphIndex(r) }

func (f *truetypeFace) Advance(r rune, fontSize float64) float64 {
	f.mu.Lock()
	if a, ok := f.advCache[r]; ok {
		f.mu.Unlock()
		return a * fontSize
	}
	f.mu.Unlock()

	gid := f.glyphIndex(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	ppem := fixed.Int26_6(f.unitsPerEm << 6)
	adv, err := f.font.GlyphAdvance(&f.buf, sfnt.GlyphIndex(gid), ppem, xfont.HintingNone)
	unitless := 0.0
	if err == nil {
		unitless = float64(adv) / (64.0 * float64(f.unitsPerEm))
	}
	f.advCache[r] = unitless
	return unitless * fontSize
}

func (f *truetypeFace) Ascent(fontSize float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ppem := fixed.Int26_6(f.unitsPerEm << 6)
	m, err := f.font.Metrics(&f.buf, ppem, xfont.HintingNone)
	if err != nil {
		return 0.8 * fontSize
	}
	return float64(m.Ascent) / 64.0 / float64(f.unitsPerEm) * fontSize
}

func (f *truetypeFace) Descent(fontSize float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ppem := fixed.Int26_6(f.unitsPerEm << 6)
	m, err := f.font.Metrics(&f.buf, ppem, xfont.HintingNone)
	if err != nil {
		return -0.2 * fontSize
	}
	return -float64(m.Descent) / 64.0 / float64(f.unitsPerEm) * fontSize
}

func (f *truetypeFace) MarkUsed(r rune) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.used[r] = true
}
func (f *truetypeFace) UsedRunes() map[rune]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[rune]bool, len(f.used))
	for r := range f.used {
		out[r] = true
	}
	return out
}
