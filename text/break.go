// Package text implements text measurement and greedy line breaking
// (§4.3): glyph-advance summation over a fontreg.Face, word-by-word greedy
// fill within an available width, and the page-number/total-pages
// placeholder tokens that the PDF serializer resolves after layout.
package text

import (
	"strings"
	"unicode/utf8"

	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/style"
)

const (
	PlaceholderPageNumber = "{{pageNumber}}"
	PlaceholderTotalPages = "{{totalPages}}"

	// placeholderDigits is how many digit glyphs a placeholder is assumed
	// to measure as during layout, before the real page count is known.
	// Documents with 10,000+ pages will see the substituted digit string
	// overflow this reserved width; this is the source's own trade-off
	// (see DESIGN.md) since re-flowing after substitution would break the
	// single-pass layout→serialize pipeline.
	placeholderDigits = 4
)

// Glyph is one positioned character within a rendered run.
type Glyph struct {
	Rune    rune
	Advance float64
}

// Fragment is one token of one input run within a Line — a word, a single
// space, or a placeholder — carrying that run's style (§4.3 Multi-run
// text). Consecutive tokens of the same run are not merged.
type Fragment struct {
	Text        string
	Style       style.Resolved
	Face        fontreg.Face
	Href        string
	Glyphs      []Glyph
	Width       float64
	Placeholder string // "" | "pageNumber" | "totalPages"
}

// Line is one output of the greedy breaker.
type Line struct {
	Fragments []Fragment
	Width     float64
	Height    float64 // actual_line_height = fontSize * lineHeight, max over fragments
	Baseline  float64 // 0.8 * Height, from the top of the line box
}

// InputRun is one styled run of text to be broken into lines; a plain
// Text node with no `runs` produces a single InputRun.
type InputRun struct {
	Content string
	Style   style.Resolved
	Face    fontreg.Face
	Href    string
}

type token struct {
	text        string
	isSpace     bool
	placeholder string
}

// tokenize splits s into words, single spaces, and the two placeholder
// literals (kept atomic so they always measure and later substitute as a
// single glyph group).
func tokenize(s string) []token {
	var toks []token
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, token{text: cur.String()})
			cur.Reset()
		}
	}
	i := 0
	for i < len(s) {
		if strings.HasPrefix(s[i:], PlaceholderPageNumber) {
			flush()
			toks = append(toks, token{text: PlaceholderPageNumber, placeholder: "pageNumber"})
			i += len(PlaceholderPageNumber)
			continue
		}
		if strings.HasPrefix(s[i:], PlaceholderTotalPages) {
			flush()
			toks = append(toks, token{text: PlaceholderTotalPages, placeholder: "totalPages"})
			i += len(PlaceholderTotalPages)
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == ' ' || r == '\n' || r == '\t' {
			flush()
			toks = append(toks, token{text: " ", isSpace: true})
		} else {
			cur.WriteRune(r)
		}
		i += size
	}
	flush()
	return toks
}

// measureWord returns the summed glyph advances (plus letter-spacing
// between glyphs) for a plain word, per §4.3 step 2.
func measureWord(word string, face fontreg.Face, fontSize, letterSpacing float64) (glyphs []Glyph, width float64) {
	runes := []rune(word)
	for i, r := range runes {
		adv := face.Advance(r, fontSize)
		glyphs = append(glyphs, Glyph{Rune: r, Advance: adv})
		width += adv
		if i < len(runes)-1 {
			width += letterSpacing
		}
	}
	return glyphs, width
}

func measurePlaceholder(face fontreg.Face, fontSize float64) float64 {
	return face.Advance('0', fontSize) * placeholderDigits
}

// MinContentWidth is the advance width of the widest single word across
// all runs, exposed for flex shrink's min_content clamp (§4.3, §4.4).
func MinContentWidth(runs []InputRun) float64 {
	max := 0.0
	for _, run := range runs {
		content := ApplyTextTransform(run.Content, run.Style.TextTransform)
		for _, tok := range tokenize(content) {
			if tok.isSpace {
				continue
			}
			var w float64
			if tok.placeholder != "" {
				w = measurePlaceholder(run.Face, run.Style.FontSize)
			} else {
				_, w = measureWord(tok.text, run.Face, run.Style.FontSize, run.Style.LetterSpacing)
			}
			if w > max {
				max = w
			}
		}
	}
	return max
}

type pendingFragment struct {
	style       style.Resolved
	face        fontreg.Face
	href        string
	text        strings.Builder
	glyphs      []Glyph
	width       float64
	placeholder string
}

// BreakLines implements the greedy line breaker of §4.3: split into
// words, fill a line word-by-word, and if a single word alone exceeds
// the available width, place it alone on its own line (no mid-word
// breaking). Line breaking proceeds across runs — when a line flushes,
// each contained run fragment is recorded separately with its own
// font/color/decoration (§4.3 Multi-run text).
func BreakLines(runs []InputRun, maxWidth float64) []Line {
	if maxWidth < minWidth {
		maxWidth = minWidth
	}

	var lines []Line
	var curFrags []pendingFragment
	curWidth := 0.0

	newFragFor := func(run InputRun) *pendingFragment {
		curFrags = append(curFrags, pendingFragment{style: run.Style, face: run.Face, href: run.Href})
		return &curFrags[len(curFrags)-1]
	}

	flushLine := func() {
		if len(curFrags) == 0 {
			return
		}
		line := Line{Width: curWidth}
		maxHeight := 0.0
		for _, pf := range curFrags {
			if pf.text.Len() == 0 && pf.placeholder == "" {
				continue
			}
			h := pf.style.FontSize * pf.style.LineHeight
			if h > maxHeight {
				maxHeight = h
			}
			line.Fragments = append(line.Fragments, Fragment{
				Text:        pf.text.String(),
				Style:       pf.style,
				Face:        pf.face,
				Href:        pf.href,
				Glyphs:      pf.glyphs,
				Width:       pf.width,
				Placeholder: pf.placeholder,
			})
		}
		if maxHeight == 0 {
			maxHeight = 12 * 1.2
		}
		line.Height = maxHeight
		line.Baseline = 0.8 * maxHeight
		lines = append(lines, line)
		curFrags = nil
		curWidth = 0
	}

	appendToken := func(run InputRun, tok token, glyphs []Glyph, w float64) {
		frag := newFragFor(run)
		frag.text.WriteString(tok.text)
		frag.glyphs = glyphs
		frag.width = w
		frag.placeholder = tok.placeholder
		curWidth += w
	}

	for _, run := range runs {
		content := ApplyTextTransform(run.Content, run.Style.TextTransform)
		toks := tokenize(content)
		for _, tok := range toks {
			if tok.isSpace {
				spaceGlyphs, spaceW := measureWord(" ", run.Face, run.Style.FontSize, run.Style.LetterSpacing)
				if len(curFrags) == 0 {
					// A leading space at the start of a line carries no
					// visual weight worth keeping; drop it.
					continue
				}
				if curWidth+spaceW > maxWidth {
					flushLine()
					continue
				}
				appendToken(run, tok, spaceGlyphs, spaceW)
				continue
			}

			var glyphs []Glyph
			var w float64
			if tok.placeholder != "" {
				w = measurePlaceholder(run.Face, run.Style.FontSize)
			} else {
				glyphs, w = measureWord(tok.text, run.Face, run.Style.FontSize, run.Style.LetterSpacing)
			}

			if curWidth+w <= maxWidth || len(curFrags) == 0 && w > maxWidth {
				// Fits on the current line, or is a single word that
				// exceeds the width by itself and must go alone (§4.3
				// step 3: "no mid-word breaking").
				appendToken(run, tok, glyphs, w)
				continue
			}
			if curWidth+w > maxWidth {
				flushLine()
				appendToken(run, tok, glyphs, w)
			}
		}
	}
	flushLine()
	return lines
}

const minWidth = 0.001
