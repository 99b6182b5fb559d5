package pdfwrite

import (
	"bytes"
	"fmt"
	"image"
	"strconv"

	"github.com/pageflow/pageflow/coords"
	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/layout"
	"github.com/pageflow/pageflow/model"
)

// imageResource is one image XObject referenced from a single page's
// content stream, named locally to that page's /Resources /XObject dict.
type imageResource struct {
	name        string
	data        []byte
	contentType string
}

// linkAnnotation is one URI link collected while walking a page's element
// tree, positioned in PDF (bottom-up) coordinates.
type linkAnnotation struct {
	x, y, width, height float64
	href                string
}

// bookmarkEntry is one outline destination collected while walking pages
// in document order.
type bookmarkEntry struct {
	title      string
	pageIndex  int
	y          float64 // PDF (bottom-up) y of the element's top edge
}

// contentBuilder accumulates the operators for one page's content stream
// plus the page-local resources that stream references.
type contentBuilder struct {
	buf        bytes.Buffer
	fonts      map[fontreg.Face]string
	images     []imageResource
	links      []linkAnnotation
	bookmarks  *[]bookmarkEntry
	pageHeight float64
	pageIndex  int
	totalPages int
	imageSeq   int
}

// buildPageContent walks a page's top-level elements and produces its
// content stream bytes plus the resources and annotations it references
// (§4.6 Content stream generation).
func buildPageContent(page *layout.LayoutPage, pageIndex, totalPages int, fonts map[fontreg.Face]string, bookmarks *[]bookmarkEntry) (*contentBuilder, error) {
	cb := &contentBuilder{
		fonts:      fonts,
		bookmarks:  bookmarks,
		pageHeight: page.Height,
		pageIndex:  pageIndex,
		totalPages: totalPages,
	}
	for _, el := range page.Elements {
		cb.walk(el)
	}
	return cb, nil
}

func (cb *contentBuilder) walk(el *layout.LayoutElement) {
	if el.Bookmark != "" {
		*cb.bookmarks = append(*cb.bookmarks, bookmarkEntry{
			title:     el.Bookmark,
			pageIndex: cb.pageIndex,
			y:         cb.flipY(el.Y),
		})
	}
	if el.Href != "" && (el.Draw.Kind == layout.ElementText || el.Draw.Kind == layout.ElementImage || el.Draw.Kind == layout.ElementNone) {
		cb.links = append(cb.links, linkAnnotation{
			x: el.X, y: cb.flipY(el.Y + el.Height), width: el.Width, height: el.Height,
			href: el.Href,
		})
	}

	switch el.Draw.Kind {
	case layout.ElementRect:
		cb.drawRect(el)
	case layout.ElementText:
		cb.drawText(el)
	case layout.ElementImage:
		cb.drawImage(el)
	case layout.ElementSvg:
		cb.drawSvg(el)
	}
	for _, c := range el.Children {
		cb.walk(c)
	}
}

// flipY converts a top-down layout y coordinate into PDF's bottom-up user
// space.
func (cb *contentBuilder) flipY(y float64) float64 { return cb.pageHeight - y }

func (cb *contentBuilder) drawRect(el *layout.LayoutElement) {
	d := el.Draw
	if d.Fill != nil {
		cb.fillRect(el.X, el.Y, el.Width, el.Height, *d.Fill)
	}
	bw := d.BorderWidth
	if bw.Top > 0 {
		cb.fillRect(el.X, el.Y, el.Width, bw.Top, d.BorderColor.Top)
	}
	if bw.Bottom > 0 {
		cb.fillRect(el.X, el.Y+el.Height-bw.Bottom, el.Width, bw.Bottom, d.BorderColor.Bottom)
	}
	if bw.Left > 0 {
		cb.fillRect(el.X, el.Y, bw.Left, el.Height, d.BorderColor.Left)
	}
	if bw.Right > 0 {
		cb.fillRect(el.X+el.Width-bw.Right, el.Y, bw.Right, el.Height, d.BorderColor.Right)
	}
}

func (cb *contentBuilder) fillRect(x, y, w, h float64, c model.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	pdfY := cb.flipY(y + h)
	fmt.Fprintf(&cb.buf, "%s rg\n%s %s %s %s re f\n",
		colorOp(c), num(x), num(pdfY), num(w), num(h))
}

func colorOp(c model.Color) string {
	return num(c.R) + " " + num(c.G) + " " + num(c.B)
}

func num(f float64) string { return trimTrailingZeros(strconv.FormatFloat(f, 'f', 4, 64)) }

func (cb *contentBuilder) drawText(el *layout.LayoutElement) {
	for _, line := range el.Draw.Lines {
		for _, frag := range line.Fragments {
			text := cb.resolveFragmentText(frag)
			if text == "" {
				continue
			}
			resName, ok := cb.fonts[frag.Face]
			if !ok {
				continue
			}
			baselineY := cb.flipY(el.Y + line.Y + line.Baseline)
			x := el.X + frag.X
			fmt.Fprintf(&cb.buf, "BT\n%s rg\n/%s %s Tf\n1 0 0 1 %s %s Tm\n%s Tj\nET\n",
				colorOp(frag.Style.Color), resName, num(frag.Style.FontSize), num(x), num(baselineY), cb.textOperand(frag.Face, text))
			cb.drawDecoration(frag, el, line, x)
		}
	}
}

// textOperand renders the Tj operand for a run of text under face: standard
// fonts use single-byte literal strings, Identity-H CID fonts need a hex
// string of two-byte glyph indices (§4.6 TextLine).
func (cb *contentBuilder) textOperand(face fontreg.Face, text string) string {
	if face == nil || face.IsStandard14() {
		return pdfLiteral(text)
	}
	codes := make([]uint16, 0, len(text))
	for _, r := range text {
		codes = append(codes, face.GlyphIndex(r))
	}
	return hexString(codes)
}

func hexString(codes []uint16) string {
	var buf bytes.Buffer
	buf.WriteByte('<')
	for _, c := range codes {
		fmt.Fprintf(&buf, "%04X", c)
	}
	buf.WriteByte('>')
	return buf.String()
}

// resolveFragmentText substitutes the page-number/total-pages placeholder
// tokens now that the true page count is known (§4.3 placeholders, §4.6
// step: placeholder substitution happens at emission time).
func (cb *contentBuilder) resolveFragmentText(frag layout.TextFragment) string {
	switch frag.Placeholder {
	case "pageNumber":
		return strconv.Itoa(cb.pageIndex + 1)
	case "totalPages":
		return strconv.Itoa(cb.totalPages)
	default:
		return frag.Text
	}
}

func (cb *contentBuilder) drawDecoration(frag layout.TextFragment, el *layout.LayoutElement, line layout.TextLine, x float64) {
	dec := frag.Style.TextDecoration
	if dec == model.DecorationNone {
		return
	}
	thickness := frag.Style.FontSize * 0.06
	if thickness < 0.5 {
		thickness = 0.5
	}
	baselineY := el.Y + line.Y + line.Baseline
	if dec == model.DecorationUnderline || dec == model.DecorationUnderlineLine {
		cb.fillRect(x, baselineY+thickness, frag.Width, thickness, frag.Style.Color)
	}
	if dec == model.DecorationLineThrough || dec == model.DecorationUnderlineLine {
		cb.fillRect(x, baselineY-frag.Style.FontSize*0.3, frag.Width, thickness, frag.Style.Color)
	}
}

func (cb *contentBuilder) drawImage(el *layout.LayoutElement) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(el.Draw.ImageData)); err != nil {
		cb.drawSvgPlaceholder(el)
		return
	}
	cb.imageSeq++
	resName := fmt.Sprintf("Im%d", cb.imageSeq)
	cb.images = append(cb.images, imageResource{name: resName, data: el.Draw.ImageData, contentType: el.Draw.ImageContentType})

	pdfY := cb.flipY(el.Y + el.Height)
	m := coords.Scale(el.Width, el.Height).Multiply(coords.Translate(el.X, pdfY))
	fmt.Fprintf(&cb.buf, "q\n%s %s %s %s %s %s cm\n/%s Do\nQ\n",
		num(m[0]), num(m[1]), num(m[2]), num(m[3]), num(m[4]), num(m[5]), resName)
}

// drawSvgPlaceholder strokes the element's bounding box: a fallback for an
// image that failed to decode, or an Svg element whose markup parsed to no
// drawable shapes, so it still occupies visible, inspectable space in the
// output.
func (cb *contentBuilder) drawSvgPlaceholder(el *layout.LayoutElement) {
	pdfY := cb.flipY(el.Y + el.Height)
	fmt.Fprintf(&cb.buf, "0.7 0.7 0.7 RG\n1 w\n%s %s %s %s re S\n",
		num(el.X), num(pdfY), num(el.Width), num(el.Height))
}

// drawSvg implements §4.6's Svg step: parse the markup subset and emit the
// corresponding PDF path operators inside a CTM that maps the declared
// viewBox onto the element's box.
func (cb *contentBuilder) drawSvg(el *layout.LayoutElement) {
	shapes := parseSvgMarkup(el.Draw.SvgMarkup)
	if len(shapes) == 0 {
		cb.drawSvgPlaceholder(el)
		return
	}

	minX, minY, vbw, vbh := svgViewBox(el.Draw.ViewBox, el.Width, el.Height)
	sx, sy := el.Width/vbw, el.Height/vbh
	if vbw <= 0 {
		sx = 1
	}
	if vbh <= 0 {
		sy = 1
	}
	sx, sy = clampFinite(sx), clampFinite(sy)

	ctm := coords.Translate(-minX, -minY).
		Multiply(coords.Scale(sx, -sy)).
		Multiply(coords.Translate(el.X, cb.flipY(el.Y)))

	fmt.Fprintf(&cb.buf, "q\n%s %s %s %s %s %s cm\n",
		num(ctm[0]), num(ctm[1]), num(ctm[2]), num(ctm[3]), num(ctm[4]), num(ctm[5]))
	for _, shape := range shapes {
		for _, op := range shape.ops {
			cb.buf.WriteString(formatSvgOp(op))
			cb.buf.WriteByte('\n')
		}
		cb.buf.WriteString(paintOperator(shape.fill, shape.stroke))
		cb.buf.WriteByte('\n')
	}
	cb.buf.WriteString("Q\n")
}

// paintOperator picks the PDF path-painting operator matching an SVG
// shape's fill/stroke attributes; "n" (no-op) ends an unfilled, unstroked
// path instead of leaking it into whatever operator follows.
func paintOperator(fill, stroke bool) string {
	switch {
	case fill && stroke:
		return "B"
	case fill:
		return "f"
	case stroke:
		return "S"
	default:
		return "n"
	}
}

func pdfLiteral(s string) string {
	var buf bytes.Buffer
	writeLiteralString(&buf, []byte(s))
	return buf.String()
}
