package layout

import (
	"strings"

	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/pagebreak"
	"github.com/pageflow/pageflow/style"
	"github.com/pageflow/pageflow/text"
)

// layoutText implements §4.3/§4.5 Text: break the node's runs into lines
// against the available width, then feed those lines to the break decider
// one page at a time, flushing a Text container LayoutElement for each
// page fragment.
func layoutText(ctx *renderCtx, node *model.Node, cur *Cursor, x, availableWidth float64, parent style.Resolved) {
	resolved := style.Resolve(node, parent)

	width := resolved.Width.Resolve(availableWidth, availableWidth)
	if width < minSize {
		width = minSize
	}
	contentX := x + resolved.Padding.Left + resolved.BorderWidth.Left
	contentWidth := width - resolved.Padding.Left - resolved.Padding.Right - resolved.BorderWidth.Left - resolved.BorderWidth.Right
	if contentWidth < minSize {
		contentWidth = minSize
	}

	runs := buildInputRuns(ctx, node, resolved)
	lines := text.BreakLines(runs, contentWidth)
	if len(lines) == 0 {
		return
	}

	remaining := lines
	guard := 0
	for len(remaining) > 0 {
		guard++
		if guard > 100000 {
			ctx.warn(WarnLayout, "text layout exceeded page-break iteration guard")
			pushTextFragment(cur, node, resolved, remaining, contentX, contentWidth, x, width)
			return
		}
		items := make([]pagebreak.Item, len(remaining))
		for i, l := range remaining {
			items[i] = pagebreak.Item{Height: l.Height}
		}
		result := pagebreak.Decide(items, cur.RemainingHeight(), cur.FreshPageHeight(), resolved.MinOrphanLines, resolved.MinWidowLines)
		switch result.Decision {
		case pagebreak.Place:
			pushTextFragment(cur, node, resolved, remaining, contentX, contentWidth, x, width)
			remaining = nil
		case pagebreak.MoveToNextPage:
			cur.NewPage()
		case pagebreak.Split:
			pushTextFragment(cur, node, resolved, remaining[:result.K], contentX, contentWidth, x, width)
			cur.NewPage()
			remaining = remaining[result.K:]
		}
	}
}

// pushTextFragment wraps one page's worth of already-broken lines as a
// Text container LayoutElement and pushes it, advancing the cursor by the
// fragment's total height.
func pushTextFragment(cur *Cursor, node *model.Node, resolved style.Resolved, lines []text.Line, contentX, contentWidth, x, width float64) {
	startY := cur.y
	var drawLines []TextLine
	var textContent strings.Builder
	y := 0.0
	for _, l := range lines {
		var frags []TextFragment
		fx := 0.0
		for _, f := range l.Fragments {
			frags = append(frags, TextFragment{
				Text: f.Text, X: fx, Width: f.Width, Style: f.Style, Face: f.Face,
				Href: f.Href, Placeholder: f.Placeholder,
			})
			fx += f.Width
			textContent.WriteString(f.Text)
		}
		applyTextAlign(frags, contentWidth, resolved.TextAlign, l.Width)
		drawLines = append(drawLines, TextLine{Y: y, Baseline: y + l.Baseline, Height: l.Height, Fragments: frags})
		y += l.Height
	}
	height := y

	el := &LayoutElement{
		X: x, Y: startY, Width: width, Height: height,
		Kind:           ElementText,
		NodeType:       node.Kind,
		Style:          resolved,
		Draw:           DrawCommand{Kind: ElementText, Lines: drawLines},
		SourceLocation: node.SourceLocation,
		TextContent:    textContent.String(),
		Href:           node.Href,
		Bookmark:       node.Bookmark,
	}
	cur.Push(el)
	cur.y = startY + height
}

// applyTextAlign shifts a line's fragments per §4.3/§4.5: left is the
// identity, right/center offset the whole line. True justification would
// require splitting fragments at word boundaries; runs are kept intact
// instead (documented limitation).
func applyTextAlign(frags []TextFragment, contentWidth float64, align model.TextAlign, lineWidth float64) {
	var shift float64
	switch align {
	case model.AlignRight:
		shift = contentWidth - lineWidth
	case model.AlignCenter:
		shift = (contentWidth - lineWidth) / 2
	}
	if shift <= 0 {
		return
	}
	for i := range frags {
		frags[i].X += shift
	}
}

// buildInputRuns resolves each of node's runs (or its plain content as a
// single implicit run) against a Face from the registry, marking rendered
// runes for later CID/glyph-index bookkeeping (§4.6 Font embedding step 1).
func buildInputRuns(ctx *renderCtx, node *model.Node, resolved style.Resolved) []text.InputRun {
	if len(node.Runs) == 0 {
		face := ctx.registry.FaceFor(resolved.FontFamily, resolved.FontWeight, resolved.FontStyle == model.FontStyleItalic)
		markRunesUsed(face, node.Content)
		return []text.InputRun{{Content: node.Content, Style: resolved, Face: face}}
	}
	runs := make([]text.InputRun, 0, len(node.Runs))
	for _, r := range node.Runs {
		rs := style.Resolve(&model.Node{Style: r.Style}, resolved)
		face := ctx.registry.FaceFor(rs.FontFamily, rs.FontWeight, rs.FontStyle == model.FontStyleItalic)
		markRunesUsed(face, r.Content)
		runs = append(runs, text.InputRun{Content: r.Content, Style: rs, Face: face, Href: r.Href})
	}
	return runs
}

func markRunesUsed(face interface{ MarkUsed(rune) }, content string) {
	for _, r := range content {
		face.MarkUsed(r)
	}
	for _, d := range []rune("0123456789") {
		if strings.Contains(content, "{{pageNumber}}") || strings.Contains(content, "{{totalPages}}") {
			face.MarkUsed(d)
		}
	}
}
