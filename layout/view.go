package layout

import (
	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/style"
)

// layoutView implements §4.5 View: a flex container that either flows its
// children in a column (the default) or delegates to layoutFlexRowGroup
// for flexDirection row/row-reverse.
func layoutView(ctx *renderCtx, node *model.Node, cur *Cursor, x, availableWidth float64, parent style.Resolved) {
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

	isRow := resolved.FlexDirection == model.FlexRow || resolved.FlexDirection == model.FlexRowReverse

	if !resolved.Wrap {
		layoutAtomicView(ctx, node, cur, x, width, contentX, contentWidth, resolved, isRow)
		return
	}
	layoutBreakableView(ctx, node, cur, x, width, contentX, contentWidth, resolved, isRow)
}

func placeChildren(ctx *renderCtx, node *model.Node, cur *Cursor, contentX, contentWidth float64, resolved style.Resolved, isRow bool) {
	if isRow {
		layoutFlexRowGroup(ctx, node.Children, cur, contentX, contentWidth, resolved)
		return
	}
	layoutChildren(ctx, node.Children, cur, contentX, contentWidth, resolved)
}

// layoutAtomicView implements the wrap:false path of §4.5: a dry run
// measures the block's total height; it moves to a fresh page rather than
// splitting when the whole thing fits there, and only falls back to
// letting children split individually when it fits nowhere (Failure
// semantics: the engine is total).
func layoutAtomicView(ctx *renderCtx, node *model.Node, cur *Cursor, x, width, contentX, contentWidth float64, resolved style.Resolved, isRow bool) {
	measured := measureBlockHeight(ctx, node, contentX, contentWidth, resolved, isRow)
	explicitHeight, hasExplicit := explicitHeightOf(resolved)
	total := measured
	if hasExplicit && explicitHeight > total {
		total = explicitHeight
	}

	if total > cur.RemainingHeight() && total <= cur.FreshPageHeight() {
		cur.NewPage()
	} else if total > cur.RemainingHeight() && total > cur.FreshPageHeight() {
		ctx.warn(WarnLayout, "atomic view exceeds even a fresh page; placing with overflow")
	}

	startY := cur.y
	cur.Advance(resolved.Padding.Top + resolved.BorderWidth.Top)
	childTop := cur.y
	snapshot := cur.Snapshot()
	placeChildren(ctx, node, cur, contentX, contentWidth, resolved, isRow)
	children := cur.Drain(snapshot)
	height := (cur.y - childTop) + resolved.Padding.Top + resolved.BorderWidth.Top + resolved.Padding.Bottom + resolved.BorderWidth.Bottom
	if hasExplicit && explicitHeight > height {
		height = explicitHeight
	}
	applyContainerAlignment(children, resolved, contentX, contentWidth, childTop, height)

	container := makeContainerElement(node, resolved, x, startY, width, height, children)
	cur.Push(container)
	cur.y = startY + height
}

// layoutBreakableView lays children directly into the shared cursor. When
// the block stays on a single page, it is wrapped as one container element
// (snapshot-and-collect); when children force a page break, each page the
// block touched gets its own styled Rect covering just that page's share of
// the content (§4.5 clone semantics), instead of one wrapping rectangle.
func layoutBreakableView(ctx *renderCtx, node *model.Node, cur *Cursor, x, width, contentX, contentWidth float64, resolved style.Resolved, isRow bool) {
	startY := cur.y
	startPage := cur.pageIndex
	cur.Advance(resolved.Padding.Top + resolved.BorderWidth.Top)
	childTop := cur.y
	snapshot := cur.Snapshot()

	placeChildren(ctx, node, cur, contentX, contentWidth, resolved, isRow)

	if cur.pageIndex == startPage {
		children := cur.Drain(snapshot)
		height := (cur.y - childTop) + resolved.Padding.Top + resolved.BorderWidth.Top + resolved.Padding.Bottom + resolved.BorderWidth.Bottom
		if explicitHeight, ok := explicitHeightOf(resolved); ok && explicitHeight > height {
			height = explicitHeight
		}
		applyContainerAlignment(children, resolved, contentX, contentWidth, childTop, height)
		container := makeContainerElement(node, resolved, x, startY, width, height, children)
		cur.Push(container)
		cur.y = startY + height
		return
	}

	wrapBrokenViewFragments(ctx, cur, node, resolved, x, width, startPage, snapshot)
	cur.Advance(resolved.Padding.Bottom + resolved.BorderWidth.Bottom)
}

// wrapBrokenViewFragments replaces the raw children a broken View left
// scattered across pages with one styled Rect per page-fragment, each
// covering only that fragment's own vertical extent. The block's top
// padding/border applies to the first fragment, bottom padding/border to
// the last; fragments in between carry no extra padding.
//
// Fixed header/footer elements are always replayed first on a fresh page
// (Cursor.NewPage), so a fragment's own elements start right after them.
func wrapBrokenViewFragments(ctx *renderCtx, cur *Cursor, node *model.Node, resolved style.Resolved, x, width float64, startPage, startElemIdx int) {
	if !hasVisibleBox(resolved) {
		return
	}
	fixedCount := 0
	for _, f := range cur.fixed {
		fixedCount += len(f.elements)
	}

	// This cursor's finished pages are the last cur.pageIndex entries.
	pages := *ctx.pages
	base := len(pages) - cur.pageIndex
	for p := startPage; p < cur.pageIndex; p++ {
		page := pages[base+p]
		from := fixedCount
		if p == startPage {
			from = startElemIdx
		}
		if from >= len(page.Elements) {
			continue
		}
		fragment := page.Elements[from:]
		page.Elements = append(page.Elements[:from:from], wrapFragment(node, resolved, x, width, fragment, p == startPage, false))
	}

	from := fixedCount
	if from < len(cur.elements) {
		fragment := cur.elements[from:]
		cur.elements = append(cur.elements[:from:from], wrapFragment(node, resolved, x, width, fragment, false, true))
	}
}

// wrapFragment builds the styled Rect container for one page-fragment of a
// broken View, sized to the fragment's own children.
func wrapFragment(node *model.Node, resolved style.Resolved, x, width float64, fragment []*LayoutElement, isFirst, isLast bool) *LayoutElement {
	top, bottom := fragment[0].Y, fragment[0].Y+fragment[0].Height
	for _, e := range fragment[1:] {
		if e.Y < top {
			top = e.Y
		}
		if e.Y+e.Height > bottom {
			bottom = e.Y + e.Height
		}
	}
	if isFirst {
		top -= resolved.Padding.Top + resolved.BorderWidth.Top
	}
	if isLast {
		bottom += resolved.Padding.Bottom + resolved.BorderWidth.Bottom
	}
	return makeContainerElement(node, resolved, x, top, width, bottom-top, fragment)
}

func explicitHeightOf(resolved style.Resolved) (float64, bool) {
	if resolved.Height.IsAuto() {
		return 0, false
	}
	return resolved.Height.Resolve(0, 0), true
}

// measureBlockHeight runs a throwaway layout pass to learn how tall node's
// children would be if given unlimited vertical space, without touching
// the real cursor or page list.
func measureBlockHeight(ctx *renderCtx, node *model.Node, contentX, contentWidth float64, resolved style.Resolved, isRow bool) float64 {
	var scratchPages []*LayoutPage
	scratchCtx := &renderCtx{registry: ctx.registry, warnings: new([]Warning), pages: &scratchPages}
	top := resolved.Padding.Top + resolved.BorderWidth.Top
	scratch := &Cursor{
		ctx:           scratchCtx,
		pageWidth:     1 << 30,
		pageHeight:    1 << 30,
		contentWidth:  contentWidth,
		contentTop:    top,
		contentBottom: 1 << 30,
		y:             top,
	}
	placeChildren(scratchCtx, node, scratch, contentX, contentWidth, resolved, isRow)
	return scratch.y + resolved.Padding.Bottom + resolved.BorderWidth.Bottom
}

// applyContainerAlignment implements the column-flow-with-fixed-height
// case of §4.5 View: justifyContent distributes unused vertical slack,
// alignItems aligns each child horizontally within the container.
func applyContainerAlignment(children []*LayoutElement, resolved style.Resolved, contentX, contentWidth, startY, height float64) {
	if len(children) == 0 {
		return
	}
	natural := maxYExtent(offsetElements(children, -startY))
	slack := height - natural
	if slack > 0.01 {
		offset := 0.0
		gap := 0.0
		switch resolved.JustifyContent {
		case model.JustifyEnd:
			offset = slack
		case model.JustifyCenter:
			offset = slack / 2
		case model.JustifySpaceBetween:
			if len(children) > 1 {
				gap = slack / float64(len(children)-1)
			}
		case model.JustifySpaceAround:
			gap = slack / float64(len(children))
			offset = gap / 2
		case model.JustifySpaceEvenly:
			gap = slack / float64(len(children)+1)
			offset = gap
		}
		cum := offset
		for _, c := range children {
			translateY(c, cum)
			cum += gap
		}
	}
	for _, c := range children {
		switch resolved.AlignItems {
		case model.AlignEnd:
			translateXAbsolute(c, contentX+contentWidth-c.Width)
		case model.AlignCenterC:
			translateXAbsolute(c, contentX+(contentWidth-c.Width)/2)
		}
	}
}

func offsetElements(elements []*LayoutElement, dy float64) []*LayoutElement {
	out := make([]*LayoutElement, len(elements))
	for i, e := range elements {
		clone := *e
		clone.Y += dy
		out[i] = &clone
	}
	return out
}

func translateY(e *LayoutElement, dy float64) {
	e.Y += dy
	for _, c := range e.Children {
		translateY(c, dy)
	}
}

func translateX(e *LayoutElement, dx float64) {
	e.X += dx
	for _, c := range e.Children {
		translateX(c, dx)
	}
}

func translateXAbsolute(e *LayoutElement, newX float64) {
	dx := newX - e.X
	translateX(e, dx)
}

// makeContainerElement builds the container LayoutElement for a View: a
// Rect draw command if it has visible background/border, otherwise a
// hit-testing-only None container (§3 DrawCommand).
func makeContainerElement(node *model.Node, resolved style.Resolved, x, y, width, height float64, children []*LayoutElement) *LayoutElement {
	kind := ElementNone
	var draw DrawCommand
	if hasVisibleBox(resolved) {
		kind = ElementRect
		draw = DrawCommand{
			Kind:        ElementRect,
			BorderWidth: resolved.BorderWidth,
			BorderColor: resolved.BorderColor,
			CornerRadii: resolved.BorderRadius,
		}
		if resolved.BackgroundColor.A > 0 {
			c := resolved.BackgroundColor
			draw.Fill = &c
		}
	}
	return &LayoutElement{
		X: x, Y: y, Width: width, Height: height,
		Kind:           kind,
		NodeType:       node.Kind,
		Style:          resolved,
		Draw:           draw,
		Children:       children,
		SourceLocation: node.SourceLocation,
		Href:           node.Href,
		Bookmark:       node.Bookmark,
	}
}

func hasVisibleBox(resolved style.Resolved) bool {
	if resolved.BackgroundColor.A > 0 {
		return true
	}
	w := resolved.BorderWidth
	return w.Top > 0 || w.Right > 0 || w.Bottom > 0 || w.Left > 0
}
