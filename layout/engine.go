package layout

import (
	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/style"
)

// Layout runs the depth-first walker of §4.5 over doc and returns the
// flattened, paginated LayoutDocument. Top-level children that are Page
// nodes each start a fresh page group under their own PageConfig; a run of
// non-Page top-level children is grouped under doc.DefaultPage (the input
// schema of §4.1 does not require every document to wrap its content in an
// explicit Page).
func Layout(doc *model.Document, registry *fontreg.Registry) (*LayoutDocument, []Warning, error) {
	var pages []*LayoutPage
	var warnings []Warning
	ctx := &renderCtx{registry: registry, warnings: &warnings, pages: &pages}

	i := 0
	for i < len(doc.Children) {
		child := doc.Children[i]
		if child.Kind == model.KindPage {
			pc := child.Page
			if pc == nil {
				def := model.DefaultPageConfig()
				pc = &def
			}
			layoutPageGroup(ctx, *pc, child.Children)
			i++
			continue
		}
		// Gather a maximal run of non-Page siblings into one implicit page
		// group under the document's default page configuration.
		j := i
		for j < len(doc.Children) && doc.Children[j].Kind != model.KindPage {
			j++
		}
		layoutPageGroup(ctx, doc.DefaultPage, doc.Children[i:j])
		i = j
	}

	return &LayoutDocument{Pages: pages, Warnings: warnings}, warnings, nil
}

func layoutPageGroup(ctx *renderCtx, pc model.PageConfig, children []*model.Node) {
	cur := newCursor(ctx, pc)
	root := style.Defaults()
	layoutChildren(ctx, children, cur, cur.ContentX(), cur.ContentWidth(), root)
	cur.Finish()
}

// layoutChildren lays a sequence of sibling nodes out in column flow,
// pulling Fixed and PageBreak nodes out of the normal flow and routing
// absolutely-positioned children to layoutAbsolute (§4.5 View, Absolute
// positioning).
func layoutChildren(ctx *renderCtx, children []*model.Node, cur *Cursor, x, availableWidth float64, parent style.Resolved) {
	anchorX, anchorY := x, cur.y
	for _, child := range children {
		switch child.Kind {
		case model.KindFixed:
			registerFixed(ctx, child, parent, cur)
			continue
		case model.KindPageBreak:
			cur.NewPage()
			anchorY = cur.y
			continue
		}
		childStyle := style.Resolve(child, parent)
		if childStyle.Position == model.PositionAbsolute {
			layoutAbsolute(ctx, child, cur, anchorX, anchorY, availableWidth, parent)
			continue
		}
		layoutNode(ctx, child, cur, x, availableWidth, parent)
	}
}

// layoutNode dispatches to the per-kind layout function (§4.5).
func layoutNode(ctx *renderCtx, node *model.Node, cur *Cursor, x, availableWidth float64, parent style.Resolved) {
	switch node.Kind {
	case model.KindView:
		layoutView(ctx, node, cur, x, availableWidth, parent)
	case model.KindText:
		layoutText(ctx, node, cur, x, availableWidth, parent)
	case model.KindImage:
		layoutImage(ctx, node, cur, x, availableWidth, parent)
	case model.KindTable:
		layoutTable(ctx, node, cur, x, availableWidth, parent)
	case model.KindSvg:
		layoutSvg(ctx, node, cur, x, availableWidth, parent)
	case model.KindTableRow, model.KindTableCell:
		// A row/cell encountered outside a Table lays out its children in
		// plain column flow rather than being silently dropped.
		resolved := style.Resolve(node, parent)
		layoutChildren(ctx, node.Children, cur, x, availableWidth, resolved)
	}
}

// layoutAbsolute lays node out independently of the flow and positions it
// relative to (anchorX, anchorY) — the padding edge of the nearest
// positioned ancestor, cached by the caller at entry to layoutChildren
// (§4.5 Absolute positioning).
func layoutAbsolute(ctx *renderCtx, node *model.Node, cur *Cursor, anchorX, anchorY, availableWidth float64, parent style.Resolved) {
	resolved := style.Resolve(node, parent)
	var scratchPages []*LayoutPage
	scratchCtx := &renderCtx{registry: ctx.registry, warnings: ctx.warnings, pages: &scratchPages}
	scratch := &Cursor{
		ctx:           scratchCtx,
		pageWidth:     cur.pageWidth,
		pageHeight:    cur.pageHeight,
		contentWidth:  availableWidth,
		contentTop:    0,
		contentBottom: cur.pageHeight,
	}
	layoutNode(scratchCtx, node, scratch, 0, availableWidth, parent)
	scratch.Finish()
	if len(scratchPages) == 0 {
		return
	}
	elements := scratchPages[0].Elements
	w, _ := boundingExtent(elements)

	dx := anchorX
	if resolved.Left != nil {
		dx = anchorX + *resolved.Left
	} else if resolved.Right != nil {
		dx = anchorX + availableWidth - *resolved.Right - w
	}
	dy := anchorY
	if resolved.Top != nil {
		dy = anchorY + *resolved.Top
	} else if resolved.Bottom != nil {
		dy = anchorY + *resolved.Bottom
	}
	for _, el := range cloneElementsTranslated(elements, dx, dy) {
		cur.Push(el)
	}
}

// boundingExtent returns the width/height of the smallest box containing
// every top-level element's rectangle (each starting at its own X/Y).
func boundingExtent(elements []*LayoutElement) (w, h float64) {
	for _, e := range elements {
		if e.X+e.Width > w {
			w = e.X + e.Width
		}
		if e.Y+e.Height > h {
			h = e.Y + e.Height
		}
	}
	return
}

// maxYExtent returns the largest y+height among a set of top-level
// elements, used to measure how much vertical space a layout pass
// consumed (§4.5 contract: "advances cursor.y by total main-axis size
// consumed").
func maxYExtent(elements []*LayoutElement) float64 {
	max := 0.0
	for _, e := range elements {
		if e.Y+e.Height > max {
			max = e.Y + e.Height
		}
	}
	return max
}
