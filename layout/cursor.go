package layout

import (
	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/style"
)

// fixedEntry is a Fixed node resolved and laid out once (§4.5 Fixed: its
// content is page-invariant), then translated onto each page's header or
// footer band as pages are created.
type fixedEntry struct {
	position model.FixedPosition
	height   float64
	elements []*LayoutElement // coordinates relative to the entry's own top-left
}

// renderCtx is the shared, read-only state threaded through a single
// render: the font registry (for measurement) and the warnings sink for
// degraded (non-fatal) input (§7 Policy).
type renderCtx struct {
	registry *fontreg.Registry
	warnings *[]Warning
	pages    *[]*LayoutPage
}

func (c *renderCtx) warn(kind WarningKind, msg string) {
	*c.warnings = append(*c.warnings, Warning{Kind: kind, Message: msg})
}

// Cursor is the transient fill-position tracker described in §3
// PageCursor. content_x/content_width are fixed for the lifetime of a page
// group (one PageConfig); content_top/content_bottom shrink to make room
// for Fixed header/footer reservations and are restored fresh on every
// new page.
type Cursor struct {
	ctx *renderCtx

	pageWidth, pageHeight            float64
	marginX, marginTop, marginBottom float64
	contentWidth                     float64

	contentTop    float64 // top of content area on the current page, after header reservation
	contentBottom float64 // bottom of content area on the current page, before footer reservation
	y             float64 // current fill position, absolute page coordinates

	elements []*LayoutElement
	fixed    []fixedEntry

	pageIndex int
}

// newCursor starts the first page of a page group with the given
// PageConfig; margin_x is the (equal) left/right margin used as the
// content band's x-origin and width.
func newCursor(ctx *renderCtx, pc model.PageConfig) *Cursor {
	c := &Cursor{
		ctx:           ctx,
		pageWidth:     pc.Size.Width,
		pageHeight:    pc.Size.Height,
		marginX:       pc.Margin.Left,
		marginTop:     pc.Margin.Top,
		marginBottom:  pc.Margin.Bottom,
		contentWidth:  pc.Size.Width - pc.Margin.Left - pc.Margin.Right,
	}
	if c.contentWidth < minSize {
		c.contentWidth = minSize
	}
	c.contentTop = pc.Margin.Top
	c.contentBottom = pc.Size.Height - pc.Margin.Bottom
	c.y = c.contentTop
	return c
}

// ContentX is the fixed left edge of the content band.
func (c *Cursor) ContentX() float64 { return c.marginX }

// ContentWidth is the fixed width of the content band.
func (c *Cursor) ContentWidth() float64 { return c.contentWidth }

// Y is the current fill position.
func (c *Cursor) Y() float64 { return c.y }

// Advance moves the fill position down by dy.
func (c *Cursor) Advance(dy float64) { c.y += dy }

// RemainingHeight is the vertical space left before the content area's
// bottom edge on the current page.
func (c *Cursor) RemainingHeight() float64 { return c.contentBottom - c.y }

// FreshPageHeight is the content height available on a brand-new page of
// this group (used by the break decider to test whole-block moves).
func (c *Cursor) FreshPageHeight() float64 {
	h := c.pageHeight - c.marginTop - c.marginBottom
	for _, f := range c.fixed {
		h -= f.height
	}
	return h
}

// Push appends a completed LayoutElement as a top-level element of the
// current page.
func (c *Cursor) Push(el *LayoutElement) { c.elements = append(c.elements, el) }

// Snapshot returns the current element count, for the snapshot-and-collect
// pattern described in §4.5/§9: children append to Elements, then the
// caller drains Elements[snapshot:] as the just-placed container's
// children.
func (c *Cursor) Snapshot() int { return len(c.elements) }

// Drain removes and returns the elements appended since snapshot.
func (c *Cursor) Drain(snapshot int) []*LayoutElement {
	drained := append([]*LayoutElement(nil), c.elements[snapshot:]...)
	c.elements = c.elements[:snapshot]
	return drained
}

// registerFixed resolves and lays out node once, records it as a header or
// footer reservation, and immediately reserves its height on the current
// page (§4.5 Fixed).
func registerFixed(ctx *renderCtx, node *model.Node, parent style.Resolved, c *Cursor) {
	resolved := style.Resolve(node, parent)
	scratch := &Cursor{
		ctx:           ctx,
		pageWidth:     c.pageWidth,
		pageHeight:    c.pageHeight,
		marginX:       c.marginX,
		contentWidth:  c.contentWidth,
		contentTop:    0,
		contentBottom: c.pageHeight, // effectively unbounded for a dry measurement
		y:             0,
	}
	layoutChildren(ctx, node.Children, scratch, 0, c.contentWidth, resolved)
	height := scratch.y
	elements := []*LayoutElement{makeContainerElement(node, resolved, 0, 0, c.contentWidth, height, scratch.elements)}

	entry := fixedEntry{position: node.Position, height: height, elements: elements}
	c.fixed = append(c.fixed, entry)
	applyFixedReservation(c, entry)
}

func applyFixedReservation(c *Cursor, entry fixedEntry) {
	if entry.position == model.FixedFooter {
		c.contentBottom -= entry.height
		c.pushFixedElements(entry, entry.height, c.contentBottom)
	} else {
		c.pushFixedElements(entry, entry.height, c.contentTop)
		c.contentTop += entry.height
		if c.y < c.contentTop {
			c.y = c.contentTop
		}
	}
}

func (c *Cursor) pushFixedElements(entry fixedEntry, height, top float64) {
	for _, el := range cloneElementsTranslated(entry.elements, c.marginX, top) {
		c.Push(el)
	}
}

// cloneElementsTranslated deep-copies a laid-out element tree, shifting
// every rectangle by (dx, dy). Used for Fixed replay and for placing
// absolutely positioned subtrees (layoutAbsolute).
func cloneElementsTranslated(elements []*LayoutElement, dx, dy float64) []*LayoutElement {
	out := make([]*LayoutElement, len(elements))
	for i, e := range elements {
		clone := *e
		clone.X += dx
		clone.Y += dy
		if len(e.Draw.Lines) > 0 {
			clone.Draw.Lines = append([]TextLine(nil), e.Draw.Lines...)
		}
		clone.Children = cloneElementsTranslated(e.Children, dx, dy)
		out[i] = &clone
	}
	return out
}

// NewPage finalizes the current page into ctx.pages, then resets the
// cursor to a fresh page of the same size/margins, replaying the fixed
// list at its new absolute position (§4.5 Fixed, §3 new_page()).
func (c *Cursor) NewPage() {
	c.finalize()
	c.elements = nil
	c.contentTop = c.marginTop
	c.contentBottom = c.pageHeight - c.marginBottom
	fixed := c.fixed
	c.fixed = nil
	for _, entry := range fixed {
		c.fixed = append(c.fixed, entry)
		applyFixedReservation(c, entry)
	}
	c.y = c.contentTop
	c.pageIndex++
}

// finalize converts the cursor's current page into a LayoutPage and
// appends it to the shared page list.
func (c *Cursor) finalize() {
	page := &LayoutPage{
		Width:         c.pageWidth,
		Height:        c.pageHeight,
		ContentX:      c.marginX,
		ContentY:      c.marginTop,
		ContentWidth:  c.contentWidth,
		ContentHeight: c.pageHeight - c.marginTop - c.marginBottom,
		Elements:      c.elements,
	}
	*c.ctx.pages = append(*c.ctx.pages, page)
}

// Finish finalizes the last in-progress page. Called once after a page
// group's content has been fully laid out.
func (c *Cursor) Finish() { c.finalize() }

const minSize = 0.001
