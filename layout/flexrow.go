package layout

import (
	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/pagebreak"
	"github.com/pageflow/pageflow/style"
)

// layoutFlexRowGroup implements §4.4 Flex wrap over §4.5's row layout:
// pack children into wrap lines (a single line when flexWrap is NoWrap),
// then lay each line out as an independent flex row stacked in the
// container's column direction.
func layoutFlexRowGroup(ctx *renderCtx, children []*model.Node, cur *Cursor, contentX, contentWidth float64, resolved style.Resolved) {
	if len(children) == 0 {
		return
	}
	childStyles := make([]style.Resolved, len(children))
	items := make([]pagebreak.FlexItem, len(children))
	for i, ch := range children {
		cs := style.Resolve(ch, resolved)
		childStyles[i] = cs
		items[i] = pagebreak.FlexItem{
			Basis:  flexBasisOf(cs, contentWidth),
			Grow:   cs.FlexGrow,
			Shrink: cs.FlexShrink,
		}
	}

	var lineRanges [][2]int
	if resolved.FlexWrap == model.FlexNoWrap {
		lineRanges = [][2]int{{0, len(children)}}
	} else {
		lineRanges = pagebreak.WrapLines(contentWidth, resolved.ColumnGap, items)
		if resolved.FlexWrap == model.FlexWrapReverse {
			lineRanges = pagebreak.ReverseLines(lineRanges)
		}
	}

	for _, r := range lineRanges {
		lineChildren := children[r[0]:r[1]]
		lineStyles := childStyles[r[0]:r[1]]
		lineItems := items[r[0]:r[1]]
		layoutFlexRowLine(ctx, lineChildren, lineStyles, lineItems, cur, contentX, contentWidth, resolved)
	}
}

// flexBasisOf derives a main-axis basis for the flex distribution of §4.4:
// an explicit flexBasis or width in points, resolved percentages, or 0
// (letting grow/shrink weights determine the share) when neither is set.
func flexBasisOf(cs style.Resolved, contentWidth float64) float64 {
	if !cs.FlexBasis.IsAuto() {
		return cs.FlexBasis.Resolve(contentWidth, 0)
	}
	if !cs.Width.IsAuto() {
		return cs.Width.Resolve(contentWidth, 0)
	}
	return 0
}

// layoutFlexRowLine lays one wrap-line of children out side by side,
// synchronizing page breaks across columns: each child is laid out into
// its own isolated cursor sharing the row's page geometry, producing a
// sequence of "virtual" pages; the shared cursor then replays one round of
// virtual pages per real page until every column is exhausted (§4.5 "When
// a flex row is breakable... flex proportions are re-computed against the
// actual page-constrained width for each fragment").
func layoutFlexRowLine(ctx *renderCtx, children []*model.Node, childStyles []style.Resolved, items []pagebreak.FlexItem, cur *Cursor, contentX, contentWidth float64, resolved style.Resolved) {
	widths := pagebreak.Distribute(contentWidth, items)

	columnX := make([]float64, len(children))
	cx := contentX
	for i := range children {
		columnX[i] = cx
		cx += widths[i] + resolved.ColumnGap
	}

	startY := cur.y
	runs := make([][]*LayoutPage, len(children))
	for i, ch := range children {
		runs[i] = layoutColumnStandalone(ctx, ch, cur, columnX[i], widths[i], resolved, startY)
	}

	maxRounds := 0
	for _, r := range runs {
		if len(r) > maxRounds {
			maxRounds = len(r)
		}
	}

	roundStartY := startY
	for round := 0; round < maxRounds; round++ {
		for _, r := range runs {
			if round < len(r) {
				for _, el := range r[round].Elements {
					cur.Push(el)
				}
			}
		}
		if round < maxRounds-1 {
			cur.y = cur.contentBottom
			cur.NewPage()
			roundStartY = cur.contentTop
		} else {
			maxH := 0.0
			for _, r := range runs {
				if round < len(r) {
					h := maxYExtent(r[round].Elements) - roundStartY
					if h > maxH {
						maxH = h
					}
				}
			}
			cur.y = roundStartY + maxH
		}
	}
}

// layoutColumnStandalone lays a single flex-row child out in complete
// isolation (its own page list) so that its internal pagination can later
// be replayed round-by-round against the row's shared page sequence,
// rather than fighting the other columns for a single shared cursor.
func layoutColumnStandalone(ctx *renderCtx, node *model.Node, cur *Cursor, x, width float64, parent style.Resolved, startY float64) []*LayoutPage {
	var localPages []*LayoutPage
	localCtx := &renderCtx{registry: ctx.registry, warnings: ctx.warnings, pages: &localPages}
	vc := &Cursor{
		ctx:           localCtx,
		pageWidth:     cur.pageWidth,
		pageHeight:    cur.pageHeight,
		marginX:       cur.marginX,
		marginTop:     cur.marginTop,
		marginBottom:  cur.marginBottom,
		contentWidth:  cur.contentWidth,
		contentTop:    cur.contentTop,
		contentBottom: cur.contentBottom,
		y:             startY,
	}
	layoutNode(localCtx, node, vc, x, width, parent)
	vc.Finish()
	return localPages
}
