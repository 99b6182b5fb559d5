package layout

import (
	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/style"
)

// layoutTable implements §4.5 Table: column widths are resolved once and
// reused across every page the table spans; header rows are re-emitted at
// the top of the content area on every continuation page; a row whose
// tallest cell overflows a full fresh page gets a per-cell cloned-cursor
// pass so its content splits rather than being clipped (§9 Cloning for
// table cell overflow).
func layoutTable(ctx *renderCtx, node *model.Node, cur *Cursor, x, availableWidth float64, parent style.Resolved) {
	resolved := style.Resolve(node, parent)
	width := resolved.Width.Resolve(availableWidth, availableWidth)
	if width < minSize {
		width = minSize
	}
	widths := resolveColumnWidths(node.Columns, width)

	var headerRows, bodyRows []*model.Node
	for _, r := range node.Children {
		if r.Kind != model.KindTableRow {
			continue
		}
		if r.IsHeader {
			headerRows = append(headerRows, r)
		} else {
			bodyRows = append(bodyRows, r)
		}
	}

	startY := cur.y
	startPage := cur.pageIndex
	snapshot := cur.Snapshot()

	placeRows(ctx, headerRows, cur, x, widths, resolved, headerRows)
	for _, row := range bodyRows {
		rh := measureRowHeight(ctx, row, x, widths, resolved)
		if rh > cur.RemainingHeight() && rh <= cur.FreshPageHeight() {
			cur.NewPage()
			placeRows(ctx, headerRows, cur, x, widths, resolved, headerRows)
		}
		placeRow(ctx, row, cur, x, widths, resolved, headerRows)
	}

	if cur.pageIndex != startPage {
		// The table spans pages: rows already landed as top-level elements
		// on their respective pages via placeRow; no single wrapper exists.
		return
	}
	children := cur.Drain(snapshot)
	height := cur.y - startY
	container := makeContainerElement(node, resolved, x, startY, width, height, children)
	cur.Push(container)
}

func placeRows(ctx *renderCtx, rows []*model.Node, cur *Cursor, x float64, widths []float64, tableStyle style.Resolved, headerRows []*model.Node) {
	for _, r := range rows {
		placeRow(ctx, r, cur, x, widths, tableStyle, headerRows)
	}
}

// resolveColumnWidths implements §4.4 Table column width resolution:
// Fixed columns take their literal points, Fraction columns take a
// fraction of the table's total width, and Auto columns split whatever is
// left equally.
func resolveColumnWidths(columns []model.ColumnWidth, totalWidth float64) []float64 {
	widths := make([]float64, len(columns))
	if len(columns) == 0 {
		return widths
	}
	fixedSum, fractionSum := 0.0, 0.0
	var autoIdx []int
	for i, c := range columns {
		switch c.Kind {
		case model.ColFixed:
			widths[i] = c.Value
			fixedSum += c.Value
		case model.ColFraction:
			w := c.Value * totalWidth
			widths[i] = w
			fractionSum += w
		default:
			autoIdx = append(autoIdx, i)
		}
	}
	remainder := totalWidth - fixedSum - fractionSum
	if remainder < 0 {
		remainder = 0
	}
	if len(autoIdx) > 0 {
		share := remainder / float64(len(autoIdx))
		for _, i := range autoIdx {
			widths[i] = share
		}
	}
	for i := range widths {
		if widths[i] < minSize {
			widths[i] = minSize
		}
	}
	return widths
}

func cellSpanWidth(cell *model.Node, col int, widths []float64) (float64, int) {
	span := cell.ColSpan
	if span < 1 {
		span = 1
	}
	w := 0.0
	for s := 0; s < span && col+s < len(widths); s++ {
		w += widths[col+s]
	}
	return w, span
}

// measureRowHeight is a dry-run measurement of a row's tallest cell,
// reused to decide whether the row fits in the remaining page space
// before it is placed for real.
func measureRowHeight(ctx *renderCtx, row *model.Node, x float64, widths []float64, tableStyle style.Resolved) float64 {
	maxH := 0.0
	cx := x
	col := 0
	for _, cell := range row.Children {
		w, span := cellSpanWidth(cell, col, widths)
		cs := style.Resolve(cell, tableStyle)
		contentW := w - cs.Padding.Left - cs.Padding.Right - cs.BorderWidth.Left - cs.BorderWidth.Right
		if contentW < minSize {
			contentW = minSize
		}
		h := measureBlockHeight(ctx, cell, cx, contentW, cs, false)
		if h > maxH {
			maxH = h
		}
		cx += w
		col += span
	}
	return maxH
}

// placeRow lays a row's cells out with a synchronized round-by-round
// replay identical in shape to layoutFlexRowLine: each cell gets an
// isolated cursor (its "clone"), and any additional pages a cell's
// content needed are replayed onto the shared page sequence, re-emitting
// header rows at the top of each continuation page (§4.5 Table step 2).
func placeRow(ctx *renderCtx, row *model.Node, cur *Cursor, x float64, widths []float64, tableStyle style.Resolved, headerRows []*model.Node) {
	rowStyle := style.Resolve(row, tableStyle)
	cells := row.Children
	cellX := make([]float64, len(cells))
	cellW := make([]float64, len(cells))
	cx := x
	col := 0
	for i, cell := range cells {
		w, span := cellSpanWidth(cell, col, widths)
		cellX[i] = cx
		cellW[i] = w
		cx += w
		col += span
	}

	rowStartY := cur.y
	runs := make([][]*LayoutPage, len(cells))
	for i, cell := range cells {
		runs[i] = layoutColumnStandalone(ctx, cell, cur, cellX[i], cellW[i], tableStyle, rowStartY)
	}
	maxRounds := 0
	for _, r := range runs {
		if len(r) > maxRounds {
			maxRounds = len(r)
		}
	}
	if maxRounds == 0 {
		return
	}

	tableWidth := 0.0
	for _, w := range widths {
		tableWidth += w
	}

	for round := 0; round < maxRounds; round++ {
		snapshot := cur.Snapshot()
		for i, r := range runs {
			if round >= len(r) {
				continue
			}
			cellChildren := r[round].Elements
			cellHeight := maxYExtent(cellChildren) - rowStartY
			cellEl := &LayoutElement{
				X: cellX[i], Y: rowStartY, Width: cellW[i], Height: cellHeight,
				Kind: ElementNone, NodeType: model.KindTableCell,
				Style: style.Resolve(cells[i], tableStyle), Children: cellChildren,
			}
			cur.Push(cellEl)
		}
		rowChildren := cur.Drain(snapshot)
		rowHeight := maxYExtent(rowChildren) - rowStartY
		rowEl := &LayoutElement{
			X: x, Y: rowStartY, Width: tableWidth, Height: rowHeight,
			Kind: ElementNone, NodeType: model.KindTableRow, Style: rowStyle, Children: rowChildren,
		}
		cur.Push(rowEl)

		if round < maxRounds-1 {
			cur.y = cur.contentBottom
			cur.NewPage()
			placeRows(ctx, headerRows, cur, x, widths, tableStyle, headerRows)
			rowStartY = cur.contentTop
		} else {
			maxH := 0.0
			for _, r := range runs {
				if round < len(r) {
					h := maxYExtent(r[round].Elements) - rowStartY
					if h > maxH {
						maxH = h
					}
				}
			}
			cur.y = rowStartY + maxH
		}
	}
}
