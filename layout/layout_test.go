package layout

import (
	"testing"

	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/model"
)

func dim(d model.Dimension) *model.Dimension { return &d }

func pageConfig(width, height, marginTop, marginRight, marginBottom, marginLeft float64) *model.PageConfig {
	return &model.PageConfig{
		Size: model.PageSize{Name: "Custom", Width: width, Height: height},
		Margin: model.Edges{
			Top: marginTop, Right: marginRight, Bottom: marginBottom, Left: marginLeft,
		},
		Wrap: true,
	}
}

func TestLayoutSingleShortText(t *testing.T) {
	doc := &model.Document{
		DefaultPage: model.DefaultPageConfig(),
		Children: []*model.Node{
			{Kind: model.KindPage, Page: pageConfig(595.28, 841.89, 54, 54, 54, 54), Children: []*model.Node{
				{Kind: model.KindText, Content: "Hello"},
			}},
		},
	}
	out, _, err := Layout(doc, fontreg.NewRegistry())
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	if len(out.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(out.Pages))
	}
	if len(out.Pages[0].Elements) != 1 {
		t.Fatalf("expected 1 top-level element, got %d", len(out.Pages[0].Elements))
	}
	el := out.Pages[0].Elements[0]
	if el.Kind != ElementText || len(el.Draw.Lines) != 1 {
		t.Fatalf("expected a single text line, got %+v", el)
	}
	if el.Draw.Lines[0].Fragments[0].Text != "Hello" {
		t.Fatalf("unexpected fragment text: %q", el.Draw.Lines[0].Fragments[0].Text)
	}
}

func TestLayoutExplicitPageBreak(t *testing.T) {
	doc := &model.Document{
		Children: []*model.Node{
			{Kind: model.KindPage, Page: pageConfig(595.28, 841.89, 54, 54, 54, 54), Children: []*model.Node{
				{Kind: model.KindText, Content: "Page 1"},
				{Kind: model.KindPageBreak},
				{Kind: model.KindText, Content: "Page 2"},
			}},
		},
	}
	out, _, err := Layout(doc, fontreg.NewRegistry())
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	if len(out.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(out.Pages))
	}
}

// TestLayoutWidowOrphanSplit reproduces §8 scenario 5: a paragraph of 6
// forced single-word lines, minWidowLines=minOrphanLines=2 (the default),
// on a page whose content band fits exactly 5 line heights. The split
// must land at 4/2, not 5/1.
func TestLayoutWidowOrphanSplit(t *testing.T) {
	lineHeight := 12.0 * 1.2 // default font size 12, default line height 1.2
	contentHeight := 5 * lineHeight
	pc := pageConfig(25, contentHeight, 0, 10, 0, 10) // contentWidth = 5pt, forces one word per line

	doc := &model.Document{
		Children: []*model.Node{
			{Kind: model.KindPage, Page: pc, Children: []*model.Node{
				{Kind: model.KindText, Content: "AAAA BBBB CCCC DDDD EEEE FFFF"},
			}},
		},
	}
	out, _, err := Layout(doc, fontreg.NewRegistry())
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	if len(out.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(out.Pages))
	}
	first := out.Pages[0].Elements[0].Draw.Lines
	second := out.Pages[1].Elements[0].Draw.Lines
	if len(first) != 4 {
		t.Fatalf("expected 4 lines on first page, got %d", len(first))
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 lines on second page (no widow), got %d", len(second))
	}

	var words []string
	for _, l := range first {
		for _, f := range l.Fragments {
			words = append(words, f.Text)
		}
	}
	for _, l := range second {
		for _, f := range l.Fragments {
			words = append(words, f.Text)
		}
	}
	want := []string{"AAAA", "BBBB", "CCCC", "DDDD", "EEEE", "FFFF"}
	if len(words) != len(want) {
		t.Fatalf("expected %d words preserved across the split, got %d: %v", len(want), len(words), words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("word order not preserved: got %v, want %v", words, want)
		}
	}
}

func TestLayoutTableHeaderRepeatsPerPage(t *testing.T) {
	columns := []model.ColumnWidth{{Kind: model.ColFraction, Value: 0.5}, {Kind: model.ColFraction, Value: 0.5}}
	header := &model.Node{Kind: model.KindTableRow, IsHeader: true, Children: []*model.Node{
		{Kind: model.KindTableCell, ColSpan: 1, Children: []*model.Node{{Kind: model.KindText, Content: "HEADER"}}},
		{Kind: model.KindTableCell, ColSpan: 1, Children: []*model.Node{{Kind: model.KindText, Content: "H2"}}},
	}}
	var rows []*model.Node
	rows = append(rows, header)
	for i := 0; i < 50; i++ {
		rows = append(rows, &model.Node{Kind: model.KindTableRow, Children: []*model.Node{
			{Kind: model.KindTableCell, ColSpan: 1, Children: []*model.Node{{Kind: model.KindText, Content: "cell"}}},
			{Kind: model.KindTableCell, ColSpan: 1, Children: []*model.Node{{Kind: model.KindText, Content: "cell"}}},
		}})
	}
	table := &model.Node{Kind: model.KindTable, Columns: columns, Children: rows}

	doc := &model.Document{
		Children: []*model.Node{
			{Kind: model.KindPage, Page: pageConfig(300, 200, 10, 10, 10, 10), Children: []*model.Node{table}},
		},
	}
	out, _, err := Layout(doc, fontreg.NewRegistry())
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	if len(out.Pages) < 2 {
		t.Fatalf("expected the table to span multiple pages, got %d", len(out.Pages))
	}
	headerCount := countTextOccurrences(flattenAllPages(out), "HEADER")
	if headerCount != len(out.Pages) {
		t.Fatalf("expected exactly %d header repetitions (one per page), got %d", len(out.Pages), headerCount)
	}
	cellCount := countTextOccurrences(flattenAllPages(out), "cell")
	if cellCount != 2*50 {
		t.Fatalf("expected both cells of all 50 data rows to survive pagination exactly once (100 cells), got %d", cellCount)
	}
}

func flattenAllPages(doc *LayoutDocument) []*LayoutElement {
	var all []*LayoutElement
	for _, p := range doc.Pages {
		all = append(all, p.Elements...)
	}
	return all
}

func countTextOccurrences(elements []*LayoutElement, text string) int {
	count := 0
	for _, e := range elements {
		if e.TextContent == text {
			count++
		}
		count += countTextOccurrences(e.Children, text)
	}
	return count
}

func TestLayoutFixedFooterReservesSpace(t *testing.T) {
	pc := pageConfig(300, 200, 10, 10, 10, 10)
	footer := &model.Node{
		Kind: model.KindFixed, Position: model.FixedFooter,
		Children: []*model.Node{{Kind: model.KindText, Content: "Footer"}},
	}
	var content []*model.Node
	content = append(content, footer)
	for i := 0; i < 30; i++ {
		content = append(content, &model.Node{Kind: model.KindText, Content: "line of body text here"})
	}

	doc := &model.Document{
		Children: []*model.Node{
			{Kind: model.KindPage, Page: pc, Children: content},
		},
	}
	out, _, err := Layout(doc, fontreg.NewRegistry())
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	footerHeight := 12.0 * 1.2
	limit := pc.Size.Height - pc.Margin.Bottom - footerHeight
	for pi, page := range out.Pages {
		for _, el := range page.Elements {
			if el.NodeType == model.KindText && el.Y+el.Height > limit+0.01 {
				t.Fatalf("page %d: body element extends into footer band: y=%v height=%v limit=%v", pi, el.Y, el.Height, limit)
			}
		}
	}
}

func TestLayoutFlexRowKeepsColumnsAlignedAcrossPages(t *testing.T) {
	row := &model.Node{
		Kind:  model.KindView,
		Style: &model.Style{FlexDirection: flexDirPtr(model.FlexRow)},
	}
	for c := 0; c < 2; c++ {
		var content []*model.Node
		for i := 0; i < 40; i++ {
			content = append(content, &model.Node{Kind: model.KindText, Content: "a line of column text"})
		}
		row.Children = append(row.Children, &model.Node{
			Kind:  model.KindView,
			Style: &model.Style{FlexGrow: floatPtr(1)},
			Children: content,
		})
	}

	doc := &model.Document{
		Children: []*model.Node{
			{Kind: model.KindPage, Page: pageConfig(400, 300, 20, 20, 20, 20), Children: []*model.Node{row}},
		},
	}
	out, _, err := Layout(doc, fontreg.NewRegistry())
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	if len(out.Pages) < 2 {
		t.Fatalf("expected the two long columns to span multiple pages, got %d", len(out.Pages))
	}
}

func flexDirPtr(v model.FlexDirection) *model.FlexDirection { return &v }
func floatPtr(v float64) *float64                            { return &v }

// TestLayoutBreakableViewClonesRectPerFragment reproduces §4.5 clone
// semantics: a wrapped View with a visible background that spans a page
// break must get one Rect per page-fragment, each covering only that
// fragment's own children, not a single bare list of flattened children.
func TestLayoutBreakableViewClonesRectPerFragment(t *testing.T) {
	var content []*model.Node
	for i := 0; i < 30; i++ {
		content = append(content, &model.Node{Kind: model.KindText, Content: "line of body text here"})
	}
	view := &model.Node{
		Kind:     model.KindView,
		Style:    &model.Style{BackgroundColor: &model.Color{R: 0.9, G: 0.9, B: 0.9, A: 1}},
		Children: content,
	}

	doc := &model.Document{
		Children: []*model.Node{
			{Kind: model.KindPage, Page: pageConfig(300, 200, 10, 10, 10, 10), Children: []*model.Node{view}},
		},
	}
	out, _, err := Layout(doc, fontreg.NewRegistry())
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	if len(out.Pages) < 2 {
		t.Fatalf("expected the view to span multiple pages, got %d", len(out.Pages))
	}
	for pi, page := range out.Pages {
		found := false
		for _, el := range page.Elements {
			if el.Kind == ElementRect && el.NodeType == model.KindView && len(el.Children) > 0 {
				found = true
			}
		}
		if !found {
			t.Fatalf("page %d: expected a styled Rect wrapping this page's fragment of the view, got %+v", pi, page.Elements)
		}
	}
}
