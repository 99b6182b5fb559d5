package style

import (
	"testing"

	"github.com/pageflow/pageflow/model"
)

func TestResolveDefaultsAtRoot(t *testing.T) {
	n := &model.Node{Kind: model.KindView}
	r := Resolve(n, Defaults())
	if r.FontFamily != "Helvetica" || r.FontSize != 12 || r.LineHeight != 1.2 {
		t.Fatalf("unexpected defaults: %+v", r)
	}
	if r.MinWidowLines != 2 || r.MinOrphanLines != 2 {
		t.Fatalf("expected widow/orphan minima of 2, got %d/%d", r.MinWidowLines, r.MinOrphanLines)
	}
}

func TestResolveInheritsFontButNotWidth(t *testing.T) {
	size := 20.0
	parentStyle := &model.Style{FontSize: &size, Width: ptrDim(model.Pt(300))}
	parent := Resolve(&model.Node{Kind: model.KindView, Style: parentStyle}, Defaults())

	child := Resolve(&model.Node{Kind: model.KindView}, parent)
	if child.FontSize != 20 {
		t.Fatalf("expected inherited font size 20, got %v", child.FontSize)
	}
	if !child.Width.IsAuto() {
		t.Fatalf("expected width to reset to Auto for a fresh node, got %+v", child.Width)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	n := &model.Node{Kind: model.KindView}
	first := Resolve(n, Defaults())
	// Re-resolving a node whose own style is empty against its own
	// resolved parent should reproduce the same inherited values.
	second := Resolve(n, first)
	if first.FontFamily != second.FontFamily || first.FontSize != second.FontSize {
		t.Fatalf("resolution not stable across a second pass: %+v vs %+v", first, second)
	}
}

func TestResolveClampsNegativeEdges(t *testing.T) {
	n := &model.Node{Kind: model.KindView, Style: &model.Style{Margin: &model.Edges{Top: -5, Left: 3}}}
	r := Resolve(n, Defaults())
	if r.Margin.Top != 0 {
		t.Fatalf("expected negative margin clamped to 0, got %v", r.Margin.Top)
	}
	if r.Margin.Left != 3 {
		t.Fatalf("expected margin left preserved, got %v", r.Margin.Left)
	}
}

func ptrDim(d model.Dimension) *model.Dimension { return &d }
