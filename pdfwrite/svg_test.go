package pdfwrite

import "testing"

func TestParseSvgMarkupRect(t *testing.T) {
	shapes := parseSvgMarkup(`<svg><rect x="1" y="2" width="10" height="20" fill="red"/></svg>`)
	if len(shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(shapes))
	}
	if !shapes[0].fill || shapes[0].stroke {
		t.Fatalf("expected filled-only rect, got %+v", shapes[0])
	}
	if len(shapes[0].ops) != 1 || shapes[0].ops[0].op != "re" {
		t.Fatalf("expected a single re op, got %+v", shapes[0].ops)
	}
	want := []float64{1, 2, 10, 20}
	for i, v := range want {
		if shapes[0].ops[0].args[i] != v {
			t.Errorf("re arg %d: got %v want %v", i, shapes[0].ops[0].args[i], v)
		}
	}
}

func TestParseSvgMarkupCircleProducesFourBezierArcs(t *testing.T) {
	shapes := parseSvgMarkup(`<svg><circle cx="5" cy="5" r="5"/></svg>`)
	if len(shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(shapes))
	}
	ops := shapes[0].ops
	if len(ops) != 6 { // m + 4 c + h
		t.Fatalf("expected 6 ops (m, 4x c, h), got %d: %+v", len(ops), ops)
	}
	if ops[0].op != "m" || ops[len(ops)-1].op != "h" {
		t.Fatalf("expected moveto then closepath, got %+v", ops)
	}
	for _, op := range ops[1:5] {
		if op.op != "c" {
			t.Errorf("expected cubic curve ops, got %q", op.op)
		}
	}
}

func TestParsePathDataMLCQZ(t *testing.T) {
	ops := parsePathData("M0 0 L10 0 Q15 5 10 10 C10 15 0 15 0 10 Z")
	var kinds []string
	for _, op := range ops {
		kinds = append(kinds, op.op)
	}
	want := []string{"m", "l", "c", "c", "h"}
	if len(kinds) != len(want) {
		t.Fatalf("expected ops %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("op %d: got %q want %q (full: %v)", i, kinds[i], want[i], kinds)
		}
	}
}

func TestParseSvgMarkupPolygonClosesPath(t *testing.T) {
	shapes := parseSvgMarkup(`<svg><polygon points="0,0 10,0 5,10"/></svg>`)
	if len(shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(shapes))
	}
	ops := shapes[0].ops
	if len(ops) != 4 { // m + 2l + h
		t.Fatalf("expected 4 ops, got %d: %+v", len(ops), ops)
	}
	if ops[len(ops)-1].op != "h" {
		t.Fatalf("expected polygon to close its path, got %+v", ops)
	}
}

func TestParseSvgMarkupUnknownElementIgnored(t *testing.T) {
	shapes := parseSvgMarkup(`<svg><text>hi</text></svg>`)
	if len(shapes) != 0 {
		t.Fatalf("expected no shapes for unsupported elements, got %+v", shapes)
	}
}
