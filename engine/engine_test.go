package engine

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRenderSingleShortText(t *testing.T) {
	doc := []byte(`{
		"children": [
			{"type": "Text", "content": "Hello"}
		]
	}`)
	pdf, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected PDF magic bytes, got %q", pdf[:5])
	}
	if len(pdf) <= 100 || len(pdf) >= 100000 {
		t.Errorf("expected 100 < len < 100000, got %d", len(pdf))
	}
}

func TestRenderWithLayoutExplicitPageBreak(t *testing.T) {
	doc := []byte(`{
		"children": [
			{"type": "Text", "content": "Page 1"},
			{"type": "PageBreak"},
			{"type": "Text", "content": "Page 2"}
		]
	}`)
	res, err := RenderWithLayout(doc)
	if err != nil {
		t.Fatalf("RenderWithLayout: %v", err)
	}
	if len(res.Layout.Pages) != 2 {
		t.Fatalf("expected 2 layout pages, got %d", len(res.Layout.Pages))
	}
	if !bytes.Contains(res.PDF, []byte("/Count 2")) {
		t.Errorf("expected /Count 2 in the page tree, got:\n%s", res.PDF)
	}
}

func TestRenderRejectsMalformedJSON(t *testing.T) {
	_, err := Render([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected a ParseError")
	}
	re, ok := err.(*RenderError)
	if !ok {
		t.Fatalf("expected *RenderError, got %T", err)
	}
	if re.Kind != "ParseError" {
		t.Errorf("expected ParseError, got %s", re.Kind)
	}
}

func TestRenderRejectsUnknownNodeKind(t *testing.T) {
	_, err := Render([]byte(`{"children": [{"type": "NotARealKind"}]}`))
	if err == nil {
		t.Fatal("expected a ParseError for unknown node kind")
	}
}

func TestLayoutInfoIsJSONSerializable(t *testing.T) {
	doc := []byte(`{"children": [{"type": "Text", "content": "hi"}]}`)
	res, err := RenderWithLayout(doc)
	if err != nil {
		t.Fatalf("RenderWithLayout: %v", err)
	}
	b, err := json.Marshal(res.Layout)
	if err != nil {
		t.Fatalf("marshal LayoutInfo: %v", err)
	}
	var round DocumentInfo
	if err := json.Unmarshal(b, &round); err != nil {
		t.Fatalf("unmarshal LayoutInfo: %v", err)
	}
	if len(round.Pages) != len(res.Layout.Pages) {
		t.Errorf("round-trip page count mismatch: got %d want %d", len(round.Pages), len(res.Layout.Pages))
	}
}
