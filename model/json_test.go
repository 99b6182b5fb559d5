package model

import "testing"

func TestParseDocumentSimpleText(t *testing.T) {
	src := `{
		"children": [
			{"type": "Page", "page": {"size": "A4"}, "children": [
				{"type": "Text", "content": "Hello"}
			]}
		]
	}`
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Children) != 1 {
		t.Fatalf("expected 1 top-level page, got %d", len(doc.Children))
	}
	page := doc.Children[0]
	if page.Kind != KindPage {
		t.Fatalf("expected KindPage, got %s", page.Kind)
	}
	if page.Page.Size.Name != "A4" {
		t.Fatalf("expected A4, got %s", page.Page.Size.Name)
	}
	if len(page.Children) != 1 || page.Children[0].Kind != KindText {
		t.Fatalf("expected single Text child")
	}
	if page.Children[0].Content != "Hello" {
		t.Fatalf("expected content Hello, got %q", page.Children[0].Content)
	}
}

func TestParseDocumentUnknownKind(t *testing.T) {
	src := `{"children": [{"type": "Bogus"}]}`
	_, err := ParseDocument([]byte(src))
	if err == nil {
		t.Fatalf("expected ParseError for unknown kind")
	}
	var pe *ParseError
	if perr, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	} else {
		pe = perr
	}
	if pe.Reason == "" {
		t.Fatalf("expected non-empty reason")
	}
}

func TestParseDimensionVariants(t *testing.T) {
	src := `{"children": [{"type": "Page", "children": [
		{"type": "View", "style": {"width": {"Pt": 100}}},
		{"type": "View", "style": {"width": {"Percent": 50}}},
		{"type": "View", "style": {"width": "Auto"}}
	]}]}`
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	views := doc.Children[0].Children
	if views[0].Style.Width.Kind != DimPt || views[0].Style.Width.Value != 100 {
		t.Fatalf("expected Pt(100), got %+v", views[0].Style.Width)
	}
	if views[1].Style.Width.Kind != DimPercent || views[1].Style.Width.Value != 50 {
		t.Fatalf("expected Percent(50), got %+v", views[1].Style.Width)
	}
	if views[2].Style.Width.Kind != DimAuto {
		t.Fatalf("expected Auto, got %+v", views[2].Style.Width)
	}
}

func TestDecodeDataURI(t *testing.T) {
	data, mime, err := DecodeDataURI("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected hello, got %q", data)
	}
	if mime != "image/png" {
		t.Fatalf("expected image/png, got %q", mime)
	}
}
