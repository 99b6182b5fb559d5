package engine

import (
	"github.com/pageflow/pageflow/layout"
	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/style"
)

// ElementInfo is the JSON-serializable projection of a LayoutElement (§6
// Output: LayoutInfo) — the ground truth structure inspection tooling and
// hit-testing consume.
type ElementInfo struct {
	X              float64             `json:"x"`
	Y              float64             `json:"y"`
	Width          float64             `json:"width"`
	Height         float64             `json:"height"`
	Kind           layout.ElementKind  `json:"kind"`
	NodeType       model.NodeKind      `json:"nodeType"`
	Style          style.Resolved      `json:"style"`
	Children       []ElementInfo       `json:"children,omitempty"`
	SourceLocation *model.SourceLocation `json:"sourceLocation,omitempty"`
	TextContent    string              `json:"textContent,omitempty"`
}

// PageInfo is one page's projection.
type PageInfo struct {
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	ContentX      float64       `json:"contentX"`
	ContentY      float64       `json:"contentY"`
	ContentWidth  float64       `json:"contentWidth"`
	ContentHeight float64       `json:"contentHeight"`
	Elements      []ElementInfo `json:"elements"`
}

// DocumentInfo is the top-level LayoutInfo structure of §6.
type DocumentInfo struct {
	Pages []PageInfo `json:"pages"`
}

func buildLayoutInfo(doc *layout.LayoutDocument) DocumentInfo {
	pages := make([]PageInfo, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = PageInfo{
			Width: p.Width, Height: p.Height,
			ContentX: p.ContentX, ContentY: p.ContentY,
			ContentWidth: p.ContentWidth, ContentHeight: p.ContentHeight,
			Elements: elementInfos(p.Elements),
		}
	}
	return DocumentInfo{Pages: pages}
}

func elementInfos(elements []*layout.LayoutElement) []ElementInfo {
	out := make([]ElementInfo, len(elements))
	for i, e := range elements {
		out[i] = ElementInfo{
			X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
			Kind: e.Draw.Kind, NodeType: e.NodeType, Style: e.Style,
			Children:       elementInfos(e.Children),
			SourceLocation: e.SourceLocation,
			TextContent:    e.TextContent,
		}
	}
	return out
}
