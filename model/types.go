// Package model defines the document tree that the layout engine consumes:
// nodes, raw (all-optional) styles, and the small set of value types
// (Dimension, Edges, Corners, Color, ColumnWidth) shared across the style
// dictionary.
package model

// NodeKind discriminates the variants of Node.
type NodeKind string

const (
	KindPage      NodeKind = "Page"
	KindView      NodeKind = "View"
	KindText      NodeKind = "Text"
	KindImage     NodeKind = "Image"
	KindTable     NodeKind = "Table"
	KindTableRow  NodeKind = "TableRow"
	KindTableCell NodeKind = "TableCell"
	KindFixed     NodeKind = "Fixed"
	KindPageBreak NodeKind = "PageBreak"
	KindSvg       NodeKind = "Svg"
)

// FixedPosition is where a Fixed node repeats on every page.
type FixedPosition string

const (
	FixedHeader FixedPosition = "Header"
	FixedFooter FixedPosition = "Footer"
)

// SourceLocation is carried through only for external inspection tooling.
type SourceLocation struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// TextRun is one inline-styled fragment of a Text node's content.
type TextRun struct {
	Content string `json:"content"`
	Style   *Style `json:"style,omitempty"`
	Href    string `json:"href,omitempty"`
}

// ViewBox mirrors the four-number SVG viewBox attribute.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// Node is one element of the document tree. Only the fields relevant to
// Kind are populated; the rest are zero values. Children are ordered and
// the tree is read-only once built (§3 Ownership).
type Node struct {
	Kind     NodeKind
	Style    *Style
	Children []*Node

	Bookmark       string
	Href           string
	Alt            string
	SourceLocation *SourceLocation

	// Page
	Page *PageConfig

	// Text
	Content string
	Runs    []TextRun

	// Image
	Src    string
	Width  *Dimension
	Height *Dimension

	// Table
	Columns []ColumnWidth

	// TableRow
	IsHeader bool

	// TableCell
	ColSpan int
	RowSpan int

	// Fixed
	Position FixedPosition

	// Svg (Width/Height above double as the Svg's fixed box)
	ViewBox    *ViewBox
	SvgContent string
}

// FontSpec describes one font face supplied inline with the document.
type FontSpec struct {
	Family string
	Src    string // data URI or base64 payload, decoded by DecodeDataURI
	Weight int
	Italic bool
}

// Metadata is the optional document-info block.
type Metadata struct {
	Title   string
	Author  string
	Subject string
	Creator string
	Lang    string
}

// Document is the root of a parsed input tree.
type Document struct {
	Children    []*Node
	Metadata    Metadata
	DefaultPage PageConfig
	Fonts       []FontSpec
}
