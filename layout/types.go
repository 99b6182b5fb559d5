// Package layout implements the depth-first page-native layout walker of
// §4.5: it consumes a parsed document tree and produces a LayoutDocument —
// pages of flattened, positioned LayoutElements — using each page's
// remaining vertical space as a hard placement constraint.
package layout

import (
	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/style"
)

// ElementKind is a LayoutElement's draw discriminant.
type ElementKind string

const (
	ElementNone  ElementKind = "None"
	ElementRect  ElementKind = "Rect"
	ElementText  ElementKind = "Text"
	ElementImage ElementKind = "Image"
	ElementSvg   ElementKind = "Svg"
)

// TextFragment is one styled run's contribution to a TextLine.
type TextFragment struct {
	Text        string
	X           float64
	Width       float64
	Style       style.Resolved
	Face        fontreg.Face
	Href        string
	Placeholder string
}

// TextLine is one line of a Text DrawCommand, positioned relative to the
// owning LayoutElement's top-left corner.
type TextLine struct {
	Y         float64 // top of the line box, relative to element top
	Baseline  float64 // baseline, relative to element top
	Height    float64
	Fragments []TextFragment
}

// DrawCommand carries the paint instructions for a LayoutElement. Only the
// fields relevant to Kind are populated (§3 DrawCommand).
type DrawCommand struct {
	Kind ElementKind

	// Rect
	Fill        *model.Color
	BorderWidth model.Edges
	BorderColor model.EdgeColors
	CornerRadii model.Corners

	// Text
	Lines []TextLine

	// Image
	ImageData        []byte
	ImageContentType string
	ImagePlaceholder bool

	// Svg
	SvgMarkup string
	ViewBox   *model.ViewBox
}

// LayoutElement is one flattened, positioned entry in a page's content
// tree, in absolute page coordinates (y-down from the page's top-left).
type LayoutElement struct {
	X, Y, Width, Height float64
	Kind                ElementKind
	NodeType            model.NodeKind
	Style               style.Resolved
	Draw                DrawCommand
	Children            []*LayoutElement

	SourceLocation *model.SourceLocation
	TextContent    string
	Href           string
	Bookmark       string
}

// LayoutPage is one page of the output: its box, content box (inside
// margins), and top-level LayoutElements.
type LayoutPage struct {
	Width, Height               float64
	ContentX, ContentY          float64
	ContentWidth, ContentHeight float64
	Elements                    []*LayoutElement
}

// LayoutDocument is the full result of Layout: every page plus any
// warnings recorded for degraded (but non-fatal) input (§7).
type LayoutDocument struct {
	Pages    []*LayoutPage
	Warnings []Warning
}

// WarningKind matches the non-fatal error kinds of §7.
type WarningKind string

const (
	WarnImage  WarningKind = "ImageError"
	WarnLayout WarningKind = "LayoutWarning"
)

// Warning is a recorded, non-fatal degradation (§7 Policy).
type Warning struct {
	Kind    WarningKind
	Message string
}
