// Package style folds a Node's raw, all-optional Style with its parent's
// resolved style and the engine defaults into a Resolved record with every
// field populated (§4.2).
package style

import "github.com/pageflow/pageflow/model"

// Resolved is a style record with no optional fields — the product of
// cascading a Node's raw style through inheritance and defaults.
type Resolved struct {
	// Inherited
	Color          model.Color
	FontFamily     string
	FontSize       float64
	FontWeight     int
	FontStyle      model.FontStyle
	LineHeight     float64
	TextAlign      model.TextAlign
	LetterSpacing  float64
	TextDecoration model.TextDecoration
	TextTransform  model.TextTransform
	MinWidowLines  int
	MinOrphanLines int

	// Non-inherited: box model
	Width     model.Dimension
	Height    model.Dimension
	MinWidth  model.Dimension
	MaxWidth  model.Dimension
	MinHeight model.Dimension
	MaxHeight model.Dimension
	Padding   model.Edges
	Margin    model.Edges

	// Non-inherited: borders and background
	BorderWidth     model.Edges
	BorderColor     model.EdgeColors
	BorderRadius    model.Corners
	BackgroundColor model.Color

	// Non-inherited: flex
	FlexDirection  model.FlexDirection
	FlexWrap       model.FlexWrapMode
	FlexGrow       float64
	FlexShrink     float64
	FlexBasis      model.Dimension
	JustifyContent model.Justify
	AlignItems     model.Align
	AlignContent   model.Align
	RowGap         float64
	ColumnGap      float64

	// Non-inherited: positioning
	Position model.PositionType
	Top      *float64
	Right    *float64
	Bottom   *float64
	Left     *float64

	// Non-inherited: breakability
	Wrap bool
}

// Defaults returns the engine's root style, used when a node has no
// parent (§3 Defaults: Helvetica 12, weight 400, line height 1.2, black,
// widow/orphan minima 2).
func Defaults() Resolved {
	return Resolved{
		Color:          model.Black,
		FontFamily:     "Helvetica",
		FontSize:       12,
		FontWeight:     400,
		FontStyle:      model.FontStyleNormal,
		LineHeight:     1.2,
		TextAlign:      model.AlignLeft,
		LetterSpacing:  0,
		TextDecoration: model.DecorationNone,
		TextTransform:  model.TransformNone,
		MinWidowLines:  2,
		MinOrphanLines: 2,

		Width:           model.Auto(),
		Height:          model.Auto(),
		MinWidth:        model.Auto(),
		MaxWidth:        model.Auto(),
		MinHeight:       model.Auto(),
		MaxHeight:       model.Auto(),
		BackgroundColor: model.Transparent,
		FlexDirection:   model.FlexColumn,
		FlexWrap:        model.FlexNoWrap,
		FlexGrow:        0,
		FlexShrink:      1,
		FlexBasis:       model.Auto(),
		JustifyContent:  model.JustifyStart,
		AlignItems:      model.AlignStretch,
		AlignContent:    model.AlignStart,
		Position:        model.PositionRelative,
		Wrap:            true,
	}
}

// Resolve produces the ResolvedStyle for node given its parent's already
// resolved style (or Defaults() at the root). Resolution is pure: same
// inputs always yield the same result (§4.2 Contract), and re-resolving
// an already-resolved style is idempotent since Resolve only ever reads
// raw *model.Style overlays, never a Resolved value.
func Resolve(n *model.Node, parent Resolved) Resolved {
	r := parent
	// Non-inherited fields reset to engine defaults before the node's own
	// style is overlaid — they do not carry down from the parent.
	d := Defaults()
	r.Width = d.Width
	r.Height = d.Height
	r.MinWidth = d.MinWidth
	r.MaxWidth = d.MaxWidth
	r.MinHeight = d.MinHeight
	r.MaxHeight = d.MaxHeight
	r.Padding = model.Edges{}
	r.Margin = model.Edges{}
	r.BorderWidth = model.Edges{}
	r.BorderColor = model.EdgeColors{}
	r.BorderRadius = model.Corners{}
	r.BackgroundColor = d.BackgroundColor
	r.FlexDirection = d.FlexDirection
	r.FlexWrap = d.FlexWrap
	r.FlexGrow = d.FlexGrow
	r.FlexShrink = d.FlexShrink
	r.FlexBasis = d.FlexBasis
	r.JustifyContent = d.JustifyContent
	r.AlignItems = d.AlignItems
	r.AlignContent = d.AlignContent
	r.RowGap = 0
	r.ColumnGap = 0
	r.Position = d.Position
	r.Top, r.Right, r.Bottom, r.Left = nil, nil, nil, nil
	r.Wrap = d.Wrap

	s := n.Style
	if s == nil {
		return r
	}
	if s.Color != nil {
		r.Color = *s.Color
	}
	if s.FontFamily != nil {
		r.FontFamily = *s.FontFamily
	}
	if s.FontSize != nil {
		r.FontSize = *s.FontSize
	}
	if s.FontWeight != nil {
		r.FontWeight = *s.FontWeight
	}
	if s.FontStyle != nil {
		r.FontStyle = *s.FontStyle
	}
	if s.LineHeight != nil {
		r.LineHeight = *s.LineHeight
	}
	if s.TextAlign != nil {
		r.TextAlign = *s.TextAlign
	}
	if s.LetterSpacing != nil {
		r.LetterSpacing = *s.LetterSpacing
	}
	if s.TextDecoration != nil {
		r.TextDecoration = *s.TextDecoration
	}
	if s.TextTransform != nil {
		r.TextTransform = *s.TextTransform
	}
	if s.MinWidowLines != nil {
		r.MinWidowLines = clampMin1(*s.MinWidowLines)
	}
	if s.MinOrphanLines != nil {
		r.MinOrphanLines = clampMin1(*s.MinOrphanLines)
	}
	if s.Width != nil {
		r.Width = *s.Width
	}
	if s.Height != nil {
		r.Height = *s.Height
	}
	if s.MinWidth != nil {
		r.MinWidth = *s.MinWidth
	}
	if s.MaxWidth != nil {
		r.MaxWidth = *s.MaxWidth
	}
	if s.MinHeight != nil {
		r.MinHeight = *s.MinHeight
	}
	if s.MaxHeight != nil {
		r.MaxHeight = *s.MaxHeight
	}
	if s.Padding != nil {
		r.Padding = clampEdges(*s.Padding)
	}
	if s.Margin != nil {
		r.Margin = clampEdges(*s.Margin)
	}
	if s.BorderWidth != nil {
		r.BorderWidth = clampEdges(*s.BorderWidth)
	}
	if s.BorderColor != nil {
		r.BorderColor = *s.BorderColor
	}
	if s.BorderRadius != nil {
		r.BorderRadius = *s.BorderRadius
	}
	if s.BackgroundColor != nil {
		r.BackgroundColor = *s.BackgroundColor
	}
	if s.FlexDirection != nil {
		r.FlexDirection = *s.FlexDirection
	}
	if s.FlexWrap != nil {
		r.FlexWrap = *s.FlexWrap
	}
	if s.FlexGrow != nil {
		r.FlexGrow = *s.FlexGrow
	}
	if s.FlexShrink != nil {
		r.FlexShrink = *s.FlexShrink
	}
	if s.FlexBasis != nil {
		r.FlexBasis = *s.FlexBasis
	}
	if s.JustifyContent != nil {
		r.JustifyContent = *s.JustifyContent
	}
	if s.AlignItems != nil {
		r.AlignItems = *s.AlignItems
	}
	if s.AlignContent != nil {
		r.AlignContent = *s.AlignContent
	}
	if s.RowGap != nil {
		r.RowGap = *s.RowGap
	}
	if s.ColumnGap != nil {
		r.ColumnGap = *s.ColumnGap
	}
	if s.Position != nil {
		r.Position = *s.Position
	}
	if s.Top != nil {
		r.Top = s.Top
	}
	if s.Right != nil {
		r.Right = s.Right
	}
	if s.Bottom != nil {
		r.Bottom = s.Bottom
	}
	if s.Left != nil {
		r.Left = s.Left
	}
	if s.Wrap != nil {
		r.Wrap = *s.Wrap
	}
	return r
}

func clampMin1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// clampEdges enforces the §4.5 Failure semantics rule that degenerate
// (negative) edge values fall back to a defined value rather than
// propagating nonsense through layout.
func clampEdges(e model.Edges) model.Edges {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	return model.Edges{Top: clamp(e.Top), Right: clamp(e.Right), Bottom: clamp(e.Bottom), Left: clamp(e.Left)}
}
