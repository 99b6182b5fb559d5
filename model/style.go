package model

// Style is the raw, per-node style dictionary: every field optional. The
// style resolver (package style) folds these with the parent's resolved
// style and the engine defaults into a ResolvedStyle with no optional
// fields (§4.2). Shorthand expansion (e.g. a single "padding" CSS
// shorthand into four edges) happens upstream, in the JSX serializer that
// produced the input JSON; by the time a Style reaches this engine every
// field here is already fully expanded.
type Style struct {
	// Inherited
	Color          *Color
	FontFamily     *string
	FontSize       *float64
	FontWeight     *int
	FontStyle      *FontStyle
	LineHeight     *float64
	TextAlign      *TextAlign
	LetterSpacing  *float64
	TextDecoration *TextDecoration
	TextTransform  *TextTransform
	MinWidowLines  *int
	MinOrphanLines *int

	// Non-inherited: box model
	Width     *Dimension
	Height    *Dimension
	MinWidth  *Dimension
	MaxWidth  *Dimension
	MinHeight *Dimension
	MaxHeight *Dimension
	Padding   *Edges
	Margin    *Edges

	// Non-inherited: borders and background
	BorderWidth     *Edges
	BorderColor     *EdgeColors
	BorderRadius    *Corners
	BackgroundColor *Color

	// Non-inherited: flex container/item
	FlexDirection  *FlexDirection
	FlexWrap       *FlexWrapMode
	FlexGrow       *float64
	FlexShrink     *float64
	FlexBasis      *Dimension
	JustifyContent *Justify
	AlignItems     *Align
	AlignContent   *Align
	RowGap         *float64
	ColumnGap      *float64

	// Non-inherited: positioning
	Position *PositionType
	Top      *float64
	Right    *float64
	Bottom   *float64
	Left     *float64

	// Non-inherited: breakability (View only)
	Wrap *bool
}
