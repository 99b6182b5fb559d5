package model

// DimensionKind discriminates Dimension's three shapes.
type DimensionKind int

const (
	DimAuto DimensionKind = iota
	DimPt
	DimPercent
)

// Dimension is Pt(f) | Percent(p) | Auto (§3).
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

func Pt(v float64) Dimension      { return Dimension{Kind: DimPt, Value: v} }
func Percent(v float64) Dimension { return Dimension{Kind: DimPercent, Value: v} }
func Auto() Dimension             { return Dimension{Kind: DimAuto} }

func (d Dimension) IsAuto() bool { return d.Kind == DimAuto }

// Resolve turns a Dimension into points given the parent's content-box
// extent along the relevant axis. Percent against an unresolved (auto)
// parent extent is a cyclic case; the caller passes 0 and it resolves to
// 0 per §4.5 Failure semantics.
func (d Dimension) Resolve(parentExtent float64, autoValue float64) float64 {
	switch d.Kind {
	case DimPt:
		return d.Value
	case DimPercent:
		return parentExtent * d.Value / 100.0
	default:
		return autoValue
	}
}

// ColumnWidthKind discriminates ColumnWidth's three shapes.
type ColumnWidthKind int

const (
	ColAuto ColumnWidthKind = iota
	ColFraction
	ColFixed
)

// ColumnWidth is Fraction(f) | Fixed(points) | Auto (§3).
type ColumnWidth struct {
	Kind  ColumnWidthKind
	Value float64
}

// Edges is a per-side quantity: padding, margin, borderWidth (§3).
type Edges struct {
	Top, Right, Bottom, Left float64
}

// EdgeColors carries a distinct color per border edge.
type EdgeColors struct {
	Top, Right, Bottom, Left Color
}

// Corners is a per-corner quantity: borderRadius (§3).
type Corners struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

// Color is r,g,b,a each in [0,1] (§3).
type Color struct {
	R, G, B, A float64
}

// Black is the engine default text color.
var Black = Color{R: 0, G: 0, B: 0, A: 1}

// Transparent is the engine default background color.
var Transparent = Color{}

type FontStyle string

const (
	FontStyleNormal FontStyle = "Normal"
	FontStyleItalic FontStyle = "Italic"
)

type TextAlign string

const (
	AlignLeft    TextAlign = "Left"
	AlignRight   TextAlign = "Right"
	AlignCenter  TextAlign = "Center"
	AlignJustify TextAlign = "Justify"
)

type TextDecoration string

const (
	DecorationNone          TextDecoration = "None"
	DecorationUnderline     TextDecoration = "Underline"
	DecorationLineThrough   TextDecoration = "LineThrough"
	DecorationUnderlineLine TextDecoration = "UnderlineLineThrough"
)

type TextTransform string

const (
	TransformNone       TextTransform = "None"
	TransformUppercase  TextTransform = "Uppercase"
	TransformLowercase  TextTransform = "Lowercase"
	TransformCapitalize TextTransform = "Capitalize"
)

type FlexDirection string

const (
	FlexColumn      FlexDirection = "Column"
	FlexRow         FlexDirection = "Row"
	FlexRowReverse  FlexDirection = "RowReverse"
	FlexColumnRever FlexDirection = "ColumnReverse"
)

type FlexWrapMode string

const (
	FlexNoWrap      FlexWrapMode = "NoWrap"
	FlexWrap_       FlexWrapMode = "Wrap"
	FlexWrapReverse FlexWrapMode = "WrapReverse"
)

type Justify string

const (
	JustifyStart        Justify = "FlexStart"
	JustifyEnd          Justify = "FlexEnd"
	JustifyCenter       Justify = "Center"
	JustifySpaceBetween Justify = "SpaceBetween"
	JustifySpaceAround  Justify = "SpaceAround"
	JustifySpaceEvenly  Justify = "SpaceEvenly"
)

type Align string

const (
	AlignStart    Align = "FlexStart"
	AlignEnd      Align = "FlexEnd"
	AlignCenterC  Align = "Center"
	AlignStretch  Align = "Stretch"
	AlignBaseline Align = "Baseline"
)

type PositionType string

const (
	PositionRelative PositionType = "Relative"
	PositionAbsolute PositionType = "Absolute"
)

// PageSize is a named paper size or Custom{w,h}.
type PageSize struct {
	Name          string // "A3","A4","A5","Letter","Legal","Tabloid","Custom"
	Width, Height float64
}

var (
	SizeA3      = PageSize{Name: "A3", Width: 841.89, Height: 1190.55}
	SizeA4      = PageSize{Name: "A4", Width: 595.28, Height: 841.89}
	SizeA5      = PageSize{Name: "A5", Width: 419.53, Height: 595.28}
	SizeLetter  = PageSize{Name: "Letter", Width: 612, Height: 792}
	SizeLegal   = PageSize{Name: "Legal", Width: 612, Height: 1008}
	SizeTabloid = PageSize{Name: "Tabloid", Width: 792, Height: 1224}
)

// NamedPageSize resolves a size name to its dimensions; ok is false for
// unknown names (ParseDocument reports those as a ParseError).
func NamedPageSize(name string) (PageSize, bool) {
	switch name {
	case "A3":
		return SizeA3, true
	case "A4":
		return SizeA4, true
	case "A5":
		return SizeA5, true
	case "Letter":
		return SizeLetter, true
	case "Legal":
		return SizeLegal, true
	case "Tabloid":
		return SizeTabloid, true
	}
	return PageSize{}, false
}

// PageConfig is a Page node's size/margin/wrap configuration (§3).
type PageConfig struct {
	Size   PageSize
	Margin Edges
	Wrap   bool
}

// DefaultPageConfig is the engine-wide default: A4, 54pt margins, wrap true.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:   SizeA4,
		Margin: Edges{Top: 54, Right: 54, Bottom: 54, Left: 54},
		Wrap:   true,
	}
}
