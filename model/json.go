package model

import (
	"encoding/json"
	"fmt"
)

// ParseError is returned for malformed input JSON or an unknown node kind
// discriminant (§4.1, §7).
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError: %s: %s", e.Path, e.Reason)
}

// ParseDocument decodes the JSON document object described in §4.1/§6.
func ParseDocument(data []byte) (*Document, error) {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &ParseError{Path: "$", Reason: err.Error()}
	}
	doc := &Document{
		Metadata: Metadata{
			Title:   w.Metadata.Title,
			Author:  w.Metadata.Author,
			Subject: w.Metadata.Subject,
			Creator: w.Metadata.Creator,
			Lang:    w.Metadata.Lang,
		},
	}
	if w.DefaultPage != nil {
		pc, err := w.DefaultPage.resolve("$.defaultPage")
		if err != nil {
			return nil, err
		}
		doc.DefaultPage = pc
	} else {
		doc.DefaultPage = DefaultPageConfig()
	}
	for i, wf := range w.Fonts {
		doc.Fonts = append(doc.Fonts, FontSpec{
			Family: wf.Family,
			Src:    wf.Src,
			Weight: orInt(wf.Weight, 400),
			Italic: wf.Italic,
		})
		if doc.Fonts[i].Family == "" {
			return nil, &ParseError{Path: fmt.Sprintf("$.fonts[%d]", i), Reason: "missing family"}
		}
	}
	for i, wn := range w.Children {
		n, err := wn.toNode(fmt.Sprintf("$.children[%d]", i))
		if err != nil {
			return nil, err
		}
		doc.Children = append(doc.Children, n)
	}
	return doc, nil
}

func orInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// --- wire types ---

type wireMetadata struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
	Lang    string `json:"lang"`
}

type wireFontSpec struct {
	Family string `json:"family"`
	Src    string `json:"src"`
	Weight *int   `json:"weight"`
	Italic bool   `json:"italic"`
}

type wirePageConfig struct {
	Size   *wirePageSize `json:"size"`
	Margin *wireEdges    `json:"margin"`
	Wrap   *bool         `json:"wrap"`
}

type wirePageSize struct {
	Name          *string  `json:"name"`
	Custom        bool     `json:"-"`
	Width, Height *float64 `json:"-"`
}

func (p *wirePageSize) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		p.Name = &s
		return nil
	}
	var custom struct {
		Custom struct {
			W float64 `json:"w"`
			H float64 `json:"h"`
		} `json:"Custom"`
	}
	if err := json.Unmarshal(b, &custom); err != nil {
		return err
	}
	p.Custom = true
	p.Width = &custom.Custom.W
	p.Height = &custom.Custom.H
	return nil
}

func (w *wirePageConfig) resolve(path string) (PageConfig, error) {
	pc := DefaultPageConfig()
	if w.Size != nil {
		if w.Size.Custom {
			pc.Size = PageSize{Name: "Custom", Width: *w.Size.Width, Height: *w.Size.Height}
		} else if w.Size.Name != nil {
			ps, ok := NamedPageSize(*w.Size.Name)
			if !ok {
				return pc, &ParseError{Path: path + ".size", Reason: "unknown page size " + *w.Size.Name}
			}
			pc.Size = ps
		}
	}
	if w.Margin != nil {
		pc.Margin = w.Margin.toEdges()
	}
	if w.Wrap != nil {
		pc.Wrap = *w.Wrap
	}
	return pc, nil
}

type wireEdges struct {
	Top, Right, Bottom, Left float64 `json:"-"`
}

func (e *wireEdges) UnmarshalJSON(b []byte) error {
	var m struct {
		Top, Right, Bottom, Left float64
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	e.Top, e.Right, e.Bottom, e.Left = m.Top, m.Right, m.Bottom, m.Left
	return nil
}
func (e *wireEdges) toEdges() Edges {
	if e == nil {
		return Edges{}
	}
	return Edges{Top: e.Top, Right: e.Right, Bottom: e.Bottom, Left: e.Left}
}

type wireCorners struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

func (c *wireCorners) toCorners() Corners {
	if c == nil {
		return Corners{}
	}
	return Corners{TopLeft: c.TopLeft, TopRight: c.TopRight, BottomRight: c.BottomRight, BottomLeft: c.BottomLeft}
}

type wireColor struct {
	R, G, B, A float64
}

func (c *wireColor) toColor() *Color {
	if c == nil {
		return nil
	}
	return &Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

type wireEdgeColors struct {
	Top, Right, Bottom, Left wireColor
}

func (c *wireEdgeColors) toEdgeColors() *EdgeColors {
	if c == nil {
		return nil
	}
	return &EdgeColors{
		Top:    *c.Top.toColor(),
		Right:  *c.Right.toColor(),
		Bottom: *c.Bottom.toColor(),
		Left:   *c.Left.toColor(),
	}
}

// wireDimension parses "Auto" | {"Pt": n} | {"Percent": n}.
type wireDimension struct {
	set bool
	dim Dimension
}

func (d *wireDimension) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "Auto" {
			return fmt.Errorf("invalid Dimension literal %q", s)
		}
		d.set = true
		d.dim = Auto()
		return nil
	}
	var obj struct {
		Pt      *float64 `json:"Pt"`
		Percent *float64 `json:"Percent"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	switch {
	case obj.Pt != nil:
		d.dim = Pt(*obj.Pt)
	case obj.Percent != nil:
		d.dim = Percent(*obj.Percent)
	default:
		return fmt.Errorf("invalid Dimension object")
	}
	d.set = true
	return nil
}
func (d *wireDimension) toDimension() *Dimension {
	if d == nil || !d.set {
		return nil
	}
	v := d.dim
	return &v
}

// wireColumnWidth parses "Auto" | {"Fraction": f} | {"Fixed": n}.
type wireColumnWidth struct {
	ColumnWidth
}

func (c *wireColumnWidth) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "Auto" {
			return fmt.Errorf("invalid ColumnWidth literal %q", s)
		}
		c.ColumnWidth = ColumnWidth{Kind: ColAuto}
		return nil
	}
	var obj struct {
		Fraction *float64 `json:"Fraction"`
		Fixed    *float64 `json:"Fixed"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	switch {
	case obj.Fraction != nil:
		c.ColumnWidth = ColumnWidth{Kind: ColFraction, Value: *obj.Fraction}
	case obj.Fixed != nil:
		c.ColumnWidth = ColumnWidth{Kind: ColFixed, Value: *obj.Fixed}
	default:
		return fmt.Errorf("invalid ColumnWidth object")
	}
	return nil
}

type wireStyle struct {
	Color          *wireColor       `json:"color"`
	FontFamily     *string          `json:"fontFamily"`
	FontSize       *float64         `json:"fontSize"`
	FontWeight     *int             `json:"fontWeight"`
	FontStyle      *FontStyle       `json:"fontStyle"`
	LineHeight     *float64         `json:"lineHeight"`
	TextAlign      *TextAlign       `json:"textAlign"`
	LetterSpacing  *float64         `json:"letterSpacing"`
	TextDecoration *TextDecoration  `json:"textDecoration"`
	TextTransform  *TextTransform   `json:"textTransform"`
	MinWidowLines  *int             `json:"minWidowLines"`
	MinOrphanLines *int             `json:"minOrphanLines"`
	Width          *wireDimension   `json:"width"`
	Height         *wireDimension   `json:"height"`
	MinWidth       *wireDimension   `json:"minWidth"`
	MaxWidth       *wireDimension   `json:"maxWidth"`
	MinHeight      *wireDimension   `json:"minHeight"`
	MaxHeight      *wireDimension   `json:"maxHeight"`
	Padding        *wireEdges       `json:"padding"`
	Margin         *wireEdges       `json:"margin"`
	BorderWidth    *wireEdges       `json:"borderWidth"`
	BorderColor    *wireEdgeColors  `json:"borderColor"`
	BorderRadius   *wireCorners     `json:"borderRadius"`
	BackgroundColor *wireColor      `json:"backgroundColor"`
	FlexDirection  *FlexDirection   `json:"flexDirection"`
	FlexWrap       *FlexWrapMode    `json:"flexWrap"`
	FlexGrow       *float64         `json:"flexGrow"`
	FlexShrink     *float64         `json:"flexShrink"`
	FlexBasis      *wireDimension   `json:"flexBasis"`
	JustifyContent *Justify         `json:"justifyContent"`
	AlignItems     *Align           `json:"alignItems"`
	AlignContent   *Align           `json:"alignContent"`
	RowGap         *float64         `json:"rowGap"`
	ColumnGap      *float64         `json:"columnGap"`
	Gap            *float64         `json:"gap"`
	Position       *PositionType    `json:"position"`
	Top            *float64         `json:"top"`
	Right          *float64         `json:"right"`
	Bottom         *float64         `json:"bottom"`
	Left           *float64         `json:"left"`
	Wrap           *bool            `json:"wrap"`
}

func (w *wireStyle) toStyle() *Style {
	if w == nil {
		return nil
	}
	s := &Style{
		Color:           w.Color.toColor(),
		FontFamily:      w.FontFamily,
		FontSize:        w.FontSize,
		FontWeight:      w.FontWeight,
		FontStyle:       w.FontStyle,
		LineHeight:      w.LineHeight,
		TextAlign:       w.TextAlign,
		LetterSpacing:   w.LetterSpacing,
		TextDecoration:  w.TextDecoration,
		TextTransform:   w.TextTransform,
		MinWidowLines:   w.MinWidowLines,
		MinOrphanLines:  w.MinOrphanLines,
		Width:           w.Width.toDimension(),
		Height:          w.Height.toDimension(),
		MinWidth:        w.MinWidth.toDimension(),
		MaxWidth:        w.MaxWidth.toDimension(),
		MinHeight:       w.MinHeight.toDimension(),
		MaxHeight:       w.MaxHeight.toDimension(),
		Padding:         edgesPtr(w.Padding),
		Margin:          edgesPtr(w.Margin),
		BorderWidth:     edgesPtr(w.BorderWidth),
		BorderColor:     w.BorderColor.toEdgeColors(),
		BorderRadius:    cornersPtr(w.BorderRadius),
		BackgroundColor: w.BackgroundColor.toColor(),
		FlexDirection:   w.FlexDirection,
		FlexWrap:        w.FlexWrap,
		FlexGrow:        w.FlexGrow,
		FlexShrink:      w.FlexShrink,
		FlexBasis:       w.FlexBasis.toDimension(),
		JustifyContent:  w.JustifyContent,
		AlignItems:      w.AlignItems,
		AlignContent:    w.AlignContent,
		Position:        w.Position,
		Top:             w.Top,
		Right:           w.Right,
		Bottom:          w.Bottom,
		Left:            w.Left,
		Wrap:            w.Wrap,
	}
	// gap is shorthand for both row and column gap.
	rowGap, colGap := w.RowGap, w.ColumnGap
	if w.Gap != nil {
		if rowGap == nil {
			rowGap = w.Gap
		}
		if colGap == nil {
			colGap = w.Gap
		}
	}
	s.RowGap = rowGap
	s.ColumnGap = colGap
	return s
}

func edgesPtr(w *wireEdges) *Edges {
	if w == nil {
		return nil
	}
	e := w.toEdges()
	return &e
}
func cornersPtr(w *wireCorners) *Corners {
	if w == nil {
		return nil
	}
	c := w.toCorners()
	return &c
}

type wireNode struct {
	Type           string           `json:"type"`
	Style          *wireStyle       `json:"style"`
	Children       []wireNode       `json:"children"`
	Bookmark       string           `json:"bookmark"`
	Href           string           `json:"href"`
	Alt            string           `json:"alt"`
	SourceLocation *SourceLocation  `json:"sourceLocation"`

	// Page
	Page *wirePageConfig `json:"page"`

	// Text
	Content string        `json:"content"`
	Runs    []wireTextRun `json:"runs"`

	// Image / Svg shared box
	Src    string         `json:"src"`
	Width  *wireDimension `json:"width"`
	Height *wireDimension `json:"height"`

	// Table
	Columns []wireColumnWidth `json:"columns"`

	// TableRow
	IsHeader bool `json:"isHeader"`

	// TableCell
	ColSpan *int `json:"colSpan"`
	RowSpan *int `json:"rowSpan"`

	// Fixed
	Position FixedPosition `json:"position"`

	// Svg
	ViewBox *[4]float64 `json:"viewBox"`
}

type wireTextRun struct {
	Content string     `json:"content"`
	Style   *wireStyle `json:"style"`
	Href    string     `json:"href"`
}

func (w *wireNode) toNode(path string) (*Node, error) {
	n := &Node{
		Style:          w.Style.toStyle(),
		Bookmark:       w.Bookmark,
		Href:           w.Href,
		Alt:            w.Alt,
		SourceLocation: w.SourceLocation,
	}
	switch NodeKind(w.Type) {
	case KindPage:
		n.Kind = KindPage
		if w.Page != nil {
			pc, err := w.Page.resolve(path)
			if err != nil {
				return nil, err
			}
			n.Page = &pc
		} else {
			def := DefaultPageConfig()
			n.Page = &def
		}
	case KindView:
		n.Kind = KindView
	case KindText:
		n.Kind = KindText
		n.Content = w.Content
		for _, r := range w.Runs {
			n.Runs = append(n.Runs, TextRun{Content: r.Content, Style: r.Style.toStyle(), Href: r.Href})
		}
	case KindImage:
		n.Kind = KindImage
		n.Src = w.Src
		n.Width = w.Width.toDimension()
		n.Height = w.Height.toDimension()
	case KindTable:
		n.Kind = KindTable
		for _, c := range w.Columns {
			n.Columns = append(n.Columns, c.ColumnWidth)
		}
	case KindTableRow:
		n.Kind = KindTableRow
		n.IsHeader = w.IsHeader
	case KindTableCell:
		n.Kind = KindTableCell
		n.ColSpan = orInt(w.ColSpan, 1)
		n.RowSpan = orInt(w.RowSpan, 1)
		if n.ColSpan < 1 {
			n.ColSpan = 1
		}
		if n.RowSpan < 1 {
			n.RowSpan = 1
		}
	case KindFixed:
		n.Kind = KindFixed
		n.Position = w.Position
		if n.Position == "" {
			return nil, &ParseError{Path: path, Reason: "Fixed node missing position"}
		}
	case KindPageBreak:
		n.Kind = KindPageBreak
	case KindSvg:
		n.Kind = KindSvg
		n.Src = w.Src
		n.Width = w.Width.toDimension()
		n.Height = w.Height.toDimension()
		n.SvgContent = w.Content
		if w.ViewBox != nil {
			vb := w.ViewBox
			n.ViewBox = &ViewBox{MinX: vb[0], MinY: vb[1], Width: vb[2], Height: vb[3]}
		}
	default:
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("unknown node kind %q", w.Type)}
	}
	for i, wc := range w.Children {
		c, err := wc.toNode(fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

type wireDocument struct {
	Children    []wireNode     `json:"children"`
	Metadata    wireMetadata   `json:"metadata"`
	DefaultPage *wirePageConfig `json:"defaultPage"`
	Fonts       []wireFontSpec `json:"fonts"`
}
