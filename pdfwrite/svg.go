package pdfwrite

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pageflow/pageflow/model"
)

// svgPathOp is one PDF path-painting operator emitted for a parsed SVG
// element: "m"/"l"/"c" carry point operands, "h" closes the current
// subpath, "re" is a shortcut for an axis-aligned rect.
type svgPathOp struct {
	op   string
	args []float64
}

// svgShape is one parsed drawable element from the markup subset (§4.6
// Svg): its path in SVG user-space coordinates plus whether it paints a
// fill, a stroke, or both.
type svgShape struct {
	ops    []svgPathOp
	fill   bool
	stroke bool
}

// parseSvgMarkup implements §4.6's mandated Svg subset: rect, circle,
// ellipse, line, polyline, polygon, and path (M/L/C/Q/Z), read as an XML
// fragment with encoding/xml rather than a bespoke scanner.
func parseSvgMarkup(markup string) []svgShape {
	dec := xml.NewDecoder(strings.NewReader(markup))
	var shapes []svgShape
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		attrs := attrMap(start.Attr)
		switch start.Name.Local {
		case "rect":
			shapes = append(shapes, rectShape(attrs))
		case "circle":
			shapes = append(shapes, ellipseShape(attrs, "cx", "cy", "r", "r"))
		case "ellipse":
			shapes = append(shapes, ellipseShape(attrs, "cx", "cy", "rx", "ry"))
		case "line":
			shapes = append(shapes, lineShape(attrs))
		case "polyline":
			shapes = append(shapes, polyShape(attrs, false))
		case "polygon":
			shapes = append(shapes, polyShape(attrs, true))
		case "path":
			shapes = append(shapes, pathShape(attrs))
		}
	}
	return shapes
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

func numAttr(attrs map[string]string, key string, def float64) float64 {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// paints reports whether attrs describe a filled and/or stroked shape,
// defaulting to SVG's own default of a black fill and no stroke.
func paints(attrs map[string]string) (fill, stroke bool) {
	fill, stroke = true, false
	if v, ok := attrs["fill"]; ok && v == "none" {
		fill = false
	}
	if v, ok := attrs["stroke"]; ok && v != "" && v != "none" {
		stroke = true
	}
	return fill, stroke
}

func rectShape(attrs map[string]string) svgShape {
	x := numAttr(attrs, "x", 0)
	y := numAttr(attrs, "y", 0)
	w := numAttr(attrs, "width", 0)
	h := numAttr(attrs, "height", 0)
	fill, stroke := paints(attrs)
	return svgShape{
		ops:    []svgPathOp{{op: "re", args: []float64{x, y, w, h}}},
		fill:   fill,
		stroke: stroke,
	}
}

// bezierKappa is the standard constant for approximating a quarter circle
// with one cubic Bezier arc (4/3 * (sqrt(2) - 1)).
const bezierKappa = 0.5522847498307936

func ellipseShape(attrs map[string]string, cxKey, cyKey, rxKey, ryKey string) svgShape {
	cx := numAttr(attrs, cxKey, 0)
	cy := numAttr(attrs, cyKey, 0)
	rx := numAttr(attrs, rxKey, 0)
	ry := numAttr(attrs, ryKey, 0)
	kx, ky := rx*bezierKappa, ry*bezierKappa

	ops := []svgPathOp{
		{op: "m", args: []float64{cx + rx, cy}},
		{op: "c", args: []float64{cx + rx, cy + ky, cx + kx, cy + ry, cx, cy + ry}},
		{op: "c", args: []float64{cx - kx, cy + ry, cx - rx, cy + ky, cx - rx, cy}},
		{op: "c", args: []float64{cx - rx, cy - ky, cx - kx, cy - ry, cx, cy - ry}},
		{op: "c", args: []float64{cx + kx, cy - ry, cx + rx, cy - ky, cx + rx, cy}},
		{op: "h"},
	}
	fill, stroke := paints(attrs)
	return svgShape{ops: ops, fill: fill, stroke: stroke}
}

func lineShape(attrs map[string]string) svgShape {
	x1, y1 := numAttr(attrs, "x1", 0), numAttr(attrs, "y1", 0)
	x2, y2 := numAttr(attrs, "x2", 0), numAttr(attrs, "y2", 0)
	return svgShape{
		ops:    []svgPathOp{{op: "m", args: []float64{x1, y1}}, {op: "l", args: []float64{x2, y2}}},
		stroke: true,
	}
}

func polyShape(attrs map[string]string, closed bool) svgShape {
	pts := parsePoints(attrs["points"])
	if len(pts) == 0 {
		return svgShape{}
	}
	ops := []svgPathOp{{op: "m", args: []float64{pts[0].X, pts[0].Y}}}
	for _, p := range pts[1:] {
		ops = append(ops, svgPathOp{op: "l", args: []float64{p.X, p.Y}})
	}
	fill, stroke := paints(attrs)
	if !closed {
		fill = false
		stroke = true
	} else if closed {
		ops = append(ops, svgPathOp{op: "h"})
	}
	return svgShape{ops: ops, fill: fill, stroke: stroke}
}

type svgPoint struct{ X, Y float64 }

func parsePoints(s string) []svgPoint {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' })
	var pts []svgPoint
	for i := 0; i+1 < len(fields); i += 2 {
		x, err1 := strconv.ParseFloat(fields[i], 64)
		y, err2 := strconv.ParseFloat(fields[i+1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, svgPoint{X: x, Y: y})
	}
	return pts
}

// pathShape parses the M/L/C/Q/Z subset of the "d" attribute (§4.6): Q
// (quadratic) is elevated to an equivalent cubic since PDF content streams
// only have a cubic curve operator.
func pathShape(attrs map[string]string) svgShape {
	fill, stroke := paints(attrs)
	return svgShape{ops: parsePathData(attrs["d"]), fill: fill, stroke: stroke}
}

func parsePathData(d string) []svgPathOp {
	toks := tokenizePathData(d)
	var ops []svgPathOp
	var cur, start svgPoint
	i := 0
	for i < len(toks) {
		cmd := toks[i].cmd
		i++
		switch cmd {
		case 'M', 'm':
			x, y := toks[i].val, toks[i+1].val
			i += 2
			if cmd == 'm' {
				x, y = cur.X+x, cur.Y+y
			}
			cur = svgPoint{x, y}
			start = cur
			ops = append(ops, svgPathOp{op: "m", args: []float64{x, y}})
		case 'L', 'l':
			x, y := toks[i].val, toks[i+1].val
			i += 2
			if cmd == 'l' {
				x, y = cur.X+x, cur.Y+y
			}
			cur = svgPoint{x, y}
			ops = append(ops, svgPathOp{op: "l", args: []float64{x, y}})
		case 'C', 'c':
			x1, y1 := toks[i].val, toks[i+1].val
			x2, y2 := toks[i+2].val, toks[i+3].val
			x3, y3 := toks[i+4].val, toks[i+5].val
			i += 6
			if cmd == 'c' {
				x1, y1 = cur.X+x1, cur.Y+y1
				x2, y2 = cur.X+x2, cur.Y+y2
				x3, y3 = cur.X+x3, cur.Y+y3
			}
			cur = svgPoint{x3, y3}
			ops = append(ops, svgPathOp{op: "c", args: []float64{x1, y1, x2, y2, x3, y3}})
		case 'Q', 'q':
			qx, qy := toks[i].val, toks[i+1].val
			x3, y3 := toks[i+2].val, toks[i+3].val
			i += 4
			if cmd == 'q' {
				qx, qy = cur.X+qx, cur.Y+qy
				x3, y3 = cur.X+x3, cur.Y+y3
			}
			// Quadratic-to-cubic elevation: cp = p0 + 2/3*(q - p0).
			x1, y1 := cur.X+2.0/3.0*(qx-cur.X), cur.Y+2.0/3.0*(qy-cur.Y)
			x2, y2 := x3+2.0/3.0*(qx-x3), y3+2.0/3.0*(qy-y3)
			cur = svgPoint{x3, y3}
			ops = append(ops, svgPathOp{op: "c", args: []float64{x1, y1, x2, y2, x3, y3}})
		case 'Z', 'z':
			cur = start
			ops = append(ops, svgPathOp{op: "h"})
		default:
			// Unsupported command: stop rather than misinterpret the rest.
			return ops
		}
	}
	return ops
}

type pathToken struct {
	cmd rune
	val float64
}

// tokenizePathData splits an SVG path "d" string into a flat stream of
// (command, then its numeric operands) tokens, tolerating the
// comma-or-whitespace-separated, sign-adjacent number runs SVG allows.
func tokenizePathData(d string) []pathToken {
	var toks []pathToken
	i := 0
	n := len(d)
	isCmd := func(c byte) bool {
		switch c {
		case 'M', 'm', 'L', 'l', 'C', 'c', 'Q', 'q', 'Z', 'z':
			return true
		}
		return false
	}
	for i < n {
		c := d[i]
		switch {
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isCmd(c):
			toks = append(toks, pathToken{cmd: rune(c)})
			i++
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < n && (d[j] == '.' || (d[j] >= '0' && d[j] <= '9') || d[j] == 'e' || d[j] == 'E' ||
				((d[j] == '-' || d[j] == '+') && j > i && (d[j-1] == 'e' || d[j-1] == 'E'))) {
				j++
			}
			f, err := strconv.ParseFloat(d[i:j], 64)
			if err == nil {
				toks = append(toks, pathToken{val: f})
			}
			i = j
		default:
			i++
		}
	}
	return toks
}

// svgViewBox returns node's declared viewBox, or one matching the element's
// own box 1:1 when absent, so the scale factor below reduces to identity.
func svgViewBox(vb *model.ViewBox, width, height float64) (minX, minY, w, h float64) {
	if vb == nil || vb.Width <= 0 || vb.Height <= 0 {
		return 0, 0, width, height
	}
	return vb.MinX, vb.MinY, vb.Width, vb.Height
}

func formatSvgOp(op svgPathOp) string {
	switch op.op {
	case "h":
		return "h"
	case "re":
		return fmt.Sprintf("%s %s %s %s re", num(op.args[0]), num(op.args[1]), num(op.args[2]), num(op.args[3]))
	default:
		parts := make([]string, len(op.args))
		for i, a := range op.args {
			parts[i] = num(a)
		}
		return strings.Join(parts, " ") + " " + op.op
	}
}

func clampFinite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
