package pdfwrite

import (
	"strings"

	"github.com/pageflow/pageflow/ir/raw"
)

// buildLinkAnnotation implements §4.6 Link annotations: an internal
// bookmark-style href ("#name") is left as a same-document placeholder
// (no named-destination table is built from hrefs alone), everything else
// becomes a /URI action.
func buildLinkAnnotation(g *objectGraph, l linkAnnotation) raw.RefObj {
	rect := array(real(l.x), real(l.y), real(l.x+l.width), real(l.y+l.height))
	d := map[string]raw.Object{
		"Type":    name("Annot"),
		"Subtype": name("Link"),
		"Rect":    rect,
		"Border":  array(integer(0), integer(0), integer(0)),
	}
	if strings.HasPrefix(l.href, "#") {
		d["A"] = dict(map[string]raw.Object{
			"Type": name("Action"), "S": name("GoTo"),
			"D": str(strings.TrimPrefix(l.href, "#")),
		})
	} else {
		d["A"] = dict(map[string]raw.Object{
			"Type": name("Action"), "S": name("URI"),
			"URI": str(l.href),
		})
	}
	return g.alloc(dict(d))
}
