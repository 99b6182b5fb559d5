package pdfwrite

import (
	"github.com/pageflow/pageflow/ir/raw"
)

// buildOutline implements §4.6 Bookmarks: a flat outline tree, one item
// per LayoutElement carrying a Bookmark string, in document order, each
// pointing at a /XYZ destination on its own page. Nested outline levels
// are not derivable from a flat bookmark string list and are left flat —
// a documented simplification (§9 Design Notes precedent: keep the first
// working shape rather than inventing a heading-depth heuristic).
func buildOutline(g *objectGraph, entries []bookmarkEntry, pageRefs []raw.RefObj) raw.RefObj {
	root := g.alloc(dict(map[string]raw.Object{"Type": name("Outlines")}))
	if len(entries) == 0 {
		g.set(root, dict(map[string]raw.Object{"Type": name("Outlines"), "Count": integer(0)}))
		return root
	}

	items := make([]raw.RefObj, len(entries))
	for i := range entries {
		items[i] = g.alloc(dict(map[string]raw.Object{}))
	}
	for i, e := range entries {
		d := map[string]raw.Object{
			"Title":  str(e.title),
			"Parent": root,
			"Dest":   array(pageRefs[e.pageIndex], name("XYZ"), null(), real(e.y), null()),
		}
		if i > 0 {
			d["Prev"] = items[i-1]
		}
		if i < len(items)-1 {
			d["Next"] = items[i+1]
		}
		g.set(items[i], dict(d))
	}
	g.set(root, dict(map[string]raw.Object{
		"Type":  name("Outlines"),
		"First": items[0],
		"Last":  items[len(items)-1],
		"Count": integer(len(items)),
	}))
	return root
}

func null() raw.NullObj { return raw.NullObj{} }
