package pdfwrite

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/pageflow/pageflow/filters"
	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/ir/raw"
	"github.com/pageflow/pageflow/layout"
	"github.com/pageflow/pageflow/model"
)

// Write implements §4.6: it walks the laid-out document once to collect
// the distinct fonts, images, links and bookmarks it references, builds
// the PDF 1.7 object graph on ir/raw, and serializes it with a classic
// cross-reference table and trailer. The output is byte-identical for a
// byte-identical input (§5 Determinism): /ID is a hash of the object
// stream, never random bytes.
func Write(doc *layout.LayoutDocument, meta model.Metadata) ([]byte, error) {
	fontOrder, fontNames := collectFonts(doc)

	g := &objectGraph{}
	pagesRoot := g.alloc(dict(map[string]raw.Object{}))

	fontRefs := make(map[string]raw.RefObj, len(fontOrder))
	for _, face := range fontOrder {
		fontRefs[fontNames[face]] = buildFontResource(g, face)
	}
	fontDict := map[string]raw.Object{}
	for resName, ref := range fontRefs {
		fontDict[resName] = ref
	}

	var bookmarks []bookmarkEntry
	pageRefs := make([]raw.RefObj, len(doc.Pages))

	for i, page := range doc.Pages {
		cb, err := buildPageContent(page, i, len(doc.Pages), fontNames, &bookmarks)
		if err != nil {
			return nil, fmt.Errorf("build page %d content: %w", i, err)
		}
		compressed := filters.FlateEncode(cb.buf.Bytes())
		contentRef := g.alloc(&raw.StreamObj{
			Dict: dict(map[string]raw.Object{"Filter": name("FlateDecode"), "Length": integer(len(compressed))}),
			Data: compressed,
		})

		xobjDict := map[string]raw.Object{}
		for _, im := range cb.images {
			ref, err := buildImageXObject(g, im)
			if err != nil {
				continue // undecodable image: page already carries a placeholder rect (§7 ImageError)
			}
			xobjDict[im.name] = ref
		}

		resources := map[string]raw.Object{"Font": dict(fontDict)}
		if len(xobjDict) > 0 {
			resources["XObject"] = dict(xobjDict)
		}

		pageDict := map[string]raw.Object{
			"Type":      name("Page"),
			"Parent":    pagesRoot,
			"MediaBox":  array(integer(0), integer(0), real(page.Width), real(page.Height)),
			"Resources": dict(resources),
			"Contents":  contentRef,
		}
		if len(cb.links) > 0 {
			annots := array()
			for _, l := range cb.links {
				annots.Append(buildLinkAnnotation(g, l))
			}
			pageDict["Annots"] = annots
		}
		pageRefs[i] = g.alloc(dict(pageDict))
	}

	kids := array()
	for _, r := range pageRefs {
		kids.Append(r)
	}
	g.set(pagesRoot, dict(map[string]raw.Object{
		"Type":  name("Pages"),
		"Kids":  kids,
		"Count": integer(len(pageRefs)),
	}))

	outlineRef := buildOutline(g, bookmarks, pageRefs)

	catalog := map[string]raw.Object{
		"Type":  name("Catalog"),
		"Pages": pagesRoot,
	}
	if len(bookmarks) > 0 {
		catalog["Outlines"] = outlineRef
	}
	if meta.Lang != "" {
		catalog["Lang"] = str(meta.Lang)
	}
	catalogRef := g.alloc(dict(catalog))

	infoRef := g.alloc(dict(infoDict(meta)))

	return serialize(g, catalogRef, infoRef)
}

func infoDict(meta model.Metadata) map[string]raw.Object {
	d := map[string]raw.Object{"Producer": str("pageflow")}
	if meta.Title != "" {
		d["Title"] = str(meta.Title)
	}
	if meta.Author != "" {
		d["Author"] = str(meta.Author)
	}
	if meta.Subject != "" {
		d["Subject"] = str(meta.Subject)
	}
	if meta.Creator != "" {
		d["Creator"] = str(meta.Creator)
	}
	return d
}

// collectFonts walks every page's text fragments once, assigning each
// distinct Face a stable resource name ("F1", "F2", ...) in first-seen
// order so the same document always produces the same resource names.
func collectFonts(doc *layout.LayoutDocument) ([]fontreg.Face, map[fontreg.Face]string) {
	names := map[fontreg.Face]string{}
	var order []fontreg.Face
	var walk func(el *layout.LayoutElement)
	walk = func(el *layout.LayoutElement) {
		for _, line := range el.Draw.Lines {
			for _, frag := range line.Fragments {
				if frag.Face == nil {
					continue
				}
				if _, ok := names[frag.Face]; !ok {
					names[frag.Face] = fmt.Sprintf("F%d", len(order)+1)
					order = append(order, frag.Face)
				}
			}
		}
		for _, c := range el.Children {
			walk(c)
		}
	}
	for _, page := range doc.Pages {
		for _, el := range page.Elements {
			walk(el)
		}
	}
	return order, names
}

// serialize writes the PDF header, every object in allocation order, the
// classic cross-reference table, and the trailer (§4.6).
func serialize(g *objectGraph, catalogRef, infoRef raw.RefObj) ([]byte, error) {
	var out bytes.Buffer
	out.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(g.objects)+1) // 1-indexed; offsets[0] unused
	for i, obj := range g.objects {
		offsets[i+1] = out.Len()
		out.Write(serializeObject(i+1, obj))
	}

	id := computeID(out.Bytes())

	xrefOffset := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(g.objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(g.objects); i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[i])
	}

	out.WriteString("trailer\n")
	trailer := dict(map[string]raw.Object{
		"Size": integer(len(g.objects) + 1),
		"Root": catalogRef,
		"Info": infoRef,
		"ID":   array(str(string(id)), str(string(id))),
	})
	writeValue(&out, trailer)
	fmt.Fprintf(&out, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	return out.Bytes(), nil
}

// computeID hashes the object stream rather than drawing random bytes, so
// the same document always serializes to the same /ID (§5 Determinism).
func computeID(body []byte) []byte {
	sum := sha256.Sum256(body)
	return sum[:16]
}
