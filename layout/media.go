package layout

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/style"
)

// defaultIntrinsicSize is the square fallback used when an image's bytes
// can't be sniffed for pixel dimensions (§4.5 Image: "fall back to
// intrinsic pixel dimensions at 72 DPI"; at 72 DPI a pixel equals a point).
const defaultIntrinsicSize = 150.0

// layoutImage implements §4.5 Image: resolve width/height (preserving
// aspect ratio when only one axis is set), decode the source once, and
// move to a fresh page rather than clipping when the whole image fits
// there.
func layoutImage(ctx *renderCtx, node *model.Node, cur *Cursor, x, availableWidth float64, parent style.Resolved) {
	resolved := style.Resolve(node, parent)

	data, contentType, err := decodeImageSource(node.Src)
	placeholder := err != nil
	if err != nil {
		ctx.warn(WarnImage, "image decode failed: "+err.Error())
	}

	intrinsicW, intrinsicH := intrinsicPixelSize(data)
	width, height := resolveImageBox(node, resolved, availableWidth, intrinsicW, intrinsicH)

	if height > cur.RemainingHeight() {
		if height <= cur.FreshPageHeight() {
			cur.NewPage()
		} else {
			ctx.warn(WarnLayout, "image exceeds a fresh page's height; clipping to remaining space")
			height = cur.RemainingHeight()
			if height < minSize {
				height = minSize
			}
		}
	}

	startY := cur.y
	el := &LayoutElement{
		X: x, Y: startY, Width: width, Height: height,
		Kind:     ElementImage,
		NodeType: node.Kind,
		Style:    resolved,
		Draw: DrawCommand{
			Kind: ElementImage, ImageData: data, ImageContentType: contentType, ImagePlaceholder: placeholder,
		},
		SourceLocation: node.SourceLocation,
		Href:           node.Href,
		Bookmark:       node.Bookmark,
	}
	if node.Alt != "" {
		el.TextContent = node.Alt
	}
	cur.Push(el)
	cur.y = startY + height
}

// intrinsicPixelSize sniffs pixel dimensions from the decoded image bytes
// via image.DecodeConfig (no full pixel decode needed), falling back to a
// square placeholder size when the bytes aren't a recognized format.
func intrinsicPixelSize(data []byte) (w, h float64) {
	if len(data) == 0 {
		return defaultIntrinsicSize, defaultIntrinsicSize
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return defaultIntrinsicSize, defaultIntrinsicSize
	}
	return float64(cfg.Width), float64(cfg.Height)
}

// resolveImageBox implements §4.5 Image: explicit width/height win; a
// single explicit axis preserves the source's intrinsic aspect ratio; with
// neither set, the intrinsic pixel size is used directly (1 px == 1 pt at
// 72 DPI).
func resolveImageBox(node *model.Node, resolved style.Resolved, availableWidth, intrinsicW, intrinsicH float64) (width, height float64) {
	var w, h *float64
	if node.Width != nil && !node.Width.IsAuto() {
		v := node.Width.Resolve(availableWidth, 0)
		w = &v
	}
	if node.Height != nil && !node.Height.IsAuto() {
		v := node.Height.Resolve(availableWidth, 0)
		h = &v
	}
	aspect := intrinsicW / intrinsicH
	switch {
	case w != nil && h != nil:
		width, height = *w, *h
	case w != nil:
		width = *w
		height = width / aspect
	case h != nil:
		height = *h
		width = height * aspect
	default:
		width, height = intrinsicW, intrinsicH
	}
	if width < minSize {
		width = minSize
	}
	if height < minSize {
		height = minSize
	}
	return width, height
}

// decodeImageSource decodes an inline data-URI image source (§4.1: images
// arrive as data URIs or resolved base64 payloads via the external
// loader). Malformed sources degrade to an ImagePlaceholder rather than
// failing the render (§7 ImageError).
func decodeImageSource(src string) ([]byte, string, error) {
	if src == "" {
		return nil, "", errEmptyImageSource
	}
	return model.DecodeDataURI(src)
}

var errEmptyImageSource = &imageSourceError{"empty image source"}

type imageSourceError struct{ msg string }

func (e *imageSourceError) Error() string { return e.msg }

// layoutSvg implements §4.5 Svg: an atomic block with a fixed width and
// height; the markup itself is carried opaquely for the PDF serializer to
// interpret its supported subset (§4.6).
func layoutSvg(ctx *renderCtx, node *model.Node, cur *Cursor, x, availableWidth float64, parent style.Resolved) {
	resolved := style.Resolve(node, parent)

	width := defaultIntrinsicSize
	height := defaultIntrinsicSize
	if node.Width != nil && !node.Width.IsAuto() {
		width = node.Width.Resolve(availableWidth, defaultIntrinsicSize)
	}
	if node.Height != nil && !node.Height.IsAuto() {
		height = node.Height.Resolve(availableWidth, defaultIntrinsicSize)
	}
	if width < minSize {
		width = minSize
	}
	if height < minSize {
		height = minSize
	}

	if height > cur.RemainingHeight() {
		if height <= cur.FreshPageHeight() {
			cur.NewPage()
		} else {
			ctx.warn(WarnLayout, "svg exceeds a fresh page's height; placing with overflow")
		}
	}

	startY := cur.y
	el := &LayoutElement{
		X: x, Y: startY, Width: width, Height: height,
		Kind:           ElementSvg,
		NodeType:       node.Kind,
		Style:          resolved,
		Draw:           DrawCommand{Kind: ElementSvg, SvgMarkup: node.SvgContent, ViewBox: node.ViewBox},
		SourceLocation: node.SourceLocation,
		Href:           node.Href,
		Bookmark:       node.Bookmark,
	}
	cur.Push(el)
	cur.y = startY + height
}
