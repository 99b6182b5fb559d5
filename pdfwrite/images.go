package pdfwrite

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pageflow/pageflow/filters"
	"github.com/pageflow/pageflow/ir/raw"
)

// buildImageXObject implements §4.5/§4.6 Image: a JPEG source is embedded
// as-is under /Filter /DCTDecode (the PDF viewer decodes it directly); any
// other decodable format is re-sampled to raw RGB bytes and DEFLATE
// compressed, since PDF has no native GIF/PNG filter.
func buildImageXObject(g *objectGraph, res imageResource) (raw.RefObj, error) {
	img, _, err := image.Decode(bytes.NewReader(res.data))
	if err != nil {
		return raw.RefObj{}, err
	}
	b := img.Bounds()

	if res.contentType == "image/jpeg" {
		if _, isCMYK := img.(*image.CMYK); !isCMYK {
			return g.alloc(&raw.StreamObj{
				Dict: dict(map[string]raw.Object{
					"Type":             name("XObject"),
					"Subtype":          name("Image"),
					"Width":            integer(b.Dx()),
					"Height":           integer(b.Dy()),
					"ColorSpace":       name(jpegColorSpace(img)),
					"BitsPerComponent": integer(8),
					"Filter":           name("DCTDecode"),
					"Length":           integer(len(res.data)),
				}),
				Data: res.data,
			}), nil
		}
	}

	rgb, alpha, w, h := toRGBSamples(img)
	compressed := filters.FlateEncode(rgb)

	d := map[string]raw.Object{
		"Type":             name("XObject"),
		"Subtype":          name("Image"),
		"Width":            integer(w),
		"Height":           integer(h),
		"ColorSpace":       name("DeviceRGB"),
		"BitsPerComponent": integer(8),
		"Filter":           name("FlateDecode"),
		"Length":           integer(len(compressed)),
	}
	if alpha != nil {
		smaskCompressed := filters.FlateEncode(alpha)
		smask := g.alloc(&raw.StreamObj{
			Dict: dict(map[string]raw.Object{
				"Type": name("XObject"), "Subtype": name("Image"),
				"Width": integer(w), "Height": integer(h),
				"ColorSpace": name("DeviceGray"), "BitsPerComponent": integer(8),
				"Filter": name("FlateDecode"), "Length": integer(len(smaskCompressed)),
			}),
			Data: smaskCompressed,
		})
		d["SMask"] = smask
	}
	return g.alloc(&raw.StreamObj{Dict: dict(d), Data: compressed}), nil
}

// jpegColorSpace picks the DCTDecode /ColorSpace matching the decoded
// image's concrete pixel type (a type switch, never an == comparison —
// image/color's Model values wrap funcs and are not comparable).
func jpegColorSpace(img image.Image) string {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return "DeviceGray"
	default:
		return "DeviceRGB"
	}
}

// toRGBSamples flattens img into row-major RGB byte triples (and a
// separate 8-bit alpha plane when the source has non-opaque pixels).
func toRGBSamples(img image.Image) (rgb, alpha []byte, w, h int) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	rgb = make([]byte, w*h*3)
	hasAlpha := false
	tmpAlpha := make([]byte, w*h)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			rgb[i*3] = byte(r >> 8)
			rgb[i*3+1] = byte(g >> 8)
			rgb[i*3+2] = byte(bl >> 8)
			tmpAlpha[i] = byte(a >> 8)
			if a>>8 != 255 {
				hasAlpha = true
			}
			i++
		}
	}
	if hasAlpha {
		alpha = tmpAlpha
	}
	return rgb, alpha, w, h
}
