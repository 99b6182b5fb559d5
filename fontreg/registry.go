package fontreg

import (
	"fmt"
	"sync"

	"github.com/pageflow/pageflow/model"
)

// Key identifies a logical font in the registry (§4.7).
type Key struct {
	Family string
	Weight int
	Italic bool
}

// Registry is the process-wide (family, weight, italic) → Face map. It is
// read-only once render() begins consuming it (§5 Concurrency), so a
// single instance may be shared across concurrent renders after
// registration completes.
type Registry struct {
	mu    sync.RWMutex
	faces map[Key]Face
}

// NewRegistry builds a registry pre-populated with the 14 standard PDF
// fonts, so a document that never calls RegisterFont still resolves
// Helvetica/Times/Courier/Symbol/ZapfDingbats.
func NewRegistry() *Registry {
	r := &Registry{faces: make(map[Key]Face)}
	std := []struct {
		key  Key
		name Standard14Name
	}{
		{Key{"Helvetica", 400, false}, Helvetica},
		{Key{"Helvetica", 700, false}, HelveticaBold},
		{Key{"Helvetica", 400, true}, HelveticaOblique},
		{Key{"Helvetica", 700, true}, HelveticaBoldOblique},
		{Key{"Times", 400, false}, TimesRoman},
		{Key{"Times", 700, false}, TimesBold},
		{Key{"Times", 400, true}, TimesItalic},
		{Key{"Times", 700, true}, TimesBoldItalic},
		{Key{"Times New Roman", 400, false}, TimesRoman},
		{Key{"Times New Roman", 700, false}, TimesBold},
		{Key{"Times New Roman", 400, true}, TimesItalic},
		{Key{"Times New Roman", 700, true}, TimesBoldItalic},
		{Key{"Courier", 400, false}, Courier},
		{Key{"Courier", 700, false}, CourierBold},
		{Key{"Courier", 400, true}, CourierOblique},
		{Key{"Courier", 700, true}, CourierBoldOblique},
		{Key{"Symbol", 400, false}, Symbol},
		{Key{"ZapfDingbats", 400, false}, ZapfDingbats},
	}
	for _, e := range std {
		r.faces[e.key] = newStandard14Face(e.name)
	}
	return r
}

// RegisterFont parses and registers a custom FontSpec's TrueType/OpenType
// bytes under (Family, Weight, Italic). §4.1 accepts src as a data URI or
// base64 payload; RegisterFont decodes either via model.DecodeDataURI.
func (r *Registry) RegisterFont(spec model.FontSpec) error {
	data, _, err := model.DecodeDataURI(spec.Src)
	if err != nil {
		return &FontError{Family: spec.Family, Reason: err.Error()}
	}
	face, err := newTrueTypeFace(spec.Family, spec.Weight, spec.Italic, data)
	if err != nil {
		return &FontError{Family: spec.Family, Reason: err.Error()}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faces[Key{spec.Family, spec.Weight, spec.Italic}] = face
	return nil
}

// FontError is returned when custom font bytes are unreadable or a
// required table is missing (§7). There is no fallback substitute: the
// caller asked for a specific font by name.
type FontError struct {
	Family string
	Reason string
}

func (e *FontError) Error() string {
	return fmt.Sprintf("FontError: font %q: %s", e.Family, e.Reason)
}

// Lookup resolves (family, weight, italic) using the §4.7 fallback chain:
// exact match → closest weight (same italic) → same family any weight →
// Helvetica at requested weight → Helvetica default.
func (r *Registry) Lookup(family string, weight int, italic bool) Face {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.faces[Key{family, weight, italic}]; ok {
		return f
	}
	if f := r.closestWeight(family, weight, italic); f != nil {
		return f
	}
	if f := r.anyWeight(family, italic); f != nil {
		return f
	}
	if f, ok := r.faces[Key{"Helvetica", weight, italic}]; ok {
		return f
	}
	if f, ok := r.faces[Key{"Helvetica", weight, false}]; ok {
		return f
	}
	return r.faces[Key{"Helvetica", 400, false}]
}

func (r *Registry) closestWeight(family string, weight int, italic bool) Face {
	var best Face
	bestDelta := 1 << 30
	for k, f := range r.faces {
		if k.Family != family || k.Italic != italic {
			continue
		}
		d := k.Weight - weight
		if d < 0 {
			d = -d
		}
		if d < bestDelta {
			bestDelta = d
			best = f
		}
	}
	return best
}

func (r *Registry) anyWeight(family string, italic bool) Face {
	var best Face
	for k, f := range r.faces {
		if k.Family != family {
			continue
		}
		if k.Italic == italic {
			return f
		}
		best = f
	}
	return best
}

// FaceFor resolves the Face for a resolved style's font properties.
func (r *Registry) FaceFor(family string, weight int, italic bool) Face {
	return r.Lookup(family, weight, italic)
}
