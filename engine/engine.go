// Package engine wires the parse → resolve → layout → serialize pipeline
// together (§6): it accepts a document JSON payload and returns rendered
// PDF bytes, optionally alongside the LayoutInfo inspection structure.
package engine

import (
	"fmt"

	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/layout"
	"github.com/pageflow/pageflow/model"
	"github.com/pageflow/pageflow/observability"
	"github.com/pageflow/pageflow/pdfwrite"
)

// Options configures a render. The zero value is usable: a fresh font
// registry (standard-14 only), a NopLogger, and A4 default page size.
type Options struct {
	logger      observability.Logger
	registry    *fontreg.Registry
	defaultPage *model.PageConfig
}

// Option mutates an Options during construction (functional-options, §
// Configuration).
type Option func(*Options)

// WithLogger overrides the NopLogger default with a caller-supplied
// structured logger.
func WithLogger(l observability.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithFontRegistry supplies a pre-populated registry (e.g. shared across
// many renders in a long-lived process) instead of a fresh standard-14-only
// one.
func WithFontRegistry(r *fontreg.Registry) Option {
	return func(o *Options) { o.registry = r }
}

// WithDefaultPage overrides the engine-wide default page configuration
// applied to any run of top-level non-Page children. A Page node that
// omits its own config uses model.DefaultPageConfig (A4), not this value.
func WithDefaultPage(pc model.PageConfig) Option {
	return func(o *Options) { o.defaultPage = &pc }
}

func resolveOptions(opts []Option) *Options {
	o := &Options{logger: observability.NopLogger{}, registry: fontreg.NewRegistry()}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// RenderError wraps a failure with the §7 error-kind it maps to
// (ParseError, FontError or InternalError — the only fatal kinds render/
// render_with_layout can surface; image and layout degradations are
// non-fatal and returned as warnings alongside a successful PDF).
type RenderError struct {
	Kind    string
	Context string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Result is the output of RenderWithLayout: the PDF bytes, the parallel
// LayoutInfo structure (§6), and any non-fatal warnings recorded during
// layout or image decoding.
type Result struct {
	PDF      []byte
	Layout   DocumentInfo
	Warnings []layout.Warning
}

// Render implements the render(document_json) → pdf_bytes engine-level
// API of §6.
func Render(documentJSON []byte, opts ...Option) ([]byte, error) {
	res, err := RenderWithLayout(documentJSON, opts...)
	if err != nil {
		return nil, err
	}
	return res.PDF, nil
}

// RenderWithLayout implements render_with_layout(document_json) →
// {pdf, layout} of §6.
func RenderWithLayout(documentJSON []byte, opts ...Option) (*Result, error) {
	o := resolveOptions(opts)

	doc, err := model.ParseDocument(documentJSON)
	if err != nil {
		return nil, &RenderError{Kind: "ParseError", Context: err.Error(), Err: err}
	}
	if o.defaultPage != nil {
		doc.DefaultPage = *o.defaultPage
	}

	for _, spec := range doc.Fonts {
		if err := o.registry.RegisterFont(spec); err != nil {
			return nil, &RenderError{Kind: "FontError", Context: err.Error(), Err: err}
		}
	}

	laidOut, warnings, err := layout.Layout(doc, o.registry)
	if err != nil {
		return nil, &RenderError{Kind: "InternalError", Context: err.Error(), Err: err}
	}
	o.logger.Info("layout complete", observability.Int("pages", len(laidOut.Pages)), observability.Int("warnings", len(warnings)))

	for _, w := range warnings {
		o.logger.Warn(w.Message, observability.String("kind", string(w.Kind)))
	}

	pdfBytes, err := pdfwrite.Write(laidOut, doc.Metadata)
	if err != nil {
		return nil, &RenderError{Kind: "InternalError", Context: err.Error(), Err: err}
	}

	return &Result{
		PDF:      pdfBytes,
		Layout:   buildLayoutInfo(laidOut),
		Warnings: warnings,
	}, nil
}
