package convert

import "convertapi/internal/format"

// Options carries the engine tunables every routine shares.
type Options struct {
	// JPEGQuality applies to raster-to-JPEG encodes.
	JPEGQuality int
	// RenderDPI is the rasterization density for page-to-image conversions.
	// 72 is a 1:1 rendering; 144 doubles the pixel dimensions for quality.
	RenderDPI float64
	// PageMarginMM is the margin for generated text-layout pages.
	PageMarginMM float64
	// SlideWidth/SlideHeight are the pixel dimensions of rasterized slides.
	SlideWidth  int
	SlideHeight int
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		JPEGQuality:  90,
		RenderDPI:    144,
		PageMarginMM: 15,
		SlideWidth:   1280,
		SlideHeight:  720,
	}
}

// NewDefaultRegistry wires every implemented conversion pair. The pairs here
// and the resolver's edge table must stay in lockstep: no entry without an
// implementation, no implementation without an entry.
func NewDefaultRegistry(opts Options, surfaces *SurfacePool) *Registry {
	r := NewRegistry()

	// Raster image -> raster image / page document.
	type rasterEdge struct{ source, target string }
	rasterPairs := []rasterEdge{
		{format.MIMEPNG, format.MIMEJPEG},
		{format.MIMEJPEG, format.MIMEPNG},
		{format.MIMEGIF, format.MIMEPNG},
		{format.MIMEGIF, format.MIMEJPEG},
		{format.MIMEBMP, format.MIMEPNG},
		{format.MIMEBMP, format.MIMEJPEG},
		{format.MIMETIFF, format.MIMEPNG},
		{format.MIMETIFF, format.MIMEJPEG},
		{format.MIMEWEBP, format.MIMEJPEG},
		{format.MIMEWEBP, format.MIMEPNG},
	}
	for _, p := range rasterPairs {
		r.Register(p.source, p.target, NewImageConverter(p.target, opts.JPEGQuality))
	}
	for _, src := range []string{
		format.MIMEPNG, format.MIMEJPEG, format.MIMEGIF,
		format.MIMEBMP, format.MIMETIFF, format.MIMEWEBP,
	} {
		r.Register(src, format.MIMEPDF, NewImageToPDFConverter())
	}

	// Page document -> structured/tabular/plain outputs.
	r.Register(format.MIMEPDF, format.MIMEDOCX, NewPDFToDocxConverter())
	r.Register(format.MIMEPDF, format.MIMEXLSX, NewPDFToXlsxConverter())
	r.Register(format.MIMEPDF, format.MIMETXT, NewPDFToTextConverter())
	r.Register(format.MIMEPDF, format.MIMEZIP, NewPDFToImagesConverter(opts.RenderDPI))

	// Rich document.
	r.Register(format.MIMEDOCX, format.MIMEPDF, NewDocxToPDFConverter(opts.PageMarginMM))
	r.Register(format.MIMEDOCX, format.MIMETXT, NewDocxToTextConverter())

	// Presentation.
	r.Register(format.MIMEPPTX, format.MIMEPDF, NewPptxToPDFConverter())
	r.Register(format.MIMEPPTX, format.MIMEZIP, NewPptxToImagesConverter(surfaces, opts.SlideWidth, opts.SlideHeight))

	// Tabular document.
	r.Register(format.MIMEXLSX, format.MIMEPDF, NewXlsxToPDFConverter(opts.PageMarginMM))
	r.Register(format.MIMEXLSX, format.MIMETXT, NewXlsxToTextConverter())
	r.Register(format.MIMEXLSX, format.MIMECSV, NewXlsxToCSVConverter())

	// Plain text.
	r.Register(format.MIMETXT, format.MIMEPDF, NewTextToPDFConverter(opts.PageMarginMM))

	return r
}
