package format

import "strings"

// Package format holds the static conversion-compatibility tables: which
// target formats are legal for a given source MIME type, and which file
// extension a produced MIME type maps to. The tables are immutable
// configuration injected at construction so dispatch logic stays independent
// of the data.

// Well-known MIME types handled by the conversion engine.
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEGIF  = "image/gif"
	MIMEBMP  = "image/bmp"
	MIMETIFF = "image/tiff"
	MIMEWEBP = "image/webp"

	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMETXT  = "text/plain"
	MIMECSV  = "text/csv"
	MIMEZIP  = "application/zip"
)

// TargetUnsupported is the sentinel default target for source types with no
// conversion edges.
const TargetUnsupported = "unsupported"

// Target is one legal conversion destination for a source MIME type.
type Target struct {
	Label string `json:"label"`
	MIME  string `json:"mime"`
}

// Resolver answers which targets a source MIME type may convert to and which
// extension an output MIME type maps to. It is safe for concurrent use; the
// tables are copied at construction and never mutated.
type Resolver struct {
	edges map[string][]Target
	exts  map[string]string
}

// NewResolver builds a Resolver from an edge table and an extension table.
func NewResolver(edges map[string][]Target, exts map[string]string) *Resolver {
	e := make(map[string][]Target, len(edges))
	for src, targets := range edges {
		e[src] = append([]Target(nil), targets...)
	}
	x := make(map[string]string, len(exts))
	for mime, ext := range exts {
		x[mime] = ext
	}
	return &Resolver{edges: e, exts: x}
}

// NewDefaultResolver builds a Resolver over the built-in tables.
func NewDefaultResolver() *Resolver {
	return NewResolver(DefaultEdges(), DefaultExtensions())
}

// TargetsFor returns the ordered list of legal targets for the source MIME
// type. An empty list means the source is unsupported.
func (r *Resolver) TargetsFor(mime string) []Target {
	targets := r.edges[mime]
	if len(targets) == 0 {
		return nil
	}
	return append([]Target(nil), targets...)
}

// DefaultTarget returns the first legal target for the source MIME type, or
// TargetUnsupported when the source has no edges.
func (r *Resolver) DefaultTarget(mime string) string {
	if targets := r.edges[mime]; len(targets) > 0 {
		return targets[0].MIME
	}
	return TargetUnsupported
}

// Supported reports whether target is a legal destination for source.
func (r *Resolver) Supported(source, target string) bool {
	for _, t := range r.edges[source] {
		if t.MIME == target {
			return true
		}
	}
	return false
}

// Sources returns every source MIME type present in the edge table.
func (r *Resolver) Sources() []string {
	out := make([]string, 0, len(r.edges))
	for src := range r.edges {
		out = append(out, src)
	}
	return out
}

// ExtensionFor maps an output MIME type to a file extension (without dot).
// Types absent from the fixed table fall back to the MIME subtype, then "bin".
func (r *Resolver) ExtensionFor(mime string) string {
	if ext, ok := r.exts[mime]; ok {
		return ext
	}
	if _, sub, ok := strings.Cut(mime, "/"); ok && sub != "" {
		return sub
	}
	return "bin"
}

// DefaultEdges is the built-in compatibility table. Every target reachable
// here has a corresponding converter registered by convert.NewDefaultRegistry;
// the two are kept in lockstep by a test that walks this table.
func DefaultEdges() map[string][]Target {
	return map[string][]Target{
		MIMEPNG:  {{"JPEG Image", MIMEJPEG}, {"PDF Document", MIMEPDF}},
		MIMEJPEG: {{"PNG Image", MIMEPNG}, {"PDF Document", MIMEPDF}},
		MIMEGIF:  {{"PNG Image", MIMEPNG}, {"JPEG Image", MIMEJPEG}, {"PDF Document", MIMEPDF}},
		MIMEBMP:  {{"PNG Image", MIMEPNG}, {"JPEG Image", MIMEJPEG}, {"PDF Document", MIMEPDF}},
		MIMETIFF: {{"PNG Image", MIMEPNG}, {"JPEG Image", MIMEJPEG}, {"PDF Document", MIMEPDF}},
		MIMEWEBP: {{"JPEG Image", MIMEJPEG}, {"PNG Image", MIMEPNG}, {"PDF Document", MIMEPDF}},
		MIMEPDF: {
			{"Word (DOCX)", MIMEDOCX},
			{"Excel (XLSX)", MIMEXLSX},
			{"Text (TXT)", MIMETXT},
			{"Images (ZIP)", MIMEZIP},
		},
		MIMEDOCX: {{"PDF Document", MIMEPDF}, {"Text (TXT)", MIMETXT}},
		MIMEPPTX: {{"PDF Document", MIMEPDF}, {"Images (ZIP)", MIMEZIP}},
		MIMEXLSX: {{"PDF Document", MIMEPDF}, {"Text (TXT)", MIMETXT}, {"CSV", MIMECSV}},
		MIMETXT:  {{"PDF Document", MIMEPDF}},
	}
}

// DefaultExtensions is the fixed MIME-to-extension table used by the export
// gate. Anything else falls back to the MIME subtype (see ExtensionFor).
func DefaultExtensions() map[string]string {
	return map[string]string{
		MIMEDOCX: "docx",
		MIMEXLSX: "xlsx",
		MIMEPPTX: "pptx",
		MIMETXT:  "txt",
		MIMEPDF:  "pdf",
		MIMEZIP:  "zip",
	}
}
