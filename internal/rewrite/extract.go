// Package rewrite implements the two page transforms: extraction of the
// live header/footer into loader placeholders, and inlining of the shared
// fragments back into a page.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/starford/sitefrag/internal/apperr"
	"github.com/starford/sitefrag/internal/parser"
)

// Placeholder markers shared by both passes.
const (
	HeaderComment = "Header Placeholder"
	HeaderDivID   = "header-placeholder"
	FooterComment = "Footer Placeholder"
	FooterDivID   = "footer-placeholder"
)

// ExtractOptions configures the trailer written after the footer placeholder.
type ExtractOptions struct {
	// Scripts are emitted as <script src="..."></script>, in order.
	Scripts     []string
	AOSDuration int
	AOSOnce     bool
}

// DefaultExtractOptions returns the trailer used by the shipped subpages.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Scripts: []string{
			"https://unpkg.com/aos@2.3.1/dist/aos.js",
			"../js/header-footer-loader.js",
			"../js/main.js",
		},
		AOSDuration: 800,
		AOSOnce:     true,
	}
}

// Extractor replaces literal header/footer markup with loader placeholders.
type Extractor struct {
	headerBlock string
	footerBlock string
}

// NewExtractor creates an Extractor with the given trailer options.
func NewExtractor(opts ExtractOptions) *Extractor {
	return &Extractor{
		headerBlock: "\n\n    <!-- " + HeaderComment + " -->\n    <div id=\"" + HeaderDivID + "\"></div>",
		footerBlock: footerBlock(opts),
	}
}

func footerBlock(opts ExtractOptions) string {
	var b strings.Builder
	b.WriteString("    <!-- " + FooterComment + " -->\n")
	b.WriteString("    <div id=\"" + FooterDivID + "\"></div>\n")
	b.WriteString("    \n")
	for _, src := range opts.Scripts {
		fmt.Fprintf(&b, "    <script src=\"%s\"></script>\n", src)
	}
	b.WriteString("    <script>\n")
	b.WriteString("        AOS.init({\n")
	fmt.Fprintf(&b, "            duration: %d,\n", opts.AOSDuration)
	fmt.Fprintf(&b, "            once: %t,\n", opts.AOSOnce)
	b.WriteString("        });\n")
	b.WriteString("    </script>\n")
	b.WriteString("\n</body>")
	return b.String()
}

// Extract rewrites src. The header region (`<body …>` through `</header>`)
// becomes the page's own body tag followed by the header placeholder; the
// footer region (`<footer …>` through `</body>`) becomes the footer
// placeholder plus the script trailer.
//
// The body tag is kept as written, attributes included; it is not replaced
// by a fixed one.
//
// A region whose placeholder is already present is left alone, so running
// Extract on its own output changes nothing. A region with neither a
// placeholder nor its structural tags is an error.
func (x *Extractor) Extract(src []byte) ([]byte, error) {
	doc, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	var header, footer *parser.Span
	if !doc.HasComment(HeaderComment) {
		s, ok := doc.Through("body", "header")
		if !ok {
			return nil, fmt.Errorf("extract header: %w", apperr.ErrRegionNotFound)
		}
		header = &s
	}
	if !doc.HasComment(FooterComment) {
		s, ok := doc.Through("footer", "body")
		if !ok {
			return nil, fmt.Errorf("extract footer: %w", apperr.ErrRegionNotFound)
		}
		footer = &s
	}
	if header != nil && footer != nil && footer.Start < header.End {
		return nil, fmt.Errorf("extract: footer starts inside header region: %w", apperr.ErrInvalidPage)
	}

	out := src
	// Later region first so the header span stays valid.
	if footer != nil {
		out = parser.Splice(out, *footer, []byte(x.footerBlock))
	}
	if header != nil {
		body, _ := doc.StartTag("body")
		repl := string(doc.Text(body)) + x.headerBlock
		out = parser.Splice(out, *header, []byte(repl))
	}
	return out, nil
}
