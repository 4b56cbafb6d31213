package rewrite

import (
	"bytes"
	"fmt"

	"github.com/starford/sitefrag/internal/apperr"
	"github.com/starford/sitefrag/internal/models"
	"github.com/starford/sitefrag/internal/navigation"
	"github.com/starford/sitefrag/internal/parser"
)

const blankLine = "\n\n"

// Fragments holds the raw shared header and footer markup.
type Fragments struct {
	Header string
	Footer string
}

// Inliner embeds page-specific copies of the shared fragments into pages.
type Inliner struct {
	table   *navigation.Table
	frags   Fragments
	loaders [][]byte
}

// NewInliner creates an Inliner. loaderScript is the site-relative path of
// the client-side loader (e.g. js/header-footer-loader.js); its script tag
// is removed from inlined pages in both the home and subpage spelling.
func NewInliner(table *navigation.Table, frags Fragments, loaderScript string) *Inliner {
	in := &Inliner{table: table, frags: frags}
	if loaderScript != "" {
		for _, src := range []string{loaderScript, "../" + loaderScript} {
			in.loaders = append(in.loaders, []byte(`<script src="`+src+`"></script>`))
		}
	}
	return in
}

// Inline rewrites src for page. The header goes where the header
// placeholder is or, failing that, between the `<body …>` tag and the first
// `</header>`; the footer goes where the footer placeholder is or replaces
// the `<footer>` element.
func (in *Inliner) Inline(src []byte, page models.Page) ([]byte, error) {
	header := in.table.RenderHeader(in.frags.Header, page)
	footer := in.table.RenderFooter(in.frags.Footer, page)

	out, err := inlineHeader(src, header)
	if err != nil {
		return nil, err
	}
	out, err = inlineFooter(out, footer)
	if err != nil {
		return nil, err
	}
	for _, tag := range in.loaders {
		out = bytes.ReplaceAll(out, tag, nil)
	}
	return out, nil
}

func inlineHeader(src []byte, header string) ([]byte, error) {
	doc, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	if s, ok := doc.Placeholder(HeaderComment, HeaderDivID); ok {
		return parser.Splice(src, s, []byte(header)), nil
	}
	region, ok := doc.Through("body", "header")
	if !ok {
		return nil, fmt.Errorf("inline header: %w", apperr.ErrRegionNotFound)
	}
	body, _ := doc.StartTag("body")
	// Keep the body tag and its attributes.
	region.Start = body.End

	repl := blankLine + header
	if !bytes.HasPrefix(src[region.End:], []byte(blankLine)) {
		repl += blankLine
	}
	return parser.Splice(src, region, []byte(repl)), nil
}

func inlineFooter(src []byte, footer string) ([]byte, error) {
	doc, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	if s, ok := doc.Placeholder(FooterComment, FooterDivID); ok {
		return parser.Splice(src, s, []byte(footer)), nil
	}
	region, ok := doc.Element("footer")
	if !ok {
		return nil, fmt.Errorf("inline footer: %w", apperr.ErrRegionNotFound)
	}
	return parser.Splice(src, region, []byte(footer)), nil
}
