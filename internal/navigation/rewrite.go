package navigation

import (
	"strings"

	"github.com/starford/sitefrag/internal/models"
)

const (
	hrefPlaceholder = `href="#"`
	srcPlaceholder  = `src="#"`
)

// RenderHeader returns the header fragment prepared for page: logo link and
// image resolved, every desktop and mobile nav link pointed at its page, and
// the page's own desktop entry marked active.
func (t *Table) RenderHeader(fragment string, page models.Page) string {
	mode := page.Mode
	out := strings.Replace(fragment, hrefPlaceholder, attr("href", t.HomeHref(mode)), 1)
	out = strings.Replace(out, srcPlaceholder, attr("src", t.LogoSrc(mode)), 1)

	for _, e := range t.Entries {
		href := t.entryHref(e, mode)
		if e.DesktopClass != "" {
			marker := classAttrPrefix(e.DesktopClass, "nav-"+e.ID)
			out = strings.ReplaceAll(out,
				hrefPlaceholder+" "+marker,
				attr("href", href)+" "+marker)
		}
		if e.Mobile {
			marker := classAttrPrefix(t.MobileClass, "mobile-nav-"+e.ID)
			out = strings.ReplaceAll(out, marker, attr("href", href)+" "+marker)
		}
	}
	return t.MarkActive(out, page)
}

// RenderFooter returns the footer fragment prepared for page.
func (t *Table) RenderFooter(fragment string, page models.Page) string {
	mode := page.Mode
	out := strings.Replace(fragment, srcPlaceholder, attr("src", t.LogoSrc(mode)), 1)
	for _, e := range t.Entries {
		if e.FooterClass == "" {
			continue
		}
		marker := classAttrPrefix(e.FooterClass, "footer-nav-"+e.ID)
		out = strings.ReplaceAll(out,
			hrefPlaceholder+" "+marker,
			attr("href", t.entryHref(e, mode))+" "+marker)
	}
	return out
}

// MarkActive appends the active class to the desktop anchor of page's entry.
// It matches on the resolved href, so it must run after the links have been
// rewritten. A page with no entry leaves header unchanged.
func (t *Table) MarkActive(header string, page models.Page) string {
	e, ok := t.ActiveEntry(page)
	if !ok {
		return header
	}
	classes := e.DesktopClass + " nav-" + e.ID
	target := attr("href", t.entryHref(e, page.Mode)) + " " + attr("class", classes)
	active := attr("href", t.entryHref(e, page.Mode)) + " " + attr("class", classes+" "+ActiveClass)
	return strings.Replace(header, target, active, 1)
}

func attr(name, value string) string {
	return name + `="` + value + `"`
}

// classAttrPrefix is an open class attribute: `class="<prefix> <marker>`.
// It is left unterminated so extra classes after the marker still match.
func classAttrPrefix(prefix, marker string) string {
	return `class="` + prefix + " " + marker
}
