package navigation

import (
	"path"

	"github.com/starford/sitefrag/internal/models"
)

// Href returns the relative URL of the entry with the given id as seen from
// a page in mode. ok is false when the id is not in the table.
func (t *Table) Href(id string, mode models.Mode) (href string, ok bool) {
	e, ok := t.Lookup(id)
	if !ok {
		return "", false
	}
	return t.entryHref(e, mode), true
}

func (t *Table) entryHref(e Entry, mode models.Mode) string {
	if e.Root {
		return mode.Prefix() + e.Page
	}
	if mode == models.ModeHome {
		return path.Join(t.PagesDir, e.Page)
	}
	return e.Page
}

// HomeHref returns the link to the site root page.
func (t *Table) HomeHref(mode models.Mode) string {
	return t.entryHref(t.Home(), mode)
}

// LogoSrc returns the logo asset path as seen from a page in mode.
func (t *Table) LogoSrc(mode models.Mode) string {
	return mode.Prefix() + t.Logo
}

// ActiveEntry returns the entry that represents page in the desktop nav.
// Pages outside the desktop nav (careers) and unknown pages have none.
func (t *Table) ActiveEntry(page models.Page) (Entry, bool) {
	isHome := page.Mode == models.ModeHome
	for _, e := range t.Entries {
		if e.DesktopClass == "" || e.Root != isHome {
			continue
		}
		if e.Page == page.Name {
			return e, true
		}
	}
	return Entry{}, false
}
