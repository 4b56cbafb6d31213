// Package navigation holds the site's navigation table and the rules that
// turn the shared header/footer fragments into page-specific markup.
package navigation

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Class prefixes used by the shipped fragments.
const (
	ClassNavLink      = "nav-link"
	ClassDropdownLink = "dropdown-link"
	ClassFooterLink   = "hover:text-white transition-colors"
	ClassFooterAccent = "text-gray-400 hover:text-brand-orange transition-colors font-semibold"
	ClassMobileLink   = "py-2 px-4 text-dark-gray font-semibold hover:bg-light-gray rounded"
)

// ActiveClass is appended to the class list of the current page's entry.
const ActiveClass = "active"

// Entry is one logical link target. It may appear in the desktop nav, the
// mobile nav and the footer nav of every page.
type Entry struct {
	ID   string `yaml:"id" json:"id"`
	Page string `yaml:"page" json:"page"`
	// Root marks a page that lives at the site root rather than in the
	// subpages directory.
	Root bool `yaml:"root" json:"root,omitempty"`
	// DesktopClass is the class prefix of the desktop nav anchor; empty
	// when the entry is not in the desktop nav.
	DesktopClass string `yaml:"desktop_class" json:"desktop_class,omitempty"`
	Mobile       bool   `yaml:"mobile" json:"mobile,omitempty"`
	// FooterClass is the class prefix of the footer anchor; empty when the
	// entry is not in the footer.
	FooterClass string `yaml:"footer_class" json:"footer_class,omitempty"`
}

// Validate validates a single entry.
func (e Entry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Page, validation.Required),
	)
}

// Table is the closed set of navigation entries plus the path layout they
// resolve against.
type Table struct {
	PagesDir    string  `yaml:"pages_dir" json:"pages_dir"`
	Logo        string  `yaml:"logo" json:"logo"`
	MobileClass string  `yaml:"mobile_class" json:"mobile_class"`
	Entries     []Entry `yaml:"entries" json:"entries"`
}

// Validate checks that the table is usable: ids are unique and exactly one
// root entry exists to serve as the home link.
func (t *Table) Validate() error {
	if err := validation.ValidateStruct(t,
		validation.Field(&t.PagesDir, validation.Required),
		validation.Field(&t.Logo, validation.Required),
		validation.Field(&t.MobileClass, validation.Required),
		validation.Field(&t.Entries, validation.Required),
	); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(t.Entries))
	roots := 0
	for _, e := range t.Entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("navigation: entry %q: %w", e.ID, err)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("navigation: duplicate entry %q", e.ID)
		}
		seen[e.ID] = struct{}{}
		if e.Root {
			roots++
		}
	}
	if roots != 1 {
		return fmt.Errorf("navigation: want exactly one root entry, got %d", roots)
	}
	return nil
}

// Lookup returns the entry with the given id.
func (t *Table) Lookup(id string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Home returns the root entry.
func (t *Table) Home() Entry {
	for _, e := range t.Entries {
		if e.Root {
			return e
		}
	}
	return Entry{ID: "home", Page: "index.html", Root: true}
}

// DefaultTable returns the navigation of the shipped site.
func DefaultTable() *Table {
	return &Table{
		PagesDir:    "pages",
		Logo:        "images/Logo.png",
		MobileClass: ClassMobileLink,
		Entries: []Entry{
			{ID: "home", Page: "index.html", Root: true, DesktopClass: ClassNavLink, Mobile: true},
			{ID: "urgent", Page: "urgent-primary-care.html", DesktopClass: ClassDropdownLink, Mobile: true, FooterClass: ClassFooterLink},
			{ID: "sports", Page: "sports-medicine.html", DesktopClass: ClassDropdownLink, Mobile: true, FooterClass: ClassFooterLink},
			{ID: "derma", Page: "dermatology.html", DesktopClass: ClassDropdownLink, Mobile: true, FooterClass: ClassFooterLink},
			{ID: "wellness", Page: "nutrition-wellness.html", DesktopClass: ClassDropdownLink, Mobile: true, FooterClass: ClassFooterLink},
			{ID: "occupational", Page: "occupational-health.html", DesktopClass: ClassDropdownLink, Mobile: true, FooterClass: ClassFooterLink},
			{ID: "about", Page: "about.html", DesktopClass: ClassNavLink, Mobile: true},
			{ID: "insurance", Page: "insurance.html", DesktopClass: ClassNavLink, Mobile: true},
			{ID: "careers", Page: "careers.html", FooterClass: ClassFooterAccent},
		},
	}
}
