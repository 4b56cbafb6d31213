// Package testutil provides shared test helpers for setting up sites and journals.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/sitefrag/internal/index"
	"github.com/starford/sitefrag/internal/storage"
)

// TestDB creates a temporary SQLite journal that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "sitefrag-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSite creates a temporary site tree with the shared fragments in
// includes/, a placeholder home page and the given subpages under pages/.
// Each entry of pages maps a file name to its content.
func TestSite(t *testing.T, pages map[string]string) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, root, "includes/header.html", HeaderFragment)
	WriteFile(t, root, "includes/footer.html", FooterFragment)
	WriteFile(t, root, "index.html", PlaceholderPage("Home", "js/header-footer-loader.js"))
	if err := os.MkdirAll(filepath.Join(root, "pages"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range pages {
		WriteFile(t, root, "pages/"+name, content)
	}

	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteFile writes content to rel under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ReadFile returns the content of rel under root.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
