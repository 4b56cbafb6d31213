package api

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// dbSuffixes mark journal files and their WAL/SHM/journal companions.
var dbSuffixes = []string{".db", ".sqlite", ".sqlite3"}

// StaticHandler serves the site root for preview. Responses are marked
// uncacheable so a reload after a rewrite always shows the new page.
//
// Only site content is served: dot-prefixed path segments, database files
// and everything at or below one of the hidden paths answer 404. Hidden
// paths are files or directories, resolved against the working directory;
// a hidden path equal to the root itself is ignored.
func StaticHandler(root string, hidden ...string) http.Handler {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = filepath.Clean(root)
	}
	var deny []string
	for _, h := range hidden {
		if h == "" {
			continue
		}
		abs, err := filepath.Abs(h)
		if err != nil || abs == absRoot {
			continue
		}
		deny = append(deny, abs)
	}

	files := http.FileServer(http.Dir(absRoot))
	return middleware.NoCache(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !servable(absRoot, deny, r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}

func servable(root string, deny []string, urlPath string) bool {
	clean := path.Clean("/" + urlPath)
	for _, seg := range strings.Split(clean, "/") {
		if strings.HasPrefix(seg, ".") {
			return false
		}
	}
	if isDatabase(path.Base(clean)) {
		return false
	}
	target := filepath.Join(root, filepath.FromSlash(clean))
	for _, d := range deny {
		if target == d || strings.HasPrefix(target, d+string(filepath.Separator)) {
			return false
		}
	}
	return true
}

func isDatabase(name string) bool {
	name = strings.ToLower(name)
	for _, ext := range dbSuffixes {
		if strings.HasSuffix(name, ext) || strings.Contains(name, ext+"-") {
			return true
		}
	}
	return false
}
