package server

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// handleSPA serves the web client from dir. Paths that are not files fall
// back to index.html so client-side routes such as /map or /games/quick-tap
// load the app shell. Unknown /api paths still get a JSON 404.
func handleSPA(dir string) http.HandlerFunc {
	root := http.Dir(dir)
	fileServer := http.FileServer(root)
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		if f, err := root.Open(path.Clean(r.URL.Path)); err == nil {
			info, statErr := f.Stat()
			f.Close()
			if statErr == nil && !info.IsDir() {
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}
}
