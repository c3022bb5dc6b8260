package credstore

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves assets from root on any unmatched path. "/" maps to
// index.html; anything resolving outside root is refused.
func StaticHandler(root string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeError(w, http.StatusNotFound, "NotFound", "not found")
			return
		}

		name := strings.TrimSuffix(r.URL.Path, "/")
		if name == "" {
			name = "/index.html"
		}

		full := filepath.Join(root, filepath.FromSlash(name))
		if rel, err := filepath.Rel(root, full); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			http.Error(w, "403 Forbidden", http.StatusForbidden)
			return
		}

		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			http.Error(w, "404 Not Found", http.StatusNotFound)
			return
		}

		data, err := os.ReadFile(full)
		if err != nil {
			http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
			return
		}

		ctype := mime.TypeByExtension(filepath.Ext(full))
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ctype)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			w.Write(data)
		}
	})
}
