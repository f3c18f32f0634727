package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// staticPage serves one HTML page from the static directory. A missing page
// gets the JSON 404 like any unknown route.
func (s *Server) staticPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.cfg.StaticDir, name)
		if fi, err := os.Stat(path); err != nil || fi.IsDir() {
			s.notFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}
