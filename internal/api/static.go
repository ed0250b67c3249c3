package api

import (
	"net/http"
	"os"
	"path/filepath"
)

// StaticHandler serves the front-end. "/" maps to index.html, "/logo.png" is
// special-cased to the configured logo file (the asset lives outside the
// static dir in the original deployment), and everything else is served from
// staticDir with the usual FileServer 404 for missing paths.
type StaticHandler struct {
	staticDir  string
	logoPath   string
	fileServer http.Handler
}

func NewStaticHandler(staticDir, logoPath string) *StaticHandler {
	return &StaticHandler{
		staticDir:  staticDir,
		logoPath:   logoPath,
		fileServer: http.FileServer(http.Dir(staticDir)),
	}
}

func (s *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/", "/index.html":
		http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
	case "/logo.png":
		if _, err := os.Stat(s.logoPath); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, s.logoPath)
	default:
		s.fileServer.ServeHTTP(w, r)
	}
}
