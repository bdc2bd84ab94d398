package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/agentstation/continuity/internal/server/response"
	"github.com/agentstation/continuity/internal/site"
)

// siteFiles maps request paths to the rendered files served from the site
// directory. Nothing else in that directory is reachable.
var siteFiles = map[string]string{
	"/":                   site.IndexFile,
	"/" + site.IndexFile:  site.IndexFile,
	"/" + site.FeedFile:   site.FeedFile,
	"/" + site.DigestFile: site.DigestFile,
}

// siteHandler serves the rendered site. The site directory defaults to the
// repository root, so it is never exposed as a file tree.
func (s *Server) siteHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			response.MethodNotAllowed(w, r.Method)
			return
		}

		name, ok := siteFiles[r.URL.Path]
		if !ok {
			response.NotFound(w, "Not found", r.URL.Path)
			return
		}

		f, err := os.Open(filepath.Join(s.config.SiteDir, name))
		if err != nil {
			response.NotFound(w, "Site not rendered yet", r.URL.Path)
			return
		}
		defer func() { _ = f.Close() }()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			response.NotFound(w, "Not found", r.URL.Path)
			return
		}
		http.ServeContent(w, r, name, info.ModTime(), f)
	})
}
