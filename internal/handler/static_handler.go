package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"crewchat/internal/pkg/errs"
	"crewchat/internal/pkg/resp"
)

// HandleIndex serves index.html from the static directory.
func HandleIndex(staticDir string) http.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(index); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotFound))
			return
		}
		http.ServeFile(w, r, index)
	}
}

// StaticFiles serves the static directory under the given URL prefix.
func StaticFiles(prefix, staticDir string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.Dir(staticDir)))
}
