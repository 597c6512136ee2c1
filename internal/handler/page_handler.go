/*
Package handler provides the HTTP handler serving the static chat page.
*/
package handler

import (
	"net/http"
	"os"

	"minichat/internal/pkg/errs"
	"minichat/internal/pkg/logx"
	"minichat/internal/pkg/resp"
)

// HandleIndexPage serves the static chat page configured via STATIC_PAGE.
// The file is read per request so the page can be swapped without a restart;
// a read failure is reported as an internal error with no detail leaked.
func HandleIndexPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(deps.Config.StaticPage)
		if err != nil {
			logx.Error(err, "Failed to read static page", "path", deps.Config.StaticPage)
			resp.RespondError(w, r, errs.NewError(errs.ErrStaticPageUnavailable))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
