package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/phuslu/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Str("template", name).Msg("render failed")
		WriteError(w, r, http.StatusInternalServerError, "render_failed", "could not render page")
		return
	}
	writeHTML(w, status, template.HTML(buf.String()))
}

func writeHTML(w http.ResponseWriter, status int, body template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
