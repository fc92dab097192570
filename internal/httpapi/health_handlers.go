package httpapi

import (
	"net/http"

	"recruit-engine/internal/events"
)

type HealthHandler struct {
	Hub   *events.Hub
	Views *ViewRegistry
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"ok":          true,
		"views":       h.Views.Len(),
		"subscribers": h.Hub.Subscribers(),
		"dropped":     h.Hub.Dropped(),
	})
}
