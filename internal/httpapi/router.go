package httpapi

import (
	"net/http"

	"recruit-engine/internal/csrf"
)

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	now := d.clock()
	tokens := Middleware(csrf.Protect(d.CSRFKey, http.HandlerFunc(csrfFailed)))
	protect := func(h http.HandlerFunc) http.HandlerFunc { return guard(tokens, d.Limiter, h) }

	hh := HealthHandler{Hub: d.Hub, Views: d.Views}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Job management page and its view events
	jh := JobsHandler{Store: d.Store, Hub: d.Hub, CfgVal: d.CfgVal, Views: d.Views, Now: now}
	mux.HandleFunc("/employer/jobs/{$}", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: tokens(http.HandlerFunc(jh.Page)).ServeHTTP,
	}))
	mux.HandleFunc("/employer/jobs/view/query", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: protect(jh.Query),
	}))
	mux.HandleFunc("/employer/jobs/view/status", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: protect(jh.Status),
	}))
	mux.HandleFunc("/employer/jobs/view/sort", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: protect(jh.Sort),
	}))
	mux.HandleFunc("/employer/jobs/view/deactivate/{id}", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: protect(jh.Trigger),
	}))
	mux.HandleFunc("/employer/jobs/view/confirm", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: protect(jh.Confirm),
	}))
	mux.HandleFunc("/employer/jobs/view/cancel", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: protect(jh.Cancel),
	}))
	mux.HandleFunc("/employer/jobs/{id}/duplicate", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: protect(jh.Duplicate),
	}))
	mux.HandleFunc("/employer/jobs/{id}/applications/{$}", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Applications,
	}))

	nh := NotifyHandler{Settings: d.Store, Hub: d.Hub}
	mux.HandleFunc("/employer/toggle_notify/{$}", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  nh.Get,
		http.MethodPost: protect(nh.Set),
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: protect(ch.Put),
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
