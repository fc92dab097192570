// Package csrf configures gorilla/csrf for the management pages: the
// token cookie is csrftoken, and a request proves itself with the
// X-CSRFToken header or the csrfmiddlewaretoken form field.
package csrf

import (
	"net/http"

	gcsrf "github.com/gorilla/csrf"
)

const (
	CookieName = "csrftoken"
	FieldName  = "csrfmiddlewaretoken"
	HeaderName = "X-CSRFToken"
)

// Protect returns middleware that issues the token cookie and rejects
// unsafe requests without a matching token by calling onFail. key must be
// 32 bytes. The engine serves plain HTTP on loopback, so requests without
// TLS are marked as such for the origin check.
func Protect(key []byte, onFail http.Handler) func(http.Handler) http.Handler {
	protect := gcsrf.Protect(key,
		gcsrf.CookieName(CookieName),
		gcsrf.FieldName(FieldName),
		gcsrf.RequestHeader(HeaderName),
		gcsrf.Path("/"),
		gcsrf.Secure(false),
		gcsrf.SameSite(gcsrf.SameSiteLaxMode),
		gcsrf.ErrorHandler(onFail),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil {
				r = gcsrf.PlaintextHTTPRequest(r)
			}
			h.ServeHTTP(w, r)
		})
	}
}

// Token is the masked token for the current request, for embedding in pages.
func Token(r *http.Request) string {
	return gcsrf.Token(r)
}

// FailureReason explains why onFail was called.
func FailureReason(r *http.Request) error {
	return gcsrf.FailureReason(r)
}
