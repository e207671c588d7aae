package middleware

import (
	"net/http"

	"taskdesk/internal/app/reqctx"
)

// RequestContext returns middleware that creates a new reqctx.RequestContext
// for each HTTP request and stores it in the request context. Downstream
// handlers and application services use it to collect non-blocking warnings
// and to read the caller principal.
//
// This middleware should be registered before Auth (which overwrites the
// principal once the token is verified) and before any handler that reads
// warnings.
func RequestContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := reqctx.New(reqctx.Anonymous)
			ctx := reqctx.WithRequestContext(r.Context(), rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
