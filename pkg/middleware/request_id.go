package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/verdict-ci/verdict/pkg/requestid"
)

// RequestID takes the request ID from the x-request-id header, or from
// chi's built-in middleware when present, or generates a fresh one, and
// injects it into the request context for the handlers and the request
// logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("x-request-id")
		if id == "" {
			id = middleware.GetReqID(r.Context())
		}
		if id == "" {
			id = requestid.Generate()
		}

		ctx := requestid.ToContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
