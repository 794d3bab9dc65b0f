package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout wraps a handler to bound the request context. Payment submissions
// use it so a stalled gateway cannot hold a handler past the server timeout.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
