package muxhandlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ophelios-studio/zephyrus/mux"
)

// RecoveryMiddleware returns a middleware that recovers from panics in
// route handlers. The panic is logged with the matched route pattern and
// the client receives 500 Internal Server Error.
func RecoveryMiddleware(logger *zap.Logger) mux.MiddlewareFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					fields := []zap.Field{
						zap.Any("panic", err),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("request_id", RequestIDFromContext(r.Context())),
					}
					if route := mux.CurrentRoute(r); route != nil {
						fields = append(fields, zap.String("route", route.Route()))
					}
					logger.Error("handler panic", fields...)

					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
