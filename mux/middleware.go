package mux

import (
	"net/http"
	"strings"
)

// MiddlewareFunc is a function which receives an http.Handler and returns
// another http.Handler. It can be used to wrap matched route handlers with
// behavior such as logging or request IDs.
type MiddlewareFunc func(http.Handler) http.Handler

// Middleware allows MiddlewareFunc to implement the Middleware interface.
func (mw MiddlewareFunc) Middleware(handler http.Handler) http.Handler {
	return mw(handler)
}

// CORSMethodMiddleware sets the Access-Control-Allow-Methods response
// header (Fetch Standard, CORS protocol) to every method of repo that has a
// route matching the request path.
func CORSMethodMiddleware(repo *Repository) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if methods := methodsForPath(repo, req.URL.Path); len(methods) > 0 {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
			}
			next.ServeHTTP(w, req)
		})
	}
}

func methodsForPath(repo *Repository, path string) []string {
	var methods []string
	for _, m := range repo.Methods() {
		if len(repo.FindRoutes(m, path)) > 0 {
			methods = append(methods, m)
		}
	}
	return methods
}
