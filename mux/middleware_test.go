package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareFunc(t *testing.T) {
	mw := MiddlewareFunc(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Wrapped", "1")
			next.ServeHTTP(w, r)
		})
	})

	w := httptest.NewRecorder()
	mw.Middleware(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "1", w.Header().Get("X-Wrapped"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSMethodMiddleware(t *testing.T) {
	repo := NewRepository(nil)
	require.NoError(t, repo.Get("/toto/test", Func("example.test", noop)))
	require.NoError(t, repo.Put("/toto/test", Func("example.update", noop)))
	require.NoError(t, repo.Delete("/toto/test", Func("example.delete", noop)))
	require.NoError(t, repo.Post("/toto/login", Func("example.login", noop)))

	r := NewRouter(repo)
	r.Use(CORSMethodMiddleware(repo))

	t.Run("lists every method of the path", func(t *testing.T) {
		w := serve(t, r, http.MethodGet, "/toto/test", nil)
		assert.Equal(t, "DELETE,GET,PUT", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("single method", func(t *testing.T) {
		w := serve(t, r, http.MethodPost, "/toto/login", nil)
		assert.Equal(t, "POST", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("unmatched path sets nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		CORSMethodMiddleware(repo)(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nothing", nil))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
	})
}
