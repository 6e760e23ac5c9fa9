package muxhandlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ophelios-studio/zephyrus/mux"
)

func TestAccessLogMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	repo := mux.NewRepository(nil)
	require.NoError(t, repo.Get("/book/{id:int}", mux.Func("book.show", func(w http.ResponseWriter, _ *http.Request, p mux.Params) {
		fmt.Fprint(w, "book "+p.ByName("id"))
	})))
	require.NoError(t, repo.Post("/book", mux.Func("book.create", func(w http.ResponseWriter, _ *http.Request, _ mux.Params) {
		w.WriteHeader(http.StatusCreated)
	})))

	router := mux.NewRouter(repo)
	router.Use(
		RequestIDMiddleware(RequestIDConfig{GenerateFunc: func(*http.Request) string { return "req-1" }}),
		AccessLogMiddleware(zap.New(core)),
	)

	t.Run("logs matched route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/12", nil))
		require.Equal(t, http.StatusOK, w.Code)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/book/12", fields["path"])
		assert.Equal(t, "/book/{id:int}", fields["route"])
		assert.EqualValues(t, http.StatusOK, fields["status"])
		assert.EqualValues(t, len("book 12"), fields["bytes"])
		assert.Equal(t, "req-1", fields["request_id"])
	})

	t.Run("records explicit status", func(t *testing.T) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/book", nil))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.EqualValues(t, http.StatusCreated, entries[0].ContextMap()["status"])
	})

	t.Run("unmatched requests are not logged", func(t *testing.T) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nothing", nil))
		assert.Zero(t, logs.Len())
	})
}

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w}

	rec.WriteHeader(http.StatusAccepted)
	rec.WriteHeader(http.StatusTeapot)
	n, err := rec.Write([]byte("abc"))
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusAccepted, rec.status)
	assert.Equal(t, 3, rec.bytes)
	assert.Same(t, w, rec.Unwrap())
}
