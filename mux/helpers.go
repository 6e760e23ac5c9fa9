package mux

import (
	"net/http"
	"path"
)

var (
	defaultNotFoundHandler         = http.NotFoundHandler()
	defaultMethodNotAllowedHandler = statusHandler(http.StatusMethodNotAllowed)
	defaultNotAcceptableHandler    = statusHandler(http.StatusNotAcceptable)
	defaultForbiddenHandler        = statusHandler(http.StatusForbidden)
)

// statusHandler replies with code and its status text.
func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(code), code)
	})
}

func handlerOr(h, fallback http.Handler) http.Handler {
	if h != nil {
		return h
	}
	return fallback
}

// cleanPath returns the canonical path for p, eliminating . and .. elements
// per RFC 3986 Section 5.2.4 (remove dot segments).
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

// negotiationHeader returns the header value used for content
// negotiation: Accept, or Content-Type when Accept is absent.
func negotiationHeader(r *http.Request) string {
	if accept := r.Header.Get("Accept"); accept != "" {
		return accept
	}
	return r.Header.Get("Content-Type")
}
