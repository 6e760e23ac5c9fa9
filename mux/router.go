package mux

import (
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// Router resolves requests against a Repository and dispatches the matched
// route's handler.
//
// It implements the http.Handler interface:
//
//	repo := mux.NewRepository(nil)
//	repo.Get("/book/{id:int}", mux.Func("book.show", show))
//	http.ListenAndServe(":8080", mux.NewRouter(repo))
type Router struct {
	// NotFoundHandler is called when no route matches the path.
	// If nil, http.NotFoundHandler() is used.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler is called when the path only matches routes
	// of other methods. The Allow header is set before it is invoked.
	MethodNotAllowedHandler http.Handler

	// NotAcceptableHandler is called when routes match but none accepts
	// the request content type.
	NotAcceptableHandler http.Handler

	// ForbiddenHandler is called when the Authorizer denies the route.
	ForbiddenHandler http.Handler

	repo        *Repository
	authorizer  Authorizer
	logger      *zap.Logger
	middlewares []MiddlewareFunc
	skipClean   bool

	// chain is the middleware stack wrapped around routeHandler. It does
	// not depend on the matched route, so table swaps leave it valid.
	chain atomic.Pointer[http.Handler]
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAuthorizer sets the collaborator evaluating authorization rules.
// Without one, any route declaring rules is denied.
func WithAuthorizer(a Authorizer) RouterOption {
	return func(r *Router) {
		r.authorizer = a
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *zap.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter returns a router serving the routes of repo.
func NewRouter(repo *Repository, opts ...RouterOption) *Router {
	r := &Router{
		repo:   repo,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Repository returns the repository the router reads from.
func (r *Router) Repository() *Repository {
	return r.repo
}

// SkipClean disables dot-segment removal of the request path.
func (r *Router) SkipClean(value bool) *Router {
	r.skipClean = value
	return r
}

// Use appends middleware to the chain. Middleware is applied to matched
// handlers only.
func (r *Router) Use(mwf ...MiddlewareFunc) {
	r.middlewares = append(r.middlewares, mwf...)
	r.chain.Store(nil)
}

// ServeHTTP dispatches the handler of the matched route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// Normalize the request path per RFC 3986 Section 5.2.4
	// (removing dot segments) unless SkipClean is enabled.
	if !r.skipClean {
		if cleaned := cleanPath(req.URL.Path); cleaned != req.URL.Path {
			u := *req.URL
			u.Path = cleaned
			u.RawPath = ""
			req = req.Clone(req.Context())
			req.URL = &u
		}
	}

	match, err := r.Resolve(req)
	if err != nil {
		r.logger.Debug("route not resolved",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		r.fallback(match, err).ServeHTTP(w, req)
		return
	}

	if rules := match.Route.authorizationRules; len(rules) > 0 {
		if r.authorizer == nil || !r.authorizer.Authorize(req, rules) {
			r.logger.Debug("route forbidden",
				zap.String("route", match.Route.Route()),
				zap.Strings("rules", rules))
			handlerOr(r.ForbiddenHandler, defaultForbiddenHandler).ServeHTTP(w, req)
			return
		}
	}

	req = setRouteContext(req, match)
	r.handler().ServeHTTP(w, req)
}

// Resolve finds the route for req. Candidates come from FindRoutes in
// their sorted order; the first one whose accepted content types satisfy
// the request wins. A request without Accept or Content-Type header
// skips negotiation.
//
// Matching runs on the decoded req.URL.Path, so an escaped slash such as
// /book/a%2Fb counts as a segment separator and never fills a single
// placeholder.
func (r *Router) Resolve(req *http.Request) (*RouteMatch, error) {
	path := req.URL.Path
	candidates := r.repo.FindRoutes(req.Method, path)
	if len(candidates) == 0 {
		if allowed := r.allowedMethods(req.Method, path); len(allowed) > 0 {
			return &RouteMatch{Allowed: allowed}, ErrMethodMismatch
		}
		return nil, ErrNotFound
	}

	header := negotiationHeader(req)
	for _, d := range candidates {
		contentType, ok := "", true
		if header != "" {
			contentType, ok = d.Negotiate(header)
		}
		if !ok {
			continue
		}
		params, _ := d.Params(path)
		return &RouteMatch{
			Route:       d,
			Params:      params,
			ContentType: contentType,
			Candidates:  candidates,
		}, nil
	}
	return &RouteMatch{Candidates: candidates}, ErrNotAcceptable
}

func (r *Router) fallback(match *RouteMatch, err error) http.Handler {
	switch {
	case errors.Is(err, ErrMethodMismatch):
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			// RFC 9110 Section 15.5.6: a 405 response MUST carry Allow.
			w.Header().Set("Allow", strings.Join(match.Allowed, ", "))
			handlerOr(r.MethodNotAllowedHandler, defaultMethodNotAllowedHandler).ServeHTTP(w, req)
		})
	case errors.Is(err, ErrNotAcceptable):
		return handlerOr(r.NotAcceptableHandler, defaultNotAcceptableHandler)
	default:
		return handlerOr(r.NotFoundHandler, defaultNotFoundHandler)
	}
}

// handler returns routeHandler wrapped in the middleware chain, building
// it on first use after Use.
func (r *Router) handler() http.Handler {
	if h := r.chain.Load(); h != nil {
		return *h
	}
	var h http.Handler = routeHandler{}
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i].Middleware(h)
	}
	if r.chain.CompareAndSwap(nil, &h) {
		return h
	}
	return *r.chain.Load()
}

// allowedMethods returns the other methods that have a route matching path,
// sorted alphabetically.
func (r *Router) allowedMethods(method, path string) []string {
	var allowed []string
	for _, m := range methodsForPath(r.repo, path) {
		if m != method {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

// routeHandler invokes the callback of the route stored in the request
// context with its params.
type routeHandler struct{}

func (routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := CurrentRoute(r)
	if route == nil || route.callback == nil {
		defaultNotFoundHandler.ServeHTTP(w, r)
		return
	}
	route.callback.Invoke(w, r, RouteParams(r))
}
