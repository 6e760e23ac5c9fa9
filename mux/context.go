package mux

import (
	"context"
	"net/http"
)

// routeContextKey is an unexported type for the single context key.
type routeContextKey struct{}

// ctxKey is the single context key used to store the route and its params.
var ctxKey = routeContextKey{}

// routeContext holds the matched route, extracted params and the
// negotiated content type.
type routeContext struct {
	route       *RouteDefinition
	params      Params
	contentType string
}

func fromContext(r *http.Request) *routeContext {
	rc, _ := r.Context().Value(ctxKey).(*routeContext)
	return rc
}

// RouteParams returns the path parameters of the current request, if any.
func RouteParams(r *http.Request) Params {
	if rc := fromContext(r); rc != nil {
		return rc.params
	}
	return nil
}

// Vars returns the path parameters of the current request as a map.
func Vars(r *http.Request) map[string]string {
	return RouteParams(r).Map()
}

// VarGet returns the value of a single path parameter by name and whether
// it exists.
func VarGet(r *http.Request, name string) (string, bool) {
	return RouteParams(r).Get(name)
}

// CurrentRoute returns the definition matched for the current request.
// This only works inside the handler of the matched route or its
// middleware.
func CurrentRoute(r *http.Request) *RouteDefinition {
	if rc := fromContext(r); rc != nil {
		return rc.route
	}
	return nil
}

// NegotiatedContentType returns the accepted content type selected for the
// current request.
func NegotiatedContentType(r *http.Request) string {
	if rc := fromContext(r); rc != nil {
		return rc.contentType
	}
	return ""
}

// SetRouteParams returns a copy of r carrying params. This is intended for
// testing handlers without a router.
func SetRouteParams(r *http.Request, params Params) *http.Request {
	rc := &routeContext{params: params}
	if prev := fromContext(r); prev != nil {
		rc.route = prev.route
		rc.contentType = prev.contentType
	}
	return r.WithContext(context.WithValue(r.Context(), ctxKey, rc))
}

func setRouteContext(r *http.Request, m *RouteMatch) *http.Request {
	rc := &routeContext{route: m.Route, params: m.Params, contentType: m.ContentType}
	return r.WithContext(context.WithValue(r.Context(), ctxKey, rc))
}

// RouteMatch stores information about a resolved request.
type RouteMatch struct {
	// Route is the selected definition.
	Route *RouteDefinition

	// Params are the extracted path parameters.
	Params Params

	// ContentType is the accepted content type that satisfied negotiation.
	ContentType string

	// Candidates are every definition whose pattern matched, in lookup order.
	Candidates []*RouteDefinition

	// Allowed lists the other methods with a matching route. It is filled
	// when resolution fails with ErrMethodMismatch.
	Allowed []string
}
