package mux

import "errors"

var (
	// ErrInvalidPattern is returned when a route template cannot be compiled.
	ErrInvalidPattern = errors.New("mux: invalid route pattern")

	// ErrInvalidMethod is returned when a route is registered under a
	// method that is not a valid RFC 9110 token.
	ErrInvalidMethod = errors.New("mux: invalid http method")

	// ErrNilRoute is returned when a nil definition is added to a repository.
	ErrNilRoute = errors.New("mux: nil route definition")

	// ErrHandlerNotNamed is returned when a table holding an anonymous
	// handler is written to the route cache.
	ErrHandlerNotNamed = errors.New("mux: handler has no name")

	// ErrUnresolvedHandler is returned when a cached route references a
	// handler name that the resolver does not know.
	ErrUnresolvedHandler = errors.New("mux: unresolved handler")

	// ErrMethodMismatch is returned when the path matches a route registered
	// under another method. Triggers 405 Method Not Allowed per
	// RFC 9110 Section 15.5.6.
	ErrMethodMismatch = errors.New("mux: method is not allowed")

	// ErrNotFound is returned when no route matches the path.
	ErrNotFound = errors.New("mux: no matching route was found")

	// ErrNotAcceptable is returned when routes match the path but none of
	// them accepts the request content type.
	ErrNotAcceptable = errors.New("mux: no route accepts the requested content type")
)
