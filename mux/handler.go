package mux

import (
	"fmt"
	"net/http"
)

// Action is the signature of controller actions and route functions.
type Action func(w http.ResponseWriter, r *http.Request, p Params)

// Handler is the target bound to a route definition.
type Handler interface {
	Invoke(w http.ResponseWriter, r *http.Request, p Params)
}

// Named is implemented by handlers that have a stable name. Only named
// handlers survive a round trip through the route cache.
type Named interface {
	HandlerName() string
}

// HandlerResolver binds handler names read from the route cache back to
// handlers.
type HandlerResolver interface {
	ResolveHandler(name string) (Handler, bool)
}

// HandlerFunc adapts an anonymous function to Handler. It has no name and
// therefore cannot be cached.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, p Params)

// Invoke calls f(w, r, p).
func (f HandlerFunc) Invoke(w http.ResponseWriter, r *http.Request, p Params) {
	f(w, r, p)
}

// boundMethod is an action bound to a controller.
type boundMethod struct {
	controller string
	action     string
	fn         Action
}

// Method binds fn as the action named action of controller. The handler
// name is "controller.action".
func Method(controller, action string, fn Action) Handler {
	return &boundMethod{controller: controller, action: action, fn: fn}
}

func (m *boundMethod) Invoke(w http.ResponseWriter, r *http.Request, p Params) {
	m.fn(w, r, p)
}

func (m *boundMethod) HandlerName() string {
	return m.controller + "." + m.action
}

// Controller returns the controller name.
func (m *boundMethod) Controller() string { return m.controller }

// Action returns the action name.
func (m *boundMethod) Action() string { return m.action }

// namedFunc is a free function registered under a name.
type namedFunc struct {
	name string
	fn   Action
}

// Func returns a handler for a free function registered under name.
func Func(name string, fn Action) Handler {
	return &namedFunc{name: name, fn: fn}
}

func (f *namedFunc) Invoke(w http.ResponseWriter, r *http.Request, p Params) {
	f.fn(w, r, p)
}

func (f *namedFunc) HandlerName() string {
	return f.name
}

// HandlerNameOf returns the name of h, if it has one.
func HandlerNameOf(h Handler) (string, bool) {
	if n, ok := h.(Named); ok && n.HandlerName() != "" {
		return n.HandlerName(), true
	}
	return "", false
}

// HandlerSet indexes named handlers. It implements HandlerResolver.
type HandlerSet map[string]Handler

// NewHandlerSet returns a set holding handlers.
func NewHandlerSet(handlers ...Handler) (HandlerSet, error) {
	s := make(HandlerSet, len(handlers))
	for _, h := range handlers {
		if err := s.Add(h); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add indexes h by name. A later handler with the same name replaces the
// earlier one.
func (s HandlerSet) Add(h Handler) error {
	name, ok := HandlerNameOf(h)
	if !ok {
		return fmt.Errorf("%w: %T", ErrHandlerNotNamed, h)
	}
	s[name] = h
	return nil
}

// ResolveHandler implements HandlerResolver.
func (s HandlerSet) ResolveHandler(name string) (Handler, bool) {
	h, ok := s[name]
	return h, ok
}
