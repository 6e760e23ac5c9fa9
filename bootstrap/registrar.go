package bootstrap

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/ophelios-studio/zephyrus/mux"
)

// Controller declares a group of routes. Name identifies the controller in
// handler names ("name.action") and must be stable across builds, since
// cached tables refer to handlers by it.
type Controller interface {
	Name() string
	Routes(r *Registrar)
}

// Declaration is one route declared by a controller, before the
// controller root and authorization rules are applied.
type Declaration struct {
	Method             string
	Pattern            string
	Action             string
	Fn                 mux.Action
	ContentTypes       []string
	AuthorizationRules []string
}

// DeclareOption adjusts a Declaration.
type DeclareOption func(*Declaration)

// Accepts sets the content types the route accepts.
func Accepts(types ...string) DeclareOption {
	return func(d *Declaration) {
		d.ContentTypes = types
	}
}

// Authorize adds authorization rules to the route.
func Authorize(rules ...string) DeclareOption {
	return func(d *Declaration) {
		d.AuthorizationRules = append(d.AuthorizationRules, rules...)
	}
}

// Registrar collects the declarations of one controller. The root prefix
// and controller-wide rules apply to every declaration regardless of the
// order of calls.
type Registrar struct {
	controller   string
	root         string
	rules        []string
	declarations []Declaration
}

func newRegistrar(controller string) *Registrar {
	return &Registrar{controller: controller}
}

// Root prefixes every pattern of the controller.
func (r *Registrar) Root(prefix string) *Registrar {
	r.root = prefix
	return r
}

// Authorize adds rules evaluated before every action of the controller,
// ahead of the rules of each route.
func (r *Registrar) Authorize(rules ...string) *Registrar {
	r.rules = append(r.rules, rules...)
	return r
}

// Get declares a GET route.
func (r *Registrar) Get(pattern, action string, fn mux.Action, opts ...DeclareOption) {
	r.Handle(http.MethodGet, pattern, action, fn, opts...)
}

// Post declares a POST route.
func (r *Registrar) Post(pattern, action string, fn mux.Action, opts ...DeclareOption) {
	r.Handle(http.MethodPost, pattern, action, fn, opts...)
}

// Put declares a PUT route.
func (r *Registrar) Put(pattern, action string, fn mux.Action, opts ...DeclareOption) {
	r.Handle(http.MethodPut, pattern, action, fn, opts...)
}

// Patch declares a PATCH route.
func (r *Registrar) Patch(pattern, action string, fn mux.Action, opts ...DeclareOption) {
	r.Handle(http.MethodPatch, pattern, action, fn, opts...)
}

// Delete declares a DELETE route.
func (r *Registrar) Delete(pattern, action string, fn mux.Action, opts ...DeclareOption) {
	r.Handle(http.MethodDelete, pattern, action, fn, opts...)
}

// Handle declares a route for an arbitrary method.
func (r *Registrar) Handle(method, pattern, action string, fn mux.Action, opts ...DeclareOption) {
	d := Declaration{
		Method:       method,
		Pattern:      pattern,
		Action:       action,
		Fn:           fn,
		ContentTypes: []string{mux.ContentTypeAny},
	}
	for _, opt := range opts {
		opt(&d)
	}
	r.declarations = append(r.declarations, d)
}

// Declarations returns the declarations collected so far.
func (r *Registrar) Declarations() []Declaration {
	return slices.Clone(r.declarations)
}

// Entry is a compiled route ready to be added to a repository.
type Entry struct {
	Method string
	Route  *mux.RouteDefinition
}

// entries compiles the declarations with the root and controller rules
// applied.
func (r *Registrar) entries() ([]Entry, error) {
	var (
		entries []Entry
		errs    []error
	)
	for _, d := range r.declarations {
		if d.Action == "" || d.Fn == nil {
			errs = append(errs, fmt.Errorf("bootstrap: %s %s %s: missing action", r.controller, d.Method, d.Pattern))
			continue
		}
		def, err := mux.NewRouteDefinition(joinRoot(r.root, d.Pattern))
		if err != nil {
			errs = append(errs, fmt.Errorf("bootstrap: %s.%s: %w", r.controller, d.Action, err))
			continue
		}
		rules := append(slices.Clone(r.rules), d.AuthorizationRules...)
		def.SetAcceptedContentTypes(d.ContentTypes).
			SetAuthorizationRules(rules).
			SetCallback(mux.Method(r.controller, d.Action, d.Fn))
		entries = append(entries, Entry{Method: d.Method, Route: def})
	}
	return entries, errors.Join(errs...)
}

// joinRoot prefixes pattern with root. The root pattern "/" maps to the
// root itself, so Root("/toto") with Get("/") serves "/toto".
func joinRoot(root, pattern string) string {
	root = strings.TrimRight(root, "/")
	if root == "" {
		return pattern
	}
	if pattern == "" || pattern == "/" {
		return root
	}
	return root + pattern
}

// Collect runs the Routes method of every controller and returns the
// compiled entries in declaration order.
func Collect(controllers ...Controller) ([]Entry, error) {
	var (
		all  []Entry
		errs []error
	)
	for _, c := range controllers {
		reg := newRegistrar(c.Name())
		c.Routes(reg)
		entries, err := reg.entries()
		if err != nil {
			errs = append(errs, err)
		}
		all = append(all, entries...)
	}
	return all, errors.Join(errs...)
}

// Register adds the entries of controllers to repo.
func Register(repo *mux.Repository, controllers ...Controller) error {
	entries, err := Collect(controllers...)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := repo.AddRoute(e.Method, e.Route); err != nil {
			return fmt.Errorf("bootstrap: %s %s: %w", e.Method, e.Route.Route(), err)
		}
	}
	return nil
}

// Handlers returns the named handlers declared by controllers, for binding
// a cached table.
func Handlers(controllers ...Controller) (mux.HandlerSet, error) {
	entries, err := Collect(controllers...)
	if err != nil {
		return nil, err
	}
	set := make(mux.HandlerSet, len(entries))
	for _, e := range entries {
		if err := set.Add(e.Route.Callback()); err != nil {
			return nil, err
		}
	}
	return set, nil
}
