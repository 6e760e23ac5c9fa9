package mux

import (
	"slices"
	"strings"
)

// ContentTypeAny accepts every request content type.
const ContentTypeAny = "*"

// Param is a single placeholder value extracted from a request path.
type Param struct {
	Name  string
	Value string
}

// Params holds extracted placeholder values in declaration order.
type Params []Param

// Get returns the value of the named parameter.
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// ByName returns the value of the named parameter or an empty string.
func (p Params) ByName(name string) string {
	v, _ := p.Get(name)
	return v
}

// Map returns the parameters as a map.
func (p Params) Map() map[string]string {
	if p == nil {
		return nil
	}
	m := make(map[string]string, len(p))
	for _, param := range p {
		m[param.Name] = param.Value
	}
	return m
}

// set keeps the first position of name and overwrites its value.
func (p Params) set(name, value string) Params {
	for i := range p {
		if p[i].Name == name {
			p[i].Value = value
			return p
		}
	}
	return append(p, Param{Name: name, Value: value})
}

// RouteDefinition is a single routable endpoint: a path template, the
// content types it accepts, the authorization rules guarding it and the
// handler it invokes.
//
// Definitions are configured through their setters before being added to a
// Repository and must not be modified afterwards.
type RouteDefinition struct {
	pattern            *routePattern
	contentTypes       []string
	authorizationRules []string
	callback           Handler
}

// RouteInfo is a plain description of a definition, used for listings and
// comparisons.
type RouteInfo struct {
	Pattern            string
	ContentTypes       []string
	AuthorizationRules []string
	Handler            string
}

// NewRouteDefinition compiles pattern into a definition that accepts any
// content type. Placeholders are written {name} or {name:regexp}, where
// regexp may also be a macro name such as int or uuid.
func NewRouteDefinition(pattern string) (*RouteDefinition, error) {
	p, err := newRoutePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &RouteDefinition{
		pattern:      p,
		contentTypes: []string{ContentTypeAny},
	}, nil
}

// MustRouteDefinition is like NewRouteDefinition but panics on error.
func MustRouteDefinition(pattern string) *RouteDefinition {
	d, err := NewRouteDefinition(pattern)
	if err != nil {
		panic(err)
	}
	return d
}

// Route returns the original, uncompiled template.
func (d *RouteDefinition) Route() string {
	return d.pattern.template
}

// Regexp returns the compiled regular expression source.
func (d *RouteDefinition) Regexp() string {
	return d.pattern.regexp.String()
}

// VarNames returns the placeholder names in declaration order.
func (d *RouteDefinition) VarNames() []string {
	return slices.Clone(d.pattern.varsN)
}

// SetAcceptedContentTypes sets the content types the route accepts, in
// preference order. ContentTypeAny accepts everything. Empty entries are
// dropped and an empty list falls back to ContentTypeAny.
func (d *RouteDefinition) SetAcceptedContentTypes(types []string) *RouteDefinition {
	types = slices.DeleteFunc(slices.Clone(types), func(t string) bool { return t == "" })
	if len(types) == 0 {
		types = []string{ContentTypeAny}
	}
	d.contentTypes = types
	return d
}

// AcceptedContentTypes returns the accepted content types.
func (d *RouteDefinition) AcceptedContentTypes() []string {
	return slices.Clone(d.contentTypes)
}

// SetAuthorizationRules sets the rule identifiers evaluated by the router's
// Authorizer before the handler runs. An empty list is stored as nil.
func (d *RouteDefinition) SetAuthorizationRules(rules []string) *RouteDefinition {
	if len(rules) == 0 {
		d.authorizationRules = nil
		return d
	}
	d.authorizationRules = slices.Clone(rules)
	return d
}

// AuthorizationRules returns the rule identifiers.
func (d *RouteDefinition) AuthorizationRules() []string {
	return slices.Clone(d.authorizationRules)
}

// SetCallback binds the handler invoked for the route.
func (d *RouteDefinition) SetCallback(h Handler) *RouteDefinition {
	d.callback = h
	return d
}

// Callback returns the bound handler, if any.
func (d *RouteDefinition) Callback() Handler {
	return d.callback
}

// MatchURL reports whether path matches the template. Literal text is
// compared case-sensitively and the number of segments must be equal.
func (d *RouteDefinition) MatchURL(path string) bool {
	return d.pattern.match(path)
}

// Params matches path and returns the extracted placeholder values.
func (d *RouteDefinition) Params(path string) (Params, bool) {
	return d.pattern.extract(path)
}

// Negotiate returns the first accepted content type contained in header.
// The check is a plain substring containment; quality values are ignored.
func (d *RouteDefinition) Negotiate(header string) (string, bool) {
	for _, t := range d.contentTypes {
		if t == ContentTypeAny || strings.Contains(header, t) {
			return t, true
		}
	}
	return "", false
}

// Info returns a plain description of the definition.
func (d *RouteDefinition) Info() RouteInfo {
	info := RouteInfo{
		Pattern:            d.Route(),
		ContentTypes:       d.AcceptedContentTypes(),
		AuthorizationRules: d.AuthorizationRules(),
	}
	if d.callback != nil {
		info.Handler, _ = HandlerNameOf(d.callback)
	}
	return info
}
