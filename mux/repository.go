package mux

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/http/httpguts"
)

// TableCache persists a serialized route table together with the time it
// was built. *routecache.Cache implements it.
type TableCache interface {
	Read() ([]byte, bool, error)
	Write(table []byte) error
	IsOutdated(since time.Time) (bool, error)
	Clear() error
}

// RouteOption configures a definition created by the registration methods.
type RouteOption func(*RouteDefinition)

// WithContentTypes sets the accepted content types.
func WithContentTypes(types ...string) RouteOption {
	return func(d *RouteDefinition) {
		d.SetAcceptedContentTypes(types)
	}
}

// WithAuthorizationRules sets the authorization rule identifiers.
func WithAuthorizationRules(rules ...string) RouteOption {
	return func(d *RouteDefinition) {
		d.SetAuthorizationRules(rules)
	}
}

// Repository owns the route table, keyed by HTTP method and then by raw
// pattern. At most one definition exists per method and pattern.
//
// A Repository is safe for concurrent use; lookups never observe a
// partially replaced table.
type Repository struct {
	mu     sync.RWMutex
	routes map[string]map[string]*RouteDefinition
	cache  TableCache
	format SnapshotFormat
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithSnapshotFormat sets the encoding of the cached table. Defaults to
// FormatJSON.
func WithSnapshotFormat(f SnapshotFormat) RepositoryOption {
	return func(r *Repository) {
		if f != "" {
			r.format = f
		}
	}
}

// NewRepository returns an empty repository backed by cache. A nil cache
// behaves as a cache that never holds anything.
func NewRepository(cache TableCache, opts ...RepositoryOption) *Repository {
	r := &Repository{
		routes: make(map[string]map[string]*RouteDefinition),
		cache:  cache,
		format: FormatJSON,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get registers a GET route. GET presents a resource or collection and
// must not alter it.
func (r *Repository) Get(pattern string, h Handler, opts ...RouteOption) error {
	return r.register(http.MethodGet, pattern, h, opts)
}

// Post registers a POST route, used to create an entry in a collection.
func (r *Repository) Post(pattern string, h Handler, opts ...RouteOption) error {
	return r.register(http.MethodPost, pattern, h, opts)
}

// Put registers a PUT route, an idempotent full update.
func (r *Repository) Put(pattern string, h Handler, opts ...RouteOption) error {
	return r.register(http.MethodPut, pattern, h, opts)
}

// Patch registers a PATCH route, an idempotent partial update.
func (r *Repository) Patch(pattern string, h Handler, opts ...RouteOption) error {
	return r.register(http.MethodPatch, pattern, h, opts)
}

// Delete registers a DELETE route.
func (r *Repository) Delete(pattern string, h Handler, opts ...RouteOption) error {
	return r.register(http.MethodDelete, pattern, h, opts)
}

func (r *Repository) register(method, pattern string, h Handler, opts []RouteOption) error {
	d, err := NewRouteDefinition(pattern)
	if err != nil {
		return err
	}
	d.SetCallback(h)
	for _, opt := range opts {
		opt(d)
	}
	return r.AddRoute(method, d)
}

// AddRoute inserts d under method, replacing any definition with the same
// pattern.
func (r *Repository) AddRoute(method string, d *RouteDefinition) error {
	if d == nil {
		return ErrNilRoute
	}
	method, err := normalizeMethod(method)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.routes[method]
	if !ok {
		bucket = make(map[string]*RouteDefinition)
		r.routes[method] = bucket
	}
	bucket[d.Route()] = d
	return nil
}

// GetRoutes returns the definitions registered under method, sorted by
// pattern. An unknown method yields an empty slice.
func (r *Repository) GetRoutes(method string) []*RouteDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedRoutes(r.routes[strings.ToUpper(method)])
}

// Table returns every definition keyed by method.
func (r *Repository) Table() map[string][]*RouteDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table := make(map[string][]*RouteDefinition, len(r.routes))
	for method, bucket := range r.routes {
		table[method] = sortedRoutes(bucket)
	}
	return table
}

// Methods returns the methods that have at least one route, sorted.
func (r *Repository) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.routes))
	for method, bucket := range r.routes {
		if len(bucket) > 0 {
			methods = append(methods, method)
		}
	}
	slices.Sort(methods)
	return methods
}

// Len returns the number of definitions across all methods.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, bucket := range r.routes {
		n += len(bucket)
	}
	return n
}

// FindRoutes returns the definitions under method that match uri, sorted
// by ascending byte order of their raw pattern. The order is a plain
// string sort, not a specificity ranking: "/item/{id}" sorts before
// "/item/{slug}" and "/users/me" before "/users/{id}".
func (r *Repository) FindRoutes(method, uri string) []*RouteDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*RouteDefinition
	for _, d := range r.routes[strings.ToUpper(method)] {
		if d.MatchURL(uri) {
			matches = append(matches, d)
		}
	}
	slices.SortFunc(matches, compareRoutes)
	return matches
}

// IsCacheOutdated reports whether the cached table is missing or was built
// before since, typically the last modification of the controllers.
func (r *Repository) IsCacheOutdated(since time.Time) (bool, error) {
	if r.cache == nil {
		return true, nil
	}
	return r.cache.IsOutdated(since)
}

// Cache writes the current table and the current time to the cache.
func (r *Repository) Cache() error {
	if r.cache == nil {
		return nil
	}
	data, err := encodeTable(r.Table(), r.format)
	if err != nil {
		return err
	}
	return r.cache.Write(data)
}

// InitializeFromCache replaces the table with the cached one, binding
// handler names through resolver. With nothing cached the table becomes
// empty. On error the table is left untouched.
func (r *Repository) InitializeFromCache(resolver HandlerResolver) error {
	routes := make(map[string]map[string]*RouteDefinition)
	if r.cache != nil {
		data, ok, err := r.cache.Read()
		if err != nil {
			return err
		}
		if ok {
			if routes, err = decodeTable(data, r.format, resolver); err != nil {
				return err
			}
		}
	}

	r.mu.Lock()
	r.routes = routes
	r.mu.Unlock()
	return nil
}

// Clear removes the cached table and empties the in-memory one.
func (r *Repository) Clear() error {
	r.Reset()
	if r.cache == nil {
		return nil
	}
	return r.cache.Clear()
}

// Reset empties the in-memory table without touching the cache.
func (r *Repository) Reset() {
	r.mu.Lock()
	r.routes = make(map[string]map[string]*RouteDefinition)
	r.mu.Unlock()
}

// Swap replaces the table with a copy of the one held by other, in a single
// step visible to concurrent lookups.
func (r *Repository) Swap(other *Repository) {
	other.mu.RLock()
	routes := make(map[string]map[string]*RouteDefinition, len(other.routes))
	for method, bucket := range other.routes {
		routes[method] = maps.Clone(bucket)
	}
	other.mu.RUnlock()

	r.mu.Lock()
	r.routes = routes
	r.mu.Unlock()
}

// normalizeMethod upper-cases method and checks it is an RFC 9110 token.
func normalizeMethod(method string) (string, error) {
	if method == "" || !httpguts.ValidHeaderFieldName(method) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	return strings.ToUpper(method), nil
}

func sortedRoutes(bucket map[string]*RouteDefinition) []*RouteDefinition {
	routes := make([]*RouteDefinition, 0, len(bucket))
	for _, d := range bucket {
		routes = append(routes, d)
	}
	slices.SortFunc(routes, compareRoutes)
	return routes
}

func compareRoutes(a, b *RouteDefinition) int {
	return strings.Compare(a.Route(), b.Route())
}
