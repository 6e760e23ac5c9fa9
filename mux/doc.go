// Package mux implements the Zephyrus route repository and request router.
//
// # Route definitions
//
// A RouteDefinition pairs a path template with the content types it
// accepts, the authorization rules guarding it and the handler it invokes.
// Templates contain literal segments and placeholders enclosed in curly
// braces, optionally followed by a colon and a regular expression:
//
//	/book/{id}
//	/articles/{category}/{id:[0-9]+}
//
// Matching is anchored and case-sensitive, and the request path must have
// exactly as many segments as the template. There is no trailing slash
// leniency and there are no optional segments. The empty template is the
// root path "/".
//
// # Pattern Macros
//
// Instead of writing full regex patterns, named macros can be used in
// placeholder definitions with the {name:macro} syntax:
//
//	uuid     - RFC 4122 UUID (e.g. 550e8400-e29b-41d4-a716-446655440000)
//	int      - unsigned integer (e.g. 42)
//	float    - decimal number (e.g. 3.14, 42, .5)
//	slug     - URL-safe slug (e.g. my-post-title)
//	alpha    - alphabetic characters (e.g. hello)
//	alphanum - alphanumeric characters (e.g. abc123)
//	date     - ISO 8601 date (e.g. 2024-01-15)
//	hex      - hexadecimal string (e.g. deadBEEF)
//	domain   - domain name per RFC 1123 (e.g. example.com)
//
// If the name after the colon does not match a known macro, it is
// treated as a raw regular expression.
//
// # Repository
//
// A Repository holds the route table keyed by HTTP method and then by raw
// pattern; registering the same pattern twice under a method replaces the
// first definition:
//
//	repo := mux.NewRepository(cache)
//	repo.Get("/book/{id:int}", mux.Method("book", "show", show))
//	repo.Post("/books", mux.Method("book", "create", create),
//		mux.WithContentTypes("application/json"),
//		mux.WithAuthorizationRules("admin"))
//
// FindRoutes returns every definition matching a path, sorted by plain
// byte order of the raw pattern. When several templates match the same
// path the order is therefore lexical, not by specificity:
// "/users/me" sorts before "/users/{id}" because 'm' < '{'.
//
// # Route cache
//
// The table can be written to a TableCache together with its build time
// and loaded back by another process. Handlers are stored by name, so only
// handlers created with Method or Func can be cached; InitializeFromCache
// binds the names back through a HandlerResolver such as HandlerSet.
//
// # Router
//
// Router serves a Repository over HTTP. It takes the first candidate from
// FindRoutes whose accepted content types are contained in the request's
// Accept header (or Content-Type when Accept is missing), then evaluates
// the route's authorization rules through its Authorizer:
//
//	authz := mux.NewRuleAuthorizer().
//		Rule("everyone", func(*http.Request) bool { return true })
//	router := mux.NewRouter(repo, mux.WithAuthorizer(authz))
//
// Unmatched paths get 404, paths matching only other methods get 405 with
// an Allow header, failed negotiation gets 406 and denied authorization
// gets 403.
//
// Path parameters are available to handlers as Params and through the
// request context:
//
//	id := mux.RouteParams(r).ByName("id")
package mux
