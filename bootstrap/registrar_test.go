package bootstrap

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ophelios-studio/zephyrus/mux"
)

// testController declares routes through a plain function.
type testController struct {
	name   string
	routes func(r *Registrar)
}

func (c testController) Name() string { return c.name }

func (c testController) Routes(r *Registrar) { c.routes(r) }

func reply(body string) mux.Action {
	return func(w http.ResponseWriter, _ *http.Request, _ mux.Params) {
		fmt.Fprint(w, body)
	}
}

func exampleController() Controller {
	return testController{name: "example", routes: func(r *Registrar) {
		r.Get("/", "index", reply("index"))
		r.Get("/test", "test", reply("test"), Accepts("application/json"))
		r.Delete("/test", "remove", reply("delete"), Authorize("admin"))
		// Controller settings apply whatever the call order.
		r.Root("/toto").Authorize("everyone")
	}}
}

func TestJoinRoot(t *testing.T) {
	tests := []struct {
		root, pattern, want string
	}{
		{root: "", pattern: "/book", want: "/book"},
		{root: "/toto", pattern: "/", want: "/toto"},
		{root: "/toto", pattern: "", want: "/toto"},
		{root: "/toto/", pattern: "/test", want: "/toto/test"},
		{root: "/toto", pattern: "/{id:int}", want: "/toto/{id:int}"},
		{root: "/", pattern: "/", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.root+"+"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, joinRoot(tt.root, tt.pattern))
		})
	}
}

func TestCollect(t *testing.T) {
	entries, err := Collect(exampleController())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	type summary struct {
		Method string
		Info   mux.RouteInfo
	}
	var got []summary
	for _, e := range entries {
		got = append(got, summary{Method: e.Method, Info: e.Route.Info()})
	}

	assert.Equal(t, []summary{
		{Method: "GET", Info: mux.RouteInfo{Pattern: "/toto", ContentTypes: []string{"*"}, AuthorizationRules: []string{"everyone"}, Handler: "example.index"}},
		{Method: "GET", Info: mux.RouteInfo{Pattern: "/toto/test", ContentTypes: []string{"application/json"}, AuthorizationRules: []string{"everyone"}, Handler: "example.test"}},
		{Method: "DELETE", Info: mux.RouteInfo{Pattern: "/toto/test", ContentTypes: []string{"*"}, AuthorizationRules: []string{"everyone", "admin"}, Handler: "example.remove"}},
	}, got)
}

func TestCollectErrors(t *testing.T) {
	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Collect(testController{name: "bad", routes: func(r *Registrar) {
			r.Get("/{id", "show", reply(""))
		}})
		assert.ErrorIs(t, err, mux.ErrInvalidPattern)
	})

	t.Run("missing action", func(t *testing.T) {
		_, err := Collect(testController{name: "bad", routes: func(r *Registrar) {
			r.Get("/", "", reply(""))
			r.Get("/x", "x", nil)
		}})
		assert.ErrorContains(t, err, "missing action")
	})

	t.Run("errors from every controller are joined", func(t *testing.T) {
		_, err := Collect(
			testController{name: "a", routes: func(r *Registrar) { r.Get("/{", "x", reply("")) }},
			testController{name: "b", routes: func(r *Registrar) { r.Get("/}", "y", reply("")) }},
		)
		require.Error(t, err)
		assert.ErrorContains(t, err, "a.x")
		assert.ErrorContains(t, err, "b.y")
	})
}

func TestRegistrarDeclarations(t *testing.T) {
	r := newRegistrar("book")
	r.Put("/{id}", "update", reply(""), Accepts("application/json"))
	r.Patch("/{id}", "patch", reply(""))
	r.Post("/", "create", reply(""), Authorize("admin"), Authorize("owner"))
	r.Handle(http.MethodOptions, "/", "options", reply(""))

	decls := r.Declarations()
	require.Len(t, decls, 4)
	assert.Equal(t, http.MethodPut, decls[0].Method)
	assert.Equal(t, []string{"application/json"}, decls[0].ContentTypes)
	assert.Equal(t, []string{mux.ContentTypeAny}, decls[1].ContentTypes)
	assert.Equal(t, []string{"admin", "owner"}, decls[2].AuthorizationRules)
	assert.Equal(t, http.MethodOptions, decls[3].Method)
}

func TestRegister(t *testing.T) {
	repo := mux.NewRepository(nil)
	require.NoError(t, Register(repo, exampleController()))

	assert.Equal(t, 3, repo.Len())
	assert.Equal(t, []string{"DELETE", "GET"}, repo.Methods())
	assert.Len(t, repo.FindRoutes(http.MethodGet, "/toto"), 1)
}

func TestRegisterLaterControllerReplaces(t *testing.T) {
	first := testController{name: "first", routes: func(r *Registrar) { r.Get("/same", "a", reply("first")) }}
	second := testController{name: "second", routes: func(r *Registrar) { r.Get("/same", "b", reply("second")) }}

	repo := mux.NewRepository(nil)
	require.NoError(t, Register(repo, first, second))

	routes := repo.GetRoutes(http.MethodGet)
	require.Len(t, routes, 1)
	assert.Equal(t, "second.b", routes[0].Info().Handler)
}

func TestHandlers(t *testing.T) {
	set, err := Handlers(exampleController())
	require.NoError(t, err)
	assert.Len(t, set, 3)

	for _, name := range []string{"example.index", "example.test", "example.remove"} {
		_, ok := set.ResolveHandler(name)
		assert.True(t, ok, name)
	}
}
