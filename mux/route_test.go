package mux

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouteDefinition(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		d, err := NewRouteDefinition("/book/{id:int}")
		require.NoError(t, err)
		assert.Equal(t, "/book/{id:int}", d.Route())
		assert.Equal(t, []string{ContentTypeAny}, d.AcceptedContentTypes())
		assert.Empty(t, d.AuthorizationRules())
		assert.Nil(t, d.Callback())
		assert.Equal(t, []string{"id"}, d.VarNames())
		assert.Equal(t, `^/book/(?P<v0>[0-9]+)$`, d.Regexp())
	})

	t.Run("empty pattern is root", func(t *testing.T) {
		d, err := NewRouteDefinition("")
		require.NoError(t, err)
		assert.Equal(t, "/", d.Route())
		assert.True(t, d.MatchURL("/"))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := NewRouteDefinition("/book/{id")
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("must panics on invalid pattern", func(t *testing.T) {
		assert.Panics(t, func() { MustRouteDefinition("/book/{id") })
	})
}

func TestRouteDefinitionSetters(t *testing.T) {
	types := []string{"application/json"}
	rules := []string{"admin"}

	d := MustRouteDefinition("/book").
		SetAcceptedContentTypes(types).
		SetAuthorizationRules(rules).
		SetCallback(Func("book.index", func(http.ResponseWriter, *http.Request, Params) {}))

	types[0] = "text/html"
	rules[0] = "everyone"

	assert.Equal(t, []string{"application/json"}, d.AcceptedContentTypes())
	assert.Equal(t, []string{"admin"}, d.AuthorizationRules())

	got := d.AcceptedContentTypes()
	got[0] = "mutated"
	assert.Equal(t, []string{"application/json"}, d.AcceptedContentTypes())

	assert.Equal(t, RouteInfo{
		Pattern:            "/book",
		ContentTypes:       []string{"application/json"},
		AuthorizationRules: []string{"admin"},
		Handler:            "book.index",
	}, d.Info())
}

func TestRouteDefinitionSettersNormalizeEmpty(t *testing.T) {
	d := MustRouteDefinition("/book").
		SetAcceptedContentTypes([]string{""}).
		SetAuthorizationRules([]string{})

	assert.Equal(t, []string{ContentTypeAny}, d.AcceptedContentTypes())
	assert.Nil(t, d.AuthorizationRules())

	d.SetAcceptedContentTypes(nil)
	assert.Equal(t, []string{ContentTypeAny}, d.AcceptedContentTypes())
}

func TestRouteDefinitionMatchURL(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "literal", pattern: "/book/new", path: "/book/new", want: true},
		{name: "literal is case sensitive", pattern: "/book/new", path: "/Book/new", want: false},
		{name: "placeholder", pattern: "/book/{id}", path: "/book/12", want: true},
		{name: "extra segment", pattern: "/book/{id}", path: "/book/12/edit", want: false},
		{name: "missing segment", pattern: "/book/{id}/edit", path: "/book/edit", want: false},
		{name: "trailing slash is a segment", pattern: "/book", path: "/book/", want: false},
		{name: "prefix does not match", pattern: "/book", path: "/bookshelf", want: false},
		{name: "int rejects letters", pattern: "/book/{id:int}", path: "/book/abc", want: false},
		{name: "literal beats placeholder shape", pattern: "/users/me", path: "/users/42", want: false},
		{name: "root", pattern: "/", path: "/", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustRouteDefinition(tt.pattern).MatchURL(tt.path))
		})
	}
}

func TestRouteDefinitionParams(t *testing.T) {
	d := MustRouteDefinition("/book/{id:int}/chapter/{chapter}")

	params, ok := d.Params("/book/7/chapter/intro")
	require.True(t, ok)
	assert.Equal(t, "7", params.ByName("id"))
	assert.Equal(t, "intro", params.ByName("chapter"))
	assert.Equal(t, map[string]string{"id": "7", "chapter": "intro"}, params.Map())

	_, ok = d.Params("/book/x/chapter/intro")
	assert.False(t, ok)
}

func TestParams(t *testing.T) {
	p := Params{{Name: "a", Value: "1"}, {Name: "b", Value: ""}}

	v, ok := p.Get("b")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = p.Get("c")
	assert.False(t, ok)
	assert.Empty(t, p.ByName("c"))

	var empty Params
	assert.Nil(t, empty.Map())
}

func TestRouteDefinitionNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		types  []string
		header string
		want   string
		ok     bool
	}{
		{name: "any accepts everything", types: []string{ContentTypeAny}, header: "image/png", want: ContentTypeAny, ok: true},
		{name: "exact type", types: []string{"application/json"}, header: "application/json", want: "application/json", ok: true},
		{name: "contained in list", types: []string{"application/json"}, header: "text/html, application/json;q=0.9", want: "application/json", ok: true},
		{name: "first accepted type wins", types: []string{"application/xml", "application/json"}, header: "application/json, application/xml", want: "application/xml", ok: true},
		{name: "quality is ignored", types: []string{"text/html"}, header: "text/html;q=0", want: "text/html", ok: true},
		{name: "wildcard header is not expanded", types: []string{"application/json"}, header: "*/*", ok: false},
		{name: "no overlap", types: []string{"application/json"}, header: "text/html", ok: false},
		{name: "empty list accepts everything", types: nil, header: "application/json", want: ContentTypeAny, ok: true},
		{name: "empty entry is dropped", types: []string{"", "application/xml"}, header: "application/json", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := MustRouteDefinition("/").SetAcceptedContentTypes(tt.types)
			got, ok := d.Negotiate(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
