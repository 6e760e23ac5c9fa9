// Package demo holds the sample controllers served by the zephyrus command.
package demo

import (
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/ophelios-studio/zephyrus/bootstrap"
	"github.com/ophelios-studio/zephyrus/mux"
)

// RoleHeader carries the caller role checked by the "admin" rule.
const RoleHeader = "X-Role"

// Controllers returns the sample controllers.
func Controllers() []bootstrap.Controller {
	return []bootstrap.Controller{
		NewBookController(),
		&ExampleController{},
	}
}

// Authorizer returns the rules used by the sample controllers.
func Authorizer() *mux.RuleAuthorizer {
	return mux.NewRuleAuthorizer().
		Rule("everyone", func(*http.Request) bool { return true }).
		Rule("admin", func(r *http.Request) bool { return r.Header.Get(RoleHeader) == "admin" })
}

// Book is a catalogue entry.
type Book struct {
	ID    int    `json:"id" xml:"id"`
	Title string `json:"title" xml:"title"`
}

// BookController serves an in-memory catalogue.
type BookController struct {
	mu    sync.RWMutex
	books map[int]Book
	next  int
}

// NewBookController returns a controller with a small catalogue.
func NewBookController() *BookController {
	return &BookController{
		books: map[int]Book{
			1: {ID: 1, Title: "Les Misérables"},
			2: {ID: 2, Title: "Maria Chapdelaine"},
		},
		next: 3,
	}
}

func (c *BookController) Name() string { return "book" }

func (c *BookController) Routes(r *bootstrap.Registrar) {
	r.Root("/book").Authorize("everyone")
	r.Get("/", "index", c.index, bootstrap.Accepts("application/json", "application/xml"))
	r.Get("/new", "form", c.form)
	r.Get("/{id:int}", "show", c.show, bootstrap.Accepts("application/json", "application/xml"))
	r.Post("/", "create", c.create, bootstrap.Accepts("application/json"), bootstrap.Authorize("admin"))
	r.Delete("/{id:int}", "remove", c.remove, bootstrap.Authorize("admin"))
}

func (c *BookController) index(w http.ResponseWriter, r *http.Request, _ mux.Params) {
	c.mu.RLock()
	books := make([]Book, 0, len(c.books))
	for _, b := range c.books {
		books = append(books, b)
	}
	c.mu.RUnlock()
	slices.SortFunc(books, func(a, b Book) int { return a.ID - b.ID })
	mux.Respond(w, r, http.StatusOK, books)
}

func (c *BookController) form(w http.ResponseWriter, _ *http.Request, _ mux.Params) {
	mux.ResponsePlain(w, http.StatusOK, "new book form")
}

func (c *BookController) show(w http.ResponseWriter, r *http.Request, p mux.Params) {
	id, _ := strconv.Atoi(p.ByName("id"))
	c.mu.RLock()
	b, ok := c.books[id]
	c.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	mux.Respond(w, r, http.StatusOK, b)
}

func (c *BookController) create(w http.ResponseWriter, r *http.Request, _ mux.Params) {
	title := r.URL.Query().Get("title")
	if title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	b := Book{ID: c.next, Title: title}
	c.books[b.ID] = b
	c.next++
	c.mu.Unlock()
	mux.ResponseJSON(w, http.StatusCreated, b)
}

func (c *BookController) remove(w http.ResponseWriter, _ *http.Request, p mux.Params) {
	id, _ := strconv.Atoi(p.ByName("id"))
	c.mu.Lock()
	delete(c.books, id)
	c.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// ExampleController answers every verb on a shared root with plain text.
type ExampleController struct{}

func (c *ExampleController) Name() string { return "example" }

func (c *ExampleController) Routes(r *bootstrap.Registrar) {
	r.Root("/toto").Authorize("everyone")
	r.Get("/", "index", plain("index"))
	r.Get("/test", "test", plain("test"))
	r.Post("/login", "login", plain("this is sparta"))
	r.Put("/test", "update", plain("this is update"))
	r.Patch("/test", "partialUpdate", plain("this is partial update"), bootstrap.Authorize("admin"))
	r.Delete("/test", "remove", plain("this is delete"), bootstrap.Authorize("admin"))
}

func plain(body string) mux.Action {
	return func(w http.ResponseWriter, _ *http.Request, _ mux.Params) {
		mux.ResponsePlain(w, http.StatusOK, body)
	}
}
