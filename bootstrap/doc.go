// Package bootstrap feeds controller route declarations into a
// mux.Repository and keeps the route cache in step with the controllers
// source tree.
//
// Controllers declare their routes through a Registrar, the Go form of the
// Root, Authorize and Get/Post/... attributes:
//
//	func (c *BookController) Routes(r *bootstrap.Registrar) {
//		r.Root("/books").Authorize("everyone")
//		r.Get("/", "index", c.index)
//		r.Get("/{id:int}", "show", c.show, bootstrap.Accepts("application/json"))
//		r.Delete("/{id:int}", "remove", c.remove, bootstrap.Authorize("admin"))
//	}
//
// A Loader decides at start-up whether the cached table is still valid by
// comparing its build time with the last modification of the controllers
// tree, and a Watcher rebuilds the table while the process runs.
package bootstrap
