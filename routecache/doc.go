// Package routecache persists the route table and the time it was built
// in a store shared by every process serving the application.
//
// Two stores are provided: MemoryStore, visible to a single process, and
// SQLiteStore, an SQLite file shared by every process on the host:
//
//	store, err := routecache.OpenSQLiteStore("var/routes.db")
//	cache, err := routecache.New(store)
//	repo := mux.NewRepository(cache)
//
// Keys follow PSR-16 rules: they must not be empty and must not contain
// any of {}()/\@:.
package routecache
