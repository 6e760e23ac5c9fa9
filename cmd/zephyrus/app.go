package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ophelios-studio/zephyrus/bootstrap"
	"github.com/ophelios-studio/zephyrus/config"
	"github.com/ophelios-studio/zephyrus/internal/demo"
	"github.com/ophelios-studio/zephyrus/mux"
	"github.com/ophelios-studio/zephyrus/routecache"
)

// app bundles the components built from the configuration.
type app struct {
	cache  *routecache.Cache
	repo   *mux.Repository
	loader *bootstrap.Loader
	close  func() error
}

// openCache builds the cache store selected by the configuration. A nil
// cache means caching is disabled.
func openCache(c config.CacheConfig) (*routecache.Cache, func() error, error) {
	noop := func() error { return nil }

	var store routecache.Store
	closeFn := noop
	switch c.Driver {
	case config.DriverNone:
		return nil, noop, nil
	case config.DriverMemory:
		store = routecache.NewMemoryStore()
	case config.DriverSQLite:
		s, err := routecache.OpenSQLiteStore(c.Path)
		if err != nil {
			return nil, noop, err
		}
		store, closeFn = s, s.Close
	default:
		return nil, noop, fmt.Errorf("unknown cache driver %q", c.Driver)
	}

	cache, err := routecache.New(store, routecache.WithKeyPrefix(c.KeyPrefix))
	if err != nil {
		closeFn()
		return nil, noop, err
	}
	return cache, closeFn, nil
}

func newApp() (*app, error) {
	cache, closeFn, err := openCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	// A nil *routecache.Cache must not become a non-nil interface.
	var tc mux.TableCache
	if cache != nil {
		tc = cache
	}
	repo := mux.NewRepository(tc, mux.WithSnapshotFormat(mux.SnapshotFormat(cfg.Cache.Format)))

	loader := bootstrap.NewLoader(repo, demo.Controllers(),
		bootstrap.WithSourceDir(cfg.Router.ControllersDir),
		bootstrap.WithFailOnCacheError(cfg.Router.FailOnCacheError),
		bootstrap.WithLogger(logger))

	return &app{cache: cache, repo: repo, loader: loader, close: closeFn}, nil
}

func loadApp(ctx context.Context) (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if _, err := a.loader.Load(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// sourceTreeModTime dates the configured controllers tree; a missing tree
// yields the zero time.
func sourceTreeModTime() (time.Time, error) {
	dir := cfg.Router.ControllersDir
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	return bootstrap.SourceTreeModTime(dir)
}
