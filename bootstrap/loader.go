package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ophelios-studio/zephyrus/internal/logging"
	"github.com/ophelios-studio/zephyrus/mux"
)

// Source tells where a loaded table came from.
type Source string

const (
	SourceCache       Source = "cache"
	SourceControllers Source = "controllers"
)

// Result describes a completed Load.
type Result struct {
	Source Source
	Routes int
	// Cached is false when the freshly built table could not be written
	// to the cache, or when there is no controllers tree to date it.
	Cached bool
}

// Loader fills a repository either from the route cache or from the
// controllers, depending on whether the cache predates the controllers
// source tree.
type Loader struct {
	repo             *mux.Repository
	controllers      []Controller
	sourceDir        string
	failOnCacheError bool
	logger           *zap.Logger

	group singleflight.Group
}

// Option configures a Loader.
type Option func(*Loader)

// WithSourceDir sets the controllers source tree used to date the cache.
func WithSourceDir(dir string) Option {
	return func(l *Loader) {
		l.sourceDir = dir
	}
}

// WithFailOnCacheError makes Load fail when the table cannot be cached.
func WithFailOnCacheError(v bool) Option {
	return func(l *Loader) {
		l.failOnCacheError = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logging.OrNop(logger)
	}
}

// NewLoader returns a loader filling repo from controllers.
func NewLoader(repo *mux.Repository, controllers []Controller, opts ...Option) *Loader {
	l := &Loader{
		repo:        repo,
		controllers: controllers,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load initializes the repository. When the cache is missing or older than
// the controllers tree, the table is rebuilt from the controllers and
// cached; otherwise it is read from the cache, falling back to a rebuild
// if the cached table cannot be used. Concurrent calls share one load.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	v, err, _ := l.group.Do("load", func() (any, error) {
		return l.load(ctx)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// Rebuild rebuilds the table from the controllers and caches it,
// regardless of the cache state.
func (l *Loader) Rebuild(ctx context.Context) (Result, error) {
	v, err, _ := l.group.Do("rebuild", func() (any, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return l.rebuild(true)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (l *Loader) load(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	modTime, err := l.sourceModTime()
	if err != nil {
		return Result{}, err
	}
	if modTime.IsZero() {
		l.logger.Info("no controllers tree, building routes without cache",
			zap.String("dir", l.sourceDir))
		return l.rebuild(false)
	}

	outdated, err := l.repo.IsCacheOutdated(modTime)
	if err != nil {
		l.logger.Warn("route cache unreadable, rebuilding", zap.Error(err))
		outdated = true
	}
	if outdated {
		return l.rebuild(true)
	}

	handlers, err := Handlers(l.controllers...)
	if err != nil {
		return Result{}, err
	}
	if err := l.repo.InitializeFromCache(handlers); err != nil {
		l.logger.Warn("cached routes rejected, rebuilding", zap.Error(err))
		return l.rebuild(true)
	}

	res := Result{Source: SourceCache, Routes: l.repo.Len(), Cached: true}
	l.logger.Info("routes loaded", zap.String("source", string(res.Source)), zap.Int("routes", res.Routes))
	return res, nil
}

// rebuild registers the controllers into a staging repository, swaps its
// table in, then optionally caches it.
func (l *Loader) rebuild(cache bool) (Result, error) {
	staging := mux.NewRepository(nil)
	if err := Register(staging, l.controllers...); err != nil {
		return Result{}, err
	}
	l.repo.Swap(staging)

	res := Result{Source: SourceControllers, Routes: l.repo.Len()}
	if cache {
		if err := l.repo.Cache(); err != nil {
			if l.failOnCacheError {
				return Result{}, fmt.Errorf("bootstrap: cache routes: %w", err)
			}
			l.logger.Warn("routes not cached", zap.Error(err))
		} else {
			res.Cached = true
		}
	}

	l.logger.Info("routes loaded",
		zap.String("source", string(res.Source)),
		zap.Int("routes", res.Routes),
		zap.Bool("cached", res.Cached))
	return res, nil
}

// sourceModTime returns the zero time when no source tree is configured
// or it does not exist.
func (l *Loader) sourceModTime() (time.Time, error) {
	if l.sourceDir == "" {
		return time.Time{}, nil
	}
	if _, err := os.Stat(l.sourceDir); errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	t, err := SourceTreeModTime(l.sourceDir)
	if err != nil {
		return time.Time{}, fmt.Errorf("bootstrap: read controllers tree: %w", err)
	}
	return t, nil
}
