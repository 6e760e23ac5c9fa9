package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ophelios-studio/zephyrus/mux"
	"github.com/ophelios-studio/zephyrus/routecache"
)

var built = time.Unix(1_700_000_000, 0)

func newCache(t *testing.T, store routecache.Store) *routecache.Cache {
	t.Helper()
	c, err := routecache.New(store, routecache.WithClock(func() time.Time { return built }))
	require.NoError(t, err)
	return c
}

// failingCache accepts reads but rejects writes.
type failingCache struct {
	*routecache.Cache
}

func (failingCache) Write([]byte) error { return errors.New("store is read-only") }

func TestLoaderWithoutSourceTree(t *testing.T) {
	cache := newCache(t, routecache.NewMemoryStore())
	repo := mux.NewRepository(cache)

	res, err := NewLoader(repo, []Controller{exampleController()},
		WithSourceDir(filepath.Join(t.TempDir(), "absent"))).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Result{Source: SourceControllers, Routes: 3, Cached: false}, res)
	_, ok, err := cache.Read()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoaderCacheLifecycle(t *testing.T) {
	dir := t.TempDir()
	touchTree(t, dir, built.Add(-time.Hour))

	store := routecache.NewMemoryStore()
	controllers := []Controller{exampleController()}

	t.Run("empty cache builds from controllers", func(t *testing.T) {
		repo := mux.NewRepository(newCache(t, store))
		res, err := NewLoader(repo, controllers, WithSourceDir(dir)).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Result{Source: SourceControllers, Routes: 3, Cached: true}, res)
	})

	t.Run("fresh cache is used", func(t *testing.T) {
		repo := mux.NewRepository(newCache(t, store))
		res, err := NewLoader(repo, controllers, WithSourceDir(dir)).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Result{Source: SourceCache, Routes: 3, Cached: true}, res)

		found := repo.FindRoutes(http.MethodDelete, "/toto/test")
		require.Len(t, found, 1)
		assert.Equal(t, []string{"everyone", "admin"}, found[0].AuthorizationRules())
		assert.NotNil(t, found[0].Callback())
	})

	t.Run("controllers modified after build", func(t *testing.T) {
		touchTree(t, dir, built.Add(time.Hour))

		repo := mux.NewRepository(newCache(t, store))
		res, err := NewLoader(repo, controllers, WithSourceDir(dir)).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SourceControllers, res.Source)
	})
}

func TestLoaderRejectsUnresolvableCache(t *testing.T) {
	dir := t.TempDir()
	touchTree(t, dir, built.Add(-time.Hour))
	store := routecache.NewMemoryStore()

	old := testController{name: "legacy", routes: func(r *Registrar) { r.Get("/old", "index", reply("old")) }}
	_, err := NewLoader(mux.NewRepository(newCache(t, store)), []Controller{old}, WithSourceDir(dir)).Load(context.Background())
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	repo := mux.NewRepository(newCache(t, store))
	res, err := NewLoader(repo, []Controller{exampleController()},
		WithSourceDir(dir), WithLogger(zap.New(core))).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceControllers, res.Source)
	assert.Empty(t, repo.FindRoutes(http.MethodGet, "/old"))
	assert.Equal(t, 1, logs.FilterMessage("cached routes rejected, rebuilding").Len())
}

func TestLoaderCacheWriteFailure(t *testing.T) {
	dir := t.TempDir()
	touchTree(t, dir, built.Add(-time.Hour))

	t.Run("logged by default", func(t *testing.T) {
		repo := mux.NewRepository(failingCache{newCache(t, routecache.NewMemoryStore())})
		res, err := NewLoader(repo, []Controller{exampleController()}, WithSourceDir(dir)).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Result{Source: SourceControllers, Routes: 3, Cached: false}, res)
	})

	t.Run("fatal when configured", func(t *testing.T) {
		repo := mux.NewRepository(failingCache{newCache(t, routecache.NewMemoryStore())})
		_, err := NewLoader(repo, []Controller{exampleController()},
			WithSourceDir(dir), WithFailOnCacheError(true)).Load(context.Background())
		assert.ErrorContains(t, err, "store is read-only")
		// The built table is served even though it could not be cached.
		assert.Equal(t, 3, repo.Len())
	})
}

func TestLoaderInvalidControllers(t *testing.T) {
	repo := mux.NewRepository(nil)
	require.NoError(t, repo.Get("/keep", mux.Func("keep", reply("keep"))))

	bad := testController{name: "bad", routes: func(r *Registrar) { r.Get("/{id", "show", reply("")) }}
	_, err := NewLoader(repo, []Controller{bad}).Load(context.Background())
	assert.ErrorIs(t, err, mux.ErrInvalidPattern)
	assert.Equal(t, 1, repo.Len())
}

func TestLoaderRebuild(t *testing.T) {
	dir := t.TempDir()
	touchTree(t, dir, built.Add(-time.Hour))

	cache := newCache(t, routecache.NewMemoryStore())
	repo := mux.NewRepository(cache)

	routes := []string{"/a"}
	ctrl := testController{name: "dyn", routes: func(r *Registrar) {
		for i, p := range routes {
			r.Get(p, string(rune('a'+i)), reply(p))
		}
	}}
	loader := NewLoader(repo, []Controller{ctrl}, WithSourceDir(dir))

	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())

	routes = []string{"/a", "/b"}
	res, err := loader.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Source: SourceControllers, Routes: 2, Cached: true}, res)

	// A later start reads the rebuilt table from the cache.
	next := mux.NewRepository(cache)
	res, err = NewLoader(next, []Controller{ctrl}, WithSourceDir(dir)).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Source: SourceCache, Routes: 2, Cached: true}, res)
}

func TestLoaderCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(mux.NewRepository(nil), []Controller{exampleController()})
	_, err := loader.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = loader.Rebuild(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoaderConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	touchTree(t, dir, built.Add(-time.Hour))
	repo := mux.NewRepository(newCache(t, routecache.NewMemoryStore()))
	loader := NewLoader(repo, []Controller{exampleController()}, WithSourceDir(dir))

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = loader.Load(context.Background())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 3, repo.Len())
}
