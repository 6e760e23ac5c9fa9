package routecache

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	// TableKey holds the serialized route table.
	TableKey = "router_repository"
	// UpdateKey holds the UNIX time the table was built.
	UpdateKey = "router_repository_update_time"
)

// Cache stores a serialized route table and its build time under two keys
// of a Store.
//
// Write performs two independent writes, table first. Two processes
// rebuilding at the same time may leave the table of one paired with the
// timestamp of the other. Both tables come from the same controllers, so
// the window is accepted rather than locked.
type Cache struct {
	store     Store
	tableKey  string
	updateKey string
	now       func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithKeyPrefix namespaces both keys, for applications sharing a store.
func WithKeyPrefix(prefix string) Option {
	return func(c *Cache) {
		if prefix != "" {
			c.tableKey = prefix + "." + TableKey
			c.updateKey = prefix + "." + UpdateKey
		}
	}
}

// WithClock replaces time.Now as the source of build times.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New returns a Cache writing to store.
func New(store Store, opts ...Option) (*Cache, error) {
	c := &Cache{
		store:     store,
		tableKey:  TableKey,
		updateKey: UpdateKey,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := ValidateKey(c.tableKey); err != nil {
		return nil, err
	}
	if err := ValidateKey(c.updateKey); err != nil {
		return nil, err
	}
	return c, nil
}

// Read returns the cached table, if any.
func (c *Cache) Read() ([]byte, bool, error) {
	return c.store.Get(c.tableKey)
}

// IsOutdated reports whether no table is cached or the table was built
// before t. Times are compared at second precision.
func (c *Cache) IsOutdated(t time.Time) (bool, error) {
	ok, err := c.store.Has(c.tableKey)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}
	built, _, err := c.BuiltAt()
	if err != nil {
		return true, err
	}
	return built.Unix() < t.Unix(), nil
}

// BuiltAt returns the recorded build time. A missing timestamp reads as
// the UNIX epoch.
func (c *Cache) BuiltAt() (time.Time, bool, error) {
	raw, ok, err := c.store.Get(c.updateKey)
	if err != nil {
		return time.Time{}, false, err
	}
	if !ok {
		return time.Unix(0, 0), false, nil
	}
	sec, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Unix(0, 0), false, fmt.Errorf("%w: %q", ErrCorruptTimestamp, raw)
	}
	return time.Unix(sec, 0), true, nil
}

// Write stores table, then the current time as its build time.
func (c *Cache) Write(table []byte) error {
	if err := c.store.Set(c.tableKey, table); err != nil {
		return err
	}
	return c.store.Set(c.updateKey, []byte(strconv.FormatInt(c.now().Unix(), 10)))
}

// Clear deletes both keys.
func (c *Cache) Clear() error {
	return errors.Join(
		c.store.Delete(c.tableKey),
		c.store.Delete(c.updateKey),
	)
}
