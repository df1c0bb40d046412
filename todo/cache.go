package todo

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// FetchFunc loads the authoritative todo collection.
type FetchFunc func(ctx context.Context) ([]Todo, error)

// Cache holds one user's fetched todos. It is only ever replaced as a whole:
// mutations call Invalidate and the next read refetches.
//
// Each Invalidate bumps the version. A fetch that started before an
// invalidation still returns its result but leaves the cache stale.
type Cache struct {
	userID string
	fetch  FetchFunc

	mu      sync.Mutex
	todos   []Todo
	fresh   bool
	version uint64
	closed  bool
}

// NewCache returns an empty cache that loads through fetch.
func NewCache(userID string, fetch FetchFunc) *Cache {
	return &Cache{userID: userID, fetch: fetch}
}

// PortFetcher returns a FetchFunc that lists userID's todos through port,
// retrying under policy.
func PortFetcher(port Port, userID string, policy RetryPolicy) FetchFunc {
	return func(ctx context.Context) ([]Todo, error) {
		return Retry(ctx, policy, func(ctx context.Context) ([]Todo, error) {
			return port.ListTodos(ctx, userID)
		})
	}
}

// UserID returns the user the cache belongs to.
func (c *Cache) UserID() string {
	return c.userID
}

// Todos returns the cached collection, fetching it first when stale.
// Callers must not modify the returned todos.
func (c *Cache) Todos(ctx context.Context) ([]Todo, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, NewError(KindNotAuthenticated, "list todos", errors.New("session closed"))
	}
	if c.fresh {
		todos := c.todos
		c.mu.Unlock()
		return todos, nil
	}
	version := c.version
	c.mu.Unlock()

	todos, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.todos = todos
		c.fresh = c.version == version
	}
	return todos, nil
}

// Snapshot returns the last fetched collection without fetching, and whether
// it is fresh.
func (c *Cache) Snapshot() ([]Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.todos, c.fresh
}

// Invalidate marks the collection stale.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.fresh = false
}

// Version returns the number of invalidations so far.
func (c *Cache) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Close drops the collection. Reads on a closed cache fail.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.fresh = false
	c.todos = nil
}

// Sessions keeps one Cache per signed-in user. A cache is created on the
// user's first read and torn down by SignOut.
type Sessions struct {
	port   Port
	policy RetryPolicy

	mu     sync.Mutex
	caches map[string]*Cache
}

// NewSessions returns a registry whose caches fetch through port.
func NewSessions(port Port, policy RetryPolicy) *Sessions {
	return &Sessions{port: port, policy: policy, caches: map[string]*Cache{}}
}

// For returns the cache for userID, creating it if needed.
func (s *Sessions) For(userID string) (*Cache, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, NewError(KindNotAuthenticated, "open session", errors.New("not authenticated"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cache, ok := s.caches[userID]; ok {
		return cache, nil
	}
	cache := NewCache(userID, PortFetcher(s.port, userID, s.policy))
	s.caches[userID] = cache
	return cache, nil
}

// SignOut closes and forgets userID's cache.
func (s *Sessions) SignOut(userID string) {
	s.mu.Lock()
	cache, ok := s.caches[userID]
	delete(s.caches, userID)
	s.mu.Unlock()
	if ok {
		cache.Close()
	}
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.caches)
}
