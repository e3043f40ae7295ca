// Package local is the in-process cache used when no Redis address is
// configured. It covers single-node deployments and tests.
package local

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

const defaultGCInterval = 30 * time.Second

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
}

type item struct {
	value    string
	deadline time.Time // zero means no expiry
}

func (it item) expired(now time.Time) bool {
	return !it.deadline.IsZero() && now.After(it.deadline)
}

// LocalCache implements the Cache interface with plain locked maps.
type LocalCache struct {
	mu    sync.RWMutex
	items map[string]item
	sets  map[string]map[string]float64
	done  chan struct{}
}

// NewCache creates a LocalCache and starts its expiry janitor.
func NewCache(cfg Config) (*LocalCache, error) {
	interval := cfg.GCInterval
	if interval <= 0 {
		interval = defaultGCInterval
	}
	c := &LocalCache{
		items: make(map[string]item),
		sets:  make(map[string]map[string]float64),
		done:  make(chan struct{}),
	}
	go c.janitor(interval)
	return c, nil
}

// Close stops the janitor goroutine.
func (c *LocalCache) Close() { close(c.done) }

func (c *LocalCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, it := range c.items {
				if it.expired(now) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || it.expired(time.Now()) {
		return "", ErrNotFound
	}
	return it.value, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	it := item{value: value}
	if ttl > 0 {
		it.deadline = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = it
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (c *LocalCache) ZAdd(_ context.Context, key string, score float64, member string) error {
	c.mu.Lock()
	set, ok := c.sets[key]
	if !ok {
		set = make(map[string]float64)
		c.sets[key] = set
	}
	set[member] = score
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) ZRevRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	c.mu.RLock()
	scores := make(map[string]float64, len(c.sets[key]))
	for m, s := range c.sets[key] {
		scores[m] = s
	}
	c.mu.RUnlock()

	members := make([]string, 0, len(scores))
	for m := range scores {
		members = append(members, m)
	}
	// Highest score first; ties resolve by member name for stable output.
	sort.Slice(members, func(i, j int) bool {
		if scores[members[i]] != scores[members[j]] {
			return scores[members[i]] > scores[members[j]]
		}
		return members[i] < members[j]
	})

	n := int64(len(members))
	if start < 0 || start >= n {
		return nil, nil
	}
	if stop < 0 || stop >= n {
		stop = n - 1
	}
	if stop < start {
		return nil, nil
	}
	return members[start : stop+1], nil
}

func (c *LocalCache) ZScore(_ context.Context, key, member string) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	score, ok := c.sets[key][member]
	if !ok {
		return 0, ErrNotFound
	}
	return score, nil
}
