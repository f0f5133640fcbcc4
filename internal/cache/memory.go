/**
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cache implements the go-micro.dev/v4/cache.Cache contract used by
// internal/broker to absorb bursty ListNodes polling (spec §4.2 is a pure
// snapshot read, cheap to serve stale-by-milliseconds). pkg/cache/cache.go
// backs the same interface with eko/gocache over redis or freecache; this
// broker has no persistence in scope at all (spec §1), so pulling in a
// store meant for cross-process sharing would be dependency theater. A
// mutex-guarded map is the honest backing store for a single-process,
// sub-second TTL cache.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	microcache "go-micro.dev/v4/cache"
)

// ErrNotFound is returned by Get on a miss or expiry, mirroring the "no
// entry" case of go-micro's cache backends.
var ErrNotFound = errors.New("cache: key not found")

type entry struct {
	value    interface{}
	expireAt time.Time
}

// MemoryCache is a trivial in-process implementation of go-micro.dev/v4/cache.Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	name    string
}

// NewCache constructs a MemoryCache, returned as the go-micro cache.Cache
// interface the same way pkg/cache/cache.go's NewCache does.
func NewCache() microcache.Cache {
	return &MemoryCache{entries: make(map[string]entry), name: "Memory"}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expireAt) {
		return nil, time.Time{}, ErrNotFound
	}

	return e.value, e.expireAt, nil
}

func (c *MemoryCache) Put(ctx context.Context, key string, val interface{}, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: val, expireAt: time.Now().Add(d)}
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

func (c *MemoryCache) String() string {
	return c.name
}
