package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/netforge-io/netforge/netbox"
)

// readCache is the TTL cache in front of Filter. Entries remember the query
// parameters they were stored under so invalidation can drop everything that
// referenced a given parent, whether by ID or by natural key.
type readCache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	objects []netbox.Object
	params  map[string]string
	expires time.Time
}

func newReadCache(ttl time.Duration) *readCache {
	return &readCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *readCache) get(key string) ([]netbox.Object, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}

	objects := make([]netbox.Object, len(entry.objects))
	copy(objects, entry.objects)
	return objects, true
}

func (c *readCache) put(key string, params map[string]string, objects []netbox.Object) {
	stored := make([]netbox.Object, len(objects))
	copy(stored, objects)

	storedParams := make(map[string]string, len(params))
	for name, value := range params {
		storedParams[name] = value
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		objects: stored,
		params:  storedParams,
		expires: time.Now().Add(c.ttl),
	}
}

// drop removes every entry that referenced one of the scope objects: queries
// filtered by the object's ID or natural key, and list results containing
// the object itself. Called with no scope it clears the whole cache.
func (c *readCache) drop(scope ...netbox.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(scope) == 0 {
		c.entries = make(map[string]cacheEntry)
		return
	}

	for key, entry := range c.entries {
		for _, object := range scope {
			if entry.references(object) {
				delete(c.entries, key)
				break
			}
		}
	}
}

func (e cacheEntry) references(object netbox.Object) bool {
	id := strconv.FormatInt(object.ID, 10)
	for _, value := range e.params {
		if value == id {
			return true
		}
		if value != "" && (value == object.Display || value == object.Name()) {
			return true
		}
	}
	for _, cached := range e.objects {
		if cached.ID == object.ID {
			return true
		}
	}
	return false
}
