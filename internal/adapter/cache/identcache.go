// Package cache provides a read-through LRU front for ident -> display-name
// lookups, used by the observability and HTTP control surfaces so they can
// render human-readable names for idents (the registry itself only needs
// the ident for equality/dispatch). Mirrors
// the reference service's peer_enricher cache-aside pattern.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/webitel/dispatch-core/internal/domain/ident"
)

// NameCache caches ident.Ident -> name for display purposes only; it is
// never consulted by the dispatch core itself.
type NameCache struct {
	names *lru.Cache[ident.Ident, string]
}

// New returns a NameCache holding up to size entries.
func New(size int) *NameCache {
	names, _ := lru.New[ident.Ident, string](size)
	return &NameCache{names: names}
}

// Remember records name for id, evicting the least recently used entry if
// the cache is full.
func (c *NameCache) Remember(id ident.Ident, name string) {
	c.names.Add(id, name)
}

// Lookup returns the cached name for id, if any.
func (c *NameCache) Lookup(id ident.Ident) (string, bool) {
	return c.names.Get(id)
}

// RememberEventType is a convenience wrapper for a freshly constructed
// EventType.
func (c *NameCache) RememberEventType(t ident.EventType) {
	if t.Name() != "" {
		c.Remember(t.Ident(), t.Name())
	}
}
