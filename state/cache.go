// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"slices"

	"github.com/qianbin/directcache"
)

// Cache caches committed values read from or written to the kv store.
// It's safe to share one Cache among State instances over the same store.
type Cache struct {
	c *directcache.Cache
}

// NewCache creates a cache with the given size in MB.
func NewCache(sizeMB int) *Cache {
	if sizeMB < 1 {
		sizeMB = 1
	}
	return &Cache{directcache.New(sizeMB * 1024 * 1024)}
}

// the first byte of a cached entry marks its presence, so that
// committed deletions are cached as well.
func (c *Cache) get(key []byte) (val []byte, found bool) {
	if c == nil {
		return nil, false
	}
	ok := c.c.AdvGet(key, func(v []byte) {
		if len(v) > 0 && v[0] == 1 {
			val = slices.Clone(v[1:])
			found = true
		}
	}, false)
	if ok && found {
		metricCacheHitMiss().AddWithLabel(1, map[string]string{"event": "hit"})
		return val, true
	}
	metricCacheHitMiss().AddWithLabel(1, map[string]string{"event": "miss"})
	return nil, false
}

func (c *Cache) set(key, val []byte) {
	if c == nil {
		return
	}
	_ = c.c.AdvSet(key, len(val)+1, func(v []byte) {
		v[0] = 1
		copy(v[1:], val)
	})
}
