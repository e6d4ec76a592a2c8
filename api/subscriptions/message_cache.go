// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// messageCache keeps the encoded message of recent blocks, so a block is
// marshalled once however many subscribers receive it.
type messageCache struct {
	cache *lru.Cache
	mu    sync.RWMutex
}

func newMessageCache(cacheSize uint32) *messageCache {
	if cacheSize > 1000 {
		cacheSize = 1000
	}
	if cacheSize == 0 {
		cacheSize = 1
	}
	cache, err := lru.New(int(cacheSize))
	if err != nil {
		// lru.New only fails when size is below 1
		panic(fmt.Errorf("failed to create message cache: %v", err))
	}
	return &messageCache{
		cache: cache,
	}
}

// GetOrAdd returns the message of block number, creating it on a miss.
// The second return value reports whether the message was newly created.
func (mc *messageCache) GetOrAdd(number uint32, createMessage func() ([]byte, error)) ([]byte, bool, error) {
	mc.mu.RLock()
	msg, ok := mc.cache.Get(number)
	mc.mu.RUnlock()
	if ok {
		return msg.([]byte), false, nil
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	msg, ok = mc.cache.Get(number)
	if ok {
		return msg.([]byte), false, nil
	}

	created, err := createMessage()
	if err != nil {
		return nil, false, err
	}
	mc.cache.Add(number, created)
	return created, true, nil
}
