// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/jokerswap/joker/metrics"

var (
	metricCacheHitMiss  = metrics.LazyLoadCounterVec("state_cache_hit_miss_count", []string{"event"})
	metricCommittedKeys = metrics.LazyLoadCounter("state_committed_keys_count")
)
