// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/jokerswap/joker/metrics"

var (
	metricCallCount    = metrics.LazyLoadCounterVec("runtime_call_count", []string{"program", "method", "status"})
	metricTxDuration   = metrics.LazyLoadHistogramVec("runtime_tx_duration_ms", []string{"kind"}, metrics.BucketCalls)
	metricHeadBlock    = metrics.LazyLoadGauge("runtime_head_block")
	metricSealedBlocks = metrics.LazyLoadCounter("runtime_sealed_blocks_count")
)
