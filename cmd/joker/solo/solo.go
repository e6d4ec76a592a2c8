// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"context"
	"time"

	"github.com/jokerswap/joker/co"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/runtime"
)

var logger = log.WithContext("pkg", "solo")

type Options struct {
	// BlockInterval in seconds. Zero seals every transaction in its own block.
	BlockInterval uint64
}

// Solo drives the runtime of a standalone devnet: it keeps the block clock in
// step with the wall clock and seals blocks on interval.
type Solo struct {
	rt      *runtime.Runtime
	options Options
	tick    time.Duration
	now     func() time.Time
}

// New returns Solo instance
func New(rt *runtime.Runtime, options Options) *Solo {
	return &Solo{
		rt:      rt,
		options: options,
		tick:    time.Second,
		now:     time.Now,
	}
}

// Run runs the solo loop until ctx is done.
func (s *Solo) Run(ctx context.Context) error {
	var goes co.Goes
	defer goes.Wait()

	s.rt.SetAutoMine(s.options.BlockInterval == 0)
	if s.options.BlockInterval == 0 {
		logger.Info("sealing on demand")
	} else {
		logger.Info("prepared to seal blocks", "interval", s.options.BlockInterval)
	}

	goes.Go(func() {
		s.loop(ctx)
	})
	<-ctx.Done()
	return nil
}

func (s *Solo) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping solo loop......")
			return
		case <-ticker.C:
			now := uint64(s.now().Unix())
			s.rt.SyncTime(now)
			if s.options.BlockInterval == 0 || now == last {
				continue
			}
			if now%s.options.BlockInterval == 0 {
				last = now
				if err := s.rt.Mine(1, 0); err != nil {
					logger.Error("failed to seal block", "err", err)
				}
			}
		}
	}
}
