// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lord

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/jokerswap/joker/joker"
)

// Schedule describes the emission curve. The rate starts at RewardPerBlock and
// halves every HalvingInterval blocks after the start block, never going below
// MinRewardPerBlock. The total minted is capped at MaxSupply.
type Schedule struct {
	RewardPerBlock    *big.Int
	MinRewardPerBlock *big.Int
	HalvingInterval   uint64
	MaxSupply         *big.Int
}

// DefaultSchedule returns the mainnet emission curve.
func DefaultSchedule() *Schedule {
	return &Schedule{
		RewardPerBlock:    new(big.Int).Set(joker.InitialRewardPerBlock),
		MinRewardPerBlock: new(big.Int).Set(joker.MinRewardPerBlock),
		HalvingInterval:   uint64(joker.HalvingInterval),
		MaxSupply:         new(big.Int).Set(joker.MaxSupply),
	}
}

// ScheduleOf builds the schedule configured in cfg.
func ScheduleOf(cfg *joker.Config) *Schedule {
	return &Schedule{
		RewardPerBlock:    new(big.Int).Set(cfg.RewardPerBlock),
		MinRewardPerBlock: new(big.Int).Set(cfg.MinRewardPerBlock),
		HalvingInterval:   uint64(cfg.HalvingInterval),
		MaxSupply:         new(big.Int).Set(cfg.MaxSupply),
	}
}

func (s *Schedule) Validate() error {
	switch {
	case s.RewardPerBlock == nil || s.RewardPerBlock.Sign() <= 0:
		return errors.New("schedule: reward per block must be positive")
	case s.MinRewardPerBlock == nil || s.MinRewardPerBlock.Sign() < 0:
		return errors.New("schedule: negative floor")
	case s.MinRewardPerBlock.Cmp(s.RewardPerBlock) > 0:
		return errors.New("schedule: floor above initial rate")
	case s.HalvingInterval == 0:
		return errors.New("schedule: zero halving interval")
	case s.MaxSupply == nil || s.MaxSupply.Sign() <= 0:
		return errors.New("schedule: max supply must be positive")
	}
	return nil
}

// epochRate is the per-block rate of the k-th halving epoch.
func (s *Schedule) epochRate(k uint64) *big.Int {
	rate := new(big.Int)
	if k < 256 {
		rate.Rsh(s.RewardPerBlock, uint(k))
	}
	if rate.Cmp(s.MinRewardPerBlock) < 0 {
		rate.Set(s.MinRewardPerBlock)
	}
	return rate
}

func (s *Schedule) epoch(start, block uint64) uint64 {
	if block <= start {
		return 0
	}
	return (block - start) / s.HalvingInterval
}

// RateAt returns the per-block rate in effect at block.
func (s *Schedule) RateAt(start, block uint64) *big.Int {
	return s.epochRate(s.epoch(start, block))
}

// NextHalving returns the first halving boundary after block.
func (s *Schedule) NextHalving(start, block uint64) uint64 {
	return start + (s.epoch(start, block)+1)*s.HalvingInterval
}

// Between returns the emission of blocks [from, to), summed epoch by epoch.
// Blocks before start emit nothing.
func (s *Schedule) Between(start, from, to uint64) *big.Int {
	if from < start {
		from = start
	}
	total := new(big.Int)
	for from < to {
		k := s.epoch(start, from)
		end := start + (k+1)*s.HalvingInterval
		if end > to {
			end = to
		}
		rate := s.epochRate(k)
		if rate.Cmp(s.MinRewardPerBlock) == 0 {
			// every later epoch is floored too
			end = to
		}
		total.Add(total, new(big.Int).Mul(rate, new(big.Int).SetUint64(end-from)))
		from = end
	}
	return total
}

// Split divides a reward into the dev, treasury and pool shares.
func Split(reward *big.Int) (dev, treasury, pool *big.Int) {
	denom := big.NewInt(joker.ShareDenominator)
	dev = new(big.Int).Mul(reward, big.NewInt(joker.DevShare))
	dev.Div(dev, denom)
	treasury = new(big.Int).Mul(reward, big.NewInt(joker.TreasuryShare))
	treasury.Div(treasury, denom)
	pool = new(big.Int).Sub(reward, dev)
	pool.Sub(pool, treasury)
	return
}
