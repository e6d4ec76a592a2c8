// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"math/big"

	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/joker"
)

// LaunchTime is the genesis timestamp of test chains.
const LaunchTime = uint64(1_700_000_000)

// DefaultConfig returns the devnet config with governance tuned for short test runs:
// a one block voting delay, a ten block voting period and low vote thresholds.
func DefaultConfig() joker.Config {
	cfg := genesis.DevConfig()
	cfg.VotingDelay = 1
	cfg.VotingPeriod = 10
	cfg.QuorumVotes = new(big.Int).Mul(big.NewInt(100), joker.Ether)
	cfg.ProposalThreshold = new(big.Int).Mul(big.NewInt(10), joker.Ether)
	cfg.TimelockDelay = joker.TimelockMinimumDelay
	return cfg
}
