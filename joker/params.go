// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package joker

import (
	"math/big"
)

// Constants of the reward token.
const (
	TokenName     = "JokerToken"
	TokenSymbol   = "JOKER"
	TokenDecimals = uint8(18)
)

// Constants of the reward engine. The split and the floor are immutable.
const (
	HalvingInterval uint32 = 200000 // blocks between two halvings

	DevShare         = 10 // percent of each settlement minted to the dev address
	TreasuryShare    = 10 // percent of each settlement minted to the treasury
	ShareDenominator = 100
)

// Constants of governance.
const (
	GovernorName = "Joker Governor Alpha"

	VotingDelay           uint32 = 1     // blocks between propose and the start of voting
	VotingPeriod          uint32 = 17280 // ~3 days in blocks
	ProposalMaxOperations        = 10
)

// Constants of the timelock, in seconds.
const (
	TimelockGracePeriod  uint64 = 14 * 24 * 3600
	TimelockMinimumDelay uint64 = 2 * 24 * 3600
	TimelockMaximumDelay uint64 = 30 * 24 * 3600
	TimelockDefaultDelay uint64 = 172800
)

// BlockInterval is the solo devnet block interval in seconds.
const BlockInterval uint64 = 3

var (
	// Ether one whole token at 18 decimals.
	Ether = big.NewInt(1e18)

	// InitialRewardPerBlock the emission rate of the first halving epoch.
	InitialRewardPerBlock = new(big.Int).Mul(big.NewInt(80), Ether)
	// MinRewardPerBlock the floor the emission never halves below.
	MinRewardPerBlock = new(big.Int).Mul(big.NewInt(5), Ether)
	// MaxSupply the hard cap of the reward token.
	MaxSupply = new(big.Int).Mul(big.NewInt(100_000_000), Ether)
	// AccRewardPrecision scale of the per-share accumulator.
	AccRewardPrecision = big.NewInt(1e12)

	// DefaultQuorumVotes 4% of the cap.
	DefaultQuorumVotes = new(big.Int).Mul(big.NewInt(4_000_000), Ether)
	// DefaultProposalThreshold 1% of the cap.
	DefaultProposalThreshold = new(big.Int).Mul(big.NewInt(1_000_000), Ether)
)
