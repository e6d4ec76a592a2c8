// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/jokerswap/joker/builtin/solidity"
	"github.com/jokerswap/joker/joker"
)

// Checkpoint marks the votes of a delegate from a given block.
type Checkpoint struct {
	FromBlock uint32
	Votes     *big.Int
}

type votes struct {
	delegates      *solidity.Mapping[joker.Address, joker.Address]
	numCheckpoints *solidity.Mapping[joker.Address, uint32]
	checkpoints    *solidity.Mapping[solidity.RawKey, *Checkpoint]
}

func newVotes(sctx *solidity.Context) *votes {
	return &votes{
		delegates:      solidity.NewMapping[joker.Address, joker.Address](sctx, solidity.Slot("delegates")),
		numCheckpoints: solidity.NewMapping[joker.Address, uint32](sctx, solidity.Slot("numCheckpoints")),
		checkpoints:    solidity.NewMapping[solidity.RawKey, *Checkpoint](sctx, solidity.Slot("checkpoints")),
	}
}

func checkpointKey(account joker.Address, index uint32) solidity.RawKey {
	return solidity.Keys(account, solidity.Uint64Key(index))
}

// Delegates returns the delegate of account, zero when undelegated.
func (v *votes) Delegates(account joker.Address) (joker.Address, error) {
	return v.delegates.Get(account)
}

func (v *votes) NumCheckpoints(account joker.Address) (uint32, error) {
	return v.numCheckpoints.Get(account)
}

// Checkpoints returns the checkpoint of account at index.
func (v *votes) Checkpoints(account joker.Address, index uint32) (*Checkpoint, error) {
	cp, err := v.checkpoints.Get(checkpointKey(account, index))
	if err != nil {
		return nil, err
	}
	if cp.Votes == nil {
		cp.Votes = new(big.Int)
	}
	return cp, nil
}

// GetCurrentVotes returns the votes of account in its latest checkpoint.
func (v *votes) GetCurrentVotes(account joker.Address) (*big.Int, error) {
	n, err := v.numCheckpoints.Get(account)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return new(big.Int), nil
	}
	cp, err := v.Checkpoints(account, n-1)
	if err != nil {
		return nil, err
	}
	return cp.Votes, nil
}

// GetPriorVotes returns the votes of account as of the end of blockNumber,
// which must be before the current block.
func (v *votes) GetPriorVotes(account joker.Address, blockNumber *big.Int, current uint32) (*big.Int, error) {
	if blockNumber.Cmp(new(big.Int).SetUint64(uint64(current))) >= 0 {
		return nil, ErrNotYetDetermined
	}
	block := uint32(blockNumber.Uint64())

	n, err := v.numCheckpoints.Get(account)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return new(big.Int), nil
	}

	// most recent first
	latest, err := v.Checkpoints(account, n-1)
	if err != nil {
		return nil, err
	}
	if latest.FromBlock <= block {
		return latest.Votes, nil
	}
	first, err := v.Checkpoints(account, 0)
	if err != nil {
		return nil, err
	}
	if first.FromBlock > block {
		return new(big.Int), nil
	}

	lower, upper := uint32(0), n-1
	for upper > lower {
		center := upper - (upper-lower)/2
		cp, err := v.Checkpoints(account, center)
		if err != nil {
			return nil, err
		}
		switch {
		case cp.FromBlock == block:
			return cp.Votes, nil
		case cp.FromBlock < block:
			lower = center
		default:
			upper = center - 1
		}
	}
	cp, err := v.Checkpoints(account, lower)
	if err != nil {
		return nil, err
	}
	return cp.Votes, nil
}

// writeCheckpoint records votes of delegatee at block, overwriting a checkpoint
// written earlier in the same block.
func (v *votes) writeCheckpoint(delegatee joker.Address, block uint32, votes *big.Int) error {
	n, err := v.numCheckpoints.Get(delegatee)
	if err != nil {
		return err
	}
	if n > 0 {
		latest, err := v.Checkpoints(delegatee, n-1)
		if err != nil {
			return err
		}
		if latest.FromBlock == block {
			latest.Votes = votes
			return v.checkpoints.Set(checkpointKey(delegatee, n-1), latest)
		}
	}
	if err := v.checkpoints.Set(checkpointKey(delegatee, n), &Checkpoint{FromBlock: block, Votes: votes}); err != nil {
		return err
	}
	return v.numCheckpoints.Set(delegatee, n+1)
}
