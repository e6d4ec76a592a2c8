// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lord

import (
	"fmt"
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	Op     uint8
	Pool   uint8
	Amount uint16
	Blocks uint8
}

func TestRandomSequences(t *testing.T) {
	const maxPools = 6

	for seed := range int64(8) {
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			var steps []step
			fuzz.NewWithSeed(seed).NilChance(0).NumElements(100, 200).Fuzz(&steps)

			h := newHarness(t, 10)
			block := uint32(1)
			h.at(block)

			var accs []*big.Int
			pools := uint64(0)

			for i, s := range steps {
				pid := uint64(s.Pool) % max(pools, 1)
				amount := n(int64(s.Amount))

				switch s.Op % 6 {
				case 0:
					if pools == maxPools {
						continue
					}
					h.addPool(fmt.Sprintf("stake%d", pools), int64(s.Amount%500))
					pools++
					accs = append(accs, new(big.Int))
				case 1:
					if pools == 0 {
						continue
					}
					require.NoError(t, h.as(owner).Set(pid, n(int64(s.Amount%500)), s.Blocks%2 == 0), "step %d", i)
				case 2:
					if pools == 0 {
						continue
					}
					require.NoError(t, h.as(minter).Deposit(minter, pid, amount), "step %d", i)
				case 3:
					if pools == 0 {
						continue
					}
					staked := h.user(pid, minter).Amount
					if amount.Cmp(staked) > 0 {
						amount = staked
					}
					require.NoError(t, h.as(minter).Withdraw(minter, pid, amount), "step %d", i)
				case 4:
					if pools == 0 {
						continue
					}
					require.NoError(t, h.lord.UpdatePool(pid), "step %d", i)
				default:
					block += uint32(s.Blocks%20) + 1
					h.at(block)
				}

				sum := new(big.Int)
				for p := range pools {
					pool := h.pool(p)
					sum.Add(sum, pool.AllocPoint)
					assert.True(t, pool.AccRewardPerShare.Cmp(accs[p]) >= 0,
						"step %d: pool %d accumulator went from %v to %v", i, p, accs[p], pool.AccRewardPerShare)
					accs[p] = pool.AccRewardPerShare
				}
				assert.Equal(t, sum.String(), str(h.lord.TotalAllocPoint()), "step %d", i)
			}
		})
	}
}
