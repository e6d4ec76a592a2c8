// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pools serves the staking pools of the reward engine.
package pools

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/builtin/lord"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/runtime"
	"github.com/jokerswap/joker/state"
)

// Pool for json marshal.
type Pool struct {
	Pid               uint64                `json:"pid"`
	StakeToken        joker.Address         `json:"stakeToken"`
	AllocPoint        *math.HexOrDecimal256 `json:"allocPoint"`
	LastRewardBlock   uint64                `json:"lastRewardBlock"`
	AccRewardPerShare *math.HexOrDecimal256 `json:"accRewardPerShare"`
	TotalDeposit      *math.HexOrDecimal256 `json:"totalDeposit"`
	LendPool          bool                  `json:"lendPool"`
}

// Position is a user's stake in a pool.
type Position struct {
	Pid           uint64                `json:"pid"`
	User          joker.Address         `json:"user"`
	Amount        *math.HexOrDecimal256 `json:"amount"`
	RewardDebt    *math.HexOrDecimal256 `json:"rewardDebt"`
	PendingReward *math.HexOrDecimal256 `json:"pendingReward"`
}

// Summary describes the engine as a whole.
type Summary struct {
	BlockNumber     uint32                `json:"blockNumber"`
	TotalAllocPoint *math.HexOrDecimal256 `json:"totalAllocPoint"`
	RewardPerBlock  *math.HexOrDecimal256 `json:"rewardPerBlock"`
	NextHalving     uint64                `json:"nextHalving"`
	Pools           []*Pool               `json:"pools"`
}

type Pools struct {
	rt   *runtime.Runtime
	addr joker.Address
}

func New(rt *runtime.Runtime, addr joker.Address) *Pools {
	return &Pools{rt, addr}
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func convertPool(pid uint64, p *lord.PoolInfo) *Pool {
	return &Pool{
		Pid:               pid,
		StakeToken:        p.StakeToken,
		AllocPoint:        hex(p.AllocPoint),
		LastRewardBlock:   p.LastRewardBlock,
		AccRewardPerShare: hex(p.AccRewardPerShare),
		TotalDeposit:      hex(p.TotalDeposit),
		LendPool:          p.LendPool,
	}
}

func (p *Pools) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	var summary *Summary
	err := p.rt.View(func(st *state.State, head runtime.Head) error {
		l := builtin.Lord.At(p.addr, st)
		n, err := l.PoolLength()
		if err != nil {
			return err
		}
		total, err := l.TotalAllocPoint()
		if err != nil {
			return err
		}
		rate, err := l.RewardPerBlock(uint64(head.Number))
		if err != nil {
			return err
		}
		next, err := l.HalveBlockNum(uint64(head.Number))
		if err != nil {
			return err
		}
		summary = &Summary{
			BlockNumber:     head.Number,
			TotalAllocPoint: hex(total),
			RewardPerBlock:  hex(rate),
			NextHalving:     next,
			Pools:           make([]*Pool, 0, n),
		}
		for pid := range n {
			info, err := l.PoolInfo(pid)
			if err != nil {
				return err
			}
			summary.Pools = append(summary.Pools, convertPool(pid, info))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, summary)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.Uint64Var(req, "pid")
	if err != nil {
		return err
	}
	var pool *Pool
	err = p.rt.View(func(st *state.State, _ runtime.Head) error {
		info, err := builtin.Lord.At(p.addr, st).PoolInfo(pid)
		if err != nil {
			return err
		}
		pool = convertPool(pid, info)
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, pool)
}

func (p *Pools) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.Uint64Var(req, "pid")
	if err != nil {
		return err
	}
	user, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var pos *Position
	err = p.rt.View(func(st *state.State, head runtime.Head) error {
		l := builtin.Lord.At(p.addr, st)
		u, err := l.UserInfo(pid, user)
		if err != nil {
			return err
		}
		pending, err := l.PendingReward(pid, user, uint64(head.Number))
		if err != nil {
			return err
		}
		pos = &Position{
			Pid:           pid,
			User:          user,
			Amount:        hex(u.Amount),
			RewardDebt:    hex(u.RewardDebt),
			PendingReward: hex(pending),
		}
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, pos)
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("pools_get_pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
	sub.Path("/{pid}").
		Methods(http.MethodGet).
		Name("pools_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{pid}/users/{address}").
		Methods(http.MethodGet).
		Name("pools_get_position").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPosition))
}
