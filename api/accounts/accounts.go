// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounts serves the voting power of accounts.
package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/runtime"
	"github.com/jokerswap/joker/state"
)

// Votes of an account at the head block.
type Votes struct {
	Address     joker.Address         `json:"address"`
	Balance     *math.HexOrDecimal256 `json:"balance"`
	Delegate    joker.Address         `json:"delegate"`
	Votes       *math.HexOrDecimal256 `json:"votes"`
	Checkpoints uint32                `json:"checkpoints"`
	Native      *math.HexOrDecimal256 `json:"native"`
}

// PriorVotes of an account at a past block.
type PriorVotes struct {
	Address     joker.Address         `json:"address"`
	BlockNumber uint32                `json:"blockNumber"`
	Votes       *math.HexOrDecimal256 `json:"votes"`
}

type Accounts struct {
	rt    *runtime.Runtime
	token joker.Address
}

func New(rt *runtime.Runtime, token joker.Address) *Accounts {
	return &Accounts{rt, token}
}

func (a *Accounts) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	res := &Votes{Address: addr}
	err = a.rt.View(func(st *state.State, _ runtime.Head) error {
		tok := builtin.Token.At(a.token, st)
		bal, err := tok.BalanceOf(addr)
		if err != nil {
			return err
		}
		if res.Delegate, err = tok.Delegates(addr); err != nil {
			return err
		}
		votes, err := tok.GetCurrentVotes(addr)
		if err != nil {
			return err
		}
		if res.Checkpoints, err = tok.NumCheckpoints(addr); err != nil {
			return err
		}
		native, err := st.GetBalance(addr)
		if err != nil {
			return err
		}
		res.Balance = (*math.HexOrDecimal256)(bal)
		res.Votes = (*math.HexOrDecimal256)(votes)
		res.Native = (*math.HexOrDecimal256)(native)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *Accounts) handleGetPriorVotes(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	block, err := utils.Uint64Var(req, "block")
	if err != nil {
		return err
	}
	res := &PriorVotes{Address: addr}
	err = a.rt.View(func(st *state.State, head runtime.Head) error {
		// a sealed block is final, so the head counts as past
		votes, err := builtin.Token.At(a.token, st).GetPriorVotes(addr, new(big.Int).SetUint64(block), head.Number+1)
		if err != nil {
			return err
		}
		res.BlockNumber = uint32(block)
		res.Votes = (*math.HexOrDecimal256)(votes)
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, res)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/votes").
		Methods(http.MethodGet).
		Name("accounts_get_votes").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetVotes))
	sub.Path("/{address}/votes/{block}").
		Methods(http.MethodGet).
		Name("accounts_get_prior_votes").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetPriorVotes))
}
