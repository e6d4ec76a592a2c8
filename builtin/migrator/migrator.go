// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package migrator implements a stake token migrator: it takes the caller's whole
// balance of an old token and mints the same amount of a new one back to it.
package migrator

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/jokerswap/joker/builtin/erc20"
	"github.com/jokerswap/joker/builtin/solidity"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/xenv"
)

var (
	logger = log.WithContext("pkg", "migrator")

	balanceOf, _    = erc20.ABI.MethodByName("balanceOf")
	transferFrom, _ = erc20.ABI.MethodByName("transferFrom")
	mint, _         = erc20.ABI.MethodByName("mint")
)

type Migrator struct {
	ctx      xenv.Context
	newToken *solidity.Address
}

func New(addr joker.Address, st *state.State, ctx xenv.Context) *Migrator {
	return &Migrator{
		ctx:      ctx,
		newToken: solidity.NewAddress(solidity.NewContext(addr, st), solidity.Slot("newToken")),
	}
}

func (m *Migrator) Initialize(newToken joker.Address) {
	m.newToken.Set(newToken)
}

func (m *Migrator) NewToken() (joker.Address, error) {
	return m.newToken.Get()
}

// Migrate swaps the caller's balance of oldToken for the new token.
func (m *Migrator) Migrate(oldToken joker.Address) (joker.Address, error) {
	newToken, err := m.newToken.Get()
	if err != nil {
		return joker.Address{}, err
	}
	caller := m.ctx.Caller()

	out, err := m.ctx.CallMethod(oldToken, balanceOf, nil, caller)
	if err != nil {
		return joker.Address{}, errors.WithMessage(err, "balanceOf")
	}
	amount, err := firstUint(out)
	if err != nil {
		return joker.Address{}, err
	}
	if _, err := m.ctx.CallMethod(oldToken, transferFrom, nil, caller, m.ctx.To(), amount); err != nil {
		return joker.Address{}, err
	}
	if _, err := m.ctx.CallMethod(newToken, mint, nil, caller, amount); err != nil {
		return joker.Address{}, err
	}
	logger.Debug("migrated", "from", oldToken, "to", newToken, "holder", caller, "amount", amount)
	return newToken, nil
}

func firstUint(out []any) (*big.Int, error) {
	if len(out) == 0 {
		return nil, errors.New("empty output")
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("unexpected output type %T", out[0])
	}
	return v, nil
}
