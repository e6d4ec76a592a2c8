// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/jokerswap/joker/builtin/erc20"
	"github.com/jokerswap/joker/builtin/governor"
	"github.com/jokerswap/joker/builtin/lord"
	"github.com/jokerswap/joker/builtin/migrator"
	"github.com/jokerswap/joker/builtin/timelock"
	"github.com/jokerswap/joker/builtin/token"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/xenv"
)

// Builtin programs.
var (
	Token    = &tokenContract{mustLoadContract("Token")}
	ERC20    = &erc20Contract{mustLoadContract("ERC20")}
	Lord     = &lordContract{mustLoadContract("Lord")}
	Timelock = &timelockContract{mustLoadContract("Timelock")}
	Governor = &governorContract{mustLoadContract("Governor")}
	Migrator = &migratorContract{mustLoadContract("Migrator")}
)

type (
	tokenContract    struct{ *contract }
	erc20Contract    struct{ *contract }
	lordContract     struct{ *contract }
	timelockContract struct{ *contract }
	governorContract struct{ *contract }
	migratorContract struct{ *contract }
)

// At binds the token deployed at addr for reading.
func (c *tokenContract) At(addr joker.Address, st *state.State) *token.Token {
	return token.New(addr, st, nil)
}

// Native binds the token serving env.
func (c *tokenContract) Native(env *xenv.Environment) *token.Token {
	return token.New(env.To(), env.State(), env)
}

func (c *erc20Contract) At(addr joker.Address, st *state.State) *erc20.ERC20 {
	return erc20.New(addr, st, nil)
}

func (c *erc20Contract) Native(env *xenv.Environment) *erc20.ERC20 {
	return erc20.New(env.To(), env.State(), env)
}

func (c *lordContract) At(addr joker.Address, st *state.State) *lord.Lord {
	return lord.New(addr, st, nil)
}

func (c *lordContract) Native(env *xenv.Environment) *lord.Lord {
	return lord.New(env.To(), env.State(), env)
}

func (c *timelockContract) At(addr joker.Address, st *state.State) *timelock.Timelock {
	return timelock.New(addr, st, nil)
}

func (c *timelockContract) Native(env *xenv.Environment) *timelock.Timelock {
	return timelock.New(env.To(), env.State(), env)
}

func (c *governorContract) At(addr joker.Address, st *state.State) *governor.Governor {
	return governor.New(addr, st, nil)
}

func (c *governorContract) Native(env *xenv.Environment) *governor.Governor {
	return governor.New(env.To(), env.State(), env)
}

func (c *migratorContract) Native(env *xenv.Environment) *migrator.Migrator {
	return migrator.New(env.To(), env.State(), env)
}
