// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solidity maps solidity style storage variables onto the state.
package solidity

import (
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/state"
)

// Context binds storage variables to a program address.
type Context struct {
	address joker.Address
	state   *state.State
}

func NewContext(address joker.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() joker.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Slot returns the storage position for a named variable.
func Slot(name string) joker.Bytes32 {
	return joker.BytesToBytes32([]byte(name))
}
