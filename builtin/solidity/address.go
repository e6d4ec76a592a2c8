// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/jokerswap/joker/joker"
)

type Address struct {
	context *Context
	pos     joker.Bytes32
}

func NewAddress(context *Context, pos joker.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (joker.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return joker.Address{}, err
	}
	return joker.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr joker.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, joker.BytesToBytes32(addr.Bytes()))
}

type Bool struct {
	context *Context
	pos     joker.Bytes32
}

func NewBool(context *Context, pos joker.Bytes32) *Bool {
	return &Bool{context: context, pos: pos}
}

func (b *Bool) Get() (bool, error) {
	storage, err := b.context.state.GetStorage(b.context.address, b.pos)
	if err != nil {
		return false, err
	}
	return !storage.IsZero(), nil
}

func (b *Bool) Set(v bool) {
	var storage joker.Bytes32
	if v {
		storage[31] = 1
	}
	b.context.state.SetStorage(b.context.address, b.pos, storage)
}
