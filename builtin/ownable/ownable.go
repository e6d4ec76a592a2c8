// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ownable implements the single-owner access rule shared by builtin programs.
package ownable

import (
	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/builtin/solidity"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

// ErrZeroOwner is returned when ownership is handed to the zero address.
var ErrZeroOwner = reverts.New(reverts.Invariant, "ZeroOwner", "Ownable: new owner is the zero address")

// Ownable guards an owner slot of a program.
type Ownable struct {
	owner       *solidity.Address
	ctx         xenv.Context
	transferred *abi.Event
}

// New binds the owner slot of sctx. The event is emitted on every ownership change.
func New(sctx *solidity.Context, ctx xenv.Context, transferred *abi.Event) *Ownable {
	return &Ownable{
		owner:       solidity.NewAddress(sctx, solidity.Slot("owner")),
		ctx:         ctx,
		transferred: transferred,
	}
}

// Owner returns the current owner.
func (o *Ownable) Owner() (joker.Address, error) {
	return o.owner.Get()
}

// Init sets the first owner.
func (o *Ownable) Init(owner joker.Address) {
	o.set(joker.Address{}, owner)
}

// OnlyOwner fails with reverts.ErrNotOwner unless the caller is the owner.
func (o *Ownable) OnlyOwner() error {
	owner, err := o.owner.Get()
	if err != nil {
		return err
	}
	if owner != o.ctx.Caller() {
		return reverts.ErrNotOwner
	}
	return nil
}

func (o *Ownable) TransferOwnership(newOwner joker.Address) error {
	if err := o.OnlyOwner(); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return ErrZeroOwner
	}
	o.set(o.ctx.Caller(), newOwner)
	return nil
}

func (o *Ownable) RenounceOwnership() error {
	if err := o.OnlyOwner(); err != nil {
		return err
	}
	o.set(o.ctx.Caller(), joker.Address{})
	return nil
}

func (o *Ownable) set(prev, next joker.Address) {
	o.owner.Set(next)
	o.ctx.Log(o.transferred, []joker.Bytes32{xenv.Topic(prev), xenv.Topic(next)})
}
