// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testenv provides an in-memory xenv.Context for unit testing builtin logic
// without a runtime.
package testenv

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

// CallFunc answers an outbound method call.
type CallFunc func(caller joker.Address, method *abi.Method, value *big.Int, args []any) ([]any, error)

// RawFunc answers an outbound call carrying raw input.
type RawFunc func(caller joker.Address, value *big.Int, input []byte) ([]byte, error)

// Context is a mutable xenv.Context.
type Context struct {
	caller joker.Address
	to     joker.Address
	value  *big.Int
	block  xenv.BlockContext

	Logs  []*xenv.Log
	calls map[joker.Address]CallFunc
	raw   map[joker.Address]RawFunc
}

var _ xenv.Context = (*Context)(nil)

// New creates a context executing at `to`.
func New(to joker.Address) *Context {
	return &Context{
		to:    to,
		value: new(big.Int),
		block: xenv.BlockContext{Number: 1, Time: 1, ChainID: 1},
		calls: make(map[joker.Address]CallFunc),
		raw:   make(map[joker.Address]RawFunc),
	}
}

func (c *Context) Caller() joker.Address            { return c.caller }
func (c *Context) To() joker.Address                { return c.to }
func (c *Context) Value() *big.Int                  { return c.value }
func (c *Context) BlockContext() *xenv.BlockContext { return &c.block }

// As switches the caller.
func (c *Context) As(caller joker.Address) *Context {
	c.caller = caller
	return c
}

// WithValue sets the value sent along the call.
func (c *Context) WithValue(v *big.Int) *Context {
	c.value = v
	return c
}

// At moves the clocks.
func (c *Context) At(number uint32, time uint64) *Context {
	c.block.Number = number
	c.block.Time = time
	return c
}

// Mine advances the block number by n.
func (c *Context) Mine(n uint32) *Context {
	c.block.Number += n
	return c
}

// Sub returns the context of a nested call from c into to. It shares the
// handlers of c and sees the block of c at the time of the call.
func (c *Context) Sub(to joker.Address) *Context {
	return &Context{
		caller: c.to,
		to:     to,
		value:  new(big.Int),
		block:  c.block,
		calls:  c.calls,
		raw:    c.raw,
	}
}

// Handle routes outbound calls to addr into fn.
func (c *Context) Handle(addr joker.Address, fn CallFunc) {
	c.calls[addr] = fn
}

func (c *Context) CallMethod(to joker.Address, method *abi.Method, value *big.Int, args ...any) ([]any, error) {
	fn, ok := c.calls[to]
	if !ok {
		return nil, errors.Errorf("no handler for %v", to)
	}
	return fn(c.to, method, value, args)
}

// HandleRaw routes outbound raw calls to addr into fn.
func (c *Context) HandleRaw(addr joker.Address, fn RawFunc) {
	c.raw[addr] = fn
}

func (c *Context) CallRaw(to joker.Address, value *big.Int, input []byte) ([]byte, error) {
	fn, ok := c.raw[to]
	if !ok {
		return nil, errors.Errorf("no raw handler for %v", to)
	}
	return fn(c.to, value, input)
}

func (c *Context) Log(event *abi.Event, topics []joker.Bytes32, args ...any) {
	data, err := event.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode event"))
	}
	all := append([]joker.Bytes32{event.ID()}, topics...)
	c.Logs = append(c.Logs, &xenv.Log{Address: c.to, Topics: all, Data: data})
}

// Events returns the names of logged events in order, resolved against a.
func (c *Context) Events(a *abi.ABI) []string {
	names := make([]string, 0, len(c.Logs))
	for _, l := range c.Logs {
		if ev, ok := a.EventByID(l.Topics[0]); ok {
			names = append(names, ev.Name())
		}
	}
	return names
}

// Reset clears recorded logs.
func (c *Context) Reset() {
	c.Logs = nil
}
