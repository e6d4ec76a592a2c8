// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/state"
)

// ErrNonPayable is returned when value is sent to a method that can't receive it.
var ErrNonPayable = reverts.New(reverts.Invariant, "NonPayable", "non-payable method")

// BlockContext block context.
type BlockContext struct {
	Number  uint32
	Time    uint64
	ChainID uint64
}

// Log is an event emitted by a program.
type Log struct {
	Address joker.Address
	Topics  []joker.Bytes32
	Data    []byte
}

// Host runs nested calls and collects logs.
type Host interface {
	Call(caller, to joker.Address, value *big.Int, input []byte) ([]byte, error)
	AddLog(log *Log)
}

// Frame describes the call being executed.
type Frame struct {
	Caller joker.Address
	To     joker.Address
	Value  *big.Int
	Input  []byte
}

type vmError struct {
	cause error
}

// Context is what a program sees of the call it serves.
type Context interface {
	Caller() joker.Address
	To() joker.Address
	Value() *big.Int
	BlockContext() *BlockContext
	CallMethod(to joker.Address, method *abi.Method, value *big.Int, args ...any) ([]any, error)
	CallRaw(to joker.Address, value *big.Int, input []byte) ([]byte, error)
	Log(event *abi.Event, topics []joker.Bytes32, args ...any)
}

var _ Context = (*Environment)(nil)

// Environment an env to execute native method.
type Environment struct {
	abi      *abi.Method
	state    *state.State
	blockCtx *BlockContext
	host     Host
	frame    *Frame
}

// New create a new env.
func New(
	abi *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	host Host,
	frame *Frame,
) *Environment {
	return &Environment{
		abi:      abi,
		state:    state,
		blockCtx: blockCtx,
		host:     host,
		frame:    frame,
	}
}

func (env *Environment) State() *state.State         { return env.state }
func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }
func (env *Environment) Caller() joker.Address       { return env.frame.Caller }
func (env *Environment) To() joker.Address           { return env.frame.To }
func (env *Environment) Method() *abi.Method         { return env.abi }

func (env *Environment) Value() *big.Int {
	if env.frame.Value == nil {
		return new(big.Int)
	}
	return env.frame.Value
}

func (env *Environment) ParseArgs(val any) {
	if err := env.abi.DecodeInput(env.frame.Input, val); err != nil {
		panic(&vmError{errors.WithMessage(err, "decode native input")})
	}
}

// ParseArgValues decodes the call input into positional values.
func (env *Environment) ParseArgValues() []any {
	values, err := env.abi.DecodeInputValues(env.frame.Input)
	if err != nil {
		panic(&vmError{errors.WithMessage(err, "decode native input")})
	}
	return values
}

// Require stops execution with err if cond is false.
func (env *Environment) Require(cond bool, err error) {
	if !cond {
		panic(&vmError{err})
	}
}

// Log emits an event from the executing program.
func (env *Environment) Log(event *abi.Event, topics []joker.Bytes32, args ...any) {
	data, err := event.Encode(args...)
	if err != nil {
		panic(&vmError{errors.WithMessage(err, "encode native event")})
	}

	all := make([]joker.Bytes32, 0, len(topics)+1)
	all = append(all, event.ID())
	all = append(all, topics...)
	env.host.AddLog(&Log{
		Address: env.To(),
		Topics:  all,
		Data:    data,
	})
}

// CallMethod calls a method of another program on behalf of the executing one.
func (env *Environment) CallMethod(to joker.Address, method *abi.Method, value *big.Int, args ...any) ([]any, error) {
	input, err := method.EncodeInput(args...)
	if err != nil {
		return nil, errors.WithMessagef(err, "encode call to %s", method.Name())
	}
	output, err := env.host.Call(env.To(), to, value, input)
	if err != nil {
		return nil, err
	}
	if len(output) == 0 {
		return nil, nil
	}
	return method.DecodeOutputValues(output)
}

// CallRaw forwards raw input to another program on behalf of the executing one.
func (env *Environment) CallRaw(to joker.Address, value *big.Int, input []byte) ([]byte, error) {
	return env.host.Call(env.To(), to, value, input)
}

func (env *Environment) Stop(vmerr error) {
	panic(&vmError{vmerr})
}

// Call returns a function running proc against the env and encoding its outputs.
func (env *Environment) Call(proc func(env *Environment) []any) func() ([]byte, error) {
	return func() (data []byte, err error) {
		if env.Value().Sign() != 0 && !env.abi.Payable() {
			// reject value transfer on call
			return nil, ErrNonPayable
		}

		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*vmError); ok {
					err = rec.cause
				} else {
					panic(e)
				}
			}
		}()
		output := proc(env)
		data, err = env.abi.EncodeOutput(output...)
		if err != nil {
			panic(errors.WithMessage(err, "encode native output"))
		}
		return
	}
}

// Topic converts an address into an event topic.
func Topic(addr joker.Address) joker.Bytes32 {
	return joker.BytesToBytes32(addr.Bytes())
}

// UintTopic converts a number into an event topic.
func UintTopic(v *big.Int) joker.Bytes32 {
	return joker.BytesToBytes32(v.Bytes())
}
