// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/runtime"
	"github.com/jokerswap/joker/state"
)

// Ref names a program deployed by an earlier step of the same build.
// It is resolved to the deployed address when passed as an argument.
type Ref string

// Addresses maps deployment names to program addresses.
type Addresses map[string]joker.Address

type step struct {
	name   string
	caller joker.Address
	prog   builtin.Program
	to     Ref
	method string
	args   []any
	fund   *big.Int
	proc   func(st *state.State, addrs Addresses) error
}

// Builder helper to bootstrap a runtime.
type Builder struct {
	timestamp uint64
	steps     []step
}

// Timestamp set timestamp of the genesis block.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// Deploy add a program deployment, registered under name.
func (b *Builder) Deploy(name string, deployer joker.Address, prog builtin.Program, args ...any) *Builder {
	b.steps = append(b.steps, step{name: name, caller: deployer, prog: prog, args: args})
	return b
}

// Call add a call to a program deployed earlier.
func (b *Builder) Call(caller joker.Address, to Ref, method string, args ...any) *Builder {
	b.steps = append(b.steps, step{caller: caller, to: to, method: method, args: args})
	return b
}

// Fund add a native balance allocation.
func (b *Builder) Fund(addr joker.Address, amount *big.Int) *Builder {
	b.steps = append(b.steps, step{caller: addr, fund: amount})
	return b
}

// State add a state process, run after the steps added before it.
func (b *Builder) State(proc func(st *state.State, addrs Addresses) error) *Builder {
	b.steps = append(b.steps, step{proc: proc})
	return b
}

// Build runs the steps against rt and seals them into the genesis block.
// The runtime must be empty. Auto-mine is turned off; callers switch it back on.
func (b *Builder) Build(rt *runtime.Runtime) (Addresses, error) {
	if ok, err := rt.Initialized(); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.New("genesis: runtime already initialized")
	}
	rt.SetAutoMine(false)
	rt.IncreaseTime(b.timestamp)

	addrs := make(Addresses)
	progs := make(map[string]builtin.Program)
	for i, s := range b.steps {
		if err := b.run(rt, s, addrs, progs); err != nil {
			return nil, errors.WithMessagef(err, "genesis: step %d", i)
		}
	}
	if err := rt.Mine(1, 0); err != nil {
		return nil, err
	}
	logger.Debug("genesis built", "programs", len(addrs), "time", b.timestamp)
	return addrs, nil
}

func (b *Builder) run(rt *runtime.Runtime, s step, addrs Addresses, progs map[string]builtin.Program) error {
	switch {
	case s.proc != nil:
		return rt.Update(func(st *state.State, _ runtime.Head) error {
			return s.proc(st, addrs)
		})
	case s.fund != nil:
		return rt.Fund(s.caller, s.fund)
	}

	args, err := resolve(s.args, addrs)
	if err != nil {
		return err
	}
	if s.prog != nil {
		receipt, err := rt.Deploy(s.caller, s.prog, args...)
		if err != nil {
			return err
		}
		if receipt.Reverted {
			return errors.Errorf("deploy %s: %s", s.name, receipt.Reason)
		}
		addrs[s.name] = *receipt.Deployed
		progs[s.name] = s.prog
		return nil
	}

	prog, ok := progs[string(s.to)]
	if !ok {
		return errors.Errorf("call %s.%s: unknown program", s.to, s.method)
	}
	method, ok := prog.ABI().MethodByName(s.method)
	if !ok {
		return errors.Errorf("call %s.%s: method not found", s.to, s.method)
	}
	input, err := method.EncodeInput(args...)
	if err != nil {
		return errors.WithMessagef(err, "encode %s.%s", s.to, s.method)
	}
	receipt, err := rt.Execute(s.caller, addrs[string(s.to)], new(big.Int), input)
	if err != nil {
		return err
	}
	if receipt.Reverted {
		return errors.Errorf("call %s.%s: %s", s.to, s.method, receipt.Reason)
	}
	return nil
}

func resolve(args []any, addrs Addresses) ([]any, error) {
	out := make([]any, len(args))
	for i, arg := range args {
		ref, ok := arg.(Ref)
		if !ok {
			out[i] = arg
			continue
		}
		addr, ok := addrs[string(ref)]
		if !ok {
			return nil, errors.Errorf("unresolved reference %q", ref)
		}
		out[i] = addr
	}
	return out, nil
}
