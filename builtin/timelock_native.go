// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jokerswap/joker/builtin/timelock"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

// timelockTx decodes the (target, value, signature, data, eta) tuple shared
// by queue, cancel and execute.
func timelockTx(env *xenv.Environment) *timelock.Tx {
	var args struct {
		Target    common.Address
		Value     *big.Int
		Signature string
		Data      []byte
		Eta       *big.Int
	}
	env.ParseArgs(&args)
	return &timelock.Tx{
		Target:    joker.Address(args.Target),
		Value:     args.Value,
		Signature: args.Signature,
		Data:      args.Data,
		Eta:       args.Eta,
	}
}

func init() {
	Timelock.receivable = true
	Timelock.constructor = func(env *xenv.Environment) []any {
		var args struct {
			Admin common.Address
			Delay *big.Int
		}
		env.ParseArgs(&args)
		check(env, Timelock.Native(env).Initialize(joker.Address(args.Admin), args.Delay))
		return nil
	}

	constant := func(v uint64) NativeFunc {
		return func(env *xenv.Environment) []any {
			return []any{new(big.Int).SetUint64(v)}
		}
	}

	Timelock.register([]define{
		{"GRACE_PERIOD", constant(joker.TimelockGracePeriod)},
		{"MINIMUM_DELAY", constant(joker.TimelockMinimumDelay)},
		{"MAXIMUM_DELAY", constant(joker.TimelockMaximumDelay)},
		{"admin", func(env *xenv.Environment) []any {
			v, err := Timelock.Native(env).Admin()
			check(env, err)
			return []any{v}
		}},
		{"pendingAdmin", func(env *xenv.Environment) []any {
			v, err := Timelock.Native(env).PendingAdmin()
			check(env, err)
			return []any{v}
		}},
		{"delay", func(env *xenv.Environment) []any {
			v, err := Timelock.Native(env).Delay()
			check(env, err)
			return []any{v}
		}},
		{"admin_initialized", func(env *xenv.Environment) []any {
			v, err := Timelock.Native(env).AdminInitialized()
			check(env, err)
			return []any{v}
		}},
		{"queuedTransactions", func(env *xenv.Environment) []any {
			var args struct {
				TxHash common.Hash
			}
			env.ParseArgs(&args)
			v, err := Timelock.Native(env).QueuedTransactions(joker.Bytes32(args.TxHash))
			check(env, err)
			return []any{v}
		}},
		{"setDelay", func(env *xenv.Environment) []any {
			var args struct {
				Delay *big.Int
			}
			env.ParseArgs(&args)
			check(env, Timelock.Native(env).SetDelay(args.Delay))
			return nil
		}},
		{"acceptAdmin", func(env *xenv.Environment) []any {
			check(env, Timelock.Native(env).AcceptAdmin())
			return nil
		}},
		{"setPendingAdmin", func(env *xenv.Environment) []any {
			var args struct {
				PendingAdmin common.Address
			}
			env.ParseArgs(&args)
			check(env, Timelock.Native(env).SetPendingAdmin(joker.Address(args.PendingAdmin)))
			return nil
		}},
		{"queueTransaction", func(env *xenv.Environment) []any {
			hash, err := Timelock.Native(env).QueueTransaction(timelockTx(env))
			check(env, err)
			return []any{hash}
		}},
		{"cancelTransaction", func(env *xenv.Environment) []any {
			check(env, Timelock.Native(env).CancelTransaction(timelockTx(env)))
			return nil
		}},
		{"executeTransaction", func(env *xenv.Environment) []any {
			out, err := Timelock.Native(env).ExecuteTransaction(timelockTx(env))
			check(env, err)
			return []any{out}
		}},
	})
}
