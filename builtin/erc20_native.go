// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jokerswap/joker/builtin/erc20"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

func init() {
	ERC20.constructor = func(env *xenv.Environment) []any {
		var args struct {
			Name   string
			Symbol string
			Supply *big.Int
			Holder common.Address
		}
		env.ParseArgs(&args)
		check(env, ERC20.Native(env).Initialize(args.Name, args.Symbol, args.Supply, joker.Address(args.Holder)))
		return nil
	}

	ERC20.register([]define{
		{"name", func(env *xenv.Environment) []any {
			name, err := ERC20.Native(env).Name()
			check(env, err)
			return []any{name}
		}},
		{"symbol", func(env *xenv.Environment) []any {
			symbol, err := ERC20.Native(env).Symbol()
			check(env, err)
			return []any{symbol}
		}},
		{"decimals", func(env *xenv.Environment) []any {
			return []any{erc20.Decimals}
		}},
		{"totalSupply", func(env *xenv.Environment) []any {
			supply, err := ERC20.Native(env).TotalSupply()
			check(env, err)
			return []any{supply}
		}},
		{"balanceOf", func(env *xenv.Environment) []any {
			var args struct {
				Account common.Address
			}
			env.ParseArgs(&args)
			bal, err := ERC20.Native(env).BalanceOf(joker.Address(args.Account))
			check(env, err)
			return []any{bal}
		}},
		{"allowance", func(env *xenv.Environment) []any {
			var args struct {
				Owner   common.Address
				Spender common.Address
			}
			env.ParseArgs(&args)
			allowance, err := ERC20.Native(env).Allowance(joker.Address(args.Owner), joker.Address(args.Spender))
			check(env, err)
			return []any{allowance}
		}},
		{"transfer", func(env *xenv.Environment) []any {
			var args struct {
				Recipient common.Address
				Amount    *big.Int
			}
			env.ParseArgs(&args)
			check(env, ERC20.Native(env).Transfer(joker.Address(args.Recipient), args.Amount))
			return []any{true}
		}},
		{"transferFrom", func(env *xenv.Environment) []any {
			var args struct {
				Sender    common.Address
				Recipient common.Address
				Amount    *big.Int
			}
			env.ParseArgs(&args)
			check(env, ERC20.Native(env).TransferFrom(joker.Address(args.Sender), joker.Address(args.Recipient), args.Amount))
			return []any{true}
		}},
		{"approve", func(env *xenv.Environment) []any {
			var args struct {
				Spender common.Address
				Amount  *big.Int
			}
			env.ParseArgs(&args)
			check(env, ERC20.Native(env).Approve(joker.Address(args.Spender), args.Amount))
			return []any{true}
		}},
		{"owner", func(env *xenv.Environment) []any {
			owner, err := ERC20.Native(env).Owner()
			check(env, err)
			return []any{owner}
		}},
		{"transferOwnership", func(env *xenv.Environment) []any {
			var args struct {
				NewOwner common.Address
			}
			env.ParseArgs(&args)
			check(env, ERC20.Native(env).TransferOwnership(joker.Address(args.NewOwner)))
			return nil
		}},
		{"renounceOwnership", func(env *xenv.Environment) []any {
			check(env, ERC20.Native(env).RenounceOwnership())
			return nil
		}},
		{"mint", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, ERC20.Native(env).Mint(joker.Address(args.To), args.Amount))
			return nil
		}},
	})
}
