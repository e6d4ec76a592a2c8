// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jokerswap/joker/builtin/token"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

func init() {
	Token.constructor = func(env *xenv.Environment) []any {
		var args struct {
			Cap *big.Int
		}
		env.ParseArgs(&args)
		Token.Native(env).Initialize(args.Cap)
		return nil
	}

	Token.register([]define{
		{"name", func(env *xenv.Environment) []any {
			return []any{joker.TokenName}
		}},
		{"symbol", func(env *xenv.Environment) []any {
			return []any{joker.TokenSymbol}
		}},
		{"decimals", func(env *xenv.Environment) []any {
			return []any{joker.TokenDecimals}
		}},
		{"totalSupply", func(env *xenv.Environment) []any {
			supply, err := Token.Native(env).TotalSupply()
			check(env, err)
			return []any{supply}
		}},
		{"cap", func(env *xenv.Environment) []any {
			limit, err := Token.Native(env).Cap()
			check(env, err)
			return []any{limit}
		}},
		{"balanceOf", func(env *xenv.Environment) []any {
			var args struct {
				Account common.Address
			}
			env.ParseArgs(&args)
			bal, err := Token.Native(env).BalanceOf(joker.Address(args.Account))
			check(env, err)
			return []any{bal}
		}},
		{"allowance", func(env *xenv.Environment) []any {
			var args struct {
				Owner   common.Address
				Spender common.Address
			}
			env.ParseArgs(&args)
			allowance, err := Token.Native(env).Allowance(joker.Address(args.Owner), joker.Address(args.Spender))
			check(env, err)
			return []any{allowance}
		}},
		{"transfer", func(env *xenv.Environment) []any {
			var args struct {
				Recipient common.Address
				Amount    *big.Int
			}
			env.ParseArgs(&args)
			check(env, Token.Native(env).Transfer(joker.Address(args.Recipient), args.Amount))
			return []any{true}
		}},
		{"transferFrom", func(env *xenv.Environment) []any {
			var args struct {
				Sender    common.Address
				Recipient common.Address
				Amount    *big.Int
			}
			env.ParseArgs(&args)
			check(env, Token.Native(env).TransferFrom(joker.Address(args.Sender), joker.Address(args.Recipient), args.Amount))
			return []any{true}
		}},
		{"approve", func(env *xenv.Environment) []any {
			var args struct {
				Spender common.Address
				Amount  *big.Int
			}
			env.ParseArgs(&args)
			check(env, Token.Native(env).Approve(joker.Address(args.Spender), args.Amount))
			return []any{true}
		}},
		{"increaseAllowance", func(env *xenv.Environment) []any {
			var args struct {
				Spender    common.Address
				AddedValue *big.Int
			}
			env.ParseArgs(&args)
			check(env, Token.Native(env).IncreaseAllowance(joker.Address(args.Spender), args.AddedValue))
			return []any{true}
		}},
		{"decreaseAllowance", func(env *xenv.Environment) []any {
			var args struct {
				Spender         common.Address
				SubtractedValue *big.Int
			}
			env.ParseArgs(&args)
			check(env, Token.Native(env).DecreaseAllowance(joker.Address(args.Spender), args.SubtractedValue))
			return []any{true}
		}},
		{"owner", func(env *xenv.Environment) []any {
			owner, err := Token.Native(env).Owner()
			check(env, err)
			return []any{owner}
		}},
		{"transferOwnership", func(env *xenv.Environment) []any {
			var args struct {
				NewOwner common.Address
			}
			env.ParseArgs(&args)
			check(env, Token.Native(env).TransferOwnership(joker.Address(args.NewOwner)))
			return nil
		}},
		{"renounceOwnership", func(env *xenv.Environment) []any {
			check(env, Token.Native(env).RenounceOwnership())
			return nil
		}},
		{"mint", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, Token.Native(env).Mint(joker.Address(args.To), args.Amount))
			return nil
		}},
		{"delegate", func(env *xenv.Environment) []any {
			var args struct {
				Delegatee common.Address
			}
			env.ParseArgs(&args)
			check(env, Token.Native(env).Delegate(joker.Address(args.Delegatee)))
			return nil
		}},
		{"delegateBySig", func(env *xenv.Environment) []any {
			var args struct {
				Delegatee common.Address
				Nonce     *big.Int
				Expiry    *big.Int
				V         uint8
				R         [32]byte
				S         [32]byte
			}
			env.ParseArgs(&args)
			check(env, Token.Native(env).DelegateBySig(joker.Address(args.Delegatee), args.Nonce, args.Expiry, args.V, args.R, args.S))
			return nil
		}},
		{"delegates", func(env *xenv.Environment) []any {
			var args struct {
				Delegator common.Address
			}
			env.ParseArgs(&args)
			delegatee, err := Token.Native(env).Delegates(joker.Address(args.Delegator))
			check(env, err)
			return []any{delegatee}
		}},
		{"getCurrentVotes", func(env *xenv.Environment) []any {
			var args struct {
				Account common.Address
			}
			env.ParseArgs(&args)
			votes, err := Token.Native(env).GetCurrentVotes(joker.Address(args.Account))
			check(env, err)
			return []any{votes}
		}},
		{"getPriorVotes", func(env *xenv.Environment) []any {
			var args struct {
				Account     common.Address
				BlockNumber *big.Int
			}
			env.ParseArgs(&args)
			votes, err := Token.Native(env).GetPriorVotes(joker.Address(args.Account), args.BlockNumber, env.BlockContext().Number)
			check(env, err)
			return []any{votes}
		}},
		{"numCheckpoints", func(env *xenv.Environment) []any {
			var args struct {
				Account common.Address
			}
			env.ParseArgs(&args)
			n, err := Token.Native(env).NumCheckpoints(joker.Address(args.Account))
			check(env, err)
			return []any{n}
		}},
		{"checkpoints", func(env *xenv.Environment) []any {
			var args struct {
				Account common.Address
				Index   uint32
			}
			env.ParseArgs(&args)
			cp, err := Token.Native(env).Checkpoints(joker.Address(args.Account), args.Index)
			check(env, err)
			return []any{cp.FromBlock, cp.Votes}
		}},
		{"nonces", func(env *xenv.Environment) []any {
			var args struct {
				Account common.Address
			}
			env.ParseArgs(&args)
			nonce, err := Token.Native(env).Nonces(joker.Address(args.Account))
			check(env, err)
			return []any{nonce}
		}},
		{"DOMAIN_SEPARATOR", func(env *xenv.Environment) []any {
			return []any{Token.Native(env).DomainSeparator(env.BlockContext().ChainID)}
		}},
		{"DOMAIN_TYPEHASH", func(env *xenv.Environment) []any {
			return []any{joker.DomainTypeHash}
		}},
		{"DELEGATION_TYPEHASH", func(env *xenv.Environment) []any {
			return []any{token.DelegationTypeHash}
		}},
	})
}
