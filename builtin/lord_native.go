// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jokerswap/joker/builtin/lord"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

// pidArg narrows an uint256 pool id, stopping the call when it cannot name a pool.
func pidArg(env *xenv.Environment, pid *big.Int) uint64 {
	if !pid.IsUint64() {
		env.Stop(reverts.Wrap(lord.ErrInvalidPid, "pool"))
	}
	return pid.Uint64()
}

func blockOf(env *xenv.Environment) uint64 {
	return uint64(env.BlockContext().Number)
}

func init() {
	Lord.constructor = func(env *xenv.Environment) []any {
		var args struct {
			Token      common.Address
			Devaddr    common.Address
			Treasury   common.Address
			StartBlock *big.Int
		}
		env.ParseArgs(&args)
		check(env, Lord.Native(env).Initialize(
			joker.Address(args.Token),
			joker.Address(args.Devaddr),
			joker.Address(args.Treasury),
			args.StartBlock))
		return nil
	}

	addressView := func(get func(*lord.Lord) (joker.Address, error)) NativeFunc {
		return func(env *xenv.Environment) []any {
			addr, err := get(Lord.Native(env))
			check(env, err)
			return []any{addr}
		}
	}
	setAddress := func(set func(*lord.Lord, joker.Address) error) NativeFunc {
		return func(env *xenv.Environment) []any {
			// every setter takes a single address, decoded positionally
			addr := env.ParseArgValues()[0].(common.Address)
			check(env, set(Lord.Native(env), joker.Address(addr)))
			return nil
		}
	}

	Lord.register([]define{
		{"owner", addressView((*lord.Lord).Owner)},
		{"token", addressView((*lord.Lord).Token)},
		{"devaddr", addressView((*lord.Lord).Devaddr)},
		{"treasury", addressView((*lord.Lord).Treasury)},
		{"migrator", addressView((*lord.Lord).Migrator)},
		{"lender", addressView((*lord.Lord).Lender)},
		{"vaults", addressView((*lord.Lord).Vaults)},
		{"transferOwnership", setAddress((*lord.Lord).TransferOwnership)},
		{"renounceOwnership", func(env *xenv.Environment) []any {
			check(env, Lord.Native(env).RenounceOwnership())
			return nil
		}},
		{"setMigrator", setAddress((*lord.Lord).SetMigrator)},
		{"setLender", setAddress((*lord.Lord).SetLender)},
		{"setVaults", setAddress((*lord.Lord).SetVaults)},
		{"transferTokenOwner", setAddress((*lord.Lord).TransferTokenOwner)},
		{"updateDev", setAddress((*lord.Lord).UpdateDev)},
		{"updateTreasury", setAddress((*lord.Lord).UpdateTreasury)},
		{"add", func(env *xenv.Environment) []any {
			var args struct {
				AllocPoint *big.Int
				StakeToken common.Address
				WithUpdate bool
				LendPool   bool
			}
			env.ParseArgs(&args)
			_, err := Lord.Native(env).Add(args.AllocPoint, joker.Address(args.StakeToken), args.WithUpdate, args.LendPool)
			check(env, err)
			return nil
		}},
		{"set", func(env *xenv.Environment) []any {
			var args struct {
				Pid        *big.Int
				AllocPoint *big.Int
				WithUpdate bool
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).Set(pidArg(env, args.Pid), args.AllocPoint, args.WithUpdate))
			return nil
		}},
		{"migrate", func(env *xenv.Environment) []any {
			var args struct {
				Pid *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).Migrate(pidArg(env, args.Pid)))
			return nil
		}},
		{"updatePool", func(env *xenv.Environment) []any {
			var args struct {
				Pid *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).UpdatePool(pidArg(env, args.Pid)))
			return nil
		}},
		{"massUpdatePools", func(env *xenv.Environment) []any {
			check(env, Lord.Native(env).MassUpdatePools())
			return nil
		}},
		{"pendingReward", func(env *xenv.Environment) []any {
			var args struct {
				Pid  *big.Int
				User common.Address
			}
			env.ParseArgs(&args)
			pending, err := Lord.Native(env).PendingReward(pidArg(env, args.Pid), joker.Address(args.User), blockOf(env))
			check(env, err)
			return []any{pending}
		}},
		{"claim", func(env *xenv.Environment) []any {
			var args struct {
				Pid *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).Claim(pidArg(env, args.Pid)))
			return nil
		}},
		{"deposit", func(env *xenv.Environment) []any {
			var args struct {
				User   common.Address
				Pid    *big.Int
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).Deposit(joker.Address(args.User), pidArg(env, args.Pid), args.Amount))
			return nil
		}},
		{"withdraw", func(env *xenv.Environment) []any {
			var args struct {
				User   common.Address
				Pid    *big.Int
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).Withdraw(joker.Address(args.User), pidArg(env, args.Pid), args.Amount))
			return nil
		}},
		{"emergencyWithdraw", func(env *xenv.Environment) []any {
			var args struct {
				User common.Address
				Pid  *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).EmergencyWithdraw(joker.Address(args.User), pidArg(env, args.Pid)))
			return nil
		}},
		{"depositLendPool", func(env *xenv.Environment) []any {
			var args struct {
				User   common.Address
				Pid    *big.Int
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).DepositLendPool(joker.Address(args.User), pidArg(env, args.Pid), args.Amount))
			return nil
		}},
		{"withdrawLendPool", func(env *xenv.Environment) []any {
			var args struct {
				User   common.Address
				Pid    *big.Int
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).WithdrawLendPool(joker.Address(args.User), pidArg(env, args.Pid), args.Amount))
			return nil
		}},
		{"lendToken", func(env *xenv.Environment) []any {
			var args struct {
				Borrower common.Address
				Pid      *big.Int
				Amount   *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).LendToken(joker.Address(args.Borrower), pidArg(env, args.Pid), args.Amount))
			return nil
		}},
		{"transferTokenToVaults", func(env *xenv.Environment) []any {
			var args struct {
				Pid    *big.Int
				Amount *big.Int
			}
			env.ParseArgs(&args)
			check(env, Lord.Native(env).TransferTokenToVaults(pidArg(env, args.Pid), args.Amount))
			return nil
		}},
		{"startBlock", func(env *xenv.Environment) []any {
			v, err := Lord.Native(env).StartBlock()
			check(env, err)
			return []any{v}
		}},
		{"totalAllocPoint", func(env *xenv.Environment) []any {
			v, err := Lord.Native(env).TotalAllocPoint()
			check(env, err)
			return []any{v}
		}},
		{"poolLength", func(env *xenv.Environment) []any {
			v, err := Lord.Native(env).PoolLength()
			check(env, err)
			return []any{new(big.Int).SetUint64(v)}
		}},
		{"rewardPerBlock", func(env *xenv.Environment) []any {
			v, err := Lord.Native(env).RewardPerBlock(blockOf(env))
			check(env, err)
			return []any{v}
		}},
		{"halveBlockNum", func(env *xenv.Environment) []any {
			v, err := Lord.Native(env).HalveBlockNum(blockOf(env))
			check(env, err)
			return []any{new(big.Int).SetUint64(v)}
		}},
		{"halvingInterval", func(env *xenv.Environment) []any {
			s, err := Lord.Native(env).Schedule()
			check(env, err)
			return []any{new(big.Int).SetUint64(s.HalvingInterval)}
		}},
		{"minRewardPerBlock", func(env *xenv.Environment) []any {
			s, err := Lord.Native(env).Schedule()
			check(env, err)
			return []any{s.MinRewardPerBlock}
		}},
		{"maxSupply", func(env *xenv.Environment) []any {
			s, err := Lord.Native(env).Schedule()
			check(env, err)
			return []any{s.MaxSupply}
		}},
		{"rewardBetween", func(env *xenv.Environment) []any {
			var args struct {
				From *big.Int
				To   *big.Int
			}
			env.ParseArgs(&args)
			if !args.From.IsUint64() || !args.To.IsUint64() {
				return []any{new(big.Int)}
			}
			v, err := Lord.Native(env).RewardBetween(args.From.Uint64(), args.To.Uint64())
			check(env, err)
			return []any{v}
		}},
		{"poolInfo", func(env *xenv.Environment) []any {
			var args struct {
				Pid *big.Int
			}
			env.ParseArgs(&args)
			p, err := Lord.Native(env).PoolInfo(pidArg(env, args.Pid))
			check(env, err)
			return []any{p.StakeToken, p.AllocPoint, new(big.Int).SetUint64(p.LastRewardBlock), p.AccRewardPerShare, p.TotalDeposit, p.LendPool}
		}},
		{"userInfo", func(env *xenv.Environment) []any {
			var args struct {
				Pid  *big.Int
				User common.Address
			}
			env.ParseArgs(&args)
			u, err := Lord.Native(env).UserInfo(pidArg(env, args.Pid), joker.Address(args.User))
			check(env, err)
			return []any{u.Amount, u.RewardDebt}
		}},
	})
}
