// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lord

import (
	"math/big"

	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/builtin/token"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

// poolReward computes the reward pool p earns from its last settlement up to
// block, capped so that the reward token supply stays within the max supply.
func (l *Lord) poolReward(p *PoolInfo, block uint64) (*big.Int, error) {
	s, err := l.Schedule()
	if err != nil {
		return nil, err
	}
	start, err := l.start()
	if err != nil {
		return nil, err
	}
	total, err := l.totalAllocPoint.Get()
	if err != nil {
		return nil, err
	}
	if total.Sign() == 0 {
		return new(big.Int), nil
	}
	reward := s.Between(start, p.LastRewardBlock, block)
	reward.Mul(reward, p.AllocPoint)
	reward.Div(reward, total)

	tok, err := l.token.Get()
	if err != nil {
		return nil, err
	}
	// the reward token is a builtin, its supply is read straight from state
	supply, err := token.New(tok, l.st, nil).TotalSupply()
	if err != nil {
		return nil, err
	}
	room := new(big.Int).Sub(s.MaxSupply, supply)
	if room.Sign() <= 0 {
		return new(big.Int), nil
	}
	if reward.Cmp(room) > 0 {
		reward.Set(room)
	}
	return reward, nil
}

// UpdatePool settles pool pid up to the current block.
func (l *Lord) UpdatePool(pid uint64) error {
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	_, err = l.settle(pid, pool)
	return err
}

// MassUpdatePools settles every pool.
func (l *Lord) MassUpdatePools() error {
	n, err := l.PoolLength()
	if err != nil {
		return err
	}
	for pid := uint64(0); pid < n; pid++ {
		if err := l.UpdatePool(pid); err != nil {
			return err
		}
	}
	return nil
}

// settle brings pool up to the current block, persists it and mints the
// reward shares. It returns the settled pool.
func (l *Lord) settle(pid uint64, pool *PoolInfo) (*PoolInfo, error) {
	block := l.block()
	if block <= pool.LastRewardBlock {
		return pool, nil
	}
	if pool.TotalDeposit.Sign() == 0 || pool.AllocPoint.Sign() == 0 {
		pool.LastRewardBlock = block
		return pool, l.setPool(pid, pool)
	}
	reward, err := l.poolReward(pool, block)
	if err != nil {
		return nil, err
	}
	dev, treasury, share := Split(reward)
	if share.Sign() > 0 {
		inc := new(big.Int).Mul(share, joker.AccRewardPrecision)
		inc.Div(inc, pool.TotalDeposit)
		pool.AccRewardPerShare = new(big.Int).Add(pool.AccRewardPerShare, inc)
	}
	pool.LastRewardBlock = block
	if err := l.setPool(pid, pool); err != nil {
		return nil, err
	}

	if reward.Sign() > 0 {
		devaddr, err := l.devaddr.Get()
		if err != nil {
			return nil, err
		}
		treasuryAddr, err := l.treasury.Get()
		if err != nil {
			return nil, err
		}
		for _, m := range []struct {
			to     joker.Address
			amount *big.Int
		}{{devaddr, dev}, {treasuryAddr, treasury}, {l.addr, share}} {
			if err := l.mint(m.to, m.amount); err != nil {
				return nil, err
			}
		}
		logger.Trace("pool settled", "pid", pid, "block", block, "reward", reward)
	}
	return pool, nil
}

func (l *Lord) mint(to joker.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	tok, err := l.token.Get()
	if err != nil {
		return err
	}
	_, err = l.ctx.CallMethod(tok, rewardMint, nil, to, amount)
	return err
}

// PendingReward is the reward user could claim from pool pid at block.
func (l *Lord) PendingReward(pid uint64, user joker.Address, block uint64) (*big.Int, error) {
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return nil, err
	}
	u, err := l.UserInfo(pid, user)
	if err != nil {
		return nil, err
	}
	acc := new(big.Int).Set(pool.AccRewardPerShare)
	if block > pool.LastRewardBlock && pool.TotalDeposit.Sign() > 0 && pool.AllocPoint.Sign() > 0 {
		reward, err := l.poolReward(pool, block)
		if err != nil {
			return nil, err
		}
		_, _, share := Split(reward)
		share.Mul(share, joker.AccRewardPrecision)
		acc.Add(acc, share.Div(share, pool.TotalDeposit))
	}
	pending := u.accrued(acc)
	pending.Sub(pending, u.RewardDebt)
	if pending.Sign() < 0 {
		pending.SetUint64(0)
	}
	return pending, nil
}

// checkCaller requires the caller to be the lender if one is set, or user otherwise.
func (l *Lord) checkCaller(op string, user joker.Address) error {
	lender, err := l.lender.Get()
	if err != nil {
		return err
	}
	caller := l.ctx.Caller()
	if lender.IsZero() {
		if caller != user {
			return reverts.Wrap(ErrCallerNotUser, op)
		}
		return nil
	}
	if caller != lender {
		return reverts.Wrap(ErrCallerNotLender, op)
	}
	return nil
}

func (l *Lord) onlyLender(op string) error {
	lender, err := l.lender.Get()
	if err != nil {
		return err
	}
	if lender.IsZero() || l.ctx.Caller() != lender {
		return reverts.Wrap(ErrCallerNotLender, op)
	}
	return nil
}

// Deposit stakes amount into pool pid on behalf of user, paying out what the
// position accrued so far.
func (l *Lord) Deposit(user joker.Address, pid uint64, amount *big.Int) error {
	const op = "deposit"
	if err := l.checkCaller(op, user); err != nil {
		return err
	}
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	if pool.LendPool {
		return reverts.Wrap(ErrPoolIsLendGated, op)
	}
	pending, err := l.credit(pid, pool, user, amount)
	if err != nil {
		return err
	}
	if amount.Sign() > 0 {
		if _, err := l.ctx.CallMethod(pool.StakeToken, stakeTransferFrom, nil, l.ctx.Caller(), l.addr, amount); err != nil {
			return err
		}
	}
	if err := l.pay(user, pid, pending); err != nil {
		return err
	}
	l.ctx.Log(evDeposit, userTopics(user, pid), amount)
	return nil
}

// Claim pays out the caller's reward in pool pid. It is a deposit of zero.
func (l *Lord) Claim(pid uint64) error {
	return l.Deposit(l.ctx.Caller(), pid, new(big.Int))
}

// Withdraw returns amount of stake from pool pid along with the accrued reward.
func (l *Lord) Withdraw(user joker.Address, pid uint64, amount *big.Int) error {
	const op = "withdraw"
	if err := l.checkCaller(op, user); err != nil {
		return err
	}
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	if pool.LendPool {
		return reverts.Wrap(ErrPoolIsLendGated, op)
	}
	pending, err := l.debit(op, pid, pool, user, amount)
	if err != nil {
		return err
	}
	if amount.Sign() > 0 {
		if _, err := l.ctx.CallMethod(pool.StakeToken, stakeTransfer, nil, l.ctx.Caller(), amount); err != nil {
			return err
		}
	}
	if err := l.pay(user, pid, pending); err != nil {
		return err
	}
	l.ctx.Log(evWithdraw, userTopics(user, pid), amount)
	return nil
}

// EmergencyWithdraw returns the whole stake of user in pool pid without settling
// and forfeits the reward.
func (l *Lord) EmergencyWithdraw(user joker.Address, pid uint64) error {
	const op = "emergencyWithdraw"
	if err := l.checkCaller(op, user); err != nil {
		return err
	}
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	if pool.LendPool {
		return reverts.Wrap(ErrPoolIsLendGated, op)
	}
	u, err := l.UserInfo(pid, user)
	if err != nil {
		return err
	}
	amount := u.Amount
	pool.TotalDeposit = new(big.Int).Sub(pool.TotalDeposit, amount)
	if err := l.setPool(pid, pool); err != nil {
		return err
	}
	if err := l.setUser(pid, user, &UserInfo{Amount: new(big.Int), RewardDebt: new(big.Int)}); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		if _, err := l.ctx.CallMethod(pool.StakeToken, stakeTransfer, nil, l.ctx.Caller(), amount); err != nil {
			return err
		}
	}
	l.ctx.Log(evEmergencyWithdraw, userTopics(user, pid), amount)
	return nil
}

// DepositLendPool books a deposit into a lend pool. The lender keeps the collateral.
func (l *Lord) DepositLendPool(user joker.Address, pid uint64, amount *big.Int) error {
	const op = "depositLendPool"
	if err := l.onlyLender(op); err != nil {
		return err
	}
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	if !pool.LendPool {
		return reverts.Wrap(ErrPoolNotLendGated, op)
	}
	pending, err := l.credit(pid, pool, user, amount)
	if err != nil {
		return err
	}
	if err := l.pay(user, pid, pending); err != nil {
		return err
	}
	l.ctx.Log(evDeposit, userTopics(user, pid), amount)
	return nil
}

// WithdrawLendPool books a withdrawal from a lend pool.
func (l *Lord) WithdrawLendPool(user joker.Address, pid uint64, amount *big.Int) error {
	const op = "withdrawLendPool"
	if err := l.onlyLender(op); err != nil {
		return err
	}
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	if !pool.LendPool {
		return reverts.Wrap(ErrPoolNotLendGated, op)
	}
	pending, err := l.debit(op, pid, pool, user, amount)
	if err != nil {
		return err
	}
	if err := l.pay(user, pid, pending); err != nil {
		return err
	}
	l.ctx.Log(evWithdraw, userTopics(user, pid), amount)
	return nil
}

// LendToken moves stake of pool pid out of custody to borrower. Lender only.
func (l *Lord) LendToken(borrower joker.Address, pid uint64, amount *big.Int) error {
	const op = "lendToken"
	lender, err := l.lender.Get()
	if err != nil {
		return err
	}
	if lender.IsZero() {
		return reverts.Wrap(ErrNoLender, op)
	}
	if l.ctx.Caller() != lender {
		return reverts.Wrap(ErrCallerNotLender, op)
	}
	if borrower.IsZero() {
		return reverts.Wrap(ErrLendToZero, op)
	}
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	_, err = l.ctx.CallMethod(pool.StakeToken, stakeTransfer, nil, borrower, amount)
	return err
}

// TransferTokenToVaults moves stake of pool pid out of custody to the vaults. Vaults only.
func (l *Lord) TransferTokenToVaults(pid uint64, amount *big.Int) error {
	const op = "transferTokenToVaults"
	vaults, err := l.vaults.Get()
	if err != nil {
		return err
	}
	if vaults.IsZero() {
		return reverts.Wrap(ErrNoVaults, op)
	}
	if l.ctx.Caller() != vaults {
		return reverts.Wrap(ErrCallerNotVaults, op)
	}
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	_, err = l.ctx.CallMethod(pool.StakeToken, stakeTransfer, nil, vaults, amount)
	return err
}

// credit settles the pool and adds amount to the position of user. It returns
// the reward accrued before the change.
func (l *Lord) credit(pid uint64, pool *PoolInfo, user joker.Address, amount *big.Int) (*big.Int, error) {
	pool, err := l.settle(pid, pool)
	if err != nil {
		return nil, err
	}
	u, err := l.UserInfo(pid, user)
	if err != nil {
		return nil, err
	}
	pending := new(big.Int)
	if u.Amount.Sign() > 0 {
		pending = u.accrued(pool.AccRewardPerShare)
		pending.Sub(pending, u.RewardDebt)
	}
	u.Amount = new(big.Int).Add(u.Amount, amount)
	u.RewardDebt = u.accrued(pool.AccRewardPerShare)
	pool.TotalDeposit = new(big.Int).Add(pool.TotalDeposit, amount)
	if err := l.setPool(pid, pool); err != nil {
		return nil, err
	}
	return pending, l.setUser(pid, user, u)
}

// debit is the reverse of credit.
func (l *Lord) debit(op string, pid uint64, pool *PoolInfo, user joker.Address, amount *big.Int) (*big.Int, error) {
	u, err := l.UserInfo(pid, user)
	if err != nil {
		return nil, err
	}
	if u.Amount.Cmp(amount) < 0 {
		return nil, reverts.Wrap(ErrInsufficientDeposit, op)
	}
	if pool, err = l.settle(pid, pool); err != nil {
		return nil, err
	}
	pending := u.accrued(pool.AccRewardPerShare)
	pending.Sub(pending, u.RewardDebt)
	u.Amount = new(big.Int).Sub(u.Amount, amount)
	u.RewardDebt = u.accrued(pool.AccRewardPerShare)
	pool.TotalDeposit = new(big.Int).Sub(pool.TotalDeposit, amount)
	if err := l.setPool(pid, pool); err != nil {
		return nil, err
	}
	return pending, l.setUser(pid, user, u)
}

// pay transfers reward out of custody, capped at what the engine holds.
func (l *Lord) pay(user joker.Address, pid uint64, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return nil
	}
	tok, err := l.token.Get()
	if err != nil {
		return err
	}
	out, err := l.ctx.CallMethod(tok, rewardBalanceOf, nil, l.addr)
	if err != nil {
		return err
	}
	bal, err := outUint(out)
	if err != nil {
		return err
	}
	if amount.Cmp(bal) > 0 {
		amount = bal
	}
	if amount.Sign() == 0 {
		return nil
	}
	if _, err := l.ctx.CallMethod(tok, rewardTransfer, nil, user, amount); err != nil {
		return err
	}
	l.ctx.Log(evRewardClaimed, userTopics(user, pid), amount)
	return nil
}

func userTopics(user joker.Address, pid uint64) []joker.Bytes32 {
	return []joker.Bytes32{xenv.Topic(user), xenv.UintTopic(new(big.Int).SetUint64(pid))}
}
