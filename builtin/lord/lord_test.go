// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lord

import (
	"errors"
	"math/big"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/erc20"
	"github.com/jokerswap/joker/builtin/migrator"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/builtin/token"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/lvldb"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/test/testenv"
)

func M(a ...any) []any {
	return a
}

var (
	owner    = joker.BytesToAddress([]byte("owner"))
	dev      = joker.BytesToAddress([]byte("dev"))
	treasury = joker.BytesToAddress([]byte("treasury"))
	minter   = joker.BytesToAddress([]byte("minter"))
	lender   = joker.BytesToAddress([]byte("lender"))
	vaults   = joker.BytesToAddress([]byte("vaults"))

	lordAddr  = joker.BytesToAddress([]byte("lord"))
	tokenAddr = joker.BytesToAddress([]byte("joker"))
)

func n(v int64) *big.Int {
	return big.NewInt(v)
}

// e returns v whole tokens.
func e(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), joker.Ether)
}

// str formats a getter result, an error shows up in the failed comparison.
func str(v *big.Int, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return v.String()
}

type harness struct {
	t    *testing.T
	st   *state.State
	ctx  *testenv.Context
	lord *Lord
}

// newHarness deploys the reward token, hands it to a fresh engine and makes
// every outbound call of the engine land on the real token programs.
func newHarness(t *testing.T, startBlock int64) *harness {
	st := state.New(lvldb.NewMem(), nil)
	h := &harness{t: t, st: st, ctx: testenv.New(lordAddr).As(owner)}

	tok := token.New(tokenAddr, st, testenv.New(tokenAddr).As(owner))
	tok.Initialize(joker.MaxSupply)
	require.NoError(t, tok.TransferOwnership(lordAddr))

	h.route(tokenAddr, func(ctx *testenv.Context, method string, args []any) ([]any, error) {
		tok := token.New(tokenAddr, st, ctx)
		switch method {
		case "mint":
			return nil, tok.Mint(args[0].(joker.Address), args[1].(*big.Int))
		case "transfer":
			return M(true), tok.Transfer(args[0].(joker.Address), args[1].(*big.Int))
		case "balanceOf":
			bal, err := tok.BalanceOf(args[0].(joker.Address))
			return M(bal), err
		case "transferOwnership":
			return nil, tok.TransferOwnership(args[0].(joker.Address))
		}
		return nil, pkgerrors.Errorf("token: unexpected %s", method)
	})

	h.lord = New(lordAddr, st, h.ctx)
	require.NoError(t, h.lord.Initialize(tokenAddr, dev, treasury, n(startBlock)))
	return h
}

func (h *harness) route(addr joker.Address, fn func(ctx *testenv.Context, method string, args []any) ([]any, error)) {
	h.ctx.Handle(addr, func(caller joker.Address, method *abi.Method, _ *big.Int, args []any) ([]any, error) {
		return fn(h.ctx.Sub(addr).As(caller), method.Name(), args)
	})
}

// newStake deploys a stake token holding supply for minter.
func (h *harness) newStake(name string, supply int64) joker.Address {
	addr := joker.BytesToAddress([]byte(name))
	st := h.st
	require.NoError(h.t, erc20.New(addr, st, testenv.New(addr).As(minter)).Initialize(name, name, n(supply), minter))
	h.route(addr, func(ctx *testenv.Context, method string, args []any) ([]any, error) {
		e := erc20.New(addr, st, ctx)
		switch method {
		case "transfer":
			return M(true), e.Transfer(args[0].(joker.Address), args[1].(*big.Int))
		case "transferFrom":
			return M(true), e.TransferFrom(args[0].(joker.Address), args[1].(joker.Address), args[2].(*big.Int))
		case "approve":
			return M(true), e.Approve(args[0].(joker.Address), args[1].(*big.Int))
		case "balanceOf":
			bal, err := e.BalanceOf(args[0].(joker.Address))
			return M(bal), err
		case "mint":
			return nil, e.Mint(args[0].(joker.Address), args[1].(*big.Int))
		}
		return nil, pkgerrors.Errorf("stake: unexpected %s", method)
	})
	return addr
}

func (h *harness) stake(addr joker.Address, holder joker.Address) *erc20.ERC20 {
	return erc20.New(addr, h.st, testenv.New(addr).As(holder))
}

func (h *harness) reward() *token.Token {
	return token.New(tokenAddr, h.st, nil)
}

// as switches the caller of the engine.
func (h *harness) as(caller joker.Address) *Lord {
	h.ctx.As(caller)
	return h.lord
}

// at moves the engine to block number.
func (h *harness) at(number uint32) *harness {
	h.ctx.At(number, uint64(number)*joker.BlockInterval)
	return h
}

func (h *harness) pool(pid uint64) *PoolInfo {
	p, err := h.lord.PoolInfo(pid)
	require.NoError(h.t, err)
	return p
}

func (h *harness) user(pid uint64, addr joker.Address) *UserInfo {
	u, err := h.lord.UserInfo(pid, addr)
	require.NoError(h.t, err)
	return u
}

func (h *harness) pending(pid uint64, addr joker.Address) string {
	v, err := h.lord.PendingReward(pid, addr, uint64(h.ctx.BlockContext().Number))
	require.NoError(h.t, err)
	return v.String()
}

// addPool adds a plain pool at the current block and lets minter stake up to 1000.
func (h *harness) addPool(name string, allocPoint int64) (uint64, joker.Address) {
	stake := h.newStake(name, 100_000_000)
	pid, err := h.as(owner).Add(n(allocPoint), stake, false, false)
	require.NoError(h.t, err)
	require.NoError(h.t, h.stake(stake, minter).Approve(lordAddr, n(100_000_000)))
	return pid, stake
}

func assertRevert(t *testing.T, err error, target *reverts.ErrRequire, reason string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, target), "want %v got %v", target, err)
	assert.EqualError(t, err, reason)
}

func TestInitialize(t *testing.T) {
	h := newHarness(t, 0)
	l := h.lord

	o, err := l.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, o)
	for _, tt := range []struct {
		get  func() (joker.Address, error)
		want joker.Address
	}{
		{l.Token, tokenAddr},
		{l.Devaddr, dev},
		{l.Treasury, treasury},
		{l.Migrator, joker.Address{}},
		{l.Lender, joker.Address{}},
		{l.Vaults, joker.Address{}},
	} {
		got, err := tt.get()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "0", str(l.TotalAllocPoint()))
	assert.Equal(t, "0", str(l.StartBlock()))
	length, err := l.PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), length)

	assert.Equal(t, e(80).String(), str(l.RewardPerBlock(1)))
	halve, err := l.HalveBlockNum(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(200_000), halve)

	tokOwner, err := h.reward().Owner()
	require.NoError(t, err)
	assert.Equal(t, lordAddr, tokOwner)

	_, err = l.PoolInfo(0)
	assertRevert(t, err, ErrInvalidPid, "pool: invalid pid")
}

func TestAdd(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	stake := h.newStake("TOKEN1", 1000)

	_, err := h.as(minter).Add(n(100), stake, false, false)
	assert.True(t, errors.Is(err, reverts.ErrNotOwner))
	_, err = h.as(owner).Add(n(100), stake, false, true)
	assertRevert(t, err, ErrNoLender, "add: no lender")

	h.ctx.Reset()
	pid, err := h.as(owner).Add(n(100), stake, false, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), pid)
	assert.Equal(t, []string{"PoolAdded"}, h.ctx.Events(ABI))

	require.NoError(t, h.lord.SetLender(lender))
	h.at(11)
	pid, err = h.lord.Add(n(200), stake, false, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), pid)

	assert.Equal(t, "300", str(h.lord.TotalAllocPoint()))
	p0, p1 := h.pool(0), h.pool(1)
	assert.Equal(t, stake, p0.StakeToken)
	assert.Equal(t, "100", p0.AllocPoint.String())
	assert.Equal(t, uint64(10), p0.LastRewardBlock)
	assert.False(t, p0.LendPool)
	assert.Equal(t, "0", p0.AccRewardPerShare.String())
	assert.Equal(t, "0", p0.TotalDeposit.String())
	assert.Equal(t, uint64(11), p1.LastRewardBlock)
	assert.True(t, p1.LendPool)
}

func TestAddBeforeStart(t *testing.T) {
	h := newHarness(t, 50)
	h.at(10)
	pid, _ := h.addPool("TOKEN1", 100)
	assert.Equal(t, uint64(50), h.pool(pid).LastRewardBlock)
}

func TestSet(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	h.addPool("TOKEN1", 100)
	h.addPool("TOKEN2", 200)

	assert.True(t, errors.Is(h.as(minter).Set(0, n(10), false), reverts.ErrNotOwner))
	assertRevert(t, h.as(owner).Set(2, n(10), false), ErrInvalidPid, "pool: invalid pid")

	h.at(13)
	h.ctx.Reset()
	require.NoError(t, h.as(owner).Set(0, n(200), false))
	require.NoError(t, h.lord.Set(1, n(300), false))
	assert.Equal(t, []string{"PoolWeightChanged", "PoolWeightChanged"}, h.ctx.Events(ABI))
	assert.Equal(t, "500", str(h.lord.TotalAllocPoint()))
	assert.Equal(t, "200", h.pool(0).AllocPoint.String())
	assert.Equal(t, uint64(10), h.pool(0).LastRewardBlock)

	h.at(15)
	require.NoError(t, h.lord.Set(0, n(100), true))
	assert.Equal(t, "400", str(h.lord.TotalAllocPoint()))
	assert.Equal(t, uint64(15), h.pool(0).LastRewardBlock)
	assert.Equal(t, uint64(15), h.pool(1).LastRewardBlock)
}

func TestOwnerSetters(t *testing.T) {
	h := newHarness(t, 0)
	setters := []func(joker.Address) error{
		h.lord.SetMigrator,
		h.lord.SetLender,
		h.lord.SetVaults,
		h.lord.TransferTokenOwner,
		h.lord.TransferOwnership,
	}
	h.as(minter)
	for _, set := range setters {
		assert.True(t, errors.Is(set(dev), reverts.ErrNotOwner))
	}

	h.as(owner)
	require.NoError(t, h.lord.SetMigrator(dev))
	require.NoError(t, h.lord.SetLender(lender))
	require.NoError(t, h.lord.SetVaults(vaults))
	m, _ := h.lord.Migrator()
	l, _ := h.lord.Lender()
	v, _ := h.lord.Vaults()
	assert.Equal(t, []joker.Address{dev, lender, vaults}, []joker.Address{m, l, v})

	require.NoError(t, h.lord.TransferTokenOwner(owner))
	tokOwner, err := h.reward().Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, tokOwner)

	require.NoError(t, h.lord.TransferOwnership(treasury))
	o, _ := h.lord.Owner()
	assert.Equal(t, treasury, o)
	assert.True(t, errors.Is(h.lord.SetVaults(minter), reverts.ErrNotOwner))
}

func TestPendingOnePoolOneUser(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, _ := h.addPool("TOKEN1", 100)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(1000)))
	assert.Equal(t, "0", h.pending(pid, minter))

	h.at(11)
	assert.Equal(t, e(64).String(), h.pending(pid, minter))
}

func TestPendingOnePoolTwoUsers(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, stake := h.addPool("TOKEN1", 100)
	require.NoError(t, h.stake(stake, minter).Transfer(dev, n(1000)))
	require.NoError(t, h.stake(stake, dev).Approve(lordAddr, n(1000)))

	require.NoError(t, h.as(minter).Deposit(minter, pid, n(1000)))
	h.at(11)
	require.NoError(t, h.as(dev).Deposit(dev, pid, n(1000)))
	assert.Equal(t, e(64).String(), h.pending(pid, minter))

	h.at(12)
	assert.Equal(t, e(32).String(), h.pending(pid, dev))
	assert.Equal(t, e(96).String(), h.pending(pid, minter))
}

func TestPendingTwoPools(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, _ := h.addPool("TOKEN1", 100)
	h.addPool("TOKEN2", 200)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(1000)))

	h.at(11)
	// a third of 80 is 26666666666666666666, minus two tenths rounded down
	assert.Equal(t, "21333333333333333334", h.pending(pid, minter))
}

func TestUpdatePool(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, _ := h.addPool("TOKEN1", 100)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(1000)))

	h.at(11)
	require.NoError(t, h.lord.MassUpdatePools())
	tok := h.reward()
	assert.Equal(t, e(8).String(), str(tok.BalanceOf(dev)))
	assert.Equal(t, e(8).String(), str(tok.BalanceOf(treasury)))
	assert.Equal(t, e(64).String(), str(tok.BalanceOf(lordAddr)))
	assert.Equal(t, e(80).String(), str(tok.TotalSupply()))

	p := h.pool(pid)
	assert.Equal(t, uint64(11), p.LastRewardBlock)
	assert.Equal(t, new(big.Int).Mul(e(64), n(1e9)).String(), p.AccRewardPerShare.String())

	// settling twice in a block is a no-op
	require.NoError(t, h.lord.UpdatePool(pid))
	assert.Equal(t, e(80).String(), str(tok.TotalSupply()))
}

func TestUpdatePoolWithoutDeposit(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, _ := h.addPool("TOKEN1", 100)

	h.at(11)
	require.NoError(t, h.lord.MassUpdatePools())
	assert.Equal(t, uint64(11), h.pool(pid).LastRewardBlock)
	h.at(13)
	require.NoError(t, h.lord.MassUpdatePools())
	assert.Equal(t, uint64(13), h.pool(pid).LastRewardBlock)
	assert.Equal(t, "0", str(h.reward().TotalSupply()))
}

func TestNoRewardBeforeStart(t *testing.T) {
	h := newHarness(t, 20)
	h.at(5)
	pid, _ := h.addPool("TOKEN1", 100)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(1000)))

	for _, b := range []uint32{10, 13, 16, 19, 20} {
		h.at(b)
		require.NoError(t, h.lord.MassUpdatePools())
		assert.Equal(t, "0", str(h.reward().TotalSupply()), "block %d", b)
	}
	h.at(22)
	require.NoError(t, h.lord.MassUpdatePools())
	assert.Equal(t, e(160).String(), str(h.reward().TotalSupply()))
	h.at(25)
	require.NoError(t, h.lord.MassUpdatePools())
	assert.Equal(t, e(400).String(), str(h.reward().TotalSupply()))
}

func TestMaxSupply(t *testing.T) {
	h := newHarness(t, 0)
	s := DefaultSchedule()
	s.MaxSupply = e(200)
	require.NoError(t, h.lord.SetSchedule(s))

	h.at(10)
	pid, _ := h.addPool("TOKEN1", 100)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(1000)))

	tok := h.reward()
	for _, tt := range []struct {
		block  uint32
		supply int64
	}{
		{11, 80},
		{12, 160},
		{13, 200},
		{14, 200},
		{40, 200},
	} {
		h.at(tt.block)
		require.NoError(t, h.lord.MassUpdatePools())
		assert.Equal(t, e(tt.supply).String(), str(tok.TotalSupply()), "block %d", tt.block)
	}
	// the last settlement got 40: 4 to dev, 4 to treasury, 32 to the pool
	assert.Equal(t, e(20).String(), str(tok.BalanceOf(dev)))
	assert.Equal(t, e(160).String(), str(tok.BalanceOf(lordAddr)))
	assert.Equal(t, "0", h.pending(pid, joker.Address{}))
	assert.Equal(t, e(160).String(), h.pending(pid, minter))
}

func TestHalvingAcrossGap(t *testing.T) {
	h := newHarness(t, 0)
	s := DefaultSchedule()
	s.HalvingInterval = 10
	require.NoError(t, h.lord.SetSchedule(s))

	h.at(5)
	pid, _ := h.addPool("TOKEN1", 100)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(1000)))

	h.at(35)
	// 5 blocks at 80, 10 at 40, 10 at 20 and 5 at 10
	want := e(1050)
	_, _, share := Split(want)
	assert.Equal(t, share.String(), h.pending(pid, minter))
	require.NoError(t, h.lord.UpdatePool(pid))
	assert.Equal(t, want.String(), str(h.reward().TotalSupply()))

	assert.Equal(t, e(10).String(), str(h.lord.RewardPerBlock(35)))
	halve, err := h.lord.HalveBlockNum(35)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), halve)
	assert.Equal(t, e(5).String(), str(h.lord.RewardPerBlock(1000)))
	assert.Equal(t, e(5*10).String(), str(h.lord.RewardBetween(1000, 1010)))
}

func TestDepositAccess(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, _ := h.addPool("TOKEN1", 100)

	assertRevert(t, h.as(owner).Deposit(minter, pid, n(100)), ErrCallerNotUser, "deposit: caller must be _user")
	assertRevert(t, h.as(dev).Deposit(minter, pid, n(100)), ErrCallerNotUser, "deposit: caller must be _user")

	require.NoError(t, h.as(owner).SetLender(lender))
	assertRevert(t, h.as(minter).Deposit(minter, pid, n(100)), ErrCallerNotLender, "deposit: caller must be lender")

	lendPid, err := h.as(owner).Add(n(100), h.newStake("TOKEN2", 1000), false, true)
	require.NoError(t, err)
	require.NoError(t, h.lord.SetLender(joker.Address{}))
	assertRevert(t, h.as(minter).Deposit(minter, lendPid, n(100)), ErrPoolIsLendGated, "deposit: can not be lendPool")
	assertRevert(t, h.as(minter).Deposit(minter, 9, n(100)), ErrInvalidPid, "pool: invalid pid")
}

func TestDeposit(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, stake := h.addPool("TOKEN1", 100)

	h.at(11)
	h.ctx.Reset()
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(100)))
	assert.Equal(t, []string{"Deposit"}, h.ctx.Events(ABI))
	assert.Equal(t, "0", str(h.reward().BalanceOf(minter)))
	assert.Equal(t, "100", h.pool(pid).TotalDeposit.String())
	u := h.user(pid, minter)
	assert.Equal(t, "100", u.Amount.String())
	assert.Equal(t, "0", u.RewardDebt.String())
	assert.Equal(t, "99999900", str(h.stake(stake, minter).BalanceOf(minter)))
	assert.Equal(t, "100", str(h.stake(stake, minter).BalanceOf(lordAddr)))

	h.at(12)
	h.ctx.Reset()
	require.NoError(t, h.lord.Deposit(minter, pid, n(100)))
	assert.Equal(t, []string{"RewardClaimed", "Deposit"}, h.ctx.Events(ABI))
	assert.Equal(t, e(64).String(), str(h.reward().BalanceOf(minter)))
	u = h.user(pid, minter)
	assert.Equal(t, "200", u.Amount.String())
	assert.Equal(t, e(128).String(), u.RewardDebt.String())
	assert.Equal(t, "200", h.pool(pid).TotalDeposit.String())
	assert.Equal(t, "200", str(h.stake(stake, minter).BalanceOf(lordAddr)))

	h.at(13)
	require.NoError(t, h.lord.Deposit(minter, pid, n(0)))
	assert.Equal(t, e(128).String(), str(h.reward().BalanceOf(minter)))
	assert.Equal(t, "200", h.user(pid, minter).Amount.String())
}

func TestDepositZero(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, stake := h.addPool("TOKEN1", 100)

	require.NoError(t, h.as(minter).Deposit(minter, pid, n(0)))
	assert.Equal(t, "0", h.pool(pid).TotalDeposit.String())
	assert.Equal(t, "0", h.user(pid, minter).Amount.String())
	assert.Equal(t, "100000000", str(h.stake(stake, minter).BalanceOf(minter)))
}

func TestDepositNeedsAllowance(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	stake := h.newStake("TOKEN1", 1000)
	pid, err := h.as(owner).Add(n(100), stake, false, false)
	require.NoError(t, err)

	err = h.as(minter).Deposit(minter, pid, n(100))
	assert.True(t, errors.Is(err, erc20.ErrTransferExceedsAllowance))
}

func TestWithdraw(t *testing.T) {
	setup := func(t *testing.T) (*harness, uint64, joker.Address) {
		h := newHarness(t, 0)
		h.at(10)
		pid, stake := h.addPool("TOKEN1", 100)
		h.at(11)
		require.NoError(t, h.as(minter).Deposit(minter, pid, n(100)))
		h.at(12)
		return h, pid, stake
	}

	t.Run("access", func(t *testing.T) {
		h, pid, _ := setup(t)
		assertRevert(t, h.as(owner).Withdraw(minter, pid, n(100)), ErrCallerNotUser, "withdraw: caller must be _user")
		assertRevert(t, h.as(minter).Withdraw(minter, pid, n(110)), ErrInsufficientDeposit, "withdraw: not good")

		require.NoError(t, h.as(owner).SetLender(lender))
		assertRevert(t, h.as(minter).Withdraw(minter, pid, n(100)), ErrCallerNotLender, "withdraw: caller must be lender")
		lendPid, err := h.as(owner).Add(n(100), h.newStake("TOKEN2", 1000), false, true)
		require.NoError(t, err)
		require.NoError(t, h.lord.SetLender(joker.Address{}))
		assertRevert(t, h.as(minter).Withdraw(minter, lendPid, n(100)), ErrPoolIsLendGated, "withdraw: can not be lendPool")
	})

	for _, tt := range []struct {
		name   string
		amount int64
		left   int64
	}{
		{"all", 100, 0},
		{"part", 50, 50},
		{"zero", 0, 100},
	} {
		t.Run(tt.name, func(t *testing.T) {
			h, pid, stake := setup(t)
			require.NoError(t, h.as(minter).Withdraw(minter, pid, n(tt.amount)))
			assert.Equal(t, e(64).String(), str(h.reward().BalanceOf(minter)))
			assert.Equal(t, n(tt.left).String(), h.pool(pid).TotalDeposit.String())
			u := h.user(pid, minter)
			assert.Equal(t, n(tt.left).String(), u.Amount.String())
			// 64e18 per 100 staked
			debt := new(big.Int).Mul(e(64), n(tt.left))
			assert.Equal(t, debt.Div(debt, n(100)).String(), u.RewardDebt.String())
			assert.Equal(t, n(100_000_000-tt.left).String(), str(h.stake(stake, minter).BalanceOf(minter)))
			assert.Equal(t, n(tt.left).String(), str(h.stake(stake, minter).BalanceOf(lordAddr)))
		})
	}
}

func TestEmergencyWithdraw(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, stake := h.addPool("TOKEN1", 100)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(100)))
	h.at(12)

	assertRevert(t, h.as(dev).EmergencyWithdraw(minter, pid), ErrCallerNotUser, "emergencyWithdraw: caller must be _user")

	h.ctx.Reset()
	require.NoError(t, h.as(minter).EmergencyWithdraw(minter, pid))
	assert.Equal(t, []string{"EmergencyWithdraw"}, h.ctx.Events(ABI))
	assert.Equal(t, "0", str(h.reward().BalanceOf(minter)))
	assert.Equal(t, "0", h.pool(pid).TotalDeposit.String())
	u := h.user(pid, minter)
	assert.Equal(t, "0", u.Amount.String())
	assert.Equal(t, "0", u.RewardDebt.String())
	assert.Equal(t, "100000000", str(h.stake(stake, minter).BalanceOf(minter)))
	assert.Equal(t, "0", str(h.stake(stake, minter).BalanceOf(lordAddr)))
}

func TestClaim(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, stake := h.addPool("TOKEN1", 100)
	h.at(11)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(100)))
	h.at(12)

	require.NoError(t, h.as(owner).Claim(pid))
	assert.Equal(t, "0", str(h.reward().BalanceOf(owner)))
	assert.Equal(t, "0", h.user(pid, owner).Amount.String())

	require.NoError(t, h.as(minter).Claim(pid))
	assert.Equal(t, "0", h.pending(pid, minter))
	assert.Equal(t, e(64).String(), str(h.reward().BalanceOf(minter)))
	u := h.user(pid, minter)
	assert.Equal(t, "100", u.Amount.String())
	assert.Equal(t, e(64).String(), u.RewardDebt.String())
	assert.Equal(t, "100", str(h.stake(stake, minter).BalanceOf(lordAddr)))
}

func TestLendPool(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	stake := h.newStake("TOKEN1", 1000)

	assertRevert(t, h.as(lender).DepositLendPool(minter, 0, n(100)), ErrCallerNotLender, "depositLendPool: caller must be lender")

	require.NoError(t, h.as(owner).SetLender(lender))
	pid, err := h.lord.Add(n(100), stake, false, true)
	require.NoError(t, err)
	plain, err := h.lord.Add(n(100), h.newStake("TOKEN2", 1000), false, false)
	require.NoError(t, err)

	assertRevert(t, h.as(owner).DepositLendPool(minter, pid, n(100)), ErrCallerNotLender, "depositLendPool: caller must be lender")
	assertRevert(t, h.as(lender).DepositLendPool(minter, plain, n(100)), ErrPoolNotLendGated, "depositLendPool: must be lendPool")
	assertRevert(t, h.as(lender).WithdrawLendPool(minter, plain, n(100)), ErrPoolNotLendGated, "withdrawLendPool: must be lendPool")

	h.at(11)
	require.NoError(t, h.as(lender).DepositLendPool(minter, pid, n(100)))
	assert.Equal(t, "100", h.pool(pid).TotalDeposit.String())
	assert.Equal(t, "0", h.user(pid, minter).RewardDebt.String())
	// the lender keeps the collateral
	assert.Equal(t, "0", str(h.stake(stake, minter).BalanceOf(lordAddr)))

	h.at(12)
	require.NoError(t, h.lord.DepositLendPool(minter, pid, n(100)))
	// half the weight goes to this pool
	assert.Equal(t, e(32).String(), str(h.reward().BalanceOf(minter)))
	u := h.user(pid, minter)
	assert.Equal(t, "200", u.Amount.String())
	assert.Equal(t, e(64).String(), u.RewardDebt.String())

	assertRevert(t, h.lord.WithdrawLendPool(minter, pid, n(201)), ErrInsufficientDeposit, "withdrawLendPool: not good")
	h.at(13)
	require.NoError(t, h.lord.WithdrawLendPool(minter, pid, n(200)))
	assert.Equal(t, e(64).String(), str(h.reward().BalanceOf(minter)))
	assert.Equal(t, "0", h.pool(pid).TotalDeposit.String())
	assert.Equal(t, "0", h.user(pid, minter).RewardDebt.String())
}

func TestLendToken(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, stake := h.addPool("TOKEN1", 100)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(100)))

	assertRevert(t, h.as(owner).LendToken(owner, pid, n(100)), ErrNoLender, "lendToken: no lender")
	require.NoError(t, h.as(owner).SetLender(lender))
	assertRevert(t, h.as(dev).LendToken(dev, pid, n(100)), ErrCallerNotLender, "lendToken: caller must be lender")
	assertRevert(t, h.as(lender).LendToken(joker.Address{}, pid, n(100)), ErrLendToZero, "lendToken: can not lend to 0")

	require.NoError(t, h.as(lender).LendToken(dev, pid, n(100)))
	assert.Equal(t, "100", str(h.stake(stake, minter).BalanceOf(dev)))
	assert.Equal(t, "0", str(h.stake(stake, minter).BalanceOf(lordAddr)))
}

func TestTransferTokenToVaults(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, stake := h.addPool("TOKEN1", 100)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(100)))

	assertRevert(t, h.as(owner).TransferTokenToVaults(pid, n(100)), ErrNoVaults, "transferTokenToVaults: no vaults")
	require.NoError(t, h.as(owner).SetVaults(vaults))
	assertRevert(t, h.as(dev).TransferTokenToVaults(pid, n(100)), ErrCallerNotVaults, "transferTokenToVaults: caller must be vaults")

	require.NoError(t, h.as(vaults).TransferTokenToVaults(pid, n(100)))
	assert.Equal(t, "100", str(h.stake(stake, minter).BalanceOf(vaults)))
	assert.Equal(t, "0", str(h.stake(stake, minter).BalanceOf(lordAddr)))
}

func TestRoleRotation(t *testing.T) {
	h := newHarness(t, 0)

	assertRevert(t, h.as(owner).UpdateDev(minter), ErrNotRoleHolder, "updateDev: wut?")
	require.NoError(t, h.as(dev).UpdateDev(minter))
	d, _ := h.lord.Devaddr()
	assert.Equal(t, minter, d)

	assertRevert(t, h.as(owner).UpdateTreasury(minter), ErrNotRoleHolder, "updateTreasury: wut?")
	require.NoError(t, h.as(treasury).UpdateTreasury(dev))
	tr, _ := h.lord.Treasury()
	assert.Equal(t, dev, tr)
}

func TestMigrate(t *testing.T) {
	h := newHarness(t, 0)
	h.at(10)
	pid, stake := h.addPool("TOKEN1", 100)
	require.NoError(t, h.as(minter).Deposit(minter, pid, n(1000)))

	assertRevert(t, h.as(minter).Migrate(pid), ErrNoMigrator, "migrate: no migrator")

	migAddr := joker.BytesToAddress([]byte("migrator"))
	next := joker.BytesToAddress([]byte("TOKEN1v2"))
	require.NoError(t, erc20.New(next, h.st, testenv.New(next).As(migAddr)).Initialize("TOKEN1v2", "TOKEN1v2", n(0), migAddr))
	h.route(next, func(ctx *testenv.Context, method string, args []any) ([]any, error) {
		e := erc20.New(next, h.st, ctx)
		switch method {
		case "balanceOf":
			bal, err := e.BalanceOf(args[0].(joker.Address))
			return M(bal), err
		case "mint":
			return nil, e.Mint(args[0].(joker.Address), args[1].(*big.Int))
		}
		return nil, pkgerrors.Errorf("next: unexpected %s", method)
	})
	migrator.New(migAddr, h.st, testenv.New(migAddr)).Initialize(next)
	h.route(migAddr, func(ctx *testenv.Context, method string, args []any) ([]any, error) {
		addr, err := migrator.New(migAddr, h.st, ctx).Migrate(args[0].(joker.Address))
		return M(addr), err
	})

	require.NoError(t, h.as(owner).SetMigrator(migAddr))
	require.NoError(t, h.as(minter).Migrate(pid))

	p := h.pool(pid)
	assert.Equal(t, next, p.StakeToken)
	assert.Equal(t, "100", p.AllocPoint.String())
	assert.Equal(t, "1000", str(h.stake(next, minter).BalanceOf(lordAddr)))
	assert.Equal(t, "0", str(h.stake(stake, minter).BalanceOf(lordAddr)))
	assert.Equal(t, "1000", str(h.stake(stake, minter).BalanceOf(migAddr)))
}
