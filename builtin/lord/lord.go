// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lord implements the reward engine. Depositors stake tokens into
// weighted pools and accrue the reward token, which the engine mints along a
// halving schedule. Ten percent of each settlement goes to the dev address and
// ten percent to the treasury.
package lord

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/erc20"
	"github.com/jokerswap/joker/builtin/gen"
	"github.com/jokerswap/joker/builtin/ownable"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/builtin/solidity"
	"github.com/jokerswap/joker/builtin/token"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/xenv"
)

var (
	logger = log.WithContext("pkg", "lord")

	// ABI of the lord program.
	ABI = abi.MustNew(gen.MustABI("compiled/Lord.abi"))

	evPoolAdded            = mustEvent("PoolAdded")
	evPoolWeightChanged    = mustEvent("PoolWeightChanged")
	evDeposit              = mustEvent("Deposit")
	evWithdraw             = mustEvent("Withdraw")
	evEmergencyWithdraw    = mustEvent("EmergencyWithdraw")
	evRewardClaimed        = mustEvent("RewardClaimed")
	evOwnershipTransferred = mustEvent("OwnershipTransferred")

	migrateMethod, _ = abi.MustNew(gen.MustABI("compiled/Migrator.abi")).MethodByName("migrate")

	rewardMint, _              = token.ABI.MethodByName("mint")
	rewardTransfer, _          = token.ABI.MethodByName("transfer")
	rewardBalanceOf, _         = token.ABI.MethodByName("balanceOf")
	rewardTransferOwnership, _ = token.ABI.MethodByName("transferOwnership")

	stakeBalanceOf, _    = erc20.ABI.MethodByName("balanceOf")
	stakeTransfer, _     = erc20.ABI.MethodByName("transfer")
	stakeTransferFrom, _ = erc20.ABI.MethodByName("transferFrom")
	stakeApprove, _      = erc20.ABI.MethodByName("approve")
)

func mustEvent(name string) *abi.Event {
	ev, ok := ABI.EventByName(name)
	if !ok {
		panic("lord: missing event " + name)
	}
	return ev
}

// PoolInfo is the state of a staking pool.
type PoolInfo struct {
	StakeToken        joker.Address
	AllocPoint        *big.Int
	LastRewardBlock   uint64
	AccRewardPerShare *big.Int // scaled by joker.AccRewardPrecision
	TotalDeposit      *big.Int
	LendPool          bool
}

func (p *PoolInfo) normalize() *PoolInfo {
	for _, v := range []**big.Int{&p.AllocPoint, &p.AccRewardPerShare, &p.TotalDeposit} {
		if *v == nil {
			*v = new(big.Int)
		}
	}
	return p
}

// UserInfo is a depositor's position in a pool.
type UserInfo struct {
	Amount     *big.Int
	RewardDebt *big.Int
}

func (u *UserInfo) normalize() *UserInfo {
	if u.Amount == nil {
		u.Amount = new(big.Int)
	}
	if u.RewardDebt == nil {
		u.RewardDebt = new(big.Int)
	}
	return u
}

// accrued is the reward of the position at the given accumulator.
func (u *UserInfo) accrued(acc *big.Int) *big.Int {
	v := new(big.Int).Mul(u.Amount, acc)
	return v.Div(v, joker.AccRewardPrecision)
}

// Lord binds the engine deployed at an address.
type Lord struct {
	addr joker.Address
	st   *state.State
	ctx  xenv.Context

	*ownable.Ownable
	token           *solidity.Address
	devaddr         *solidity.Address
	treasury        *solidity.Address
	migrator        *solidity.Address
	lender          *solidity.Address
	vaults          *solidity.Address
	startBlock      *solidity.Uint256
	totalAllocPoint *solidity.Uint256
	poolLength      *solidity.Uint256
	schedule        *solidity.Mapping[solidity.RawKey, *Schedule]
	pools           *solidity.Mapping[solidity.Uint64Key, *PoolInfo]
	users           *solidity.Mapping[solidity.RawKey, *UserInfo]
}

var scheduleKey = solidity.RawKey("curve")

// New binds the engine at addr. ctx may be nil for read only access.
func New(addr joker.Address, st *state.State, ctx xenv.Context) *Lord {
	sctx := solidity.NewContext(addr, st)
	return &Lord{
		addr:            addr,
		st:              st,
		ctx:             ctx,
		Ownable:         ownable.New(sctx, ctx, evOwnershipTransferred),
		token:           solidity.NewAddress(sctx, solidity.Slot("token")),
		devaddr:         solidity.NewAddress(sctx, solidity.Slot("devaddr")),
		treasury:        solidity.NewAddress(sctx, solidity.Slot("treasury")),
		migrator:        solidity.NewAddress(sctx, solidity.Slot("migrator")),
		lender:          solidity.NewAddress(sctx, solidity.Slot("lender")),
		vaults:          solidity.NewAddress(sctx, solidity.Slot("vaults")),
		startBlock:      solidity.NewUint256(sctx, solidity.Slot("startBlock")),
		totalAllocPoint: solidity.NewUint256(sctx, solidity.Slot("totalAllocPoint")),
		poolLength:      solidity.NewUint256(sctx, solidity.Slot("poolLength")),
		schedule:        solidity.NewMapping[solidity.RawKey, *Schedule](sctx, solidity.Slot("schedule")),
		pools:           solidity.NewMapping[solidity.Uint64Key, *PoolInfo](sctx, solidity.Slot("pools")),
		users:           solidity.NewMapping[solidity.RawKey, *UserInfo](sctx, solidity.Slot("users")),
	}
}

// Initialize sets up the engine with the default schedule and makes the caller its owner.
func (l *Lord) Initialize(rewardToken, dev, treasury joker.Address, startBlock *big.Int) error {
	l.token.Set(rewardToken)
	l.devaddr.Set(dev)
	l.treasury.Set(treasury)
	l.startBlock.Set(startBlock)
	l.Ownable.Init(l.ctx.Caller())
	return l.schedule.Set(scheduleKey, DefaultSchedule())
}

// SetSchedule replaces the emission curve. It is meant for bootstrap code that
// writes state directly and is not reachable through the ABI.
func (l *Lord) SetSchedule(s *Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return l.schedule.Set(scheduleKey, s)
}

func (l *Lord) Schedule() (*Schedule, error) {
	s, err := l.schedule.Get(scheduleKey)
	if err != nil {
		return nil, err
	}
	if s.RewardPerBlock == nil {
		return DefaultSchedule(), nil
	}
	return s, nil
}

func (l *Lord) Token() (joker.Address, error)    { return l.token.Get() }
func (l *Lord) Devaddr() (joker.Address, error)  { return l.devaddr.Get() }
func (l *Lord) Treasury() (joker.Address, error) { return l.treasury.Get() }
func (l *Lord) Migrator() (joker.Address, error) { return l.migrator.Get() }
func (l *Lord) Lender() (joker.Address, error)   { return l.lender.Get() }
func (l *Lord) Vaults() (joker.Address, error)   { return l.vaults.Get() }
func (l *Lord) StartBlock() (*big.Int, error)    { return l.startBlock.Get() }

func (l *Lord) TotalAllocPoint() (*big.Int, error) { return l.totalAllocPoint.Get() }

func (l *Lord) PoolLength() (uint64, error) {
	n, err := l.poolLength.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// PoolInfo returns the pool pid.
func (l *Lord) PoolInfo(pid uint64) (*PoolInfo, error) {
	n, err := l.PoolLength()
	if err != nil {
		return nil, err
	}
	if pid >= n {
		return nil, reverts.Wrap(ErrInvalidPid, "pool")
	}
	p, err := l.pools.Get(solidity.Uint64Key(pid))
	if err != nil {
		return nil, err
	}
	return p.normalize(), nil
}

func (l *Lord) setPool(pid uint64, p *PoolInfo) error {
	return l.pools.Set(solidity.Uint64Key(pid), p)
}

func userKey(pid uint64, user joker.Address) solidity.RawKey {
	return solidity.Keys(solidity.Uint64Key(pid), user)
}

// UserInfo returns the position of user in pool pid.
func (l *Lord) UserInfo(pid uint64, user joker.Address) (*UserInfo, error) {
	u, err := l.users.Get(userKey(pid, user))
	if err != nil {
		return nil, err
	}
	return u.normalize(), nil
}

func (l *Lord) setUser(pid uint64, user joker.Address, u *UserInfo) error {
	return l.users.Set(userKey(pid, user), u)
}

func (l *Lord) start() (uint64, error) {
	v, err := l.startBlock.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// RewardPerBlock is the emission rate in effect at block.
func (l *Lord) RewardPerBlock(block uint64) (*big.Int, error) {
	s, err := l.Schedule()
	if err != nil {
		return nil, err
	}
	start, err := l.start()
	if err != nil {
		return nil, err
	}
	return s.RateAt(start, block), nil
}

// HalveBlockNum is the next halving boundary after block.
func (l *Lord) HalveBlockNum(block uint64) (uint64, error) {
	s, err := l.Schedule()
	if err != nil {
		return 0, err
	}
	start, err := l.start()
	if err != nil {
		return 0, err
	}
	return s.NextHalving(start, block), nil
}

// RewardBetween is the whole emission of blocks [from, to), before the supply cap.
func (l *Lord) RewardBetween(from, to uint64) (*big.Int, error) {
	s, err := l.Schedule()
	if err != nil {
		return nil, err
	}
	start, err := l.start()
	if err != nil {
		return nil, err
	}
	return s.Between(start, from, to), nil
}

func (l *Lord) block() uint64 {
	return uint64(l.ctx.BlockContext().Number)
}

// Add registers a new pool. Owner only.
func (l *Lord) Add(allocPoint *big.Int, stakeToken joker.Address, withUpdate, lendPool bool) (uint64, error) {
	if err := l.OnlyOwner(); err != nil {
		return 0, err
	}
	if lendPool {
		lender, err := l.lender.Get()
		if err != nil {
			return 0, err
		}
		if lender.IsZero() {
			return 0, reverts.Wrap(ErrNoLender, "add")
		}
	}
	if withUpdate {
		if err := l.MassUpdatePools(); err != nil {
			return 0, err
		}
	}
	start, err := l.start()
	if err != nil {
		return 0, err
	}
	last := l.block()
	if last < start {
		last = start
	}
	pid, err := l.PoolLength()
	if err != nil {
		return 0, err
	}
	if err := l.totalAllocPoint.Add(allocPoint); err != nil {
		return 0, err
	}
	if err := l.setPool(pid, &PoolInfo{
		StakeToken:        stakeToken,
		AllocPoint:        new(big.Int).Set(allocPoint),
		LastRewardBlock:   last,
		AccRewardPerShare: new(big.Int),
		TotalDeposit:      new(big.Int),
		LendPool:          lendPool,
	}); err != nil {
		return 0, err
	}
	l.poolLength.Set(new(big.Int).SetUint64(pid + 1))

	pidBig := new(big.Int).SetUint64(pid)
	l.ctx.Log(evPoolAdded, []joker.Bytes32{xenv.UintTopic(pidBig), xenv.Topic(stakeToken)}, allocPoint, lendPool)
	logger.Debug("pool added", "pid", pid, "stakeToken", stakeToken, "allocPoint", allocPoint, "lendPool", lendPool)
	return pid, nil
}

// Set changes the weight of a pool. Owner only.
func (l *Lord) Set(pid uint64, allocPoint *big.Int, withUpdate bool) error {
	if err := l.OnlyOwner(); err != nil {
		return err
	}
	if withUpdate {
		if err := l.MassUpdatePools(); err != nil {
			return err
		}
	}
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	old := pool.AllocPoint
	total, err := l.totalAllocPoint.Get()
	if err != nil {
		return err
	}
	total.Sub(total, old)
	total.Add(total, allocPoint)
	l.totalAllocPoint.Set(total)

	pool.AllocPoint = new(big.Int).Set(allocPoint)
	if err := l.setPool(pid, pool); err != nil {
		return err
	}
	l.ctx.Log(evPoolWeightChanged, []joker.Bytes32{xenv.UintTopic(new(big.Int).SetUint64(pid))}, old, allocPoint)
	return nil
}

func (l *Lord) SetMigrator(addr joker.Address) error {
	if err := l.OnlyOwner(); err != nil {
		return err
	}
	l.migrator.Set(addr)
	return nil
}

func (l *Lord) SetLender(addr joker.Address) error {
	if err := l.OnlyOwner(); err != nil {
		return err
	}
	l.lender.Set(addr)
	return nil
}

func (l *Lord) SetVaults(addr joker.Address) error {
	if err := l.OnlyOwner(); err != nil {
		return err
	}
	l.vaults.Set(addr)
	return nil
}

// TransferTokenOwner hands the mint authority of the reward token to newOwner.
func (l *Lord) TransferTokenOwner(newOwner joker.Address) error {
	if err := l.OnlyOwner(); err != nil {
		return err
	}
	tok, err := l.token.Get()
	if err != nil {
		return err
	}
	_, err = l.ctx.CallMethod(tok, rewardTransferOwnership, nil, newOwner)
	return err
}

// UpdateDev is callable by the current dev address only.
func (l *Lord) UpdateDev(addr joker.Address) error {
	dev, err := l.devaddr.Get()
	if err != nil {
		return err
	}
	if l.ctx.Caller() != dev {
		return reverts.Wrap(ErrNotRoleHolder, "updateDev")
	}
	l.devaddr.Set(addr)
	return nil
}

// UpdateTreasury is callable by the current treasury only.
func (l *Lord) UpdateTreasury(addr joker.Address) error {
	treasury, err := l.treasury.Get()
	if err != nil {
		return err
	}
	if l.ctx.Caller() != treasury {
		return reverts.Wrap(ErrNotRoleHolder, "updateTreasury")
	}
	l.treasury.Set(addr)
	return nil
}

// Migrate moves the stake of pool pid to the token the migrator hands back.
func (l *Lord) Migrate(pid uint64) error {
	migrator, err := l.migrator.Get()
	if err != nil {
		return err
	}
	if migrator.IsZero() {
		return reverts.Wrap(ErrNoMigrator, "migrate")
	}
	pool, err := l.PoolInfo(pid)
	if err != nil {
		return err
	}
	bal, err := l.stakeBalance(pool.StakeToken)
	if err != nil {
		return err
	}
	if _, err := l.ctx.CallMethod(pool.StakeToken, stakeApprove, nil, migrator, bal); err != nil {
		return err
	}
	out, err := l.ctx.CallMethod(migrator, migrateMethod, nil, pool.StakeToken)
	if err != nil {
		return err
	}
	newToken, err := outAddress(out)
	if err != nil {
		return err
	}
	newBal, err := l.stakeBalance(newToken)
	if err != nil {
		return err
	}
	if bal.Cmp(newBal) != 0 {
		return reverts.Wrap(ErrMigrationMismatch, "migrate")
	}
	logger.Info("pool migrated", "pid", pid, "from", pool.StakeToken, "to", newToken, "amount", bal)
	pool.StakeToken = newToken
	return l.setPool(pid, pool)
}

func (l *Lord) stakeBalance(stake joker.Address) (*big.Int, error) {
	out, err := l.ctx.CallMethod(stake, stakeBalanceOf, nil, l.addr)
	if err != nil {
		return nil, err
	}
	return outUint(out)
}

func outUint(out []any) (*big.Int, error) {
	if len(out) == 0 {
		return nil, errors.New("empty output")
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("unexpected output type %T", out[0])
	}
	return v, nil
}

func outAddress(out []any) (joker.Address, error) {
	if len(out) == 0 {
		return joker.Address{}, errors.New("empty output")
	}
	switch v := out[0].(type) {
	case common.Address:
		return joker.Address(v), nil
	case joker.Address:
		return v, nil
	default:
		return joker.Address{}, errors.Errorf("unexpected output type %T", out[0])
	}
}
