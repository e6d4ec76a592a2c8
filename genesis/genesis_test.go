// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/builtin/governor"
	"github.com/jokerswap/joker/builtin/timelock"
	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/lvldb"
	"github.com/jokerswap/joker/runtime"
	"github.com/jokerswap/joker/test/testchain"
)

func M(a ...any) []any {
	return a
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), joker.Ether)
}

func value(t *testing.T, c *testchain.Contract, method string, args ...any) any {
	vals, err := c.Values(method, args...)
	require.NoError(t, err, method)
	return vals[0]
}

func address(a joker.Address) common.Address {
	return common.Address(a)
}

func TestDevGenesis(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	d := chain.Deployment()
	cfg := chain.Config()

	tests := []struct {
		contract *testchain.Contract
		method   string
		want     any
	}{
		{chain.Token(), "owner", address(d.Lord)},
		{chain.Token(), "cap", cfg.MaxSupply},
		{chain.Token(), "totalSupply", new(big.Int)},
		{chain.Lord(), "owner", address(d.Timelock)},
		{chain.Lord(), "token", address(d.Token)},
		{chain.Lord(), "devaddr", address(cfg.Dev)},
		{chain.Lord(), "treasury", address(d.Timelock)},
		{chain.Lord(), "poolLength", big.NewInt(2)},
		{chain.Lord(), "totalAllocPoint", big.NewInt(150)},
		{chain.Lord(), "rewardPerBlock", joker.InitialRewardPerBlock},
		{chain.Timelock(), "admin", address(d.Governor)},
		{chain.Timelock(), "pendingAdmin", common.Address{}},
		{chain.Timelock(), "admin_initialized", true},
		{chain.Timelock(), "delay", new(big.Int).SetUint64(cfg.TimelockDelay)},
		{chain.Governor(), "timelock", address(d.Timelock)},
		{chain.Governor(), "token", address(d.Token)},
		{chain.Governor(), "guardian", address(cfg.Guardian)},
		{chain.Governor(), "quorumVotes", cfg.QuorumVotes},
		{chain.Governor(), "proposalThreshold", cfg.ProposalThreshold},
		{chain.Governor(), "votingPeriod", big.NewInt(int64(cfg.VotingPeriod))},
	}
	for _, tt := range tests {
		got := value(t, tt.contract, tt.method)
		if want, ok := tt.want.(*big.Int); ok {
			assert.Equal(t, want.String(), got.(*big.Int).String(), tt.method)
			continue
		}
		assert.Equal(t, tt.want, got, tt.method)
	}

	for i, s := range cfg.StakeTokens {
		info, err := chain.Lord().Values("poolInfo", big.NewInt(int64(i)))
		require.NoError(t, err)
		assert.Equal(t, address(d.StakeTokens[i]), info[0])
		assert.Equal(t, new(big.Int).SetUint64(s.AllocPoint).String(), info[1].(*big.Int).String())
		assert.Equal(t, s.Symbol, value(t, chain.StakeToken(i), "symbol"))
		assert.Equal(t, s.Supply.String(), value(t, chain.StakeToken(i), "balanceOf", s.Holder).(*big.Int).String())
	}

	saved, err := genesis.LoadDeployment(chain.Database())
	require.NoError(t, err)
	assert.Equal(t, d, saved)
}

func TestBuildOnce(t *testing.T) {
	db := lvldb.NewMem()
	rt, err := runtime.New(db, runtime.Options{})
	require.NoError(t, err)

	cfg := genesis.DevConfig()
	_, err = genesis.Build(rt, db, &cfg, genesis.New(&cfg))
	require.NoError(t, err)

	_, err = genesis.Build(rt, db, &cfg, genesis.New(&cfg))
	assert.EqualError(t, err, "genesis: runtime already initialized")
}

func TestBuildInvalid(t *testing.T) {
	db := lvldb.NewMem()
	rt, err := runtime.New(db, runtime.Options{})
	require.NoError(t, err)

	cfg := genesis.DevConfig()
	cfg.HalvingInterval = 0
	_, err = genesis.Build(rt, db, &cfg, genesis.New(&cfg))
	assert.Error(t, err)

	ok, err := rt.Initialized()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuilderRevert(t *testing.T) {
	db := lvldb.NewMem()
	rt, err := runtime.New(db, runtime.Options{})
	require.NoError(t, err)

	deployer := genesis.DevAccounts()[0].Address
	stranger := genesis.DevAccounts()[1].Address
	_, err = new(genesis.Builder).
		Deploy("token", deployer, builtin.Token, ether(100)).
		Call(stranger, "token", "mint", stranger, ether(1)).
		Build(rt)
	assert.ErrorContains(t, err, "genesis: step 1: call token.mint")

	_, err = new(genesis.Builder).
		Call(deployer, "missing", "mint", stranger, ether(1)).
		Build(rt)
	assert.ErrorContains(t, err, "unknown program")

	_, err = new(genesis.Builder).
		Deploy("timelock", deployer, builtin.Timelock, genesis.Ref("token"), big.NewInt(0)).
		Build(rt)
	assert.ErrorContains(t, err, `unresolved reference "token"`)
}

// TestGovernanceAddsPool drives a proposal through its whole life: the dev
// account farms voting power, proposes a new pool, votes it through and has
// the timelock execute it against the engine.
func TestGovernanceAddsPool(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	cfg := chain.Config()
	acc := chain.Account(0)
	lord := chain.Lord()
	token := chain.Token()
	gov := chain.Governor()

	mint := func(c *testchain.Contract, method string, args ...any) {
		_, err := c.MintTransaction(method, nil, args...)
		require.NoError(t, err, method)
	}
	state := func(id int64) governor.State {
		return governor.State(value(t, gov, "state", big.NewInt(id)).(uint8))
	}

	// farm and delegate votes
	mint(chain.StakeToken(0), "approve", address(chain.Deployment().Lord), ether(1000))
	mint(lord, "deposit", address(acc.Address), big.NewInt(0), ether(1000))
	require.NoError(t, chain.MintBlocks(10, 0))
	mint(lord, "claim", big.NewInt(0))
	mint(token, "delegate", address(acc.Address))

	votes := value(t, token, "getCurrentVotes", address(acc.Address)).(*big.Int)
	require.True(t, votes.Cmp(cfg.QuorumVotes) >= 0, "votes %v", votes)

	gold, err := chain.Deploy(acc, builtin.ERC20, "Joker Gold", "JG", ether(1000), acc.Address)
	require.NoError(t, err)
	input, err := lord.EncodeInput("add", big.NewInt(30), gold.Address(), false, false)
	require.NoError(t, err)

	propose := M(
		[]common.Address{address(lord.Address())},
		[]*big.Int{new(big.Int)},
		[]string{"add(uint256,address,bool,bool)"},
		[][]byte{input[4:]},
		"add Joker Gold pool",
	)
	mint(gov, "propose", propose...)
	assert.Equal(t, governor.Pending, state(1))

	// the engine is owned by the timelock
	_, err = lord.MintTransaction("add", nil, big.NewInt(30), gold.Address(), false, false)
	assert.Error(t, err)

	require.NoError(t, chain.MintBlock())
	mint(gov, "castVote", big.NewInt(1), true)
	assert.Equal(t, governor.Active, state(1))

	require.NoError(t, chain.MintBlocks(cfg.VotingPeriod, 0))
	assert.Equal(t, governor.Succeeded, state(1))

	mint(gov, "queue", big.NewInt(1))
	assert.Equal(t, governor.Queued, state(1))

	_, err = gov.MintTransaction("execute", nil, big.NewInt(1))
	assert.True(t, errors.Is(err, timelock.ErrNotSurpassedDelay), "%v", err)

	require.NoError(t, chain.MintBlocks(1, cfg.TimelockDelay))
	mint(gov, "execute", big.NewInt(1))
	assert.Equal(t, governor.Executed, state(1))

	assert.Equal(t, "3", value(t, lord, "poolLength").(*big.Int).String())
	assert.Equal(t, "180", value(t, lord, "totalAllocPoint").(*big.Int).String())
	info, err := lord.Values("poolInfo", big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, address(gold.Address()), info[0])
}
