// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain bootstraps a fully wired in-memory chain for integration tests.
package testchain

import (
	"fmt"
	"math/big"

	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/lvldb"
	"github.com/jokerswap/joker/runtime"
	"github.com/jokerswap/joker/state"
)

// Chain represents a bootstrapped runtime: the in-memory database, the
// runtime over it and the addresses of the programs deployed at genesis.
type Chain struct {
	db         *lvldb.LevelDB
	rt         *runtime.Runtime
	config     joker.Config
	deployment *genesis.Deployment
	accounts   []genesis.DevAccount
}

// NewDefault creates a Chain with the DefaultConfig.
func NewDefault() (*Chain, error) {
	return NewIntegrationTestChain(DefaultConfig())
}

// NewIntegrationTestChain creates an auto-mining Chain bootstrapped from config.
// Dev accounts are funded at genesis.
func NewIntegrationTestChain(config joker.Config) (*Chain, error) {
	db := lvldb.NewMem()
	rt, err := runtime.New(db, runtime.Options{ChainID: config.ChainID})
	if err != nil {
		return nil, fmt.Errorf("unable to create runtime: %w", err)
	}
	d, err := genesis.Build(rt, db, &config, genesis.NewDevnet(&config, LaunchTime))
	if err != nil {
		return nil, fmt.Errorf("unable to build genesis: %w", err)
	}
	rt.SetAutoMine(true)

	return &Chain{
		db:         db,
		rt:         rt,
		config:     config,
		deployment: d,
		accounts:   genesis.DevAccounts(),
	}, nil
}

// Runtime returns the runtime of the chain.
func (c *Chain) Runtime() *runtime.Runtime {
	return c.rt
}

// Database returns the store backing the runtime.
func (c *Chain) Database() *lvldb.LevelDB {
	return c.db
}

// Config returns the config the chain was bootstrapped with.
func (c *Chain) Config() joker.Config {
	return c.config
}

// Deployment returns the addresses deployed at genesis.
func (c *Chain) Deployment() *genesis.Deployment {
	return c.deployment
}

// Account returns the i-th dev account.
func (c *Chain) Account(i int) genesis.DevAccount {
	return c.accounts[i]
}

// Head returns the latest sealed block.
func (c *Chain) Head() runtime.Head {
	return c.rt.Head()
}

// MintBlock seals an empty block.
func (c *Chain) MintBlock() error {
	return c.rt.Mine(1, 0)
}

// MintBlocks seals n empty blocks, the first one seconds after the head.
func (c *Chain) MintBlocks(n uint32, seconds uint64) error {
	return c.rt.Mine(n, seconds)
}

// Deploy deploys prog from acc and returns a contract bound to acc.
func (c *Chain) Deploy(acc genesis.DevAccount, prog builtin.Program, args ...any) (*Contract, error) {
	receipt, err := c.rt.Deploy(acc.Address, prog, args...)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return nil, fmt.Errorf("unable to deploy %s: %w", prog.Name(), receipt.Err)
	}
	return NewContract(c, acc, *receipt.Deployed, prog), nil
}

// Balance returns the native balance of addr.
func (c *Chain) Balance(addr joker.Address) (*big.Int, error) {
	var bal *big.Int
	err := c.rt.View(func(st *state.State, _ runtime.Head) (err error) {
		bal, err = st.GetBalance(addr)
		return
	})
	return bal, err
}

// Token returns the voting token bound to the first dev account.
func (c *Chain) Token() *Contract {
	return NewContract(c, c.accounts[0], c.deployment.Token, builtin.Token)
}

// Lord returns the reward engine bound to the first dev account.
func (c *Chain) Lord() *Contract {
	return NewContract(c, c.accounts[0], c.deployment.Lord, builtin.Lord)
}

// Governor returns the governor bound to the first dev account.
func (c *Chain) Governor() *Contract {
	return NewContract(c, c.accounts[0], c.deployment.Governor, builtin.Governor)
}

// Timelock returns the timelock bound to the first dev account.
func (c *Chain) Timelock() *Contract {
	return NewContract(c, c.accounts[0], c.deployment.Timelock, builtin.Timelock)
}

// StakeToken returns the i-th stake token pooled at genesis, bound to the first dev account.
func (c *Chain) StakeToken(i int) *Contract {
	return NewContract(c, c.accounts[0], c.deployment.StakeTokens[i], builtin.ERC20)
}
