// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package erc20

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/lvldb"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/test/testenv"
)

var (
	minter = joker.BytesToAddress([]byte("minter"))
	alice  = joker.BytesToAddress([]byte("alice"))
	bob    = joker.BytesToAddress([]byte("bob"))
	addr   = joker.BytesToAddress([]byte("lp"))
)

func newToken(t *testing.T) (*ERC20, *testenv.Context) {
	ctx := testenv.New(addr).As(minter)
	e := New(addr, state.New(lvldb.NewMem(), nil), ctx)
	require.NoError(t, e.Initialize("LPToken", "LP", big.NewInt(1000), minter))
	return e, ctx
}

func balance(t *testing.T, e *ERC20, who joker.Address) string {
	bal, err := e.BalanceOf(who)
	require.NoError(t, err)
	return bal.String()
}

func TestInitialize(t *testing.T) {
	e, ctx := newToken(t)
	name, err := e.Name()
	require.NoError(t, err)
	assert.Equal(t, "LPToken", name)
	symbol, err := e.Symbol()
	require.NoError(t, err)
	assert.Equal(t, "LP", symbol)
	supply, err := e.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, "1000", supply.String())
	assert.Equal(t, "1000", balance(t, e, minter))
	owner, err := e.Owner()
	require.NoError(t, err)
	assert.Equal(t, minter, owner)
	assert.Equal(t, []string{"OwnershipTransferred", "Transfer"}, ctx.Events(ABI))
}

func TestTransfer(t *testing.T) {
	e, ctx := newToken(t)
	require.NoError(t, e.Transfer(alice, big.NewInt(100)))
	assert.Equal(t, "900", balance(t, e, minter))
	assert.Equal(t, "100", balance(t, e, alice))

	ctx.As(alice)
	err := e.Transfer(bob, big.NewInt(101))
	assert.True(t, errors.Is(err, ErrTransferExceedsBalance))
	err = e.Transfer(joker.Address{}, big.NewInt(1))
	assert.True(t, errors.Is(err, ErrTransferToZero))

	// zero amounts move nothing but still succeed
	require.NoError(t, e.Transfer(bob, new(big.Int)))
	assert.Equal(t, "0", balance(t, e, bob))
}

func TestTransferFrom(t *testing.T) {
	e, ctx := newToken(t)
	require.NoError(t, e.Approve(alice, big.NewInt(300)))

	ctx.As(alice)
	err := e.TransferFrom(minter, bob, big.NewInt(301))
	assert.True(t, errors.Is(err, ErrTransferExceedsAllowance))
	assert.Equal(t, "1000", balance(t, e, minter))

	require.NoError(t, e.TransferFrom(minter, bob, big.NewInt(200)))
	assert.Equal(t, "200", balance(t, e, bob))
	allowance, err := e.Allowance(minter, alice)
	require.NoError(t, err)
	assert.Equal(t, "100", allowance.String())

	err = e.Approve(joker.Address{}, big.NewInt(1))
	assert.True(t, errors.Is(err, ErrApproveToZero))
}

func TestMint(t *testing.T) {
	e, ctx := newToken(t)
	ctx.As(alice)
	err := e.Mint(alice, big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrNotOwner))

	ctx.As(minter)
	require.NoError(t, e.Mint(alice, big.NewInt(5)))
	assert.True(t, errors.Is(e.Mint(joker.Address{}, big.NewInt(5)), ErrMintToZero))
	supply, err := e.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, "1005", supply.String())
}
