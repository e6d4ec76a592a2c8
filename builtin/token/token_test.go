// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/lvldb"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/test/datagen"
	"github.com/jokerswap/joker/test/testenv"
)

func M(a ...any) []any {
	return a
}

var (
	alice = joker.BytesToAddress([]byte("alice"))
	bob   = joker.BytesToAddress([]byte("bob"))
	carol = joker.BytesToAddress([]byte("carol"))
	leo   = joker.BytesToAddress([]byte("leo"))
)

func newToken(t *testing.T) (*Token, *testenv.Context) {
	addr := datagen.RandAddress()
	ctx := testenv.New(addr).As(alice)
	tok := New(addr, state.New(lvldb.NewMem(), nil), ctx)
	tok.Initialize(joker.MaxSupply)
	owner, err := tok.Owner()
	require.NoError(t, err)
	require.Equal(t, alice, owner)
	return tok, ctx
}

func n(v int64) *big.Int {
	return big.NewInt(v)
}

// str formats a getter result, an error shows up in the failed comparison.
func str(v *big.Int, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return v.String()
}

func as(tok *Token, ctx *testenv.Context, caller joker.Address) *Token {
	ctx.As(caller)
	return tok
}

func TestMint(t *testing.T) {
	tok, ctx := newToken(t)

	require.NoError(t, tok.Mint(alice, n(100)))
	require.NoError(t, tok.Mint(bob, n(1000)))
	assert.True(t, errors.Is(as(tok, ctx, bob).Mint(carol, n(1000)), reverts.ErrNotOwner))

	assert.Equal(t, "1100", str(tok.TotalSupply()))
	assert.Equal(t, "100", str(tok.BalanceOf(alice)))
	assert.Equal(t, "1000", str(tok.BalanceOf(bob)))
	assert.Equal(t, "0", str(tok.BalanceOf(carol)))

	ctx.As(alice)
	assert.True(t, errors.Is(tok.Mint(joker.Address{}, n(1)), ErrMintToZero))
}

func TestMintCap(t *testing.T) {
	addr := datagen.RandAddress()
	ctx := testenv.New(addr).As(alice)
	tok := New(addr, state.New(lvldb.NewMem(), nil), ctx)
	tok.Initialize(n(1000))

	require.NoError(t, tok.Mint(bob, n(999)))
	require.NoError(t, tok.Mint(bob, n(1)))
	assert.True(t, errors.Is(tok.Mint(bob, n(1)), ErrCapExceeded))
	assert.Equal(t, "1000", str(tok.TotalSupply()))
	assert.Equal(t, "1000", str(tok.Cap()))
}

func TestTransfer(t *testing.T) {
	tok, ctx := newToken(t)
	require.NoError(t, tok.Mint(alice, n(100)))
	require.NoError(t, tok.Mint(bob, n(1000)))

	require.NoError(t, tok.Transfer(carol, n(10)))
	require.NoError(t, as(tok, ctx, bob).Transfer(carol, n(100)))

	assert.Equal(t, "1100", str(tok.TotalSupply()))
	assert.Equal(t, "90", str(tok.BalanceOf(alice)))
	assert.Equal(t, "900", str(tok.BalanceOf(bob)))
	assert.Equal(t, "110", str(tok.BalanceOf(carol)))

	tests := []struct {
		caller joker.Address
		to     joker.Address
		amount *big.Int
		err    error
	}{
		{alice, carol, n(110), ErrTransferExceedsBalance},
		{leo, carol, n(1), ErrTransferExceedsBalance},
		{alice, joker.Address{}, n(1), ErrTransferToZero},
	}
	for _, tt := range tests {
		assert.True(t, errors.Is(as(tok, ctx, tt.caller).Transfer(tt.to, tt.amount), tt.err))
	}
}

func TestApprove(t *testing.T) {
	tok, _ := newToken(t)
	require.NoError(t, tok.Mint(alice, n(1000)))

	require.NoError(t, tok.Approve(carol, n(100)))
	require.NoError(t, tok.Approve(bob, n(100)))
	assert.Equal(t, "100", str(tok.Allowance(alice, carol)))
	assert.Equal(t, "100", str(tok.Allowance(alice, bob)))

	assert.True(t, errors.Is(tok.Approve(carol, n(50)), ErrApproveNonZero))
	assert.True(t, errors.Is(tok.Approve(carol, n(150)), ErrApproveNonZero))
	assert.Equal(t, "JOKER: use increaseAllowance or decreaseAllowance instead", tok.Approve(carol, n(150)).Error())

	require.NoError(t, tok.Approve(carol, n(0)))
	assert.Equal(t, "0", str(tok.Allowance(alice, carol)))

	require.NoError(t, tok.IncreaseAllowance(bob, n(50)))
	assert.Equal(t, "150", str(tok.Allowance(alice, bob)))
	require.NoError(t, tok.DecreaseAllowance(bob, n(150)))
	assert.True(t, errors.Is(tok.DecreaseAllowance(bob, n(1)), ErrAllowanceBelowZero))
	assert.True(t, errors.Is(tok.Approve(joker.Address{}, n(1)), ErrApproveToZero))
}

func TestTransferFrom(t *testing.T) {
	tok, ctx := newToken(t)
	require.NoError(t, tok.Mint(alice, n(100)))
	require.NoError(t, tok.Mint(bob, n(1000)))

	require.NoError(t, as(tok, ctx, bob).Approve(carol, n(200)))
	ctx.As(carol)
	require.NoError(t, tok.TransferFrom(bob, carol, n(100)))
	require.NoError(t, tok.TransferFrom(bob, leo, n(100)))

	assert.Equal(t, "800", str(tok.BalanceOf(bob)))
	assert.Equal(t, "100", str(tok.BalanceOf(carol)))
	assert.Equal(t, "100", str(tok.BalanceOf(leo)))
	assert.Equal(t, "0", str(tok.Allowance(bob, carol)))

	assert.True(t, errors.Is(tok.TransferFrom(alice, carol, n(110)), ErrTransferExceedsBalance))
	assert.True(t, errors.Is(as(tok, ctx, bob).TransferFrom(alice, carol, n(10)), ErrTransferExceedsAllowance))
}

func TestTransferOwnership(t *testing.T) {
	tok, ctx := newToken(t)
	require.NoError(t, tok.TransferOwnership(leo))
	assert.True(t, errors.Is(tok.TransferOwnership(carol), reverts.ErrNotOwner))
	assert.True(t, errors.Is(as(tok, ctx, bob).TransferOwnership(carol), reverts.ErrNotOwner))
	assert.Equal(t, M(leo, nil), M(tok.Owner()))
}

func TestDelegation(t *testing.T) {
	tok, ctx := newToken(t)

	// block 1
	assert.Equal(t, "0", str(tok.GetCurrentVotes(bob)))
	require.NoError(t, tok.Mint(bob, n(200)))
	assert.Equal(t, "0", str(tok.GetCurrentVotes(bob)))

	// block 2, 3
	require.NoError(t, as(tok, ctx.Mine(1), alice).Mint(carol, n(100)))
	require.NoError(t, as(tok, ctx.Mine(1), bob).Delegate(carol))
	assert.Equal(t, M(carol, nil), M(tok.Delegates(bob)))
	assert.True(t, errors.Is(tok.Delegate(carol), ErrDelegateUnchanged))

	assert.Equal(t, "200", str(tok.GetCurrentVotes(carol)))
	assert.Equal(t, M(uint32(1), nil), M(tok.NumCheckpoints(carol)))
	assert.Equal(t, M(uint32(0), nil), M(tok.NumCheckpoints(bob)))

	// block 4
	ctx.Mine(1)
	assert.Equal(t, "200", str(tok.GetPriorVotes(carol, n(3), 4)))
	assert.Equal(t, "0", str(tok.GetPriorVotes(bob, n(3), 4)))
	_, err := tok.GetPriorVotes(carol, n(4), 4)
	assert.True(t, errors.Is(err, ErrNotYetDetermined))

	require.NoError(t, as(tok, ctx, carol).Delegate(alice))
	assert.Equal(t, M(joker.Address{}, nil), M(tok.Delegates(alice)))
	assert.Equal(t, "100", str(tok.GetCurrentVotes(alice)))
	assert.Equal(t, "200", str(tok.GetCurrentVotes(carol)))

	// block 5
	ctx.Mine(1)
	assert.Equal(t, "100", str(tok.GetPriorVotes(alice, n(4), 5)))
	assert.Equal(t, "0", str(tok.GetPriorVotes(alice, n(3), 5)))
	assert.Equal(t, "200", str(tok.GetPriorVotes(carol, n(3), 5)))

	require.NoError(t, as(tok, ctx, bob).Delegate(alice))
	assert.Equal(t, "300", str(tok.GetCurrentVotes(alice)))
	assert.Equal(t, "0", str(tok.GetCurrentVotes(carol)))
	assert.Equal(t, M(uint32(2), nil), M(tok.NumCheckpoints(alice)))
	assert.Equal(t, M(uint32(2), nil), M(tok.NumCheckpoints(carol)))

	// block 6
	require.NoError(t, as(tok, ctx.Mine(1), alice).Mint(bob, n(400)))
	assert.Equal(t, "700", str(tok.GetCurrentVotes(alice)))
	assert.Equal(t, M(uint32(3), nil), M(tok.NumCheckpoints(alice)))

	// block 7
	require.NoError(t, as(tok, ctx.Mine(1), bob).Transfer(leo, n(100)))
	assert.Equal(t, "600", str(tok.GetCurrentVotes(alice)))
	assert.Equal(t, M(uint32(4), nil), M(tok.NumCheckpoints(alice)))
	assert.Equal(t, M(uint32(0), nil), M(tok.NumCheckpoints(leo)))

	// history
	tests := []struct {
		account joker.Address
		block   int64
		votes   int64
	}{
		{alice, 3, 0},
		{alice, 4, 100},
		{alice, 5, 300},
		{alice, 6, 700},
		{alice, 7, 600},
		{carol, 3, 200},
		{carol, 4, 200},
		{carol, 5, 0},
		{bob, 7, 0},
		{alice, 1000, 600},
	}
	for _, tt := range tests {
		assert.Equal(t, n(tt.votes).String(), str(tok.GetPriorVotes(tt.account, n(tt.block), 2000)), "%v@%d", tt.account, tt.block)
	}

	cp, err := tok.Checkpoints(alice, 2)
	require.NoError(t, err)
	assert.Equal(t, &Checkpoint{FromBlock: 6, Votes: n(700)}, cp)
}

func TestDelegationBothSides(t *testing.T) {
	tok, ctx := newToken(t)
	require.NoError(t, tok.Mint(bob, n(200)))
	require.NoError(t, tok.Mint(carol, n(300)))
	require.NoError(t, as(tok, ctx.Mine(1), bob).Delegate(alice))
	require.NoError(t, as(tok, ctx.Mine(1), carol).Delegate(leo))
	require.NoError(t, as(tok, ctx.Mine(1), bob).Transfer(carol, n(100)))

	assert.Equal(t, "100", str(tok.GetCurrentVotes(alice)))
	assert.Equal(t, "400", str(tok.GetCurrentVotes(leo)))
	assert.Equal(t, M(uint32(2), nil), M(tok.NumCheckpoints(alice)))
	assert.Equal(t, M(uint32(2), nil), M(tok.NumCheckpoints(leo)))

	ctx.Mine(1)
	require.NoError(t, as(tok, ctx, carol).Approve(leo, n(100)))
	require.NoError(t, as(tok, ctx, leo).TransferFrom(carol, bob, n(100)))
	assert.Equal(t, "200", str(tok.GetCurrentVotes(alice)))
	assert.Equal(t, "300", str(tok.GetCurrentVotes(leo)))

	// same block writes overwrite the latest checkpoint
	require.NoError(t, as(tok, ctx, carol).Approve(leo, n(200)))
	require.NoError(t, as(tok, ctx, leo).TransferFrom(carol, leo, n(200)))
	assert.Equal(t, "100", str(tok.GetCurrentVotes(leo)))
	assert.Equal(t, M(uint32(3), nil), M(tok.NumCheckpoints(leo)))
}

func TestDelegateBySig(t *testing.T) {
	tok, ctx := newToken(t)
	key, signer := datagen.RandKey()
	require.NoError(t, tok.Mint(signer, n(500)))

	sign := func(delegatee joker.Address, nonce, expiry int64) (uint8, joker.Bytes32, joker.Bytes32) {
		structHash := joker.Keccak256(
			DelegationTypeHash[:],
			joker.Word(delegatee[:]),
			joker.Uint64Word(uint64(nonce)),
			joker.Uint64Word(uint64(expiry)),
		)
		digest := joker.TypedDataHash(tok.DomainSeparator(ctx.BlockContext().ChainID), structHash)
		sig, err := crypto.Sign(digest[:], key)
		require.NoError(t, err)
		return sig[64] + 27, joker.BytesToBytes32(sig[:32]), joker.BytesToBytes32(sig[32:64])
	}

	ctx.At(10, 1000).As(leo)
	v, r, s := sign(bob, 0, 2000)
	require.NoError(t, tok.DelegateBySig(bob, n(0), n(2000), v, r, s))
	assert.Equal(t, M(bob, nil), M(tok.Delegates(signer)))
	assert.Equal(t, "500", str(tok.GetCurrentVotes(bob)))
	assert.Equal(t, "1", str(tok.Nonces(signer)))

	// replay
	assert.True(t, errors.Is(tok.DelegateBySig(bob, n(0), n(2000), v, r, s), ErrInvalidNonce))

	v, r, s = sign(carol, 1, 999)
	assert.True(t, errors.Is(tok.DelegateBySig(carol, n(1), n(999), v, r, s), ErrSignatureExpired))

	assert.True(t, errors.Is(tok.DelegateBySig(carol, n(1), n(2000), 27, joker.Bytes32{}, joker.Bytes32{}), ErrInvalidSignature))
}
