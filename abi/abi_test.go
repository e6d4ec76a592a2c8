// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/gen"
	"github.com/jokerswap/joker/joker"
)

func TestABI(t *testing.T) {
	tokenABI, err := abi.New(gen.MustABI("compiled/Token.abi"))
	require.NoError(t, err)

	transfer, ok := tokenABI.MethodByName("transfer")
	require.True(t, ok)
	assert.Equal(t, abi.SignatureID("transfer(address,uint256)"), transfer.ID())
	id := transfer.ID()
	assert.Equal(t, "a9059cbb", common.Bytes2Hex(id[:]))
	assert.False(t, transfer.Const())

	to := joker.BytesToAddress([]byte("to"))
	input, err := transfer.EncodeInput(common.Address(to), big.NewInt(10))
	require.NoError(t, err)

	m, err := tokenABI.MethodByInput(input)
	require.NoError(t, err)
	assert.Equal(t, "transfer", m.Name())

	var args struct {
		Recipient common.Address
		Amount    *big.Int
	}
	require.NoError(t, m.DecodeInput(input, &args))
	assert.Equal(t, common.Address(to), args.Recipient)
	assert.Equal(t, big.NewInt(10), args.Amount)

	values, err := m.DecodeInputValues(input)
	require.NoError(t, err)
	assert.Len(t, values, 2)

	assert.Error(t, m.DecodeInput([]byte{1, 2, 3, 4}, &args))
	_, err = tokenABI.MethodByInput([]byte{1, 2})
	assert.Error(t, err)
	_, err = tokenABI.MethodByInput([]byte{1, 2, 3, 4})
	assert.Error(t, err)

	balanceOf, _ := tokenABI.MethodByName("balanceOf")
	assert.True(t, balanceOf.Const())
	out, err := balanceOf.EncodeOutput(big.NewInt(42))
	require.NoError(t, err)
	var bal *big.Int
	require.NoError(t, balanceOf.DecodeOutput(out, &bal))
	assert.Equal(t, big.NewInt(42), bal)
	assert.Error(t, balanceOf.DecodeOutput([]byte{1}, &bal))
}

func TestEvent(t *testing.T) {
	tokenABI := abi.MustNew(gen.MustABI("compiled/Token.abi"))

	ev, ok := tokenABI.EventByName("Transfer")
	require.True(t, ok)
	assert.Equal(t, joker.Keccak256([]byte("Transfer(address,address,uint256)")), ev.ID())
	assert.Equal(t, 2, ev.IndexedCount())

	e2, ok := tokenABI.EventByID(ev.ID())
	require.True(t, ok)
	assert.Equal(t, "Transfer", e2.Name())

	data, err := ev.Encode(big.NewInt(7))
	require.NoError(t, err)
	var value *big.Int
	require.NoError(t, ev.Decode(data, &value))
	assert.Equal(t, big.NewInt(7), value)

	m, err := ev.DecodeValues(data)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), m["value"])
}

func TestDecodeTuple(t *testing.T) {
	govABI := abi.MustNew(gen.MustABI("compiled/Governor.abi"))
	receipt, ok := govABI.MethodByName("getReceipt")
	require.True(t, ok)

	out, err := receipt.EncodeOutput(true, false, big.NewInt(300))
	require.NoError(t, err)
	var r struct {
		HasVoted bool
		Support  bool
		Votes    *big.Int
	}
	require.NoError(t, receipt.DecodeOutput(out, &r))
	assert.True(t, r.HasVoted)
	assert.False(t, r.Support)
	assert.Equal(t, big.NewInt(300), r.Votes)

	tokenABI := abi.MustNew(gen.MustABI("compiled/Token.abi"))
	changed, ok := tokenABI.EventByName("DelegateChanged")
	require.True(t, ok)
	assert.NoError(t, changed.Decode(nil, nil), "all indexed, nothing to decode")
}

func TestBuiltinABIs(t *testing.T) {
	for _, name := range []string{"Token", "ERC20", "Lord", "Timelock", "Governor", "Migrator"} {
		a, err := abi.New(gen.MustABI("compiled/" + name + ".abi"))
		require.NoError(t, err, name)
		assert.NotEmpty(t, a.Methods(), name)
	}

	timelock := abi.MustNew(gen.MustABI("compiled/Timelock.abi"))
	exec, ok := timelock.MethodByName("executeTransaction")
	require.True(t, ok)
	assert.True(t, exec.Payable())
	assert.Equal(t, "executeTransaction(address,uint256,string,bytes,uint256)", exec.Sig())
}

func TestUnpackRevert(t *testing.T) {
	cases := []struct {
		input     string
		expect    string
		expectErr bool
	}{
		{"", "", true},
		{"08c379a1", "", true},
		{"08c379a00000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000000d72657665727420726561736f6e00000000000000000000000000000000000000", "revert reason", false},
	}
	for _, c := range cases {
		got, err := abi.UnpackRevert(common.Hex2Bytes(c.input))
		if c.expectErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, c.expect, got)
	}
}
