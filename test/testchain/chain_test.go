// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ChainDefault(t *testing.T) {
	chain, err := NewDefault()
	require.NoError(t, err)
	require.Equal(t, uint32(1), chain.Head().Number)
	require.Equal(t, LaunchTime, chain.Head().Time)

	for range 1000 {
		require.NoError(t, chain.MintBlock())
	}
	require.Equal(t, uint32(1001), chain.Head().Number)
}

func Test_ChainContract(t *testing.T) {
	chain, err := NewDefault()
	require.NoError(t, err)

	var owner common.Address
	require.NoError(t, chain.Token().CallInto("owner", &owner))
	assert.Equal(t, chain.Deployment().Lord[:], owner[:])

	to := chain.Account(3).Address
	stake := chain.StakeToken(0)
	_, err = stake.MintTransaction("transfer", nil, to, big.NewInt(1000))
	require.NoError(t, err)

	vals, err := stake.Values("balanceOf", to)
	require.NoError(t, err)
	assert.Equal(t, "1000", vals[0].(*big.Int).String())

	// the account holds no stake to send
	_, err = stake.Attach(chain.Account(4)).MintTransaction("transfer", nil, to, big.NewInt(1))
	assert.Error(t, err)

	bal, err := chain.Balance(to)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000000", bal.String())
}
