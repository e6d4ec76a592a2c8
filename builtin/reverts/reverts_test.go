// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverts(t *testing.T) {
	revert := NewRequireError("test")
	assert.Equal(t, "test", revert.Error())
	assert.Equal(t, Generic, revert.Kind())
	assert.Empty(t, revert.Name())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))

	var nilRevert *ErrRequire
	assert.Nil(t, nilRevert.Bytes())
}

func TestWrap(t *testing.T) {
	sentinel := New(Authorization, "CallerNotUser", "caller must be _user")
	err := Wrap(sentinel, "deposit")

	assert.EqualError(t, err, "deposit: caller must be _user")
	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, IsRevertErr(err))

	ve, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, Authorization, ve.Kind())
	assert.Equal(t, "authorization", ve.Kind().String())
	assert.Equal(t, "CallerNotUser", ve.Name())
}

func TestEncodeDecode(t *testing.T) {
	for _, reason := range []string{"", "short", "Timelock::executeTransaction: Transaction hasn't been queued."} {
		data := Encode(reason)
		assert.Equal(t, "08c379a0", fmt.Sprintf("%x", data[:4]))
		assert.Zero(t, (len(data)-4)%32)

		got, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, reason, got)
	}
	assert.Equal(t, Encode("x"), NewRequireError("x").Bytes())

	_, err := Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}
