// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokerswap/joker/api/contracts"
	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/test/testchain"
)

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	var data []byte
	switch b := body.(type) {
	case string:
		data = []byte(b)
	default:
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func TestContracts(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	acc := chain.Account(0)
	spender := chain.Account(1)
	stake := chain.StakeToken(0)

	router := mux.NewRouter()
	contracts.New(chain.Runtime()).Mount(router, "/contracts")
	ts := httptest.NewServer(router)
	defer ts.Close()
	url := ts.URL + "/contracts/" + stake.Address().String()

	allowance := func() *big.Int {
		input, err := stake.EncodeInput("allowance", common.Address(acc.Address), common.Address(spender.Address))
		require.NoError(t, err)
		body, code := httpPost(t, url, &contracts.Call{Caller: acc.Address, Data: input})
		require.Equal(t, http.StatusOK, code, string(body))

		var receipt utils.Receipt
		require.NoError(t, json.Unmarshal(body, &receipt))
		require.False(t, receipt.Reverted)
		return new(big.Int).SetBytes(receipt.Output)
	}
	assert.Zero(t, allowance().Sign())

	head := chain.Head().Number
	input, err := stake.EncodeInput("approve", common.Address(spender.Address), big.NewInt(42))
	require.NoError(t, err)

	// inspecting leaves no trace
	body, code := httpPost(t, url, &contracts.Call{Caller: acc.Address, Data: input})
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, allowance().Sign())
	assert.Equal(t, head, chain.Head().Number)

	body, code = httpPost(t, url+"/transact", &contracts.Call{Caller: acc.Address, Data: input})
	require.Equal(t, http.StatusOK, code)
	var receipt utils.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.False(t, receipt.Reverted)
	assert.Equal(t, head+1, receipt.BlockNumber)
	assert.Len(t, receipt.Logs, 1)
	assert.Equal(t, big.NewInt(42), allowance())

	// a revert is a receipt, not a failed request
	input, err = stake.EncodeInput("transferFrom", common.Address(acc.Address), common.Address(spender.Address), big.NewInt(43))
	require.NoError(t, err)
	body, code = httpPost(t, url+"/transact", &contracts.Call{Caller: spender.Address, Data: input})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.True(t, receipt.Reverted)
	assert.NotEmpty(t, receipt.Reason)

	_, code = httpPost(t, url, `{"caller":"0x01"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpPost(t, url, `{"unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpPost(t, url, `{"value":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpPost(t, ts.URL+"/contracts/0xzz", &contracts.Call{})
	assert.Equal(t, http.StatusBadRequest, code)
}
