// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proposals_test

import (
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

	"github.com/jokerswap/joker/api/proposals"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/test/testchain"
)

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func getProposal(t *testing.T, url string) *proposals.Proposal {
	body, code := httpGet(t, url)
	require.Equal(t, http.StatusOK, code, string(body))
	var p proposals.Proposal
	require.NoError(t, json.Unmarshal(body, &p))
	return &p
}

func TestProposals(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	cfg := chain.Config()
	acc := chain.Account(0)
	lord := chain.Lord()
	gov := chain.Governor()

	router := mux.NewRouter()
	proposals.New(chain.Runtime(), chain.Deployment().Governor).Mount(router, "/proposals")
	ts := httptest.NewServer(router)
	defer ts.Close()

	body, code := httpGet(t, ts.URL+"/proposals")
	require.Equal(t, http.StatusOK, code)
	var rules proposals.Rules
	require.NoError(t, json.Unmarshal(body, &rules))
	assert.Equal(t, proposals.Rules{
		ProposalCount:     0,
		QuorumVotes:       rules.QuorumVotes,
		ProposalThreshold: rules.ProposalThreshold,
		VotingDelay:       uint64(cfg.VotingDelay),
		VotingPeriod:      uint64(cfg.VotingPeriod),
		Guardian:          cfg.Guardian,
	}, rules)
	assert.Equal(t, cfg.QuorumVotes, (*big.Int)(rules.QuorumVotes))
	assert.Equal(t, cfg.ProposalThreshold, (*big.Int)(rules.ProposalThreshold))

	_, code = httpGet(t, ts.URL+"/proposals/1")
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpGet(t, ts.URL+"/proposals/0")
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpGet(t, ts.URL+"/proposals/one")
	assert.Equal(t, http.StatusBadRequest, code)

	mint := func(c *testchain.Contract, method string, args ...any) {
		_, err := c.MintTransaction(method, nil, args...)
		require.NoError(t, err, method)
	}
	amount := new(big.Int).Mul(big.NewInt(1000), joker.Ether)
	mint(chain.StakeToken(0), "approve", common.Address(chain.Deployment().Lord), amount)
	mint(lord, "deposit", common.Address(acc.Address), big.NewInt(0), amount)
	require.NoError(t, chain.MintBlocks(10, 0))
	mint(lord, "claim", big.NewInt(0))
	mint(chain.Token(), "delegate", common.Address(acc.Address))

	mint(gov, "propose",
		[]common.Address{common.Address(lord.Address())},
		[]*big.Int{new(big.Int)},
		[]string{"massUpdatePools()"},
		[][]byte{{}},
		"refresh pools",
	)
	url := ts.URL + "/proposals/1"

	p := getProposal(t, url)
	assert.Equal(t, uint64(1), p.ID)
	assert.Equal(t, acc.Address, p.Proposer)
	assert.Equal(t, "Pending", p.State)
	assert.Equal(t, p.StartBlock+uint64(cfg.VotingPeriod), p.EndBlock)
	require.Len(t, p.Actions, 1)
	assert.Equal(t, lord.Address(), p.Actions[0].Target)
	assert.Equal(t, "massUpdatePools()", p.Actions[0].Signature)

	ballotURL := url + "/receipts/" + acc.Address.String()
	body, code = httpGet(t, ballotURL)
	require.Equal(t, http.StatusOK, code)
	var ballot proposals.Ballot
	require.NoError(t, json.Unmarshal(body, &ballot))
	assert.False(t, ballot.HasVoted)

	require.NoError(t, chain.MintBlock())
	assert.Equal(t, "Active", getProposal(t, url).State)
	mint(gov, "castVote", big.NewInt(1), true)

	body, code = httpGet(t, ballotURL)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &ballot))
	assert.True(t, ballot.HasVoted)
	assert.True(t, ballot.Support)
	assert.Positive(t, (*big.Int)(ballot.Votes).Sign())

	p = getProposal(t, url)
	assert.Equal(t, ballot.Votes, p.ForVotes)
	assert.Zero(t, (*big.Int)(p.AgainstVotes).Sign())

	require.NoError(t, chain.MintBlocks(cfg.VotingPeriod, 0))
	assert.Equal(t, "Succeeded", getProposal(t, url).State)

	_, code = httpGet(t, ts.URL+"/proposals/2/receipts/"+acc.Address.String())
	assert.Equal(t, http.StatusNotFound, code)
}
