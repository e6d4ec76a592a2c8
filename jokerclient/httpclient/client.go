// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient talks to the REST api of a node: status, pools, votes,
// proposals and raw program calls.
package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jokerswap/joker/api/accounts"
	"github.com/jokerswap/joker/api/contracts"
	"github.com/jokerswap/joker/api/node"
	"github.com/jokerswap/joker/api/pools"
	"github.com/jokerswap/joker/api/proposals"
	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/joker"
)

// Client is the HTTP client of a node.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

func (c *Client) URL() string {
	return c.url
}

// GetStatus retrieves the chain id and head of the node.
func (c *Client) GetStatus() (*node.Status, error) {
	return getJSON[node.Status](c, c.url+"/node/status", "status")
}

// GetDeployment retrieves the addresses of the system programs.
func (c *Client) GetDeployment() (*genesis.Deployment, error) {
	return getJSON[genesis.Deployment](c, c.url+"/node/deployment", "deployment")
}

// GetPools retrieves the engine summary with every pool.
func (c *Client) GetPools() (*pools.Summary, error) {
	return getJSON[pools.Summary](c, c.url+"/pools", "pools")
}

func (c *Client) GetPool(pid uint64) (*pools.Pool, error) {
	return getJSON[pools.Pool](c, c.url+"/pools/"+strconv.FormatUint(pid, 10), "pool")
}

// GetPosition retrieves the stake and pending reward of user in pool pid.
func (c *Client) GetPosition(pid uint64, user joker.Address) (*pools.Position, error) {
	url := c.url + "/pools/" + strconv.FormatUint(pid, 10) + "/users/" + user.String()
	return getJSON[pools.Position](c, url, "position")
}

func (c *Client) GetVotes(addr joker.Address) (*accounts.Votes, error) {
	return getJSON[accounts.Votes](c, c.url+"/accounts/"+addr.String()+"/votes", "votes")
}

// GetPriorVotes retrieves the votes of addr as of a sealed block.
func (c *Client) GetPriorVotes(addr joker.Address, block uint32) (*accounts.PriorVotes, error) {
	url := c.url + "/accounts/" + addr.String() + "/votes/" + strconv.FormatUint(uint64(block), 10)
	return getJSON[accounts.PriorVotes](c, url, "prior votes")
}

func (c *Client) GetRules() (*proposals.Rules, error) {
	return getJSON[proposals.Rules](c, c.url+"/proposals", "rules")
}

func (c *Client) GetProposal(id uint64) (*proposals.Proposal, error) {
	return getJSON[proposals.Proposal](c, c.url+"/proposals/"+strconv.FormatUint(id, 10), "proposal")
}

func (c *Client) GetBallot(id uint64, voter joker.Address) (*proposals.Ballot, error) {
	url := c.url + "/proposals/" + strconv.FormatUint(id, 10) + "/receipts/" + voter.String()
	return getJSON[proposals.Ballot](c, url, "ballot")
}

// InspectCall runs call against to without changing state.
func (c *Client) InspectCall(to joker.Address, call *contracts.Call) (*utils.Receipt, error) {
	return c.postCall(c.url+"/contracts/"+to.String(), call)
}

// TransactCall runs call against to in the pending block.
func (c *Client) TransactCall(to joker.Address, call *contracts.Call) (*utils.Receipt, error) {
	return c.postCall(c.url+"/contracts/"+to.String()+"/transact", call)
}

func (c *Client) postCall(url string, call *contracts.Call) (*utils.Receipt, error) {
	body, err := c.httpPOST(url, call)
	if err != nil {
		return nil, fmt.Errorf("unable to post call - %w", err)
	}
	var receipt utils.Receipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("unable to unmarshal receipt - %w", err)
	}
	return &receipt, nil
}
