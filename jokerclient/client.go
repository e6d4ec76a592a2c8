// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package jokerclient is the client of a joker node, over http and websockets.
package jokerclient

import (
	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/api/accounts"
	"github.com/jokerswap/joker/api/contracts"
	"github.com/jokerswap/joker/api/node"
	"github.com/jokerswap/joker/api/pools"
	"github.com/jokerswap/joker/api/proposals"
	"github.com/jokerswap/joker/api/subscriptions"
	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/jokerclient/bind"
	"github.com/jokerswap/joker/jokerclient/httpclient"
	"github.com/jokerswap/joker/jokerclient/wsclient"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

// NewWithWS creates a client able to subscribe too.
func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

func (c *Client) RawHTTPClient() *httpclient.Client {
	return c.httpConn
}

func (c *Client) Status() (*node.Status, error) {
	return c.httpConn.GetStatus()
}

func (c *Client) Deployment() (*genesis.Deployment, error) {
	return c.httpConn.GetDeployment()
}

func (c *Client) Pools() (*pools.Summary, error) {
	return c.httpConn.GetPools()
}

func (c *Client) Pool(pid uint64) (*pools.Pool, error) {
	return c.httpConn.GetPool(pid)
}

func (c *Client) Position(pid uint64, user joker.Address) (*pools.Position, error) {
	return c.httpConn.GetPosition(pid, user)
}

func (c *Client) Votes(addr joker.Address) (*accounts.Votes, error) {
	return c.httpConn.GetVotes(addr)
}

func (c *Client) PriorVotes(addr joker.Address, block uint32) (*accounts.PriorVotes, error) {
	return c.httpConn.GetPriorVotes(addr, block)
}

func (c *Client) Rules() (*proposals.Rules, error) {
	return c.httpConn.GetRules()
}

func (c *Client) Proposal(id uint64) (*proposals.Proposal, error) {
	return c.httpConn.GetProposal(id)
}

func (c *Client) Ballot(id uint64, voter joker.Address) (*proposals.Ballot, error) {
	return c.httpConn.GetBallot(id, voter)
}

func (c *Client) InspectCall(to joker.Address, call *contracts.Call) (*utils.Receipt, error) {
	return c.httpConn.InspectCall(to, call)
}

func (c *Client) TransactCall(to joker.Address, call *contracts.Call) (*utils.Receipt, error) {
	return c.httpConn.TransactCall(to, call)
}

// Contract binds the program at addr described by contractABI.
func (c *Client) Contract(contractABI *abi.ABI, addr joker.Address) *bind.Contract {
	return bind.NewContract(c.httpConn, contractABI, addr)
}

// System binds the system programs of d.
func (c *Client) System(d *genesis.Deployment) *System {
	return &System{
		Token:    c.Contract(builtin.Token.ABI(), d.Token),
		Lord:     c.Contract(builtin.Lord.ABI(), d.Lord),
		Timelock: c.Contract(builtin.Timelock.ABI(), d.Timelock),
		Governor: c.Contract(builtin.Governor.ABI(), d.Governor),
	}
}

// System holds bindings of the programs deployed at bootstrap.
type System struct {
	Token    *bind.Contract
	Lord     *bind.Contract
	Timelock *bind.Contract
	Governor *bind.Contract
}

func (c *Client) SubscribeBlocks() (*wsclient.Subscription[subscriptions.BlockMessage], error) {
	if c.wsConn == nil {
		return nil, errNoWS
	}
	return c.wsConn.SubscribeBlocks()
}

func (c *Client) SubscribeEvents(query string) (*wsclient.Subscription[subscriptions.EventMessage], error) {
	if c.wsConn == nil {
		return nil, errNoWS
	}
	return c.wsConn.SubscribeEvents(query)
}
