// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/runtime"
)

// Status is the head of the node.
type Status struct {
	ChainID     uint64 `json:"chainId"`
	BlockNumber uint32 `json:"blockNumber"`
	BlockTime   uint64 `json:"blockTime"`
}

type Node struct {
	rt         *runtime.Runtime
	chainID    uint64
	deployment *genesis.Deployment
}

func New(rt *runtime.Runtime, chainID uint64, deployment *genesis.Deployment) *Node {
	return &Node{
		rt,
		chainID,
		deployment,
	}
}

func (n *Node) handleStatus(w http.ResponseWriter, _ *http.Request) error {
	head := n.rt.Head()
	return utils.WriteJSON(w, &Status{
		ChainID:     n.chainID,
		BlockNumber: head.Number,
		BlockTime:   head.Time,
	})
}

func (n *Node) handleDeployment(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, n.deployment)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("node_get_status").
		HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
	sub.Path("/deployment").
		Methods(http.MethodGet).
		Name("node_get_deployment").
		HandlerFunc(utils.WrapHandlerFunc(n.handleDeployment))
}
