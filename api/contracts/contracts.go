// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package contracts exposes read-only and state changing calls into deployed programs.
package contracts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/runtime"
)

var logger = log.WithContext("pkg", "contracts")

// Call is the body of a contract call.
type Call struct {
	Caller joker.Address          `json:"caller"`
	Value  *math.HexOrDecimal256 `json:"value,omitempty"`
	Data   hexutil.Bytes          `json:"data"`
}

type Contracts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Contracts {
	return &Contracts{rt}
}

func (c *Contracts) parse(req *http.Request) (joker.Address, *Call, *big.Int, error) {
	to, err := utils.AddressVar(req, "address")
	if err != nil {
		return joker.Address{}, nil, nil, err
	}
	var call Call
	if err := utils.ParseJSON(req.Body, &call); err != nil {
		return joker.Address{}, nil, nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	value := new(big.Int)
	if call.Value != nil {
		value = (*big.Int)(call.Value)
		if value.Sign() < 0 {
			return joker.Address{}, nil, nil, utils.BadRequest(errors.New("value: negative"))
		}
	}
	return to, &call, value, nil
}

func (c *Contracts) handleInspect(w http.ResponseWriter, req *http.Request) error {
	to, call, value, err := c.parse(req)
	if err != nil {
		return err
	}
	receipt, err := c.rt.Inspect(call.Caller, to, value, call.Data)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Contracts) handleTransact(w http.ResponseWriter, req *http.Request) error {
	to, call, value, err := c.parse(req)
	if err != nil {
		return err
	}
	receipt, err := c.rt.Execute(call.Caller, to, value, call.Data)
	if err != nil {
		return err
	}
	logger.Debug("transaction executed", "caller", call.Caller, "to", to, "reverted", receipt.Reverted)
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Contracts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodPost).
		Name("contracts_inspect").
		HandlerFunc(utils.WrapHandlerFunc(c.handleInspect))
	sub.Path("/{address}/transact").
		Methods(http.MethodPost).
		Name("contracts_transact").
		HandlerFunc(utils.WrapHandlerFunc(c.handleTransact))
}
