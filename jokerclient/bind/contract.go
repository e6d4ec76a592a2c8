// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bind calls the methods of a deployed program through the api by name.
package bind

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/api/contracts"
	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/jokerclient/httpclient"
)

type Contract struct {
	client *httpclient.Client
	abi    *abi.ABI
	addr   joker.Address
}

// NewContract binds the program at addr described by contractABI.
func NewContract(client *httpclient.Client, contractABI *abi.ABI, addr joker.Address) *Contract {
	return &Contract{
		client: client,
		abi:    contractABI,
		addr:   addr,
	}
}

func (c *Contract) Address() joker.Address {
	return c.addr
}

// Method starts a call of the named method.
func (c *Contract) Method(name string, args ...any) *MethodBuilder {
	return &MethodBuilder{contract: c, method: name, args: args}
}

type MethodBuilder struct {
	contract *Contract
	method   string
	args     []any
	value    *big.Int
}

// WithValue attaches native value to the call.
func (b *MethodBuilder) WithValue(value *big.Int) *MethodBuilder {
	b.value = value
	return b
}

func (b *MethodBuilder) abiMethod() (*abi.Method, error) {
	m, ok := b.contract.abi.MethodByName(b.method)
	if !ok {
		return nil, fmt.Errorf("method not found: %s", b.method)
	}
	return m, nil
}

func (b *MethodBuilder) build(caller joker.Address) (*abi.Method, *contracts.Call, error) {
	m, err := b.abiMethod()
	if err != nil {
		return nil, nil, err
	}
	data, err := m.EncodeInput(b.args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pack method (%s): %w", b.method, err)
	}
	call := &contracts.Call{Caller: caller, Data: data}
	if b.value != nil {
		call.Value = (*math.HexOrDecimal256)(b.value)
	}
	return m, call, nil
}

// Call inspects the method as caller and decodes its outputs.
func (b *MethodBuilder) Call(caller joker.Address) ([]any, error) {
	m, call, err := b.build(caller)
	if err != nil {
		return nil, err
	}
	receipt, err := b.contract.client.InspectCall(b.contract.addr, call)
	if err != nil {
		return nil, err
	}
	if err := checkReverted(b.method, receipt); err != nil {
		return nil, err
	}
	return m.DecodeOutputValues(receipt.Output)
}

// Send executes the method as caller in the pending block.
func (b *MethodBuilder) Send(caller joker.Address) (*utils.Receipt, error) {
	_, call, err := b.build(caller)
	if err != nil {
		return nil, err
	}
	receipt, err := b.contract.client.TransactCall(b.contract.addr, call)
	if err != nil {
		return nil, err
	}
	return receipt, checkReverted(b.method, receipt)
}

// RevertError reports a reverted call.
type RevertError struct {
	Method string
	Reason string
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("%s reverted: %s", e.Method, e.Reason)
}

func checkReverted(method string, r *utils.Receipt) error {
	if r.Reverted {
		return &RevertError{method, r.Reason}
	}
	return nil
}
