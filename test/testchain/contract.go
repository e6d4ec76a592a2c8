// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"errors"
	"math/big"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin"
	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/runtime"
)

type Contract struct {
	chain *Chain
	prog  builtin.Program
	addr  joker.Address
	acc   genesis.DevAccount
}

func NewContract(chain *Chain, acc genesis.DevAccount, addr joker.Address, prog builtin.Program) *Contract {
	return &Contract{
		chain: chain,
		prog:  prog,
		addr:  addr,
		acc:   acc,
	}
}

// Attach returns a copy of the contract sending from acc.
func (c *Contract) Attach(acc genesis.DevAccount) *Contract {
	contract := *c
	contract.acc = acc
	return &contract
}

func (c *Contract) Address() joker.Address {
	return c.addr
}

func (c *Contract) ABI() *abi.ABI {
	return c.prog.ABI()
}

// Call inspects a contract method on top of the latest block and returns the raw output.
// A revert is returned as the error that caused it.
func (c *Contract) Call(method string, args ...any) ([]byte, error) {
	data, err := c.EncodeInput(method, args...)
	if err != nil {
		return nil, err
	}
	receipt, err := c.chain.rt.Inspect(c.acc.Address, c.addr, new(big.Int), data)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return nil, receipt.Err
	}
	return receipt.Output, nil
}

// CallInto calls a contract method and decodes the result into the result argument.
func (c *Contract) CallInto(method string, result any, args ...any) error {
	data, err := c.Call(method, args...)
	if err != nil {
		return err
	}
	methodABI, ok := c.ABI().MethodByName(method)
	if !ok {
		return errors.New("method not found")
	}
	return methodABI.DecodeOutput(data, result)
}

// Values calls a contract method and decodes the outputs positionally.
func (c *Contract) Values(method string, args ...any) ([]any, error) {
	data, err := c.Call(method, args...)
	if err != nil {
		return nil, err
	}
	methodABI, ok := c.ABI().MethodByName(method)
	if !ok {
		return nil, errors.New("method not found")
	}
	return methodABI.DecodeOutputValues(data)
}

func (c *Contract) EncodeInput(method string, args ...any) ([]byte, error) {
	methodABI, ok := c.ABI().MethodByName(method)
	if !ok {
		return nil, errors.New("method not found")
	}
	return methodABI.EncodeInput(args...)
}

// MintTransaction executes a contract method in its own block.
// The receipt is returned along with the revert error if the call reverted.
func (c *Contract) MintTransaction(method string, value *big.Int, args ...any) (*runtime.Receipt, error) {
	data, err := c.EncodeInput(method, args...)
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = new(big.Int)
	}
	receipt, err := c.chain.rt.Execute(c.acc.Address, c.addr, value, data)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return receipt, receipt.Err
	}
	return receipt, nil
}
