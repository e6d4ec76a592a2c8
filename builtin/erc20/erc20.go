// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package erc20 implements a plain mintable ERC20 used as stake collateral.
package erc20

import (
	"math/big"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/gen"
	"github.com/jokerswap/joker/builtin/ownable"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/builtin/solidity"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/xenv"
)

// Decimals of every stake token.
const Decimals = uint8(18)

var (
	ErrTransferToZero           = reverts.New(reverts.Invariant, "TransferToZero", "ERC20: transfer to the zero address")
	ErrTransferExceedsBalance   = reverts.New(reverts.Invariant, "InsufficientBalance", "ERC20: transfer amount exceeds balance")
	ErrTransferExceedsAllowance = reverts.New(reverts.Invariant, "InsufficientAllowance", "ERC20: transfer amount exceeds allowance")
	ErrApproveToZero            = reverts.New(reverts.Invariant, "ApproveToZero", "ERC20: approve to the zero address")
	ErrMintToZero               = reverts.New(reverts.Invariant, "MintToZero", "ERC20: mint to the zero address")
)

var (
	// ABI of the erc20 program.
	ABI = abi.MustNew(gen.MustABI("compiled/ERC20.abi"))

	evTransfer, _             = ABI.EventByName("Transfer")
	evApproval, _             = ABI.EventByName("Approval")
	evOwnershipTransferred, _ = ABI.EventByName("OwnershipTransferred")
)

// ERC20 is the ledger of a deployed stake token.
type ERC20 struct {
	ctx xenv.Context

	*ownable.Ownable
	metadata    *solidity.Mapping[solidity.RawKey, string]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[joker.Address, *big.Int]
	allowances  *solidity.Mapping[solidity.RawKey, *big.Int]
}

func New(addr joker.Address, st *state.State, ctx xenv.Context) *ERC20 {
	sctx := solidity.NewContext(addr, st)
	return &ERC20{
		ctx:         ctx,
		Ownable:     ownable.New(sctx, ctx, evOwnershipTransferred),
		metadata:    solidity.NewMapping[solidity.RawKey, string](sctx, solidity.Slot("metadata")),
		totalSupply: solidity.NewUint256(sctx, solidity.Slot("totalSupply")),
		balances:    solidity.NewMapping[joker.Address, *big.Int](sctx, solidity.Slot("balances")),
		allowances:  solidity.NewMapping[solidity.RawKey, *big.Int](sctx, solidity.Slot("allowances")),
	}
}

// Initialize names the token, makes the caller its owner and mints supply to holder.
func (e *ERC20) Initialize(name, symbol string, supply *big.Int, holder joker.Address) error {
	if err := e.metadata.Set(solidity.RawKey("name"), name); err != nil {
		return err
	}
	if err := e.metadata.Set(solidity.RawKey("symbol"), symbol); err != nil {
		return err
	}
	e.Ownable.Init(e.ctx.Caller())
	if supply.Sign() == 0 {
		return nil
	}
	return e.mint(holder, supply)
}

func (e *ERC20) Name() (string, error) {
	return e.metadata.Get(solidity.RawKey("name"))
}

func (e *ERC20) Symbol() (string, error) {
	return e.metadata.Get(solidity.RawKey("symbol"))
}

func (e *ERC20) TotalSupply() (*big.Int, error) {
	return e.totalSupply.Get()
}

func (e *ERC20) BalanceOf(account joker.Address) (*big.Int, error) {
	return e.balances.Get(account)
}

func (e *ERC20) Allowance(owner, spender joker.Address) (*big.Int, error) {
	return e.allowances.Get(solidity.Keys(owner, spender))
}

func (e *ERC20) Transfer(recipient joker.Address, amount *big.Int) error {
	return e.transfer(e.ctx.Caller(), recipient, amount)
}

func (e *ERC20) TransferFrom(sender, recipient joker.Address, amount *big.Int) error {
	allowance, err := e.Allowance(sender, e.ctx.Caller())
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ErrTransferExceedsAllowance
	}
	if err := e.transfer(sender, recipient, amount); err != nil {
		return err
	}
	return e.approve(sender, e.ctx.Caller(), allowance.Sub(allowance, amount))
}

func (e *ERC20) Approve(spender joker.Address, amount *big.Int) error {
	return e.approve(e.ctx.Caller(), spender, amount)
}

// Mint is owner only.
func (e *ERC20) Mint(to joker.Address, amount *big.Int) error {
	if err := e.OnlyOwner(); err != nil {
		return err
	}
	return e.mint(to, amount)
}

func (e *ERC20) mint(to joker.Address, amount *big.Int) error {
	if to.IsZero() {
		return ErrMintToZero
	}
	if err := e.totalSupply.Add(amount); err != nil {
		return err
	}
	bal, err := e.balances.Get(to)
	if err != nil {
		return err
	}
	if err := e.balances.Set(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	e.ctx.Log(evTransfer, []joker.Bytes32{xenv.Topic(joker.Address{}), xenv.Topic(to)}, amount)
	return nil
}

func (e *ERC20) transfer(sender, recipient joker.Address, amount *big.Int) error {
	if recipient.IsZero() {
		return ErrTransferToZero
	}
	fromBal, err := e.balances.Get(sender)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrTransferExceedsBalance
	}
	if err := e.balances.Set(sender, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := e.balances.Get(recipient)
	if err != nil {
		return err
	}
	if err := e.balances.Set(recipient, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	e.ctx.Log(evTransfer, []joker.Bytes32{xenv.Topic(sender), xenv.Topic(recipient)}, amount)
	return nil
}

func (e *ERC20) approve(owner, spender joker.Address, amount *big.Int) error {
	if spender.IsZero() {
		return ErrApproveToZero
	}
	if err := e.allowances.Set(solidity.Keys(owner, spender), amount); err != nil {
		return err
	}
	e.ctx.Log(evApproval, []joker.Bytes32{xenv.Topic(owner), xenv.Topic(spender)}, amount)
	return nil
}
