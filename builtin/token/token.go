// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the reward token: a capped ERC20 whose balances
// carry delegated, block-checkpointed voting weight.
package token

import (
	"math/big"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/gen"
	"github.com/jokerswap/joker/builtin/ownable"
	"github.com/jokerswap/joker/builtin/solidity"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/state"
	"github.com/jokerswap/joker/xenv"
)

var (
	logger = log.WithContext("pkg", "token")

	// ABI of the token program.
	ABI = abi.MustNew(gen.MustABI("compiled/Token.abi"))

	evTransfer             = mustEvent("Transfer")
	evApproval             = mustEvent("Approval")
	evOwnershipTransferred = mustEvent("OwnershipTransferred")
	evDelegateChanged      = mustEvent("DelegateChanged")
	evDelegateVotesChanged = mustEvent("DelegateVotesChanged")

	// DelegationTypeHash is the EIP-712 type hash of a signed delegation.
	DelegationTypeHash = joker.Keccak256([]byte("Delegation(address delegatee,uint256 nonce,uint256 expiry)"))
)

func mustEvent(name string) *abi.Event {
	ev, ok := ABI.EventByName(name)
	if !ok {
		panic("token: missing event " + name)
	}
	return ev
}

// Token is the ledger of a deployed token program.
type Token struct {
	addr joker.Address
	ctx  xenv.Context

	*ownable.Ownable
	totalSupply *solidity.Uint256
	cap         *solidity.Uint256
	balances    *solidity.Mapping[joker.Address, *big.Int]
	allowances  *solidity.Mapping[solidity.RawKey, *big.Int]
	nonces      *solidity.Mapping[joker.Address, *big.Int]
	*votes
}

// New binds the token deployed at addr. ctx may be nil when only views are used.
func New(addr joker.Address, st *state.State, ctx xenv.Context) *Token {
	sctx := solidity.NewContext(addr, st)
	return &Token{
		addr:        addr,
		ctx:         ctx,
		Ownable:     ownable.New(sctx, ctx, evOwnershipTransferred),
		totalSupply: solidity.NewUint256(sctx, solidity.Slot("totalSupply")),
		cap:         solidity.NewUint256(sctx, solidity.Slot("cap")),
		balances:    solidity.NewMapping[joker.Address, *big.Int](sctx, solidity.Slot("balances")),
		allowances:  solidity.NewMapping[solidity.RawKey, *big.Int](sctx, solidity.Slot("allowances")),
		nonces:      solidity.NewMapping[joker.Address, *big.Int](sctx, solidity.Slot("nonces")),
		votes:       newVotes(sctx),
	}
}

// Initialize sets the cap and makes the caller the owner.
func (t *Token) Initialize(limit *big.Int) {
	t.cap.Set(limit)
	t.Ownable.Init(t.ctx.Caller())
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) Cap() (*big.Int, error) {
	return t.cap.Get()
}

func (t *Token) BalanceOf(account joker.Address) (*big.Int, error) {
	return t.balances.Get(account)
}

func (t *Token) Allowance(owner, spender joker.Address) (*big.Int, error) {
	return t.allowances.Get(solidity.Keys(owner, spender))
}

// Nonces returns the next delegateBySig nonce of account.
func (t *Token) Nonces(account joker.Address) (*big.Int, error) {
	return t.nonces.Get(account)
}

// DomainSeparator returns the EIP-712 domain of the token on chainID.
func (t *Token) DomainSeparator(chainID uint64) joker.Bytes32 {
	return joker.DomainSeparator(joker.TokenName, chainID, t.addr)
}

func (t *Token) Transfer(recipient joker.Address, amount *big.Int) error {
	return t.transfer(t.ctx.Caller(), recipient, amount)
}

// TransferFrom moves amount from sender to recipient, spending the caller's allowance.
func (t *Token) TransferFrom(sender, recipient joker.Address, amount *big.Int) error {
	if err := t.transfer(sender, recipient, amount); err != nil {
		return err
	}
	allowance, err := t.Allowance(sender, t.ctx.Caller())
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ErrTransferExceedsAllowance
	}
	return t.approve(sender, t.ctx.Caller(), allowance.Sub(allowance, amount))
}

// Approve sets the allowance of spender. Changing a non-zero allowance to
// another non-zero value is refused.
func (t *Token) Approve(spender joker.Address, amount *big.Int) error {
	current, err := t.Allowance(t.ctx.Caller(), spender)
	if err != nil {
		return err
	}
	if amount.Sign() != 0 && current.Sign() != 0 {
		return ErrApproveNonZero
	}
	return t.approve(t.ctx.Caller(), spender, amount)
}

func (t *Token) IncreaseAllowance(spender joker.Address, added *big.Int) error {
	current, err := t.Allowance(t.ctx.Caller(), spender)
	if err != nil {
		return err
	}
	return t.approve(t.ctx.Caller(), spender, current.Add(current, added))
}

func (t *Token) DecreaseAllowance(spender joker.Address, subtracted *big.Int) error {
	current, err := t.Allowance(t.ctx.Caller(), spender)
	if err != nil {
		return err
	}
	if current.Cmp(subtracted) < 0 {
		return ErrAllowanceBelowZero
	}
	return t.approve(t.ctx.Caller(), spender, current.Sub(current, subtracted))
}

// Mint creates amount tokens for to. Owner only, bounded by the cap.
func (t *Token) Mint(to joker.Address, amount *big.Int) error {
	if err := t.OnlyOwner(); err != nil {
		return err
	}
	if to.IsZero() {
		return ErrMintToZero
	}
	supply, err := t.totalSupply.Get()
	if err != nil {
		return err
	}
	limit, err := t.cap.Get()
	if err != nil {
		return err
	}
	supply.Add(supply, amount)
	if supply.Cmp(limit) > 0 {
		return ErrCapExceeded
	}
	t.totalSupply.Set(supply)

	bal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	t.ctx.Log(evTransfer, []joker.Bytes32{xenv.Topic(joker.Address{}), xenv.Topic(to)}, amount)

	dst, err := t.delegates.Get(to)
	if err != nil {
		return err
	}
	logger.Debug("minted", "to", to, "amount", amount, "supply", supply)
	return t.moveDelegates(joker.Address{}, dst, amount)
}

// Delegate moves the caller's voting weight to delegatee.
func (t *Token) Delegate(delegatee joker.Address) error {
	return t.delegate(t.ctx.Caller(), delegatee)
}

// DelegateBySig delegates on behalf of the signer of an EIP-712 Delegation struct.
func (t *Token) DelegateBySig(delegatee joker.Address, nonce, expiry *big.Int, v uint8, r, s joker.Bytes32) error {
	structHash := joker.Keccak256(
		DelegationTypeHash[:],
		joker.Word(delegatee[:]),
		joker.Word(nonce.Bytes()),
		joker.Word(expiry.Bytes()),
	)
	digest := joker.TypedDataHash(t.DomainSeparator(t.ctx.BlockContext().ChainID), structHash)
	signatory, err := joker.RecoverTypedSigner(digest, v, r, s)
	if err != nil || signatory.IsZero() {
		return ErrInvalidSignature
	}

	current, err := t.nonces.Get(signatory)
	if err != nil {
		return err
	}
	if nonce.Cmp(current) != 0 {
		return ErrInvalidNonce
	}
	if err := t.nonces.Set(signatory, current.Add(current, big.NewInt(1))); err != nil {
		return err
	}
	if new(big.Int).SetUint64(t.ctx.BlockContext().Time).Cmp(expiry) > 0 {
		return ErrSignatureExpired
	}
	return t.delegate(signatory, delegatee)
}

func (t *Token) transfer(sender, recipient joker.Address, amount *big.Int) error {
	if sender.IsZero() {
		return ErrTransferFromZero
	}
	if recipient.IsZero() {
		return ErrTransferToZero
	}
	fromBal, err := t.balances.Get(sender)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrTransferExceedsBalance
	}
	if err := t.balances.Set(sender, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.balances.Get(recipient)
	if err != nil {
		return err
	}
	if err := t.balances.Set(recipient, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	t.ctx.Log(evTransfer, []joker.Bytes32{xenv.Topic(sender), xenv.Topic(recipient)}, amount)

	src, err := t.delegates.Get(sender)
	if err != nil {
		return err
	}
	dst, err := t.delegates.Get(recipient)
	if err != nil {
		return err
	}
	return t.moveDelegates(src, dst, amount)
}

func (t *Token) approve(owner, spender joker.Address, amount *big.Int) error {
	if spender.IsZero() {
		return ErrApproveToZero
	}
	if err := t.allowances.Set(solidity.Keys(owner, spender), amount); err != nil {
		return err
	}
	t.ctx.Log(evApproval, []joker.Bytes32{xenv.Topic(owner), xenv.Topic(spender)}, amount)
	return nil
}

func (t *Token) delegate(delegator, delegatee joker.Address) error {
	current, err := t.delegates.Get(delegator)
	if err != nil {
		return err
	}
	if current == delegatee {
		return ErrDelegateUnchanged
	}
	balance, err := t.balances.Get(delegator)
	if err != nil {
		return err
	}
	if err := t.delegates.Set(delegator, delegatee); err != nil {
		return err
	}
	t.ctx.Log(evDelegateChanged, []joker.Bytes32{xenv.Topic(delegator), xenv.Topic(current), xenv.Topic(delegatee)})
	return t.moveDelegates(current, delegatee, balance)
}

func (t *Token) moveDelegates(src, dst joker.Address, amount *big.Int) error {
	if src == dst || amount.Sign() <= 0 {
		return nil
	}
	block := t.ctx.BlockContext().Number
	if !src.IsZero() {
		old, err := t.GetCurrentVotes(src)
		if err != nil {
			return err
		}
		if old.Cmp(amount) < 0 {
			return ErrVotesUnderflow
		}
		updated := new(big.Int).Sub(old, amount)
		if err := t.writeCheckpoint(src, block, updated); err != nil {
			return err
		}
		t.ctx.Log(evDelegateVotesChanged, []joker.Bytes32{xenv.Topic(src)}, old, updated)
	}
	if !dst.IsZero() {
		old, err := t.GetCurrentVotes(dst)
		if err != nil {
			return err
		}
		updated := new(big.Int).Add(old, amount)
		if err := t.writeCheckpoint(dst, block, updated); err != nil {
			return err
		}
		t.ctx.Log(evDelegateVotesChanged, []joker.Bytes32{xenv.Topic(dst)}, old, updated)
	}
	return nil
}
