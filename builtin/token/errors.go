// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/jokerswap/joker/builtin/reverts"

var (
	ErrTransferFromZero         = reverts.New(reverts.Invariant, "TransferFromZero", "ERC20: transfer from the zero address")
	ErrTransferToZero           = reverts.New(reverts.Invariant, "TransferToZero", "ERC20: transfer to the zero address")
	ErrTransferExceedsBalance   = reverts.New(reverts.Invariant, "InsufficientBalance", "ERC20: transfer amount exceeds balance")
	ErrTransferExceedsAllowance = reverts.New(reverts.Invariant, "InsufficientAllowance", "ERC20: transfer amount exceeds allowance")
	ErrApproveToZero            = reverts.New(reverts.Invariant, "ApproveToZero", "ERC20: approve to the zero address")
	ErrAllowanceBelowZero       = reverts.New(reverts.Invariant, "AllowanceBelowZero", "ERC20: decreased allowance below zero")
	ErrMintToZero               = reverts.New(reverts.Invariant, "MintToZero", "ERC20: mint to the zero address")
	ErrCapExceeded              = reverts.New(reverts.Invariant, "CapExceeded", "JOKER: cap exceeded")
	ErrApproveNonZero           = reverts.New(reverts.State, "ApproveNonZero", "JOKER: use increaseAllowance or decreaseAllowance instead")

	ErrDelegateUnchanged = reverts.New(reverts.State, "DelegateUnchanged", "JOKER::delegate: delegatee not change")
	ErrNotYetDetermined  = reverts.New(reverts.Timing, "NotYetDetermined", "JOKER::getPriorVotes: not yet determined")
	ErrVotesUnderflow    = reverts.New(reverts.Invariant, "VotesUnderflow", "JOKER::_moveVotes: vote amount underflows")
	ErrInvalidSignature  = reverts.New(reverts.Authorization, "InvalidSignature", "JOKER::delegateBySig: invalid signature")
	ErrInvalidNonce      = reverts.New(reverts.State, "InvalidNonce", "JOKER::delegateBySig: invalid nonce")
	ErrSignatureExpired  = reverts.New(reverts.Timing, "SignatureExpired", "JOKER::delegateBySig: signature expired")
)
