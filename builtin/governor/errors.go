// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governor

import "github.com/jokerswap/joker/builtin/reverts"

var (
	ErrBelowThreshold    = reverts.New(reverts.Authorization, "BelowThreshold", "proposer votes below proposal threshold")
	ErrArityMismatch     = reverts.New(reverts.Invariant, "EmptyOrMismatchedActions", "proposal function information arity mismatch")
	ErrNoActions         = reverts.New(reverts.Invariant, "EmptyOrMismatchedActions", "must provide actions")
	ErrTooManyActions    = reverts.New(reverts.Invariant, "EmptyOrMismatchedActions", "too many actions")
	ErrActiveProposal    = reverts.New(reverts.State, "ProposerHasActiveProposal", "one live proposal per proposer, found an already active proposal")
	ErrPendingProposal   = reverts.New(reverts.State, "ProposerHasActiveProposal", "one live proposal per proposer, found an already pending proposal")
	ErrInvalidProposalID = reverts.New(reverts.State, "InvalidProposalId", "invalid proposal id")
	ErrNotSucceeded      = reverts.New(reverts.State, "NotSucceeded", "proposal can only be queued if it is succeeded")
	ErrDuplicateAction   = reverts.New(reverts.State, "DuplicateAction", "proposal action already queued at eta")
	ErrNotQueued         = reverts.New(reverts.State, "AlreadyExecuted", "proposal can only be executed if it is queued")
	ErrCancelExecuted    = reverts.New(reverts.State, "AlreadyExecuted", "cannot cancel executed proposal")
	ErrAboveThreshold    = reverts.New(reverts.Authorization, "AboveThreshold", "proposer above threshold")
	ErrVotingClosed      = reverts.New(reverts.Timing, "VotingClosed", "voting is closed")
	ErrAlreadyVoted      = reverts.New(reverts.State, "AlreadyVoted", "voter already voted")
	ErrInvalidSignature  = reverts.New(reverts.Authorization, "InvalidSignature", "invalid signature")
	ErrNotGuardian       = reverts.New(reverts.Authorization, "NotGuardian", "sender must be gov guardian")
)

func op(name string) string {
	return "GovernorAlpha::" + name
}
