// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timelock

import "github.com/jokerswap/joker/builtin/reverts"

// Reasons are prefixed with the failing operation, e.g. "Timelock::setDelay: Call must come from Timelock.".
var (
	ErrDelayTooShort     = reverts.New(reverts.Invariant, "DelayTooShort", "Delay must exceed minimum delay.")
	ErrDelayTooLong      = reverts.New(reverts.Invariant, "DelayTooLong", "Delay must not exceed maximum delay.")
	ErrNotSelf           = reverts.New(reverts.Authorization, "NotTimelock", "Call must come from Timelock.")
	ErrNotAdmin          = reverts.New(reverts.Authorization, "NotAdmin", "Call must come from admin.")
	ErrNotPendingAdmin   = reverts.New(reverts.Authorization, "NotPendingAdmin", "Call must come from pendingAdmin.")
	ErrFirstCallNotAdmin = reverts.New(reverts.Authorization, "NotAdmin", "First call must come from admin.")
	ErrEtaTooSoon        = reverts.New(reverts.Timing, "EtaTooSoon", "Estimated execution block must satisfy delay.")
	ErrNotQueued         = reverts.New(reverts.State, "TransactionNotQueued", "Transaction hasn't been queued.")
	ErrNotSurpassedDelay = reverts.New(reverts.Timing, "NotSurpassedDelay", "Transaction hasn't surpassed time lock.")
	ErrStaleTransaction  = reverts.New(reverts.Timing, "StaleTransaction", "Transaction is stale.")
	ErrExecutionReverted = reverts.New(reverts.State, "ExecutionReverted", "Transaction execution reverted.")
)

func op(name string) string {
	return "Timelock::" + name
}
