// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lord

import "github.com/jokerswap/joker/builtin/reverts"

// The messages below are prefixed with the failing operation, e.g. "deposit: caller must be _user".
var (
	ErrNoLender            = reverts.New(reverts.State, "NoLenderConfigured", "no lender")
	ErrCallerNotUser       = reverts.New(reverts.Authorization, "CallerNotUser", "caller must be _user")
	ErrCallerNotLender     = reverts.New(reverts.Authorization, "CallerNotLender", "caller must be lender")
	ErrPoolIsLendGated     = reverts.New(reverts.State, "PoolIsLendGated", "can not be lendPool")
	ErrPoolNotLendGated    = reverts.New(reverts.State, "PoolNotLendGated", "must be lendPool")
	ErrInsufficientDeposit = reverts.New(reverts.Invariant, "InsufficientDeposit", "not good")
	ErrLendToZero          = reverts.New(reverts.Invariant, "LendToZero", "can not lend to 0")
	ErrNoVaults            = reverts.New(reverts.State, "NoVaultsConfigured", "no vaults")
	ErrCallerNotVaults     = reverts.New(reverts.Authorization, "CallerNotVaults", "caller must be vaults")
	ErrNotRoleHolder       = reverts.New(reverts.Authorization, "NotRoleHolder", "wut?")
	ErrNoMigrator          = reverts.New(reverts.State, "NoMigratorConfigured", "no migrator")
	ErrMigrationMismatch   = reverts.New(reverts.Invariant, "MigrationMismatch", "bad")
	ErrInvalidPid          = reverts.New(reverts.Invariant, "InvalidPid", "invalid pid")
)
