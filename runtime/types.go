// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

// Head is the latest sealed block.
type Head struct {
	Number uint32
	Time   uint64
}

// Receipt is the outcome of a top-level call.
type Receipt struct {
	BlockNumber uint32
	BlockTime   uint64
	Caller      joker.Address
	To          joker.Address
	// Deployed is the new program address of a deployment.
	Deployed *joker.Address
	Output   []byte
	Reverted bool
	Reason   string
	Logs     []*xenv.Log
	// Err is the error that reverted the call, matched with errors.Is against revert sentinels.
	Err error
}

// Block is a sealed block with the receipts it includes.
type Block struct {
	Number   uint32
	Time     uint64
	Receipts []*Receipt
}
