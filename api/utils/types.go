// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/runtime"
	"github.com/jokerswap/joker/xenv"
)

// Log for json marshal.
type Log struct {
	Address joker.Address   `json:"address"`
	Topics  []joker.Bytes32 `json:"topics"`
	Data    hexutil.Bytes   `json:"data"`
}

// LogMeta locates a log in the chain.
type LogMeta struct {
	BlockNumber uint32 `json:"blockNumber"`
	BlockTime   uint64 `json:"blockTime"`
	TxIndex     int    `json:"txIndex"`
	LogIndex    int    `json:"logIndex"`
}

// Receipt for json marshal.
type Receipt struct {
	BlockNumber uint32         `json:"blockNumber"`
	BlockTime   uint64         `json:"blockTime"`
	Caller      joker.Address  `json:"caller"`
	To          joker.Address  `json:"to"`
	Deployed    *joker.Address `json:"deployed,omitempty"`
	Output      hexutil.Bytes  `json:"output"`
	Reverted    bool           `json:"reverted"`
	Reason      string         `json:"reason,omitempty"`
	Logs        []*Log         `json:"logs"`
}

// Block for json marshal.
type Block struct {
	Number uint32 `json:"number"`
	Time   uint64 `json:"time"`
	TxSize int    `json:"txSize"`
}

func ConvertLog(l *xenv.Log) *Log {
	return &Log{
		Address: l.Address,
		Topics:  append([]joker.Bytes32{}, l.Topics...),
		Data:    l.Data,
	}
}

func ConvertReceipt(r *runtime.Receipt) *Receipt {
	logs := make([]*Log, 0, len(r.Logs))
	for _, l := range r.Logs {
		logs = append(logs, ConvertLog(l))
	}
	return &Receipt{
		BlockNumber: r.BlockNumber,
		BlockTime:   r.BlockTime,
		Caller:      r.Caller,
		To:          r.To,
		Deployed:    r.Deployed,
		Output:      r.Output,
		Reverted:    r.Reverted,
		Reason:      r.Reason,
		Logs:        logs,
	}
}

func ConvertBlock(b *runtime.Block) *Block {
	return &Block{
		Number: b.Number,
		Time:   b.Time,
		TxSize: len(b.Receipts),
	}
}
