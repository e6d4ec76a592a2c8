// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/url"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/runtime"
	"github.com/jokerswap/joker/xenv"
)

// BlockMessage is pushed for every sealed block.
type BlockMessage struct {
	Number   uint32           `json:"number"`
	Time     uint64           `json:"time"`
	Receipts []*utils.Receipt `json:"receipts"`
}

func convertBlock(b *runtime.Block) *BlockMessage {
	receipts := make([]*utils.Receipt, 0, len(b.Receipts))
	for _, r := range b.Receipts {
		receipts = append(receipts, utils.ConvertReceipt(r))
	}
	return &BlockMessage{
		Number:   b.Number,
		Time:     b.Time,
		Receipts: receipts,
	}
}

// EventMessage is pushed for every log matching the filter of a subscription.
type EventMessage struct {
	Address joker.Address   `json:"address"`
	Topics  []joker.Bytes32 `json:"topics"`
	Data    hexutil.Bytes   `json:"data"`
	Meta    utils.LogMeta   `json:"meta"`
}

// EventFilter selects logs by emitter and positional topics.
// A nil topic matches anything.
type EventFilter struct {
	Address *joker.Address
	Topics  [5]*joker.Bytes32
}

func (f *EventFilter) Match(l *xenv.Log) bool {
	if f.Address != nil && *f.Address != l.Address {
		return false
	}
	for i, t := range f.Topics {
		if t == nil {
			continue
		}
		if i >= len(l.Topics) || l.Topics[i] != *t {
			return false
		}
	}
	return true
}

// parseEventFilter reads addr and t0..t4 from the query.
func parseEventFilter(query url.Values) (*EventFilter, error) {
	f := &EventFilter{}
	if s := query.Get("addr"); s != "" {
		addr, err := joker.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "addr")
		}
		f.Address = addr
	}
	for i := range f.Topics {
		name := "t" + string(rune('0'+i))
		s := query.Get(name)
		if s == "" {
			continue
		}
		topic, err := joker.ParseBytes32(s)
		if err != nil {
			return nil, errors.WithMessage(err, name)
		}
		f.Topics[i] = &topic
	}
	return f, nil
}

func filterEvents(b *runtime.Block, f *EventFilter) []*EventMessage {
	var msgs []*EventMessage
	for txIndex, r := range b.Receipts {
		if r.Reverted {
			continue
		}
		for logIndex, l := range r.Logs {
			if !f.Match(l) {
				continue
			}
			msgs = append(msgs, &EventMessage{
				Address: l.Address,
				Topics:  append([]joker.Bytes32{}, l.Topics...),
				Data:    l.Data,
				Meta: utils.LogMeta{
					BlockNumber: b.Number,
					BlockTime:   b.Time,
					TxIndex:     txIndex,
					LogIndex:    logIndex,
				},
			})
		}
	}
	return msgs
}
