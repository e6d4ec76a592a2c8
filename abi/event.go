// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/jokerswap/joker/joker"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id                 joker.Bytes32
	event              *ethabi.Event
	argsWithoutIndexed ethabi.Arguments
}

func newEvent(event *ethabi.Event) *Event {
	return &Event{
		joker.Bytes32(event.ID),
		event,
		event.Inputs.NonIndexed(),
	}
}

// ID returns event id.
func (e *Event) ID() joker.Bytes32 {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// IndexedCount returns number of indexed inputs.
func (e *Event) IndexedCount() int {
	return len(e.event.Inputs) - len(e.argsWithoutIndexed)
}

// Encode encodes args to data.
func (e *Event) Encode(args ...any) ([]byte, error) {
	return e.argsWithoutIndexed.Pack(args...)
}

// Decode decodes event data.
func (e *Event) Decode(data []byte, v any) error {
	return unpack(e.argsWithoutIndexed, v, data)
}

// DecodeValues decodes event data into a name → value map.
func (e *Event) DecodeValues(data []byte) (map[string]any, error) {
	m := make(map[string]any)
	if err := e.argsWithoutIndexed.UnpackIntoMap(m, data); err != nil {
		return nil, err
	}
	return m, nil
}
