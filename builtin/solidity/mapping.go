// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/jokerswap/joker/joker"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key keys a mapping by number, e.g. a pool id.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// RawKey is a key made of concatenated parts.
type RawKey []byte

func (k RawKey) Bytes() []byte {
	return k
}

// Keys concatenates keys into one, e.g. for mapping(uint => mapping(address => ...)).
func Keys(parts ...Key) RawKey {
	var k RawKey
	for _, p := range parts {
		k = append(k, p.Bytes()...)
	}
	return k
}

type Mapping[K Key, V any] struct {
	context *Context
	basePos joker.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos joker.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) joker.Bytes32 {
	return joker.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value for key, the zero value (or a new object for pointer types) if absent.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the value for key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
