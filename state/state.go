// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/kv"
	"github.com/jokerswap/joker/stackedmap"
)

const (
	balancePrefix byte = 'b'
	codePrefix    byte = 'c'
	storagePrefix byte = 's'
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type stateKey struct {
	prefix byte
	addr   joker.Address
	key    joker.Bytes32
}

func (k stateKey) encode() []byte {
	b := make([]byte, 0, 1+20+32)
	b = append(b, k.prefix)
	b = append(b, k.addr[:]...)
	if k.prefix == storagePrefix {
		b = append(b, k.key[:]...)
	}
	return b
}

// State manages the world state.
type State struct {
	db    kv.Getter
	cache *Cache
	sm    *stackedmap.StackedMap[stateKey, []byte]
}

// New create state object over the given store.
// The cache is optional.
func New(db kv.Getter, cache *Cache) *State {
	s := &State{db: db, cache: cache}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.load)
}

// load implements stackedmap.MapGetter.
func (s *State) load(key stateKey) ([]byte, bool, error) {
	enc := key.encode()
	if v, ok := s.cache.get(enc); ok {
		return v, true, nil
	}
	v, err := s.db.Get(enc)
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, err
		}
		v = nil
	}
	s.cache.set(enc, v)
	return v, true, nil
}

func (s *State) get(key stateKey) ([]byte, error) {
	v, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// GetBalance returns the native balance for the given address.
func (s *State) GetBalance(addr joker.Address) (*big.Int, error) {
	v, err := s.get(stateKey{prefix: balancePrefix, addr: addr})
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(v), nil
}

// SetBalance set the native balance for the given address.
func (s *State) SetBalance(addr joker.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{errors.New("negative balance")}
	}
	s.sm.Put(stateKey{prefix: balancePrefix, addr: addr}, balance.Bytes())
	return nil
}

// GetCode returns the program name bound to the given address.
func (s *State) GetCode(addr joker.Address) ([]byte, error) {
	return s.get(stateKey{prefix: codePrefix, addr: addr})
}

// SetCode binds program code to the given address.
func (s *State) SetCode(addr joker.Address, code []byte) {
	s.sm.Put(stateKey{prefix: codePrefix, addr: addr}, bytes.Clone(code))
}

// Exists returns whether the address holds code or a balance.
func (s *State) Exists(addr joker.Address) (bool, error) {
	code, err := s.GetCode(addr)
	if err != nil {
		return false, err
	}
	if len(code) > 0 {
		return true, nil
	}
	bal, err := s.GetBalance(addr)
	if err != nil {
		return false, err
	}
	return bal.Sign() > 0, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr joker.Address, key joker.Bytes32) (joker.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return joker.Bytes32{}, err
	}
	if len(raw) == 0 {
		return joker.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return joker.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return joker.Blake2b(raw), nil
	}
	return joker.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr joker.Address, key, value joker.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr joker.Address, key joker.Bytes32) (rlp.RawValue, error) {
	return s.get(stateKey{storagePrefix, addr, key})
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr joker.Address, key joker.Bytes32, raw rlp.RawValue) {
	s.sm.Put(stateKey{storagePrefix, addr, key}, bytes.Clone(raw))
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr joker.Address, key joker.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr joker.Address, key joker.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Dirty returns whether there are uncommitted changes.
func (s *State) Dirty() bool {
	dirty := false
	s.sm.Journal(func(stateKey, []byte) bool {
		dirty = true
		return false
	})
	return dirty
}

// Commit writes all journaled changes into the given batch, then
// writes the batch and resets the journal.
// It returns the number of distinct keys committed.
func (s *State) Commit(batch kv.Batch) (int, error) {
	changes := make(map[stateKey][]byte)
	order := make([]stateKey, 0)
	s.sm.Journal(func(k stateKey, v []byte) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})

	for _, k := range order {
		enc := k.encode()
		v := changes[k]
		var err error
		if len(v) == 0 {
			err = batch.Delete(enc)
		} else {
			err = batch.Put(enc, v)
		}
		if err != nil {
			return 0, &Error{errors.Wrap(err, "commit")}
		}
	}
	if err := batch.Write(); err != nil {
		return 0, &Error{errors.Wrap(err, "commit")}
	}
	for _, k := range order {
		s.cache.set(k.encode(), changes[k])
	}
	metricCommittedKeys().Add(int64(len(order)))
	s.reset()
	return len(order), nil
}
