// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"errors"
	"sort"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/jokerswap/joker/joker"
)

// ABI holds information about methods and events of contract.
type ABI struct {
	constructor  *Method
	nameToMethod map[string]*Method
	nameToEvent  map[string]*Event
	methods      map[MethodID]*Method
	events       map[joker.Bytes32]*Event
}

// New create an ABI instance.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	abi := &ABI{
		constructor:  &Method{EmptyMethodID, &parsed.Constructor},
		nameToMethod: make(map[string]*Method),
		nameToEvent:  make(map[string]*Event),
		methods:      make(map[MethodID]*Method),
		events:       make(map[joker.Bytes32]*Event),
	}

	for name, m := range parsed.Methods {
		var id MethodID
		copy(id[:], m.ID)
		method := &Method{id, &m}
		abi.methods[id] = method
		abi.nameToMethod[name] = method
	}
	for name, e := range parsed.Events {
		event := newEvent(&e)
		abi.events[event.ID()] = event
		abi.nameToEvent[name] = event
	}
	return abi, nil
}

// MustNew is like New but panics on error.
func MustNew(data []byte) *ABI {
	abi, err := New(data)
	if err != nil {
		panic(err)
	}
	return abi
}

// Constructor returns the constructor method.
func (a *ABI) Constructor() *Method {
	return a.constructor
}

// MethodByInput find the method for given input.
// If the input shorter than MethodID, or method not found, an error returned.
func (a *ABI) MethodByInput(input []byte) (*Method, error) {
	id, err := ExtractMethodID(input)
	if err != nil {
		return nil, err
	}
	m, found := a.methods[id]
	if !found {
		return nil, errors.New("method not found")
	}
	return m, nil
}

// MethodByName find method for the given method name.
func (a *ABI) MethodByName(name string) (*Method, bool) {
	m, found := a.nameToMethod[name]
	return m, found
}

// MethodByID returns method for given method id.
func (a *ABI) MethodByID(id MethodID) (*Method, bool) {
	m, found := a.methods[id]
	return m, found
}

// Methods returns all methods sorted by name.
func (a *ABI) Methods() []*Method {
	methods := make([]*Method, 0, len(a.methods))
	for _, m := range a.methods {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].Name() < methods[j].Name()
	})
	return methods
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// EventByID returns the event for the given event id.
func (a *ABI) EventByID(id joker.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}

// UnpackRevert resolves the abi-encoded revert reason.
func UnpackRevert(data []byte) (string, error) {
	return ethabi.UnpackRevert(data)
}

// unpack decodes data into v, a pointer to a struct for tuples or to a
// single value otherwise.
func unpack(args ethabi.Arguments, v any, data []byte) error {
	if len(args.NonIndexed()) == 0 {
		return nil
	}
	vals, err := args.Unpack(data)
	if err != nil {
		return err
	}
	return args.Copy(v, vals)
}
