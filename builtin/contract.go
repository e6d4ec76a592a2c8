// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/jokerswap/joker/abi"
	"github.com/jokerswap/joker/builtin/gen"
	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/xenv"
)

// ErrMethodNotFound is returned when input matches no method of a program.
var ErrMethodNotFound = reverts.New(reverts.Invariant, "MethodNotFound", "method not found")

// NativeFunc implements a method of a builtin program.
type NativeFunc func(env *xenv.Environment) []any

// Program is a deployable builtin program.
type Program interface {
	Name() string
	// Code is what the state stores at the address of a deployed program.
	Code() []byte
	ABI() *abi.ABI
	// Method resolves input to a method and its implementation.
	Method(input []byte) (*abi.Method, NativeFunc, error)
	Constructor() (*abi.Method, NativeFunc)
	// Receivable tells whether the program accepts calls with empty input.
	Receivable() bool
}

type contract struct {
	name        string
	abi         *abi.ABI
	natives     map[abi.MethodID]NativeFunc
	constructor NativeFunc
	receivable  bool
}

var registry = make(map[string]*contract)

func mustLoadContract(name string) *contract {
	asset := "compiled/" + name + ".abi"
	parsed, err := abi.New(gen.MustABI(asset))
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}

	c := &contract{
		name:    name,
		abi:     parsed,
		natives: make(map[abi.MethodID]NativeFunc),
	}
	registry[name] = c
	return c
}

func (c *contract) Name() string     { return c.name }
func (c *contract) Code() []byte     { return []byte(c.name) }
func (c *contract) ABI() *abi.ABI    { return c.abi }
func (c *contract) Receivable() bool { return c.receivable }

func (c *contract) Method(input []byte) (*abi.Method, NativeFunc, error) {
	method, err := c.abi.MethodByInput(input)
	if err != nil {
		return nil, nil, ErrMethodNotFound
	}
	run, ok := c.natives[method.ID()]
	if !ok {
		return nil, nil, ErrMethodNotFound
	}
	return method, run, nil
}

func (c *contract) Constructor() (*abi.Method, NativeFunc) {
	return c.abi.Constructor(), c.constructor
}

// MethodByName returns the ABI method with the given name, panics if absent.
func (c *contract) MethodByName(name string) *abi.Method {
	m, ok := c.abi.MethodByName(name)
	if !ok {
		panic(fmt.Errorf("method '%s' not found in %s", name, c.name))
	}
	return m
}

// EventByName returns the ABI event with the given name, panics if absent.
func (c *contract) EventByName(name string) *abi.Event {
	e, ok := c.abi.EventByName(name)
	if !ok {
		panic(fmt.Errorf("event '%s' not found in %s", name, c.name))
	}
	return e
}

type define struct {
	name string
	run  NativeFunc
}

// register binds native implementations to the methods of c.
func (c *contract) register(defines []define) {
	for _, def := range defines {
		method := c.MethodByName(def.name)
		if _, dup := c.natives[method.ID()]; dup {
			panic("duplicated native method: " + def.name)
		}
		c.natives[method.ID()] = def.run
	}
}

// Lookup returns the program deployed as code.
func Lookup(code []byte) (Program, bool) {
	c, ok := registry[string(code)]
	if !ok {
		return nil, false
	}
	return c, true
}

// check stops the native call with err, if any.
func check(env *xenv.Environment, err error) {
	if err != nil {
		env.Stop(err)
	}
}
