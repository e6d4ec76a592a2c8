// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/builtin/reverts"
	"github.com/jokerswap/joker/joker"
)

// AddressVar parses the route variable name as an address.
func AddressVar(req *http.Request, name string) (joker.Address, error) {
	addr, err := joker.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return joker.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// Uint64Var parses the route variable name as a decimal uint64.
func Uint64Var(req *http.Request, name string) (uint64, error) {
	n, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

// StateError maps a failed state read to a response: reverts become bad requests,
// anything else stays an internal error.
func StateError(err error) error {
	if _, ok := reverts.As(err); ok {
		return BadRequest(err)
	}
	return err
}
