// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen embeds the ABI definitions of the builtin programs.
package gen

import (
	"embed"
)

//go:embed compiled
var fs embed.FS

// MustABI returns the ABI json of the given file, e.g. "compiled/Lord.abi".
func MustABI(name string) []byte {
	data, err := fs.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}
