// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/ecdsa"
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/jokerswap/joker/joker"
)

func RandomHash() joker.Bytes32 {
	var b32 joker.Bytes32

	rand.Read(b32[:])
	return b32
}

func RandAddress() (addr joker.Address) {
	rand.Read(addr[:])
	return
}

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandAmount returns a random amount in [1, max] ether.
func RandAmount(max int) *big.Int {
	n := big.NewInt(int64(RandIntN(max) + 1))
	return n.Mul(n, joker.Ether)
}

// RandKey generates a signing key and its address.
func RandKey() (*ecdsa.PrivateKey, joker.Address) {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return key, joker.Address(crypto.PubkeyToAddress(key.PublicKey))
}
