// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package joker

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DomainTypeHash is the EIP-712 type hash of the domain struct.
var DomainTypeHash = Keccak256([]byte("EIP712Domain(string name,uint256 chainId,address verifyingContract)"))

// Word left pads b to a 32 bytes abi word.
func Word(b []byte) []byte {
	return common.LeftPadBytes(b, 32)
}

// Uint64Word encodes v as an abi uint256 word.
func Uint64Word(v uint64) []byte {
	return Word(new(big.Int).SetUint64(v).Bytes())
}

// DomainSeparator computes the EIP-712 domain separator of a contract.
func DomainSeparator(name string, chainID uint64, contract Address) Bytes32 {
	nameHash := Keccak256([]byte(name))
	return Keccak256(DomainTypeHash[:], nameHash[:], Uint64Word(chainID), Word(contract[:]))
}

// TypedDataHash computes the digest that is signed for a typed struct.
func TypedDataHash(domain, structHash Bytes32) Bytes32 {
	return Keccak256([]byte("\x19\x01"), domain[:], structHash[:])
}

// RecoverTypedSigner recovers the signer of a typed data digest from a (v, r, s) signature.
func RecoverTypedSigner(digest Bytes32, v uint8, r, s Bytes32) (Address, error) {
	if v >= 27 {
		v -= 27
	}
	if !crypto.ValidateSignatureValues(v, new(big.Int).SetBytes(r[:]), new(big.Int).SetBytes(s[:]), true) {
		return Address{}, errors.New("invalid signature values")
	}
	sig := make([]byte, 65)
	copy(sig[:32], r[:])
	copy(sig[32:64], s[:])
	sig[64] = v

	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return Address{}, err
	}
	return Address(crypto.PubkeyToAddress(*pub)), nil
}
