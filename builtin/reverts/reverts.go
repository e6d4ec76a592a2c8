// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the revert errors raised by builtin programs.
package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/jokerswap/joker/abi"
)

// Kind classifies a revert.
type Kind uint8

const (
	// Generic is an unclassified revert.
	Generic Kind = iota
	// Authorization means the caller is not allowed.
	Authorization
	// State means the target is in the wrong state for the operation.
	State
	// Invariant means a value bound or bookkeeping rule is violated.
	Invariant
	// Timing means the call is too early or too late.
	Timing
)

func (k Kind) String() string {
	switch k {
	case Authorization:
		return "authorization"
	case State:
		return "state"
	case Invariant:
		return "invariant"
	case Timing:
		return "timing"
	default:
		return "generic"
	}
}

// ErrRequire is a revert raised by a failed requirement.
type ErrRequire struct {
	kind    Kind
	name    string
	message string
}

// New creates a named revert of the given kind.
func New(kind Kind, name, message string) *ErrRequire {
	return &ErrRequire{
		kind:    kind,
		name:    name,
		message: message,
	}
}

// NewRequireError creates an unnamed generic revert.
func NewRequireError(message string) *ErrRequire {
	return &ErrRequire{
		message: message,
	}
}

func (e *ErrRequire) Error() string {
	return e.message
}

// Kind returns the revert kind.
func (e *ErrRequire) Kind() Kind {
	return e.kind
}

// Name returns the revert name, empty for generic reverts.
func (e *ErrRequire) Name() string {
	return e.name
}

// Bytes returns the revert message encoded as Error(string).
func (e *ErrRequire) Bytes() []byte {
	if e == nil {
		return nil
	}
	return Encode(e.message)
}

// Wrap prefixes a revert with the operation name, e.g. "deposit: caller must be _user".
// The result still matches the sentinel with errors.Is.
func Wrap(err *ErrRequire, op string) error {
	return pkgerrors.WithMessage(err, op)
}

// Encode encodes the reason as Error(string) revert data.
func Encode(reason string) []byte {
	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(reason)
	msgLen := uint64(len(msgBytes))

	// selector + offset (32 bytes) + length (32 bytes) + data (padded to 32)
	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, selector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

// Decode resolves the reason from revert data.
func Decode(data []byte) (string, error) {
	return abi.UnpackRevert(data)
}

// As returns the revert carried by err, if any.
func As(err error) (*ErrRequire, bool) {
	var ve *ErrRequire
	if errors.As(err, &ve) && ve != nil {
		return ve, true
	}
	return nil, false
}

// IsRevertErr reports whether err carries a revert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	_, ok = As(e)
	return ok
}

// ErrNotOwner is shared by every owner-gated program.
var ErrNotOwner = New(Authorization, "NotOwner", "Ownable: caller is not the owner")
