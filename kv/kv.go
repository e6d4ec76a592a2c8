// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the storage contracts of the chain database.
//
// Account state and chain records share one store. State keys start with a
// one byte kind and an address; records kept beside the state (the head,
// the deployment) live under the Meta bucket.
package kv

// Getter reads keys. A missing key is an error recognised by IsNotFound.
type Getter interface {
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool
}

// Putter writes keys.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// GetPutter reads and writes keys.
type GetPutter interface {
	Getter
	Putter
}

// Store is the chain database. Writes of one sealed block go through a Batch.
type Store interface {
	GetPutter
	NewBatch() Batch
	Close() error
}

// Batch collects writes applied atomically by Write.
type Batch interface {
	Putter

	Len() int
	Write() error
}
