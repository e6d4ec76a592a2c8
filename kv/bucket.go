// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Meta holds chain records outside the account state.
const Meta Bucket = "m/"

// Bucket namespaces keys with a prefix.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	return append([]byte(b), k...)
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.key(key)) }
func (g bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.key(key)) }
func (g bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p bucketPutter) Put(key, value []byte) error { return p.src.Put(p.b.key(key), value) }
func (p bucketPutter) Delete(key []byte) error     { return p.src.Delete(p.b.key(key)) }

// NewGetter reads the keys of the bucket from src.
func (b Bucket) NewGetter(src Getter) Getter {
	return bucketGetter{b, src}
}

// NewPutter writes the keys of the bucket to src, which may be a Batch.
func (b Bucket) NewPutter(src Putter) Putter {
	return bucketPutter{b, src}
}
