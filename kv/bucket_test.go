// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokerswap/joker/kv"
	"github.com/jokerswap/joker/lvldb"
)

func TestBucket(t *testing.T) {
	db := lvldb.NewMem()
	defer db.Close()

	meta := kv.Meta.NewGetter(db)
	require.NoError(t, kv.Meta.NewPutter(db).Put([]byte("head"), []byte{1}))

	v, err := db.Get([]byte("m/head"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, v)

	v, err = meta.Get([]byte("head"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, v)

	_, err = kv.Bucket("x/").NewGetter(db).Get([]byte("head"))
	assert.True(t, meta.IsNotFound(err))

	batch := db.NewBatch()
	require.NoError(t, kv.Meta.NewPutter(batch).Delete([]byte("head")))
	require.NoError(t, batch.Write())
	has, err := meta.Has([]byte("head"))
	require.NoError(t, err)
	assert.False(t, has)
}
