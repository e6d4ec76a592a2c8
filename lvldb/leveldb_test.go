// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDB(t *testing.T) {
	db := NewMem()
	defer db.Close()

	_, err := db.Get([]byte("k"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	batch := db.NewBatch()
	require.NoError(t, batch.Put([]byte("k1"), []byte("v1")))
	require.NoError(t, batch.Delete([]byte("k")))
	assert.Equal(t, 2, batch.Len())

	has, _ = db.Has([]byte("k1"))
	assert.False(t, has, "batch is not applied before write")

	require.NoError(t, batch.Write())
	has, _ = db.Has([]byte("k"))
	assert.False(t, has)
	v, err = db.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)
}

func TestLevelDBPersistent(t *testing.T) {
	dir := t.TempDir()
	db, err := New(dir, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = New(dir, Options{CacheSize: 32})
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestLevelDBLock(t *testing.T) {
	dir := t.TempDir()
	db, err := New(dir, Options{})
	require.NoError(t, err)

	_, err = New(dir, Options{})
	assert.Error(t, err, "path is locked while open")

	require.NoError(t, db.Close())
	for range 3 {
		db, err = New(dir, Options{})
		require.NoError(t, err)
		require.NoError(t, db.Close())
	}
}
