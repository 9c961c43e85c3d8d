// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemStore(t *testing.T) {
	store := NewMem()

	_, err := store.Get([]byte("k"))
	assert.True(t, store.IsNotFound(err))

	assert.NoError(t, store.Put([]byte("k"), []byte("v")))

	v, err := store.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := store.Has([]byte("k"))
	assert.NoError(t, err)
	assert.True(t, has)

	assert.NoError(t, store.Delete([]byte("k")))
	_, err = store.Get([]byte("k"))
	assert.True(t, store.IsNotFound(err))
}

func TestMemBatch(t *testing.T) {
	store := NewMem()
	assert.NoError(t, store.Put([]byte("gone"), []byte("x")))

	batch := store.NewBatch()
	assert.NoError(t, batch.Put([]byte("a"), []byte("1")))
	assert.NoError(t, batch.Put([]byte("b"), []byte("2")))
	assert.NoError(t, batch.Delete([]byte("gone")))
	assert.Equal(t, 3, batch.Len())

	// nothing is visible before Write
	_, err := store.Get([]byte("a"))
	assert.True(t, store.IsNotFound(err))

	assert.NoError(t, batch.Write())

	v, err := store.Get([]byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	_, err = store.Get([]byte("gone"))
	assert.True(t, store.IsNotFound(err))
}

func TestBucket(t *testing.T) {
	store := NewMem()
	bucket := Bucket("prefix-")

	assert.NoError(t, bucket.NewPutter(store).Put([]byte("k"), []byte("v")))

	v, err := store.Get([]byte("prefix-k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	getter := bucket.NewGetter(store)
	v, err = getter.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := getter.Has([]byte("missing"))
	assert.NoError(t, err)
	assert.False(t, has)

	_, err = getter.Get([]byte("missing"))
	assert.True(t, getter.IsNotFound(err))

	assert.NoError(t, bucket.NewPutter(store).Delete([]byte("k")))
	has, err = store.Has([]byte("prefix-k"))
	assert.NoError(t, err)
	assert.False(t, has)
}
