// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lvlerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var (
	writeOpt = &opt.WriteOptions{}
	readOpt  = &opt.ReadOptions{}
)

// levelStore implements StoreCloser backed by leveldb.
type levelStore struct {
	db *leveldb.DB
}

func openLevelDB(stg storage.Storage, cacheSize int) (*levelStore, error) {
	if cacheSize < 128 {
		cacheSize = 128
	}

	db, err := leveldb.Open(stg, &opt.Options{
		BlockCacheCapacity: cacheSize / 2 * opt.MiB,
		WriteBuffer:        cacheSize / 4 * opt.MiB, // two of these are used internally
		Filter:             filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &levelStore{db: db}, nil
}

// NewLevelDB opens a persistent leveldb-backed store at the given path.
func NewLevelDB(path string, cacheSize int) (StoreCloser, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open level db storage")
	}
	return openLevelDB(stg, cacheSize)
}

func (l *levelStore) Get(key []byte) ([]byte, error) {
	return l.db.Get(key, readOpt)
}

func (l *levelStore) Has(key []byte) (bool, error) {
	return l.db.Has(key, readOpt)
}

func (l *levelStore) IsNotFound(err error) bool {
	return errors.Is(err, lvlerrors.ErrNotFound)
}

func (l *levelStore) Put(key, val []byte) error {
	return l.db.Put(key, val, writeOpt)
}

func (l *levelStore) Delete(key []byte) error {
	return l.db.Delete(key, writeOpt)
}

func (l *levelStore) NewBatch() Batch {
	return &levelBatch{db: l.db, batch: &leveldb.Batch{}}
}

func (l *levelStore) Close() error {
	return l.db.Close()
}

type levelBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelBatch) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelBatch) Len() int {
	return b.batch.Len()
}

func (b *levelBatch) Write() error {
	return b.db.Write(b.batch, writeOpt)
}
