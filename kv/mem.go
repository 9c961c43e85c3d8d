// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/pkg/errors"
)

var errNotFound = errors.New("not found")

// memStore implements Store in memory, mainly for tests and the solo mode.
type memStore struct {
	lock sync.RWMutex
	data map[string][]byte
}

// NewMem creates an in-memory store.
func NewMem() Store {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(key []byte) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if v, ok := m.data[string(key)]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, errNotFound
}

func (m *memStore) Has(key []byte) (bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	_, ok := m.data[string(key)]
	return ok, nil
}

func (m *memStore) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func (m *memStore) Put(key, val []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.data[string(key)] = append([]byte(nil), val...)
	return nil
}

func (m *memStore) Delete(key []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	delete(m.data, string(key))
	return nil
}

func (m *memStore) NewBatch() Batch {
	return &memBatch{store: m}
}

type memWrite struct {
	key     string
	val     []byte
	deleted bool
}

type memBatch struct {
	store  *memStore
	writes []memWrite
}

func (b *memBatch) Put(key, val []byte) error {
	b.writes = append(b.writes, memWrite{key: string(key), val: append([]byte(nil), val...)})
	return nil
}

func (b *memBatch) Delete(key []byte) error {
	b.writes = append(b.writes, memWrite{key: string(key), deleted: true})
	return nil
}

func (b *memBatch) Len() int {
	return len(b.writes)
}

func (b *memBatch) Write() error {
	b.store.lock.Lock()
	defer b.store.lock.Unlock()

	for _, w := range b.writes {
		if w.deleted {
			delete(b.store.data, w.key)
		} else {
			b.store.data[w.key] = w.val
		}
	}
	return nil
}
