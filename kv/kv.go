// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value store abstraction the state machine persists into.
package kv

// Getter defines methods to read kv.
type Getter interface {
	// Get returns the value for the given key.
	// An error is returned if the key is not found. It can be checked via IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Batch is a set of writes applied atomically.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Store defines the full functional kv store.
type Store interface {
	Getter
	Putter

	NewBatch() Batch
}

// StoreCloser is a store with a close method.
type StoreCloser interface {
	Store
	Close() error
}

// GetFunc adapts a function to the Get method.
type GetFunc func(key []byte) ([]byte, error)

// HasFunc adapts a function to the Has method.
type HasFunc func(key []byte) (bool, error)

// IsNotFoundFunc adapts a function to the IsNotFound method.
type IsNotFoundFunc func(err error) bool

// PutFunc adapts a function to the Put method.
type PutFunc func(key, val []byte) error

// DeleteFunc adapts a function to the Delete method.
type DeleteFunc func(key []byte) error

// Get implements Getter.Get.
func (f GetFunc) Get(key []byte) ([]byte, error) { return f(key) }

// Has implements Getter.Has.
func (f HasFunc) Has(key []byte) (bool, error) { return f(key) }

// IsNotFound implements Getter.IsNotFound.
func (f IsNotFoundFunc) IsNotFound(err error) bool { return f(err) }

// Put implements Putter.Put.
func (f PutFunc) Put(key, val []byte) error { return f(key, val) }

// Delete implements Putter.Delete.
func (f DeleteFunc) Delete(key []byte) error { return f(key) }
