// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides a staged, rlp-encoded view over the persistent kv store.
//
// Reads see committed data plus the writes staged during the current call.
// Nothing reaches the underlying store until Stage().Commit(); discarding the
// State discards every staged mutation, which gives each call its atomicity.
package state

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/idohub/launchpad/kv"
	"github.com/idohub/launchpad/launch"
)

// Named collections. The names match the original contract storage layout.
const (
	bucketConfig       kv.Bucket = "config"
	bucketIdo          kv.Bucket = "ido_list"
	bucketPurchases    kv.Bucket = "purchase"
	bucketArchived     kv.Bucket = "archive"
	bucketActiveIdos   kv.Bucket = "active_idos"
	bucketSaleUserInfo kv.Bucket = "ido2info"
	bucketUserInfo     kv.Bucket = "usr2info"
	bucketTierUserInfo kv.Bucket = "user_info"
	bucketWhitelist    kv.Bucket = "whitelist"
	bucketWithdrawals  kv.Bucket = "withdraw"
	bucketOwnedIdos    kv.Bucket = "owner2idos"
)

var (
	keyConfig   = []byte("config")
	keyIdoCount = []byte("len")
)

type stagedWrite struct {
	value   []byte
	deleted bool
}

// State is the mutable view of the contract storage for a single call.
type State struct {
	store  kv.Store
	staged map[string]stagedWrite
}

// New creates a state over the given store.
func New(store kv.Store) *State {
	return &State{
		store:  store,
		staged: make(map[string]stagedWrite),
	}
}

var errNotFound = errors.New("not found")

// Get implements kv.Getter over the staged overlay. Staged writes shadow the
// committed store; staged deletes make the key absent.
func (s *State) Get(key []byte) ([]byte, error) {
	if w, ok := s.staged[string(key)]; ok {
		if w.deleted {
			return nil, errNotFound
		}
		return w.value, nil
	}
	val, err := s.store.Get(key)
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, errors.Wrap(err, "state read")
	}
	return val, nil
}

// Has implements kv.Getter over the staged overlay.
func (s *State) Has(key []byte) (bool, error) {
	if w, ok := s.staged[string(key)]; ok {
		return !w.deleted, nil
	}
	return s.store.Has(key)
}

// IsNotFound implements kv.Getter.
func (s *State) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// Put implements kv.Putter by staging the write.
func (s *State) Put(key, val []byte) error {
	s.staged[string(key)] = stagedWrite{value: val}
	return nil
}

// Delete implements kv.Putter by staging the delete.
func (s *State) Delete(key []byte) error {
	s.staged[string(key)] = stagedWrite{deleted: true}
	return nil
}

func (s *State) getRecord(bucket kv.Bucket, key []byte, into any) (bool, error) {
	data, err := bucket.NewGetter(s).Get(key)
	if err != nil {
		if s.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := rlp.DecodeBytes(data, into); err != nil {
		return false, errors.Wrapf(err, "decode record of %q", bucket)
	}
	return true, nil
}

func (s *State) putRecord(bucket kv.Bucket, key []byte, record any) error {
	data, err := rlp.EncodeToBytes(record)
	if err != nil {
		return errors.Wrapf(err, "encode record of %q", bucket)
	}
	return bucket.NewPutter(s).Put(key, data)
}

func idoKey(id uint32) []byte {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], id)
	return key[:]
}

func saleKey(addr launch.Address, id uint32) []byte {
	key := make([]byte, 0, launch.AddressLength+4)
	key = append(key, addr.Bytes()...)
	return append(key, idoKey(id)...)
}

func whitelistKey(id uint32, addr launch.Address) []byte {
	key := make([]byte, 0, 4+launch.AddressLength)
	key = append(key, idoKey(id)...)
	return append(key, addr.Bytes()...)
}

// Config loads the global config record.
func (s *State) Config() (*Config, error) {
	var cfg Config
	ok, err := s.getRecord(bucketConfig, keyConfig, &cfg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("config is not initialized")
	}
	return &cfg, nil
}

// SetConfig stores the global config record.
func (s *State) SetConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.putRecord(bucketConfig, keyConfig, cfg)
}

// IdoCount returns the number of sales created so far.
func (s *State) IdoCount() (uint32, error) {
	var count uint32
	if _, err := s.getRecord(bucketIdo, keyIdoCount, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// Ido loads the sale with the given id.
func (s *State) Ido(id uint32) (*Ido, bool, error) {
	var ido Ido
	ok, err := s.getRecord(bucketIdo, idoKey(id), &ido)
	if err != nil || !ok {
		return nil, false, err
	}
	return &ido, true, nil
}

// SetIdo stores the sale under the given id.
func (s *State) SetIdo(id uint32, ido *Ido) error {
	return s.putRecord(bucketIdo, idoKey(id), ido)
}

// AppendIdo stores the sale under the next sequential id and returns that id.
func (s *State) AppendIdo(ido *Ido) (uint32, error) {
	id, err := s.IdoCount()
	if err != nil {
		return 0, err
	}
	if err := s.SetIdo(id, ido); err != nil {
		return 0, err
	}
	if err := s.putRecord(bucketIdo, keyIdoCount, id+1); err != nil {
		return 0, err
	}
	return id, nil
}

// Purchases loads the live purchase queue of a buyer in a sale. Absent queues are empty.
func (s *State) Purchases(addr launch.Address, id uint32) ([]Purchase, error) {
	var purchases []Purchase
	if _, err := s.getRecord(bucketPurchases, saleKey(addr, id), &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

// SetPurchases stores the live purchase queue of a buyer in a sale.
func (s *State) SetPurchases(addr launch.Address, id uint32, purchases []Purchase) error {
	return s.putRecord(bucketPurchases, saleKey(addr, id), purchases)
}

// ArchivedPurchases loads the archive queue of a buyer in a sale.
func (s *State) ArchivedPurchases(addr launch.Address, id uint32) ([]Purchase, error) {
	var purchases []Purchase
	if _, err := s.getRecord(bucketArchived, saleKey(addr, id), &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

// SetArchivedPurchases stores the archive queue of a buyer in a sale.
func (s *State) SetArchivedPurchases(addr launch.Address, id uint32, purchases []Purchase) error {
	return s.putRecord(bucketArchived, saleKey(addr, id), purchases)
}

// ActiveIdo reports whether the sale is marked active for the buyer.
func (s *State) ActiveIdo(addr launch.Address, id uint32) (bool, error) {
	var active bool
	ok, err := s.getRecord(bucketActiveIdos, saleKey(addr, id), &active)
	if err != nil {
		return false, err
	}
	return ok && active, nil
}

// SetActiveIdo marks the sale active for the buyer.
func (s *State) SetActiveIdo(addr launch.Address, id uint32) error {
	return s.putRecord(bucketActiveIdos, saleKey(addr, id), true)
}

// DeleteActiveIdo clears the active mark of the sale for the buyer.
func (s *State) DeleteActiveIdo(addr launch.Address, id uint32) {
	_ = bucketActiveIdos.NewPutter(s).Delete(saleKey(addr, id))
}

// UserInfo loads the global aggregate of an address, defaulting to zero.
func (s *State) UserInfo(addr launch.Address) (*UserInfo, error) {
	var info UserInfo
	ok, err := s.getRecord(bucketUserInfo, addr.Bytes(), &info)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewUserInfo(), nil
	}
	return &info, nil
}

// SetUserInfo stores the global aggregate of an address.
func (s *State) SetUserInfo(addr launch.Address, info *UserInfo) error {
	return s.putRecord(bucketUserInfo, addr.Bytes(), info)
}

// SaleUserInfo loads the per-sale aggregate of an address, defaulting to zero.
func (s *State) SaleUserInfo(addr launch.Address, id uint32) (*UserInfo, error) {
	var info UserInfo
	ok, err := s.getRecord(bucketSaleUserInfo, saleKey(addr, id), &info)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewUserInfo(), nil
	}
	return &info, nil
}

// SetSaleUserInfo stores the per-sale aggregate of an address.
func (s *State) SetSaleUserInfo(addr launch.Address, id uint32, info *UserInfo) error {
	return s.putRecord(bucketSaleUserInfo, saleKey(addr, id), info)
}

// Whitelist returns the explicit whitelist flag of (sale, address) if present.
func (s *State) Whitelist(id uint32, addr launch.Address) (flag bool, ok bool, err error) {
	ok, err = s.getRecord(bucketWhitelist, whitelistKey(id, addr), &flag)
	return flag, ok, err
}

// SetWhitelist stores the explicit whitelist flag of (sale, address).
func (s *State) SetWhitelist(id uint32, addr launch.Address, allowed bool) error {
	return s.putRecord(bucketWhitelist, whitelistKey(id, addr), allowed)
}

// TierUserInfo loads the tier ladder position of an address if present.
func (s *State) TierUserInfo(addr launch.Address) (*TierUserInfo, bool, error) {
	var info TierUserInfo
	ok, err := s.getRecord(bucketTierUserInfo, addr.Bytes(), &info)
	if err != nil || !ok {
		return nil, false, err
	}
	return &info, true, nil
}

// SetTierUserInfo stores the tier ladder position of an address.
func (s *State) SetTierUserInfo(addr launch.Address, info *TierUserInfo) error {
	return s.putRecord(bucketTierUserInfo, addr.Bytes(), info)
}

// DeleteTierUserInfo removes the tier ladder position of an address.
func (s *State) DeleteTierUserInfo(addr launch.Address) {
	_ = bucketTierUserInfo.NewPutter(s).Delete(addr.Bytes())
}

// Withdrawals loads the pending unbonding queue of an address. Absent queues are empty.
func (s *State) Withdrawals(addr launch.Address) ([]UserWithdrawal, error) {
	var withdrawals []UserWithdrawal
	if _, err := s.getRecord(bucketWithdrawals, addr.Bytes(), &withdrawals); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// SetWithdrawals stores the pending unbonding queue of an address.
func (s *State) SetWithdrawals(addr launch.Address, withdrawals []UserWithdrawal) error {
	return s.putRecord(bucketWithdrawals, addr.Bytes(), withdrawals)
}

// OwnedIdos loads the sale ids created by an address. Absent lists are empty.
func (s *State) OwnedIdos(addr launch.Address) ([]uint32, error) {
	var ids []uint32
	if _, err := s.getRecord(bucketOwnedIdos, addr.Bytes(), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetOwnedIdos stores the sale ids created by an address.
func (s *State) SetOwnedIdos(addr launch.Address, ids []uint32) error {
	return s.putRecord(bucketOwnedIdos, addr.Bytes(), ids)
}

// Stage captures the staged writes for an atomic commit.
type Stage struct {
	batch kv.Batch
}

// Stage freezes the staged writes of the state into a commitable stage.
func (s *State) Stage() *Stage {
	batch := s.store.NewBatch()
	for key, w := range s.staged {
		if w.deleted {
			_ = batch.Delete([]byte(key))
		} else {
			_ = batch.Put([]byte(key), w.value)
		}
	}
	return &Stage{batch: batch}
}

// Len returns the number of staged writes.
func (s *Stage) Len() int {
	return s.batch.Len()
}

// Commit writes the stage to the underlying store atomically.
func (s *Stage) Commit() error {
	if err := s.batch.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	return nil
}
