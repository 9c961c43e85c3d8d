// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idohub/launchpad/kv"
	"github.com/idohub/launchpad/launch"
)

func newTestConfig() *Config {
	return &Config{
		Admin:  launch.BytesToAddress([]byte("admin")),
		Status: launch.StatusActive,
		LockPeriods: []uint64{
			250, 200, 150, 100, 50,
		},
		USDThresholds: []*big.Int{
			big.NewInt(20000), big.NewInt(5000), big.NewInt(1000), big.NewInt(100),
		},
		Validator: launch.BytesToAddress([]byte("validator")),
	}
}

func TestConfigTierMath(t *testing.T) {
	cfg := newTestConfig()

	assert.Equal(t, uint8(5), cfg.MinTier())
	assert.Equal(t, uint8(1), cfg.MaxTier())
	assert.Equal(t, big.NewInt(1000), cfg.DepositByTier(3))
	assert.Equal(t, uint64(150), cfg.LockPeriod(3))

	tests := []struct {
		usd  int64
		tier uint8
	}{
		{0, 5},
		{99, 5},
		{100, 4},
		{999, 4},
		{1000, 3},
		{5000, 2},
		{19999, 2},
		{20000, 1},
		{1000000, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, cfg.TierByDeposit(big.NewInt(tt.usd)), "usd=%d", tt.usd)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := newTestConfig()
	require.NoError(t, cfg.Validate())

	broken := newTestConfig()
	broken.USDThresholds = nil
	assert.ErrorContains(t, broken.Validate(), "empty")

	broken = newTestConfig()
	broken.USDThresholds[1] = big.NewInt(30000) // ascending step
	assert.ErrorContains(t, broken.Validate(), "descending")

	broken = newTestConfig()
	broken.USDThresholds[2] = big.NewInt(0)
	assert.ErrorContains(t, broken.Validate(), "positive")

	broken = newTestConfig()
	broken.LockPeriods = broken.LockPeriods[:3]
	assert.ErrorContains(t, broken.Validate(), "must have 5 items")
}

func TestStagedCommitAndDiscard(t *testing.T) {
	store := kv.NewMem()

	st := New(store)
	require.NoError(t, st.SetConfig(newTestConfig()))

	// not committed yet
	_, err := New(store).Config()
	assert.ErrorContains(t, err, "not initialized")

	require.NoError(t, st.Stage().Commit())

	cfg, err := New(store).Config()
	require.NoError(t, err)
	assert.Equal(t, launch.BytesToAddress([]byte("admin")), cfg.Admin)

	// a discarded state leaves the store untouched
	discarded := New(store)
	cfg.Admin = launch.BytesToAddress([]byte("other"))
	require.NoError(t, discarded.SetConfig(cfg))

	cfg, err = New(store).Config()
	require.NoError(t, err)
	assert.Equal(t, launch.BytesToAddress([]byte("admin")), cfg.Admin)
}

func TestStagedReadsSeeOwnWrites(t *testing.T) {
	store := kv.NewMem()
	st := New(store)

	addr := launch.BytesToAddress([]byte("buyer"))

	info, err := st.UserInfo(addr)
	require.NoError(t, err)
	assert.Equal(t, 0, info.TotalPayment.Sign())

	info.TotalPayment = big.NewInt(42)
	require.NoError(t, st.SetUserInfo(addr, info))

	reloaded, err := st.UserInfo(addr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), reloaded.TotalPayment)
}

func TestStateOverlayGetterPutter(t *testing.T) {
	store := kv.NewMem()
	require.NoError(t, store.Put([]byte("committed"), []byte("old")))

	st := New(store)

	// committed data reads through
	val, err := st.Get([]byte("committed"))
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), val)

	// staged writes shadow the store
	require.NoError(t, st.Put([]byte("committed"), []byte("new")))
	val, err = st.Get([]byte("committed"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), val)

	// staged deletes make the key absent even though the store still has it
	require.NoError(t, st.Delete([]byte("committed")))
	_, err = st.Get([]byte("committed"))
	assert.True(t, st.IsNotFound(err))
	has, err := st.Has([]byte("committed"))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = store.Has([]byte("committed"))
	require.NoError(t, err)
	assert.True(t, has)

	_, err = st.Get([]byte("missing"))
	assert.True(t, st.IsNotFound(err))

	// typed accessors run through bucket-scoped views of the overlay
	bucketed := bucketUserInfo.NewGetter(st)
	addr := launch.BytesToAddress([]byte("buyer"))
	require.NoError(t, st.SetUserInfo(addr, &UserInfo{
		TotalPayment:        big.NewInt(7),
		TotalTokensBought:   new(big.Int),
		TotalTokensReceived: new(big.Int),
	}))
	has, err = bucketed.Has(addr.Bytes())
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSequentialIdoIDs(t *testing.T) {
	store := kv.NewMem()
	st := New(store)

	ido := &Ido{
		Admin:            launch.BytesToAddress([]byte("admin")),
		StartTime:        100,
		EndTime:          200,
		Price:            big.NewInt(2),
		SoldAmount:       new(big.Int),
		RemainingPerTier: []*big.Int{big.NewInt(700), big.NewInt(300)},
		TotalTokens:      big.NewInt(1000),
		SoftCap:          big.NewInt(500),
		TotalPayment:     new(big.Int),
	}

	id, err := st.AppendIdo(ido)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), id)

	id, err = st.AppendIdo(ido)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id)

	require.NoError(t, st.Stage().Commit())

	st = New(store)
	count, err := st.IdoCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), count)

	loaded, ok, err := st.Ido(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ido.TotalTokens, loaded.TotalTokens)
	assert.True(t, loaded.IsActive(150))
	assert.False(t, loaded.IsActive(200))

	_, ok, err = st.Ido(2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTierUserInfoDelete(t *testing.T) {
	store := kv.NewMem()
	st := New(store)

	addr := launch.BytesToAddress([]byte("depositor"))

	_, ok, err := st.TierUserInfo(addr)
	require.NoError(t, err)
	assert.False(t, ok)

	info := NewTierUserInfo(5)
	info.USDDeposit = big.NewInt(1000)
	require.NoError(t, st.SetTierUserInfo(addr, info))
	require.NoError(t, st.Stage().Commit())

	st = New(store)
	loaded, ok, err := st.TierUserInfo(addr)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(1000), loaded.USDDeposit)

	st.DeleteTierUserInfo(addr)
	_, ok, err = st.TierUserInfo(addr)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Stage().Commit())
	_, ok, err = New(store).TierUserInfo(addr)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemainingForTier(t *testing.T) {
	ido := &Ido{
		SoldAmount:       big.NewInt(900),
		RemainingPerTier: []*big.Int{big.NewInt(700), big.NewInt(50)},
		TotalTokens:      big.NewInt(1000),
	}

	// tier pool larger than unsold remainder
	assert.Equal(t, big.NewInt(100), ido.RemainingForTier(1))
	// tier pool smaller than unsold remainder
	assert.Equal(t, big.NewInt(50), ido.RemainingForTier(2))
}
