// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idohub/launchpad/contract"
	"github.com/idohub/launchpad/kv"
	"github.com/idohub/launchpad/launch"
	"github.com/idohub/launchpad/ledger"
	"github.com/idohub/launchpad/oracle"
	"github.com/idohub/launchpad/state"
	"github.com/idohub/launchpad/test/datagen"
)

type noDelegation struct{}

func (noDelegation) Delegation(launch.Address) (*ledger.Delegation, error) { return nil, nil }

func newTestServer(t *testing.T) (*httptest.Server, *contract.Runtime, launch.Address) {
	admin := launch.BytesToAddress([]byte("admin"))

	rate, err := oracle.NewFixedRate(launch.OneUSD)
	require.NoError(t, err)

	runtime := contract.New(kv.NewMem(), rate, noDelegation{})
	require.NoError(t, runtime.Initialize(&state.Config{
		Admin:         admin,
		Status:        launch.StatusActive,
		LockPeriods:   []uint64{200, 100},
		USDThresholds: []*big.Int{big.NewInt(300)},
		Validator:     launch.BytesToAddress([]byte("validator")),
	}))

	server := httptest.NewServer(New(runtime, Options{AllowedOrigins: "*"}))
	t.Cleanup(server.Close)
	return server, runtime, admin
}

func getJSON(t *testing.T, url string, into any) int {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, into))
	}
	return res.StatusCode
}

func TestConfigEndpoint(t *testing.T) {
	server, _, admin := newTestServer(t)

	var cfg contract.ConfigInfo
	status := getJSON(t, server.URL+"/config", &cfg)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, admin, cfg.Admin)
	assert.Equal(t, uint8(2), cfg.MinTier)
}

func TestSalesEndpoints(t *testing.T) {
	server, runtime, admin := newTestServer(t)

	_, err := runtime.Execute(contract.Env{Sender: admin, Now: 50}, contract.StartIdo{
		StartTime:     100,
		EndTime:       200,
		TokenContract: datagen.RandAddress(),
		Price:         big.NewInt(2),
		SoftCap:       big.NewInt(500),
		TotalTokens:   big.NewInt(1000),
		TokensPerTier: []*big.Int{big.NewInt(700), big.NewInt(300)},
		Payment:       launch.NativePayment(),
		Whitelist:     contract.WhitelistSpec{Policy: launch.WhitelistShared},
	})
	require.NoError(t, err)

	var amount struct {
		Amount uint32 `json:"amount"`
	}
	status := getJSON(t, server.URL+"/sales", &amount)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint32(1), amount.Amount)

	var info contract.IdoInfo
	status = getJSON(t, server.URL+"/sales/0", &info)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, admin, info.Admin)
	assert.Equal(t, big.NewInt(1000), info.TotalTokens)

	status = getJSON(t, server.URL+"/sales/42", &info)
	assert.Equal(t, http.StatusNotFound, status)

	status = getJSON(t, server.URL+"/sales/not-a-number", &info)
	assert.Equal(t, http.StatusBadRequest, status)

	var owned struct {
		Total uint32   `json:"total"`
		IDs   []uint32 `json:"ids"`
	}
	status = getJSON(t, server.URL+"/sales/owned/"+admin.String(), &owned)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []uint32{0}, owned.IDs)

	var whitelisted struct {
		Whitelisted bool `json:"whitelisted"`
	}
	status = getJSON(t, server.URL+"/sales/0/whitelist/"+datagen.RandAddress().String(), &whitelisted)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, whitelisted.Whitelisted)
}

func TestTiersEndpoints(t *testing.T) {
	server, runtime, _ := newTestServer(t)
	depositor := datagen.RandAddress()

	_, err := runtime.Execute(
		contract.Env{Sender: depositor, Now: 10, Funds: []ledger.Coin{ledger.NewNativeCoin(big.NewInt(300))}},
		contract.Deposit{},
	)
	require.NoError(t, err)

	var info state.TierUserInfo
	status := getJSON(t, server.URL+"/tiers/"+depositor.String(), &info)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint8(1), info.Tier)

	// unknown addresses default to the min tier
	status = getJSON(t, server.URL+"/tiers/"+datagen.RandAddress().String(), &info)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint8(2), info.Tier)

	_, err = runtime.Execute(contract.Env{Sender: depositor, Now: 20}, contract.WithdrawFromTier{})
	require.NoError(t, err)

	var page contract.WithdrawalsPage
	status = getJSON(t, server.URL+"/tiers/"+depositor.String()+"/withdrawals", &page)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, uint32(1), page.Total)
	assert.Equal(t, uint64(20+contract.UnbondLatency), page.Withdrawals[0].ClaimTime)
}
