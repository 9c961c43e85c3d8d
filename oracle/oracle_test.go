// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idohub/launchpad/launch"
)

func TestFixedRate(t *testing.T) {
	// 2 native units buy 1 USD
	rate, err := NewFixedRate(big.NewInt(2))
	require.NoError(t, err)

	assert.Equal(t, launch.OneUSD, rate.USDAmount(big.NewInt(2)))
	assert.Equal(t, big.NewInt(2), rate.NativeAmount(launch.OneUSD))

	half := new(big.Int).Div(launch.OneUSD, big.NewInt(2))
	assert.Equal(t, half, rate.USDAmount(big.NewInt(1)))

	// floor division
	assert.Zero(t, rate.NativeAmount(big.NewInt(1)).Sign())
}

func TestFixedRateRoundtrip(t *testing.T) {
	rate, err := NewFixedRate(big.NewInt(8123456))
	require.NoError(t, err)

	native := big.NewInt(123456789)
	usd := rate.USDAmount(native)
	back := rate.NativeAmount(usd)

	// floor conversions never round up
	assert.True(t, back.Cmp(native) <= 0)
	diff := new(big.Int).Sub(native, back)
	assert.True(t, diff.Cmp(big.NewInt(1)) <= 0)
}

func TestInvalidRate(t *testing.T) {
	_, err := NewFixedRate(nil)
	assert.Error(t, err)

	_, err = NewFixedRate(big.NewInt(0))
	assert.Error(t, err)

	_, err = NewFixedRate(big.NewInt(-1))
	assert.Error(t, err)
}
