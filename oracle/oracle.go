// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package oracle converts between the chain native token and USD.
package oracle

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/idohub/launchpad/launch"
)

// PriceOracle converts amounts between the native token and 18-decimals USD.
type PriceOracle interface {
	// USDAmount converts a native amount to smallest USD units.
	USDAmount(native *big.Int) *big.Int
	// NativeAmount converts smallest USD units to a native amount.
	NativeAmount(usd *big.Int) *big.Int
}

// fixedRate is a PriceOracle with a constant native-per-USD rate.
type fixedRate struct {
	nativePerUSD *big.Int
}

// NewFixedRate creates an oracle quoting the given native amount per one USD.
func NewFixedRate(nativePerUSD *big.Int) (PriceOracle, error) {
	if nativePerUSD == nil || nativePerUSD.Sign() <= 0 {
		return nil, errors.New("native per usd rate must be positive")
	}
	return &fixedRate{nativePerUSD: new(big.Int).Set(nativePerUSD)}, nil
}

func (f *fixedRate) USDAmount(native *big.Int) *big.Int {
	usd := new(big.Int).Mul(native, launch.OneUSD)
	return usd.Div(usd, f.nativePerUSD)
}

func (f *fixedRate) NativeAmount(usd *big.Int) *big.Int {
	native := new(big.Int).Mul(usd, f.nativePerUSD)
	return native.Div(native, launch.OneUSD)
}
