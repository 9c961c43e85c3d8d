// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/idohub/launchpad/launch"
	"github.com/idohub/launchpad/state"
)

// genesisConfig is the on-disk bootstrap config. Amounts are decimal strings
// in smallest units.
type genesisConfig struct {
	Admin         string   `yaml:"admin"`
	Validator     string   `yaml:"validator"`
	TokenReceiver string   `yaml:"tokenReceiver"`
	LockPeriods   []uint64 `yaml:"lockPeriods"`
	USDThresholds []string `yaml:"usdThresholds"`
	// NativePerUSD is the fixed oracle rate: native units per one USD.
	NativePerUSD string `yaml:"nativePerUSD"`
}

func loadGenesis(path string) (*state.Config, *big.Int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read genesis")
	}

	var gene genesisConfig
	if err := yaml.Unmarshal(data, &gene); err != nil {
		return nil, nil, errors.Wrap(err, "parse genesis")
	}

	admin, err := launch.ParseAddress(gene.Admin)
	if err != nil {
		return nil, nil, errors.Wrap(err, "genesis admin")
	}
	validator, err := launch.ParseAddress(gene.Validator)
	if err != nil {
		return nil, nil, errors.Wrap(err, "genesis validator")
	}
	var tokenReceiver launch.Address
	if gene.TokenReceiver != "" {
		parsed, err := launch.ParseAddress(gene.TokenReceiver)
		if err != nil {
			return nil, nil, errors.Wrap(err, "genesis token receiver")
		}
		tokenReceiver = *parsed
	}

	thresholds := make([]*big.Int, 0, len(gene.USDThresholds))
	for _, raw := range gene.USDThresholds {
		threshold, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, nil, errors.Errorf("invalid usd threshold %q", raw)
		}
		thresholds = append(thresholds, threshold)
	}

	rate, ok := new(big.Int).SetString(gene.NativePerUSD, 10)
	if !ok {
		return nil, nil, errors.Errorf("invalid native per usd rate %q", gene.NativePerUSD)
	}

	cfg := &state.Config{
		Admin:         *admin,
		Status:        launch.StatusActive,
		TokenReceiver: tokenReceiver,
		LockPeriods:   gene.LockPeriods,
		USDThresholds: thresholds,
		Validator:     *validator,
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "genesis config")
	}
	return cfg, rate, nil
}
