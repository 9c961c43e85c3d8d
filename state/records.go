// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/idohub/launchpad/launch"
)

// Config is the single global configuration record.
type Config struct {
	Admin         launch.Address
	Status        launch.ContractStatus
	TokenReceiver launch.Address
	LockPeriods   []uint64
	// USDThresholds is the tier promotion ladder in smallest USD units,
	// descending, index 0 = tier 1 (the best tier).
	USDThresholds []*big.Int
	Validator     launch.Address
	// External swap pair addresses, carried for hosts.
	SaleTokenAddr    launch.Address
	PaymentTokenAddr launch.Address
}

// MinTier returns the default tier of users without deposits. It is the worst tier.
func (c *Config) MinTier() uint8 {
	return uint8(len(c.USDThresholds)) + 1
}

// MaxTier returns the best tier.
func (c *Config) MaxTier() uint8 {
	return 1
}

// DepositByTier returns the USD threshold for promotion to the given tier.
func (c *Config) DepositByTier(tier uint8) *big.Int {
	return c.USDThresholds[tier-1]
}

// TierByDeposit resolves the tier granted by the given accumulated USD deposit,
// scanning thresholds from best to worst. Falls back to MinTier.
func (c *Config) TierByDeposit(usd *big.Int) uint8 {
	for i, threshold := range c.USDThresholds {
		if threshold.Cmp(usd) <= 0 {
			return uint8(i) + 1
		}
	}
	return c.MinTier()
}

// LockPeriod returns the vesting lock period of the given tier.
func (c *Config) LockPeriod(tier uint8) uint64 {
	return c.LockPeriods[tier-1]
}

// Validate checks the tier ladder invariants.
func (c *Config) Validate() error {
	if len(c.USDThresholds) == 0 {
		return errors.New("deposits array is empty")
	}
	for i, threshold := range c.USDThresholds {
		if threshold == nil || threshold.Sign() <= 0 {
			return errors.Errorf("usd threshold of tier %d must be positive", i+1)
		}
		if i > 0 && c.USDThresholds[i-1].Cmp(threshold) <= 0 {
			return errors.New("usd thresholds must be strictly descending")
		}
	}
	if len(c.LockPeriods) != int(c.MinTier()) {
		return errors.Errorf("lock periods array must have %d items", c.MinTier())
	}
	return nil
}

// Ido is a single token sale record.
type Ido struct {
	Admin            launch.Address
	StartTime        uint64
	EndTime          uint64
	TokenContract    launch.Address
	Payment          launch.PaymentMethod
	Price            *big.Int
	Participants     uint64
	SoldAmount       *big.Int
	RemainingPerTier []*big.Int
	TotalTokens      *big.Int
	SoftCap          *big.Int
	TotalPayment     *big.Int
	Withdrawn        bool
	SharedWhitelist  bool
}

// IsActive returns true while purchases are accepted.
func (i *Ido) IsActive(now uint64) bool {
	return now >= i.StartTime && now < i.EndTime
}

// RemainingTokens returns the unsold amount.
func (i *Ido) RemainingTokens() *big.Int {
	return new(big.Int).Sub(i.TotalTokens, i.SoldAmount)
}

// RemainingForTier returns the purchasable amount for the given tier,
// capped by the unsold total.
func (i *Ido) RemainingForTier(tier uint8) *big.Int {
	pool := i.RemainingPerTier[tier-1]
	if total := i.RemainingTokens(); total.Cmp(pool) < 0 {
		return total
	}
	return new(big.Int).Set(pool)
}

// Purchase is one vesting-locked purchase of a buyer in a sale.
type Purchase struct {
	TokensAmount *big.Int
	Timestamp    uint64
	UnlockTime   uint64
}

// UserInfo aggregates a buyer's totals, either globally or per sale.
type UserInfo struct {
	TotalPayment        *big.Int
	TotalTokensBought   *big.Int
	TotalTokensReceived *big.Int
}

// NewUserInfo returns a zeroed aggregate.
func NewUserInfo() *UserInfo {
	return &UserInfo{
		TotalPayment:        new(big.Int),
		TotalTokensBought:   new(big.Int),
		TotalTokensReceived: new(big.Int),
	}
}

// TierUserInfo is a depositor's position on the tier ladder.
type TierUserInfo struct {
	Tier          uint8
	Timestamp     uint64
	USDDeposit    *big.Int
	NativeDeposit *big.Int
}

// NewTierUserInfo returns the default position at the given minimum tier.
func NewTierUserInfo(minTier uint8) *TierUserInfo {
	return &TierUserInfo{
		Tier:          minTier,
		USDDeposit:    new(big.Int),
		NativeDeposit: new(big.Int),
	}
}

// UserWithdrawal is a pending unbonding entry.
type UserWithdrawal struct {
	Amount    *big.Int
	Timestamp uint64
	ClaimTime uint64
}
