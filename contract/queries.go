// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"math/big"

	"github.com/idohub/launchpad/launch"
	"github.com/idohub/launchpad/state"
)

// ConfigInfo is the query view of the global config.
type ConfigInfo struct {
	Admin         launch.Address        `json:"admin"`
	Status        launch.ContractStatus `json:"status"`
	Validator     launch.Address        `json:"validator"`
	LockPeriods   []uint64              `json:"lockPeriods"`
	USDThresholds []*big.Int            `json:"usdThresholds"`
	MinTier       uint8                 `json:"minTier"`
}

// IdoInfo is the query view of a sale. RemainingPerTier is capped by the
// unsold total per tier.
type IdoInfo struct {
	ID               uint32               `json:"id"`
	Admin            launch.Address       `json:"admin"`
	StartTime        uint64               `json:"startTime"`
	EndTime          uint64               `json:"endTime"`
	TokenContract    launch.Address       `json:"tokenContract"`
	Payment          launch.PaymentMethod `json:"payment"`
	Price            *big.Int             `json:"price"`
	Participants     uint64               `json:"participants"`
	SoldAmount       *big.Int             `json:"soldAmount"`
	TotalTokens      *big.Int             `json:"totalTokens"`
	SoftCap          *big.Int             `json:"softCap"`
	TotalPayment     *big.Int             `json:"totalPayment"`
	RemainingPerTier []*big.Int           `json:"remainingPerTier"`
	Withdrawn        bool                 `json:"withdrawn"`
	SharedWhitelist  bool                 `json:"sharedWhitelist"`
}

// PurchasesPage is one page of a purchase queue plus its full length.
type PurchasesPage struct {
	Total     uint32           `json:"total"`
	Purchases []state.Purchase `json:"purchases"`
}

// WithdrawalsPage is one page of an unbonding queue plus its full length.
type WithdrawalsPage struct {
	Total       uint32                 `json:"total"`
	Withdrawals []state.UserWithdrawal `json:"withdrawals"`
}

// QueryConfig returns the global config view.
func (r *Runtime) QueryConfig() (*ConfigInfo, error) {
	cfg, err := state.New(r.store).Config()
	if err != nil {
		return nil, err
	}
	return &ConfigInfo{
		Admin:         cfg.Admin,
		Status:        cfg.Status,
		Validator:     cfg.Validator,
		LockPeriods:   cfg.LockPeriods,
		USDThresholds: cfg.USDThresholds,
		MinTier:       cfg.MinTier(),
	}, nil
}

// QueryIdoAmount returns the number of sales created so far.
func (r *Runtime) QueryIdoAmount() (uint32, error) {
	return state.New(r.store).IdoCount()
}

// QueryIdoInfo returns the sale view, or ErrSaleNotFound.
func (r *Runtime) QueryIdoInfo(id uint32) (*IdoInfo, error) {
	ido, ok, err := state.New(r.store).Ido(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSaleNotFound
	}

	remaining := make([]*big.Int, len(ido.RemainingPerTier))
	for i := range ido.RemainingPerTier {
		remaining[i] = ido.RemainingForTier(uint8(i) + 1)
	}
	return &IdoInfo{
		ID:               id,
		Admin:            ido.Admin,
		StartTime:        ido.StartTime,
		EndTime:          ido.EndTime,
		TokenContract:    ido.TokenContract,
		Payment:          ido.Payment,
		Price:            ido.Price,
		Participants:     ido.Participants,
		SoldAmount:       ido.SoldAmount,
		TotalTokens:      ido.TotalTokens,
		SoftCap:          ido.SoftCap,
		TotalPayment:     ido.TotalPayment,
		RemainingPerTier: remaining,
		Withdrawn:        ido.Withdrawn,
		SharedWhitelist:  ido.SharedWhitelist,
	}, nil
}

// QueryInWhitelist resolves the whitelist status of an address for a sale.
func (r *Runtime) QueryInWhitelist(id uint32, addr launch.Address) (bool, error) {
	st := state.New(r.store)
	ido, ok, err := st.Ido(id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrSaleNotFound
	}
	return isAllowed(st, id, ido, addr)
}

// QueryIdoListOwnedBy returns a page of the sale ids created by an address.
func (r *Runtime) QueryIdoListOwnedBy(addr launch.Address, start, limit uint32) ([]uint32, uint32, error) {
	ids, err := state.New(r.store).OwnedIdos(addr)
	if err != nil {
		return nil, 0, err
	}
	total := uint32(len(ids))
	return pageOf(ids, start, limit), total, nil
}

// QueryUserInfo returns the global aggregate of an address.
func (r *Runtime) QueryUserInfo(addr launch.Address) (*state.UserInfo, error) {
	return state.New(r.store).UserInfo(addr)
}

// QuerySaleUserInfo returns the per-sale aggregate of an address.
func (r *Runtime) QuerySaleUserInfo(addr launch.Address, id uint32) (*state.UserInfo, error) {
	return state.New(r.store).SaleUserInfo(addr, id)
}

// QueryPurchases returns a page of the live purchase queue of a buyer.
func (r *Runtime) QueryPurchases(addr launch.Address, id uint32, start, limit uint32) (*PurchasesPage, error) {
	purchases, err := state.New(r.store).Purchases(addr, id)
	if err != nil {
		return nil, err
	}
	return &PurchasesPage{
		Total:     uint32(len(purchases)),
		Purchases: pageOf(purchases, start, limit),
	}, nil
}

// QueryArchivedPurchases returns a page of the archive queue of a buyer.
func (r *Runtime) QueryArchivedPurchases(addr launch.Address, id uint32, start, limit uint32) (*PurchasesPage, error) {
	purchases, err := state.New(r.store).ArchivedPurchases(addr, id)
	if err != nil {
		return nil, err
	}
	return &PurchasesPage{
		Total:     uint32(len(purchases)),
		Purchases: pageOf(purchases, start, limit),
	}, nil
}

// QueryTierUserInfo returns the ladder position of an address, defaulting to
// the minimum tier with zero deposit.
func (r *Runtime) QueryTierUserInfo(addr launch.Address) (*state.TierUserInfo, error) {
	st := state.New(r.store)
	info, ok, err := st.TierUserInfo(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		cfg, err := st.Config()
		if err != nil {
			return nil, err
		}
		return state.NewTierUserInfo(cfg.MinTier()), nil
	}
	return info, nil
}

// QueryWithdrawals returns a page of the unbonding queue of an address.
func (r *Runtime) QueryWithdrawals(addr launch.Address, start, limit uint32) (*WithdrawalsPage, error) {
	withdrawals, err := state.New(r.store).Withdrawals(addr)
	if err != nil {
		return nil, err
	}
	return &WithdrawalsPage{
		Total:       uint32(len(withdrawals)),
		Withdrawals: pageOf(withdrawals, start, limit),
	}, nil
}

func pageOf[T any](seq []T, start, limit uint32) []T {
	if uint64(start) >= uint64(len(seq)) {
		return nil
	}
	end := min(uint64(start)+uint64(limit), uint64(len(seq)))
	return seq[start:end]
}
