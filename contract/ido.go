// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/idohub/launchpad/launch"
	"github.com/idohub/launchpad/ledger"
	"github.com/idohub/launchpad/state"
)

// recvDefaultLimit caps the purchase window scanned per RecvTokens call
// when the caller does not supply one.
const recvDefaultLimit = 300

func (r *Runtime) startIdo(st *state.State, env Env, cmd StartIdo) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertActive(cfg); err != nil {
		return nil, nil, err
	}
	if err := assertAdmin(cfg, env.Sender); err != nil {
		return nil, nil, err
	}

	if len(cmd.TokensPerTier) != int(cfg.MinTier()) {
		return nil, nil, errors.Errorf("tokens per tier must have %d items", cfg.MinTier())
	}
	sum := new(big.Int)
	for _, pool := range cmd.TokensPerTier {
		if pool == nil || pool.Sign() < 0 {
			return nil, nil, errors.New("tier pool must not be negative")
		}
		sum.Add(sum, pool)
	}
	if sum.Cmp(cmd.TotalTokens) < 0 {
		return nil, nil, errors.New("sum of tier pools cannot be less than total tokens amount")
	}
	if cmd.StartTime >= cmd.EndTime {
		return nil, nil, errors.New("end time must be greater than start time")
	}
	if cmd.EndTime <= env.Now {
		return nil, nil, errors.New("sale ends in the past")
	}
	if cmd.Price == nil || cmd.Price.Sign() <= 0 {
		return nil, nil, errors.New("price must be positive")
	}
	if cmd.SoftCap == nil || cmd.SoftCap.Sign() <= 0 {
		return nil, nil, errors.New("soft cap must be positive")
	}
	if cmd.SoftCap.Cmp(cmd.TotalTokens) > 0 {
		return nil, nil, errors.New("soft cap cannot exceed total tokens amount")
	}

	pools := make([]*big.Int, len(cmd.TokensPerTier))
	for i, pool := range cmd.TokensPerTier {
		pools[i] = new(big.Int).Set(pool)
	}
	ido := &state.Ido{
		Admin:            env.Sender,
		StartTime:        cmd.StartTime,
		EndTime:          cmd.EndTime,
		TokenContract:    cmd.TokenContract,
		Payment:          cmd.Payment,
		Price:            new(big.Int).Set(cmd.Price),
		SoldAmount:       new(big.Int),
		RemainingPerTier: pools,
		TotalTokens:      new(big.Int).Set(cmd.TotalTokens),
		SoftCap:          new(big.Int).Set(cmd.SoftCap),
		TotalPayment:     new(big.Int),
		SharedWhitelist:  cmd.Whitelist.Policy == launch.WhitelistShared,
	}

	id, err := st.AppendIdo(ido)
	if err != nil {
		return nil, nil, err
	}

	// With closed policy the listed addresses are allowed, with shared
	// policy they are blocked.
	flag := cmd.Whitelist.Policy == launch.WhitelistClosed
	for _, addr := range cmd.Whitelist.Addresses {
		if err := st.SetWhitelist(id, addr, flag); err != nil {
			return nil, nil, err
		}
	}

	owned, err := st.OwnedIdos(env.Sender)
	if err != nil {
		return nil, nil, err
	}
	if err := st.SetOwnedIdos(env.Sender, append(owned, id)); err != nil {
		return nil, nil, err
	}

	// Sale tokens move into contract custody up front.
	ops := []ledger.Op{ledger.TokenTransfer{
		Token:  ido.TokenContract,
		From:   env.Sender,
		Amount: new(big.Int).Set(ido.TotalTokens),
	}}
	return StartIdoResult{IdoID: id}, ops, nil
}

// buyerTier resolves the tier used for allocation gating. Buyers outside the
// whitelist are pinned to the minimum tier regardless of their deposits.
func (r *Runtime) buyerTier(st *state.State, cfg *state.Config, id uint32, ido *state.Ido, addr launch.Address) (uint8, error) {
	allowed, err := isAllowed(st, id, ido, addr)
	if err != nil {
		return 0, err
	}
	if !allowed {
		return cfg.MinTier(), nil
	}
	info, ok, err := st.TierUserInfo(addr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return cfg.MinTier(), nil
	}
	return info.Tier, nil
}

func (r *Runtime) buyTokens(st *state.State, env Env, cmd BuyTokens) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertActive(cfg); err != nil {
		return nil, nil, err
	}

	ido, ok, err := st.Ido(cmd.IdoID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrSaleNotFound
	}
	if !ido.IsActive(env.Now) {
		return nil, nil, errors.Errorf("sale is not active at %d", env.Now)
	}

	amount := cmd.Amount
	if ido.Payment.IsNative() {
		funds, err := env.receivedNative()
		if err != nil {
			return nil, nil, err
		}
		amount = new(big.Int).Mul(funds, ido.Price)
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, errors.New("zero amount")
	}

	tier, err := r.buyerTier(st, cfg, cmd.IdoID, ido, env.Sender)
	if err != nil {
		return nil, nil, err
	}

	remaining := ido.RemainingForTier(tier)
	if remaining.Sign() == 0 {
		if ido.SoldAmount.Cmp(ido.TotalTokens) == 0 {
			return nil, nil, errors.New("all tokens are sold")
		}
		return nil, nil, errors.New("all tokens are sold for your tier")
	}
	if amount.Cmp(remaining) > 0 {
		return nil, nil, errOverAllocation(remaining)
	}

	payment := new(big.Int).Div(amount, ido.Price)
	unlockTime := ido.EndTime + cfg.LockPeriod(tier)

	purchases, err := st.Purchases(env.Sender, cmd.IdoID)
	if err != nil {
		return nil, nil, err
	}
	purchases = append(purchases, state.Purchase{
		TokensAmount: new(big.Int).Set(amount),
		Timestamp:    env.Now,
		UnlockTime:   unlockTime,
	})
	if err := st.SetPurchases(env.Sender, cmd.IdoID, purchases); err != nil {
		return nil, nil, err
	}

	saleInfo, err := st.SaleUserInfo(env.Sender, cmd.IdoID)
	if err != nil {
		return nil, nil, err
	}
	if saleInfo.TotalPayment.Sign() == 0 {
		ido.Participants++
	}
	saleInfo.TotalPayment.Add(saleInfo.TotalPayment, payment)
	saleInfo.TotalTokensBought.Add(saleInfo.TotalTokensBought, amount)
	if err := st.SetSaleUserInfo(env.Sender, cmd.IdoID, saleInfo); err != nil {
		return nil, nil, err
	}

	userInfo, err := st.UserInfo(env.Sender)
	if err != nil {
		return nil, nil, err
	}
	userInfo.TotalPayment.Add(userInfo.TotalPayment, payment)
	userInfo.TotalTokensBought.Add(userInfo.TotalTokensBought, amount)
	if err := st.SetUserInfo(env.Sender, userInfo); err != nil {
		return nil, nil, err
	}

	if err := st.SetActiveIdo(env.Sender, cmd.IdoID); err != nil {
		return nil, nil, err
	}

	ido.SoldAmount.Add(ido.SoldAmount, amount)
	ido.TotalPayment.Add(ido.TotalPayment, payment)
	pool := ido.RemainingPerTier[tier-1]
	pool.Sub(pool, amount)
	if pool.Sign() < 0 {
		pool.SetInt64(0)
	}
	if err := st.SetIdo(cmd.IdoID, ido); err != nil {
		return nil, nil, err
	}

	var ops []ledger.Op
	if !ido.Payment.IsNative() {
		ops = append(ops, ledger.TokenTransfer{
			Token:  ido.Payment.Token,
			From:   env.Sender,
			Amount: payment,
		})
	}

	result := BuyTokensResult{
		Amount:     new(big.Int).Set(amount),
		UnlockTime: unlockTime,
	}
	return result, ops, nil
}

func (r *Runtime) recvTokens(st *state.State, env Env, cmd RecvTokens) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertActive(cfg); err != nil {
		return nil, nil, err
	}

	ido, ok, err := st.Ido(cmd.IdoID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrSaleNotFound
	}

	if env.Now > ido.EndTime && ido.SoldAmount.Cmp(ido.SoftCap) < 0 {
		return r.refundPayment(st, env, cmd.IdoID, ido)
	}

	limit := cmd.Limit
	if limit == 0 {
		limit = recvDefaultLimit
	}

	purchases, err := st.Purchases(env.Sender, cmd.IdoID)
	if err != nil {
		return nil, nil, err
	}

	var indices []int
	end := min(uint64(cmd.Start)+uint64(limit), uint64(len(purchases)))
	for i := uint64(cmd.Start); i < end; i++ {
		if env.Now >= purchases[i].UnlockTime {
			indices = append(indices, int(i))
		}
	}
	for _, index := range cmd.Indices {
		if index >= cmd.Start && uint64(index) < uint64(cmd.Start)+uint64(limit) {
			continue
		}
		if int(index) >= len(purchases) {
			return nil, nil, errors.Errorf("purchase index %d out of range", index)
		}
		if env.Now >= purchases[index].UnlockTime {
			indices = append(indices, int(index))
		}
	}

	archived, err := st.ArchivedPurchases(env.Sender, cmd.IdoID)
	if err != nil {
		return nil, nil, err
	}

	recvAmount := new(big.Int)
	purchases = compact(purchases, indices, func(p state.Purchase) {
		recvAmount.Add(recvAmount, p.TokensAmount)
		archived = append(archived, p)
	})

	if recvAmount.Sign() == 0 {
		return nil, nil, ErrNothingToReceive
	}

	if err := st.SetPurchases(env.Sender, cmd.IdoID, purchases); err != nil {
		return nil, nil, err
	}
	if err := st.SetArchivedPurchases(env.Sender, cmd.IdoID, archived); err != nil {
		return nil, nil, err
	}

	userInfo, err := st.UserInfo(env.Sender)
	if err != nil {
		return nil, nil, err
	}
	userInfo.TotalTokensReceived.Add(userInfo.TotalTokensReceived, recvAmount)
	if err := st.SetUserInfo(env.Sender, userInfo); err != nil {
		return nil, nil, err
	}

	saleInfo, err := st.SaleUserInfo(env.Sender, cmd.IdoID)
	if err != nil {
		return nil, nil, err
	}
	saleInfo.TotalTokensReceived.Add(saleInfo.TotalTokensReceived, recvAmount)
	if err := st.SetSaleUserInfo(env.Sender, cmd.IdoID, saleInfo); err != nil {
		return nil, nil, err
	}

	if saleInfo.TotalTokensBought.Cmp(saleInfo.TotalTokensReceived) == 0 {
		st.DeleteActiveIdo(env.Sender, cmd.IdoID)
	}

	ops := []ledger.Op{ledger.TokenTransfer{
		Token:  ido.TokenContract,
		To:     env.Sender,
		Amount: recvAmount,
	}}
	return RecvTokensResult{Amount: recvAmount, SaleSuccess: true}, ops, nil
}

// refundPayment rolls the buyer out of a sale that missed its soft cap.
// Sale-scoped counters reset to zero and the global counters shrink by the
// same amounts.
func (r *Runtime) refundPayment(st *state.State, env Env, id uint32, ido *state.Ido) (any, []ledger.Op, error) {
	saleInfo, err := st.SaleUserInfo(env.Sender, id)
	if err != nil {
		return nil, nil, err
	}
	refund := new(big.Int).Set(saleInfo.TotalPayment)
	if refund.Sign() == 0 {
		return nil, nil, ErrNothingToReceive
	}

	userInfo, err := st.UserInfo(env.Sender)
	if err != nil {
		return nil, nil, err
	}
	subClamped(userInfo.TotalPayment, saleInfo.TotalPayment)
	subClamped(userInfo.TotalTokensBought, saleInfo.TotalTokensBought)
	subClamped(userInfo.TotalTokensReceived, saleInfo.TotalTokensReceived)

	saleInfo.TotalPayment = new(big.Int)
	saleInfo.TotalTokensBought = new(big.Int)
	saleInfo.TotalTokensReceived = new(big.Int)

	if err := st.SetUserInfo(env.Sender, userInfo); err != nil {
		return nil, nil, err
	}
	if err := st.SetSaleUserInfo(env.Sender, id, saleInfo); err != nil {
		return nil, nil, err
	}
	st.DeleteActiveIdo(env.Sender, id)

	var op ledger.Op
	if ido.Payment.IsNative() {
		op = ledger.BankSend{To: env.Sender, Amount: refund}
	} else {
		op = ledger.TokenTransfer{
			Token:  ido.Payment.Token,
			To:     env.Sender,
			Amount: refund,
		}
	}
	return RecvTokensResult{Amount: refund, SaleSuccess: false}, []ledger.Op{op}, nil
}

func (r *Runtime) withdraw(st *state.State, env Env, cmd Withdraw) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertActive(cfg); err != nil {
		return nil, nil, err
	}

	ido, ok, err := st.Ido(cmd.IdoID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrSaleNotFound
	}
	if env.Sender != ido.Admin {
		return nil, nil, ErrUnauthorized
	}
	if ido.Withdrawn {
		return nil, nil, ErrAlreadyWithdrawn
	}
	if env.Now < ido.EndTime {
		return nil, nil, errors.New("sale is not finished yet")
	}

	ido.Withdrawn = true
	if err := st.SetIdo(cmd.IdoID, ido); err != nil {
		return nil, nil, err
	}

	softCapMissed := ido.SoldAmount.Cmp(ido.SoftCap) < 0

	// When the soft cap was missed every buyer gets refunded, so the full
	// token amount goes back to the creator.
	var remainingTokens *big.Int
	if softCapMissed {
		remainingTokens = new(big.Int).Set(ido.TotalTokens)
	} else {
		remainingTokens = ido.RemainingTokens()
	}

	var ops []ledger.Op
	if remainingTokens.Sign() > 0 {
		ops = append(ops, ledger.TokenTransfer{
			Token:  ido.TokenContract,
			To:     env.Sender,
			Amount: remainingTokens,
		})
	}

	paymentAmount := new(big.Int).Div(ido.SoldAmount, ido.Price)
	if !softCapMissed && paymentAmount.Sign() > 0 {
		if ido.Payment.IsNative() {
			ops = append(ops, ledger.BankSend{To: env.Sender, Amount: paymentAmount})
		} else {
			ops = append(ops, ledger.TokenTransfer{
				Token:  ido.Payment.Token,
				To:     env.Sender,
				Amount: paymentAmount,
			})
		}
	}

	result := WithdrawResult{
		TokensAmount:  remainingTokens,
		PaymentAmount: paymentAmount,
	}
	return result, ops, nil
}

// subClamped subtracts b from a in place, clamping at zero.
func subClamped(a, b *big.Int) {
	a.Sub(a, b)
	if a.Sign() < 0 {
		a.SetInt64(0)
	}
}
