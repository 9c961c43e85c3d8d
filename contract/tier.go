// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/idohub/launchpad/ledger"
	"github.com/idohub/launchpad/state"
)

// UnbondLatency is the fixed delay between leaving the tier ladder and the
// deposit becoming claimable, in seconds.
const UnbondLatency = 21 * 24 * 60 * 60

// undelegateBuffer is held back from the undelegated amount to absorb
// staking rounding. The magnitude is historical.
var undelegateBuffer = big.NewInt(4)

func (r *Runtime) deposit(st *state.State, env Env) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertActive(cfg); err != nil {
		return nil, nil, err
	}

	nativeDeposit, err := env.receivedNative()
	if err != nil {
		return nil, nil, err
	}
	nativeDeposit = new(big.Int).Set(nativeDeposit)
	usdDeposit := r.oracle.USDAmount(nativeDeposit)

	info, ok, err := st.TierUserInfo(env.Sender)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		info = state.NewTierUserInfo(cfg.MinTier())
	}

	currentTier := info.Tier
	newUSDDeposit := new(big.Int).Add(info.USDDeposit, usdDeposit)
	newTier := cfg.TierByDeposit(newUSDDeposit)

	if currentTier == newTier {
		if currentTier == cfg.MaxTier() {
			return nil, nil, ErrMaxTierReached
		}
		nextTier := currentTier - 1
		expectedUSD := new(big.Int).Sub(cfg.DepositByTier(nextTier), info.USDDeposit)
		expectedNative := r.oracle.NativeAmount(expectedUSD)
		return nil, nil, errInsufficientDeposit(expectedUSD, expectedNative)
	}

	var ops []ledger.Op

	// Excess above the exact threshold of the reached tier goes back.
	newTierDeposit := cfg.DepositByTier(newTier)
	usdRefund := new(big.Int).Sub(newUSDDeposit, newTierDeposit)
	nativeRefund := r.oracle.NativeAmount(usdRefund)
	if nativeRefund.Sign() > 0 {
		nativeDeposit.Sub(nativeDeposit, nativeRefund)
		ops = append(ops, ledger.BankSend{To: env.Sender, Amount: nativeRefund})
	}

	oldNativeDeposit := new(big.Int).Set(info.NativeDeposit)
	info.Tier = newTier
	info.Timestamp = env.Now
	info.USDDeposit = newTierDeposit
	info.NativeDeposit.Add(info.NativeDeposit, nativeDeposit)
	if err := st.SetTierUserInfo(env.Sender, info); err != nil {
		return nil, nil, err
	}

	delegated := new(big.Int).Sub(info.NativeDeposit, oldNativeDeposit)
	ops = append(ops, ledger.Delegate{
		Validator: cfg.Validator,
		Amount:    delegated,
	})

	result := DepositResult{
		USDDeposit:    new(big.Int).Set(info.USDDeposit),
		NativeDeposit: new(big.Int).Set(info.NativeDeposit),
		Tier:          newTier,
	}
	return result, ops, nil
}

func (r *Runtime) withdrawFromTier(st *state.State, env Env) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertActive(cfg); err != nil {
		return nil, nil, err
	}

	info, ok, err := st.TierUserInfo(env.Sender)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		info = state.NewTierUserInfo(cfg.MinTier())
	}

	amount := new(big.Int).Set(info.NativeDeposit)
	st.DeleteTierUserInfo(env.Sender)

	claimTime := env.Now + UnbondLatency
	withdrawals, err := st.Withdrawals(env.Sender)
	if err != nil {
		return nil, nil, err
	}
	withdrawals = append(withdrawals, state.UserWithdrawal{
		Amount:    amount,
		Timestamp: env.Now,
		ClaimTime: claimTime,
	})
	if err := st.SetWithdrawals(env.Sender, withdrawals); err != nil {
		return nil, nil, err
	}

	unbond := new(big.Int).Sub(amount, undelegateBuffer)
	if unbond.Sign() < 0 {
		return nil, nil, errors.Errorf("deposit %s is too small to unbond", amount)
	}
	ops := []ledger.Op{ledger.Undelegate{
		Validator: cfg.Validator,
		Amount:    unbond,
	}}

	result := WithdrawFromTierResult{
		Amount:    new(big.Int).Set(amount),
		ClaimTime: claimTime,
	}
	return result, ops, nil
}

func (r *Runtime) withdrawRewards(st *state.State, env Env) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertAdmin(cfg, env.Sender); err != nil {
		return nil, nil, err
	}

	rewards := new(big.Int)
	delegation, err := r.staking.Delegation(cfg.Validator)
	if err != nil {
		return nil, nil, err
	}
	if delegation != nil {
		for _, coin := range delegation.Rewards {
			rewards.Add(rewards, coin.Amount)
		}
	}
	if rewards.Sign() == 0 {
		return nil, nil, errors.New("there is nothing to withdraw")
	}

	ops := []ledger.Op{ledger.WithdrawRewards{Validator: cfg.Validator}}
	return WithdrawRewardsResult{Amount: rewards}, ops, nil
}

func (r *Runtime) redelegate(st *state.State, env Env, cmd Redelegate) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertAdmin(cfg, env.Sender); err != nil {
		return nil, nil, err
	}

	oldValidator := cfg.Validator
	if oldValidator == cmd.NewValidator {
		return nil, nil, errors.New("redelegation to the same validator")
	}

	delegation, err := r.staking.Delegation(oldValidator)
	if err != nil {
		return nil, nil, err
	}

	cfg.Validator = cmd.NewValidator
	if err := st.SetConfig(cfg); err != nil {
		return nil, nil, err
	}

	// Nothing delegated yet, only the validator changes.
	if delegation == nil {
		return RedelegateResult{Amount: new(big.Int)}, nil, nil
	}

	if delegation.CanRedelegate.Cmp(delegation.Amount) != 0 {
		return nil, nil, errors.New("cannot redelegate full delegation amount")
	}

	var ops []ledger.Op
	rewards := new(big.Int)
	for _, coin := range delegation.Rewards {
		rewards.Add(rewards, coin.Amount)
	}
	if rewards.Sign() > 0 {
		ops = append(ops, ledger.WithdrawRewards{Validator: oldValidator})
	}
	ops = append(ops, ledger.Redelegate{
		From:   oldValidator,
		To:     cmd.NewValidator,
		Amount: new(big.Int).Set(delegation.CanRedelegate),
	})

	return RedelegateResult{Amount: new(big.Int).Set(delegation.CanRedelegate)}, ops, nil
}
