// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"math/big"

	"github.com/idohub/launchpad/ledger"
	"github.com/idohub/launchpad/state"
)

// claimDefaultLimit caps the withdrawal window scanned per Claim call when
// the caller does not supply one.
const claimDefaultLimit = 50

func (r *Runtime) claim(st *state.State, env Env, cmd Claim) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertActive(cfg); err != nil {
		return nil, nil, err
	}

	withdrawals, err := st.Withdrawals(env.Sender)
	if err != nil {
		return nil, nil, err
	}
	if len(withdrawals) == 0 {
		return nil, nil, ErrNothingToClaim
	}

	limit := cmd.Limit
	if limit == 0 {
		limit = claimDefaultLimit
	}

	var indices []int
	claimAmount := new(big.Int)
	end := min(uint64(cmd.Start)+uint64(limit), uint64(len(withdrawals)))
	for i := uint64(cmd.Start); i < end; i++ {
		if env.Now >= withdrawals[i].ClaimTime {
			indices = append(indices, int(i))
			claimAmount.Add(claimAmount, withdrawals[i].Amount)
		}
	}
	if claimAmount.Sign() == 0 {
		return nil, nil, ErrNothingToClaim
	}

	withdrawals = compact(withdrawals, indices, nil)
	if err := st.SetWithdrawals(env.Sender, withdrawals); err != nil {
		return nil, nil, err
	}

	recipient := env.Sender
	if cmd.Recipient != nil {
		recipient = *cmd.Recipient
	}
	ops := []ledger.Op{ledger.BankSend{To: recipient, Amount: claimAmount}}
	return ClaimResult{Amount: claimAmount}, ops, nil
}
