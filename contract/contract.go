// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package contract implements the sale platform state machine.
//
// Every command runs one read-validate-mutate cycle against a staged state
// view and returns the ledger operations the host must apply afterwards.
// Nothing is persisted when a command fails.
package contract

import (
	"fmt"

	"github.com/idohub/launchpad/kv"
	"github.com/idohub/launchpad/launch"
	"github.com/idohub/launchpad/ledger"
	"github.com/idohub/launchpad/log"
	"github.com/idohub/launchpad/metrics"
	"github.com/idohub/launchpad/oracle"
	"github.com/idohub/launchpad/state"
)

var (
	logger = log.WithContext("pkg", "contract")

	metricCommandCount = metrics.LazyLoadCounterVec("contract_command_count", []string{"command", "success"})
)

// Runtime executes commands against the persistent store.
type Runtime struct {
	store   kv.Store
	oracle  oracle.PriceOracle
	staking ledger.Querier
}

// New creates a runtime over the given store and collaborators.
func New(store kv.Store, priceOracle oracle.PriceOracle, staking ledger.Querier) *Runtime {
	return &Runtime{
		store:   store,
		oracle:  priceOracle,
		staking: staking,
	}
}

// Initialize writes the initial config. It fails if the config already exists.
func (r *Runtime) Initialize(cfg *state.Config) error {
	st := state.New(r.store)
	if _, err := st.Config(); err == nil {
		return ErrAlreadyInitialized
	}
	if err := st.SetConfig(cfg); err != nil {
		return err
	}
	return st.Stage().Commit()
}

// Receipt is the outcome of a successful command.
type Receipt struct {
	// Data is the command-specific result, one of the Result types.
	Data any
	// Ops are the ledger operations to apply, in order.
	Ops []ledger.Op
}

// Execute runs one command atomically. State mutations are committed only
// when the command succeeds; on error the store is left untouched.
func (r *Runtime) Execute(env Env, cmd Command) (*Receipt, error) {
	st := state.New(r.store)

	data, ops, err := r.dispatch(st, env, cmd)

	name := commandName(cmd)
	metricCommandCount().AddWithLabel(1, map[string]string{"command": name, "success": fmt.Sprintf("%t", err == nil)})

	if err != nil {
		logger.Debug("command failed", "command", name, "sender", env.Sender, "err", err)
		return nil, err
	}

	if err := st.Stage().Commit(); err != nil {
		return nil, err
	}
	logger.Debug("command executed", "command", name, "sender", env.Sender, "ops", len(ops))
	return &Receipt{Data: data, Ops: ops}, nil
}

func (r *Runtime) dispatch(st *state.State, env Env, cmd Command) (any, []ledger.Op, error) {
	switch cmd := cmd.(type) {
	case ChangeAdmin:
		return r.changeAdmin(st, env, cmd)
	case ChangeStatus:
		return r.changeStatus(st, env, cmd)
	case StartIdo:
		return r.startIdo(st, env, cmd)
	case WhitelistAdd:
		return r.setWhitelist(st, env, cmd.IdoID, cmd.Addresses, true)
	case WhitelistRemove:
		return r.setWhitelist(st, env, cmd.IdoID, cmd.Addresses, false)
	case BuyTokens:
		return r.buyTokens(st, env, cmd)
	case RecvTokens:
		return r.recvTokens(st, env, cmd)
	case Withdraw:
		return r.withdraw(st, env, cmd)
	case Deposit:
		return r.deposit(st, env)
	case WithdrawFromTier:
		return r.withdrawFromTier(st, env)
	case Claim:
		return r.claim(st, env, cmd)
	case WithdrawRewards:
		return r.withdrawRewards(st, env)
	case Redelegate:
		return r.redelegate(st, env, cmd)
	default:
		return nil, nil, ErrUnknownCommand
	}
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case ChangeAdmin:
		return "change_admin"
	case ChangeStatus:
		return "change_status"
	case StartIdo:
		return "start_ido"
	case WhitelistAdd:
		return "whitelist_add"
	case WhitelistRemove:
		return "whitelist_remove"
	case BuyTokens:
		return "buy_tokens"
	case RecvTokens:
		return "recv_tokens"
	case Withdraw:
		return "withdraw"
	case Deposit:
		return "deposit"
	case WithdrawFromTier:
		return "withdraw_from_tier"
	case Claim:
		return "claim"
	case WithdrawRewards:
		return "withdraw_rewards"
	case Redelegate:
		return "redelegate"
	default:
		return "unknown"
	}
}

func (r *Runtime) changeAdmin(st *state.State, env Env, cmd ChangeAdmin) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertAdmin(cfg, env.Sender); err != nil {
		return nil, nil, err
	}

	cfg.Admin = cmd.Admin
	if err := st.SetConfig(cfg); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func (r *Runtime) changeStatus(st *state.State, env Env, cmd ChangeStatus) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertAdmin(cfg, env.Sender); err != nil {
		return nil, nil, err
	}

	cfg.Status = cmd.Status
	if err := st.SetConfig(cfg); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func assertActive(cfg *state.Config) error {
	if cfg.Status != launch.StatusActive {
		return ErrInactive
	}
	return nil
}

func assertAdmin(cfg *state.Config, sender launch.Address) error {
	if sender != cfg.Admin {
		return ErrUnauthorized
	}
	return nil
}
