// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger describes the fund movements a contract call asks the host
// chain to perform, plus the staking facts the contract reads back.
//
// Execution never touches balances directly. Every command returns an ordered
// list of Ops, and the host applies them only after the state commit succeeds.
package ledger

import (
	"math/big"

	"github.com/idohub/launchpad/launch"
)

// Coin is an amount of a single denomination.
type Coin struct {
	Denom  string
	Amount *big.Int
}

// NewNativeCoin returns a coin of the chain native denomination.
func NewNativeCoin(amount *big.Int) Coin {
	return Coin{Denom: launch.NativeDenom, Amount: amount}
}

// Op is one requested fund movement. The concrete types below are the only
// implementations.
type Op interface {
	isOp()
}

// TokenTransfer moves contract-managed tokens between two holders.
type TokenTransfer struct {
	Token  launch.Address
	From   launch.Address
	To     launch.Address
	Amount *big.Int
}

// BankSend pays native coins from the contract account to a recipient.
type BankSend struct {
	To     launch.Address
	Amount *big.Int
}

// Delegate bonds native coins from the contract account to a validator.
type Delegate struct {
	Validator launch.Address
	Amount    *big.Int
}

// Undelegate starts unbonding native coins from a validator.
type Undelegate struct {
	Validator launch.Address
	Amount    *big.Int
}

// Redelegate moves a bonded stake between validators.
type Redelegate struct {
	From   launch.Address
	To     launch.Address
	Amount *big.Int
}

// WithdrawRewards claims the accrued staking rewards from a validator.
type WithdrawRewards struct {
	Validator launch.Address
}

func (TokenTransfer) isOp()   {}
func (BankSend) isOp()        {}
func (Delegate) isOp()        {}
func (Undelegate) isOp()      {}
func (Redelegate) isOp()      {}
func (WithdrawRewards) isOp() {}

// Delegation is the bonded position of the contract with one validator.
type Delegation struct {
	Validator     launch.Address
	Amount        *big.Int
	CanRedelegate *big.Int
	Rewards       []Coin
}

// Querier reads staking facts from the host chain.
type Querier interface {
	// Delegation returns the contract's delegation with the validator,
	// or nil when there is none.
	Delegation(validator launch.Address) (*Delegation, error)
}
