// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"math/big"

	"github.com/idohub/launchpad/launch"
)

// Command is a state-changing call. The concrete types below are the only
// implementations; Execute matches them exhaustively.
type Command interface {
	isCommand()
}

// ChangeAdmin hands the contract over to a new admin.
type ChangeAdmin struct {
	Admin launch.Address
}

// ChangeStatus switches the contract between active and stopped.
type ChangeStatus struct {
	Status launch.ContractStatus
}

// WhitelistSpec is the whitelist policy of a new sale. With closed policy
// Addresses are the explicitly allowed buyers; with shared policy they are
// the explicitly blocked ones.
type WhitelistSpec struct {
	Policy    launch.WhitelistPolicy
	Addresses []launch.Address
}

// StartIdo creates a new sale owned by the caller.
type StartIdo struct {
	StartTime     uint64
	EndTime       uint64
	TokenContract launch.Address
	Price         *big.Int
	SoftCap       *big.Int
	TotalTokens   *big.Int
	TokensPerTier []*big.Int
	Payment       launch.PaymentMethod
	Whitelist     WhitelistSpec
}

// WhitelistAdd sets explicit allow flags for addresses of a sale.
type WhitelistAdd struct {
	IdoID     uint32
	Addresses []launch.Address
}

// WhitelistRemove sets explicit deny flags for addresses of a sale.
type WhitelistRemove struct {
	IdoID     uint32
	Addresses []launch.Address
}

// BuyTokens purchases sale tokens. For native-payment sales the purchase
// amount is derived from the attached funds and Amount is ignored.
type BuyTokens struct {
	IdoID  uint32
	Amount *big.Int
}

// RecvTokens releases the caller's unlocked purchases of a sale, or refunds
// the caller when the sale missed its soft cap.
type RecvTokens struct {
	IdoID   uint32
	Start   uint32
	Limit   uint32
	Indices []uint32
}

// Withdraw settles an ended sale for its creator.
type Withdraw struct {
	IdoID uint32
}

// Deposit adds the attached native funds to the caller's tier ladder position.
type Deposit struct{}

// WithdrawFromTier leaves the tier ladder and starts unbonding the deposit.
type WithdrawFromTier struct{}

// Claim pays out the caller's matured unbonding entries.
type Claim struct {
	Recipient *launch.Address
	Start     uint32
	Limit     uint32
}

// WithdrawRewards claims the accrued staking rewards. Admin only.
type WithdrawRewards struct {
	Recipient *launch.Address
}

// Redelegate moves the contract stake to a new validator. Admin only.
type Redelegate struct {
	NewValidator launch.Address
	Recipient    *launch.Address
}

func (ChangeAdmin) isCommand()      {}
func (ChangeStatus) isCommand()     {}
func (StartIdo) isCommand()         {}
func (WhitelistAdd) isCommand()     {}
func (WhitelistRemove) isCommand()  {}
func (BuyTokens) isCommand()        {}
func (RecvTokens) isCommand()       {}
func (Withdraw) isCommand()         {}
func (Deposit) isCommand()          {}
func (WithdrawFromTier) isCommand() {}
func (Claim) isCommand()            {}
func (WithdrawRewards) isCommand()  {}
func (Redelegate) isCommand()       {}

// Results of the commands that report more than success.

// StartIdoResult reports the id assigned to the new sale.
type StartIdoResult struct {
	IdoID uint32
}

// BuyTokensResult reports the purchased amount and its unlock time.
type BuyTokensResult struct {
	Amount     *big.Int
	UnlockTime uint64
}

// RecvTokensResult reports the released or refunded amount.
type RecvTokensResult struct {
	Amount      *big.Int
	SaleSuccess bool
}

// WithdrawResult reports the creator's returned tokens and payment.
type WithdrawResult struct {
	TokensAmount  *big.Int
	PaymentAmount *big.Int
}

// DepositResult reports the depositor's new ladder position.
type DepositResult struct {
	USDDeposit    *big.Int
	NativeDeposit *big.Int
	Tier          uint8
}

// WithdrawFromTierResult reports the unbonding entry created.
type WithdrawFromTierResult struct {
	Amount    *big.Int
	ClaimTime uint64
}

// ClaimResult reports the total paid out.
type ClaimResult struct {
	Amount *big.Int
}

// WithdrawRewardsResult reports the claimed rewards.
type WithdrawRewardsResult struct {
	Amount *big.Int
}

// RedelegateResult reports the moved stake.
type RedelegateResult struct {
	Amount *big.Int
}
