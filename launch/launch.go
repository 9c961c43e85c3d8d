// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package launch defines the base types shared across the launchpad state machine.
package launch

import "math/big"

// NativeDenom is the denomination of the chain native token.
const NativeDenom = "native"

// USDDecimals is the number of decimal places of USD amounts.
const USDDecimals = 18

// OneUSD is one USD in the smallest USD denomination.
var OneUSD = new(big.Int).Exp(big.NewInt(10), big.NewInt(USDDecimals), nil)

// ContractStatus is the running status of the whole contract.
type ContractStatus uint8

const (
	// StatusActive accepts all commands.
	StatusActive ContractStatus = iota
	// StatusStopped rejects every state-changing command.
	StatusStopped
)

// String implements the stringer interface.
func (s ContractStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// PaymentKind tags the payment method of a sale.
type PaymentKind uint8

const (
	// PaymentNative pays with the chain native token.
	PaymentNative PaymentKind = iota
	// PaymentToken pays with a token contract.
	PaymentToken
)

// PaymentMethod is the tagged payment method of a sale. For PaymentToken the
// Token field holds the payment token contract address.
type PaymentMethod struct {
	Kind  PaymentKind
	Token Address
}

// NativePayment returns the native payment method.
func NativePayment() PaymentMethod {
	return PaymentMethod{Kind: PaymentNative}
}

// TokenPayment returns a token contract payment method.
func TokenPayment(token Address) PaymentMethod {
	return PaymentMethod{Kind: PaymentToken, Token: token}
}

// IsNative returns true when the sale is paid in the native token.
func (p PaymentMethod) IsNative() bool {
	return p.Kind == PaymentNative
}

// WhitelistPolicy tags the shared-whitelist fallback of a sale.
type WhitelistPolicy uint8

const (
	// WhitelistClosed restricts the sale to explicitly allowed addresses.
	WhitelistClosed WhitelistPolicy = iota
	// WhitelistShared opens the sale to everyone not explicitly blocked.
	WhitelistShared
)
