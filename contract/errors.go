// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"math/big"

	"github.com/pkg/errors"
)

// Precondition failures surfaced to callers. Validation errors carry the
// violated constraint verbatim; authorization failures stay generic.
var (
	ErrInactive         = errors.New("contract is not active")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNothingToClaim   = errors.New("nothing to claim")
	ErrNothingToReceive = errors.New("nothing to receive")
	ErrMaxTierReached   = errors.New("reached max tier")
	ErrAlreadyWithdrawn = errors.New("already withdrawn")
	ErrSaleNotFound     = errors.New("sale does not exist")

	ErrAlreadyInitialized = errors.New("config already initialized")
	ErrUnknownCommand     = errors.New("unknown command")
)

func errOverAllocation(remaining *big.Int) error {
	return errors.Errorf("you cannot buy more than %s tokens", remaining)
}

func errInsufficientDeposit(usd, native *big.Int) error {
	return errors.Errorf("you should deposit at least %s USD (%s native)", usd, native)
}
