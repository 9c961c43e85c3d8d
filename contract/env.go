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
)

// Env carries the per-call facts supplied by the host. Now is the host
// timestamp in seconds and never moves during a call.
type Env struct {
	Sender launch.Address
	Now    uint64
	Funds  []ledger.Coin
}

// receivedNative validates and returns the attached native funds.
// Exactly one non-zero native coin is accepted.
func (e *Env) receivedNative() (*big.Int, error) {
	if len(e.Funds) == 0 {
		return nil, errors.New("no funds")
	}
	if len(e.Funds) > 1 {
		return nil, errors.New("multiple funds are not allowed")
	}
	received := e.Funds[0]
	if received.Denom != launch.NativeDenom {
		return nil, errors.Errorf("unsupported denom %q", received.Denom)
	}
	if received.Amount == nil || received.Amount.Sign() <= 0 {
		return nil, errors.New("zero amount is not allowed")
	}
	return received.Amount, nil
}
