// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contract

import (
	"github.com/idohub/launchpad/launch"
	"github.com/idohub/launchpad/ledger"
	"github.com/idohub/launchpad/state"
)

func (r *Runtime) setWhitelist(st *state.State, env Env, id uint32, addresses []launch.Address, allowed bool) (any, []ledger.Op, error) {
	cfg, err := st.Config()
	if err != nil {
		return nil, nil, err
	}
	if err := assertActive(cfg); err != nil {
		return nil, nil, err
	}

	ido, ok, err := st.Ido(id)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrSaleNotFound
	}
	if env.Sender != ido.Admin {
		return nil, nil, ErrUnauthorized
	}

	for _, addr := range addresses {
		if err := st.SetWhitelist(id, addr, allowed); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

// isAllowed resolves the whitelist status of a buyer: the explicit flag if
// present, else the sale's shared default.
func isAllowed(st *state.State, id uint32, ido *state.Ido, addr launch.Address) (bool, error) {
	flag, ok, err := st.Whitelist(id, addr)
	if err != nil {
		return false, err
	}
	if ok {
		return flag, nil
	}
	return ido.SharedWhitelist, nil
}
