// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tiers exposes the tier ladder and unbonding queues over REST.
package tiers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/idohub/launchpad/api/restutil"
	"github.com/idohub/launchpad/contract"
	"github.com/idohub/launchpad/launch"
)

type Tiers struct {
	runtime *contract.Runtime
}

func New(runtime *contract.Runtime) *Tiers {
	return &Tiers{runtime: runtime}
}

func parseAddress(raw string) (launch.Address, error) {
	addr, err := launch.ParseAddress(raw)
	if err != nil {
		return launch.Address{}, restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func (t *Tiers) handleGetUserInfo(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	info, err := t.runtime.QueryTierUserInfo(addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, info)
}

func (t *Tiers) handleGetWithdrawals(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	start, limit, err := restutil.ParsePaging(req)
	if err != nil {
		return err
	}
	page, err := t.runtime.QueryWithdrawals(addr, start, limit)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, page)
}

func (t *Tiers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(t.handleGetUserInfo))
	sub.Path("/{address}/withdrawals").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(t.handleGetWithdrawals))
}
