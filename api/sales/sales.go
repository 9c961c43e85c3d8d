// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sales exposes the sale registry over REST.
package sales

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/idohub/launchpad/api/restutil"
	"github.com/idohub/launchpad/contract"
	"github.com/idohub/launchpad/launch"
)

type Sales struct {
	runtime *contract.Runtime
}

func New(runtime *contract.Runtime) *Sales {
	return &Sales{runtime: runtime}
}

func parseSaleID(raw string) (uint32, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return uint32(id), nil
}

func parseAddress(raw string) (launch.Address, error) {
	addr, err := launch.ParseAddress(raw)
	if err != nil {
		return launch.Address{}, restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func (s *Sales) handleGetAmount(w http.ResponseWriter, _ *http.Request) error {
	count, err := s.runtime.QueryIdoAmount()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, map[string]uint32{"amount": count})
}

func (s *Sales) handleGetSale(w http.ResponseWriter, req *http.Request) error {
	id, err := parseSaleID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	info, err := s.runtime.QueryIdoInfo(id)
	if err != nil {
		if errors.Is(err, contract.ErrSaleNotFound) {
			return restutil.NotFound(err)
		}
		return err
	}
	return restutil.WriteJSON(w, info)
}

func (s *Sales) handleGetOwned(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	start, limit, err := restutil.ParsePaging(req)
	if err != nil {
		return err
	}
	ids, total, err := s.runtime.QueryIdoListOwnedBy(addr, start, limit)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, map[string]any{"total": total, "ids": ids})
}

func (s *Sales) handleGetWhitelist(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	id, err := parseSaleID(vars["id"])
	if err != nil {
		return err
	}
	addr, err := parseAddress(vars["address"])
	if err != nil {
		return err
	}
	allowed, err := s.runtime.QueryInWhitelist(id, addr)
	if err != nil {
		if errors.Is(err, contract.ErrSaleNotFound) {
			return restutil.NotFound(err)
		}
		return err
	}
	return restutil.WriteJSON(w, map[string]bool{"whitelisted": allowed})
}

func (s *Sales) handleGetPurchases(w http.ResponseWriter, req *http.Request) error {
	return s.servePurchases(w, req, s.runtime.QueryPurchases)
}

func (s *Sales) handleGetArchived(w http.ResponseWriter, req *http.Request) error {
	return s.servePurchases(w, req, s.runtime.QueryArchivedPurchases)
}

func (s *Sales) servePurchases(
	w http.ResponseWriter,
	req *http.Request,
	query func(launch.Address, uint32, uint32, uint32) (*contract.PurchasesPage, error),
) error {
	vars := mux.Vars(req)
	id, err := parseSaleID(vars["id"])
	if err != nil {
		return err
	}
	addr, err := parseAddress(vars["address"])
	if err != nil {
		return err
	}
	start, limit, err := restutil.ParsePaging(req)
	if err != nil {
		return err
	}
	page, err := query(addr, id, start, limit)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, page)
}

func (s *Sales) handleGetUserInfo(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	addr, err := parseAddress(vars["address"])
	if err != nil {
		return err
	}

	// a sale-scoped aggregate when the id is present, the global one otherwise
	if raw, ok := vars["id"]; ok {
		id, err := parseSaleID(raw)
		if err != nil {
			return err
		}
		info, err := s.runtime.QuerySaleUserInfo(addr, id)
		if err != nil {
			return err
		}
		return restutil.WriteJSON(w, info)
	}

	info, err := s.runtime.QueryUserInfo(addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, info)
}

func (s *Sales) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetAmount))
	sub.Path("/owned/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetOwned))
	sub.Path("/users/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetUserInfo))
	sub.Path("/{id}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetSale))
	sub.Path("/{id}/whitelist/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetWhitelist))
	sub.Path("/{id}/purchases/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPurchases))
	sub.Path("/{id}/archived/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetArchived))
	sub.Path("/{id}/users/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleGetUserInfo))
}
