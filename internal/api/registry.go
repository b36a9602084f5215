package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/domain/customer"
	"github.com/ofarouk/deskhub/internal/domain/inventory"
	"github.com/ofarouk/deskhub/internal/domain/resource"
)

// Customer, resource, and inventory handlers: plain CRUD over the
// collaborator registries.

func (a *API) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := a.svc.Customers.List(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, customers)
}

func (a *API) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Phone string  `json:"phone"`
		Email *string `json:"email"`
		Notes *string `json:"notes"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	c, err := a.svc.Customers.Create(r.Context(), req.Name, req.Phone, req.Email, req.Notes)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, c)
}

func (a *API) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := a.svc.Customers.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, c)
}

func (a *API) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var patch customer.Patch
	if !a.decode(w, r, &patch) {
		return
	}

	c, err := a.svc.Customers.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, c)
}

func (a *API) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Customers.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleCustomerSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := a.svc.Subscriptions.ListByCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, subs)
}

func (a *API) handleListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := a.svc.Resources.List(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, resources)
}

func (a *API) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string          `json:"name"`
		Type       resource.Type   `json:"type"`
		HourlyRate decimal.Decimal `json:"hourlyRate"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	res, err := a.svc.Resources.Create(r.Context(), req.Name, req.Type, req.HourlyRate)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, res)
}

func (a *API) handleGetResource(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Resources.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, res)
}

func (a *API) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	var patch resource.Patch
	if !a.decode(w, r, &patch) {
		return
	}

	res, err := a.svc.Resources.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, res)
}

func (a *API) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Resources.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := a.svc.Inventory.List(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, items)
}

func (a *API) handleListLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := a.svc.Inventory.ListLowStock(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, items)
}

func (a *API) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string          `json:"name"`
		Category  string          `json:"category"`
		UnitPrice decimal.Decimal `json:"unitPrice"`
		Quantity  int             `json:"quantity"`
		MinStock  int             `json:"minStock"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	item, err := a.svc.Inventory.Create(r.Context(), req.Name, req.Category, req.UnitPrice, req.Quantity, req.MinStock)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, item)
}

func (a *API) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := a.svc.Inventory.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, item)
}

func (a *API) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch inventory.Patch
	if !a.decode(w, r, &patch) {
		return
	}

	item, err := a.svc.Inventory.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, item)
}

func (a *API) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Inventory.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRestockItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	item, err := a.svc.Inventory.Restock(r.Context(), mux.Vars(r)["id"], req.Delta)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, item)
}
