package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/domain/invoice"
)

// invoiceResponse joins an invoice with its items and payment history.
type invoiceResponse struct {
	invoice.Invoice
	Items    []invoice.Item    `json:"items"`
	Payments []invoice.Payment `json:"payments"`
}

func (a *API) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := a.svc.Invoices.List(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, invoices)
}

func (a *API) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string              `json:"customerId"`
		Items      []invoice.ItemInput `json:"items"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	inv, err := a.svc.Invoices.Create(r.Context(), req.CustomerID, req.Items)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, inv)
}

func (a *API) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, items, payments, err := a.svc.Invoices.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, invoiceResponse{Invoice: *inv, Items: items, Payments: payments})
}

func (a *API) handleApplyPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
		Method invoice.Method  `json:"method"`
		Notes  string          `json:"notes"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	inv, err := a.svc.Invoices.ApplyPayment(r.Context(), mux.Vars(r)["id"], req.Amount, req.Method, req.Notes)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, inv)
}

func (a *API) handleApplyBulkPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceIDs []string        `json:"invoiceIds"`
		Amount     decimal.Decimal `json:"amount"`
		Method     invoice.Method  `json:"method"`
		Notes      string          `json:"notes"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	applied, err := a.svc.Invoices.ApplyBulkPayment(r.Context(), req.InvoiceIDs, req.Amount, req.Method, req.Notes)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"applied": applied})
}

func (a *API) handleCancelInvoice(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Invoices.Cancel(r.Context(), mux.Vars(r)["id"]); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	raw, err := a.svc.Settings.Get(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, raw)
}

func (a *API) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !a.decode(w, r, &raw) {
		return
	}

	if err := a.svc.Settings.Save(r.Context(), raw); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := a.svc.Reports.Dashboard(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, metrics)
}
