package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/ofarouk/deskhub/internal/domain/session"
	"github.com/ofarouk/deskhub/internal/domain/subscription"
)

// sessionResponse joins a session with its lines the way the UI shows
// them.
type sessionResponse struct {
	session.Session
	Items []session.Line `json:"items"`
}

func (a *API) handleListActiveSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := a.svc.Sessions.ListActive(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, sessions)
}

func (a *API) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customerId"`
		ResourceID string `json:"resourceId"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	sess, err := a.svc.Sessions.Start(r.Context(), req.CustomerID, req.ResourceID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, sess)
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, lines, err := a.svc.Sessions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, sessionResponse{Session: *sess, Items: lines})
}

func (a *API) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sess, invoiceID, err := a.svc.Sessions.End(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, struct {
		session.Session
		InvoiceID string `json:"invoiceId"`
	}{Session: *sess, InvoiceID: invoiceID})
}

func (a *API) handleAttachItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.svc.Sessions.AttachItem(r.Context(), mux.Vars(r)["id"], req.ItemID, req.Quantity); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSetItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	vars := mux.Vars(r)
	if err := a.svc.Sessions.SetItemQuantity(r.Context(), vars["id"], vars["itemId"], req.Quantity); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDetachItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := a.svc.Sessions.DetachItem(r.Context(), vars["id"], vars["itemId"]); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := a.svc.Subscriptions.List(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, subs)
}

func (a *API) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string            `json:"customerId"`
		Plan       subscription.Plan `json:"plan"`
		Price      decimal.Decimal   `json:"price"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	sub, err := a.svc.Subscriptions.Subscribe(r.Context(), req.CustomerID, req.Plan, req.Price)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, sub)
}

func (a *API) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := a.svc.Subscriptions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, sub)
}

func (a *API) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Subscriptions.Cancel(r.Context(), mux.Vars(r)["id"]); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
