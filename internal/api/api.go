// Package api exposes the application over HTTP for the desk UI.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/ofarouk/deskhub/internal/domain/customer"
	"github.com/ofarouk/deskhub/internal/domain/inventory"
	"github.com/ofarouk/deskhub/internal/domain/invoice"
	"github.com/ofarouk/deskhub/internal/domain/report"
	"github.com/ofarouk/deskhub/internal/domain/resource"
	"github.com/ofarouk/deskhub/internal/domain/session"
	"github.com/ofarouk/deskhub/internal/domain/settings"
	"github.com/ofarouk/deskhub/internal/domain/subscription"
)

// Services bundles the domain services the API serves.
type Services struct {
	Customers     *customer.Service
	Resources     *resource.Service
	Inventory     *inventory.Service
	Subscriptions *subscription.Service
	Sessions      *session.Service
	Invoices      *invoice.Service
	Settings      *settings.Service
	Reports       *report.Service
}

type API struct {
	router *mux.Router
	svc    Services
	logger *slog.Logger
}

func New(svc Services, logger *slog.Logger) *API {
	a := &API{
		router: mux.NewRouter(),
		svc:    svc,
		logger: logger,
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.HandleFunc("/health", a.handleHealth).Methods("GET")

	r := a.router.PathPrefix("/api").Subrouter()

	r.HandleFunc("/customers", a.handleListCustomers).Methods("GET")
	r.HandleFunc("/customers", a.handleCreateCustomer).Methods("POST")
	r.HandleFunc("/customers/{id}", a.handleGetCustomer).Methods("GET")
	r.HandleFunc("/customers/{id}", a.handleUpdateCustomer).Methods("PATCH")
	r.HandleFunc("/customers/{id}", a.handleDeleteCustomer).Methods("DELETE")
	r.HandleFunc("/customers/{id}/subscriptions", a.handleCustomerSubscriptions).Methods("GET")

	r.HandleFunc("/resources", a.handleListResources).Methods("GET")
	r.HandleFunc("/resources", a.handleCreateResource).Methods("POST")
	r.HandleFunc("/resources/{id}", a.handleGetResource).Methods("GET")
	r.HandleFunc("/resources/{id}", a.handleUpdateResource).Methods("PATCH")
	r.HandleFunc("/resources/{id}", a.handleDeleteResource).Methods("DELETE")

	r.HandleFunc("/inventory", a.handleListInventory).Methods("GET")
	r.HandleFunc("/inventory", a.handleCreateItem).Methods("POST")
	r.HandleFunc("/inventory/low-stock", a.handleListLowStock).Methods("GET")
	r.HandleFunc("/inventory/{id}", a.handleGetItem).Methods("GET")
	r.HandleFunc("/inventory/{id}", a.handleUpdateItem).Methods("PATCH")
	r.HandleFunc("/inventory/{id}", a.handleDeleteItem).Methods("DELETE")
	r.HandleFunc("/inventory/{id}/restock", a.handleRestockItem).Methods("POST")

	r.HandleFunc("/subscriptions", a.handleListSubscriptions).Methods("GET")
	r.HandleFunc("/subscriptions", a.handleSubscribe).Methods("POST")
	r.HandleFunc("/subscriptions/{id}", a.handleGetSubscription).Methods("GET")
	r.HandleFunc("/subscriptions/{id}/cancel", a.handleCancelSubscription).Methods("POST")

	r.HandleFunc("/sessions", a.handleListActiveSessions).Methods("GET")
	r.HandleFunc("/sessions", a.handleStartSession).Methods("POST")
	r.HandleFunc("/sessions/{id}", a.handleGetSession).Methods("GET")
	r.HandleFunc("/sessions/{id}/end", a.handleEndSession).Methods("POST")
	r.HandleFunc("/sessions/{id}/items", a.handleAttachItem).Methods("POST")
	r.HandleFunc("/sessions/{id}/items/{itemId}", a.handleSetItemQuantity).Methods("PUT")
	r.HandleFunc("/sessions/{id}/items/{itemId}", a.handleDetachItem).Methods("DELETE")

	r.HandleFunc("/invoices", a.handleListInvoices).Methods("GET")
	r.HandleFunc("/invoices", a.handleCreateInvoice).Methods("POST")
	r.HandleFunc("/invoices/{id}", a.handleGetInvoice).Methods("GET")
	r.HandleFunc("/invoices/{id}/payments", a.handleApplyPayment).Methods("POST")
	r.HandleFunc("/invoices/{id}/cancel", a.handleCancelInvoice).Methods("POST")
	r.HandleFunc("/payments/bulk", a.handleApplyBulkPayment).Methods("POST")

	r.HandleFunc("/settings", a.handleGetSettings).Methods("GET")
	r.HandleFunc("/settings", a.handleSaveSettings).Methods("PUT")

	r.HandleFunc("/dashboard", a.handleDashboard).Methods("GET")
}

// Handler returns the CORS-wrapped root handler. The UI is served from
// a different origin in development, so all origins are allowed.
func (a *API) Handler() http.Handler {
	corsOptions := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	return cors.New(corsOptions).Handler(a.router)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
