package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ofarouk/deskhub/internal/domain/customer"
	"github.com/ofarouk/deskhub/internal/domain/inventory"
	"github.com/ofarouk/deskhub/internal/domain/invoice"
	"github.com/ofarouk/deskhub/internal/domain/report"
	"github.com/ofarouk/deskhub/internal/domain/resource"
	"github.com/ofarouk/deskhub/internal/domain/session"
	"github.com/ofarouk/deskhub/internal/domain/settings"
	"github.com/ofarouk/deskhub/internal/domain/subscription"
	"github.com/ofarouk/deskhub/internal/sqlite"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	customerRepo := sqlite.NewCustomerRepository(db)
	resourceRepo := sqlite.NewResourceRepository(db)
	inventoryRepo := sqlite.NewInventoryRepository(db)
	subscriptionRepo := sqlite.NewSubscriptionRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	invoiceRepo := sqlite.NewInvoiceRepository(db)

	invoiceSvc := invoice.NewService(db, invoiceRepo, customerRepo, logger)
	server := New(Services{
		Customers:     customer.NewService(db, customerRepo, logger),
		Resources:     resource.NewService(db, resourceRepo, logger),
		Inventory:     inventory.NewService(db, inventoryRepo, logger),
		Subscriptions: subscription.NewService(db, subscriptionRepo, customerRepo, logger),
		Sessions: session.NewService(db, sessionRepo, resourceRepo, inventoryRepo,
			subscriptionRepo, customerRepo, invoiceSvc, logger),
		Invoices: invoiceSvc,
		Settings: settings.NewService(sqlite.NewSettingsRepository(db), logger),
		Reports:  report.NewService(sqlite.NewReportRepository(db)),
	}, logger)

	return server.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	h := newTestAPI(t)

	w := doJSON(t, h, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestCustomerEndpoints(t *testing.T) {
	h := newTestAPI(t)

	w := doJSON(t, h, "POST", "/api/customers", map[string]string{
		"name": "Omar", "phone": "01012345678",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID      string `json:"id"`
		HumanID string `json:"humanId"`
	}
	decodeBody(t, w, &created)
	require.Equal(t, "C-001", created.HumanID)

	w = doJSON(t, h, "GET", "/api/customers/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Duplicates map to 409
	w = doJSON(t, h, "POST", "/api/customers", map[string]string{
		"name": "Omar", "phone": "01000000000",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Missing name maps to 400
	w = doJSON(t, h, "POST", "/api/customers", map[string]string{
		"phone": "01011111111",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown IDs map to 404
	w = doJSON(t, h, "GET", "/api/customers/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, "DELETE", "/api/customers/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestSessionFlowOverHTTP(t *testing.T) {
	h := newTestAPI(t)

	var c struct {
		ID string `json:"id"`
	}
	w := doJSON(t, h, "POST", "/api/customers", map[string]string{
		"name": "Omar", "phone": "01012345678",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeBody(t, w, &c)

	var r struct {
		ID string `json:"id"`
	}
	w = doJSON(t, h, "POST", "/api/resources", map[string]any{
		"name": "Desk 1", "type": "desk", "hourlyRate": "50",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeBody(t, w, &r)

	var item struct {
		ID string `json:"id"`
	}
	w = doJSON(t, h, "POST", "/api/inventory", map[string]any{
		"name": "Coffee", "category": "drinks", "unitPrice": "10.00", "quantity": 10, "minStock": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeBody(t, w, &item)

	var sess struct {
		ID string `json:"id"`
	}
	w = doJSON(t, h, "POST", "/api/sessions", map[string]string{
		"customerId": c.ID, "resourceId": r.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeBody(t, w, &sess)

	// Starting a second session on the same desk conflicts
	w = doJSON(t, h, "POST", "/api/sessions", map[string]string{
		"customerId": c.ID, "resourceId": r.ID,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, h, "POST", "/api/sessions/"+sess.ID+"/items", map[string]any{
		"itemId": item.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	var ended struct {
		Status    string `json:"status"`
		InvoiceID string `json:"invoiceId"`
	}
	w = doJSON(t, h, "POST", "/api/sessions/"+sess.ID+"/end", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &ended)
	require.Equal(t, "completed", ended.Status)
	require.NotEmpty(t, ended.InvoiceID)

	var inv struct {
		Number string `json:"number"`
		Items  []struct {
			Description string `json:"description"`
		} `json:"items"`
	}
	w = doJSON(t, h, "GET", "/api/invoices/"+ended.InvoiceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &inv)
	require.Equal(t, "INV-0001", inv.Number)
	require.Len(t, inv.Items, 2)

	w = doJSON(t, h, "POST", "/api/invoices/"+ended.InvoiceID+"/payments", map[string]any{
		"amount": "20.00", "method": "cash",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var paid struct {
		Status string `json:"status"`
	}
	decodeBody(t, w, &paid)
	require.Equal(t, "partially_paid", paid.Status)
}

func TestSettingsRoundTrip(t *testing.T) {
	h := newTestAPI(t)

	w := doJSON(t, h, "GET", "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "{}", w.Body.String())

	w = doJSON(t, h, "PUT", "/api/settings", map[string]string{"venueName": "DeskHub"})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, "GET", "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"venueName":"DeskHub"}`, w.Body.String())
}

func TestDashboard(t *testing.T) {
	h := newTestAPI(t)

	w := doJSON(t, h, "GET", "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var metrics map[string]any
	decodeBody(t, w, &metrics)
	require.Contains(t, metrics, "activeSessions")
}
