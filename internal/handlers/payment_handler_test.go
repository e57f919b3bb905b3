package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lTzHorus/Carne/internal/domain"
	"github.com/lTzHorus/Carne/internal/handlers"
	"github.com/lTzHorus/Carne/internal/repository"
	"github.com/lTzHorus/Carne/internal/service"
)

// errStoreDown stands in for a raw driver error; its text must never reach a
// client response.
var errStoreDown = errors.New("pq: connection to server failed")

// mockPaymentRepository implements repository.PaymentRepository for failure
// injection. Unset funcs fall back to errStoreDown.
type mockPaymentRepository struct {
	CreateFunc   func(ctx context.Context, payment *domain.Payment) error
	ListFunc     func(ctx context.Context, filter domain.StatusFilter) ([]*domain.Payment, error)
	MarkPaidFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateFunc   func(ctx context.Context, id uuid.UUID, patch domain.PaymentPatch) error
	DeleteFunc   func(ctx context.Context, id uuid.UUID) error
	PingFunc     func(ctx context.Context) error
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, payment)
	}
	return errStoreDown
}

func (m *mockPaymentRepository) List(ctx context.Context, filter domain.StatusFilter) ([]*domain.Payment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, errStoreDown
}

func (m *mockPaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, id, at)
	}
	return errStoreDown
}

func (m *mockPaymentRepository) Update(ctx context.Context, id uuid.UUID, patch domain.PaymentPatch) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return errStoreDown
}

func (m *mockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errStoreDown
}

func (m *mockPaymentRepository) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return errStoreDown
}

func newFailingApp(t *testing.T) *fiber.App {
	t.Helper()

	svc := service.NewPaymentService(&mockPaymentRepository{}, nil)
	handler := handlers.NewPaymentHandler(svc)

	app := fiber.New()
	handler.RegisterRoutes(app)

	return app
}

func newTestApp(t *testing.T) (*fiber.App, *repository.MemoryPaymentRepository) {
	t.Helper()

	repo := repository.NewMemoryPaymentRepository()
	svc := service.NewPaymentService(repo, nil)
	handler := handlers.NewPaymentHandler(svc)

	app := fiber.New()
	handler.RegisterRoutes(app)

	return app, repo
}

func mustParseID(t *testing.T, raw string) uuid.UUID {
	t.Helper()

	id, err := uuid.Parse(raw)
	if err != nil {
		t.Fatalf("parse id %q: %v", raw, err)
	}
	return id
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, body
}

func createRent(t *testing.T, app *fiber.App, dueDate string) string {
	t.Helper()

	payload := fmt.Sprintf(`{"description":"Rent","value":500,"dueDate":"%s","payer":"Alice"}`, dueDate)
	resp, body := doRequest(t, app, jsonRequest(http.MethodPost, "/api/payments", payload))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", resp.StatusCode, body)
	}

	var created struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("create response: %v", err)
	}
	if !created.Success || created.ID == "" {
		t.Fatalf("create response missing id: %s", body)
	}
	return created.ID
}

func TestCreateThenList(t *testing.T) {
	app, _ := newTestApp(t)

	id := createRent(t, app, "2024-01-01")

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/payments", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}

	var payments []map[string]interface{}
	if err := json.Unmarshal(body, &payments); err != nil {
		t.Fatalf("list response: %v (%s)", err, body)
	}
	if len(payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments))
	}

	p := payments[0]
	if p["id"] != id {
		t.Errorf("id = %v, want %s", p["id"], id)
	}
	if p["value"] != 500.0 {
		t.Errorf("value = %v, want 500.0", p["value"])
	}
	if p["paid"] != false {
		t.Errorf("paid = %v, want false", p["paid"])
	}
	if p["paymentDate"] != nil {
		t.Errorf("paymentDate = %v, want null", p["paymentDate"])
	}
	if p["dueDate"] != "2024-01-01" {
		t.Errorf("dueDate = %v, want 2024-01-01", p["dueDate"])
	}
}

func TestCreate_MissingFields(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, jsonRequest(http.MethodPost, "/api/payments", `{"description":"Rent"}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}

	var errResp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("error response: %v", err)
	}
	if errResp.Error == "" {
		t.Error("error message missing")
	}
	if len(errResp.Details) != 3 {
		t.Fatalf("details = %v, want exactly value/dueDate/payer", errResp.Details)
	}
	for _, field := range []string{"value", "dueDate", "payer"} {
		if _, ok := errResp.Details[field]; !ok {
			t.Errorf("details missing %q", field)
		}
	}
}

func TestCreate_BadDateFormat(t *testing.T) {
	app, _ := newTestApp(t)

	payload := `{"description":"Rent","value":500,"dueDate":"01-01-2024","payer":"Alice"}`
	resp, body := doRequest(t, app, jsonRequest(http.MethodPost, "/api/payments", payload))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400 (%s)", resp.StatusCode, body)
	}
}

func TestMarkPaid_InvalidID(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app,
		httptest.NewRequest(http.MethodPut, "/api/payments/not-a-valid-id/pay", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400 for malformed id, body %s", resp.StatusCode, body)
	}

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("error response: %v", err)
	}
	if !strings.Contains(errResp.Error, "Invalid payment ID") {
		t.Errorf("error = %q", errResp.Error)
	}
}

func TestMarkPaid_TwiceReturns404(t *testing.T) {
	app, _ := newTestApp(t)
	id := createRent(t, app, "2024-01-01")

	resp, _ := doRequest(t, app,
		httptest.NewRequest(http.MethodPut, "/api/payments/"+id+"/pay", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first pay: status %d, want 200", resp.StatusCode)
	}

	resp, body := doRequest(t, app,
		httptest.NewRequest(http.MethodPut, "/api/payments/"+id+"/pay", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second pay: status %d, want 404, body %s", resp.StatusCode, body)
	}
}

func TestUpdate_CannotSetPaidDirectly(t *testing.T) {
	app, repo := newTestApp(t)
	id := createRent(t, app, "2024-01-01")

	resp, body := doRequest(t, app,
		jsonRequest(http.MethodPut, "/api/payments/"+id, `{"paid":true,"paymentDate":"2024-01-01T00:00:00Z"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d, body %s", resp.StatusCode, body)
	}

	stored, ok := repo.Get(mustParseID(t, id))
	if !ok {
		t.Fatal("payment missing")
	}
	if stored.Paid {
		t.Error("update must not be able to set paid")
	}
	if stored.PaymentDate != nil {
		t.Error("update must not be able to set paymentDate")
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	app, repo := newTestApp(t)
	id := createRent(t, app, "2024-01-01")

	resp, body := doRequest(t, app,
		jsonRequest(http.MethodPut, "/api/payments/"+id, `{"description":"Rent march","value":650}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d, body %s", resp.StatusCode, body)
	}

	stored, _ := repo.Get(mustParseID(t, id))
	if stored.Description != "Rent march" || stored.Value != 650 {
		t.Errorf("patch not applied: %+v", stored)
	}
	if stored.Payer != "Alice" {
		t.Errorf("absent field changed: payer = %q", stored.Payer)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doRequest(t, app,
		jsonRequest(http.MethodPut, "/api/payments/11111111-2222-3333-4444-555555555555", `{"value":10}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}
}

func TestDelete(t *testing.T) {
	app, _ := newTestApp(t)
	id := createRent(t, app, "2024-01-01")

	resp, _ := doRequest(t, app,
		httptest.NewRequest(http.MethodDelete, "/api/payments/"+id, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, app,
		httptest.NewRequest(http.MethodDelete, "/api/payments/"+id, nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: status %d, want 404", resp.StatusCode)
	}
}

func TestList_StatusFilters(t *testing.T) {
	app, _ := newTestApp(t)

	past := time.Now().AddDate(0, 0, -30).Format(domain.DueDateLayout)
	future := time.Now().AddDate(0, 0, 30).Format(domain.DueDateLayout)

	paidID := createRent(t, app, past)
	createRent(t, app, past)   // overdue
	createRent(t, app, future) // pending

	resp, _ := doRequest(t, app,
		httptest.NewRequest(http.MethodPut, "/api/payments/"+paidID+"/pay", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay: status %d", resp.StatusCode)
	}

	counts := map[string]int{}
	for _, status := range []string{"", "paid", "pending", "overdue"} {
		target := "/api/payments"
		if status != "" {
			target += "?status=" + status
		}
		_, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))

		var payments []json.RawMessage
		if err := json.Unmarshal(body, &payments); err != nil {
			t.Fatalf("list %q: %v (%s)", status, err, body)
		}
		counts[status] = len(payments)
	}

	if counts["paid"] != 1 || counts["pending"] != 1 || counts["overdue"] != 1 {
		t.Errorf("filter counts = %v", counts)
	}
	if counts[""] != counts["paid"]+counts["pending"]+counts["overdue"] {
		t.Errorf("union of filters (%d) != unfiltered (%d)",
			counts["paid"]+counts["pending"]+counts["overdue"], counts[""])
	}
}

func TestList_UnrecognizedStatusReturnsAll(t *testing.T) {
	app, _ := newTestApp(t)
	createRent(t, app, "2024-01-01")
	createRent(t, app, "2024-02-01")

	_, body := doRequest(t, app,
		httptest.NewRequest(http.MethodGet, "/api/payments?status=bogus", nil))

	var payments []json.RawMessage
	if err := json.Unmarshal(body, &payments); err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(payments) != 2 {
		t.Errorf("expected all 2 payments for unrecognized filter, got %d", len(payments))
	}
}

// Every endpoint must turn an unexpected store failure into a generic 500
// whose body never carries the driver error text.
func TestStoreFailure_SafeInternalError(t *testing.T) {
	app := newFailingApp(t)
	validID := uuid.New().String()

	cases := []struct {
		name    string
		req     *http.Request
		wantMsg string
	}{
		{
			name:    "list",
			req:     httptest.NewRequest(http.MethodGet, "/api/payments", nil),
			wantMsg: "Failed to list payments",
		},
		{
			name:    "create",
			req:     jsonRequest(http.MethodPost, "/api/payments", `{"description":"Rent","value":500,"dueDate":"2024-01-01","payer":"Alice"}`),
			wantMsg: "Failed to add payment",
		},
		{
			name:    "pay",
			req:     httptest.NewRequest(http.MethodPut, "/api/payments/"+validID+"/pay", nil),
			wantMsg: "Failed to mark payment as paid",
		},
		{
			name:    "update",
			req:     jsonRequest(http.MethodPut, "/api/payments/"+validID, `{"value":10}`),
			wantMsg: "Failed to update payment",
		},
		{
			name:    "delete",
			req:     httptest.NewRequest(http.MethodDelete, "/api/payments/"+validID, nil),
			wantMsg: "Failed to delete payment",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, body := doRequest(t, app, c.req)
			if resp.StatusCode != http.StatusInternalServerError {
				t.Fatalf("status %d, want 500, body %s", resp.StatusCode, body)
			}

			var errResp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(body, &errResp); err != nil {
				t.Fatalf("error response: %v (%s)", err, body)
			}
			if errResp.Error != c.wantMsg {
				t.Errorf("error = %q, want %q", errResp.Error, c.wantMsg)
			}
			if strings.Contains(string(body), errStoreDown.Error()) {
				t.Errorf("driver error leaked to client: %s", body)
			}
		})
	}
}

func TestHealth_StoreDown(t *testing.T) {
	app := newFailingApp(t)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("health: status %d, want 500", resp.StatusCode)
	}

	var health struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("health response: %v", err)
	}
	if health.Status != "error" || health.Database != "disconnected" {
		t.Errorf("health = %+v", health)
	}
	if strings.Contains(string(body), errStoreDown.Error()) {
		t.Errorf("driver error leaked to client: %s", body)
	}
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d", resp.StatusCode)
	}

	var health struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("health response: %v", err)
	}
	if health.Status != "ok" || health.Database != "connected" {
		t.Errorf("health = %+v", health)
	}
}
