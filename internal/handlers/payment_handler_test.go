package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/auth"
	"glasstrade-backend/internal/config"
	"glasstrade-backend/internal/middleware"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/services"

	"github.com/gorilla/mux"
)

// memPaymentStore is the in-memory store backing handler tests.
type memPaymentStore struct {
	payments map[int]*models.Payment
	nextID   int
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{payments: make(map[int]*models.Payment), nextID: 1}
}

func (m *memPaymentStore) Create(ctx context.Context, p *models.Payment) error {
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *memPaymentStore) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, apperrors.NotFound("payment %d not found", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentStore) List(ctx context.Context) ([]*models.Payment, error) {
	out := make([]*models.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPaymentStore) ListBySite(ctx context.Context, siteID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		if p.SiteID == siteID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPaymentStore) ListByCustomer(ctx context.Context, customerID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		if p.CustomerID == customerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPaymentStore) ListByStatus(ctx context.Context, status string) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		if p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPaymentStore) Update(ctx context.Context, p *models.Payment) error {
	if _, ok := m.payments[p.ID]; !ok {
		return apperrors.NotFound("payment %d not found", p.ID)
	}
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *memPaymentStore) UpdatePaidAmount(ctx context.Context, id int, paid, balance float64, status string) error {
	p, ok := m.payments[id]
	if !ok {
		return apperrors.NotFound("payment %d not found", id)
	}
	p.PaidAmount = paid
	p.BalanceAmount = balance
	p.Status = status
	return nil
}

func (m *memPaymentStore) UpdateStatus(ctx context.Context, id int, status string) error {
	p, ok := m.payments[id]
	if !ok {
		return apperrors.NotFound("payment %d not found", id)
	}
	p.Status = status
	return nil
}

func (m *memPaymentStore) Delete(ctx context.Context, id int) error {
	if _, ok := m.payments[id]; !ok {
		return apperrors.NotFound("payment %d not found", id)
	}
	delete(m.payments, id)
	return nil
}

func (m *memPaymentStore) StatsByStatus(ctx context.Context) ([]models.StatusStats, error) {
	return nil, nil
}

func (m *memPaymentStore) GlobalTotals(ctx context.Context) (*models.GlobalTotals, error) {
	totals := &models.GlobalTotals{}
	for _, p := range m.payments {
		totals.TotalPayments++
		totals.TotalRevenue += p.Amount
		if p.Status == models.StatusPaid {
			totals.TotalPaid += p.Amount
		} else {
			totals.TotalOutstanding += p.Amount
		}
	}
	return totals, nil
}

func (m *memPaymentStore) LatestSequentialBillNumber(ctx context.Context, yearPrefix string) (string, error) {
	return "", nil
}

type testEnv struct {
	store  *memPaymentStore
	router *mux.Router
	jwt    *auth.JWTManager
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	jwtManager := auth.NewJWTManager(cfg)

	token, err := jwtManager.GenerateToken(&models.User{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	store := newMemPaymentStore()
	paymentService := services.NewPaymentService(store)
	billService := services.NewBillService(store)
	handler := NewPaymentHandler(paymentService, billService, nil, nil, nil)
	mw := middleware.NewAuthMiddleware(jwtManager)

	r := mux.NewRouter()
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(mw.Authenticate)
	authed.HandleFunc("/my/payments/{customer_id:[0-9]+}", handler.ListMyPayments).Methods("GET")
	authed.HandleFunc("/payments/{id:[0-9]+}/bill", handler.GetBill).Methods("GET")
	authed.HandleFunc("/payments/{id:[0-9]+}/bill/pdf", handler.DownloadBillPDF).Methods("GET")

	staff := r.PathPrefix("/api").Subrouter()
	staff.Use(mw.Authenticate, mw.RequireStaff)
	staff.HandleFunc("/payments", handler.CreatePayment).Methods("POST")
	staff.HandleFunc("/payments", handler.ListPayments).Methods("GET")
	staff.HandleFunc("/payments-stats", handler.GlobalStats).Methods("GET")
	staff.HandleFunc("/payments/{id:[0-9]+}", handler.GetPayment).Methods("GET")
	staff.HandleFunc("/payments/{id:[0-9]+}", handler.UpdatePayment).Methods("PUT")
	staff.HandleFunc("/payments/{id:[0-9]+}/status", handler.UpdateStatus).Methods("PUT")

	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(mw.Authenticate, mw.RequireAdmin)
	admin.HandleFunc("/payments/{id:[0-9]+}", handler.DeletePayment).Methods("DELETE")

	return &testEnv{store: store, router: r, jwt: jwtManager, token: token}
}

func (e *testEnv) customerToken(t *testing.T, id int) string {
	t.Helper()
	token, err := e.jwt.GenerateToken(&models.User{ID: id, Email: "customer@example.com", Role: models.RoleCustomer})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func (e *testEnv) doAs(token, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	return e.doAs(e.token, method, path, body)
}

func TestCreatePaymentEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("POST", "/api/payments", map[string]interface{}{
		"site_id":     2,
		"customer_id": 9,
		"amount":      5000,
		"paid_amount": 2000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool           `json:"success"`
		Payment models.Payment `json:"payment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Payment.BalanceAmount != 3000 {
		t.Errorf("balance = %v, want 3000", resp.Payment.BalanceAmount)
	}
	if resp.Payment.Status != models.StatusPartiallyPaid {
		t.Errorf("status = %q", resp.Payment.Status)
	}
	if !strings.HasPrefix(resp.Payment.BillNumber, "BILL-") {
		t.Errorf("bill number = %q", resp.Payment.BillNumber)
	}
}

func TestCreatePaymentRejectsMissingSite(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("POST", "/api/payments", map[string]interface{}{
		"customer_id": 9,
		"amount":      100,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreatePaymentUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/api/payments", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestUpdatePaymentPartialBody(t *testing.T) {
	env := newTestEnv(t)

	env.do("POST", "/api/payments", map[string]interface{}{
		"site_id": 1, "customer_id": 1, "amount": 1000, "paid_amount": 250,
	})

	// Only amount in the body; paid amount must survive the update.
	rec := env.do("PUT", "/api/payments/1", map[string]interface{}{"amount": 2000})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	stored, _ := env.store.GetByID(context.Background(), 1)
	if stored.Amount != 2000 {
		t.Errorf("amount = %v, want 2000", stored.Amount)
	}
	if stored.PaidAmount != 250 {
		t.Errorf("paid = %v, want preserved 250", stored.PaidAmount)
	}
	if stored.BalanceAmount != 1750 {
		t.Errorf("balance = %v, want 1750", stored.BalanceAmount)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do("POST", "/api/payments", map[string]interface{}{
		"site_id": 1, "customer_id": 1, "amount": 100,
	})

	rec := env.do("PUT", "/api/payments/1/status", map[string]string{"status": "paid"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = env.do("PUT", "/api/payments/1/status", map[string]string{"status": "refunded"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status: code = %d, want 400", rec.Code)
	}
}

func TestDeletePaymentNotFoundEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("DELETE", "/api/payments/77", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDownloadBillPDFEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do("POST", "/api/payments", map[string]interface{}{
		"site_id": 1, "customer_id": 1, "amount": 100, "paid_amount": 100,
		"bill_number": "BILL-2026-0005",
	})

	rec := env.do("GET", "/api/payments/1/bill/pdf", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=BILL-2026-0005.pdf" {
		t.Errorf("content disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF document")
	}
}

func TestCustomerCannotReadOthersPayments(t *testing.T) {
	env := newTestEnv(t)
	env.do("POST", "/api/payments", map[string]interface{}{
		"site_id": 1, "customer_id": 7, "amount": 100,
	})

	stranger := env.customerToken(t, 99)
	owner := env.customerToken(t, 7)

	for _, path := range []string{
		"/api/payments/1/bill",
		"/api/payments/1/bill/pdf",
		"/api/my/payments/7",
	} {
		rec := env.doAs(stranger, "GET", path, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s as customer 99: status = %d, want 403", path, rec.Code)
		}

		rec = env.doAs(owner, "GET", path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s as customer 7: status = %d, want 200 (body %s)", path, rec.Code, rec.Body.String())
		}
	}
}

func TestStaffReadsAnyCustomersPayments(t *testing.T) {
	env := newTestEnv(t)
	env.do("POST", "/api/payments", map[string]interface{}{
		"site_id": 1, "customer_id": 7, "amount": 100,
	})

	rec := env.do("GET", "/api/my/payments/7", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin reading customer 7: status = %d, want 200", rec.Code)
	}
	rec = env.do("GET", "/api/payments/1/bill", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin reading bill: status = %d, want 200", rec.Code)
	}
}

func TestGlobalStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do("POST", "/api/payments", map[string]interface{}{
		"site_id": 1, "customer_id": 1, "amount": 300, "paid_amount": 300,
	})
	env.do("POST", "/api/payments", map[string]interface{}{
		"site_id": 1, "customer_id": 2, "amount": 200,
	})

	rec := env.do("GET", "/api/payments-stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool                `json:"success"`
		Stats   models.GlobalTotals `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Stats.TotalPayments != 2 {
		t.Errorf("total payments = %d, want 2", resp.Stats.TotalPayments)
	}
	if resp.Stats.TotalPaid != 300 || resp.Stats.TotalOutstanding != 200 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}
