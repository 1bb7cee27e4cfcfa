package services

import (
	"context"
	"testing"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"
)

// fakePaymentStore is an in-memory PaymentStore for service tests.
type fakePaymentStore struct {
	payments map[int]*models.Payment
	nextID   int
	latest   string
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[int]*models.Payment), nextID: 1}
}

func (f *fakePaymentStore) Create(ctx context.Context, p *models.Payment) error {
	for _, existing := range f.payments {
		if existing.BillNumber == p.BillNumber {
			return apperrors.Conflict("bill number %s already exists", p.BillNumber)
		}
	}
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePaymentStore) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, apperrors.NotFound("payment %d not found", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentStore) List(ctx context.Context) ([]*models.Payment, error) {
	out := make([]*models.Payment, 0, len(f.payments))
	for _, p := range f.payments {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePaymentStore) ListBySite(ctx context.Context, siteID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.payments {
		if p.SiteID == siteID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) ListByCustomer(ctx context.Context, customerID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.payments {
		if p.CustomerID == customerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) ListByStatus(ctx context.Context, status string) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.payments {
		if p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) Update(ctx context.Context, p *models.Payment) error {
	if _, ok := f.payments[p.ID]; !ok {
		return apperrors.NotFound("payment %d not found", p.ID)
	}
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePaymentStore) UpdatePaidAmount(ctx context.Context, id int, paid, balance float64, status string) error {
	p, ok := f.payments[id]
	if !ok {
		return apperrors.NotFound("payment %d not found", id)
	}
	p.PaidAmount = paid
	p.BalanceAmount = balance
	p.Status = status
	return nil
}

func (f *fakePaymentStore) UpdateStatus(ctx context.Context, id int, status string) error {
	p, ok := f.payments[id]
	if !ok {
		return apperrors.NotFound("payment %d not found", id)
	}
	p.Status = status
	return nil
}

func (f *fakePaymentStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.payments[id]; !ok {
		return apperrors.NotFound("payment %d not found", id)
	}
	delete(f.payments, id)
	return nil
}

func (f *fakePaymentStore) StatsByStatus(ctx context.Context) ([]models.StatusStats, error) {
	byStatus := make(map[string]*models.StatusStats)
	for _, p := range f.payments {
		s, ok := byStatus[p.Status]
		if !ok {
			s = &models.StatusStats{Status: p.Status}
			byStatus[p.Status] = s
		}
		s.Count++
		s.TotalAmount += p.Amount
		s.TotalPaid += p.PaidAmount
		s.TotalBalance += p.BalanceAmount
	}
	out := make([]models.StatusStats, 0, len(byStatus))
	for _, s := range byStatus {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakePaymentStore) GlobalTotals(ctx context.Context) (*models.GlobalTotals, error) {
	totals := &models.GlobalTotals{}
	for _, p := range f.payments {
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

func (f *fakePaymentStore) LatestSequentialBillNumber(ctx context.Context, yearPrefix string) (string, error) {
	return f.latest, nil
}

var testActor = models.Actor{UserID: 1, Email: "staff@example.com", Role: models.RoleStaff}

func TestCreatePayment(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store)

	p, err := svc.CreatePayment(context.Background(), testActor, &models.CreatePaymentRequest{
		SiteID:     3,
		CustomerID: 7,
		Amount:     1200,
		PaidAmount: 500,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected assigned ID")
	}
	if p.BillNumber == "" {
		t.Error("expected minted bill number")
	}
	if p.BalanceAmount != 700 {
		t.Errorf("balance = %v, want 700", p.BalanceAmount)
	}
	if p.Status != models.StatusPartiallyPaid {
		t.Errorf("status = %q, want %q", p.Status, models.StatusPartiallyPaid)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	svc := NewPaymentService(newFakePaymentStore())
	ctx := context.Background()

	cases := []struct {
		name string
		req  *models.CreatePaymentRequest
	}{
		{"missing site", &models.CreatePaymentRequest{CustomerID: 1, Amount: 10}},
		{"missing customer", &models.CreatePaymentRequest{SiteID: 1, Amount: 10}},
		{"negative amount", &models.CreatePaymentRequest{SiteID: 1, CustomerID: 1, Amount: -10}},
		{"bad date", &models.CreatePaymentRequest{SiteID: 1, CustomerID: 1, Amount: 10, PaymentDate: "13/05/2026"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePayment(ctx, testActor, tc.req)
			if apperrors.KindOf(err) != apperrors.KindValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreatePaymentDuplicateBillNumber(t *testing.T) {
	svc := NewPaymentService(newFakePaymentStore())
	ctx := context.Background()

	req := &models.CreatePaymentRequest{SiteID: 1, CustomerID: 1, Amount: 100, BillNumber: "BILL-2026-0001"}
	if _, err := svc.CreatePayment(ctx, testActor, req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreatePayment(ctx, testActor, req)
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestUpdatePaymentMergesOmittedFields(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store)
	ctx := context.Background()

	created, err := svc.CreatePayment(ctx, testActor, &models.CreatePaymentRequest{
		SiteID:     1,
		CustomerID: 1,
		Amount:     1000,
		PaidAmount: 400,
		Notes:      "first delivery",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Only the amount changes; paid amount and notes must survive.
	newAmount := 2000.0
	updated, err := svc.UpdatePayment(ctx, testActor, created.ID, &models.UpdatePaymentRequest{
		Amount: &newAmount,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PaidAmount != 400 {
		t.Errorf("paid = %v, want preserved 400", updated.PaidAmount)
	}
	if updated.Notes != "first delivery" {
		t.Errorf("notes = %q, want preserved", updated.Notes)
	}
	if updated.BalanceAmount != 1600 {
		t.Errorf("balance = %v, want recomputed 1600", updated.BalanceAmount)
	}
	if updated.Status != models.StatusPartiallyPaid {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusPartiallyPaid)
	}
}

func TestUpdatePaymentRecomputesStatus(t *testing.T) {
	svc := NewPaymentService(newFakePaymentStore())
	ctx := context.Background()

	created, _ := svc.CreatePayment(ctx, testActor, &models.CreatePaymentRequest{
		SiteID: 1, CustomerID: 1, Amount: 500,
	})

	paid := 500.0
	updated, err := svc.UpdatePayment(ctx, testActor, created.ID, &models.UpdatePaymentRequest{
		PaidAmount: &paid,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.StatusPaid {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusPaid)
	}
	if updated.BalanceAmount != 0 {
		t.Errorf("balance = %v, want 0", updated.BalanceAmount)
	}
}

func TestUpdatePaidAmount(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store)
	ctx := context.Background()

	created, _ := svc.CreatePayment(ctx, testActor, &models.CreatePaymentRequest{
		SiteID: 1, CustomerID: 1, Amount: 1000,
	})

	p, err := svc.UpdatePaidAmount(ctx, testActor, created.ID, 2500)
	if err != nil {
		t.Fatalf("UpdatePaidAmount: %v", err)
	}
	if p.PaidAmount != 1000 {
		t.Errorf("paid = %v, want clamped 1000", p.PaidAmount)
	}
	if p.Status != models.StatusPaid {
		t.Errorf("status = %q, want %q", p.Status, models.StatusPaid)
	}

	// Idempotent: applying the same paid amount again changes nothing.
	again, err := svc.UpdatePaidAmount(ctx, testActor, created.ID, 1000)
	if err != nil {
		t.Fatalf("second UpdatePaidAmount: %v", err)
	}
	if again.PaidAmount != p.PaidAmount || again.BalanceAmount != p.BalanceAmount || again.Status != p.Status {
		t.Errorf("second apply drifted: %+v vs %+v", again, p)
	}

	// Amount stays untouched in the store.
	stored, _ := store.GetByID(ctx, created.ID)
	if stored.Amount != 1000 {
		t.Errorf("stored amount = %v, want 1000", stored.Amount)
	}
}

func TestUpdateStatusOverride(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store)
	ctx := context.Background()

	created, _ := svc.CreatePayment(ctx, testActor, &models.CreatePaymentRequest{
		SiteID: 1, CustomerID: 1, Amount: 1000, PaidAmount: 400,
	})

	// Manual override does not touch amounts.
	if err := svc.UpdateStatus(ctx, testActor, created.ID, models.StatusPaid); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	stored, _ := store.GetByID(ctx, created.ID)
	if stored.Status != models.StatusPaid {
		t.Errorf("status = %q, want %q", stored.Status, models.StatusPaid)
	}
	if stored.BalanceAmount != 600 {
		t.Errorf("balance = %v, want untouched 600", stored.BalanceAmount)
	}

	if err := svc.UpdateStatus(ctx, testActor, created.ID, "refunded"); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestDeletePaymentNotFound(t *testing.T) {
	svc := NewPaymentService(newFakePaymentStore())

	err := svc.DeletePayment(context.Background(), testActor, 404)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestListByStatusRejectsUnknown(t *testing.T) {
	svc := NewPaymentService(newFakePaymentStore())

	_, err := svc.ListByStatus(context.Background(), "void")
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNextBillNumber(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store)
	ctx := context.Background()

	first, err := svc.NextBillNumber(ctx)
	if err != nil {
		t.Fatalf("NextBillNumber: %v", err)
	}
	if len(first) != len("BILL-2026-0001") || first[len(first)-4:] != "0001" {
		t.Errorf("first number = %q, want year-scoped 0001", first)
	}

	store.latest = first
	second, err := svc.NextBillNumber(ctx)
	if err != nil {
		t.Fatalf("NextBillNumber: %v", err)
	}
	if second[len(second)-4:] != "0002" {
		t.Errorf("second number = %q, want sequence 0002", second)
	}
}

func TestStatsDistinguishGlobalFromStatus(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store)
	ctx := context.Background()

	// One fully paid 1000, one half-paid 1000.
	svc.CreatePayment(ctx, testActor, &models.CreatePaymentRequest{SiteID: 1, CustomerID: 1, Amount: 1000, PaidAmount: 1000})
	svc.CreatePayment(ctx, testActor, &models.CreatePaymentRequest{SiteID: 1, CustomerID: 2, Amount: 1000, PaidAmount: 500})

	totals, err := svc.GlobalTotals(ctx)
	if err != nil {
		t.Fatalf("GlobalTotals: %v", err)
	}
	// Global totals sum nominal amounts by paid/not-paid status, so the
	// half-paid bill counts fully toward outstanding.
	if totals.TotalPaid != 1000 {
		t.Errorf("paid = %v, want 1000", totals.TotalPaid)
	}
	if totals.TotalOutstanding != 1000 {
		t.Errorf("outstanding = %v, want 1000", totals.TotalOutstanding)
	}

	stats, err := svc.StatsByStatus(ctx)
	if err != nil {
		t.Fatalf("StatsByStatus: %v", err)
	}
	for _, s := range stats {
		if s.Status == models.StatusPartiallyPaid {
			if s.TotalPaid != 500 || s.TotalBalance != 500 {
				t.Errorf("partial bucket = %+v, want paid 500 balance 500", s)
			}
		}
	}
}
