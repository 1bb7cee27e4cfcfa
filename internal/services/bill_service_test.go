package services

import (
	"bytes"
	"context"
	"testing"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"
)

func TestRenderBill(t *testing.T) {
	store := newFakePaymentStore()
	store.payments[1] = &models.Payment{
		ID:            1,
		BillNumber:    "BILL-2026-0042",
		CustomerID:    7,
		SiteName:      "Riverside Villa",
		CustomerName:  "A. Mehta",
		CustomerPhone: "9876543210",
		ProductName:   "Toughened glass partition 12mm",
		Amount:        45000,
		PaidAmount:    20000,
		BalanceAmount: 25000,
		Status:        models.StatusPartiallyPaid,
	}
	svc := NewBillService(store)

	bill, err := svc.RenderBill(context.Background(), testActor, 1)
	if err != nil {
		t.Fatalf("RenderBill: %v", err)
	}
	if bill.BillNumber != "BILL-2026-0042" {
		t.Errorf("bill number = %q", bill.BillNumber)
	}
	if bill.BalanceAmount != 25000 {
		t.Errorf("balance = %v, want 25000", bill.BalanceAmount)
	}
	if bill.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt to be set")
	}
}

func TestRenderBillNotFound(t *testing.T) {
	svc := NewBillService(newFakePaymentStore())

	_, err := svc.RenderBill(context.Background(), testActor, 99)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRenderBillOwnership(t *testing.T) {
	store := newFakePaymentStore()
	store.payments[1] = &models.Payment{
		ID:         1,
		BillNumber: "BILL-2026-0042",
		CustomerID: 7,
		Amount:     100,
	}
	svc := NewBillService(store)
	ctx := context.Background()

	owner := models.Actor{UserID: 7, Role: models.RoleCustomer}
	if _, err := svc.RenderBill(ctx, owner, 1); err != nil {
		t.Errorf("owner blocked from own bill: %v", err)
	}

	stranger := models.Actor{UserID: 99, Role: models.RoleCustomer}
	if _, err := svc.RenderBill(ctx, stranger, 1); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("expected forbidden for other customer, got %v", err)
	}
	if _, _, err := svc.RenderBillPDF(ctx, stranger, 1); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("expected forbidden for other customer's PDF, got %v", err)
	}

	// Staff are not subject to the ownership check.
	if _, err := svc.RenderBill(ctx, testActor, 1); err != nil {
		t.Errorf("staff blocked: %v", err)
	}
}

func TestRenderBillPDF(t *testing.T) {
	store := newFakePaymentStore()
	store.payments[1] = &models.Payment{
		ID:           1,
		BillNumber:   "BILL-2026-0042",
		CustomerID:   7,
		SiteName:     "Riverside Villa",
		CustomerName: "A. Mehta",
		ProductName:  "Aluminium sliding window",
		Amount:       12000,
		PaidAmount:   12000,
		Status:       models.StatusPaid,
	}
	svc := NewBillService(store)

	data, filename, err := svc.RenderBillPDF(context.Background(), testActor, 1)
	if err != nil {
		t.Fatalf("RenderBillPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with PDF magic, got %q", data[:8])
	}
	if filename != "BILL-2026-0042.pdf" {
		t.Errorf("filename = %q, want BILL-2026-0042.pdf", filename)
	}
}

func TestRenderBillPDFSanitizesFilename(t *testing.T) {
	store := newFakePaymentStore()
	store.payments[1] = &models.Payment{
		ID:         1,
		BillNumber: "BILL/2026/7",
		Amount:     100,
	}
	svc := NewBillService(store)

	_, filename, err := svc.RenderBillPDF(context.Background(), testActor, 1)
	if err != nil {
		t.Fatalf("RenderBillPDF: %v", err)
	}
	if filename != "BILL-2026-7.pdf" {
		t.Errorf("filename = %q, want slashes replaced", filename)
	}
}
