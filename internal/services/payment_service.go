package services

import (
	"context"
	"time"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"
)

// PaymentStore is the persistence surface the lifecycle manager needs.
// *repositories.PaymentRepository satisfies it; tests plug in a fake.
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id int) (*models.Payment, error)
	List(ctx context.Context) ([]*models.Payment, error)
	ListBySite(ctx context.Context, siteID int) ([]*models.Payment, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*models.Payment, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	UpdatePaidAmount(ctx context.Context, id int, paidAmount, balanceAmount float64, status string) error
	UpdateStatus(ctx context.Context, id int, status string) error
	Delete(ctx context.Context, id int) error
	StatsByStatus(ctx context.Context) ([]models.StatusStats, error)
	GlobalTotals(ctx context.Context) (*models.GlobalTotals, error)
	LatestSequentialBillNumber(ctx context.Context, yearPrefix string) (string, error)
}

// PaymentService owns the payment lifecycle. Every amount change goes
// through ComputeFinancialState before it is persisted.
type PaymentService struct {
	Store PaymentStore
}

func NewPaymentService(store PaymentStore) *PaymentService {
	return &PaymentService{Store: store}
}

func parsePaymentDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.Validation("invalid payment_date %q", s)
}

func (s *PaymentService) CreatePayment(ctx context.Context, actor models.Actor, req *models.CreatePaymentRequest) (*models.Payment, error) {
	if req.SiteID == 0 {
		return nil, apperrors.Validation("site_id is required")
	}
	if req.CustomerID == 0 {
		return nil, apperrors.Validation("customer_id is required")
	}
	if req.Amount < 0 {
		return nil, apperrors.Validation("amount must not be negative")
	}

	paymentDate, err := parsePaymentDate(req.PaymentDate)
	if err != nil {
		return nil, err
	}

	billNumber := req.BillNumber
	if billNumber == "" {
		billNumber = MintBillNumber()
	}

	state := ComputeFinancialState(req.Amount, req.PaidAmount)

	payment := &models.Payment{
		BillNumber:    billNumber,
		SiteID:        req.SiteID,
		CustomerID:    req.CustomerID,
		ProductName:   req.ProductName,
		Amount:        state.Amount,
		PaidAmount:    state.PaidAmount,
		BalanceAmount: state.BalanceAmount,
		Status:        state.Status,
		PaymentDate:   paymentDate,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		ReceiptURL:    req.ReceiptURL,
		Notes:         req.Notes,
	}

	if err := s.Store.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePayment merges the provided fields over the stored record and
// recomputes the financial state from the merged amount/paid pair. A
// field the caller omits keeps its stored value.
func (s *PaymentService) UpdatePayment(ctx context.Context, actor models.Actor, id int, req *models.UpdatePaymentRequest) (*models.Payment, error) {
	payment, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SiteID != nil {
		payment.SiteID = *req.SiteID
	}
	if req.CustomerID != nil {
		payment.CustomerID = *req.CustomerID
	}
	if req.ProductName != nil {
		payment.ProductName = *req.ProductName
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return nil, apperrors.Validation("amount must not be negative")
		}
		payment.Amount = *req.Amount
	}
	if req.PaidAmount != nil {
		payment.PaidAmount = *req.PaidAmount
	}
	if req.PaymentDate != nil {
		paymentDate, err := parsePaymentDate(*req.PaymentDate)
		if err != nil {
			return nil, err
		}
		payment.PaymentDate = paymentDate
	}
	if req.PaymentMethod != nil {
		payment.PaymentMethod = *req.PaymentMethod
	}
	if req.TransactionID != nil {
		payment.TransactionID = *req.TransactionID
	}
	if req.ReceiptURL != nil {
		payment.ReceiptURL = *req.ReceiptURL
	}
	if req.Notes != nil {
		payment.Notes = *req.Notes
	}

	state := ComputeFinancialState(payment.Amount, payment.PaidAmount)
	payment.Amount = state.Amount
	payment.PaidAmount = state.PaidAmount
	payment.BalanceAmount = state.BalanceAmount
	payment.Status = state.Status

	if err := s.Store.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePaidAmount recomputes balance and status against the stored
// amount and persists only those three fields.
func (s *PaymentService) UpdatePaidAmount(ctx context.Context, actor models.Actor, id int, paidAmount float64) (*models.Payment, error) {
	payment, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	state := ComputeFinancialState(payment.Amount, paidAmount)
	if err := s.Store.UpdatePaidAmount(ctx, id, state.PaidAmount, state.BalanceAmount, state.Status); err != nil {
		return nil, err
	}

	payment.PaidAmount = state.PaidAmount
	payment.BalanceAmount = state.BalanceAmount
	payment.Status = state.Status
	return payment, nil
}

// UpdateStatus is the manual-correction escape hatch: it overrides the
// status without re-deriving it from the amounts, and leaves the
// balance untouched.
func (s *PaymentService) UpdateStatus(ctx context.Context, actor models.Actor, id int, status string) error {
	if !models.ValidStatus(status) {
		return apperrors.Validation("invalid status %q", status)
	}
	return s.Store.UpdateStatus(ctx, id, status)
}

func (s *PaymentService) DeletePayment(ctx context.Context, actor models.Actor, id int) error {
	return s.Store.Delete(ctx, id)
}

func (s *PaymentService) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	return s.Store.GetByID(ctx, id)
}

func (s *PaymentService) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.Store.List(ctx)
}

func (s *PaymentService) ListBySite(ctx context.Context, siteID int) ([]*models.Payment, error) {
	return s.Store.ListBySite(ctx, siteID)
}

func (s *PaymentService) ListByCustomer(ctx context.Context, customerID int) ([]*models.Payment, error) {
	return s.Store.ListByCustomer(ctx, customerID)
}

func (s *PaymentService) ListByStatus(ctx context.Context, status string) ([]*models.Payment, error) {
	if !models.ValidStatus(status) {
		return nil, apperrors.Validation("invalid status %q", status)
	}
	return s.Store.ListByStatus(ctx, status)
}

func (s *PaymentService) StatsByStatus(ctx context.Context) ([]models.StatusStats, error) {
	return s.Store.StatsByStatus(ctx)
}

func (s *PaymentService) GlobalTotals(ctx context.Context) (*models.GlobalTotals, error) {
	return s.Store.GlobalTotals(ctx)
}

// NextBillNumber answers the explicit "next sequential number" query.
func (s *PaymentService) NextBillNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	yearPrefix := "BILL-" + time.Now().Format("2006") + "-"
	latest, err := s.Store.LatestSequentialBillNumber(ctx, yearPrefix)
	if err != nil {
		return "", err
	}
	return NextSequentialBillNumber(latest, year), nil
}
