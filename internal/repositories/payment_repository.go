package repositories

import (
	"context"
	"errors"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// paymentColumns is the SELECT list shared by every read projection.
// Site name and customer name/phone are joined in for display.
const paymentColumns = `
	p.id, p.bill_number, p.site_id, p.customer_id, COALESCE(p.product_name, ''),
	p.amount, p.paid_amount, p.balance_amount, p.status, p.payment_date,
	COALESCE(p.payment_method, ''), COALESCE(p.transaction_id, ''),
	COALESCE(p.receipt_url, ''), COALESCE(p.notes, ''),
	COALESCE(s.name, ''), COALESCE(u.name, ''), COALESCE(u.phone, ''),
	p.created_at, p.updated_at`

const paymentJoins = `
	FROM payments p
	LEFT JOIN sites s ON p.site_id = s.id
	LEFT JOIN users u ON p.customer_id = u.id`

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(
		&p.ID,
		&p.BillNumber,
		&p.SiteID,
		&p.CustomerID,
		&p.ProductName,
		&p.Amount,
		&p.PaidAmount,
		&p.BalanceAmount,
		&p.Status,
		&p.PaymentDate,
		&p.PaymentMethod,
		&p.TransactionID,
		&p.ReceiptURL,
		&p.Notes,
		&p.SiteName,
		&p.CustomerName,
		&p.CustomerPhone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) collect(ctx context.Context, query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// isUniqueViolation reports whether err is a PostgreSQL 23505 error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (bill_number, site_id, customer_id, product_name, amount, paid_amount,
		                      balance_amount, status, payment_date, payment_method, transaction_id,
		                      receipt_url, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		payment.BillNumber,
		payment.SiteID,
		payment.CustomerID,
		payment.ProductName,
		payment.Amount,
		payment.PaidAmount,
		payment.BalanceAmount,
		payment.Status,
		payment.PaymentDate,
		payment.PaymentMethod,
		payment.TransactionID,
		payment.ReceiptURL,
		payment.Notes,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("bill number %s already exists", payment.BillNumber)
		}
		return apperrors.Storage("create payment", err)
	}

	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	query := `SELECT` + paymentColumns + paymentJoins + ` WHERE p.id = $1`

	p, err := scanPayment(r.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("payment %d not found", id)
		}
		return nil, apperrors.Storage("get payment", err)
	}

	return p, nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]*models.Payment, error) {
	query := `SELECT` + paymentColumns + paymentJoins + ` ORDER BY p.payment_date DESC, p.id DESC`

	payments, err := r.collect(ctx, query)
	if err != nil {
		return nil, apperrors.Storage("list payments", err)
	}
	return payments, nil
}

func (r *PaymentRepository) ListBySite(ctx context.Context, siteID int) ([]*models.Payment, error) {
	query := `SELECT` + paymentColumns + paymentJoins + ` WHERE p.site_id = $1 ORDER BY p.payment_date DESC, p.id DESC`

	payments, err := r.collect(ctx, query, siteID)
	if err != nil {
		return nil, apperrors.Storage("list payments by site", err)
	}
	return payments, nil
}

func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Payment, error) {
	query := `SELECT` + paymentColumns + paymentJoins + ` WHERE p.customer_id = $1 ORDER BY p.payment_date DESC, p.id DESC`

	payments, err := r.collect(ctx, query, customerID)
	if err != nil {
		return nil, apperrors.Storage("list payments by customer", err)
	}
	return payments, nil
}

func (r *PaymentRepository) ListByStatus(ctx context.Context, status string) ([]*models.Payment, error) {
	query := `SELECT` + paymentColumns + paymentJoins + ` WHERE p.status = $1 ORDER BY p.payment_date DESC, p.id DESC`

	payments, err := r.collect(ctx, query, status)
	if err != nil {
		return nil, apperrors.Storage("list payments by status", err)
	}
	return payments, nil
}

// Update persists the full merged record. The service has already read
// the stored row, overlaid the changed fields and recomputed the
// financial state, so this is a plain column write.
func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET site_id = $2, customer_id = $3, product_name = $4, amount = $5, paid_amount = $6,
		    balance_amount = $7, status = $8, payment_date = $9, payment_method = $10,
		    transaction_id = $11, receipt_url = $12, notes = $13, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		payment.ID,
		payment.SiteID,
		payment.CustomerID,
		payment.ProductName,
		payment.Amount,
		payment.PaidAmount,
		payment.BalanceAmount,
		payment.Status,
		payment.PaymentDate,
		payment.PaymentMethod,
		payment.TransactionID,
		payment.ReceiptURL,
		payment.Notes,
	).Scan(&payment.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("payment %d not found", payment.ID)
		}
		return apperrors.Storage("update payment", err)
	}

	return nil
}

// UpdatePaidAmount persists only the recomputed financial triple.
func (r *PaymentRepository) UpdatePaidAmount(ctx context.Context, id int, paidAmount, balanceAmount float64, status string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET paid_amount = $2, balance_amount = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`, id, paidAmount, balanceAmount, status)
	if err != nil {
		return apperrors.Storage("update paid amount", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("payment %d not found", id)
	}
	return nil
}

// UpdateStatus overrides the status directly without touching amounts.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return apperrors.Storage("update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("payment %d not found", id)
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return apperrors.Storage("delete payment", err)
	}
	// 0 rows affected means the record was never there
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("payment %d not found", id)
	}
	return nil
}

// StatsByStatus groups count and the amount/paid/balance sums by status.
func (r *PaymentRepository) StatsByStatus(ctx context.Context) ([]models.StatusStats, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(paid_amount), 0),
		       COALESCE(SUM(balance_amount), 0)
		FROM payments
		GROUP BY status
		ORDER BY status
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Storage("payment stats by status", err)
	}
	defer rows.Close()

	var stats []models.StatusStats
	for rows.Next() {
		var s models.StatusStats
		if err := rows.Scan(&s.Status, &s.Count, &s.TotalAmount, &s.TotalPaid, &s.TotalBalance); err != nil {
			return nil, apperrors.Storage("payment stats by status", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("payment stats by status", err)
	}

	return stats, nil
}

// GlobalTotals sums the nominal amount bucketed by whether the status is
// paid. This is deliberately coarser than StatsByStatus; the dashboard
// depends on these exact figures.
func (r *PaymentRepository) GlobalTotals(ctx context.Context) (*models.GlobalTotals, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0),
		       COUNT(*),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status <> 'paid'), 0)
		FROM payments
	`

	totals := &models.GlobalTotals{}
	err := r.DB.QueryRow(ctx, query).Scan(
		&totals.TotalRevenue,
		&totals.TotalPayments,
		&totals.TotalPaid,
		&totals.TotalOutstanding,
	)
	if err != nil {
		return nil, apperrors.Storage("payment global totals", err)
	}

	return totals, nil
}

// LatestSequentialBillNumber returns the highest bill number matching
// BILL-<year>-<seq> for the given year prefix, or "" if none exist.
// The sequence is four or more digits (it widens past 9999), so
// ordering goes by sequence length first; a plain lexicographic sort
// would put BILL-2026-9999 above BILL-2026-10000.
func (r *PaymentRepository) LatestSequentialBillNumber(ctx context.Context, yearPrefix string) (string, error) {
	query := `
		SELECT bill_number FROM payments
		WHERE bill_number LIKE $1 AND bill_number ~ '^BILL-[0-9]{4}-[0-9]{4,}$'
		ORDER BY LENGTH(bill_number) DESC, bill_number DESC
		LIMIT 1
	`

	var billNumber string
	err := r.DB.QueryRow(ctx, query, yearPrefix+"%").Scan(&billNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.Storage("latest sequential bill number", err)
	}

	return billNumber, nil
}
