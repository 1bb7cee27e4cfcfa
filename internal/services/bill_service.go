package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/models"

	"github.com/jung-kurt/gofpdf/v2"
)

// BillService renders one payment as a structured bill and as a PDF
// document for download.
type BillService struct {
	Store PaymentStore
}

func NewBillService(store PaymentStore) *BillService {
	return &BillService{Store: store}
}

// RenderBill returns the structured bill for a payment, or NotFound.
// Customers can only render bills on their own payments; staff and
// admin actors see everything.
func (s *BillService) RenderBill(ctx context.Context, actor models.Actor, id int) (*models.Bill, error) {
	payment, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleCustomer && payment.CustomerID != actor.UserID {
		return nil, apperrors.Forbidden("payment %d does not belong to you", id)
	}

	return &models.Bill{
		BillNumber:    payment.BillNumber,
		SiteName:      payment.SiteName,
		CustomerName:  payment.CustomerName,
		CustomerPhone: payment.CustomerPhone,
		ProductName:   payment.ProductName,
		Amount:        payment.Amount,
		PaidAmount:    payment.PaidAmount,
		BalanceAmount: payment.BalanceAmount,
		Status:        payment.Status,
		PaymentDate:   payment.PaymentDate,
		PaymentMethod: payment.PaymentMethod,
		TransactionID: payment.TransactionID,
		Notes:         payment.Notes,
		GeneratedAt:   time.Now(),
	}, nil
}

// RenderBillPDF produces the downloadable bill document and its
// suggested filename. Layout failures come back as RenderError so the
// caller can tell "no such payment" from "could not produce document".
func (s *BillService) RenderBillPDF(ctx context.Context, actor models.Actor, id int) ([]byte, string, error) {
	bill, err := s.RenderBill(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "GlassTrade Distributors - Bill", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", bill.GeneratedAt.Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Bill Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Bill Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Bill No: %s", bill.BillNumber), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", bill.PaymentDate.Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", bill.CustomerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", bill.CustomerPhone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Site: %s", bill.SiteName), "LB", 0, "L", false, 0, "")
	if bill.PaymentMethod != "" {
		pdf.CellFormat(95, 7, fmt.Sprintf("Method: %s", bill.PaymentMethod), "RB", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(95, 7, "", "RB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Line table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(100, 7, "Product / Service", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Paid", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	product := bill.ProductName
	if len(product) > 45 {
		product = product[:42] + "..."
	}
	pdf.CellFormat(100, 7, product, "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", bill.Amount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", bill.PaidAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", bill.BalanceAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(5)

	// Status banner - highlight outstanding balance
	if bill.BalanceAmount > 0 {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	banner := fmt.Sprintf("Balance Due: Rs. %.2f", bill.BalanceAmount)
	if bill.Status == models.StatusPaid {
		banner = "FULLY PAID"
	}
	pdf.CellFormat(190, 10, banner, "1", 1, "C", true, 0, "")

	if bill.TransactionID != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(190, 5, fmt.Sprintf("Transaction Ref: %s", bill.TransactionID), "", 1, "L", false, 0, "")
	}
	if bill.Notes != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(190, 5, "Notes: "+bill.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", apperrors.Render("bill document generation failed", err)
	}

	filename := fmt.Sprintf("%s.pdf", strings.ReplaceAll(bill.BillNumber, "/", "-"))
	return buf.Bytes(), filename, nil
}
