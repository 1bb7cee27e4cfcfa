package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"glasstrade-backend/internal/cache"
	"glasstrade-backend/internal/metrics"
	"glasstrade-backend/internal/middleware"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/services"
	"glasstrade-backend/internal/storage"
	"glasstrade-backend/pkg/utils"

	"github.com/gorilla/mux"
)

const maxReceiptSize = 10 << 20 // 10 MB

type PaymentHandler struct {
	Service     *services.PaymentService
	BillService *services.BillService
	SiteService *services.SiteService
	UserService *services.UserService
	Uploader    *storage.Uploader // nil when object storage is not configured
}

func NewPaymentHandler(
	service *services.PaymentService,
	billService *services.BillService,
	siteService *services.SiteService,
	userService *services.UserService,
	uploader *storage.Uploader,
) *PaymentHandler {
	return &PaymentHandler{
		Service:     service,
		BillService: billService,
		SiteService: siteService,
		UserService: userService,
		Uploader:    uploader,
	}
}

func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// uploadReceipt stores the attached receipt file, if any, and returns
// its public URL. An empty URL with nil error means no file was sent.
func (h *PaymentHandler) uploadReceipt(r *http.Request, billNumber string) (string, error) {
	file, header, err := r.FormFile("receipt")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	if h.Uploader == nil {
		return "", fmt.Errorf("receipt upload requested but object storage is not configured")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storage.ReceiptKey(billNumber, header.Filename)
	return h.Uploader.Upload(r.Context(), key, contentType, file)
}

// createRequestFromForm reads the multipart form fields of a create.
func createRequestFromForm(r *http.Request) *models.CreatePaymentRequest {
	req := &models.CreatePaymentRequest{
		ProductName:   r.FormValue("product_name"),
		PaymentDate:   r.FormValue("payment_date"),
		PaymentMethod: r.FormValue("payment_method"),
		TransactionID: r.FormValue("transaction_id"),
		Notes:         r.FormValue("notes"),
		BillNumber:    r.FormValue("bill_number"),
	}
	req.SiteID, _ = strconv.Atoi(r.FormValue("site_id"))
	req.CustomerID, _ = strconv.Atoi(r.FormValue("customer_id"))
	req.Amount, _ = strconv.ParseFloat(r.FormValue("amount"), 64)
	req.PaidAmount, _ = strconv.ParseFloat(r.FormValue("paid_amount"), 64)
	return req
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	var req *models.CreatePaymentRequest
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		req = createRequestFromForm(r)

		// The receipt key needs a bill number, so mint before upload
		// when the caller did not supply one.
		if req.BillNumber == "" {
			req.BillNumber = services.MintBillNumber()
		}
		receiptURL, err := h.uploadReceipt(r, req.BillNumber)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "receipt upload failed: "+err.Error())
			return
		}
		if receiptURL != "" {
			req.ReceiptURL = receiptURL
		}
	} else {
		req = &models.CreatePaymentRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	payment, err := h.Service.CreatePayment(r.Context(), actor, req)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	metrics.PaymentsCreated.Inc()
	cache.InvalidateStats(r.Context())
	utils.Success(w, http.StatusCreated, map[string]interface{}{"payment": payment})
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	payment, err := h.Service.GetPayment(r.Context(), id)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"payment": payment})
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.ListPayments(r.Context())
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

func (h *PaymentHandler) ListBySite(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "site_id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid site ID")
		return
	}

	payments, err := h.Service.ListBySite(r.Context(), siteID)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

func (h *PaymentHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customer_id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	payments, err := h.Service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

func (h *PaymentHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := mux.Vars(r)["status"]

	payments, err := h.Service.ListByStatus(r.Context(), status)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

// ListMyPayments is the customer-facing payment list. A customer can
// only read their own ledger; staff and admin can read anyone's.
func (h *PaymentHandler) ListMyPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	customerID, err := pathID(r, "customer_id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	if actor.Role == models.RoleCustomer && actor.UserID != customerID {
		utils.Error(w, http.StatusForbidden, "you can only view your own payments")
		return
	}

	payments, err := h.Service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

// ListCustomerSites feeds the site picklist when billing a customer.
func (h *PaymentHandler) ListCustomerSites(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customer_id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	sites, err := h.SiteService.ListSitesByCustomer(r.Context(), customerID)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"sites": sites})
}

// ListCustomerProducts feeds the billable line item picklist.
func (h *PaymentHandler) ListCustomerProducts(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customer_id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	items, err := h.SiteService.ListLineItemsByCustomer(r.Context(), customerID)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"items": items})
}

// ListCustomers feeds the customer picklist.
func (h *PaymentHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.UserService.ListCustomers(r.Context())
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"customers": customers})
}

func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	req := &models.UpdatePaymentRequest{}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		formString := func(name string) *string {
			if vals, ok := r.MultipartForm.Value[name]; ok && len(vals) > 0 {
				return &vals[0]
			}
			return nil
		}
		formInt := func(name string) *int {
			if s := formString(name); s != nil {
				if n, err := strconv.Atoi(*s); err == nil {
					return &n
				}
			}
			return nil
		}
		formFloat := func(name string) *float64 {
			if s := formString(name); s != nil {
				if f, err := strconv.ParseFloat(*s, 64); err == nil {
					return &f
				}
			}
			return nil
		}
		req.SiteID = formInt("site_id")
		req.CustomerID = formInt("customer_id")
		req.ProductName = formString("product_name")
		req.Amount = formFloat("amount")
		req.PaidAmount = formFloat("paid_amount")
		req.PaymentDate = formString("payment_date")
		req.PaymentMethod = formString("payment_method")
		req.TransactionID = formString("transaction_id")
		req.Notes = formString("notes")

		existing, err := h.Service.GetPayment(r.Context(), id)
		if err != nil {
			utils.FromError(w, err)
			return
		}
		receiptURL, err := h.uploadReceipt(r, existing.BillNumber)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "receipt upload failed: "+err.Error())
			return
		}
		if receiptURL != "" {
			req.ReceiptURL = &receiptURL
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	payment, err := h.Service.UpdatePayment(r.Context(), actor, id, req)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	cache.InvalidateStats(r.Context())
	utils.Success(w, http.StatusOK, map[string]interface{}{"payment": payment})
}

func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateStatus(r.Context(), actor, id, body.Status); err != nil {
		utils.FromError(w, err)
		return
	}

	cache.InvalidateStats(r.Context())
	utils.Success(w, http.StatusOK, map[string]interface{}{"id": id, "status": body.Status})
}

func (h *PaymentHandler) UpdatePaidAmount(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	var body struct {
		PaidAmount float64 `json:"paid_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.Service.UpdatePaidAmount(r.Context(), actor, id, body.PaidAmount)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	cache.InvalidateStats(r.Context())
	utils.Success(w, http.StatusOK, map[string]interface{}{"payment": payment})
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	if err := h.Service.DeletePayment(r.Context(), actor, id); err != nil {
		utils.FromError(w, err)
		return
	}

	cache.InvalidateStats(r.Context())
	utils.Success(w, http.StatusOK, map[string]interface{}{"id": id})
}

// GlobalStats serves the dashboard totals, cached for a short window.
func (h *PaymentHandler) GlobalStats(w http.ResponseWriter, r *http.Request) {
	if data, ok := cache.GetStats(r.Context(), cache.GlobalTotalsKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	totals, err := h.Service.GlobalTotals(r.Context())
	if err != nil {
		utils.FromError(w, err)
		return
	}

	body, _ := json.Marshal(map[string]interface{}{"success": true, "stats": totals})
	cache.SetStats(r.Context(), cache.GlobalTotalsKey, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// StatusStats serves the per-status breakdown. Distinct from
// GlobalStats on purpose; the two aggregate differently.
func (h *PaymentHandler) StatusStats(w http.ResponseWriter, r *http.Request) {
	if data, ok := cache.GetStats(r.Context(), cache.StatusStatsKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	stats, err := h.Service.StatsByStatus(r.Context())
	if err != nil {
		utils.FromError(w, err)
		return
	}

	body, _ := json.Marshal(map[string]interface{}{"success": true, "stats": stats})
	cache.SetStats(r.Context(), cache.StatusStatsKey, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// NextBillNumber answers the explicit sequential-number query.
func (h *PaymentHandler) NextBillNumber(w http.ResponseWriter, r *http.Request) {
	billNumber, err := h.Service.NextBillNumber(r.Context())
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"bill_number": billNumber})
}

func (h *PaymentHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	bill, err := h.BillService.RenderBill(r.Context(), actor, id)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"bill": bill})
}

func (h *PaymentHandler) DownloadBillPDF(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	data, filename, err := h.BillService.RenderBillPDF(r.Context(), actor, id)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	metrics.BillsRendered.Inc()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(data)
}
