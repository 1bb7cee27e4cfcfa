package handlers

import (
	"encoding/json"
	"net/http"

	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/services"
	"glasstrade-backend/pkg/utils"
)

type InquiryHandler struct {
	Service *services.InquiryService
}

func NewInquiryHandler(service *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{Service: service}
}

// CreateInquiry is the public contact-form endpoint; no auth required.
func (h *InquiryHandler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inquiry, err := h.Service.CreateInquiry(r.Context(), &req)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, map[string]interface{}{"inquiry": inquiry})
}

func (h *InquiryHandler) GetInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid inquiry ID")
		return
	}

	inquiry, err := h.Service.GetInquiry(r.Context(), id)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"inquiry": inquiry})
}

func (h *InquiryHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.Service.ListInquiries(r.Context())
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"inquiries": inquiries})
}

func (h *InquiryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid inquiry ID")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateStatus(r.Context(), id, body.Status); err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"id": id, "status": body.Status})
}

func (h *InquiryHandler) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid inquiry ID")
		return
	}

	if err := h.Service.DeleteInquiry(r.Context(), id); err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"id": id})
}
