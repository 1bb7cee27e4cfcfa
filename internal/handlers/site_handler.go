package handlers

import (
	"encoding/json"
	"net/http"

	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/services"
	"glasstrade-backend/internal/storage"
	"glasstrade-backend/pkg/utils"
)

type SiteHandler struct {
	Service  *services.SiteService
	Uploader *storage.Uploader // nil when object storage is not configured
}

func NewSiteHandler(service *services.SiteService, uploader *storage.Uploader) *SiteHandler {
	return &SiteHandler{Service: service, Uploader: uploader}
}

func (h *SiteHandler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	site, err := h.Service.CreateSite(r.Context(), &req)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, map[string]interface{}{"site": site})
}

func (h *SiteHandler) GetSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid site ID")
		return
	}

	site, err := h.Service.GetSite(r.Context(), id)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"site": site})
}

func (h *SiteHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.Service.ListSites(r.Context())
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"sites": sites})
}

func (h *SiteHandler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid site ID")
		return
	}

	var site models.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	site.ID = id

	if err := h.Service.UpdateSite(r.Context(), &site); err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"site": site})
}

// DeleteSite removes the site together with its images, line items and
// payments in one transaction.
func (h *SiteHandler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid site ID")
		return
	}

	if err := h.Service.DeleteSite(r.Context(), id); err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"id": id})
}

// UploadImage accepts a multipart photo for the site gallery.
func (h *SiteHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid site ID")
		return
	}

	if h.Uploader == nil {
		utils.Error(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.Uploader.Upload(r.Context(), storage.SiteImageKey(id, header.Filename), contentType, file)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "image upload failed: "+err.Error())
		return
	}

	image, err := h.Service.AddImage(r.Context(), id, url)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, map[string]interface{}{"image": image})
}
