package handlers

import (
	"encoding/json"
	"net/http"

	"glasstrade-backend/internal/middleware"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/services"
	"glasstrade-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ContentHandler struct {
	Service *services.ContentService
}

func NewContentHandler(service *services.ContentService) *ContentHandler {
	return &ContentHandler{Service: service}
}

// GetPage is public; the storefront reads its copy from here.
func (h *ContentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	page, err := h.Service.GetPage(r.Context(), slug)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"page": page})
}

func (h *ContentHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.Service.ListPages(r.Context())
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"pages": pages})
}

// SavePage creates or replaces the page for a slug.
func (h *ContentHandler) SavePage(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	slug := mux.Vars(r)["slug"]

	var req models.UpsertContentPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	page, err := h.Service.SavePage(r.Context(), actor, slug, &req)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"page": page})
}
