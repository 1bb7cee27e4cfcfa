package handlers

import (
	"encoding/json"
	"net/http"

	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/services"
	"glasstrade-backend/pkg/utils"
)

type ProductHandler struct {
	Service *services.ProductService
}

func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{Service: service}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.Service.CreateProduct(r.Context(), &req)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, map[string]interface{}{"product": product})
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.Service.GetProduct(r.Context(), id)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"product": product})
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts(r.Context())
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product.ID = id

	if err := h.Service.UpdateProduct(r.Context(), &product); err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"product": product})
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.Service.DeleteProduct(r.Context(), id); err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"id": id})
}
