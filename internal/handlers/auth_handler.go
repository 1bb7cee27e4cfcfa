package handlers

import (
	"encoding/json"
	"net/http"

	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/services"
	"glasstrade-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(service *services.UserService) *AuthHandler {
	return &AuthHandler{Service: service}
}

// Signup registers a new customer account. Staff and admin accounts are
// only created through the admin user endpoints.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Signup(r.Context(), &req)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, map[string]interface{}{
		"token": resp.Token,
		"user":  resp.User,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"token": resp.Token,
		"user":  resp.User,
	})
}
