package handlers

import (
	"encoding/json"
	"net/http"

	"glasstrade-backend/internal/middleware"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/services"
	"glasstrade-backend/pkg/utils"
)

// TOTPHandler covers two-factor enrollment for staff accounts.
type TOTPHandler struct {
	Service     *services.TOTPService
	UserService *services.UserService
}

func NewTOTPHandler(service *services.TOTPService, userService *services.UserService) *TOTPHandler {
	return &TOTPHandler{Service: service, UserService: userService}
}

// Setup generates a fresh secret and QR code for the caller.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	user, err := h.UserService.GetUser(r.Context(), actor.UserID)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	setup, err := h.Service.GenerateSetup(r.Context(), user)
	if err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"totp": setup})
}

// Verify confirms the first code and enables 2FA for the caller.
func (h *TOTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.VerifyAndEnable(r.Context(), actor.UserID, req.Code); err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"enabled": true})
}

func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "actor not found in context")
		return
	}

	if err := h.Service.Disable(r.Context(), actor.UserID); err != nil {
		utils.FromError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{"enabled": false})
}
