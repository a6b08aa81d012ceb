package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/krishisaarathi/backend/internal/models"
	"github.com/krishisaarathi/backend/internal/services"
	"go.uber.org/zap"
)

// ProfileService is the interface that wraps methods for user profile business logic.
type ProfileService interface {
	// Method GetProfile retrieves the profile of a user.
	//
	// If the user has no profile, services.ErrProfileNotFound will be returned.
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	// Method UpsertProfile creates the profile of an existing user or replaces all of its fields.
	//
	// If the user does not exist, services.ErrUserNotFound will be returned.
	// If "additionalInfo" is not valid JSON, services.ErrInvalidProfile will be returned.
	UpsertProfile(ctx context.Context, userID int64, req *models.UpsertProfileRequest) (*models.UserProfile, error)
}

// ProfileHandler handles HTTP requests for user profiles
type ProfileHandler struct {
	BaseHandler
	service ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(svc ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers profile routes
// Note: This assumes the router is already scoped to /api/v1/users
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}/profile", h.GetProfile)
	r.Put("/{id}/profile", h.UpsertProfile)
}

// GetProfile handles GET /users/{id}/profile
// @Summary Get user profile
// @Tags profiles
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /users/{id}/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			h.respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		h.logger.Error("failed to get profile", zap.Int64("userId", id), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}

	h.respondJSON(w, http.StatusOK, profile)
}

// UpsertProfile handles PUT /users/{id}/profile
// @Summary Create or replace user profile
// @Description Every field of the stored profile is replaced by the request body
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.UpsertProfileRequest true "Profile"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /users/{id}/profile [put]
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req models.UpsertProfileRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.service.UpsertProfile(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidProfile):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "user not found")
		default:
			h.logger.Error("failed to save profile", zap.Int64("userId", id), zap.Error(err))
			h.respondError(w, http.StatusInternalServerError, "failed to save profile")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, profile)
}
