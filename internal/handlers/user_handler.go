package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/krishisaarathi/backend/internal/metrics"
	"github.com/krishisaarathi/backend/internal/models"
	"github.com/krishisaarathi/backend/internal/services"
	"go.uber.org/zap"
)

// Client-facing registration messages
const (
	msgRegistered       = "User registered successfully"
	msgMissingFields    = "Missing required fields: email, password, firstName, role"
	msgDuplicateEmail   = "Email already registered"
	msgInvalidRole      = "Invalid role. Must be: ADMIN, FARMER, DRIVER, or MARKET"
	msgRegistrationFail = "Registration failed: "
)

// UserService is the interface that wraps methods for user business logic.
type UserService interface {
	// Method Register validates the request, resolves the requested role and stores a new user.
	//
	// "req" parameter contains email, password, firstName, role and the optional lastName and phoneNumber.
	// The first failing check wins: services.ErrMissingFields, services.ErrDuplicateEmail, services.ErrUnknownRole.
	// Any other failure is returned as *services.RegistrationError together with "nil" value.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error)
	// Method ListRoles retrieves the role catalog.
	ListRoles(ctx context.Context) ([]models.Role, error)
	// Method ListUsers retrieves every user together with its role.
	ListUsers(ctx context.Context) ([]models.User, error)
	// Method ListUsersByRole retrieves users of a role.
	//
	// "roleName" parameter is matched case-insensitively. An unknown role yields an empty list.
	// "activeOnly" parameter skips inactive users when set.
	ListUsersByRole(ctx context.Context, roleName string, activeOnly bool) ([]models.User, error)
	// Method GetUser retrieves a user by its ID.
	//
	// If user with such ID does not exist, services.ErrUserNotFound will be returned.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// Method Stats computes the total number of users and the count per canonical role.
	Stats(ctx context.Context) (*models.UserStats, error)
}

// UserHandler handles HTTP requests for users
type UserHandler struct {
	BaseHandler
	service UserService
	metrics *metrics.Metrics
}

// NewUserHandler creates a new user handler. "m" may be nil.
func NewUserHandler(svc UserService, m *metrics.Metrics, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
		metrics:     m,
	}
}

// RegisterRoutes registers all user handler routes
// Note: This assumes the router is already scoped to /api/v1/users
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListUsers)
	r.Get("/roles", h.ListRoles)
	r.Get("/stats", h.Stats)
	r.Post("/register", h.Register)
	r.Get("/role/{roleName}", h.ListUsersByRole)
	r.Get("/{id}", h.GetUser)
}

// ListRoles handles GET /users/roles
// @Summary List roles
// @Description Get the role catalog
// @Tags users
// @Produce json
// @Success 200 {array} models.Role
// @Failure 500 {object} models.MessageResponse
// @Router /users/roles [get]
func (h *UserHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("failed to list roles", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get roles")
		return
	}

	h.respondJSON(w, http.StatusOK, roles)
}

// Register handles POST /users/register
// @Summary Register a new user
// @Description Register a user with one of the roles ADMIN, FARMER, DRIVER or MARKET. The role is matched case-insensitively.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 200 {object} models.RegisterResponse
// @Failure 400 {object} models.RegisterResponse "Missing fields, duplicate email or invalid role"
// @Failure 500 {object} models.RegisterResponse "Registration failed"
// @Router /users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.metrics.ObserveRegistration(metrics.OutcomeInvalidBody)
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		status, message, outcome := registrationFailure(err)
		h.metrics.ObserveRegistration(outcome)
		if status >= http.StatusInternalServerError {
			h.logger.Error("failed to register user", zap.Error(err))
		}
		h.respondError(w, status, message)
		return
	}

	h.metrics.ObserveRegistration(metrics.OutcomeSuccess)
	h.respondJSON(w, http.StatusOK, models.RegisterResponse{
		Success: true,
		Message: msgRegistered,
		UserID:  result.UserID,
		Email:   result.Email,
		Role:    result.Role,
	})
}

// registrationFailure maps a registration error to its status, message and metric outcome
func registrationFailure(err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return http.StatusBadRequest, msgMissingFields, metrics.OutcomeMissingFields
	case errors.Is(err, services.ErrDuplicateEmail):
		return http.StatusBadRequest, msgDuplicateEmail, metrics.OutcomeDuplicate
	case errors.Is(err, services.ErrUnknownRole):
		return http.StatusBadRequest, msgInvalidRole, metrics.OutcomeInvalidRole
	}

	var regErr *services.RegistrationError
	if errors.As(err, &regErr) {
		return http.StatusInternalServerError, msgRegistrationFail + regErr.Err.Error(), metrics.OutcomeError
	}
	return http.StatusInternalServerError, msgRegistrationFail + err.Error(), metrics.OutcomeError
}

// ListUsers handles GET /users
// @Summary List users
// @Description Get every registered user with its role
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} models.MessageResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get users")
		return
	}

	h.respondJSON(w, http.StatusOK, users)
}

// ListUsersByRole handles GET /users/role/{roleName}
// @Summary List users by role
// @Description Get users holding a role. The role name is case-insensitive and an unknown role yields an empty list.
// @Tags users
// @Produce json
// @Param roleName path string true "Role name: ADMIN, FARMER, DRIVER or MARKET"
// @Param active query bool false "Only return active users"
// @Success 200 {array} models.User
// @Failure 400 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /users/role/{roleName} [get]
func (h *UserHandler) ListUsersByRole(w http.ResponseWriter, r *http.Request) {
	roleName := chi.URLParam(r, "roleName")

	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid active parameter")
			return
		}
		activeOnly = v
	}

	users, err := h.service.ListUsersByRole(r.Context(), roleName, activeOnly)
	if err != nil {
		h.logger.Error("failed to list users by role", zap.String("role", roleName), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get users")
		return
	}

	h.respondJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			h.respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// Stats handles GET /users/stats
// @Summary User statistics
// @Description Get the total number of users and the count per role
// @Tags users
// @Produce json
// @Success 200 {object} models.UserStats
// @Failure 500 {object} models.MessageResponse
// @Router /users/stats [get]
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to get user stats", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get user stats")
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}
