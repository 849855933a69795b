package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pandawa-internal/pandawa/internal/platform/httpx"
	"github.com/pandawa-internal/pandawa/internal/shared"
)

// LoginMetrics records login attempts; satisfied by observability.Metrics.
type LoginMetrics interface {
	RecordLogin(result string)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	metrics   LoginMetrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics LoginMetrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Nama     string `json:"nama"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(id Identity) userResponse {
	return userResponse{
		ID:       id.ID,
		Username: id.Username,
		Nama:     id.Nama,
		Role:     string(id.Role),
		Status:   id.Status(),
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	identity, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if h.logger != nil {
			h.logger.Info("login rejected", slog.String("username", req.Username))
		}
		if h.metrics != nil {
			h.metrics.RecordLogin("rejected")
		}
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordLogin("success")
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(identity)})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), BearerToken(r)); err != nil {
		if h.logger != nil {
			h.logger.Error("logout", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(*identity))
}
