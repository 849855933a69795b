package menus

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pandawa-internal/pandawa/internal/auth"
	"github.com/pandawa-internal/pandawa/internal/authz"
	"github.com/pandawa-internal/pandawa/internal/platform/httpx"
	"github.com/pandawa-internal/pandawa/internal/shared"
)

// Handler manages PIC-menu assignment endpoints. All routes require the
// manage capability on the pic-menu link; in practice only the Owner role
// reaches them.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers PIC-menu routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkPicMenu, authz.CapManage))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

type assignmentRequest struct {
	Nama   string `json:"nama" validate:"required"`
	Link   string `json:"link" validate:"required"`
	UserID int64  `json:"id_user" validate:"required,gt=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list pic-menu", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if assignments == nil {
		assignments = []MenuAssignment{}
	}
	httpx.JSON(w, http.StatusOK, assignments)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Assign(r.Context(), h.actorID(r), req.Nama, req.Link, req.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid assignment id")
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), h.actorID(r), id, req.Nama, req.Link, req.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid assignment id")
		return
	}
	if err := h.service.Remove(r.Context(), h.actorID(r), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (assignmentRequest, bool) {
	var req assignmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "body must be valid JSON")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return req, false
	}
	return req, true
}

func (h *Handler) actorID(r *http.Request) int64 {
	if identity := auth.IdentityFromContext(r.Context()); identity != nil {
		return identity.ID
	}
	return 0
}
