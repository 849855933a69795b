package komplain

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

// Handler manages complaint endpoints.
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

// MountRoutes registers complaint routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkKomplain, authz.CapRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.detail)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkKomplain, authz.CapCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkKomplain, authz.CapUpdate))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkKomplain, authz.CapDelete))
		r.Delete("/{id}", h.remove)
	})
}

type komplainRequest struct {
	Judul      string `json:"judul" validate:"required"`
	Isi        string `json:"isi" validate:"required"`
	Prioritas  string `json:"prioritas" validate:"required,oneof=rendah sedang tinggi"`
	Status     string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	AssigneeID *int64 `json:"id_penerima"`
}

type listResponse struct {
	Data       []Komplain        `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r)
	items, pagination, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list komplain", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Komplain{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Data: items, Pagination: pagination})
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), h.actorID(r), Komplain{
		Judul:      req.Judul,
		Isi:        req.Isi,
		Prioritas:  req.Prioritas,
		Status:     req.Status,
		AssigneeID: req.AssigneeID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), h.actorID(r), Komplain{
		ID:         id,
		Judul:      req.Judul,
		Isi:        req.Isi,
		Prioritas:  req.Prioritas,
		Status:     req.Status,
		AssigneeID: req.AssigneeID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), h.actorID(r), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (komplainRequest, bool) {
	var req komplainRequest
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

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) actorID(r *http.Request) int64 {
	if identity := auth.IdentityFromContext(r.Context()); identity != nil {
		return identity.ID
	}
	return 0
}
