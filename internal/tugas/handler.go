package tugas

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pandawa-internal/pandawa/internal/auth"
	"github.com/pandawa-internal/pandawa/internal/authz"
	"github.com/pandawa-internal/pandawa/internal/platform/httpx"
	"github.com/pandawa-internal/pandawa/internal/shared"
)

// Handler manages task endpoints.
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

// MountRoutes registers task routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkTugas, authz.CapRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.detail)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkTugas, authz.CapCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkTugas, authz.CapUpdate))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkTugas, authz.CapDelete))
		r.Delete("/{id}", h.remove)
	})
}

type tugasRequest struct {
	Judul      string `json:"judul" validate:"required"`
	Deskripsi  string `json:"deskripsi"`
	AssigneeID int64  `json:"id_penerima" validate:"required,gt=0"`
	DueDate    string `json:"jatuh_tempo" validate:"omitempty,datetime=2006-01-02"`
	Status     string `json:"status" validate:"omitempty,oneof=pending in_progress done"`
}

func (req tugasRequest) toDomain() Tugas {
	t := Tugas{
		Judul:      req.Judul,
		Deskripsi:  req.Deskripsi,
		AssigneeID: req.AssigneeID,
		Status:     req.Status,
	}
	if req.DueDate != "" {
		if due, err := time.Parse("2006-01-02", req.DueDate); err == nil {
			t.DueDate = &due
		}
	}
	return t
}

type listResponse struct {
	Data       []Tugas           `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r)
	items, pagination, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list tugas", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Tugas{}
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
	created, err := h.service.Create(r.Context(), h.actorID(r), req.toDomain())
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
	t := req.toDomain()
	t.ID = id
	updated, err := h.service.Update(r.Context(), h.actorID(r), t)
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

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (tugasRequest, bool) {
	var req tugasRequest
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
