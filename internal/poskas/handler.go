package poskas

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

// Handler manages cash posting endpoints.
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

// MountRoutes registers cash posting routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkPoskas, authz.CapRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.detail)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkPoskas, authz.CapCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkPoskas, authz.CapUpdate))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.LinkPoskas, authz.CapDelete))
		r.Delete("/{id}", h.remove)
	})
}

type poskasRequest struct {
	Tanggal    string `json:"tanggal" validate:"required,datetime=2006-01-02"`
	Jumlah     int64  `json:"jumlah" validate:"required,gt=0"`
	Keterangan string `json:"keterangan"`
}

type monthResponse struct {
	Bulan        string    `json:"bulan"`
	Data         []Display `json:"data"`
	Total        int64     `json:"total"`
	TotalDisplay string    `json:"total_display"`
}

// list serves the month view; ?bulan=2026-08 defaults to the current month.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if raw := r.URL.Query().Get("bulan"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "bulan must look like 2006-01")
			return
		}
		year, month = parsed.Year(), parsed.Month()
	}
	items, total, err := h.service.ListMonth(r.Context(), year, month)
	if err != nil {
		h.logger.Error("list poskas", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Display{}
	}
	httpx.JSON(w, http.StatusOK, monthResponse{
		Bulan:        time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		Data:         items,
		Total:        total,
		TotalDisplay: FormatRupiah(total),
	})
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
	tanggal, _ := time.Parse("2006-01-02", req.Tanggal)
	created, err := h.service.Create(r.Context(), h.actorID(r), Poskas{
		Tanggal:    tanggal,
		Jumlah:     req.Jumlah,
		Keterangan: req.Keterangan,
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
	tanggal, _ := time.Parse("2006-01-02", req.Tanggal)
	updated, err := h.service.Update(r.Context(), h.actorID(r), Poskas{
		ID:         id,
		Tanggal:    tanggal,
		Jumlah:     req.Jumlah,
		Keterangan: req.Keterangan,
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

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (poskasRequest, bool) {
	var req poskasRequest
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
