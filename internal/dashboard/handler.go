package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pandawa-internal/pandawa/internal/auth"
	"github.com/pandawa-internal/pandawa/internal/authz"
	"github.com/pandawa-internal/pandawa/internal/platform/httpx"
	"github.com/pandawa-internal/pandawa/internal/poskas"
	"github.com/pandawa-internal/pandawa/internal/shared"
)

// Counts abstracts the summary queries.
type Counts interface {
	OpenKomplainCount(ctx context.Context) (int, error)
	PendingTugasCount(ctx context.Context) (int, error)
}

// PoskasTotals abstracts the cash total lookup.
type PoskasTotals interface {
	MonthTotal(ctx context.Context, year int, month time.Month) (int64, error)
}

// Handler serves the authenticated landing page summary. It requires a
// session but no menu assignment: every logged-in user lands here.
type Handler struct {
	logger   *slog.Logger
	counts   Counts
	totals   PoskasTotals
	resolver *authz.Resolver
	guard    authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, counts Counts, totals PoskasTotals, resolver *authz.Resolver, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, counts: counts, totals: totals, resolver: resolver, guard: guard}
}

// MountRoutes registers the dashboard route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuthenticated())
		r.Get("/", h.summary)
	})
}

type summaryResponse struct {
	KomplainOpen       int      `json:"komplain_open"`
	TugasPending       int      `json:"tugas_pending"`
	PoskasBulanIni     int64    `json:"poskas_bulan_ini"`
	PoskasBulanDisplay string   `json:"poskas_bulan_ini_display"`
	Menus              []string `json:"menus"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := auth.IdentityFromContext(ctx)

	open, err := h.counts.OpenKomplainCount(ctx)
	if err != nil {
		h.logger.Error("dashboard komplain count", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	pending, err := h.counts.PendingTugasCount(ctx)
	if err != nil {
		h.logger.Error("dashboard tugas count", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	now := time.Now()
	total, err := h.totals.MonthTotal(ctx, now.Year(), now.Month())
	if err != nil {
		h.logger.Error("dashboard poskas total", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, summaryResponse{
		KomplainOpen:       open,
		TugasPending:       pending,
		PoskasBulanIni:     total,
		PoskasBulanDisplay: poskas.FormatRupiah(total),
		Menus:              h.visibleMenus(ctx, *identity),
	})
}

// visibleMenus builds the navigable menu list for the caller. Bypass roles
// see every assignable menu; others see exactly their live assignments.
func (h *Handler) visibleMenus(ctx context.Context, identity auth.Identity) []string {
	snap := h.resolver.Snapshot(ctx, identity)
	var menus []string
	if snap.Bypass() {
		menus = shared.AssignableLinks()
	} else {
		menus = snap.Links()
	}
	sort.Strings(menus)
	return menus
}
