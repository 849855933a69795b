package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pandawa-internal/pandawa/internal/auth"
	"github.com/pandawa-internal/pandawa/internal/dashboard"
	"github.com/pandawa-internal/pandawa/internal/komplain"
	"github.com/pandawa-internal/pandawa/internal/menus"
	"github.com/pandawa-internal/pandawa/internal/observability"
	"github.com/pandawa-internal/pandawa/internal/platform/httpx"
	"github.com/pandawa-internal/pandawa/internal/poskas"
	"github.com/pandawa-internal/pandawa/internal/tugas"
	"github.com/pandawa-internal/pandawa/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthService      *auth.Service
	AuthHandler      *auth.Handler
	MenusHandler     *menus.Handler
	KomplainHandler  *komplain.Handler
	TugasHandler     *tugas.Handler
	PoskasHandler    *poskas.Handler
	UsersHandler     *users.Handler
	DashboardHandler *dashboard.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Pandawa defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:      params.Logger,
		Config:      params.Config,
		AuthService: params.AuthService,
		Metrics:     params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	// Unauthenticated clients land here; the SPA serves its own form.
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
	})

	params.AuthHandler.MountRoutes(r)

	r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	r.Route("/profile", params.UsersHandler.MountProfileRoutes)
	r.Route("/komplain", params.KomplainHandler.MountRoutes)
	r.Route("/tugas", params.TugasHandler.MountRoutes)
	r.Route("/poskas", params.PoskasHandler.MountRoutes)
	r.Route("/users", params.UsersHandler.MountRoutes)
	r.Route("/pic-menu", params.MenusHandler.MountRoutes)

	return r
}
