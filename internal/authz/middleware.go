package authz

import (
	"log/slog"
	"net/http"

	"github.com/pandawa-internal/pandawa/internal/auth"
)

// Login and landing routes the guard redirects to. The attempted
// destination is discarded, matching the dashboard's behaviour.
const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

// GuardMetrics records guard outcomes; satisfied by observability.Metrics.
type GuardMetrics interface {
	RecordGuardDecision(outcome string)
}

// Middleware applies guard decisions to HTTP routes.
type Middleware struct {
	Resolver *Resolver
	Logger   *slog.Logger
	Metrics  GuardMetrics
}

// Require guards a route group with a menu link and capability set. An
// empty capability set requires authentication only.
func (m Middleware) Require(link string, caps ...Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := State{Identity: auth.IdentityFromContext(r.Context())}
			if st.Identity != nil && len(caps) > 0 {
				st.Snapshot = m.Resolver.Snapshot(r.Context(), *st.Identity)
			}
			outcome := Evaluate(st, link, caps...)
			if m.Metrics != nil {
				m.Metrics.RecordGuardDecision(outcome.String())
			}
			switch outcome {
			case OutcomeAllowed:
				next.ServeHTTP(w, r)
			case OutcomeUnauthenticated:
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			case OutcomeForbidden:
				if m.Logger != nil {
					m.Logger.Info("navigation forbidden",
						slog.String("path", r.URL.Path),
						slog.String("link", link),
						slog.Int64("user_id", st.Identity.ID))
				}
				http.Redirect(w, r, LandingPath, http.StatusSeeOther)
			default:
				// Pending cannot happen on the server path; identity
				// resolution completed before the guard ran.
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			}
		})
	}
}

// RequireAuthenticated guards a route that needs a session but no menu
// assignment (dashboard, profile).
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return m.Require("")
}
