package authz

import "github.com/pandawa-internal/pandawa/internal/auth"

// Outcome is the route guard's decision for one navigation attempt.
type Outcome int

const (
	// OutcomePending defers the decision: identity resolution is still in
	// flight. Never redirect and never render while pending.
	OutcomePending Outcome = iota
	// OutcomeUnauthenticated sends the caller to the login route.
	OutcomeUnauthenticated
	// OutcomeForbidden sends an authenticated caller to the default
	// landing page. There is no dedicated 403 page.
	OutcomeForbidden
	// OutcomeAllowed renders the protected view.
	OutcomeAllowed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeAllowed:
		return "allowed"
	}
	return "unknown"
}

// State is the guard's view of the two upstream providers at decision time.
type State struct {
	// Loading is true while the identity provider has not settled yet.
	// It dominates every other field.
	Loading  bool
	Identity *auth.Identity
	Snapshot Snapshot
}

// Evaluate makes the pure four-outcome guard decision for a route that
// declares a menu link and a required capability set.
func Evaluate(st State, link string, caps ...Capability) Outcome {
	if st.Loading {
		return OutcomePending
	}
	if st.Identity == nil {
		return OutcomeUnauthenticated
	}
	if st.Snapshot.Allows(link, caps...) {
		return OutcomeAllowed
	}
	return OutcomeForbidden
}
