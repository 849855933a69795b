package authz

import "github.com/pandawa-internal/pandawa/internal/auth"

// Snapshot is the resolved permission state for one identity at one
// generation. It is immutable once built; a new generation produces a new
// snapshot.
type Snapshot struct {
	UserID     int64
	Role       auth.Role
	Generation int64

	links  map[string]struct{}
	bypass bool
	failed bool
}

// NewSnapshot builds a snapshot from resolved assignment links.
func NewSnapshot(userID int64, role auth.Role, generation int64, links []string) Snapshot {
	set := make(map[string]struct{}, len(links))
	for _, l := range links {
		set[l] = struct{}{}
	}
	return Snapshot{UserID: userID, Role: role, Generation: generation, links: set}
}

// BypassSnapshot represents a role-wide grant; no assignment lookup happened.
func BypassSnapshot(userID int64, role auth.Role) Snapshot {
	return Snapshot{UserID: userID, Role: role, bypass: true}
}

// DeniedSnapshot is the fail-closed result when assignments could not be
// resolved. It grants nothing beyond bare authentication.
func DeniedSnapshot(userID int64, role auth.Role) Snapshot {
	return Snapshot{UserID: userID, Role: role, failed: true}
}

// Allows reports whether this snapshot satisfies a route's requirement.
// An empty capability set requires authentication only. Link presence
// grants every capability for that menu; the assignment records carry no
// per-capability flags.
func (s Snapshot) Allows(link string, caps ...Capability) bool {
	if len(caps) == 0 {
		return true
	}
	if s.bypass {
		return true
	}
	if s.failed {
		return false
	}
	_, ok := s.links[link]
	return ok
}

// Links returns the menu links this snapshot makes visible, for building
// the navigable menu list. Empty for bypass snapshots: the caller renders
// the full menu for bypass roles.
func (s Snapshot) Links() []string {
	out := make([]string, 0, len(s.links))
	for l := range s.links {
		out = append(out, l)
	}
	return out
}

// Bypass reports whether the role-wide shortcut applied.
func (s Snapshot) Bypass() bool {
	return s.bypass
}

// Failed reports whether this is a fail-closed snapshot.
func (s Snapshot) Failed() bool {
	return s.failed
}
