package authz

import (
	"testing"

	"github.com/pandawa-internal/pandawa/internal/auth"
	"github.com/pandawa-internal/pandawa/internal/shared"
	_ "github.com/pandawa-internal/pandawa/testing"
)

func divisiIdentity() *auth.Identity {
	return &auth.Identity{ID: 7, Username: "tina", Nama: "Tina", Role: auth.RoleDivisi, Active: true}
}

func TestEvaluateLoadingDominates(t *testing.T) {
	// Even with a settled identity and a snapshot that would allow the
	// route, a loading state must stay pending.
	st := State{
		Loading:  true,
		Identity: divisiIdentity(),
		Snapshot: NewSnapshot(7, auth.RoleDivisi, 1, []string{shared.LinkKomplain}),
	}
	if got := Evaluate(st, shared.LinkKomplain, CapRead); got != OutcomePending {
		t.Fatalf("expected pending, got %s", got)
	}
}

func TestEvaluateUnauthenticated(t *testing.T) {
	st := State{Snapshot: NewSnapshot(0, "", 0, nil)}
	if got := Evaluate(st, shared.LinkKomplain, CapRead); got != OutcomeUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", got)
	}
}

func TestEvaluateAssignedAndMissingLinks(t *testing.T) {
	st := State{
		Identity: divisiIdentity(),
		Snapshot: NewSnapshot(7, auth.RoleDivisi, 1, []string{shared.LinkKomplain}),
	}
	if got := Evaluate(st, shared.LinkKomplain, CapRead); got != OutcomeAllowed {
		t.Fatalf("expected allowed for assigned link, got %s", got)
	}
	if got := Evaluate(st, shared.LinkPoskas, CapRead); got != OutcomeForbidden {
		t.Fatalf("expected forbidden for unassigned link, got %s", got)
	}
}

func TestEvaluateAuthenticationOnlyRoute(t *testing.T) {
	// No required capabilities means any authenticated caller passes,
	// even one whose snapshot failed to resolve.
	st := State{
		Identity: divisiIdentity(),
		Snapshot: DeniedSnapshot(7, auth.RoleDivisi),
	}
	if got := Evaluate(st, shared.LinkDashboard); got != OutcomeAllowed {
		t.Fatalf("expected allowed, got %s", got)
	}
}

func TestEvaluateFailedSnapshotDenies(t *testing.T) {
	st := State{
		Identity: divisiIdentity(),
		Snapshot: DeniedSnapshot(7, auth.RoleDivisi),
	}
	if got := Evaluate(st, shared.LinkKomplain, CapRead); got != OutcomeForbidden {
		t.Fatalf("expected forbidden, got %s", got)
	}
}

func TestEvaluateBypassRole(t *testing.T) {
	owner := &auth.Identity{ID: 1, Username: "owner", Nama: "Owner", Role: auth.RoleOwner, Active: true}
	st := State{
		Identity: owner,
		Snapshot: BypassSnapshot(1, auth.RoleOwner),
	}
	if got := Evaluate(st, shared.LinkUsers, CapManage); got != OutcomeAllowed {
		t.Fatalf("expected allowed for bypass role, got %s", got)
	}
}

func TestSnapshotLinkPresenceGrantsEveryCapability(t *testing.T) {
	snap := NewSnapshot(7, auth.RoleDivisi, 1, []string{shared.LinkTugas})
	for _, cap := range []Capability{CapRead, CapCreate, CapUpdate, CapDelete, CapApprove, CapManage} {
		if !snap.Allows(shared.LinkTugas, cap) {
			t.Fatalf("expected %s to be granted by link presence", cap)
		}
	}
}

func TestParseCapability(t *testing.T) {
	if _, err := ParseCapability("read"); err != nil {
		t.Fatalf("parse read: %v", err)
	}
	if _, err := ParseCapability("export"); err == nil {
		t.Fatalf("expected unknown capability to fail")
	}
}
