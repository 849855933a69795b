package app

import (
	"testing"

	"github.com/pandawa-internal/pandawa/internal/auth"
	_ "github.com/pandawa-internal/pandawa/testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppAddr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.AppAddr)
	}
	if cfg.IsProduction() {
		t.Fatalf("default environment must not be production")
	}

	roles, err := cfg.ParseBypassRoles()
	if err != nil {
		t.Fatalf("parse bypass roles: %v", err)
	}
	if len(roles) != 1 || roles[0] != auth.RoleOwner {
		t.Fatalf("expected owner bypass by default, got %v", roles)
	}
}

func TestParseBypassRoles(t *testing.T) {
	cfg := &Config{BypassRoles: "owner, admin"}
	roles, err := cfg.ParseBypassRoles()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(roles) != 2 || roles[0] != auth.RoleOwner || roles[1] != auth.RoleAdmin {
		t.Fatalf("unexpected roles: %v", roles)
	}

	cfg = &Config{BypassRoles: "superuser"}
	if _, err := cfg.ParseBypassRoles(); err == nil {
		t.Fatalf("unknown role must fail")
	}
}
