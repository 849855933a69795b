package authz

import "fmt"

// Capability is a closed enumeration of coarse action kinds a route may
// require. Using a type instead of free-form strings means a misspelled
// requirement fails at the route table, not as a silent deny at runtime.
type Capability string

const (
	CapRead    Capability = "read"
	CapCreate  Capability = "create"
	CapUpdate  Capability = "update"
	CapDelete  Capability = "delete"
	CapApprove Capability = "approve"
	CapManage  Capability = "manage"
)

// ParseCapability validates a capability string from the wire.
func ParseCapability(s string) (Capability, error) {
	switch Capability(s) {
	case CapRead, CapCreate, CapUpdate, CapDelete, CapApprove, CapManage:
		return Capability(s), nil
	}
	return "", fmt.Errorf("authz: unknown capability %q", s)
}
