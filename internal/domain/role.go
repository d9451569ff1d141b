package domain

import (
	"fmt"
	"strings"
)

// Role is the caller's position in the console hierarchy
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

// roleHierarchy lists the roles each role directly contains: admin ⊇ employee ⊇ client
var roleHierarchy = map[Role][]Role{
	RoleAdmin:    {RoleEmployee},
	RoleEmployee: {RoleClient},
	RoleClient:   {},
}

var reachableRoles = buildReachable(roleHierarchy)

func buildReachable(h map[Role][]Role) map[Role]map[Role]bool {
	out := make(map[Role]map[Role]bool, len(h))
	for role := range h {
		seen := map[Role]bool{}
		stack := []Role{role}
		for len(stack) > 0 {
			r := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[r] {
				continue
			}
			seen[r] = true
			stack = append(stack, h[r]...)
		}
		out[role] = seen
	}
	return out
}

// HasPermission reports whether a caller with role caller satisfies a check for required.
// This gate only decides what the console offers; the backend re-checks every call.
func HasPermission(caller, required Role) bool {
	reach, ok := reachableRoles[caller]
	if !ok {
		return false
	}
	return reach[required]
}

// ParseRole accepts the role names used by the auth service (case-insensitive)
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN", "ADMINISTRADOR":
		return RoleAdmin, nil
	case "EMPLOYEE", "EMPLEADO":
		return RoleEmployee, nil
	case "CLIENT", "CLIENTE":
		return RoleClient, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

func (r Role) Valid() bool {
	_, ok := roleHierarchy[r]
	return ok
}
