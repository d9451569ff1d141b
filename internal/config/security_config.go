// config/security_config.go
package config

import "github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityClient                        // Any authenticated caller
	SecurityEmployee                      // Employee or admin
	SecurityAdmin                         // Admin only
)

// EndpointSecurityConfig maps "METHOD /route/template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /healthz": SecurityPublic,

	"GET /api/statuses":                      SecurityClient,
	"GET /api/rentals":                       SecurityClient,
	"POST /api/rentals":                      SecurityClient,
	"POST /api/rentals/quote":                SecurityClient,
	"POST /api/rentals/{id:[0-9]+}/{action}": SecurityClient,
	"GET /api/vehicles/available":            SecurityClient,

	"GET /api/vehicles": SecurityEmployee,
	"GET /api/clients":  SecurityEmployee,

	"DELETE /api/rentals/{id:[0-9]+}": SecurityAdmin,
}

// GetSecurityLevel returns the security level for an endpoint.
// Unknown endpoints require an authenticated caller.
func GetSecurityLevel(endpoint string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[endpoint]; ok {
		return level
	}
	return SecurityClient
}

// RequiredRole is the minimum role for a protected level
func (l SecurityLevel) RequiredRole() domain.Role {
	switch l {
	case SecurityAdmin:
		return domain.RoleAdmin
	case SecurityEmployee:
		return domain.RoleEmployee
	default:
		return domain.RoleClient
	}
}
