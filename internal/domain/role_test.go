package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	roles := []Role{RoleClient, RoleEmployee, RoleAdmin}

	t.Run("Reflexive", func(t *testing.T) {
		for _, r := range roles {
			assert.True(t, HasPermission(r, r))
		}
	})

	t.Run("Admin satisfies every check", func(t *testing.T) {
		for _, r := range roles {
			assert.True(t, HasPermission(RoleAdmin, r))
		}
	})

	t.Run("Client satisfies only client", func(t *testing.T) {
		assert.True(t, HasPermission(RoleClient, RoleClient))
		assert.False(t, HasPermission(RoleClient, RoleEmployee))
		assert.False(t, HasPermission(RoleClient, RoleAdmin))
	})

	t.Run("Transitive", func(t *testing.T) {
		for _, a := range roles {
			for _, b := range roles {
				for _, c := range roles {
					if HasPermission(a, b) && HasPermission(b, c) {
						assert.True(t, HasPermission(a, c), "%s %s %s", a, b, c)
					}
				}
			}
		}
	})

	t.Run("Unknown role", func(t *testing.T) {
		assert.False(t, HasPermission(Role("ROOT"), RoleClient))
	})
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("empleado")
	assert.NoError(t, err)
	assert.Equal(t, RoleEmployee, r)

	r, err = ParseRole("ADMIN")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("guest")
	assert.Error(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	s, err := NewSession(3, "Ana", "ana@ingride.com", RoleEmployee, "tok")
	assert.NoError(t, err)
	assert.True(t, s.Active())
	assert.True(t, s.HasPermission(RoleClient))
	assert.False(t, s.IsSelfService())
	assert.NoError(t, s.Require(RoleEmployee))
	assert.ErrorIs(t, s.Require(RoleAdmin), ErrForbidden)

	s.End()
	assert.False(t, s.Active())
	assert.False(t, s.HasPermission(RoleClient))
	assert.ErrorIs(t, s.Require(RoleClient), ErrForbidden)

	_, err = NewSession(1, "x", "", Role("ROOT"), "")
	assert.Error(t, err)

	var nilSession *Session
	assert.False(t, nilSession.Active())
}
