package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	user := &User{Username: "jdoe"}

	assert.Equal(t, "jdoe", DisplayName(user, nil))
	assert.Equal(t, "jdoe", DisplayName(user, &Profile{}))
	assert.Equal(t, "Jane", DisplayName(user, &Profile{FirstName: "Jane"}))
	assert.Equal(t, "Doe", DisplayName(user, &Profile{LastName: "Doe"}))
	assert.Equal(t, "Jane Doe", DisplayName(user, &Profile{FirstName: "Jane", LastName: "Doe"}))
}

func TestRoleIsStaff(t *testing.T) {
	assert.False(t, RoleUser.IsStaff())
	assert.True(t, RoleAgent.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
	assert.False(t, Role("manager").IsStaff())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleAgent))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("superuser"))
}
