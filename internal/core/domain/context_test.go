package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

func TestActionContext_ActorOrSystem(t *testing.T) {
	actx := domain.NewActionContext("user-1", "10.0.0.1", "cli/1.0")
	assert.Equal(t, "user-1", actx.ActorOrSystem())

	system := domain.SystemActionContext()
	assert.Nil(t, system.ActorID)
	assert.Equal(t, domain.SystemActor, system.ActorOrSystem())

	empty := ""
	blank := domain.ActionContext{ActorID: &empty}
	assert.Equal(t, domain.SystemActor, blank.ActorOrSystem())
}

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, domain.RoleAccountant.IsValid())
	assert.True(t, domain.RoleSupervisor.IsValid())
	assert.True(t, domain.RoleAdmin.IsValid())
	assert.False(t, domain.UserRole("AUDITOR").IsValid())
	assert.False(t, domain.UserRole("").IsValid())
}
