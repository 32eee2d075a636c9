package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

func TestCheckWhileLoading(t *testing.T) {
	g := New(models.RoleAdmin)
	res := g.Check(nil, true)
	assert.Equal(t, Wait, res.Decision)
	// Loading never burns the redirect latch.
	res = g.Check(nil, false)
	assert.Equal(t, Redirect, res.Decision)
	assert.Equal(t, LoginPath, res.Target)
}

func TestCheckAnonymousRedirectsOnce(t *testing.T) {
	g := New(models.RoleAdmin)
	res := g.Check(nil, false)
	assert.Equal(t, Redirect, res.Decision)
	assert.Equal(t, LoginPath, res.Target)

	for i := 0; i < 3; i++ {
		assert.Equal(t, Settled, g.Check(nil, false).Decision)
	}
}

func TestCheckWrongRoleGoesToOwnDashboard(t *testing.T) {
	g := New(models.RoleAdmin, models.RoleFranchise)
	parent := &models.User{ID: "1", Role: models.RoleParent}

	res := g.Check(parent, false)
	assert.Equal(t, Redirect, res.Decision)
	assert.Equal(t, "/dashboard/parent", res.Target)
	assert.Equal(t, Settled, g.Check(parent, false).Decision)
}

func TestCheckAllowedRole(t *testing.T) {
	g := New(models.RoleFranchise)
	franchise := &models.User{ID: "2", Role: models.RoleFranchise}

	for i := 0; i < 2; i++ {
		res := g.Check(franchise, false)
		assert.Equal(t, Allow, res.Decision)
		assert.Empty(t, res.Target)
	}
}
