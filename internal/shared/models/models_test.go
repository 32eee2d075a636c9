package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{" Admin ", RoleAdmin},
		{"franchise", RoleFranchise},
		{"FRANCHISE", RoleFranchise},
		{"parent", RoleParent},
		{"", RoleParent},
		{"superuser", RoleParent},
		{"admin ", RoleAdmin},
		{"адмін", RoleParent},
		{"null", RoleParent},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeRole(tc.in), "input %q", tc.in)
	}
}

func TestRoleDashboardPath(t *testing.T) {
	assert.Equal(t, "/dashboard/admin", RoleAdmin.DashboardPath())
	assert.Equal(t, "/dashboard/parent", RoleParent.DashboardPath())
}

func TestUserUnmarshal_NumericID(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"email":"x@y.com","role":"ADMIN"}`), &u))
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "x@y.com", u.Email)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Empty(t, u.FullName)
}

func TestUserUnmarshal_StringIDAndAltName(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc","email":"p@q.com","role":"staff","fullName":"Pat Q"}`), &u))
	assert.Equal(t, "abc", u.ID)
	assert.Equal(t, RoleParent, u.Role)
	assert.Equal(t, "Pat Q", u.FullName)
}

func TestUserMerge(t *testing.T) {
	u := User{ID: "1", Email: "old@x.com", Role: RoleParent, FullName: "Old"}
	u.Merge(User{Email: "new@x.com", Role: RoleFranchise})
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "new@x.com", u.Email)
	assert.Equal(t, RoleFranchise, u.Role)
	assert.Equal(t, "Old", u.FullName)
}
