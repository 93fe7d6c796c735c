package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	for _, status := range AllStatuses {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, Status("On Fire").IsValid())
	assert.False(t, Status("").IsValid())
	// Wire strings are case sensitive
	assert.False(t, Status("in progress").IsValid())
}

func TestStatusLocked(t *testing.T) {
	assert.False(t, StatusInProgress.Locked())
	assert.False(t, StatusComplete.Locked())
	assert.True(t, StatusSubmitted.Locked())
	assert.True(t, StatusApproved.Locked())
	assert.True(t, StatusRejected.Locked())
}

func TestLevelIsValid(t *testing.T) {
	assert.True(t, LevelBachelor.IsValid())
	assert.True(t, LevelMaster.IsValid())
	assert.False(t, Level("PhD").IsValid())
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleApplicant.HasPermission(PermissionUploadDocument))
	assert.False(t, RoleApplicant.HasPermission(PermissionDecideApplication))
	assert.True(t, RoleReviewer.HasPermission(PermissionDecideApplication))
	assert.False(t, RoleReviewer.HasPermission(PermissionUploadDocument))
	assert.False(t, Role("ghost").HasPermission(PermissionReadApplication))
}
