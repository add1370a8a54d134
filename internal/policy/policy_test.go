package policy

import (
	"testing"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tableActions = []Action{
	ActionCreateBooking,
	ActionSubmitBooking,
	ActionVerifyAccount,
	ActionVerifyAdmin,
	ActionViewReports,
	ActionManageSuppliers,
	ActionManageUsers,
	ActionViewAuditLogs,
}

func TestCan_MatchesPermissionTable(t *testing.T) {
	want := map[entity.UserRole][]bool{
		entity.RoleAgent1:  {true, true, false, false, false, false, false, false},
		entity.RoleAgent2:  {false, false, false, false, false, false, false, false},
		entity.RoleAccount: {false, false, true, false, true, false, false, false},
		entity.RoleAdmin:   {true, true, true, true, true, true, true, true},
	}

	for role, row := range want {
		for i, action := range tableActions {
			got, err := Can(role, action)
			require.NoError(t, err)
			assert.Equalf(t, row[i], got, "Can(%s, %s)", role, action)
		}
	}
}

func TestCan_UnknownRole(t *testing.T) {
	_, err := Can("pilot", ActionCreateBooking)
	assert.ErrorIs(t, err, apperr.ErrUnknownRole)

	_, err = CanView("", ResourceBooking)
	assert.ErrorIs(t, err, apperr.ErrUnknownRole)

	assert.False(t, Known("pilot"))
	for _, r := range Roles() {
		assert.True(t, Known(r))
	}
}

func TestCan_UnlistedActionDenied(t *testing.T) {
	for _, role := range Roles() {
		got, err := Can(role, Action("delete_booking"))
		require.NoError(t, err)
		assert.False(t, got)
	}
}

func TestCanView(t *testing.T) {
	tests := []struct {
		role     entity.UserRole
		resource Resource
		want     bool
	}{
		{entity.RoleAgent1, ResourceBooking, true},
		{entity.RoleAgent2, ResourceBooking, true},
		{entity.RoleAgent1, ResourceReport, false},
		{entity.RoleAccount, ResourceReport, true},
		{entity.RoleAccount, ResourceAuditLog, false},
		{entity.RoleAccount, ResourceUser, false},
		{entity.RoleAdmin, ResourceAuditLog, true},
		{entity.RoleAdmin, ResourceUser, true},
	}

	for _, tt := range tests {
		got, err := CanView(tt.role, tt.resource)
		require.NoError(t, err)
		assert.Equalf(t, tt.want, got, "CanView(%s, %s)", tt.role, tt.resource)
	}
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(entity.RoleAdmin, ActionVerifyAdmin))
	assert.ErrorIs(t, Authorize(entity.RoleAgent2, ActionSubmitBooking), apperr.ErrForbidden)
	assert.ErrorIs(t, Authorize("ghost", ActionSubmitBooking), apperr.ErrUnknownRole)
	assert.ErrorIs(t, AuthorizeView(entity.RoleAgent1, ResourceAuditLog), apperr.ErrForbidden)
}
