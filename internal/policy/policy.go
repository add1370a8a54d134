// Package policy is the single permission table for every role. HTTP
// middleware and the usecase layer both consult it.
package policy

import (
	"fmt"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
)

type Action string

const (
	ActionCreateBooking   Action = "create_booking"
	ActionSubmitBooking   Action = "submit_booking"
	ActionVerifyAccount   Action = "verify_account"
	ActionVerifyAdmin     Action = "verify_admin"
	ActionViewReports     Action = "view_reports"
	ActionManageSuppliers Action = "manage_suppliers"
	ActionManageUsers     Action = "manage_users"
	ActionViewAuditLogs   Action = "view_audit_logs"

	ActionUpdateCommercial   Action = "update_commercial"
	ActionUpdateBilling      Action = "update_billing"
	ActionRecordModification Action = "record_modification"
)

type Resource string

const (
	ResourceBooking  Resource = "booking"
	ResourceSupplier Resource = "supplier"
	ResourceReport   Resource = "report"
	ResourceUser     Resource = "user"
	ResourceAuditLog Resource = "audit_log"
)

type grant struct {
	actions   map[Action]bool
	resources map[Resource]bool
}

func actions(a ...Action) map[Action]bool {
	m := make(map[Action]bool, len(a))
	for _, v := range a {
		m[v] = true
	}
	return m
}

func resources(r ...Resource) map[Resource]bool {
	m := make(map[Resource]bool, len(r))
	for _, v := range r {
		m[v] = true
	}
	return m
}

// Submission by agent1 is further limited to the creator's own draft;
// that check needs the booking and lives in the workflow machine.
var grants = map[entity.UserRole]grant{
	entity.RoleAgent1: {
		actions: actions(
			ActionCreateBooking,
			ActionSubmitBooking,
			ActionUpdateCommercial,
			ActionRecordModification,
		),
		resources: resources(ResourceBooking, ResourceSupplier),
	},
	entity.RoleAgent2: {
		actions: actions(
			ActionUpdateCommercial,
			ActionRecordModification,
		),
		resources: resources(ResourceBooking, ResourceSupplier),
	},
	entity.RoleAccount: {
		actions: actions(
			ActionVerifyAccount,
			ActionViewReports,
			ActionUpdateBilling,
			ActionRecordModification,
		),
		resources: resources(ResourceBooking, ResourceSupplier, ResourceReport),
	},
	entity.RoleAdmin: {
		actions: actions(
			ActionCreateBooking,
			ActionSubmitBooking,
			ActionVerifyAccount,
			ActionVerifyAdmin,
			ActionViewReports,
			ActionManageSuppliers,
			ActionManageUsers,
			ActionViewAuditLogs,
			ActionUpdateCommercial,
			ActionUpdateBilling,
			ActionRecordModification,
		),
		resources: resources(ResourceBooking, ResourceSupplier, ResourceReport, ResourceUser, ResourceAuditLog),
	},
}

// Roles returns the recognised roles.
func Roles() []entity.UserRole {
	return []entity.UserRole{entity.RoleAgent1, entity.RoleAgent2, entity.RoleAccount, entity.RoleAdmin}
}

// Known reports whether role is one of the recognised roles.
func Known(role entity.UserRole) bool {
	_, ok := grants[role]
	return ok
}

func Can(role entity.UserRole, action Action) (bool, error) {
	g, ok := grants[role]
	if !ok {
		return false, fmt.Errorf("role %q: %w", role, apperr.ErrUnknownRole)
	}
	return g.actions[action], nil
}

func CanView(role entity.UserRole, resource Resource) (bool, error) {
	g, ok := grants[role]
	if !ok {
		return false, fmt.Errorf("role %q: %w", role, apperr.ErrUnknownRole)
	}
	return g.resources[resource], nil
}

// Authorize returns ErrForbidden when role may not perform action.
func Authorize(role entity.UserRole, action Action) error {
	ok, err := Can(role, action)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("role %s cannot %s: %w", role, action, apperr.ErrForbidden)
	}
	return nil
}

// AuthorizeView returns ErrForbidden when role may not view resource.
func AuthorizeView(role entity.UserRole, resource Resource) error {
	ok, err := CanView(role, resource)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("role %s cannot view %s: %w", role, resource, apperr.ErrForbidden)
	}
	return nil
}
