// Package workflow defines the booking status machine: which edges exist,
// which permission each edge needs, and what an applied edge stamps.
package workflow

import (
	"fmt"
	"time"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/policy"
)

type Action string

const (
	ActionSubmit        Action = "submit"
	ActionVerifyAccount Action = "verify_account"
	ActionVerifyAdmin   Action = "verify_admin"
)

type Transition struct {
	Action     Action
	From       entity.BookingStatus
	To         entity.BookingStatus
	Permission policy.Action
	Audit      entity.AuditAction
}

var transitions = map[Action]Transition{
	ActionSubmit: {
		Action:     ActionSubmit,
		From:       entity.BookingStatusDraft,
		To:         entity.BookingStatusPendingVerification,
		Permission: policy.ActionSubmitBooking,
		Audit:      entity.AuditBookingSubmitted,
	},
	ActionVerifyAccount: {
		Action:     ActionVerifyAccount,
		From:       entity.BookingStatusPendingVerification,
		To:         entity.BookingStatusAccountVerified,
		Permission: policy.ActionVerifyAccount,
		Audit:      entity.AuditBookingVerifiedAccount,
	},
	ActionVerifyAdmin: {
		Action:     ActionVerifyAdmin,
		From:       entity.BookingStatusAccountVerified,
		To:         entity.BookingStatusAdminVerified,
		Permission: policy.ActionVerifyAdmin,
		Audit:      entity.AuditBookingVerifiedAdmin,
	},
}

// order is used wherever actions are listed.
var order = []Action{ActionSubmit, ActionVerifyAccount, ActionVerifyAdmin}

func Lookup(action Action) (Transition, bool) {
	t, ok := transitions[action]
	return t, ok
}

// CanTransition reports whether some edge leads from one status to the other.
func CanTransition(from, to entity.BookingStatus) bool {
	for _, t := range transitions {
		if t.From == from.Canonical() && t.To == to.Canonical() {
			return true
		}
	}
	return false
}

type Machine struct {
	now func() time.Time
}

func NewMachine(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{now: now}
}

// Apply checks that actor may take action on b and returns the booking
// as it looks after the edge. b itself is never modified.
func (m *Machine) Apply(b *entity.Booking, action Action, actor entity.Actor) (*entity.Booking, Transition, error) {
	t, ok := transitions[action]
	if !ok {
		return nil, Transition{}, fmt.Errorf("action %q: %w", action, apperr.ErrInvalidInput)
	}

	if err := m.check(b, t, actor); err != nil {
		return nil, t, err
	}

	next := b.Clone()
	ts := m.stamp(b)
	next.Status = t.To
	next.UpdatedAt = ts

	switch action {
	case ActionSubmit:
		next.SubmittedAt = &ts
	case ActionVerifyAccount:
		id := actor.ID
		next.AccountVerifiedAt = &ts
		next.AccountVerifiedBy = &id
	case ActionVerifyAdmin:
		id := actor.ID
		next.AdminVerifiedAt = &ts
		next.AdminVerifiedBy = &id
	}

	return next, t, nil
}

// Available lists the actions actor could apply to b right now.
func (m *Machine) Available(b *entity.Booking, actor entity.Actor) []Action {
	var out []Action
	for _, a := range order {
		if m.check(b, transitions[a], actor) == nil {
			out = append(out, a)
		}
	}
	return out
}

func (m *Machine) check(b *entity.Booking, t Transition, actor entity.Actor) error {
	if err := policy.Authorize(actor.Role, t.Permission); err != nil {
		return err
	}

	if t.Action == ActionSubmit && actor.Role == entity.RoleAgent1 && b.CreatedBy != actor.ID {
		return fmt.Errorf("booking %s belongs to another agent: %w", b.ID, apperr.ErrForbidden)
	}

	if b.Status.Canonical() != t.From {
		return fmt.Errorf("cannot %s booking %s in status %s: %w", t.Action, b.ID, b.Status, apperr.ErrInvalidTransition)
	}

	return nil
}

// stamp never goes back in time relative to the booking's latest mark.
func (m *Machine) stamp(b *entity.Booking) time.Time {
	ts := m.now().UTC()
	floor := b.CreatedAt
	for _, t := range []*time.Time{b.SubmittedAt, b.AccountVerifiedAt, b.AdminVerifiedAt} {
		if t != nil && t.After(floor) {
			floor = *t
		}
	}
	if ts.Before(floor) {
		return floor
	}
	return ts
}
