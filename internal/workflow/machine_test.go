package workflow

import (
	"context"
	"testing"
	"time"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock(ts ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := ts[i]
		if i < len(ts)-1 {
			i++
		}
		return t
	}
}

func draftBooking(creator uuid.UUID) *entity.Booking {
	return &entity.Booking{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: t0, UpdatedAt: t0},
		PNR:       "ABC123",
		Status:    entity.BookingStatusDraft,
		CreatedBy: creator,
	}
}

func actor(role entity.UserRole) entity.Actor {
	return entity.Actor{ID: uuid.New(), Name: string(role), Role: role}
}

func TestApply_FullPath(t *testing.T) {
	agent := actor(entity.RoleAgent1)
	account := actor(entity.RoleAccount)
	admin := actor(entity.RoleAdmin)

	m := NewMachine(fixedClock(t0.Add(time.Hour), t0.Add(2*time.Hour), t0.Add(3*time.Hour)))
	b := draftBooking(agent.ID)

	submitted, tr, err := m.Apply(b, ActionSubmit, agent)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditBookingSubmitted, tr.Audit)
	assert.Equal(t, entity.BookingStatusPendingVerification, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, entity.BookingStatusDraft, b.Status, "input booking must not change")
	assert.Nil(t, b.SubmittedAt)

	accVerified, _, err := m.Apply(submitted, ActionVerifyAccount, account)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusAccountVerified, accVerified.Status)
	require.NotNil(t, accVerified.AccountVerifiedBy)
	assert.Equal(t, account.ID, *accVerified.AccountVerifiedBy)

	final, _, err := m.Apply(accVerified, ActionVerifyAdmin, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusAdminVerified, final.Status)
	require.NotNil(t, final.AdminVerifiedAt)
	assert.Equal(t, admin.ID, *final.AdminVerifiedBy)

	assert.False(t, final.AdminVerifiedAt.Before(*final.AccountVerifiedAt))
	assert.False(t, final.AccountVerifiedAt.Before(*final.SubmittedAt))
	assert.False(t, final.SubmittedAt.Before(final.CreatedAt))
}

func TestApply_TimestampsNeverGoBackwards(t *testing.T) {
	agent := actor(entity.RoleAgent1)
	m := NewMachine(fixedClock(t0.Add(-time.Hour)))

	next, _, err := m.Apply(draftBooking(agent.ID), ActionSubmit, agent)
	require.NoError(t, err)
	assert.Equal(t, t0, *next.SubmittedAt)
}

func TestApply_RejectsOutOfOrder(t *testing.T) {
	agent := actor(entity.RoleAgent1)
	m := NewMachine(nil)
	b := draftBooking(agent.ID)

	_, _, err := m.Apply(b, ActionVerifyAccount, actor(entity.RoleAccount))
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, _, err = m.Apply(b, ActionVerifyAdmin, actor(entity.RoleAdmin))
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	b.Status = entity.BookingStatusPendingVerification
	_, _, err = m.Apply(b, ActionSubmit, agent)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestApply_RoleChecks(t *testing.T) {
	owner := actor(entity.RoleAgent1)
	m := NewMachine(nil)

	tests := []struct {
		name   string
		status entity.BookingStatus
		action Action
		actor  entity.Actor
		want   error
	}{
		{"agent2 cannot submit", entity.BookingStatusDraft, ActionSubmit, actor(entity.RoleAgent2), apperr.ErrForbidden},
		{"other agent1 cannot submit", entity.BookingStatusDraft, ActionSubmit, actor(entity.RoleAgent1), apperr.ErrForbidden},
		{"account cannot submit", entity.BookingStatusDraft, ActionSubmit, actor(entity.RoleAccount), apperr.ErrForbidden},
		{"agent1 cannot verify", entity.BookingStatusPendingVerification, ActionVerifyAccount, owner, apperr.ErrForbidden},
		{"account cannot admin verify", entity.BookingStatusAccountVerified, ActionVerifyAdmin, actor(entity.RoleAccount), apperr.ErrForbidden},
		{"unknown role", entity.BookingStatusDraft, ActionSubmit, entity.Actor{ID: owner.ID, Role: "intern"}, apperr.ErrUnknownRole},
		{"forbidden before state check", entity.BookingStatusPaid, ActionSubmit, actor(entity.RoleAgent2), apperr.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := draftBooking(owner.ID)
			b.Status = tt.status
			_, _, err := m.Apply(b, tt.action, tt.actor)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApply_AdminMaySubmitAnyDraft(t *testing.T) {
	m := NewMachine(nil)
	next, _, err := m.Apply(draftBooking(uuid.New()), ActionSubmit, actor(entity.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPendingVerification, next.Status)
}

func TestApply_SubmittedIsPendingVerification(t *testing.T) {
	m := NewMachine(nil)
	b := draftBooking(uuid.New())
	b.Status = entity.BookingStatusSubmitted

	next, _, err := m.Apply(b, ActionVerifyAccount, actor(entity.RoleAccount))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusAccountVerified, next.Status)
}

func TestApply_UnknownAction(t *testing.T) {
	_, _, err := NewMachine(nil).Apply(draftBooking(uuid.New()), Action("bill"), actor(entity.RoleAdmin))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(entity.BookingStatusDraft, entity.BookingStatusPendingVerification))
	assert.True(t, CanTransition(entity.BookingStatusDraft, entity.BookingStatusSubmitted))
	assert.True(t, CanTransition(entity.BookingStatusAccountVerified, entity.BookingStatusAdminVerified))
	assert.False(t, CanTransition(entity.BookingStatusDraft, entity.BookingStatusAdminVerified))
	assert.False(t, CanTransition(entity.BookingStatusAdminVerified, entity.BookingStatusBilled))
	assert.False(t, CanTransition(entity.BookingStatusBilled, entity.BookingStatusPaid))
}

func TestAvailable(t *testing.T) {
	owner := actor(entity.RoleAgent1)
	m := NewMachine(nil)
	b := draftBooking(owner.ID)

	assert.Equal(t, []Action{ActionSubmit}, m.Available(b, owner))
	assert.Empty(t, m.Available(b, actor(entity.RoleAgent2)))
	assert.Equal(t, []Action{ActionSubmit}, m.Available(b, actor(entity.RoleAdmin)))

	b.Status = entity.BookingStatusPendingVerification
	assert.Equal(t, []Action{ActionVerifyAccount}, m.Available(b, actor(entity.RoleAccount)))
}

func TestUnsupportedBilling(t *testing.T) {
	var billing Billing = UnsupportedBilling{}

	_, err := billing.MarkBilled(context.Background(), uuid.New(), actor(entity.RoleAdmin))
	assert.ErrorIs(t, err, apperr.ErrNotImplemented)

	_, err = billing.MarkPaid(context.Background(), uuid.New(), actor(entity.RoleAdmin))
	assert.ErrorIs(t, err, apperr.ErrNotImplemented)
}
