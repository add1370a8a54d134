package usecase

import (
	"context"
	"testing"
	"time"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAuditLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.createDraft(t, "AUD001")
	_, err := f.svc.Booking.SubmitBooking(ctx, f.agent1, id)
	require.NoError(t, err)
	_, err = f.svc.Booking.VerifyAccount(ctx, f.account, id)
	require.NoError(t, err)
	name := "Sky Travels Pvt"
	_, err = f.svc.Supplier.UpdateSupplier(ctx, f.admin, f.supplier.ID.String(), &request.UpdateSupplierRequest{Name: &name})
	require.NoError(t, err)

	old := uuid.New()
	f.store.audits = append(f.store.audits, &entity.AuditLog{
		ID:         uuid.New(),
		Timestamp:  f.clock.Now().AddDate(0, 0, -40),
		UserID:     f.agent1.ID,
		Action:     entity.AuditBookingCreated,
		EntityType: entity.EntityBooking,
		EntityID:   &old,
	})

	logs, err := f.svc.Audit.ListAuditLogs(ctx, f.admin, &request.AuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, logs, 4)
	assert.Equal(t, entity.AuditSupplierUpdated, logs[0].Action)
	assert.Equal(t, entity.AuditBookingCreated, logs[3].Action)

	logs, err = f.svc.Audit.ListAuditLogs(ctx, f.admin, &request.AuditLogRequest{EntityType: "booking"})
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	logs, err = f.svc.Audit.ListAuditLogs(ctx, f.admin, &request.AuditLogRequest{UserID: f.account.ID.String()})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditBookingVerifiedAccount, logs[0].Action)
	assert.Equal(t, "Accounts", logs[0].UserName)
	require.NotNil(t, logs[0].EntityID)
	assert.Equal(t, id, *logs[0].EntityID)
}

func TestListAuditLogs_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Audit.ListAuditLogs(ctx, f.account, &request.AuditLogRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Audit.ListAuditLogs(ctx, f.admin, &request.AuditLogRequest{UserID: "x"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = f.svc.Audit.ListAuditLogs(ctx, f.admin, &request.AuditLogRequest{EntityType: "invoice"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAuditRecorder_DefaultTimeout(t *testing.T) {
	r := newAuditRecorder(nil, 0, time.Now)
	assert.Equal(t, 3*time.Second, r.timeout)
}
