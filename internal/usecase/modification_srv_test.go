package usecase

import (
	"context"
	"errors"
	"testing"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cancellationReq(bookingID, paid, refundable string) *request.CreateModificationRequest {
	return &request.CreateModificationRequest{
		BookingID:        bookingID,
		ModificationType: "cancellation",
		CancellationDetails: &request.CancellationDetails{
			PaymentModeWas:    "upi",
			TotalPaidByClient: dec(paid),
			RefundableAmount:  dec(refundable),
			OldMargin:         dec("200"),
			Remarks:           "client cancelled",
		},
	}
}

func TestCreateModification_Cancellation(t *testing.T) {
	f := newFixture(t)
	id := f.createDraft(t, "CXL001")
	before := *f.store.booking(uuid.MustParse(id))

	res, err := f.svc.Modification.CreateModification(context.Background(), f.account, cancellationReq(id, "1000", "400"))
	require.NoError(t, err)
	assert.Equal(t, entity.ModificationCancellation, res.ModificationType)
	assert.Equal(t, id, res.BookingID)
	assert.Equal(t, "400", res.Details["refundable_amount"])
	assert.Equal(t, "client cancelled", res.Details["remarks"])

	after := f.store.booking(uuid.MustParse(id))
	assert.Equal(t, before.Status, after.Status)
	assert.True(t, before.SalePrice.Equal(after.SalePrice))

	last := f.store.audits[len(f.store.audits)-1]
	assert.Equal(t, entity.AuditAction("BOOKING_CANCELLATION"), last.Action)
	assert.Equal(t, entity.EntityModification, last.EntityType)
	assert.Equal(t, id, last.Changes["booking_id"])
}

func TestCreateModification_Invalid(t *testing.T) {
	f := newFixture(t)
	id := f.createDraft(t, "CXL002")

	dateChange := &request.CreateModificationRequest{
		BookingID:        id,
		ModificationType: "date_change",
		DateChangeDetails: &request.DateChangeDetails{
			NewTravelDetails: request.TravelDetailsRequest{
				SectorType: "one_way",
				Legs:       []request.TravelLegRequest{{TravelDate: "2025-08-01", FromLocation: "DEL", ToLocation: "GOI"}},
			},
			OurCost:   dec("100"),
			SalePrice: dec("0"),
			Remarks:   "moved",
		},
	}

	tests := []struct {
		name string
		req  *request.CreateModificationRequest
		want error
	}{
		{"refund exceeds paid", cancellationReq(id, "100", "100.01"), apperr.ErrInvalidInput},
		{"negative paid", cancellationReq(id, "-1", "0"), apperr.ErrInvalidInput},
		{"sub-cent refund", cancellationReq(id, "100", "10.005"), apperr.ErrInvalidInput},
		{"missing details", &request.CreateModificationRequest{BookingID: id, ModificationType: "cancellation"}, apperr.ErrInvalidInput},
		{"unknown type", &request.CreateModificationRequest{BookingID: id, ModificationType: "upgrade"}, apperr.ErrInvalidInput},
		{"zero sale price", dateChange, apperr.ErrInvalidInput},
		{"unknown booking", cancellationReq(uuid.NewString(), "100", "50"), apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Modification.CreateModification(context.Background(), f.admin, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.store.mods)
}

func TestCreateModification_AuditFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	id := f.createDraft(t, "CXL003")
	f.store.auditErr = errors.New("disk full")

	_, err := f.svc.Modification.CreateModification(context.Background(), f.admin, cancellationReq(id, "100", "50"))
	assert.ErrorIs(t, err, apperr.ErrAuditFailure)
	assert.Empty(t, f.store.mods)
}

func TestGetBookingModifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createDraft(t, "CXL004")

	_, err := f.svc.Modification.CreateModification(ctx, f.agent1, cancellationReq(id, "100", "50"))
	require.NoError(t, err)
	_, err = f.svc.Modification.CreateModification(ctx, f.account, cancellationReq(id, "100", "60"))
	require.NoError(t, err)

	mods, err := f.svc.Modification.GetBookingModifications(ctx, f.agent1, id)
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, "60", mods[0].Details["refundable_amount"])

	_, err = f.svc.Modification.GetBookingModifications(ctx, f.agent2, id)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Modification.CreateModification(ctx, f.agent2, cancellationReq(id, "100", "50"))
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Modification.GetBookingModifications(ctx, f.admin, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
