package usecase

import (
	"context"
	"testing"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOutstandingBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	open := f.createDraft(t, "OPEN01")
	_, err := f.svc.Booking.CreateBooking(ctx, f.agent1, bookingReq(f.supplier.ID, "PAID01", "1000", "600", "400"))
	require.NoError(t, err)
	orphan := f.createDraft(t, "ORPH01")
	f.store.bookings[uuid.MustParse(orphan)].SupplierID = uuid.New()

	report, err := f.svc.Report.ListOutstandingBalances(ctx, f.account, &request.ReportRequest{})
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	assert.Equal(t, orphan, report.Items[0].BookingID)
	assert.Equal(t, "N/A", report.Items[0].SupplierName)
	assert.Equal(t, open, report.Items[1].BookingID)
	assert.Equal(t, "Sky Travels", report.Items[1].SupplierName)
	assert.Equal(t, "2025-06-01", report.Items[1].CreatedAt)
	assert.Equal(t, "2000", report.TotalOutstanding.String())

	report, err = f.svc.Report.ListOutstandingBalances(ctx, f.admin, &request.ReportRequest{From: "2025-06-02"})
	require.NoError(t, err)
	assert.Empty(t, report.Items)
	assert.True(t, report.TotalOutstanding.IsZero())

	_, err = f.svc.Report.ListOutstandingBalances(ctx, f.admin, &request.ReportRequest{From: "06/01/2025"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = f.svc.Report.ListOutstandingBalances(ctx, f.agent1, &request.ReportRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createDraft(t, "STAT01")
	f.createDraft(t, "STAT02")
	_, err := f.svc.Booking.CreateBooking(ctx, f.admin, bookingReq(f.supplier.ID, "STAT03", "1500", "500"))
	require.NoError(t, err)
	_, err = f.svc.Booking.SubmitBooking(ctx, f.agent1, first)
	require.NoError(t, err)

	mine, err := f.svc.Report.DashboardStats(ctx, f.agent1)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.TotalBookings)
	assert.Equal(t, 1, mine.PendingVerification)
	assert.Equal(t, "2000", mine.TotalRevenue.String())
	assert.Equal(t, "1600", mine.TotalCost.String())
	assert.Equal(t, "400", mine.TotalMargin.String())
	assert.Equal(t, "2000", mine.OutstandingBalance.String())

	all, err := f.svc.Report.DashboardStats(ctx, f.account)
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalBookings)
	assert.Equal(t, "3500", all.TotalRevenue.String())
	assert.Equal(t, "1100", all.TotalMargin.String())
	assert.Equal(t, "3000", all.OutstandingBalance.String())

	none, err := f.svc.Report.DashboardStats(ctx, f.agent2)
	require.NoError(t, err)
	assert.Zero(t, none.TotalBookings)

	_, err = f.svc.Report.DashboardStats(ctx, f.admin)
	require.NoError(t, err)
	assert.Contains(t, f.stats.entries, "all")
	assert.Contains(t, f.stats.entries, "user:"+f.agent1.ID.String())

	cached, err := f.svc.Report.DashboardStats(ctx, f.admin)
	require.NoError(t, err)
	assert.Same(t, f.stats.entries["all"], cached)

	f.createDraft(t, "STAT04")
	assert.Empty(t, f.stats.entries)

	_, err = f.svc.Report.DashboardStats(ctx, entity.Actor{ID: uuid.New(), Role: "pilot"})
	assert.ErrorIs(t, err, apperr.ErrUnknownRole)
}
