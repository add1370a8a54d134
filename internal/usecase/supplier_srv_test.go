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

func TestSupplierService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contact := "ops@air.example"

	created, err := f.svc.Supplier.CreateSupplier(ctx, f.admin, &request.CreateSupplierRequest{Name: "Air Hub", ContactInfo: &contact})
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID.String(), created.CreatedBy)

	_, err = f.svc.Supplier.CreateSupplier(ctx, f.agent1, &request.CreateSupplierRequest{Name: "Nope"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	name := "Air Hub Ltd"
	updated, err := f.svc.Supplier.UpdateSupplier(ctx, f.admin, created.ID, &request.UpdateSupplierRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Air Hub Ltd", updated.Name)
	require.NotNil(t, updated.ContactInfo)
	assert.Equal(t, contact, *updated.ContactInfo)

	all, err := f.svc.Supplier.GetAllSuppliers(ctx, f.agent2)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := f.svc.Supplier.GetSupplier(ctx, f.account, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Air Hub Ltd", got.Name)

	_, err = f.svc.Supplier.GetSupplier(ctx, f.account, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []entity.AuditAction{entity.AuditSupplierCreated, entity.AuditSupplierUpdated}, f.store.auditActions())
}
