package usecase

import (
	"context"
	"fmt"
	"time"

	"flight-booking/internal/data/entity"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/dto/request"
	"flight-booking/internal/dto/response"
	"flight-booking/internal/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SupplierService interface {
	CreateSupplier(ctx context.Context, actor entity.Actor, req *request.CreateSupplierRequest) (*response.SupplierResponse, error)
	UpdateSupplier(ctx context.Context, actor entity.Actor, supplierID string, req *request.UpdateSupplierRequest) (*response.SupplierResponse, error)
	GetSupplier(ctx context.Context, actor entity.Actor, supplierID string) (*response.SupplierResponse, error)
	GetAllSuppliers(ctx context.Context, actor entity.Actor) ([]response.SupplierResponse, error)
}

type supplierService struct {
	repo  *repository.Repository
	audit *auditRecorder
	now   func() time.Time
	log   *zap.Logger
}

func NewSupplierService(repo *repository.Repository, audit *auditRecorder, now func() time.Time, log *zap.Logger) SupplierService {
	return &supplierService{
		repo:  repo,
		audit: audit,
		now:   now,
		log:   log.With(zap.String("service", "supplier")),
	}
}

func (s *supplierService) CreateSupplier(ctx context.Context, actor entity.Actor, req *request.CreateSupplierRequest) (*response.SupplierResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionManageSuppliers); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Create supplier", req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	supplier := &entity.Supplier{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
		CreatedBy:   actor.ID,
	}

	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Supplier.Create(ctx, supplier); err != nil {
			return err
		}
		return s.audit.record(ctx, actor, entity.AuditSupplierCreated, entity.EntitySupplier, supplier.ID, map[string]any{
			"name": supplier.Name,
		})
	})
	if err != nil {
		s.log.Error("Failed to create supplier", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	s.log.Info("Supplier created", zap.String("supplier_id", supplier.ID.String()), zap.String("name", supplier.Name))

	res := response.SupplierToResponse(supplier)
	return &res, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, actor entity.Actor, supplierID string, req *request.UpdateSupplierRequest) (*response.SupplierResponse, error) {
	if err := policy.Authorize(actor.Role, policy.ActionManageSuppliers); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Update supplier", req); err != nil {
		return nil, err
	}

	supplier, err := s.find(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.Name != nil {
		supplier.Name = *req.Name
		changes["name"] = *req.Name
	}
	if req.ContactInfo != nil {
		supplier.ContactInfo = req.ContactInfo
		changes["contact_info"] = *req.ContactInfo
	}
	if len(changes) == 0 {
		res := response.SupplierToResponse(supplier)
		return &res, nil
	}
	supplier.UpdatedAt = s.now().UTC()

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Supplier.Update(ctx, supplier); err != nil {
			return err
		}
		return s.audit.record(ctx, actor, entity.AuditSupplierUpdated, entity.EntitySupplier, supplier.ID, changes)
	})
	if err != nil {
		s.log.Error("Failed to update supplier", zap.Error(err), zap.String("supplier_id", supplierID))
		return nil, fmt.Errorf("update supplier: %w", err)
	}

	res := response.SupplierToResponse(supplier)
	return &res, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, actor entity.Actor, supplierID string) (*response.SupplierResponse, error) {
	if err := policy.AuthorizeView(actor.Role, policy.ResourceSupplier); err != nil {
		return nil, err
	}

	supplier, err := s.find(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	res := response.SupplierToResponse(supplier)
	return &res, nil
}

func (s *supplierService) GetAllSuppliers(ctx context.Context, actor entity.Actor) ([]response.SupplierResponse, error) {
	if err := policy.AuthorizeView(actor.Role, policy.ResourceSupplier); err != nil {
		return nil, err
	}

	suppliers, err := s.repo.Supplier.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list suppliers", zap.Error(err))
		return nil, fmt.Errorf("list suppliers: %w", err)
	}

	out := make([]response.SupplierResponse, len(suppliers))
	for i, supplier := range suppliers {
		out[i] = response.SupplierToResponse(supplier)
	}
	return out, nil
}

func (s *supplierService) find(ctx context.Context, supplierID string) (*entity.Supplier, error) {
	id, err := parseID(supplierID, "supplier")
	if err != nil {
		return nil, err
	}

	supplier, err := s.repo.Supplier.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find supplier: %w", err)
	}
	if supplier == nil {
		return nil, notFound("supplier", id)
	}
	return supplier, nil
}
