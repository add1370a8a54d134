package usecase

import (
	"context"
	"fmt"
	"time"

	"flight-booking/internal/apperr"
	"flight-booking/internal/cache"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/dto/request"
	"flight-booking/internal/dto/response"
	"flight-booking/internal/finance"
	"flight-booking/internal/policy"
	"flight-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const missingSupplierName = "N/A"

type ReportService interface {
	ListOutstandingBalances(ctx context.Context, actor entity.Actor, req *request.ReportRequest) (*response.OutstandingBalanceReport, error)
	DashboardStats(ctx context.Context, actor entity.Actor) (*response.DashboardStats, error)
}

type reportService struct {
	repo  *repository.Repository
	stats cache.StatsCache
	log   *zap.Logger
}

func NewReportService(repo *repository.Repository, stats cache.StatsCache, log *zap.Logger) ReportService {
	if stats == nil {
		stats = cache.Noop{}
	}
	return &reportService{
		repo:  repo,
		stats: stats,
		log:   log.With(zap.String("service", "report")),
	}
}

// ListOutstandingBalances lists bookings whose sale price is not yet
// covered by installments, newest first.
func (s *reportService) ListOutstandingBalances(ctx context.Context, actor entity.Actor, req *request.ReportRequest) (*response.OutstandingBalanceReport, error) {
	if err := policy.Authorize(actor.Role, policy.ActionViewReports); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Outstanding balance report", req); err != nil {
		return nil, err
	}

	from, to, err := utils.ParseDateRange(req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	bookings, err := s.repo.Booking.FindAll(ctx, repository.BookingFilter{CreatedFrom: from, CreatedTo: to})
	if err != nil {
		s.log.Error("Failed to load bookings for report", zap.Error(err))
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	suppliers := map[uuid.UUID]string{}
	report := &response.OutstandingBalanceReport{
		Items:            []response.OutstandingBalanceItem{},
		TotalOutstanding: decimal.Zero,
	}

	for _, b := range bookings {
		totals, err := finance.Summarize(b)
		if err != nil {
			return nil, err
		}
		if !totals.Balance.IsPositive() {
			continue
		}

		name, err := s.supplierName(ctx, suppliers, b.SupplierID)
		if err != nil {
			return nil, err
		}

		report.Items = append(report.Items, response.OutstandingBalanceItem{
			BookingID:    b.ID.String(),
			PNR:          b.PNR,
			PaxName:      b.PaxName,
			SupplierName: name,
			SalePrice:    b.SalePrice,
			TotalPaid:    totals.TotalPaid,
			Balance:      totals.Balance,
			CreatedAt:    b.CreatedAt.Format(time.DateOnly),
		})
		report.TotalOutstanding = report.TotalOutstanding.Add(totals.Balance)
	}

	s.log.Info("Outstanding balance report built",
		zap.Int("items", len(report.Items)),
		zap.String("total", report.TotalOutstanding.StringFixed(finance.CurrencyScale)),
	)
	return report, nil
}

func (s *reportService) supplierName(ctx context.Context, seen map[uuid.UUID]string, id uuid.UUID) (string, error) {
	if name, ok := seen[id]; ok {
		return name, nil
	}

	supplier, err := s.repo.Supplier.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("find supplier: %w", err)
	}

	name := missingSupplierName
	if supplier != nil {
		name = supplier.Name
	}
	seen[id] = name
	return name, nil
}

// DashboardStats summarizes every booking the actor can see. Results are
// cached per scope and dropped whenever a booking changes.
func (s *reportService) DashboardStats(ctx context.Context, actor entity.Actor) (*response.DashboardStats, error) {
	if !policy.Known(actor.Role) {
		return nil, fmt.Errorf("role %q: %w", actor.Role, apperr.ErrUnknownRole)
	}

	scope := statsScope(actor)
	if cached, err := s.stats.Get(ctx, scope); err != nil {
		s.log.Warn("Stats cache read failed", zap.Error(err), zap.String("scope", scope))
	} else if cached != nil {
		return cached, nil
	}

	bookings, err := s.repo.Booking.FindAll(ctx, scopeFilter(actor))
	if err != nil {
		s.log.Error("Failed to load bookings for stats", zap.Error(err))
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	stats := &response.DashboardStats{
		TotalRevenue:       decimal.Zero,
		TotalCost:          decimal.Zero,
		TotalMargin:        decimal.Zero,
		OutstandingBalance: decimal.Zero,
	}
	for _, b := range bookings {
		totals, err := finance.Summarize(b)
		if err != nil {
			return nil, err
		}

		stats.TotalBookings++
		switch b.Status.Canonical() {
		case entity.BookingStatusPendingVerification:
			stats.PendingVerification++
		case entity.BookingStatusAccountVerified:
			stats.AccountVerified++
		case entity.BookingStatusAdminVerified:
			stats.AdminVerified++
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(b.SalePrice)
		stats.TotalCost = stats.TotalCost.Add(b.OurCost)
		stats.TotalMargin = stats.TotalMargin.Add(totals.Margin)
		stats.OutstandingBalance = stats.OutstandingBalance.Add(totals.Balance)
	}

	// A mutation that invalidates between the read above and this Set
	// leaves these stats cached until the TTL expires.
	if err := s.stats.Set(ctx, scope, stats); err != nil {
		s.log.Warn("Stats cache write failed", zap.Error(err), zap.String("scope", scope))
	}
	return stats, nil
}

func statsScope(actor entity.Actor) string {
	if actor.Role.IsAgent() {
		return "user:" + actor.ID.String()
	}
	return "all"
}
