package usecase

import (
	"time"

	"flight-booking/internal/cache"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/notify"
	"flight-booking/internal/workflow"
	"flight-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Supplier     SupplierService
	Booking      BookingService
	Modification ModificationService
	Audit        AuditService
	Report       ReportService
}

// Deps are the collaborators outside the database. Nil fields get a
// log-only or no-op default.
type Deps struct {
	Publisher notify.Publisher
	Stats     cache.StatsCache
	Billing   workflow.Billing
	Clock     func() time.Time
}

func (d Deps) withDefaults(log *zap.Logger) Deps {
	if d.Publisher == nil {
		d.Publisher = notify.NewLogPublisher(log)
	}
	if d.Stats == nil {
		d.Stats = cache.Noop{}
	}
	if d.Billing == nil {
		d.Billing = workflow.UnsupportedBilling{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger, deps Deps) *Service {
	deps = deps.withDefaults(log)
	audit := newAuditRecorder(repo.Audit, config.Workflow.AuditTimeout, deps.Clock)

	return &Service{
		Auth:         NewAuthService(repo, config, log),
		User:         NewUserService(repo, audit, deps.Clock, log),
		Supplier:     NewSupplierService(repo, audit, deps.Clock, log),
		Booking:      NewBookingService(repo, audit, deps, log),
		Modification: NewModificationService(repo, audit, deps.Clock, log),
		Audit:        NewAuditService(repo.Audit, deps.Clock, log),
		Report:       NewReportService(repo, deps.Stats, log),
	}
}
