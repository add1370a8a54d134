package repository

import (
	"errors"
	"strings"

	"flight-booking/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Supplier     SupplierRepository
	Booking      BookingRepository
	Audit        AuditRepository
	Modification ModificationRepository
	Tx           database.Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Supplier:     NewSupplierRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Audit:        NewAuditRepository(db, log),
		Modification: NewModificationRepository(db, log),
		Tx:           database.NewTxManager(db),
	}
}

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// likePattern wraps term for a substring LIKE match, escaping wildcards.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
