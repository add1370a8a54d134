package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/dto/response"
	"flight-booking/internal/notify"
	"flight-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore backs every fake repository. Writes made inside memTx register
// undo steps so a failed transaction leaves the store as it was.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	suppliers map[uuid.UUID]*entity.Supplier
	bookings  map[uuid.UUID]*entity.Booking
	audits    []*entity.AuditLog
	mods      []*entity.BookingModification

	auditErr   error
	auditBlock bool
	afterFind  func()
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]*entity.User{},
		suppliers: map[uuid.UUID]*entity.Supplier{},
		bookings:  map[uuid.UUID]*entity.Booking{},
	}
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:         &memUsers{s},
		Supplier:     &memSuppliers{s},
		Booking:      &memBookings{s},
		Audit:        &memAudit{s},
		Modification: &memMods{s},
		Tx:           &memTx{s},
	}
}

type journalKey struct{}

type journal struct {
	mu   sync.Mutex
	undo []func()
}

// onRollback must be called with s.mu held.
func (s *memStore) onRollback(ctx context.Context, fn func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.mu.Lock()
		j.undo = append(j.undo, fn)
		j.mu.Unlock()
	}
}

func (s *memStore) booking(id uuid.UUID) *entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bookings[id]; ok {
		return b.Clone()
	}
	return nil
}

func (s *memStore) auditActions() []entity.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.AuditAction, len(s.audits))
	for i, a := range s.audits {
		out[i] = a.Action
	}
	return out
}

type memTx struct{ s *memStore }

func (t *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return fn(ctx)
	}

	j := &journal{}
	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		t.s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		t.s.mu.Unlock()
		return err
	}
	return nil
}

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("email %s: %w", user.Email, apperr.ErrConflict)
		}
	}
	c := *user
	r.s.users[user.ID] = &c
	r.s.onRollback(ctx, func() { delete(r.s.users, user.ID) })
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.User
	for _, u := range r.s.users {
		c := *u
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return page(all, limit, offset), nil
}

func (r *memUsers) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *memUsers) CountByRole(_ context.Context, role entity.UserRole) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *memUsers) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, apperr.ErrNotFound)
	}
	c := *user
	r.s.users[user.ID] = &c
	r.s.onRollback(ctx, func() { r.s.users[user.ID] = prev })
	return nil
}

type memSuppliers struct{ s *memStore }

func (r *memSuppliers) Create(ctx context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *supplier
	r.s.suppliers[supplier.ID] = &c
	r.s.onRollback(ctx, func() { delete(r.s.suppliers, supplier.ID) })
	return nil
}

func (r *memSuppliers) FindByID(_ context.Context, id uuid.UUID) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sp, ok := r.s.suppliers[id]; ok {
		c := *sp
		return &c, nil
	}
	return nil, nil
}

func (r *memSuppliers) FindAll(_ context.Context) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Supplier
	for _, sp := range r.s.suppliers {
		c := *sp
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *memSuppliers) Update(ctx context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.suppliers[supplier.ID]
	if !ok {
		return fmt.Errorf("supplier %s: %w", supplier.ID, apperr.ErrNotFound)
	}
	c := *supplier
	r.s.suppliers[supplier.ID] = &c
	r.s.onRollback(ctx, func() { r.s.suppliers[supplier.ID] = prev })
	return nil
}

type memBookings struct{ s *memStore }

func (r *memBookings) Create(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if strings.EqualFold(b.PNR, booking.PNR) {
			return fmt.Errorf("PNR %s: %w", booking.PNR, apperr.ErrConflict)
		}
	}
	r.s.bookings[booking.ID] = booking.Clone()
	r.s.onRollback(ctx, func() { delete(r.s.bookings, booking.ID) })
	return nil
}

func (r *memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	b := r.s.booking(id)
	if r.s.afterFind != nil {
		r.s.afterFind()
	}
	return b, nil
}

func (r *memBookings) FindByPNR(_ context.Context, pnr string) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if strings.EqualFold(b.PNR, pnr) {
			return b.Clone(), nil
		}
	}
	return nil, nil
}

func (r *memBookings) matching(f repository.BookingFilter) []*entity.Booking {
	var out []*entity.Booking
	term := strings.ToUpper(strings.TrimSpace(f.Search))
	for _, b := range r.s.bookings {
		if f.CreatedBy != nil && b.CreatedBy != *f.CreatedBy {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, b.Status) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToUpper(b.PNR), term) && !strings.Contains(b.ContactNumber, term) {
			continue
		}
		if f.CreatedFrom != nil && b.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && b.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memBookings) FindAll(_ context.Context, f repository.BookingFilter) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(f), f.Limit, f.Offset), nil
}

func (r *memBookings) Count(_ context.Context, f repository.BookingFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(f))), nil
}

// cas mirrors UPDATE ... WHERE id = $1 AND status = $2.
func (r *memBookings) cas(ctx context.Context, id uuid.UUID, expected entity.BookingStatus, apply func(b *entity.Booking)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, apperr.ErrNotFound)
	}
	if prev.Status != expected {
		return fmt.Errorf("booking %s is %s, expected %s: %w", id, prev.Status, expected, apperr.ErrConflict)
	}
	next := prev.Clone()
	apply(next)
	r.s.bookings[id] = next
	r.s.onRollback(ctx, func() { r.s.bookings[id] = prev })
	return nil
}

func (r *memBookings) UpdateStatus(ctx context.Context, booking *entity.Booking, expected entity.BookingStatus) error {
	return r.cas(ctx, booking.ID, expected, func(b *entity.Booking) {
		b.Status = booking.Status
		b.SubmittedAt = booking.SubmittedAt
		b.AccountVerifiedBy = booking.AccountVerifiedBy
		b.AccountVerifiedAt = booking.AccountVerifiedAt
		b.AdminVerifiedBy = booking.AdminVerifiedBy
		b.AdminVerifiedAt = booking.AdminVerifiedAt
		b.UpdatedAt = booking.UpdatedAt
	})
}

func (r *memBookings) UpdateCommercial(ctx context.Context, booking *entity.Booking, expected entity.BookingStatus) error {
	return r.cas(ctx, booking.ID, expected, func(b *entity.Booking) {
		b.SupplierID = booking.SupplierID
		b.OurCost = booking.OurCost
		b.SalePrice = booking.SalePrice
		b.PaymentType = booking.PaymentType
		b.Installments = slices.Clone(booking.Installments)
		b.UpdatedAt = booking.UpdatedAt
	})
}

func (r *memBookings) UpdateBilling(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.bookings[booking.ID]
	if !ok {
		return fmt.Errorf("booking %s: %w", booking.ID, apperr.ErrNotFound)
	}
	next := prev.Clone()
	next.BillingStatus = booking.BillingStatus
	next.PaidAmountToSupplier = booking.PaidAmountToSupplier
	next.UpdatedAt = booking.UpdatedAt
	r.s.bookings[booking.ID] = next
	r.s.onRollback(ctx, func() { r.s.bookings[booking.ID] = prev })
	return nil
}

type memAudit struct{ s *memStore }

func (r *memAudit) Append(ctx context.Context, entry *entity.AuditLog) error {
	if r.s.auditBlock {
		<-ctx.Done()
		return ctx.Err()
	}
	if r.s.auditErr != nil {
		return r.s.auditErr
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, entry)
	r.s.onRollback(ctx, func() {
		r.s.audits = slices.DeleteFunc(r.s.audits, func(a *entity.AuditLog) bool { return a.ID == entry.ID })
	})
	return nil
}

func (r *memAudit) FindAll(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AuditLog
	for _, a := range r.s.audits {
		if f.UserID != nil && a.UserID != *f.UserID {
			continue
		}
		if f.EntityType != "" && a.EntityType != f.EntityType {
			continue
		}
		if a.Timestamp.Before(f.Since) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return page(out, f.Limit, 0), nil
}

type memMods struct{ s *memStore }

func (r *memMods) Create(ctx context.Context, mod *entity.BookingModification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.mods = append(r.s.mods, mod)
	r.s.onRollback(ctx, func() {
		r.s.mods = slices.DeleteFunc(r.s.mods, func(m *entity.BookingModification) bool { return m.ID == mod.ID })
	})
	return nil
}

func (r *memMods) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.BookingModification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BookingModification
	for _, m := range r.s.mods {
		if m.BookingID == bookingID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// stepClock advances one second per call.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recordingPublisher struct {
	mu      sync.Mutex
	events  []notify.Event
	err     error
	block   bool
	lastErr error
}

func (p *recordingPublisher) Publish(ctx context.Context, e notify.Event) error {
	if p.block {
		<-ctx.Done()
		p.mu.Lock()
		p.lastErr = ctx.Err()
		p.mu.Unlock()
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type memStats struct {
	mu            sync.Mutex
	entries       map[string]*response.DashboardStats
	invalidations int
}

func (c *memStats) Get(_ context.Context, scope string) (*response.DashboardStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[scope], nil
}

func (c *memStats) Set(_ context.Context, scope string, stats *response.DashboardStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string]*response.DashboardStats{}
	}
	c.entries[scope] = stats
	return nil
}

func (c *memStats) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.invalidations++
	return nil
}

type fixture struct {
	svc       *Service
	store     *memStore
	publisher *recordingPublisher
	stats     *memStats
	clock     *stepClock
	config    *utils.Config

	admin, agent1, agent2, account entity.Actor
	supplier                       *entity.Supplier
}

const testPassword = "secret123"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:     newMemStore(),
		publisher: &recordingPublisher{},
		stats:     &memStats{},
		clock:     &stepClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
		config: &utils.Config{
			JWT:      utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
			Workflow: utils.WorkflowConfig{AuditTimeout: 50 * time.Millisecond},
		},
	}

	f.admin = f.addUser(t, "admin@example.com", "Admin", entity.RoleAdmin, true)
	f.agent1 = f.addUser(t, "agent1@example.com", "Agent One", entity.RoleAgent1, true)
	f.agent2 = f.addUser(t, "agent2@example.com", "Agent Two", entity.RoleAgent2, true)
	f.account = f.addUser(t, "account@example.com", "Accounts", entity.RoleAccount, true)

	f.supplier = &entity.Supplier{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: f.clock.Now(), UpdatedAt: f.clock.Now()},
		Name:      "Sky Travels",
		CreatedBy: f.admin.ID,
	}
	f.store.suppliers[f.supplier.ID] = f.supplier

	f.svc = NewService(f.store.repository(), f.config, zap.NewNop(), Deps{
		Publisher: f.publisher,
		Stats:     f.stats,
		Clock:     f.clock.Now,
	})
	return f
}

func (f *fixture) addUser(t *testing.T, email, name string, role entity.UserRole, active bool) entity.Actor {
	t.Helper()

	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)

	now := f.clock.Now()
	u := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	f.store.users[u.ID] = u
	return u.Actor()
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
