package service

import (
	"context"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes shared by the service tests.

type fakePolicyRepo struct {
	policies map[uint]*model.CancellationPolicy
	refs     map[uint]int64
	nextID   uint
	findErr  error
}

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{policies: map[uint]*model.CancellationPolicy{}, refs: map[uint]int64{}}
}

func (f *fakePolicyRepo) Create(_ context.Context, policy *model.CancellationPolicy) error {
	f.nextID++
	policy.ID = f.nextID
	cp := *policy
	f.policies[policy.ID] = &cp
	return nil
}

func (f *fakePolicyRepo) Update(_ context.Context, policy *model.CancellationPolicy) error {
	if _, ok := f.policies[policy.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *policy
	f.policies[policy.ID] = &cp
	return nil
}

func (f *fakePolicyRepo) Delete(_ context.Context, id uint) error {
	delete(f.policies, id)
	return nil
}

func (f *fakePolicyRepo) FindByID(_ context.Context, id uint) (*model.CancellationPolicy, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	policy, ok := f.policies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *policy
	return &cp, nil
}

func (f *fakePolicyRepo) List(_ context.Context) ([]model.CancellationPolicy, error) {
	out := make([]model.CancellationPolicy, 0, len(f.policies))
	for _, p := range f.policies {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePolicyRepo) CountBookings(_ context.Context, id uint) (int64, error) {
	return f.refs[id], nil
}

type fakeStayRepo struct {
	stays map[uuid.UUID]*model.Stay
}

func newFakeStayRepo() *fakeStayRepo {
	return &fakeStayRepo{stays: map[uuid.UUID]*model.Stay{}}
}

func (f *fakeStayRepo) Create(_ context.Context, stay *model.Stay) error {
	if stay.ID == uuid.Nil {
		stay.ID = uuid.New()
	}
	cp := *stay
	f.stays[stay.ID] = &cp
	return nil
}

func (f *fakeStayRepo) Update(_ context.Context, stay *model.Stay) error {
	if _, ok := f.stays[stay.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *stay
	f.stays[stay.ID] = &cp
	return nil
}

func (f *fakeStayRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.stays, id)
	return nil
}

func (f *fakeStayRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Stay, error) {
	stay, ok := f.stays[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *stay
	return &cp, nil
}

func (f *fakeStayRepo) List(_ context.Context, _, _ int) ([]model.Stay, int64, error) {
	out := make([]model.Stay, 0, len(f.stays))
	for _, s := range f.stays {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeBookingRepo struct {
	bookings         map[uuid.UUID]*model.Booking
	summary          *repository.CancellationSummary
	beforeMarkCancel func()
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*model.Booking{}}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *booking
	return &cp, nil
}

func (f *fakeBookingRepo) List(_ context.Context, _, _ int) ([]model.Booking, int64, error) {
	out := make([]model.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) ListByGuest(_ context.Context, guestID uuid.UUID, _, _ int) ([]model.Booking, int64, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.GuestID == guestID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) MarkCancelled(_ context.Context, booking *model.Booking) error {
	if f.beforeMarkCancel != nil {
		f.beforeMarkCancel()
	}
	stored, ok := f.bookings[booking.ID]
	if !ok || stored.Status != model.BookingConfirmed {
		return repository.ErrBookingNotCancellable
	}
	stored.Status = model.BookingCancelled
	stored.RefundAmount = booking.RefundAmount
	stored.ForfeitAmount = booking.ForfeitAmount
	stored.RefundCategory = booking.RefundCategory
	stored.CancelledAt = booking.CancelledAt
	return nil
}

func (f *fakeBookingRepo) CancellationSummary(_ context.Context) (*repository.CancellationSummary, error) {
	if f.summary != nil {
		return f.summary, nil
	}
	return &repository.CancellationSummary{}, nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

func (f *fakeAuditRepo) lastAction() string {
	if len(f.entries) == 0 {
		return ""
	}
	return f.entries[len(f.entries)-1].Action
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
