package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/refund"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingTestEnv struct {
	svc         BookingService
	bookingRepo *fakeBookingRepo
	stayRepo    *fakeStayRepo
	policyRepo  *fakePolicyRepo
	auditRepo   *fakeAuditRepo
}

// newBookingEnv wires the booking service against in-memory repositories and
// a calculator pinned to the given instant.
func newBookingEnv(now time.Time) *bookingTestEnv {
	bookingRepo := newFakeBookingRepo()
	stayRepo := newFakeStayRepo()
	policyRepo := newFakePolicyRepo()
	auditRepo := &fakeAuditRepo{}

	policies := NewPolicyService(policyRepo, auditRepo, nil, nil)
	calc := refund.NewCalculatorWithClock(func() time.Time { return now })
	svc := NewBookingService(bookingRepo, stayRepo, policies, auditRepo, fakeTxManager{}, calc, nil)

	return &bookingTestEnv{
		svc:         svc,
		bookingRepo: bookingRepo,
		stayRepo:    stayRepo,
		policyRepo:  policyRepo,
		auditRepo:   auditRepo,
	}
}

func (e *bookingTestEnv) seedStay(t *testing.T, timezone, checkInAfter string, rate string) *model.Stay {
	t.Helper()
	stay := &model.Stay{
		HostID:       uuid.New(),
		Title:        "Hangar Loft",
		City:         "Sedona",
		State:        "AZ",
		Timezone:     timezone,
		CheckInAfter: checkInAfter,
		NightlyRate:  decimal.RequireFromString(rate),
	}
	require.NoError(t, e.stayRepo.Create(context.Background(), stay))
	return stay
}

func (e *bookingTestEnv) seedStrongPolicy(t *testing.T) *model.CancellationPolicy {
	t.Helper()
	policy := &model.CancellationPolicy{
		GroupName:     "Strong Short Term",
		Type:          "short",
		BeforeCheckIn: "100% refund 14+ days out, 50% refund 7-14 days out.",
		AfterCheckIn:  "First night plus half the remaining nights are forfeited.",
	}
	require.NoError(t, e.policyRepo.Create(context.Background(), policy))
	return policy
}

// seedBooking stores a confirmed 8-night booking worth 258.46 arriving
// 2026-01-09 at 15:00 New York time.
func (e *bookingTestEnv) seedBooking(t *testing.T, guestID uuid.UUID, policyID *uint) *model.Booking {
	t.Helper()
	stay := e.seedStay(t, "America/New_York", "15:00:00", "32.3075")
	booking := &model.Booking{
		GuestID:      guestID,
		StayID:       stay.ID,
		PolicyID:     policyID,
		ArrivalDate:  time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
		Nights:       8,
		GrandTotal:   decimal.RequireFromString("258.46"),
		Timezone:     "America/New_York",
		CheckInAfter: "15:00:00",
		Status:       model.BookingConfirmed,
	}
	require.NoError(t, e.bookingRepo.Create(context.Background(), booking))
	return booking
}

func TestCreateBookingSnapshotsStayDefaults(t *testing.T) {
	env := newBookingEnv(time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC))
	stay := env.seedStay(t, "", "", "100.00")
	guestID := uuid.New().String()

	res, err := env.svc.CreateBooking(context.Background(), guestID, CreateBookingRequest{
		StayID:      stay.ID.String(),
		ArrivalDate: "2026-03-15",
		Nights:      3,
	})
	require.NoError(t, err)

	assert.Equal(t, "300.00", res.GrandTotal)
	assert.Equal(t, model.DefaultTimezone, res.Timezone)
	assert.Equal(t, model.DefaultCheckInAfter, res.CheckInAfter)
	assert.Equal(t, model.BookingConfirmed, res.Status)
	assert.Equal(t, model.ActionCreateBooking, env.auditRepo.lastAction())
}

func TestCreateBookingRejectsBadInput(t *testing.T) {
	env := newBookingEnv(time.Now())
	guestID := uuid.New().String()

	_, err := env.svc.CreateBooking(context.Background(), guestID, CreateBookingRequest{
		StayID:      uuid.New().String(),
		ArrivalDate: "2026-03-15",
		Nights:      2,
	})
	assert.EqualError(t, err, "stay not found")

	stay := env.seedStay(t, "America/New_York", "15:00:00", "100.00")
	_, err = env.svc.CreateBooking(context.Background(), guestID, CreateBookingRequest{
		StayID:      stay.ID.String(),
		ArrivalDate: "March 15, 2026",
		Nights:      2,
	})
	assert.ErrorContains(t, err, "invalid arrival_date")

	missing := uint(99)
	_, err = env.svc.CreateBooking(context.Background(), guestID, CreateBookingRequest{
		StayID:      stay.ID.String(),
		ArrivalDate: "2026-03-15",
		Nights:      2,
		PolicyID:    &missing,
	})
	assert.EqualError(t, err, "cancellation policy not found")
}

func TestCancelBookingFullRefund(t *testing.T) {
	// 20 days before check-in, well past the strong policy's 14-day cutoff.
	env := newBookingEnv(time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC))
	guest := uuid.New()
	policy := env.seedStrongPolicy(t)
	booking := env.seedBooking(t, guest, &policy.ID)

	res, preview, err := env.svc.CancelBooking(context.Background(), booking.ID.String(), guest.String(), model.RoleGuest)
	require.NoError(t, err)

	assert.Equal(t, model.BookingCancelled, res.Status)
	assert.Equal(t, "258.46", preview.RefundAmount)
	assert.Equal(t, "0.00", preview.ForfeitAmount)
	assert.Equal(t, model.RefundCategoryFull, preview.RefundCategory)
	assert.True(t, preview.IsBeforeCheckIn)

	stored, err := env.bookingRepo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, stored.Status)
	require.NotNil(t, stored.RefundAmount)
	assert.Equal(t, "258.46", stored.RefundAmount.StringFixed(2))
	assert.Equal(t, model.ActionCancelBooking, env.auditRepo.lastAction())
}

func TestCancelBookingPartialRefundOneWeekOut(t *testing.T) {
	// Exactly 7 days before the 15:00 New York check-in (20:00 UTC).
	env := newBookingEnv(time.Date(2026, 1, 2, 20, 0, 0, 0, time.UTC))
	guest := uuid.New()
	policy := env.seedStrongPolicy(t)
	booking := env.seedBooking(t, guest, &policy.ID)

	_, preview, err := env.svc.CancelBooking(context.Background(), booking.ID.String(), guest.String(), model.RoleGuest)
	require.NoError(t, err)

	assert.Equal(t, "50.00", preview.RefundPercentage)
	assert.Equal(t, "129.23", preview.RefundAmount)
	assert.Equal(t, "129.23", preview.ForfeitAmount)
	assert.Equal(t, model.RefundCategoryPartial, preview.RefundCategory)
	assert.Equal(t, 7, preview.DaysUntilCheckIn)
}

func TestCancelBookingWithoutPolicyForfeitsEverything(t *testing.T) {
	env := newBookingEnv(time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC))
	guest := uuid.New()
	booking := env.seedBooking(t, guest, nil)

	_, preview, err := env.svc.CancelBooking(context.Background(), booking.ID.String(), guest.String(), model.RoleGuest)
	require.NoError(t, err)

	assert.Equal(t, "0.00", preview.RefundAmount)
	assert.Equal(t, "258.46", preview.ForfeitAmount)
	assert.Equal(t, model.RefundCategoryNone, preview.RefundCategory)
	assert.Equal(t, "No Policy", preview.PolicyName)
}

func TestCancelBookingFailsWhenPolicyStoreIsDown(t *testing.T) {
	// 15 days out, squarely in the strong policy's full-refund window. If the
	// lookup failure were mistaken for a missing policy, the guest would be
	// charged the entire 258.46.
	env := newBookingEnv(time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC))
	guest := uuid.New()
	policy := env.seedStrongPolicy(t)
	booking := env.seedBooking(t, guest, &policy.ID)

	env.policyRepo.findErr = errors.New("dial tcp 10.0.0.5:5432: connection refused")

	_, _, err := env.svc.CancelBooking(context.Background(), booking.ID.String(), guest.String(), model.RoleGuest)
	assert.ErrorIs(t, err, ErrPolicyUnavailable)

	_, err = env.svc.PreviewRefund(context.Background(), booking.ID.String(), guest.String(), model.RoleGuest)
	assert.ErrorIs(t, err, ErrPolicyUnavailable)

	stored, err := env.bookingRepo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, stored.Status)
	assert.Nil(t, stored.RefundAmount)
	assert.Nil(t, stored.ForfeitAmount)
	assert.Empty(t, env.auditRepo.lastAction())
}

func TestCancelBookingDeletedPolicyForfeitsEverything(t *testing.T) {
	// A policy id pointing at a row that no longer exists is the one lookup
	// failure that legitimately degrades to the no-policy result.
	env := newBookingEnv(time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC))
	guest := uuid.New()
	missing := uint(404)
	booking := env.seedBooking(t, guest, &missing)

	_, preview, err := env.svc.CancelBooking(context.Background(), booking.ID.String(), guest.String(), model.RoleGuest)
	require.NoError(t, err)
	assert.Equal(t, "No Policy", preview.PolicyName)
	assert.Equal(t, "0.00", preview.RefundAmount)
	assert.Equal(t, model.RefundCategoryNone, preview.RefundCategory)
}

func TestCancelBookingLosesRaceToConcurrentCancel(t *testing.T) {
	env := newBookingEnv(time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC))
	guest := uuid.New()
	policy := env.seedStrongPolicy(t)
	booking := env.seedBooking(t, guest, &policy.ID)

	// Another request cancels the booking between the status check and the
	// update, so the conditional write matches no row.
	winnerRefund := decimal.RequireFromString("258.46")
	env.bookingRepo.beforeMarkCancel = func() {
		stored := env.bookingRepo.bookings[booking.ID]
		stored.Status = model.BookingCancelled
		stored.RefundAmount = &winnerRefund
	}

	_, _, err := env.svc.CancelBooking(context.Background(), booking.ID.String(), guest.String(), model.RoleGuest)
	assert.EqualError(t, err, "booking is already cancelled")

	// The winner's numbers stand.
	stored, err := env.bookingRepo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefundAmount)
	assert.Equal(t, "258.46", stored.RefundAmount.StringFixed(2))
}

func TestCancelBookingTwiceFails(t *testing.T) {
	env := newBookingEnv(time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC))
	guest := uuid.New()
	policy := env.seedStrongPolicy(t)
	booking := env.seedBooking(t, guest, &policy.ID)

	_, _, err := env.svc.CancelBooking(context.Background(), booking.ID.String(), guest.String(), model.RoleGuest)
	require.NoError(t, err)

	_, _, err = env.svc.CancelBooking(context.Background(), booking.ID.String(), guest.String(), model.RoleGuest)
	assert.EqualError(t, err, "booking is already cancelled")
}

func TestPreviewRefundAuthorization(t *testing.T) {
	env := newBookingEnv(time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC))
	guest := uuid.New()
	policy := env.seedStrongPolicy(t)
	booking := env.seedBooking(t, guest, &policy.ID)

	_, err := env.svc.PreviewRefund(context.Background(), booking.ID.String(), uuid.New().String(), model.RoleGuest)
	assert.EqualError(t, err, "access denied: not your booking")

	preview, err := env.svc.PreviewRefund(context.Background(), booking.ID.String(), uuid.New().String(), model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "100.00", preview.RefundPercentage)

	// Preview must not mutate the booking.
	stored, err := env.bookingRepo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, stored.Status)
	assert.Nil(t, stored.RefundAmount)
}

func TestListBookingsScopedByRole(t *testing.T) {
	env := newBookingEnv(time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC))
	alice := uuid.New()
	bob := uuid.New()
	env.seedBooking(t, alice, nil)
	env.seedBooking(t, alice, nil)
	env.seedBooking(t, bob, nil)

	own, total, err := env.svc.ListBookings(context.Background(), alice.String(), model.RoleGuest, 1, 20)
	require.NoError(t, err)
	assert.Len(t, own, 2)
	assert.EqualValues(t, 2, total)

	all, total, err := env.svc.ListBookings(context.Background(), uuid.New().String(), model.RoleAdmin, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.EqualValues(t, 3, total)
}
