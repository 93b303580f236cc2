package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/refund"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/repository"
	ws "github.com/umarabbas75/fly-inn-app-sub004/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBookingRequest struct {
	StayID      string `json:"stay_id" binding:"required,uuid"`
	ArrivalDate string `json:"arrival_date" binding:"required"` // YYYY-MM-DD, property-local
	Nights      int    `json:"nights" binding:"required,gt=0"`
	PolicyID    *uint  `json:"policy_id"`
}

type BookingResponse struct {
	ID             string  `json:"id"`
	StayID         string  `json:"stay_id"`
	StayTitle      string  `json:"stay_title,omitempty"`
	GuestID        string  `json:"guest_id"`
	PolicyID       *uint   `json:"policy_id"`
	PolicyName     string  `json:"policy_name,omitempty"`
	ArrivalDate    string  `json:"arrival_date"`
	Nights         int     `json:"nights"`
	GrandTotal     string  `json:"grand_total"`
	Timezone       string  `json:"timezone"`
	CheckInAfter   string  `json:"check_in_after"`
	Status         string  `json:"status"`
	RefundAmount   *string `json:"refund_amount,omitempty"`
	ForfeitAmount  *string `json:"forfeit_amount,omitempty"`
	RefundCategory string  `json:"refund_category,omitempty"`
	CancelledAt    *string `json:"cancelled_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// RefundPreviewResponse mirrors the calculator output with money rendered at
// two decimal places. Rounding happens only here, at the presentation edge.
type RefundPreviewResponse struct {
	RefundPercentage  string  `json:"refund_percentage"`
	RefundAmount      string  `json:"refund_amount"`
	ForfeitAmount     string  `json:"forfeit_amount"`
	HostPayout        string  `json:"host_payout"`
	IsBeforeCheckIn   bool    `json:"is_before_check_in"`
	DaysUntilCheckIn  int     `json:"days_until_check_in"`
	HoursUntilCheckIn float64 `json:"hours_until_check_in"`
	PolicyName        string  `json:"policy_name"`
	PolicyDescription string  `json:"policy_description"`
	RefundCategory    string  `json:"refund_category"`
}

// ErrPolicyUnavailable reports that the policy store could not be reached.
// Callers must not fall back to the no-policy refund result in that case: a
// policy that failed to load is not a policy that does not exist.
var ErrPolicyUnavailable = errors.New("cancellation policy is temporarily unavailable")

// --- Interface ---

type BookingService interface {
	CreateBooking(ctx context.Context, guestID string, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, id string, requesterID, requesterRole string) (*BookingResponse, error)
	ListBookings(ctx context.Context, requesterID, requesterRole string, page, limit int) ([]BookingResponse, int64, error)
	PreviewRefund(ctx context.Context, id string, requesterID, requesterRole string) (*RefundPreviewResponse, error)
	CancelBooking(ctx context.Context, id string, requesterID, requesterRole string) (*BookingResponse, *RefundPreviewResponse, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	stayRepo    repository.StayRepository
	policies    PolicyService
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	calculator  *refund.Calculator
	hub         *ws.Hub
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	stayRepo repository.StayRepository,
	policies PolicyService,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	calculator *refund.Calculator,
	hub *ws.Hub,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		stayRepo:    stayRepo,
		policies:    policies,
		auditRepo:   auditRepo,
		txManager:   txManager,
		calculator:  calculator,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *bookingService) CreateBooking(ctx context.Context, guestID string, req CreateBookingRequest) (*BookingResponse, error) {
	guest, err := uuid.Parse(guestID)
	if err != nil {
		return nil, fmt.Errorf("invalid guest id: %w", err)
	}
	stayID, err := uuid.Parse(req.StayID)
	if err != nil {
		return nil, fmt.Errorf("invalid stay id: %w", err)
	}
	arrival, err := time.Parse("2006-01-02", req.ArrivalDate)
	if err != nil {
		return nil, errors.New("invalid arrival_date format (expected YYYY-MM-DD)")
	}

	stay, err := s.stayRepo.FindByID(ctx, stayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("stay not found")
		}
		return nil, fmt.Errorf("failed to fetch stay: %w", err)
	}

	if req.PolicyID != nil {
		if _, err := s.policies.ResolvePolicy(ctx, *req.PolicyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("cancellation policy not found")
			}
			return nil, fmt.Errorf("failed to fetch cancellation policy: %w", err)
		}
	}

	// Snapshot the listing's timezone and check-in time so later edits to
	// the stay cannot change this booking's refund math.
	timezone := stay.Timezone
	if timezone == "" {
		timezone = model.DefaultTimezone
	}
	checkInAfter := stay.CheckInAfter
	if checkInAfter == "" {
		checkInAfter = model.DefaultCheckInAfter
	}

	booking := &model.Booking{
		GuestID:      guest,
		StayID:       stay.ID,
		PolicyID:     req.PolicyID,
		ArrivalDate:  arrival,
		Nights:       req.Nights,
		GrandTotal:   stay.NightlyRate.Mul(decimal.NewFromInt(int64(req.Nights))),
		Timezone:     timezone,
		CheckInAfter: checkInAfter,
		Status:       model.BookingConfirmed,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	writeAudit(ctx, s.auditRepo, guestID, model.ActionCreateBooking, booking.ID.String(), stay.Title, req)
	broadcastEvent(s.hub, EventBookingCreated, map[string]interface{}{
		"id":      booking.ID.String(),
		"stay_id": stay.ID.String(),
	})

	booking.Stay = stay
	res := toBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string, requesterID, requesterRole string) (*BookingResponse, error) {
	booking, err := s.findAuthorized(ctx, id, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}
	res := toBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) ListBookings(ctx context.Context, requesterID, requesterRole string, page, limit int) ([]BookingResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var (
		bookings []model.Booking
		total    int64
		err      error
	)
	if requesterRole == model.RoleAdmin {
		bookings, total, err = s.bookingRepo.List(ctx, page, limit)
	} else {
		guest, parseErr := uuid.Parse(requesterID)
		if parseErr != nil {
			return nil, 0, fmt.Errorf("invalid requester id: %w", parseErr)
		}
		bookings, total, err = s.bookingRepo.ListByGuest(ctx, guest, page, limit)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	res := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		res = append(res, toBookingResponse(&bookings[i]))
	}
	return res, total, nil
}

func (s *bookingService) PreviewRefund(ctx context.Context, id string, requesterID, requesterRole string) (*RefundPreviewResponse, error) {
	booking, err := s.findAuthorized(ctx, id, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}

	calc, err := s.calculate(ctx, booking)
	if err != nil {
		return nil, err
	}
	res := toRefundPreview(calc)
	return &res, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id string, requesterID, requesterRole string) (*BookingResponse, *RefundPreviewResponse, error) {
	booking, err := s.findAuthorized(ctx, id, requesterID, requesterRole)
	if err != nil {
		return nil, nil, err
	}
	if booking.Status == model.BookingCancelled {
		return nil, nil, errors.New("booking is already cancelled")
	}

	calc, err := s.calculate(ctx, booking)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	refundAmount := calc.RefundAmount
	forfeitAmount := calc.ForfeitAmount
	booking.Status = model.BookingCancelled
	booking.RefundAmount = &refundAmount
	booking.ForfeitAmount = &forfeitAmount
	booking.RefundCategory = string(calc.RefundCategory)
	booking.CancelledAt = &now

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.bookingRepo.MarkCancelled(txCtx, booking)
	})
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotCancellable) {
			// Lost the race to a concurrent cancellation; the stored outcome
			// belongs to whoever won.
			return nil, nil, errors.New("booking is already cancelled")
		}
		return nil, nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	writeAudit(ctx, s.auditRepo, requesterID, model.ActionCancelBooking, booking.ID.String(), calc.PolicyName, map[string]interface{}{
		"refund_amount":   calc.RefundAmount.StringFixed(2),
		"forfeit_amount":  calc.ForfeitAmount.StringFixed(2),
		"refund_category": calc.RefundCategory,
	})
	broadcastEvent(s.hub, EventBookingCancelled, map[string]interface{}{
		"id":              booking.ID.String(),
		"refund_amount":   calc.RefundAmount.StringFixed(2),
		"refund_category": calc.RefundCategory,
	})

	bookingRes := toBookingResponse(booking)
	previewRes := toRefundPreview(calc)
	return &bookingRes, &previewRes, nil
}

// --- Helpers ---

// findAuthorized loads a booking and enforces that non-admin requesters only
// see their own bookings.
func (s *bookingService) findAuthorized(ctx context.Context, id, requesterID, requesterRole string) (*model.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}

	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("booking not found")
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	if requesterRole != model.RoleAdmin && booking.GuestID.String() != requesterID {
		return nil, errors.New("access denied: not your booking")
	}

	return booking, nil
}

// calculate runs the refund engine against the booking's stored snapshot,
// resolving the policy through the cache-backed policy service. Only a policy
// row that genuinely no longer exists degrades to the engine's no-policy
// result; any other lookup failure aborts so a transient outage can never be
// persisted as a zero refund.
func (s *bookingService) calculate(ctx context.Context, booking *model.Booking) (refund.Calculation, error) {
	var policy *refund.Policy
	if booking.PolicyID != nil {
		p, err := s.policies.ResolvePolicy(ctx, *booking.PolicyID)
		switch {
		case err == nil:
			policy = &refund.Policy{
				GroupName:     p.GroupName,
				RuleSet:       refund.RuleSet(p.RuleSet),
				BeforeCheckIn: p.BeforeCheckIn,
				AfterCheckIn:  p.AfterCheckIn,
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Policy row is gone; the no-policy guard applies.
		default:
			return refund.Calculation{}, fmt.Errorf("%w: %v", ErrPolicyUnavailable, err)
		}
	}

	input := refund.Booking{
		ArrivalDate: booking.ArrivalDate.Format("2006-01-02"),
		GrandTotal:  booking.GrandTotal,
		Stay: &refund.StaySnapshot{
			Timezone:     booking.Timezone,
			CheckInAfter: booking.CheckInAfter,
		},
	}

	return s.calculator.Calculate(input, policy, booking.Nights), nil
}

func toBookingResponse(b *model.Booking) BookingResponse {
	res := BookingResponse{
		ID:             b.ID.String(),
		StayID:         b.StayID.String(),
		GuestID:        b.GuestID.String(),
		PolicyID:       b.PolicyID,
		ArrivalDate:    b.ArrivalDate.Format("2006-01-02"),
		Nights:         b.Nights,
		GrandTotal:     b.GrandTotal.StringFixed(2),
		Timezone:       b.Timezone,
		CheckInAfter:   b.CheckInAfter,
		Status:         b.Status,
		RefundCategory: b.RefundCategory,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
	if b.Stay != nil {
		res.StayTitle = b.Stay.Title
	}
	if b.Policy != nil {
		res.PolicyName = b.Policy.GroupName
	}
	if b.RefundAmount != nil {
		v := b.RefundAmount.StringFixed(2)
		res.RefundAmount = &v
	}
	if b.ForfeitAmount != nil {
		v := b.ForfeitAmount.StringFixed(2)
		res.ForfeitAmount = &v
	}
	if b.CancelledAt != nil {
		v := b.CancelledAt.Format(time.RFC3339)
		res.CancelledAt = &v
	}
	return res
}

func toRefundPreview(c refund.Calculation) RefundPreviewResponse {
	return RefundPreviewResponse{
		RefundPercentage:  c.RefundPercentage.StringFixed(2),
		RefundAmount:      c.RefundAmount.StringFixed(2),
		ForfeitAmount:     c.ForfeitAmount.StringFixed(2),
		HostPayout:        c.HostPayout.StringFixed(2),
		IsBeforeCheckIn:   c.IsBeforeCheckIn,
		DaysUntilCheckIn:  c.DaysUntilCheckIn,
		HoursUntilCheckIn: c.HoursUntilCheckIn,
		PolicyName:        c.PolicyName,
		PolicyDescription: c.PolicyDescription,
		RefundCategory:    string(c.RefundCategory),
	}
}
