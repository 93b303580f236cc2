package repository

import (
	"context"
	"errors"
	"time"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrBookingNotCancellable is returned when a cancellation update matched no
// row, i.e. the booking was not in CONFIRMED status anymore.
var ErrBookingNotCancellable = errors.New("booking is not in a cancellable state")

// CancellationSummary aggregates refund outcomes for the admin dashboard.
type CancellationSummary struct {
	TotalBookings      int64           `json:"total_bookings"`
	CancelledBookings  int64           `json:"cancelled_bookings"`
	TotalRefunded      decimal.Decimal `json:"total_refunded"`
	TotalForfeited     decimal.Decimal `json:"total_forfeited"`
	FullRefunds        int64           `json:"full_refunds"`
	PartialRefunds     int64           `json:"partial_refunds"`
	ZeroRefunds        int64           `json:"zero_refunds"`
}

// BookingRepository defines data access for bookings
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, page, limit int) ([]model.Booking, int64, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID, page, limit int) ([]model.Booking, int64, error)
	MarkCancelled(ctx context.Context, booking *model.Booking) error
	CancellationSummary(ctx context.Context) (*CancellationSummary, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).
		Preload("Stay").
		Preload("Policy").
		Preload("Guest").
		First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, page, limit int) ([]model.Booking, int64, error) {
	return r.list(ctx, GetDB(ctx, r.db), page, limit)
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID, page, limit int) ([]model.Booking, int64, error) {
	db := GetDB(ctx, r.db).Where("guest_id = ?", guestID)
	return r.list(ctx, db, page, limit)
}

func (r *bookingRepository) list(_ context.Context, db *gorm.DB, page, limit int) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	if err := db.Model(&model.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Stay").Preload("Policy").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// MarkCancelled persists the cancellation outcome fields only, so concurrent
// edits to other columns are not clobbered. The status guard makes the update
// a no-op when another request cancelled first; that surfaces as
// ErrBookingNotCancellable so callers never report refund numbers that were
// not written.
func (r *bookingRepository) MarkCancelled(ctx context.Context, booking *model.Booking) error {
	result := GetDB(ctx, r.db).Model(&model.Booking{}).
		Where("id = ? AND status = ?", booking.ID, model.BookingConfirmed).
		Updates(map[string]interface{}{
			"status":          model.BookingCancelled,
			"refund_amount":   booking.RefundAmount,
			"forfeit_amount":  booking.ForfeitAmount,
			"refund_category": booking.RefundCategory,
			"cancelled_at":    booking.CancelledAt,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotCancellable
	}
	return nil
}

func (r *bookingRepository) CancellationSummary(ctx context.Context) (*CancellationSummary, error) {
	db := GetDB(ctx, r.db)
	summary := &CancellationSummary{
		TotalRefunded:  decimal.Zero,
		TotalForfeited: decimal.Zero,
	}

	if err := db.Model(&model.Booking{}).Count(&summary.TotalBookings).Error; err != nil {
		return nil, err
	}

	cancelled := db.Model(&model.Booking{}).Where("status = ?", model.BookingCancelled)
	if err := cancelled.Count(&summary.CancelledBookings).Error; err != nil {
		return nil, err
	}

	type sums struct {
		Refunded  decimal.Decimal
		Forfeited decimal.Decimal
	}
	var s sums
	err := db.Model(&model.Booking{}).
		Select("COALESCE(SUM(refund_amount), 0) AS refunded, COALESCE(SUM(forfeit_amount), 0) AS forfeited").
		Where("status = ?", model.BookingCancelled).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	summary.TotalRefunded = s.Refunded
	summary.TotalForfeited = s.Forfeited

	type categoryCount struct {
		RefundCategory string
		Count          int64
	}
	var counts []categoryCount
	err = db.Model(&model.Booking{}).
		Select("refund_category, COUNT(*) AS count").
		Where("status = ?", model.BookingCancelled).
		Group("refund_category").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		switch c.RefundCategory {
		case model.RefundCategoryFull:
			summary.FullRefunds = c.Count
		case model.RefundCategoryPartial:
			summary.PartialRefunds = c.Count
		case model.RefundCategoryNone:
			summary.ZeroRefunds = c.Count
		}
	}

	return summary, nil
}
