package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus enum constants
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// RefundCategory enum constants (mirrors refund.Category)
const (
	RefundCategoryFull    = "full"
	RefundCategoryPartial = "partial"
	RefundCategoryNone    = "none"
)

// Booking is a confirmed reservation of a Stay. The timezone and check-in
// time are snapshotted at booking time so later edits to the listing cannot
// change the refund math of an existing reservation.
type Booking struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GuestID  uuid.UUID `gorm:"type:uuid;not null;index" json:"guest_id"`
	Guest    *User     `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	StayID   uuid.UUID `gorm:"type:uuid;not null;index" json:"stay_id"`
	Stay     *Stay     `gorm:"foreignKey:StayID" json:"stay,omitempty"`
	PolicyID *uint     `gorm:"index" json:"policy_id"`
	Policy   *CancellationPolicy `gorm:"foreignKey:PolicyID" json:"policy,omitempty"`

	ArrivalDate time.Time       `gorm:"type:date;not null;index" json:"arrival_date"` // property-local calendar date of check-in
	Nights      int             `gorm:"not null" json:"nights"`
	GrandTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"grand_total"`

	// Listing snapshot taken at booking time
	Timezone     string `gorm:"type:varchar(64);not null;default:'America/New_York'" json:"timezone"`
	CheckInAfter string `gorm:"type:varchar(8);not null;default:'15:00:00'" json:"check_in_after"`

	Status string `gorm:"type:varchar(20);not null;default:'CONFIRMED';index" json:"status"`

	// Refund outcome, populated on cancellation
	RefundAmount   *decimal.Decimal `gorm:"type:decimal(18,4)" json:"refund_amount,omitempty"`
	ForfeitAmount  *decimal.Decimal `gorm:"type:decimal(18,4)" json:"forfeit_amount,omitempty"`
	RefundCategory string           `gorm:"type:varchar(10)" json:"refund_category,omitempty"`
	CancelledAt    *time.Time       `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
