package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stay defaults applied when a listing leaves these fields blank
const (
	DefaultTimezone     = "America/New_York"
	DefaultCheckInAfter = "15:00:00"
)

// Stay represents a bookable listing (hangar home, fly-in rental, etc.).
// Timezone and CheckInAfter are the authority for all refund time math.
type Stay struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	HostID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"host_id"`
	Host         *User           `gorm:"foreignKey:HostID" json:"host,omitempty"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	City         string          `gorm:"type:varchar(100)" json:"city"`
	State        string          `gorm:"type:varchar(100)" json:"state"`
	Timezone     string          `gorm:"type:varchar(64);not null;default:'America/New_York'" json:"timezone"`   // IANA zone name
	CheckInAfter string          `gorm:"type:varchar(8);not null;default:'15:00:00'" json:"check_in_after"`      // local time-of-day HH:mm:ss
	NightlyRate  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"nightly_rate"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}
