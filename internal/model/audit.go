package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreatePolicy = "CREATE_CANCELLATION_POLICY"
	ActionUpdatePolicy = "UPDATE_CANCELLATION_POLICY"
	ActionDeletePolicy = "DELETE_CANCELLATION_POLICY"

	ActionCreateStay = "CREATE_STAY"
	ActionUpdateStay = "UPDATE_STAY"
	ActionDeleteStay = "DELETE_STAY"

	ActionCreateBooking = "CREATE_BOOKING"
	ActionCancelBooking = "CANCEL_BOOKING"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/numeric id)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
