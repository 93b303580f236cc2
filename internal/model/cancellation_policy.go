package model

import (
	"time"
)

// PolicyType enum constants
const (
	PolicyTypeShort = "short" // short-term rental policies
	PolicyTypeLong  = "long"  // long-term rental policies
)

// CancellationPolicy defines the refund rules attached to a booking.
//
// GroupName doubles as the legacy classification key: when RuleSet is empty
// the refund engine lower-cases and trims GroupName and matches substrings
// against the known policy families. Renaming a policy without setting an
// explicit rule set changes its refund behavior.
type CancellationPolicy struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Type          string    `gorm:"type:varchar(10);not null;index" json:"type"`            // short, long
	GroupName     string    `gorm:"type:varchar(100);not null" json:"group_name"`           // display label, e.g. "Strong Short Term"
	RuleSet       string    `gorm:"type:varchar(30);not null;default:''" json:"rule_set"`   // explicit classification; empty = classify by group_name
	BeforeCheckIn string    `gorm:"type:text;not null" json:"before_check_in"`              // prose shown to guests, not machine-parsed
	AfterCheckIn  string    `gorm:"type:text;not null" json:"after_check_in"`               // prose shown to guests, not machine-parsed
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
