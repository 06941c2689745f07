package models

import "time"

type MembershipStatus string

const (
	MembershipPending MembershipStatus = "pending"
	MembershipActive  MembershipStatus = "active"
)

// Membership tracks one person's standing with the association, renewed via
// the same payment flow as event registrations.
type Membership struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Email           string           `gorm:"uniqueIndex;not null" json:"email"`
	FullName        string           `gorm:"not null" json:"full_name"`
	Status          MembershipStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RenewalCents    int64            `gorm:"not null" json:"renewal_cents"`
	PaymentIntentID string           `gorm:"index" json:"-"`
	ExpiresAt       *time.Time       `json:"expires_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
