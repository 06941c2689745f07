package models

import "time"

type PaymentTarget string

const (
	TargetRegistration PaymentTarget = "registration"
	TargetMembership   PaymentTarget = "membership"
)

type GatewayStatus string

const (
	GatewayPending   GatewayStatus = "pending"
	GatewaySucceeded GatewayStatus = "succeeded"
	GatewayFailed    GatewayStatus = "failed"
)

// Payment is the local record of one gateway charge attempt, linked to either a
// registration or a membership renewal.
type Payment struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Target         PaymentTarget `gorm:"type:varchar(20);not null" json:"target"`
	RegistrationID *uint         `gorm:"index" json:"registration_id,omitempty"`
	MembershipID   *uint         `gorm:"index" json:"membership_id,omitempty"`
	AmountCents    int64         `gorm:"not null" json:"amount_cents"`
	Currency       string        `gorm:"type:varchar(10);not null" json:"currency"`
	Status         GatewayStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	IntentID       string        `gorm:"uniqueIndex;not null" json:"intent_id"`
	ClientSecret   string        `json:"-"`
	ConfirmedAt    *time.Time    `json:"confirmed_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
