package models

import "time"

type RegistrationTier string

const (
	TierMember    RegistrationTier = "member"
	TierNonMember RegistrationTier = "non_member"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Registration struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	EventID        uint             `gorm:"not null;index;uniqueIndex:idx_reg_event_idem" json:"event_id"`
	FullName       string           `gorm:"not null" json:"full_name"`
	Email          string           `gorm:"not null" json:"email"`
	Phone          string           `json:"phone"`
	Organization   string           `json:"organization"`
	Tier           RegistrationTier `gorm:"type:varchar(20);not null" json:"tier"`
	PaymentStatus  PaymentStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	AmountCents    int64            `gorm:"not null" json:"amount_cents"`
	IdempotencyKey *string          `gorm:"uniqueIndex:idx_reg_event_idem" json:"-"`

	// Set on payment initiation; the registration is marked paid only after the
	// gateway confirms this intent server-side.
	PaymentIntentID string `gorm:"index" json:"-"`

	PaymentMethodTracking string     `json:"payment_method_tracking"`
	AdminNotes            string     `json:"admin_notes"`
	PaidAt                *time.Time `json:"paid_at,omitempty"`

	// Audit trail for the manual override transition, distinct from
	// gateway-verified confirmation.
	MarkedPaidBy     string     `json:"marked_paid_by,omitempty"`
	MarkedPaidReason string     `json:"marked_paid_reason,omitempty"`
	MarkedPaidAt     *time.Time `json:"marked_paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}
