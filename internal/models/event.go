package models

import "time"

type Event struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Title               string     `gorm:"not null" json:"title"`
	Slug                string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description         string     `json:"description"`
	Location            string     `json:"location"`
	StartsAt            time.Time  `gorm:"not null" json:"starts_at"`
	EndsAt              time.Time  `gorm:"not null" json:"ends_at"`
	RegistrationOpensAt time.Time  `gorm:"not null" json:"registration_opens_at"`
	RegistrationEndsAt  time.Time  `gorm:"not null" json:"registration_ends_at"`
	Capacity            int        `gorm:"not null" json:"capacity"`
	MemberPriceCents    int64      `gorm:"not null" json:"member_price_cents"`
	NonMemberPriceCents int64      `gorm:"not null" json:"non_member_price_cents"`
	Published           bool       `gorm:"not null;default:false" json:"published"`
	ArchivedAt          *time.Time `json:"archived_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Visible reports whether the event may appear in the public catalog.
func (e *Event) Visible() bool {
	return e.Published && e.ArchivedAt == nil
}

// PriceFor returns the amount due in cents for the given tier.
func (e *Event) PriceFor(tier RegistrationTier) int64 {
	if tier == TierMember {
		return e.MemberPriceCents
	}
	return e.NonMemberPriceCents
}
