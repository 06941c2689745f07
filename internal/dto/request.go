package dto

import "time"

type RegisterRequest struct {
	FullName       string `json:"full_name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"omitempty,max=30"`
	Organization   string `json:"organization" validate:"omitempty,max=255"`
	Tier           string `json:"tier" validate:"required,oneof=member non_member"`
	IdempotencyKey string `json:"idempotency_key" validate:"omitempty,max=64"`
}

type CreateIntentRequest struct {
	Target   string `json:"target" validate:"required,oneof=registration membership"`
	TargetID uint   `json:"target_id" validate:"required,gt=0"`
}

type ConfirmPaymentRequest struct {
	IntentID string `json:"intent_id"`
}

type RenewMembershipRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
}

// AdminUpdateRegistrationRequest is a partial update; absent fields are left
// untouched. There is no payment-status field on purpose.
type AdminUpdateRegistrationRequest struct {
	Tier                  *string `json:"tier" validate:"omitempty,oneof=member non_member"`
	PaymentMethodTracking *string `json:"payment_method_tracking" validate:"omitempty,max=100"`
	AdminNotes            *string `json:"admin_notes" validate:"omitempty,max=2000"`
}

type MarkPaidRequest struct {
	Actor  string `json:"actor" validate:"required,max=255"`
	Reason string `json:"reason" validate:"required,max=1000"`
}

type CreateEventRequest struct {
	Title               string    `json:"title" validate:"required,max=255"`
	Slug                string    `json:"slug" validate:"required,max=120,lowercase,excludesall=0x20"`
	Description         string    `json:"description"`
	Location            string    `json:"location" validate:"omitempty,max=255"`
	StartsAt            time.Time `json:"starts_at" validate:"required"`
	EndsAt              time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	RegistrationOpensAt time.Time `json:"registration_opens_at" validate:"required"`
	RegistrationEndsAt  time.Time `json:"registration_ends_at" validate:"required,gtfield=RegistrationOpensAt"`
	Capacity            int       `json:"capacity" validate:"required,gt=0"`
	MemberPriceCents    int64     `json:"member_price_cents" validate:"gte=0"`
	NonMemberPriceCents int64     `json:"non_member_price_cents" validate:"gte=0"`
	Published           bool      `json:"published"`
}

type UpdateEventRequest struct {
	Title               *string    `json:"title" validate:"omitempty,max=255"`
	Description         *string    `json:"description"`
	Location            *string    `json:"location" validate:"omitempty,max=255"`
	StartsAt            *time.Time `json:"starts_at"`
	EndsAt              *time.Time `json:"ends_at"`
	RegistrationOpensAt *time.Time `json:"registration_opens_at"`
	RegistrationEndsAt  *time.Time `json:"registration_ends_at"`
	Capacity            *int       `json:"capacity" validate:"omitempty,gt=0"`
	MemberPriceCents    *int64     `json:"member_price_cents" validate:"omitempty,gte=0"`
	NonMemberPriceCents *int64     `json:"non_member_price_cents" validate:"omitempty,gte=0"`
	Published           *bool      `json:"published"`
}
