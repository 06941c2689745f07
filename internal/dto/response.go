package dto

import (
	"time"

	"github.com/complianceassoc/portal/internal/models"
)

type EventResponse struct {
	ID                  uint      `json:"id"`
	Title               string    `json:"title"`
	Slug                string    `json:"slug"`
	Description         string    `json:"description,omitempty"`
	Location            string    `json:"location,omitempty"`
	StartsAt            time.Time `json:"starts_at"`
	EndsAt              time.Time `json:"ends_at"`
	RegistrationOpensAt time.Time `json:"registration_opens_at"`
	RegistrationEndsAt  time.Time `json:"registration_ends_at"`
	Capacity            int       `json:"capacity"`
	MemberPriceCents    int64     `json:"member_price_cents"`
	NonMemberPriceCents int64     `json:"non_member_price_cents"`
}

type AdminEventResponse struct {
	EventResponse
	Published  bool       `json:"published"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type RegistrationResponse struct {
	ID                    uint       `json:"id"`
	EventID               uint       `json:"event_id"`
	FullName              string     `json:"full_name"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone,omitempty"`
	Organization          string     `json:"organization,omitempty"`
	Tier                  string     `json:"tier"`
	PaymentStatus         string     `json:"payment_status"`
	AmountCents           int64      `json:"amount_cents"`
	PaymentMethodTracking string     `json:"payment_method_tracking,omitempty"`
	AdminNotes            string     `json:"admin_notes,omitempty"`
	PaidAt                *time.Time `json:"paid_at,omitempty"`
	MarkedPaidBy          string     `json:"marked_paid_by,omitempty"`
	MarkedPaidReason      string     `json:"marked_paid_reason,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

type IntentResponse struct {
	PaymentID    uint   `json:"payment_id"`
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
}

type ConfirmResponse struct {
	Status           string `json:"status"`
	Reason           string `json:"reason,omitempty"`
	Message          string `json:"message"`
	AlreadyConfirmed bool   `json:"already_confirmed,omitempty"`
}

type CancelledResponse struct {
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

type MembershipResponse struct {
	ID           uint       `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Status       string     `json:"status"`
	RenewalCents int64      `json:"renewal_cents"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func ToEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:                  e.ID,
		Title:               e.Title,
		Slug:                e.Slug,
		Description:         e.Description,
		Location:            e.Location,
		StartsAt:            e.StartsAt,
		EndsAt:              e.EndsAt,
		RegistrationOpensAt: e.RegistrationOpensAt,
		RegistrationEndsAt:  e.RegistrationEndsAt,
		Capacity:            e.Capacity,
		MemberPriceCents:    e.MemberPriceCents,
		NonMemberPriceCents: e.NonMemberPriceCents,
	}
}

func ToAdminEventResponse(e *models.Event) AdminEventResponse {
	return AdminEventResponse{
		EventResponse: ToEventResponse(e),
		Published:     e.Published,
		ArchivedAt:    e.ArchivedAt,
		CreatedAt:     e.CreatedAt,
	}
}

func ToRegistrationResponse(r *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:                    r.ID,
		EventID:               r.EventID,
		FullName:              r.FullName,
		Email:                 r.Email,
		Phone:                 r.Phone,
		Organization:          r.Organization,
		Tier:                  string(r.Tier),
		PaymentStatus:         string(r.PaymentStatus),
		AmountCents:           r.AmountCents,
		PaymentMethodTracking: r.PaymentMethodTracking,
		AdminNotes:            r.AdminNotes,
		PaidAt:                r.PaidAt,
		MarkedPaidBy:          r.MarkedPaidBy,
		MarkedPaidReason:      r.MarkedPaidReason,
		CreatedAt:             r.CreatedAt,
	}
}

func ToIntentResponse(p *models.Payment) IntentResponse {
	return IntentResponse{
		PaymentID:    p.ID,
		IntentID:     p.IntentID,
		ClientSecret: p.ClientSecret,
		AmountCents:  p.AmountCents,
		Currency:     p.Currency,
	}
}

func ToMembershipResponse(m *models.Membership) MembershipResponse {
	return MembershipResponse{
		ID:           m.ID,
		Email:        m.Email,
		FullName:     m.FullName,
		Status:       string(m.Status),
		RenewalCents: m.RenewalCents,
		ExpiresAt:    m.ExpiresAt,
	}
}
