package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/complianceassoc/portal/internal/gateway"
	"github.com/complianceassoc/portal/internal/models"
	"github.com/complianceassoc/portal/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrMissingIntent      = errors.New("payment reference is missing")
	ErrUnknownIntent      = errors.New("no payment found for this reference")
	ErrAlreadyPaid        = errors.New("record is already paid")
	ErrPaymentNotPayable  = errors.New("record is not awaiting payment")
	ErrGatewayUnavailable = errors.New("payment gateway is unavailable")
	ErrMembershipNotFound = errors.New("membership not found")
)

// CancelReason is the fixed set of reason codes carried on the cancel-redirect
// URL and in confirmation responses.
type CancelReason string

const (
	ReasonMissingOrder        CancelReason = "missing_order"
	ReasonUnknownOrder        CancelReason = "unknown_order"
	ReasonVerificationPending CancelReason = "verification_pending"
	ReasonUnknownStatus       CancelReason = "unknown_status"
	ReasonServerError         CancelReason = "server_error"
)

// ConfirmState is the outcome of a server-side confirmation attempt.
type ConfirmState string

const (
	ConfirmPaid    ConfirmState = "paid"
	ConfirmFailed  ConfirmState = "failed"
	ConfirmPending ConfirmState = "pending"
)

type ConfirmResult struct {
	State ConfirmState
	// Reason is set when State is not paid.
	Reason CancelReason
	// AlreadyConfirmed marks an idempotent re-confirmation of a settled intent.
	AlreadyConfirmed bool
	Payment          *models.Payment
}

// ConfirmedNotice is published after a verified confirmation so the notifier
// can send the confirmation email.
type ConfirmedNotice struct {
	NoticeID    string               `json:"notice_id"`
	Target      models.PaymentTarget `json:"target"`
	Email       string               `json:"email"`
	FullName    string               `json:"full_name"`
	EventTitle  string               `json:"event_title,omitempty"`
	AmountCents int64                `json:"amount_cents"`
	Currency    string               `json:"currency"`
}

type NoticePublisher interface {
	Publish(routingKey string, payload any) error
}

type PaymentService interface {
	InitiateIntent(ctx context.Context, target models.PaymentTarget, targetID uint) (*models.Payment, error)
	Confirm(ctx context.Context, intentID string) (*ConfirmResult, error)
}

type paymentService struct {
	paymentRepo    repository.PaymentRepository
	regRepo        repository.RegistrationRepository
	eventRepo      repository.EventRepository
	membershipRepo repository.MembershipRepository
	gw             gateway.Client
	publisher      NoticePublisher
	currency       string
	clock          Clock
	log            zerolog.Logger
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	regRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	membershipRepo repository.MembershipRepository,
	gw gateway.Client,
	publisher NoticePublisher,
	currency string,
	clock Clock,
	log zerolog.Logger,
) PaymentService {
	if clock == nil {
		clock = systemClock{}
	}
	return &paymentService{
		paymentRepo:    paymentRepo,
		regRepo:        regRepo,
		eventRepo:      eventRepo,
		membershipRepo: membershipRepo,
		gw:             gw,
		publisher:      publisher,
		currency:       currency,
		clock:          clock,
		log:            log,
	}
}

// InitiateIntent creates a gateway payment intent for a pending registration or
// membership and records it locally. The amount is always derived from the
// stored record, never taken from the client. A gateway failure leaves no local
// state behind.
func (s *paymentService) InitiateIntent(ctx context.Context, target models.PaymentTarget, targetID uint) (*models.Payment, error) {
	amount, metadata, err := s.resolveTarget(ctx, target, targetID)
	if err != nil {
		return nil, err
	}

	// A retry for the same still-pending record reuses the open intent so the
	// browser gets the same client secret back.
	if existing, err := s.paymentRepo.FindPendingByTarget(ctx, target, targetID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	intent, err := s.gw.CreateIntent(ctx, amount, s.currency, metadata)
	if err != nil {
		s.log.Warn().Err(err).Str("target", string(target)).Uint("target_id", targetID).
			Msg("gateway intent creation failed")
		return nil, ErrGatewayUnavailable
	}

	payment := &models.Payment{
		Target:       target,
		AmountCents:  amount,
		Currency:     s.currency,
		Status:       models.GatewayPending,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
	}
	switch target {
	case models.TargetMembership:
		payment.MembershipID = &targetID
	default:
		payment.RegistrationID = &targetID
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	switch target {
	case models.TargetMembership:
		err = s.membershipRepo.SetIntentID(ctx, targetID, intent.ID)
	default:
		err = s.regRepo.SetIntentID(ctx, targetID, intent.ID)
	}
	if err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *paymentService) resolveTarget(ctx context.Context, target models.PaymentTarget, targetID uint) (int64, map[string]string, error) {
	switch target {
	case models.TargetRegistration:
		reg, err := s.regRepo.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, nil, ErrRegistrationNotFound
			}
			return 0, nil, err
		}
		if reg.PaymentStatus == models.PaymentPaid {
			return 0, nil, ErrAlreadyPaid
		}
		if reg.PaymentStatus != models.PaymentPending {
			return 0, nil, ErrPaymentNotPayable
		}
		return reg.AmountCents, map[string]string{
			"registration_id": strconv.FormatUint(uint64(reg.ID), 10),
		}, nil

	case models.TargetMembership:
		m, err := s.membershipRepo.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, nil, ErrMembershipNotFound
			}
			return 0, nil, err
		}
		if m.Status == models.MembershipActive {
			return 0, nil, ErrAlreadyPaid
		}
		return m.RenewalCents, map[string]string{
			"membership_id": strconv.FormatUint(uint64(m.ID), 10),
		}, nil

	default:
		return 0, nil, ErrPaymentNotPayable
	}
}

// Confirm re-queries the gateway for the intent's authoritative status. A
// client-claimed success is never sufficient: only a gateway-reported
// "succeeded" marks the linked record paid, and doing so twice is a no-op.
func (s *paymentService) Confirm(ctx context.Context, intentID string) (*ConfirmResult, error) {
	if intentID == "" {
		return nil, ErrMissingIntent
	}

	payment, err := s.paymentRepo.FindByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownIntent
		}
		return nil, err
	}

	if payment.Status == models.GatewaySucceeded {
		return &ConfirmResult{State: ConfirmPaid, AlreadyConfirmed: true, Payment: payment}, nil
	}

	intent, err := s.gw.GetIntent(ctx, intentID)
	if err != nil {
		s.log.Warn().Err(err).Str("intent_id", intentID).Msg("gateway verification failed")
		return nil, ErrGatewayUnavailable
	}

	switch intent.Status {
	case gateway.StatusSucceeded:
		return s.settle(ctx, payment)

	case gateway.StatusCanceled:
		if err := s.fail(ctx, payment); err != nil {
			return nil, err
		}
		payment.Status = models.GatewayFailed
		return &ConfirmResult{State: ConfirmFailed, Payment: payment}, nil

	case gateway.StatusProcessing:
		return &ConfirmResult{State: ConfirmPending, Reason: ReasonVerificationPending, Payment: payment}, nil

	default:
		s.log.Warn().Str("intent_id", intentID).Str("status", string(intent.Status)).
			Msg("unrecognized gateway status")
		return &ConfirmResult{State: ConfirmPending, Reason: ReasonUnknownStatus, Payment: payment}, nil
	}
}

func (s *paymentService) settle(ctx context.Context, payment *models.Payment) (*ConfirmResult, error) {
	var (
		already bool
		notice  *ConfirmedNotice
	)

	err := s.paymentRepo.WithTx(ctx, func(tx *gorm.DB) error {
		locked, err := s.paymentRepo.FindByIntentIDForUpdate(ctx, tx, payment.IntentID)
		if err != nil {
			return err
		}
		if locked.Status == models.GatewaySucceeded {
			already = true
			return nil
		}

		now := s.clock.Now()
		if err := s.paymentRepo.SetStatus(ctx, tx, locked.ID, models.GatewaySucceeded, &now); err != nil {
			return err
		}

		switch locked.Target {
		case models.TargetMembership:
			if locked.MembershipID == nil {
				return nil
			}
			m, err := s.membershipRepo.FindByID(ctx, *locked.MembershipID)
			if err != nil {
				return err
			}
			expiry := renewalExpiry(m.ExpiresAt, now)
			if err := s.membershipRepo.Activate(ctx, tx, m.ID, expiry); err != nil {
				return err
			}
			notice = &ConfirmedNotice{
				Target:      models.TargetMembership,
				Email:       m.Email,
				FullName:    m.FullName,
				AmountCents: locked.AmountCents,
				Currency:    locked.Currency,
			}

		default:
			if locked.RegistrationID == nil {
				return nil
			}
			reg, err := s.regRepo.FindByIDForUpdate(ctx, tx, *locked.RegistrationID)
			if err != nil {
				return err
			}
			if err := s.regRepo.MarkPaid(ctx, tx, reg.ID, now); err != nil {
				return err
			}
			notice = &ConfirmedNotice{
				Target:      models.TargetRegistration,
				Email:       reg.Email,
				FullName:    reg.FullName,
				AmountCents: locked.AmountCents,
				Currency:    locked.Currency,
			}
			if event, err := s.eventRepo.FindByID(ctx, reg.EventID); err == nil {
				notice.EventTitle = event.Title
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	payment.Status = models.GatewaySucceeded

	if already {
		return &ConfirmResult{State: ConfirmPaid, AlreadyConfirmed: true, Payment: payment}, nil
	}

	if notice != nil && s.publisher != nil {
		notice.NoticeID = uuid.NewString()
		if err := s.publisher.Publish("payment.confirmed", notice); err != nil {
			// The payment is settled; email delivery is best effort.
			s.log.Warn().Err(err).Str("intent_id", payment.IntentID).
				Msg("failed to publish confirmation notice")
		}
	}

	return &ConfirmResult{State: ConfirmPaid, Payment: payment}, nil
}

func (s *paymentService) fail(ctx context.Context, payment *models.Payment) error {
	return s.paymentRepo.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.paymentRepo.SetStatus(ctx, tx, payment.ID, models.GatewayFailed, nil); err != nil {
			return err
		}
		if payment.Target == models.TargetRegistration && payment.RegistrationID != nil {
			return s.regRepo.MarkFailed(ctx, tx, *payment.RegistrationID)
		}
		return nil
	})
}

// renewalExpiry extends a live membership from its current expiry, otherwise
// from now.
func renewalExpiry(current *time.Time, now time.Time) time.Time {
	if current != nil && current.After(now) {
		return current.AddDate(1, 0, 0)
	}
	return now.AddDate(1, 0, 0)
}
