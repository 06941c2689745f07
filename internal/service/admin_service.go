package service

import (
	"context"
	"errors"

	"github.com/complianceassoc/portal/internal/models"
	"github.com/complianceassoc/portal/internal/repository"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrNotPending    = errors.New("registration is not pending")
	ErrMissingActor  = errors.New("override requires an actor and a reason")
	ErrSlugTaken     = errors.New("slug is already in use")
	ErrInvalidWindow = errors.New("registration window must close after it opens")
)

// RegistrationUpdate carries only the fields an admin may touch after the
// fact. Payment status is deliberately absent: it moves through verified
// confirmation or the audited override, never through this edit.
type RegistrationUpdate struct {
	Tier                  *models.RegistrationTier
	PaymentMethodTracking *string
	AdminNotes            *string
}

type AdminService interface {
	UpdateRegistration(ctx context.Context, id uint, update RegistrationUpdate) (*models.Registration, error)
	MarkRegistrationPaid(ctx context.Context, id uint, actor, reason string) (*models.Registration, error)
	ListRegistrations(ctx context.Context, eventID uint) ([]models.Registration, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, id uint, apply func(*models.Event)) (*models.Event, error)
	ArchiveEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
}

type adminService struct {
	regRepo   repository.RegistrationRepository
	eventRepo repository.EventRepository
	clock     Clock
	log       zerolog.Logger
}

func NewAdminService(regRepo repository.RegistrationRepository, eventRepo repository.EventRepository, clock Clock, log zerolog.Logger) AdminService {
	if clock == nil {
		clock = systemClock{}
	}
	return &adminService{regRepo: regRepo, eventRepo: eventRepo, clock: clock, log: log}
}

func (s *adminService) UpdateRegistration(ctx context.Context, id uint, update RegistrationUpdate) (*models.Registration, error) {
	var result *models.Registration

	err := s.regRepo.WithTx(ctx, func(tx *gorm.DB) error {
		reg, err := s.regRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		if update.Tier != nil {
			reg.Tier = *update.Tier
		}
		if update.PaymentMethodTracking != nil {
			reg.PaymentMethodTracking = *update.PaymentMethodTracking
		}
		if update.AdminNotes != nil {
			reg.AdminNotes = *update.AdminNotes
		}

		if err := s.regRepo.Save(ctx, tx, reg); err != nil {
			return err
		}
		result = reg
		return nil
	})

	return result, err
}

// MarkRegistrationPaid is the manual override transition. It is separate from
// gateway-verified confirmation and leaves an audit trail of who forced the
// transition and why.
func (s *adminService) MarkRegistrationPaid(ctx context.Context, id uint, actor, reason string) (*models.Registration, error) {
	if actor == "" || reason == "" {
		return nil, ErrMissingActor
	}

	var result *models.Registration

	err := s.regRepo.WithTx(ctx, func(tx *gorm.DB) error {
		reg, err := s.regRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		if reg.PaymentStatus != models.PaymentPending {
			return ErrNotPending
		}

		now := s.clock.Now()
		reg.PaymentStatus = models.PaymentPaid
		reg.PaidAt = &now
		reg.MarkedPaidBy = actor
		reg.MarkedPaidReason = reason
		reg.MarkedPaidAt = &now

		if err := s.regRepo.Save(ctx, tx, reg); err != nil {
			return err
		}

		s.log.Info().Uint("registration_id", reg.ID).Str("actor", actor).Str("reason", reason).
			Msg("registration manually marked paid")
		result = reg
		return nil
	})

	return result, err
}

func (s *adminService) ListRegistrations(ctx context.Context, eventID uint) ([]models.Registration, error) {
	return s.regRepo.FindByEventID(ctx, eventID)
}

func (s *adminService) CreateEvent(ctx context.Context, event *models.Event) error {
	if !event.RegistrationEndsAt.After(event.RegistrationOpensAt) {
		return ErrInvalidWindow
	}
	if _, err := s.eventRepo.FindBySlug(ctx, event.Slug); err == nil {
		return ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.eventRepo.Create(ctx, event)
}

func (s *adminService) UpdateEvent(ctx context.Context, id uint, apply func(*models.Event)) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	apply(event)
	if !event.RegistrationEndsAt.After(event.RegistrationOpensAt) {
		return nil, ErrInvalidWindow
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *adminService) ArchiveEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.ArchivedAt == nil {
		now := s.clock.Now()
		event.ArchivedAt = &now
		event.Published = false
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return nil, err
		}
	}
	return event, nil
}

func (s *adminService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.FindAll(ctx)
}
