package service

import (
	"context"
	"errors"

	"github.com/complianceassoc/portal/internal/models"
	"github.com/complianceassoc/portal/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationClosed   = errors.New("registration is not open")
	ErrEventFull            = errors.New("event is at capacity")
)

type RegisterInput struct {
	FullName       string
	Email          string
	Phone          string
	Organization   string
	Tier           models.RegistrationTier
	IdempotencyKey string
}

type RegistrationService interface {
	Register(ctx context.Context, eventID uint, in RegisterInput) (*models.Registration, error)
	GetRegistration(ctx context.Context, id uint) (*models.Registration, error)
}

type registrationService struct {
	regRepo   repository.RegistrationRepository
	eventRepo repository.EventRepository
	clock     Clock
}

func NewRegistrationService(regRepo repository.RegistrationRepository, eventRepo repository.EventRepository, clock Clock) RegistrationService {
	if clock == nil {
		clock = systemClock{}
	}
	return &registrationService{regRepo: regRepo, eventRepo: eventRepo, clock: clock}
}

func (s *registrationService) Register(ctx context.Context, eventID uint, in RegisterInput) (*models.Registration, error) {
	var result *models.Registration

	err := s.regRepo.WithTx(ctx, func(tx *gorm.DB) error {
		// Lock the event row — serializes concurrent registration attempts
		// against the capacity check.
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return ErrEventNotFound
		}
		if !event.Visible() {
			return ErrEventNotFound
		}

		now := s.clock.Now()
		if now.Before(event.RegistrationOpensAt) || now.After(event.RegistrationEndsAt) {
			return ErrRegistrationClosed
		}

		// Same key resubmitted → hand back the existing pending row instead of
		// inserting a duplicate.
		if in.IdempotencyKey != "" {
			existing, err := s.regRepo.FindByIdempotencyKey(ctx, tx, eventID, in.IdempotencyKey)
			if err == nil {
				result = existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		active, err := s.regRepo.CountActive(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if int(active) >= event.Capacity {
			return ErrEventFull
		}

		reg := &models.Registration{
			EventID:       eventID,
			FullName:      in.FullName,
			Email:         in.Email,
			Phone:         in.Phone,
			Organization:  in.Organization,
			Tier:          in.Tier,
			PaymentStatus: models.PaymentPending,
			AmountCents:   event.PriceFor(in.Tier),
		}
		if in.IdempotencyKey != "" {
			key := in.IdempotencyKey
			reg.IdempotencyKey = &key
		}
		if err := s.regRepo.Create(ctx, tx, reg); err != nil {
			return err
		}

		result = reg
		return nil
	})

	return result, err
}

func (s *registrationService) GetRegistration(ctx context.Context, id uint) (*models.Registration, error) {
	reg, err := s.regRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}
