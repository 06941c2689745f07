package service

import (
	"context"
	"errors"

	"github.com/complianceassoc/portal/internal/models"
	"github.com/complianceassoc/portal/internal/repository"
	"gorm.io/gorm"
)

type RenewInput struct {
	Email    string
	FullName string
}

type MembershipService interface {
	StartRenewal(ctx context.Context, in RenewInput) (*models.Membership, error)
	GetMembership(ctx context.Context, id uint) (*models.Membership, error)
}

type membershipService struct {
	repo     repository.MembershipRepository
	feeCents int64
}

func NewMembershipService(repo repository.MembershipRepository, feeCents int64) MembershipService {
	return &membershipService{repo: repo, feeCents: feeCents}
}

// StartRenewal returns the member's record with the current renewal fee
// stamped on it, creating the record on first contact. Payment then runs
// through the usual intent/confirm flow; confirmation activates the record.
func (s *membershipService) StartRenewal(ctx context.Context, in RenewInput) (*models.Membership, error) {
	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil {
		existing.RenewalCents = s.feeCents
		if in.FullName != "" {
			existing.FullName = in.FullName
		}
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	membership := &models.Membership{
		Email:        in.Email,
		FullName:     in.FullName,
		Status:       models.MembershipPending,
		RenewalCents: s.feeCents,
	}
	if err := s.repo.Create(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

func (s *membershipService) GetMembership(ctx context.Context, id uint) (*models.Membership, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return m, nil
}
