package service

import (
	"context"
	"errors"

	"github.com/complianceassoc/portal/internal/models"
	"github.com/complianceassoc/portal/internal/repository"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

// CatalogService serves the public event catalog. Unpublished and archived
// events are indistinguishable from missing ones.
type CatalogService interface {
	ListPublished(ctx context.Context) ([]models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
}

type catalogService struct {
	eventRepo repository.EventRepository
}

func NewCatalogService(eventRepo repository.EventRepository) CatalogService {
	return &catalogService{eventRepo: eventRepo}
}

func (s *catalogService) ListPublished(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.FindPublished(ctx)
}

func (s *catalogService) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	event, err := s.eventRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !event.Visible() {
		return nil, ErrEventNotFound
	}
	return event, nil
}
