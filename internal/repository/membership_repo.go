package repository

import (
	"context"
	"time"

	"github.com/complianceassoc/portal/internal/models"
	"gorm.io/gorm"
)

type MembershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	FindByID(ctx context.Context, id uint) (*models.Membership, error)
	FindByEmail(ctx context.Context, email string) (*models.Membership, error)
	Save(ctx context.Context, membership *models.Membership) error
	SetIntentID(ctx context.Context, id uint, intentID string) error
	Activate(ctx context.Context, tx *gorm.DB, id uint, expiresAt time.Time) error
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *membershipRepository) FindByID(ctx context.Context, id uint) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).First(&membership, id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepository) FindByEmail(ctx context.Context, email string) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *membershipRepository) Save(ctx context.Context, membership *models.Membership) error {
	return r.db.WithContext(ctx).Save(membership).Error
}

func (r *membershipRepository) SetIntentID(ctx context.Context, id uint, intentID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("id = ?", id).
		Update("payment_intent_id", intentID).Error
}

func (r *membershipRepository) Activate(ctx context.Context, tx *gorm.DB, id uint, expiresAt time.Time) error {
	return tx.WithContext(ctx).
		Model(&models.Membership{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     models.MembershipActive,
			"expires_at": expiresAt,
		}).Error
}
