package repository

import (
	"context"
	"time"

	"github.com/complianceassoc/portal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegistrationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error
	FindByID(ctx context.Context, id uint) (*models.Registration, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error)
	FindByIdempotencyKey(ctx context.Context, tx *gorm.DB, eventID uint, key string) (*models.Registration, error)
	FindByEventID(ctx context.Context, eventID uint) ([]models.Registration, error)
	CountActive(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error)
	Save(ctx context.Context, tx *gorm.DB, reg *models.Registration) error
	SetIntentID(ctx context.Context, id uint, intentID string) error
	MarkPaid(ctx context.Context, tx *gorm.DB, id uint, paidAt time.Time) error
	MarkFailed(ctx context.Context, tx *gorm.DB, id uint) error
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *registrationRepository) Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error {
	return tx.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) FindByID(ctx context.Context, id uint) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).First(&reg, id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	var reg models.Registration
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&reg, id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByIdempotencyKey(ctx context.Context, tx *gorm.DB, eventID uint, key string) (*models.Registration, error) {
	var reg models.Registration
	err := tx.WithContext(ctx).
		Where("event_id = ? AND idempotency_key = ?", eventID, key).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByEventID(ctx context.Context, eventID uint) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// CountActive counts registrations holding a seat: pending and paid, but not
// failed ones.
func (r *registrationRepository) CountActive(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND payment_status <> ?", eventID, models.PaymentFailed).
		Count(&count).Error
	return count, err
}

func (r *registrationRepository) Save(ctx context.Context, tx *gorm.DB, reg *models.Registration) error {
	return tx.WithContext(ctx).Save(reg).Error
}

func (r *registrationRepository) SetIntentID(ctx context.Context, id uint, intentID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("payment_intent_id", intentID).Error
}

func (r *registrationRepository) MarkPaid(ctx context.Context, tx *gorm.DB, id uint, paidAt time.Time) error {
	return tx.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": models.PaymentPaid,
			"paid_at":        paidAt,
		}).Error
}

func (r *registrationRepository) MarkFailed(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("payment_status", models.PaymentFailed).Error
}
