package repository

import (
	"context"
	"time"

	"github.com/complianceassoc/portal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	FindByIntentIDForUpdate(ctx context.Context, tx *gorm.DB, intentID string) (*models.Payment, error)
	FindPendingByTarget(ctx context.Context, target models.PaymentTarget, targetID uint) (*models.Payment, error)
	SetStatus(ctx context.Context, tx *gorm.DB, id uint, status models.GatewayStatus, confirmedAt *time.Time) error
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("intent_id = ?", intentID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByIntentIDForUpdate locks the payment row so concurrent confirmations of
// the same intent serialize.
func (r *paymentRepository) FindByIntentIDForUpdate(ctx context.Context, tx *gorm.DB, intentID string) (*models.Payment, error) {
	var payment models.Payment
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("intent_id = ?", intentID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindPendingByTarget(ctx context.Context, target models.PaymentTarget, targetID uint) (*models.Payment, error) {
	var payment models.Payment
	q := r.db.WithContext(ctx).Where("target = ? AND status = ?", target, models.GatewayPending)
	switch target {
	case models.TargetMembership:
		q = q.Where("membership_id = ?", targetID)
	default:
		q = q.Where("registration_id = ?", targetID)
	}
	if err := q.Order("id DESC").First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) SetStatus(ctx context.Context, tx *gorm.DB, id uint, status models.GatewayStatus, confirmedAt *time.Time) error {
	updates := map[string]any{"status": status}
	if confirmedAt != nil {
		updates["confirmed_at"] = confirmedAt
	}
	return tx.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(updates).Error
}
