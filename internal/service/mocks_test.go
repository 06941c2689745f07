package service

import (
	"context"
	"time"

	"github.com/complianceassoc/portal/internal/gateway"
	"github.com/complianceassoc/portal/internal/models"
	"gorm.io/gorm"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// --- Mock EventRepository ---

type mockEventRepo struct {
	createFn        func(ctx context.Context, event *models.Event) error
	updateFn        func(ctx context.Context, event *models.Event) error
	findByIDFn      func(ctx context.Context, id uint) (*models.Event, error)
	findBySlugFn    func(ctx context.Context, slug string) (*models.Event, error)
	findForUpdateFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)
	findPublishedFn func(ctx context.Context) ([]models.Event, error)
	findAllFn       func(ctx context.Context) ([]models.Event, error)
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, event)
}
func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, event)
}
func (m *mockEventRepo) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	if m.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFn(ctx, id)
}
func (m *mockEventRepo) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if m.findBySlugFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findBySlugFn(ctx, slug)
}
func (m *mockEventRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	if m.findForUpdateFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findForUpdateFn(ctx, tx, id)
}
func (m *mockEventRepo) FindPublished(ctx context.Context) ([]models.Event, error) {
	if m.findPublishedFn == nil {
		return nil, nil
	}
	return m.findPublishedFn(ctx)
}
func (m *mockEventRepo) FindAll(ctx context.Context) ([]models.Event, error) {
	if m.findAllFn == nil {
		return nil, nil
	}
	return m.findAllFn(ctx)
}

// --- Mock RegistrationRepository ---

type mockRegRepo struct {
	withTxFn        func(ctx context.Context, fn func(tx *gorm.DB) error) error
	createFn        func(ctx context.Context, tx *gorm.DB, reg *models.Registration) error
	findByIDFn      func(ctx context.Context, id uint) (*models.Registration, error)
	findForUpdateFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error)
	findByKeyFn     func(ctx context.Context, tx *gorm.DB, eventID uint, key string) (*models.Registration, error)
	findByEventFn   func(ctx context.Context, eventID uint) ([]models.Registration, error)
	countActiveFn   func(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error)
	saveFn          func(ctx context.Context, tx *gorm.DB, reg *models.Registration) error
	setIntentFn     func(ctx context.Context, id uint, intentID string) error
	markPaidFn      func(ctx context.Context, tx *gorm.DB, id uint, paidAt time.Time) error
	markFailedFn    func(ctx context.Context, tx *gorm.DB, id uint) error
}

func (m *mockRegRepo) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return fn(nil)
}
func (m *mockRegRepo) Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, tx, reg)
}
func (m *mockRegRepo) FindByID(ctx context.Context, id uint) (*models.Registration, error) {
	if m.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFn(ctx, id)
}
func (m *mockRegRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	if m.findForUpdateFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findForUpdateFn(ctx, tx, id)
}
func (m *mockRegRepo) FindByIdempotencyKey(ctx context.Context, tx *gorm.DB, eventID uint, key string) (*models.Registration, error) {
	if m.findByKeyFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByKeyFn(ctx, tx, eventID, key)
}
func (m *mockRegRepo) FindByEventID(ctx context.Context, eventID uint) ([]models.Registration, error) {
	if m.findByEventFn == nil {
		return nil, nil
	}
	return m.findByEventFn(ctx, eventID)
}
func (m *mockRegRepo) CountActive(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	if m.countActiveFn == nil {
		return 0, nil
	}
	return m.countActiveFn(ctx, tx, eventID)
}
func (m *mockRegRepo) Save(ctx context.Context, tx *gorm.DB, reg *models.Registration) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, tx, reg)
}
func (m *mockRegRepo) SetIntentID(ctx context.Context, id uint, intentID string) error {
	if m.setIntentFn == nil {
		return nil
	}
	return m.setIntentFn(ctx, id, intentID)
}
func (m *mockRegRepo) MarkPaid(ctx context.Context, tx *gorm.DB, id uint, paidAt time.Time) error {
	if m.markPaidFn == nil {
		return nil
	}
	return m.markPaidFn(ctx, tx, id, paidAt)
}
func (m *mockRegRepo) MarkFailed(ctx context.Context, tx *gorm.DB, id uint) error {
	if m.markFailedFn == nil {
		return nil
	}
	return m.markFailedFn(ctx, tx, id)
}

// --- Mock PaymentRepository ---

type mockPaymentRepo struct {
	withTxFn              func(ctx context.Context, fn func(tx *gorm.DB) error) error
	createFn              func(ctx context.Context, payment *models.Payment) error
	findByIntentFn        func(ctx context.Context, intentID string) (*models.Payment, error)
	findForUpdateFn       func(ctx context.Context, tx *gorm.DB, intentID string) (*models.Payment, error)
	findPendingByTargetFn func(ctx context.Context, target models.PaymentTarget, targetID uint) (*models.Payment, error)
	setStatusFn           func(ctx context.Context, tx *gorm.DB, id uint, status models.GatewayStatus, confirmedAt *time.Time) error
}

func (m *mockPaymentRepo) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return fn(nil)
}
func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, payment)
}
func (m *mockPaymentRepo) FindByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	if m.findByIntentFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIntentFn(ctx, intentID)
}
func (m *mockPaymentRepo) FindByIntentIDForUpdate(ctx context.Context, tx *gorm.DB, intentID string) (*models.Payment, error) {
	if m.findForUpdateFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findForUpdateFn(ctx, tx, intentID)
}
func (m *mockPaymentRepo) FindPendingByTarget(ctx context.Context, target models.PaymentTarget, targetID uint) (*models.Payment, error) {
	if m.findPendingByTargetFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findPendingByTargetFn(ctx, target, targetID)
}
func (m *mockPaymentRepo) SetStatus(ctx context.Context, tx *gorm.DB, id uint, status models.GatewayStatus, confirmedAt *time.Time) error {
	if m.setStatusFn == nil {
		return nil
	}
	return m.setStatusFn(ctx, tx, id, status, confirmedAt)
}

// --- Mock MembershipRepository ---

type mockMembershipRepo struct {
	createFn      func(ctx context.Context, membership *models.Membership) error
	findByIDFn    func(ctx context.Context, id uint) (*models.Membership, error)
	findByEmailFn func(ctx context.Context, email string) (*models.Membership, error)
	saveFn        func(ctx context.Context, membership *models.Membership) error
	setIntentFn   func(ctx context.Context, id uint, intentID string) error
	activateFn    func(ctx context.Context, tx *gorm.DB, id uint, expiresAt time.Time) error
}

func (m *mockMembershipRepo) Create(ctx context.Context, membership *models.Membership) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, membership)
}
func (m *mockMembershipRepo) FindByID(ctx context.Context, id uint) (*models.Membership, error) {
	if m.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFn(ctx, id)
}
func (m *mockMembershipRepo) FindByEmail(ctx context.Context, email string) (*models.Membership, error) {
	if m.findByEmailFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByEmailFn(ctx, email)
}
func (m *mockMembershipRepo) Save(ctx context.Context, membership *models.Membership) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, membership)
}
func (m *mockMembershipRepo) SetIntentID(ctx context.Context, id uint, intentID string) error {
	if m.setIntentFn == nil {
		return nil
	}
	return m.setIntentFn(ctx, id, intentID)
}
func (m *mockMembershipRepo) Activate(ctx context.Context, tx *gorm.DB, id uint, expiresAt time.Time) error {
	if m.activateFn == nil {
		return nil
	}
	return m.activateFn(ctx, tx, id, expiresAt)
}

// --- Mock gateway.Client ---

type mockGateway struct {
	createIntentFn func(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*gateway.Intent, error)
	getIntentFn    func(ctx context.Context, intentID string) (*gateway.Intent, error)
}

func (m *mockGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*gateway.Intent, error) {
	return m.createIntentFn(ctx, amountCents, currency, metadata)
}
func (m *mockGateway) GetIntent(ctx context.Context, intentID string) (*gateway.Intent, error) {
	return m.getIntentFn(ctx, intentID)
}

// --- Mock publisher ---

type mockPublisher struct {
	published []string
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	m.published = append(m.published, routingKey)
	return nil
}
