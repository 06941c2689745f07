package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/complianceassoc/portal/internal/gateway"
	"github.com/complianceassoc/portal/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var payTestNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func pendingRegistration() *models.Registration {
	return &models.Registration{
		ID:            7,
		EventID:       1,
		FullName:      "Dana Whitfield",
		Email:         "dana@example.org",
		Tier:          models.TierMember,
		PaymentStatus: models.PaymentPending,
		AmountCents:   25000,
	}
}

func pendingPayment() *models.Payment {
	regID := uint(7)
	return &models.Payment{
		ID:             3,
		Target:         models.TargetRegistration,
		RegistrationID: &regID,
		AmountCents:    25000,
		Currency:       "usd",
		Status:         models.GatewayPending,
		IntentID:       "pi_123",
	}
}

func newPaymentService(
	paymentRepo *mockPaymentRepo,
	regRepo *mockRegRepo,
	membershipRepo *mockMembershipRepo,
	gw *mockGateway,
	pub *mockPublisher,
) PaymentService {
	return NewPaymentService(
		paymentRepo, regRepo, &mockEventRepo{}, membershipRepo,
		gw, pub, "usd", fixedClock{payTestNow}, zerolog.Nop(),
	)
}

func TestInitiateIntent_DerivesAmountFromRecord(t *testing.T) {
	regRepo := &mockRegRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Registration, error) {
			return pendingRegistration(), nil
		},
	}
	gw := &mockGateway{
		createIntentFn: func(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*gateway.Intent, error) {
			assert.Equal(t, int64(25000), amountCents)
			assert.Equal(t, "usd", currency)
			return &gateway.Intent{ID: "pi_123", ClientSecret: "secret_abc"}, nil
		},
	}
	var created *models.Payment
	paymentRepo := &mockPaymentRepo{
		createFn: func(ctx context.Context, payment *models.Payment) error {
			payment.ID = 3
			created = payment
			return nil
		},
	}

	svc := newPaymentService(paymentRepo, regRepo, &mockMembershipRepo{}, gw, &mockPublisher{})
	payment, err := svc.InitiateIntent(context.Background(), models.TargetRegistration, 7)

	require.NoError(t, err)
	assert.Equal(t, "pi_123", payment.IntentID)
	assert.Equal(t, "secret_abc", payment.ClientSecret)
	require.NotNil(t, created)
	assert.Equal(t, models.GatewayPending, created.Status)
}

func TestInitiateIntent_GatewayFailureLeavesNoState(t *testing.T) {
	regRepo := &mockRegRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Registration, error) {
			return pendingRegistration(), nil
		},
	}
	gw := &mockGateway{
		createIntentFn: func(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*gateway.Intent, error) {
			return nil, errors.New("connection refused")
		},
	}
	created := false
	paymentRepo := &mockPaymentRepo{
		createFn: func(ctx context.Context, payment *models.Payment) error {
			created = true
			return nil
		},
	}

	svc := newPaymentService(paymentRepo, regRepo, &mockMembershipRepo{}, gw, &mockPublisher{})
	_, err := svc.InitiateIntent(context.Background(), models.TargetRegistration, 7)

	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.False(t, created, "gateway failure must not write a payment row")
}

func TestInitiateIntent_ReusesOpenIntent(t *testing.T) {
	regRepo := &mockRegRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Registration, error) {
			return pendingRegistration(), nil
		},
	}
	existing := pendingPayment()
	paymentRepo := &mockPaymentRepo{
		findPendingByTargetFn: func(ctx context.Context, target models.PaymentTarget, targetID uint) (*models.Payment, error) {
			return existing, nil
		},
	}
	gatewayCalled := false
	gw := &mockGateway{
		createIntentFn: func(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*gateway.Intent, error) {
			gatewayCalled = true
			return nil, errors.New("unexpected")
		},
	}

	svc := newPaymentService(paymentRepo, regRepo, &mockMembershipRepo{}, gw, &mockPublisher{})
	payment, err := svc.InitiateIntent(context.Background(), models.TargetRegistration, 7)

	require.NoError(t, err)
	assert.Equal(t, existing.IntentID, payment.IntentID)
	assert.False(t, gatewayCalled)
}

func TestInitiateIntent_AlreadyPaid(t *testing.T) {
	regRepo := &mockRegRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Registration, error) {
			reg := pendingRegistration()
			reg.PaymentStatus = models.PaymentPaid
			return reg, nil
		},
	}

	svc := newPaymentService(&mockPaymentRepo{}, regRepo, &mockMembershipRepo{}, &mockGateway{}, &mockPublisher{})
	_, err := svc.InitiateIntent(context.Background(), models.TargetRegistration, 7)

	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

// A client claiming success while the gateway still reports an unsettled
// intent must never mark the registration paid.
func TestConfirm_ClaimedSuccessWithoutGatewayStateStaysPending(t *testing.T) {
	paymentRepo := &mockPaymentRepo{
		findByIntentFn: func(ctx context.Context, intentID string) (*models.Payment, error) {
			return pendingPayment(), nil
		},
	}
	gw := &mockGateway{
		getIntentFn: func(ctx context.Context, intentID string) (*gateway.Intent, error) {
			return &gateway.Intent{ID: intentID, Status: gateway.StatusProcessing}, nil
		},
	}
	markedPaid := false
	regRepo := &mockRegRepo{
		markPaidFn: func(ctx context.Context, tx *gorm.DB, id uint, paidAt time.Time) error {
			markedPaid = true
			return nil
		},
	}

	svc := newPaymentService(paymentRepo, regRepo, &mockMembershipRepo{}, gw, &mockPublisher{})
	result, err := svc.Confirm(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, ConfirmPending, result.State)
	assert.Equal(t, ReasonVerificationPending, result.Reason)
	assert.False(t, markedPaid)
}

func TestConfirm_VerifiedSuccessMarksPaidAndNotifies(t *testing.T) {
	payment := pendingPayment()
	paymentRepo := &mockPaymentRepo{
		findByIntentFn: func(ctx context.Context, intentID string) (*models.Payment, error) {
			return payment, nil
		},
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, intentID string) (*models.Payment, error) {
			return payment, nil
		},
	}
	gw := &mockGateway{
		getIntentFn: func(ctx context.Context, intentID string) (*gateway.Intent, error) {
			return &gateway.Intent{ID: intentID, Status: gateway.StatusSucceeded}, nil
		},
	}
	markPaidCalls := 0
	regRepo := &mockRegRepo{
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
			return pendingRegistration(), nil
		},
		markPaidFn: func(ctx context.Context, tx *gorm.DB, id uint, paidAt time.Time) error {
			markPaidCalls++
			assert.Equal(t, payTestNow, paidAt)
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := newPaymentService(paymentRepo, regRepo, &mockMembershipRepo{}, gw, pub)
	result, err := svc.Confirm(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, ConfirmPaid, result.State)
	assert.False(t, result.AlreadyConfirmed)
	assert.Equal(t, models.GatewaySucceeded, result.Payment.Status)
	assert.Equal(t, 1, markPaidCalls)
	assert.Equal(t, []string{"payment.confirmed"}, pub.published)
}

func TestConfirm_TwiceMarksPaidExactlyOnce(t *testing.T) {
	payment := pendingPayment()
	paymentRepo := &mockPaymentRepo{
		findByIntentFn: func(ctx context.Context, intentID string) (*models.Payment, error) {
			return payment, nil
		},
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, intentID string) (*models.Payment, error) {
			return payment, nil
		},
		setStatusFn: func(ctx context.Context, tx *gorm.DB, id uint, status models.GatewayStatus, confirmedAt *time.Time) error {
			payment.Status = status
			return nil
		},
	}
	gw := &mockGateway{
		getIntentFn: func(ctx context.Context, intentID string) (*gateway.Intent, error) {
			return &gateway.Intent{ID: intentID, Status: gateway.StatusSucceeded}, nil
		},
	}
	markPaidCalls := 0
	regRepo := &mockRegRepo{
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
			return pendingRegistration(), nil
		},
		markPaidFn: func(ctx context.Context, tx *gorm.DB, id uint, paidAt time.Time) error {
			markPaidCalls++
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := newPaymentService(paymentRepo, regRepo, &mockMembershipRepo{}, gw, pub)

	first, err := svc.Confirm(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, ConfirmPaid, first.State)

	second, err := svc.Confirm(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, ConfirmPaid, second.State)
	assert.True(t, second.AlreadyConfirmed)

	assert.Equal(t, 1, markPaidCalls, "revenue must not be double-counted")
	assert.Equal(t, []string{"payment.confirmed"}, pub.published, "email must go out once")
}

func TestConfirm_CanceledMarksFailed(t *testing.T) {
	payment := pendingPayment()
	paymentRepo := &mockPaymentRepo{
		findByIntentFn: func(ctx context.Context, intentID string) (*models.Payment, error) {
			return payment, nil
		},
	}
	gw := &mockGateway{
		getIntentFn: func(ctx context.Context, intentID string) (*gateway.Intent, error) {
			return &gateway.Intent{ID: intentID, Status: gateway.StatusCanceled}, nil
		},
	}
	markedFailed := false
	regRepo := &mockRegRepo{
		markFailedFn: func(ctx context.Context, tx *gorm.DB, id uint) error {
			markedFailed = true
			return nil
		},
	}

	svc := newPaymentService(paymentRepo, regRepo, &mockMembershipRepo{}, gw, &mockPublisher{})
	result, err := svc.Confirm(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, ConfirmFailed, result.State)
	assert.Equal(t, models.GatewayFailed, result.Payment.Status)
	assert.True(t, markedFailed)
}

func TestConfirm_MissingIntent(t *testing.T) {
	svc := newPaymentService(&mockPaymentRepo{}, &mockRegRepo{}, &mockMembershipRepo{}, &mockGateway{}, &mockPublisher{})
	_, err := svc.Confirm(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingIntent)
}

func TestConfirm_UnknownIntent(t *testing.T) {
	svc := newPaymentService(&mockPaymentRepo{}, &mockRegRepo{}, &mockMembershipRepo{}, &mockGateway{}, &mockPublisher{})
	_, err := svc.Confirm(context.Background(), "pi_missing")
	assert.ErrorIs(t, err, ErrUnknownIntent)
}

func TestConfirm_GatewayErrorLeavesPending(t *testing.T) {
	paymentRepo := &mockPaymentRepo{
		findByIntentFn: func(ctx context.Context, intentID string) (*models.Payment, error) {
			return pendingPayment(), nil
		},
	}
	gw := &mockGateway{
		getIntentFn: func(ctx context.Context, intentID string) (*gateway.Intent, error) {
			return nil, errors.New("gateway timeout")
		},
	}
	markedPaid := false
	regRepo := &mockRegRepo{
		markPaidFn: func(ctx context.Context, tx *gorm.DB, id uint, paidAt time.Time) error {
			markedPaid = true
			return nil
		},
	}

	svc := newPaymentService(paymentRepo, regRepo, &mockMembershipRepo{}, gw, &mockPublisher{})
	_, err := svc.Confirm(context.Background(), "pi_123")

	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.False(t, markedPaid)
}

func TestConfirm_MembershipActivatedWithExtendedExpiry(t *testing.T) {
	memID := uint(5)
	payment := &models.Payment{
		ID:           4,
		Target:       models.TargetMembership,
		MembershipID: &memID,
		AmountCents:  15000,
		Currency:     "usd",
		Status:       models.GatewayPending,
		IntentID:     "pi_mem",
	}
	currentExpiry := payTestNow.AddDate(0, 2, 0)
	paymentRepo := &mockPaymentRepo{
		findByIntentFn: func(ctx context.Context, intentID string) (*models.Payment, error) {
			return payment, nil
		},
		findForUpdateFn: func(ctx context.Context, tx *gorm.DB, intentID string) (*models.Payment, error) {
			return payment, nil
		},
	}
	gw := &mockGateway{
		getIntentFn: func(ctx context.Context, intentID string) (*gateway.Intent, error) {
			return &gateway.Intent{ID: intentID, Status: gateway.StatusSucceeded}, nil
		},
	}
	var activatedUntil time.Time
	membershipRepo := &mockMembershipRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Membership, error) {
			return &models.Membership{
				ID: memID, Email: "dana@example.org", FullName: "Dana Whitfield",
				Status: models.MembershipPending, ExpiresAt: &currentExpiry,
			}, nil
		},
		activateFn: func(ctx context.Context, tx *gorm.DB, id uint, expiresAt time.Time) error {
			activatedUntil = expiresAt
			return nil
		},
	}

	svc := newPaymentService(paymentRepo, &mockRegRepo{}, membershipRepo, gw, &mockPublisher{})
	result, err := svc.Confirm(context.Background(), "pi_mem")

	require.NoError(t, err)
	assert.Equal(t, ConfirmPaid, result.State)
	assert.Equal(t, currentExpiry.AddDate(1, 0, 0), activatedUntil,
		"a live membership extends from its current expiry")
}
