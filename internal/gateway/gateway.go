package gateway

import "context"

// IntentStatus is the normalized view of a gateway payment-intent status.
type IntentStatus string

const (
	// StatusSucceeded is the only status that may mark a record paid.
	StatusSucceeded IntentStatus = "succeeded"
	// StatusProcessing covers in-flight states: the charge may still land.
	StatusProcessing IntentStatus = "processing"
	// StatusCanceled means the gateway reported a definitive failure.
	StatusCanceled IntentStatus = "canceled"
	// StatusUnknown is anything the mapping does not recognize.
	StatusUnknown IntentStatus = "unknown"
)

type Intent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
	AmountCents  int64
	Currency     string
}

// Client abstracts the payment gateway. Confirmation always goes back through
// GetIntent; client-reported outcomes are never authoritative.
type Client interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
}
