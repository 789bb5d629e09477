package provider

import (
	"context"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
)

// Preference is the provider's answer to a purchase intent.
type Preference struct {
	ID        string
	InitPoint string
}

// Provider defines the interface for payment provider integrations.
type Provider interface {
	// Name returns the provider name (e.g., "mock", "mercadopago").
	Name() string

	// CreatePreference registers a purchase intent and returns its id.
	CreatePreference(ctx context.Context, intent *domain.PaymentIntent) (*Preference, error)

	// GetPayment fetches the authoritative state of a payment.
	GetPayment(ctx context.Context, paymentID string) (*domain.PaymentStatus, error)
}
