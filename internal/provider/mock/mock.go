package mock

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/provider"
	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
)

// MockProvider is a local provider for development. Every payment it is
// asked about is approved unless overridden with SetPayment.
type MockProvider struct {
	mu       sync.Mutex
	payments map[string]*domain.PaymentStatus
	logger   *slog.Logger
}

var _ provider.Provider = (*MockProvider)(nil)

// NewMockProvider creates a new mock payment provider.
func NewMockProvider(logger *slog.Logger) *MockProvider {
	return &MockProvider{
		payments: make(map[string]*domain.PaymentStatus),
		logger:   logger,
	}
}

// Name returns the name of this provider.
func (p *MockProvider) Name() string {
	return "mock"
}

// CreatePreference returns a random preference id.
func (p *MockProvider) CreatePreference(ctx context.Context, intent *domain.PaymentIntent) (*provider.Preference, error) {
	id := "mock-pref-" + uuid.NewString()
	p.logger.InfoContext(ctx, "mock provider: preference created",
		slog.String("preference_id", id),
		slog.String("external_reference", intent.ExternalReference),
		slog.String("payer_email", intent.PayerEmail),
		slog.Int("items", len(intent.Items)),
	)
	return &provider.Preference{ID: id}, nil
}

// SetPayment fixes the status returned for paymentID.
func (p *MockProvider) SetPayment(paymentID string, status *domain.PaymentStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payments[paymentID] = status
}

// GetPayment returns the stored status or an approved payment with no
// external reference. Non-numeric ids are reported as not found.
func (p *MockProvider) GetPayment(_ context.Context, paymentID string) (*domain.PaymentStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st, ok := p.payments[paymentID]; ok {
		cp := *st
		return &cp, nil
	}
	id, err := strconv.ParseInt(paymentID, 10, 64)
	if err != nil {
		return nil, apperrors.NotFound("payment", paymentID)
	}
	return &domain.PaymentStatus{
		ID:            id,
		Status:        domain.PaymentStatusApproved,
		PaymentTypeID: "account_money",
	}, nil
}
