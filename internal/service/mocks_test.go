package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/provider"
)

// --- Mock repositories ---

type mockReviewRepo struct{ mock.Mock }

func (m *mockReviewRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListReviewedProducts(ctx context.Context) ([]domain.ProductRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductRef), args.Error(1)
}

type mockRatingRepo struct{ mock.Mock }

func (m *mockRatingRepo) Upsert(ctx context.Context, rating *domain.ProductRating) error {
	return m.Called(ctx, rating).Error(0)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) ApplyPayment(ctx context.Context, orderID, status string, paymentID int64, method string) error {
	return m.Called(ctx, orderID, status, paymentID, method).Error(0)
}

type mockChatRoomRepo struct{ mock.Mock }

func (m *mockChatRoomRepo) GetParticipants(ctx context.Context, roomID string) ([]string, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetFCMToken(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockUserRepo) GetFullName(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockUserRepo) GetEmail(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// --- Mock provider ---

type mockProvider struct{ mock.Mock }

func (m *mockProvider) Name() string { return "test-provider" }

func (m *mockProvider) CreatePreference(ctx context.Context, intent *domain.PaymentIntent) (*provider.Preference, error) {
	args := m.Called(ctx, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Preference), args.Error(1)
}

func (m *mockProvider) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentStatus, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentStatus), args.Error(1)
}

// --- Mock sender ---

type mockSender struct{ mock.Mock }

func (m *mockSender) Name() string { return "test-sender" }

func (m *mockSender) Send(ctx context.Context, token string, n *domain.PushNotification) (*domain.DeliveryResult, error) {
	args := m.Called(ctx, token, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryResult), args.Error(1)
}

// --- Test helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
