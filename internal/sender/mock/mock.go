package mock

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/sender"
)

// MockSender logs push notifications and always succeeds.
type MockSender struct {
	logger *slog.Logger
}

var _ sender.Sender = (*MockSender)(nil)

// NewMockSender creates a new mock sender.
func NewMockSender(logger *slog.Logger) *MockSender {
	return &MockSender{logger: logger}
}

// Name returns the name of this sender.
func (s *MockSender) Name() string {
	return "mock-push"
}

// Send logs the notification and returns a random message id.
func (s *MockSender) Send(ctx context.Context, token string, n *domain.PushNotification) (*domain.DeliveryResult, error) {
	id := "mock-" + uuid.NewString()
	s.logger.InfoContext(ctx, "mock sender: notification sent",
		slog.String("message_id", id),
		slog.String("title", n.Title),
		slog.Int("token_len", len(token)),
		slog.Any("data", n.Data),
	)
	return &domain.DeliveryResult{MessageID: id}, nil
}
