package sender

import (
	"context"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
)

// Sender delivers push notifications to device tokens.
type Sender interface {
	Name() string

	// Send delivers n to token. A per-token rejection (stale or malformed
	// token) is reported in DeliveryResult.Error; the returned error is
	// reserved for transport and authorization failures.
	Send(ctx context.Context, token string, n *domain.PushNotification) (*domain.DeliveryResult, error)
}
