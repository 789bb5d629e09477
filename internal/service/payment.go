package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/provider"
	"github.com/cobsari123-dotcom/marcket-app2/internal/repository"
	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/validator"
)

// Caller-facing messages of the payment operations.
const (
	msgCartRequired         = "The function must be called with an array of cartItems."
	msgUserRequired         = "The function must be called with a userId."
	msgProviderUnconfigured = "Mercado Pago Access Token not configured."
	msgPreferenceFailed     = "Unable to create Mercado Pago preference."
	msgInvalidWebhook       = "Invalid webhook request."
	msgWebhookFailed        = "Error processing webhook."
)

// PaymentConfig is the fixed part of every purchase intent.
type PaymentConfig struct {
	Currency         string
	NotificationURL  string
	BackURLs         domain.BackURLs
	AutoReturn       string
	PlaceholderEmail string
}

// DefaultPaymentConfig returns the storefront's production settings.
func DefaultPaymentConfig() PaymentConfig {
	return PaymentConfig{
		Currency:        "MXN",
		NotificationURL: "https://receivemercadopagowebhook-vf47anzufq-uc.a.run.app",
		BackURLs: domain.BackURLs{
			Success: "https://marcketapp-25ac2.web.app/payment/success",
			Pending: "https://marcketapp-25ac2.web.app/payment/pending",
			Failure: "https://marcketapp-25ac2.web.app/payment/failure",
		},
		AutoReturn:       "approved",
		PlaceholderEmail: "anonymous@example.com",
	}
}

// IdentityLookup resolves a buyer's email address.
type IdentityLookup interface {
	GetEmail(ctx context.Context, userID string) (string, error)
}

// CreatePreferenceInput is the callable request of createPaymentPreference.
type CreatePreferenceInput struct {
	CartItems []domain.CartItem `json:"cartItems" validate:"dive"`
	UserID    string            `json:"userId"`
}

// PreferenceResult is returned to the storefront.
type PreferenceResult struct {
	PreferenceID string `json:"preferenceId"`
}

// Webhook results, also used as payment_webhooks_total labels.
const (
	WebhookApplied      = "applied"
	WebhookNotApproved  = "not_approved"
	WebhookNoReference  = "no_reference"
	WebhookOrderMissing = "order_missing"
	webhookInvalid      = "invalid"
	webhookUnconfigured = "unconfigured"
	webhookFailed       = "failed"
)

// WebhookResult describes an acknowledged webhook delivery.
type WebhookResult struct {
	Result    string
	PaymentID int64
	Status    string
	OrderID   string
}

// PaymentService creates checkout preferences and reconciles payment
// webhooks with orders.
type PaymentService struct {
	cfg      PaymentConfig
	provider provider.Provider
	identity IdentityLookup
	orders   repository.OrderRepository
	logger   *slog.Logger
}

// NewPaymentService creates a payment service. A nil provider means the
// provider credentials are not configured; both operations then fail with
// an internal error.
func NewPaymentService(cfg PaymentConfig, p provider.Provider, identity IdentityLookup, orders repository.OrderRepository, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		cfg:      cfg,
		provider: p,
		identity: identity,
		orders:   orders,
		logger:   logger,
	}
}

// CreatePreference builds a purchase intent from the cart and registers it
// with the provider. The intent's external reference is the buyer's id.
func (s *PaymentService) CreatePreference(ctx context.Context, input *CreatePreferenceInput) (*PreferenceResult, error) {
	l := ctxLogger(ctx, s.logger)

	if input == nil || len(input.CartItems) == 0 {
		return nil, apperrors.InvalidInput(msgCartRequired)
	}
	if input.UserID == "" {
		return nil, apperrors.InvalidInput(msgUserRequired)
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}
	for i, item := range input.CartItems {
		if item.Price.IsNegative() {
			return nil, apperrors.InvalidInput(fmt.Sprintf("cartItems[%d].price must not be negative", i))
		}
	}
	if s.provider == nil {
		l.ErrorContext(ctx, "payment provider is not configured")
		return nil, apperrors.Unconfigured(msgProviderUnconfigured)
	}

	items := make([]domain.LineItem, 0, len(input.CartItems))
	for _, item := range input.CartItems {
		items = append(items, item.ToLineItem(s.cfg.Currency))
	}

	intent := &domain.PaymentIntent{
		Items:             items,
		PayerEmail:        s.payerEmail(ctx, l, input.UserID),
		ExternalReference: input.UserID,
		NotificationURL:   s.cfg.NotificationURL,
		BackURLs:          s.cfg.BackURLs,
		AutoReturn:        s.cfg.AutoReturn,
	}

	pref, err := s.provider.CreatePreference(ctx, intent)
	if err != nil {
		l.ErrorContext(ctx, "failed to create payment preference",
			slog.String("provider", s.provider.Name()),
			slog.String("user_id", input.UserID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.InternalWithMessage(msgPreferenceFailed, err)
	}

	l.InfoContext(ctx, "payment preference created",
		slog.String("provider", s.provider.Name()),
		slog.String("preference_id", pref.ID),
		slog.String("user_id", input.UserID),
		slog.Int("items", len(items)),
	)
	return &PreferenceResult{PreferenceID: pref.ID}, nil
}

// payerEmail never fails: lookup errors and empty addresses fall back to
// the placeholder.
func (s *PaymentService) payerEmail(ctx context.Context, l *slog.Logger, userID string) string {
	if s.identity == nil {
		return s.cfg.PlaceholderEmail
	}
	email, err := s.identity.GetEmail(ctx, userID)
	if err != nil {
		l.WarnContext(ctx, "could not fetch buyer email",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return s.cfg.PlaceholderEmail
	}
	if email == "" {
		l.WarnContext(ctx, "buyer has no email", slog.String("user_id", userID))
		return s.cfg.PlaceholderEmail
	}
	return email
}

// HandleWebhook re-fetches the notified payment from the provider and, if
// it is approved, moves the order named by its external reference to
// preparing. The webhook body is never trusted for status. Redelivery
// rewrites the same values.
func (s *PaymentService) HandleWebhook(ctx context.Context, topic, id string) (*WebhookResult, error) {
	l := ctxLogger(ctx, s.logger).With(slog.String("topic", topic), slog.String("payment_id", id))

	if topic != domain.WebhookTopicPayment || id == "" {
		l.WarnContext(ctx, "webhook received with invalid topic or id")
		paymentWebhooks.WithLabelValues(webhookInvalid).Inc()
		return nil, apperrors.InvalidInput(msgInvalidWebhook)
	}
	if s.provider == nil {
		l.ErrorContext(ctx, "payment provider is not configured for webhook")
		paymentWebhooks.WithLabelValues(webhookUnconfigured).Inc()
		return nil, apperrors.Unconfigured(msgProviderUnconfigured)
	}

	payment, err := s.provider.GetPayment(ctx, id)
	if err != nil {
		l.ErrorContext(ctx, "failed to fetch payment", slog.String("error", err.Error()))
		paymentWebhooks.WithLabelValues(webhookFailed).Inc()
		return nil, apperrors.InternalWithMessage(msgWebhookFailed, err)
	}
	l.InfoContext(ctx, "payment details fetched",
		slog.String("status", payment.Status),
		slog.Int64("provider_payment_id", payment.ID),
	)

	res := &WebhookResult{PaymentID: payment.ID, Status: payment.Status, OrderID: payment.ExternalReference}

	switch {
	case !payment.Approved():
		l.InfoContext(ctx, "payment is not approved", slog.String("status", payment.Status))
		res.Result = WebhookNotApproved
	case payment.ExternalReference == "":
		l.WarnContext(ctx, "approved payment has no order in external_reference")
		res.Result = WebhookNoReference
	default:
		err := s.orders.ApplyPayment(ctx, payment.ExternalReference, domain.OrderStatusPreparing, payment.ID, payment.PaymentTypeID)
		switch {
		case apperrors.IsNotFound(err):
			l.WarnContext(ctx, "approved payment references a missing order", slog.String("order_id", payment.ExternalReference))
			res.Result = WebhookOrderMissing
		case err != nil:
			l.ErrorContext(ctx, "failed to update order", slog.String("order_id", payment.ExternalReference), slog.String("error", err.Error()))
			paymentWebhooks.WithLabelValues(webhookFailed).Inc()
			return nil, apperrors.InternalWithMessage(msgWebhookFailed, err)
		default:
			l.InfoContext(ctx, "order updated to preparing",
				slog.String("order_id", payment.ExternalReference),
				slog.String("payment_method", payment.PaymentTypeID),
			)
			res.Result = WebhookApplied
		}
	}

	paymentWebhooks.WithLabelValues(res.Result).Inc()
	return res, nil
}
