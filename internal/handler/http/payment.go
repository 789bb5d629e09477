package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cobsari123-dotcom/marcket-app2/internal/service"
	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/httputil"
)

const msgWebhookProcessed = "Webhook received and processed."

// PaymentService is the part of service.PaymentService used over HTTP.
type PaymentService interface {
	CreatePreference(ctx context.Context, input *service.CreatePreferenceInput) (*service.PreferenceResult, error)
	HandleWebhook(ctx context.Context, topic, id string) (*service.WebhookResult, error)
}

// PaymentHandler serves the payment callable and the provider webhook.
type PaymentHandler struct {
	service PaymentService
	logger  *slog.Logger
}

// NewPaymentHandler creates a new payment HTTP handler.
func NewPaymentHandler(svc PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: svc,
		logger:  logger,
	}
}

// CreatePreference handles POST /callable/createPaymentPreference
func (h *PaymentHandler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePreferenceInput
	// An empty envelope falls through so the service reports the missing cart.
	if err := httputil.DecodeCallable(r, &input); err != nil && !errors.Is(err, httputil.ErrEmptyCallableData) {
		httputil.WriteCallableError(w, r, err, h.logger)
		return
	}

	result, err := h.service.CreatePreference(r.Context(), &input)
	if err != nil {
		httputil.WriteCallableError(w, r, err, h.logger)
		return
	}

	httputil.WriteCallableResult(w, result)
}

// Webhook handles GET|POST /webhooks/mercadopago?topic=payment&id=<id>.
// Newer notifications name the parameters type and data.id.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	topic := q.Get("topic")
	if topic == "" {
		topic = q.Get("type")
	}
	id := q.Get("id")
	if id == "" {
		id = q.Get("data.id")
	}

	if _, err := h.service.HandleWebhook(r.Context(), topic, id); err != nil {
		message := "Error processing webhook."
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
		httputil.WriteText(w, apperrors.HTTPStatus(err), message)
		return
	}

	httputil.WriteText(w, http.StatusOK, msgWebhookProcessed)
}
