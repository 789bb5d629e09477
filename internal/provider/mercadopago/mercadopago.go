// Package mercadopago is a REST client for the Mercado Pago checkout and
// payments APIs.
package mercadopago

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/provider"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/httpclient"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.mercadopago.com"

const serviceName = "mercadopago"

// Config holds the client settings.
type Config struct {
	BaseURL     string
	AccessToken string
}

// Client talks to Mercado Pago over HTTP.
type Client struct {
	baseURL string
	token   string
	http    httpclient.Doer
	logger  *slog.Logger
}

var _ provider.Provider = (*Client)(nil)

// New creates a client. doer is normally a circuit-breaker-wrapped
// httpclient.Client.
func New(cfg Config, doer httpclient.Doer, logger *slog.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		token:   cfg.AccessToken,
		http:    doer,
		logger:  logger,
	}
}

// Name returns "mercadopago".
func (c *Client) Name() string { return serviceName }

type item struct {
	Title       string  `json:"title"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	CurrencyID  string  `json:"currency_id"`
	PictureURL  string  `json:"picture_url,omitempty"`
	Description string  `json:"description,omitempty"`
}

type payer struct {
	Email string `json:"email"`
}

type backURLs struct {
	Success string `json:"success"`
	Pending string `json:"pending"`
	Failure string `json:"failure"`
}

type preferenceRequest struct {
	Items             []item   `json:"items"`
	Payer             payer    `json:"payer"`
	ExternalReference string   `json:"external_reference"`
	NotificationURL   string   `json:"notification_url,omitempty"`
	BackURLs          backURLs `json:"back_urls"`
	AutoReturn        string   `json:"auto_return,omitempty"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type paymentResponse struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"`
	PaymentTypeID     string `json:"payment_type_id"`
	ExternalReference string `json:"external_reference"`
}

func toRequest(intent *domain.PaymentIntent) preferenceRequest {
	items := make([]item, 0, len(intent.Items))
	for _, li := range intent.Items {
		items = append(items, item{
			Title:       li.Title,
			UnitPrice:   li.UnitPrice.InexactFloat64(),
			Quantity:    li.Quantity,
			CurrencyID:  li.CurrencyID,
			PictureURL:  li.PictureURL,
			Description: li.Description,
		})
	}
	return preferenceRequest{
		Items:             items,
		Payer:             payer{Email: intent.PayerEmail},
		ExternalReference: intent.ExternalReference,
		NotificationURL:   intent.NotificationURL,
		BackURLs: backURLs{
			Success: intent.BackURLs.Success,
			Pending: intent.BackURLs.Pending,
			Failure: intent.BackURLs.Failure,
		},
		AutoReturn: intent.AutoReturn,
	}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.token)
	return h
}

// CreatePreference posts the intent to /checkout/preferences. Each call
// carries a fresh X-Idempotency-Key so transport retries cannot create
// duplicate preferences.
func (c *Client) CreatePreference(ctx context.Context, intent *domain.PaymentIntent) (*provider.Preference, error) {
	h := c.header()
	h.Set("X-Idempotency-Key", uuid.NewString())

	var resp preferenceResponse
	if err := httpclient.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+"/checkout/preferences", h, toRequest(intent), &resp, serviceName); err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("create preference: %s returned no preference id", serviceName)
	}

	c.logger.DebugContext(ctx, "mercadopago preference created",
		slog.String("preference_id", resp.ID),
		slog.Int("items", len(intent.Items)),
	)
	return &provider.Preference{ID: resp.ID, InitPoint: resp.InitPoint}, nil
}

// GetPayment fetches /v1/payments/{id}.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentStatus, error) {
	var resp paymentResponse
	endpoint := c.baseURL + "/v1/payments/" + url.PathEscape(paymentID)
	if err := httpclient.DoJSON(ctx, c.http, http.MethodGet, endpoint, c.header(), nil, &resp, serviceName); err != nil {
		return nil, fmt.Errorf("get payment %s: %w", paymentID, err)
	}
	return &domain.PaymentStatus{
		ID:                resp.ID,
		Status:            resp.Status,
		PaymentTypeID:     resp.PaymentTypeID,
		ExternalReference: resp.ExternalReference,
	}, nil
}
