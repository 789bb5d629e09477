package app

import (
	"log/slog"

	"github.com/cobsari123-dotcom/marcket-app2/internal/config"
	"github.com/cobsari123-dotcom/marcket-app2/internal/provider"
	"github.com/cobsari123-dotcom/marcket-app2/internal/provider/mercadopago"
	mockprovider "github.com/cobsari123-dotcom/marcket-app2/internal/provider/mock"
	"github.com/cobsari123-dotcom/marcket-app2/internal/sender"
	"github.com/cobsari123-dotcom/marcket-app2/internal/sender/fcm"
	mocksender "github.com/cobsari123-dotcom/marcket-app2/internal/sender/mock"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/httpclient"
)

// newProvider selects the payment provider. It returns nil when Mercado
// Pago is selected without an access token, which the payment service
// reports as "not configured".
func newProvider(cfg *config.Config, logger *slog.Logger) provider.Provider {
	if cfg.PaymentProvider == config.ProviderMock {
		logger.Warn("using mock payment provider")
		return mockprovider.NewMockProvider(logger)
	}
	if cfg.MercadoPagoAccessToken == "" {
		logger.Warn("MERCADOPAGO_ACCESS_TOKEN is not set, payment operations will fail")
		return nil
	}

	doer := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("mercadopago"),
		logger,
	)
	return mercadopago.New(mercadopago.Config{
		BaseURL:     cfg.MercadoPagoBaseURL,
		AccessToken: cfg.MercadoPagoAccessToken,
	}, doer, logger)
}

// newSender selects the push notification channel.
func newSender(cfg *config.Config, logger *slog.Logger) sender.Sender {
	if cfg.PushSender == config.SenderMock {
		logger.Warn("using mock push sender")
		return mocksender.NewMockSender(logger)
	}
	if cfg.FCMAccessToken == "" {
		logger.Warn("FCM_ACCESS_TOKEN is not set, FCM will reject deliveries")
	}

	doer := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("fcm"),
		logger,
	)
	return fcm.New(fcm.Config{
		BaseURL:     cfg.FCMBaseURL,
		ProjectID:   cfg.FCMProjectID,
		AccessToken: cfg.FCMAccessToken,
	}, doer, logger)
}
