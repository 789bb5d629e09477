package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"

	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
)

// CircuitBreakerConfig tunes the breaker in front of one downstream API.
type CircuitBreakerConfig struct {
	Name         string        // label for logs and metrics
	MaxRequests  uint32        // probes allowed while half-open
	Interval     time.Duration // closed-state count reset; 0 never resets
	Timeout      time.Duration // open duration before half-opening
	FailureRatio float64
	MinRequests  uint32 // volume needed before FailureRatio applies
}

// DefaultCircuitBreakerConfig is shared by the payment provider and push
// sender clients.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

var (
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Breaker state per downstream (0=closed, 1=half-open, 2=open).",
	}, []string{"name"})

	breakerRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_rejected_total",
		Help: "Requests refused without being sent because the breaker was open.",
	}, []string{"name"})
)

// ErrCircuitOpen is matched by errors returned while the breaker refuses
// requests. Those errors also match apperrors.ErrServiceUnavail.
var ErrCircuitOpen = gobreaker.ErrOpenState

// CircuitBreakerClient sends requests through a gobreaker breaker. Transport
// errors and 5xx/429 responses count as failures; a failing response is
// returned as *ResponseError. Other 4xx responses pass through untouched.
type CircuitBreakerClient struct {
	client  Doer
	breaker *gobreaker.CircuitBreaker[*http.Response]
	name    string
}

func NewCircuitBreakerClient(client Doer, cfg CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= cfg.MinRequests &&
				float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("downstream breaker changed state",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(float64(to))
		},
	}
	breakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))

	return &CircuitBreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		name:    cfg.Name,
	}
}

func countsAsFailure(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}

// Do sends req unless the breaker is open.
func (c *CircuitBreakerClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if countsAsFailure(resp.StatusCode) {
			return nil, ParseResponseError(resp, c.name)
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		breakerRejected.WithLabelValues(c.name).Inc()
		return nil, fmt.Errorf("%s: %w: %w", c.name, err, apperrors.ErrServiceUnavail)
	}
	return resp, err
}

func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.breaker.State()
}
