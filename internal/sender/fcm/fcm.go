// Package fcm sends push notifications through the Firebase Cloud
// Messaging HTTP v1 API.
package fcm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/sender"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/httpclient"
)

// DefaultBaseURL is the FCM API root.
const DefaultBaseURL = "https://fcm.googleapis.com"

const serviceName = "fcm"

// Config holds the sender settings. AccessToken is an OAuth2 bearer token
// for the project's service account.
type Config struct {
	BaseURL     string
	ProjectID   string
	AccessToken string
}

// Sender is an FCM HTTP v1 client.
type Sender struct {
	endpoint string
	token    string
	http     httpclient.Doer
	logger   *slog.Logger
}

var _ sender.Sender = (*Sender)(nil)

// New creates an FCM sender.
func New(cfg Config, doer httpclient.Doer, logger *slog.Logger) *Sender {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Sender{
		endpoint: fmt.Sprintf("%s/v1/projects/%s/messages:send", strings.TrimRight(base, "/"), cfg.ProjectID),
		token:    cfg.AccessToken,
		http:     doer,
		logger:   logger,
	}
}

// Name returns "fcm".
func (s *Sender) Name() string { return serviceName }

type notification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

type androidConfig struct {
	Notification struct {
		Sound string `json:"sound,omitempty"`
	} `json:"notification"`
}

type apnsConfig struct {
	Payload struct {
		Aps struct {
			Sound string `json:"sound,omitempty"`
		} `json:"aps"`
	} `json:"payload"`
}

type message struct {
	Token        string            `json:"token"`
	Notification notification      `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Android      *androidConfig    `json:"android,omitempty"`
	APNS         *apnsConfig       `json:"apns,omitempty"`
}

type sendRequest struct {
	Message message `json:"message"`
}

type sendResponse struct {
	Name string `json:"name"`
}

// errorResponse is the google.rpc.Status body FCM returns on failure.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Type      string `json:"@type"`
			ErrorCode string `json:"errorCode"`
		} `json:"details"`
	} `json:"error"`
}

func buildMessage(token string, n *domain.PushNotification) message {
	m := message{
		Token:        token,
		Notification: notification{Title: n.Title, Body: n.Body},
		Data:         n.Data,
	}
	if n.Sound != "" {
		m.Android = &androidConfig{}
		m.Android.Notification.Sound = n.Sound
		m.APNS = &apnsConfig{}
		m.APNS.Payload.Aps.Sound = n.Sound
	}
	return m
}

// deliveryError extracts a per-token error from a 400 or 404 response.
// Other statuses are not about the token and yield nil.
func deliveryError(respErr *httpclient.ResponseError) *domain.DeliveryError {
	if respErr.StatusCode != http.StatusBadRequest && respErr.StatusCode != http.StatusNotFound {
		return nil
	}
	var body errorResponse
	if err := json.Unmarshal(respErr.Body, &body); err != nil {
		return &domain.DeliveryError{Code: http.StatusText(respErr.StatusCode), Message: respErr.Message}
	}
	code := body.Error.Status
	for _, d := range body.Error.Details {
		if d.ErrorCode != "" {
			code = d.ErrorCode
			break
		}
	}
	return &domain.DeliveryError{Code: code, Message: body.Error.Message}
}

// Send posts one message to messages:send.
func (s *Sender) Send(ctx context.Context, token string, n *domain.PushNotification) (*domain.DeliveryResult, error) {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+s.token)

	var resp sendResponse
	err := httpclient.DoJSON(ctx, s.http, http.MethodPost, s.endpoint, h, sendRequest{Message: buildMessage(token, n)}, &resp, serviceName)
	if err != nil {
		var respErr *httpclient.ResponseError
		if errors.As(err, &respErr) {
			if de := deliveryError(respErr); de != nil {
				return &domain.DeliveryResult{Error: de}, nil
			}
		}
		return nil, fmt.Errorf("send push: %w", err)
	}

	s.logger.DebugContext(ctx, "fcm message accepted", slog.String("message_id", resp.Name))
	return &domain.DeliveryResult{MessageID: resp.Name}, nil
}
