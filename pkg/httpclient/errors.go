package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
)

const maxErrorBody = 1 << 20

// ResponseError describes a non-2xx response from a downstream API. It
// unwraps to the apperrors sentinel matching its status, if any.
type ResponseError struct {
	Service    string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Message)
}

func (e *ResponseError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusBadRequest:
		return apperrors.ErrInvalidInput
	case http.StatusConflict:
		return apperrors.ErrConflict
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return apperrors.ErrServiceUnavail
	default:
		return nil
	}
}

// errorBody covers the two error shapes seen from our providers:
// {"message": "..."} and {"error": {"message": "..."}}.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func errorMessage(body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil {
		return string(body)
	}
	if eb.Message != "" {
		return eb.Message
	}
	var nested struct {
		Message string `json:"message"`
	}
	if len(eb.Error) > 0 && json.Unmarshal(eb.Error, &nested) == nil && nested.Message != "" {
		return nested.Message
	}
	return string(body)
}

// ParseResponseError consumes and closes the body of a non-2xx response
// and returns it as a *ResponseError.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	return &ResponseError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(body),
		Body:       body,
	}
}

// IsClientError reports whether status is 4xx.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
