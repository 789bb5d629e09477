package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/validator"
)

const maxCallableBody = 1 << 20

// ErrEmptyCallableData is returned by DecodeCallable when the envelope has
// no data. Endpoints that report their own missing-argument message check
// for it with errors.Is.
var ErrEmptyCallableData = apperrors.InvalidInput("request has no data")

// CallableRequest is the request envelope of callable endpoints:
// {"data": {...}}.
type CallableRequest struct {
	Data json.RawMessage `json:"data"`
}

// CallableResponse is the response envelope of callable endpoints. Exactly
// one of Result or Error is set.
type CallableResponse struct {
	Result any            `json:"result,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// DecodeCallable unwraps the callable envelope from r into dst and
// validates dst. Every failure is an invalid-argument error.
func DecodeCallable(r *http.Request, dst any) error {
	var env CallableRequest
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxCallableBody)).Decode(&env); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("malformed request: %v", err))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrEmptyCallableData
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("malformed data: %v", err))
	}
	return validator.Validate(dst)
}

// WriteCallableResult writes {"result": result} with status 200.
func WriteCallableResult(w http.ResponseWriter, result any) {
	WriteJSON(w, http.StatusOK, CallableResponse{Result: result})
}

func callableStatus(code string) int {
	switch code {
	case apperrors.CallableInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CallableNotFound:
		return http.StatusNotFound
	case apperrors.CallableUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteCallableError writes {"error": {"code", "message"}} using the
// callable code for err. Internal errors expose only an AppError's
// caller-facing message and are logged in full.
func WriteCallableError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	code := apperrors.CallableCode(err)
	status := callableStatus(code)

	message := "internal"
	var appErr *apperrors.AppError
	var valErr *validator.ValidationError
	switch {
	case errors.As(err, &valErr):
		message = valErr.Error()
	case errors.As(err, &appErr):
		message = appErr.Message
	case status != http.StatusInternalServerError:
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		logInternal(r, err, fallback)
	}

	resp := &ErrorResponse{Code: code, Message: message}
	if valErr != nil {
		resp.Fields = valErr.Fields()
	}
	WriteJSON(w, status, CallableResponse{Error: resp})
}
