package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
)

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestParseResponseError_TopLevelMessage(t *testing.T) {
	err := ParseResponseError(response(http.StatusBadRequest, `{"message":"invalid items","error":"bad_request","status":400}`), "mercadopago")

	var re *ResponseError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "invalid items", re.Message)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestParseResponseError_NestedMessage(t *testing.T) {
	err := ParseResponseError(response(http.StatusNotFound, `{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`), "fcm")

	var re *ResponseError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Requested entity was not found.", re.Message)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, string(re.Body), "NOT_FOUND")
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	err := ParseResponseError(response(http.StatusBadGateway, "<html>bad gateway</html>"), "mercadopago")
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "bad gateway")
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}

func TestResponseError_UnwrapMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, apperrors.ErrNotFound},
		{http.StatusBadRequest, apperrors.ErrInvalidInput},
		{http.StatusConflict, apperrors.ErrConflict},
		{http.StatusServiceUnavailable, apperrors.ErrServiceUnavail},
		{http.StatusTooManyRequests, apperrors.ErrServiceUnavail},
		{http.StatusUnauthorized, nil},
	}
	for _, tt := range tests {
		re := &ResponseError{StatusCode: tt.status}
		assert.Equal(t, tt.want, re.Unwrap(), "status %d", tt.status)
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(400))
	assert.True(t, IsClientError(499))
	assert.False(t, IsClientError(500))
	assert.False(t, IsClientError(200))
}

func TestDoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"x"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pref-1"}`))
	}))
	defer server.Close()

	var out struct {
		ID string `json:"id"`
	}
	header := http.Header{"Authorization": {"Bearer tok"}}
	err := DoJSON(context.Background(), New(fastConfig(0)), http.MethodPost, server.URL, header,
		map[string]string{"name": "x"}, &out, "test")
	require.NoError(t, err)
	assert.Equal(t, "pref-1", out.ID)
}

func TestDoJSON_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"payment not found"}`))
	}))
	defer server.Close()

	err := DoJSON(context.Background(), New(fastConfig(0)), http.MethodGet, server.URL, nil, nil, nil, "mercadopago")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "payment not found")
}
