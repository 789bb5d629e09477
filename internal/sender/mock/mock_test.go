package mock

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
)

func TestMockSender_Send(t *testing.T) {
	var buf bytes.Buffer
	s := NewMockSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	res, err := s.Send(context.Background(), "secret-token", &domain.PushNotification{
		Title: "New message from Ana",
		Body:  "hi",
		Data:  map[string]string{"chatRoomId": "room-1"},
	})

	require.NoError(t, err)
	assert.Nil(t, res.Error)
	assert.True(t, strings.HasPrefix(res.MessageID, "mock-"))
	assert.Equal(t, "mock-push", s.Name())
	assert.Contains(t, buf.String(), "New message from Ana")
	assert.NotContains(t, buf.String(), "secret-token")
}
