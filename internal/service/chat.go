package service

import (
	"context"
	"log/slog"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/repository"
	"github.com/cobsari123-dotcom/marcket-app2/internal/sender"
	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
)

// ChatService notifies the other participant of a chat room about new
// messages.
type ChatService struct {
	rooms  repository.ChatRoomRepository
	users  repository.UserRepository
	sender sender.Sender
	logger *slog.Logger
}

// NewChatService creates a new chat notification service.
func NewChatService(rooms repository.ChatRoomRepository, users repository.UserRepository, snd sender.Sender, logger *slog.Logger) *ChatService {
	return &ChatService{
		rooms:  rooms,
		users:  users,
		sender: snd,
		logger: logger,
	}
}

// OnMessageCreated pushes msg to the first room participant other than
// the sender. Every miss ends the invocation quietly and every failure is
// logged; no error is returned. Stale tokens are logged, not removed.
func (s *ChatService) OnMessageCreated(ctx context.Context, chatRoomID, messageID string, msg *domain.ChatMessage) domain.Outcome {
	l := ctxLogger(ctx, s.logger).With(slog.String("chat_room_id", chatRoomID), slog.String("message_id", messageID))

	if msg == nil || msg.SenderID == "" || msg.Message == "" {
		l.WarnContext(ctx, "chat message is missing senderId or message text")
		return recordOutcome(handlerChatNotifier, domain.OutcomeSkipped)
	}
	l = l.With(slog.String("sender_id", msg.SenderID))

	participants, err := s.rooms.GetParticipants(ctx, chatRoomID)
	switch {
	case apperrors.IsNotFound(err):
		l.WarnContext(ctx, "chat room not found")
		return recordOutcome(handlerChatNotifier, domain.OutcomeSkipped)
	case err != nil:
		return s.fail(ctx, l, "read chat room", err)
	case len(participants) == 0:
		l.WarnContext(ctx, "chat room has no participants")
		return recordOutcome(handlerChatNotifier, domain.OutcomeSkipped)
	}

	receiverID, ok := domain.ReceiverFor(participants, msg.SenderID)
	if !ok {
		l.WarnContext(ctx, "could not find receiver for chat room")
		return recordOutcome(handlerChatNotifier, domain.OutcomeSkipped)
	}
	l = l.With(slog.String("receiver_id", receiverID))

	token, err := s.users.GetFCMToken(ctx, receiverID)
	if err != nil && !apperrors.IsNotFound(err) {
		return s.fail(ctx, l, "read receiver token", err)
	}
	if token == "" {
		l.InfoContext(ctx, "receiver has no FCM token")
		return recordOutcome(handlerChatNotifier, domain.OutcomeSkipped)
	}

	senderName, err := s.users.GetFullName(ctx, msg.SenderID)
	if err != nil && !apperrors.IsNotFound(err) {
		return s.fail(ctx, l, "read sender name", err)
	}

	res, err := s.sender.Send(ctx, token, domain.NewChatNotification(chatRoomID, senderName, msg))
	if err != nil {
		pushDeliveries.WithLabelValues("error").Inc()
		return s.fail(ctx, l, "send notification", err)
	}
	if res.Error != nil {
		pushDeliveries.WithLabelValues("rejected").Inc()
		l.ErrorContext(ctx, "notification rejected for token",
			slog.String("sender", s.sender.Name()),
			slog.String("error_code", res.Error.Code),
			slog.String("error", res.Error.Message),
		)
		return recordOutcome(handlerChatNotifier, domain.OutcomeFailed)
	}

	pushDeliveries.WithLabelValues("sent").Inc()
	l.InfoContext(ctx, "chat notification sent",
		slog.String("sender", s.sender.Name()),
		slog.String("push_message_id", res.MessageID),
	)
	return recordOutcome(handlerChatNotifier, domain.OutcomeSent)
}

func (s *ChatService) fail(ctx context.Context, l *slog.Logger, step string, err error) domain.Outcome {
	l.ErrorContext(ctx, "error sending chat notification",
		slog.String("step", step),
		slog.String("error", err.Error()),
	)
	return recordOutcome(handlerChatNotifier, domain.OutcomeFailed)
}
