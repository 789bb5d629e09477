package domain

import "fmt"

// ChatMessage is a message written to a chat room.
type ChatMessage struct {
	SenderID  string `json:"senderId"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// UnknownSenderName is shown when the sender has no display name.
const UnknownSenderName = "Unknown user"

// ReceiverFor returns the first participant that is not senderID.
func ReceiverFor(participants []string, senderID string) (string, bool) {
	for _, p := range participants {
		if p != senderID {
			return p, true
		}
	}
	return "", false
}

// NewChatNotification builds the push payload announcing msg in room.
func NewChatNotification(chatRoomID, senderName string, msg *ChatMessage) *PushNotification {
	if senderName == "" {
		senderName = UnknownSenderName
	}
	return &PushNotification{
		Title: fmt.Sprintf("New message from %s", senderName),
		Body:  msg.Message,
		Sound: "default",
		Data: map[string]string{
			"chatRoomId": chatRoomID,
			"senderId":   msg.SenderID,
		},
	}
}
