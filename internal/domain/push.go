package domain

// PushNotification is a device push message.
type PushNotification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// DeliveryError is a per-token failure reported by the push channel, for
// example UNREGISTERED for a stale token.
type DeliveryError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DeliveryError) Error() string {
	return e.Code + ": " + e.Message
}

// DeliveryResult is the channel's answer for one token.
type DeliveryResult struct {
	MessageID string
	Error     *DeliveryError
}
