package domain

// Order statuses written by payment reconciliation. Orders are created by
// checkout; only the transition into OrderStatusPreparing happens here.
const (
	OrderStatusPreparing = "preparing"
)

// Payment statuses reported by the provider.
const (
	PaymentStatusApproved = "approved"
)

// WebhookTopicPayment is the only webhook topic acted upon.
const WebhookTopicPayment = "payment"
