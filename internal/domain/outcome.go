package domain

// Outcome is the terminal result of a trigger handler invocation.
type Outcome string

const (
	// OutcomeUpdated means the aggregate was written.
	OutcomeUpdated Outcome = "updated"
	// OutcomeSent means a push notification was accepted by the channel.
	OutcomeSent Outcome = "sent"
	// OutcomeSkipped means required data was missing and nothing was done.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means a store or channel call failed; it was logged.
	OutcomeFailed Outcome = "failed"
)
