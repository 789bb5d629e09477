package kafka

import "fmt"

// TopicPrefix is the prefix of every marketplace topic.
const TopicPrefix = "marketplace"

// Topic builds a topic name such as "marketplace.review.created".
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}

// Trigger topics consumed by the reactive handlers.
var (
	TopicReviewCreated      = Topic("review", "created")
	TopicChatMessageCreated = Topic("chat", "message_created")
)
