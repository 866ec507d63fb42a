// Package events holds the in-process event topics published on the
// application EventBus.
package events

const (
	// TopicOrderCompleted fires once per order transition to completed,
	// payload *domain.Order
	TopicOrderCompleted = "order.completed"

	// TopicContactReceived fires on every stored contact submission,
	// payload *domain.ContactSubmission
	TopicContactReceived = "contact.received"
)
