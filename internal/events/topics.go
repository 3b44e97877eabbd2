package events

// Topic constants for domain events emitted by the platform.
const (
	TopicRentalCreated  = "rental.created"
	TopicRentalPaid     = "rental.paid"
	TopicRentalActive   = "rental.active"
	TopicRentalReturned = "rental.returned"
	TopicRentalCanceled = "rental.canceled"
	TopicRentalExpired  = "rental.expired"
	TopicPaymentFailed  = "payment.failed"
	TopicPaymentExpired = "payment.expired"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicRentalCreated,
		TopicRentalPaid,
		TopicRentalActive,
		TopicRentalReturned,
		TopicRentalCanceled,
		TopicRentalExpired,
		TopicPaymentFailed,
		TopicPaymentExpired,
	}
}
