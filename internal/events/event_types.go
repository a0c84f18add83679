package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMessageReceived EventType = "message_received"
	EventOrderCreated    EventType = "order_created"
	EventOrderDeleted    EventType = "order_deleted"
	EventOrderPurged     EventType = "order_purged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MessageReceivedPayload payload.
type MessageReceivedPayload struct {
	MessageID string `json:"message_id"`
	Service   string `json:"service"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID     string    `json:"order_id"`
	Service     string    `json:"service"`
	DateOfOrder time.Time `json:"date_of_order"`
	ImageCount  int       `json:"image_count"`
}

// OrderDeletedPayload payload for an explicit admin deletion.
type OrderDeletedPayload struct {
	OrderID      string `json:"order_id"`
	FailedBlobs  int    `json:"failed_blobs"`
	DeletedBlobs int    `json:"deleted_blobs"`
}

// OrderPurgedPayload payload for a retention-policy deletion.
type OrderPurgedPayload struct {
	OrderID      string    `json:"order_id"`
	DateOfOrder  time.Time `json:"date_of_order"`
	FailedBlobs  int       `json:"failed_blobs"`
	DeletedBlobs int       `json:"deleted_blobs"`
}
