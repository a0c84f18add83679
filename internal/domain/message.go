package domain

import "time"

// Message is a customer contact message. Messages are never purged.
type Message struct {
	ID             string
	NameOfCustomer string
	Phone          string
	Body           string
	Service        string
	CreatedAt      time.Time
}
