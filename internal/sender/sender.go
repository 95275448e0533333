package sender

import "context"

// Email is a rendered message ready for delivery.
type Email struct {
	To      string
	From    string
	Subject string
	HTML    string
}

// Sender delivers email through a specific channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, email *Email) error
}
