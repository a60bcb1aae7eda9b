// Package mail delivers outbound email: the transports, and the views rendered into them.
package mail

import (
	"context"
	"net/mail"
)

// Message is a rendered plain-text email
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers a message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// FormatAddress renders `"Name" <addr>`, or just addr when name is empty
func FormatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return (&mail.Address{Name: name, Address: addr}).String()
}
