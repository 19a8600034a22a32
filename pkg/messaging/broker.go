package messaging

import (
	"context"
)

// Broker publishes JSON messages to named channels.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Message is the envelope every published payload travels in.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
