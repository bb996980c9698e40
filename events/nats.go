package events

import (
	"context"
	"fmt"
)

// SubjectPrefix namespaces arena events on the message bus, e.g. arena.entryScored.
const SubjectPrefix = "arena."

// JSONPublisher is the subset of natsclient.NatsClient used for events.
type JSONPublisher interface {
	PublishJSON(subject string, v any) error
}

// NatsPublisher forwards events to NATS so dashboards in other processes can follow along.
type NatsPublisher struct {
	client JSONPublisher
}

func NewNatsPublisher(client JSONPublisher) *NatsPublisher {
	return &NatsPublisher{client: client}
}

func Subject(k Kind) string {
	return SubjectPrefix + string(k)
}

func (p *NatsPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.client.PublishJSON(Subject(e.Kind), e); err != nil {
		return fmt.Errorf("publish %s: %w", e.Kind, err)
	}
	return nil
}
