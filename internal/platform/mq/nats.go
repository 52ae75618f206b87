package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close()
}

type natsPublisher struct {
	conn *nats.Conn
}

func NewPublisher(url, name string) (Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &natsPublisher{conn: conn}, nil
}

func (n *natsPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.conn.Publish(subject, data)
}

func (n *natsPublisher) Close() {
	if n.conn != nil {
		n.conn.Drain()
		n.conn.Close()
	}
}

// PublishJSON marshals v and sends it on subject.
func PublishJSON(ctx context.Context, p Publisher, subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	return p.Publish(ctx, subject, b)
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, []byte) error { return nil }
func (noopPublisher) Close()                                        {}
