package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureShuttleStream(js); err != nil {
		conn.Close()
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// DecodeShuttlePoint parses a published point and rejects unknown kinds.
func DecodeShuttlePoint(data []byte) (*domain.ShuttlePoint, error) {
	var p domain.ShuttlePoint
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode shuttle point: %w", err)
	}
	if p.Kind() == domain.ShuttleUnknown {
		return nil, fmt.Errorf("decode shuttle point: unknown id prefix %q", p.ID)
	}
	return &p, nil
}

// SubscribeShuttlePoints delivers every published point to handler on a
// durable consumer. Handler errors are redelivered up to three times.
func (s *Subscriber) SubscribeShuttlePoints(ctx context.Context, handler func(ctx context.Context, p *domain.ShuttlePoint) error) error {
	sub, err := s.js.Subscribe(ShuttleSubjects, func(msg *nats.Msg) {
		p, err := DecodeShuttlePoint(msg.Data)
		if err != nil {
			// Redelivery will not fix a malformed payload.
			slog.Warn("dropping shuttle message", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, p); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("shuttle-recorder"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
