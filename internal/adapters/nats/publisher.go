package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// Subjects and streams used for the shuttle feed.
const (
	ShuttleStream      = "CAMPUS_SHUTTLE"
	ShuttleSubjectRoot = "campus.shuttle"
	ShuttleSubjects    = ShuttleSubjectRoot + ".>"
	BroadcastSubject   = "campus.updates.broadcast"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureShuttleStream(js); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

// ensureShuttleStream creates or updates the stream holding the latest
// point per shuttle subject.
func ensureShuttleStream(js nats.JetStreamContext) error {
	cfg := nats.StreamConfig{
		Name:              ShuttleStream,
		Subjects:          []string{ShuttleSubjects},
		Retention:         nats.LimitsPolicy,
		MaxAge:            10 * time.Minute,
		MaxMsgsPerSubject: 1,
		Storage:           nats.MemoryStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		if _, err := js.UpdateStream(&cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// ShuttleSubject returns the subject a point is published on:
// campus.shuttle.<kind>.<id>.
func ShuttleSubject(p *domain.ShuttlePoint) string {
	return ShuttleSubjectRoot + "." + string(p.Kind()) + "." + subjectToken(p.ID)
}

// subjectToken makes s safe to use as a single subject token.
func subjectToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}

func (p *Publisher) PublishShuttlePoint(ctx context.Context, sp *domain.ShuttlePoint) error {
	data, err := json.Marshal(sp)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ShuttleSubject(sp), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish(BroadcastSubject, data)
}

// Ping reports whether the connection is up.
func (p *Publisher) Ping(ctx context.Context) error {
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats: %s", p.conn.Status())
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("campusnav"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
