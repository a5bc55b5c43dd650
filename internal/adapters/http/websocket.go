package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/campusnav/internal/adapters/nats"
	"github.com/samirrijal/campusnav/internal/pkg/metrics"
)

// wsMessage is sent by clients to change their subscriptions.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "shuttle" | "buses" | "stations" | "updates"
}

// channelSubject maps a client channel to its NATS subject.
func channelSubject(channel string) (string, bool) {
	switch channel {
	case "", "shuttle":
		return natsadapter.ShuttleSubjects, true
	case "buses":
		return natsadapter.ShuttleSubjectRoot + ".bus.>", true
	case "stations":
		return natsadapter.ShuttleSubjectRoot + ".station.>", true
	case "updates":
		return natsadapter.BroadcastSubject, true
	}
	return "", false
}

// WebSocketHandler relays shuttle positions and campus broadcasts from
// NATS to connected clients. New clients start on the "shuttle" channel.
// Clients send {"action":"subscribe","channel":"buses"} to narrow or widen.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		logger := slog.Default().With("remote", c.RemoteAddr().String())
		if nc == nil {
			_ = c.WriteMessage(websocket.TextMessage, []byte(`{"error":"realtime feed not configured"}`))
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		logger.Info("ws client connected")

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(msg *nats.Msg) {
			_ = writeJSON(json.RawMessage(msg.Data))
		}

		subs := make(map[string]*nats.Subscription)
		defer func() {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			logger.Info("ws client disconnected")
		}()

		sub, err := nc.Subscribe(natsadapter.ShuttleSubjects, relay)
		if err != nil {
			logger.Error("ws default subscribe failed", "error", err)
			return
		}
		subs[natsadapter.ShuttleSubjects] = sub

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				return
			}

			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			subject, ok := channelSubject(m.Channel)
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + m.Channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed"})
					logger.Warn("ws subscribe failed", "subject", subject, "error", err)
					continue
				}
				subs[subject] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				s, exists := subs[subject]
				if !exists {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
					continue
				}
				_ = s.Unsubscribe()
				delete(subs, subject)
				_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}
	}
}
