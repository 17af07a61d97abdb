// Package events publishes notable decision-layer outcomes over NATS.
// Delivery is best-effort: the turn path never blocks on the broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectInsight is the subject insight events are published on.
const SubjectInsight = "companion.insight.detected"

// #region event-shapes

// InsightEvent is emitted when a tracked turn surfaces longitudinal
// insights for a user.
type InsightEvent struct {
	UserID    string    `json:"user_id"`
	Insights  []string  `json:"insights"`
	Timestamp time.Time `json:"timestamp"`
}

// #endregion event-shapes

// #region publisher

// Publisher wraps a NATS connection for the decision layer's outbound
// events. It satisfies the engine's EventSink.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the broker with reconnect handling and returns a
// publisher. An empty token skips token auth.
func Connect(url, token string) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[EVENTS] nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("[EVENTS] nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: nc}, nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

// InsightDetected publishes the insight event. Core NATS publish is
// fire-and-forget; an error here means the payload never left the process.
func (p *Publisher) InsightDetected(_ context.Context, userID string, insights []string) error {
	payload, err := json.Marshal(InsightEvent{
		UserID:    userID,
		Insights:  insights,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal insight event: %w", err)
	}
	if err := p.conn.Publish(SubjectInsight, payload); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectInsight, err)
	}
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	p.conn.Close()
}

// #endregion publisher
