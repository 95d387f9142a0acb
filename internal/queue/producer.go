package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Producer publishes attempt events to the queue. It satisfies the tutor
// service's AttemptRecorder, so deployments with a broker can swap it in
// for the in-process stats aggregator.
type Producer struct {
	conn *Connection
}

// NewProducer creates a new queue producer
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// RecordAttempt publishes a solution-attempt outcome for async processing.
func (p *Producer) RecordAttempt(ctx context.Context, sessionID, userID string, patterns []string, correct bool) error {
	return p.PublishAttempt(ctx, NewAttemptEvent(sessionID, userID, patterns, correct))
}

// PublishAttempt publishes an attempt event to the queue
func (p *Producer) PublishAttempt(ctx context.Context, event *AttemptEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if err := p.conn.PublishJSON(ctx, AttemptQueueName, event); err != nil {
		return fmt.Errorf("failed to publish attempt event: %w", err)
	}

	slog.Info("published attempt event",
		"event_id", event.ID,
		"session_id", event.SessionID,
		"patterns", len(event.Patterns),
		"correct", event.Correct,
	)

	return nil
}
