// Package queue moves solution-attempt outcomes through RabbitMQ so
// pattern statistics can be updated off the request path.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AttemptQueueName is the queue carrying attempt outcome events.
const AttemptQueueName = "hintforge.attempts"

// AttemptEvent is one solution-attempt outcome to fold into pattern stats.
type AttemptEvent struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	Patterns  []string  `json:"patterns"`
	Correct   bool      `json:"correct"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAttemptEvent creates an attempt event with a fresh ID and timestamp.
func NewAttemptEvent(sessionID, userID string, patterns []string, correct bool) *AttemptEvent {
	return &AttemptEvent{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		Patterns:  patterns,
		Correct:   correct,
		CreatedAt: time.Now(),
	}
}

// Connection manages the RabbitMQ connection with automatic reconnection
type Connection struct {
	url        string
	conn       *amqp.Connection
	channel    *amqp.Channel
	mu         sync.RWMutex
	closed     bool
	reconnects int
}

// NewConnection creates a new RabbitMQ connection
func NewConnection(url string) (*Connection, error) {
	c := &Connection{
		url: url,
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	return c, nil
}

// connect establishes connection and channel
func (c *Connection) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	c.conn, err = amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	c.channel, err = c.conn.Channel()
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queues
	if err := c.declareQueues(); err != nil {
		c.channel.Close()
		c.conn.Close()
		return err
	}

	// Set up reconnection on close
	go c.handleReconnect()

	slog.Info("connected to RabbitMQ", "url", sanitizeURL(c.url))
	return nil
}

// declareQueues creates the necessary queues
func (c *Connection) declareQueues() error {
	// Attempt events queue - durable for reliability. Stale events are
	// useless for stats, so let them expire.
	_, err := c.channel.QueueDeclare(
		AttemptQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-message-ttl": int32(300000), // 5 minute TTL
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare attempt queue: %w", err)
	}

	return nil
}

// handleReconnect listens for connection close and attempts to reconnect
func (c *Connection) handleReconnect() {
	notifyClose := c.conn.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case err := <-notifyClose:
			if err == nil {
				return // Normal close
			}

			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()

			slog.Warn("RabbitMQ connection closed, attempting to reconnect",
				"error", err,
				"reconnects", c.reconnects,
			)

			// Exponential backoff
			for i := 0; i < 10; i++ {
				c.reconnects++
				backoff := time.Duration(1<<i) * time.Second
				if backoff > 30*time.Second {
					backoff = 30 * time.Second
				}
				time.Sleep(backoff)

				if err := c.connect(); err != nil {
					slog.Error("reconnection failed", "error", err, "attempt", i+1)
					continue
				}

				slog.Info("reconnected to RabbitMQ", "attempts", i+1)
				return
			}

			slog.Error("failed to reconnect to RabbitMQ after 10 attempts")
			return
		}
	}
}

// Channel returns the current channel (thread-safe)
func (c *Connection) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// Close closes the connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected checks if the connection is active
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// PublishJSON publishes a JSON message to a queue
func (c *Connection) PublishJSON(ctx context.Context, queue string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	c.mu.RLock()
	ch := c.channel
	c.mu.RUnlock()

	return ch.PublishWithContext(
		ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// sanitizeURL removes password from URL for logging
func sanitizeURL(url string) string {
	// Simple sanitization - just show host
	if len(url) > 20 {
		return url[:20] + "..."
	}
	return url
}
