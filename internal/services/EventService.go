// This file contains the implementation of EventService. This service is responsible for publishing
// queue-activity events to an AMQP 0.9.1 message broker, for consumption by whatever analytics or
// housekeeping workers are attached to the deployment. The server only publishes; it never consumes.
//
// This service expects a rabbitMQ AMPQ 0.9.1 broker to be running on the specified domain. The
// service connects to the broker with a short retry window and declares the queue-activity queue.
// Publishing is fire-and-forget from the engine's point of view: delivery happens on a background
// goroutine, failures are logged, and a request is never failed or delayed because the broker is down.

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/media"
)

// Event types published to the queue-activity stream.
const (
	EventQueueCreated  = "queue.created"
	EventQueueDeleted  = "queue.deleted"
	EventMediaAdded    = "media.added"
	EventMediaMoved    = "media.moved"
	EventMediaRemoved  = "media.removed"
	EventUserFannedOut = "user.fanned_out"
)

const activityQueueName = "queue-activity"

// Event describes one queue-activity occurrence.
type Event struct {
	Type      string     `json:"type"`
	MediaType media.Type `json:"mediaType,omitempty"`
	QueueID   string     `json:"queueId,omitempty"`
	MediaID   string     `json:"mediaId,omitempty"`
	Username  string     `json:"username,omitempty"`
	Group     string     `json:"group,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// EventPublisher is what the queue engine needs from the event stream.
type EventPublisher interface {
	Publish(ctx context.Context, e Event)
}

type EventService struct {
	messageBrokerDomain string
	connection          *amqp.Connection
	channel             *amqp.Channel
	logger              *log.Logger
	mu                  sync.Mutex
}

// NewEventService connects to the AMQP broker on the given domain and declares the
// queue-activity queue.
func NewEventService(messageBrokerDomain string, logger *log.Logger) (*EventService, error) {
	service := &EventService{
		messageBrokerDomain: messageBrokerDomain,
		logger:              logger,
	}

	if err := service.connect(); err != nil {
		return nil, err
	}
	return service, nil
}

// connect establishes a connection to the AMQP message broker, retrying for up
// to 15 seconds. Only used at startup, when the broker container may still be
// coming up.
func (s *EventService) connect() error {
	timeout := time.Now().Add(time.Minute / 4)
	var err error

	for time.Now().Before(timeout) {
		if err = s.dial(); err == nil {
			return nil
		}
		time.Sleep(time.Second)
	}
	return err
}

// dial makes a single connection attempt and declares the activity queue.
func (s *EventService) dial() error {
	connection, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:5672/",
		os.Getenv("RABBITMQ_DEFAULT_USER"),
		os.Getenv("RABBITMQ_DEFAULT_PASS"),
		s.messageBrokerDomain))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		connection.Close()
		return fmt.Errorf("failed to open a channel: %v", err)
	}

	if _, err := channel.QueueDeclare(activityQueueName, false, false, false, false, nil); err != nil {
		connection.Close()
		return fmt.Errorf("failed to declare queue %s: %v", activityQueueName, err)
	}

	s.connection = connection
	s.channel = channel
	return nil
}

// ensureConnection re-dials the broker once if the connection was lost. No
// retry loop here: this runs on the delivery path and must not stall on a
// dead broker.
func (s *EventService) ensureConnection() error {
	if s.connection != nil && !s.connection.IsClosed() {
		return nil
	}
	return s.dial()
}

// Publish hands the event to a background goroutine for delivery and returns
// immediately. Queue operations never wait on, or fail because of, the broker.
// Delivery deliberately ignores the caller's context, since the event outlives
// the request that produced it.
func (s *EventService) Publish(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(e)
	if err != nil {
		s.logger.Errorf("Failed to marshal %s event: %v", e.Type, err)
		return
	}

	go s.deliver(e.Type, body)
}

// deliver publishes the marshaled event to the queue-activity queue. Failures
// are logged and swallowed.
func (s *EventService) deliver(eventType string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureConnection(); err != nil {
		s.logger.Errorf("Failed to reach message broker for %s event: %v", eventType, err)
		return
	}

	publishCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.channel.PublishWithContext(publishCtx,
		"",                // exchange
		activityQueueName, // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		s.logger.Errorf("Failed to publish %s event: %v", eventType, err)
	}
}

// Close shuts down the channel and connection.
func (s *EventService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channel != nil {
		s.channel.Close()
	}
	if s.connection != nil {
		s.connection.Close()
	}
}
