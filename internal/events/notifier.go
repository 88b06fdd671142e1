package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AdminTopic receives notifications about profile changes made by employees
const AdminTopic = "user.ADMIN"

var ErrEmptyTopic = errors.New("notification topic is required")

// Notification is a push message addressed to every subscriber of a topic
type Notification struct {
	ID    string            `json:"id"`
	Topic string            `json:"topic"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	At    time.Time         `json:"at"`
}

// Subscription asks the push gateway to (un)register a device on a topic
type Subscription struct {
	Action      string    `json:"action"`
	Topic       string    `json:"topic"`
	DeviceToken string    `json:"deviceToken"`
	At          time.Time `json:"at"`
}

// Notifier hands push notifications to the gateway through a broker stream
type Notifier struct {
	publisher Publisher
	stream    string
}

// NewNotifier creates a Notifier writing to the given broker topic
func NewNotifier(publisher Publisher, stream string) *Notifier {
	return &Notifier{publisher: publisher, stream: stream}
}

// SendToTopic publishes a notification and returns its message id
func (n *Notifier) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) (string, error) {
	if topic == "" {
		return "", ErrEmptyTopic
	}
	msg := Notification{
		ID:    uuid.NewString(),
		Topic: topic,
		Title: title,
		Body:  body,
		Data:  data,
		At:    time.Now().UTC(),
	}
	if err := n.publisher.Publish(ctx, n.stream, topic, msg); err != nil {
		return "", fmt.Errorf("failed to send notification to %s: %w", topic, err)
	}
	return msg.ID, nil
}

// Subscribe registers a device token on a topic
func (n *Notifier) Subscribe(ctx context.Context, topic, deviceToken string) error {
	return n.subscription(ctx, "subscribe", topic, deviceToken)
}

// Unsubscribe removes a device token from a topic
func (n *Notifier) Unsubscribe(ctx context.Context, topic, deviceToken string) error {
	return n.subscription(ctx, "unsubscribe", topic, deviceToken)
}

func (n *Notifier) subscription(ctx context.Context, action, topic, deviceToken string) error {
	if topic == "" {
		return ErrEmptyTopic
	}
	sub := Subscription{Action: action, Topic: topic, DeviceToken: deviceToken, At: time.Now().UTC()}
	if err := n.publisher.Publish(ctx, n.stream, topic, sub); err != nil {
		return fmt.Errorf("failed to %s %s: %w", action, topic, err)
	}
	return nil
}
