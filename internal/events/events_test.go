package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic string
	key   string
	event interface{}
}

type recordingPublisher struct {
	sent []published
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, event interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{topic: topic, key: key, event: event})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestNewMessage(t *testing.T) {
	msg, err := newMessage("user.updated", "user-1", map[string]string{"type": "user.updated"})
	require.NoError(t, err)

	assert.Equal(t, "user.updated", msg.Topic)
	assert.Equal(t, []byte("user-1"), msg.Key)

	var body map[string]string
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "user.updated", body["type"])
}

func TestNewMessage_Unencodable(t *testing.T) {
	_, err := newMessage("t", "k", make(chan int))
	assert.Error(t, err)
}

func TestNotifier_SendToTopic(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub, "notifications")

	id, err := n.SendToTopic(context.Background(), AdminTopic, "Profile updated", "done", map[string]string{"userId": "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "notifications", pub.sent[0].topic)
	assert.Equal(t, AdminTopic, pub.sent[0].key)

	msg, ok := pub.sent[0].event.(Notification)
	require.True(t, ok)
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, "Profile updated", msg.Title)
	assert.Equal(t, "u1", msg.Data["userId"])
}

func TestNotifier_EmptyTopic(t *testing.T) {
	n := NewNotifier(&recordingPublisher{}, "notifications")

	_, err := n.SendToTopic(context.Background(), "", "t", "b", nil)
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.ErrorIs(t, n.Subscribe(context.Background(), "", "device"), ErrEmptyTopic)
}

func TestNotifier_PublishFailure(t *testing.T) {
	boom := errors.New("broker down")
	n := NewNotifier(&recordingPublisher{err: boom}, "notifications")

	_, err := n.SendToTopic(context.Background(), AdminTopic, "t", "b", nil)
	assert.ErrorIs(t, err, boom)

	err = n.Unsubscribe(context.Background(), AdminTopic, "device")
	assert.ErrorIs(t, err, boom)
}

func TestNotifier_Subscribe(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub, "notifications")

	require.NoError(t, n.Subscribe(context.Background(), "user.USER", "device-1"))
	require.Len(t, pub.sent, 1)

	sub, ok := pub.sent[0].event.(Subscription)
	require.True(t, ok)
	assert.Equal(t, "subscribe", sub.Action)
	assert.Equal(t, "device-1", sub.DeviceToken)
}
