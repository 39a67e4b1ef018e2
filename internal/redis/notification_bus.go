package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"grievance/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	userChannelPrefix = "grievance:user:"
	BroadcastChannel  = "grievance:broadcast"
)

// ChannelFor maps a delivery target to its pub/sub channel.
func ChannelFor(t domain.Target) string {
	if t.Broadcast {
		return BroadcastChannel
	}
	return userChannelPrefix + t.UserID
}

// NotificationBus carries complaint events between the dispatcher and the
// realtime gateways of every instance.
type NotificationBus struct {
	client *redis.Client
}

func NewNotificationBus(client *redis.Client) *NotificationBus {
	return &NotificationBus{client: client}
}

func (b *NotificationBus) Publish(ctx context.Context, target domain.Target, env domain.Envelope) error {
	if !target.Broadcast && target.UserID == "" {
		return fmt.Errorf("redis.NotificationBus.Publish: empty target")
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("redis.NotificationBus.Publish: marshal: %w", err)
	}
	return b.client.Publish(ctx, ChannelFor(target), payload).Err()
}

// Subscription streams raw envelopes for a set of channels until closed.
type Subscription struct {
	pubsub *redis.PubSub
	out    chan []byte
	done   chan struct{}
	once   sync.Once
}

// Subscribe listens on the subject's own channel, plus the broadcast channel
// when staff is true. The returned subscription must be closed.
func (b *NotificationBus) Subscribe(ctx context.Context, subjectID string, staff bool) (*Subscription, error) {
	channels := []string{ChannelFor(domain.UserTarget(subjectID))}
	if staff {
		channels = append(channels, BroadcastChannel)
	}

	pubsub := b.client.Subscribe(ctx, channels...)

	// every channel must be confirmed before returning, otherwise an early
	// publish to a still pending channel is lost. Messages arriving on
	// already confirmed channels meanwhile are kept for the pump.
	var pending [][]byte
	for confirmed := 0; confirmed < len(channels); {
		msg, err := pubsub.Receive(ctx)
		if err != nil {
			_ = pubsub.Close()
			return nil, fmt.Errorf("redis.NotificationBus.Subscribe: %w", err)
		}
		switch m := msg.(type) {
		case *redis.Subscription:
			confirmed++
		case *redis.Message:
			pending = append(pending, []byte(m.Payload))
		}
	}

	s := &Subscription{
		pubsub: pubsub,
		out:    make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go s.pump(pending)
	return s, nil
}

func (s *Subscription) pump(pending [][]byte) {
	defer close(s.out)
	for _, payload := range pending {
		select {
		case s.out <- payload:
		case <-s.done:
			return
		}
	}
	for msg := range s.pubsub.Channel() {
		select {
		case s.out <- []byte(msg.Payload):
		case <-s.done:
			return
		}
	}
}

// Messages is closed once the subscription ends.
func (s *Subscription) Messages() <-chan []byte {
	return s.out
}

func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}
