package notify

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
)

// RedisSink publishes events as JSON on redis pub/sub channels named after
// the notification channel, so subscribers listen on barber:{id} or
// customer:{id} directly.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Deliver(ctx context.Context, channel string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, payload).Err()
}
