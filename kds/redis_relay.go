package kds

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "kds:restaurant:"

// RedisRelay fans frames out through Redis pub/sub so every instance reaches its own subscribers.
type RedisRelay struct {
	client *redis.Client
}

func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{client: client}
}

func ChannelFor(restaurantID string) string {
	return channelPrefix + restaurantID
}

func (r *RedisRelay) Publish(ctx context.Context, restaurantID string, payload []byte) error {
	return r.client.Publish(ctx, ChannelFor(restaurantID), payload).Err()
}

func (r *RedisRelay) Run(ctx context.Context, deliver func(restaurantID string, payload []byte)) error {
	pubsub := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			restaurantID := strings.TrimPrefix(msg.Channel, channelPrefix)
			if restaurantID == "" || restaurantID == msg.Channel {
				continue
			}
			deliver(restaurantID, []byte(msg.Payload))
		}
	}
}
