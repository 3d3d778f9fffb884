package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink appends notifications to a Redis stream. Stream entry IDs give
// consumers a stable cursor over the transaction order.
type RedisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink creates a sink writing to the named stream.
func NewRedisSink(client *redis.Client, stream string) *RedisSink {
	return &RedisSink{client: client, stream: stream}
}

func (s *RedisSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"kind":    string(event.Kind),
			"subject": event.Subject.String(),
			"payload": payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd notification: %w", err)
	}
	return nil
}
