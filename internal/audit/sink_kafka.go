package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink produces notifications to a Kafka topic, keyed by subject so a
// subject's history stays ordered within one partition. Produces are
// synchronous: Emit does not return until the broker acknowledges, keeping
// the fail-closed contract.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink creates a sink over an existing franz-go client.
func NewKafkaSink(client *kgo.Client, topic string) *KafkaSink {
	return &KafkaSink{client: client, topic: topic}
}

func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Subject.String()),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce notification: %w", err)
	}
	return nil
}
