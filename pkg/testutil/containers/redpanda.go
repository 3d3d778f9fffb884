//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// RedpandaContainer wraps a testcontainers Redpanda instance, a
// Kafka-compatible broker for exercising the notification sink.
type RedpandaContainer struct {
	Container testcontainers.Container
	Broker    string
	Client    *kgo.Client
}

// NewRedpandaContainer starts a Redpanda container and creates the topic.
func NewRedpandaContainer(t *testing.T, topic string) *RedpandaContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcredpanda.Run(ctx, "redpandadata/redpanda:v24.2.1")
	if err != nil {
		t.Fatalf("failed to start redpanda container: %v", err)
	}

	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redpanda broker: %v", err)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.DefaultProduceTopic(topic),
		kgo.ConsumeTopics(topic),
	)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to create kafka client: %v", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to create topic: %v", err)
	}

	rc := &RedpandaContainer{Container: container, Broker: broker, Client: client}
	t.Cleanup(func() {
		client.Close()
		_ = container.Terminate(context.Background())
	})
	return rc
}
