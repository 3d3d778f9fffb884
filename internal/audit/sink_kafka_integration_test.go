//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "datatrail/pkg/domain"
	"datatrail/pkg/testutil/containers"
)

func TestKafkaSinkProduce(t *testing.T) {
	const topic = "datatrail.notifications.test"
	rc := containers.NewRedpandaContainer(t, topic)
	sink := NewKafkaSink(rc.Client, topic)
	ctx := context.Background()
	subject := id.Principal("user-kafka-1")

	publisher := NewPublisher(sink)
	require.NoError(t, publisher.Emit(ctx, Event{Kind: KindConsentChanged, Subject: subject, Category: id.DataCategoryDriving, Active: true}))
	require.NoError(t, publisher.Emit(ctx, Event{Kind: KindRecordRedacted, Subject: subject, Index: 2, Redacted: true}))

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var decoded []Event
	for len(decoded) < 2 {
		fetches := rc.Client.PollFetches(fetchCtx)
		require.NoError(t, fetches.Err())
		for _, record := range fetches.Records() {
			assert.Equal(t, subject.String(), string(record.Key))
			var event Event
			require.NoError(t, json.Unmarshal(record.Value, &event))
			decoded = append(decoded, event)
		}
	}

	require.Len(t, decoded, 2)
	assert.Equal(t, KindConsentChanged, decoded[0].Kind)
	assert.Equal(t, id.DataCategoryDriving, decoded[0].Category)
	assert.Equal(t, KindRecordRedacted, decoded[1].Kind)
	assert.Equal(t, 2, decoded[1].Index)
	assert.True(t, decoded[1].Redacted)
}
