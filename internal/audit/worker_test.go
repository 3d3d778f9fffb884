package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "datatrail/pkg/domain"
)

func TestWorkerDrainsInbox(t *testing.T) {
	sink := NewInMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(sink, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	subject := id.Principal("user-1")
	inbox <- Event{Kind: KindRecordAdded, Subject: subject}
	inbox <- Event{Kind: KindRecordRedacted, Subject: subject}

	require.Eventually(t, func() bool {
		events, err := sink.ListBySubject(context.Background(), subject)
		return err == nil && len(events) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWorkerStopsOnSinkFailure(t *testing.T) {
	inbox := make(chan Event, 1)
	worker := NewWorker(failingSink{}, inbox)
	inbox <- Event{Kind: KindRecordAdded}

	err := worker.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream unavailable")
}
