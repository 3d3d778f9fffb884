package audit

import (
	"context"

	id "datatrail/pkg/domain"
)

// Sink accepts a single notification. Producers that cannot serve history
// (Kafka, Redis streams) implement only this.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a sink that can also replay the notification history for a
// subject, in emission order.
type Store interface {
	Sink
	ListBySubject(ctx context.Context, subject id.Principal) ([]Event, error)
}
