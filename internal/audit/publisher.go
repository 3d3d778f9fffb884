package audit

import (
	"context"

	"github.com/google/uuid"

	id "datatrail/pkg/domain"
	dErrors "datatrail/pkg/domain-errors"
	"datatrail/pkg/requestcontext"
)

// Publisher emits change notifications with fail-closed semantics: the
// caller blocks until the sink accepts the event, and if the write fails the
// calling mutation MUST fail. This keeps the notification stream a complete
// record of every accepted mutation.
type Publisher struct {
	sink   Sink
	mirror chan<- Event
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithMirror mirrors every accepted event into a channel, typically drained
// by a Worker feeding a secondary sink. Mirroring is best-effort: a full
// channel drops the copy, never the primary write.
func WithMirror(ch chan<- Event) Option {
	return func(p *Publisher) {
		p.mirror = ch
	}
}

// NewPublisher creates a publisher over the primary sink.
func NewPublisher(sink Sink, opts ...Option) *Publisher {
	p := &Publisher{sink: sink}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously writes a notification. The event ID is minted here; the
// timestamp defaults to the request-scoped clock.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if err := p.sink.Append(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append notification")
	}
	if p.mirror != nil {
		select {
		case p.mirror <- event:
		default:
		}
	}
	return nil
}

// History replays the notification stream for a subject when the primary
// sink retains history.
func (p *Publisher) History(ctx context.Context, subject id.Principal) ([]Event, error) {
	store, ok := p.sink.(Store)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "notification sink retains no history")
	}
	return store.ListBySubject(ctx, subject)
}
