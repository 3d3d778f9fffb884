package audit

import "context"

// Worker drains mirrored events from a channel into a secondary sink. It
// keeps background fan-out testable without wiring queue implementations
// into the publisher itself.
type Worker struct {
	sink  Sink
	inbox <-chan Event
}

func NewWorker(sink Sink, inbox <-chan Event) *Worker {
	return &Worker{sink: sink, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
