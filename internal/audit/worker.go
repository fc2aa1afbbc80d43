package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and persists them, so emission
// off the request path never blocks on the sink. The trail is best-effort:
// append failures are logged and draining continues.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit append failed",
					"action", string(event.Action),
					"record_id", event.RecordID,
					"error", err,
				)
			}
		}
	}
}
