package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Postgres notification channels raised by the migration triggers.
const (
	ChannelTransactions = "transactions_changed"
	ChannelItineraries  = "itineraries_changed"
)

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// Watcher is the push-based change feed over the stored collections. It
// holds one dedicated connection in LISTEN mode and republishes every
// pg_notify as the Postgres channel name on a Go channel.
//
// Subscribers treat each event as "something changed, take a fresh
// snapshot"; no payload is carried, so dropped or coalesced events are
// harmless as long as one arrives after the last change. On every
// (re)connect the watcher emits one synthetic event per channel so changes
// missed while disconnected are picked up.
type Watcher struct {
	dsn    string
	logger *zap.Logger
}

func NewWatcher(dsn string, logger *zap.Logger) *Watcher {
	return &Watcher{
		dsn:    dsn,
		logger: logger,
	}
}

// Watch starts listening on the given channels and returns the event
// stream. The stream is closed when ctx is cancelled; connection loss is
// handled internally with backoff, never surfaced to the subscriber.
func (w *Watcher) Watch(ctx context.Context, channels ...string) <-chan string {
	events := make(chan string, 16)

	go func() {
		defer close(events)

		delay := reconnectBaseDelay
		for {
			if ctx.Err() != nil {
				return
			}

			conn, err := pgx.Connect(ctx, w.dsn)
			if err != nil {
				w.logger.Warn("Change watcher connect failed", zap.Error(err), zap.Duration("retry_in", delay))
				if !sleep(ctx, delay) {
					return
				}
				delay = nextDelay(delay)
				continue
			}

			delay = reconnectBaseDelay
			if err := w.listen(ctx, conn, channels, events); err != nil && ctx.Err() == nil {
				w.logger.Warn("Change watcher connection lost", zap.Error(err), zap.Duration("retry_in", delay))
			}
			_ = conn.Close(context.Background())

			if !sleep(ctx, delay) {
				return
			}
			delay = nextDelay(delay)
		}
	}()

	return events
}

func (w *Watcher) listen(ctx context.Context, conn *pgx.Conn, channels []string, events chan<- string) error {
	for _, ch := range channels {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
			return err
		}
	}

	w.logger.Info("Change watcher listening", zap.Strings("channels", channels))

	// Resync event per channel: whatever changed while we were not
	// listening is folded into the first snapshot.
	for _, ch := range channels {
		publish(events, ch)
	}

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		publish(events, notification.Channel)
	}
}

// publish never blocks: if the subscriber is behind, the event coalesces
// with the ones already buffered.
func publish(events chan<- string, channel string) {
	select {
	case events <- channel:
	default:
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func nextDelay(d time.Duration) time.Duration {
	d *= 2
	if d > reconnectMaxDelay {
		return reconnectMaxDelay
	}
	return d
}
