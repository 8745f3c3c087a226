package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/dvhl/club-portal/internal/domain/notify"
)

// NotifySink accepts notification requests from services. Delivery is
// best-effort; a sink never fails the operation that produced the request.
type NotifySink interface {
	Notify(ctx context.Context, req notify.Request)
}

// NopNotifier drops every request. Used in tests and when no notifier
// endpoint is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, notify.Request) {}

// NotifyDispatcher fans notification requests out to the club notifier on a
// bounded worker pool so slow deliveries never block a request handler.
type NotifyDispatcher struct {
	publisher notify.Publisher
	pool      *ants.Pool
	timeout   time.Duration
	logger    *slog.Logger
}

func NewNotifyDispatcher(publisher notify.Publisher, workers int, timeout time.Duration, logger *slog.Logger) (*NotifyDispatcher, error) {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}
	return &NotifyDispatcher{
		publisher: publisher,
		pool:      pool,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// Notify enqueues the request for delivery. The caller's context is not
// reused: the request outlives the HTTP request that produced it.
func (d *NotifyDispatcher) Notify(_ context.Context, req notify.Request) {
	err := d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.publisher.Publish(ctx, req); err != nil {
			d.logger.Warn("notification delivery failed",
				"kind", string(req.Kind), "season_id", req.SeasonID, "error", err)
		}
	})
	if err != nil {
		d.logger.Warn("notification submit failed", "kind", string(req.Kind), "error", err)
	}
}

func (d *NotifyDispatcher) Release() {
	d.pool.Release()
}
