package audit

import (
	"context"
	"log/slog"
	"time"

	"spot/pkg/requestcontext"
)

// Store persists audit records. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, rec Record) error
}

// Publisher stamps records and appends them to every store. Store failures
// go to the diagnostic logger and never reach the caller: auditing is
// best-effort and must not fail the operation it describes.
type Publisher struct {
	stores []Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func NewPublisher(logger *slog.Logger, stores []Store, opts ...Option) *Publisher {
	p := &Publisher{stores: stores, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Record appends rec to all stores and echoes the outcome to the logger.
func (p *Publisher) Record(ctx context.Context, rec Record) {
	rec.Timestamp = p.now().UTC()
	if rec.RequestID == "" {
		rec.RequestID = requestcontext.RequestID(ctx)
	}

	for _, store := range p.stores {
		if err := store.Append(ctx, rec); err != nil {
			p.logger.ErrorContext(ctx, "failed to write audit record",
				"action", rec.Action,
				"error", err,
			)
		}
	}

	if rec.Status == StatusSuccess {
		p.logger.InfoContext(ctx, string(rec.Action)+" success",
			"tx_hash", rec.TxHash,
			"request_id", rec.RequestID,
		)
		return
	}
	p.logger.ErrorContext(ctx, string(rec.Action)+" error",
		"error", rec.Error,
		"request_id", rec.RequestID,
	)
}
