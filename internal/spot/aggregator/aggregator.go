// Package aggregator assembles the on-chain event listing from per-event
// contract reads.
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"spot/internal/ledger"
	"spot/internal/spot/metrics"
	"spot/internal/spot/models"
	dErrors "spot/pkg/domain-errors"
	"spot/pkg/platform/sentinel"
)

const defaultConcurrency = 8

// Reader is the read side of the contract adapter.
type Reader interface {
	EventIDs(ctx context.Context) ([]uint64, error)
	EventDetails(ctx context.Context, eventID uint64) (*ledger.Event, error)
	MintedCount(ctx context.Context, eventID uint64) (uint64, error)
}

// Aggregator fans out per-event reads and gathers them in enumeration order.
type Aggregator struct {
	reader      Reader
	mode        models.Mode
	cache       Cache
	logger      *slog.Logger
	metrics     *metrics.Metrics
	concurrency int
}

type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithCache stores event details, which never change once created.
// Minted counts are always read live.
func WithCache(c Cache) Option {
	return func(a *Aggregator) {
		a.cache = c
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// WithConcurrency bounds the number of events fetched at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// New constructs an Aggregator. A reader is required in live mode only.
func New(reader Reader, mode models.Mode, opts ...Option) (*Aggregator, error) {
	if mode == models.ModeLive && reader == nil {
		return nil, errors.New("reader is required in live mode")
	}
	a := &Aggregator{
		reader:      reader,
		mode:        mode,
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// fetchResult is one slot of the gather; err marks the event as omitted.
type fetchResult struct {
	event  *ledger.Event
	minted uint64
	err    error
}

// ListEvents returns every event, optionally restricted to one creator
// (case-insensitive). Events whose reads fail are logged and omitted.
func (a *Aggregator) ListEvents(ctx context.Context, creator string) ([]models.EventSummary, error) {
	if a.mode == models.ModeMock {
		return []models.EventSummary{}, nil
	}

	ids, err := a.reader.EventIDs(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to fetch on-chain events", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeLedger, err.Error())
	}

	results := make([]fetchResult, len(ids))
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = a.fetch(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	creator = strings.TrimSpace(creator)
	events := make([]models.EventSummary, 0, len(ids))
	for i, res := range results {
		if res.err != nil {
			a.metrics.IncrementPartialFailure()
			a.logger.ErrorContext(ctx, "failed to fetch on-chain data for event",
				"event_id", ids[i],
				"error", res.err,
			)
			continue
		}
		if creator != "" && !strings.EqualFold(res.event.Creator, creator) {
			continue
		}
		events = append(events, summarize(res.event, res.minted))
	}
	return events, nil
}

// fetch reads details and minted count for one event concurrently.
func (a *Aggregator) fetch(ctx context.Context, id uint64) fetchResult {
	var res fetchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ev, err := a.details(gctx, id)
		res.event = ev
		return err
	})
	g.Go(func() error {
		minted, err := a.reader.MintedCount(gctx, id)
		res.minted = minted
		return err
	})
	res.err = g.Wait()
	return res
}

func (a *Aggregator) details(ctx context.Context, id uint64) (*ledger.Event, error) {
	if a.cache != nil {
		ev, err := a.cache.Get(ctx, id)
		if err == nil {
			return ev, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			a.logger.WarnContext(ctx, "event cache read failed", "event_id", id, "error", err)
		}
	}

	ev, err := a.reader.EventDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, errors.New("empty event details")
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, ev); err != nil {
			a.logger.WarnContext(ctx, "event cache write failed", "event_id", id, "error", err)
		}
	}
	return ev, nil
}

func summarize(ev *ledger.Event, minted uint64) models.EventSummary {
	return models.EventSummary{
		EventID:     ev.EventID,
		Name:        ev.EventName,
		Date:        ev.EventDate,
		Location:    ev.Location,
		Description: ev.Description,
		MaxSpots:    ev.MaxPoaps,
		ClaimStart:  ev.ClaimStart,
		ClaimEnd:    ev.ClaimEnd,
		MetadataURI: ev.MetadataURI,
		ImageURL:    ev.ImageURL,
		Creator:     ev.Creator,
		MintedCount: minted,
	}
}
