package aggregator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot/internal/ledger"
	"spot/internal/spot/metrics"
	"spot/internal/spot/models"
	dErrors "spot/pkg/domain-errors"
	"spot/pkg/platform/sentinel"
)

type fakeReader struct {
	mu           sync.Mutex
	ids          []uint64
	idsErr       error
	events       map[uint64]*ledger.Event
	minted       map[uint64]uint64
	failDetails  map[uint64]bool
	failMinted   map[uint64]bool
	delay        map[uint64]time.Duration
	detailsCalls atomic.Int32
}

func newFakeReader(events ...*ledger.Event) *fakeReader {
	r := &fakeReader{
		events:      make(map[uint64]*ledger.Event),
		minted:      make(map[uint64]uint64),
		failDetails: make(map[uint64]bool),
		failMinted:  make(map[uint64]bool),
		delay:       make(map[uint64]time.Duration),
	}
	for _, ev := range events {
		r.ids = append(r.ids, ev.EventID)
		r.events[ev.EventID] = ev
		r.minted[ev.EventID] = ev.EventID * 10
	}
	return r
}

func (r *fakeReader) EventIDs(context.Context) ([]uint64, error) {
	return r.ids, r.idsErr
}

func (r *fakeReader) EventDetails(_ context.Context, id uint64) (*ledger.Event, error) {
	r.detailsCalls.Add(1)
	r.mu.Lock()
	d, fail, ev := r.delay[id], r.failDetails[id], r.events[id]
	r.mu.Unlock()
	time.Sleep(d)
	if fail {
		return nil, errors.New("simulation failed")
	}
	return ev, nil
}

func (r *fakeReader) MintedCount(_ context.Context, id uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMinted[id] {
		return 0, errors.New("rpc unavailable")
	}
	return r.minted[id], nil
}

func event(id uint64, creator string) *ledger.Event {
	return &ledger.Event{
		EventID:     id,
		Creator:     creator,
		EventName:   "Event",
		EventDate:   1700000000,
		Location:    "Bogotá",
		Description: "x",
		MaxPoaps:    50,
		ClaimStart:  1700000000,
		ClaimEnd:    1700100000,
		MetadataURI: "ipfs://m",
		ImageURL:    "https://x/y.png",
	}
}

func newAggregator(t *testing.T, r Reader, opts ...Option) (*Aggregator, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))}, opts...)
	agg, err := New(r, models.ModeLive, opts...)
	require.NoError(t, err)
	return agg, &buf
}

func TestNewRequiresReaderInLiveMode(t *testing.T) {
	_, err := New(nil, models.ModeLive)
	assert.Error(t, err)

	agg, err := New(nil, models.ModeMock)
	require.NoError(t, err)
	events, err := agg.ListEvents(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestListEventsPreservesEnumerationOrder(t *testing.T) {
	r := newFakeReader(event(3, "GA"), event(1, "GB"), event(2, "GC"))
	r.delay[3] = 30 * time.Millisecond

	agg, _ := newAggregator(t, r)
	events, err := agg.ListEvents(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, uint64(3), events[0].EventID)
	assert.Equal(t, uint64(1), events[1].EventID)
	assert.Equal(t, uint64(2), events[2].EventID)
	assert.Equal(t, uint64(30), events[0].MintedCount)
	assert.Equal(t, uint32(50), events[0].MaxSpots)
	assert.Equal(t, "Event", events[0].Name)
}

func TestListEventsOmitsFailedItems(t *testing.T) {
	r := newFakeReader(event(1, "GA"), event(2, "GA"), event(3, "GA"), event(4, "GA"))
	r.failDetails[2] = true
	r.failMinted[4] = true

	m := metrics.New(prometheus.NewRegistry())
	agg, logs := newAggregator(t, r, WithMetrics(m))
	events, err := agg.ListEvents(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[0].EventID)
	assert.Equal(t, uint64(3), events[1].EventID)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PartialReadFailures))
	assert.Contains(t, logs.String(), "failed to fetch on-chain data for event")
}

func TestListEventsCreatorFilterIgnoresCase(t *testing.T) {
	r := newFakeReader(event(1, "GABCDEF"), event(2, "GOTHER"), event(3, "gabcdef"))

	agg, _ := newAggregator(t, r)
	events, err := agg.ListEvents(context.Background(), " gabcdef ")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "GABCDEF", events[0].Creator)
	assert.Equal(t, uint64(3), events[1].EventID)
}

func TestListEventsEnumerationFailure(t *testing.T) {
	r := newFakeReader()
	r.idsErr = errors.New("rpc down")

	agg, _ := newAggregator(t, r)
	_, err := agg.ListEvents(context.Background(), "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeLedger))
	assert.Equal(t, "rpc down", err.Error())
}

func TestListEventsUsesCacheForDetails(t *testing.T) {
	r := newFakeReader(event(1, "GA"), event(2, "GB"))
	cache := NewInMemoryCache(time.Minute)

	agg, _ := newAggregator(t, r, WithCache(cache), WithConcurrency(1))
	_, err := agg.ListEvents(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), r.detailsCalls.Load())

	r.mu.Lock()
	r.minted[1] = 99
	r.mu.Unlock()

	events, err := agg.ListEvents(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), r.detailsCalls.Load())
	assert.Equal(t, uint64(99), events[0].MintedCount)
}

func TestInMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	cache := NewInMemoryCache(time.Minute)
	cache.now = func() time.Time { return now }

	_, err := cache.Get(ctx, 1)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, cache.Set(ctx, event(1, "GA")))
	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "GA", got.Creator)

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(ctx, 1)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
