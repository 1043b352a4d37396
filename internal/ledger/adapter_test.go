package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	mu      sync.Mutex
	calls   []Invocation
	reads   map[string]string
	invoke  *TxResult
	failErr error
}

func (c *recordingClient) Invoke(_ context.Context, inv Invocation) (*TxResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, inv)
	if c.failErr != nil {
		return nil, c.failErr
	}
	return c.invoke, nil
}

func (c *recordingClient) Read(_ context.Context, inv Invocation) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, inv)
	if c.failErr != nil {
		return nil, c.failErr
	}
	return json.RawMessage(c.reads[inv.Function]), nil
}

type observed struct {
	function string
	err      error
}

type recordingObserver struct {
	calls []observed
}

func (o *recordingObserver) ObserveLedgerCall(function string, _ time.Duration, err error) {
	o.calls = append(o.calls, observed{function: function, err: err})
}

func newTestAdapter(t *testing.T, client *recordingClient) (*Adapter, *Keypair, *recordingObserver) {
	t.Helper()
	admin, err := ParseSecret(testSecret(9))
	require.NoError(t, err)
	obs := &recordingObserver{}
	return NewAdapter(client, "CSPOT", admin, WithObserver(obs)), admin, obs
}

func TestAdapterCreateEventArguments(t *testing.T) {
	client := &recordingClient{invoke: &TxResult{TxHash: "h1", EnvelopeXDR: "env"}}
	adapter, admin, obs := newTestAdapter(t, client)

	res, err := adapter.CreateEvent(context.Background(), EventParams{
		Creator:     admin.Address(),
		EventName:   "Meetup",
		EventDate:   1700000000,
		Location:    "Bogotá",
		Description: "x",
		MaxPoaps:    50,
		ClaimStart:  1700000000,
		ClaimEnd:    1700100000,
		MetadataURI: "ipfs://m",
		ImageURL:    "https://x/y.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "h1", res.TxHash)

	require.Len(t, client.calls, 1)
	inv := client.calls[0]
	assert.Equal(t, FnCreateEvent, inv.Function)
	assert.Equal(t, "CSPOT", inv.ContractID)
	assert.Same(t, admin, inv.Signer)
	require.Len(t, inv.Args, 10)
	assert.Equal(t, Address(admin.Address()), inv.Args[0])
	assert.Equal(t, U64(1700000000), inv.Args[2])
	assert.Equal(t, Arg{Type: ArgU64, Value: "1700000000"}, inv.Args[2])
	assert.Equal(t, U32(50), inv.Args[5])

	require.Len(t, obs.calls, 1)
	assert.Equal(t, FnCreateEvent, obs.calls[0].function)
	assert.NoError(t, obs.calls[0].err)
}

func TestAdapterClaimSignsWithPayer(t *testing.T) {
	client := &recordingClient{invoke: &TxResult{TxHash: "h2"}}
	adapter, admin, _ := newTestAdapter(t, client)
	payer, err := ParseSecret(testSecret(4))
	require.NoError(t, err)

	_, err = adapter.Claim(context.Background(), payer, "GCLAIMER", 7)
	require.NoError(t, err)

	inv := client.calls[0]
	assert.Equal(t, FnClaim, inv.Function)
	assert.Same(t, payer, inv.Signer)
	assert.NotSame(t, admin, inv.Signer)
	assert.Equal(t, []Arg{Address("GCLAIMER"), U64(7)}, inv.Args)
}

func TestAdapterAdminOperationsNeedAdmin(t *testing.T) {
	client := &recordingClient{}
	adapter := NewAdapter(client, "CSPOT", nil)

	_, err := adapter.ApproveCreator(context.Background(), "GCREATOR", "ref")
	assert.ErrorIs(t, err, ErrAdminNotConfigured)
	assert.Empty(t, client.calls)
	assert.Empty(t, adapter.AdminAddress())
}

func TestAdapterReadsDecodeResults(t *testing.T) {
	client := &recordingClient{reads: map[string]string{
		FnAdmin:        `"GADMIN"`,
		FnEventCount:   `"12"`,
		FnEventIDs:     `[1, "2", 3]`,
		FnMintedCount:  `4`,
		FnEventDetails: `{"eventId":"2","creator":"GABC","eventName":"Meetup","eventDate":1700000000,"maxPoaps":50,"claimStart":"1","claimEnd":"2","imageUrl":"https://x/y.png"}`,
	}}
	adapter, admin, _ := newTestAdapter(t, client)
	ctx := context.Background()

	got, err := adapter.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GADMIN", got)

	count, err := adapter.EventCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), count)

	ids, err := adapter.EventIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	minted, err := adapter.MintedCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), minted)

	event, err := adapter.EventDetails(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), event.EventID)
	assert.Equal(t, "GABC", event.Creator)
	assert.Equal(t, uint32(50), event.MaxPoaps)
	assert.Equal(t, uint64(2), event.ClaimEnd)

	for _, inv := range client.calls {
		assert.Equal(t, admin.Address(), inv.Source)
		assert.Nil(t, inv.Signer)
	}
}

func TestAdapterReportsClientErrors(t *testing.T) {
	boom := errors.New("rpc unreachable")
	client := &recordingClient{failErr: boom}
	adapter, _, obs := newTestAdapter(t, client)

	_, err := adapter.EventIDs(context.Background())
	assert.ErrorIs(t, err, boom)
	require.Len(t, obs.calls, 1)
	assert.ErrorIs(t, obs.calls[0].err, boom)
}

func TestAdapterRejectsUndecodableResult(t *testing.T) {
	client := &recordingClient{reads: map[string]string{FnEventCount: `"many"`}}
	adapter, _, _ := newTestAdapter(t, client)

	_, err := adapter.EventCount(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), FnEventCount)
}

func TestAdapterRejectsOversizedMaxPoaps(t *testing.T) {
	client := &recordingClient{reads: map[string]string{
		FnEventDetails: `{"eventId":"2","creator":"GABC","maxPoaps":"4294967296"}`,
	}}
	adapter, _, _ := newTestAdapter(t, client)

	_, err := adapter.EventDetails(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows u32")
}

func TestEventDecodesSnakeCaseFields(t *testing.T) {
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(`{"event_id":"5","event_name":"Meetup","max_poaps":4294967295,"image_url":"https://x/y.png"}`), &ev))
	assert.Equal(t, uint64(5), ev.EventID)
	assert.Equal(t, "Meetup", ev.EventName)
	assert.Equal(t, uint32(4294967295), ev.MaxPoaps)
	assert.Equal(t, "https://x/y.png", ev.ImageURL)
}
