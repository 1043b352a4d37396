package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Contract function names.
const (
	FnApproveCreator = "approve_creator"
	FnRevokeCreator  = "revoke_creator"
	FnCreateEvent    = "create_event"
	FnClaim          = "claim"
	FnAdmin          = "admin"
	FnEventCount     = "get_event_count"
	FnEventIDs       = "get_all_event_ids"
	FnEventDetails   = "get_event_details"
	FnMintedCount    = "get_minted_count"
)

// ErrAdminNotConfigured is returned by admin-signed operations when the
// adapter was built without an admin keypair.
var ErrAdminNotConfigured = errors.New("admin credentials not configured")

// Observer receives one callback per contract call.
type Observer interface {
	ObserveLedgerCall(function string, d time.Duration, err error)
}

// EventParams are the create_event arguments.
type EventParams struct {
	Creator     string
	EventName   string
	EventDate   uint64
	Location    string
	Description string
	MaxPoaps    uint32
	ClaimStart  uint64
	ClaimEnd    uint64
	MetadataURI string
	ImageURL    string
}

// Adapter exposes one method per SPOT contract operation.
type Adapter struct {
	client     Client
	contractID string
	admin      *Keypair
	tracer     trace.Tracer
	observer   Observer
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

func WithObserver(o Observer) AdapterOption {
	return func(a *Adapter) {
		a.observer = o
	}
}

func WithTracer(t trace.Tracer) AdapterOption {
	return func(a *Adapter) {
		a.tracer = t
	}
}

// NewAdapter binds client to one deployed contract. admin signs the admin
// operations and is the source account for reads.
func NewAdapter(client Client, contractID string, admin *Keypair, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		client:     client,
		contractID: contractID,
		admin:      admin,
		tracer:     otel.Tracer("spot/ledger"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AdminAddress returns the admin public address, or "" when unconfigured.
func (a *Adapter) AdminAddress() string {
	if a.admin == nil {
		return ""
	}
	return a.admin.Address()
}

func (a *Adapter) ApproveCreator(ctx context.Context, creator, paymentReference string) (*TxResult, error) {
	return a.invokeAsAdmin(ctx, FnApproveCreator, Address(creator), String(paymentReference))
}

func (a *Adapter) RevokeCreator(ctx context.Context, creator string) (*TxResult, error) {
	return a.invokeAsAdmin(ctx, FnRevokeCreator, Address(creator))
}

func (a *Adapter) CreateEvent(ctx context.Context, p EventParams) (*TxResult, error) {
	return a.invokeAsAdmin(ctx, FnCreateEvent,
		Address(p.Creator),
		String(p.EventName),
		U64(p.EventDate),
		String(p.Location),
		String(p.Description),
		U32(p.MaxPoaps),
		U64(p.ClaimStart),
		U64(p.ClaimEnd),
		String(p.MetadataURI),
		String(p.ImageURL),
	)
}

// Claim mints the attendance token for claimer, paid and signed by payer.
func (a *Adapter) Claim(ctx context.Context, payer *Keypair, claimer string, eventID uint64) (*TxResult, error) {
	if payer == nil {
		return nil, errors.New("claim requires a payer")
	}
	return a.invoke(ctx, Invocation{
		ContractID: a.contractID,
		Function:   FnClaim,
		Args:       []Arg{Address(claimer), U64(eventID)},
		Signer:     payer,
	})
}

func (a *Adapter) Admin(ctx context.Context) (string, error) {
	var admin string
	if err := a.read(ctx, FnAdmin, &admin); err != nil {
		return "", err
	}
	return admin, nil
}

func (a *Adapter) EventCount(ctx context.Context) (uint64, error) {
	var count uint64Value
	if err := a.read(ctx, FnEventCount, &count); err != nil {
		return 0, err
	}
	return uint64(count), nil
}

func (a *Adapter) EventIDs(ctx context.Context) ([]uint64, error) {
	var raw []uint64Value
	if err := a.read(ctx, FnEventIDs, &raw); err != nil {
		return nil, err
	}
	ids := make([]uint64, len(raw))
	for i, v := range raw {
		ids[i] = uint64(v)
	}
	return ids, nil
}

func (a *Adapter) EventDetails(ctx context.Context, eventID uint64) (*Event, error) {
	var event Event
	if err := a.read(ctx, FnEventDetails, &event, U64(eventID)); err != nil {
		return nil, err
	}
	return &event, nil
}

func (a *Adapter) MintedCount(ctx context.Context, eventID uint64) (uint64, error) {
	var count uint64Value
	if err := a.read(ctx, FnMintedCount, &count, U64(eventID)); err != nil {
		return 0, err
	}
	return uint64(count), nil
}

func (a *Adapter) invokeAsAdmin(ctx context.Context, function string, args ...Arg) (*TxResult, error) {
	if a.admin == nil {
		return nil, ErrAdminNotConfigured
	}
	return a.invoke(ctx, Invocation{
		ContractID: a.contractID,
		Function:   function,
		Args:       args,
		Signer:     a.admin,
	})
}

func (a *Adapter) invoke(ctx context.Context, inv Invocation) (res *TxResult, err error) {
	ctx, done := a.track(ctx, inv.Function)
	defer func() { done(err) }()

	res, err = a.client.Invoke(ctx, inv)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Adapter) read(ctx context.Context, function string, out any, args ...Arg) (err error) {
	ctx, done := a.track(ctx, function)
	defer func() { done(err) }()

	raw, err := a.client.Read(ctx, Invocation{
		ContractID: a.contractID,
		Function:   function,
		Args:       args,
		Source:     a.AdminAddress(),
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s result: %w", function, err)
	}
	return nil
}

func (a *Adapter) track(ctx context.Context, function string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "ledger."+function,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("ledger.contract_id", a.contractID),
			attribute.String("ledger.function", function),
		),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if a.observer != nil {
			a.observer.ObserveLedgerCall(function, time.Since(start), err)
		}
	}
}
