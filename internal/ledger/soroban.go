package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stellar/go-stellar-sdk/clients/rpcclient"
	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"
	"github.com/stellar/go-stellar-sdk/txnbuild"
	"github.com/stellar/go-stellar-sdk/xdr"
)

const (
	sendStatusError         = "ERROR"
	sendStatusTryAgainLater = "TRY_AGAIN_LATER"

	defaultTxValidity = 5 * time.Minute
)

// RPC is the slice of the Soroban RPC API the client needs. *rpcclient.Client
// satisfies it.
type RPC interface {
	LoadAccount(ctx context.Context, address string) (txnbuild.Account, error)
	SimulateTransaction(ctx context.Context, req protocol.SimulateTransactionRequest) (protocol.SimulateTransactionResponse, error)
	SendTransaction(ctx context.Context, req protocol.SendTransactionRequest) (protocol.SendTransactionResponse, error)
	PollTransaction(ctx context.Context, hash string) (protocol.GetTransactionResponse, error)
}

var _ RPC = (*rpcclient.Client)(nil)

// SorobanClient builds contract invocations with txnbuild, prepares them
// through simulateTransaction, signs locally and submits them.
type SorobanClient struct {
	rpc               RPC
	networkPassphrase string
	timeout           time.Duration
	validity          time.Duration
}

// SorobanOption configures a SorobanClient.
type SorobanOption func(*SorobanClient)

// WithTxValidity bounds how long a submitted envelope stays valid.
func WithTxValidity(d time.Duration) SorobanOption {
	return func(c *SorobanClient) {
		c.validity = d
	}
}

// NewSorobanClient wraps rpc. timeout bounds each Invoke or Read end to end,
// including confirmation polling; zero leaves it to the caller's context.
func NewSorobanClient(rpc RPC, networkPassphrase string, timeout time.Duration, opts ...SorobanOption) *SorobanClient {
	c := &SorobanClient{
		rpc:               rpc,
		networkPassphrase: networkPassphrase,
		timeout:           timeout,
		validity:          defaultTxValidity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke simulates the call, applies the returned footprint, auth and
// resource fee, signs with inv.Signer and waits for the ledger to settle it.
func (c *SorobanClient) Invoke(ctx context.Context, inv Invocation) (*TxResult, error) {
	if inv.Signer == nil {
		return nil, errors.New("invoke requires a signer")
	}
	ctx, cancel := c.bound(ctx)
	defer cancel()

	op, err := invokeOperation(inv)
	if err != nil {
		return nil, err
	}
	source := inv.Signer.Address()
	seq, err := c.sequence(ctx, source)
	if err != nil {
		return nil, err
	}
	sim, err := c.simulate(ctx, inv.Function, source, seq, op)
	if err != nil {
		return nil, err
	}
	if err := applySimulation(op, sim); err != nil {
		return nil, fmt.Errorf("prepare %s: %w", inv.Function, err)
	}

	tx, err := c.build(source, seq, op)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", inv.Function, err)
	}
	tx, err = tx.Sign(c.networkPassphrase, inv.Signer.full)
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", inv.Function, err)
	}
	envelope, err := tx.Base64()
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", inv.Function, err)
	}
	hash, err := tx.HashHex(c.networkPassphrase)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", inv.Function, err)
	}

	sent, err := c.rpc.SendTransaction(ctx, protocol.SendTransactionRequest{Transaction: envelope})
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", inv.Function, err)
	}
	switch sent.Status {
	case sendStatusError:
		return nil, fmt.Errorf("send %s: transaction rejected: %s", inv.Function, sent.ErrorResultXDR)
	case sendStatusTryAgainLater:
		return nil, fmt.Errorf("send %s: rpc busy, try again later", inv.Function)
	}
	if sent.Hash != "" {
		hash = sent.Hash
	}

	final, err := c.rpc.PollTransaction(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("confirm %s %s: %w", inv.Function, hash, err)
	}
	if final.Status != protocol.TransactionStatusSuccess {
		return nil, fmt.Errorf("%s transaction %s finished with status %s", inv.Function, hash, final.Status)
	}

	raw, err := json.Marshal(final)
	if err != nil {
		return nil, fmt.Errorf("encode %s response: %w", inv.Function, err)
	}
	return &TxResult{TxHash: hash, EnvelopeXDR: envelope, RPCResponse: raw}, nil
}

// Read simulates a call from inv.Source and returns its return value as JSON.
func (c *SorobanClient) Read(ctx context.Context, inv Invocation) (json.RawMessage, error) {
	source := inv.Source
	if source == "" && inv.Signer != nil {
		source = inv.Signer.Address()
	}
	if source == "" {
		return nil, errors.New("read requires a source account")
	}
	ctx, cancel := c.bound(ctx)
	defer cancel()

	op, err := invokeOperation(inv)
	if err != nil {
		return nil, err
	}
	seq, err := c.sequence(ctx, source)
	if err != nil {
		return nil, err
	}
	sim, err := c.simulate(ctx, inv.Function, source, seq, op)
	if err != nil {
		return nil, err
	}

	ret := sim.Results[0].ReturnValueXDR
	if ret == nil {
		return nil, fmt.Errorf("simulate %s: no return value", inv.Function)
	}
	var val xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(*ret, &val); err != nil {
		return nil, fmt.Errorf("decode %s return value: %w", inv.Function, err)
	}
	native, err := nativeValue(val)
	if err != nil {
		return nil, fmt.Errorf("decode %s return value: %w", inv.Function, err)
	}
	return json.Marshal(native)
}

func (c *SorobanClient) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *SorobanClient) sequence(ctx context.Context, address string) (int64, error) {
	account, err := c.rpc.LoadAccount(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("load account %s: %w", address, err)
	}
	seq, err := account.GetSequenceNumber()
	if err != nil {
		return 0, fmt.Errorf("load account %s: %w", address, err)
	}
	return seq, nil
}

// build assembles a one-operation envelope. txnbuild adds the resource fee
// carried in op.Ext on top of the inclusion fee.
func (c *SorobanClient) build(source string, seq int64, op *txnbuild.InvokeHostFunction) (*txnbuild.Transaction, error) {
	return txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: source, Sequence: seq},
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(int64(c.validity.Seconds())),
		},
	})
}

func (c *SorobanClient) simulate(ctx context.Context, function, source string, seq int64, op *txnbuild.InvokeHostFunction) (protocol.SimulateTransactionResponse, error) {
	var none protocol.SimulateTransactionResponse
	tx, err := c.build(source, seq, op)
	if err != nil {
		return none, fmt.Errorf("build %s: %w", function, err)
	}
	envelope, err := tx.Base64()
	if err != nil {
		return none, fmt.Errorf("encode %s: %w", function, err)
	}

	sim, err := c.rpc.SimulateTransaction(ctx, protocol.SimulateTransactionRequest{Transaction: envelope})
	if err != nil {
		return none, fmt.Errorf("simulate %s: %w", function, err)
	}
	if sim.Error != "" {
		return none, fmt.Errorf("simulate %s: %s", function, sim.Error)
	}
	if len(sim.Results) != 1 {
		return none, fmt.Errorf("simulate %s: expected 1 result, got %d", function, len(sim.Results))
	}
	return sim, nil
}

func invokeOperation(inv Invocation) (*txnbuild.InvokeHostFunction, error) {
	contract, err := scAddress(inv.ContractID)
	if err != nil {
		return nil, fmt.Errorf("contract id: %w", err)
	}
	args := make([]xdr.ScVal, 0, len(inv.Args))
	for i, arg := range inv.Args {
		val, err := arg.scVal()
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", inv.Function, i, err)
		}
		args = append(args, val)
	}
	return &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contract,
				FunctionName:    xdr.ScSymbol(inv.Function),
				Args:            args,
			},
		},
	}, nil
}

func applySimulation(op *txnbuild.InvokeHostFunction, sim protocol.SimulateTransactionResponse) error {
	var data xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(sim.TransactionDataXDR, &data); err != nil {
		return fmt.Errorf("decode transaction data: %w", err)
	}
	op.Ext = xdr.TransactionExt{V: 1, SorobanData: &data}

	op.Auth = nil
	if entries := sim.Results[0].AuthXDR; entries != nil {
		for _, b64 := range *entries {
			var auth xdr.SorobanAuthorizationEntry
			if err := xdr.SafeUnmarshalBase64(b64, &auth); err != nil {
				return fmt.Errorf("decode auth entry: %w", err)
			}
			op.Auth = append(op.Auth, auth)
		}
	}
	return nil
}
