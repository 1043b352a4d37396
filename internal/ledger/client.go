// Package ledger adapts the Soroban contract-call capability to the SPOT
// contract operations. Adapter shapes invocations and decodes results;
// Client builds, signs and submits envelopes.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ArgType is the contract value type of an invocation argument.
type ArgType string

const (
	ArgAddress ArgType = "address"
	ArgString  ArgType = "string"
	ArgU32     ArgType = "u32"
	ArgU64     ArgType = "u64"
)

// Arg is one typed contract argument.
type Arg struct {
	Type  ArgType `json:"type"`
	Value any     `json:"value"`
}

func Address(v string) Arg { return Arg{Type: ArgAddress, Value: v} }
func String(v string) Arg  { return Arg{Type: ArgString, Value: v} }
func U32(v uint32) Arg     { return Arg{Type: ArgU32, Value: v} }

// U64 values travel as decimal strings so they survive JSON number precision.
func U64(v uint64) Arg { return Arg{Type: ArgU64, Value: strconv.FormatUint(v, 10)} }

// Invocation describes one contract call. Signer is required for state
// changing calls; reads use Source as the simulated source account.
type Invocation struct {
	ContractID string
	Function   string
	Args       []Arg
	Signer     *Keypair
	Source     string
}

// TxResult is what a submitted transaction yields.
type TxResult struct {
	TxHash      string          `json:"txHash"`
	EnvelopeXDR string          `json:"envelopeXdr"`
	RPCResponse json.RawMessage `json:"rpcResponse,omitempty"`
}

// Client is the external capability: it builds, signs and submits envelopes
// and simulates read-only calls.
type Client interface {
	Invoke(ctx context.Context, inv Invocation) (*TxResult, error)
	Read(ctx context.Context, inv Invocation) (json.RawMessage, error)
}

// Event is the on-chain event record as decoded by the contract bindings.
type Event struct {
	EventID     uint64 `json:"eventId"`
	Creator     string `json:"creator"`
	EventName   string `json:"eventName"`
	EventDate   uint64 `json:"eventDate"`
	Location    string `json:"location"`
	Description string `json:"description"`
	MaxPoaps    uint32 `json:"maxPoaps"`
	ClaimStart  uint64 `json:"claimStart"`
	ClaimEnd    uint64 `json:"claimEnd"`
	MetadataURI string `json:"metadataUri"`
	ImageURL    string `json:"imageUrl"`
}

// UnmarshalJSON accepts u64 fields encoded either as numbers or decimal
// strings, and field names in camelCase or snake_case.
func (e *Event) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	byKey := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		byKey[canonicalKey(k)] = v
	}

	var (
		ev                                          Event
		eventID, eventDate, claimStart, claimEnd, n uint64Value
	)
	targets := []struct {
		key string
		dst any
	}{
		{"eventid", &eventID},
		{"creator", &ev.Creator},
		{"eventname", &ev.EventName},
		{"eventdate", &eventDate},
		{"location", &ev.Location},
		{"description", &ev.Description},
		{"maxpoaps", &n},
		{"claimstart", &claimStart},
		{"claimend", &claimEnd},
		{"metadatauri", &ev.MetadataURI},
		{"imageurl", &ev.ImageURL},
	}
	for _, t := range targets {
		raw, ok := byKey[t.key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, t.dst); err != nil {
			return fmt.Errorf("decode event %s: %w", t.key, err)
		}
	}
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("decode event maxpoaps: %d overflows u32", n)
	}

	ev.EventID = uint64(eventID)
	ev.EventDate = uint64(eventDate)
	ev.MaxPoaps = uint32(n)
	ev.ClaimStart = uint64(claimStart)
	ev.ClaimEnd = uint64(claimEnd)
	*e = ev
	return nil
}

func canonicalKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(k, "_", ""))
}

type uint64Value uint64

func (u *uint64Value) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err2 := json.Unmarshal(data, &s); err2 != nil {
			return fmt.Errorf("decode u64: %w", err)
		}
		n = json.Number(s)
	}
	v, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return fmt.Errorf("decode u64 %q: %w", n, err)
	}
	*u = uint64Value(v)
	return nil
}
