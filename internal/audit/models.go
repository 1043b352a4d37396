package audit

import (
	"encoding/json"
	"time"
)

// Action names the orchestrated operation an audit record describes.
type Action string

const (
	ActionApproveCreator Action = "approve_creator"
	ActionRevokeCreator  Action = "revoke_creator"
	ActionCreateEvent    Action = "create_event"
	ActionClaim          Action = "claim_poap"
	ActionGetAdmin       Action = "get_admin"
	ActionGetEventCount  Action = "get_event_count"
)

// Status is the outcome of an attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Record is one line of the audit log. It is written once and never mutated.
type Record struct {
	Timestamp      time.Time       `json:"timestamp"`
	Action         Action          `json:"action"`
	Status         Status          `json:"status"`
	TxHash         string          `json:"txHash,omitempty"`
	Payload        any             `json:"payload,omitempty"`
	RPCResponse    json.RawMessage `json:"rpcResponse,omitempty"`
	SignedEnvelope string          `json:"signedEnvelope,omitempty"`
	Error          string          `json:"error,omitempty"`
	RequestID      string          `json:"requestId,omitempty"`
}
