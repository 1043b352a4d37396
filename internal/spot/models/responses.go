package models

import "encoding/json"

// TxResponse is returned by every state-changing operation.
type TxResponse struct {
	TxHash         string          `json:"txHash"`
	SignedEnvelope string          `json:"signedEnvelope"`
	RPCResponse    json.RawMessage `json:"rpcResponse"`
}

// CreateEventResponse adds the assigned event id (best effort) and the
// resolved image URL.
type CreateEventResponse struct {
	TxResponse
	EventID  *uint64 `json:"eventId,omitempty"`
	ImageURL string  `json:"imageUrl"`
}

type MintedCountResponse struct {
	MintedCount uint64 `json:"mintedCount"`
}

type AdminResponse struct {
	Admin string `json:"admin"`
}

type EventCountResponse struct {
	EventCount uint64 `json:"eventCount"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// EventSummary is one entry of the on-chain listing.
type EventSummary struct {
	EventID     uint64 `json:"eventId"`
	Name        string `json:"name"`
	Date        uint64 `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	MaxSpots    uint32 `json:"maxSpots"`
	ClaimStart  uint64 `json:"claimStart"`
	ClaimEnd    uint64 `json:"claimEnd"`
	MetadataURI string `json:"metadataUri"`
	ImageURL    string `json:"imageUrl"`
	Creator     string `json:"creator"`
	MintedCount uint64 `json:"mintedCount"`
}

type EventsResponse struct {
	Events []EventSummary `json:"events"`
}
