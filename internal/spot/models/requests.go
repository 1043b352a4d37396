package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	dErrors "spot/pkg/domain-errors"
)

const (
	msgApproveRequired = "creator and paymentReference are required"
	msgRevokeRequired  = "creator is required"
	msgEventRequired   = "All event fields are required (image file or URL must be provided)"
	msgClaimRequired   = "claimer and eventId are required"
	msgInvalidEventID  = "Invalid eventId"
)

// NumericField accepts a JSON number or a numeric string and keeps the raw
// text so validation can report missing vs malformed uniformly.
type NumericField struct {
	Raw string
	Set bool
}

func (n *NumericField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NumericField{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = NumericField{Raw: strings.TrimSpace(s), Set: true}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected number: %w", err)
	}
	*n = NumericField{Raw: num.String(), Set: true}
	return nil
}

func (n NumericField) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}

// Uint64 parses the field as a non-negative integer.
func (n NumericField) Uint64() (uint64, bool) {
	if !n.Set || n.Raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(n.Raw, 10, 64)
	return v, err == nil
}

// ParseEventID validates a path or body event identifier.
func ParseEventID(raw string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, msgInvalidEventID)
	}
	return v, nil
}

// ApproveCreatorRequest authorizes a wallet to create events.
type ApproveCreatorRequest struct {
	Creator          string `json:"creator"`
	PaymentReference string `json:"paymentReference"`
}

func (r *ApproveCreatorRequest) Normalize() {
	r.Creator = strings.TrimSpace(r.Creator)
	r.PaymentReference = strings.TrimSpace(r.PaymentReference)
}

func (r *ApproveCreatorRequest) Validate() error {
	if r.Creator == "" || r.PaymentReference == "" {
		return dErrors.New(dErrors.CodeValidation, msgApproveRequired)
	}
	return nil
}

// RevokeCreatorRequest withdraws a creator approval.
type RevokeCreatorRequest struct {
	Creator string `json:"creator"`
}

func (r *RevokeCreatorRequest) Normalize() {
	r.Creator = strings.TrimSpace(r.Creator)
}

func (r *RevokeCreatorRequest) Validate() error {
	if r.Creator == "" {
		return dErrors.New(dErrors.CodeValidation, msgRevokeRequired)
	}
	return nil
}

// ClaimRequest mints an attendance token for Claimer. PayerSecret overrides
// the configured claim signer for this request only.
type ClaimRequest struct {
	Claimer     string       `json:"claimer"`
	EventID     NumericField `json:"eventId"`
	PayerSecret string       `json:"payerSecret,omitempty"`
}

func (r *ClaimRequest) Normalize() {
	r.Claimer = strings.TrimSpace(r.Claimer)
	r.PayerSecret = strings.TrimSpace(r.PayerSecret)
}

// Validate returns the parsed event id.
func (r *ClaimRequest) Validate() (uint64, error) {
	eventID, ok := r.EventID.Uint64()
	if r.Claimer == "" || !ok {
		return 0, dErrors.New(dErrors.CodeValidation, msgClaimRequired)
	}
	return eventID, nil
}

// CreateEventRequest carries the raw multipart form fields. Numeric fields
// stay strings until Validate so malformed input is a validation failure
// rather than a decode failure.
type CreateEventRequest struct {
	Creator     string `json:"creator"`
	EventName   string `json:"eventName"`
	EventDate   string `json:"eventDate"`
	Location    string `json:"location"`
	Description string `json:"description"`
	MaxPoaps    string `json:"maxPoaps"`
	ClaimStart  string `json:"claimStart"`
	ClaimEnd    string `json:"claimEnd"`
	MetadataURI string `json:"metadataUri"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

func (r *CreateEventRequest) Normalize() {
	for _, f := range []*string{
		&r.Creator, &r.EventName, &r.EventDate, &r.Location, &r.Description,
		&r.MaxPoaps, &r.ClaimStart, &r.ClaimEnd, &r.MetadataURI, &r.ImageURL,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// EventDraft is a validated create-event request with its resolved image URL.
type EventDraft struct {
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

// Validate checks every required field and resolves the image: an uploaded
// file URL wins over the caller-supplied URL.
func (r *CreateEventRequest) Validate(uploadedURL string) (*EventDraft, error) {
	imageURL := r.ImageURL
	if uploadedURL != "" {
		imageURL = uploadedURL
	}

	eventDate, errDate := strconv.ParseUint(r.EventDate, 10, 64)
	maxPoaps, errMax := strconv.ParseUint(r.MaxPoaps, 10, 32)
	claimStart, errStart := strconv.ParseUint(r.ClaimStart, 10, 64)
	claimEnd, errEnd := strconv.ParseUint(r.ClaimEnd, 10, 64)

	if r.Creator == "" || r.EventName == "" || r.Location == "" || r.Description == "" ||
		r.MetadataURI == "" || imageURL == "" ||
		errDate != nil || errMax != nil || errStart != nil || errEnd != nil {
		return nil, dErrors.New(dErrors.CodeValidation, msgEventRequired)
	}
	if maxPoaps < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "maxPoaps must be at least 1")
	}
	if claimStart >= claimEnd {
		return nil, dErrors.New(dErrors.CodeValidation, "claimStart must be before claimEnd")
	}

	return &EventDraft{
		Creator:     r.Creator,
		EventName:   r.EventName,
		EventDate:   eventDate,
		Location:    r.Location,
		Description: r.Description,
		MaxPoaps:    uint32(maxPoaps),
		ClaimStart:  claimStart,
		ClaimEnd:    claimEnd,
		MetadataURI: r.MetadataURI,
		ImageURL:    imageURL,
	}, nil
}
