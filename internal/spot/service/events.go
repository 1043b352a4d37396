package service

import (
	"context"

	"spot/internal/audit"
	"spot/internal/ledger"
	"spot/internal/spot/models"
	"spot/internal/upload"
	dErrors "spot/pkg/domain-errors"
)

// eventPayload is the audit payload of an accepted create-event attempt.
type eventPayload struct {
	*models.EventDraft
	Operator string  `json:"operator"`
	EventID  *uint64 `json:"eventId,omitempty"`
}

// rejectedEventPayload keeps the raw fields of an attempt that failed
// validation.
type rejectedEventPayload struct {
	*models.CreateEventRequest
	UploadedFile string `json:"uploadedFile,omitempty"`
	Operator     string `json:"operator"`
}

type claimPayload struct {
	Claimer string `json:"claimer"`
	EventID uint64 `json:"eventId"`
}

// CreateEvent submits a new event. asset is the image stored for this
// request, if any; it is removed on every failure path.
func (s *Service) CreateEvent(ctx context.Context, req *models.CreateEventRequest, asset *upload.Asset) (*models.CreateEventResponse, error) {
	operator := mockOperator
	if !s.mocked() {
		operator = s.ledger.AdminAddress()
	}

	var uploadedURL string
	if asset != nil {
		uploadedURL = asset.PublicURL
	}

	req.Normalize()
	draft, err := req.Validate(uploadedURL)
	if err != nil {
		s.cleanup(asset)
		rejected := rejectedEventPayload{CreateEventRequest: req, Operator: operator}
		if asset != nil {
			rejected.UploadedFile = asset.Filename
		}
		s.recordFailure(ctx, audit.ActionCreateEvent, rejected, err)
		return nil, err
	}
	payload := eventPayload{EventDraft: draft, Operator: operator}

	if s.mocked() {
		tx := s.mockResult("EVENT")
		s.recordSuccess(ctx, audit.ActionCreateEvent, payload, tx)
		return &models.CreateEventResponse{TxResponse: *tx, ImageURL: draft.ImageURL}, nil
	}

	if operator == "" {
		s.cleanup(asset)
		return nil, dErrors.New(dErrors.CodeConfiguration, msgAdminNotConfigured)
	}

	// The contract records the admin as the on-chain creator; the request
	// creator is validated and audited only.
	res, err := s.ledger.CreateEvent(ctx, ledger.EventParams{
		Creator:     operator,
		EventName:   draft.EventName,
		EventDate:   draft.EventDate,
		Location:    draft.Location,
		Description: draft.Description,
		MaxPoaps:    draft.MaxPoaps,
		ClaimStart:  draft.ClaimStart,
		ClaimEnd:    draft.ClaimEnd,
		MetadataURI: draft.MetadataURI,
		ImageURL:    draft.ImageURL,
	})
	if err != nil {
		s.cleanup(asset)
		s.recordFailure(ctx, audit.ActionCreateEvent, payload, err)
		return nil, ledgerError(err)
	}

	if count, err := s.ledger.EventCount(ctx); err != nil {
		s.logger.WarnContext(ctx, "unable to fetch event count after creation",
			"error", err,
			"tx_hash", res.TxHash,
		)
	} else {
		payload.EventID = &count
	}

	tx := toTxResponse(res)
	s.recordSuccess(ctx, audit.ActionCreateEvent, payload, tx)
	return &models.CreateEventResponse{
		TxResponse: *tx,
		EventID:    payload.EventID,
		ImageURL:   draft.ImageURL,
	}, nil
}

// Claim mints an attendance token for the claimer. The payer is the request
// override when present, else the configured default.
func (s *Service) Claim(ctx context.Context, req *models.ClaimRequest) (*models.TxResponse, error) {
	req.Normalize()
	eventID, err := req.Validate()
	if err != nil {
		return nil, err
	}
	payload := claimPayload{Claimer: req.Claimer, EventID: eventID}

	if s.mocked() {
		tx := s.mockResult("CLAIM")
		s.recordSuccess(ctx, audit.ActionClaim, payload, tx)
		return tx, nil
	}

	payer, err := s.claimPayer(req.PayerSecret)
	if err != nil {
		return nil, err
	}

	res, err := s.ledger.Claim(ctx, payer, req.Claimer, eventID)
	if err != nil {
		s.recordFailure(ctx, audit.ActionClaim, payload, err)
		return nil, ledgerError(err)
	}
	tx := toTxResponse(res)
	s.recordSuccess(ctx, audit.ActionClaim, payload, tx)
	return tx, nil
}

func (s *Service) claimPayer(override string) (*ledger.Keypair, error) {
	if override != "" {
		kp, err := ledger.ParseSecret(override)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, msgInvalidPayer)
		}
		return kp, nil
	}
	if s.claimSigner == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, msgClaimNoSigner)
	}
	return s.claimSigner, nil
}
