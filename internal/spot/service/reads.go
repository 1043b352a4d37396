package service

import (
	"context"

	"spot/internal/audit"
	dErrors "spot/pkg/domain-errors"
)

type adminPayload struct {
	Admin string `json:"admin"`
}

type eventCountPayload struct {
	EventCount uint64 `json:"eventCount"`
}

// Admin returns the contract admin address.
func (s *Service) Admin(ctx context.Context) (string, error) {
	if s.mocked() {
		return mockAdmin, nil
	}
	admin, err := s.ledger.Admin(ctx)
	if err != nil {
		s.recordFailure(ctx, audit.ActionGetAdmin, nil, err)
		return "", ledgerError(err)
	}
	s.recordSuccess(ctx, audit.ActionGetAdmin, adminPayload{Admin: admin}, nil)
	return admin, nil
}

// EventCount returns the number of events created so far.
func (s *Service) EventCount(ctx context.Context) (uint64, error) {
	if s.mocked() {
		return 0, nil
	}
	count, err := s.ledger.EventCount(ctx)
	if err != nil {
		s.recordFailure(ctx, audit.ActionGetEventCount, nil, err)
		return 0, ledgerError(err)
	}
	s.recordSuccess(ctx, audit.ActionGetEventCount, eventCountPayload{EventCount: count}, nil)
	return count, nil
}

// MintedCount returns how many tokens were claimed for one event.
func (s *Service) MintedCount(ctx context.Context, eventID uint64) (uint64, error) {
	if s.mocked() {
		return 0, nil
	}
	if s.ledger.AdminAddress() == "" {
		return 0, dErrors.New(dErrors.CodeConfiguration, msgAdminNotConfigured)
	}
	count, err := s.ledger.MintedCount(ctx, eventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch minted count", "event_id", eventID, "error", err)
		return 0, ledgerError(err)
	}
	return count, nil
}
