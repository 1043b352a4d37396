package service

import (
	"context"

	"spot/internal/audit"
	"spot/internal/spot/models"
)

// ApproveCreator authorizes a wallet to create events.
func (s *Service) ApproveCreator(ctx context.Context, req *models.ApproveCreatorRequest) (*models.TxResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.mocked() {
		tx := s.mockResult("APPROVE")
		s.recordSuccess(ctx, audit.ActionApproveCreator, req, tx)
		return tx, nil
	}

	res, err := s.ledger.ApproveCreator(ctx, req.Creator, req.PaymentReference)
	if err != nil {
		s.recordFailure(ctx, audit.ActionApproveCreator, req, err)
		return nil, ledgerError(err)
	}
	tx := toTxResponse(res)
	s.recordSuccess(ctx, audit.ActionApproveCreator, req, tx)
	return tx, nil
}

// RevokeCreator withdraws a creator approval.
func (s *Service) RevokeCreator(ctx context.Context, req *models.RevokeCreatorRequest) (*models.TxResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.mocked() {
		tx := s.mockResult("REVOKE")
		s.recordSuccess(ctx, audit.ActionRevokeCreator, req, tx)
		return tx, nil
	}

	res, err := s.ledger.RevokeCreator(ctx, req.Creator)
	if err != nil {
		s.recordFailure(ctx, audit.ActionRevokeCreator, req, err)
		return nil, ledgerError(err)
	}
	tx := toTxResponse(res)
	s.recordSuccess(ctx, audit.ActionRevokeCreator, req, tx)
	return tx, nil
}
