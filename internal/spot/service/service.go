// Package service orchestrates SPOT transactions: it validates requests,
// runs them against the ledger (or synthesizes mock results), records the
// audit trail and reverses uploads on failure.
package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spot/internal/audit"
	"spot/internal/ledger"
	"spot/internal/spot/metrics"
	"spot/internal/spot/models"
	"spot/internal/upload"
	dErrors "spot/pkg/domain-errors"
)

const (
	mockAdmin    = "MOCK-ADMIN"
	mockOperator = "mock-admin"

	msgAdminNotConfigured = "Admin credentials not configured"
	msgClaimNoSigner      = "claim payer secret not configured"
	msgInvalidPayer       = "Invalid payerSecret"
)

var mockRPCResponse = json.RawMessage(`{"status":"MOCK"}`)

// Service is the transaction orchestrator.
type Service struct {
	ledger      Ledger
	mode        models.Mode
	claimSigner *ledger.Keypair
	auditor     AuditRecorder
	cleaner     UploadCleaner
	logger      *slog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) {
		s.auditor = r
	}
}

func WithUploadCleaner(c UploadCleaner) Option {
	return func(s *Service) {
		s.cleaner = c
	}
}

// WithClaimSigner sets the default claim payer used when a request carries
// no override.
func WithClaimSigner(kp *ledger.Keypair) Option {
	return func(s *Service) {
		s.claimSigner = kp
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service. A ledger is required in live mode only.
func New(l Ledger, mode models.Mode, opts ...Option) (*Service, error) {
	if mode == models.ModeLive && l == nil {
		return nil, errors.New("ledger is required in live mode")
	}
	s := &Service{
		ledger: l,
		mode:   mode,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Mode reports the execution mode chosen at construction.
func (s *Service) Mode() models.Mode {
	return s.mode
}

func (s *Service) mocked() bool {
	return s.mode == models.ModeMock
}

// mockResult fabricates a time-based hash and base64 envelope for action.
func (s *Service) mockResult(action string) *models.TxResponse {
	ms := s.now().UnixMilli()
	envelope := fmt.Sprintf("MOCK-%s-ENVELOPE-%d", action, ms)
	return &models.TxResponse{
		TxHash:         fmt.Sprintf("MOCK-%s-%d", action, ms),
		SignedEnvelope: base64.StdEncoding.EncodeToString([]byte(envelope)),
		RPCResponse:    mockRPCResponse,
	}
}

func toTxResponse(res *ledger.TxResult) *models.TxResponse {
	return &models.TxResponse{
		TxHash:         res.TxHash,
		SignedEnvelope: res.EnvelopeXDR,
		RPCResponse:    res.RPCResponse,
	}
}

func (s *Service) recordSuccess(ctx context.Context, action audit.Action, payload any, tx *models.TxResponse) {
	rec := audit.Record{Action: action, Status: audit.StatusSuccess, Payload: payload}
	if tx != nil {
		rec.TxHash = tx.TxHash
		rec.SignedEnvelope = tx.SignedEnvelope
		if !s.mocked() {
			rec.RPCResponse = tx.RPCResponse
		}
	}
	s.record(ctx, rec)
}

func (s *Service) recordFailure(ctx context.Context, action audit.Action, payload any, err error) {
	s.record(ctx, audit.Record{
		Action:  action,
		Status:  audit.StatusError,
		Payload: payload,
		Error:   err.Error(),
	})
}

func (s *Service) record(ctx context.Context, rec audit.Record) {
	s.metrics.IncrementOutcome(string(rec.Action), string(rec.Status))
	if s.auditor != nil {
		s.auditor.Record(ctx, rec)
	}
}

func (s *Service) cleanup(asset *upload.Asset) {
	if s.cleaner != nil && asset != nil {
		s.cleaner.Cleanup(asset)
	}
}

// ledgerError classifies an adapter failure. The adapter's message is kept
// so callers see what the network reported.
func ledgerError(err error) error {
	if errors.Is(err, ledger.ErrAdminNotConfigured) {
		return dErrors.Wrap(err, dErrors.CodeConfiguration, msgAdminNotConfigured)
	}
	if errors.Is(err, ledger.ErrInvalidAddress) {
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	return dErrors.Wrap(err, dErrors.CodeLedger, err.Error())
}
