package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Ledger,AuditRecorder,UploadCleaner

import (
	"context"

	"spot/internal/audit"
	"spot/internal/ledger"
	"spot/internal/upload"
)

// Ledger is the subset of the contract adapter the orchestrator drives.
type Ledger interface {
	AdminAddress() string
	ApproveCreator(ctx context.Context, creator, paymentReference string) (*ledger.TxResult, error)
	RevokeCreator(ctx context.Context, creator string) (*ledger.TxResult, error)
	CreateEvent(ctx context.Context, p ledger.EventParams) (*ledger.TxResult, error)
	Claim(ctx context.Context, payer *ledger.Keypair, claimer string, eventID uint64) (*ledger.TxResult, error)
	Admin(ctx context.Context) (string, error)
	EventCount(ctx context.Context) (uint64, error)
	MintedCount(ctx context.Context, eventID uint64) (uint64, error)
}

// AuditRecorder appends one record per attempted action. Implementations
// must not fail the caller.
type AuditRecorder interface {
	Record(ctx context.Context, rec audit.Record)
}

// UploadCleaner reverses an upload whose request did not succeed.
type UploadCleaner interface {
	Cleanup(asset *upload.Asset)
}
