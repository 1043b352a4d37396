// Package handler exposes the SPOT HTTP surface.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spot/internal/platform/middleware"
	"spot/internal/spot/models"
	"spot/internal/upload"
	dErrors "spot/pkg/domain-errors"
	"spot/pkg/platform/httputil"
)

// Orchestrator runs the state-changing actions and single-value reads.
type Orchestrator interface {
	ApproveCreator(ctx context.Context, req *models.ApproveCreatorRequest) (*models.TxResponse, error)
	RevokeCreator(ctx context.Context, req *models.RevokeCreatorRequest) (*models.TxResponse, error)
	CreateEvent(ctx context.Context, req *models.CreateEventRequest, asset *upload.Asset) (*models.CreateEventResponse, error)
	Claim(ctx context.Context, req *models.ClaimRequest) (*models.TxResponse, error)
	Admin(ctx context.Context) (string, error)
	EventCount(ctx context.Context) (uint64, error)
	MintedCount(ctx context.Context, eventID uint64) (uint64, error)
}

// EventLister builds the on-chain listing.
type EventLister interface {
	ListEvents(ctx context.Context, creator string) ([]models.EventSummary, error)
}

// Uploader stores the optional event image.
type Uploader interface {
	Accept(src io.Reader, originalName, mimeType, origin string) (*upload.Asset, error)
	MaxBytes() int64
}

// Handler serves the SPOT endpoints.
type Handler struct {
	service Orchestrator
	events  EventLister
	uploads Uploader
	logger  *slog.Logger
}

// New creates a Handler.
func New(service Orchestrator, events EventLister, uploads Uploader, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		events:  events,
		uploads: uploads,
		logger:  logger,
	}
}

// Register mounts the SPOT routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/creators/approve", h.handleApproveCreator)
	r.Post("/creators/revoke", h.handleRevokeCreator)

	r.Post("/events/create", h.handleCreateEvent)
	r.Post("/events/claim", h.handleClaim)
	r.Get("/events/onchain", h.handleListEvents)
	r.Get("/events/{eventId}/minted-count", h.handleMintedCount)

	r.Get("/contract/admin", h.handleAdmin)
	r.Get("/contract/event-count", h.handleEventCount)
}

func (h *Handler) handleApproveCreator(w http.ResponseWriter, r *http.Request) {
	var req models.ApproveCreatorRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.ApproveCreator(r.Context(), &req)
	if err != nil {
		h.fail(w, r, "approve creator failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleRevokeCreator(w http.ResponseWriter, r *http.Request) {
	var req models.RevokeCreatorRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.RevokeCreator(r.Context(), &req)
	if err != nil {
		h.fail(w, r, "revoke creator failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req models.ClaimRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.Claim(r.Context(), &req)
	if err != nil {
		h.fail(w, r, "claim failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListEvents(r.Context(), r.URL.Query().Get("creator"))
	if err != nil {
		h.fail(w, r, "list events failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.EventsResponse{Events: events})
}

func (h *Handler) handleMintedCount(w http.ResponseWriter, r *http.Request) {
	eventID, err := models.ParseEventID(chi.URLParam(r, "eventId"))
	if err != nil {
		h.fail(w, r, "minted count failed", err)
		return
	}
	count, err := h.service.MintedCount(r.Context(), eventID)
	if err != nil {
		h.fail(w, r, "minted count failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.MintedCountResponse{MintedCount: count})
}

func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := h.service.Admin(r.Context())
	if err != nil {
		h.fail(w, r, "read admin failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.AdminResponse{Admin: admin})
}

func (h *Handler) handleEventCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.EventCount(r.Context())
	if err != nil {
		h.fail(w, r, "read event count failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.EventCountResponse{EventCount: count})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httputil.DecodeJSON(r, v); err != nil {
		h.fail(w, r, "invalid request body", err)
		return false
	}
	return true
}

// fail logs at warn for client errors and error otherwise, then writes the
// error envelope.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"path", r.URL.Path,
		"error", err.Error(),
	}
	if dErrors.Is(err, dErrors.CodeValidation) || dErrors.Is(err, dErrors.CodeBadRequest) {
		h.logger.WarnContext(ctx, msg, attrs...)
	} else {
		h.logger.ErrorContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
