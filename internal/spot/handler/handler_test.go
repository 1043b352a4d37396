package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"spot/internal/audit"
	"spot/internal/ledger"
	"spot/internal/platform/middleware"
	"spot/internal/spot/aggregator"
	"spot/internal/spot/models"
	"spot/internal/spot/service"
	"spot/internal/spot/service/mocks"
	"spot/internal/upload"
	"spot/pkg/testutil"
)

// =============================================================================
// Handler Test Suite
// =============================================================================
// Requests go through a chi router wired to the real orchestrator, upload
// manager and audit publisher. The ledger is a gomock double so live-mode
// tests can prove which contract calls happen.

type HandlerSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockLedger *mocks.MockLedger
	store      *audit.InMemoryStore
	uploadDir  string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockLedger = mocks.NewMockLedger(s.ctrl)
	s.store = audit.NewInMemoryStore()
	s.uploadDir = s.T().TempDir()
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) router(mode models.Mode, maxBytes int64, opts ...service.Option) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uploads, err := upload.NewManager(s.uploadDir, maxBytes, "", logger)
	s.Require().NoError(err)

	opts = append([]service.Option{
		service.WithLogger(logger),
		service.WithAuditRecorder(audit.NewPublisher(logger, []audit.Store{s.store})),
		service.WithUploadCleaner(uploads),
	}, opts...)
	svc, err := service.New(s.mockLedger, mode, opts...)
	s.Require().NoError(err)

	agg, err := aggregator.New(nil, models.ModeMock)
	s.Require().NoError(err)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	New(svc, agg, uploads, logger).Register(r)
	return r
}

func (s *HandlerSuite) do(h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := testutil.DoRequest(h, req)
	return rec, testutil.DecodeBody(s.T(), rec)
}

func (s *HandlerSuite) jsonRequest(path, body string) *http.Request {
	return testutil.NewJSONRequest(s.T(), path, body)
}

func (s *HandlerSuite) createRequest(fields map[string]string, files ...testutil.File) *http.Request {
	return testutil.NewMultipartRequest(s.T(), "/events/create", fields, files...)
}

func meetupFields() map[string]string {
	return map[string]string{
		"creator":     "GCREATOR",
		"eventName":   "Meetup",
		"eventDate":   "1700000000",
		"location":    "Bogotá",
		"description": "x",
		"maxPoaps":    "50",
		"claimStart":  "1700000000",
		"claimEnd":    "1700100000",
		"metadataUri": "ipfs://m",
		"imageUrl":    "https://x/y.png",
	}
}

func (s *HandlerSuite) uploadedFiles() []string {
	entries, err := os.ReadDir(s.uploadDir)
	s.Require().NoError(err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (s *HandlerSuite) assertMockTx(body map[string]any, prefix string) {
	hash, _ := body["txHash"].(string)
	s.True(strings.HasPrefix(hash, prefix), hash)
	envelope, _ := body["signedEnvelope"].(string)
	_, err := base64.StdEncoding.DecodeString(envelope)
	s.NoError(err)
	s.Equal(map[string]any{"status": "MOCK"}, body["rpcResponse"])
}

// =============================================================================
// Mock mode
// =============================================================================

func (s *HandlerSuite) TestMockModeActionsAuditOnce() {
	cases := []struct {
		name   string
		req    func() *http.Request
		prefix string
		action audit.Action
	}{
		{"approve", func() *http.Request {
			return s.jsonRequest("/creators/approve", `{"creator":"GA","paymentReference":"p-1"}`)
		}, "MOCK-APPROVE-", audit.ActionApproveCreator},
		{"revoke", func() *http.Request {
			return s.jsonRequest("/creators/revoke", `{"creator":"GA"}`)
		}, "MOCK-REVOKE-", audit.ActionRevokeCreator},
		{"create", func() *http.Request {
			return s.createRequest(meetupFields())
		}, "MOCK-EVENT-", audit.ActionCreateEvent},
		{"claim", func() *http.Request {
			return s.jsonRequest("/events/claim", `{"claimer":"GB","eventId":1}`)
		}, "MOCK-CLAIM-", audit.ActionClaim},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.store = audit.NewInMemoryStore()
			h := s.router(models.ModeMock, 1024)

			rec, body := s.do(h, tc.req())
			s.Equal(http.StatusOK, rec.Code)
			s.assertMockTx(body, tc.prefix)

			records := s.store.Records()
			s.Require().Len(records, 1)
			s.Equal(tc.action, records[0].Action)
			s.Equal(audit.StatusSuccess, records[0].Status)
			s.NotEmpty(records[0].RequestID)
		})
	}
}

func (s *HandlerSuite) TestCreateEventMeetupScenario() {
	h := s.router(models.ModeMock, 1024)
	rec, body := s.do(h, s.createRequest(meetupFields()))

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("https://x/y.png", body["imageUrl"])
	s.True(strings.HasPrefix(body["txHash"].(string), "MOCK-EVENT-"))
	s.NotContains(body, "eventId")
}

func (s *HandlerSuite) TestCreateEventUploadedFileWins() {
	h := s.router(models.ModeMock, 1024)
	req := s.createRequest(meetupFields(), testutil.File{Field: "image", Name: "My Poster.PNG", ContentType: "image/png", Data: []byte("png")})
	req.Host = "spot.test"

	rec, body := s.do(h, req)
	s.Require().Equal(http.StatusOK, rec.Code)

	files := s.uploadedFiles()
	s.Require().Len(files, 1)
	s.True(strings.HasSuffix(files[0], "-my-poster.png"), files[0])
	s.Equal("http://spot.test/uploads/"+files[0], body["imageUrl"])
}

func (s *HandlerSuite) TestCreateEventValidationRemovesUpload() {
	h := s.router(models.ModeMock, 1024)
	fields := meetupFields()
	fields["maxPoaps"] = "NaN"

	rec, body := s.do(h, s.createRequest(fields, testutil.File{Field: "image", Name: "p.png", ContentType: "image/png", Data: []byte("png")}))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("All event fields are required (image file or URL must be provided)", body["error"])
	s.Empty(s.uploadedFiles())

	records := s.store.Records()
	s.Require().Len(records, 1)
	s.Equal(audit.StatusError, records[0].Status)
}

func (s *HandlerSuite) TestCreateEventRejectsUploads() {
	s.Run("non-image type", func() {
		h := s.router(models.ModeMock, 1024)
		rec, body := s.do(h, s.createRequest(meetupFields(), testutil.File{Field: "image", Name: "a.txt", ContentType: "text/plain", Data: []byte("hi")}))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Image upload failed: unexpected file", body["error"])
	})

	s.Run("unexpected field", func() {
		h := s.router(models.ModeMock, 1024)
		rec, body := s.do(h, s.createRequest(meetupFields(), testutil.File{Field: "banner", Name: "a.png", ContentType: "image/png", Data: []byte("hi")}))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Image upload failed: unexpected file", body["error"])
	})

	s.Run("oversized file", func() {
		h := s.router(models.ModeMock, 8)
		rec, body := s.do(h, s.createRequest(meetupFields(), testutil.File{Field: "image", Name: "a.png", ContentType: "image/png", Data: bytes.Repeat([]byte("x"), 64)}))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Image upload exceeded size limit", body["error"])
		s.Empty(s.uploadedFiles())
	})

	s.Empty(s.store.Records())
}

func (s *HandlerSuite) TestMalformedJSONIsNotAudited() {
	h := s.router(models.ModeMock, 1024)
	for _, path := range []string{"/creators/approve", "/creators/revoke", "/events/claim"} {
		rec, body := s.do(h, s.jsonRequest(path, `{"creator":`))
		s.Equal(http.StatusBadRequest, rec.Code, path)
		s.Equal("Invalid JSON payload", body["error"])
	}
	s.Empty(s.store.Records())
}

func (s *HandlerSuite) TestMissingFields() {
	h := s.router(models.ModeMock, 1024)

	rec, body := s.do(h, s.jsonRequest("/creators/approve", `{"creator":"GA"}`))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("creator and paymentReference are required", body["error"])

	rec, body = s.do(h, s.jsonRequest("/creators/revoke", `{}`))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("creator is required", body["error"])

	rec, body = s.do(h, s.jsonRequest("/events/claim", `{"claimer":"GB","eventId":"abc"}`))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("claimer and eventId are required", body["error"])
}

func (s *HandlerSuite) TestMockReads() {
	h := s.router(models.ModeMock, 1024)

	_, body := s.do(h, httptest.NewRequest(http.MethodGet, "/contract/admin", nil))
	s.Equal("MOCK-ADMIN", body["admin"])

	_, body = s.do(h, httptest.NewRequest(http.MethodGet, "/contract/event-count", nil))
	s.Equal(float64(0), body["eventCount"])

	_, body = s.do(h, httptest.NewRequest(http.MethodGet, "/events/5/minted-count", nil))
	s.Equal(float64(0), body["mintedCount"])

	_, body = s.do(h, httptest.NewRequest(http.MethodGet, "/events/onchain?creator=GA", nil))
	s.Equal([]any{}, body["events"])
}

func (s *HandlerSuite) TestMintedCountInvalidID() {
	h := s.router(models.ModeMock, 1024)
	rec := testutil.DoRequest(h, httptest.NewRequest(http.MethodGet, "/events/abc/minted-count", nil))
	testutil.AssertError(s.T(), rec, http.StatusBadRequest, "Invalid eventId")
}

// =============================================================================
// Live mode
// =============================================================================

func (s *HandlerSuite) TestClaimWithoutSignerNeverCallsLedger() {
	h := s.router(models.ModeLive, 1024)

	rec := testutil.DoRequest(h, s.jsonRequest("/events/claim", `{"claimer":"GB","eventId":"2"}`))
	testutil.AssertError(s.T(), rec, http.StatusInternalServerError, "claim payer secret not configured")
}

func (s *HandlerSuite) TestLiveLedgerFailure() {
	h := s.router(models.ModeLive, 1024)
	s.mockLedger.EXPECT().ApproveCreator(gomock.Any(), "GA", "p-1").Return(nil, errors.New("tx_bad_auth"))

	rec, body := s.do(h, s.jsonRequest("/creators/approve", `{"creator":"GA","paymentReference":"p-1"}`))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("tx_bad_auth", body["error"])

	records := s.store.Records()
	s.Require().Len(records, 1)
	s.Equal(audit.StatusError, records[0].Status)
}

func (s *HandlerSuite) TestLiveCreateEventFailureRemovesUpload() {
	h := s.router(models.ModeLive, 1024)
	s.mockLedger.EXPECT().AdminAddress().Return("GADMIN")
	s.mockLedger.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(nil, errors.New("simulation failed"))

	rec, body := s.do(h, s.createRequest(meetupFields(), testutil.File{Field: "image", Name: "p.png", ContentType: "image/png", Data: []byte("png")}))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("simulation failed", body["error"])
	s.Empty(s.uploadedFiles())
}

func (s *HandlerSuite) TestLiveCreateEventReportsEventID() {
	h := s.router(models.ModeLive, 1024)
	s.mockLedger.EXPECT().AdminAddress().Return("GADMIN")
	s.mockLedger.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).
		Return(&ledger.TxResult{TxHash: "h1", EnvelopeXDR: "AAAA", RPCResponse: json.RawMessage(`{"status":"SUCCESS"}`)}, nil)
	s.mockLedger.EXPECT().EventCount(gomock.Any()).Return(uint64(12), nil)

	rec, body := s.do(h, s.createRequest(meetupFields()))
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("h1", body["txHash"])
	s.Equal("AAAA", body["signedEnvelope"])
	s.Equal(float64(12), body["eventId"])
	s.Equal(map[string]any{"status": "SUCCESS"}, body["rpcResponse"])
}

func (s *HandlerSuite) TestLiveMintedCount() {
	h := s.router(models.ModeLive, 1024)
	s.mockLedger.EXPECT().AdminAddress().Return("GADMIN")
	s.mockLedger.EXPECT().MintedCount(gomock.Any(), uint64(3)).Return(uint64(41), nil)

	rec, body := s.do(h, httptest.NewRequest(http.MethodGet, "/events/3/minted-count", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(41), body["mintedCount"])
}
