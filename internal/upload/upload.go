// Package upload persists event images for the lifetime of one request and
// reverses the write when the surrounding operation fails.
package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "spot/pkg/domain-errors"
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "/uploads"

var (
	ErrUnexpectedFile = dErrors.New(dErrors.CodeBadRequest, "Image upload failed: unexpected file")
	ErrTooLarge       = dErrors.New(dErrors.CodeBadRequest, "Image upload exceeded size limit")

	whitespace = regexp.MustCompile(`\s+`)
	unsafeName = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	unsafeExt  = regexp.MustCompile(`[^a-z0-9.]`)
)

// Asset is one persisted upload.
type Asset struct {
	Filename    string
	StoragePath string
	PublicURL   string
	SizeBytes   int64
	MIMEType    string
}

// Recorder receives upload outcomes for metrics.
type Recorder interface {
	ObserveUpload(outcome string)
}

// Manager stores images in a single flat directory.
type Manager struct {
	dir      string
	maxBytes int64
	baseURL  string
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		m.recorder = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates dir if needed. baseURL, when set, overrides the
// request-derived origin for public URLs.
func NewManager(dir string, maxBytes int64, baseURL string, logger *slog.Logger, opts ...Option) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	m := &Manager{
		dir:      dir,
		maxBytes: maxBytes,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Dir is the storage directory, served statically under PublicPrefix.
func (m *Manager) Dir() string {
	return m.dir
}

// MaxBytes is the per-file size limit.
func (m *Manager) MaxBytes() int64 {
	return m.maxBytes
}

// Accept validates and persists one file. origin is the scheme://host used
// when no base URL is configured (see Origin).
func (m *Manager) Accept(src io.Reader, originalName, mimeType, origin string) (*Asset, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/") {
		m.observe("rejected_type")
		return nil, ErrUnexpectedFile
	}

	name := m.filename(originalName)
	path := filepath.Join(m.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		m.observe("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store upload")
	}

	written, err := io.Copy(f, io.LimitReader(src, m.maxBytes+1))
	closeErr := f.Close()
	asset := &Asset{Filename: name, StoragePath: path, SizeBytes: written, MIMEType: mimeType}
	switch {
	case err != nil || closeErr != nil:
		m.Cleanup(asset)
		m.observe("error")
		return nil, dErrors.Wrap(errors.Join(err, closeErr), dErrors.CodeInternal, "failed to store upload")
	case written > m.maxBytes:
		m.Cleanup(asset)
		m.observe("rejected_size")
		return nil, ErrTooLarge
	}

	asset.PublicURL = m.PublicURL(origin, name)
	m.observe("stored")
	return asset, nil
}

// PublicURL joins the configured base URL (or origin) with the static path.
func (m *Manager) PublicURL(origin, filename string) string {
	base := m.baseURL
	if base == "" {
		base = strings.TrimSuffix(origin, "/")
	}
	return base + PublicPrefix + "/" + filename
}

// Origin derives scheme://host from an inbound request. X-Forwarded-Proto
// is honoured only when it names http or https.
func Origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		switch p := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); p {
		case "http", "https":
			scheme = p
		}
	}
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host
}

// Cleanup removes a stored asset. A missing file is fine; any other failure
// is logged and swallowed so cleanup never changes the caller's outcome.
func (m *Manager) Cleanup(asset *Asset) {
	if asset == nil || asset.StoragePath == "" {
		return
	}
	if err := os.Remove(asset.StoragePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		m.logger.Warn("failed to remove uploaded file",
			"path", asset.StoragePath,
			"error", err,
		)
	}
}

func (m *Manager) filename(original string) string {
	original = filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := filepath.Ext(original)
	base := sanitize(strings.TrimSuffix(original, ext))
	if base == "" || base == "." {
		base = "image"
	}
	ext = unsafeExt.ReplaceAllString(strings.ToLower(ext), "")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return strconv.FormatInt(m.now().UnixMilli(), 10) + "-" + suffix + "-" + base + ext
}

func sanitize(name string) string {
	name = whitespace.ReplaceAllString(name, "-")
	name = unsafeName.ReplaceAllString(name, "")
	return strings.ToLower(name)
}

func (m *Manager) observe(outcome string) {
	if m.recorder != nil {
		m.recorder.ObserveUpload(outcome)
	}
}
