package handler

import (
	"errors"
	"fmt"
	"net/http"

	"spot/internal/spot/models"
	"spot/internal/upload"
	dErrors "spot/pkg/domain-errors"
	"spot/pkg/platform/httputil"
)

const (
	imageField      = "image"
	formMemoryLimit = 8 << 20
	// formOverhead is the body allowance for the non-file fields.
	formOverhead = 1 << 20
)

var errUnexpectedField = errors.New("file in unexpected field")

// handleCreateEvent accepts a multipart form with an optional image file.
// The stored file is handed to the orchestrator, which removes it on any
// failure after this point.
func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+formOverhead)

	if err := r.ParseMultipartForm(formMemoryLimit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, "create event upload rejected", upload.ErrTooLarge)
			return
		}
		h.fail(w, r, "create event form rejected", dErrors.Wrap(err, dErrors.CodeBadRequest, "Invalid form payload"))
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	asset, err := h.storeImage(r)
	if err != nil {
		h.fail(w, r, "create event upload rejected", err)
		return
	}

	req := models.CreateEventRequest{
		Creator:     r.FormValue("creator"),
		EventName:   r.FormValue("eventName"),
		EventDate:   r.FormValue("eventDate"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
		MaxPoaps:    r.FormValue("maxPoaps"),
		ClaimStart:  r.FormValue("claimStart"),
		ClaimEnd:    r.FormValue("claimEnd"),
		MetadataURI: r.FormValue("metadataUri"),
		ImageURL:    r.FormValue("imageUrl"),
	}

	res, err := h.service.CreateEvent(r.Context(), &req, asset)
	if err != nil {
		h.fail(w, r, "create event failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// storeImage persists the single image part, if any. Files under any other
// field name, or more than one image, are rejected.
func (h *Handler) storeImage(r *http.Request) (*upload.Asset, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, nil
	}
	for field, headers := range r.MultipartForm.File {
		if field != imageField || len(headers) != 1 {
			return nil, dErrors.Wrap(fmt.Errorf("%w: %q", errUnexpectedField, field),
				dErrors.CodeBadRequest, upload.ErrUnexpectedFile.Error())
		}
	}

	header := r.MultipartForm.File[imageField][0]
	file, err := header.Open()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read uploaded image")
	}
	defer file.Close()

	return h.uploads.Accept(file, header.Filename, header.Header.Get("Content-Type"), upload.Origin(r))
}
