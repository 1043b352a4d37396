// Package httputil holds the JSON response helpers shared by every handler.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "spot/pkg/domain-errors"
)

// ErrorResponse is the single error envelope returned by the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into its HTTP status. Errors without a
// code are treated as internal, and their message is still surfaced because
// ledger failures are reported to the caller verbatim.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	if de, ok := dErrors.As(err); ok {
		status = dErrors.ToHTTPStatus(de.Code)
		msg = de.Error()
	}
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// DecodeJSON reads a JSON body into v. An empty body decodes to the zero value
// so handlers can report missing fields instead of a parse failure.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return dErrors.Wrap(err, dErrors.CodeBadRequest, "Invalid JSON payload")
}
