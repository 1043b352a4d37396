// Package testutil provides request builders and response assertions for
// handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewJSONRequest creates a POST request with a raw JSON body.
func NewJSONRequest(t *testing.T, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// File is one file part of a multipart request.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// NewMultipartRequest creates a POST multipart/form-data request.
func NewMultipartRequest(t *testing.T, path string, fields map[string]string, files ...File) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.Field+`"; filename="`+f.Name+`"`)
		h.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.Data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// DoRequest executes a request against a handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeBody unmarshals a JSON object response.
func DecodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result), "failed to unmarshal response: %s", rr.Body.String())
	return result
}

// AssertError asserts the status and the {"error": msg} envelope.
func AssertError(t *testing.T, rr *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	assert.Equal(t, status, rr.Code, "unexpected status code")
	assert.Equal(t, map[string]any{"error": msg}, DecodeBody(t, rr))
}
