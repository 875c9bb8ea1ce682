// Package respond writes JSON bodies and the shared error envelope:
//
//	{"error":{"code":"VIDEO_NOT_FOUND","message":"Video not found.","request_id":"…"}}
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// JSON encodes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.S().Errorw("encode response", "err", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":{"code":"INTERNAL","message":"Internal server error"}}`)
	}
	Raw(w, status, body)
}

// Raw writes an already encoded JSON body.
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error writes the error envelope.
func Error(w http.ResponseWriter, status int, code, message, requestID string, details map[string]any) {
	JSON(w, status, ErrorResponse{Error: APIError{Code: code, Message: message, Details: details, RequestID: requestID}})
}

// Convenience helpers

func BadRequest(w http.ResponseWriter, code, message, requestID string, details map[string]any) {
	Error(w, http.StatusBadRequest, code, message, requestID, details)
}

func NotFound(w http.ResponseWriter, code, message, requestID string) {
	Error(w, http.StatusNotFound, code, message, requestID, nil)
}

func Unavailable(w http.ResponseWriter, code, message, requestID string) {
	w.Header().Set("Retry-After", "5")
	Error(w, http.StatusServiceUnavailable, code, message, requestID, nil)
}

func Internal(w http.ResponseWriter, requestID string) {
	Error(w, http.StatusInternalServerError, "INTERNAL", "Internal server error", requestID, nil)
}
