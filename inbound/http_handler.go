package inbound

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-payhook/core"
	"github.com/google/uuid"
)

const defaultMaxRequestBodyBytes int64 = 1 << 20 // 1 MiB

type RequestDispatcher interface {
	Dispatch(ctx context.Context, req core.InboundRequest) (core.InboundResult, error)
}

// HTTPHandler adapts one HTTP request into the dispatcher pipeline. The raw
// body is handed over byte-for-byte so the signature check operates on the
// exact payload the processor signed.
type HTTPHandler struct {
	Dispatcher   RequestDispatcher
	Logger       core.Logger
	MaxBodyBytes int64
}

func NewHTTPHandler(dispatcher RequestDispatcher) *HTTPHandler {
	return &HTTPHandler{
		Dispatcher:   dispatcher,
		MaxBodyBytes: defaultMaxRequestBodyBytes,
	}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Dispatcher == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "webhook handler is not configured",
		})
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"error": "method not allowed",
		})
		return
	}

	maxBytes := h.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxRequestBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "read request body failed",
		})
		return
	}
	if int64(len(body)) > maxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{
			"error": "request body exceeds limit",
		})
		return
	}

	req := core.InboundRequest{
		Method:  r.Method,
		Headers: flattenRequestHeaders(r.Header),
		Body:    body,
		Metadata: map[string]any{
			"request_id":  requestID,
			"remote_addr": r.RemoteAddr,
		},
	}

	result, err := h.Dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		status, payload := errorResponse(err)
		if result.StatusCode >= http.StatusBadRequest {
			status = result.StatusCode
		}
		if channels, ok := result.Metadata["channels"]; ok {
			payload["channels"] = channels
		}
		writeJSON(w, status, payload)
		return
	}

	status := result.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	payload := result.Body
	if payload == nil {
		payload = map[string]any{"received": true}
	}
	writeJSON(w, status, payload)
}

func errorResponse(err error) (int, map[string]any) {
	mapped := core.RelayErrorMapper(err)
	if mapped == nil {
		return http.StatusInternalServerError, map[string]any{
			"error": "An unexpected error occurred",
		}
	}
	status := mapped.Code
	if status == 0 {
		status = core.RelayHTTPStatus(mapped.Category)
	}
	payload := map[string]any{"error": mapped.Message}
	return status, payload
}

func flattenRequestHeaders(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			flat[key] = ""
			continue
		}
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

var _ http.Handler = (*HTTPHandler)(nil)
