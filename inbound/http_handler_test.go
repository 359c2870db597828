package inbound

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
	"github.com/goliatone/go-payhook/webhooks"
)

func signPaystack(t *testing.T, secret string, body []byte) string {
	t.Helper()
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newSignedHandler(t *testing.T, secret string, action core.Action) *HTTPHandler {
	t.Helper()
	template := webhooks.NewPaystackWebhookTemplate(secret)
	dispatcher := NewDispatcher(template.Verifier, action)
	return NewHTTPHandler(dispatcher)
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload
}

func TestServeHTTP_AcceptsSignedDelivery(t *testing.T) {
	secret := "whsec_test"
	action := &stubAction{result: core.ActionResult{
		Action:   "notify",
		Channels: map[string]core.ChannelOutcome{"operator": {Sent: true}},
	}}
	handler := newSignedHandler(t, secret, action)

	body := chargeBody(500000)
	request := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(string(body)))
	request.Header.Set("X-Paystack-Signature", signPaystack(t, secret, body))
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if recorder.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
	if recorder.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected json content type")
	}

	payload := decodeBody(t, recorder)
	if payload["success"] != true || payload["reference"] != "ref_123" {
		t.Fatalf("unexpected payload %#v", payload)
	}
	channels, _ := payload["channels"].(map[string]any)
	if channels["operator"] != "sent" {
		t.Fatalf("expected channel outcomes, got %#v", payload)
	}
	if len(action.events) != 1 {
		t.Fatalf("expected one action execution")
	}
}

func TestServeHTTP_RejectsBadSignature(t *testing.T) {
	action := &stubAction{}
	handler := newSignedHandler(t, "whsec_test", action)

	body := chargeBody(500000)
	request := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(string(body)))
	request.Header.Set("X-Paystack-Signature", signPaystack(t, "wrong_secret", body))
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	payload := decodeBody(t, recorder)
	if payload["error"] == nil {
		t.Fatalf("expected error payload, got %#v", payload)
	}
	if len(action.events) != 0 {
		t.Fatalf("action must not run for a bad signature")
	}
}

func TestServeHTTP_RejectsNonPost(t *testing.T) {
	handler := newSignedHandler(t, "whsec_test", &stubAction{})

	request := httptest.NewRequest(http.MethodGet, "/webhooks/paystack", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
	if recorder.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("expected Allow header")
	}
}

func TestServeHTTP_RejectsOversizedBody(t *testing.T) {
	handler := newSignedHandler(t, "whsec_test", &stubAction{})
	handler.MaxBodyBytes = 32

	body := strings.Repeat("x", 64)
	request := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", recorder.Code)
	}
}

func TestServeHTTP_SurfacesChannelOutcomesOnFailure(t *testing.T) {
	secret := "whsec_test"
	action := &stubAction{
		result: core.ActionResult{
			Action: "notify",
			Channels: map[string]core.ChannelOutcome{
				"operator": {Sent: false, Error: "mailbox unavailable"},
			},
		},
		err: goerrors.New("operator notification failed", goerrors.CategoryExternal).
			WithCode(http.StatusInternalServerError).
			WithTextCode(core.RelayErrorExternalFailure),
	}
	handler := newSignedHandler(t, secret, action)

	body := chargeBody(500000)
	request := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(string(body)))
	request.Header.Set("X-Paystack-Signature", signPaystack(t, secret, body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
	payload := decodeBody(t, recorder)
	channels, _ := payload["channels"].(map[string]any)
	if channels["operator"] != "mailbox unavailable" {
		t.Fatalf("expected channel outcomes in error payload, got %#v", payload)
	}
}

func TestServeHTTP_HandlesMissingDispatcher(t *testing.T) {
	handler := &HTTPHandler{}
	request := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
}
