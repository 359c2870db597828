package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
	"github.com/goliatone/go-payhook/transport"
)

const ProviderID = "paystack"

const defaultBaseURL = "https://api.paystack.co"

const statusSuccess = "success"

type Config struct {
	BaseURL   string
	Token     string
	Transport core.TransportAdapter
}

// Client talks to the processor's authoritative transaction API. It is the
// source of truth consulted after signature verification; a webhook body
// alone is never trusted for amounts.
type Client struct {
	baseURL   string
	token     string
	transport core.TransportAdapter
}

func NewClient(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, verifyError(
			"paystack: api token is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			core.RelayErrorBadInput,
			nil,
		)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	adapter := cfg.Transport
	if adapter == nil {
		adapter = transport.NewRESTAdapter(nil)
	}
	return &Client{
		baseURL:   baseURL,
		token:     token,
		transport: adapter,
	}, nil
}

type verifyEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"data"`
}

// VerifyTransaction fetches the processor's record for a reference. The call
// is a single blocking round trip with no retry; redelivery of the webhook is
// the sender's responsibility.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (core.Verification, error) {
	if c == nil || c.transport == nil {
		return core.Verification{}, verifyError(
			"paystack: client is not configured",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			core.RelayErrorInternal,
			nil,
		)
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return core.Verification{}, verifyError(
			"paystack: transaction reference is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			core.RelayErrorBadInput,
			nil,
		)
	}

	res, err := c.transport.Do(ctx, core.TransportRequest{
		Method: http.MethodGet,
		URL:    c.baseURL + "/transaction/verify/" + url.PathEscape(reference),
		Headers: map[string]string{
			"Authorization": "Bearer " + c.token,
		},
	})
	if err != nil {
		return core.Verification{}, verifyWrapError(
			err,
			goerrors.CategoryExternal,
			"paystack: verify transaction request failed",
			http.StatusInternalServerError,
			core.RelayErrorExternalFailure,
			map[string]any{"reference": reference},
		)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return core.Verification{}, verifyError(
			fmt.Sprintf("paystack: verify transaction returned status %d", res.StatusCode),
			goerrors.CategoryExternal,
			http.StatusInternalServerError,
			core.RelayErrorExternalFailure,
			map[string]any{"reference": reference, "status_code": res.StatusCode},
		)
	}

	var envelope verifyEnvelope
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return core.Verification{}, verifyWrapError(
			err,
			goerrors.CategoryExternal,
			"paystack: decode verify transaction response",
			http.StatusInternalServerError,
			core.RelayErrorExternalFailure,
			map[string]any{"reference": reference},
		)
	}
	if !envelope.Status {
		return core.Verification{}, verifyError(
			fmt.Sprintf("paystack: verify transaction rejected: %s", strings.TrimSpace(envelope.Message)),
			goerrors.CategoryExternal,
			http.StatusInternalServerError,
			core.RelayErrorExternalFailure,
			map[string]any{"reference": reference},
		)
	}

	return core.Verification{
		Reference: reference,
		Status:    strings.TrimSpace(envelope.Data.Status),
		Amount:    envelope.Data.Amount,
		Currency:  strings.TrimSpace(envelope.Data.Currency),
	}, nil
}

// CheckTransaction verifies that the processor agrees with the claimed
// charge. A status other than success or an amount that differs from the
// claim marks the event untrusted; no downstream action may run after that.
func (c *Client) CheckTransaction(
	ctx context.Context,
	reference string,
	claimedAmount int64,
) (core.Verification, error) {
	verification, err := c.VerifyTransaction(ctx, reference)
	if err != nil {
		return core.Verification{}, err
	}
	if verification.Status != statusSuccess {
		return core.Verification{}, verifyError(
			fmt.Sprintf("paystack: transaction status is %q, not %q", verification.Status, statusSuccess),
			goerrors.CategoryValidation,
			http.StatusBadRequest,
			core.RelayErrorVerificationFailed,
			map[string]any{
				"reference":       reference,
				"reported_status": verification.Status,
			},
		)
	}
	if verification.Amount != claimedAmount {
		return core.Verification{}, verifyError(
			"paystack: transaction amount does not match the claimed amount",
			goerrors.CategoryValidation,
			http.StatusBadRequest,
			core.RelayErrorVerificationFailed,
			map[string]any{
				"reference":       reference,
				"claimed_amount":  claimedAmount,
				"reported_amount": verification.Amount,
			},
		)
	}
	return verification, nil
}

var _ core.TransactionVerifier = (*Client)(nil)
