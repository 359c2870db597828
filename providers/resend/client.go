package resend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
	"github.com/goliatone/go-payhook/transport"
)

const ProviderID = "resend"

const defaultBaseURL = "https://api.resend.com"

type Config struct {
	BaseURL   string
	Token     string
	Transport core.TransportAdapter
}

// Client submits transactional email through the outbound mail API. Send is
// one blocking POST; a non-2xx response is a failure and nothing is retried
// here.
type Client struct {
	baseURL   string
	token     string
	transport core.TransportAdapter
}

func NewClient(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, mailError(
			"resend: api token is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
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

func (c *Client) Send(ctx context.Context, msg core.Message) error {
	if c == nil || c.transport == nil {
		return mailError(
			"resend: client is not configured",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	from := strings.TrimSpace(msg.From)
	to := strings.TrimSpace(msg.To)
	subject := strings.TrimSpace(msg.Subject)
	if from == "" || to == "" || subject == "" {
		return mailError(
			"resend: from, to, and subject are required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"to": to},
		)
	}

	body, err := json.Marshal(map[string]string{
		"from":    from,
		"to":      to,
		"subject": subject,
		"html":    msg.HTML,
	})
	if err != nil {
		return mailWrapError(
			err,
			goerrors.CategoryBadInput,
			"resend: marshal message payload",
			http.StatusBadRequest,
			map[string]any{"to": to},
		)
	}

	res, err := c.transport.Do(ctx, core.TransportRequest{
		Method: http.MethodPost,
		URL:    c.baseURL + "/emails",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.token,
			"Content-Type":  "application/json",
		},
		Body: body,
	})
	if err != nil {
		return mailWrapError(
			err,
			goerrors.CategoryExternal,
			"resend: send email request failed",
			http.StatusInternalServerError,
			map[string]any{"to": to},
		)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return mailError(
			fmt.Sprintf("resend: send email returned status %d", res.StatusCode),
			goerrors.CategoryExternal,
			http.StatusInternalServerError,
			map[string]any{"to": to, "status_code": res.StatusCode},
		)
	}
	return nil
}

var _ core.MailSender = (*Client)(nil)
