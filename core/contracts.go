package core

import (
	"context"
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// InboundRequest carries one webhook delivery exactly as received. Body holds
// the raw request bytes; signature verification is computed over them and they
// must never be re-serialized before that check.
type InboundRequest struct {
	Method   string
	Headers  map[string]string
	Body     []byte
	Metadata map[string]any
}

type InboundResult struct {
	Accepted   bool
	StatusCode int
	Body       map[string]any
	Metadata   map[string]any
}

// Verifier authenticates an inbound request before its body is interpreted.
type Verifier interface {
	Verify(ctx context.Context, req InboundRequest) error
}

// Verification is the processor's authoritative view of a transaction.
type Verification struct {
	Reference string
	Status    string
	Amount    int64
	Currency  string
	Metadata  map[string]any
}

// TransactionVerifier confirms a claimed charge against the processor's
// verify endpoint. CheckTransaction fails when the reported status is not
// success or the reported amount differs from the claimed amount.
type TransactionVerifier interface {
	CheckTransaction(ctx context.Context, reference string, claimedAmount int64) (Verification, error)
}

type ChannelOutcome struct {
	Sent  bool
	Error string
}

type ActionResult struct {
	Action   string
	Channels map[string]ChannelOutcome
	Metadata map[string]any
}

// Action is the downstream side effect performed for an authenticated,
// verified charge event. Which action runs is a deployment decision, never
// derived from event content.
type Action interface {
	Name() string
	Execute(ctx context.Context, event PaymentEvent) (ActionResult, error)
}

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type MailSender interface {
	Send(ctx context.Context, msg Message) error
}

type DraftOrderInput struct {
	Email     string
	Note      string
	VariantID string
	Quantity  int
	Reference string
}

type DraftOrder struct {
	ID   string
	Name string
}

// OrderService creates a draft order and then marks it paid. The two calls
// are sequential; completion is never attempted when creation fails.
type OrderService interface {
	CreateDraftOrder(ctx context.Context, in DraftOrderInput) (DraftOrder, error)
	CompleteDraftOrder(ctx context.Context, id string) error
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
