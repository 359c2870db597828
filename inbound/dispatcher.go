package inbound

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
)

// Dispatcher runs the single-pass pipeline for one delivery:
//
//	method gate -> signature verify -> parse -> event gate ->
//	transaction re-verify (optional) -> downstream action
//
// Each stage is terminal on failure; no stage after a failed one runs, and
// nothing is retried or persisted. Redelivery is the sender's concern.
type Dispatcher struct {
	Verifier     core.Verifier
	Transactions core.TransactionVerifier
	Action       core.Action
	EventTypes   []string
	Logger       core.Logger
	Metrics      core.MetricsRecorder
	Now          func() time.Time
}

func NewDispatcher(verifier core.Verifier, action core.Action) *Dispatcher {
	return &Dispatcher{
		Verifier:   verifier,
		Action:     action,
		EventTypes: []string{core.EventChargeSucceeded},
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, req core.InboundRequest) (core.InboundResult, error) {
	if d == nil {
		return core.InboundResult{}, inboundInternal("inbound: dispatcher is nil", nil)
	}
	if d.Verifier == nil || d.Action == nil {
		return core.InboundResult{}, inboundInternal("inbound: dispatcher requires verifier and action", nil)
	}
	startedAt := d.now()

	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method != http.MethodPost {
		err := inboundError(
			"inbound: method is not allowed",
			goerrors.CategoryBadInput,
			http.StatusMethodNotAllowed,
			core.RelayErrorMethodNotAllowed,
			map[string]any{"method": method},
		)
		return d.fail(ctx, startedAt, "method", http.StatusMethodNotAllowed, err)
	}

	if err := d.Verifier.Verify(ctx, req); err != nil {
		wrapped := inboundWrapError(
			err,
			goerrors.CategoryAuth,
			"inbound: signature verification failed",
			http.StatusUnauthorized,
			core.RelayErrorUnauthorized,
			nil,
		)
		return d.fail(ctx, startedAt, "auth", http.StatusUnauthorized, wrapped)
	}

	event, err := core.ParsePaymentEvent(req.Body)
	if err != nil {
		wrapped := inboundWrapError(
			err,
			goerrors.CategoryBadInput,
			"inbound: parse event body",
			http.StatusBadRequest,
			core.RelayErrorBadInput,
			nil,
		)
		return d.fail(ctx, startedAt, "parse", http.StatusBadRequest, wrapped)
	}

	if !d.handlesEvent(event.Event) {
		result := core.InboundResult{
			Accepted:   true,
			StatusCode: http.StatusOK,
			Body:       map[string]any{"received": true},
			Metadata: map[string]any{
				"event":   event.Event,
				"ignored": true,
			},
		}
		d.observe(ctx, startedAt, "ignored", nil, map[string]any{"event": event.Event})
		return result, nil
	}

	reference := event.Data.Reference
	if reference == "" {
		err := inboundBadInput("inbound: payment reference is required", map[string]any{
			"event": event.Event,
		})
		return d.fail(ctx, startedAt, "parse", http.StatusBadRequest, err)
	}
	fields := map[string]any{
		"event":     event.Event,
		"reference": reference,
		"amount":    event.Data.Amount,
	}

	if d.Transactions != nil {
		if _, err := d.Transactions.CheckTransaction(ctx, reference, event.Data.Amount); err != nil {
			mapped := core.RelayErrorMapper(err)
			return d.fail(ctx, startedAt, "verify", mapped.Code, mapped)
		}
	}

	actionResult, err := d.Action.Execute(ctx, event)
	if err != nil {
		mapped := core.EnsureRelayErrorEnvelope(core.RelayErrorMapper(err))
		if mapped.Code < http.StatusInternalServerError && mapped.Category != goerrors.CategoryValidation {
			// Downstream failures surface as server errors so the sender
			// redelivers.
			mapped = core.EnsureRelayErrorEnvelope(
				goerrors.Wrap(err, goerrors.CategoryOperation, "inbound: action execution failed").
					WithCode(http.StatusInternalServerError).
					WithTextCode(core.RelayErrorOperationFailed),
			)
		}
		result, _ := d.fail(ctx, startedAt, d.Action.Name(), mapped.Code, mapped)
		if len(actionResult.Channels) > 0 {
			// A partially delivered notification is still a failure, but the
			// per-channel outcomes are worth reporting back.
			result.Metadata["channels"] = channelOutcomes(actionResult.Channels)
		}
		return result, mapped
	}

	body := map[string]any{
		"success":   true,
		"reference": reference,
	}
	if len(actionResult.Channels) > 0 {
		body["channels"] = channelOutcomes(actionResult.Channels)
	}

	metadata := map[string]any{
		"event":  event.Event,
		"action": d.Action.Name(),
	}
	for key, value := range actionResult.Metadata {
		metadata[key] = value
	}
	d.observe(ctx, startedAt, d.Action.Name(), nil, fields)
	return core.InboundResult{
		Accepted:   true,
		StatusCode: http.StatusOK,
		Body:       body,
		Metadata:   metadata,
	}, nil
}

func (d *Dispatcher) fail(
	ctx context.Context,
	startedAt time.Time,
	stage string,
	statusCode int,
	err error,
) (core.InboundResult, error) {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	d.observe(ctx, startedAt, stage, err, nil)
	return core.InboundResult{
		Accepted:   false,
		StatusCode: statusCode,
		Metadata:   map[string]any{"stage": stage, "rejected": true},
	}, err
}

func channelOutcomes(channels map[string]core.ChannelOutcome) map[string]any {
	out := make(map[string]any, len(channels))
	for name, outcome := range channels {
		if outcome.Sent {
			out[name] = "sent"
			continue
		}
		out[name] = outcome.Error
	}
	return out
}

func (d *Dispatcher) handlesEvent(event string) bool {
	types := d.EventTypes
	if len(types) == 0 {
		types = []string{core.EventChargeSucceeded}
	}
	for _, accepted := range types {
		if strings.EqualFold(strings.TrimSpace(accepted), event) {
			return true
		}
	}
	return false
}

func (d *Dispatcher) observe(
	ctx context.Context,
	startedAt time.Time,
	stage string,
	err error,
	fields map[string]any,
) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	duration := d.now().Sub(startedAt).Milliseconds()

	contextFields := map[string]any{
		"stage":       stage,
		"status":      status,
		"duration_ms": duration,
	}
	for key, value := range fields {
		contextFields[key] = value
	}
	if err != nil {
		contextFields["error"] = err.Error()
	}

	if d.Metrics != nil {
		tags := map[string]string{"stage": stage, "status": status}
		d.Metrics.IncCounter(ctx, "payhook.webhook.total", 1, tags)
		d.Metrics.ObserveHistogram(ctx, "payhook.webhook.duration_ms", float64(duration), tags)
	}

	logger := d.Logger
	if logger == nil {
		return
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(contextFields)
	}
	keys := make([]string, 0, len(contextFields))
	for key := range contextFields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, contextFields[key])
	}
	if err != nil {
		logger.Error("webhook delivery rejected", args...)
		return
	}
	logger.Info("webhook delivery handled", args...)
}

func (d *Dispatcher) now() time.Time {
	if d != nil && d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}
