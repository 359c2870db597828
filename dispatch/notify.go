package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
)

// NotifyAction mails an HTML summary of the charge to a fixed operator
// address and optionally a confirmation copy to the paying customer. The two
// sends are independent: the customer copy still goes out when the operator
// send fails, and a failed customer copy never fails the request on its own.
type NotifyAction struct {
	Mailer          core.MailSender
	From            string
	OperatorAddress string
	CustomerCopy    bool
	Logger          core.Logger
}

func NewNotifyAction(mailer core.MailSender, from string, operatorAddress string) *NotifyAction {
	return &NotifyAction{
		Mailer:          mailer,
		From:            strings.TrimSpace(from),
		OperatorAddress: strings.TrimSpace(operatorAddress),
	}
}

func (a *NotifyAction) Name() string {
	return core.DispatchModeNotify
}

func (a *NotifyAction) Execute(ctx context.Context, event core.PaymentEvent) (core.ActionResult, error) {
	if a == nil || a.Mailer == nil {
		return core.ActionResult{}, actionError(
			"dispatch: notify action requires a mail sender",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			core.RelayErrorInternal,
			nil,
		)
	}
	if a.OperatorAddress == "" {
		return core.ActionResult{}, actionError(
			"dispatch: operator address is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			core.RelayErrorBadInput,
			nil,
		)
	}

	reference := event.Data.Reference
	result := core.ActionResult{
		Action:   a.Name(),
		Channels: map[string]core.ChannelOutcome{},
		Metadata: map[string]any{"reference": reference},
	}

	operatorErr := a.sendChannel(ctx, ChannelOperator, a.OperatorAddress, event,
		"Payment received",
		fmt.Sprintf("A payment with reference %s was received.", reference),
		&result,
	)

	customerAddress := strings.TrimSpace(event.Data.Customer.Email)
	if a.CustomerCopy && customerAddress != "" {
		// Independent of the operator outcome on purpose.
		_ = a.sendChannel(ctx, ChannelCustomer, customerAddress, event,
			"Your payment was received",
			fmt.Sprintf("We received your payment with reference %s. Thank you.", reference),
			&result,
		)
	}

	if operatorErr != nil {
		return result, actionWrapError(
			operatorErr,
			goerrors.CategoryExternal,
			"dispatch: operator notification failed",
			http.StatusInternalServerError,
			core.RelayErrorExternalFailure,
			map[string]any{"reference": reference, "channels": channelSummary(result.Channels)},
		)
	}
	return result, nil
}

func (a *NotifyAction) sendChannel(
	ctx context.Context,
	channel string,
	address string,
	event core.PaymentEvent,
	heading string,
	intro string,
	result *core.ActionResult,
) error {
	html, err := renderSummary(buildSummary(event, heading, intro))
	if err == nil {
		err = a.Mailer.Send(ctx, core.Message{
			From:    a.From,
			To:      address,
			Subject: fmt.Sprintf("%s: %s", heading, event.Data.Reference),
			HTML:    html,
		})
	}
	if err != nil {
		result.Channels[channel] = core.ChannelOutcome{Sent: false, Error: err.Error()}
		logError(ctx, a.Logger, "notification send failed", map[string]any{
			"channel":   channel,
			"reference": event.Data.Reference,
			"error":     err.Error(),
		})
		return err
	}
	result.Channels[channel] = core.ChannelOutcome{Sent: true}
	logInfo(ctx, a.Logger, "notification sent", map[string]any{
		"channel":   channel,
		"reference": event.Data.Reference,
	})
	return nil
}

func channelSummary(channels map[string]core.ChannelOutcome) map[string]any {
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

var _ core.Action = (*NotifyAction)(nil)
