package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-payhook/core"
)

const (
	TypeHandleWebhook     = "payhook.command.webhook.handle"
	TypeVerifyTransaction = "payhook.command.transaction.verify"
	TypeSendNotification  = "payhook.command.notification.send"
	TypeCreateOrder       = "payhook.command.order.create"
)

type HandleWebhookMessage struct {
	Request core.InboundRequest
}

func (HandleWebhookMessage) Type() string { return TypeHandleWebhook }

func (m HandleWebhookMessage) Validate() error {
	if len(m.Request.Body) == 0 {
		return fmt.Errorf("command: webhook body is required")
	}
	return nil
}

type VerifyTransactionMessage struct {
	Reference     string
	ClaimedAmount int64
}

func (VerifyTransactionMessage) Type() string { return TypeVerifyTransaction }

func (m VerifyTransactionMessage) Validate() error {
	if strings.TrimSpace(m.Reference) == "" {
		return fmt.Errorf("command: transaction reference is required")
	}
	return nil
}

type SendNotificationMessage struct {
	Event core.PaymentEvent
}

func (SendNotificationMessage) Type() string { return TypeSendNotification }

func (m SendNotificationMessage) Validate() error {
	if strings.TrimSpace(m.Event.Data.Reference) == "" {
		return fmt.Errorf("command: payment reference is required")
	}
	return nil
}

type CreateOrderMessage struct {
	Input core.DraftOrderInput
}

func (CreateOrderMessage) Type() string { return TypeCreateOrder }

func (m CreateOrderMessage) Validate() error {
	if strings.TrimSpace(m.Input.VariantID) == "" {
		return fmt.Errorf("command: variant id is required")
	}
	if strings.TrimSpace(m.Input.Email) == "" {
		return fmt.Errorf("command: customer email is required")
	}
	return nil
}
