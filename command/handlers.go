package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-payhook/core"
)

type RelayService interface {
	HandleWebhook(ctx context.Context, req core.InboundRequest) (core.InboundResult, error)
	VerifyTransaction(ctx context.Context, reference string, claimedAmount int64) (core.Verification, error)
	SendNotification(ctx context.Context, event core.PaymentEvent) (core.ActionResult, error)
	CreateOrder(ctx context.Context, in core.DraftOrderInput) (core.DraftOrder, error)
}

type HandleWebhookCommand struct {
	service RelayService
}

func NewHandleWebhookCommand(service RelayService) *HandleWebhookCommand {
	return &HandleWebhookCommand{service: service}
}

func (c *HandleWebhookCommand) Execute(ctx context.Context, msg HandleWebhookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: webhook service is required")
	}
	out, err := c.service.HandleWebhook(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type VerifyTransactionCommand struct {
	service RelayService
}

func NewVerifyTransactionCommand(service RelayService) *VerifyTransactionCommand {
	return &VerifyTransactionCommand{service: service}
}

func (c *VerifyTransactionCommand) Execute(ctx context.Context, msg VerifyTransactionMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: transaction service is required")
	}
	out, err := c.service.VerifyTransaction(ctx, msg.Reference, msg.ClaimedAmount)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SendNotificationCommand struct {
	service RelayService
}

func NewSendNotificationCommand(service RelayService) *SendNotificationCommand {
	return &SendNotificationCommand{service: service}
}

func (c *SendNotificationCommand) Execute(ctx context.Context, msg SendNotificationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: notification service is required")
	}
	out, err := c.service.SendNotification(ctx, msg.Event)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateOrderCommand struct {
	service RelayService
}

func NewCreateOrderCommand(service RelayService) *CreateOrderCommand {
	return &CreateOrderCommand{service: service}
}

func (c *CreateOrderCommand) Execute(ctx context.Context, msg CreateOrderMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: order service is required")
	}
	out, err := c.service.CreateOrder(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
