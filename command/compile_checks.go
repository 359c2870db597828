package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[HandleWebhookMessage]     = (*HandleWebhookCommand)(nil)
	_ gocmd.Commander[VerifyTransactionMessage] = (*VerifyTransactionCommand)(nil)
	_ gocmd.Commander[SendNotificationMessage]  = (*SendNotificationCommand)(nil)
	_ gocmd.Commander[CreateOrderMessage]       = (*CreateOrderCommand)(nil)
)
