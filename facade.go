package payhook

import (
	"fmt"

	payhookcommand "github.com/goliatone/go-payhook/command"
	payhookquery "github.com/goliatone/go-payhook/query"
)

type RelayService = payhookcommand.RelayService

type Commands struct {
	HandleWebhook     *payhookcommand.HandleWebhookCommand
	VerifyTransaction *payhookcommand.VerifyTransactionCommand
	SendNotification  *payhookcommand.SendNotificationCommand
	CreateOrder       *payhookcommand.CreateOrderCommand
}

type Queries struct {
	GetTransaction *payhookquery.GetTransactionQuery
}

type Facade struct {
	service  RelayService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	transactionReader payhookquery.TransactionReader
}

func WithTransactionReader(reader payhookquery.TransactionReader) FacadeOption {
	return func(options *facadeOptions) {
		options.transactionReader = reader
	}
}

func NewFacade(service RelayService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("payhook: relay service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.transactionReader
	if reader == nil {
		if candidate, ok := service.(payhookquery.TransactionReader); ok {
			reader = candidate
		}
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		HandleWebhook:     payhookcommand.NewHandleWebhookCommand(service),
		VerifyTransaction: payhookcommand.NewVerifyTransactionCommand(service),
		SendNotification:  payhookcommand.NewSendNotificationCommand(service),
		CreateOrder:       payhookcommand.NewCreateOrderCommand(service),
	}
	facade.queries = Queries{
		GetTransaction: payhookquery.NewGetTransactionQuery(reader),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() RelayService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ RelayService = (*Relay)(nil)
var _ payhookquery.TransactionReader = (*Relay)(nil)
