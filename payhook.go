package payhook

import (
	"context"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-payhook/core"
	"github.com/goliatone/go-payhook/dispatch"
	"github.com/goliatone/go-payhook/inbound"
	"github.com/goliatone/go-payhook/providers/paystack"
	"github.com/goliatone/go-payhook/providers/resend"
	"github.com/goliatone/go-payhook/providers/shopify"
	"github.com/goliatone/go-payhook/transport"
	"github.com/goliatone/go-payhook/webhooks"
)

type Config = core.Config

type PaymentEvent = core.PaymentEvent

func DefaultConfig() Config {
	return core.DefaultConfig()
}

type relayBuilder struct {
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	metricsRecorder core.MetricsRecorder
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	verifier        core.Verifier
	transactions    core.TransactionVerifier
	action          core.Action
	mailer          core.MailSender
	orders          core.OrderService
	httpClient      core.HTTPDoer
	eventTypes      []string
}

type Option func(*relayBuilder)

func WithLogger(logger core.Logger) Option {
	return func(b *relayBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *relayBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(b *relayBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *relayBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(b *relayBuilder) {
		b.optionsResolver = resolver
	}
}

func WithVerifier(verifier core.Verifier) Option {
	return func(b *relayBuilder) {
		b.verifier = verifier
	}
}

func WithTransactionVerifier(verifier core.TransactionVerifier) Option {
	return func(b *relayBuilder) {
		b.transactions = verifier
	}
}

func WithAction(action core.Action) Option {
	return func(b *relayBuilder) {
		b.action = action
	}
}

func WithMailSender(mailer core.MailSender) Option {
	return func(b *relayBuilder) {
		b.mailer = mailer
	}
}

func WithOrderService(orders core.OrderService) Option {
	return func(b *relayBuilder) {
		b.orders = orders
	}
}

func WithHTTPClient(client core.HTTPDoer) Option {
	return func(b *relayBuilder) {
		b.httpClient = client
	}
}

func WithEventTypes(eventTypes ...string) Option {
	return func(b *relayBuilder) {
		b.eventTypes = eventTypes
	}
}

// Relay wires the webhook pipeline from configuration: signature verifier,
// optional transaction re-check, and the dispatch action selected by
// dispatch_mode. It is the service behind the HTTP handler and the command
// facade.
type Relay struct {
	config       core.Config
	logger       core.Logger
	metrics      core.MetricsRecorder
	transactions core.TransactionVerifier
	notify       *dispatch.NotifyAction
	orders       core.OrderService
	dispatcher   *inbound.Dispatcher
	handler      *inbound.HTTPHandler
}

func New(cfg Config, opts ...Option) (*Relay, error) {
	builder := relayBuilder{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("payhook", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("payhook"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = core.NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = core.NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = core.GoOptionsResolver{}
	}

	defaults := core.DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, core.EnsureRelayErrorEnvelope(core.RelayErrorMapper(err))
	}
	final, err := builder.optionsResolver.Resolve(defaults, loaded, cfg)
	if err != nil {
		return nil, core.EnsureRelayErrorEnvelope(core.RelayErrorMapper(err))
	}

	restAdapter := transport.NewRESTAdapter(builder.httpClient)

	verifier := builder.verifier
	if verifier == nil {
		template, err := webhooks.TemplateFor(final.Processor.WebhookProvider, final.Processor.SigningSecret)
		if err != nil {
			return nil, core.EnsureRelayErrorEnvelope(core.RelayErrorMapper(err))
		}
		verifier = template.Verifier
	}

	transactions := builder.transactions
	if transactions == nil && final.Processor.Verify {
		client, err := paystack.NewClient(paystack.Config{
			BaseURL:   final.Processor.APIURL,
			Token:     final.Processor.APIToken,
			Transport: restAdapter,
		})
		if err != nil {
			return nil, err
		}
		transactions = client
	}

	relay := &Relay{
		config:       final,
		logger:       logger,
		metrics:      builder.metricsRecorder,
		transactions: transactions,
	}

	mailer := builder.mailer
	if mailer == nil && strings.TrimSpace(final.Mail.APIToken) != "" {
		client, err := resend.NewClient(resend.Config{
			BaseURL:   final.Mail.APIURL,
			Token:     final.Mail.APIToken,
			Transport: restAdapter,
		})
		if err != nil {
			return nil, err
		}
		mailer = client
	}
	if mailer != nil {
		notify := dispatch.NewNotifyAction(mailer, final.Mail.From, final.Mail.NotifyAddress)
		notify.CustomerCopy = final.Mail.CustomerCopy
		notify.Logger = logger
		relay.notify = notify
	}

	orders := builder.orders
	if orders == nil && strings.TrimSpace(final.Commerce.StoreDomain) != "" {
		client, err := shopify.NewOrderClient(shopify.Config{
			StoreDomain: final.Commerce.StoreDomain,
			AccessToken: final.Commerce.AccessToken,
			APIVersion:  final.Commerce.APIVersion,
			Transport:   transport.NewGraphQLAdapter("", builder.httpClient),
		})
		if err != nil {
			return nil, err
		}
		orders = client
	}
	relay.orders = orders

	action := builder.action
	if action == nil {
		switch strings.TrimSpace(final.DispatchMode) {
		case core.DispatchModeOrder:
			orderAction := dispatch.NewOrderAction(orders)
			orderAction.Logger = logger
			action = orderAction
		default:
			if relay.notify == nil {
				return nil, relayDependencyError("payhook: notify mode requires a mail sender")
			}
			action = relay.notify
		}
	}

	dispatcher := inbound.NewDispatcher(verifier, action)
	dispatcher.Transactions = transactions
	dispatcher.Logger = logger
	dispatcher.Metrics = builder.metricsRecorder
	if len(builder.eventTypes) > 0 {
		dispatcher.EventTypes = builder.eventTypes
	}

	relay.dispatcher = dispatcher
	relay.handler = inbound.NewHTTPHandler(dispatcher)
	return relay, nil
}

// Handler exposes the webhook endpoint as a standard http.Handler.
func (r *Relay) Handler() http.Handler {
	if r == nil {
		return nil
	}
	return r.handler
}

func (r *Relay) Config() core.Config {
	if r == nil {
		return core.Config{}
	}
	return r.config
}

func (r *Relay) Logger() core.Logger {
	if r == nil {
		return nil
	}
	return r.logger
}

func (r *Relay) HandleWebhook(ctx context.Context, req core.InboundRequest) (core.InboundResult, error) {
	if r == nil || r.dispatcher == nil {
		return core.InboundResult{}, relayDependencyError("payhook: relay is not configured")
	}
	return r.dispatcher.Dispatch(ctx, req)
}

func (r *Relay) VerifyTransaction(ctx context.Context, reference string, claimedAmount int64) (core.Verification, error) {
	if r == nil || r.transactions == nil {
		return core.Verification{}, relayPreconditionError("payhook: transaction verification is not enabled")
	}
	return r.transactions.CheckTransaction(ctx, reference, claimedAmount)
}

// GetTransaction fetches the processor's record without checking it against a
// claimed amount. It requires a verifier that exposes the plain lookup, which
// the default processor client does.
func (r *Relay) GetTransaction(ctx context.Context, reference string) (core.Verification, error) {
	if r == nil || r.transactions == nil {
		return core.Verification{}, relayPreconditionError("payhook: transaction verification is not enabled")
	}
	fetcher, ok := r.transactions.(interface {
		VerifyTransaction(ctx context.Context, reference string) (core.Verification, error)
	})
	if !ok {
		return core.Verification{}, relayPreconditionError("payhook: transaction verifier does not support plain lookups")
	}
	return fetcher.VerifyTransaction(ctx, reference)
}

func (r *Relay) SendNotification(ctx context.Context, event core.PaymentEvent) (core.ActionResult, error) {
	if r == nil || r.notify == nil {
		return core.ActionResult{}, relayPreconditionError("payhook: mail delivery is not configured")
	}
	return r.notify.Execute(ctx, event)
}

func (r *Relay) CreateOrder(ctx context.Context, in core.DraftOrderInput) (core.DraftOrder, error) {
	if r == nil || r.orders == nil {
		return core.DraftOrder{}, relayPreconditionError("payhook: order service is not configured")
	}
	draft, err := r.orders.CreateDraftOrder(ctx, in)
	if err != nil {
		return core.DraftOrder{}, err
	}
	if err := r.orders.CompleteDraftOrder(ctx, draft.ID); err != nil {
		return core.DraftOrder{}, err
	}
	return draft, nil
}

func relayDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.RelayErrorInternal)
}

func relayPreconditionError(message string) error {
	return goerrors.New(message, goerrors.CategoryOperation).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.RelayErrorPreconditionFailed)
}
