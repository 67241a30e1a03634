// Package chatflow provides a top-level convenience entry point for
// embedding the leasing chat pipeline with minimal boilerplate.
//
// Usage:
//
//	import "github.com/propertytek/chatflow"
//
//	svc, err := chatflow.New(
//		chatflow.WithLLM(client),
//		chatflow.WithCatalog(store),
//		chatflow.WithSessions(sessions),
//		chatflow.WithScheduler(provider),
//		chatflow.WithSMS(sender),
//	)
//	resp, err := svc.HandleTurn(ctx, chat.TurnRequest{Query: "2 bed in Austin"})
//
// The cmd/chatflow server wires the same pipeline from configuration;
// use this package when embedding the service in another process.
package chatflow

import (
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/booking"
	"github.com/propertytek/chatflow/catalog"
	"github.com/propertytek/chatflow/chat"
	"github.com/propertytek/chatflow/llm"
	"github.com/propertytek/chatflow/notify"
	"github.com/propertytek/chatflow/scheduler"
	"github.com/propertytek/chatflow/session"
	"github.com/propertytek/chatflow/workflow"
	"github.com/propertytek/chatflow/workflow/nodes"
)

// Option configures the pipeline created by [New].
type Option func(*options)

type options struct {
	llm       llm.Client
	catalog   *catalog.Store
	sessions  *session.Store
	scheduler scheduler.Provider
	sms       notify.Sender
	tracker   workflow.Tracker
	runConfig workflow.RunConfig
	logger    *zap.Logger
}

// WithLLM sets the generation backend.
func WithLLM(c llm.Client) Option { return func(o *options) { o.llm = c } }

// WithCatalog sets the property catalog.
func WithCatalog(s *catalog.Store) Option { return func(o *options) { o.catalog = s } }

// WithSessions sets the session store.
func WithSessions(s *session.Store) Option { return func(o *options) { o.sessions = s } }

// WithScheduler sets the calendar provider.
func WithScheduler(p scheduler.Provider) Option { return func(o *options) { o.scheduler = p } }

// WithSMS sets the SMS sender.
func WithSMS(s notify.Sender) Option { return func(o *options) { o.sms = s } }

// WithTracker sets the run tracker. Nil disables tracing.
func WithTracker(t workflow.Tracker) Option { return func(o *options) { o.tracker = t } }

// WithRunConfig overrides the per-run bounds and model selection.
func WithRunConfig(cfg workflow.RunConfig) Option { return func(o *options) { o.runConfig = cfg } }

// WithLogger sets a custom zap logger.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

// New builds the full chat pipeline: node registry, leasing graph,
// driver, booking flow and chat service.
func New(opts ...Option) (*chat.Service, error) {
	o := options{
		runConfig: workflow.DefaultRunConfig(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	registry := workflow.NewRegistry()
	if err := nodes.RegisterAll(registry, nodes.Deps{
		LLM:       o.llm,
		Catalog:   o.catalog,
		Scheduler: o.scheduler,
		SMS:       o.sms,
		Logger:    o.logger,
	}); err != nil {
		return nil, err
	}

	graph, err := workflow.NewLeasingGraph(registry)
	if err != nil {
		return nil, err
	}

	driver := workflow.NewDriver(graph, o.tracker, o.logger)
	flow := booking.NewFlow(o.catalog, o.logger)

	return chat.NewService(chat.Options{
		Driver:    driver,
		RunConfig: o.runConfig,
		Booking:   flow,
		Sessions:  o.sessions,
		Catalog:   o.catalog,
		Scheduler: o.scheduler,
		SMS:       o.sms,
		Logger:    o.logger,
	})
}
