package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	shipmentregistry "freightledger/contexts/custody-chain/shipment-registry"
	registryevents "freightledger/contexts/custody-chain/shipment-registry/adapters/events"
	registrypostgres "freightledger/contexts/custody-chain/shipment-registry/adapters/postgres"
	registryworkers "freightledger/contexts/custody-chain/shipment-registry/application/workers"
	registryports "freightledger/contexts/custody-chain/shipment-registry/ports"
	authorization "freightledger/contexts/identity-access/authorization-service"
	authevents "freightledger/contexts/identity-access/authorization-service/adapters/events"
	authpostgres "freightledger/contexts/identity-access/authorization-service/adapters/postgres"
	authqueries "freightledger/contexts/identity-access/authorization-service/application/queries"
	authworkers "freightledger/contexts/identity-access/authorization-service/application/workers"
	authports "freightledger/contexts/identity-access/authorization-service/ports"
	contractsv1 "freightledger/contracts/gen/events/v1"
	"freightledger/internal/platform/config"
	"freightledger/internal/platform/db"
	"freightledger/internal/platform/httpserver"
	"freightledger/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type relayFunc func(context.Context) error

type APIApp struct {
	server       *httpserver.Server
	postgres     *db.Postgres
	relays       []relayFunc
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	kafka        *messaging.KafkaPublisher
	bus          *messaging.Bus
	custodyTopic string
	delivered    registryworkers.DeliveredConsumer
	relays       []relayFunc
	pollInterval time.Duration
	consume      bool
	logger       *slog.Logger
}

// authzRoleChecker bridges the registry's RoleChecker port to the
// authorization module without a cross-context import inside the modules.
type authzRoleChecker struct {
	hasRole authqueries.HasRoleUseCase
}

func (c authzRoleChecker) HasRole(ctx context.Context, role string, actor string) (bool, error) {
	return c.hasRole.Execute(ctx, authqueries.HasRoleQuery{Role: role, Actor: actor})
}

// eventFanout delivers envelopes to the in-process bus and, when
// configured, to the external broker.
type eventFanout struct {
	bus   *messaging.Bus
	kafka *messaging.KafkaPublisher
	topic string
}

func (f eventFanout) publish(ctx context.Context, event contractsv1.Envelope) error {
	if err := f.bus.Publish(ctx, f.topic, event); err != nil {
		return err
	}
	if f.kafka != nil {
		return f.kafka.Publish(ctx, f.topic, event)
	}
	return nil
}

func (f eventFanout) PublishCustodyEvent(ctx context.Context, event registryports.CustodyEvent) error {
	return f.publish(ctx, event)
}

func (f eventFanout) PublishRoleChanged(ctx context.Context, event authports.RoleChangedEvent) error {
	return f.publish(ctx, event)
}

// BuildAPI wires the HTTP process. An empty POSTGRES_DSN selects the
// in-memory stores; in that mode the outbox relays run inside this
// process because no worker shares the state.
func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		authModule := authorization.NewInMemoryModule(logger, cfg.RootAdmin)
		roles := authzRoleChecker{hasRole: authModule.HasRole}
		registryModule := shipmentregistry.NewInMemoryModule(logger, roles)

		custodyRelay := registryworkers.OutboxRelay{
			Outbox:        registryModule.Store,
			Publisher:     registryevents.NewPublisher(logger),
			Clock:         registryModule.Store,
			SourceService: cfg.ServiceName,
			BatchSize:     cfg.OutboxBatchSize,
			Logger:        logger,
		}
		authzRelay := authworkers.OutboxRelay{
			Outbox:        authModule.Store,
			Publisher:     authevents.NewPublisher(logger),
			Clock:         authModule.Store,
			SourceService: cfg.ServiceName,
			BatchSize:     cfg.OutboxBatchSize,
			Logger:        logger,
		}

		server := httpserver.New(registryModule, authModule, logger, normalizeAddr(cfg.HTTPPort))
		return &APIApp{
			server: server,
			relays: []relayFunc{
				func(ctx context.Context) error {
					_, err := custodyRelay.RunOnce(ctx)
					return err
				},
				authzRelay.RunOnce,
			},
			pollInterval: cfg.OutboxPollInterval,
			logger:       logger,
		}, nil
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := authpostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}
	if err := registrypostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}

	authRepo := authpostgres.NewRepository(pg.DB, logger)
	seedCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := authRepo.SeedAdmin(seedCtx, cfg.RootAdmin, time.Now().UTC()); err != nil {
		return nil, err
	}

	authModule := authorization.NewModule(authorization.Dependencies{
		Repository:  authRepo,
		Clock:       authpostgres.SystemClock{},
		IDGenerator: authpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	registryModule := shipmentregistry.NewModule(shipmentregistry.Dependencies{
		Repository:  registryRepo,
		Roles:       authzRoleChecker{hasRole: authModule.HasRole},
		Clock:       registrypostgres.SystemClock{},
		IDGenerator: registrypostgres.UUIDGenerator{},
		Logger:      logger,
	})

	server := httpserver.New(registryModule, authModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

// BuildWorker wires the background process: outbox relays for both
// modules and the delivered-shipment consumer.
func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := authpostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}
	if err := registrypostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	var kafkaPub *messaging.KafkaPublisher
	if cfg.EnableKafkaPublish {
		kafkaPub = messaging.NewKafkaPublisher(cfg.KafkaBrokers, logger)
	}
	custodyFanout := eventFanout{bus: bus, kafka: kafkaPub, topic: cfg.CustodyTopic}
	authzFanout := eventFanout{bus: bus, kafka: kafkaPub, topic: cfg.AuthzTopic}

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	authRepo := authpostgres.NewRepository(pg.DB, logger)

	custodyRelay := registryworkers.OutboxRelay{
		Outbox:        registryRepo,
		Publisher:     custodyFanout,
		Clock:         registrypostgres.SystemClock{},
		SourceService: cfg.ServiceName,
		BatchSize:     cfg.OutboxBatchSize,
		Logger:        logger,
	}
	authzRelay := authworkers.OutboxRelay{
		Outbox:        authRepo,
		Publisher:     authzFanout,
		Clock:         authpostgres.SystemClock{},
		SourceService: cfg.ServiceName,
		BatchSize:     cfg.OutboxBatchSize,
		Logger:        logger,
	}

	return &WorkerApp{
		postgres:     pg,
		kafka:        kafkaPub,
		bus:          bus,
		custodyTopic: cfg.CustodyTopic,
		delivered: registryworkers.DeliveredConsumer{
			ConsumerName: "custody-delivered-cg",
			Dedup:        registryRepo,
			Clock:        registrypostgres.SystemClock{},
			Logger:       logger,
		},
		relays: []relayFunc{
			func(ctx context.Context) error {
				_, err := custodyRelay.RunOnce(ctx)
				return err
			},
			authzRelay.RunOnce,
		},
		pollInterval: cfg.OutboxPollInterval,
		consume:      cfg.EnableDeliveredConsume,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	if len(a.relays) > 0 {
		go a.runRelays(ctx)
	}
	return a.server.Start()
}

func (a *APIApp) runRelays(ctx context.Context) {
	interval := a.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, relay := range a.relays {
			if err := relay(ctx); err != nil && a.logger != nil {
				a.logger.Error("relay run failed",
					"event", "bootstrap_relay_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.consume {
		if err := w.bus.Subscribe(ctx, w.custodyTopic, w.delivered.ConsumerName, w.delivered.Handle); err != nil {
			return err
		}
	}

	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", interval.String(),
	)

	for {
		for _, relay := range w.relays {
			if err := relay(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.kafka != nil {
		_ = w.kafka.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
