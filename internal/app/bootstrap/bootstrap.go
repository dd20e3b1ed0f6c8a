package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ledgercontroller "tokengate/contexts/asset-control/ledger-controller"
	"tokengate/contexts/asset-control/ledger-controller/adapters/events"
	"tokengate/contexts/asset-control/ledger-controller/adapters/memory"
	metricsadapter "tokengate/contexts/asset-control/ledger-controller/adapters/metrics"
	postgresadapter "tokengate/contexts/asset-control/ledger-controller/adapters/postgres"
	sqliteadapter "tokengate/contexts/asset-control/ledger-controller/adapters/sqlite"
	workerapp "tokengate/contexts/asset-control/ledger-controller/application/workers"
	"tokengate/contexts/asset-control/ledger-controller/ports"
	contractsv1 "tokengate/contracts/gen/events/v1"
	"tokengate/internal/platform/config"
	"tokengate/internal/platform/db"
	"tokengate/internal/platform/messaging"
	platformotel "tokengate/internal/platform/otel"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const auditConsumerGroup = "ledger-controller-audit"

// store bundles the ports a configured store driver provides.
type store struct {
	repository  ports.Repository
	outbox      ports.OutboxRepository
	clock       ports.Clock
	idGenerator ports.IDGenerator
	close       func() error
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pg, err := db.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return store{}, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if err := repo.Migrate(ctx); err != nil {
			_ = pg.Close()
			return store{}, fmt.Errorf("migrate postgres: %w", err)
		}
		return store{
			repository:  repo,
			outbox:      repo,
			clock:       postgresadapter.SystemClock{},
			idGenerator: postgresadapter.UUIDGenerator{},
			close:       pg.Close,
		}, nil
	case config.StoreSQLite:
		sq, err := sqliteadapter.Open(cfg.SQLitePath)
		if err != nil {
			return store{}, err
		}
		return store{
			repository:  sq,
			outbox:      sq,
			clock:       postgresadapter.SystemClock{},
			idGenerator: postgresadapter.UUIDGenerator{},
			close:       sq.Close,
		}, nil
	case config.StoreMemory:
		mem := memory.NewStore()
		return store{
			repository:  mem,
			outbox:      mem,
			clock:       mem,
			idGenerator: mem,
			close:       func() error { return nil },
		}, nil
	default:
		return store{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openLedger(cfg config.Config) (*memory.Ledger, error) {
	switch cfg.LedgerDriver {
	case config.LedgerNone:
		return nil, nil
	case config.LedgerMemory:
		return memory.NewLedger(memory.WithAutoOpenAccounts()), nil
	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", cfg.LedgerDriver)
	}
}

// AdminApp serves operator commands against the configured store. Asset
// operations need LEDGER_DRIVER=memory; without a ledger only status and the
// pause switch are usable.
type AdminApp struct {
	Module   ledgercontroller.Module
	Ledger   *memory.Ledger
	Registry *prometheus.Registry
	store    store
	shutdown func(context.Context) error
	logger   *slog.Logger
}

func BuildAdmin(ctx context.Context) (*AdminApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "admin")

	shutdown, err := platformotel.Setup(ctx, platformotel.Settings{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	ledger, err := openLedger(cfg)
	if err != nil {
		_ = st.close()
		_ = shutdown(ctx)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	recorder, err := metricsadapter.NewRecorder(cfg.MetricsNamespace, registry)
	if err != nil {
		_ = st.close()
		_ = shutdown(ctx)
		return nil, err
	}

	deps := ledgercontroller.Dependencies{
		Repository:  st.repository,
		Recorder:    recorder,
		Clock:       st.clock,
		IDGenerator: st.idGenerator,
		Logger:      logger,
	}
	if ledger != nil {
		deps.Ledger = ledger
	}
	return &AdminApp{
		Module:   ledgercontroller.NewModule(deps),
		Ledger:   ledger,
		Registry: registry,
		store:    st,
		shutdown: shutdown,
		logger:   logger,
	}, nil
}

func (a *AdminApp) Close(ctx context.Context) error {
	return errors.Join(a.store.close(), a.shutdown(ctx))
}

// WorkerApp relays committed controller events to the event bus and keeps an
// audit log of everything delivered.
type WorkerApp struct {
	store        store
	bus          *messaging.Bus
	outboxRelay  workerapp.OutboxRelay
	audit        *events.LogPublisher
	pollInterval time.Duration
	shutdown     func(context.Context) error
	logger       *slog.Logger
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	shutdown, err := platformotel.Setup(ctx, platformotel.Settings{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	bus := messaging.NewBus(cfg.KafkaBrokers, logger)
	return &WorkerApp{
		store: st,
		bus:   bus,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    st.outbox,
			Publisher: bus,
			Clock:     st.clock,
			Topic:     workerapp.DefaultTopic,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		audit:        events.NewLogPublisher(logger),
		pollInterval: cfg.OutboxPollInterval,
		shutdown:     shutdown,
		logger:       logger,
	}, nil
}

// Run relays until ctx is cancelled or the relay fails.
func (w *WorkerApp) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	topic := w.outboxRelay.Topic
	if err := w.bus.Subscribe(ctx, topic, auditConsumerGroup, func(ctx context.Context, event contractsv1.Envelope) error {
		return w.audit.Publish(ctx, topic, event)
	}); err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"brokers", w.bus.Brokers(),
	)

	group.Go(func() error {
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			if _, err := w.outboxRelay.RunOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})
	group.Go(func() error {
		<-ctx.Done()
		return w.bus.Close()
	})
	return group.Wait()
}

func (w *WorkerApp) Close(ctx context.Context) error {
	return errors.Join(w.bus.Close(), w.store.close(), w.shutdown(ctx))
}
