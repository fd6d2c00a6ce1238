package routes

import (
	"context"
	"fmt"

	"cotizaciones/internal/adapter/persistence/memory"
	"cotizaciones/internal/adapter/persistence/repository"
	"cotizaciones/internal/adapter/persistence/sqlstore"
	"cotizaciones/internal/config"
	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/infrastructure/database"
	"cotizaciones/internal/infrastructure/notify"
	"cotizaciones/internal/usecase"
	"cotizaciones/internal/usecase/interfaces"
	"cotizaciones/internal/worker"

	"github.com/rs/zerolog/log"
)

// Dependencies is the wired object graph behind the HTTP surface.
type Dependencies struct {
	Quotations interfaces.IQuotationRepository
	Counters   interfaces.ISequenceCounterRepository
	Notifier   interfaces.INotifier
	UseCase    usecase.IQuotationUseCase
	PriceField entities.PriceField

	// released in reverse order by Close
	closers []func() error
}

// Build connects the configured store and notifier transports and assembles
// the quotation use case.
func Build(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	d := &Dependencies{}

	if err := d.connectStore(ctx, cfg); err != nil {
		d.Close()
		return nil, err
	}
	if err := d.connectNotifier(ctx, cfg); err != nil {
		d.Close()
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		d.Close()
		return nil, err
	}
	priceField, err := cfg.Price()
	if err != nil {
		d.Close()
		return nil, err
	}
	d.PriceField = priceField

	allocator := usecase.NewSequenceAllocator(d.Counters, cfg.Scheme(),
		usecase.WithMaxTries(cfg.AllocatorMaxTries),
		usecase.WithLocation(loc),
	)
	router := usecase.NewNotificationRouter(d.Notifier, usecase.Recipients{
		Supervisor: cfg.SupervisorEmail,
		Purchasing: cfg.PurchasingEmail,
	}, priceField)
	d.UseCase = usecase.NewQuotationUseCase(d.Quotations, allocator, router)
	return d, nil
}

func (d *Dependencies) connectStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreDriver {
	case config.StoreDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			return err
		}
		waitCtx, cancel := context.WithTimeout(ctx, cfg.StoreReadyTimeout)
		defer cancel()
		if err := database.WaitForTables(waitCtx, ddb, cfg.StoreReadyTimeout, cfg.QuotationsTable, cfg.CountersTable); err != nil {
			return err
		}
		d.Quotations = repository.NewQuotationDynamoRepository(ddb, cfg.QuotationsTable)
		d.Counters = repository.NewCounterDynamoRepository(ddb, cfg.CountersTable)
	case config.StoreSQL:
		db, err := database.OpenSQL(cfg.DatabaseDriver, cfg.DatabaseURL, !cfg.IsProduction())
		if err != nil {
			return err
		}
		d.closers = append(d.closers, func() error { return database.CloseSQL(db) })
		if err := sqlstore.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		d.Quotations = sqlstore.NewQuotationStore(db)
		d.Counters = sqlstore.NewCounterStore(db)
	case config.StoreMemory:
		d.Quotations = memory.NewQuotationStore()
		d.Counters = memory.NewCounterStore()
	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")
	return nil
}

func (d *Dependencies) connectNotifier(ctx context.Context, cfg *config.Config) error {
	transport, closeTransport, err := notify.FromConfig(cfg)
	if err != nil {
		return err
	}
	d.closers = append(d.closers, closeTransport)

	if !cfg.NotifyAsync {
		d.Notifier = transport
		return nil
	}

	rdb, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	d.closers = append(d.closers, rdb.Close)

	workerCtx, cancel := context.WithCancel(context.Background())
	pool := worker.NewPool(rdb, transport, cfg.WorkerPoolSize)
	pool.Start(workerCtx)
	d.closers = append(d.closers, func() error {
		cancel()
		pool.Wait()
		return nil
	})

	d.Notifier = worker.NewQueueNotifier(rdb)
	return nil
}

// Close stops the workers and releases connections.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Error().Err(err).Msg("teardown")
		}
	}
	d.closers = nil
}
