package backend

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"cleanlog/internal/amqp"
	"cleanlog/internal/cache"
	"cleanlog/internal/log"
	"cleanlog/internal/storage"
	"cleanlog/internal/storage/memory"
)

// Apartment lookups happen on every form view and submission.
const (
	apartmentCacheSize = 256
	apartmentCacheTTL  = 5 * time.Minute

	// CacheSweepInterval is how often the apartment janitor should run.
	CacheSweepInterval = time.Minute
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	apartments := cache.NewApartmentStore(repo, apartmentCacheSize, apartmentCacheTTL)
	seeded, err := seedApartments(ctx, apartments, config.SeedDir)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	result := &BackendResult{
		Store:      apartments,
		Apartments: apartments,
		Cleanup:    repo.Close,
	}

	// AMQP is optional; registrations keep working without it
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sheet sync",
				log.FieldComponent, log.ComponentAMQP,
				log.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client",
				log.FieldComponent, log.ComponentAMQP,
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Publisher = client
			result.Cleanup = func() error {
				_ = client.Close()
				return repo.Close()
			}
		}
	}

	f.logger.Info("Initialized SQLite backend",
		log.FieldComponent, log.ComponentStorage,
		"db_path", config.SQLiteDBPath,
		"seeded_apartments", seeded,
		"amqp_enabled", result.Publisher != nil)

	return result, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.SeedDir
	if dataDir == "" {
		dataDir = "data"
	}

	store := memory.NewFromFiles(dataDir)

	f.logger.Info("Initialized memory backend",
		log.FieldComponent, log.ComponentStorage,
		"seed_dir", dataDir)

	apartments := cache.NewApartmentStore(store, apartmentCacheSize, apartmentCacheTTL)
	return &BackendResult{Store: apartments, Apartments: apartments}, nil
}

// seedApartments upserts every apartment of the seed file, so the file can
// be edited and re-applied on the next start.
func seedApartments(ctx context.Context, repo storage.ApartmentUpserter, dir string) (int, error) {
	if dir == "" {
		return 0, nil
	}
	apts := storage.ReadSeedApartments(filepath.Join(dir, storage.SeedFile))
	for _, a := range apts {
		if _, err := repo.UpsertApartment(ctx, a); err != nil {
			return 0, fmt.Errorf("seed apartment %q: %w", a.Code, err)
		}
	}
	return len(apts), nil
}
