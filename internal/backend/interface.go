package backend

import (
	"context"
	"slices"

	"cleanlog/internal/cache"
	"cleanlog/internal/services"
	"cleanlog/internal/storage"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult is an opened store plus its optional event publisher.
// Store is Apartments, exposed separately so the caller can run its janitor.
type BackendResult struct {
	Store      storage.Store
	Apartments *cache.ApartmentStore
	Publisher  services.Publisher // nil when publishing is disabled
	Cleanup    CleanupFunc
}

// Factory opens the backend selected by configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Directory holding the apartment seed file
	SeedDir string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	return slices.Contains(GetBackendTypes(), bt)
}
