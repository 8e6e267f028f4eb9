package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"cleanlog/internal/core"
	"cleanlog/internal/observability"
	"cleanlog/internal/storage"
)

// ApartmentStore serves apartment lookups from an LRU cache and delegates
// everything else to the wrapped store. Only found apartments are cached,
// so a newly provisioned code is visible on its first lookup.
type ApartmentStore struct {
	storage.Store
	apartments *LRUCache[core.Apartment]
}

var (
	_ storage.Store             = (*ApartmentStore)(nil)
	_ storage.ApartmentUpserter = (*ApartmentStore)(nil)
)

func NewApartmentStore(store storage.Store, maxSize int, ttl time.Duration) *ApartmentStore {
	return &ApartmentStore{
		Store:      store,
		apartments: NewLRUCache[core.Apartment](maxSize, ttl),
	}
}

func (s *ApartmentStore) FindApartmentByCode(ctx context.Context, code string) (core.Apartment, error) {
	key := strings.TrimSpace(code)
	if a, ok := s.apartments.Get(key); ok {
		return a, nil
	}
	a, err := s.Store.FindApartmentByCode(ctx, code)
	if err != nil {
		return core.Apartment{}, err
	}
	s.apartments.Set(key, a)
	return a, nil
}

// Ping forwards to the wrapped store when it supports it.
func (s *ApartmentStore) Ping(ctx context.Context) error {
	if p, ok := s.Store.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// UpsertApartment provisions through the wrapped store and drops the cached
// entry so the next lookup sees the new building and number.
func (s *ApartmentStore) UpsertApartment(ctx context.Context, a core.Apartment) (core.Apartment, error) {
	up, ok := s.Store.(storage.ApartmentUpserter)
	if !ok {
		return core.Apartment{}, errors.New("wrapped store cannot provision apartments")
	}
	saved, err := up.UpsertApartment(ctx, a)
	if err != nil {
		return core.Apartment{}, err
	}
	s.Forget(a.Code)
	return saved, nil
}

// Forget drops a cached apartment.
func (s *ApartmentStore) Forget(code string) {
	s.apartments.Delete(strings.TrimSpace(code))
}

// Sweep removes expired apartments and reports the remaining cache size.
func (s *ApartmentStore) Sweep() int {
	removed := s.apartments.CleanExpired()
	observability.SetApartmentCacheEntries(s.apartments.Size())
	return removed
}

// RunJanitor sweeps every interval until ctx is done.
func (s *ApartmentStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep()
		}
	}
}
