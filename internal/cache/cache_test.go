package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleanlog/internal/core"
	"cleanlog/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Size())
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", "x")
	c.Set("b", "y")
	now = now.Add(30 * time.Second)
	c.Set("b", "z") // refreshes b

	now = now.Add(45 * time.Second)
	_, ok := c.Get("a")
	assert.False(t, ok)
	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, "z", v)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Zero(t, c.Size())
}

func TestLRUDelete(t *testing.T) {
	c := NewLRUCache[int](0, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	c.Delete("missing")
	assert.Zero(t, c.Size())
}

type countingStore struct {
	*memory.Store
	lookups int
}

func (c *countingStore) FindApartmentByCode(ctx context.Context, code string) (core.Apartment, error) {
	c.lookups++
	return c.Store.FindApartmentByCode(ctx, code)
}

func TestApartmentStoreCachesHitsOnly(t *testing.T) {
	inner := &countingStore{Store: memory.New([]core.Apartment{{Code: "A-1", Building: "North"}})}
	s := NewApartmentStore(inner, 16, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		a, err := s.FindApartmentByCode(ctx, "A-1")
		require.NoError(t, err)
		assert.Equal(t, "North", a.Building)
	}
	assert.Equal(t, 1, inner.lookups)

	for i := 0; i < 2; i++ {
		_, err := s.FindApartmentByCode(ctx, "Z-9")
		assert.True(t, errors.Is(err, core.ErrApartmentNotFound))
	}
	assert.Equal(t, 3, inner.lookups)

	s.Forget("A-1")
	_, err := s.FindApartmentByCode(ctx, "A-1")
	require.NoError(t, err)
	assert.Equal(t, 4, inner.lookups)

	assert.NoError(t, s.Ping(ctx))
}

func TestApartmentStoreUpsertRefreshesCache(t *testing.T) {
	inner := &countingStore{Store: memory.New([]core.Apartment{{Code: "A-1", Building: "North"}})}
	s := NewApartmentStore(inner, 16, time.Hour)
	ctx := context.Background()

	_, err := s.FindApartmentByCode(ctx, "A-1")
	require.NoError(t, err)

	saved, err := s.UpsertApartment(ctx, core.Apartment{Code: "A-1", Building: "South", Number: "1"})
	require.NoError(t, err)

	got, err := s.FindApartmentByCode(ctx, "A-1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "South", got.Building)
	assert.Equal(t, 2, inner.lookups)
}

// lookupOnlyStore hides the promoted UpsertApartment.
type lookupOnlyStore struct{ *countingStore }

func (lookupOnlyStore) UpsertApartment() {}

func TestApartmentStoreUpsertNeedsProvisioningStore(t *testing.T) {
	s := NewApartmentStore(lookupOnlyStore{&countingStore{Store: memory.New(nil)}}, 4, time.Minute)
	_, err := s.UpsertApartment(context.Background(), core.Apartment{Code: "A-1"})
	assert.Error(t, err)
}

func TestApartmentStoreSweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewApartmentStore(memory.New([]core.Apartment{{Code: "A-1"}, {Code: "B-2"}}), 16, time.Minute)
	s.apartments.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := s.FindApartmentByCode(ctx, "A-1")
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = s.FindApartmentByCode(ctx, "B-2")
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.apartments.Size())
}

func TestRunJanitorStopsWithContext(t *testing.T) {
	s := NewApartmentStore(memory.New(nil), 4, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.RunJanitor(ctx, time.Millisecond) }()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
