package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cleanlog/internal/core"
	"cleanlog/internal/storage"
)

var (
	_ storage.Store             = (*Store)(nil)
	_ storage.ApartmentUpserter = (*Store)(nil)
)

// Store keeps apartments and activities in process memory.
type Store struct {
	mu         sync.Mutex
	apartments map[string]core.Apartment
	activities []core.CleaningActivity
	nextAptID  int64
	nextID     int64
	now        func() time.Time
}

func New(apartments []core.Apartment) *Store {
	s := &Store{
		apartments: make(map[string]core.Apartment),
		now:        time.Now,
	}
	for _, a := range apartments {
		_, _ = s.UpsertApartment(context.Background(), a)
	}
	return s
}

// NewFromFiles seeds apartments from base/seed_apartments.txt, one
// "code,building,number" line per apartment.
func NewFromFiles(base string) *Store {
	apts := storage.ReadSeedApartments(filepath.Join(base, storage.SeedFile))
	if len(apts) == 0 {
		apts = []core.Apartment{
			{Code: "A-101", Building: "A", Number: "101"},
			{Code: "A-102", Building: "A", Number: "102"},
			{Code: "B-201", Building: "B", Number: "201"},
		}
	}
	return New(apts)
}

// UpsertApartment adds or updates an apartment by code and returns it with its ID.
func (s *Store) UpsertApartment(_ context.Context, a core.Apartment) (core.Apartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Code = strings.TrimSpace(a.Code)
	if existing, ok := s.apartments[a.Code]; ok {
		a.ID = existing.ID
	} else {
		s.nextAptID++
		a.ID = s.nextAptID
	}
	s.apartments[a.Code] = a
	return a, nil
}

func (s *Store) FindApartmentByCode(_ context.Context, code string) (core.Apartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apartments[code]
	if !ok {
		return core.Apartment{}, core.ErrApartmentNotFound
	}
	return a, nil
}

func (s *Store) InsertActivity(_ context.Context, a core.CleaningActivity) (core.CleaningActivity, error) {
	if err := a.Validate(); err != nil {
		return core.CleaningActivity{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	apt, ok := s.apartmentByID(a.ApartmentID)
	if !ok {
		return core.CleaningActivity{}, fmt.Errorf("apartment %d: %w", a.ApartmentID, core.ErrApartmentNotFound)
	}
	s.nextID++
	a.ID = s.nextID
	a.Apartment = apt
	a.CreatedAt = s.now()
	s.activities = append(s.activities, a)
	return a, nil
}

func (s *Store) FindActivitiesInRange(_ context.Context, start, end core.Date) ([]core.CleaningActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inRange(start, end), nil
}

func (s *Store) AggregateInRange(_ context.Context, start, end core.Date) (core.WeeklyTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.inRange(start, end)), nil
}

// Activities returns a copy of everything stored, in insertion order.
func (s *Store) Activities() []core.CleaningActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CleaningActivity(nil), s.activities...)
}

func (s *Store) inRange(start, end core.Date) []core.CleaningActivity {
	r := core.WeekRange{Start: start, End: end}
	var out []core.CleaningActivity
	for _, a := range s.activities {
		if r.Contains(a.Date) {
			out = append(out, a)
		}
	}
	// activities is already in creation order; a stable sort by date keeps it as the tie-break
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

func (s *Store) apartmentByID(id int64) (core.Apartment, bool) {
	for _, a := range s.apartments {
		if a.ID == id {
			return a, true
		}
	}
	return core.Apartment{}, false
}
