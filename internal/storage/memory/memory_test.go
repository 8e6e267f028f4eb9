package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cleanlog/internal/core"

	"github.com/shopspring/decimal"
)

func TestMemoryStoreInsertAndList(t *testing.T) {
	s := New([]core.Apartment{{Code: "A-1"}, {Code: "B-2"}})
	ctx := context.Background()

	apt, err := s.FindApartmentByCode(ctx, "B-2")
	if err != nil || apt.ID != 2 {
		t.Fatalf("unexpected lookup: apt=%+v err=%v", apt, err)
	}
	if _, err := s.FindApartmentByCode(ctx, "C-3"); err != core.ErrApartmentNotFound {
		t.Fatalf("expected ErrApartmentNotFound, got %v", err)
	}

	add := func(date core.Date, d core.ActivityDetails) core.CleaningActivity {
		t.Helper()
		a, err := s.InsertActivity(ctx, core.CleaningActivity{ApartmentID: apt.ID, Date: date, CleanerName: "x", Details: d})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		return a
	}
	second := add(core.NewDate(2024, 5, 3), core.RegularCleaning{})
	first := add(core.NewDate(2024, 4, 29), core.MoveOutCleaning{Hours: core.Hours{Value: decimal.NewFromInt(3)}})
	third := add(core.NewDate(2024, 5, 3), core.FaucetFlush{})
	add(core.NewDate(2024, 5, 6), core.RegularCleaning{})

	week := core.WeekContaining(core.NewDate(2024, 5, 1))
	got, _ := s.FindActivitiesInRange(ctx, week.Start, week.End)
	if len(got) != 3 {
		t.Fatalf("expected 3 activities, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID || got[2].ID != third.ID {
		t.Fatalf("unexpected order: %d %d %d", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].Apartment.Code != "B-2" {
		t.Fatalf("apartment not attached: %+v", got[0].Apartment)
	}

	totals, _ := s.AggregateInRange(ctx, week.Start, week.End)
	if totals.Count(core.TypeMoveOutCleaning) != 1 || totals.TotalHours.String() != "3" {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestMemoryStoreRejectsUnknownApartment(t *testing.T) {
	s := New(nil)
	_, err := s.InsertActivity(context.Background(), core.CleaningActivity{
		ApartmentID: 5, Date: core.NewDate(2024, 5, 1), CleanerName: "x", Details: core.RegularCleaning{},
	})
	if err == nil {
		t.Fatalf("expected error for unknown apartment")
	}
	if len(s.Activities()) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestNewFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()
	// No file -> defaults
	s := NewFromFiles(dir)
	if _, err := s.FindApartmentByCode(context.Background(), "A-101"); err != nil {
		t.Fatalf("expected default apartments when file missing: %v", err)
	}

	content := "# code,building,number\nX-1, West ,1\nX-1,East,9\n\nY-2\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_apartments.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s = NewFromFiles(dir)
	x, err := s.FindApartmentByCode(context.Background(), "X-1")
	if err != nil || x.Building != "West" || x.Number != "1" {
		t.Fatalf("unexpected X-1: %+v err=%v", x, err)
	}
	if _, err := s.FindApartmentByCode(context.Background(), "Y-2"); err != nil {
		t.Fatalf("expected Y-2: %v", err)
	}
	if _, err := s.FindApartmentByCode(context.Background(), "A-101"); err == nil {
		t.Fatalf("defaults must not be used when the seed file has entries")
	}
}
