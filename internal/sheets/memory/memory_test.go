package memory

import (
	"context"
	"testing"

	"cleanlog/internal/core"
)

func TestSheetAppend(t *testing.T) {
	s := New()
	ref, err := s.AppendActivity(context.Background(), core.CleaningActivity{
		ID:          7,
		ApartmentID: 1,
		Date:        core.NewDate(2024, 5, 1),
		CleanerName: "Anna",
		Details:     core.FaucetFlush{},
	})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	rows := s.Rows()
	if len(rows) != 1 || rows[0].ID != 7 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestSheetAppendRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.AppendActivity(context.Background(), core.CleaningActivity{
		ApartmentID: 1,
		Date:    core.NewDate(2024, 5, 1),
		Details: core.RegularCleaning{},
	})
	if err == nil {
		t.Fatal("expected error for missing cleaner")
	}
	if len(s.Rows()) != 0 {
		t.Fatal("invalid activity must not be stored")
	}
}
