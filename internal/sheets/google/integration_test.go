//go:build integration

package google

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"cleanlog/internal/core"

	"github.com/shopspring/decimal"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_AppendActivity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if os.Getenv("GOOGLE_SPREADSHEET_ID") == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	if _, err := serviceAccountCredentials(); err != nil {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewFromEnv(ctx)
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}

	today := core.Today(time.Now())
	ref, err := client.AppendActivity(ctx, core.CleaningActivity{
		ApartmentID: 1,
		Apartment:   core.Apartment{Code: "IT-1", Building: "IT", Number: "1"},
		Date:        today,
		CleanerName: "integration-test",
		Details:     core.MoveOutCleaning{Hours: core.Hours{Value: decimal.RequireFromString("1.25")}},
	})
	if err != nil {
		t.Fatalf("AppendActivity: %v", err)
	}
	if !strings.HasPrefix(ref, client.sheetName(today.Year())+"!A") {
		t.Errorf("unexpected row ref %q", ref)
	}
}
