package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cleanlog/internal/core"
	"cleanlog/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements Store on top of a single SQLite file.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var (
	_ Store             = (*SQLiteRepository)(nil)
	_ ApartmentUpserter = (*SQLiteRepository)(nil)
	_ ActivityGetter    = (*SQLiteRepository)(nil)
	_ Pinger            = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) FindApartmentByCode(ctx context.Context, code string) (core.Apartment, error) {
	a, err := r.queries.GetApartmentByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Apartment{}, core.ErrApartmentNotFound
	}
	if err != nil {
		return core.Apartment{}, fmt.Errorf("get apartment %q: %w", code, err)
	}
	return toCoreApartment(a), nil
}

// UpsertApartment provisions an apartment, updating building and number when
// the code already exists.
func (r *SQLiteRepository) UpsertApartment(ctx context.Context, a core.Apartment) (core.Apartment, error) {
	row, err := r.queries.UpsertApartment(ctx, UpsertApartmentParams{
		Code:     a.Code,
		Building: a.Building,
		Number:   a.Number,
	})
	if err != nil {
		return core.Apartment{}, fmt.Errorf("upsert apartment %q: %w", a.Code, err)
	}
	return toCoreApartment(row), nil
}

func (r *SQLiteRepository) InsertActivity(ctx context.Context, a core.CleaningActivity) (core.CleaningActivity, error) {
	if err := a.Validate(); err != nil {
		return core.CleaningActivity{}, fmt.Errorf("invalid activity: %w", err)
	}

	var hours sql.NullString
	if h, ok := a.HoursWorked(); ok {
		hours = sql.NullString{String: h.String(), Valid: true}
	}

	row, err := r.queries.CreateCleaningActivity(ctx, CreateCleaningActivityParams{
		ApartmentID:  a.ApartmentID,
		ActivityType: string(a.Type()),
		Date:         a.Date.String(),
		CleanerName:  a.CleanerName,
		HoursWorked:  hours,
	})
	if err != nil {
		return core.CleaningActivity{}, fmt.Errorf("create cleaning activity: %w", err)
	}

	a.ID = row.ID
	a.CreatedAt, err = parseCreatedAt(row.CreatedAt)
	if err != nil {
		return core.CleaningActivity{}, err
	}

	slog.InfoContext(ctx, "Cleaning activity saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldActivityID, row.ID,
		"apartment_id", row.ApartmentID,
		log.FieldActivityType, row.ActivityType,
		log.FieldDate, row.Date)

	return a, nil
}

func (r *SQLiteRepository) GetActivity(ctx context.Context, id int64) (core.CleaningActivity, error) {
	row, err := r.queries.GetCleaningActivity(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CleaningActivity{}, ErrActivityNotFound
	}
	if err != nil {
		return core.CleaningActivity{}, fmt.Errorf("get cleaning activity %d: %w", id, err)
	}
	return activityFromRow(ListActivitiesInRangeRow(row))
}

func (r *SQLiteRepository) FindActivitiesInRange(ctx context.Context, start, end core.Date) ([]core.CleaningActivity, error) {
	rows, err := r.queries.ListActivitiesInRange(ctx, ListActivitiesInRangeParams{
		StartDate: start.String(),
		EndDate:   end.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list activities %s..%s: %w", start, end, err)
	}

	out := make([]core.CleaningActivity, 0, len(rows))
	for _, row := range rows {
		a, err := activityFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *SQLiteRepository) AggregateInRange(ctx context.Context, start, end core.Date) (core.WeeklyTotals, error) {
	counts, err := r.queries.CountActivitiesByType(ctx, CountActivitiesByTypeParams{
		StartDate: start.String(),
		EndDate:   end.String(),
	})
	if err != nil {
		return core.WeeklyTotals{}, fmt.Errorf("count activities by type: %w", err)
	}

	// hours are exact decimal text; SQL SUM would go through REAL
	hours, err := r.queries.ListMoveOutHours(ctx, ListMoveOutHoursParams{
		StartDate: start.String(),
		EndDate:   end.String(),
	})
	if err != nil {
		return core.WeeklyTotals{}, fmt.Errorf("list move-out hours: %w", err)
	}

	totals := core.WeeklyTotals{
		CountsByType: make(map[core.ActivityType]int, len(counts)),
	}
	for _, c := range counts {
		totals.CountsByType[core.ActivityType(c.ActivityType)] = int(c.Count)
	}
	for _, text := range hours {
		if !text.Valid {
			continue
		}
		h, err := core.ParseHours(text.String)
		if err != nil {
			return core.WeeklyTotals{}, fmt.Errorf("stored hours %q: %w", text.String, err)
		}
		totals.TotalHours = totals.TotalHours.Add(h)
	}
	return totals, nil
}

func toCoreApartment(a Apartment) core.Apartment {
	return core.Apartment{
		ID:       a.ID,
		Code:     a.Code,
		Building: a.Building,
		Number:   a.Number,
	}
}

func activityFromRow(row ListActivitiesInRangeRow) (core.CleaningActivity, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.CleaningActivity{}, fmt.Errorf("activity %d: stored date %q: %w", row.ID, row.Date, err)
	}

	activityType, err := core.ParseActivityType(row.ActivityType)
	if err != nil {
		return core.CleaningActivity{}, fmt.Errorf("activity %d: stored type %q: %w", row.ID, row.ActivityType, err)
	}

	var hours core.Hours
	if row.HoursWorked.Valid {
		if hours, err = core.ParseHours(row.HoursWorked.String); err != nil {
			return core.CleaningActivity{}, fmt.Errorf("activity %d: stored hours %q: %w", row.ID, row.HoursWorked.String, err)
		}
	}
	details, err := core.NewDetails(activityType, hours)
	if err != nil {
		return core.CleaningActivity{}, fmt.Errorf("activity %d: %w", row.ID, err)
	}

	createdAt, err := parseCreatedAt(row.CreatedAt)
	if err != nil {
		return core.CleaningActivity{}, err
	}

	return core.CleaningActivity{
		ID:          row.ID,
		ApartmentID: row.ApartmentID,
		Apartment: core.Apartment{
			ID:       row.ApartmentID,
			Code:     row.ApartmentCode,
			Building: row.Building,
			Number:   row.Number,
		},
		Date:        date,
		CleanerName: row.CleanerName,
		Details:     details,
		CreatedAt:   createdAt,
	}, nil
}

func parseCreatedAt(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t, nil
}
