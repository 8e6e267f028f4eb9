package storage

import (
	"context"
	"errors"

	"cleanlog/internal/core"
)

var ErrActivityNotFound = errors.New("cleaning activity not found")

// Ports the activity service depends on.
type (
	ApartmentFinder interface {
		// FindApartmentByCode returns core.ErrApartmentNotFound for unknown codes.
		FindApartmentByCode(ctx context.Context, code string) (core.Apartment, error)
	}

	ActivityWriter interface {
		// InsertActivity appends one row and returns it with ID and CreatedAt set.
		InsertActivity(ctx context.Context, a core.CleaningActivity) (core.CleaningActivity, error)
	}

	// ActivityLister returns activities dated within [start, end], ordered by
	// date then creation order.
	ActivityLister interface {
		FindActivitiesInRange(ctx context.Context, start, end core.Date) ([]core.CleaningActivity, error)
	}

	// TotalsReader aggregates the same range; results must equal
	// core.Summarize over FindActivitiesInRange.
	TotalsReader interface {
		AggregateInRange(ctx context.Context, start, end core.Date) (core.WeeklyTotals, error)
	}

	Store interface {
		ApartmentFinder
		ActivityWriter
		ActivityLister
		TotalsReader
	}

	// ApartmentUpserter provisions apartments by code, keeping the ID of an
	// existing code.
	ApartmentUpserter interface {
		UpsertApartment(ctx context.Context, a core.Apartment) (core.Apartment, error)
	}

	// ActivityGetter is used by the sheet sync worker.
	ActivityGetter interface {
		GetActivity(ctx context.Context, id int64) (core.CleaningActivity, error)
	}

	Pinger interface {
		Ping(ctx context.Context) error
	}
)
