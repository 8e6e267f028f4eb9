package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cleanlog/internal/amqp"
	"cleanlog/internal/core"
	"cleanlog/internal/log"
	"cleanlog/internal/observability"
	"cleanlog/internal/storage"
)

// Publisher announces stored activities. *amqp.Client satisfies it.
type Publisher interface {
	PublishActivityRegistered(ctx context.Context, msg *amqp.ActivityRegisteredMessage) error
}

// RegisterResult is the outcome of a registration attempt. Errors is non-empty
// when the submission was rejected; Activity is set otherwise.
type RegisterResult struct {
	Activity      core.CleaningActivity
	ApartmentCode string
	Errors        core.ValidationErrors
}

// Valid reports whether the activity was stored.
func (r RegisterResult) Valid() bool { return len(r.Errors) == 0 }

type Option func(*ActivityService)

// WithClock replaces time.Now, used for today's date and the current week.
func WithClock(now func() time.Time) Option {
	return func(s *ActivityService) { s.now = now }
}

// WithPublisher enables best-effort activity events.
func WithPublisher(p Publisher) Option {
	return func(s *ActivityService) { s.publisher = p }
}

// ActivityService registers cleaning activities and builds weekly reports.
type ActivityService struct {
	store     storage.Store
	publisher Publisher
	now       func() time.Time
}

func NewActivityService(store storage.Store, opts ...Option) *ActivityService {
	s := &ActivityService{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates raw and stores it when valid. Validation failures are
// reported in the result, never as an error; the error is reserved for store
// failures.
func (s *ActivityService) Register(ctx context.Context, raw core.RawActivity) (RegisterResult, error) {
	code := strings.TrimSpace(raw.ApartmentCode)
	result := RegisterResult{ApartmentCode: code}

	apt, err := s.LookupApartment(ctx, code)
	if err != nil {
		return result, err
	}

	activity, err := core.ValidateActivity(raw, apt, s.now())
	if err != nil {
		var verrs core.ValidationErrors
		if !errors.As(err, &verrs) {
			return result, fmt.Errorf("validate activity: %w", err)
		}
		observability.RecordRegistrationRejected()
		slog.InfoContext(ctx, "Activity registration rejected",
			log.FieldComponent, log.ComponentServices,
			log.FieldApartmentCode, code,
			"errors", verrs.Error())
		result.Errors = verrs
		return result, nil
	}

	saved, err := s.store.InsertActivity(ctx, activity)
	if err != nil {
		return result, fmt.Errorf("insert activity: %w", err)
	}
	if saved.Apartment.Code == "" {
		saved.Apartment = activity.Apartment
	}
	result.Activity = saved

	observability.RecordActivityRegistered(string(saved.Type()), saved.CreatedAt)
	slog.InfoContext(ctx, "Activity registered",
		log.FieldComponent, log.ComponentServices,
		log.FieldActivityID, saved.ID,
		log.FieldApartmentCode, code,
		log.FieldActivityType, string(saved.Type()),
		log.FieldDate, saved.Date.String())

	s.publish(ctx, saved)
	return result, nil
}

func (s *ActivityService) publish(ctx context.Context, a core.CleaningActivity) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishActivityRegistered(ctx, amqp.NewActivityRegisteredMessage(a)); err != nil {
		// the activity is stored; the sheet sync will miss it
		slog.ErrorContext(ctx, "Failed to publish activity registered message",
			log.FieldComponent, log.ComponentServices,
			log.FieldActivityID, a.ID,
			log.FieldError, err)
	}
}

// WeeklyReport returns the Monday-Sunday week containing reference (today
// when reference is empty or unparseable) with its activities and totals.
func (s *ActivityService) WeeklyReport(ctx context.Context, reference string) (core.WeeklyReport, error) {
	week := core.WeekOf(reference, s.now())

	activities, err := s.store.FindActivitiesInRange(ctx, week.Start, week.End)
	if err != nil {
		return core.WeeklyReport{}, fmt.Errorf("list activities for week %s: %w", week.Start, err)
	}

	totals, err := s.store.AggregateInRange(ctx, week.Start, week.End)
	if err != nil {
		return core.WeeklyReport{}, fmt.Errorf("aggregate week %s: %w", week.Start, err)
	}

	observability.RecordWeeklyReport()
	return core.WeeklyReport{
		Range:      week,
		Activities: activities,
		Totals:     totals,
	}, nil
}

// LookupApartment resolves a trimmed code. Unknown or empty codes yield (nil, nil).
func (s *ActivityService) LookupApartment(ctx context.Context, code string) (*core.Apartment, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	apt, err := s.store.FindApartmentByCode(ctx, code)
	if errors.Is(err, core.ErrApartmentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find apartment %q: %w", code, err)
	}
	return &apt, nil
}

// Ping checks the store when it supports it.
func (s *ActivityService) Ping(ctx context.Context) error {
	if p, ok := s.store.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
