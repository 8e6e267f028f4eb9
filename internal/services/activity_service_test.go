package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"cleanlog/internal/amqp"
	"cleanlog/internal/core"
	"cleanlog/internal/log"
	"cleanlog/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2024-05-01
var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*ActivityService, *memory.Store) {
	t.Helper()
	store := memory.New([]core.Apartment{
		{Code: "A-101", Building: "A", Number: "101"},
		{Code: "B-201", Building: "B", Number: "201"},
	})
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewActivityService(store, opts...), store
}

type recordingPublisher struct {
	msgs []*amqp.ActivityRegisteredMessage
	err  error
}

func (p *recordingPublisher) PublishActivityRegistered(_ context.Context, msg *amqp.ActivityRegisteredMessage) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

type failingStore struct {
	*memory.Store
	err error
}

func (f failingStore) InsertActivity(context.Context, core.CleaningActivity) (core.CleaningActivity, error) {
	return core.CleaningActivity{}, f.err
}

func (f failingStore) FindActivitiesInRange(context.Context, core.Date, core.Date) ([]core.CleaningActivity, error) {
	return nil, f.err
}

func TestRegisterMoveOutAppearsInWeeklyReport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, core.RawActivity{
		ApartmentCode: "  A-101 ",
		ActivityType:  "MOVE_OUT_CLEANING",
		Date:          "2024-05-01",
		CleanerName:   "Anna",
		HoursWorked:   "3",
	})
	require.NoError(t, err)
	require.True(t, res.Valid(), "errors: %v", res.Errors)
	assert.Equal(t, "A-101", res.ApartmentCode)
	assert.NotZero(t, res.Activity.ID)

	report, err := svc.WeeklyReport(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-29", report.Range.Start.String())
	assert.Equal(t, "2024-05-05", report.Range.End.String())
	require.Len(t, report.Activities, 1)
	assert.Equal(t, "A-101", report.Activities[0].Apartment.Code)
	assert.Equal(t, 1, report.Totals.Count(core.TypeMoveOutCleaning))
	assert.Equal(t, "3", report.Totals.TotalHours.String())
}

func TestRegisterUnknownApartmentDoesNotInsert(t *testing.T) {
	svc, store := newTestService(t)

	res, err := svc.Register(context.Background(), core.RawActivity{
		ApartmentCode: "Z-999",
		ActivityType:  "REGULAR_CLEANING",
		CleanerName:   "Anna",
	})
	require.NoError(t, err)
	assert.False(t, res.Valid())
	assert.Contains(t, res.Errors, core.MsgInvalidApartment)
	assert.Empty(t, store.Activities())
}

func TestRegisterCollectsAllErrors(t *testing.T) {
	svc, store := newTestService(t)

	res, err := svc.Register(context.Background(), core.RawActivity{
		ActivityType: "MOVE_OUT_CLEANING",
		Date:         "not-a-date",
	})
	require.NoError(t, err)
	assert.Equal(t, core.ValidationErrors{
		core.MsgInvalidApartment,
		core.MsgInvalidDate,
		core.MsgMissingCleaner,
		core.MsgMissingHours,
	}, res.Errors)
	assert.Empty(t, store.Activities())
}

func TestRegisterDefaultsDateToToday(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Register(context.Background(), core.RawActivity{
		ApartmentCode: "B-201",
		ActivityType:  "FAUCET_FLUSH",
		CleanerName:   "C-17",
	})
	require.NoError(t, err)
	require.True(t, res.Valid())
	assert.Equal(t, "2024-05-01", res.Activity.Date.String())
	_, hasHours := res.Activity.HoursWorked()
	assert.False(t, hasHours)
}

func TestRegisterPublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, WithPublisher(pub))

	res, err := svc.Register(context.Background(), core.RawActivity{
		ApartmentCode: "A-101",
		ActivityType:  "REGULAR_CLEANING",
		CleanerName:   "Anna",
	})
	require.NoError(t, err)
	require.True(t, res.Valid())

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, res.Activity.ID, pub.msgs[0].ID)
	assert.Equal(t, "A-101", pub.msgs[0].ApartmentCode)
	assert.Equal(t, "REGULAR_CLEANING", pub.msgs[0].ActivityType)
}

func TestRegisterIgnoresPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("circuit breaker is open")}
	svc, store := newTestService(t, WithPublisher(pub))

	res, err := svc.Register(context.Background(), core.RawActivity{
		ApartmentCode: "A-101",
		ActivityType:  "REGULAR_CLEANING",
		CleanerName:   "Anna",
	})
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.Len(t, store.Activities(), 1)
}

func TestRegisterDoesNotPublishRejected(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, WithPublisher(pub))

	_, err := svc.Register(context.Background(), core.RawActivity{ApartmentCode: "A-101"})
	require.NoError(t, err)
	assert.Empty(t, pub.msgs)
}

func TestRegisterStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	store := failingStore{Store: memory.New([]core.Apartment{{Code: "A-101"}}), err: boom}
	svc := NewActivityService(store, WithClock(func() time.Time { return fixedNow }))

	_, err := svc.Register(context.Background(), core.RawActivity{
		ApartmentCode: "A-101",
		ActivityType:  "REGULAR_CLEANING",
		CleanerName:   "Anna",
	})
	assert.ErrorIs(t, err, boom)

	_, err = svc.WeeklyReport(context.Background(), "")
	assert.ErrorIs(t, err, boom)
}

func TestWeeklyReportFallsBackToCurrentWeek(t *testing.T) {
	svc, _ := newTestService(t)

	for _, ref := range []string{"", "garbage"} {
		report, err := svc.WeeklyReport(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, "2024-04-29", report.Range.Start.String(), "ref %q", ref)
		assert.Empty(t, report.Activities)
		assert.Zero(t, report.Totals.Total())
	}
}

func TestWeeklyReportTotalsMatchActivities(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, raw := range []core.RawActivity{
		{ApartmentCode: "A-101", ActivityType: "MOVE_OUT_CLEANING", Date: "2024-04-29", CleanerName: "Anna", HoursWorked: "2,5"},
		{ApartmentCode: "B-201", ActivityType: "MOVE_OUT_CLEANING", Date: "2024-05-05", CleanerName: "Bo", HoursWorked: "1.5"},
		{ApartmentCode: "A-101", ActivityType: "REGULAR_CLEANING", Date: "2024-05-02", CleanerName: "Anna"},
		{ApartmentCode: "A-101", ActivityType: "REGULAR_CLEANING", Date: "2024-05-06", CleanerName: "Anna"},
	} {
		res, err := svc.Register(ctx, raw)
		require.NoError(t, err)
		require.True(t, res.Valid(), "errors: %v", res.Errors)
	}

	report, err := svc.WeeklyReport(ctx, "2024-05-03")
	require.NoError(t, err)
	require.Len(t, report.Activities, 3)
	assert.Equal(t, "2024-04-29", report.Activities[0].Date.String())
	assert.Equal(t, "2024-05-05", report.Activities[2].Date.String())
	assert.Equal(t, core.Summarize(report.Activities), report.Totals)
	assert.Equal(t, 4.0, report.Totals.TotalHours.Float())
}

func TestLookupApartment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	apt, err := svc.LookupApartment(ctx, " B-201 ")
	require.NoError(t, err)
	require.NotNil(t, apt)
	assert.Equal(t, "201", apt.Number)

	apt, err = svc.LookupApartment(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, apt)

	apt, err = svc.LookupApartment(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, apt)

	assert.NoError(t, svc.Ping(ctx))
}

func TestPublishFailureLogsStandardFields(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	svc, _ := newTestService(t, WithPublisher(&recordingPublisher{err: errors.New("broker down")}))
	res, err := svc.Register(context.Background(), core.RawActivity{
		ApartmentCode: "A-101",
		ActivityType:  "FAUCET_FLUSH",
		CleanerName:   "Bo",
	})
	require.NoError(t, err)
	require.True(t, res.Valid())

	var failure map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["msg"] == "Failed to publish activity registered message" {
			failure = entry
		}
	}
	require.NotNil(t, failure, "log output: %s", buf.String())
	assert.Equal(t, log.ComponentServices, failure[log.FieldComponent])
	assert.Equal(t, "broker down", failure[log.FieldError])
	assert.Equal(t, float64(res.Activity.ID), failure[log.FieldActivityID])
}
