package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeRegularCleaning ActivityType = "REGULAR_CLEANING"
	TypeMoveOutCleaning ActivityType = "MOVE_OUT_CLEANING"
	TypeFaucetFlush     ActivityType = "FAUCET_FLUSH"
)

// DateLayout is the canonical calendar date format used in forms, URLs and storage.
const DateLayout = "2006-01-02"

type (
	ActivityType string

	// Date is a calendar date. The time-of-day is always midnight UTC so that
	// day arithmetic never crosses a DST boundary.
	Date struct {
		time.Time
	}

	Apartment struct {
		ID       int64
		Code     string
		Building string
		Number   string
	}

	// CleaningActivity is one logged event. Details carries the type-specific
	// data; only MoveOutCleaning has hours.
	CleaningActivity struct {
		ID          int64
		ApartmentID int64
		Apartment   Apartment // populated on reads
		Date        Date
		CleanerName string
		Details     ActivityDetails
		CreatedAt   time.Time // assigned by the store
	}

	// ActivityDetails is implemented by RegularCleaning, MoveOutCleaning and FaucetFlush.
	ActivityDetails interface {
		Type() ActivityType
		activityDetails()
	}

	RegularCleaning struct{}

	MoveOutCleaning struct {
		Hours Hours
	}

	FaucetFlush struct{}
)

var (
	ErrApartmentNotFound = errors.New("apartment not found")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidHours      = errors.New("invalid hours")
	ErrUnknownType       = errors.New("unknown activity type")
)

func (RegularCleaning) Type() ActivityType { return TypeRegularCleaning }
func (MoveOutCleaning) Type() ActivityType { return TypeMoveOutCleaning }
func (FaucetFlush) Type() ActivityType     { return TypeFaucetFlush }

func (RegularCleaning) activityDetails() {}
func (MoveOutCleaning) activityDetails() {}
func (FaucetFlush) activityDetails()     {}

// ActivityTypes lists every known type in display order.
func ActivityTypes() []ActivityType {
	return []ActivityType{TypeRegularCleaning, TypeMoveOutCleaning, TypeFaucetFlush}
}

// ParseActivityType matches s exactly against the known types.
func ParseActivityType(s string) (ActivityType, error) {
	for _, t := range ActivityTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", ErrUnknownType
}

// Label returns the human readable name of the type.
func (t ActivityType) Label() string {
	switch t {
	case TypeRegularCleaning:
		return "Regular cleaning"
	case TypeMoveOutCleaning:
		return "Move-out cleaning"
	case TypeFaucetFlush:
		return "Faucet flush"
	default:
		return string(t)
	}
}

// NewDetails builds the variant for t. hours is only kept for move-out cleanings.
func NewDetails(t ActivityType, hours Hours) (ActivityDetails, error) {
	switch t {
	case TypeRegularCleaning:
		return RegularCleaning{}, nil
	case TypeMoveOutCleaning:
		if err := hours.Validate(); err != nil {
			return nil, err
		}
		return MoveOutCleaning{Hours: hours}, nil
	case TypeFaucetFlush:
		return FaucetFlush{}, nil
	default:
		return nil, ErrUnknownType
	}
}

// Type returns the activity type, or "" when Details is unset.
func (a CleaningActivity) Type() ActivityType {
	if a.Details == nil {
		return ""
	}
	return a.Details.Type()
}

// HoursWorked reports the hours of a move-out cleaning.
func (a CleaningActivity) HoursWorked() (Hours, bool) {
	if m, ok := a.Details.(MoveOutCleaning); ok {
		return m.Hours, true
	}
	return Hours{}, false
}

func (a CleaningActivity) Validate() error {
	if a.ApartmentID <= 0 {
		return ErrApartmentNotFound
	}
	if err := a.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(a.CleanerName) == "" {
		return errors.New("empty cleaner name")
	}
	switch d := a.Details.(type) {
	case RegularCleaning, FaucetFlush:
		return nil
	case MoveOutCleaning:
		return d.Hours.Validate()
	default:
		return ErrUnknownType
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now in now's own location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return NewDate(y, int(m), d)
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp, keeping only the calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Today(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Today(t), nil
	}
	return Date{}, ErrInvalidDate
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}
