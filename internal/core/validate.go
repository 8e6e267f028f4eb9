package core

import (
	"strings"
	"time"
)

// Validation messages, in the order the checks run.
const (
	MsgInvalidApartment = "invalid or missing apartment code"
	MsgInvalidType      = "select a valid activity type"
	MsgInvalidDate      = "invalid date"
	MsgMissingCleaner   = "enter a cleaner name or ID"
	MsgMissingHours     = "enter hours worked for a move-out cleaning"
)

// RawActivity holds the submitted form fields exactly as received.
type RawActivity struct {
	ApartmentCode string
	ActivityType  string
	Date          string
	CleanerName   string
	HoursWorked   string
}

// ValidationErrors is an ordered list of user-facing messages.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

// ValidateActivity checks raw against the registration rules. apt is the
// result of looking up the trimmed apartment code, nil when it did not
// resolve. Exactly one of the returned values is meaningful: a non-nil error
// is always a ValidationErrors holding every failed check.
func ValidateActivity(raw RawActivity, apt *Apartment, now time.Time) (CleaningActivity, error) {
	var errs ValidationErrors

	if apt == nil {
		errs = append(errs, MsgInvalidApartment)
	}

	activityType, err := ParseActivityType(raw.ActivityType)
	if err != nil {
		errs = append(errs, MsgInvalidType)
	}

	// only an absent date means today; blanks are a value that fails to parse
	dateStr := raw.Date
	if dateStr == "" {
		dateStr = Today(now).String()
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		errs = append(errs, MsgInvalidDate)
	}

	cleaner := strings.TrimSpace(raw.CleanerName)
	if cleaner == "" {
		errs = append(errs, MsgMissingCleaner)
	}

	var hours Hours
	if activityType == TypeMoveOutCleaning {
		if hours, err = ParseHours(raw.HoursWorked); err != nil {
			errs = append(errs, MsgMissingHours)
		}
	}

	if len(errs) > 0 {
		return CleaningActivity{}, errs
	}

	details, err := NewDetails(activityType, hours)
	if err != nil {
		return CleaningActivity{}, ValidationErrors{MsgInvalidType}
	}

	return CleaningActivity{
		ApartmentID: apt.ID,
		Apartment:   *apt,
		Date:        date,
		CleanerName: cleaner,
		Details:     details,
	}, nil
}
