package http

import (
	"net/http"
	"net/url"
	"strings"

	"cleanlog/internal/core"
)

// Form and query parameter names shared with the templates.
const (
	fieldApartmentCode = "apartmentCode"
	fieldActivityType  = "activity_type"
	fieldDate          = "date"
	fieldCleanerName   = "cleaner_name"
	fieldHoursWorked   = "hours_worked"

	paramSuccess   = "success"
	paramStartDate = "startDate"
)

const maxFormBytes = 64 << 10

// ParseActivityForm reads the registration form. Values are returned exactly
// as submitted so a rejected form can be echoed back unchanged; trimming and
// parsing belong to validation.
func ParseActivityForm(w http.ResponseWriter, r *http.Request) (core.RawActivity, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return core.RawActivity{}, err
	}
	return RawActivityFromValues(r.PostForm), nil
}

// RawActivityFromValues maps form values onto a RawActivity.
func RawActivityFromValues(form url.Values) core.RawActivity {
	return core.RawActivity{
		ApartmentCode: form.Get(fieldApartmentCode),
		ActivityType:  form.Get(fieldActivityType),
		Date:          form.Get(fieldDate),
		CleanerName:   form.Get(fieldCleanerName),
		HoursWorked:   form.Get(fieldHoursWorked),
	}
}

// RegisterQuery holds the parameters of the registration form page.
type RegisterQuery struct {
	ApartmentCode string
	Success       bool
}

func ParseRegisterQuery(query url.Values) RegisterQuery {
	return RegisterQuery{
		ApartmentCode: strings.TrimSpace(query.Get(fieldApartmentCode)),
		Success:       query.Get(paramSuccess) == "1",
	}
}

// ParseWeekReference returns the startDate parameter. Any value is accepted;
// an unparseable one selects the current week.
func ParseWeekReference(query url.Values) string {
	return strings.TrimSpace(query.Get(paramStartDate))
}

// registerSuccessURL is where a successful registration redirects to.
func registerSuccessURL(code string) string {
	q := url.Values{}
	q.Set(fieldApartmentCode, code)
	q.Set(paramSuccess, "1")
	return "/register-cleaning?" + q.Encode()
}

// weekURL links path to the week starting at start.
func weekURL(path string, start core.Date) string {
	q := url.Values{}
	q.Set(paramStartDate, start.String())
	return path + "?" + q.Encode()
}
