package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"cleanlog/internal/core"
	"cleanlog/internal/export"
	"cleanlog/internal/log"
)

type typeOption struct {
	Value string
	Label string
}

type registerPage struct {
	Title         string
	Apartment     *core.Apartment
	ApartmentCode string
	ActivityTypes []typeOption
	MoveOutType   string
	Errors        []string
	Success       bool
	Form          core.RawActivity
}

type totalsRow struct {
	Label string
	Count int
}

type activityRow struct {
	Date          string
	ApartmentCode string
	Building      string
	Number        string
	Type          string
	Cleaner       string
	Hours         string
}

type weeklyPage struct {
	Title           string
	Range           core.WeekRange
	StartDate       string
	PreviousURL     string
	NextURL         string
	ExportURL       string
	Totals          []totalsRow
	TotalActivities int
	TotalHours      string
	Activities      []activityRow
}

func activityTypeOptions() []typeOption {
	types := core.ActivityTypes()
	opts := make([]typeOption, 0, len(types))
	for _, t := range types {
		opts = append(opts, typeOption{Value: string(t), Label: t.Label()})
	}
	return opts
}

func (s *Server) newRegisterPage(code string, apt *core.Apartment) registerPage {
	return registerPage{
		Title:         "Register cleaning",
		Apartment:     apt,
		ApartmentCode: code,
		ActivityTypes: activityTypeOptions(),
		MoveOutType:   string(core.TypeMoveOutCleaning),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	SeeOther(w, r, "/register-cleaning")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady checks templates and the store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{"templates": "ok", "store": "ok"}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}
	if err := s.service.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "Readiness check failed", log.FieldComponent, log.ComponentHTTP, log.FieldError, err)
		checks["store"] = "failed"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"checks": checks,
	})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	q := ParseRegisterQuery(r.URL.Query())

	apt, err := s.service.LookupApartment(r.Context(), q.ApartmentCode)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Apartment lookup failed",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldApartmentCode, q.ApartmentCode,
			log.FieldError, err)
		InternalServerError().Write(w, r, s.templates)
		return
	}

	page := s.newRegisterPage(q.ApartmentCode, apt)
	page.Success = q.Success
	page.Form = core.RawActivity{
		ApartmentCode: q.ApartmentCode,
		ActivityType:  string(core.ActivityTypes()[0]),
		Date:          core.Today(s.now()).String(),
	}
	NewPage("register_cleaning.html", page).Write(w, r, s.templates)
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	raw, err := ParseActivityForm(w, r)
	if err != nil {
		logger.WarnContext(ctx, "Parse form error", log.FieldComponent, log.ComponentHTTP, log.FieldError, err)
		ErrorPage(http.StatusBadRequest, "The submitted form could not be read.").Write(w, r, s.templates)
		return
	}

	result, err := s.service.Register(ctx, raw)
	if err != nil {
		logger.ErrorContext(ctx, "Activity registration failed",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldOperation, log.OpRegister,
			log.FieldApartmentCode, result.ApartmentCode,
			log.FieldError, err)
		InternalServerError().Write(w, r, s.templates)
		return
	}

	if !result.Valid() {
		// the apartment header is shown whenever the code resolves
		apt, err := s.service.LookupApartment(ctx, result.ApartmentCode)
		if err != nil {
			logger.ErrorContext(ctx, "Apartment lookup failed", log.FieldComponent, log.ComponentHTTP, log.FieldError, err)
			InternalServerError().Write(w, r, s.templates)
			return
		}
		page := s.newRegisterPage(result.ApartmentCode, apt)
		page.Errors = result.Errors
		page.Form = raw
		NewPage("register_cleaning.html", page).Status(http.StatusBadRequest).Write(w, r, s.templates)
		return
	}

	SeeOther(w, r, registerSuccessURL(result.ApartmentCode))
}

func (s *Server) handleWeeklyOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := s.service.WeeklyReport(ctx, ParseWeekReference(r.URL.Query()))
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Weekly report failed",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldOperation, log.OpReport,
			log.FieldError, err)
		InternalServerError().Write(w, r, s.templates)
		return
	}
	// totals change with every registration
	NewPage("weekly_overview.html", newWeeklyPage(report)).
		Header("Cache-Control", "no-store").
		Write(w, r, s.templates)
}

func (s *Server) handleWeeklyExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	report, err := s.service.WeeklyReport(ctx, ParseWeekReference(r.URL.Query()))
	if err != nil {
		logger.ErrorContext(ctx, "Weekly report failed",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldOperation, log.OpExport,
			log.FieldError, err)
		InternalServerError().Write(w, r, s.templates)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWeeklyXLSX(&buf, report); err != nil {
		logger.ErrorContext(ctx, "Weekly export failed",
			log.FieldComponent, log.ComponentExport,
			log.FieldWeekStart, report.Range.Start.String(),
			log.FieldError, err)
		InternalServerError().Write(w, r, s.templates)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(report.Range)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func newWeeklyPage(report core.WeeklyReport) weeklyPage {
	page := weeklyPage{
		Title:           "Weekly overview",
		Range:           report.Range,
		StartDate:       report.Range.Start.String(),
		PreviousURL:     weekURL("/weekly-overview", report.Range.Previous().Start),
		NextURL:         weekURL("/weekly-overview", report.Range.Next().Start),
		ExportURL:       weekURL("/weekly-overview/export", report.Range.Start),
		TotalActivities: report.Totals.Total(),
		TotalHours:      report.Totals.TotalHours.String(),
	}
	for _, row := range report.Totals.Rows() {
		page.Totals = append(page.Totals, totalsRow{Label: row.Type.Label(), Count: row.Count})
	}
	for _, a := range report.Activities {
		row := activityRow{
			Date:          a.Date.String(),
			ApartmentCode: a.Apartment.Code,
			Building:      a.Apartment.Building,
			Number:        a.Apartment.Number,
			Type:          a.Type().Label(),
			Cleaner:       a.CleanerName,
		}
		if h, ok := a.HoursWorked(); ok {
			row.Hours = h.String()
		}
		page.Activities = append(page.Activities, row)
	}
	return page
}
