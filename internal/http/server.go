package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cleanlog/internal/core"
	"cleanlog/internal/log"
	"cleanlog/internal/middleware/ratelimit"
	"cleanlog/internal/middleware/security"
	"cleanlog/internal/middleware/trace"
	"cleanlog/internal/services"
	appweb "cleanlog/web"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ActivityService is what the handlers need from the service layer.
// *services.ActivityService satisfies it.
type ActivityService interface {
	Register(ctx context.Context, raw core.RawActivity) (services.RegisterResult, error)
	WeeklyReport(ctx context.Context, reference string) (core.WeeklyReport, error)
	LookupApartment(ctx context.Context, code string) (*core.Apartment, error)
	Ping(ctx context.Context) error
}

// Options configures NewServer. Zero values fall back to sensible defaults.
// TrustedProxies are CIDRs allowed to set X-Forwarded-For, beyond the private ranges.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	TrustedProxies     []string
	Logger             *log.Logger
	Now                func() time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	service   ActivityService
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	now       func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a ready-to-run http.Server.
func NewServer(svc ActivityService, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentHTTP})
	}

	s := &Server{
		service:  svc,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		now:      opts.Now,
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			slog.Warn("Ignoring trusted proxy", log.FieldComponent, log.ComponentHTTP, log.FieldError, err)
		}
	}

	// Parse embedded templates at startup.
	t, err := parseTemplates(appweb.TemplatesFS)
	if err != nil {
		slog.Warn("Failed parsing templates", log.FieldComponent, log.ComponentTemplate, log.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", log.FieldComponent, log.ComponentHTTP, log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /register-cleaning", s.handleRegisterForm)
	mux.HandleFunc("POST /register-cleaning", s.handleRegisterSubmit)
	mux.HandleFunc("GET /weekly-overview", s.handleWeeklyOverview)
	mux.HandleFunc("GET /weekly-overview/export", s.handleWeeklyExport)

	// outermost first
	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, http.MethodPost)(handler)
	handler = log.Middleware(opts.Logger, trace.GetRequestID)(handler)
	handler = trace.NewMiddleware(s.detector.ExtractClientIP).Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"displayDate": func(d core.Date) string {
			return d.Format("2 Jan 2006")
		},
	}).ParseFS(fsys, "templates/*.html")
}
