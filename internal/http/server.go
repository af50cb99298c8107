package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mortgage/internal/cache"
	"mortgage/internal/form"
	applog "mortgage/internal/log"
	"mortgage/internal/middleware/ratelimit"
	"mortgage/internal/middleware/security"
	"mortgage/internal/middleware/trace"
	"mortgage/internal/services"
	appweb "mortgage/web"
)

// SessionCookie names the cookie holding the calculator session ID.
const SessionCookie = "mortgage_session"

// Options configures a Server.
type Options struct {
	Addr               string
	Logger             *applog.Logger
	Calculator         *services.CalculatorService
	Sessions           *cache.LRUCache[*form.Controller]
	SessionTTL         time.Duration
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	logger     *applog.Logger
	templates  *template.Template
	calculator *services.CalculatorService
	sessions   *cache.LRUCache[*form.Controller]
	sessionTTL time.Duration

	securityDetector *security.Detector
	rateLimiter      *ratelimit.Limiter
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime          time.Time
	sessionsCreated int64
	editsAccepted   int64
	editsRejected   int64
	apiCalculations int64
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(opts Options) (*Server, error) {
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := opts.Logger.WithComponent(applog.ComponentHTTP)
	detector := security.NewDetector(opts.Logger)

	s := &Server{
		logger:           logger,
		templates:        t,
		calculator:       opts.Calculator,
		sessions:         opts.Sessions,
		sessionTTL:       opts.SessionTTL,
		securityDetector: detector,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		traceMiddleware: trace.NewMiddleware(opts.Logger, detector.ExtractClientIP),
		appMetrics:      &appMetrics{uptime: time.Now()},
	}

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	calculatorLogs := applog.ComponentMiddleware(applog.ComponentCalculator)
	mux.Handle("POST /calculator/edit", calculatorLogs(http.HandlerFunc(s.handleEdit)))
	mux.Handle("GET /ui/results", calculatorLogs(http.HandlerFunc(s.handleResults)))
	mux.Handle("POST /api/calculate", applog.ComponentMiddleware(applog.ComponentAPI)(http.HandlerFunc(s.handleCalculate)))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(detector.ExtractClientIP, s.onRateLimited, http.MethodPost)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = detector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests, slow down.").Write(w)
}

// session returns the caller's controller, issuing a cookie on first visit.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *form.Controller) {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	controller, existed := s.sessions.GetOrCreate(id, func() *form.Controller {
		return s.calculator.NewController(id)
	})
	if !existed {
		atomic.AddInt64(&s.appMetrics.sessionsCreated, 1)
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Session started", applog.FieldSessionID, id)
	}

	// Refresh the cookie so it lives as long as the session does.
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	return id, controller
}

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
