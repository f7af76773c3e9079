package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"casa/internal/log"
	"casa/internal/middleware/ratelimit"
	"casa/internal/middleware/security"
	"casa/internal/middleware/trace"
	"casa/internal/services"
)

// Services groups the application services the handlers call.
type Services struct {
	Entities    *services.EntityService
	Projects    *services.ProjectService
	Claims      *services.ClaimService
	Utilities   *services.UtilityService
	Maintenance *services.MaintenanceService
	Dashboard   *services.DashboardService
	Advice      *services.AdviceService
}

// ReadinessCheck checks one dependency for /readyz.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	RateLimitPerMinute int
	// RequestTimeout bounds store, persistence and publish work per request.
	RequestTimeout time.Duration
	Logger         *log.Logger
	Checks         map[string]ReadinessCheck
	// Now is the clock used by the manual recurring run.
	Now func() time.Time
}

func (o *Options) withDefaults() {
	if o.RateLimitPerMinute <= 0 {
		o.RateLimitPerMinute = ratelimit.DefaultConfig().RequestsPerMinute
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.Logger == nil {
		o.Logger = log.Discard()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Server wraps http.Server with the API routes and middleware.
type Server struct {
	http.Server

	svc      Services
	opts     Options
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc Services, opts Options) *Server {
	opts.withDefaults()
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		svc:      svc,
		opts:     opts,
		logger:   logger,
		detector: security.NewDetector(),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		started:  time.Now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, ratelimit.MutatingOnly, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.NewFields().WithClientIP(s.detector.ExtractClientIP(r)).ToSlice()...)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, please try again later").Write(w)
	})
	block := s.detector.Middleware(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request blocked",
			log.NewFields().WithClientIP(s.detector.ExtractClientIP(r)).ToSlice()...)
		BadRequestError("request rejected").Write(w)
	})

	s.Handler = s.tracer.Middleware(block(headers.Middleware(limit(mux))))
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/insights/tags", s.handleTagUsage)
	mux.HandleFunc("GET /api/insights/finance", s.handleFinance)
	mux.HandleFunc("GET /api/insights/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/projects/{id}/progress", s.handleProjectProgress)
	mux.HandleFunc("POST /api/projects/{id}/expenses", s.handleAddExpense)
	mux.HandleFunc("DELETE /api/projects/{id}/expenses/{expenseId}", s.handleRemoveExpense)
	mux.HandleFunc("POST /api/projects/{id}/tasks/{taskId}/toggle", s.handleToggleTask)

	mux.HandleFunc("GET /api/policies/{id}/ledger", s.handlePolicyLedger)
	mux.HandleFunc("POST /api/policies/{id}/claims", s.handleFileClaim)
	mux.HandleFunc("POST /api/policies/{id}/claims/{claimId}/status", s.handleClaimStatus)
	mux.HandleFunc("POST /api/policies/{id}/claims/{claimId}/settle", s.handleSettleClaim)
	mux.HandleFunc("POST /api/policies/{id}/claims/{claimId}/reopen", s.handleReopenClaim)
	mux.HandleFunc("POST /api/policies/{id}/claims/{claimId}/activities", s.handleClaimActivity)

	mux.HandleFunc("GET /api/utilities/{id}/analysis", s.handleUtilityAnalysis)
	mux.HandleFunc("POST /api/utilities/{id}/invoices", s.handleAddInvoice)
	mux.HandleFunc("DELETE /api/utilities/{id}/invoices/{invoiceId}", s.handleRemoveInvoice)

	mux.HandleFunc("POST /api/maintenance/{id}/complete", s.handleCompleteTask)
	mux.HandleFunc("POST /api/maintenance/recurring/run", s.handleRunRecurring)

	mux.HandleFunc("POST /api/advice", s.handleAdvice)

	mux.HandleFunc("GET /api/{kind}", s.handleList)
	mux.HandleFunc("POST /api/{kind}", s.handleCreate)
	mux.HandleFunc("GET /api/{kind}/{id}", s.handleGet)
	mux.HandleFunc("PATCH /api/{kind}/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/{kind}/{id}", s.handleDelete)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if allowed := allowedMethods(mux, r); allowed != "" {
			MethodNotAllowedError(allowed).Write(w)
			return
		}
		NotFoundError("route not found").Write(w)
	})
}

// allowedMethods lists the methods with a route for r's path, or "" when the
// path is unknown. Only the catch-all calls it, so r.Method itself never
// matches a specific route.
func allowedMethods(mux *http.ServeMux, r *http.Request) string {
	var allowed []string
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete} {
		alt := r.Clone(r.Context())
		alt.Method = m
		if _, pattern := mux.Handler(alt); pattern != "" && pattern != "/" {
			allowed = append(allowed, m)
		}
	}
	return strings.Join(allowed, ", ")
}

// fail writes the error response for err and logs it. Client errors are
// logged at debug; the trace middleware already records their status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := StatusFor(err)
	fields := log.NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, "", "").
		WithErrorType(ErrorTypeFor(err))
	if status >= http.StatusInternalServerError {
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Request failed", err, r.Pattern, fields)
	} else {
		log.FromContext(ctx).DebugContext(ctx, "Request rejected", fields.WithError(err).ToSlice()...)
	}
	ErrorFor(err).Write(w)
}

func respond(w http.ResponseWriter, status int, v any) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}

// Shutdown stops the rate limiter and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Stopping HTTP server",
			"requests", s.tracer.GetMetrics().TotalRequests,
			"rate_limited", s.limiter.GetMetrics().TotalHits,
			"blocked", s.detector.GetMetrics().BlockedRequests)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
