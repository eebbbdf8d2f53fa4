package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"wealthwatcher/internal/core"
	"wealthwatcher/internal/identity"
	"wealthwatcher/internal/log"
	"wealthwatcher/internal/middleware/ratelimit"
	"wealthwatcher/internal/middleware/security"
	"wealthwatcher/internal/middleware/trace"
	"wealthwatcher/internal/report"
	"wealthwatcher/internal/services"
)

const (
	defaultStoreTimeout = 10 * time.Second
	readinessTimeout    = 2 * time.Second
)

// Records is the record service as seen by the handlers.
type Records interface {
	EnsureRecord(ctx context.Context, userID string) error

	ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	AddExpense(ctx context.Context, userID string, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, userID string, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, userID, id string) error

	ListBudgets(ctx context.Context, userID string) ([]services.BudgetStatus, error)
	AddBudget(ctx context.Context, userID string, b core.Budget) (core.Budget, error)
	UpdateBudget(ctx context.Context, userID string, b core.Budget) (core.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error

	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	AddGoal(ctx context.Context, userID string, g core.Goal) (core.Goal, error)
	UpdateGoal(ctx context.Context, userID string, g core.Goal, setCurrent bool) (core.Goal, error)
	DeleteGoal(ctx context.Context, userID, id string) error
	AdjustGoal(ctx context.Context, userID, goalID string, delta decimal.Decimal) (core.Goal, error)

	Profile(ctx context.Context, userID string) (core.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update core.Profile) (core.Profile, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// Reports serves cached reports and dashboard metrics.
type Reports interface {
	Report(ctx context.Context, userID string, kind report.Kind) (report.Report, error)
	Dashboard(ctx context.Context, userID string) (report.Dashboard, error)
}

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Addr               string
	RateLimitPerMinute int
	// StoreTimeout bounds the store work of a single request.
	StoreTimeout time.Duration
}

type Server struct {
	http.Server
	records      Records
	reports      Reports
	ready        Pinger
	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	storeTimeout time.Duration

	shutdownOnce sync.Once
}

// NewServer configures routes and the middleware chain, returning a
// ready-to-run http.Server.
func NewServer(cfg Config, records Records, reports Reports, ready Pinger, tokens identity.Validator, logger *log.Logger) *Server {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		records:      records,
		reports:      reports,
		ready:        ready,
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		detector:     detector,
		tracer:       trace.NewMiddleware(logger, detector.ExtractClientIP),
		storeTimeout: cfg.StoreTimeout,
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/expenses", s.authed(s.handleListExpenses))
	api.HandleFunc("POST /api/expenses", s.authed(s.handleCreateExpense))
	api.HandleFunc("PUT /api/expenses/{id}", s.authed(s.handleUpdateExpense))
	api.HandleFunc("DELETE /api/expenses/{id}", s.authed(s.handleDeleteExpense))

	api.HandleFunc("GET /api/budgets", s.authed(s.handleListBudgets))
	api.HandleFunc("POST /api/budgets", s.authed(s.handleCreateBudget))
	api.HandleFunc("PUT /api/budgets/{id}", s.authed(s.handleUpdateBudget))
	api.HandleFunc("DELETE /api/budgets/{id}", s.authed(s.handleDeleteBudget))

	api.HandleFunc("GET /api/goals", s.authed(s.handleListGoals))
	api.HandleFunc("POST /api/goals", s.authed(s.handleCreateGoal))
	api.HandleFunc("PUT /api/goals/{id}", s.authed(s.handleUpdateGoal))
	api.HandleFunc("DELETE /api/goals/{id}", s.authed(s.handleDeleteGoal))
	api.HandleFunc("POST /api/goals/{id}/deposit", s.authed(s.handleDeposit))
	api.HandleFunc("POST /api/goals/{id}/withdraw", s.authed(s.handleWithdraw))

	api.HandleFunc("GET /api/reports/{kind}", s.authed(s.handleReport))
	api.HandleFunc("GET /api/dashboard", s.authed(s.handleDashboard))

	api.HandleFunc("GET /api/account", s.authed(s.handleGetAccount))
	api.HandleFunc("PUT /api/account", s.authed(s.handleUpdateAccount))
	api.HandleFunc("DELETE /api/account", s.authed(s.handleDeleteAccount))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("/api/", identity.Middleware(tokens)(api))

	var handler http.Handler = mux
	handler = s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		TooManyRequestsError().Write(w)
	})(handler)
	handler = detector.Middleware(func(w http.ResponseWriter, r *http.Request) {
		ForbiddenError().Write(w)
	})(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// userHandler is a handler for an authenticated user whose record exists.
type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

// authed bounds the request with the store timeout and creates the user's
// record on first access.
func (s *Server) authed(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := identity.CurrentUser(r.Context())
		if !ok {
			ErrorResponse(http.StatusUnauthorized, "Authentication required").Write(w)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.storeTimeout)
		defer cancel()
		r = r.WithContext(ctx)

		if err := s.records.EnsureRecord(ctx, userID); err != nil {
			ErrorFor(r, log.OpRead, err).Write(w)
			return
		}
		next(w, r, userID)
	}
}

// Shutdown stops the listener and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Stats is a point-in-time view of the request counters.
type Stats struct {
	Requests           int64
	ServerErrors       int64
	RateLimited        int64
	SuspiciousRequests int64
}

func (s *Server) Stats() Stats {
	total, serverErrors, _ := s.tracer.Snapshot()
	return Stats{
		Requests:           total,
		ServerErrors:       serverErrors,
		RateLimited:        s.limiter.Rejected(),
		SuspiciousRequests: s.detector.SuspiciousRequests(),
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	if s.ready != nil {
		if err := s.ready.Ping(ctx); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
			ErrorResponse(http.StatusServiceUnavailable, "Record store unavailable").Write(w)
			return
		}
	}
	NewJSONResponse().Data(map[string]string{"status": "ready"}).Write(w)
}
