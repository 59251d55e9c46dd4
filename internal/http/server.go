package http

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"everydollar/internal/core"
	applog "everydollar/internal/log"
	"everydollar/internal/middleware/ratelimit"
	"everydollar/internal/middleware/security"
	"everydollar/internal/middleware/trace"
)

// Authenticator registers users, logs them in and resolves bearer tokens.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Login(ctx context.Context, username, password string) (string, error)
	IssueToken(username string) (string, error)
	Authenticate(ctx context.Context, token string) (core.User, error)
}

// Ledger is the per-user transaction store.
type Ledger interface {
	Add(ctx context.Context, userID int64, t core.NewTransaction) (int64, error)
	List(ctx context.Context, userID int64, f core.ListFilter) ([]core.Transaction, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Analytics computes monthly summaries and savings suggestions.
type Analytics interface {
	MonthlySummary(ctx context.Context, userID int64, asOf core.Date) (core.Summary, error)
	SavingsSuggestion(income, expenses decimal.Decimal) core.Suggestion
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the gateway dispatches to.
type Deps struct {
	Auth      Authenticator
	Ledger    Ledger
	Analytics Analytics
	DB        Pinger
	Logger    *applog.Logger
}

// Options tune the gateway. Zero values fall back to defaults.
type Options struct {
	RateLimitPerMinute int
	TrustedProxies     []string
	Now                func() time.Time
}

// Server is the JSON API gateway.
type Server struct {
	http.Server

	auth      Authenticator
	ledger    Ledger
	analytics Analytics
	db        Pinger
	logger    *applog.Logger

	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware
	now         func() time.Time
	startedAt   time.Time
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps, opts Options) (*Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ips := security.NewIPResolver()
	for _, cidr := range opts.TrustedProxies {
		if err := ips.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		auth:      deps.Auth,
		ledger:    deps.Ledger,
		analytics: deps.Analytics,
		db:        deps.DB,
		logger:    logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
		tracer:    trace.NewMiddleware(logger, ips.ClientIP),
		now:       now,
		startedAt: now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)

	mux.Handle("GET /api/transactions", s.requireUser(s.handleListTransactions))
	mux.Handle("POST /api/transactions", s.requireUser(s.handleAddTransaction))
	mux.Handle("DELETE /api/transactions/{id}", s.requireUser(s.handleDeleteTransaction))
	mux.Handle("GET /api/analytics", s.requireUser(s.handleAnalytics))
	mux.Handle("GET /api/dashboard", s.requireUser(s.handleDashboard))
	mux.Handle("POST /suggestions", s.requireUser(s.handleSuggestion))

	limited := s.rateLimiter.Middleware(ips.ClientIP, s.handleRateLimited, http.MethodPost)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr: addr,
		Handler: s.tracer.Middleware(
			applog.Middleware(logger, trace.GetRequestID)(
				headers.Middleware(
					limited(mux)))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Shutdown stops the background janitors and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.Server.Shutdown(ctx)
}

// today is the current calendar date in UTC.
func (s *Server) today() core.Date {
	return core.DateOf(s.now().UTC())
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, messageResponse{Message: "Rate limit exceeded. Please try again later."})
}
