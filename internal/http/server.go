// Package http exposes the JSON API consumed by the mobile client.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"financas/internal/cache"
	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/services"
)

// Deps carries everything the server needs. Categories and reports have no
// side effects beyond storage, so their repositories are used directly;
// transactions and goals go through services that also publish ledger events.
type Deps struct {
	Transactions *services.TransactionService
	Goals        *services.GoalService
	Categories   ledger.CategoryRepository
	Reports      ledger.ReportRepository

	DefaultPageSize int
}

type Server struct {
	http.Server

	transactions *services.TransactionService
	goals        *services.GoalService
	categories   ledger.CategoryRepository
	reports      ledger.ReportRepository

	defaultPageSize int
	rateLimiter     *rateLimiter
	shutdownOnce    sync.Once

	// now is swapped in tests to pin aggregation windows.
	now func() time.Time

	// Dashboard aggregations are memoized per query until the next ledger
	// mutation purges them.
	statsCache    *cache.TTLCache[core.Stats]
	weeklyCache   *cache.TTLCache[[7]core.DayActivity]
	monthlyCache  *cache.TTLCache[[]core.MonthActivity]
	categoryCache *cache.TTLCache[[]core.CategoryExpense]
	balanceCache  *cache.TTLCache[[]core.MonthBalance]
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	if deps.DefaultPageSize < 1 {
		deps.DefaultPageSize = 10
	}

	s := &Server{
		transactions:    deps.Transactions,
		goals:           deps.Goals,
		categories:      deps.Categories,
		reports:         deps.Reports,
		defaultPageSize: deps.DefaultPageSize,
		rateLimiter:     newRateLimiter(),
		now:             time.Now,

		statsCache:    cache.New[core.Stats](16, 5*time.Minute),
		weeklyCache:   cache.New[[7]core.DayActivity](16, 5*time.Minute),
		monthlyCache:  cache.New[[]core.MonthActivity](32, 5*time.Minute),
		categoryCache: cache.New[[]core.CategoryExpense](16, 5*time.Minute),
		balanceCache:  cache.New[[]core.MonthBalance](32, 5*time.Minute),
	}

	r := mux.NewRouter()
	r.Use(s.withObservability)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", s.handleUpdateTransaction).Methods(http.MethodPut)
	api.HandleFunc("/transactions/{id}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	api.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", s.handleUpdateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", s.handleDeleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/goals", s.handleListGoals).Methods(http.MethodGet)
	api.HandleFunc("/goals", s.handleCreateGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}", s.handleGetGoal).Methods(http.MethodGet)
	api.HandleFunc("/goals/{id}", s.handleUpdateGoal).Methods(http.MethodPut)
	api.HandleFunc("/goals/{id}", s.handleDeleteGoal).Methods(http.MethodDelete)
	api.HandleFunc("/goals/{id}/contributions", s.handleAddContribution).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}/finalize", s.handleFinalizeGoal).Methods(http.MethodPost)

	api.HandleFunc("/reports", s.handleListReports).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}/read", s.handleMarkReportRead).Methods(http.MethodPost)
	api.HandleFunc("/reports/{id}", s.handleDeleteReport).Methods(http.MethodDelete)

	api.HandleFunc("/dashboard/stats", s.handleDashboardStats).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/weekly", s.handleDashboardWeekly).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/monthly", s.handleDashboardMonthly).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/categories", s.handleDashboardCategories).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/balance-history", s.handleDashboardBalanceHistory).Methods(http.MethodGet)

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Shutdown stops the rate limiter cleanup along with the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// invalidateDashboards drops every memoized aggregation. Called after any
// transaction mutation so the next dashboard read recomputes.
func (s *Server) invalidateDashboards() {
	s.statsCache.Purge()
	s.weeklyCache.Purge()
	s.monthlyCache.Purge()
	s.categoryCache.Purge()
	s.balanceCache.Purge()
}

func isMutation(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodDelete
}

// withObservability tags each request with an ID, logs start and completion,
// rate-limits mutations per client, and sets security headers.
func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(buf)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
