package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gatelog/server/internal/api/handlers"
	"github.com/gatelog/server/internal/api/middleware"
	"github.com/gatelog/server/internal/auth"
	"github.com/gatelog/server/internal/config"
	"github.com/gatelog/server/internal/domain/access"
	"github.com/gatelog/server/internal/domain/roster"
	"github.com/gatelog/server/internal/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Dependencies carries the wired services the router exposes. The pool is
// passed explicitly to every consumer; nothing reaches for it implicitly.
type Dependencies struct {
	Pool      *pgxpool.Pool
	Access    *access.Service
	Roster    *roster.Service
	Version   string
	GitCommit string
}

// NewRouter assembles the full HTTP surface: the legacy device endpoints at
// the root, the admin API under /api/v1, and the operational endpoints.
func NewRouter(cfg config.Config, logger zerolog.Logger, deps Dependencies) http.Handler {
	accessHandler := handlers.NewAccessHandler(deps.Access)
	rosterHandler := handlers.NewRosterHandler(deps.Roster, cfg.Environment)
	statsHandler := handlers.NewStatsHandler(deps.Access, cfg.Environment)
	healthChecker := handlers.NewHealthChecker(deps.Pool, deps.Version, deps.GitCommit)

	verifier := auth.NewAdminKeyVerifier(cfg.Auth.AdminAPIKey, cfg.Auth.AdminAPIKeyHash)
	adminAuth := middleware.AdminAuth(verifier, cfg.Environment)
	limit := middleware.RateLimit(cfg.RateLimit)

	// The tier must be stamped on the context before the limiter reads it.
	device := func(h http.Handler) http.Handler {
		return middleware.WithRateLimitTierHandler(middleware.TierDevice)(limit(h))
	}
	admin := func(h http.Handler) http.Handler {
		return middleware.WithRateLimitTierHandler(middleware.TierAdmin)(limit(adminAuth(h)))
	}

	mux := http.NewServeMux()

	// Legacy device surface. Paths and shapes are a frozen wire contract.
	mux.Handle("/upload", device(methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(accessHandler.Upload),
	})))
	mux.Handle("/logs", device(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(accessHandler.Logs),
	})))

	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/health", healthChecker.Health())
	mux.Handle("/readyz", healthChecker.Readyz())
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/api/v1/roster", admin(methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(rosterHandler.List),
		http.MethodPost: http.HandlerFunc(rosterHandler.Add),
	})))
	mux.Handle("/api/v1/roster/{uid}", admin(methodMux(map[string]http.Handler{
		http.MethodPut:    http.HandlerFunc(rosterHandler.Rename),
		http.MethodDelete: http.HandlerFunc(rosterHandler.Remove),
	})))
	// Stats stay keyless so the dashboard can read them directly.
	mux.Handle("/api/v1/stats", device(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(statsHandler.Stats),
	})))
	mux.Handle("/api/v1/uids", admin(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(statsHandler.UIDs),
	})))
	mux.Handle("/api/v1/uids/unauthorized", admin(methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(statsHandler.UnauthorizedUIDs),
	})))

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	if cfg.Tracing.Enabled {
		handler = middleware.Tracing(handler)
	}
	handler = middleware.CorrelationID(logger)(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
