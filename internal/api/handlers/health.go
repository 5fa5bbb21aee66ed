package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Healthz is the liveness probe: the process is up and serving.
func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// HealthCheck is the readiness report.
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

type CheckResult struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// HealthChecker runs dependency checks for the readiness probe.
type HealthChecker struct {
	pool      *pgxpool.Pool
	version   string
	gitCommit string
}

func NewHealthChecker(pool *pgxpool.Pool, version, gitCommit string) *HealthChecker {
	return &HealthChecker{pool: pool, version: version, gitCommit: gitCommit}
}

// Health runs the database and migration checks concurrently and reports
// them in full. Any failing check flips the status to 503.
func (h *HealthChecker) Health() http.HandlerFunc {
	return h.report()
}

// Readyz is the readiness probe. It runs the same dependency checks as
// Health; a server that cannot reach its store should not receive traffic.
func (h *HealthChecker) Readyz() http.HandlerFunc {
	return h.report()
}

func (h *HealthChecker) report() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var mu sync.Mutex
		checks := make(map[string]CheckResult)

		g, gctx := errgroup.WithContext(ctx)
		run := func(name string, check func(context.Context) CheckResult) {
			g.Go(func() error {
				result := check(gctx)
				mu.Lock()
				checks[name] = result
				mu.Unlock()
				return nil
			})
		}
		run("database", h.checkDatabase)
		run("migrations", h.checkMigrations)
		_ = g.Wait()

		overallStatus := "healthy"
		statusCode := http.StatusOK
		for _, check := range checks {
			if check.Status == "fail" {
				overallStatus = "unhealthy"
				statusCode = http.StatusServiceUnavailable
				break
			}
		}

		response := HealthCheck{
			Status:    overallStatus,
			Version:   h.version,
			GitCommit: h.gitCommit,
			Checks:    checks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func (h *HealthChecker) checkDatabase(ctx context.Context) CheckResult {
	start := time.Now()

	if h.pool == nil {
		return CheckResult{Status: "fail", Message: "database pool not initialized"}
	}

	dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var result int
	err := h.pool.QueryRow(dbCtx, "SELECT 1").Scan(&result)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return CheckResult{
			Status:    "fail",
			Message:   fmt.Sprintf("database query failed: %v", err),
			LatencyMs: latency,
		}
	}

	return CheckResult{Status: "pass", Message: "postgres connection successful", LatencyMs: latency}
}

func (h *HealthChecker) checkMigrations(ctx context.Context) CheckResult {
	start := time.Now()

	if h.pool == nil {
		return CheckResult{Status: "fail", Message: "database pool not initialized"}
	}

	migCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var version int64
	var dirty bool
	err := h.pool.QueryRow(migCtx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		message := fmt.Sprintf("failed to query migration version: %v", err)
		if strings.Contains(err.Error(), "does not exist") {
			message = "migrations table not found, run migrations first"
		}
		return CheckResult{Status: "fail", Message: message, LatencyMs: latency}
	}

	if dirty {
		return CheckResult{
			Status:    "fail",
			Message:   fmt.Sprintf("database in dirty migration state at version %d", version),
			LatencyMs: latency,
		}
	}

	return CheckResult{
		Status:    "pass",
		Message:   fmt.Sprintf("migrations applied (version %d)", version),
		LatencyMs: latency,
	}
}
