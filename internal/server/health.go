package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
)

type DBPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger is satisfied by *redis.Client.
type CachePinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthChecker struct {
	db    DBPinger
	cache CachePinger
	log   *slog.Logger
}

func NewHealthChecker(log *slog.Logger, db DBPinger, cache CachePinger) *HealthChecker {
	return &HealthChecker{db: db, cache: cache, log: log}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	h.log.DebugContext(ctx, "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: DB ping", "error", err)
	} else {
		status["database"] = "ok"
	}

	// The cache only speeds up employee lookups, so it degrades the report without
	// failing it.
	if h.cache != nil {
		if err := h.cache.Ping(ctx).Err(); err != nil {
			status["cache"] = "degraded"
			h.log.WarnContext(ctx, "Health check: cache ping failed", "error", err)
		} else {
			status["cache"] = "ok"
		}
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(ctx, "Failed to write health check response", "error", err)
	}

	h.log.DebugContext(ctx, "Health checks completed", "status", overallStatus)
}
