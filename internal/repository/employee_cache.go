package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/bazaar/internal/metrics"
	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/redis/go-redis/v9"
)

const employeeCacheKey = "bazaar:employee:uid:%d"

// CachedDirectory serves employee lookups by user ID from redis and falls back to
// the wrapped finder on a miss. Lookups by full name always go to the finder.
type CachedDirectory struct {
	log     *slog.Logger
	finder  EmployeeFinder
	cache   redis.Cmdable
	metrics *metrics.Metrics
	ttl     time.Duration
}

// NewCachedDirectory wraps finder with a redis cache whose entries expire after ttl.
func NewCachedDirectory(
	log *slog.Logger,
	finder EmployeeFinder,
	cache redis.Cmdable,
	m *metrics.Metrics,
	ttl time.Duration,
) *CachedDirectory {
	return &CachedDirectory{log: log, finder: finder, cache: cache, metrics: m, ttl: ttl}
}

// Employee implements EmployeeFinder. Cache failures are logged and never returned.
func (d *CachedDirectory) Employee(ctx context.Context, lookup models.EmployeeLookup) (models.Employee, error) {
	if lookup.UserID == 0 {
		return d.finder.Employee(ctx, lookup)
	}

	key := fmt.Sprintf(employeeCacheKey, lookup.UserID)

	cached, err := d.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		var employee models.Employee
		if json.Unmarshal([]byte(cached), &employee) == nil {
			d.metrics.CacheOps.WithLabelValues("get", "hit").Inc()
			return employee, nil
		}
		d.log.WarnContext(ctx, "Dropping malformed cached employee", "key", key)
		d.metrics.CacheOps.WithLabelValues("get", "error").Inc()
	case errors.Is(err, redis.Nil):
		d.metrics.CacheOps.WithLabelValues("get", "miss").Inc()
	default:
		d.log.WarnContext(ctx, "Failed to read employee from cache", "key", key, "error", err)
		d.metrics.CacheOps.WithLabelValues("get", "error").Inc()
	}

	startTime := time.Now()
	employee, err := d.finder.Employee(ctx, lookup)
	d.metrics.DBQueryDuration.WithLabelValues("get_employee").Observe(time.Since(startTime).Seconds())
	if err != nil {
		return models.Employee{}, err
	}

	payload, err := json.Marshal(employee)
	if err != nil {
		d.log.ErrorContext(ctx, "Failed to marshal employee for caching", "user_id", lookup.UserID, "error", err)
		d.metrics.CacheOps.WithLabelValues("set", "error").Inc()
		return employee, nil
	}
	if err = d.cache.Set(ctx, key, payload, d.ttl).Err(); err != nil {
		d.log.WarnContext(ctx, "Failed to save employee to cache", "user_id", lookup.UserID, "error", err)
		d.metrics.CacheOps.WithLabelValues("set", "error").Inc()
		return employee, nil
	}
	d.metrics.CacheOps.WithLabelValues("set", "success").Inc()

	return employee, nil
}
