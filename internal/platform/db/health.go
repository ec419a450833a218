package db

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	OpenConns    int    `json:"open_conns"`
	IdleConns    int    `json:"idle_conns"`
	InUse        int    `json:"in_use"`
	MaxConns     int    `json:"max_conns"`
	WaitCount    int64  `json:"wait_count"`
	WaitDuration string `json:"wait_duration"`
	Healthy      bool   `json:"healthy"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(conn *sql.DB) *PoolStats {
	stat := conn.Stats()
	return &PoolStats{
		OpenConns:    stat.OpenConnections,
		IdleConns:    stat.Idle,
		InUse:        stat.InUse,
		MaxConns:     stat.MaxOpenConnections,
		WaitCount:    stat.WaitCount,
		WaitDuration: stat.WaitDuration.String(),
		Healthy:      stat.OpenConnections > 0,
	}
}

// Check pings the database and reports pool statistics.
func Check(ctx context.Context, conn *sql.DB) (*PoolStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := conn.PingContext(ctx)
	stats := GetPoolStats(conn)
	stats.Healthy = err == nil
	return stats, err
}

// Health is the body of the health endpoint.
type Health struct {
	Status  string     `json:"status"`
	Backend string     `json:"backend"`
	Pool    *PoolStats `json:"pool,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Probe reports the active backend and, for a relational one, its pool. A nil
// pool means there is no database to ping.
type Probe func() (backend string, pool *sql.DB)

// HealthHandler serves the backend kind and pool health.
func HealthHandler(probe Probe) echo.HandlerFunc {
	return func(c echo.Context) error {
		backend, pool := probe()
		h := Health{Status: "healthy", Backend: backend}
		if pool == nil {
			return c.JSON(http.StatusOK, h)
		}

		stats, err := Check(c.Request().Context(), pool)
		h.Pool = stats
		if err != nil {
			h.Status = "unhealthy"
			h.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, h)
		}
		return c.JSON(http.StatusOK, h)
	}
}
