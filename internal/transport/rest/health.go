package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"

	healthTimeout = 2 * time.Second
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type poolStats interface {
	Stats() sql.DBStats
}

// CheckFunc checks one component. Returned details are attached to the entry.
type CheckFunc func(ctx context.Context) (map[string]any, error)

type HealthHandler struct {
	names  []string
	checks map[string]CheckFunc
}

// NewHealthHandler reports db under the given component name, usually the driver.
func NewHealthHandler(db Pinger, component string) *HealthHandler {
	if component == "" {
		component = "database"
	}
	h := &HealthHandler{checks: make(map[string]CheckFunc)}
	return h.WithCheck(component, databaseCheck(db))
}

// WithCheck adds a named component to the report.
func (h *HealthHandler) WithCheck(name string, check CheckFunc) *HealthHandler {
	if _, exists := h.checks[name]; !exists {
		h.names = append(h.names, name)
	}
	h.checks[name] = check
	return h
}

func databaseCheck(db Pinger) CheckFunc {
	return func(ctx context.Context) (map[string]any, error) {
		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}
		stats, ok := db.(poolStats)
		if !ok {
			return nil, nil
		}
		s := stats.Stats()
		return map[string]any{
			"open_connections": s.OpenConnections,
			"in_use":           s.InUse,
			"idle":             s.Idle,
		}, nil
	}
}

// Ping only says the service is up.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// Health runs every check concurrently; any failure turns the response into a 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]CheckEntry, len(h.names)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range h.names {
		check := h.checks[name]
		g.Go(func() error {
			start := time.Now()
			details, err := check(gctx)
			entry := CheckEntry{
				Status:     HealthHealthy,
				Details:    details,
				CheckedAt:  time.Now(),
				DurationMs: time.Since(start).Milliseconds(),
			}
			if err != nil {
				entry.Status = HealthUnhealthy
				entry.Message = err.Error()
			}

			mu.Lock()
			resp.Components[name] = entry
			if entry.Status == HealthUnhealthy {
				resp.Status = HealthUnhealthy
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	resp.CheckedAt = time.Now()

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
