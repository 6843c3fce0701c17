// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/dropDatabas3/exercisetracker/internal/http/dto"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
)

// Estados agregados.
const (
	StatusReady       = "ready"
	StatusDegraded    = "degraded"
	StatusUnavailable = "unavailable"
)

// Service define las operaciones de health check.
type Service interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	StoreCheck func(ctx context.Context) error // crítico
	CacheCheck func(ctx context.Context) error // no crítico
	CacheKind  string
	Version    string
	Timeout    time.Duration
}

type service struct {
	deps Deps
}

// NewService crea un nuevo service de health check.
func NewService(deps Deps) Service {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &service{deps: deps}
}

func (s *service) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()

	var storeStatus, cacheStatus dto.HealthStatus
	var wg conc.WaitGroup
	wg.Go(func() { storeStatus = probe(ctx, s.deps.StoreCheck, "store not configured") })
	wg.Go(func() { cacheStatus = probe(ctx, s.deps.CacheCheck, s.deps.CacheKind+" cache has no probe") })
	wg.Wait()

	response := dto.HealthResponse{
		Version: s.deps.Version,
		Components: map[string]dto.HealthStatus{
			"store": storeStatus,
			"cache": cacheStatus,
		},
		Timestamp: time.Now().UTC(),
	}

	switch {
	case storeStatus.Status != "ok":
		response.Status = StatusUnavailable
		log.Error("store unavailable", logger.String("message", storeStatus.Message))
	case cacheStatus.Status == "error":
		response.Status = StatusDegraded
		log.Warn("cache unavailable", logger.String("message", cacheStatus.Message))
	default:
		response.Status = StatusReady
	}
	return response
}

func probe(ctx context.Context, check func(context.Context) error, disabledMsg string) dto.HealthStatus {
	if check == nil {
		return dto.HealthStatus{Status: "disabled", Message: disabledMsg}
	}
	start := time.Now()
	err := check(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return dto.HealthStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err), LatencyMs: latency}
	}
	return dto.HealthStatus{Status: "ok", LatencyMs: latency}
}
