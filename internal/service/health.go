package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Version is reported by the system health endpoint. Release builds set it
// with -ldflags "-X github.com/easycontent/contentgen/internal/service.Version=...".
var Version = "dev"

// Pinger is anything that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger adapts a go-redis client. A nil client reports the cache as
// disabled.
type RedisPinger struct{ Client *redis.Client }

// errCacheDisabled is what RedisPinger reports without a client.
var errCacheDisabled = errors.New("cache disabled")

func (p RedisPinger) Ping(ctx context.Context) error {
	if p.Client == nil {
		return errCacheDisabled
	}
	return p.Client.Ping(ctx).Err()
}

// HealthReport is the system health view for admins.
type HealthReport struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	GeminiAPI string    `json:"gemini_api"`
	Cache     string    `json:"cache"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthService checks the service's dependencies.
type HealthService struct {
	db        Pinger
	cache     Pinger
	generator bool
	now       func() time.Time
}

// NewHealthService takes the database, an optional cache (nil when Redis is
// not configured) and whether a generator is configured.
func NewHealthService(db Pinger, cache Pinger, generatorConfigured bool) *HealthService {
	return &HealthService{db: db, cache: cache, generator: generatorConfigured, now: time.Now}
}

// Check reports "healthy" unless the database is unreachable. A missing
// cache or generator degrades features but does not make the service
// unhealthy.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	r := HealthReport{
		Status:    "healthy",
		Database:  "connected",
		GeminiAPI: "configured",
		Cache:     "disabled",
		Version:   Version,
		Timestamp: s.now().UTC(),
	}
	if err := s.db.Ping(ctx); err != nil {
		r.Status = "unhealthy"
		r.Database = "disconnected"
	}
	if !s.generator {
		r.GeminiAPI = "not_configured"
	}
	if s.cache != nil {
		switch err := s.cache.Ping(ctx); {
		case err == nil:
			r.Cache = "connected"
		case errors.Is(err, errCacheDisabled):
			r.Cache = "disabled"
		default:
			r.Cache = "disconnected"
		}
	}
	return r
}
