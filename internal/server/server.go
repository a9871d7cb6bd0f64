// Package server assembles the HTTP API from configuration: MySQL, the
// optional Redis and RabbitMQ integrations, services, handlers and routes.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/easycontent/contentgen/internal/config"
	"github.com/easycontent/contentgen/internal/database"
	"github.com/easycontent/contentgen/internal/handler"
	"github.com/easycontent/contentgen/internal/middleware"
	"github.com/easycontent/contentgen/internal/queue"
	"github.com/easycontent/contentgen/internal/repository"
	"github.com/easycontent/contentgen/internal/router"
	"github.com/easycontent/contentgen/internal/service"
	"github.com/easycontent/contentgen/internal/utils"
)

// Server owns the Echo instance and the connections it was built on.
type Server struct {
	cfg       config.Config
	echo      *echo.Echo
	db        *sql.DB
	redis     *redis.Client
	publisher *service.AMQPPublisher
	logDir    string
}

// Options tweak how New builds the server.
type Options struct {
	// ActivityLogDir is where the activity consumer writes activity.log.
	ActivityLogDir string
}

// New connects to MySQL (required) and Redis (optional) and wires the API.
func New(ctx context.Context, cfg config.Config, opts Options) (*Server, error) {
	lvl, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	tokens, err := utils.NewTokenIssuer(utils.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Server{cfg: cfg, db: db, logDir: opts.ActivityLogDir}
	if s.logDir == "" {
		s.logDir = "logs"
	}
	s.redis = config.NewRedisClient(config.LoadRedisConfig())

	var events service.EventPublisher
	if cfg.AMQPURL != "" {
		s.publisher = service.NewAMQPPublisher(cfg.AMQPURL, 256)
		events = s.publisher
	}

	var gen service.Generator
	g, err := service.NewGeminiClient(ctx, cfg.Gemini)
	if err != nil {
		_ = db.Close()
		if s.redis != nil {
			_ = s.redis.Close()
		}
		return nil, err
	}
	if g != nil {
		gen = g
	} else {
		log.Warn("GEMINI_API_KEY is not set; content generation is disabled")
	}

	users := repository.NewUserRepo(db)
	contents := repository.NewContentRepo(db)
	templates := repository.NewTemplateRepo(db)
	stats := repository.NewStatsRepo(db)

	var cachePinger service.Pinger
	if s.redis != nil {
		cachePinger = service.RedisPinger{Client: s.redis}
	}

	cacheCfg := config.LoadCacheConfig()
	admin := service.NewAdminService(users, contents, templates, stats, cfg.BcryptCost, events).
		WithCatalogCache(middleware.NewRouteCache(cacheCfg, s.redis, router.DefaultTemplatesPath))

	deps := Deps{
		Auth:      service.NewAuthService(users, tokens, cfg.BcryptCost, events),
		Contents:  service.NewContentService(contents, templates, gen, events),
		Templates: service.NewTemplateService(templates, events),
		Admin:     admin,
		Health:    service.NewHealthService(stats, cachePinger, gen != nil),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), s.redis),
		Cache:     middleware.NewRedisCache(cacheCfg, s.redis),
	}
	s.echo = Build(lvl, deps)
	return s, nil
}

// Deps are the collaborators Build mounts. RateLimit and Cache may be nil.
type Deps struct {
	Auth      *service.AuthService
	Contents  handler.Contents
	Templates handler.Templates
	Admin     handler.AdminOperations
	Health    handler.HealthChecker
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// Build returns an Echo instance with every route mounted.
func Build(lvl log.Lvl, d Deps) *echo.Echo {
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if d.RateLimit == nil {
		d.RateLimit = passthrough
	}
	if d.Cache == nil {
		d.Cache = passthrough
	}

	e := router.New(lvl)
	authn := middleware.Authenticate(d.Auth)
	requireAdmin := middleware.RequireAdmin(d.Auth)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(d.Auth), authn)
	router.RegisterTemplates(e, handler.NewTemplateHandler(d.Templates), authn, d.Cache)
	router.RegisterContent(e, handler.NewContentHandler(d.Contents), authn, d.RateLimit)
	router.RegisterAdmin(e, handler.NewAdminHandler(d.Admin, d.Health), authn, requireAdmin)
	return e
}

// Echo exposes the configured instance, mainly for tests.
func (s *Server) Echo() *echo.Echo { return s.echo }

// Start serves HTTP until SIGINT/SIGTERM or ctx is done, then drains
// in-flight requests for up to ten seconds. Background workers (activity
// publisher and consumer) run for the lifetime of the server.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.close()

	if s.publisher != nil {
		go s.publisher.Run(ctx)
		go func() {
			if err := queue.StartActivityConsumer(ctx, s.cfg.AMQPURL, s.logDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("activity-consumer: %v", err)
			}
		}()
	}

	addr := ":" + s.cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s (env=%s)", addr, s.cfg.Env)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
