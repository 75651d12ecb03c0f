package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/domain/pools"
	"github.com/adify/rewards/internal/domain/valuation"
	"github.com/adify/rewards/internal/gateways/database/models"
	"github.com/adify/rewards/internal/metrics"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type PoolReader interface {
	ListPools(ctx context.Context, month string) ([]*models.RevenuePool, error)
	ListPoolsByCountry(ctx context.Context, country string) ([]*models.RevenuePool, error)
}

type PoolBuilder interface {
	BuildMonthlyPools(ctx context.Context, month string) (*pools.BuildResult, error)
}

type PoolDistributor interface {
	Distribute(ctx context.Context, poolID int64) (*pools.DistributionResult, error)
}

type ValuationReader interface {
	Latest(ctx context.Context, country string, at time.Time) (*valuation.Valuation, error)
	All(ctx context.Context) ([]*valuation.Valuation, error)
}

type ValuationRefresher interface {
	RunOnce(ctx context.Context) (int, error)
}

type RateRecorder interface {
	RecordRate(ctx context.Context, base, target string, value decimal.Decimal, effective time.Time) (*models.ExchangeRate, error)
}

// Deps are the services behind the admin API. DB and Metrics may be nil.
type Deps struct {
	DB          Pinger
	Pools       PoolReader
	Builder     PoolBuilder
	Distributor PoolDistributor
	Valuations  ValuationReader
	Refresher   ValuationRefresher
	Rates       RateRecorder
	Metrics     *metrics.Metrics
}

type Server struct {
	app     *fiber.App
	cfg     config.APIConfig
	deps    Deps
	version string
	now     func() time.Time
}

func New(cfg config.APIConfig, deps Deps, version string) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               config.AppName,
			ServerHeader:          "Adify-Rewards",
			ErrorHandler:          ErrorHandler,
			DisableStartupMessage: true,
		}),
		cfg:     cfg,
		deps:    deps,
		version: version,
		now:     time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	s.app.Use(LoggingMiddleware(s.deps.Metrics))

	s.app.Get("/health", s.health)
	if s.deps.Metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.deps.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	auth := AdminRequired(s.cfg.AdminToken)
	limit := limiter.New(limiter.Config{
		Max:        config.AdminRateLimit,
		Expiration: config.AdminRateLimitWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return sendError(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
		},
	})

	rp := s.app.Group("/revenue-pools", limit, auth)
	rp.Get("/", s.listPools)
	rp.Post("/initialize", s.initializePools)
	rp.Post("/update-rates", s.updateRates)
	rp.Post("/:id/distribute", s.distributePool)
	rp.Get("/:country", s.poolsByCountry)

	vals := s.app.Group("/valuations", limit, auth)
	vals.Get("/", s.listValuations)
	vals.Get("/:country", s.latestValuation)

	s.app.Post("/exchange-rates", limit, auth, s.recordExchangeRate)

	s.app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "the requested endpoint does not exist")
	})
}

func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks until the server stops.
func (s *Server) Listen() error {
	slog.Info("Starting admin API",
		slog.String("type", "api"),
		slog.String("address", s.cfg.Addr()))
	return s.app.Listen(s.cfg.Addr())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
