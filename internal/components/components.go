package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"grievance/internal/api"
	"grievance/internal/api/handlers/http/system"
	"grievance/internal/api/handlers/ws"
	"grievance/internal/auth"
	"grievance/internal/config"
	"grievance/internal/geo"
	"grievance/internal/metrics"
	"grievance/internal/notify"
	"grievance/internal/redis"
	"grievance/internal/service"
	"grievance/internal/storage/postgres"
	"grievance/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Dispatcher *notify.Dispatcher
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
}

// InitComponents connects the stores and wires every service. ctx bounds
// the lifetime of background helpers such as open websocket connections.
func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")

	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	region := geo.Bounds{
		MinLng: cfg.Region.MinLng,
		MaxLng: cfg.Region.MaxLng,
		MinLat: cfg.Region.MinLat,
		MaxLat: cfg.Region.MaxLat,
	}

	// stays a nil interface when disabled so services can tell
	var geocoder service.Geocoder
	if cfg.Geocoder.Disabled {
		logger.Warn("Geocoder disabled, complaints will not be enriched")
	} else {
		geocoder = geo.NewCachedGeocoder(
			geo.NewNominatim(cfg.Geocoder, logger),
			redis.NewGeocodeCache(redisClient),
			cfg.Geocoder.CacheTTL,
			logger,
			m,
		)
	}

	bus := redis.NewNotificationBus(redisClient.Client)
	dispatcher := notify.NewDispatcher(bus, cfg.Notify.Shards, cfg.Notify.Buffer, logger, m)

	complaintSvc := service.NewComplaintService(storage.ComplaintStore(), geocoder, dispatcher, logger, service.ComplaintOptions{
		Region:       region,
		NotifyAdmins: cfg.Notify.NotifyAdmins,
		Observer:     m,
	})
	statsSvc := service.NewStatsService(storage.StatsStore(), m, nil)
	geoSvc := service.NewGeoService(geocoder, region)

	srv := service.NewService(complaintSvc, statsSvc, geoSvc)

	httpServer := api.NewServer(ctx, cfg, logger, srv, api.Deps{
		Guard: auth.NewGuard(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Subscriber: ws.SubscriberFunc(func(ctx context.Context, subjectID string, staff bool) (ws.Stream, error) {
			sub, err := bus.Subscribe(ctx, subjectID, staff)
			if err != nil {
				return nil, err
			}
			return sub, nil
		}),
		Observer: m,
		Gatherer: reg,
		Health: map[string]system.Pinger{
			"postgres": storage.Pool,
			"redis":    redisClient,
		},
	})
	logger.Info("Initialized server")

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Dispatcher: dispatcher,
		Postgres:   storage,
		Redis:      redisClient,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Component shutdown started")

	c.Postgres.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
