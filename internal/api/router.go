package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grievance/internal/api/handlers/http/complaints"
	"grievance/internal/api/handlers/http/system"
	"grievance/internal/api/handlers/ws"
	"grievance/internal/config"
	"grievance/internal/domain"
	"grievance/internal/middleware"
	"grievance/internal/service"
)

const visitorTTL = 10 * time.Minute

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

// Deps are the cross-cutting collaborators the router needs besides the
// domain services.
type Deps struct {
	Guard      middleware.Authenticator
	Subscriber ws.Subscriber
	Observer   middleware.HTTPObserver
	Gatherer   prometheus.Gatherer
	Health     map[string]system.Pinger
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, svc *service.Service, deps Deps) *Server {
	complaintHandler := complaints.NewHandler(logger, svc.Complaints, svc.Stats, svc.Geo)
	systemHandler := system.NewHandler(logger, deps.Health)
	gateway := ws.NewGateway(ctx, logger, deps.Subscriber)

	r := InitRouter(ctx, cfg, complaintHandler, systemHandler, gateway, deps, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(ctx context.Context, cfg *config.Config, complaintHandler *complaints.Handler, systemHandler *system.Handler, gateway *ws.Gateway, deps Deps, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	if deps.Observer != nil {
		r.Use(middleware.Instrument(deps.Observer))
	}

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(api chi.Router) {
		// SYSTEM
		api.Get("/health", systemHandler.SystemHealth)

		limit := middleware.Limit(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst, visitorTTL, logger)

		api.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(deps.Guard, logger))
			pr.Use(limit)

			// REALTIME
			pr.Get("/ws", gateway.ServeWS)

			// COMPLAINTS
			pr.Route("/complaints", func(cr chi.Router) {
				cr.Post("/", complaintHandler.ComplaintCreate)
				cr.Get("/", complaintHandler.ComplaintList)
				cr.Get("/nearby", complaintHandler.ComplaintNearby)

				cr.Route("/{id}", func(ir chi.Router) {
					ir.Get("/", complaintHandler.ComplaintGet)
					ir.Put("/", complaintHandler.ComplaintUpdateStatus)
					ir.Put("/status", complaintHandler.ComplaintUpdateStatus)
					ir.Delete("/", complaintHandler.ComplaintDelete)
					ir.Post("/comments", complaintHandler.ComplaintComment)
					ir.Post("/feedback", complaintHandler.ComplaintFeedback)
				})
			})

			// GEO
			pr.Route("/geo", func(gr chi.Router) {
				gr.Get("/geocode", complaintHandler.GeoGeocode)
				gr.Get("/reverse", complaintHandler.GeoReverse)
				gr.Get("/district", complaintHandler.GeoDistrict)
			})
		})

		// ADMIN
		api.Group(func(ar chi.Router) {
			ar.Use(middleware.Authenticate(deps.Guard, logger, domain.RoleAdmin))
			ar.Use(limit)

			ar.Get("/admin/stats", complaintHandler.AdminStats)
		})
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
