package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"grievance/internal/components"
	"grievance/internal/config"
)

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		components.SetupLogger(os.Getenv("ENV")).Error("load config failed", "err", err)
		return err
	}
	logger := components.SetupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps, err := components.InitComponents(ctx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", "err", err)
		return err
	}

	// the dispatcher outlives the HTTP server so events emitted by
	// in-flight requests are still flushed
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stopDispatch()
		err := comps.HttpServer.Run(gctx)
		logger.Info("http server stopped")
		return err
	})
	g.Go(func() error {
		return comps.Dispatcher.Run(dispatchCtx)
	})

	<-gctx.Done()
	logger.Info("shutdown initiated", "reason", context.Cause(gctx).Error())

	err = g.Wait()
	if err != nil {
		logger.Error("service stopped with error", "err", err)
	}

	logger.Info("shutting down the services...")
	comps.ShutdownAll()
	logger.Info("gracefully shut down")

	return err
}
