package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	appLog "fullcal/internal/log"
	"fullcal/internal/metrics"
	"fullcal/internal/source"
	"fullcal/internal/web"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the month calendar over HTTP and refresh sources on schedule",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "HTTP listen address (overrides config if set)"},
		},
		Action: runServe,
	}
}

func runServe(parent context.Context, cmd *cli.Command) error {
	appLog.Info("fullcal starting", "version", version)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if l := cmd.String("listen"); l != "" {
		cfg.Listen = l
	}

	appLog.Info("effective config",
		"listen", cfg.Listen,
		"week_start", cfg.WeekStart,
		"locale", cfg.Locale,
		"refresh", cfg.RefreshCron,
		"events_file", cfg.EventsFile,
		"ics_count", len(cfg.ICS),
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	metrics.Init()

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}
	if err := store.Refresh(ctx); err != nil {
		appLog.Error("initial refresh incomplete", err)
	}

	sched, err := source.NewScheduler(store, cfg.RefreshCron, 2*time.Minute)
	if err != nil {
		return err
	}
	sched.Start(ctx)
	appLog.Info("next refresh scheduled", "at", sched.Next().Format(time.RFC3339))

	srv, err := web.NewServer(cfg, store)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP shutdown failed", err)
	}
	appLog.Info("fullcal exiting")
	return nil
}
