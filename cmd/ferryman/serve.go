package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ferryman/internal/api"
	"ferryman/internal/notifications"
	"ferryman/internal/scheduler"
	"ferryman/internal/services"

	"github.com/gorilla/mux"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the HTTP API until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.repo.Close()

	sched, err := scheduler.New(cfg, eng.repo, eng.runner)
	if err != nil {
		return err
	}
	groups := services.NewGroupService(eng.repo, eng.runner)
	alerts := notifications.NewPushoverNotifier(cfg)

	if err := eng.mounts.MountAll(ctx); err != nil {
		slog.Warn("some network drives could not be mounted", "error", err)
		sendAlert(ctx, alerts, "Mount Failure", fmt.Sprintf("Network drives could not be mounted at startup: %v", err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.GetMounts().Timeout)
		defer cancel()
		if err := eng.mounts.Close(closeCtx); err != nil {
			slog.Error("failed to release mounts", "error", err)
		}
	}()

	router := mux.NewRouter()
	api.NewHandlers(cfg, eng.repo, sched, groups, eng.gatekeeper).RegisterRoutes(router)

	serverConfig := cfg.GetServer()
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var g run.Group
	{
		// Termination handler.
		term := make(chan os.Signal, 1)
		signal.Notify(term, os.Interrupt, syscall.SIGTERM)
		cancel := make(chan struct{})
		g.Add(
			func() error {
				select {
				case sig := <-term:
					slog.Info("shutdown signal received, initiating graceful shutdown", "signal", sig.String())
				case <-cancel:
				}
				return nil
			},
			func(error) {
				signal.Stop(term)
				close(cancel)
			},
		)
	}
	{
		// Scheduler.
		schedCtx, cancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				if err := sched.Start(schedCtx); err != nil {
					return fmt.Errorf("failed to start scheduler: %w", err)
				}
				<-schedCtx.Done()
				return nil
			},
			func(error) {
				cancel()
				if err := sched.Stop(); err != nil {
					slog.Error("scheduler shutdown error", "error", err)
				}
			},
		)
	}
	{
		// HTTP server.
		g.Add(
			func() error {
				slog.Info("starting HTTP server", "addr", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("HTTP server error: %w", err)
				}
				return nil
			},
			func(error) {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("HTTP server shutdown error", "error", err)
				}
			},
		)
	}
	{
		// Configuration reload.
		changes := cfg.WatchForChanges()
		cancel := make(chan struct{})
		g.Add(
			func() error {
				for {
					select {
					case <-cancel:
						return nil
					case <-changes:
						slog.Info("configuration changed, updating logging")
						setupLogging(cfg.GetLogging())
					}
				}
			},
			func(error) {
				close(cancel)
			},
		)
	}

	err = g.Run()

	if scheduled := len(sched.Registered()); scheduled > 0 && err == nil {
		sendAlert(context.Background(), alerts, "Service Shutdown",
			fmt.Sprintf("Ferryman is shutting down. %d scheduled job(s) resume on restart.", scheduled))
	}

	slog.Info("shutdown completed")
	return err
}

func sendAlert(ctx context.Context, alerts *notifications.PushoverNotifier, title, message string) {
	if !alerts.IsEnabled() {
		return
	}
	if err := alerts.NotifySystemAlert(ctx, title, message, 1); err != nil {
		slog.Warn("failed to send system alert", "title", title, "error", err)
	}
}
