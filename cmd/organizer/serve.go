package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/PabloGalante/organizer-agent/internal/adapters/http"
	"github.com/PabloGalante/organizer-agent/internal/app/reminders"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and websocket API",
		Long: `Start the organizer API. REST endpoints manage members, assignments,
events and preferences; /ws carries chat messages and pushes reminders.

Examples:
  organizer serve
  organizer serve --port 9090
  ORGANIZER_USE_MOCK_LLM=1 organizer serve`,
		RunE: runServe,
	}

	cmd.Flags().Int("port", 0, "override listen port")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Listen.Port = port
	}

	logger, err := setupLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}
	if path != "" {
		logger.Info("config loaded", "path", path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	hub := httpadapter.NewHub(a.conv)

	var sched *reminders.Scheduler
	if cfg.Reminders.Enabled {
		sched, err = reminders.NewScheduler(a.reminders, hub, cfg.Reminders.Schedule)
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr: cfg.Listen.Addr(),
		Handler: httpadapter.NewServer(httpadapter.Deps{
			Conversation: a.conv,
			Organizer:    a.store,
			Reminders:    a.reminders,
			Hub:          hub,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("organizer API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received, stopping...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if sched != nil {
		g.Go(func() error {
			logger.Info("reminder scheduler started", "schedule", cfg.Reminders.Schedule)
			return sched.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
