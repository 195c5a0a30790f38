package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"sragops/vigil/pkg/audit/digest"
	"sragops/vigil/pkg/cli"
	"sragops/vigil/pkg/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the engine's operational surface",
	Long: `Run the long-lived operational surface of the audit engine:

  - Serves Prometheus metrics on the configured listen address
  - Runs the scheduled audit digest, if configured
  - Watches the config file and warns when a restart is required

The engine's validation and audit APIs are consumed in-process by the
analysis and report pipelines; run only hosts the supporting jobs.

Examples:
  vigil run --config /etc/vigil/config.yaml`,
	RunE: runEngine,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runEngine(cmd *cobra.Command, args []string) error {
	a, err := newApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cli.SetupSignalHandler())
	defer cancel()

	log := slog.Default().With("component", "run")

	// Scheduled audit digest
	sched := digest.NewScheduler(a.decisions, digest.Config{
		Schedule:    a.cfg.Audit.Digest.Schedule,
		WindowHours: a.cfg.Audit.Digest.WindowHours,
	})
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	// Restart-required watcher for the config file
	if cfgFile != "" {
		watcher, err := config.NewWatcher(cfgFile)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Watch(ctx, nil); err != nil {
				log.Error("config watcher exited", "error", err)
			}
		}()
	}

	// Metrics endpoint
	var server *http.Server
	if a.collector != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.collector.Handler())
		server = &http.Server{
			Addr:         a.cfg.Metrics.ListenAddress,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			log.Info("metrics endpoint listening", "address", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", "error", err)
				cancel()
			}
		}()
	}

	log.Info("vigil running", "audit_backend", a.cfg.Audit.Backend)
	<-ctx.Done()

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown failed", "error", err)
		}
	}

	log.Info("vigil stopped")
	return nil
}
